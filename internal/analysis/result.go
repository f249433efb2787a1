// Package analysis holds the analyzer contracts layered on top of the change
// tracker. Every analyzer is handed its collaborators at construction and
// returns a result carrying a typed status, so callers branch on constants
// instead of matching strings.
package analysis

import (
	"context"

	"ignitrack/internal/types"
)

// Status represents how complete an analysis result is
type Status string

const (
	// StatusCompleted marks a fully computed result
	StatusCompleted Status = "completed"

	// StatusPlaceholder marks a result satisfying the contract shape
	// without real analysis behind it
	StatusPlaceholder Status = "placeholder_implementation"
)

// ErrorKind distinguishes a disabled capability from a genuine failure
type ErrorKind string

const (
	ErrorKindDisabled ErrorKind = "disabled"
	ErrorKindFailure  ErrorKind = "failure"
)

// ChangeSource is the slice of the change tracker the analyzers consume
type ChangeSource interface {
	RecentChanges(limit int) []types.ChangeRecord
}

// GraphQuerier is the slice of the persistence collaborator used for
// dependency lookups
type GraphQuerier interface {
	ExecuteQuery(ctx context.Context, cypher string, params map[string]any) ([]map[string]any, error)
}
