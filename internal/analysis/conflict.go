package analysis

import (
	"context"
	"sort"

	"ignitrack/internal/types"

	"go.uber.org/zap"
)

// PredictedConflict represents one resource likely to conflict on merge
type PredictedConflict struct {
	Resource     string             `json:"resource"`
	ResourceType types.ResourceType `json:"resource_type"`
	Changes      int                `json:"changes"`
	RiskLevel    types.RiskLevel    `json:"risk_level"`
	Dependents   []string           `json:"dependents,omitempty"`
}

// ConflictPrediction represents the predicted merge outcome for two branches
type ConflictPrediction struct {
	SourceBranch        string              `json:"source_branch"`
	TargetBranch        string              `json:"target_branch"`
	PredictedConflicts  []PredictedConflict `json:"predicted_conflicts"`
	ConflictProbability float64             `json:"conflict_probability"`
	RiskLevel           types.RiskLevel     `json:"risk_level"`
	Status              Status              `json:"status"`
}

// ConflictOptions represents the inputs to a conflict prediction
type ConflictOptions struct {
	SourceBranch string
	TargetBranch string
	Detailed     bool
}

// MergeConflictPredictor estimates overlapping-resource conflicts between two
// branches. Actual diff/merge execution is out of scope; the prediction is a
// heuristic over the tracked change stream, so results always carry the
// placeholder status.
type MergeConflictPredictor struct {
	changes ChangeSource
	deps    *DependencyAnalyzer
	logger  *zap.Logger
}

// NewMergeConflictPredictor creates a new conflict predictor
func NewMergeConflictPredictor(changes ChangeSource, deps *DependencyAnalyzer, logger *zap.Logger) *MergeConflictPredictor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MergeConflictPredictor{changes: changes, deps: deps, logger: logger}
}

// PredictConflicts flags resources touched more than once in the recent change
// stream as likely merge conflicts.
func (p *MergeConflictPredictor) PredictConflicts(ctx context.Context, opts ConflictOptions) (*ConflictPrediction, error) {
	if opts.TargetBranch == "" {
		opts.TargetBranch = "main"
	}

	prediction := &ConflictPrediction{
		SourceBranch:       opts.SourceBranch,
		TargetBranch:       opts.TargetBranch,
		PredictedConflicts: []PredictedConflict{},
		RiskLevel:          types.RiskLow,
		Status:             StatusPlaceholder,
	}

	counts := make(map[string]int)
	levels := make(map[string]types.RiskLevel)
	resourceTypes := make(map[string]types.ResourceType)
	for _, rec := range p.changes.RecentChanges(recentChangeWindow) {
		counts[rec.FilePath]++
		resourceTypes[rec.FilePath] = rec.ResourceType
		if riskRank(rec.RiskLevel) > riskRank(levels[rec.FilePath]) {
			levels[rec.FilePath] = rec.RiskLevel
		}
	}

	var paths []string
	for path, n := range counts {
		if n > 1 {
			paths = append(paths, path)
		}
	}
	sort.Strings(paths)

	for _, path := range paths {
		conflict := PredictedConflict{
			Resource:     path,
			ResourceType: resourceTypes[path],
			Changes:      counts[path],
			RiskLevel:    levels[path],
		}
		if opts.Detailed && p.deps != nil {
			depResult, err := p.deps.AnalyzeDependencies(ctx, path)
			if err != nil {
				p.logger.Warn("Dependency lookup failed during conflict prediction",
					zap.String("resource", path), zap.Error(err))
			} else {
				conflict.Dependents = depResult.Dependents
			}
		}
		prediction.PredictedConflicts = append(prediction.PredictedConflicts, conflict)

		if riskRank(conflict.RiskLevel) > riskRank(prediction.RiskLevel) {
			prediction.RiskLevel = conflict.RiskLevel
		}
	}

	probability := 0.15 * float64(len(prediction.PredictedConflicts))
	if probability > 1.0 {
		probability = 1.0
	}
	prediction.ConflictProbability = probability

	return prediction, nil
}

// riskRank orders risk levels for comparisons
func riskRank(level types.RiskLevel) int {
	switch level {
	case types.RiskCritical:
		return 3
	case types.RiskHigh:
		return 2
	case types.RiskMedium:
		return 1
	default:
		return 0
	}
}
