package analysis

import (
	"context"
	"testing"
	"time"

	"ignitrack/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// TestAnalyzeImpactWithFiles tests scoring over an explicit file set
func TestAnalyzeImpactWithFiles(t *testing.T) {
	a := NewCommitImpactAnalyzer(&fakeChangeSource{}, nil, zaptest.NewLogger(t))

	result, err := a.AnalyzeImpact(context.Background(), ImpactOptions{
		CommitHash: "abc1234",
		Files:      []string{"scripts/gateway/startup.py", "tags/Line1/config.json"},
		Detailed:   true,
	})
	require.NoError(t, err)

	assert.Equal(t, "abc1234", result.CommitHash)
	assert.Equal(t, StatusCompleted, result.Status)
	// Both treated as modifications: gateway script 0.8, tag config 0.6.
	assert.InDelta(t, 0.7, result.ImpactScore, 1e-9)
	assert.Equal(t, types.RiskHigh, result.RiskLevel)
	assert.Equal(t, []string{"scripts/gateway/startup.py", "tags/Line1/config.json"}, result.AffectedResources)
	require.Len(t, result.Details, 2)
}

// TestAnalyzeImpactFallsBackToRecentChanges tests the no-file-set path
func TestAnalyzeImpactFallsBackToRecentChanges(t *testing.T) {
	now := time.Now()
	source := &fakeChangeSource{records: []types.ChangeRecord{
		{FilePath: "tags/a.json", ChangeType: types.ChangeModified, ResourceType: types.ResourceTagConfiguration, RiskLevel: types.RiskHigh, Timestamp: now},
		{FilePath: "tags/a.json", ChangeType: types.ChangeCreated, ResourceType: types.ResourceTagConfiguration, RiskLevel: types.RiskMedium, Timestamp: now.Add(-time.Minute)},
	}}
	a := NewCommitImpactAnalyzer(source, nil, zaptest.NewLogger(t))

	result, err := a.AnalyzeImpact(context.Background(), ImpactOptions{})
	require.NoError(t, err)

	// Duplicate paths collapse; the newest record's change type wins.
	assert.Equal(t, []string{"tags/a.json"}, result.Files)
	// Modified tag config: 0.4 + 0.2 = 0.6.
	assert.InDelta(t, 0.6, result.ImpactScore, 1e-9)
	assert.Equal(t, types.RiskHigh, result.RiskLevel)
}

// TestAnalyzeImpactEmpty tests the zero-change result
func TestAnalyzeImpactEmpty(t *testing.T) {
	a := NewCommitImpactAnalyzer(&fakeChangeSource{}, nil, zaptest.NewLogger(t))

	result, err := a.AnalyzeImpact(context.Background(), ImpactOptions{})
	require.NoError(t, err)

	assert.Zero(t, result.ImpactScore)
	assert.Equal(t, types.RiskLow, result.RiskLevel)
	assert.Empty(t, result.AffectedResources)
}

// TestAnalyzeImpactIncludesDependents tests that graph dependents widen the
// affected set
func TestAnalyzeImpactIncludesDependents(t *testing.T) {
	graph := &fakeGraph{rows: map[string][]map[string]any{
		"MATCH (r:Resource {path: $path})<-[:DEPENDS_ON]-(d:Resource) RETURN d.path AS path": {
			{"path": "perspective/views/Overview.json"},
		},
	}}
	deps := NewDependencyAnalyzer(graph, zaptest.NewLogger(t))
	a := NewCommitImpactAnalyzer(&fakeChangeSource{}, deps, zaptest.NewLogger(t))

	result, err := a.AnalyzeImpact(context.Background(), ImpactOptions{
		Files: []string{"tags/Line1/config.json"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"perspective/views/Overview.json", "tags/Line1/config.json"}, result.AffectedResources)
}
