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

// TestPredictConflictsFlagsRepeatedlyTouchedResources tests the overlap heuristic
func TestPredictConflictsFlagsRepeatedlyTouchedResources(t *testing.T) {
	now := time.Now()
	source := &fakeChangeSource{records: []types.ChangeRecord{
		{FilePath: "tags/a.json", ChangeType: types.ChangeModified, ResourceType: types.ResourceTagConfiguration, RiskLevel: types.RiskHigh, Timestamp: now},
		{FilePath: "tags/a.json", ChangeType: types.ChangeCreated, ResourceType: types.ResourceTagConfiguration, RiskLevel: types.RiskMedium, Timestamp: now.Add(-time.Hour)},
		{FilePath: "queries/downtime.sql", ChangeType: types.ChangeCreated, ResourceType: types.ResourceNamedQuery, RiskLevel: types.RiskLow, Timestamp: now},
	}}
	p := NewMergeConflictPredictor(source, nil, zaptest.NewLogger(t))

	prediction, err := p.PredictConflicts(context.Background(), ConflictOptions{
		SourceBranch: "feature/line2",
	})
	require.NoError(t, err)

	assert.Equal(t, "feature/line2", prediction.SourceBranch)
	assert.Equal(t, "main", prediction.TargetBranch, "target branch defaults to main")
	assert.Equal(t, StatusPlaceholder, prediction.Status)

	require.Len(t, prediction.PredictedConflicts, 1)
	conflict := prediction.PredictedConflicts[0]
	assert.Equal(t, "tags/a.json", conflict.Resource)
	assert.Equal(t, 2, conflict.Changes)
	assert.Equal(t, types.RiskHigh, conflict.RiskLevel)

	assert.InDelta(t, 0.15, prediction.ConflictProbability, 1e-9)
	assert.Equal(t, types.RiskHigh, prediction.RiskLevel)
}

// TestPredictConflictsEmptyHistory tests the quiet-repository result
func TestPredictConflictsEmptyHistory(t *testing.T) {
	p := NewMergeConflictPredictor(&fakeChangeSource{}, nil, zaptest.NewLogger(t))

	prediction, err := p.PredictConflicts(context.Background(), ConflictOptions{
		SourceBranch: "feature/empty",
		TargetBranch: "develop",
	})
	require.NoError(t, err)

	assert.Equal(t, "develop", prediction.TargetBranch)
	assert.Empty(t, prediction.PredictedConflicts)
	assert.Zero(t, prediction.ConflictProbability)
	assert.Equal(t, types.RiskLow, prediction.RiskLevel)
	assert.Equal(t, StatusPlaceholder, prediction.Status)
}

// TestPredictConflictsProbabilityIsCapped tests the probability ceiling
func TestPredictConflictsProbabilityIsCapped(t *testing.T) {
	now := time.Now()
	var records []types.ChangeRecord
	paths := []string{"a_tags.json", "b_tags.json", "c_tags.json", "d_tags.json",
		"e_tags.json", "f_tags.json", "g_tags.json", "h_tags.json"}
	for _, path := range paths {
		for i := 0; i < 2; i++ {
			records = append(records, types.ChangeRecord{
				FilePath:     path,
				ChangeType:   types.ChangeModified,
				ResourceType: types.ResourceTagConfiguration,
				RiskLevel:    types.RiskMedium,
				Timestamp:    now,
			})
		}
	}
	p := NewMergeConflictPredictor(&fakeChangeSource{records: records}, nil, zaptest.NewLogger(t))

	prediction, err := p.PredictConflicts(context.Background(), ConflictOptions{SourceBranch: "feature/busy"})
	require.NoError(t, err)

	assert.Len(t, prediction.PredictedConflicts, len(paths))
	assert.Equal(t, 1.0, prediction.ConflictProbability)
}
