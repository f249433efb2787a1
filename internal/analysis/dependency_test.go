package analysis

import (
	"context"
	"errors"
	"testing"

	"ignitrack/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// fakeGraph is a canned-response GraphQuerier
type fakeGraph struct {
	rows map[string][]map[string]any
	err  error
}

func (f *fakeGraph) ExecuteQuery(_ context.Context, cypher string, _ map[string]any) ([]map[string]any, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.rows[cypher], nil
}

// fakeChangeSource replays a fixed change history
type fakeChangeSource struct {
	records []types.ChangeRecord
}

func (f *fakeChangeSource) RecentChanges(limit int) []types.ChangeRecord {
	if len(f.records) > limit {
		return f.records[:limit]
	}
	return f.records
}

// TestAnalyzeDependenciesWithoutGraph tests the placeholder contract
func TestAnalyzeDependenciesWithoutGraph(t *testing.T) {
	a := NewDependencyAnalyzer(nil, zaptest.NewLogger(t))

	result, err := a.AnalyzeDependencies(context.Background(), "tags/Line1/config.json")
	require.NoError(t, err)

	assert.Equal(t, "tags/Line1/config.json", result.Resource)
	assert.Empty(t, result.Dependencies)
	assert.Empty(t, result.Dependents)
	assert.Equal(t, StatusPlaceholder, result.Status)
}

// TestAnalyzeDependenciesWithGraph tests graph-backed resolution
func TestAnalyzeDependenciesWithGraph(t *testing.T) {
	graph := &fakeGraph{rows: map[string][]map[string]any{
		"MATCH (r:Resource {path: $path})-[:DEPENDS_ON]->(d:Resource) RETURN d.path AS path": {
			{"path": "udt/MotorType.json"},
		},
		"MATCH (r:Resource {path: $path})<-[:DEPENDS_ON]-(d:Resource) RETURN d.path AS path": {
			{"path": "perspective/views/Overview.json"},
			{"path": "alarms/pipeline.json"},
		},
	}}
	a := NewDependencyAnalyzer(graph, zaptest.NewLogger(t))

	result, err := a.AnalyzeDependencies(context.Background(), "tags/Line1/config.json")
	require.NoError(t, err)

	assert.Equal(t, StatusCompleted, result.Status)
	assert.Equal(t, []string{"udt/MotorType.json"}, result.Dependencies)
	assert.Equal(t, []string{"perspective/views/Overview.json", "alarms/pipeline.json"}, result.Dependents)
}

// TestAnalyzeDependenciesQueryError tests error propagation
func TestAnalyzeDependenciesQueryError(t *testing.T) {
	graph := &fakeGraph{err: errors.New("connection reset")}
	a := NewDependencyAnalyzer(graph, zaptest.NewLogger(t))

	_, err := a.AnalyzeDependencies(context.Background(), "tags/Line1/config.json")
	assert.Error(t, err)
}
