package analysis

import (
	"context"

	"go.uber.org/zap"
)

// DependencyResult represents the upstream/downstream relationships of one resource
type DependencyResult struct {
	Resource     string   `json:"resource"`
	Dependencies []string `json:"dependencies"`
	Dependents   []string `json:"dependents"`
	Status       Status   `json:"status"`
}

// DependencyAnalyzer resolves resource relationships. With a graph collaborator
// it queries the resource graph; without one it returns the placeholder shape.
type DependencyAnalyzer struct {
	graph  GraphQuerier
	logger *zap.Logger
}

// NewDependencyAnalyzer creates a new dependency analyzer. graph may be nil.
func NewDependencyAnalyzer(graph GraphQuerier, logger *zap.Logger) *DependencyAnalyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DependencyAnalyzer{graph: graph, logger: logger}
}

// AnalyzeDependencies returns the relationships recorded for a resource path
func (a *DependencyAnalyzer) AnalyzeDependencies(ctx context.Context, resourcePath string) (*DependencyResult, error) {
	result := &DependencyResult{
		Resource:     resourcePath,
		Dependencies: []string{},
		Dependents:   []string{},
		Status:       StatusPlaceholder,
	}

	if a.graph == nil {
		return result, nil
	}

	deps, err := a.queryPaths(ctx,
		"MATCH (r:Resource {path: $path})-[:DEPENDS_ON]->(d:Resource) RETURN d.path AS path",
		resourcePath)
	if err != nil {
		return nil, err
	}

	dependents, err := a.queryPaths(ctx,
		"MATCH (r:Resource {path: $path})<-[:DEPENDS_ON]-(d:Resource) RETURN d.path AS path",
		resourcePath)
	if err != nil {
		return nil, err
	}

	result.Dependencies = deps
	result.Dependents = dependents
	result.Status = StatusCompleted
	return result, nil
}

// queryPaths runs a single-column path query against the resource graph
func (a *DependencyAnalyzer) queryPaths(ctx context.Context, cypher, resourcePath string) ([]string, error) {
	rows, err := a.graph.ExecuteQuery(ctx, cypher, map[string]any{"path": resourcePath})
	if err != nil {
		return nil, err
	}

	paths := make([]string, 0, len(rows))
	for _, row := range rows {
		if p, ok := row["path"].(string); ok {
			paths = append(paths, p)
		}
	}
	return paths, nil
}
