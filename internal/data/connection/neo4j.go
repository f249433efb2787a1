package connection

import (
	"context"
	"fmt"

	"ignitrack/internal/data/config"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// GraphClient wraps the Neo4j driver behind the persistence-collaborator
// contract: a query runner plus a connectivity probe.
type GraphClient struct {
	driver   neo4j.DriverWithContext
	database string
}

// newNeo4j creates a new Neo4j graph client
func newNeo4j(conf *config.Neo4j) (*GraphClient, error) {
	if conf == nil || conf.URI == "" {
		return nil, fmt.Errorf("neo4j configuration is nil or empty")
	}

	driver, err := neo4j.NewDriverWithContext(conf.URI, neo4j.BasicAuth(conf.Username, conf.Password, ""))
	if err != nil {
		return nil, fmt.Errorf("neo4j connect error: %w", err)
	}

	if err := driver.VerifyConnectivity(context.Background()); err != nil {
		return nil, fmt.Errorf("neo4j verify connectivity error: %w", err)
	}

	return &GraphClient{driver: driver, database: conf.Database}, nil
}

// ExecuteQuery runs a Cypher query and returns the result rows
func (c *GraphClient) ExecuteQuery(ctx context.Context, cypher string, params map[string]any) ([]map[string]any, error) {
	result, err := neo4j.ExecuteQuery(ctx, c.driver, cypher, params,
		neo4j.EagerResultTransformer,
		neo4j.ExecuteQueryWithDatabase(c.database))
	if err != nil {
		return nil, fmt.Errorf("cypher query failed: %w", err)
	}

	rows := make([]map[string]any, 0, len(result.Records))
	for _, record := range result.Records {
		rows = append(rows, record.AsMap())
	}
	return rows, nil
}

// VerifyConnectivity probes the graph database connection
func (c *GraphClient) VerifyConnectivity(ctx context.Context) error {
	return c.driver.VerifyConnectivity(ctx)
}

// Close closes the underlying driver
func (c *GraphClient) Close(ctx context.Context) error {
	return c.driver.Close(ctx)
}
