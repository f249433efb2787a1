package connection

import (
	"context"
	"fmt"
)

// schemaStatements are the uniqueness constraints backing the resource graph.
// Each statement is idempotent.
var schemaStatements = []string{
	"CREATE CONSTRAINT resource_path IF NOT EXISTS FOR (r:Resource) REQUIRE r.path IS UNIQUE",
	"CREATE CONSTRAINT change_id IF NOT EXISTS FOR (c:Change) REQUIRE c.id IS UNIQUE",
	"CREATE CONSTRAINT release_version IF NOT EXISTS FOR (rel:Release) REQUIRE rel.version IS UNIQUE",
}

// BootstrapSchema creates the graph constraints used by dependency analysis
func (c *GraphClient) BootstrapSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := c.ExecuteQuery(ctx, stmt, nil); err != nil {
			return fmt.Errorf("schema bootstrap failed: %w", err)
		}
	}
	return nil
}
