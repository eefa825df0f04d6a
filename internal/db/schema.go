package db

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

var schemaStatements = []string{
	`CREATE CONSTRAINT diagram_id IF NOT EXISTS FOR (d:Diagram) REQUIRE d.id IS UNIQUE`,
	`CREATE INDEX entity_diagram IF NOT EXISTS FOR (e:Entity) ON (e.diagramId)`,
	`CREATE INDEX typeref_diagram IF NOT EXISTS FOR (t:TypeRef) ON (t.diagramId, t.name)`,
	`CREATE INDEX component_diagram IF NOT EXISTS FOR (c:Component) ON (c.diagramId)`,
}

// EnsureSchema creates the constraints and indexes used by the diagram
// store. Every statement is idempotent.
func (c *Neo4jClient) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		_, err := c.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
			_, err := tx.Run(ctx, stmt, nil)
			return nil, err
		})
		if err != nil {
			return fmt.Errorf("failed to apply schema statement %q: %w", stmt, err)
		}
	}
	return nil
}
