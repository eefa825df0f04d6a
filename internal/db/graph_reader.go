package db

import (
	"context"
	"fmt"

	"github.com/hassaneGuedad/diagrammer/internal/models"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

type GraphReader struct {
	client *Neo4jClient
}

func NewGraphReader(client *Neo4jClient) *GraphReader {
	return &GraphReader{client: client}
}

// ReadModel rebuilds the stored model of a diagram in declaration order.
func (r *GraphReader) ReadModel(ctx context.Context, diagramID string) (*models.DiagramModel, error) {
	result, err := r.client.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		params := map[string]any{"diagramId": diagramID}

		exists, err := tx.Run(ctx, `MATCH (d:Diagram {id: $diagramId}) RETURN d.id AS id`, params)
		if err != nil {
			return nil, err
		}
		if !exists.Next(ctx) {
			return nil, exists.Err()
		}

		model := models.NewDiagramModel()

		// Entities
		records, err := tx.Run(ctx, `
			MATCH (:Diagram {id: $diagramId})-[r:DECLARES]->(e:Entity)
			RETURN properties(e) AS props
			ORDER BY r.position
		`, params)
		if err != nil {
			return nil, err
		}
		for records.Next(ctx) {
			raw, _ := records.Record().Get("props")
			props, ok := raw.(map[string]any)
			if !ok {
				continue
			}
			entity, err := entityFromProps(props)
			if err != nil {
				return nil, err
			}
			model.Classes = append(model.Classes, entity)
		}
		if err := records.Err(); err != nil {
			return nil, err
		}

		// Relationships
		records, err = tx.Run(ctx, `
			MATCH (a:TypeRef {diagramId: $diagramId})-[r:RELATES]->(b:TypeRef)
			RETURN a.name AS from, b.name AS to, r.type AS type, r.label AS label
			ORDER BY r.position
		`, params)
		if err != nil {
			return nil, err
		}
		for records.Next(ctx) {
			rec := records.Record()
			from, _ := rec.Get("from")
			to, _ := rec.Get("to")
			relType, _ := rec.Get("type")
			label, _ := rec.Get("label")

			rel := models.Relationship{
				From: fmt.Sprintf("%v", from),
				To:   fmt.Sprintf("%v", to),
				Type: models.RelationshipType(fmt.Sprintf("%v", relType)),
			}
			if s, ok := label.(string); ok {
				rel.Label = s
			}
			model.Relationships = append(model.Relationships, rel)
		}
		if err := records.Err(); err != nil {
			return nil, err
		}

		// Components
		records, err = tx.Run(ctx, `
			MATCH (:Diagram {id: $diagramId})-[h:HAS_COMPONENT]->(c:Component)
			RETURN c.name AS name
			ORDER BY h.position
		`, params)
		if err != nil {
			return nil, err
		}
		for records.Next(ctx) {
			name, _ := records.Record().Get("name")
			if s, ok := name.(string); ok {
				model.Components = append(model.Components, s)
			}
		}
		if err := records.Err(); err != nil {
			return nil, err
		}

		return model, nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to read model for diagram %s: %w", diagramID, err)
	}
	if result == nil {
		return nil, ErrNotFound
	}
	return result.(*models.DiagramModel), nil
}
