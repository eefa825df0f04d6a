package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hassaneGuedad/diagrammer/internal/models"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/saulfrancisco-ruizacevedo/gocypher"
)

var ErrNotFound = errors.New("diagram not found")

const diagramReturn = `
	RETURN d.id AS id, d.type AS type, d.label AS label, d.diagram AS diagram,
	       d.fileCount AS fileCount, d.source AS source, d.createdAt AS createdAt,
	       d.classes AS classes, d.components AS components,
	       d.relationships AS relationships, d.functions AS functions
`

// CreateDiagram stores the diagram node. ID and CreatedAt are assigned here
// when empty.
func CreateDiagram(ctx context.Context, client *Neo4jClient, rec *models.DiagramRecord) (*models.DiagramRecord, error) {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	_, err := client.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		query := `
			CREATE (d:Diagram {
				id: $id,
				type: $type,
				label: $label,
				diagram: $diagram,
				fileCount: $fileCount,
				source: $source,
				createdAt: $createdAt,
				classes: $classes,
				components: $components,
				relationships: $relationships,
				functions: $functions
			})
		`
		_, err := tx.Run(ctx, query, map[string]any{
			"id":            rec.ID,
			"type":          string(rec.Type),
			"label":         rec.Label,
			"diagram":       rec.Diagram,
			"fileCount":     rec.FileCount,
			"source":        rec.Source,
			"createdAt":     rec.CreatedAt,
			"classes":       rec.Stats.Classes,
			"components":    rec.Stats.Components,
			"relationships": rec.Stats.Relationships,
			"functions":     rec.Stats.Functions,
		})
		return nil, err
	})

	if err != nil {
		return nil, fmt.Errorf("failed to create diagram: %w", err)
	}

	return rec, nil
}

func GetDiagram(ctx context.Context, client *Neo4jClient, id string) (*models.DiagramRecord, error) {
	result, err := client.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		query := `MATCH (d:Diagram {id: $id})` + diagramReturn
		result, err := tx.Run(ctx, query, map[string]any{"id": id})
		if err != nil {
			return nil, err
		}

		if result.Next(ctx) {
			return recordToDiagram(result.Record()), nil
		}
		return nil, result.Err()
	})

	if err != nil {
		return nil, fmt.Errorf("failed to get diagram: %w", err)
	}
	if result == nil {
		return nil, ErrNotFound
	}
	return result.(*models.DiagramRecord), nil
}

// ListDiagrams returns stored diagrams newest first. A non-positive limit
// returns all of them.
func ListDiagrams(ctx context.Context, client *Neo4jClient, limit int) ([]*models.DiagramRecord, error) {
	result, err := client.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		query := `MATCH (d:Diagram)` + diagramReturn + `ORDER BY d.createdAt DESC`
		params := map[string]any{}
		if limit > 0 {
			query += ` LIMIT $limit`
			params["limit"] = limit
		}
		result, err := tx.Run(ctx, query, params)
		if err != nil {
			return nil, err
		}

		diagrams := []*models.DiagramRecord{}
		for result.Next(ctx) {
			diagrams = append(diagrams, recordToDiagram(result.Record()))
		}
		return diagrams, result.Err()
	})

	if err != nil {
		return nil, fmt.Errorf("failed to list diagrams: %w", err)
	}
	return result.([]*models.DiagramRecord), nil
}

// DeleteDiagram removes the diagram node and every node of its stored model.
func DeleteDiagram(ctx context.Context, client *Neo4jClient, id string) error {
	query, params, err := gocypher.NewQueryBuilder().
		Match(gocypher.N("d", "Diagram").WithProperties(map[string]interface{}{"id": id})).
		DetachDelete("d").
		Build()
	if err != nil {
		return fmt.Errorf("failed to build delete query: %w", err)
	}

	deleted, err := client.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		if err := clearModel(ctx, tx, id); err != nil {
			return nil, err
		}
		result, err := tx.Run(ctx, query, params)
		if err != nil {
			return nil, err
		}
		summary, err := result.Consume(ctx)
		if err != nil {
			return nil, err
		}
		return summary.Counters().NodesDeleted(), nil
	})

	if err != nil {
		return fmt.Errorf("failed to delete diagram: %w", err)
	}
	if deleted.(int) == 0 {
		return ErrNotFound
	}
	return nil
}

func recordToDiagram(record *neo4j.Record) *models.DiagramRecord {
	rec := &models.DiagramRecord{}

	if id, ok := record.Get("id"); ok && id != nil {
		rec.ID = id.(string)
	}
	if t, ok := record.Get("type"); ok && t != nil {
		rec.Type = models.DiagramType(t.(string))
	}
	if label, ok := record.Get("label"); ok && label != nil {
		rec.Label = label.(string)
	}
	if diagram, ok := record.Get("diagram"); ok && diagram != nil {
		rec.Diagram = diagram.(string)
	}
	if source, ok := record.Get("source"); ok && source != nil {
		rec.Source = source.(string)
	}
	if createdAt, ok := record.Get("createdAt"); ok && createdAt != nil {
		if t, ok := createdAt.(time.Time); ok {
			rec.CreatedAt = t
		}
	}
	rec.FileCount = intValue(record, "fileCount")
	rec.Stats = models.DiagramStats{
		Classes:       intValue(record, "classes"),
		Components:    intValue(record, "components"),
		Relationships: intValue(record, "relationships"),
		Functions:     intValue(record, "functions"),
	}

	return rec
}

func intValue(record *neo4j.Record, key string) int {
	v, ok := record.Get(key)
	if !ok || v == nil {
		return 0
	}
	return toInt(v)
}
