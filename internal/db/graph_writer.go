package db

import (
	"context"
	"fmt"

	"github.com/hassaneGuedad/diagrammer/internal/models"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/saulfrancisco-ruizacevedo/gocypher"
)

type GraphWriter struct {
	client *Neo4jClient
}

func NewGraphWriter(client *Neo4jClient) *GraphWriter {
	return &GraphWriter{client: client}
}

// cypherStatement is one built query with its parameters.
type cypherStatement struct {
	query  string
	params map[string]interface{}
}

// WriteModel stores the analysed model of a diagram as a graph, replacing
// whatever was stored for it before. Everything is written in a single
// transaction.
func (w *GraphWriter) WriteModel(ctx context.Context, diagramID string, model *models.DiagramModel) error {
	stmts, err := modelStatements(diagramID, model)
	if err != nil {
		return err
	}

	_, err = w.client.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		if err := clearModel(ctx, tx, diagramID); err != nil {
			return nil, err
		}
		for _, stmt := range stmts {
			if _, err := tx.Run(ctx, stmt.query, stmt.params); err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
	if err != nil {
		return fmt.Errorf("failed to write model for diagram %s: %w", diagramID, err)
	}
	return nil
}

// modelStatements builds every statement needed to store model, in
// declaration order: entities, relationships, then components.
func modelStatements(diagramID string, model *models.DiagramModel) ([]cypherStatement, error) {
	var stmts []cypherStatement
	if model == nil {
		return stmts, nil
	}

	for i, e := range model.Classes {
		stmt, err := entityStatement(diagramID, i, e)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	for i, r := range model.Relationships {
		stmt, err := relationshipStatement(diagramID, i, r)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	for i, c := range model.Components {
		stmt, err := componentStatement(diagramID, i, c)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	return stmts, nil
}

func entityStatement(diagramID string, order int, e models.ClassEntity) (cypherStatement, error) {
	props, err := entityProps(diagramID, order, e)
	if err != nil {
		return cypherStatement{}, err
	}

	query, params, err := gocypher.NewQueryBuilder().
		Match(gocypher.N("d", "Diagram").WithProperties(map[string]interface{}{"id": diagramID})).
		Create(
			gocypher.N("d", ""),
			gocypher.R("r", "DECLARES").To().WithProperties(map[string]interface{}{"position": order}),
			gocypher.N("e", "Entity").WithProperties(props),
		).
		Build()
	if err != nil {
		return cypherStatement{}, fmt.Errorf("failed to build entity query for %s: %w", e.Name, err)
	}
	return cypherStatement{query: query, params: params}, nil
}

// relationshipStatement links two TypeRef nodes. Endpoints are merged by
// name because they need not be declared entities.
func relationshipStatement(diagramID string, order int, r models.Relationship) (cypherStatement, error) {
	query, params, err := gocypher.NewQueryBuilder().
		Merge(gocypher.N("a", "TypeRef").WithProperties(map[string]interface{}{"diagramId": diagramID, "name": r.From})).
		Merge(gocypher.N("b", "TypeRef").WithProperties(map[string]interface{}{"diagramId": diagramID, "name": r.To})).
		Create(
			gocypher.N("a", ""),
			gocypher.R("r", "RELATES").To().WithProperties(map[string]interface{}{
				"type":     string(r.Type),
				"label":    r.Label,
				"position": order,
			}),
			gocypher.N("b", ""),
		).
		Build()
	if err != nil {
		return cypherStatement{}, fmt.Errorf("failed to build relationship query %s->%s: %w", r.From, r.To, err)
	}
	return cypherStatement{query: query, params: params}, nil
}

func componentStatement(diagramID string, order int, name string) (cypherStatement, error) {
	query, params, err := gocypher.NewQueryBuilder().
		Match(gocypher.N("d", "Diagram").WithProperties(map[string]interface{}{"id": diagramID})).
		Create(
			gocypher.N("d", ""),
			gocypher.R("h", "HAS_COMPONENT").To().WithProperties(map[string]interface{}{"position": order}),
			gocypher.N("c", "Component").WithProperties(map[string]interface{}{"diagramId": diagramID, "name": name}),
		).
		Build()
	if err != nil {
		return cypherStatement{}, fmt.Errorf("failed to build component query for %s: %w", name, err)
	}
	return cypherStatement{query: query, params: params}, nil
}

// clearModel removes the stored model of a diagram, leaving the diagram node.
func clearModel(ctx context.Context, tx neo4j.ManagedTransaction, diagramID string) error {
	query := `
		MATCH (n)
		WHERE (n:Entity OR n:TypeRef OR n:Component) AND n.diagramId = $diagramId
		DETACH DELETE n
	`
	_, err := tx.Run(ctx, query, map[string]any{"diagramId": diagramID})
	return err
}
