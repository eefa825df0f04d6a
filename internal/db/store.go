package db

import (
	"context"
	"fmt"
	"log"

	"github.com/hassaneGuedad/diagrammer/internal/models"
)

// Store persists generated diagrams together with the model they were
// rendered from.
type Store struct {
	client *Neo4jClient
	writer *GraphWriter
	reader *GraphReader
}

func NewStore(client *Neo4jClient) *Store {
	return &Store{
		client: client,
		writer: NewGraphWriter(client),
		reader: NewGraphReader(client),
	}
}

// SaveDiagram creates the diagram node and writes its model. If the model
// cannot be written the diagram node is removed again.
func (s *Store) SaveDiagram(ctx context.Context, rec *models.DiagramRecord, model *models.DiagramModel) (*models.DiagramRecord, error) {
	rec, err := CreateDiagram(ctx, s.client, rec)
	if err != nil {
		return nil, err
	}
	if err := s.writer.WriteModel(ctx, rec.ID, model); err != nil {
		if delErr := DeleteDiagram(ctx, s.client, rec.ID); delErr != nil {
			log.Printf("Failed to roll back diagram %s: %v", rec.ID, delErr)
		}
		return nil, err
	}
	return rec, nil
}

func (s *Store) GetDiagram(ctx context.Context, id string) (*models.DiagramRecord, error) {
	return GetDiagram(ctx, s.client, id)
}

func (s *Store) ListDiagrams(ctx context.Context, limit int) ([]*models.DiagramRecord, error) {
	return ListDiagrams(ctx, s.client, limit)
}

func (s *Store) DeleteDiagram(ctx context.Context, id string) error {
	return DeleteDiagram(ctx, s.client, id)
}

func (s *Store) LoadModel(ctx context.Context, id string) (*models.DiagramModel, error) {
	model, err := s.reader.ReadModel(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load model: %w", err)
	}
	return model, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx)
}
