package analyzer

import "github.com/hassaneGuedad/diagrammer/internal/models"

// relationshipsFor derives the edges implied by an entity's declaration.
// Classes model implemented names as dependencies; interfaces model every
// extended name as inheritance. Enums never produce edges.
func relationshipsFor(e models.ClassEntity) []models.Relationship {
	if e.IsEnum {
		return nil
	}

	var rels []models.Relationship
	if e.Extends != "" {
		rels = append(rels, models.Relationship{
			From: e.Name,
			To:   e.Extends,
			Type: models.RelInheritance,
		})
	}

	for _, name := range e.Implements {
		if e.IsInterface {
			rels = append(rels, models.Relationship{
				From: e.Name,
				To:   name,
				Type: models.RelInheritance,
			})
			continue
		}
		rels = append(rels, models.Relationship{
			From:  e.Name,
			To:    name,
			Type:  models.RelDependency,
			Label: "implements",
		})
	}
	return rels
}
