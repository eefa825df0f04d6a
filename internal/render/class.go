package render

import (
	"strings"

	"github.com/hassaneGuedad/diagrammer/internal/models"
)

// exampleClassDiagram is returned when no entity was extracted.
const exampleClassDiagram = `classDiagram
    class User {
        +String name
        +String email
        +login() bool
    }
    class Order {
        +int id
        +Date createdAt
        +getTotal() float
    }
    User --> Order : uses
`

var visibilitySigils = map[models.Visibility]string{
	models.VisibilityPublic:    "+",
	models.VisibilityPrivate:   "-",
	models.VisibilityProtected: "#",
}

// ClassDiagram renders one block per entity followed by its relationships.
// Without relationships, consecutive entities are chained with "uses" edges.
func ClassDiagram(m *models.DiagramModel) string {
	if len(m.Classes) == 0 {
		return exampleClassDiagram
	}

	var b strings.Builder
	b.WriteString("classDiagram\n")

	for _, c := range m.Classes {
		writeClassBlock(&b, c)
	}

	if len(m.Relationships) == 0 {
		for i := 1; i < len(m.Classes); i++ {
			writeLine(&b, 1, "%s --> %s : uses", m.Classes[i-1].Name, m.Classes[i].Name)
		}
		return b.String()
	}

	for _, r := range m.Relationships {
		writeLine(&b, 1, "%s", relationshipLine(r))
	}
	return b.String()
}

func writeClassBlock(b *strings.Builder, c models.ClassEntity) {
	writeLine(b, 1, "class %s {", c.Name)

	switch {
	case c.IsInterface:
		writeLine(b, 2, "<<interface>>")
	case c.IsEnum:
		writeLine(b, 2, "<<enumeration>>")
	case c.IsAbstract:
		writeLine(b, 2, "<<abstract>>")
	}

	if len(c.Properties) == 0 {
		writeLine(b, 2, "+String name")
	}
	for _, p := range c.Properties {
		writeLine(b, 2, "%s", propertyLine(p))
	}

	if len(c.Methods) == 0 {
		writeLine(b, 2, "+get%s() %s", c.Name, c.Name)
	}
	for _, mm := range c.Methods {
		writeLine(b, 2, "%s", methodLine(mm))
	}

	writeLine(b, 1, "}")
}

// propertyLine formats "<vis>[$][readonly ]name : type".
func propertyLine(p models.PropertyMember) string {
	var b strings.Builder
	b.WriteString(sigil(p.Visibility, models.VisibilityPrivate))
	if p.IsStatic {
		b.WriteString("$")
	}
	if p.IsReadonly {
		b.WriteString("readonly ")
	}
	b.WriteString(p.Name)
	b.WriteString(" : ")
	b.WriteString(p.Type)
	return b.String()
}

// methodLine formats "<vis>[$]name() returnType".
func methodLine(m models.MethodMember) string {
	var b strings.Builder
	b.WriteString(sigil(m.Visibility, models.VisibilityPublic))
	if m.IsStatic {
		b.WriteString("$")
	}
	b.WriteString(m.Name)
	b.WriteString("()")
	if m.ReturnType != "" {
		b.WriteString(" ")
		b.WriteString(m.ReturnType)
	}
	return b.String()
}

func sigil(v models.Visibility, fallback models.Visibility) string {
	if s, ok := visibilitySigils[v]; ok {
		return s
	}
	return visibilitySigils[fallback]
}

func relationshipLine(r models.Relationship) string {
	switch r.Type {
	case models.RelInheritance:
		return withLabel(r.From+" --|> "+r.To, r.Label)
	case models.RelComposition:
		return withLabel(r.From+" *-- "+r.To, r.Label)
	case models.RelAggregation:
		return withLabel(r.From+" o-- "+r.To, r.Label)
	case models.RelDependency:
		return r.From + " ..> " + r.To + " : " + labelOr(r.Label, "depends")
	default:
		return r.From + " --> " + r.To + " : " + labelOr(r.Label, "uses")
	}
}

func withLabel(edge, label string) string {
	if label == "" {
		return edge
	}
	return edge + " : " + label
}

func labelOr(label, fallback string) string {
	if label == "" {
		return fallback
	}
	return label
}
