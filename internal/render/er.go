package render

import (
	"strings"

	"github.com/hassaneGuedad/diagrammer/internal/models"
)

// columnTypes maps raw property types to column types. Lookups are exact;
// anything else is a varchar.
var columnTypes = map[string]string{
	"string":   "varchar",
	"number":   "int",
	"boolean":  "boolean",
	"Date":     "datetime",
	"string[]": "varchar",
	"number[]": "int",
}

const defaultColumnType = "varchar"

// oneToManyLabel is kept verbatim for compatibility with existing diagrams.
const oneToManyLabel = `"a plusieurs"`

// ERDiagram renders an entity block for every non-interface class with
// properties, then a one-to-many edge for every collection-typed property.
// A model with neither yields just the header.
func ERDiagram(m *models.DiagramModel) string {
	var b strings.Builder
	b.WriteString("erDiagram\n")

	for _, c := range m.Classes {
		if c.IsInterface || len(c.Properties) == 0 {
			continue
		}
		writeLine(&b, 1, "%s {", c.Name)
		for _, p := range c.Properties {
			writeLine(&b, 2, "%s %s", ColumnType(p.Type), p.Name)
		}
		writeLine(&b, 1, "}")
	}

	for _, c := range m.Classes {
		for _, p := range c.Properties {
			if !strings.Contains(p.Type, "[]") && !strings.Contains(p.Type, "List") {
				continue
			}
			related := elementType(p.Type)
			if related == "" {
				continue
			}
			writeLine(&b, 1, "%s ||--o{ %s : %s", c.Name, related, oneToManyLabel)
		}
	}

	return b.String()
}

// ColumnType maps a raw property type through the column type table.
func ColumnType(t string) string {
	if ct, ok := columnTypes[t]; ok {
		return ct
	}
	return defaultColumnType
}

// elementType reduces a collection type to its element name:
// "Order[]", "List<Order>" and "OrderList" all become "Order".
func elementType(t string) string {
	if open := strings.Index(t, "<"); open >= 0 && strings.HasSuffix(t, ">") {
		t = t[open+1 : len(t)-1]
	}
	t = strings.ReplaceAll(t, "[]", "")
	t = strings.TrimSuffix(t, "List")
	return strings.TrimSpace(t)
}
