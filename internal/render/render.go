// Package render turns a DiagramModel into Mermaid diagram text. Every
// renderer is a pure function of its model and never fails: missing data
// degrades to a documented fallback.
package render

import (
	"fmt"
	"strings"

	"github.com/hassaneGuedad/diagrammer/internal/models"
)

const indent = "    "

// Render dispatches to the renderer for t. Unknown types fall back to the
// class diagram; selectors are validated at the request boundary.
func Render(t models.DiagramType, m *models.DiagramModel) string {
	if m == nil {
		m = models.NewDiagramModel()
	}
	switch t {
	case models.DiagramComponent:
		return ComponentDiagram(m)
	case models.DiagramSequence:
		return SequenceDiagram(m)
	case models.DiagramActivity:
		return ActivityDiagram(m)
	case models.DiagramER:
		return ERDiagram(m)
	default:
		return ClassDiagram(m)
	}
}

// writeLine writes one indented line.
func writeLine(b *strings.Builder, depth int, format string, args ...any) {
	b.WriteString(strings.Repeat(indent, depth))
	fmt.Fprintf(b, format, args...)
	b.WriteByte('\n')
}
