package render

import (
	"strings"

	"github.com/hassaneGuedad/diagrammer/internal/models"
)

const rootComponent = "App"

// ComponentDiagram declares one node per detected component. When an App
// component exists it is linked to every other component. Classes named
// *Component or *Page are linked to the component types they hold.
func ComponentDiagram(m *models.DiagramModel) string {
	var b strings.Builder
	b.WriteString("graph TD\n")

	for _, c := range m.Components {
		writeLine(&b, 1, "%s[%s]", c, c)
	}

	hasRoot := false
	for _, c := range m.Components {
		if c == rootComponent {
			hasRoot = true
			break
		}
	}
	for _, c := range m.Components {
		// Without an App component these edges are skipped; the rest of the
		// diagram is still rendered.
		if !hasRoot || c == rootComponent {
			continue
		}
		writeLine(&b, 1, "%s --> %s", rootComponent, c)
	}

	for _, cls := range m.Classes {
		if !isViewName(cls.Name) {
			continue
		}
		for _, p := range cls.Properties {
			if !strings.Contains(p.Type, "Component") && !strings.Contains(p.Type, "Page") {
				continue
			}
			target := viewTarget(p.Type)
			if target == "" {
				continue
			}
			writeLine(&b, 1, "%s --> %s", cls.Name, target)
		}
	}

	return b.String()
}

func isViewName(name string) bool {
	return strings.HasSuffix(name, "Component") || strings.HasSuffix(name, "Page")
}

// viewTarget strips array markers and the Component/Page suffix from a
// property type.
func viewTarget(t string) string {
	t = strings.ReplaceAll(t, "[]", "")
	t = strings.TrimSuffix(t, "Component")
	t = strings.TrimSuffix(t, "Page")
	return t
}
