package render

import (
	"strings"

	"github.com/hassaneGuedad/diagrammer/internal/models"
)

const maxSequenceParticipants = 5

// SequenceDiagram renders a request flowing from User through App to the
// first component, one self-call per class with methods, and the replies.
func SequenceDiagram(m *models.DiagramModel) string {
	var b strings.Builder
	b.WriteString("sequenceDiagram\n")
	writeLine(&b, 1, "participant User")
	writeLine(&b, 1, "participant App")

	participants := m.Components
	if len(participants) > maxSequenceParticipants {
		participants = participants[:maxSequenceParticipants]
	}
	for _, p := range participants {
		writeLine(&b, 1, "participant %s", p)
	}

	first := "Component"
	if len(m.Components) > 0 {
		first = m.Components[0]
	}

	writeLine(&b, 1, "User->>App: Request")
	writeLine(&b, 1, "App->>%s: Process", first)

	for _, c := range m.Classes {
		if len(c.Methods) == 0 {
			continue
		}
		writeLine(&b, 1, "%s->>%s: %s()", c.Name, c.Name, c.Methods[0].Name)
	}

	writeLine(&b, 1, "%s-->>App: Response", first)
	writeLine(&b, 1, "App-->>User: Result")
	return b.String()
}
