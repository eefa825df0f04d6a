package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

type DiagramType string

const (
	DiagramClass     DiagramType = "class"
	DiagramComponent DiagramType = "component"
	DiagramSequence  DiagramType = "sequence"
	DiagramActivity  DiagramType = "activity"
	DiagramER        DiagramType = "er"
)

// DiagramTypes lists the recognised selectors in display order.
var DiagramTypes = []DiagramType{
	DiagramClass,
	DiagramComponent,
	DiagramSequence,
	DiagramActivity,
	DiagramER,
}

var diagramLabels = map[DiagramType]string{
	DiagramClass:     "Class Diagram",
	DiagramComponent: "Component Diagram",
	DiagramSequence:  "Sequence Diagram",
	DiagramActivity:  "Activity Diagram",
	DiagramER:        "Entity-Relationship Diagram",
}

var ErrUnknownDiagramType = errors.New("unknown diagram type")

// ParseDiagramType validates a caller-supplied selector. Matching is exact
// after trimming surrounding whitespace.
func ParseDiagramType(s string) (DiagramType, error) {
	t := DiagramType(strings.TrimSpace(s))
	if _, ok := diagramLabels[t]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownDiagramType, s)
	}
	return t, nil
}

// Label returns the human-readable name of the diagram type.
func (t DiagramType) Label() string {
	return diagramLabels[t]
}

// SourceFile is one input file record as received from the caller.
type SourceFile struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

type DiagramStats struct {
	Classes       int `json:"classes"`
	Components    int `json:"components"`
	Relationships int `json:"relationships"`
	Functions     int `json:"functions"`
}

// StatsFor summarises a model.
func StatsFor(m *DiagramModel) DiagramStats {
	return DiagramStats{
		Classes:       len(m.Classes),
		Components:    len(m.Components),
		Relationships: len(m.Relationships),
		Functions:     len(m.Functions),
	}
}

// DiagramResult is the success payload of a generation request.
type DiagramResult struct {
	Type    DiagramType   `json:"type"`
	Label   string        `json:"label"`
	Diagram string        `json:"diagram"` // Mermaid syntax
	Model   *DiagramModel `json:"analysis"`
	Stats   DiagramStats  `json:"stats"`
}

// DiagramRecord is a stored generation.
type DiagramRecord struct {
	ID        string       `json:"id"`
	Type      DiagramType  `json:"type"`
	Label     string       `json:"label"`
	Diagram   string       `json:"diagram"`
	Stats     DiagramStats `json:"stats"`
	FileCount int          `json:"fileCount"`
	Source    string       `json:"source,omitempty"` // repository URL when ingested from git
	CreatedAt time.Time    `json:"createdAt"`
}
