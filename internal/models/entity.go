package models

type Visibility string

const (
	VisibilityPublic    Visibility = "public"
	VisibilityPrivate   Visibility = "private"
	VisibilityProtected Visibility = "protected"
)

type RelationshipType string

const (
	RelInheritance RelationshipType = "inheritance"
	RelAssociation RelationshipType = "association"
	RelComposition RelationshipType = "composition"
	RelAggregation RelationshipType = "aggregation"
	RelDependency  RelationshipType = "dependency"
)

// ClassEntity is a detected class, interface or enum declaration and the
// members parsed while the scanner was inside its body.
type ClassEntity struct {
	Name        string           `json:"name" yaml:"name"`
	Properties  []PropertyMember `json:"properties" yaml:"properties"`
	Methods     []MethodMember   `json:"methods" yaml:"methods"`
	Extends     string           `json:"extends,omitempty" yaml:"extends,omitempty"`
	Implements  []string         `json:"implements,omitempty" yaml:"implements,omitempty"`
	IsInterface bool             `json:"isInterface" yaml:"isInterface"`
	IsAbstract  bool             `json:"isAbstract" yaml:"isAbstract"`
	IsEnum      bool             `json:"isEnum,omitempty" yaml:"isEnum,omitempty"`
	File        string           `json:"file,omitempty" yaml:"file,omitempty"`
}

type PropertyMember struct {
	Name       string     `json:"name" yaml:"name"`
	Type       string     `json:"type" yaml:"type"` // raw token, never resolved
	Visibility Visibility `json:"visibility" yaml:"visibility"`
	IsStatic   bool       `json:"isStatic" yaml:"isStatic"`
	IsReadonly bool       `json:"isReadonly" yaml:"isReadonly"`
}

type MethodMember struct {
	Name       string          `json:"name" yaml:"name"`
	Parameters []ParameterSpec `json:"parameters" yaml:"parameters"`
	ReturnType string          `json:"returnType" yaml:"returnType"`
	Visibility Visibility      `json:"visibility" yaml:"visibility"`
	IsStatic   bool            `json:"isStatic" yaml:"isStatic"`
	IsAsync    bool            `json:"isAsync" yaml:"isAsync"`
}

type ParameterSpec struct {
	Name string `json:"name" yaml:"name"`
	Type string `json:"type" yaml:"type"`
}

// Relationship endpoints are entity names. They are not checked against
// the declared classes.
type Relationship struct {
	From  string           `json:"from" yaml:"from"`
	To    string           `json:"to" yaml:"to"`
	Type  RelationshipType `json:"type" yaml:"type"`
	Label string           `json:"label,omitempty" yaml:"label,omitempty"`
}

// DiagramModel aggregates everything extracted from one analysis call.
type DiagramModel struct {
	Classes       []ClassEntity  `json:"classes" yaml:"classes"`
	Relationships []Relationship `json:"relationships" yaml:"relationships"`
	Components    []string       `json:"components" yaml:"components"`
	// Functions is part of the response contract but no extraction rule
	// fills it.
	Functions []string `json:"functions" yaml:"functions"`
}

// NewDiagramModel returns a model whose slices encode as [] rather than null.
func NewDiagramModel() *DiagramModel {
	return &DiagramModel{
		Classes:       []ClassEntity{},
		Relationships: []Relationship{},
		Components:    []string{},
		Functions:     []string{},
	}
}
