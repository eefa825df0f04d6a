package db

import (
	"encoding/json"
	"fmt"

	"github.com/hassaneGuedad/diagrammer/internal/models"
)

// entityProps flattens an entity into node properties. Members are stored
// as JSON strings so their order and fields survive the round trip.
func entityProps(diagramID string, order int, e models.ClassEntity) (map[string]interface{}, error) {
	properties := e.Properties
	if properties == nil {
		properties = []models.PropertyMember{}
	}
	methods := e.Methods
	if methods == nil {
		methods = []models.MethodMember{}
	}

	propsJSON, err := json.Marshal(properties)
	if err != nil {
		return nil, fmt.Errorf("failed to encode properties of %s: %w", e.Name, err)
	}
	methodsJSON, err := json.Marshal(methods)
	if err != nil {
		return nil, fmt.Errorf("failed to encode methods of %s: %w", e.Name, err)
	}

	implements := e.Implements
	if implements == nil {
		implements = []string{}
	}

	return map[string]interface{}{
		"diagramId":   diagramID,
		"position":    order,
		"name":        e.Name,
		"extends":     e.Extends,
		"implements":  implements,
		"isInterface": e.IsInterface,
		"isAbstract":  e.IsAbstract,
		"isEnum":      e.IsEnum,
		"file":        e.File,
		"properties":  string(propsJSON),
		"methods":     string(methodsJSON),
	}, nil
}

// entityFromProps is the inverse of entityProps. Values may come back from
// the driver as int64 and []any.
func entityFromProps(props map[string]any) (models.ClassEntity, error) {
	e := models.ClassEntity{
		Name:        stringProp(props, "name"),
		Extends:     stringProp(props, "extends"),
		IsInterface: boolProp(props, "isInterface"),
		IsAbstract:  boolProp(props, "isAbstract"),
		IsEnum:      boolProp(props, "isEnum"),
		File:        stringProp(props, "file"),
		Properties:  []models.PropertyMember{},
		Methods:     []models.MethodMember{},
	}

	switch v := props["implements"].(type) {
	case []string:
		if len(v) > 0 {
			e.Implements = append([]string(nil), v...)
		}
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok {
				e.Implements = append(e.Implements, s)
			}
		}
	}

	if raw := stringProp(props, "properties"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &e.Properties); err != nil {
			return e, fmt.Errorf("failed to decode properties of %s: %w", e.Name, err)
		}
	}
	if raw := stringProp(props, "methods"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &e.Methods); err != nil {
			return e, fmt.Errorf("failed to decode methods of %s: %w", e.Name, err)
		}
	}
	return e, nil
}

func stringProp(props map[string]any, key string) string {
	s, _ := props[key].(string)
	return s
}

func boolProp(props map[string]any, key string) bool {
	b, _ := props[key].(bool)
	return b
}

func toInt(v any) int {
	switch n := v.(type) {
	case int64:
		return int(n)
	case int:
		return n
	case float64:
		return int(n)
	}
	return 0
}
