package analyzer

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/hassaneGuedad/diagrammer/internal/models"
)

// Declaration patterns run against the trimmed line, in this order.
var (
	classPattern     = regexp.MustCompile(`^(?:export\s+(?:default\s+)?)?(?:public\s+)?(abstract\s+)?(?:final\s+)?class\s+(\w+)(?:<[^>]*>)?(?:\s+extends\s+([\w.]+)(?:<[^>]*>)?)?(?:\s+implements\s+([\w.\s,]+))?`)
	interfacePattern = regexp.MustCompile(`^(?:export\s+)?(?:public\s+)?interface\s+(\w+)(?:<[^>]*>)?(?:\s+extends\s+([\w.\s,]+))?`)
	enumPattern      = regexp.MustCompile(`^(?:export\s+)?(?:public\s+)?enum\s+(\w+)`)
)

// Member patterns. A property has no "(" and ends with ";", optionally after
// an initializer. A method is "<ReturnType> <name>(".
var (
	propertyPattern = regexp.MustCompile(`^(?:(public|private|protected)\s+)?(?:(?:static|final|readonly)\s+)*([\w.]+(?:<[^>]*>)?(?:\[\])*)\s+(\w+)\s*(?:=[^;]*)?;\s*$`)
	methodPattern   = regexp.MustCompile(`^(?:(public|private|protected)\s+)?(?:(?:static|final|abstract|synchronized|default)\s+)*([\w.]+(?:<[^>]*>)?(?:\[\])*)\s+(\w+)\s*\(`)

	staticToken   = regexp.MustCompile(`\bstatic\b`)
	readonlyToken = regexp.MustCompile(`\b(?:final|readonly)\b`)
)

var componentPattern = regexp.MustCompile(`\bfunction\s+(\w+)\s*\(|\bconst\s+(\w+)\s*=\s*\(`)

// scanState is the per-file scanner state threaded through every line.
type scanState struct {
	entity   int // index into DiagramModel.Classes, -1 outside an entity
	inEntity bool
	depth    int
	opened   bool // the entity body brace has been seen
}

func newScanState() scanState {
	return scanState{entity: -1}
}

func (s scanState) close() scanState {
	return newScanState()
}

// trackBraces applies the net brace count of the untrimmed line. The entity
// closes once the depth falls back to zero after its body was opened, which
// can happen on the opening line itself (`class A {}`).
func (s scanState) trackBraces(raw string) scanState {
	opens := strings.Count(raw, "{")
	s.depth += opens - strings.Count(raw, "}")
	if opens > 0 {
		s.opened = true
	}
	if s.opened && s.depth <= 0 {
		return s.close()
	}
	return s
}

// Analyze extracts a DiagramModel from the given files. Files with empty
// content contribute nothing. Each file is scanned independently; the result
// depends only on the input text.
func Analyze(files []models.SourceFile) *models.DiagramModel {
	model := models.NewDiagramModel()
	for _, f := range files {
		if f.Content == "" {
			continue
		}
		analyzeFile(f, model)
	}
	return model
}

func analyzeFile(f models.SourceFile, model *models.DiagramModel) {
	state := newScanState()
	for _, line := range strings.Split(f.Content, "\n") {
		state = scanLine(state, line, f.Name, model)
	}
}

// scanLine processes one line and returns the state for the next one.
func scanLine(s scanState, raw, fileName string, model *models.DiagramModel) scanState {
	line := strings.TrimSpace(raw)

	if entity, ok := detectEntity(line); ok {
		entity.File = fileName
		model.Classes = append(model.Classes, entity)
		model.Relationships = append(model.Relationships, relationshipsFor(entity)...)
		s = scanState{entity: len(model.Classes) - 1, inEntity: true}
		return s.trackBraces(raw)
	}

	if s.inEntity {
		s = s.trackBraces(raw)
	}
	if s.inEntity && s.entity >= 0 && !model.Classes[s.entity].IsEnum {
		parseMember(line, &model.Classes[s.entity])
	}

	if name, ok := detectComponent(line); ok {
		model.Components = append(model.Components, name)
	}
	return s
}

// detectEntity tries the class, interface and enum patterns in order.
func detectEntity(line string) (models.ClassEntity, bool) {
	if m := classPattern.FindStringSubmatch(line); m != nil {
		return models.ClassEntity{
			Name:       m[2],
			Properties: []models.PropertyMember{},
			Methods:    []models.MethodMember{},
			Extends:    m[3],
			Implements: splitNames(m[4]),
			IsAbstract: m[1] != "",
		}, true
	}

	if m := interfacePattern.FindStringSubmatch(line); m != nil {
		entity := models.ClassEntity{
			Name:        m[1],
			Properties:  []models.PropertyMember{},
			Methods:     []models.MethodMember{},
			IsInterface: true,
		}
		// The first extended name is promoted to Extends, the rest are
		// recorded as Implements.
		if parents := splitNames(m[2]); len(parents) > 0 {
			entity.Extends = parents[0]
			if len(parents) > 1 {
				entity.Implements = parents[1:]
			}
		}
		return entity, true
	}

	if m := enumPattern.FindStringSubmatch(line); m != nil {
		return models.ClassEntity{
			Name:       m[1],
			Properties: []models.PropertyMember{},
			Methods:    []models.MethodMember{},
			IsEnum:     true,
		}, true
	}

	return models.ClassEntity{}, false
}

func parseMember(line string, entity *models.ClassEntity) {
	if !strings.Contains(line, "(") {
		if m := propertyPattern.FindStringSubmatch(line); m != nil {
			entity.Properties = append(entity.Properties, models.PropertyMember{
				Name:       m[3],
				Type:       m[2],
				Visibility: visibilityOr(m[1], models.VisibilityPrivate),
				IsStatic:   staticToken.MatchString(line),
				IsReadonly: readonlyToken.MatchString(line),
			})
		}
		return
	}

	if strings.Contains(line, "class") || strings.Contains(line, "interface") {
		return
	}
	if m := methodPattern.FindStringSubmatch(line); m != nil {
		entity.Methods = append(entity.Methods, models.MethodMember{
			Name:       m[3],
			Parameters: []models.ParameterSpec{},
			ReturnType: m[2],
			Visibility: visibilityOr(m[1], models.VisibilityPublic),
			IsStatic:   staticToken.MatchString(line),
		})
	}
}

// detectComponent reports a capitalised identifier declared with
// "function Name(" or "const Name = (".
func detectComponent(line string) (string, bool) {
	m := componentPattern.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	name := m[1]
	if name == "" {
		name = m[2]
	}
	r, _ := utf8.DecodeRuneInString(name)
	if !unicode.IsUpper(r) {
		return "", false
	}
	return name, true
}

func visibilityOr(v string, fallback models.Visibility) models.Visibility {
	if v == "" {
		return fallback
	}
	return models.Visibility(v)
}

// splitNames splits a comma-separated list of type names, dropping blanks.
func splitNames(s string) []string {
	var names []string
	for _, part := range strings.Split(s, ",") {
		fields := strings.Fields(part)
		if len(fields) == 0 {
			continue
		}
		names = append(names, fields[0])
	}
	return names
}
