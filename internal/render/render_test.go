package render

import (
	"strings"
	"testing"

	"github.com/hassaneGuedad/diagrammer/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func modelWith(classes ...models.ClassEntity) *models.DiagramModel {
	m := models.NewDiagramModel()
	m.Classes = append(m.Classes, classes...)
	return m
}

func countLines(text, substr string) int {
	n := 0
	for _, line := range strings.Split(text, "\n") {
		if strings.Contains(line, substr) {
			n++
		}
	}
	return n
}

func TestClassDiagramEmptyModelUsesExample(t *testing.T) {
	out := ClassDiagram(models.NewDiagramModel())
	assert.Equal(t, exampleClassDiagram, out)
	assert.True(t, strings.HasPrefix(out, "classDiagram\n"))
	assert.Contains(t, out, "User --> Order : uses")
}

func TestClassDiagramSynthesizesUsesChain(t *testing.T) {
	out := ClassDiagram(modelWith(
		models.ClassEntity{Name: "A"},
		models.ClassEntity{Name: "B"},
	))

	assert.Equal(t, 1, countLines(out, "-->"))
	assert.Contains(t, out, "    A --> B : uses\n")
}

func TestClassDiagramChainFollowsDeclarationOrder(t *testing.T) {
	out := ClassDiagram(modelWith(
		models.ClassEntity{Name: "A"},
		models.ClassEntity{Name: "B"},
		models.ClassEntity{Name: "C"},
	))

	assert.Equal(t, 2, countLines(out, "-->"))
	assert.Less(t, strings.Index(out, "A --> B : uses"), strings.Index(out, "B --> C : uses"))
}

func TestClassDiagramSingleClassHasNoEdges(t *testing.T) {
	out := ClassDiagram(modelWith(models.ClassEntity{Name: "Solo"}))
	assert.NotContains(t, out, "-->")
}

func TestClassDiagramDefaultMembers(t *testing.T) {
	out := ClassDiagram(modelWith(models.ClassEntity{Name: "Empty"}))

	assert.Contains(t, out, "    class Empty {\n")
	assert.Contains(t, out, "        +String name\n")
	assert.Contains(t, out, "        +getEmpty() Empty\n")
}

func TestClassDiagramMemberLines(t *testing.T) {
	out := ClassDiagram(modelWith(models.ClassEntity{
		Name: "Account",
		Properties: []models.PropertyMember{
			{Name: "id", Type: "long", Visibility: models.VisibilityPrivate},
			{Name: "MAX", Type: "int", Visibility: models.VisibilityPublic, IsStatic: true, IsReadonly: true},
			{Name: "owner", Type: "User", Visibility: models.VisibilityProtected},
		},
		Methods: []models.MethodMember{
			{Name: "balance", ReturnType: "double", Visibility: models.VisibilityPublic},
			{Name: "create", ReturnType: "Account", Visibility: models.VisibilityPublic, IsStatic: true},
			{Name: "audit", Visibility: models.VisibilityPrivate},
		},
	}))

	assert.Contains(t, out, "        -id : long\n")
	assert.Contains(t, out, "        +$readonly MAX : int\n")
	assert.Contains(t, out, "        #owner : User\n")
	assert.Contains(t, out, "        +balance() double\n")
	assert.Contains(t, out, "        +$create() Account\n")
	assert.Contains(t, out, "        -audit()\n")
	assert.NotContains(t, out, "+String name")
	assert.NotContains(t, out, "getAccount")
}

func TestClassDiagramStereotypes(t *testing.T) {
	out := ClassDiagram(modelWith(
		models.ClassEntity{Name: "Shape", IsInterface: true},
		models.ClassEntity{Name: "Base", IsAbstract: true},
		models.ClassEntity{Name: "Color", IsEnum: true},
	))

	assert.Contains(t, out, "<<interface>>")
	assert.Contains(t, out, "<<abstract>>")
	assert.Contains(t, out, "<<enumeration>>")
}

func TestClassDiagramConnectors(t *testing.T) {
	m := modelWith(models.ClassEntity{Name: "A"}, models.ClassEntity{Name: "B"})
	m.Relationships = []models.Relationship{
		{From: "A", To: "B", Type: models.RelInheritance},
		{From: "A", To: "B", Type: models.RelAssociation},
		{From: "A", To: "B", Type: models.RelComposition},
		{From: "A", To: "B", Type: models.RelAggregation, Label: "holds"},
		{From: "A", To: "B", Type: models.RelDependency},
		{From: "A", To: "B", Type: models.RelDependency, Label: "implements"},
	}

	out := ClassDiagram(m)
	for _, want := range []string{
		"    A --|> B\n",
		"    A --> B : uses\n",
		"    A *-- B\n",
		"    A o-- B : holds\n",
		"    A ..> B : depends\n",
		"    A ..> B : implements\n",
	} {
		assert.Contains(t, out, want)
	}
	assert.Equal(t, 1, countLines(out, "-->"), "explicit relationships replace the synthesized chain")
}

func TestComponentDiagram(t *testing.T) {
	t.Run("no components", func(t *testing.T) {
		out := ComponentDiagram(models.NewDiagramModel())
		assert.Equal(t, "graph TD\n", out)
	})

	t.Run("app hub", func(t *testing.T) {
		m := models.NewDiagramModel()
		m.Components = []string{"App", "Header", "Footer"}

		out := ComponentDiagram(m)
		assert.Contains(t, out, "    Header[Header]\n")
		assert.Contains(t, out, "    App --> Header\n")
		assert.Contains(t, out, "    App --> Footer\n")
		assert.NotContains(t, out, "App --> App")
	})

	t.Run("without app only hub edges are skipped", func(t *testing.T) {
		m := modelWith(models.ClassEntity{
			Name:       "HomePage",
			Properties: []models.PropertyMember{{Name: "nav", Type: "NavComponent"}},
		})
		m.Components = []string{"Header", "Footer"}

		out := ComponentDiagram(m)
		assert.Contains(t, out, "    Header[Header]\n")
		assert.Contains(t, out, "    Footer[Footer]\n")
		assert.NotContains(t, out, "App -->")
		assert.Contains(t, out, "    HomePage --> Nav\n")
	})

	t.Run("view properties", func(t *testing.T) {
		m := modelWith(
			models.ClassEntity{
				Name: "DashboardComponent",
				Properties: []models.PropertyMember{
					{Name: "cards", Type: "CardComponent[]"},
					{Name: "settings", Type: "SettingsPage"},
					{Name: "title", Type: "string"},
					{Name: "raw", Type: "Component"},
				},
			},
			models.ClassEntity{
				Name:       "UserService",
				Properties: []models.PropertyMember{{Name: "view", Type: "ProfileComponent"}},
			},
		)

		out := ComponentDiagram(m)
		assert.Contains(t, out, "    DashboardComponent --> Card\n")
		assert.Contains(t, out, "    DashboardComponent --> Settings\n")
		assert.NotContains(t, out, "--> string")
		assert.NotContains(t, out, "UserService")
		assert.Equal(t, 2, countLines(out, "DashboardComponent -->"))
	})
}

func TestSequenceDiagram(t *testing.T) {
	t.Run("no components", func(t *testing.T) {
		out := SequenceDiagram(models.NewDiagramModel())
		assert.Equal(t, `sequenceDiagram
    participant User
    participant App
    User->>App: Request
    App->>Component: Process
    Component-->>App: Response
    App-->>User: Result
`, out)
	})

	t.Run("participants capped at five", func(t *testing.T) {
		m := models.NewDiagramModel()
		m.Components = []string{"C1", "C2", "C3", "C4", "C5", "C6", "C7"}

		out := SequenceDiagram(m)
		assert.Equal(t, 7, countLines(out, "participant "))
		assert.Contains(t, out, "participant C5\n")
		assert.NotContains(t, out, "participant C6")
		assert.Contains(t, out, "App->>C1: Process")
		assert.Contains(t, out, "C1-->>App: Response")
	})

	t.Run("self call uses first method", func(t *testing.T) {
		m := modelWith(
			models.ClassEntity{Name: "Cart", Methods: []models.MethodMember{{Name: "add"}, {Name: "remove"}}},
			models.ClassEntity{Name: "Money"},
		)

		out := SequenceDiagram(m)
		assert.Contains(t, out, "    Cart->>Cart: add()\n")
		assert.NotContains(t, out, "remove")
		assert.NotContains(t, out, "Money")
	})
}

func TestActivityDiagramIgnoresModel(t *testing.T) {
	populated := modelWith(models.ClassEntity{Name: "A", Methods: []models.MethodMember{{Name: "run"}}})
	populated.Components = []string{"App"}

	empty := ActivityDiagram(models.NewDiagramModel())
	assert.Equal(t, empty, ActivityDiagram(populated))
	assert.Equal(t, empty, ActivityDiagram(nil))
	assert.True(t, strings.HasPrefix(empty, "flowchart TD\n"))
	assert.Contains(t, empty, "Continue -->|Yes| Action")
}

func TestERDiagram(t *testing.T) {
	t.Run("empty model yields header only", func(t *testing.T) {
		assert.Equal(t, "erDiagram\n", ERDiagram(models.NewDiagramModel()))
		assert.Equal(t, "erDiagram\n", ERDiagram(modelWith(models.ClassEntity{Name: "Bare"})))
	})

	t.Run("column types and one-to-many edge", func(t *testing.T) {
		m := modelWith(
			models.ClassEntity{
				Name: "Customer",
				Properties: []models.PropertyMember{
					{Name: "name", Type: "string"},
					{Name: "scores", Type: "number[]"},
					{Name: "active", Type: "boolean"},
					{Name: "joined", Type: "Date"},
					{Name: "age", Type: "int"},
				},
			},
			models.ClassEntity{Name: "Repo", IsInterface: true, Properties: []models.PropertyMember{{Name: "x", Type: "number"}}},
			models.ClassEntity{Name: "NoFields"},
		)

		out := ERDiagram(m)
		assert.Contains(t, out, "    Customer {\n")
		assert.Contains(t, out, "        varchar name\n")
		assert.Contains(t, out, "        int scores\n")
		assert.Contains(t, out, "        boolean active\n")
		assert.Contains(t, out, "        datetime joined\n")
		assert.Contains(t, out, "        varchar age\n")
		assert.Contains(t, out, `    Customer ||--o{ number : "a plusieurs"`+"\n")
		assert.NotContains(t, out, "Repo {")
		assert.NotContains(t, out, "NoFields")
	})

	t.Run("collection edges from every class", func(t *testing.T) {
		m := modelWith(models.ClassEntity{
			Name:        "Store",
			IsInterface: true,
			Properties: []models.PropertyMember{
				{Name: "orders", Type: "List<Order>"},
				{Name: "items", Type: "Item[]"},
				{Name: "lines", Type: "LineList"},
				{Name: "bogus", Type: "[]"},
			},
		})

		out := ERDiagram(m)
		assert.Contains(t, out, `Store ||--o{ Order : "a plusieurs"`)
		assert.Contains(t, out, `Store ||--o{ Item : "a plusieurs"`)
		assert.Contains(t, out, `Store ||--o{ Line : "a plusieurs"`)
		assert.Equal(t, 3, countLines(out, "||--o{"))
		assert.NotContains(t, out, "Store {")
	})
}

func TestColumnTypeExactMatch(t *testing.T) {
	assert.Equal(t, "int", ColumnType("number[]"))
	assert.Equal(t, "varchar", ColumnType("string[]"))
	assert.Equal(t, "varchar", ColumnType("boolean[]"))
	assert.Equal(t, "varchar", ColumnType("Number"))
	assert.Equal(t, "varchar", ColumnType(""))
}

func TestRenderDispatch(t *testing.T) {
	m := models.NewDiagramModel()
	prefixes := map[models.DiagramType]string{
		models.DiagramClass:     "classDiagram\n",
		models.DiagramComponent: "graph TD\n",
		models.DiagramSequence:  "sequenceDiagram\n",
		models.DiagramActivity:  "flowchart TD\n",
		models.DiagramER:        "erDiagram\n",
	}
	for typ, prefix := range prefixes {
		t.Run(string(typ), func(t *testing.T) {
			out := Render(typ, m)
			require.NotEmpty(t, out)
			assert.True(t, strings.HasPrefix(out, prefix), out)
		})
	}

	assert.True(t, strings.HasPrefix(Render("bogus", nil), "classDiagram\n"))
}
