package render

import "github.com/hassaneGuedad/diagrammer/internal/models"

// activityWorkflow is the generic application lifecycle. It does not depend
// on the analysed sources.
const activityWorkflow = `flowchart TD
    Start([Start]) --> Auth{User logged in?}
    Auth -->|No| Login[Show login form]
    Login --> Auth
    Auth -->|Yes| Dashboard[Load dashboard]
    Dashboard --> Action{Choose action}
    Action -->|Create| Create[Create item]
    Action -->|Read| Read[View items]
    Action -->|Update| Update[Edit item]
    Action -->|Delete| Delete[Delete item]
    Create --> Save[Save changes]
    Update --> Save
    Delete --> Save
    Save --> Refresh[Refresh view]
    Read --> Refresh
    Refresh --> Continue{Continue?}
    Continue -->|Yes| Action
    Continue -->|No| End([End])
`

// ActivityDiagram always returns the same workflow; the model is ignored.
func ActivityDiagram(_ *models.DiagramModel) string {
	return activityWorkflow
}
