package gate

// Action describes the kind of operation a subject wants to perform.
type Action string

const (
	ActionView   Action = "view"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
	// ActionConnect covers adding or editing a connection to a resource.
	ActionConnect Action = "connect"
)
