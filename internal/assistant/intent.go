package assistant

// Intent is the action a chat message asks for.
type Intent int

const (
	IntentUnknown Intent = iota
	IntentList
	IntentComplete
	IntentDelete
	IntentUpdate
	IntentCreate
)

func (i Intent) String() string {
	switch i {
	case IntentList:
		return "list"
	case IntentComplete:
		return "complete"
	case IntentDelete:
		return "delete"
	case IntentUpdate:
		return "update"
	case IntentCreate:
		return "create"
	default:
		return "unknown"
	}
}

// Turn is one prior message of the conversation.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
