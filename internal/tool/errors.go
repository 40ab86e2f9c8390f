package tool

// Kind classifies why a tool call failed.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindAuth
	KindNotFound
	KindForbidden
	KindTransport
	KindStore
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuth:
		return "auth"
	case KindNotFound:
		return "not_found"
	case KindForbidden:
		return "forbidden"
	case KindTransport:
		return "transport"
	case KindStore:
		return "store"
	default:
		return "unknown"
	}
}

// Error is the failure half of a Result. Msg is shown to the user as is.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string {
	return e.Msg
}

func newError(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}
