package assistant

// fallback decides what happens when no candidate matches the message.
type fallback int

const (
	// fallbackFirst acts on the first candidate.
	fallbackFirst fallback = iota + 1
	// fallbackClarify asks the user to pick.
	fallbackClarify
)

var fallbackPolicy = map[Intent]fallback{
	IntentComplete: fallbackFirst,
	IntentDelete:   fallbackClarify,
	IntentUpdate:   fallbackClarify,
}
