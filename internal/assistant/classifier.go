package assistant

import "strings"

type rule struct {
	intent Intent
	match  func(text string, m MatchFunc) bool
}

// rules are tried in order and the first hit wins. List comes first so that
// "show my completed tasks" lists instead of completing.
var rules = []rule{
	{IntentList, func(text string, m MatchFunc) bool {
		return m.any(text, "list", "show", "what", "tasks", "todos", "my tasks", "my todos", "how many")
	}},
	{IntentComplete, func(text string, m MatchFunc) bool {
		if m(text, "incomplete") {
			return false
		}
		return m.any(text, "complete", "finish") ||
			(m(text, "mark") && m(text, "done")) ||
			(m(text, "done") && m(text, "with"))
	}},
	{IntentDelete, func(text string, m MatchFunc) bool {
		return m.any(text, "delete", "remove") || (m(text, "get") && m(text, "rid"))
	}},
	{IntentUpdate, func(text string, m MatchFunc) bool {
		return m.any(text, "update", "change", "modify", "edit", "rename")
	}},
	{IntentCreate, func(text string, m MatchFunc) bool {
		return m.any(text, "create", "add", "new task", "todo", "remind me")
	}},
}

// Classifier maps a chat message to the intent of the first matching rule.
type Classifier struct {
	match MatchFunc
}

// NewClassifier uses Substring matching when match is nil.
func NewClassifier(match MatchFunc) *Classifier {
	if match == nil {
		match = Substring
	}
	return &Classifier{match: match}
}

// Classify returns IntentUnknown for blank messages and messages no rule
// matches.
func (c *Classifier) Classify(message string) Intent {
	text := strings.ToLower(message)
	if strings.TrimSpace(text) == "" {
		return IntentUnknown
	}
	for _, r := range rules {
		if r.match(text, c.match) {
			return r.intent
		}
	}
	return IntentUnknown
}
