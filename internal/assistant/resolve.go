package assistant

import (
	"strings"
	"unicode/utf8"

	"github.com/kazz187/taskchat/internal/task"
)

// minTitleWordLen drops short words such as "the" or "buy" that would match
// almost any message.
const minTitleWordLen = 4

// Resolver picks the task a message refers to by title words.
type Resolver struct {
	match MatchFunc
}

// NewResolver uses Substring matching when match is nil.
func NewResolver(match MatchFunc) *Resolver {
	if match == nil {
		match = Substring
	}
	return &Resolver{match: match}
}

// Resolve returns the first candidate, in the given order, with a
// significant title word that appears in message.
func (r *Resolver) Resolve(candidates []*task.Task, message string) (*task.Task, bool) {
	text := strings.ToLower(message)
	for _, c := range candidates {
		for _, w := range strings.Fields(strings.ToLower(c.Title)) {
			if utf8.RuneCountInString(w) >= minTitleWordLen && r.match(text, w) {
				return c, true
			}
		}
	}
	return nil, false
}
