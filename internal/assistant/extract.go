package assistant

import (
	"strings"

	"github.com/kazz187/taskchat/internal/tool"
)

const defaultCreateTitle = "New task from chat"

var (
	incompleteWords = []string{"incomplete", "active", "pending", "not done", "unfinished"}
	completeWords   = []string{"complete", "completed", "done", "finished"}
	// keywordConnectors are scanned in order; a later one overrides an
	// earlier one.
	keywordConnectors = []string{"about", "containing", "with"}
	updateStopWords   = []string{"update", "change", "modify", "edit", "rename", "the", "task"}
	createLeadIns     = []string{
		"create a task to", "create task to", "add a task to", "add task to",
		"create", "add", "task", "todo", "remind me to", "remind me about",
	}
)

// Extractor reads intent parameters out of a chat message.
type Extractor struct {
	match MatchFunc
}

// NewExtractor uses Substring matching when match is nil.
func NewExtractor(match MatchFunc) *Extractor {
	if match == nil {
		match = Substring
	}
	return &Extractor{match: match}
}

// ListParams reads the completion filter and search keyword of a list
// request.
func (e *Extractor) ListParams(message string) tool.ListParams {
	text := strings.ToLower(message)
	var p tool.ListParams
	switch {
	case e.match.any(text, incompleteWords...):
		f := false
		p.Completed = &f
	case e.match.any(text, completeWords...):
		t := true
		p.Completed = &t
	}
	for _, connector := range keywordConnectors {
		if !e.match(text, connector) {
			continue
		}
		_, rest, _ := strings.Cut(text, connector)
		p.Keyword = ""
		if fields := strings.Fields(rest); len(fields) > 0 {
			p.Keyword = fields[0]
		}
	}
	return p
}

// NewTitle derives the replacement title of an update request. It prefers
// the text after " to "; otherwise it strips the command words and the words
// of the current title. An empty result means the user has to be asked.
func NewTitle(message, currentTitle string) string {
	text := strings.ToLower(message)
	if _, after, found := strings.Cut(text, " to "); found {
		if title := strings.TrimSpace(after); title != "" {
			return title
		}
	}
	title := removeAll(text, updateStopWords)
	title = strings.TrimSpace(title)
	title = removeAll(title, strings.Fields(strings.ToLower(currentTitle)))
	return strings.TrimSpace(title)
}

// CreateTitle derives the title of a create request.
func CreateTitle(message string) string {
	title := strings.TrimSpace(removeAll(strings.ToLower(message), createLeadIns))
	if title == "" {
		return defaultCreateTitle
	}
	return title
}

func removeAll(s string, words []string) string {
	for _, w := range words {
		s = strings.ReplaceAll(s, w, "")
	}
	return s
}
