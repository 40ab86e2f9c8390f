package assistant

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractor_ListParams(t *testing.T) {
	tru, fls := true, false
	tests := []struct {
		message       string
		wantCompleted *bool
		wantKeyword   string
	}{
		{"show my tasks", nil, ""},
		{"What are my incomplete tasks?", &fls, ""},
		{"list pending tasks", &fls, ""},
		{"show tasks that are not done", &fls, ""},
		{"show completed tasks", &tru, ""},
		{"what have I finished", &tru, ""},
		{"show tasks about Milk", nil, "milk"},
		{"list tasks containing report please", nil, "report"},
		{"show tasks with eggs", nil, "eggs"},
		// a later connector overrides an earlier one, even with nothing after it
		{"list tasks about work containing", nil, ""},
		{"show tasks about", nil, ""},
	}
	e := NewExtractor(nil)
	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			p := e.ListParams(tt.message)
			assert.Equal(t, tt.wantCompleted, p.Completed)
			assert.Equal(t, tt.wantKeyword, p.Keyword)
		})
	}
}

func TestNewTitle(t *testing.T) {
	tests := []struct {
		name    string
		message string
		current string
		want    string
	}{
		{"after to", "Rename the milk task to Oat Milk", "Buy milk", "oat milk"},
		{"first to wins", "change milk to eggs to bread", "Buy milk", "eggs to bread"},
		{"stop words and old title removed", "update groceries weekly", "groceries", "weekly"},
		{"nothing left", "update the groceries task", "Groceries", ""},
		{"empty after to falls back to stripping", "rename groceries to ", "groceries", "to"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewTitle(tt.message, tt.current))
		})
	}
}

func TestCreateTitle(t *testing.T) {
	tests := []struct {
		message string
		want    string
	}{
		{"Create a task to buy groceries", "buy groceries"},
		{"add task to call mom", "call mom"},
		{"Remind me to water plants", "water plants"},
		{"remind me about the dentist", "the dentist"},
		{"add milk", "milk"},
		{"create", "New task from chat"},
		{"new task", "new"},
	}
	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			assert.Equal(t, tt.want, CreateTitle(tt.message))
		})
	}
}
