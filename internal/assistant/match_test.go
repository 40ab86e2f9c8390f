package assistant

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWordBoundary(t *testing.T) {
	tests := []struct {
		text    string
		keyword string
		want    bool
	}{
		{"complete the task", "complete", true},
		{"i completely forgot", "complete", false},
		{"mark done.", "done", true},
		{"abandoned", "done", false},
		{"done", "done", true},
		{"show my tasks please", "my tasks", true},
		{"add x, then add", "add", true},
		{"café done", "done", true},
		{"anything", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.text+"/"+tt.keyword, func(t *testing.T) {
			assert.Equal(t, tt.want, WordBoundary(tt.text, tt.keyword))
		})
	}
}

func TestMatchFunc_Any(t *testing.T) {
	m := MatchFunc(Substring)
	assert.True(t, m.any("buy milk", "eggs", "milk"))
	assert.False(t, m.any("buy milk"))
}
