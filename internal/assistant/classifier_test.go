package assistant

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifier_Classify(t *testing.T) {
	tests := []struct {
		message string
		want    Intent
	}{
		{"", IntentUnknown},
		{"   \t ", IntentUnknown},
		{"hello there", IntentUnknown},
		{"Show me my tasks", IntentList},
		{"What are my incomplete tasks?", IntentList},
		{"how many todos do I have", IntentList},
		// list keywords take precedence over completion keywords
		{"show my completed tasks", IntentList},
		{"Complete the milk task", IntentComplete},
		{"I finished the report", IntentComplete},
		{"Mark the grocery task as done", IntentComplete},
		{"I'm done with groceries", IntentComplete},
		// "incomplete" never completes, whichever completion words appear
		{"mark it incomplete", IntentUnknown},
		{"mark incomplete task as done", IntentUnknown},
		{"done with the incomplete report", IntentUnknown},
		{"Delete the grocery task", IntentDelete},
		{"remove milk", IntentDelete},
		{"get rid of the gym task", IntentDelete},
		{"Rename the milk task to oat milk", IntentUpdate},
		{"change groceries", IntentUpdate},
		{"Create a task to buy groceries", IntentCreate},
		{"add milk", IntentCreate},
		{"new task: call mom", IntentCreate},
		{"remind me to call mom", IntentCreate},
		{"put it on my todo", IntentCreate},
	}
	c := NewClassifier(nil)
	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(tt.message))
		})
	}
}

func TestClassifier_SubstringMatchesInsideWords(t *testing.T) {
	// "completely" contains "complete" under the default matcher.
	assert.Equal(t, IntentComplete, NewClassifier(Substring).Classify("I completely forgot"))
	assert.Equal(t, IntentUnknown, NewClassifier(WordBoundary).Classify("I completely forgot"))
}

func TestIntent_String(t *testing.T) {
	assert.Equal(t, "list", IntentList.String())
	assert.Equal(t, "unknown", Intent(99).String())
}
