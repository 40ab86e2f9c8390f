package assistant

import (
	"fmt"
	"strings"

	"github.com/kazz187/taskchat/internal/task"
	"github.com/kazz187/taskchat/internal/tool"
)

const (
	maxListed    = 10
	maxClarified = 5
)

const helpText = "I'm your AI task assistant! I can help you:\n\n" +
	"📝 Create tasks: 'Create a task to buy groceries'\n" +
	"📋 List tasks: 'Show me my tasks' or 'What are my incomplete tasks?'\n" +
	"✓ Complete tasks: 'Mark the grocery task as done'\n" +
	"✏️ Update tasks: 'Change the grocery task to include eggs'\n" +
	"🗑️ Delete tasks: 'Delete the grocery task'\n\n" +
	"What would you like to do?"

func formatHelp() string {
	return helpText
}

func formatRetrieveFailure(err *tool.Error) string {
	return "I couldn't retrieve your tasks. Error: " + err.Msg
}

func formatList(completed *bool, list tool.TaskList) string {
	if list.Count == 0 {
		switch {
		case completed == nil:
			return "You don't have any tasks yet. Would you like to create one?"
		case *completed:
			return "You haven't completed any tasks yet. Keep going!"
		default:
			return "You don't have any incomplete tasks. Great job! 🎉"
		}
	}

	status := ""
	if completed != nil {
		status = "completed "
		if !*completed {
			status = "incomplete "
		}
	}
	lines := make([]string, 0, maxListed)
	for i, t := range list.Tasks {
		if i == maxListed {
			break
		}
		icon := "○"
		if t.Completed {
			icon = "✓"
		}
		title := t.Title
		if title == "" {
			title = "Untitled"
		}
		lines = append(lines, fmt.Sprintf("%d. %s %s", i+1, icon, title))
	}
	body := strings.Join(lines, "\n")
	if list.Count > maxListed {
		body += fmt.Sprintf("\n\n... and %d more tasks", list.Count-maxListed)
	}
	return fmt.Sprintf("Here are your %stasks (%d total):\n\n%s", status, list.Count, body)
}

func formatClarification(verb string, candidates []*task.Task) string {
	lines := make([]string, 0, maxClarified)
	for i, t := range candidates {
		if i == maxClarified {
			break
		}
		lines = append(lines, fmt.Sprintf("%d. %s", i+1, t.Title))
	}
	return fmt.Sprintf("Which task would you like to %s? Here are your tasks:\n\n%s\n\nPlease be more specific.",
		verb, strings.Join(lines, "\n"))
}

func formatNoCandidates(intent Intent) string {
	switch intent {
	case IntentComplete:
		return "You don't have any incomplete tasks to complete."
	case IntentDelete:
		return "You don't have any tasks to delete."
	default:
		return "You don't have any tasks to update."
	}
}

func formatCompleted(title string) string {
	return fmt.Sprintf("✓ Marked '%s' as completed! Great job!", title)
}

func formatDeleted(title string) string {
	return fmt.Sprintf("✓ Deleted '%s' from your task list.", title)
}

func formatUpdated(title string) string {
	return fmt.Sprintf("✓ Updated task to: '%s'", title)
}

func formatAskNewTitle(title string) string {
	return fmt.Sprintf("What would you like to change '%s' to?", title)
}

func formatCreated(title string) string {
	return fmt.Sprintf("✓ I've created a task: '%s'. You can see it in your task list!", title)
}

func formatFailure(action string, err *tool.Error) string {
	return fmt.Sprintf("I couldn't %s the task. Error: %s", action, err.Msg)
}
