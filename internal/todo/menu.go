package todo

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
)

var (
	success = color.New(color.FgGreen).SprintFunc()
	failure = color.New(color.FgRed).SprintFunc()
	heading = color.New(color.Bold).SprintFunc()
)

// Menu is the numbered interactive front end of a Service.
type Menu struct {
	svc *Service
	in  *bufio.Scanner
	out io.Writer
}

func NewMenu(svc *Service, in io.Reader, out io.Writer) *Menu {
	return &Menu{svc: svc, in: bufio.NewScanner(in), out: out}
}

// Run shows the menu until the user exits or input ends.
func (m *Menu) Run() error {
	m.println("=====================================")
	m.println(heading("      TODO LIST APPLICATION"))
	m.println("=====================================")
	m.println()

	for {
		m.display()
		m.println()
		m.println("OPTIONS:")
		m.println("1. Add Task")
		m.println("2. View All Tasks")
		m.println("3. Update Task")
		m.println("4. Delete Task")
		m.println("5. Mark Task Complete")
		m.println("6. Mark Task Incomplete")
		m.println("7. Exit")
		m.println()

		choice, ok := m.prompt("Enter your choice (1-7): ")
		if !ok {
			m.println()
			m.println("Goodbye!")
			return m.in.Err()
		}
		switch choice {
		case "1":
			m.add()
		case "2":
			m.println("\n--- ALL TASKS ---")
			m.display()
		case "3":
			m.update()
		case "4":
			m.withID("DELETE TASK", "delete", func(id int) {
				if m.svc.Delete(id) {
					m.println(success(fmt.Sprintf("✓ Task %d deleted successfully", id)))
					return
				}
				m.notFound(id)
			})
		case "5":
			m.withID("MARK TASK COMPLETE", "mark complete", func(id int) {
				if _, ok := m.svc.MarkComplete(id); ok {
					m.println(success(fmt.Sprintf("✓ Task %d marked as complete", id)))
					return
				}
				m.notFound(id)
			})
		case "6":
			m.withID("MARK TASK INCOMPLETE", "mark incomplete", func(id int) {
				if _, ok := m.svc.MarkIncomplete(id); ok {
					m.println(success(fmt.Sprintf("✓ Task %d marked as incomplete", id)))
					return
				}
				m.notFound(id)
			})
		case "7":
			m.println("Goodbye!")
			return nil
		default:
			m.println("Invalid choice. Please enter a number between 1-7.")
		}
	}
}

func (m *Menu) display() {
	items := m.svc.List()
	if len(items) == 0 {
		m.println("No tasks available. Add some tasks!")
		return
	}
	m.println("CURRENT TASKS:")
	m.println(fmt.Sprintf("%-4s %-8s %-30s %s", "ID", "Status", "Title", "Description"))
	m.println(strings.Repeat("-", 60))
	for _, it := range items {
		status := "✗"
		if it.Completed {
			status = "✓"
		}
		m.println(fmt.Sprintf("%-4d %-8s %-30s %s", it.ID, status, it.Title, it.Description))
	}
}

func (m *Menu) add() {
	m.println("\n--- ADD NEW TASK ---")
	title, _ := m.prompt("Enter task title: ")
	if title == "" {
		m.println(failure("Title cannot be empty!"))
		return
	}
	description, _ := m.prompt("Enter task description (optional, press Enter to skip): ")
	it, err := m.svc.Add(title, description)
	if err != nil {
		m.println(failure("✗ Error: " + err.Error()))
		return
	}
	m.println(success(fmt.Sprintf("✓ Task added successfully with ID: %d", it.ID)))
}

func (m *Menu) update() {
	m.withID("UPDATE TASK", "update", func(id int) {
		it, ok := m.svc.Get(id)
		if !ok {
			m.notFound(id)
			return
		}
		m.println("Current task: " + it.Title)
		if it.Description != "" {
			m.println("Current description: " + it.Description)
		}

		var title, description *string
		in, _ := m.prompt(fmt.Sprintf("Enter new title (current: '%s', press Enter to keep current): ", it.Title))
		if in != "" && in != it.Title {
			title = &in
		}
		current := it.Description
		if current == "" {
			current = "None"
		}
		desc, _ := m.prompt(fmt.Sprintf("Enter new description (current: '%s', press Enter to keep current): ", current))
		if desc != "" && desc != it.Description {
			description = &desc
		}

		if _, ok := m.svc.Update(id, title, description); ok {
			m.println(success(fmt.Sprintf("✓ Task %d updated successfully", id)))
			return
		}
		m.println(failure(fmt.Sprintf("✗ Error: Failed to update task %d", id)))
	})
}

// withID prints the section header, reads a task id and passes it to fn.
func (m *Menu) withID(title, verb string, fn func(id int)) {
	m.println(fmt.Sprintf("\n--- %s ---", title))
	if len(m.svc.List()) == 0 {
		m.println(fmt.Sprintf("No tasks available to %s.", verb))
		return
	}
	raw, _ := m.prompt(fmt.Sprintf("Enter task ID to %s: ", verb))
	id, err := strconv.Atoi(raw)
	if err != nil {
		m.println(failure("✗ Error: Task ID must be a number"))
		return
	}
	fn(id)
}

func (m *Menu) notFound(id int) {
	m.println(failure(fmt.Sprintf("✗ Error: Task with ID %d not found.", id)))
}

// prompt reports false once input is exhausted.
func (m *Menu) prompt(label string) (string, bool) {
	fmt.Fprint(m.out, label)
	if !m.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(m.in.Text()), true
}

func (m *Menu) println(a ...any) {
	fmt.Fprintln(m.out, a...)
}
