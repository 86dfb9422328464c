package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tasklight/tasklight/internal/core/domain"
)

type todosMode int

const (
	todosList todosMode = iota
	todosNew
	todosEdit
)

// todosModel renders the guarded todo list: navigation, create/edit forms,
// completion toggling, deletion, and the backend summary.
type todosModel struct {
	todos   []domain.Todo
	cursor  int
	mode    todosMode
	editID  string
	title   textinput.Model
	desc    textinput.Model
	focus   int
	summary string
	errMsg  string
	loading bool
}

func newTodosModel() todosModel {
	title := textinput.New()
	title.Placeholder = "title"
	title.CharLimit = 200

	desc := textinput.New()
	desc.Placeholder = "description"
	desc.CharLimit = 500

	return todosModel{title: title, desc: desc, loading: true}
}

func (m *todosModel) setTodos(todos []domain.Todo) {
	m.todos = todos
	m.loading = false
	if m.cursor >= len(todos) {
		m.cursor = max(0, len(todos)-1)
	}
}

func (m *todosModel) selected() (domain.Todo, bool) {
	if m.cursor < 0 || m.cursor >= len(m.todos) {
		return domain.Todo{}, false
	}
	return m.todos[m.cursor], true
}

func (m *todosModel) moveCursor(delta int) {
	next := m.cursor + delta
	if next >= 0 && next < len(m.todos) {
		m.cursor = next
	}
}

func (m *todosModel) startNew() {
	m.mode = todosNew
	m.editID = ""
	m.title.SetValue("")
	m.desc.SetValue("")
	m.focus = 0
	m.title.Focus()
	m.desc.Blur()
	m.errMsg = ""
}

func (m *todosModel) startEdit(t domain.Todo) {
	m.mode = todosEdit
	m.editID = t.ID
	m.title.SetValue(t.Title)
	m.desc.SetValue(t.Description)
	m.focus = 0
	m.title.Focus()
	m.desc.Blur()
	m.errMsg = ""
}

func (m *todosModel) closeForm() {
	m.mode = todosList
	m.title.Blur()
	m.desc.Blur()
	m.errMsg = ""
}

func (m *todosModel) cycleFocus() {
	if m.focus == 0 {
		m.title.Blur()
		m.desc.Focus()
		m.focus = 1
	} else {
		m.desc.Blur()
		m.title.Focus()
		m.focus = 0
	}
}

// submitForm returns the form values when the title is non-empty.
func (m *todosModel) submitForm() (title, desc string, ok bool) {
	title = strings.TrimSpace(m.title.Value())
	if title == "" {
		m.errMsg = "title is required"
		return "", "", false
	}
	return title, strings.TrimSpace(m.desc.Value()), true
}

func (m *todosModel) updateForm(msg tea.Msg) tea.Cmd {
	var c1, c2 tea.Cmd
	m.title, c1 = m.title.Update(msg)
	m.desc, c2 = m.desc.Update(msg)
	return tea.Batch(c1, c2)
}

func (m todosModel) view(who string, admin bool) string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render("Todos") + LabelStyle.Render("  "+who) + "\n\n")

	switch m.mode {
	case todosNew, todosEdit:
		heading := "New todo"
		if m.mode == todosEdit {
			heading = "Edit todo"
		}
		b.WriteString(SelectedStyle.Render(heading) + "\n\n")
		b.WriteString(LabelStyle.Render("Title") + "\n" + m.title.View() + "\n\n")
		b.WriteString(LabelStyle.Render("Description") + "\n" + m.desc.View() + "\n")
		if m.errMsg != "" {
			b.WriteString("\n" + ErrorStyle.Render(m.errMsg) + "\n")
		}
		b.WriteString("\n" + HelpStyle.Render("enter save · tab next field · esc cancel"))
		return BoxStyle.Render(b.String())
	}

	switch {
	case m.loading:
		b.WriteString(LabelStyle.Render("Loading todos…") + "\n")
	case len(m.todos) == 0:
		b.WriteString(LabelStyle.Render("Nothing here yet. Press n to add a todo.") + "\n")
	default:
		for i, t := range m.todos {
			marker := "[ ]"
			line := t.Title
			if t.Completed {
				marker = "[x]"
				line = DoneStyle.Render(line)
			}
			row := fmt.Sprintf("%s %s", marker, line)
			if t.Description != "" {
				row += LabelStyle.Render("  — " + t.Description)
			}
			if i == m.cursor {
				row = SelectedStyle.Render("› ") + row
			} else {
				row = "  " + row
			}
			b.WriteString(row + "\n")
		}
	}

	if m.summary != "" {
		b.WriteString("\n" + SummaryStyle.Render(m.summary) + "\n")
	}
	if m.errMsg != "" {
		b.WriteString("\n" + ErrorStyle.Render(m.errMsg) + "\n")
	}
	help := "n new · e edit · space toggle · d delete · s summary · r refresh"
	if admin {
		help += " · u users"
	}
	help += " · L logout · q quit"
	b.WriteString("\n" + HelpStyle.Render(help))
	return BoxStyle.Render(b.String())
}
