package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/skydeck/internal/tasks"
)

// TaskPanelWidth is the preferred width of the task panel in cells.
const TaskPanelWidth = 38

// TasksModel is the to-do list panel.
type TasksModel struct {
	list   *tasks.List
	items  []tasks.Task
	cursor int
	input  textinput.Model
	status string
	err    bool

	width   int
	height  int
	focused bool
}

// NewTasksModel creates the panel for list.
func NewTasksModel(list *tasks.List) TasksModel {
	ti := textinput.New()
	ti.Placeholder = "New task"
	ti.Prompt = "+ "
	ti.CharLimit = 200

	return TasksModel{list: list, input: ti}
}

// Load reads the persisted list into the panel.
func (m TasksModel) Load() TasksModel {
	items, err := m.list.Load()
	if err != nil {
		return m.fail(err)
	}
	return m.setItems(items)
}

// SetSize updates the panel size.
func (m TasksModel) SetSize(width, height int) TasksModel {
	m.width = width
	m.height = height
	m.input.Width = max(width-6, 8)
	return m
}

// SetFocused sets whether list keys go to this panel.
func (m TasksModel) SetFocused(focused bool) TasksModel {
	m.focused = focused
	if !focused {
		m.input.Blur()
	}
	return m
}

// Focused reports whether the panel has focus.
func (m TasksModel) Focused() bool {
	return m.focused
}

// Editing reports whether the text input is capturing keys.
func (m TasksModel) Editing() bool {
	return m.input.Focused()
}

// Items returns the tasks currently shown.
func (m TasksModel) Items() []tasks.Task {
	return m.items
}

// Cursor returns the selected row.
func (m TasksModel) Cursor() int {
	return m.cursor
}

// StartEditing focuses the text input.
func (m TasksModel) StartEditing() (TasksModel, tea.Cmd) {
	m.focused = true
	return m, m.input.Focus()
}

// Update handles messages.
func (m TasksModel) Update(msg tea.Msg) (TasksModel, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		if m.Editing() {
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	if m.Editing() {
		switch key.String() {
		case "enter":
			return m.add(), nil
		case "esc":
			m.input.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	if !m.focused {
		return m, nil
	}

	switch key.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}
	case "a", "i":
		return m.StartEditing()
	case " ", "enter":
		return m.toggle(), nil
	case "x", "delete":
		return m.remove(), nil
	}
	return m, nil
}

func (m TasksModel) add() TasksModel {
	items, added, err := m.list.Add(m.input.Value())
	if err != nil {
		return m.fail(err)
	}
	if !added {
		m.status = ""
		return m
	}
	m.input.SetValue("")
	m = m.setItems(items)
	m.cursor = len(m.items) - 1
	m.status = "Added"
	return m
}

func (m TasksModel) toggle() TasksModel {
	if len(m.items) == 0 {
		return m
	}
	items, err := m.list.Toggle(m.cursor)
	if err != nil {
		return m.fail(err)
	}
	m = m.setItems(items)
	m.status = ""
	return m
}

func (m TasksModel) remove() TasksModel {
	if len(m.items) == 0 {
		return m
	}
	items, err := m.list.Delete(m.cursor)
	if err != nil {
		return m.fail(err)
	}
	m = m.setItems(items)
	m.status = "Deleted"
	return m
}

func (m TasksModel) setItems(items []tasks.Task) TasksModel {
	m.items = items
	m.err = false
	if m.cursor >= len(m.items) {
		m.cursor = len(m.items) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	return m
}

// fail keeps the last good list and reports err in the status line.
func (m TasksModel) fail(err error) TasksModel {
	m.status = err.Error()
	m.err = true
	return m
}

// View renders the panel.
func (m TasksModel) View() string {
	titleStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(colorAccent)).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(colorMuted))
	doneStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Strikethrough(true)
	openStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	selStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(colorGold)).Bold(true)

	var b strings.Builder

	title := fmt.Sprintf("TASKS %d/%d", tasks.Remaining(m.items), len(m.items))
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	rows := tasks.Rows(m.items)
	if len(rows) == 0 {
		b.WriteString(dimStyle.Render("Nothing to do"))
	}

	// Keep the cursor visible when the list is taller than the panel
	visible := max(m.height-6, 1)
	start := 0
	if m.cursor >= visible {
		start = m.cursor - visible + 1
	}

	textWidth := max(m.width-8, 4)
	for i := start; i < len(rows) && i < start+visible; i++ {
		row := rows[i]

		box := "[ ]"
		if row.Done {
			box = "[x]"
		}
		text := truncate(row.Text, textWidth)
		if row.Strike {
			text = doneStyle.Render(text)
		} else {
			text = openStyle.Render(text)
		}

		prefix := "  "
		if m.focused && !m.Editing() && i == m.cursor {
			prefix = selStyle.Render("▶ ")
		}
		b.WriteString(prefix + dimStyle.Render(box) + " " + text)
		if i < len(rows)-1 {
			b.WriteString("\n")
		}
	}

	if m.status != "" {
		style := dimStyle
		if m.err {
			style = lipgloss.NewStyle().Foreground(lipgloss.Color(colorError))
		}
		b.WriteString("\n\n" + style.Render(truncate(m.status, m.width-2)))
	}

	border := lipgloss.Color(colorMuted)
	if m.focused {
		border = lipgloss.Color(colorAccent)
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1).
		Width(max(m.width-2, 10)).
		Height(max(m.height-2, 3)).
		Render(b.String())
}
