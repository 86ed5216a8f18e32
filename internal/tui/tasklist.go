package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/SangamNirala/TodoList/pkg/models"
)

// List markers.
const (
	checkboxDone   = "[x]"
	checkboxOpen   = "[ ]"
	arrowExpanded  = "▾"
	arrowCollapsed = "▸"
	markerPending  = "⟳"
)

// listRow represents a rendered line that can be selected. Subtask rows
// carry both IDs; task rows leave subtaskID empty.
type listRow struct {
	taskID    string
	subtaskID string
}

// TaskList displays a scrollable list of tasks with their subtasks
// nested under expanded parents.
type TaskList struct {
	tasks        []models.Task
	filter       models.Filter
	selected     int
	scrollOffset int
	width        int
	height       int

	// Rendered lines for navigation
	rows []listRow

	// Styles
	titleStyle    lipgloss.Style
	selectedStyle lipgloss.Style
	normalStyle   lipgloss.Style
	doneStyle     lipgloss.Style
	checkboxStyle lipgloss.Style
	arrowStyle    lipgloss.Style
	pendingStyle  lipgloss.Style
	countStyle    lipgloss.Style
	emptyStyle    lipgloss.Style
}

// NewTaskList creates a new TaskList instance.
func NewTaskList() *TaskList {
	return &TaskList{
		tasks:  make([]models.Task, 0),
		filter: models.FilterAll,
		rows:   make([]listRow, 0),

		titleStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Padding(0, 1),

		selectedStyle: lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("15")).
			Bold(true),

		normalStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")),

		doneStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("243")).
			Strikethrough(true),

		checkboxStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("34")), // Green

		arrowStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("75")), // Light blue

		pendingStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")), // Orange

		countStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")),

		emptyStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true),
	}
}

// SetTasks updates the list of tasks.
func (l *TaskList) SetTasks(tasks []models.Task) {
	l.tasks = tasks
	// Rebuild rows after task update
	l.buildRows()
	// Ensure selected index is valid
	if l.selected >= len(l.rows) {
		l.selected = len(l.rows) - 1
	}
	if l.selected < 0 {
		l.selected = 0
	}
	l.ensureVisible()
}

// SetFilter sets the filter shown in the panel title.
func (l *TaskList) SetFilter(f models.Filter) {
	l.filter = f
}

// SetSize updates the panel dimensions.
func (l *TaskList) SetSize(width, height int) {
	l.width = width
	l.height = height
	l.ensureVisible()
}

// buildRows creates the list of selectable rows. Subtasks only appear
// under tasks that are expanded.
func (l *TaskList) buildRows() {
	l.rows = make([]listRow, 0, len(l.tasks))

	for _, task := range l.tasks {
		l.rows = append(l.rows, listRow{taskID: task.ID})

		if task.Expanded {
			for _, sub := range task.Subtasks {
				l.rows = append(l.rows, listRow{
					taskID:    task.ID,
					subtaskID: sub.ID,
				})
			}
		}
	}
}

// Update handles navigation messages.
func (l *TaskList) Update(msg tea.Msg) (*TaskList, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if l.selected > 0 {
				l.selected--
				l.ensureVisible()
			}
		case "down", "j":
			if l.selected < len(l.rows)-1 {
				l.selected++
				l.ensureVisible()
			}
		case "g":
			l.selected = 0
			l.ensureVisible()
		case "G":
			if len(l.rows) > 0 {
				l.selected = len(l.rows) - 1
				l.ensureVisible()
			}
		}
	}

	return l, nil
}

// ensureVisible adjusts scroll offset to keep the selected row visible.
func (l *TaskList) ensureVisible() {
	// Account for title and borders
	visibleRows := l.height - 4
	if visibleRows < 1 {
		visibleRows = 1
	}

	if l.selected < l.scrollOffset {
		l.scrollOffset = l.selected
	} else if l.selected >= l.scrollOffset+visibleRows {
		l.scrollOffset = l.selected - visibleRows + 1
	}
}

// View renders the task list.
func (l *TaskList) View() string {
	var b strings.Builder

	title := "Tasks"
	if l.filter != models.FilterAll {
		title = fmt.Sprintf("Tasks · %s", l.filter)
	}
	b.WriteString(l.titleStyle.Render(title))
	b.WriteString("\n")

	if len(l.rows) == 0 {
		b.WriteString(l.emptyStyle.Render("  Nothing here. Press a to add a task."))
	} else {
		taskIndex := make(map[string]*models.Task, len(l.tasks))
		for i := range l.tasks {
			taskIndex[l.tasks[i].ID] = &l.tasks[i]
		}

		visibleRows := l.height - 4
		if visibleRows < 1 {
			visibleRows = 1
		}
		end := l.scrollOffset + visibleRows
		if end > len(l.rows) {
			end = len(l.rows)
		}

		for i := l.scrollOffset; i < end; i++ {
			row := l.rows[i]
			task := taskIndex[row.taskID]
			if task == nil {
				continue
			}

			var line string
			if row.subtaskID == "" {
				line = l.renderTaskLine(task, i == l.selected)
			} else {
				line = l.renderSubtaskLine(task, row.subtaskID, i == l.selected)
			}

			b.WriteString(line)
			if i < end-1 {
				b.WriteString("\n")
			}
		}
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Width(l.width - 2). // Account for border
		Height(l.height - 2).
		Render(b.String())
}

// renderTaskLine renders a top-level task row.
func (l *TaskList) renderTaskLine(task *models.Task, selected bool) string {
	arrow := " "
	if task.Decomposed() {
		arrow = arrowCollapsed
		if task.Expanded {
			arrow = arrowExpanded
		}
	}

	checkbox := checkboxOpen
	if task.Completed {
		checkbox = checkboxDone
	}

	// Subtask progress counter for decomposed tasks
	suffix := ""
	if task.Decomposed() {
		done := 0
		for _, sub := range task.Subtasks {
			if sub.Completed {
				done++
			}
		}
		suffix = l.countStyle.Render(fmt.Sprintf(" [%d/%d]", done, len(task.Subtasks)))
	}
	if task.Generation == models.GenerationPending {
		suffix += l.pendingStyle.Render(" " + markerPending + " breaking down...")
	}

	text := l.truncate(task.Text, l.width-12)
	if task.Completed {
		text = l.doneStyle.Render(text)
	}

	line := fmt.Sprintf(" %s %s %s%s",
		l.arrowStyle.Render(arrow), l.checkboxStyle.Render(checkbox), text, suffix)

	if selected {
		return l.selectedStyle.Render(line)
	}
	return l.normalStyle.Render(line)
}

// renderSubtaskLine renders a subtask row with indentation.
func (l *TaskList) renderSubtaskLine(task *models.Task, subtaskID string, selected bool) string {
	sub := task.SubtaskByID(subtaskID)
	if sub == nil {
		return ""
	}

	checkbox := checkboxOpen
	if sub.Completed {
		checkbox = checkboxDone
	}

	text := l.truncate(sub.Text, l.width-16)
	if sub.Completed {
		text = l.doneStyle.Render(text)
	}

	line := fmt.Sprintf("   └─ %s %s", l.checkboxStyle.Render(checkbox), text)

	if selected {
		return l.selectedStyle.Render(line)
	}
	return l.normalStyle.Render(line)
}

// truncate shortens text to fit the panel width.
func (l *TaskList) truncate(text string, max int) string {
	if max < 10 {
		max = 10
	}
	if len(text) > max {
		return text[:max-3] + "..."
	}
	return text
}

// Selected returns the currently selected row, or false if the list is empty.
func (l *TaskList) Selected() (listRow, bool) {
	if len(l.rows) == 0 || l.selected < 0 || l.selected >= len(l.rows) {
		return listRow{}, false
	}
	return l.rows[l.selected], true
}

// SelectedTaskID returns the task ID of the selected row, or "" if none.
// For subtask rows this is the parent task's ID.
func (l *TaskList) SelectedTaskID() string {
	row, ok := l.Selected()
	if !ok {
		return ""
	}
	return row.taskID
}

// RowCount returns the number of selectable rows.
func (l *TaskList) RowCount() int {
	return len(l.rows)
}
