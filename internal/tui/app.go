// Package tui provides the interactive terminal interface for the todo
// tool: a task list with inline subtasks, a text input for new tasks,
// and transient notices for breakdown results.
package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/SangamNirala/TodoList/internal/decompose"
	"github.com/SangamNirala/TodoList/internal/store"
	"github.com/SangamNirala/TodoList/pkg/models"
)

// DefaultNoticeDuration is how long transient notices stay visible.
const DefaultNoticeDuration = 4 * time.Second

// GenerationEventMsg wraps a decomposition event for the TUI.
type GenerationEventMsg struct {
	Event decompose.Event
}

// noticeExpiredMsg clears the transient notice once its display window
// has elapsed. The seq guard keeps an old timer from clearing a newer
// notice.
type noticeExpiredMsg struct {
	seq int
}

// AppConfig carries the dependencies the TUI needs.
type AppConfig struct {
	Store       *store.Store
	Coordinator *decompose.Coordinator
	// Persist is called after every mutation; errors surface as notices.
	Persist func() error
	// Context is passed to breakdown requests.
	Context        context.Context
	NoticeDuration time.Duration
	// InitialNotice is shown on startup, e.g. when credentials are missing.
	InitialNotice string
}

// App is the main bubbletea model for the todo TUI.
type App struct {
	store       *store.Store
	coordinator *decompose.Coordinator
	persist     func() error
	ctx         context.Context

	list   *TaskList
	input  *InputField
	footer *Footer

	filter         models.Filter
	inputFocused   bool
	noticeSeq      int
	noticeDuration time.Duration
	initialNotice  string
	width          int
	height         int
	quitting       bool
}

// NewApp creates a new App instance.
func NewApp(cfg AppConfig) *App {
	if cfg.Context == nil {
		cfg.Context = context.Background()
	}
	if cfg.NoticeDuration <= 0 {
		cfg.NoticeDuration = DefaultNoticeDuration
	}
	if cfg.Persist == nil {
		cfg.Persist = func() error { return nil }
	}

	a := &App{
		store:          cfg.Store,
		coordinator:    cfg.Coordinator,
		persist:        cfg.Persist,
		ctx:            cfg.Context,
		list:           NewTaskList(),
		input:          NewInputField(),
		footer:         NewFooter(),
		filter:         models.FilterAll,
		noticeDuration: cfg.NoticeDuration,
		initialNotice:  cfg.InitialNotice,
		width:          80,
		height:         24,
	}
	a.refresh()
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	if a.initialNotice != "" {
		return a.showNotice(a.initialNotice, true)
	}
	return nil
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if a.inputFocused {
			return a.updateInputMode(msg)
		}
		return a.updateListMode(msg)

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.updateSizes()

	case TaskSubmittedMsg:
		return a.handleSubmit(msg)

	case GenerationEventMsg:
		return a.handleGenerationEvent(msg.Event)

	case noticeExpiredMsg:
		if msg.seq == a.noticeSeq {
			a.footer.ClearNotice()
		}
	}

	return a, nil
}

// updateInputMode routes keys while the input field has focus.
func (a *App) updateInputMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		a.quitting = true
		return a, tea.Quit

	case "esc":
		a.inputFocused = false
		a.input.Blur()
		a.footer.SetInputFocused(false)
		return a, nil
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

// updateListMode routes keys while the task list has focus.
func (a *App) updateListMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		a.quitting = true
		return a, tea.Quit

	case "a":
		a.inputFocused = true
		a.footer.SetInputFocused(true)
		return a, a.input.Focus()

	case "up", "k", "down", "j", "g", "G":
		var cmd tea.Cmd
		a.list, cmd = a.list.Update(msg)
		return a, cmd

	case " ", "enter":
		return a, a.toggleSelected()

	case "d":
		return a, a.deleteSelected()

	case "b":
		return a, a.breakdownSelected()

	case "e", "tab":
		return a, a.expandSelected()

	case "f":
		a.filter = a.filter.Next()
		a.refresh()
		return a, nil

	case "c":
		return a, a.clearCompleted()

	case "esc", "x":
		a.noticeSeq++
		a.footer.ClearNotice()
		return a, nil
	}

	return a, nil
}

// handleSubmit adds a new task from the input field.
func (a *App) handleSubmit(msg TaskSubmittedMsg) (tea.Model, tea.Cmd) {
	if _, err := a.store.Add(msg.Text); err != nil {
		return a, a.showNotice("Couldn't add task: "+err.Error(), true)
	}
	a.refresh()
	return a, a.save()
}

// handleGenerationEvent surfaces a breakdown outcome as a notice.
func (a *App) handleGenerationEvent(ev decompose.Event) (tea.Model, tea.Cmd) {
	a.refresh()

	switch ev.Type {
	case decompose.EventDecomposed:
		return a, a.showNotice(ev.Message, false)
	case decompose.EventGenerationFailed:
		return a, a.showNotice(ev.Message, true)
	}
	return a, nil
}

// toggleSelected flips completion on the selected task or subtask.
func (a *App) toggleSelected() tea.Cmd {
	row, ok := a.list.Selected()
	if !ok {
		return nil
	}

	var err error
	if row.subtaskID != "" {
		_, err = a.store.ToggleSubtask(row.taskID, row.subtaskID)
	} else {
		_, err = a.store.ToggleTask(row.taskID)
	}
	if err != nil {
		return a.showNotice("Couldn't toggle: "+err.Error(), true)
	}

	a.refresh()
	return a.save()
}

// deleteSelected removes the selected task. Subtask rows delete nothing;
// the whole task goes away only from its own row.
func (a *App) deleteSelected() tea.Cmd {
	row, ok := a.list.Selected()
	if !ok || row.subtaskID != "" {
		return nil
	}

	a.store.Delete(row.taskID)
	a.refresh()
	return a.save()
}

// breakdownSelected requests an async decomposition of the selected task.
func (a *App) breakdownSelected() tea.Cmd {
	row, ok := a.list.Selected()
	if !ok {
		return nil
	}

	task, ok := a.store.Get(row.taskID)
	if !ok {
		return nil
	}

	err := a.coordinator.Request(a.ctx, task.ID, task.Text)
	switch {
	case err == nil:
		a.refresh()
		return a.showNotice("Breaking down the task...", false)
	case errors.Is(err, store.ErrGenerationPending):
		return a.showNotice("Breakdown already running for this task", true)
	case errors.Is(err, store.ErrAlreadyDecomposed):
		return a.showNotice("Task already has subtasks", true)
	case errors.Is(err, store.ErrTaskCompleted):
		return a.showNotice("Task is already completed", true)
	default:
		return a.showNotice("Couldn't start breakdown: "+err.Error(), true)
	}
}

// expandSelected toggles subtask visibility on the selected task.
func (a *App) expandSelected() tea.Cmd {
	row, ok := a.list.Selected()
	if !ok {
		return nil
	}

	if _, err := a.store.ToggleExpanded(row.taskID); err != nil {
		return nil
	}
	a.refresh()
	return a.save()
}

// clearCompleted removes every completed task.
func (a *App) clearCompleted() tea.Cmd {
	removed := a.store.ClearCompleted()
	if removed == 0 {
		return a.showNotice("No completed tasks to clear", true)
	}

	a.refresh()
	cmds := []tea.Cmd{
		a.save(),
		a.showNotice(pluralizeCleared(removed), false),
	}
	return tea.Batch(cmds...)
}

// refresh re-reads the store and rebuilds the visible rows.
func (a *App) refresh() {
	a.list.SetTasks(a.store.Tasks(a.filter))
	a.list.SetFilter(a.filter)
	a.footer.SetFilter(a.filter)

	total, active, completed := a.store.Counts()
	a.footer.SetCounts(TaskCounts{Total: total, Active: active, Completed: completed})
}

// save persists the store and surfaces failures as a notice.
func (a *App) save() tea.Cmd {
	if err := a.persist(); err != nil {
		return a.showNotice("Couldn't save: "+err.Error(), true)
	}
	return nil
}

// showNotice displays a transient message and schedules its expiry.
func (a *App) showNotice(text string, isErr bool) tea.Cmd {
	a.noticeSeq++
	a.footer.SetNotice(text, isErr)

	seq := a.noticeSeq
	return tea.Tick(a.noticeDuration, func(time.Time) tea.Msg {
		return noticeExpiredMsg{seq: seq}
	})
}

// updateSizes propagates the terminal size to child components.
func (a *App) updateSizes() {
	inputHeight := 3
	footerHeight := 1
	listHeight := a.height - inputHeight - footerHeight - 1
	if listHeight < 5 {
		listHeight = 5
	}

	a.list.SetSize(a.width, listHeight)
	a.input.SetWidth(a.width)
	a.footer.SetWidth(a.width)
}

// View implements tea.Model.
func (a *App) View() string {
	if a.quitting {
		return "Goodbye!\n"
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		a.list.View(),
		a.input.View(),
		a.footer.View(),
	)
}

// NewProgram creates a Bubbletea program for the todo TUI. The returned
// program can receive messages via Send().
func NewProgram(cfg AppConfig) (*tea.Program, *App) {
	app := NewApp(cfg)
	p := tea.NewProgram(app, tea.WithAltScreen())
	return p, app
}

// pluralizeCleared formats the clear-completed notice.
func pluralizeCleared(n int) string {
	if n == 1 {
		return "Cleared 1 completed task"
	}
	return fmt.Sprintf("Cleared %d completed tasks", n)
}
