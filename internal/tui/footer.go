package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/SangamNirala/TodoList/pkg/models"
)

// TaskCounts holds the number of tasks in each completion state.
type TaskCounts struct {
	Total     int
	Active    int
	Completed int
}

// Footer renders the status bar and keyboard hints.
type Footer struct {
	notice       string
	noticeIsErr  bool
	inputFocused bool
	filter       models.Filter
	width        int
	counts       TaskCounts

	// Styles
	noticeStyle    lipgloss.Style
	errorStyle     lipgloss.Style
	hintStyle      lipgloss.Style
	countStyle     lipgloss.Style
	separatorStyle lipgloss.Style
}

// NewFooter creates a new Footer instance.
func NewFooter() *Footer {
	return &Footer{
		filter: models.FilterAll,

		noticeStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("28")).
			Bold(true),

		errorStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true),

		hintStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")),

		countStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")),

		separatorStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("236")),
	}
}

// SetNotice sets the transient status message.
func (f *Footer) SetNotice(notice string, isErr bool) {
	f.notice = notice
	f.noticeIsErr = isErr
}

// ClearNotice removes the status message.
func (f *Footer) ClearNotice() {
	f.notice = ""
	f.noticeIsErr = false
}

// Notice returns the current status message.
func (f *Footer) Notice() string {
	return f.notice
}

// SetInputFocused tells the footer which hint set to show.
func (f *Footer) SetInputFocused(focused bool) {
	f.inputFocused = focused
}

// SetFilter updates the filter shown in the footer.
func (f *Footer) SetFilter(filter models.Filter) {
	f.filter = filter
}

// SetWidth sets the footer width.
func (f *Footer) SetWidth(width int) {
	f.width = width
}

// SetCounts updates the task counts for display.
func (f *Footer) SetCounts(counts TaskCounts) {
	f.counts = counts
}

// View renders the footer.
func (f *Footer) View() string {
	var left string

	if f.notice != "" {
		if f.noticeIsErr {
			left = f.errorStyle.Render("✗ " + f.notice)
		} else {
			left = f.noticeStyle.Render("✓ " + f.notice)
		}
	} else if f.counts.Total > 0 {
		left = f.countStyle.Render(fmt.Sprintf("%d active · %d done · %s",
			f.counts.Active, f.counts.Completed, f.filter))
	}

	right := f.keyboardHints()

	sep := f.separatorStyle.Render(" │ ")

	if left != "" && right != "" {
		return left + sep + right
	} else if left != "" {
		return left
	}
	return right
}

// keyboardHints returns context-sensitive keyboard hints.
func (f *Footer) keyboardHints() string {
	if f.inputFocused {
		return f.hintStyle.Render("enter add │ esc cancel")
	}

	hints := "a add │ space toggle │ b break down │ f filter │ d delete │ q quit"
	return f.hintStyle.Render(hints)
}
