package update

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/todolist/internal/todo"
	"github.com/sandeepkv93/todolist/internal/views"
)

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.emptyStateCheckCmd())
}

// Update applies msg and then scrolls the list window to keep the cursor on
// screen.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.update(msg)
	if nm, ok := next.(Model); ok {
		nm.followCursor()
		return nm, cmd
	}
	return next, cmd
}

func (m Model) update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = typed.Width
		m.height = typed.Height
		m.input.Width = max(typed.Width-8, 10)
		return m, nil
	case tea.KeyMsg:
		if typed.String() == "ctrl+c" {
			m.Quitting = true
			return m, tea.Quit
		}
		switch m.Mode {
		case ModePalette:
			return m.handlePaletteKey(typed)
		case ModeList:
			return m.handleListKey(typed)
		default:
			return m.handleInputKey(typed)
		}
	case tea.MouseMsg:
		return m.handleMouse(typed)
	case EmptyStateCheckMsg:
		m.EmptyVisible = m.store.Empty()
		return m, nil
	case ShakeDoneMsg:
		m.Shaking = false
		return m, nil
	case ToastExpiredMsg:
		m.removeToast(typed.ID)
		return m, nil
	case SlideOutFrameMsg:
		return m.advanceSlideOut(typed.Handle)
	case DeleteAnimationDoneMsg:
		return m.finishDelete(typed.Handle)
	case SetStatusMsg:
		m.Status = StatusBar{Text: typed.Text, IsError: typed.IsError}
		return m, nil
	case ClearStatusMsg:
		m.Status = StatusBar{}
		return m, nil
	case AppErrorMsg:
		if typed.Err != nil {
			m.setError(typed.Err)
		}
		return m, nil
	}

	// cursor blink and other component ticks
	var cmd tea.Cmd
	if m.Mode == ModePalette {
		m.commandInput, cmd = m.commandInput.Update(msg)
	} else {
		m.input, cmd = m.input.Update(msg)
	}
	return m, cmd
}

func (m Model) emptyStateCheckCmd() tea.Cmd {
	return after(m.ui.EmptyStateDelay(), EmptyStateCheckMsg{})
}

func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.Keys.Quit):
		m.Quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.Keys.Help):
		m.HelpVisible = !m.HelpVisible
		return m, nil
	case key.Matches(msg, m.Keys.Palette):
		return m.openPalette()
	case key.Matches(msg, m.Keys.Focus):
		m.Mode = ModeInput
		return m, m.input.Focus()
	case key.Matches(msg, m.Keys.Up):
		m.Cursor--
		m.clampCursor()
	case key.Matches(msg, m.Keys.Down):
		m.Cursor++
		m.clampCursor()
	case key.Matches(msg, m.Keys.MoveUp):
		m.moveSelected(-1)
	case key.Matches(msg, m.Keys.MoveDown):
		m.moveSelected(1)
	case key.Matches(msg, m.Keys.Toggle):
		if e, ok := m.store.At(m.Cursor); ok {
			m.toggle(e.Handle)
		}
	case key.Matches(msg, m.Keys.Delete):
		if e, ok := m.store.At(m.Cursor); ok {
			return m.beginDelete(e.Handle)
		}
	}
	return m, nil
}

func (m Model) View() string {
	if m.Quitting {
		return ""
	}
	data := m.frame()
	start, end := m.window()
	dragged, dragging := m.store.Dragging()
	lines := make([]string, 0, end-start+1)
	for i := start; i < end; i++ {
		e, _ := m.store.At(i)
		lines = append(lines, views.RenderEntry(views.EntryData{
			ID:         e.Task.ID,
			Text:       e.Task.Text,
			Completed:  e.Task.Completed,
			Selected:   m.Mode == ModeList && i == m.Cursor,
			Dragging:   dragging && e.Handle == dragged,
			Removing:   e.State == todo.EntryPendingRemoval,
			SlideFrame: m.slideFrames[e.Handle],
		}))
	}
	if rows := views.ListRows(data); m.EmptyVisible && (rows < 0 || len(lines) < rows) {
		lines = append(lines, views.RenderEmptyState())
	}
	data.ListLines = lines
	return views.RenderApp(data)
}

// frame is everything on screen except the list lines.
func (m Model) frame() views.AppData {
	toasts := make([]string, 0, len(m.Toasts))
	for _, t := range m.Toasts {
		toasts = append(toasts, t.Text)
	}

	status := ""
	if m.Status.Text != "" {
		if m.Status.IsError {
			status = fmt.Sprintf("error: %s", m.Status.Text)
		} else {
			status = m.Status.Text
		}
	}

	return views.AppData{
		Header:     fmt.Sprintf("todolist · %s · %d open", views.FormatHeaderDate(m.now()), m.openCount()),
		Input:      views.RenderInput(m.input.View(), m.Shaking, m.InputError),
		Toasts:     toasts,
		StatusLine: status,
		Palette:    views.RenderCommandPalette(m.Mode == ModePalette, m.commandInput.View()),
		Help:       m.renderHelpIfVisible(),
		Footer:     m.footer(),
		Width:      m.width,
		Height:     m.height,
	}
}

func (m Model) openCount() int {
	n := 0
	for _, e := range m.store.Entries() {
		if !e.Task.Completed && e.State == todo.EntryActive {
			n++
		}
	}
	return n
}

func (m Model) footer() string {
	switch m.Mode {
	case ModeList:
		return "j/k move · space done · d delete · K/J reorder · i add · / cmd · ? help · q quit"
	case ModePalette:
		return "enter run · esc close"
	default:
		return "enter add · esc list · drag ≡ to reorder · ctrl+c quit"
	}
}
