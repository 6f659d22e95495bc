package update

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
)

func (m Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.Keys.Submit):
		return m.submitInput()
	case key.Matches(msg, m.Keys.Blur):
		m.Mode = ModeList
		m.input.Blur()
		m.clampCursor()
		return m, nil
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.InputError && m.input.Value() != before {
		m.InputError = false
	}
	return m, cmd
}

func (m Model) submitInput() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(m.input.Value())
	if text == "" {
		return m.rejectEmptyInput()
	}
	m, cmd := m.addTask(text)
	m.input.SetValue("")
	return m, cmd
}

// addTask is shared by the add field and the palette.
func (m Model) addTask(text string) (Model, tea.Cmd) {
	e, err := m.store.Add(m.ctx, text)
	if err != nil {
		m.setError(err)
		if e.Handle == 0 {
			return m, nil
		}
	} else {
		m.Status = StatusBar{Text: "added: " + e.Task.Text}
	}
	m.Cursor = 0
	m.InputError = false
	m.pulse()
	return m, m.emptyStateCheckCmd()
}

func (m Model) rejectEmptyInput() (tea.Model, tea.Cmd) {
	m.Shaking = true
	m.InputError = true
	toast := Toast{ID: uuid.NewString(), Text: emptyTaskMessage}
	m.Toasts = append(m.Toasts, toast)
	m.logger.Debug("empty task rejected", "toast", toast.ID)
	return m, tea.Batch(
		after(m.ui.ShakeDuration(), ShakeDoneMsg{}),
		after(m.ui.ToastDuration(), ToastExpiredMsg{ID: toast.ID}),
	)
}

func (m *Model) removeToast(id string) {
	kept := make([]Toast, 0, len(m.Toasts))
	for _, t := range m.Toasts {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	m.Toasts = kept
}
