package update

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/todolist/internal/todo"
)

// toggle ignores entries that are already on their way out.
func (m *Model) toggle(h todo.Handle) {
	err := m.store.Toggle(m.ctx, h)
	switch {
	case err == nil:
		m.Status = StatusBar{}
	case errors.Is(err, todo.ErrPendingRemoval), errors.Is(err, todo.ErrUnknownTask):
	default:
		m.setError(err)
	}
}

// beginDelete starts the slide-out. The entry is dropped from the list and
// from storage once the last frame has played.
func (m Model) beginDelete(h todo.Handle) (tea.Model, tea.Cmd) {
	if err := m.store.BeginDelete(h); err != nil {
		return m, nil
	}
	if m.press != nil && m.press.handle == h {
		m.press = nil
	}
	m.slideFrames[h] = 0
	return m, after(m.ui.SlideOutFrameInterval(), SlideOutFrameMsg{Handle: h})
}

func (m Model) advanceSlideOut(h todo.Handle) (tea.Model, tea.Cmd) {
	frame, ok := m.slideFrames[h]
	if !ok {
		return m, nil
	}
	frame++
	m.slideFrames[h] = frame
	if frame >= m.ui.SlideOutFrames {
		return m, emit(DeleteAnimationDoneMsg{Handle: h})
	}
	return m, after(m.ui.SlideOutFrameInterval(), SlideOutFrameMsg{Handle: h})
}

func (m Model) finishDelete(h todo.Handle) (tea.Model, tea.Cmd) {
	delete(m.slideFrames, h)
	removed, err := m.store.FinishDelete(m.ctx, h)
	if err != nil {
		m.setError(err)
	}
	if !removed {
		return m, nil
	}
	m.clampCursor()
	return m, m.emptyStateCheckCmd()
}

func (m *Model) moveSelected(delta int) {
	e, ok := m.store.At(m.Cursor)
	if !ok {
		return
	}
	to := m.Cursor + delta
	if to < 0 || to >= m.store.Len() {
		return
	}
	err := m.store.Move(m.ctx, e.Handle, to)
	switch {
	case err == nil:
		m.Cursor = to
	case errors.Is(err, todo.ErrPendingRemoval):
	default:
		m.Cursor = m.store.IndexOf(e.Handle)
		m.setError(err)
	}
}
