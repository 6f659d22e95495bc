package update

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/todolist/internal/todo"
	"github.com/sandeepkv93/todolist/internal/views"
)

// handleMouse covers clicks on the add field and on entries, and
// press-move-release drags that reorder entries. A press that is released on
// the same entry without crossing another one counts as a click. Screen rows
// are turned into list indexes through the current window, so everything
// below works on indexes.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	row := msg.Y - views.ListTopRow
	start, end := m.window()
	index := start + row
	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			m.Cursor--
			m.clampCursor()
			return m, nil
		case tea.MouseButtonWheelDown:
			m.Cursor++
			m.clampCursor()
			return m, nil
		case tea.MouseButtonLeft:
		default:
			return m, nil
		}
		if msg.Y == views.InputRow {
			m.press = nil
			m.Mode = ModeInput
			return m, m.input.Focus()
		}
		if row < 0 || index >= end {
			m.press = nil
			return m, nil
		}
		e, ok := m.store.At(index)
		if !ok || e.State != todo.EntryActive {
			m.press = nil
			return m, nil
		}
		if m.Mode == ModeInput {
			m.input.Blur()
		}
		m.Mode = ModeList
		m.Cursor = index
		m.press = &pressState{handle: e.Handle, x: msg.X, index: index}
		return m, nil

	case tea.MouseActionMotion:
		if m.press == nil {
			return m, nil
		}
		h := m.press.handle
		if _, dragging := m.store.Dragging(); !dragging {
			if index == m.press.index {
				return m, nil
			}
			if err := m.store.StartDrag(h); err != nil {
				m.press = nil
				return m, nil
			}
			m.lastDragAt = m.press.index
		}
		m.store.DragOver(pointerY(index, m.lastDragAt), rowBox)
		m.lastDragAt = index
		m.Cursor = m.store.IndexOf(h)
		return m, nil

	case tea.MouseActionRelease:
		press := m.press
		m.press = nil
		if press == nil {
			return m, nil
		}
		if _, dragging := m.store.Dragging(); dragging {
			if err := m.store.EndDrag(m.ctx); err != nil {
				m.setError(err)
			}
			m.Cursor = m.store.IndexOf(press.handle)
			m.clampCursor()
			return m, nil
		}
		if index != press.index {
			return m, nil
		}
		return m.click(press.handle, msg.X)
	}
	return m, nil
}

func (m Model) click(h todo.Handle, x int) (tea.Model, tea.Cmd) {
	e, ok := m.store.At(m.store.IndexOf(h))
	if !ok {
		return m, nil
	}
	switch views.HitEntry(x, e.Task.Text) {
	case views.RegionToggle, views.RegionText:
		m.toggle(h)
	case views.RegionDelete:
		return m.beginDelete(h)
	}
	return m, nil
}
