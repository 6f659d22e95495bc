package update

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/todolist/internal/drag"
	"github.com/sandeepkv93/todolist/internal/views"
)

// listRows lays entries out one terminal row each, counted from the first
// list row.
var listRows = drag.RowLayout{Top: 0, RowHeight: 1}

func rowBox(index int) drag.Box {
	return listRows.Box(index)
}

// pointerY turns an integer mouse row into a position inside that row. A
// pointer travelling down sits past the row's center and one travelling up
// sits before it, so crossing a row is enough to pass its midpoint.
func pointerY(row, prevRow int) float64 {
	switch {
	case row > prevRow:
		return float64(row) + 0.75
	case row < prevRow:
		return float64(row) + 0.25
	default:
		return float64(row) + 0.5
	}
}

func after(d time.Duration, msg tea.Msg) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return msg })
}

func emit(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}

func (m *Model) clampCursor() {
	n := m.store.Len()
	if m.Cursor >= n {
		m.Cursor = n - 1
	}
	if m.Cursor < 0 {
		m.Cursor = 0
	}
}

// window is the half-open range of list indexes on screen.
func (m Model) window() (start, end int) {
	n := m.store.Len()
	rows := views.ListRows(m.frame())
	if rows < 0 {
		return 0, n
	}
	start = min(max(m.offset, 0), max(n-rows, 0))
	return start, min(start+rows, n)
}

// followCursor scrolls the window just far enough to show the cursor.
func (m *Model) followCursor() {
	rows := views.ListRows(m.frame())
	if rows < 0 {
		m.offset = 0
		return
	}
	if m.Cursor < m.offset {
		m.offset = m.Cursor
	}
	if m.Cursor >= m.offset+rows {
		m.offset = m.Cursor - rows + 1
	}
	m.offset = min(max(m.offset, 0), max(m.store.Len()-rows, 0))
}

func (m *Model) setError(err error) {
	m.LastError = err
	m.Status = StatusBar{Text: err.Error(), IsError: true}
	m.logger.Error("operation failed", "err", err)
}
