package update

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/todolist/internal/commands"
	"github.com/sandeepkv93/todolist/internal/todo"
)

func (m Model) openPalette() (tea.Model, tea.Cmd) {
	m.Mode = ModePalette
	m.commandInput.SetValue("")
	m.Status = StatusBar{Text: "command palette active"}
	return m, m.commandInput.Focus()
}

func (m Model) closePalette() Model {
	m.Mode = ModeList
	m.commandInput.SetValue("")
	m.commandInput.Blur()
	return m
}

func (m Model) handlePaletteKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m = m.closePalette()
		m.Status = StatusBar{Text: "command palette closed"}
		return m, nil
	case "enter":
		return m.executePaletteCommand(m.commandInput.Value())
	}
	var cmd tea.Cmd
	m.commandInput, cmd = m.commandInput.Update(msg)
	return m, cmd
}

func (m Model) executePaletteCommand(raw string) (tea.Model, tea.Cmd) {
	m = m.closePalette()
	cmd, err := commands.Parse(strings.TrimSpace(raw))
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m, nil
	}

	var follow tea.Cmd
	res, err := commands.Execute(cmd, commands.Handlers{
		Add: func(a commands.AddArgs) (commands.Result, error) {
			var next Model
			next, follow = m.addTask(a.Text)
			m = next
			if m.Status.IsError {
				return commands.Result{}, m.LastError
			}
			return commands.Result{Message: fmt.Sprintf("added: %s", a.Text)}, nil
		},
		Done: func(a commands.DoneArgs) (commands.Result, error) {
			e, err := m.entryAt(a.Position)
			if err != nil {
				return commands.Result{}, err
			}
			if err := m.store.Toggle(m.ctx, e.Handle); err != nil {
				return commands.Result{}, err
			}
			m.Cursor = a.Position - 1
			return commands.Result{Message: fmt.Sprintf("toggled %d: %s", a.Position, e.Task.Text)}, nil
		},
		Remove: func(a commands.RemoveArgs) (commands.Result, error) {
			e, err := m.entryAt(a.Position)
			if err != nil {
				return commands.Result{}, err
			}
			next, cmd := m.beginDelete(e.Handle)
			m, follow = next.(Model), cmd
			return commands.Result{Message: fmt.Sprintf("removing %d: %s", a.Position, e.Task.Text)}, nil
		},
		Move: func(a commands.MoveArgs) (commands.Result, error) {
			e, err := m.entryAt(a.From)
			if err != nil {
				return commands.Result{}, err
			}
			if err := m.store.Move(m.ctx, e.Handle, a.To-1); err != nil {
				return commands.Result{}, err
			}
			m.Cursor = m.store.IndexOf(e.Handle)
			return commands.Result{Message: fmt.Sprintf("moved %d to %d", a.From, a.To)}, nil
		},
	})
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		m.logger.Warn("command failed", "command", cmd.Raw, "err", err)
		return m, follow
	}
	m.Status = StatusBar{Text: res.Message}
	m.logger.Info("command", "command", cmd.Raw, "result", res.Message)
	return m, follow
}

func (m Model) entryAt(position int) (todo.Entry, error) {
	e, ok := m.store.At(position - 1)
	if !ok {
		return todo.Entry{}, &commands.CommandError{
			Code:    commands.ErrCodeInvalidArgument,
			Message: fmt.Sprintf("no task at position %d", position),
		}
	}
	return e, nil
}
