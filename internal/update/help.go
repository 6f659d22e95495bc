package update

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/sandeepkv93/todolist/internal/views"
)

type helpKeyMap struct {
	short []key.Binding
	full  [][]key.Binding
}

func (k helpKeyMap) ShortHelp() []key.Binding  { return k.short }
func (k helpKeyMap) FullHelp() [][]key.Binding { return k.full }

func (m Model) renderHelpIfVisible() string {
	if !m.HelpVisible {
		return ""
	}
	return m.renderHelpView()
}

func (m Model) renderHelpView() string {
	bindings := m.modeBindings()
	plain := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		plain = append(plain, fmt.Sprintf("%s: %s", h.Key, h.Desc))
	}
	plain = append(plain, "mouse: click a box or text to toggle, ✕ to delete, drag a row to reorder")
	return views.RenderHelpPanel(views.HelpPanelData{
		Mode:     string(m.Mode),
		Bindings: plain,
		HelpView: m.helpModel.View(helpKeyMap{
			short: bindings,
			full:  [][]key.Binding{bindings},
		}),
	})
}

func (m Model) modeBindings() []key.Binding {
	k := m.Keys
	switch m.Mode {
	case ModeList:
		return []key.Binding{k.Up, k.Down, k.Toggle, k.Delete, k.MoveUp, k.MoveDown, k.Focus, k.Palette, k.Help, k.Quit}
	default:
		return []key.Binding{k.Submit, k.Blur}
	}
}
