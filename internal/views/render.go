package views

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

// Screen rows. Everything above the list is exactly one line tall so mouse
// rows can be mapped back to entries.
const (
	HeaderRow  = 0
	InputRow   = 1
	ListTopRow = 3
)

// AppData is one frame. Height is the terminal height, zero when unknown.
// ListLines must already fit in ListRows(data).
type AppData struct {
	Header     string
	Input      string
	ListLines  []string
	Toasts     []string
	StatusLine string
	Palette    string
	Help       string
	Footer     string
	Width      int
	Height     int
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	panelStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	ruleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// RenderApp draws the frame top-anchored. Lines past Height are dropped from
// the bottom so screen rows keep matching ListTopRow and the list window.
func RenderApp(data AppData) string {
	width := data.Width
	if width <= 0 {
		width = 60
	}
	lines := []string{
		headerStyle.Render(firstLine(data.Header)),
		firstLine(data.Input),
		ruleStyle.Render(strings.Repeat("─", width)),
	}
	lines = append(lines, data.ListLines...)
	lines = append(lines, bottomLines(data)...)
	if data.Height > 0 && len(lines) > data.Height {
		lines = lines[:data.Height]
	}
	return strings.Join(lines, "\n")
}

// ListRows is the number of list lines that fit between the rule and the
// bottom panels, or -1 when the height is unknown.
func ListRows(data AppData) int {
	if data.Height <= 0 {
		return -1
	}
	return max(data.Height-ListTopRow-len(bottomLines(data)), 1)
}

func bottomLines(data AppData) []string {
	blocks := []string{""}
	for _, toast := range data.Toasts {
		blocks = append(blocks, RenderToast(toast))
	}
	if data.StatusLine != "" {
		status := statusStyle.Render(data.StatusLine)
		if strings.Contains(strings.ToLower(data.StatusLine), "error") {
			status = errorStyle.Render(data.StatusLine)
		}
		blocks = append(blocks, status)
	}
	if data.Palette != "" {
		blocks = append(blocks, data.Palette)
	}
	if data.Help != "" {
		blocks = append(blocks, panelStyle.Render(data.Help))
	}
	if data.Footer != "" {
		blocks = append(blocks, footerStyle.Render(data.Footer))
	}
	return strings.Split(strings.Join(blocks, "\n"), "\n")
}

func RenderMarkdown(md string) string {
	if strings.TrimSpace(md) == "" {
		return ""
	}
	out, err := glamour.Render(md, "dark")
	if err != nil {
		return md
	}
	return strings.TrimSpace(out)
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
