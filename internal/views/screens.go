package views

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Column layout of an entry row:
//
//	0-1  drag handle / cursor
//	2-4  toggle box
//	6..  text, then two spaces and the delete mark
const (
	toggleCol      = 2
	textCol        = 6
	deleteGap      = 2
	deleteMark     = "✕"
	handleIdle     = "  "
	handleCursor   = "> "
	handleDragging = "≡ "
)

type Region int

const (
	RegionHandle Region = iota
	RegionToggle
	RegionText
	RegionDelete
)

func (r Region) String() string {
	switch r {
	case RegionToggle:
		return "toggle"
	case RegionText:
		return "text"
	case RegionDelete:
		return "delete"
	default:
		return "handle"
	}
}

type EntryData struct {
	ID         int64
	Text       string
	Completed  bool
	Selected   bool
	Dragging   bool
	Removing   bool
	SlideFrame int
}

var (
	doneTextStyle   = lipgloss.NewStyle().Strikethrough(true).Foreground(lipgloss.Color("8"))
	removingStyle   = lipgloss.NewStyle().Faint(true)
	draggingStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13"))
	deleteMarkStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	emptyStateStyle = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("8"))
	toastStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("1")).Padding(0, 1)
	inputErrorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

func RenderEntry(e EntryData) string {
	handle := handleIdle
	if e.Selected {
		handle = handleCursor
	}
	if e.Dragging {
		handle = handleDragging
	}
	box := "[ ]"
	text := e.Text
	if e.Completed {
		box = "[x]"
		text = doneTextStyle.Render(text)
	}
	row := fmt.Sprintf("%s%s %s%s%s", handle, box, text, strings.Repeat(" ", deleteGap), deleteMarkStyle.Render(deleteMark))
	switch {
	case e.Removing:
		return strings.Repeat(" ", 2*e.SlideFrame) + removingStyle.Render(row)
	case e.Dragging:
		return draggingStyle.Render(row)
	default:
		return row
	}
}

// HitEntry maps a mouse column on an entry row to the control under it.
func HitEntry(x int, text string) Region {
	w := lipgloss.Width(text)
	switch {
	case x >= toggleCol && x < toggleCol+3:
		return RegionToggle
	case x >= textCol && x < textCol+w:
		return RegionText
	case x == textCol+w+deleteGap:
		return RegionDelete
	default:
		return RegionHandle
	}
}

func RenderEmptyState() string {
	return emptyStateStyle.Render("  Nothing to do. Type a task above and press enter.")
}

func RenderToast(message string) string {
	return toastStyle.Render("! " + message)
}

// RenderInput draws the add field. A shaking field is nudged sideways and a
// rejected one keeps a red marker until it is edited.
func RenderInput(view string, shaking, errorBorder bool) string {
	marker := "  "
	if errorBorder {
		marker = inputErrorStyle.Render("! ")
	}
	if shaking {
		return " " + marker + view
	}
	return marker + view
}

func FormatHeaderDate(t time.Time) string {
	return t.Format("Monday, January 2")
}

func RenderCommandPalette(active bool, input string) string {
	if !active {
		return ""
	}
	return fmt.Sprintf("command: %s", input)
}

type HelpPanelData struct {
	Mode     string
	Bindings []string
	HelpView string
}

func RenderHelpPanel(data HelpPanelData) string {
	var md strings.Builder
	md.WriteString("### keys (" + strings.ToLower(data.Mode) + ")\n\n")
	for _, b := range data.Bindings {
		md.WriteString("- " + b + "\n")
	}
	return fmt.Sprintf("help:\n%s\n%s", RenderMarkdown(md.String()), data.HelpView)
}
