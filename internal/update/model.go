package update

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/log"
	"github.com/sandeepkv93/todolist/internal/config"
	"github.com/sandeepkv93/todolist/internal/todo"
)

const emptyTaskMessage = "Please enter a task"

type Mode string

const (
	ModeInput   Mode = "input"
	ModeList    Mode = "list"
	ModePalette Mode = "palette"
)

type StatusBar struct {
	Text    string
	IsError bool
}

type KeyMap struct {
	Up       key.Binding
	Down     key.Binding
	MoveUp   key.Binding
	MoveDown key.Binding
	Toggle   key.Binding
	Delete   key.Binding
	Focus    key.Binding
	Blur     key.Binding
	Submit   key.Binding
	Palette  key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:       key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "cursor up")),
		Down:     key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "cursor down")),
		MoveUp:   key.NewBinding(key.WithKeys("K", "shift+up"), key.WithHelp("K", "move task up")),
		MoveDown: key.NewBinding(key.WithKeys("J", "shift+down"), key.WithHelp("J", "move task down")),
		Toggle:   key.NewBinding(key.WithKeys(" ", "space", "x", "enter"), key.WithHelp("space", "toggle done")),
		Delete:   key.NewBinding(key.WithKeys("d", "delete", "backspace"), key.WithHelp("d", "delete task")),
		Focus:    key.NewBinding(key.WithKeys("i", "a", "tab"), key.WithHelp("i", "new task")),
		Blur:     key.NewBinding(key.WithKeys("esc", "tab"), key.WithHelp("esc", "go to list")),
		Submit:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "add task")),
		Palette:  key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "command palette")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "toggle help")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

type Toast struct {
	ID   string
	Text string
}

// pressState is the entry under the left button between press and release.
// index is the list position, not the screen row.
type pressState struct {
	handle todo.Handle
	x      int
	index  int
}

type Model struct {
	Mode         Mode
	Cursor       int
	Toasts       []Toast
	EmptyVisible bool
	Shaking      bool
	InputError   bool
	Status       StatusBar
	HelpVisible  bool
	Quitting     bool
	LastError    error
	Keys         KeyMap

	ctx          context.Context
	store        *todo.Store
	ui           config.UIConfig
	haptics      Haptics
	logger       *log.Logger
	now          func() time.Time
	input        textinput.Model
	commandInput textinput.Model
	helpModel    help.Model
	slideFrames  map[todo.Handle]int
	press        *pressState
	lastDragAt   int
	width        int
	height       int
	// offset is the index of the first entry in the list window.
	offset int
}

type Option func(*Model)

func WithUIConfig(ui config.UIConfig) Option {
	return func(m *Model) { m.ui = ui }
}

func WithHaptics(h Haptics) Option {
	return func(m *Model) {
		if h != nil {
			m.haptics = h
		}
	}
}

func WithLogger(logger *log.Logger) Option {
	return func(m *Model) {
		if logger != nil {
			m.logger = logger
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(m *Model) {
		if now != nil {
			m.now = now
		}
	}
}

func WithContext(ctx context.Context) Option {
	return func(m *Model) {
		if ctx != nil {
			m.ctx = ctx
		}
	}
}

type SetStatusMsg struct {
	Text    string
	IsError bool
}

type ClearStatusMsg struct{}

type AppErrorMsg struct {
	Err error
}

// EmptyStateCheckMsg re-evaluates the empty placeholder after a list change.
type EmptyStateCheckMsg struct{}

type ShakeDoneMsg struct{}

type ToastExpiredMsg struct {
	ID string
}

type SlideOutFrameMsg struct {
	Handle todo.Handle
}

type DeleteAnimationDoneMsg struct {
	Handle todo.Handle
}

// NewModel builds the controller over an already loaded store.
func NewModel(store *todo.Store, opts ...Option) Model {
	m := Model{
		Mode:        ModeInput,
		Keys:        DefaultKeyMap(),
		ctx:         context.Background(),
		store:       store,
		ui:          config.Default().UI,
		haptics:     NoopHaptics{},
		logger:      log.New(io.Discard),
		now:         time.Now,
		slideFrames: make(map[todo.Handle]int),
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.initBubbleComponents()
	return m
}

func (m *Model) initBubbleComponents() {
	m.input = textinput.New()
	m.input.Placeholder = "What needs to be done?"
	m.input.Prompt = "› "
	m.input.CharLimit = 256
	m.input.Focus()

	m.commandInput = textinput.New()
	m.commandInput.Placeholder = "add <text> | done <n> | rm <n> | mv <from> <to>"
	m.commandInput.Prompt = "/"
	m.commandInput.CharLimit = 256

	m.helpModel = help.New()
}

// InputValue is the current, unsubmitted text of the add field.
func (m Model) InputValue() string {
	return m.input.Value()
}
