package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/sandeepkv93/todolist/internal/commands"
	"github.com/sandeepkv93/todolist/internal/config"
	"github.com/sandeepkv93/todolist/internal/storage"
	"github.com/sandeepkv93/todolist/internal/todo"
	"github.com/sandeepkv93/todolist/internal/update"
	"github.com/spf13/cobra"
)

// App holds the persistent flag values. Empty values leave the config
// file and environment in charge.
type App struct {
	ConfigPath string
	Store      string
	Path       string
	Key        string
	LogFile    string
	LogLevel   string
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:           "todolist",
		Short:         "A small to-do list for the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		Example: strings.TrimSpace(`
  # Start the interactive list
  todolist

  # Scriptable commands
  todolist add buy milk
  todolist list --json
  todolist mv 3 1
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd.Context(), app)
		},
	}

	cmd.PersistentFlags().StringVar(&app.ConfigPath, "config", config.DefaultPath(), "Path to the TOML config file")
	cmd.PersistentFlags().StringVar(&app.Store, "store", "", "Storage backend (sqlite|file|memory)")
	cmd.PersistentFlags().StringVar(&app.Path, "path", "", "Path to the sqlite database or JSON store file")
	cmd.PersistentFlags().StringVar(&app.Key, "key", "", "Storage key holding the list")
	cmd.PersistentFlags().StringVar(&app.LogFile, "log-file", "", "Write logs to this file")
	cmd.PersistentFlags().StringVar(&app.LogLevel, "log-level", "", "Log level (debug|info|warn|error)")

	cmd.AddCommand(newListCmd(app))
	cmd.AddCommand(newAddCmd(app))
	cmd.AddCommand(newDoneCmd(app))
	cmd.AddCommand(newRemoveCmd(app))
	cmd.AddCommand(newMoveCmd(app))
	cmd.AddCommand(newVerifyCmd(app))

	return cmd
}

// loadConfig layers flags over the config file and environment.
func (app *App) loadConfig() (*config.Config, error) {
	cfg, err := config.LoadFrom(app.ConfigPath)
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv()
	if v := strings.TrimSpace(app.Store); v != "" {
		cfg.Storage.Backend = strings.ToLower(v)
	}
	if v := strings.TrimSpace(app.Path); v != "" {
		cfg.Storage.Path = v
	}
	if v := strings.TrimSpace(app.Key); v != "" {
		cfg.Storage.Key = v
	}
	if v := strings.TrimSpace(app.LogFile); v != "" {
		cfg.Log.File = v
	}
	if v := strings.TrimSpace(app.LogLevel); v != "" {
		cfg.Log.Level = strings.ToLower(v)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// session is an opened list plus what must be released afterwards.
type session struct {
	cfg    *config.Config
	logger *log.Logger
	kv     storage.KeyValueStore
	repo   *storage.TaskRepository
	store  *todo.Store
	closer []io.Closer
}

func (s *session) Close() error {
	var first error
	for i := len(s.closer) - 1; i >= 0; i-- {
		if err := s.closer[i].Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// openSession sets up config, logging and storage without reading the
// list. fallback receives logs when no log file is configured.
func openSession(ctx context.Context, app *App, fallback io.Writer) (*session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cfg, err := app.loadConfig()
	if err != nil {
		return nil, err
	}
	s := &session{cfg: cfg}

	out := fallback
	if cfg.Log.File != "" {
		f, err := openLogFile(cfg.Log.File)
		if err != nil {
			return nil, err
		}
		s.closer = append(s.closer, f)
		out = f
	}
	s.logger = newLogger(out, cfg.Log.Level)

	kv, err := openKV(ctx, cfg.Storage, s.logger)
	if err != nil {
		_ = s.Close()
		return nil, err
	}
	s.kv = kv
	s.closer = append(s.closer, kv)

	s.repo = storage.NewTaskRepository(kv, cfg.Storage.Key, s.logger)
	s.store = todo.New(s.repo, todo.WithLogger(s.logger))
	return s, nil
}

// openList is openSession followed by loading the stored list.
func openList(ctx context.Context, app *App, fallback io.Writer) (*session, error) {
	s, err := openSession(ctx, app, fallback)
	if err != nil {
		return nil, err
	}
	if err := s.store.Load(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}
	s.logger.Debug("list loaded", "backend", s.cfg.Storage.Backend, "key", s.cfg.Storage.Key, "tasks", s.store.Len())
	return s, nil
}

func openKV(ctx context.Context, cfg config.StorageConfig, logger *log.Logger) (storage.KeyValueStore, error) {
	switch cfg.Backend {
	case config.BackendSQLite:
		if err := ensureParentDir(cfg.Path); err != nil {
			return nil, err
		}
		return storage.OpenSQLite(ctx, cfg.Path, logger)
	case config.BackendFile:
		return storage.NewFileKV(cfg.Path)
	case config.BackendMemory:
		return storage.NewMemoryKV(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

func ensureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func openLogFile(path string) (*os.File, error) {
	if err := ensureParentDir(path); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return f, nil
}

func runTUI(ctx context.Context, app *App) error {
	if ctx == nil {
		ctx = context.Background()
	}
	// Anything written to the terminal would tear the screen, so logs go to
	// the log file or nowhere.
	s, err := openList(ctx, app, io.Discard)
	if err != nil {
		return err
	}
	defer s.Close()

	m := update.NewModel(s.store,
		update.WithContext(ctx),
		update.WithUIConfig(s.cfg.UI),
		update.WithHaptics(update.HapticsFor(s.cfg.UI.Haptics)),
		update.WithLogger(s.logger),
	)
	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("todolist: %w", err)
	}
	return nil
}

// exitCode maps an error returned by the root command to a process status.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var cerr *commands.CommandError
	if errors.As(err, &cerr) {
		return 2
	}
	return 1
}

// errorText is what the user sees for err on stderr.
func errorText(err error) string {
	if errors.Is(err, ErrEmptyTask) {
		return "Please enter a task"
	}
	return "error: " + err.Error()
}

// Main runs the root command against os.Args and returns the exit status.
func Main() int {
	err := NewRootCmd().Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, errorText(err))
	}
	return exitCode(err)
}
