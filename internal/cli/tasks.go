package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/sandeepkv93/todolist/internal/commands"
	"github.com/sandeepkv93/todolist/internal/model"
	"github.com/sandeepkv93/todolist/internal/todo"
	"github.com/spf13/cobra"
)

// ErrEmptyTask is returned by add when the text is blank.
var ErrEmptyTask = errors.New("empty task")

func newListCmd(app *App) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the list, top first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openList(cmd.Context(), app, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer s.Close()

			tasks := s.store.Tasks()
			if asJSON {
				return writeJSON(cmd, tasks)
			}
			if len(tasks) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "nothing to do")
				return nil
			}
			for i, t := range tasks {
				fmt.Fprintln(cmd.OutOrStdout(), formatTask(i+1, t))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the stored JSON array")
	return cmd
}

func newAddCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "add <text...>",
		Short: "Add a task to the top of the list",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(strings.Join(args, " ")) == "" {
				return ErrEmptyTask
			}
			return runCommand(cmd, app, "add", args)
		},
	}
}

func newDoneCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "done <n>",
		Short: "Toggle the completed flag of the n-th task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCommand(cmd, app, "done", args)
		},
	}
}

func newRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <n>",
		Aliases: []string{"delete"},
		Short:   "Delete the n-th task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCommand(cmd, app, "rm", args)
		},
	}
}

func newMoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "mv <from> <to>",
		Short: "Move a task to another position",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCommand(cmd, app, "mv", args)
		},
	}
}

// runCommand goes through the same parser and handler table as the
// in-app command palette.
func runCommand(cmd *cobra.Command, app *App, name string, args []string) error {
	parsed, err := commands.Parse(name + " " + strings.Join(args, " "))
	if err != nil {
		return err
	}
	s, err := openList(cmd.Context(), app, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer s.Close()

	ctx := cmd.Context()
	store := s.store
	res, err := commands.Execute(parsed, commands.Handlers{
		Add: func(a commands.AddArgs) (commands.Result, error) {
			e, err := store.Add(ctx, a.Text)
			if errors.Is(err, todo.ErrEmptyText) {
				return commands.Result{}, ErrEmptyTask
			}
			if err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: formatTask(1, e.Task)}, nil
		},
		Done: func(a commands.DoneArgs) (commands.Result, error) {
			e, err := entryAt(store, a.Position)
			if err != nil {
				return commands.Result{}, err
			}
			if err := store.Toggle(ctx, e.Handle); err != nil {
				return commands.Result{}, err
			}
			e, _ = store.At(a.Position - 1)
			return commands.Result{Message: formatTask(a.Position, e.Task)}, nil
		},
		Remove: func(a commands.RemoveArgs) (commands.Result, error) {
			e, err := entryAt(store, a.Position)
			if err != nil {
				return commands.Result{}, err
			}
			if err := store.Delete(ctx, e.Handle); err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: "removed: " + e.Task.Text}, nil
		},
		Move: func(a commands.MoveArgs) (commands.Result, error) {
			e, err := entryAt(store, a.From)
			if err != nil {
				return commands.Result{}, err
			}
			if err := store.Move(ctx, e.Handle, a.To-1); err != nil {
				return commands.Result{}, err
			}
			to := store.IndexOf(e.Handle) + 1
			return commands.Result{Message: formatTask(to, e.Task)}, nil
		},
	})
	if err != nil {
		s.logger.Error("command failed", "command", parsed.Raw, "err", err)
		return err
	}
	s.logger.Debug("command done", "command", parsed.Raw)
	fmt.Fprintln(cmd.OutOrStdout(), res.Message)
	return nil
}

func entryAt(store *todo.Store, position int) (todo.Entry, error) {
	e, ok := store.At(position - 1)
	if !ok {
		return todo.Entry{}, &commands.CommandError{
			Code:    commands.ErrCodeInvalidArgument,
			Message: fmt.Sprintf("no task at position %d (list has %d)", position, store.Len()),
		}
	}
	return e, nil
}

func formatTask(position int, t model.Task) string {
	box := "[ ]"
	if t.Completed {
		box = "[x]"
	}
	return fmt.Sprintf("%d. %s %s", position, box, t.Text)
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
