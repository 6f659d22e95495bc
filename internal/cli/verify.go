package cli

import (
	"fmt"

	"github.com/sandeepkv93/todolist/internal/storage"
	"github.com/spf13/cobra"
)

type verifyFailedError struct {
	key      string
	problems int
}

func (e verifyFailedError) Error() string {
	return fmt.Sprintf("stored list %q has %d problem(s)", e.key, e.problems)
}

func newVerifyCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Check the stored list against its schema",
		Long: "verify reads the raw stored document without loading it and reports\n" +
			"schema violations and duplicate ids. It exits non-zero when any are found.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context(), app, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer s.Close()

			raw, err := s.repo.Raw(cmd.Context())
			if err != nil {
				return err
			}
			problems, err := storage.Verify(raw)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(problems) == 0 {
				fmt.Fprintf(out, "ok: %q is valid\n", s.repo.Key())
				return nil
			}
			for _, p := range problems {
				fmt.Fprintln(out, p.String())
			}
			return verifyFailedError{key: s.repo.Key(), problems: len(problems)}
		},
	}
}
