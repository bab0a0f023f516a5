package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"library-records/library"

	"github.com/spf13/cobra"
)

// Version is reported by the version sub-command.
var Version = "dev"

type options struct {
	logLevel      string
	checkBorrowed bool
}

// NewRootCommand builds the library command. Without a sub-command it runs
// the interactive menu on the command's stdin and stdout.
func NewRootCommand() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:          "library",
		Short:        "Manage books and borrowers from an interactive menu",
		Long:         "Manage an in-memory book catalog and borrower registry.\nNothing is saved when the program exits.",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := newLogger(cmd.ErrOrStderr(), opts.logLevel)
			if err != nil {
				return err
			}

			mgr, err := library.NewLibraryManager(
				library.WithLogger(logger),
				library.WithBorrowedCheck(opts.checkBorrowed),
			)
			if err != nil {
				return fmt.Errorf("start library: %w", err)
			}
			defer mgr.Close()

			logger.Info("session started", "check_borrowed", opts.checkBorrowed)
			err = NewSession(mgr, cmd.InOrStdin(), cmd.OutOrStdout()).Run(cmd.Context())
			if errors.Is(err, context.Canceled) {
				logger.Info("session interrupted")
				return nil
			}
			return err
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.logLevel, "log-level", "warn", "diagnostic log level (debug, info, warn, error)")
	flags.BoolVar(&opts.checkBorrowed, "check-borrowed", false, "warn when a borrower holds ids missing from the catalog")

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), Version)
		},
	})

	return cmd
}

func newLogger(w io.Writer, level string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(level))); err != nil {
		return nil, fmt.Errorf("invalid --log-level %q: %w", level, err)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})), nil
}
