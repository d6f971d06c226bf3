package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"socialscribe/internal/config"
)

// newRootCmd builds the command tree. Running the binary without a
// subcommand starts the server.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "socialscribe",
		Short:         "Generate social media posts with Gemini",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, args)
		},
	}

	root.AddCommand(newServeCmd())
	root.AddCommand(newPromptCmd())
	root.AddCommand(newGenerateCmd())
	root.AddCommand(newResetLimitsCmd())

	return root
}

// setupLogger installs the default slog logger: text in development,
// JSON everywhere else.
func setupLogger(cfg *config.Config) {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if cfg.IsDev() {
		opts.Level = slog.LevelDebug
	}

	var handler slog.Handler
	if cfg.IsDev() {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
}
