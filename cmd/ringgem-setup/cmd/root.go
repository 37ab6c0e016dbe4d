package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/gkwa/ringgem-setup/internal/logger"
	"github.com/gkwa/ringgem-setup/internal/service/setup"
	"github.com/gkwa/ringgem-setup/internal/version"
)

var (
	// configPath to the optional settings YAML file.
	configPath string

	// verbosity counts -v flags: 0 errors, 1 warnings, 2 info, 3 debug.
	verbosity int

	// rootCmd represents the base command that runs the full setup sequence.
	rootCmd = &cobra.Command{
		Use:          "ringgem-setup",
		Short:        "Download ringgem and drive the task runner to install it",
		Long:         "Download the ringgem archive and its tooling scripts, install the go-task runner and the zip utility, unpack ringgem into ~/.local/share/ringgem and run its install tasks.",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			logger.SetLevel(logger.LevelFromVerbosity(verbosity))
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			if err := version.EnsureRuntime(); err != nil {
				return err
			}

			err := setup.Run(ctx, &setup.Options{ConfigPath: configPath})
			if err != nil && ctx.Err() != nil {
				logger.Warn(context.Background(), "Setup interrupted by user")
			}

			return err
		},
	}
)

// Execute runs the ringgem-setup CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Setup command flags with consistent naming and descriptions.
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "path to settings file (built-in defaults when omitted)")
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "increase verbosity (use -v, -vv, -vvv for more detail)")
}
