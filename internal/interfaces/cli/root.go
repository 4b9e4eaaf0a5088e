// Package cli wires the deskai commands: authentication, request
// submission, listing, and the live board.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/rbetancur/amg-desk-ai/internal/infrastructure/config"
	"github.com/rbetancur/amg-desk-ai/internal/shared/logger"
)

func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deskai",
		Short: "Help desk client",
		Long:  `Deskai submits and tracks help desk requests from the terminal, with a live-updating board driven by the backend's change feed.`,

		SilenceUsage:  true,
		SilenceErrors: true,

		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return logger.Init(&cfg.Logger)
		},
	}

	cmd.AddCommand(
		newLoginCommand(),
		newLogoutCommand(),
		newSignupCommand(),
		newSubmitCommand(),
		newListCommand(),
		newGetCommand(),
		newWatchCommand(),
	)

	return cmd
}
