package cli

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/rbetancur/amg-desk-ai/internal/application/store"
	"github.com/rbetancur/amg-desk-ai/internal/infrastructure/api"
	"github.com/rbetancur/amg-desk-ai/internal/interfaces/tui"
	"github.com/rbetancur/amg-desk-ai/internal/shared/logger"
)

func newWatchCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Live board of your requests",
		Long:  "Open a terminal board that follows your requests in real time. New, updated, and deleted requests appear without refreshing.",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			if err := app.requireAuth(); err != nil {
				return err
			}

			username, err := app.provider.Username()
			if err != nil {
				return err
			}

			opener, err := app.feedOpener()
			if err != nil {
				return err
			}

			st := store.New(app.client, opener)
			if err := st.Start(cmd.Context(), username); err != nil {
				return err
			}
			defer func() {
				if err := st.Close(); err != nil {
					logger.Warn("closing change feed", "error", err)
				}
			}()

			program := tea.NewProgram(tui.NewModel(st, username, limit), tea.WithAltScreen())
			_, err = program.Run()
			return err
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", api.DefaultLimit, "Page size")

	return cmd
}
