package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rbetancur/amg-desk-ai/internal/domain/request/valueobjects"
	"github.com/rbetancur/amg-desk-ai/internal/infrastructure/api"
)

func newSubmitCommand() *cobra.Command {
	var category int
	var description string

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit a new request",
		Long:  "Submit a new help desk request. Available categories:\n\n" + categoryHelp(),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			if err := app.requireAuth(); err != nil {
				return err
			}

			created, err := app.client.Create(cmd.Context(), api.CreateRequest{
				Category:    category,
				Description: description,
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Request #%d submitted (%s, %s)\n",
				created.ID, created.CategoryLabel(), created.StatusLabel())
			return nil
		},
	}

	cmd.Flags().IntVarP(&category, "category", "c", 0, "Category code")
	cmd.Flags().StringVarP(&description, "description", "d", "", "Problem description")
	cmd.MarkFlagRequired("category")
	cmd.MarkFlagRequired("description")

	return cmd
}

func categoryHelp() string {
	var sb strings.Builder
	for _, c := range valueobjects.Categories() {
		sb.WriteString(fmt.Sprintf("  %d  %s\n", c.Int(), c.Label()))
	}
	return strings.TrimRight(sb.String(), "\n")
}
