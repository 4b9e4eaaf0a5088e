package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rbetancur/amg-desk-ai/internal/infrastructure/api"
	"github.com/rbetancur/amg-desk-ai/internal/shared/biztime"
)

func newListCommand() *cobra.Command {
	var limit, offset int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List your requests",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			if err := app.requireAuth(); err != nil {
				return err
			}

			result, err := app.client.List(cmd.Context(), limit, offset)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(result.Items) == 0 {
				fmt.Fprintln(out, "No requests found.")
				return nil
			}

			fmt.Fprintf(out, "%-6s %-32s %-12s %-17s %s\n",
				"ID", "CATEGORY", "STATUS", "REQUESTED", "DESCRIPTION")
			for _, req := range result.Items {
				fmt.Fprintf(out, "%-6d %-32s %-12s %-17s %s\n",
					req.ID,
					req.CategoryLabel(),
					req.StatusLabel(),
					biztime.FormatDisplay(req.RequestedAt),
					oneLine(req.Description, 60),
				)
			}

			p := result.Pagination
			fmt.Fprintf(out, "\nShowing %d-%d of %d", p.Offset+1, p.Offset+len(result.Items), p.Total)
			if p.HasMore {
				fmt.Fprintf(out, " (more available, use --offset %d)", p.Offset+p.Limit)
			}
			fmt.Fprintln(out)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", api.DefaultLimit, "Page size")
	cmd.Flags().IntVarP(&offset, "offset", "o", 0, "Page offset")

	return cmd
}

func oneLine(s string, max int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
