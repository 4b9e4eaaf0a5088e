package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/rbetancur/amg-desk-ai/internal/shared/biztime"
	apperrors "github.com/rbetancur/amg-desk-ai/internal/shared/errors"
)

func newGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one request in detail",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return apperrors.NewValidationError("The request id must be a number.")
			}

			app, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			if err := app.requireAuth(); err != nil {
				return err
			}

			req, err := app.client.GetByID(cmd.Context(), id)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Request #%d\n", req.ID)
			fmt.Fprintf(out, "  Category:    %s\n", req.CategoryLabel())
			fmt.Fprintf(out, "  Status:      %s\n", req.StatusLabel())
			fmt.Fprintf(out, "  Requested:   %s by %s\n", biztime.FormatDisplay(req.RequestedAt), req.RequestedBy)
			fmt.Fprintf(out, "  Description: %s\n", req.Description)
			if req.Resolution != nil && *req.Resolution != "" {
				fmt.Fprintf(out, "  Resolution:  %s\n", *req.Resolution)
			}
			if req.ResolvedAt != nil && *req.ResolvedAt != "" {
				fmt.Fprintf(out, "  Resolved:    %s\n", biztime.FormatDisplay(*req.ResolvedAt))
			}
			if req.AIClassification != nil {
				fmt.Fprintf(out, "  Classified:  %s (%.0f%% confidence)\n",
					req.AIClassification.AppType, req.AIClassification.Confidence*100)
			}
			return nil
		},
	}
}
