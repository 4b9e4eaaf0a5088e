package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	apperrors "github.com/rbetancur/amg-desk-ai/internal/shared/errors"
)

func newSignupCommand() *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd.Context())
			if err != nil {
				return err
			}

			password, err := promptPassword("Password: ")
			if err != nil {
				return err
			}
			confirm, err := promptPassword("Confirm password: ")
			if err != nil {
				return err
			}
			if password != confirm {
				return apperrors.NewValidationError("The passwords do not match.")
			}

			user, err := app.provider.SignUp(cmd.Context(), email, password)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if app.provider.IsAuthenticated() {
				fmt.Fprintf(out, "Account created, signed in as %s\n", user.Email)
			} else {
				fmt.Fprintf(out, "Account created for %s. Check your email to confirm it, then run: deskai login\n", user.Email)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&email, "email", "e", "", "Account email")
	cmd.MarkFlagRequired("email")

	return cmd
}
