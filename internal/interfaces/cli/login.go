package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newLoginCommand() *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and cache the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd.Context())
			if err != nil {
				return err
			}

			password, err := promptPassword("Password: ")
			if err != nil {
				return err
			}

			session, err := app.provider.SignIn(cmd.Context(), email, password)
			if err != nil {
				return err
			}

			username, err := app.provider.Username()
			if err != nil {
				username = session.User.Email
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s\n", username)
			return nil
		},
	}

	cmd.Flags().StringVarP(&email, "email", "e", "", "Account email")
	cmd.MarkFlagRequired("email")

	return cmd
}
