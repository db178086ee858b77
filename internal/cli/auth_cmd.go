package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/chantier/internal/cli/formatter"
	"github.com/alexanderramin/chantier/internal/session"
	"github.com/spf13/cobra"
)

func newLoginCmd(app *App) *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to the backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			username = strings.TrimSpace(username)
			if username == "" || password == "" {
				if !app.interactive() {
					return fmt.Errorf("--username and --password are required when not running interactively")
				}
				prompt := app.PromptCredentials
				if prompt == nil {
					prompt = runLoginForm
				}
				if err := prompt(&username, &password); err != nil {
					return err
				}
			}

			user, err := app.Auth.Login(cmd.Context(), username, password)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", formatter.Bold(user.DisplayName()))
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "Account username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Account password")
	return cmd
}

func newLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Auth.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}

func newWhoamiCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, err := app.Session.State(ctx)
			if err != nil {
				return err
			}
			user, err := app.Session.CurrentUser(ctx)
			if err != nil {
				return err
			}
			apiURL := st.APIBaseURL
			if apiURL == "" {
				apiURL = app.APIBaseURL
			}
			// Opaque tokens carry no expiry; the zero time hides the line.
			expires, _ := session.ExpiresAt(st.AccessToken)
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatWhoami(user, apiURL, expires))
			return nil
		},
	}
}
