package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wardenlabs/promptwarden/config"
	"github.com/wardenlabs/promptwarden/storage"
)

// NewAuthCmd creates the auth command.
func NewAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage authentication state",
		Long: `Manage authentication state.

Monitoring only becomes active for an authenticated user; the stored
token also authenticates calls to the remote analyzer.`,
	}

	cmd.AddCommand(newAuthLoginCmd(), newAuthLogoutCmd(), newAuthStatusCmd())

	return cmd
}

func newAuthLoginCmd() *cobra.Command {
	var token string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store an authentication token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if token == "" {
				return NewCLIError(ExitGeneral, "a token is required (--token)")
			}

			ctx := context.Background()
			app, err := loadApp("table")
			if err != nil {
				return err
			}
			if err := app.InitStore(ctx); err != nil {
				return err
			}
			defer app.Close()

			raw, err := json.Marshal(storage.AuthUser{Token: token})
			if err != nil {
				return ErrDatabase("failed to encode auth record", err)
			}
			if err := app.Store.Set(ctx, storage.KeyAuthUser, raw); err != nil {
				return ErrDatabase("failed to store auth record", err)
			}

			return app.Presenter.RenderMessage("Authenticated. Monitoring will activate on the next daemon start.")
		},
	}

	cmd.Flags().StringVar(&token, "token", "", "authentication token")

	return cmd
}

func newAuthLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored authentication token",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			app, err := loadApp("table")
			if err != nil {
				return err
			}
			if err := app.InitStore(ctx); err != nil {
				return err
			}
			defer app.Close()

			if err := app.Store.Delete(ctx, storage.KeyAuthUser); err != nil {
				return ErrDatabase("failed to remove auth record", err)
			}
			return app.Presenter.RenderMessage("Logged out.")
		},
	}
}

func newAuthStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show authentication status",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			app, err := loadApp("table")
			if err != nil {
				return err
			}
			if err := app.InitStore(ctx); err != nil {
				return err
			}
			defer app.Close()

			if config.LoadAuthToken(ctx, app.Store) == "" {
				return app.Presenter.RenderMessage("Not authenticated.")
			}
			return app.Presenter.RenderMessage(fmt.Sprintf("Authenticated (token stored under %q).", storage.KeyAuthUser))
		},
	}
}
