package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spiral023/eventhorizon-sub000/internal/config"
	"github.com/spiral023/eventhorizon-sub000/internal/handlers"
	"github.com/spiral023/eventhorizon-sub000/internal/models"
)

type tokenOptions struct {
	UserID string
	Name   string
}

// NewTokenCommand creates the token command, which signs a session token
// for local testing with the configured JWT secret.
func NewTokenCommand() *cobra.Command {
	opts := &tokenOptions{}

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Sign a session token for a user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.UserID == "" {
				return errors.New("--user is required")
			}
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cfg.JWTSecret == "" {
				return errors.New("JWT_SECRET is required to sign tokens")
			}
			token, err := handlers.SignActorToken([]byte(cfg.JWTSecret), cfg.JWTIssuer,
				models.Actor{UserID: opts.UserID, Name: opts.Name})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.UserID, "user", "", "user id (token subject)")
	cmd.Flags().StringVar(&opts.Name, "name", "", "display name")

	return cmd
}
