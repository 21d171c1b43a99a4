package cmd

import (
	"context"
	"fmt"

	"campusctl/core/controller"

	"github.com/spf13/cobra"
)

// tokenCmd is the parent command for token operations.
var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Manage controller access tokens",
}

// tokenObtainCmd exchanges the configured credentials for a token.
var tokenObtainCmd = &cobra.Command{
	Use:   "obtain",
	Short: "Obtain an access token from the configured credentials",
	Long: `Obtain exchanges CONTROLLER_USERNAME and CONTROLLER_PASSWORD for an
access token and prints it. The token can then be reused across runs
via CONTROLLER_TOKEN instead of authenticating every time.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession()
		if err != nil {
			return err
		}

		token, err := controller.ObtainToken(context.Background(), s.cfg.Controller)
		if err != nil {
			return err
		}

		fmt.Println(token)
		return nil
	},
}

// tokenRevokeCmd invalidates a previously obtained token.
var tokenRevokeCmd = &cobra.Command{
	Use:   "revoke <token>",
	Short: "Revoke an access token",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession()
		if err != nil {
			return err
		}

		if err := controller.RevokeToken(context.Background(), s.cfg.Controller, args[0]); err != nil {
			return err
		}

		s.logger.Info("Token revoked")
		return nil
	},
}

func init() {
	tokenCmd.AddCommand(tokenObtainCmd)
	tokenCmd.AddCommand(tokenRevokeCmd)
	RootCmd.AddCommand(tokenCmd)
}
