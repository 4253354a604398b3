package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mcoot/charvault/internal/api/request"
)

func newAccountCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Account commands",
	}

	cmd.AddCommand(newAccountJoinCmd())
	cmd.AddCommand(newAccountLoginCmd())
	cmd.AddCommand(newAccountMeCmd())

	return cmd
}

func newAccountJoinCmd() *cobra.Command {
	var req request.JoinRequest

	cmd := &cobra.Command{
		Use:   "join",
		Short: "Register a new account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Confirmation defaults to the password when not given
			if req.ConfirmPassword == "" {
				req.ConfirmPassword = req.Password
			}

			account, err := client.Join(cmd.Context(), req)
			if err != nil {
				return err
			}

			newOutput(cmd).Print(account)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.AccountID, "id", "", "Account ID (required)")
	cmd.Flags().StringVar(&req.Password, "password", "", "Password (required)")
	cmd.Flags().StringVar(&req.ConfirmPassword, "confirm", "", "Password confirmation (defaults to --password)")
	cmd.Flags().StringVar(&req.Name, "name", "", "Display name (required)")
	_ = cmd.MarkFlagRequired("id")
	_ = cmd.MarkFlagRequired("password")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newAccountLoginCmd() *cobra.Command {
	var req request.LoginRequest

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and save the session to the token file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := client.Login(cmd.Context(), req)
			if err != nil {
				return err
			}

			if err := cfg.SaveSession(token.Token, token.Account.AccountID, token.ExpiresAt); err != nil {
				return fmt.Errorf("failed to save session: %w", err)
			}
			client.SetToken(token.Token)

			newOutput(cmd).Print(token)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.AccountID, "id", "", "Account ID (required)")
	cmd.Flags().StringVar(&req.Password, "password", "", "Password (required)")
	_ = cmd.MarkFlagRequired("id")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func newAccountMeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "me",
		Short: "Show the logged in account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			account, err := client.Me(cmd.Context())
			if err != nil {
				return err
			}

			newOutput(cmd).Print(account)
			return nil
		},
	}
}
