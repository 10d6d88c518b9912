package main

import (
	"fmt"

	apperrors "freeswitch-admin-console/internal/errors"
	"freeswitch-admin-console/internal/session"

	"github.com/spf13/cobra"
)

var profileColumns = []column{
	{Header: "USERNAME", Path: "username"},
	{Header: "EMAIL", Path: "user_email"},
	{Header: "TYPE", Path: "user_type"},
	{Header: "STATUS", Path: "user_status"},
	{Header: "ENABLED", Path: "user_enabled"},
	{Header: "EXTENSION", Path: "extension"},
}

func LoginCMD(a *app) *cobra.Command {
	var creds session.Credentials
	var domain string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and keep the session in the state file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if domain != "" {
				creds.Domain = &domain
			}
			if err := a.session.Login(cmd.Context(), creds); err != nil {
				return fmt.Errorf("login: %s", a.session.Snapshot().Error)
			}
			user := a.session.Snapshot().User
			if user != nil {
				fmt.Fprintf(a.out, "Signed in as %s\n", user.Username)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&creds.Username, "username", "u", "", "username")
	cmd.Flags().StringVarP(&creds.Password, "password", "p", "", "password")
	cmd.Flags().StringVar(&domain, "domain", "", "SIP domain of the operator, when the API requires one")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func LogoutCMD(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.session.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(a.out, "Signed out")
			return nil
		},
	}
}

func WhoamiCMD(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Validate the session and show the signed-in operator",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !a.session.IsAuthenticated() {
				return apperrors.ErrNotAuthenticated
			}
			if err := a.session.Restore(cmd.Context()); err != nil {
				return fmt.Errorf("session rejected, signed out: %w", err)
			}
			return printRecords(a.out, a.output(cmd), a.session.Snapshot().User, profileColumns)
		},
	}
}

func RefreshCMD(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Swap the session token for a fresh one",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !a.session.IsAuthenticated() {
				return apperrors.ErrNotAuthenticated
			}
			if err := a.session.RefreshToken(cmd.Context()); err != nil {
				return fmt.Errorf("refresh: %s", a.session.Snapshot().Error)
			}
			if exp, ok := a.session.TokenExpiry(); ok {
				fmt.Fprintf(a.out, "Token refreshed, expires %s\n", exp.Local().Format("2006-01-02 15:04:05 MST"))
				return nil
			}
			fmt.Fprintln(a.out, "Token refreshed")
			return nil
		},
	}
}

func PasswdCMD(a *app) *cobra.Command {
	var req session.PasswordChange

	cmd := &cobra.Command{
		Use:   "passwd",
		Short: "Change the operator's password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !a.session.IsAuthenticated() {
				return apperrors.ErrNotAuthenticated
			}
			if err := a.session.ChangePassword(cmd.Context(), req); err != nil {
				return fmt.Errorf("passwd: %s", a.session.Snapshot().Error)
			}
			fmt.Fprintln(a.out, "Password changed")
			return nil
		},
	}
	cmd.Flags().StringVar(&req.CurrentPassword, "current", "", "current password")
	cmd.Flags().StringVar(&req.NewPassword, "new", "", "new password")
	_ = cmd.MarkFlagRequired("current")
	_ = cmd.MarkFlagRequired("new")
	return cmd
}

// requireSession fails without a token and validates a token whose profile
// is not cached yet. A token the API rejects ends the session.
func (a *app) requireSession(cmd *cobra.Command) error {
	if !a.session.IsAuthenticated() {
		return apperrors.ErrNotAuthenticated
	}
	if a.session.HasProfile() {
		return nil
	}
	if err := a.session.Restore(cmd.Context()); err != nil {
		return fmt.Errorf("session rejected, signed out: %w", err)
	}
	return nil
}
