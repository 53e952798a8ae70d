package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/ramonehamilton/MTG-Collection/internal/app"
)

var loginEmail string

var loginCmd = &cobra.Command{
	Use:   "login [name]",
	Short: "Set the local profile",
	Long: `Set the local profile shown by the API and the CLI. Nothing is sent
anywhere; the profile only lives in the local database. Missing values
are prompted for.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Clear the local profile",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withRuntime(cmd, func(ctx context.Context, rt *app.Runtime) error {
			if err := rt.Logout(ctx); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
			return nil
		})
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the local profile",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withRuntime(cmd, func(_ context.Context, rt *app.Runtime) error {
			user := rt.CurrentUser()
			if user == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "Not logged in.")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s <%s> [%s]\n", user.Name, user.Email, user.Initials())
			return nil
		})
	},
}

func init() {
	loginCmd.Flags().StringVarP(&loginEmail, "email", "e", "", "email address")
	rootCmd.AddCommand(loginCmd, logoutCmd, whoamiCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	name := ""
	if len(args) == 1 {
		name = args[0]
	}
	if strings.TrimSpace(name) == "" {
		v, err := promptText("Name", "", func(s string) error {
			if strings.TrimSpace(s) == "" {
				return errors.New("name is required")
			}
			return nil
		})
		if err != nil {
			return err
		}
		name = v
	}
	email := loginEmail
	if email == "" {
		v, err := promptText("Email (optional)", "", nil)
		if err != nil {
			return err
		}
		email = v
	}

	return withRuntime(cmd, func(ctx context.Context, rt *app.Runtime) error {
		user, err := rt.Login(ctx, name, email)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s.\n", user.DisplayName())
		return nil
	})
}

func promptText(label, def string, validate promptui.ValidateFunc) (string, error) {
	prompt := promptui.Prompt{Label: label, Default: def, Validate: validate}
	v, err := prompt.Run()
	if err != nil {
		return "", fmt.Errorf("%s: %w", strings.ToLower(label), err)
	}
	return v, nil
}
