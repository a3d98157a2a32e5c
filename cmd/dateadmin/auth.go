package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/dateadmin/internal/ui"
)

var loginCmd = &cobra.Command{
	Use:     "login",
	Short:   "Sign in and store the session token",
	GroupID: "account",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		email, _ := cmd.Flags().GetString("email")
		password := os.Getenv("DATEADMIN_PASSWORD")

		var err error
		if email == "" {
			if email, err = ui.ReadLine("Email: ", os.Stdin, os.Stderr); err != nil {
				return err
			}
		}
		if password == "" {
			if password, err = ui.ReadPassword("Password: ", os.Stdin, os.Stderr); err != nil {
				return err
			}
		}
		if email == "" || password == "" {
			return errors.New("email and password are required")
		}
		return app.Login(cmd.Context(), email, password)
	},
}

var logoutCmd = &cobra.Command{
	Use:     "logout",
	Short:   "End the session and forget the stored token",
	GroupID: "account",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return app.Logout(cmd.Context())
	},
}

var whoamiCmd = &cobra.Command{
	Use:     "whoami",
	Short:   "Show the signed-in administrator",
	GroupID: "account",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := app.RequireAuth(cmd.Context()); err != nil {
			return err
		}
		user := app.Session.State().User
		if user == nil {
			return errors.New("session has no user")
		}
		if jsonOutput {
			return printJSON(user)
		}
		fmt.Printf("Email: %s\n", user.Email)
		if user.Name != "" {
			fmt.Printf("Name:  %s\n", user.Name)
		}
		if user.Role != "" {
			fmt.Printf("Role:  %s\n", user.Role)
		}
		return nil
	},
}

func init() {
	loginCmd.Flags().StringP("email", "e", "", "admin email (prompted when omitted)")
}
