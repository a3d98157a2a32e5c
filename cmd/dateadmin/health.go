package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var healthCmd = &cobra.Command{
	Use:     "health",
	Short:   "Check the health of the admin API",
	GroupID: "system",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		status, err := app.Client.Health(cmd.Context())
		if err != nil {
			return fmt.Errorf("checking health: %w", err)
		}

		if jsonOutput {
			if err := printJSON(map[string]string{"status": status, "api": app.Client.BaseURL()}); err != nil {
				return err
			}
		} else {
			fmt.Printf("API:    %s\n", app.Client.BaseURL())
			fmt.Printf("Health: %s\n", status)
		}

		if status != "ok" && status != "success" {
			return fmt.Errorf("unhealthy: %s", status)
		}
		return nil
	},
}
