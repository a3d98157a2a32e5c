package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/dateadmin/internal/config"
	"github.com/alfredjeanlab/dateadmin/internal/ui"
)

var configCmd = &cobra.Command{
	Use:     "config",
	Short:   "Inspect the console configuration",
	GroupID: "system",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if jsonOutput {
			return printJSON(cfg)
		}
		return toml.NewEncoder(os.Stdout).Encode(cfg)
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file location",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configPath
		if path == "" {
			p, err := config.DefaultPath()
			if err != nil {
				return err
			}
			path = p
		}
		fmt.Println(path)
		return nil
	},
}

var configProfilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "List the named backend profiles",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if jsonOutput {
			return printJSON(cfg.Profiles)
		}
		if len(cfg.Profiles) == 0 {
			fmt.Println("No profiles configured.")
			return nil
		}
		names := make([]string, 0, len(cfg.Profiles))
		for name := range cfg.Profiles {
			names = append(names, name)
		}
		sort.Strings(names)
		t := ui.NewTable(os.Stdout, "Profile", "API URL")
		for _, name := range names {
			label := name
			if name == profile {
				label = name + " *"
			}
			t.Row(label, cfg.Profiles[name].APIURL)
		}
		return t.Flush()
	},
}

func init() {
	configCmd.AddCommand(configShowCmd, configPathCmd, configProfilesCmd)
}
