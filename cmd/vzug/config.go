package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/muurk/vzug/internal/appliance"
	"github.com/muurk/vzug/internal/config"
)

var (
	configHost string
	configUser string
	configType string
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage registered appliances",
	Long: `Register appliances under a nickname. Nicknames can be used wherever
--host is expected. Passwords are never stored.`,
}

var configAddCmd = &cobra.Command{
	Use:   "add <nickname>",
	Short: "Register or update an appliance",
	Example: `  vzug config add kitchen --host 192.168.1.20
  vzug config add laundry --host 192.168.1.21 --user admin --type washing_machine`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		registry, err := config.LoadRegistry()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		typ, err := appliance.ParseDeviceType(configType)
		if err != nil {
			return err
		}
		a := &config.Appliance{Host: configHost, Username: configUser, Type: typ}
		if existing := registry.GetAppliance(args[0]); existing != nil {
			a.Serial, a.Model, a.LastSeen = existing.Serial, existing.Model, existing.LastSeen
		}
		if err := registry.SetAppliance(args[0], a); err != nil {
			return err
		}
		if err := config.SaveGlobal(); err != nil {
			return err
		}
		fmt.Printf("Registered %s (%s)\n", args[0], configHost)
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered appliances",
	RunE: func(cmd *cobra.Command, args []string) error {
		registry, err := config.LoadRegistry()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		names := registry.Nicknames()
		if len(names) == 0 {
			fmt.Println("No appliances registered. Use 'vzug config add'.")
			return nil
		}
		for _, name := range names {
			a := registry.GetAppliance(name)
			line := fmt.Sprintf("%-12s %-22s %s", name, a.Host, a.Type.DisplayName())
			var extra []string
			if a.Username != "" {
				extra = append(extra, "user "+a.Username)
			}
			if a.Model != "" {
				extra = append(extra, a.Model)
			}
			if !a.LastSeen.IsZero() {
				extra = append(extra, "seen "+a.LastSeen.Local().Format("2006-01-02 15:04"))
			}
			if len(extra) > 0 {
				line += "  (" + strings.Join(extra, ", ") + ")"
			}
			fmt.Println(line)
		}
		return nil
	},
}

var configRemoveCmd = &cobra.Command{
	Use:   "remove <nickname>",
	Short: "Remove a registered appliance",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		registry, err := config.LoadRegistry()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if !registry.RemoveAppliance(args[0]) {
			return fmt.Errorf("no appliance named %q", args[0])
		}
		if err := config.SaveGlobal(); err != nil {
			return err
		}
		fmt.Printf("Removed %s\n", args[0])
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the configuration file path",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.GetConfigPath()
		if err != nil {
			return err
		}
		fmt.Println(path)
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write an example configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.CreateDefaultConfig(); err != nil {
			return err
		}
		path, _ := config.GetConfigPath()
		fmt.Printf("Wrote %s\n", path)
		return nil
	},
}

func init() {
	configAddCmd.Flags().StringVar(&configHost, "host", "", "Appliance host (required)")
	configAddCmd.Flags().StringVarP(&configUser, "user", "u", "", "Digest auth username")
	configAddCmd.Flags().StringVar(&configType, "type", "", "Appliance type; detected on first use when empty")
	_ = configAddCmd.MarkFlagRequired("host")

	configCmd.AddCommand(configInitCmd, configAddCmd, configListCmd, configRemoveCmd, configPathCmd)
	rootCmd.AddCommand(configCmd)
}
