// Vzug-sim serves a simulated V-ZUG appliance over HTTP.
//
// It answers the appliance's ai/hh command interface with recorded responses
// so the vzug CLI and integrations can be tried without hardware.
//
// Usage:
//
//	vzug-sim [flags]
//
// See 'vzug-sim --help' for available options.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/muurk/vzug/internal/simulator"
	"github.com/muurk/vzug/internal/version"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var (
	host     string
	port     int
	scenario string
	username string
	password string
	logLevel string
	list     bool
)

var rootCmd = &cobra.Command{
	Use:   "vzug-sim",
	Short: "V-ZUG appliance simulator",
	Long: `Serve a simulated V-ZUG appliance on the local machine.

Scenarios cover washing machines, dryers and dishwashers in idle, running
and delayed-start states, plus an appliance that answers every request with
an error code. With --user the endpoints require digest authentication.`,
	Example: `  # Running dishwasher with a delayed start
  vzug-sim --scenario dishwasher-timed --port 8080

  # Digest-protected washing machine
  vzug-sim --scenario washing-machine --user admin --password secret

  # List scenarios
  vzug-sim --list`,
	Version:      version.Version,
	SilenceUsage: true,
	RunE:         runSimulator,
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.Flags().StringVar(&host, "host", "127.0.0.1", "Listen host (empty = all interfaces)")
	rootCmd.Flags().IntVar(&port, "port", 8080, "Listen port")
	rootCmd.Flags().StringVar(&scenario, "scenario", "dishwasher", "Scenario to serve")
	rootCmd.Flags().StringVarP(&username, "user", "u", "", "Require digest auth with this username")
	rootCmd.Flags().StringVar(&password, "password", "", "Digest auth password")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.Flags().BoolVar(&list, "list", false, "List scenarios and exit")

	rootCmd.AddCommand(versionCmd)
}

func runSimulator(cmd *cobra.Command, args []string) error {
	if list {
		for _, name := range simulator.Names() {
			s, _ := simulator.Lookup(name)
			fmt.Printf("%-22s %s\n", name, s.Description)
		}
		return nil
	}

	if username != "" && password == "" {
		password = os.Getenv("VZUG_PASSWORD")
	}
	if username != "" && password == "" {
		return fmt.Errorf("--password (or VZUG_PASSWORD) is required with --user")
	}

	srv, err := simulator.NewServer(&simulator.Config{
		Host:     host,
		Port:     port,
		Scenario: strings.TrimSpace(scenario),
		Username: username,
		Password: password,
		LogLevel: logLevel,
	})
	if err != nil {
		return fmt.Errorf("failed to create simulator: %w", err)
	}
	return srv.Start()
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("vzug-sim %s\n", version.Full())
	},
}
