// Vzug reads the state of V-ZUG home appliances over their local HTTP API.
//
// It loads identity, program and consumption data from washing machines,
// dryers and dishwashers, finds appliances with mDNS, and can keep one
// appliance under watch in the terminal, export it to Prometheus or publish
// it to MQTT.
//
// Usage:
//
//	vzug [command] [flags]
//
// See 'vzug --help' for available commands.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/muurk/vzug/internal/logging"
	"github.com/muurk/vzug/internal/version"
)

// reportedError has already been shown to the user.
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

func main() {
	err := rootCmd.Execute()
	logging.Sync()
	if err != nil {
		var reported *reportedError
		if !errors.As(err, &reported) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

var logLevel string

var rootCmd = &cobra.Command{
	Use:   "vzug",
	Short: "V-ZUG appliance utility",
	Long: `A command line utility for V-ZUG home appliances.

Reads device information, running programs and consumption statistics from
washing machines, dryers and dishwashers on the local network.

Appliances can be addressed by host or by a nickname registered with
'vzug config add'.`,
	Version:       version.Version,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return logging.Initialize(logLevel)
	},
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error); default from VZUG_LOG_LEVEL")

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("vzug %s\n", version.Full())
		fmt.Printf("User-Agent: %s\n", version.UserAgent())
	},
}
