package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/muurk/vzug/internal/appliance"
	"github.com/muurk/vzug/internal/config"
	"github.com/muurk/vzug/internal/discovery"
)

var (
	scanTimeout  int
	scanIdentify bool
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan for V-ZUG appliances on the network",
	Long: `Scan for V-ZUG appliances using mDNS/DNS-SD discovery.

Appliances advertise an HTTP service on the local network. With --identify
each appliance found is asked for its type and model.`,
	Example: `  # Scan for 5 seconds (default)
  vzug scan

  # Longer scan and ask every appliance for its model
  vzug scan --timeout 15 --identify`,
	RunE: runScan,
}

func init() {
	scanCmd.Flags().IntVar(&scanTimeout, "timeout", 0, "Scan timeout in seconds (default from config)")
	scanCmd.Flags().BoolVar(&scanIdentify, "identify", false, "Load device information of each appliance found")
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	registry, err := config.LoadRegistry()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	timeout := time.Duration(registry.Preferences.DiscoverTimeout) * time.Second
	if scanTimeout > 0 {
		timeout = time.Duration(scanTimeout) * time.Second
	}

	fmt.Printf("Scanning for V-ZUG appliances (timeout: %s)...\n\n", timeout)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	found, err := discovery.Scan(ctx, timeout)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	if len(found) == 0 {
		fmt.Println("No appliances found.")
		fmt.Println("\nTroubleshooting:")
		fmt.Println("  - Ensure the appliance is connected to the network")
		fmt.Println("  - Check that multicast (UDP 5353) is not blocked")
		fmt.Println("  - Try increasing --timeout for slower networks")
		fmt.Println("  - Use --host with the appliance IP if discovery fails")
		return nil
	}

	fmt.Printf("Found %d appliance(s):\n\n", len(found))

	for i, a := range found {
		fmt.Printf("%d. %s\n", i+1, a.Instance)
		fmt.Printf("   Host:     %s\n", a.Host())
		if a.Hostname != "" {
			fmt.Printf("   Hostname: %s\n", a.Hostname)
		}
		if scanIdentify {
			basic := appliance.NewBasicDevice(a.Host(), "", "", appliance.WithTimeout(registry.Preferences.Timeout()))
			if basic.LoadDeviceInformation(ctx) {
				fmt.Printf("   Type:     %s\n", basic.DeviceType().DisplayName())
				fmt.Printf("   Model:    %s\n", basic.ModelDesc())
				fmt.Printf("   Serial:   %s\n", basic.Serial())
			} else {
				fmt.Printf("   Identify: %s\n", basic.ErrorMessage())
			}
		}
		fmt.Println()
	}

	fmt.Println("Use 'vzug all --host <host>' to read an appliance")
	fmt.Println("Use 'vzug config add <nickname> --host <host>' to register it")
	return nil
}
