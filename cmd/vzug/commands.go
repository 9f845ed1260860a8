package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/muurk/vzug/internal/appliance"
	"github.com/muurk/vzug/internal/ui"
)

func init() {
	for _, cmd := range []*cobra.Command{infoCmd, programCmd, consumptionCmd, allCmd} {
		addApplianceFlags(cmd)
		addOutputFlags(cmd)
		rootCmd.AddCommand(cmd)
	}
}

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show appliance identity and status",
	Long: `Load the device information of an appliance: serial number, name,
model, status, current program and whether it is active.`,
	Example: `  vzug info --host 192.168.1.20
  vzug info --host kitchen --format json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLoad(cmd.Context(), ui.PartInfo, func(ctx context.Context, d appliance.Device) (bool, error) {
			if !d.Basic().LoadDeviceInformation(ctx) {
				return false, d.Basic().Err()
			}
			return true, nil
		})
	},
}

var programCmd = &cobra.Command{
	Use:   "program",
	Short: "Show the running program",
	Long: `Load the program details of an appliance: program name, remaining
time, delayed start (dishwashers), options and optiDos dosing (washing
machines). An idle appliance is not an error.`,
	Example: `  vzug program --host 192.168.1.20
  vzug program --host laundry --format compact`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLoad(cmd.Context(), ui.PartProgram, func(ctx context.Context, d appliance.Device) (bool, error) {
			p, ok := d.(appliance.ProgramLoader)
			if !ok {
				return false, fmt.Errorf("%s has no program details", d.Basic().DeviceType().DisplayName())
			}
			p.LoadProgramDetails(ctx)
			if err := d.Basic().Err(); err != nil {
				return false, err
			}
			return true, nil
		})
	},
}

var consumptionCmd = &cobra.Command{
	Use:   "consumption",
	Short: "Show energy and water consumption",
	Long: `Load total and average consumption. Dryers report energy; washing
machines report energy and water.`,
	Example: `  vzug consumption --host laundry
  vzug consumption --host laundry --locale de-CH`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLoad(cmd.Context(), ui.PartConsumption, func(ctx context.Context, d appliance.Device) (bool, error) {
			c, ok := d.(appliance.ConsumptionLoader)
			if !ok {
				return false, fmt.Errorf("%s has no consumption data", d.Basic().DeviceType().DisplayName())
			}
			if !c.LoadConsumptionData(ctx) {
				return false, d.Basic().Err()
			}
			return true, nil
		})
	},
}

var allCmd = &cobra.Command{
	Use:   "all",
	Short: "Show everything the appliance reports",
	Example: `  vzug all --host 192.168.1.20
  vzug all --host kitchen --format json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLoad(cmd.Context(), ui.PartAll, func(ctx context.Context, d appliance.Device) (bool, error) {
			if !d.LoadAllInformation(ctx) {
				return false, d.Basic().Err()
			}
			return true, nil
		})
	},
}

// runLoad opens the target appliance, runs load and prints the snapshot.
func runLoad(ctx context.Context, parts ui.Parts, load func(context.Context, appliance.Device) (bool, error)) error {
	if ctx == nil {
		ctx = context.Background()
	}
	t, err := resolveTarget()
	if err != nil {
		return err
	}
	renderer, err := newRenderer(t.registry)
	if err != nil {
		return err
	}

	device, err := t.open(ctx)
	if err != nil {
		return fail(renderer, "Loading "+t.entry.Host, err)
	}

	ok, err := load(ctx, device)
	if !ok {
		if err == nil {
			err = fmt.Errorf("load failed")
		}
		return fail(renderer, "Loading "+t.entry.Host, err)
	}
	t.remember(device)

	out, err := renderer.Render(appliance.TakeSnapshot(device, time.Now()), parts)
	if err != nil {
		return err
	}
	fmt.Println(out)
	return nil
}
