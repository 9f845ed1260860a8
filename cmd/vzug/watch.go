package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/muurk/vzug/internal/watch"
)

var watchInterval time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch one appliance in the terminal",
	Long: `Open a live view of one appliance. The appliance is loaded every
--interval; press r to refresh immediately and q to quit.`,
	Example: `  vzug watch --host kitchen
  vzug watch --host 192.168.1.20 --interval 10s`,
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := resolveTarget()
		if err != nil {
			return err
		}
		renderer, err := newRenderer(t.registry)
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		device, err := t.open(ctx)
		if err != nil {
			return fail(renderer, "Loading "+t.entry.Host, err)
		}
		return watch.Run(device, renderer, watchInterval)
	},
}

func init() {
	addApplianceFlags(watchCmd)
	addOutputFlags(watchCmd)
	watchCmd.Flags().DurationVar(&watchInterval, "interval", watch.DefaultInterval, "Time between loads")
	rootCmd.AddCommand(watchCmd)
}
