package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/muurk/vzug/internal/mqttpub"
)

var (
	mqttBroker   string
	mqttUser     string
	mqttPassword string
	mqttPrefix   string
	mqttInterval time.Duration
	mqttOnce     bool
)

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Publish one appliance to an MQTT broker",
	Long: `Load the appliance every --interval and publish its state as a retained
JSON message on <prefix>/<nickname>/state. Availability is published on
<prefix>/<nickname>/availability.`,
	Example: `  vzug publish --host laundry --broker tcp://localhost:1883
  vzug publish --host kitchen --broker tcp://mqtt:1883 --once`,
	RunE: runPublish,
}

func init() {
	addApplianceFlags(publishCmd)
	publishCmd.Flags().StringVar(&mqttBroker, "broker", "tcp://localhost:1883", "MQTT broker URL")
	publishCmd.Flags().StringVar(&mqttUser, "mqtt-user", "", "MQTT username")
	publishCmd.Flags().StringVar(&mqttPassword, "mqtt-password", "", "MQTT password (default from VZUG_MQTT_PASSWORD)")
	publishCmd.Flags().StringVar(&mqttPrefix, "prefix", mqttpub.DefaultPrefix, "Topic prefix")
	publishCmd.Flags().DurationVar(&mqttInterval, "interval", mqttpub.DefaultInterval, "Time between loads")
	publishCmd.Flags().BoolVar(&mqttOnce, "once", false, "Publish a single message and exit")
	rootCmd.AddCommand(publishCmd)
}

func runPublish(cmd *cobra.Command, args []string) error {
	t, err := resolveTarget()
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	device, err := t.open(ctx)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", t.entry.Host, err)
	}

	brokerPassword := mqttPassword
	if brokerPassword == "" {
		brokerPassword = os.Getenv("VZUG_MQTT_PASSWORD")
	}
	conn, err := mqttpub.Dial(mqttpub.Config{
		Broker:   mqttBroker,
		Username: mqttUser,
		Password: brokerPassword,
		Prefix:   mqttPrefix,
		Node:     t.node(),
	})
	if err != nil {
		return err
	}
	defer conn.Close()

	publisher := mqttpub.NewPublisher(conn, mqttPrefix, t.node())
	if mqttOnce {
		if err := publisher.Poll(ctx, device); err != nil {
			return err
		}
		fmt.Printf("Published %s\n", publisher.Topics().State)
		return nil
	}

	fmt.Printf("Publishing %s every %s (Ctrl+C to stop)\n", publisher.Topics().State, mqttInterval)
	if err := publisher.Run(ctx, device, mqttInterval); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
