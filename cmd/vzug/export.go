package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/muurk/vzug/internal/logging"
	"github.com/muurk/vzug/internal/metrics"
)

var exportListen string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Serve one appliance as Prometheus metrics",
	Long: `Start an HTTP server exposing /metrics. Every scrape loads the appliance;
concurrent scrapes wait for each other.`,
	Example: `  vzug export --host laundry --listen :9105`,
	RunE:    runExport,
}

func init() {
	addApplianceFlags(exportCmd)
	exportCmd.Flags().StringVar(&exportListen, "listen", ":9105", "Listen address")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
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

	handler, _, err := metrics.Handler(device)
	if err != nil {
		return err
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", handler)

	server := &http.Server{
		Addr:              exportListen,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		errChan <- server.ListenAndServe()
	}()
	logging.Info("Serving metrics",
		zap.String("addr", exportListen),
		zap.String("host", t.entry.Host),
	)
	fmt.Printf("Serving metrics for %s on %s/metrics\n", t.entry.Host, exportListen)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-errChan:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
