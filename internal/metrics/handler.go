package metrics

import (
	"net/http"

	"github.com/muurk/vzug/internal/appliance"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler returns a /metrics handler serving device on its own registry.
func Handler(device appliance.Device) (http.Handler, *Collector, error) {
	collector := NewCollector(device)
	registry := prometheus.NewRegistry()
	if err := registry.Register(collector); err != nil {
		return nil, nil, err
	}
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{}), collector, nil
}
