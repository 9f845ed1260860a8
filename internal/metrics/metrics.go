// Package metrics exposes one appliance as Prometheus metrics.
//
// The collector loads the appliance on every scrape. Scrapes are serialized:
// a device instance is never loaded by two scrapes at once.
package metrics

import (
	"context"
	"sync"
	"time"

	"github.com/muurk/vzug/internal/appliance"
	"github.com/muurk/vzug/internal/logging"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// DefaultScrapeTimeout bounds one scrape including retries
const DefaultScrapeTimeout = 30 * time.Second

// Collector collects the state of one appliance.
type Collector struct {
	mu      sync.Mutex
	device  appliance.Device
	timeout time.Duration
	now     func() time.Time

	scrapeSuccess prometheus.Gauge
	lastSuccess   prometheus.Gauge
	info          *prometheus.GaugeVec
	active        prometheus.Gauge
	programStatus *prometheus.GaugeVec
	secondsToEnd  prometheus.Gauge
	secondsStart  prometheus.Gauge
	energyTotal   prometheus.Gauge
	energyAvg     prometheus.Gauge
	waterTotal    prometheus.Gauge
	waterAvg      prometheus.Gauge
	optiDosActive prometheus.Gauge
	lastError     *prometheus.GaugeVec
}

// NewCollector creates a collector for device.
func NewCollector(device appliance.Device) *Collector {
	return &Collector{
		device:  device,
		timeout: DefaultScrapeTimeout,
		now:     time.Now,
		scrapeSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "vzug_scrape_success",
			Help: "Last scrape success (1=ok, 0=error)",
		}),
		lastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "vzug_last_success_timestamp_seconds",
			Help: "Last successful scrape timestamp (epoch seconds)",
		}),
		info: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "vzug_info",
			Help: "Appliance identity",
		}, []string{"serial", "name", "model", "type"}),
		active: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "vzug_active",
			Help: "1 if the appliance reports itself active",
		}),
		programStatus: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "vzug_program_status",
			Help: "1 for the current program status",
		}, []string{"status"}),
		secondsToEnd: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "vzug_program_seconds_to_end",
			Help: "Seconds until the running program ends",
		}),
		secondsStart: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "vzug_program_seconds_to_start",
			Help: "Seconds until a timed program starts",
		}),
		energyTotal: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "vzug_energy_total_kwh",
			Help: "Total energy consumption (kWh)",
		}),
		energyAvg: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "vzug_energy_average_kwh",
			Help: "Average energy consumption per cycle (kWh)",
		}),
		waterTotal: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "vzug_water_total_liters",
			Help: "Total water consumption (l)",
		}),
		waterAvg: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "vzug_water_average_liters",
			Help: "Average water consumption per cycle (l)",
		}),
		optiDosActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "vzug_optidos_active",
			Help: "1 if optiDos dual detergent dosing is active",
		}),
		lastError: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "vzug_last_error",
			Help: "1 for the kind and code of the last failed load",
		}, []string{"kind", "code"}),
	}
}

// SetTimeout changes the per-scrape timeout.
func (c *Collector) SetTimeout(timeout time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.timeout = timeout
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	c.scrapeSuccess.Describe(ch)
	c.lastSuccess.Describe(ch)
	c.info.Describe(ch)
	c.active.Describe(ch)
	c.programStatus.Describe(ch)
	c.secondsToEnd.Describe(ch)
	c.secondsStart.Describe(ch)
	c.energyTotal.Describe(ch)
	c.energyAvg.Describe(ch)
	c.waterTotal.Describe(ch)
	c.waterAvg.Describe(ch)
	c.optiDosActive.Describe(ch)
	c.lastError.Describe(ch)
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	ok := c.device.LoadAllInformation(ctx)
	c.apply(appliance.TakeSnapshot(c.device, c.now()), ok)
	if !ok {
		logging.Warn("Scrape failed",
			zap.String("host", c.device.Basic().Host()),
			zap.Error(c.device.Basic().Err()),
		)
	}
	c.collectAll(ch)
}

func (c *Collector) apply(s appliance.Snapshot, ok bool) {
	c.lastError.Reset()
	if !ok {
		c.scrapeSuccess.Set(0)
		if s.Error != nil {
			c.lastError.WithLabelValues(s.Error.Kind, s.Error.Code).Set(1)
		}
		return
	}

	c.scrapeSuccess.Set(1)
	c.lastSuccess.Set(float64(s.Time.Unix()))

	c.info.Reset()
	c.info.WithLabelValues(s.Serial, s.Name, s.Model, s.Type.String()).Set(1)
	c.active.Set(boolValue(s.Active))

	c.programStatus.Reset()
	c.secondsToEnd.Set(0)
	c.secondsStart.Set(0)
	if p := s.ProgramDetails; p != nil {
		c.programStatus.WithLabelValues(string(p.Status)).Set(1)
		c.secondsToEnd.Set(float64(p.SecondsToEnd))
		c.secondsStart.Set(float64(p.SecondsToStart))
	}

	if e := s.Consumption; e != nil {
		c.energyTotal.Set(e.EnergyTotalKWh)
		c.energyAvg.Set(e.EnergyAvgKWh)
		if e.HasWater {
			c.waterTotal.Set(e.WaterTotalL)
			c.waterAvg.Set(e.WaterAvgL)
		}
	}
	if o := s.OptiDos; o != nil {
		c.optiDosActive.Set(boolValue(o.Active))
	}
}

func (c *Collector) collectAll(ch chan<- prometheus.Metric) {
	c.scrapeSuccess.Collect(ch)
	c.lastSuccess.Collect(ch)
	c.info.Collect(ch)
	c.active.Collect(ch)
	c.programStatus.Collect(ch)
	c.secondsToEnd.Collect(ch)
	c.secondsStart.Collect(ch)
	c.energyTotal.Collect(ch)
	c.energyAvg.Collect(ch)
	c.waterTotal.Collect(ch)
	c.waterAvg.Collect(ch)
	c.optiDosActive.Collect(ch)
	c.lastError.Collect(ch)
}

func boolValue(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
