package appliance

import (
	"github.com/muurk/vzug/internal/logging"
	"go.uber.org/zap"
)

// Consumption holds metered values. Water readings are only reported by
// washing machines.
type Consumption struct {
	EnergyTotalKWh float64 `json:"energy_total_kwh"`
	EnergyAvgKWh   float64 `json:"energy_avg_kwh"`
	WaterTotalL    float64 `json:"water_total_l,omitempty"`
	WaterAvgL      float64 `json:"water_avg_l,omitempty"`
	HasWater       bool    `json:"has_water"`
}

func logConsumption(host string, c Consumption) {
	fields := []zap.Field{
		zap.String("host", host),
		zap.Float64("energy_total_kwh", c.EnergyTotalKWh),
		zap.Float64("energy_avg_kwh", c.EnergyAvgKWh),
	}
	if c.HasWater {
		fields = append(fields,
			zap.Float64("water_total_l", c.WaterTotalL),
			zap.Float64("water_avg_l", c.WaterAvgL),
		)
	}
	logging.Info("Got consumption data", fields...)
}
