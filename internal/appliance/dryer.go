package appliance

import (
	"context"
	"time"

	"github.com/muurk/vzug/internal/deviceapi"
	"github.com/muurk/vzug/internal/logging"
	"github.com/muurk/vzug/internal/reading"
	"go.uber.org/zap"
)

// Dryer is a V-ZUG tumble dryer.
type Dryer struct {
	*BasicDevice
	program     ProgramState
	consumption Consumption
}

// NewDryer creates a dryer for host.
func NewDryer(host, username, password string, opts ...Option) *Dryer {
	return &Dryer{BasicDevice: NewBasicDevice(host, username, password, opts...)}
}

// NewDryerFrom wraps an existing device, keeping its identity and auth session.
func NewDryerFrom(basic *BasicDevice) *Dryer {
	return &Dryer{BasicDevice: basic}
}

type runningProgram struct {
	Status   *string        `json:"status"`
	Name     *string        `json:"name"`
	Duration *setAct[int64] `json:"duration"`
}

// LoadAllInformation loads device information, consumption and, if the
// appliance is active, the program details.
func (d *Dryer) LoadAllInformation(ctx context.Context) bool {
	if !d.LoadDeviceInformation(ctx) || !d.LoadConsumptionData(ctx) {
		return false
	}
	if d.IsActive() {
		return d.LoadProgramDetails(ctx)
	}
	return true
}

// LoadProgramDetails loads the current program. It returns false when the
// dryer is idle, and on error.
func (d *Dryer) LoadProgramDetails(ctx context.Context) bool {
	d.clearError()
	logging.Info("Loading program information", zap.String("host", d.Host()))

	d.program = ProgramState{}

	var p runningProgram
	if err := d.fetchProgram(ctx, &p); err != nil {
		return d.fail(err)
	}
	if err := readRunningProgram(&p, &d.program, func(status string) bool {
		return !containsToken(status, statusTokenIdle)
	}); err != nil {
		return d.fail(err)
	}
	if d.program.Status == ProgramIdle {
		logging.Info("No program information available because no program is active")
		return false
	}

	logging.Info("Got program information",
		zap.String("program", d.program.Name),
		zap.Float64("minutes_to_end", float64(d.program.SecondsToEnd)/60),
		zap.Time("end_time", d.program.EndTime(time.Now())),
	)
	return true
}

// readRunningProgram fills state for appliances without delayed start.
func readRunningProgram(p *runningProgram, state *ProgramState, active func(string) bool) error {
	status, err := required(p.Status, "status")
	if err != nil {
		return err
	}
	state.RawStatus = status

	if !active(status) {
		state.Status = ProgramIdle
		return nil
	}
	state.Status = ProgramActive

	if state.Name, err = required(p.Name, "name"); err != nil {
		return err
	}
	if state.SecondsToEnd, err = requiredAct(p.Duration, "duration"); err != nil {
		return err
	}
	return nil
}

// LoadConsumptionData loads total and average energy consumption. Values are
// reset first and assigned as they arrive; a failure keeps the ones read
// before it.
func (d *Dryer) LoadConsumptionData(ctx context.Context) bool {
	d.clearError()
	logging.Info("Loading power consumption data", zap.String("host", d.Host()))

	d.consumption = Consumption{}
	readings := []struct {
		token string
		dst   *float64
	}{
		{deviceapi.ValueDryerConsumptionTotal, &d.consumption.EnergyTotalKWh},
		{deviceapi.ValueDryerConsumptionAvg, &d.consumption.EnergyAvgKWh},
	}
	for _, r := range readings {
		text, err := d.consumptionValue(ctx, r.token)
		if err != nil {
			return d.fail(err)
		}
		kwh, err := reading.ReadKWh(text)
		if err != nil {
			return d.fail(err)
		}
		*r.dst = kwh
	}

	logConsumption(d.Host(), d.consumption)
	return true
}

// Program returns the program state of the last program load
func (d *Dryer) Program() ProgramState { return d.program }

// Consumption returns the last loaded consumption values
func (d *Dryer) Consumption() Consumption { return d.consumption }
