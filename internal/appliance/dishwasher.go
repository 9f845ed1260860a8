package appliance

import (
	"context"
	"time"

	"github.com/muurk/vzug/internal/logging"
	"go.uber.org/zap"
)

// Features are the option flags of a dishwasher program.
type Features struct {
	EnergySaving bool `json:"energy_saving"`
	OptiStart    bool `json:"opti_start"`
	PartialLoad  bool `json:"partial_load"`
	RinsePlus    bool `json:"rinse_plus"`
	DryPlus      bool `json:"dry_plus"`
}

// Dishwasher is a V-ZUG dishwasher. It supports delayed (timed) starts.
type Dishwasher struct {
	*BasicDevice
	program  ProgramState
	features Features
}

// NewDishwasher creates a dishwasher for host.
func NewDishwasher(host, username, password string, opts ...Option) *Dishwasher {
	return &Dishwasher{BasicDevice: NewBasicDevice(host, username, password, opts...)}
}

// NewDishwasherFrom wraps an existing device, keeping its identity and auth session.
func NewDishwasherFrom(basic *BasicDevice) *Dishwasher {
	return &Dishwasher{BasicDevice: basic}
}

type dishwasherProgram struct {
	Status       *string        `json:"status"`
	Name         *string        `json:"name"`
	Duration     *setAct[int64] `json:"duration"`
	StartTime    *setAct[int64] `json:"starttime"`
	EnergySaving *setAct[bool]  `json:"energySaving"`
	OptiStart    *setAct[bool]  `json:"optiStart"`
	PartialLoad  *setAct[bool]  `json:"partialload"`
	RinsePlus    *setAct[bool]  `json:"rinsePlus"`
	DryPlus      *setAct[bool]  `json:"dryPlus"`
}

// LoadAllInformation loads the device information and, if the appliance is
// active, the program details.
func (d *Dishwasher) LoadAllInformation(ctx context.Context) bool {
	if !d.LoadDeviceInformation(ctx) {
		return false
	}
	if d.IsActive() {
		return d.LoadProgramDetails(ctx)
	}
	return true
}

// LoadProgramDetails loads the current program. It returns false when no
// program is active or scheduled, and on error.
func (d *Dishwasher) LoadProgramDetails(ctx context.Context) bool {
	d.clearError()
	logging.Info("Loading program information", zap.String("host", d.Host()))

	d.program = ProgramState{}
	d.features = Features{}

	var p dishwasherProgram
	if err := d.fetchProgram(ctx, &p); err != nil {
		return d.fail(err)
	}
	if err := d.readProgram(&p); err != nil {
		return d.fail(err)
	}
	if d.program.Status == ProgramIdle {
		logging.Info("No program information available because no program is active")
		return false
	}

	logging.Info("Got program information",
		zap.String("program", d.program.Name),
		zap.String("status", string(d.program.Status)),
		zap.Float64("minutes_to_end", float64(d.program.SecondsToEnd)/60),
		zap.Time("end_time", d.program.EndTime(time.Now())),
	)
	return true
}

// readProgram assigns fields in response order, so a missing field leaves
// everything after it at its reset value.
func (d *Dishwasher) readProgram(p *dishwasherProgram) error {
	status, err := required(p.Status, "status")
	if err != nil {
		return err
	}
	d.program.RawStatus = status

	switch {
	case containsToken(status, statusTokenIdle):
		d.program.Status = ProgramIdle
		return nil
	case containsToken(status, statusTokenTimed):
		d.program.Status = ProgramTimed
		if d.program.Duration, err = requiredSet(p.Duration, "duration"); err != nil {
			return err
		}
		if d.program.SecondsToStart, err = requiredSet(p.StartTime, "starttime"); err != nil {
			return err
		}
		d.program.SecondsToEnd = d.program.SecondsToStart + d.program.Duration
	default:
		d.program.Status = ProgramActive
		if d.program.SecondsToEnd, err = requiredAct(p.Duration, "duration"); err != nil {
			return err
		}
	}

	if d.program.Name, err = required(p.Name, "name"); err != nil {
		return err
	}

	flags := []struct {
		name string
		src  *setAct[bool]
		dst  *bool
	}{
		{"energySaving", p.EnergySaving, &d.features.EnergySaving},
		{"optiStart", p.OptiStart, &d.features.OptiStart},
		{"partialload", p.PartialLoad, &d.features.PartialLoad},
		{"rinsePlus", p.RinsePlus, &d.features.RinsePlus},
		{"dryPlus", p.DryPlus, &d.features.DryPlus},
	}
	for _, f := range flags {
		if *f.dst, err = requiredSet(f.src, f.name); err != nil {
			return err
		}
	}
	return nil
}

// Program returns the program state of the last program load
func (d *Dishwasher) Program() ProgramState { return d.program }

// Features returns the program option flags of the last program load
func (d *Dishwasher) Features() Features { return d.features }
