package appliance

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/muurk/vzug/internal/deviceapi"
)

// Snapshot is a read-only copy of everything a device has loaded, shaped for
// JSON output, metrics and MQTT.
type Snapshot struct {
	Time      time.Time  `json:"time"`
	Host      string     `json:"host"`
	Loaded    bool       `json:"loaded"`
	Type      DeviceType `json:"type"`
	Serial    string     `json:"serial,omitempty"`
	Name      string     `json:"name,omitempty"`
	Model     string     `json:"model,omitempty"`
	Status    string     `json:"status,omitempty"`
	UUID      string     `json:"uuid,omitempty"`
	UUIDValid bool       `json:"uuid_valid"`
	Program   string     `json:"program,omitempty"`
	Active    bool       `json:"active"`

	ProgramDetails *ProgramSnapshot `json:"program_details,omitempty"`
	Features       *Features        `json:"features,omitempty"`
	OptiDos        *OptiDos         `json:"optidos,omitempty"`
	Consumption    *Consumption     `json:"consumption,omitempty"`
	Error          *ErrorSnapshot   `json:"error,omitempty"`
}

// ProgramSnapshot is ProgramState with resolved wall-clock times.
type ProgramSnapshot struct {
	Status         ProgramStatus `json:"status"`
	Name           string        `json:"name,omitempty"`
	SecondsToEnd   int64         `json:"seconds_to_end"`
	SecondsToStart int64         `json:"seconds_to_start,omitempty"`
	Duration       int64         `json:"duration,omitempty"`
	EndTime        *time.Time    `json:"end_time,omitempty"`
	StartTime      *time.Time    `json:"start_time,omitempty"`
}

// ErrorSnapshot describes the last failed load.
type ErrorSnapshot struct {
	Kind        string `json:"kind"`
	Code        string `json:"code"`
	Message     string `json:"message"`
	AuthProblem bool   `json:"auth_problem"`
	Cause       string `json:"cause,omitempty"`
}

// TakeSnapshot copies the state of d at now.
func TakeSnapshot(d Device, now time.Time) Snapshot {
	b := d.Basic()
	s := Snapshot{
		Time:    now,
		Host:    b.Host(),
		Loaded:  b.DeviceInformationLoaded(),
		Type:    b.DeviceType(),
		Serial:  b.Serial(),
		Name:    b.DeviceName(),
		Model:   b.ModelDesc(),
		Status:  b.Status(),
		UUID:    b.UUID(),
		Program: b.ProgramName(),
		Active:  b.IsActive(),
	}
	if _, err := uuid.Parse(s.UUID); err == nil {
		s.UUIDValid = true
	}

	if p, ok := d.(ProgramLoader); ok {
		if state := p.Program(); state.Status != ProgramUnknown {
			s.ProgramDetails = programSnapshot(state, now)
		}
	}
	if c, ok := d.(ConsumptionLoader); ok {
		consumption := c.Consumption()
		s.Consumption = &consumption
	}
	switch v := d.(type) {
	case *Dishwasher:
		if v.Program().Running() {
			features := v.Features()
			s.Features = &features
		}
	case *WashingMachine:
		optiDos := v.OptiDos()
		s.OptiDos = &optiDos
	}

	if err := b.Err(); err != nil {
		s.Error = errorSnapshot(err)
	}
	return s
}

func programSnapshot(state ProgramState, now time.Time) *ProgramSnapshot {
	p := &ProgramSnapshot{
		Status:         state.Status,
		Name:           state.Name,
		SecondsToEnd:   state.SecondsToEnd,
		SecondsToStart: state.SecondsToStart,
		Duration:       state.Duration,
	}
	if state.Running() {
		end := state.EndTime(now)
		p.EndTime = &end
	}
	if state.Status == ProgramTimed {
		start := state.StartTime(now)
		p.StartTime = &start
	}
	return p
}

func errorSnapshot(err error) *ErrorSnapshot {
	e, ok := deviceapi.AsError(err)
	if !ok {
		return &ErrorSnapshot{Kind: "unknown", Code: deviceapi.CodeNotAvailable, Message: err.Error()}
	}
	out := &ErrorSnapshot{
		Kind:        e.Kind.Label(),
		Code:        e.Code,
		Message:     e.Message,
		AuthProblem: e.IsAuthProblem(),
	}
	if cause := errors.Unwrap(e); cause != nil {
		out.Cause = cause.Error()
	}
	return out
}
