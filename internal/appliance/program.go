package appliance

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/muurk/vzug/internal/deviceapi"
)

// ProgramStatus is the classified program state reported by the appliance.
type ProgramStatus string

const (
	// ProgramUnknown means no program details were loaded yet
	ProgramUnknown ProgramStatus = ""
	ProgramIdle    ProgramStatus = "idle"
	ProgramActive  ProgramStatus = "active"
	// ProgramTimed is a program scheduled for a delayed start (dishwasher only)
	ProgramTimed ProgramStatus = "timed"
)

const (
	statusTokenIdle   = "idle"
	statusTokenActive = "active"
	statusTokenTimed  = "timed"
)

// ProgramState holds the program details of the last program load.
// It is reset at the start of every load.
type ProgramState struct {
	Status ProgramStatus
	// RawStatus is the status string as sent by the appliance
	RawStatus string
	Name      string

	SecondsToEnd int64
	// SecondsToStart and Duration are only set for timed programs
	SecondsToStart int64
	Duration       int64
}

// EndTime returns the expected end of the program relative to now.
func (p ProgramState) EndTime(now time.Time) time.Time {
	return now.Add(time.Duration(p.SecondsToEnd) * time.Second)
}

// StartTime returns the planned start relative to now. For running programs
// it equals now.
func (p ProgramState) StartTime(now time.Time) time.Time {
	return now.Add(time.Duration(p.SecondsToStart) * time.Second)
}

// Running reports whether a program is active or scheduled.
func (p ProgramState) Running() bool {
	return p.Status == ProgramActive || p.Status == ProgramTimed
}

// setAct is the {"set": ..., "act": ...} shape used for most program fields.
type setAct[T any] struct {
	Set *T `json:"set"`
	Act *T `json:"act"`
}

func required[T any](v *T, field string) (T, error) {
	if v == nil {
		var zero T
		return zero, deviceapi.NewMalformedError(fmt.Sprintf("Missing field %q in program response", field), nil)
	}
	return *v, nil
}

func requiredSet[T any](v *setAct[T], field string) (T, error) {
	if v == nil {
		var zero T
		return zero, deviceapi.NewMalformedError(fmt.Sprintf("Missing field %q in program response", field), nil)
	}
	return required(v.Set, field+".set")
}

func requiredAct[T any](v *setAct[T], field string) (T, error) {
	if v == nil {
		var zero T
		return zero, deviceapi.NewMalformedError(fmt.Sprintf("Missing field %q in program response", field), nil)
	}
	return required(v.Act, field+".act")
}

// fetchProgram loads the program response, a single-element array, and
// decodes its first element into v.
func (d *BasicDevice) fetchProgram(ctx context.Context, v any) error {
	var elements []json.RawMessage
	if err := d.client.DecodeJSON(ctx, deviceapi.CallProgram, &elements); err != nil {
		return err
	}
	if len(elements) == 0 {
		return deviceapi.NewMalformedError("Empty program response", nil)
	}
	if err := json.Unmarshal(elements[0], v); err != nil {
		return deviceapi.NewMalformedError("Got invalid program response from device", err)
	}
	return nil
}

func containsToken(status, token string) bool {
	return strings.Contains(status, token)
}
