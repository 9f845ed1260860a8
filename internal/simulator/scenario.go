package simulator

import (
	"embed"
	"fmt"
	"sort"
	"strings"

	"github.com/muurk/vzug/internal/deviceapi"
)

//go:embed fixtures/*.json
var fixtures embed.FS

// Fixture returns the body of an embedded fixture, without the trailing newline.
// It panics on unknown names; fixtures are compiled in.
func Fixture(name string) string {
	data, err := fixtures.ReadFile("fixtures/" + name + ".json")
	if err != nil {
		panic(fmt.Sprintf("simulator: unknown fixture %q", name))
	}
	return strings.TrimRight(string(data), "\r\n")
}

// Scenario describes what a simulated appliance answers.
// An empty body makes the matching command a bad request.
type Scenario struct {
	Name        string
	Description string

	ModelDesc   string
	MachineType string
	Status      string            // getDeviceStatus
	Program     string            // getProgram
	Values      map[string]string // getCommand bodies keyed by value token
}

// Body returns the response body for an endpoint/command/value triple and
// whether the request is known.
func (s *Scenario) Body(endpoint, command, value string) (string, bool) {
	var body string
	switch endpoint {
	case deviceapi.EndpointDeviceInfo:
		switch command {
		case deviceapi.CommandGetStatus:
			body = s.Status
		case deviceapi.CommandGetModelDesc:
			body = s.ModelDesc
		}
	case deviceapi.EndpointCommand:
		switch command {
		case deviceapi.CommandGetProgram:
			body = s.Program
		case deviceapi.CommandGetMachineType:
			body = s.MachineType
		case deviceapi.CommandGetCommand:
			body = s.Values[value]
		}
	}
	return body, body != ""
}

func washingMachine(name, description, program string) *Scenario {
	return &Scenario{
		Name:        name,
		Description: description,
		ModelDesc:   "AdoraWash V4000",
		MachineType: deviceapi.MachineTypeWashingMachine,
		Status:      Fixture("device_status_ok"),
		Program:     Fixture(program),
		Values: map[string]string{
			deviceapi.ValueWasherEcoStatTotal: Fixture("washing_machine_consumption_total"),
			deviceapi.ValueWasherEcoStatAvg:   Fixture("washing_machine_consumption_avg"),
		},
	}
}

func dryer(name, description, program string) *Scenario {
	return &Scenario{
		Name:        name,
		Description: description,
		ModelDesc:   "AdoraDry V4000",
		MachineType: deviceapi.MachineTypeDryer,
		Status:      Fixture("device_status_ok"),
		Program:     Fixture(program),
		Values: map[string]string{
			deviceapi.ValueDryerConsumptionTotal: Fixture("dryer_consumption_total"),
			deviceapi.ValueDryerConsumptionAvg:   Fixture("dryer_consumption_avg"),
		},
	}
}

func dishwasher(name, description, status, program string) *Scenario {
	return &Scenario{
		Name:        name,
		Description: description,
		ModelDesc:   "AdoraDish V4000",
		MachineType: deviceapi.MachineTypeDishwasher,
		Status:      Fixture(status),
		Program:     Fixture(program),
	}
}

var registry = map[string]func() *Scenario{
	"washing-machine": func() *Scenario {
		return washingMachine("washing-machine", "Washing machine running 40°C Outdoor with optiDos", "washing_machine_program_active")
	},
	"washing-machine-idle": func() *Scenario {
		s := washingMachine("washing-machine-idle", "Idle washing machine with filled optiDos tanks", "washing_machine_program_idle")
		s.Status = Fixture("device_status_idle")
		return s
	},
	"dryer": func() *Scenario {
		return dryer("dryer", "Dryer running Extra dry", "dryer_program_active")
	},
	"dryer-idle": func() *Scenario {
		s := dryer("dryer-idle", "Idle dryer", "dryer_program_idle")
		s.Status = Fixture("device_status_idle")
		return s
	},
	"dishwasher": func() *Scenario {
		return dishwasher("dishwasher", "Dishwasher running Éco", "device_status_ok", "dishwasher_program_active")
	},
	"dishwasher-idle": func() *Scenario {
		return dishwasher("dishwasher-idle", "Idle dishwasher", "device_status_idle", "dishwasher_program_idle")
	},
	"dishwasher-timed": func() *Scenario {
		return dishwasher("dishwasher-timed", "Dishwasher with a delayed Éco start", "dishwasher_status_timed", "dishwasher_program_timed")
	},
	"device-error": func() *Scenario {
		return &Scenario{
			Name:        "device-error",
			Description: "Appliance answering every status request with error 501",
			ModelDesc:   Fixture("device_status_error"),
			MachineType: Fixture("device_status_error"),
			Status:      Fixture("device_status_error"),
			Program:     Fixture("device_status_error"),
		}
	},
}

// Lookup returns a fresh copy of a named scenario.
func Lookup(name string) (*Scenario, error) {
	build, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown scenario %q (available: %s)", name, strings.Join(Names(), ", "))
	}
	return build(), nil
}

// Names lists the registered scenarios in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
