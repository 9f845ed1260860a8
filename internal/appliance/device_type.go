package appliance

import (
	"fmt"
	"strings"

	"github.com/muurk/vzug/internal/deviceapi"
)

// DeviceType is the appliance family resolved from the machine-type code.
type DeviceType int

const (
	TypeUnknown DeviceType = iota
	TypeWashingMachine
	TypeDryer
	TypeDishwasher
)

var shortCodes = map[string]DeviceType{
	deviceapi.MachineTypeWashingMachine: TypeWashingMachine,
	deviceapi.MachineTypeDryer:          TypeDryer,
	deviceapi.MachineTypeDishwasher:     TypeDishwasher,
}

// TypeFromShortCode maps a machine-type code to a DeviceType.
// Unrecognized codes map to TypeUnknown.
func TypeFromShortCode(code string) DeviceType {
	if t, ok := shortCodes[strings.TrimSpace(code)]; ok {
		return t
	}
	return TypeUnknown
}

// String returns the canonical name used in config files and JSON output
func (t DeviceType) String() string {
	switch t {
	case TypeWashingMachine:
		return "washing_machine"
	case TypeDryer:
		return "dryer"
	case TypeDishwasher:
		return "dishwasher"
	default:
		return "unknown"
	}
}

// DisplayName returns a human-readable name
func (t DeviceType) DisplayName() string {
	switch t {
	case TypeWashingMachine:
		return "Washing machine"
	case TypeDryer:
		return "Dryer"
	case TypeDishwasher:
		return "Dishwasher"
	default:
		return "Unknown appliance"
	}
}

// ParseDeviceType is the inverse of String. It also accepts the short codes.
func ParseDeviceType(s string) (DeviceType, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	switch v {
	case "", "unknown":
		return TypeUnknown, nil
	case "washing_machine", "washing-machine", "washer":
		return TypeWashingMachine, nil
	case "dryer":
		return TypeDryer, nil
	case "dishwasher":
		return TypeDishwasher, nil
	}
	if t := TypeFromShortCode(strings.ToUpper(v)); t != TypeUnknown {
		return t, nil
	}
	return TypeUnknown, fmt.Errorf("unknown device type %q", s)
}

// MarshalText implements encoding.TextMarshaler
func (t DeviceType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (t *DeviceType) UnmarshalText(text []byte) error {
	parsed, err := ParseDeviceType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
