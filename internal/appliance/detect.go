package appliance

import (
	"context"
)

// Detect loads the device information of host and returns the model that
// matches the reported machine type. Unknown types are returned as the
// *BasicDevice. On failure the returned device carries the error state.
func Detect(ctx context.Context, host, username, password string, opts ...Option) (Device, error) {
	basic := NewBasicDevice(host, username, password, opts...)
	if !basic.LoadDeviceInformation(ctx) {
		return basic, basic.Err()
	}
	return ForType(basic), nil
}

// ForType wraps basic in the model matching its resolved device type.
func ForType(basic *BasicDevice) Device {
	switch basic.DeviceType() {
	case TypeWashingMachine:
		return NewWashingMachineFrom(basic)
	case TypeDryer:
		return NewDryerFrom(basic)
	case TypeDishwasher:
		return NewDishwasherFrom(basic)
	default:
		return basic
	}
}

// New creates the model for a known device type without contacting it.
func New(t DeviceType, host, username, password string, opts ...Option) Device {
	basic := NewBasicDevice(host, username, password, opts...)
	switch t {
	case TypeWashingMachine:
		return NewWashingMachineFrom(basic)
	case TypeDryer:
		return NewDryerFrom(basic)
	case TypeDishwasher:
		return NewDishwasherFrom(basic)
	default:
		return basic
	}
}
