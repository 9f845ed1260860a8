package appliance

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/muurk/vzug/internal/deviceapi"
	"github.com/muurk/vzug/internal/simulator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypeFromShortCode(t *testing.T) {
	assert.Equal(t, TypeWashingMachine, TypeFromShortCode("WA"))
	assert.Equal(t, TypeDryer, TypeFromShortCode("WT"))
	assert.Equal(t, TypeDishwasher, TypeFromShortCode("GS"))
	assert.Equal(t, TypeDishwasher, TypeFromShortCode(" GS\n"))

	for _, code := range []string{"", "XX", "wa", "WRONG REQUEST", "{'error':'bad request'}"} {
		assert.Equal(t, TypeUnknown, TypeFromShortCode(code), "code %q", code)
	}
}

func TestParseDeviceType(t *testing.T) {
	for _, typ := range []DeviceType{TypeUnknown, TypeWashingMachine, TypeDryer, TypeDishwasher} {
		parsed, err := ParseDeviceType(typ.String())
		require.NoError(t, err)
		assert.Equal(t, typ, parsed)
	}

	parsed, err := ParseDeviceType("wt")
	require.NoError(t, err)
	assert.Equal(t, TypeDryer, parsed)

	_, err = ParseDeviceType("toaster")
	assert.Error(t, err)
}

func TestLoadDeviceInformation_OK(t *testing.T) {
	server, _ := startScenario(t, "washing-machine")

	device := NewBasicDevice(server.URL, "", "", noDelay)
	loaded := device.LoadDeviceInformation(context.Background())

	require.True(t, loaded)
	assert.Equal(t, "TestDevice", device.DeviceName())
	assert.Equal(t, "123", device.Serial())
	assert.Equal(t, "Testing", device.Status())
	assert.Equal(t, "TestProgram", device.ProgramName())
	assert.Equal(t, "test-uuid", device.UUID())
	assert.Equal(t, "AdoraWash V4000", device.ModelDesc())
	assert.True(t, device.IsActive())
	assert.Equal(t, TypeWashingMachine, device.DeviceType())
	assert.True(t, device.DeviceInformationLoaded())
	assert.Empty(t, device.ErrorCode())
	assert.NoError(t, device.Err())

	var status map[string]any
	require.NoError(t, json.Unmarshal(device.StatusJSON(), &status))
	assert.Equal(t, "123", status["Serial"])

	id := device.Identity()
	assert.Equal(t, deviceapi.MachineTypeWashingMachine, id.MachineTypeCode)
	assert.Equal(t, device.StatusJSON(), id.StatusJSON)
}

func TestLoadAllInformation_Basic(t *testing.T) {
	server, sim := startScenario(t, "washing-machine")

	device := NewBasicDevice(server.URL, "", "", noDelay)
	require.True(t, device.LoadAllInformation(context.Background()))
	assert.Equal(t, TypeWashingMachine, device.DeviceType())
	assert.Zero(t, sim.Hits(deviceapi.CommandGetProgram))
}

func TestLoadDeviceInformation_DeviceError(t *testing.T) {
	server, sim := startScenario(t, "device-error")

	device := NewBasicDevice(server.URL, "", "", noDelay)
	loaded := device.LoadDeviceInformation(context.Background())

	assert.False(t, loaded)
	assert.Equal(t, "501", device.ErrorCode())
	assert.False(t, device.IsAuthProblem())
	assert.False(t, device.DeviceInformationLoaded())
	assert.Equal(t, deviceapi.DefaultMaxAttempts, sim.Hits(deviceapi.CommandGetStatus))
}

func TestLoadDeviceInformation_Unreachable(t *testing.T) {
	device := NewBasicDevice(closedServerURL(t), "", "", noDelay)
	loaded := device.LoadDeviceInformation(context.Background())

	assert.False(t, loaded)
	assert.Equal(t, "n/a", device.ErrorCode())
	assert.True(t, deviceapi.IsTransportError(device.Err()))

	e, ok := deviceapi.AsError(device.Err())
	require.True(t, ok)
	assert.NotNil(t, e.Err, "transport error should carry its cause")
}

func TestLoadDeviceInformation_InvalidResponse(t *testing.T) {
	server, _ := startCustom(t, &simulator.Scenario{Status: "no json response"})

	device := NewBasicDevice(server.URL, "", "", noDelay)
	loaded := device.LoadDeviceInformation(context.Background())

	assert.False(t, loaded)
	assert.Equal(t, "n/a", device.ErrorCode())
	assert.True(t, deviceapi.IsMalformedError(device.Err()))

	var syntaxErr *json.SyntaxError
	assert.ErrorAs(t, device.Err(), &syntaxErr)
}

func TestLoadDeviceInformation_MissingField(t *testing.T) {
	server, _ := startCustom(t, &simulator.Scenario{
		Status:      `{"Serial":"123","DeviceName":"TestDevice"}`,
		ModelDesc:   "AdoraWash V4000",
		MachineType: "WA",
	})

	device := NewBasicDevice(server.URL, "", "", noDelay)
	assert.False(t, device.LoadDeviceInformation(context.Background()))
	assert.True(t, deviceapi.IsMalformedError(device.Err()))
	assert.Empty(t, device.Serial(), "identity is committed only on full success")
}

func TestLoadDeviceInformation_UnknownMachineType(t *testing.T) {
	server, _ := startCustom(t, &simulator.Scenario{
		Status:      simulator.Fixture("device_status_ok"),
		ModelDesc:   "Combair V6000",
		MachineType: "BO",
	})

	device := NewBasicDevice(server.URL, "", "", noDelay)
	require.True(t, device.LoadDeviceInformation(context.Background()))
	assert.Equal(t, TypeUnknown, device.DeviceType())
}

func TestLoadDeviceInformation_FailureKeepsPreviousIdentity(t *testing.T) {
	server, sim := startScenario(t, "dryer")

	device := NewBasicDevice(server.URL, "", "", noDelay)
	require.True(t, device.LoadDeviceInformation(context.Background()))

	broken, err := simulator.Lookup("dryer")
	require.NoError(t, err)
	broken.MachineType = ""
	sim.SetScenario(broken)

	assert.False(t, device.LoadDeviceInformation(context.Background()))
	assert.Equal(t, TypeDryer, device.DeviceType())
	assert.Equal(t, "123", device.Serial())
}

func TestLoadDeviceInformation_ErrorClearedOnSuccess(t *testing.T) {
	failing, err := simulator.Lookup("dryer")
	require.NoError(t, err)
	failing.Status = simulator.Fixture("device_status_error")
	server, sim := startCustom(t, failing)

	device := NewBasicDevice(server.URL, "", "", noDelay)
	require.False(t, device.LoadDeviceInformation(context.Background()))
	require.Equal(t, "501", device.ErrorCode())

	healthy, err := simulator.Lookup("dryer")
	require.NoError(t, err)
	sim.SetScenario(healthy)

	require.True(t, device.LoadDeviceInformation(context.Background()))
	assert.Empty(t, device.ErrorCode())
	assert.Empty(t, device.ErrorMessage())
}

func TestAuth_NoCredentials(t *testing.T) {
	server, _ := startScenario(t, "washing-machine", simulator.WithDigestAuth("admin", "test-password"))

	device := NewBasicDevice(server.URL, "", "", noDelay)
	assert.False(t, device.LoadDeviceInformation(context.Background()))
	assert.True(t, device.IsAuthProblem())
	assert.Equal(t, "n/a", device.ErrorCode())
}

func TestAuth_InvalidCredentials(t *testing.T) {
	server, sim := startScenario(t, "washing-machine", simulator.WithDigestAuth("admin", "test-password"))

	device := NewBasicDevice(server.URL, "admin", "wrong-pw", noDelay)
	assert.False(t, device.LoadDeviceInformation(context.Background()))
	assert.True(t, device.IsAuthProblem())
	assert.Zero(t, sim.Hits(deviceapi.CommandGetStatus), "handler must not be reached")
}

func TestAuth_ValidCredentials(t *testing.T) {
	server, _ := startScenario(t, "washing-machine", simulator.WithDigestAuth("admin", "test-password"))

	device := NewBasicDevice(server.URL, "admin", "test-password", noDelay)
	require.True(t, device.LoadDeviceInformation(context.Background()))
	assert.NoError(t, device.Err())
	assert.Equal(t, "TestDevice", device.DeviceName())
	assert.Equal(t, TypeWashingMachine, device.DeviceType())

	// three calls on one session
	assert.Equal(t, uint32(3), device.Client().Session().NonceCount)
}
