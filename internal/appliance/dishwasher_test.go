package appliance

import (
	"context"
	"testing"
	"time"

	"github.com/muurk/vzug/internal/deviceapi"
	"github.com/muurk/vzug/internal/simulator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDishwasher_AllInformation(t *testing.T) {
	server, _ := startScenario(t, "dishwasher")

	device := NewDishwasher(server.URL, "", "", noDelay)
	require.True(t, device.LoadAllInformation(context.Background()))

	assert.Equal(t, "TestDevice", device.DeviceName())
	assert.Equal(t, "123", device.Serial())
	assert.Equal(t, "AdoraDish V4000", device.ModelDesc())
	assert.True(t, device.IsActive())
	assert.Equal(t, TypeDishwasher, device.DeviceType())

	assert.Equal(t, ProgramActive, device.Program().Status)
	assert.Equal(t, "Éco", device.Program().Name)
}

func TestDishwasher_ProgramActive(t *testing.T) {
	server, _ := startScenario(t, "dishwasher")

	device := NewDishwasher(server.URL, "", "", noDelay)
	require.True(t, device.LoadProgramDetails(context.Background()))

	program := device.Program()
	assert.Equal(t, ProgramActive, program.Status)
	assert.Equal(t, "active", program.RawStatus)
	assert.Equal(t, "Éco", program.Name)
	assert.Equal(t, int64(21024), program.SecondsToEnd)
	assert.Zero(t, program.SecondsToStart)

	assert.Equal(t, Features{
		EnergySaving: true,
		OptiStart:    true,
		PartialLoad:  true,
		RinsePlus:    true,
		DryPlus:      true,
	}, device.Features())

	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, 21024*time.Second, program.EndTime(now).Sub(now))
}

func TestDishwasher_ProgramIdle(t *testing.T) {
	server, _ := startScenario(t, "dishwasher-idle")

	device := NewDishwasher(server.URL, "", "", noDelay)
	assert.False(t, device.LoadProgramDetails(context.Background()))
	assert.NoError(t, device.Err(), "idle is not an error")

	program := device.Program()
	assert.Equal(t, ProgramIdle, program.Status)
	assert.Empty(t, program.Name)
	assert.Zero(t, program.SecondsToEnd)
	assert.Zero(t, program.SecondsToStart)
	assert.Zero(t, program.Duration)
	assert.Equal(t, Features{}, device.Features())
}

func TestDishwasher_ProgramTimed(t *testing.T) {
	server, _ := startScenario(t, "dishwasher-timed")

	device := NewDishwasher(server.URL, "", "", noDelay)
	require.True(t, device.LoadAllInformation(context.Background()))

	program := device.Program()
	assert.True(t, device.IsActive())
	assert.Equal(t, ProgramTimed, program.Status)
	assert.Equal(t, "Éco", program.Name)
	assert.Equal(t, "Démarrage dans 1h52", device.Status())
	assert.Equal(t, int64(6796), program.SecondsToStart)
	assert.Equal(t, int64(22200), program.Duration)
	assert.Equal(t, int64(28996), program.SecondsToEnd)
	assert.Equal(t, program.SecondsToStart+program.Duration, program.SecondsToEnd)

	now := time.Now()
	assert.Equal(t, 6796*time.Second, program.StartTime(now).Sub(now))
	assert.Equal(t, 28996*time.Second, program.EndTime(now).Sub(now))
}

func TestDishwasher_ResetBetweenLoads(t *testing.T) {
	server, sim := startScenario(t, "dishwasher")

	device := NewDishwasher(server.URL, "", "", noDelay)
	require.True(t, device.LoadProgramDetails(context.Background()))

	idle, err := simulator.Lookup("dishwasher-idle")
	require.NoError(t, err)
	sim.SetScenario(idle)

	assert.False(t, device.LoadProgramDetails(context.Background()))
	assert.Empty(t, device.Program().Name)
	assert.False(t, device.Features().EnergySaving)
}

func TestDishwasher_AllInformationActiveButProgramIdle(t *testing.T) {
	s, err := simulator.Lookup("dishwasher")
	require.NoError(t, err)
	s.Program = simulator.Fixture("dishwasher_program_idle")
	server, _ := startCustom(t, s)

	device := NewDishwasher(server.URL, "", "", noDelay)
	assert.False(t, device.LoadAllInformation(context.Background()))
	assert.True(t, device.IsActive())
	assert.NoError(t, device.Err())
	assert.Equal(t, ProgramIdle, device.Program().Status)
}

func TestDishwasher_ProgramUnreachable(t *testing.T) {
	device := NewDishwasher(closedServerURL(t), "", "", noDelay)

	assert.False(t, device.LoadProgramDetails(context.Background()))
	assert.Equal(t, "n/a", device.ErrorCode())
	assert.True(t, deviceapi.IsTransportError(device.Err()))
}

func TestDishwasher_WrongData(t *testing.T) {
	server, _ := startCustom(t, &simulator.Scenario{
		Status:      simulator.Fixture("device_status_ok"),
		ModelDesc:   "AdoraDish V4000",
		MachineType: "wrong data",
		Program:     "wrong data",
	})

	device := NewDishwasher(server.URL, "", "", noDelay)
	assert.False(t, device.LoadAllInformation(context.Background()))
	assert.Equal(t, "n/a", device.ErrorCode())
	assert.NotEmpty(t, device.ErrorMessage())
	assert.Equal(t, TypeUnknown, device.DeviceType())
}

func TestDishwasher_MissingFlagStopsLoad(t *testing.T) {
	server, _ := startCustom(t, &simulator.Scenario{
		Program: `[{"status":"active","name":"Auto","duration":{"act":600},"energySaving":{"set":true}}]`,
	})

	device := NewDishwasher(server.URL, "", "", noDelay)
	assert.False(t, device.LoadProgramDetails(context.Background()))
	assert.True(t, deviceapi.IsMalformedError(device.Err()))

	// fields read before the missing one survive
	assert.Equal(t, "Auto", device.Program().Name)
	assert.True(t, device.Features().EnergySaving)
	assert.False(t, device.Features().DryPlus)
}

func TestDishwasher_InactiveSkipsProgram(t *testing.T) {
	server, sim := startScenario(t, "dishwasher-idle")

	device := NewDishwasher(server.URL, "", "", noDelay)
	require.True(t, device.LoadAllInformation(context.Background()))
	assert.False(t, device.IsActive())
	assert.Zero(t, sim.Hits(deviceapi.CommandGetProgram))
}
