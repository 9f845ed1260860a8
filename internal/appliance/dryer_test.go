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

func TestDryer_AllInformation(t *testing.T) {
	server, _ := startScenario(t, "dryer")

	device := NewDryer(server.URL, "", "", noDelay)
	require.True(t, device.LoadAllInformation(context.Background()))

	assert.Equal(t, "TestDevice", device.DeviceName())
	assert.Equal(t, "AdoraDry V4000", device.ModelDesc())
	assert.Equal(t, TypeDryer, device.DeviceType())

	assert.Equal(t, ProgramActive, device.Program().Status)
	assert.Equal(t, "Extra dry", device.Program().Name)

	assert.Equal(t, 119.0, device.Consumption().EnergyTotalKWh)
	assert.Equal(t, 0.7, device.Consumption().EnergyAvgKWh)
	assert.False(t, device.Consumption().HasWater)
}

func TestDryer_ProgramActive(t *testing.T) {
	server, _ := startScenario(t, "dryer")

	device := NewDryer(server.URL, "", "", noDelay)
	require.True(t, device.LoadProgramDetails(context.Background()))

	assert.Equal(t, "Extra dry", device.Program().Name)
	assert.Equal(t, int64(3660), device.Program().SecondsToEnd)

	now := time.Now()
	assert.Equal(t, 3660*time.Second, device.Program().EndTime(now).Sub(now))
}

func TestDryer_ProgramIdle(t *testing.T) {
	server, _ := startScenario(t, "dryer-idle")

	device := NewDryer(server.URL, "", "", noDelay)
	assert.False(t, device.LoadProgramDetails(context.Background()))
	assert.NoError(t, device.Err())
	assert.Equal(t, ProgramIdle, device.Program().Status)
	assert.Empty(t, device.Program().Name)
	assert.Zero(t, device.Program().SecondsToEnd)
}

func TestDryer_AllInformationActiveButProgramIdle(t *testing.T) {
	s, err := simulator.Lookup("dryer")
	require.NoError(t, err)
	s.Program = simulator.Fixture("dryer_program_idle")
	server, _ := startCustom(t, s)

	device := NewDryer(server.URL, "", "", noDelay)
	assert.False(t, device.LoadAllInformation(context.Background()))
	assert.True(t, device.IsActive())
	assert.NoError(t, device.Err())
	assert.Equal(t, ProgramIdle, device.Program().Status)
	assert.Equal(t, 119.0, device.Consumption().EnergyTotalKWh)
}

func TestDryer_AllInformationInactiveSkipsProgram(t *testing.T) {
	server, sim := startScenario(t, "dryer-idle")

	device := NewDryer(server.URL, "", "", noDelay)
	require.True(t, device.LoadAllInformation(context.Background()))
	assert.False(t, device.IsActive())
	assert.Zero(t, sim.Hits(deviceapi.CommandGetProgram))
}

func TestDryer_ConsumptionResetBetweenLoads(t *testing.T) {
	server, sim := startScenario(t, "dryer")

	device := NewDryer(server.URL, "", "", noDelay)
	require.True(t, device.LoadConsumptionData(context.Background()))
	require.Equal(t, 0.7, device.Consumption().EnergyAvgKWh)

	noAverage, err := simulator.Lookup("dryer")
	require.NoError(t, err)
	delete(noAverage.Values, deviceapi.ValueDryerConsumptionAvg)
	sim.SetScenario(noAverage)

	assert.False(t, device.LoadConsumptionData(context.Background()))
	assert.Equal(t, 119.0, device.Consumption().EnergyTotalKWh)
	assert.Zero(t, device.Consumption().EnergyAvgKWh)
}

func TestDryer_ProgramUnreachable(t *testing.T) {
	device := NewDryer(closedServerURL(t), "", "", noDelay)

	assert.False(t, device.LoadProgramDetails(context.Background()))
	assert.Equal(t, "n/a", device.ErrorCode())
	assert.True(t, deviceapi.IsTransportError(device.Err()))
}

func TestDryer_Consumption(t *testing.T) {
	server, _ := startScenario(t, "dryer")

	device := NewDryer(server.URL, "", "", noDelay)
	require.True(t, device.LoadConsumptionData(context.Background()))
	assert.Equal(t, 119.0, device.Consumption().EnergyTotalKWh)
	assert.Equal(t, 0.7, device.Consumption().EnergyAvgKWh)
}

func TestDryer_ConsumptionWrongData(t *testing.T) {
	server, _ := startCustom(t, &simulator.Scenario{
		Values: map[string]string{
			deviceapi.ValueDryerConsumptionTotal: "wrong data",
			deviceapi.ValueDryerConsumptionAvg:   "wrong data",
		},
	})

	device := NewDryer(server.URL, "", "", noDelay)
	assert.False(t, device.LoadConsumptionData(context.Background()))
	assert.Equal(t, "n/a", device.ErrorCode())
	assert.NotEmpty(t, device.ErrorMessage())
	assert.Error(t, device.Err())
}

func TestDryer_ConsumptionPartialFailure(t *testing.T) {
	server, _ := startCustom(t, &simulator.Scenario{
		Values: map[string]string{
			deviceapi.ValueDryerConsumptionTotal: simulator.Fixture("dryer_consumption_total"),
			deviceapi.ValueDryerConsumptionAvg:   `{"value":"n/a"}`,
		},
	})

	device := NewDryer(server.URL, "", "", noDelay)
	assert.False(t, device.LoadConsumptionData(context.Background()))
	assert.True(t, deviceapi.IsMalformedError(device.Err()))
	assert.Equal(t, 119.0, device.Consumption().EnergyTotalKWh)
	assert.Zero(t, device.Consumption().EnergyAvgKWh)
}

func TestDryer_AllInformationStopsAtConsumption(t *testing.T) {
	s, err := simulator.Lookup("dryer")
	require.NoError(t, err)
	s.Values = nil
	server, sim := startCustom(t, s)

	device := NewDryer(server.URL, "", "", noDelay)
	assert.False(t, device.LoadAllInformation(context.Background()))
	assert.Zero(t, sim.Hits(deviceapi.CommandGetProgram))
}
