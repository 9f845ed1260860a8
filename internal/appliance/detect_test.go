package appliance

import (
	"context"
	"testing"

	"github.com/muurk/vzug/internal/deviceapi"
	"github.com/muurk/vzug/internal/simulator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		scenario string
		check    func(t *testing.T, d Device)
	}{
		{"washing-machine", func(t *testing.T, d Device) {
			_, ok := d.(*WashingMachine)
			assert.True(t, ok, "got %T", d)
		}},
		{"dryer", func(t *testing.T, d Device) {
			_, ok := d.(*Dryer)
			assert.True(t, ok, "got %T", d)
		}},
		{"dishwasher-timed", func(t *testing.T, d Device) {
			_, ok := d.(*Dishwasher)
			assert.True(t, ok, "got %T", d)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.scenario, func(t *testing.T) {
			server, _ := startScenario(t, tt.scenario)

			d, err := Detect(context.Background(), server.URL, "", "", noDelay)
			require.NoError(t, err)
			tt.check(t, d)
			assert.True(t, d.Basic().DeviceInformationLoaded())
			assert.True(t, d.LoadAllInformation(context.Background()))
		})
	}
}

func TestDetect_UnknownType(t *testing.T) {
	server, _ := startCustom(t, &simulator.Scenario{
		Status:      simulator.Fixture("device_status_ok"),
		ModelDesc:   "Combair V6000",
		MachineType: "BO",
	})

	d, err := Detect(context.Background(), server.URL, "", "", noDelay)
	require.NoError(t, err)
	_, ok := d.(*BasicDevice)
	assert.True(t, ok, "got %T", d)
}

func TestDetect_Failure(t *testing.T) {
	d, err := Detect(context.Background(), closedServerURL(t), "", "", noDelay)
	require.Error(t, err)
	assert.True(t, deviceapi.IsTransportError(err))
	assert.Equal(t, "n/a", d.Basic().ErrorCode())
}

func TestNew(t *testing.T) {
	_, ok := New(TypeDryer, "10.0.0.5", "", "").(*Dryer)
	assert.True(t, ok)
	_, ok = New(TypeUnknown, "10.0.0.5", "", "").(*BasicDevice)
	assert.True(t, ok)
}
