package mqttpub

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/muurk/vzug/internal/appliance"
	"github.com/muurk/vzug/internal/simulator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type message struct {
	topic   string
	payload string
	retain  bool
}

type fakeConn struct {
	mu       sync.Mutex
	messages []message
	fail     error
}

func (f *fakeConn) Publish(topic string, payload []byte, retain bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return f.fail
	}
	f.messages = append(f.messages, message{topic, string(payload), retain})
	return nil
}

func (f *fakeConn) Close() {}

func (f *fakeConn) sent() []message {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]message(nil), f.messages...)
}

func startDevice(t *testing.T, scenario string, typ appliance.DeviceType) appliance.Device {
	t.Helper()
	s, err := simulator.Lookup(scenario)
	require.NoError(t, err)
	server := httptest.NewServer(simulator.New(s).Handler())
	t.Cleanup(server.Close)
	return appliance.New(typ, server.URL, "", "", appliance.WithRetryDelay(0))
}

func TestTopics(t *testing.T) {
	tests := []struct {
		prefix, node string
		want         string
	}{
		{"", "laundry", "vzug/laundry/state"},
		{"home/", "Kitchen", "home/kitchen/state"},
		{"vzug", "http://192.168.1.20:8080", "vzug/192_168_1_20_8080/state"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Topics(tt.prefix, tt.node).State)
	}
	assert.Equal(t, "vzug/laundry/availability", Topics("", "laundry").Availability)
}

func TestPublisher_Poll(t *testing.T) {
	device := startDevice(t, "dryer", appliance.TypeDryer)
	conn := &fakeConn{}
	p := NewPublisher(conn, "", "laundry")

	require.NoError(t, p.Poll(context.Background(), device))

	msgs := conn.sent()
	require.Len(t, msgs, 2)
	assert.Equal(t, "vzug/laundry/state", msgs[0].topic)
	assert.True(t, msgs[0].retain)
	assert.Equal(t, message{"vzug/laundry/availability", "online", true}, msgs[1])

	var state map[string]any
	require.NoError(t, json.Unmarshal([]byte(msgs[0].payload), &state))
	assert.Equal(t, "dryer", state["type"])
	assert.Equal(t, true, state["active"])
	consumption := state["consumption"].(map[string]any)
	assert.Equal(t, 119.0, consumption["energy_total_kwh"])
}

func TestPublisher_PollFailure(t *testing.T) {
	device := startDevice(t, "device-error", appliance.TypeDishwasher)
	conn := &fakeConn{}
	p := NewPublisher(conn, "", "kitchen")

	require.NoError(t, p.Poll(context.Background(), device))

	msgs := conn.sent()
	require.Len(t, msgs, 2)
	assert.Contains(t, msgs[0].payload, `"code":"501"`)
	assert.Equal(t, "offline", msgs[1].payload)
}

func TestPublisher_PublishError(t *testing.T) {
	conn := &fakeConn{fail: errors.New("not connected")}
	p := NewPublisher(conn, "", "kitchen")

	err := p.Publish(appliance.Snapshot{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not connected")
}

func TestPublisher_RunStopsOnCancel(t *testing.T) {
	device := startDevice(t, "dishwasher", appliance.TypeDishwasher)
	conn := &fakeConn{}
	p := NewPublisher(conn, "", "kitchen")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx, device, 10*time.Millisecond) }()

	require.Eventually(t, func() bool { return len(conn.sent()) >= 4 }, 2*time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop")
	}

	msgs := conn.sent()
	assert.Equal(t, message{"vzug/kitchen/availability", "offline", true}, msgs[len(msgs)-1])
}
