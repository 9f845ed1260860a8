package appliance

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/muurk/vzug/internal/simulator"
	"github.com/stretchr/testify/require"
)

// noDelay keeps retried device errors fast in tests.
var noDelay = WithRetryDelay(0)

func startScenario(t *testing.T, name string, opts ...simulator.Option) (*httptest.Server, *simulator.Simulator) {
	t.Helper()
	s, err := simulator.Lookup(name)
	require.NoError(t, err)
	return startCustom(t, s, opts...)
}

func startCustom(t *testing.T, s *simulator.Scenario, opts ...simulator.Option) (*httptest.Server, *simulator.Simulator) {
	t.Helper()
	sim := simulator.New(s, opts...)
	server := httptest.NewServer(sim.Handler())
	t.Cleanup(server.Close)
	return server, sim
}

// closedServerURL returns the address of a server that no longer accepts connections.
func closedServerURL(t *testing.T) string {
	t.Helper()
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()
	return url
}
