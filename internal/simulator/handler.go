package simulator

import (
	"net/http"
	"strings"
	"sync"

	"github.com/muurk/vzug/internal/deviceapi"
	"github.com/muurk/vzug/internal/digest"
	"github.com/muurk/vzug/internal/logging"
	"go.uber.org/zap"
)

// badRequestBody is what real appliances send for unknown commands.
// It is not valid JSON.
const badRequestBody = "{'error':'bad request'}"

// Simulator answers appliance requests from a Scenario.
type Simulator struct {
	scenario *Scenario
	verifier *digest.Verifier

	mu   sync.Mutex
	hits map[string]int
}

// Option configures a Simulator.
type Option func(*Simulator)

// WithDigestAuth protects every endpoint with digest auth.
func WithDigestAuth(username, password string) Option {
	return func(s *Simulator) {
		if username == "" {
			return
		}
		s.verifier = digest.NewVerifier("vzug", username, password)
	}
}

// New creates a simulator for scenario.
func New(scenario *Scenario, opts ...Option) *Simulator {
	s := &Simulator{
		scenario: scenario,
		hits:     make(map[string]int),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the HTTP handler, wrapped with digest auth when configured.
func (s *Simulator) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/"+deviceapi.EndpointDeviceInfo, s.serve)
	mux.HandleFunc("/"+deviceapi.EndpointCommand, s.serve)

	if s.verifier != nil {
		return s.verifier.Middleware(mux)
	}
	return mux
}

// SetScenario swaps the scenario served from the next request on.
func (s *Simulator) SetScenario(scenario *Scenario) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scenario = scenario
}

// Hits returns how often command was requested.
func (s *Simulator) Hits(command string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[command]
}

func (s *Simulator) serve(w http.ResponseWriter, r *http.Request) {
	logging.LogHTTPRequest(r.RemoteAddr, r.Method, r.URL.Path, r.URL.RawQuery)

	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	endpoint := strings.TrimPrefix(r.URL.Path, "/")
	command := r.URL.Query().Get(deviceapi.QueryCommand)
	value := r.URL.Query().Get(deviceapi.QueryValue)

	s.mu.Lock()
	s.hits[command]++
	scenario := s.scenario
	s.mu.Unlock()

	body, ok := scenario.Body(endpoint, command, value)
	if !ok {
		logging.Debug("Unknown simulator request",
			zap.String("endpoint", endpoint),
			zap.String("command", command),
			zap.String("value", value),
		)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(badRequestBody))
		return
	}

	if strings.HasPrefix(body, "{") || strings.HasPrefix(body, "[") {
		w.Header().Set("Content-Type", "application/json")
	} else {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
	}
	_, _ = w.Write([]byte(body))
}
