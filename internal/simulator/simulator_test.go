package simulator

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/muurk/vzug/internal/deviceapi"
)

func get(t *testing.T, url string) (int, string) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(body)
}

func TestFixturesAreValidJSON(t *testing.T) {
	entries, err := fixtures.ReadDir("fixtures")
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}
	for _, e := range entries {
		data, _ := fixtures.ReadFile("fixtures/" + e.Name())
		if !json.Valid(data) {
			t.Errorf("fixture %s is not valid JSON", e.Name())
		}
	}
}

func TestLookup(t *testing.T) {
	for _, name := range Names() {
		s, err := Lookup(name)
		if err != nil {
			t.Fatalf("Lookup(%s) error = %v", name, err)
		}
		if s.Status == "" {
			t.Errorf("scenario %s has no status body", name)
		}
	}

	if _, err := Lookup("toaster"); err == nil {
		t.Error("Lookup(toaster) should fail")
	}
}

func TestHandler_Routes(t *testing.T) {
	s, _ := Lookup("dryer")
	sim := New(s)
	server := httptest.NewServer(sim.Handler())
	defer server.Close()

	tests := []struct {
		path       string
		wantStatus int
		wantBody   string
	}{
		{"/ai?command=getModelDescription", http.StatusOK, "AdoraDry V4000"},
		{"/hh?command=getMachineType", http.StatusOK, deviceapi.MachineTypeDryer},
		{"/hh?command=getCommand&value=AverageXperXcycleXdrumDry", http.StatusOK, Fixture("dryer_consumption_avg")},
		{"/hh?command=getCommand&value=ecomXstatXtotal", http.StatusBadRequest, badRequestBody},
		{"/ai?command=reboot", http.StatusBadRequest, badRequestBody},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			status, body := get(t, server.URL+tt.path)
			if status != tt.wantStatus {
				t.Errorf("status = %d, want %d", status, tt.wantStatus)
			}
			if body != tt.wantBody {
				t.Errorf("body = %q, want %q", body, tt.wantBody)
			}
		})
	}

	if sim.Hits(deviceapi.CommandGetMachineType) != 1 {
		t.Errorf("Hits(getMachineType) = %d, want 1", sim.Hits(deviceapi.CommandGetMachineType))
	}
}

func TestHandler_DigestAuth(t *testing.T) {
	s, _ := Lookup("dishwasher")
	server := httptest.NewServer(New(s, WithDigestAuth("admin", "test-password")).Handler())
	defer server.Close()

	status, _ := get(t, server.URL+"/ai?command=getDeviceStatus")
	if status != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", status)
	}
}

func TestNewServer_UnknownScenario(t *testing.T) {
	if _, err := NewServer(&Config{Scenario: "toaster"}); err == nil {
		t.Error("NewServer() should reject unknown scenarios")
	}
}

func TestServer_StartAndShutdown(t *testing.T) {
	srv, err := NewServer(&Config{Host: "127.0.0.1", Port: 0, Scenario: "dryer-idle"})
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}
	if srv.Addr() != nil {
		t.Error("Addr() should be nil before Listen")
	}
	if err := srv.Listen(); err != nil {
		t.Fatalf("Listen() error = %v", err)
	}

	done := make(chan error, 1)
	go func() { done <- srv.Start() }()

	status, body := get(t, "http://"+srv.Addr().String()+"/hh?command=getMachineType")
	if status != http.StatusOK || body != deviceapi.MachineTypeDryer {
		t.Errorf("GET = %d %q", status, body)
	}

	if err := srv.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}
	if err := <-done; err != nil {
		t.Errorf("Start() returned %v after shutdown", err)
	}
}
