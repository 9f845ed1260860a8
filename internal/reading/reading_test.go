package reading

import (
	"testing"

	"github.com/muurk/vzug/internal/deviceapi"
)

func TestReadKWh(t *testing.T) {
	tests := []struct {
		input string
		want  float64
	}{
		{"119.0 kWh", 119.0},
		{"0.7 kWh", 0.7},
		{"0,7 kWh", 0.7},
		{"Total: 1'234 29kWh", 29},
		{"Energie total\n12,5 kWh\nWasser 2119 ℓ", 12.5},
		{"Average per cycle: 0.6 kWh / 37 ℓ", 0.6},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ReadKWh(tt.input)
			if err != nil {
				t.Fatalf("ReadKWh() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("ReadKWh() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestReadLiters(t *testing.T) {
	tests := []struct {
		input string
		want  float64
	}{
		{"2119 ℓ", 2119},
		{"Total: 29 kWh / 2119 ℓ", 2119},
		{"37,5ℓ", 37.5},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ReadLiters(tt.input)
			if err != nil {
				t.Fatalf("ReadLiters() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("ReadLiters() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRead_NoMarker(t *testing.T) {
	for _, input := range []string{"", "119.0", "119.0 Wh", "kWh"} {
		if _, err := ReadKWh(input); !deviceapi.IsMalformedError(err) {
			t.Errorf("ReadKWh(%q) error = %v, want malformed", input, err)
		}
	}

	_, err := ReadLiters("29 kWh")
	e, ok := deviceapi.AsError(err)
	if !ok {
		t.Fatalf("ReadLiters() error = %v, want *deviceapi.Error", err)
	}
	if e.Code != deviceapi.CodeNotAvailable {
		t.Errorf("Code = %s, want n/a", e.Code)
	}
}

func TestParseFlag(t *testing.T) {
	for _, s := range []string{"y", "YES", "t", "True", "on", "1"} {
		if got, err := ParseFlag(s); err != nil || !got {
			t.Errorf("ParseFlag(%q) = %v, %v; want true", s, got, err)
		}
	}
	for _, s := range []string{"n", "no", "F", "false", "OFF", "0"} {
		if got, err := ParseFlag(s); err != nil || got {
			t.Errorf("ParseFlag(%q) = %v, %v; want false", s, got, err)
		}
	}
	if _, err := ParseFlag("maybe"); err == nil {
		t.Error("ParseFlag(maybe) should fail")
	}
}

func TestParseInactive(t *testing.T) {
	active, err := ParseInactive("false")
	if err != nil || !active {
		t.Errorf("ParseInactive(false) = %v, %v; want true", active, err)
	}

	active, err = ParseInactive("true")
	if err != nil || active {
		t.Errorf("ParseInactive(true) = %v, %v; want false", active, err)
	}
}
