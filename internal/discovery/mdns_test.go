package discovery

import (
	"net"
	"testing"
	"time"

	"github.com/grandcat/zeroconf"
)

func TestParseServiceEntry(t *testing.T) {
	tests := []struct {
		name     string
		entry    *zeroconf.ServiceEntry
		wantNil  bool
		wantIP   string
		wantPort int
		wantHost string
	}{
		{
			name: "instance name with vendor",
			entry: &zeroconf.ServiceEntry{
				ServiceRecord: zeroconf.ServiceRecord{Instance: "V-ZUG AdoraDish V4000"},
				HostName:      "adoradish.local.",
				Port:          80,
				AddrIPv4:      []net.IP{net.ParseIP("192.168.1.20")},
			},
			wantIP:   "192.168.1.20",
			wantPort: 80,
			wantHost: "192.168.1.20",
		},
		{
			name: "hostname with vendor and custom port",
			entry: &zeroconf.ServiceEntry{
				ServiceRecord: zeroconf.ServiceRecord{Instance: "Laundry"},
				HostName:      "vzug-wa-1234.local.",
				Port:          8080,
				AddrIPv4:      []net.IP{net.ParseIP("10.0.0.5")},
			},
			wantIP:   "10.0.0.5",
			wantPort: 8080,
			wantHost: "10.0.0.5:8080",
		},
		{
			name: "TXT record with vendor and no port",
			entry: &zeroconf.ServiceEntry{
				ServiceRecord: zeroconf.ServiceRecord{Instance: "Kitchen"},
				HostName:      "kitchen.local.",
				AddrIPv4:      []net.IP{net.ParseIP("172.16.0.1")},
				Text:          []string{"manufacturer=V-ZUG AG"},
			},
			wantIP:   "172.16.0.1",
			wantPort: 80,
			wantHost: "172.16.0.1",
		},
		{
			name: "IPv6 only",
			entry: &zeroconf.ServiceEntry{
				ServiceRecord: zeroconf.ServiceRecord{Instance: "vzug dryer"},
				Port:          80,
				AddrIPv6:      []net.IP{net.ParseIP("fe80::1")},
			},
			wantIP:   "fe80::1",
			wantPort: 80,
			wantHost: "[fe80::1]",
		},
		{
			name: "prefers IPv4",
			entry: &zeroconf.ServiceEntry{
				ServiceRecord: zeroconf.ServiceRecord{Instance: "V-ZUG"},
				Port:          80,
				AddrIPv4:      []net.IP{net.ParseIP("192.168.1.50")},
				AddrIPv6:      []net.IP{net.ParseIP("fe80::2")},
			},
			wantIP:   "192.168.1.50",
			wantPort: 80,
			wantHost: "192.168.1.50",
		},
		{
			name: "other vendor",
			entry: &zeroconf.ServiceEntry{
				ServiceRecord: zeroconf.ServiceRecord{Instance: "Printer"},
				HostName:      "printer.local.",
				AddrIPv4:      []net.IP{net.ParseIP("192.168.1.1")},
			},
			wantNil: true,
		},
		{
			name: "no address",
			entry: &zeroconf.ServiceEntry{
				ServiceRecord: zeroconf.ServiceRecord{Instance: "V-ZUG"},
			},
			wantNil: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := parseServiceEntry(tt.entry)

			if tt.wantNil {
				if a != nil {
					t.Errorf("parseServiceEntry() = %v, want nil", a)
				}
				return
			}
			if a == nil {
				t.Fatal("parseServiceEntry() = nil, want appliance")
			}
			if a.IP != tt.wantIP {
				t.Errorf("IP = %v, want %v", a.IP, tt.wantIP)
			}
			if a.Port != tt.wantPort {
				t.Errorf("Port = %v, want %v", a.Port, tt.wantPort)
			}
			if a.Host() != tt.wantHost {
				t.Errorf("Host() = %v, want %v", a.Host(), tt.wantHost)
			}
			if time.Since(a.DiscoveredAt) > time.Second {
				t.Errorf("DiscoveredAt is not recent: %v", a.DiscoveredAt)
			}
		})
	}
}

func TestParseServiceEntry_Metadata(t *testing.T) {
	entry := &zeroconf.ServiceEntry{
		ServiceRecord: zeroconf.ServiceRecord{Instance: "V-ZUG AdoraWash"},
		Port:          80,
		AddrIPv4:      []net.IP{net.ParseIP("192.168.4.16")},
		Text:          []string{"path=/", "flag", "model=AdoraWash V4000"},
	}

	a := parseServiceEntry(entry)
	if a == nil {
		t.Fatal("parseServiceEntry() = nil, want appliance")
	}

	expected := map[string]string{
		"path":  "/",
		"flag":  "",
		"model": "AdoraWash V4000",
	}
	if len(a.Metadata) != len(expected) {
		t.Errorf("Metadata has %d entries, want %d", len(a.Metadata), len(expected))
	}
	for key, want := range expected {
		if got := a.GetMetadata(key); got != want {
			t.Errorf("GetMetadata(%q) = %q, want %q", key, got, want)
		}
	}
	if got := a.GetMetadata("missing"); got != "" {
		t.Errorf("GetMetadata(missing) = %q, want empty", got)
	}
}

func TestAppliance_NilMetadata(t *testing.T) {
	a := &Appliance{}
	if got := a.GetMetadata("anything"); got != "" {
		t.Errorf("GetMetadata() with nil map = %v, want empty string", got)
	}
}

func TestAppliance_String(t *testing.T) {
	a := &Appliance{
		Instance: "V-ZUG AdoraDish",
		Hostname: "adoradish.local.",
		IP:       "192.168.4.16",
		Port:     8080,
	}

	expected := "V-ZUG AdoraDish (adoradish.local.) at 192.168.4.16:8080"
	if a.String() != expected {
		t.Errorf("String() = %v, want %v", a.String(), expected)
	}
}

func TestNewScanner(t *testing.T) {
	scanner := NewScanner()
	if scanner.Timeout != DefaultScanTimeout {
		t.Errorf("scanner.Timeout = %v, want %v", scanner.Timeout, DefaultScanTimeout)
	}
}
