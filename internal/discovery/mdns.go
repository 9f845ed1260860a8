package discovery

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/grandcat/zeroconf"
	"github.com/muurk/vzug/internal/logging"
	"go.uber.org/zap"
)

const (
	// ServiceType is the mDNS service type V-ZUG appliances advertise
	ServiceType = "_http._tcp"

	// ServiceDomain is the mDNS domain (typically "local.")
	ServiceDomain = "local."

	// DefaultScanTimeout is the default timeout for appliance discovery
	DefaultScanTimeout = 5 * time.Second

	// DefaultPort is the default HTTP port of the appliances
	DefaultPort = 80
)

// vendorMarkers identify V-ZUG appliances in instance names, hostnames and TXT values
var vendorMarkers = []string{"v-zug", "vzug"}

// Scanner handles mDNS appliance discovery
type Scanner struct {
	// Timeout is the maximum time to wait for answers
	Timeout time.Duration
}

// NewScanner creates a new mDNS scanner with default settings
func NewScanner() *Scanner {
	return &Scanner{
		Timeout: DefaultScanTimeout,
	}
}

// Scan browses the local network until the timeout or ctx expires and
// returns the V-ZUG appliances that answered, deduplicated by address.
func (s *Scanner) Scan(ctx context.Context) ([]*Appliance, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS resolver: %w", err)
	}

	var (
		mu    sync.Mutex
		found []*Appliance
		seen  = make(map[string]bool)
	)

	entries := make(chan *zeroconf.ServiceEntry)
	go func() {
		for entry := range entries {
			a := parseServiceEntry(entry)
			if a == nil {
				continue
			}
			mu.Lock()
			if !seen[a.Host()] {
				seen[a.Host()] = true
				found = append(found, a)
				logging.Debug("Discovered appliance",
					zap.String("instance", a.Instance),
					zap.String("host", a.Host()),
				)
			}
			mu.Unlock()
		}
	}()

	if err := resolver.Browse(ctx, ServiceType, ServiceDomain, entries); err != nil {
		return nil, fmt.Errorf("failed to browse for mDNS services: %w", err)
	}

	<-ctx.Done()

	mu.Lock()
	defer mu.Unlock()
	result := make([]*Appliance, len(found))
	copy(result, found)
	return result, nil
}

// parseServiceEntry converts a zeroconf service entry to an Appliance.
// Returns nil if the entry is not a V-ZUG appliance or has no address.
func parseServiceEntry(entry *zeroconf.ServiceEntry) *Appliance {
	metadata := make(map[string]string)
	for _, txt := range entry.Text {
		key, value, _ := strings.Cut(txt, "=")
		metadata[key] = value
	}

	if !isVZug(entry.Instance, entry.HostName, metadata) {
		return nil
	}

	var ip string
	if len(entry.AddrIPv4) > 0 {
		ip = entry.AddrIPv4[0].String()
	} else if len(entry.AddrIPv6) > 0 {
		ip = entry.AddrIPv6[0].String()
	}
	if ip == "" {
		return nil
	}

	port := entry.Port
	if port == 0 {
		port = DefaultPort
	}

	return &Appliance{
		Instance:     entry.Instance,
		Hostname:     entry.HostName,
		IP:           ip,
		Port:         port,
		Metadata:     metadata,
		DiscoveredAt: time.Now(),
	}
}

func isVZug(instance, hostname string, metadata map[string]string) bool {
	candidates := []string{instance, hostname}
	for _, v := range metadata {
		candidates = append(candidates, v)
	}
	for _, c := range candidates {
		c = strings.ToLower(c)
		for _, marker := range vendorMarkers {
			if strings.Contains(c, marker) {
				return true
			}
		}
	}
	return false
}

// Scan is a convenience function to scan with a custom timeout
func Scan(ctx context.Context, timeout time.Duration) ([]*Appliance, error) {
	scanner := NewScanner()
	if timeout > 0 {
		scanner.Timeout = timeout
	}
	return scanner.Scan(ctx)
}
