package discovery

import (
	"fmt"
	"net"
	"strconv"
	"time"
)

// Appliance is a V-ZUG appliance found on the network
type Appliance struct {
	// Instance is the advertised service instance name (e.g., "V-ZUG AdoraDish V4000")
	Instance string

	// Hostname is the mDNS hostname (e.g., "vzug-dishwasher.local.")
	Hostname string

	// IP is the address, IPv4 when the appliance announces one
	IP string

	// Port is the HTTP port (typically 80)
	Port int

	// Metadata holds the TXT record key/value pairs
	Metadata map[string]string

	DiscoveredAt time.Time
}

// String returns a human-readable string representation of the appliance
func (a *Appliance) String() string {
	return fmt.Sprintf("%s (%s) at %s", a.Instance, a.Hostname, a.Host())
}

// Host returns the address to pass to the appliance client. Port 80 is omitted.
func (a *Appliance) Host() string {
	if a.Port == DefaultPort {
		if net.ParseIP(a.IP).To4() == nil {
			return "[" + a.IP + "]"
		}
		return a.IP
	}
	return net.JoinHostPort(a.IP, strconv.Itoa(a.Port))
}

// GetMetadata retrieves a TXT value by key, or the empty string
func (a *Appliance) GetMetadata(key string) string {
	if a.Metadata == nil {
		return ""
	}
	return a.Metadata[key]
}
