// Package discovery finds V-ZUG appliances on the local network with mDNS.
//
// Appliances with a network module advertise an "_http._tcp" service. The
// scanner browses for that service type and keeps the answers whose instance
// name, hostname or TXT record mentions V-ZUG:
//
//	appliances, err := discovery.Scan(ctx, 5*time.Second)
//	for _, a := range appliances {
//	    fmt.Println(a.Instance, a.Host())
//	}
//
// Host returns the form the appliance client accepts. Discovery only locates
// appliances; type, serial and model come from loading the device itself.
//
// # Network Requirements
//
// - Requires multicast support on the network interface
// - Appliances must be on the same local network segment
// - Firewall must allow mDNS (UDP port 5353)
package discovery
