package config

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/muurk/vzug/internal/appliance"
)

// Registry represents the entire user configuration file.
type Registry struct {
	Version     int                   `yaml:"version"`
	Appliances  map[string]*Appliance `yaml:"appliances,omitempty"` // Keyed by nickname
	Preferences *Preferences          `yaml:"preferences,omitempty"`
}

// Appliance is a known appliance. Passwords are never stored.
type Appliance struct {
	Host     string               `yaml:"host"`
	Username string               `yaml:"username,omitempty"`
	Type     appliance.DeviceType `yaml:"type,omitempty"`      // Expected type, unknown = detect
	Serial   string               `yaml:"serial,omitempty"`    // Last seen serial
	Model    string               `yaml:"model,omitempty"`     // Last seen model description
	LastSeen time.Time            `yaml:"last_seen,omitempty"` // Last successful load
}

// Preferences represents application-wide user preferences.
type Preferences struct {
	Locale           string `yaml:"locale,omitempty"`   // BCP 47 tag for number rendering, e.g. "de-CH"
	Format           string `yaml:"format,omitempty"`   // detailed, compact or json
	TimeoutSeconds   int    `yaml:"timeout_seconds"`    // HTTP request timeout
	RetryDelayMillis int    `yaml:"retry_delay_millis"` // Delay between retried calls
	DiscoverTimeout  int    `yaml:"discover_timeout"`   // mDNS discovery timeout in seconds
}

func defaultPreferences() *Preferences {
	return &Preferences{
		Locale:           "en",
		Format:           "detailed",
		TimeoutSeconds:   10,
		RetryDelayMillis: 2000,
		DiscoverTimeout:  5,
	}
}

// Timeout returns the request timeout as a duration
func (p *Preferences) Timeout() time.Duration {
	return time.Duration(p.TimeoutSeconds) * time.Second
}

// RetryDelay returns the retry delay as a duration
func (p *Preferences) RetryDelay() time.Duration {
	return time.Duration(p.RetryDelayMillis) * time.Millisecond
}

// NewRegistry creates a new Registry with default values.
func NewRegistry() *Registry {
	return &Registry{
		Version:     1,
		Appliances:  make(map[string]*Appliance),
		Preferences: defaultPreferences(),
	}
}

// GetAppliance retrieves an appliance by nickname.
// Returns nil if the nickname is not registered.
func (r *Registry) GetAppliance(nickname string) *Appliance {
	return r.Appliances[nickname]
}

// SetAppliance adds or replaces an appliance.
func (r *Registry) SetAppliance(nickname string, a *Appliance) error {
	nickname = strings.TrimSpace(nickname)
	if nickname == "" {
		return fmt.Errorf("nickname must not be empty")
	}
	if strings.TrimSpace(a.Host) == "" {
		return fmt.Errorf("host must not be empty")
	}
	if r.Appliances == nil {
		r.Appliances = make(map[string]*Appliance)
	}
	r.Appliances[nickname] = a
	return nil
}

// RemoveAppliance deletes an appliance. It reports whether it existed.
func (r *Registry) RemoveAppliance(nickname string) bool {
	if _, ok := r.Appliances[nickname]; !ok {
		return false
	}
	delete(r.Appliances, nickname)
	return true
}

// Nicknames returns the registered nicknames in sorted order.
func (r *Registry) Nicknames() []string {
	names := make([]string, 0, len(r.Appliances))
	for name := range r.Appliances {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve returns the appliance for a nickname, or an ad-hoc entry when the
// argument is not a registered nickname and is treated as a host.
func (r *Registry) Resolve(nameOrHost string) (*Appliance, bool) {
	if a, ok := r.Appliances[nameOrHost]; ok {
		return a, true
	}
	return &Appliance{Host: nameOrHost}, false
}

// UpdateLastSeen records what a successful load reported.
func (r *Registry) UpdateLastSeen(nickname string, serial, model string, typ appliance.DeviceType) {
	a := r.Appliances[nickname]
	if a == nil {
		return
	}
	a.Serial = serial
	a.Model = model
	if a.Type == appliance.TypeUnknown {
		a.Type = typ
	}
	a.LastSeen = time.Now()
}
