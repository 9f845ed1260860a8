package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/muurk/vzug/internal/appliance"
	"github.com/muurk/vzug/internal/config"
	"github.com/muurk/vzug/internal/logging"
	"github.com/muurk/vzug/internal/ui"
	"go.uber.org/zap"
)

// Appliance flags shared by every command that talks to one appliance
var (
	targetHost   string
	username     string
	password     string
	deviceType   string
	outputFormat string
	locale       string
	timeoutSec   int
)

func addApplianceFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&targetHost, "host", "", "Appliance host or registered nickname (required)")
	cmd.Flags().StringVarP(&username, "user", "u", "", "Digest auth username (default from config)")
	cmd.Flags().StringVar(&password, "password", "", "Digest auth password (default from VZUG_PASSWORD or prompt)")
	cmd.Flags().StringVar(&deviceType, "type", "", "Appliance type (washing_machine, dryer, dishwasher); detected when empty")
	cmd.Flags().IntVar(&timeoutSec, "timeout", 0, "Request timeout in seconds (default from config)")
	_ = cmd.MarkFlagRequired("host")
}

func addOutputFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&outputFormat, "format", "", "Output format (detailed, compact, json); default from config")
	cmd.Flags().StringVar(&locale, "locale", "", "Locale for numbers, e.g. de-CH (default from config)")
}

// target is an appliance resolved from the --host flag and the registry
type target struct {
	registry *config.Registry
	nickname string // empty for ad-hoc hosts
	entry    *config.Appliance
	password string
	typ      appliance.DeviceType
	opts     []appliance.Option
}

func resolveTarget() (*target, error) {
	registry, err := config.LoadRegistry()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	entry, known := registry.Resolve(targetHost)
	t := &target{registry: registry, entry: entry, typ: entry.Type}
	if known {
		t.nickname = targetHost
	}

	user := entry.Username
	if username != "" {
		user = username
	}
	t.entry = &config.Appliance{Host: entry.Host, Username: user, Type: entry.Type}

	t.password, err = config.ResolvePassword(user, password, config.StdinPasswordSource())
	if err != nil {
		return nil, err
	}

	if deviceType != "" {
		t.typ, err = appliance.ParseDeviceType(deviceType)
		if err != nil {
			return nil, err
		}
	}

	prefs := registry.Preferences
	timeout := prefs.Timeout()
	if timeoutSec > 0 {
		timeout = time.Duration(timeoutSec) * time.Second
	}
	t.opts = []appliance.Option{
		appliance.WithTimeout(timeout),
		appliance.WithRetryDelay(prefs.RetryDelay()),
	}
	return t, nil
}

// open returns the appliance model. With a known type nothing is loaded yet;
// otherwise the device information is loaded to detect the type.
func (t *target) open(ctx context.Context) (appliance.Device, error) {
	if t.typ != appliance.TypeUnknown {
		return appliance.New(t.typ, t.entry.Host, t.entry.Username, t.password, t.opts...), nil
	}
	device, err := appliance.Detect(ctx, t.entry.Host, t.entry.Username, t.password, t.opts...)
	if err == nil {
		t.remember(device)
	}
	return device, err
}

// remember stores what a registered appliance reported. Failures to save
// are logged only.
func (t *target) remember(device appliance.Device) {
	b := device.Basic()
	if t.nickname == "" || !b.DeviceInformationLoaded() {
		return
	}
	t.registry.UpdateLastSeen(t.nickname, b.Serial(), b.ModelDesc(), b.DeviceType())
	if err := t.registry.Save(); err != nil {
		logging.Warn("Failed to save config", zap.Error(err))
	}
}

// node names the appliance in MQTT topics.
func (t *target) node() string {
	if t.nickname != "" {
		return t.nickname
	}
	return t.entry.Host
}

func newRenderer(registry *config.Registry) (*ui.Renderer, error) {
	format := outputFormat
	if format == "" {
		format = registry.Preferences.Format
	}
	f, err := ui.ParseFormat(format)
	if err != nil {
		return nil, err
	}
	loc := locale
	if loc == "" {
		loc = registry.Preferences.Locale
	}
	return ui.NewRenderer(f, loc), nil
}

// fail prints err for the user and returns it as already reported.
func fail(r *ui.Renderer, title string, err error) error {
	fmt.Fprintln(os.Stderr, r.RenderError(title, err))
	return &reportedError{err: err}
}
