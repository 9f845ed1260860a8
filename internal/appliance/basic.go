package appliance

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/muurk/vzug/internal/deviceapi"
	"github.com/muurk/vzug/internal/logging"
	"github.com/muurk/vzug/internal/reading"
	"go.uber.org/zap"
)

// Device is implemented by every appliance model.
type Device interface {
	LoadDeviceInformation(ctx context.Context) bool
	LoadAllInformation(ctx context.Context) bool
	Basic() *BasicDevice
}

// ProgramLoader is implemented by models with program details.
type ProgramLoader interface {
	LoadProgramDetails(ctx context.Context) bool
	Program() ProgramState
}

// ConsumptionLoader is implemented by models with metered consumption.
type ConsumptionLoader interface {
	LoadConsumptionData(ctx context.Context) bool
	Consumption() Consumption
}

// Option configures the underlying device client.
type Option func(*deviceapi.Client)

// WithTimeout sets the HTTP request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *deviceapi.Client) { c.SetTimeout(timeout) }
}

// WithRetryDelay sets the fixed delay between JSON-call attempts.
func WithRetryDelay(delay time.Duration) Option {
	return func(c *deviceapi.Client) { c.Retry.Delay = delay }
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *deviceapi.Client) { c.HTTPClient = hc }
}

// Identity is the device information returned by the status call and the two
// scalar calls that follow it.
type Identity struct {
	Serial          string
	DeviceName      string
	ModelDesc       string
	Status          string
	UUID            string
	Program         string
	Active          bool
	MachineTypeCode string
	Type            DeviceType
	// StatusJSON is the raw status payload
	StatusJSON json.RawMessage
}

// BasicDevice holds what every V-ZUG appliance reports. Calls on one device
// must not run concurrently.
type BasicDevice struct {
	client   *deviceapi.Client
	identity Identity
	loaded   bool
	lastErr  *deviceapi.Error
}

// NewBasicDevice creates a device for host. Empty credentials disable digest auth.
func NewBasicDevice(host, username, password string, opts ...Option) *BasicDevice {
	client := deviceapi.NewClient(host, username, password)
	for _, opt := range opts {
		opt(client)
	}
	return &BasicDevice{client: client}
}

// Basic returns the device itself.
func (d *BasicDevice) Basic() *BasicDevice { return d }

// Client returns the underlying call client.
func (d *BasicDevice) Client() *deviceapi.Client { return d.client }

// LoadAllInformation loads the device information. Models override it to
// chain their own loads.
func (d *BasicDevice) LoadAllInformation(ctx context.Context) bool {
	return d.LoadDeviceInformation(ctx)
}

type statusPayload struct {
	Serial     *string   `json:"Serial"`
	DeviceName *string   `json:"DeviceName"`
	Status     *string   `json:"Status"`
	UUID       *string   `json:"deviceUuid"`
	Program    *string   `json:"Program"`
	Inactive   *textFlag `json:"Inactive"`
}

// textFlag accepts "true"/"false" style strings as well as JSON booleans.
type textFlag bool

func (f *textFlag) UnmarshalJSON(data []byte) error {
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*f = textFlag(b)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	v, err := reading.ParseFlag(s)
	if err != nil {
		return err
	}
	*f = textFlag(v)
	return nil
}

// LoadDeviceInformation loads status, model description and machine type.
// The identity is replaced only when all three calls succeed. On failure the
// error is kept and false is returned.
func (d *BasicDevice) LoadDeviceInformation(ctx context.Context) bool {
	d.clearError()
	logging.Info("Loading device information", zap.String("host", d.client.Host))

	id, err := d.fetchIdentity(ctx)
	if err != nil {
		return d.fail(err)
	}

	d.identity = id
	d.loaded = true

	logging.Info("Got device information",
		zap.String("type", id.Type.String()),
		zap.String("model", id.ModelDesc),
		zap.String("serial", id.Serial),
		zap.String("uuid", id.UUID),
		zap.String("name", id.DeviceName),
		zap.String("status", id.Status),
	)
	return true
}

func (d *BasicDevice) fetchIdentity(ctx context.Context) (Identity, error) {
	raw, err := d.client.CallJSON(ctx, deviceapi.CallStatus)
	if err != nil {
		return Identity{}, err
	}

	var status statusPayload
	if err := json.Unmarshal(raw, &status); err != nil {
		return Identity{}, deviceapi.NewMalformedError("Got invalid status response from device", err)
	}

	id := Identity{StatusJSON: raw}
	fields := []struct {
		name string
		src  *string
		dst  *string
	}{
		{"Serial", status.Serial, &id.Serial},
		{"DeviceName", status.DeviceName, &id.DeviceName},
		{"Status", status.Status, &id.Status},
		{"deviceUuid", status.UUID, &id.UUID},
		{"Program", status.Program, &id.Program},
	}
	for _, f := range fields {
		if f.src == nil {
			return Identity{}, deviceapi.NewMalformedError("Missing field "+f.name+" in status response", nil)
		}
		*f.dst = *f.src
	}
	if status.Inactive == nil {
		return Identity{}, deviceapi.NewMalformedError("Missing field Inactive in status response", nil)
	}
	id.Active = !bool(*status.Inactive)

	if id.ModelDesc, err = d.client.CallRaw(ctx, deviceapi.CallModelDesc); err != nil {
		return Identity{}, err
	}
	if id.MachineTypeCode, err = d.client.CallRaw(ctx, deviceapi.CallMachineType); err != nil {
		return Identity{}, err
	}
	id.Type = TypeFromShortCode(id.MachineTypeCode)

	return id, nil
}

type valuePayload struct {
	Value *string `json:"value"`
}

// consumptionValue reads the text value of a metered-value command.
func (d *BasicDevice) consumptionValue(ctx context.Context, token string) (string, error) {
	var payload valuePayload
	if err := d.client.DecodeJSON(ctx, deviceapi.ValueCall(token), &payload); err != nil {
		return "", err
	}
	if payload.Value == nil {
		logging.Error("Error reading consumption data, no 'value' entry found in response",
			zap.String("command", token),
		)
		return "", deviceapi.NewMalformedError("Got invalid response while reading consumption data", nil)
	}
	return *payload.Value, nil
}

func (d *BasicDevice) clearError() {
	d.lastErr = nil
}

// fail records err as the device error and returns false.
func (d *BasicDevice) fail(err error) bool {
	e, ok := deviceapi.AsError(err)
	if !ok {
		e = deviceapi.NewMalformedError(err.Error(), err)
	}
	d.lastErr = e

	logging.Error("Device call failed",
		zap.String("host", d.client.Host),
		zap.String("kind", e.Kind.String()),
		zap.String("code", e.Code),
		zap.String("message", e.Message),
	)
	return false
}

// Host returns the host the device was created with
func (d *BasicDevice) Host() string { return d.client.Host }

// Identity returns a copy of the loaded device information
func (d *BasicDevice) Identity() Identity {
	id := d.identity
	id.StatusJSON = bytes.Clone(d.identity.StatusJSON)
	return id
}

// Serial returns the serial number
func (d *BasicDevice) Serial() string { return d.identity.Serial }

// DeviceName returns the user-assigned device name
func (d *BasicDevice) DeviceName() string { return d.identity.DeviceName }

// ModelDesc returns the model description, e.g. "AdoraWash V4000"
func (d *BasicDevice) ModelDesc() string { return strings.TrimSpace(d.identity.ModelDesc) }

// Status returns the free-text status line
func (d *BasicDevice) Status() string { return d.identity.Status }

// StatusJSON returns the raw status payload of the last successful load
func (d *BasicDevice) StatusJSON() json.RawMessage { return d.identity.StatusJSON }

// IsActive reports whether the status call flagged the appliance as active
func (d *BasicDevice) IsActive() bool { return d.identity.Active }

// ProgramName returns the program name from the status call
func (d *BasicDevice) ProgramName() string { return d.identity.Program }

// UUID returns the device UUID
func (d *BasicDevice) UUID() string { return d.identity.UUID }

// DeviceType returns the resolved appliance family
func (d *BasicDevice) DeviceType() DeviceType { return d.identity.Type }

// DeviceInformationLoaded reports whether LoadDeviceInformation ever succeeded
func (d *BasicDevice) DeviceInformationLoaded() bool { return d.loaded }

// ErrorCode returns the code of the last failed load, "" if it succeeded
func (d *BasicDevice) ErrorCode() string {
	if d.lastErr == nil {
		return ""
	}
	return d.lastErr.Code
}

// ErrorMessage returns the message of the last failed load
func (d *BasicDevice) ErrorMessage() string {
	if d.lastErr == nil {
		return ""
	}
	return d.lastErr.Message
}

// Err returns the error of the last failed load, or nil
func (d *BasicDevice) Err() error {
	if d.lastErr == nil {
		return nil
	}
	return d.lastErr
}

// IsAuthProblem reports whether the last load failed because of credentials
func (d *BasicDevice) IsAuthProblem() bool {
	return d.lastErr != nil && d.lastErr.IsAuthProblem()
}
