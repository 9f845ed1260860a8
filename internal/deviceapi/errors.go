package deviceapi

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
	"syscall"
)

// CodeNotAvailable is the error code for failures that did not come from the
// appliance itself (transport, malformed response, authentication).
const CodeNotAvailable = "n/a"

// ErrorKind represents the category of error that occurred
type ErrorKind int

const (
	// KindTransport indicates the request never produced a response (refused, timeout, DNS)
	KindTransport ErrorKind = iota
	// KindMalformed indicates a response that could not be interpreted
	KindMalformed
	// KindDevice indicates an error object reported by the appliance
	KindDevice
	// KindAuth indicates missing or wrong credentials
	KindAuth
)

// NetworkSubtype provides more specific transport error classification
type NetworkSubtype int

const (
	NetworkGeneral NetworkSubtype = iota
	NetworkTimeout
	NetworkConnectionRefused
	NetworkDNS
	NetworkHostUnreachable
	NetworkUnreachable
)

// String returns a human-readable name for the error kind
func (k ErrorKind) String() string {
	switch k {
	case KindTransport:
		return "Transport Error"
	case KindMalformed:
		return "Malformed Response"
	case KindDevice:
		return "Device Error"
	case KindAuth:
		return "Authentication Error"
	default:
		return fmt.Sprintf("ErrorKind(%d)", k)
	}
}

// Label returns the lowercase short name used in metrics and JSON output.
func (k ErrorKind) Label() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindMalformed:
		return "malformed"
	case KindDevice:
		return "device"
	case KindAuth:
		return "auth"
	default:
		return "unknown"
	}
}

// Error is the single error type produced by appliance calls.
type Error struct {
	Kind           ErrorKind
	Code           string // device-supplied code, CodeNotAvailable otherwise
	Message        string
	Err            error // inner cause
	Host           string
	NetworkSubtype NetworkSubtype
	StatusCode     int
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s [%s]: %s (caused by: %v)", e.Kind, e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s [%s]: %s", e.Kind, e.Code, e.Message)
}

// Unwrap returns the inner cause for errors.Is / errors.As.
func (e *Error) Unwrap() error {
	return e.Err
}

// Retryable reports whether repeating the same request may succeed.
// Device-reported codes and transport failures qualify; malformed bodies
// and rejected credentials do not.
func (e *Error) Retryable() bool {
	return e.Kind == KindDevice || e.Kind == KindTransport
}

// IsAuthProblem reports whether the failure was caused by credentials.
func (e *Error) IsAuthProblem() bool {
	return e.Kind == KindAuth
}

// NewTransportError wraps a failure of the HTTP round trip.
func NewTransportError(host, message string, err error) *Error {
	e := &Error{
		Kind:    KindTransport,
		Code:    CodeNotAvailable,
		Message: message,
		Err:     err,
		Host:    host,
	}
	e.NetworkSubtype = classifyNetwork(err)
	return e
}

// NewMalformedError wraps a response that could not be interpreted.
func NewMalformedError(message string, err error) *Error {
	return &Error{
		Kind:    KindMalformed,
		Code:    CodeNotAvailable,
		Message: message,
		Err:     err,
	}
}

// NewDeviceCodeError reports an error object returned by the appliance.
func NewDeviceCodeError(code string) *Error {
	return &Error{
		Kind:    KindDevice,
		Code:    code,
		Message: "Device returned error code",
	}
}

// NewAuthError reports a request that stayed unauthorized.
func NewAuthError(host, message string) *Error {
	return &Error{
		Kind:       KindAuth,
		Code:       CodeNotAvailable,
		Message:    message,
		Host:       host,
		StatusCode: 401,
	}
}

func classifyNetwork(err error) NetworkSubtype {
	if err == nil {
		return NetworkGeneral
	}

	if os.IsTimeout(err) {
		return NetworkTimeout
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return NetworkDNS
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		switch {
		case errors.Is(opErr.Err, syscall.ECONNREFUSED):
			return NetworkConnectionRefused
		case errors.Is(opErr.Err, syscall.EHOSTUNREACH):
			return NetworkHostUnreachable
		case errors.Is(opErr.Err, syscall.ENETUNREACH):
			return NetworkUnreachable
		}
	}

	return NetworkGeneral
}

// AsError extracts an *Error from an error chain.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

func kindOf(err error) (ErrorKind, bool) {
	if e, ok := AsError(err); ok {
		return e.Kind, true
	}
	return 0, false
}

// IsTransportError checks if an error is a transport error
func IsTransportError(err error) bool {
	k, ok := kindOf(err)
	return ok && k == KindTransport
}

// IsMalformedError checks if an error is a malformed-response error
func IsMalformedError(err error) bool {
	k, ok := kindOf(err)
	return ok && k == KindMalformed
}

// IsDeviceCodeError checks if an error was reported by the appliance
func IsDeviceCodeError(err error) bool {
	k, ok := kindOf(err)
	return ok && k == KindDevice
}

// IsAuthError checks if an error is an authentication error
func IsAuthError(err error) bool {
	k, ok := kindOf(err)
	return ok && k == KindAuth
}

// IsRetryable checks if an error should be retried
func IsRetryable(err error) bool {
	if e, ok := AsError(err); ok {
		return e.Retryable()
	}
	return false
}

// TroubleshootingHint returns user-friendly troubleshooting advice for an error
func TroubleshootingHint(err error) string {
	e, ok := AsError(err)
	if !ok {
		return "An unexpected error occurred. Please try again."
	}

	switch e.Kind {
	case KindAuth:
		return strings.Join([]string{
			"Authentication failed.",
			"Troubleshooting:",
			"  • Check the username configured on the appliance",
			"  • Pass the password with --password or VZUG_PASSWORD",
			"  • Appliances without a password must be called without --user",
		}, "\n")

	case KindDevice:
		return strings.Join([]string{
			fmt.Sprintf("The appliance reported error code %s.", e.Code),
			"The appliance may be busy; the request was already retried.",
			"Troubleshooting:",
			"  • Wait a moment and try again",
			"  • Check that the appliance firmware supports this command",
		}, "\n")

	case KindMalformed:
		return strings.Join([]string{
			"Failed to interpret the appliance's response.",
			"This may indicate an unsupported appliance or firmware.",
			"Troubleshooting:",
			"  • Run with VZUG_LOG_LEVEL=debug to see the raw response",
			"  • Check that the host really is a V-ZUG appliance",
		}, "\n")

	case KindTransport:
		hint := []string{"Network communication with the appliance failed."}

		switch e.NetworkSubtype {
		case NetworkTimeout:
			hint = append(hint, "The appliance did not respond in time.",
				"Troubleshooting:",
				"  • Check that the appliance is powered on and connected",
				"  • Try increasing the timeout")
		case NetworkConnectionRefused:
			hint = append(hint, "The appliance refused the connection.",
				"Troubleshooting:",
				"  • Verify the host and port",
				"  • The appliance web server may be disabled in its network settings")
		case NetworkDNS:
			hint = append(hint, "Could not resolve the appliance hostname.",
				"Troubleshooting:",
				"  • Use the IP address instead of the hostname",
				"  • Try 'vzug scan' to find appliances on the local network")
		case NetworkHostUnreachable, NetworkUnreachable:
			hint = append(hint, "The appliance is not reachable on the network.",
				"Troubleshooting:",
				"  • Verify the appliance IP address is correct",
				"  • Check that you're on the same network as the appliance",
				"  • Try pinging the appliance: ping "+e.Host)
		default:
			hint = append(hint, "Troubleshooting:",
				"  • Check your network connection",
				"  • Verify the appliance is powered on")
		}

		return strings.Join(hint, "\n")

	default:
		return "An error occurred. Please check the error message for details."
	}
}

// ShortMessage returns a concise, user-friendly error message
func ShortMessage(err error) string {
	e, ok := AsError(err)
	if !ok {
		return err.Error()
	}

	switch e.Kind {
	case KindAuth:
		return "Authentication failed - check credentials"
	case KindDevice:
		return fmt.Sprintf("Appliance error (code %s)", e.Code)
	case KindMalformed:
		return "Failed to interpret appliance response"
	case KindTransport:
		switch e.NetworkSubtype {
		case NetworkTimeout:
			return "Appliance not responding (timeout)"
		case NetworkConnectionRefused:
			return "Appliance refused connection"
		case NetworkDNS:
			return "Cannot resolve appliance hostname"
		case NetworkHostUnreachable, NetworkUnreachable:
			return "Appliance unreachable - check network connection"
		default:
			return "Network error - check connection"
		}
	default:
		return e.Message
	}
}
