package deviceapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/muurk/vzug/internal/digest"
	"github.com/muurk/vzug/internal/logging"
	"github.com/muurk/vzug/internal/version"
	"go.uber.org/zap"
)

const (
	// DefaultTimeout is the default HTTP request timeout
	DefaultTimeout = 10 * time.Second

	// AcceptHeader is sent with every request
	AcceptHeader = "application/json, text/plain, */*"
)

// Client talks to a single appliance. It is not safe for concurrent use: the
// digest session is read and replaced on every call.
type Client struct {
	// Host as given by the caller, e.g. "192.168.0.202" or "http://host:8080"
	Host string

	// BaseURL is the scheme and host every request is built from
	BaseURL string

	// Username and Password for digest auth; both empty disables auth
	Username string
	Password string

	// HTTPClient is the underlying HTTP client
	HTTPClient *http.Client

	// Retry applies to JSON calls only
	Retry RetryPolicy

	session digest.Session
}

// NewClient creates a client for the appliance at host.
func NewClient(host, username, password string) *Client {
	return &Client{
		Host:       host,
		BaseURL:    BaseURL(host),
		Username:   username,
		Password:   password,
		HTTPClient: &http.Client{Timeout: DefaultTimeout},
		Retry:      DefaultRetryPolicy(),
	}
}

// BaseURL turns a host into "http://host". An explicit http:// prefix and a
// trailing slash are dropped; a port is kept.
func BaseURL(host string) string {
	h := strings.TrimSpace(host)
	h = strings.TrimPrefix(h, "http://")
	h = strings.TrimRight(h, "/")
	return "http://" + h
}

// SetTimeout sets the HTTP request timeout
func (c *Client) SetTimeout(timeout time.Duration) {
	c.HTTPClient.Timeout = timeout
}

// SetAuth sets digest credentials and drops the current auth session
func (c *Client) SetAuth(username, password string) {
	c.Username = username
	c.Password = password
	c.session = digest.Session{}
}

// SetRetry configures retry behavior for JSON calls
func (c *Client) SetRetry(maxAttempts int, delay time.Duration) {
	c.Retry.MaxAttempts = maxAttempts
	c.Retry.Delay = delay
}

// Session returns the digest session carried between calls.
func (c *Client) Session() digest.Session {
	return c.session
}

// URL builds the request URL for a call.
func (c *Client) URL(call Call) string {
	q := url.Values{}
	q.Set(QueryCommand, call.Command)
	if call.Value != "" {
		q.Set(QueryValue, call.Value)
	}
	return c.BaseURL + "/" + call.Endpoint + "?" + q.Encode()
}

// CallRaw issues the GET request for call and returns the body verbatim.
// Transport failures and a final 401 are returned as *Error.
func (c *Client) CallRaw(ctx context.Context, call Call) (string, error) {
	target := c.URL(call)
	logging.LogDeviceCall(c.Host, target)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return "", NewTransportError(c.Host, "failed to create request", err)
	}
	req.Header.Set("User-Agent", version.UserAgent())
	req.Header.Set("Accept", AcceptHeader)

	auth := digest.NewAuthenticator(digest.Credentials{Username: c.Username, Password: c.Password}, c.HTTPClient)
	resp, sess, err := auth.Do(req, c.session)
	c.session = sess
	if err != nil {
		logging.Error("IO error while calling device API",
			zap.String("host", c.Host),
			zap.Error(err),
		)
		return "", NewTransportError(c.Host, "IO error while calling device API", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusUnauthorized {
		logging.Error("Authentication problem occurred while calling device API",
			zap.String("host", c.Host),
			zap.Bool("credentials", c.Username != ""),
		)
		return "", NewAuthError(c.Host, "Authentication problem occurred while calling device API")
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", NewTransportError(c.Host, "failed to read response body", err)
	}
	logging.LogDeviceResponse(c.Host, resp.StatusCode, body)

	return string(body), nil
}

// CallJSON performs the raw call and checks the body for a device error
// object. Device-reported and transport errors are retried according to c.Retry.
func (c *Client) CallJSON(ctx context.Context, call Call) (json.RawMessage, error) {
	var result json.RawMessage
	err := c.Retry.Do(ctx, func(attempt int) error {
		body, err := c.CallRaw(ctx, call)
		if err != nil {
			return err
		}
		result, err = checkJSON([]byte(body))
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// DecodeJSON performs CallJSON and unmarshals the result into v.
// A shape mismatch is a malformed response.
func (c *Client) DecodeJSON(ctx context.Context, call Call, v any) error {
	raw, err := c.CallJSON(ctx, call)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, v); err != nil {
		logging.Error("Unexpected response shape",
			zap.String("command", call.Command),
			zap.Error(err),
		)
		return NewMalformedError("Got invalid response from device", err)
	}
	return nil
}

type errorEnvelope struct {
	Error *struct {
		Code json.RawMessage `json:"code"`
	} `json:"error"`
}

// checkJSON validates body and extracts a device error if present.
func checkJSON(body []byte) (json.RawMessage, error) {
	trimmed := bytes.TrimSpace(body)
	if !json.Valid(trimmed) {
		var v any
		err := json.Unmarshal(trimmed, &v)
		logging.Error("Got invalid response from device", zap.Error(err))
		return nil, NewMalformedError("Got invalid response from device", err)
	}

	if len(trimmed) > 0 && trimmed[0] == '{' {
		var env errorEnvelope
		if err := json.Unmarshal(trimmed, &env); err != nil {
			// "error" present but not an object
			return nil, NewMalformedError("Got invalid error object from device", err)
		}
		if env.Error != nil {
			code, err := errorCode(env.Error.Code)
			if err != nil {
				return nil, NewMalformedError("Got invalid error object from device", err)
			}
			logging.Error("Device returned error code", zap.String("code", code))
			return nil, NewDeviceCodeError(code)
		}
	}

	return json.RawMessage(trimmed), nil
}

// errorCode accepts both "501" and 501.
func errorCode(raw json.RawMessage) (string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", fmt.Errorf("error object without code")
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		if i, err := strconv.ParseInt(n.String(), 10, 64); err == nil {
			return strconv.FormatInt(i, 10), nil
		}
		return n.String(), nil
	}
	return "", fmt.Errorf("unsupported error code %s", string(raw))
}
