package digest

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	httpdigest "github.com/icholy/digest"
)

// Credentials identify the client to the appliance.
type Credentials struct {
	Username string
	Password string
}

// Empty reports whether no credentials were configured.
func (c Credentials) Empty() bool {
	return c.Username == "" && c.Password == ""
}

// Session is the handshake state threaded across calls on one device.
// It is read before a request and replaced wholesale afterwards.
type Session struct {
	Challenge  *Challenge
	NonceCount uint32
	LastNonce  string
	Response   string // last computed response digest
}

// Ready reports whether the session holds a challenge that can be answered
// without a fresh round trip.
func (s Session) Ready() bool {
	return s.Challenge != nil && s.Challenge.Nonce != ""
}

// Params are the inputs of a single digest computation.
type Params struct {
	Credentials
	Method     string
	URI        string
	NonceCount uint32
	CNonce     string
}

// Compute answers challenge c (RFC 7616 section 3.4). The returned
// credentials render the Authorization header through String.
func Compute(c *Challenge, p Params) (*httpdigest.Credentials, error) {
	creds, err := httpdigest.Digest(c, httpdigest.Options{
		Method:   p.Method,
		URI:      p.URI,
		Count:    int(p.NonceCount),
		Cnonce:   p.CNonce,
		Username: p.Username,
		Password: p.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("compute digest: %w", err)
	}
	return creds, nil
}

// NewClientNonce returns a random 16-byte hex client nonce.
func NewClientNonce() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		panic(fmt.Sprintf("digest: read random: %v", err))
	}
	return hex.EncodeToString(b)
}
