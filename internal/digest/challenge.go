package digest

import (
	"errors"
	"fmt"
	"net/http"

	httpdigest "github.com/icholy/digest"
)

// ErrNoChallenge is returned when a response carries no Digest challenge.
var ErrNoChallenge = errors.New("no digest challenge in WWW-Authenticate header")

// Challenge is the realm/nonce/opaque/qop/algorithm tuple issued by a server.
type Challenge = httpdigest.Challenge

// ParseChallenge parses the value of a WWW-Authenticate header.
func ParseChallenge(header string) (*Challenge, error) {
	c, err := httpdigest.ParseChallenge(header)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoChallenge, err)
	}
	return usable(c)
}

// FindChallenge returns the first Digest challenge among the
// WWW-Authenticate headers of h. Servers may announce several schemes.
func FindChallenge(h http.Header) (*Challenge, error) {
	c, err := httpdigest.FindChallenge(h)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoChallenge, err)
	}
	return usable(c)
}

// usable rejects challenges the handshake cannot answer: requests carry no
// body, so only qop "auth" (or no qop) works.
func usable(c *Challenge) (*Challenge, error) {
	if c.Nonce == "" {
		return nil, fmt.Errorf("digest challenge without nonce")
	}
	if len(c.QOP) > 0 && !c.SupportsQOP("auth") {
		return nil, fmt.Errorf("unsupported qop %q", c.QOP)
	}
	if c.Algorithm == "" {
		c.Algorithm = "MD5"
	}
	return c, nil
}
