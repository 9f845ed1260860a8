package digest

import (
	"crypto/subtle"
	"net/http"
	"sync"

	httpdigest "github.com/icholy/digest"
)

// Verifier is the server half of the handshake. The simulator uses it to
// protect its endpoints the way appliances with a configured password do.
type Verifier struct {
	Realm     string
	Algorithm string
	Users     map[string]string

	mu     sync.Mutex
	nonces map[string]uint32 // nonce -> highest nonce count seen
	opaque string
}

// NewVerifier creates a verifier for a single user.
func NewVerifier(realm, username, password string) *Verifier {
	return &Verifier{
		Realm:     realm,
		Algorithm: "MD5",
		Users:     map[string]string{username: password},
		nonces:    make(map[string]uint32),
		opaque:    NewClientNonce(),
	}
}

// Challenge issues a fresh nonce and returns the WWW-Authenticate header value.
func (v *Verifier) Challenge() string {
	nonce := NewClientNonce()

	v.mu.Lock()
	if v.nonces == nil {
		v.nonces = make(map[string]uint32)
	}
	v.nonces[nonce] = 0
	v.mu.Unlock()

	c := &Challenge{
		Realm:     v.Realm,
		Nonce:     nonce,
		Opaque:    v.opaque,
		QOP:       []string{"auth"},
		Algorithm: v.Algorithm,
	}
	return c.String()
}

// Check validates the Authorization header of r. Nonce counts must strictly
// increase per nonce; replays are rejected.
func (v *Verifier) Check(r *http.Request) bool {
	header := r.Header.Get("Authorization")
	if header == "" {
		return false
	}
	creds, err := httpdigest.ParseCredentials(header)
	if err != nil || creds.Nc <= 0 {
		return false
	}

	password, ok := v.Users[creds.Username]
	if !ok {
		return false
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	last, known := v.nonces[creds.Nonce]
	if !known || uint32(creds.Nc) <= last {
		return false
	}

	challenge := &Challenge{
		Realm:     v.Realm,
		Nonce:     creds.Nonce,
		Opaque:    creds.Opaque,
		Algorithm: v.Algorithm,
	}
	if creds.QOP != "" {
		challenge.QOP = []string{creds.QOP}
	}
	expected, err := Compute(challenge, Params{
		Credentials: Credentials{Username: creds.Username, Password: password},
		Method:      r.Method,
		URI:         creds.URI,
		NonceCount:  uint32(creds.Nc),
		CNonce:      creds.Cnonce,
	})
	if err != nil {
		return false
	}
	if subtle.ConstantTimeCompare([]byte(expected.Response), []byte(creds.Response)) != 1 {
		return false
	}

	v.nonces[creds.Nonce] = uint32(creds.Nc)
	return true
}

// Middleware rejects requests that fail Check with a 401 and a fresh challenge.
func (v *Verifier) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !v.Check(r) {
			w.Header().Set("WWW-Authenticate", v.Challenge())
			http.Error(w, "Unauthorized Access", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}
