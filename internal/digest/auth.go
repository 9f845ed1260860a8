package digest

import (
	"io"
	"net/http"

	"github.com/muurk/vzug/internal/logging"
	"go.uber.org/zap"
)

// Doer is the subset of *http.Client used by the Authenticator.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Authenticator performs the two-phase digest handshake for body-less requests.
type Authenticator struct {
	Credentials Credentials
	Client      Doer

	// NewCNonce generates client nonces. Defaults to NewClientNonce.
	NewCNonce func() string
}

// NewAuthenticator creates an authenticator for the given credentials.
func NewAuthenticator(creds Credentials, client Doer) *Authenticator {
	if client == nil {
		client = http.DefaultClient
	}
	return &Authenticator{
		Credentials: creds,
		Client:      client,
		NewCNonce:   NewClientNonce,
	}
}

// Do issues req and answers a digest challenge if the server sends one.
//
// With empty credentials the request is sent as is. When sess already holds a
// challenge, the request is sent pre-authorized with the next nonce count; a
// 401 answer (stale or rotated nonce) restarts the handshake with a fresh
// challenge and a nonce count of 1. The request is re-issued at most once.
//
// The returned response may still be 401; interpreting that is up to the caller.
// The returned session replaces sess.
func (a *Authenticator) Do(req *http.Request, sess Session) (*http.Response, Session, error) {
	if a.Credentials.Empty() {
		resp, err := a.Client.Do(req)
		return resp, sess, err
	}

	if sess.Ready() {
		next, err := a.authorize(req, sess.Challenge, sess.NonceCount+1)
		if err != nil {
			return nil, sess, err
		}
		resp, err := a.Client.Do(next.req)
		if err != nil {
			return nil, sess, err
		}
		if resp.StatusCode != http.StatusUnauthorized {
			return resp, next.session, nil
		}
		// nonce rejected; fall through to a fresh handshake using this 401
		return a.answer(req, resp, sess)
	}

	resp, err := a.Client.Do(req.Clone(req.Context()))
	if err != nil {
		return nil, sess, err
	}
	if resp.StatusCode != http.StatusUnauthorized {
		return resp, sess, nil
	}
	return a.answer(req, resp, sess)
}

// answer parses the challenge carried by a 401 response and re-issues req once.
func (a *Authenticator) answer(req *http.Request, unauthorized *http.Response, sess Session) (*http.Response, Session, error) {
	challenge, err := FindChallenge(unauthorized.Header)
	if err != nil {
		// not a digest challenge; hand the 401 back to the caller
		logging.Debug("Unauthorized response without usable digest challenge",
			zap.String("url", req.URL.String()),
			zap.Error(err),
		)
		return unauthorized, sess, nil
	}
	drain(unauthorized)

	next, err := a.authorize(req, challenge, 1)
	if err != nil {
		return nil, sess, err
	}

	logging.Debug("Answering digest challenge",
		zap.String("realm", challenge.Realm),
		zap.String("algorithm", challenge.Algorithm),
		zap.Strings("qop", challenge.QOP),
	)

	resp, err := a.Client.Do(next.req)
	if err != nil {
		return nil, sess, err
	}
	return resp, next.session, nil
}

type authorized struct {
	req     *http.Request
	session Session
}

func (a *Authenticator) authorize(req *http.Request, c *Challenge, nc uint32) (authorized, error) {
	newCNonce := a.NewCNonce
	if newCNonce == nil {
		newCNonce = NewClientNonce
	}

	p := Params{
		Credentials: a.Credentials,
		Method:      req.Method,
		URI:         req.URL.RequestURI(),
		NonceCount:  nc,
		CNonce:      newCNonce(),
	}

	creds, err := Compute(c, p)
	if err != nil {
		return authorized{}, err
	}

	out := req.Clone(req.Context())
	out.Header.Set("Authorization", creds.String())

	return authorized{
		req: out,
		session: Session{
			Challenge:  c,
			NonceCount: nc,
			LastNonce:  c.Nonce,
			Response:   creds.Response,
		},
	}, nil
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}
