// Package digest implements HTTP Digest authentication (RFC 7616) for
// appliance web servers.
//
// Appliances with a configured password answer the first request with
// 401 and a WWW-Authenticate challenge. The Authenticator answers it and
// returns a Session that the caller keeps for the next request; reusing the
// session saves the extra round trip on every poll:
//
//	auth := digest.NewAuthenticator(digest.Credentials{Username: "admin", Password: pw}, httpClient)
//	resp, sess, err := auth.Do(req, sess)
//
// Nonce counts strictly increase within a session and restart at 1 whenever
// the server issues a new challenge.
//
// Challenge parsing and response computation come from github.com/icholy/digest;
// this package owns the session state and the retry-once flow. Only qop "auth"
// (or no qop) is answered since requests carry no body.
package digest
