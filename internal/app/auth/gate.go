// Package auth implements the static shared-secret gate protecting the API.
package auth

import "crypto/subtle"

// Gate authorizes requests by comparing a presented credential against a
// single configured secret. There are no identities or scopes; a request
// either carries the secret or it does not.
type Gate struct {
	secret string
}

// NewGate creates a gate around the configured secret.
func NewGate(secret string) *Gate {
	return &Gate{secret: secret}
}

// Authorize reports whether the credential matches the secret. An empty
// configured secret authorizes nothing rather than everything.
func (g *Gate) Authorize(credential string) bool {
	if g.secret == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(credential), []byte(g.secret)) == 1
}
