package sitecms

import (
	"crypto/subtle"

	"github.com/kwarda-kaltara/sitecms/content"
)

// AuthGate compares submitted credentials against the locally stored
// credential record and keeps the authenticated flag. The record is
// stored in plaintext and never remote-synced; comparisons are
// constant time.
type AuthGate struct {
	local *LocalStore
}

// NewAuthGate wraps the local store's credential and flag keys.
func NewAuthGate(local *LocalStore) *AuthGate {
	return &AuthGate{local: local}
}

func (g *AuthGate) credentials() content.Credentials {
	creds, err := g.local.Credentials()
	if err != nil {
		return defaultCredentials
	}
	return creds
}

// Login checks the pair against the stored (or default) record and sets
// the authenticated flag on success.
func (g *AuthGate) Login(username, password string) bool {
	creds := g.credentials()
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(creds.Username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(creds.Password)) == 1
	if !userOK || !passOK {
		return false
	}
	if err := g.local.SetAuthenticated(true); err != nil {
		return false
	}
	return true
}

// Username returns the current stored username.
func (g *AuthGate) Username() string {
	return g.credentials().Username
}

// Logout clears the authenticated flag.
func (g *AuthGate) Logout() error {
	return g.local.SetAuthenticated(false)
}

// Authenticated reports the stored flag.
func (g *AuthGate) Authenticated() bool {
	return g.local.Authenticated()
}

// ChangeCredentials overwrites the stored record. Empty fields keep the
// current value.
func (g *AuthGate) ChangeCredentials(username, password string) error {
	creds := g.credentials()
	if username != "" {
		creds.Username = username
	}
	if password != "" {
		creds.Password = password
	}
	return g.local.SetCredentials(creds)
}
