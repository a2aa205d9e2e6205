package sitecms

import (
	"log"
	"log/slog"
	"os"
)

// SiteConfig holds all configuration for a sitecms deployment.
//
// RemoteDSN and the S3 settings are optional: an empty RemoteDSN runs the
// site purely from the local store, and an empty S3Bucket disables cover
// uploads (the image pipeline degrades to preview mode).
type SiteConfig struct {
	Name        string // Site name (default "Kwarda Kaltara")
	URL         string // Canonical URL (default "http://localhost:3000")
	Description string // Site description for RSS and meta tags
	Author      string // Publisher name for JSON-LD

	Addr        string // Listen address (default ":3000")
	LocalDBPath string // SQLite path for the local store (default "data/cms.db")

	RemoteDSN string // PostgreSQL DSN for the remote document store; empty disables remote

	S3RootUser      string // Object storage credentials
	S3RootPassword  string
	S3Bucket        string // Empty disables uploads
	S3Region        string // default "us-east-1"
	S3BaseEndpoint  string // S3-compatible endpoint, e.g. http://127.0.0.1:9000/
	S3PublicBaseURL string // Base URL covers resolve to; derived from endpoint+bucket when empty

	SessionSecret string // Required: session encryption secret
	CookieSecure  bool   // Set true for HTTPS
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Kwarda Kaltara"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.LocalDBPath == "" {
		c.LocalDBPath = "data/cms.db"
	}
	if c.S3Region == "" {
		c.S3Region = "us-east-1"
	}
	if c.S3PublicBaseURL == "" && c.S3Bucket != "" {
		c.S3PublicBaseURL = BuildURL(c.S3BaseEndpoint, c.S3Bucket)
	}
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App before the server starts.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithStaticDir sets the directory for user-owned static assets (default "public").
func WithStaticDir(dir string) Option {
	return func(a *App) {
		a.staticDir = dir
	}
}

// WithDocumentStore overrides the remote document store, bypassing the
// RemoteDSN wiring. Mainly for tests.
func WithDocumentStore(ds DocumentStore) Option {
	return func(a *App) {
		a.Remote = ds
	}
}

// WithBlobStore overrides the object storage client.
func WithBlobStore(bs BlobStore) Option {
	return func(a *App) {
		a.Blobs = bs
	}
}

// WithLogger sets the structured logger (default slog.Default).
func WithLogger(l *slog.Logger) Option {
	return func(a *App) {
		a.logger = l
	}
}

// EnvOr returns the value of the environment variable key, or fallback if empty.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// MustEnv returns the value of the environment variable key, or fatally exits if empty.
func MustEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		log.Fatalf("sitecms: required environment variable %s is not set", key)
	}
	return v
}
