package views

// Site holds site-wide settings the templates interpolate.
// Every handler passes this so nothing is hardcoded in markup.
type Site struct {
	Name        string
	URL         string
	Description string
	Author      string
}

// PageMeta carries per-page OpenGraph and SEO metadata into the <head>.
type PageMeta struct {
	Title       string
	Description string
	URL         string // canonical + og:url
	OGType      string // "website" or "article"
}

// DashboardStats summarizes collection sizes for the admin overview.
type DashboardStats struct {
	Posts     int
	Events    int
	Albums    int
	Downloads int
}

// RemoteStatus describes the document-store connection shown in the
// admin header: whether a remote store is configured and the last
// background sync error, if any.
type RemoteStatus struct {
	Enabled bool
	LastErr string
}
