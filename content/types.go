// Package content defines the document types managed by the CMS and the
// Dataset that bundles them. The JSON field names are the wire format used
// by the local store, the remote document collections, and snapshot
// import/export, so they must stay stable.
package content

import "encoding/json"

// Post is a news article. Identity is the slug, unique within the posts
// collection. RemoteID is the document id assigned by the remote store; it
// is informational for posts (remote lookups go by slug).
type Post struct {
	RemoteID string   `json:"id,omitempty"`
	Title    string   `json:"title"`
	Slug     string   `json:"slug"`
	Category string   `json:"category,omitempty"`
	Date     string   `json:"date"`
	Location string   `json:"location"`
	Excerpt  string   `json:"excerpt"`
	Content  []string `json:"content,omitempty"`
	Tags     []string `json:"tags,omitempty"`
	Cover    string   `json:"cover,omitempty"`
}

// Event is a calendar entry. It has no slug; once the remote store assigns
// an id it is the authoritative handle for updates and deletes.
type Event struct {
	RemoteID  string `json:"id,omitempty"`
	Title     string `json:"title"`
	Date      string `json:"date"`
	End       string `json:"end"`
	Location  string `json:"location"`
	Organizer string `json:"organizer"`
	URL       string `json:"url,omitempty"`
}

// Album is a photo album summary. Like events it is identified remotely by
// the assigned document id.
type Album struct {
	RemoteID string `json:"id,omitempty"`
	Title    string `json:"title"`
	Location string `json:"location"`
	Year     int    `json:"year"`
	Count    int    `json:"count"`
	Cover    string `json:"cover,omitempty"`
}

// Download is a public document offered for download. Read-only: sourced
// from the bundled defaults, never mutated through the dashboard.
type Download struct {
	Title    string `json:"title"`
	Category string `json:"category"`
	Desc     string `json:"desc"`
	File     string `json:"file"`
	Updated  string `json:"updated"`
}

// PPIDDoc is a public-disclosure document. Type is one of "berkala",
// "setiap_saat", "serta_merta". Read-only like Download.
type PPIDDoc struct {
	Title     string `json:"title"`
	Number    string `json:"number"`
	Year      int    `json:"year"`
	Type      string `json:"type"`
	Unit      string `json:"unit"`
	File      string `json:"file"`
	Published string `json:"published"`
}

// Dataset is the in-memory union of all content collections. It is held as
// one snapshot and mirrored verbatim into the local store as a single JSON
// document.
type Dataset struct {
	Posts     []Post     `json:"posts"`
	Events    []Event    `json:"events"`
	Albums    []Album    `json:"albums"`
	Downloads []Download `json:"downloads,omitempty"`
	PPID      []PPIDDoc  `json:"ppid,omitempty"`
}

// Credentials is the dashboard username/password pair. Stored only in the
// local store, never synced to the remote store.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Clone returns a deep copy of the dataset via a JSON round-trip, so the
// bundled defaults can be handed out without aliasing the embedded copy.
func (d Dataset) Clone() Dataset {
	b, err := json.Marshal(d)
	if err != nil {
		return Dataset{}
	}
	var out Dataset
	if err := json.Unmarshal(b, &out); err != nil {
		return Dataset{}
	}
	return out
}

// Empty reports whether no collection holds any document.
func (d Dataset) Empty() bool {
	return len(d.Posts) == 0 && len(d.Events) == 0 && len(d.Albums) == 0 &&
		len(d.Downloads) == 0 && len(d.PPID) == 0
}

// HasSlug reports whether any post already uses the given slug.
func (d Dataset) HasSlug(slug string) bool {
	for _, p := range d.Posts {
		if p.Slug == slug {
			return true
		}
	}
	return false
}
