package sitecms

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/kwarda-kaltara/sitecms/content"
)

// remoteOpTimeout bounds every dispatched remote write.
const remoteOpTimeout = 30 * time.Second

// Notifier receives remote sync failures. Mutations commit locally first;
// a notified error means "locally succeeded, remote sync failed".
type Notifier func(err error)

// Coordinator is the single source of truth for where content lives and
// which store wins. It owns the in-memory Dataset, always mirrors it to
// the local store, and routes individual mutations to the remote store
// when one is configured. Remote writes are optimistic: a failure never
// rolls back the local commit.
type Coordinator struct {
	mu     sync.Mutex
	data   content.Dataset
	local  *LocalStore
	remote DocumentStore // nil when not configured
	log    *slog.Logger

	notify   Notifier
	wg       sync.WaitGroup
	lastSync error
}

// NewCoordinator builds a Coordinator over the given stores. remote may be
// nil to run local-only.
func NewCoordinator(local *LocalStore, remote DocumentStore, log *slog.Logger) *Coordinator {
	if log == nil {
		log = slog.Default()
	}
	return &Coordinator{local: local, remote: remote, log: log}
}

// SetNotifier installs the callback invoked on remote sync failures.
func (c *Coordinator) SetNotifier(fn Notifier) {
	c.notify = fn
}

// RemoteEnabled reports whether a remote store is configured.
func (c *Coordinator) RemoteEnabled() bool {
	return c.remote != nil
}

// Snapshot returns a deep copy of the current dataset for rendering.
func (c *Coordinator) Snapshot() content.Dataset {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.data.Clone()
}

// LastSyncError returns the most recent remote sync failure, or nil.
func (c *Coordinator) LastSyncError() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastSync
}

// Wait blocks until all dispatched remote writes have finished. Used at
// shutdown and by tests.
func (c *Coordinator) Wait() {
	c.wg.Wait()
}

// Load populates the dataset. With a remote store the remote documents are
// authoritative: they replace memory wholesale and are mirrored into the
// local store. A remote failure is non-fatal: the local store (or the
// bundled defaults) takes over and the returned error wraps
// ErrRemoteUnavailable so callers can surface a notification.
func (c *Coordinator) Load(ctx context.Context) error {
	if c.remote != nil {
		d, err := c.loadRemote(ctx)
		if err == nil {
			c.mu.Lock()
			defer c.mu.Unlock()
			c.data = d
			return c.commitLocked()
		}
		c.log.Warn("remote load failed, using local store", "err", err)
		if lerr := c.loadLocal(); lerr != nil {
			return lerr
		}
		return fmt.Errorf("%w: %v", ErrRemoteUnavailable, err)
	}
	return c.loadLocal()
}

func (c *Coordinator) loadRemote(ctx context.Context) (content.Dataset, error) {
	d := DefaultDataset()
	d.Posts, d.Events, d.Albums = nil, nil, nil

	posts, err := c.remote.ListAll(ctx, CollectionPosts)
	if err != nil {
		return content.Dataset{}, err
	}
	for _, doc := range posts {
		var p content.Post
		if err := json.Unmarshal(doc.Data, &p); err != nil {
			return content.Dataset{}, fmt.Errorf("decode post %s: %w", doc.ID, err)
		}
		p.RemoteID = doc.ID
		d.Posts = append(d.Posts, p)
	}

	events, err := c.remote.ListAll(ctx, CollectionEvents)
	if err != nil {
		return content.Dataset{}, err
	}
	for _, doc := range events {
		var e content.Event
		if err := json.Unmarshal(doc.Data, &e); err != nil {
			return content.Dataset{}, fmt.Errorf("decode event %s: %w", doc.ID, err)
		}
		e.RemoteID = doc.ID
		d.Events = append(d.Events, e)
	}

	albums, err := c.remote.ListAll(ctx, CollectionAlbums)
	if err != nil {
		return content.Dataset{}, err
	}
	for _, doc := range albums {
		var a content.Album
		if err := json.Unmarshal(doc.Data, &a); err != nil {
			return content.Dataset{}, fmt.Errorf("decode album %s: %w", doc.ID, err)
		}
		a.RemoteID = doc.ID
		d.Albums = append(d.Albums, a)
	}

	return d, nil
}

func (c *Coordinator) loadLocal() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, err := c.local.LoadDataset()
	if err == nil {
		c.data = d
		return nil
	}
	if err != ErrNotFound {
		return err
	}
	// First run: seed the local store from the bundled defaults.
	c.data = DefaultDataset()
	return c.commitLocked()
}

// Save persists the full in-memory dataset to the local store. It never
// touches the remote store; remote mutations are routed individually by
// the type-specific operations, since the remote store has no bulk
// replace primitive.
func (c *Coordinator) Save() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.commitLocked()
}

// commitLocked mirrors the dataset into the local store. Callers hold mu.
func (c *Coordinator) commitLocked() error {
	return c.local.SaveDataset(c.data)
}

// dispatch runs a remote write on its own goroutine. Completion is
// unordered relative to later mutations; failures are recorded and
// surfaced through the notifier but never retried.
func (c *Coordinator) dispatch(op string, fn func(ctx context.Context) error) {
	if c.remote == nil {
		return
	}
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), remoteOpTimeout)
		defer cancel()
		if err := fn(ctx); err != nil {
			err = fmt.Errorf("%s: %w", op, err)
			c.log.Warn("remote sync failed", "op", op, "err", err)
			c.mu.Lock()
			c.lastSync = err
			c.mu.Unlock()
			if c.notify != nil {
				c.notify(err)
			}
		}
	}()
}

// marshalDoc encodes a record for the remote store without its remote id;
// the id lives in the document key, not the body.
func marshalPostDoc(p content.Post) json.RawMessage {
	p.RemoteID = ""
	b, _ := json.Marshal(p)
	return b
}

func marshalEventDoc(e content.Event) json.RawMessage {
	e.RemoteID = ""
	b, _ := json.Marshal(e)
	return b
}

func marshalAlbumDoc(a content.Album) json.RawMessage {
	a.RemoteID = ""
	b, _ := json.Marshal(a)
	return b
}

// AddPost inserts a post at the head of the collection. An empty slug is
// derived from the title; a colliding slug gets a time-derived suffix.
// Returns the stored post (final slug included).
func (c *Coordinator) AddPost(p content.Post) (content.Post, error) {
	c.mu.Lock()
	if p.Slug == "" {
		p.Slug = Slugify(p.Title)
	}
	p.Slug = UniqueSlug(p.Slug, c.data.HasSlug)
	p.RemoteID = ""
	c.data.Posts = append([]content.Post{p}, c.data.Posts...)
	err := c.commitLocked()
	c.mu.Unlock()
	if err != nil {
		return p, err
	}

	slug := p.Slug
	doc := marshalPostDoc(p)
	c.dispatch("add post", func(ctx context.Context) error {
		id, err := c.remote.Add(ctx, CollectionPosts, doc)
		if err != nil {
			return err
		}
		c.mu.Lock()
		defer c.mu.Unlock()
		for i := range c.data.Posts {
			if c.data.Posts[i].Slug == slug {
				c.data.Posts[i].RemoteID = id
				break
			}
		}
		return c.commitLocked()
	})
	return p, nil
}

// UpdatePost replaces the post with the given slug. The slug itself is
// stable across updates; the remote document is located by slug equality.
func (c *Coordinator) UpdatePost(slug string, p content.Post) error {
	c.mu.Lock()
	idx := -1
	for i := range c.data.Posts {
		if c.data.Posts[i].Slug == slug {
			idx = i
			break
		}
	}
	if idx < 0 {
		c.mu.Unlock()
		return ErrNotFound
	}
	p.Slug = slug
	p.RemoteID = c.data.Posts[idx].RemoteID
	c.data.Posts[idx] = p
	err := c.commitLocked()
	c.mu.Unlock()
	if err != nil {
		return err
	}

	doc := marshalPostDoc(p)
	c.dispatch("update post", func(ctx context.Context) error {
		docs, err := c.remote.FindByField(ctx, CollectionPosts, "slug", slug)
		if err != nil {
			return err
		}
		if len(docs) == 0 {
			return nil
		}
		return c.remote.UpdateByID(ctx, CollectionPosts, docs[0].ID, doc)
	})
	return nil
}

// DeletePost removes exactly the post with the matching slug.
func (c *Coordinator) DeletePost(slug string) error {
	c.mu.Lock()
	kept := c.data.Posts[:0:0]
	removed := false
	for _, p := range c.data.Posts {
		if !removed && p.Slug == slug {
			removed = true
			continue
		}
		kept = append(kept, p)
	}
	if !removed {
		c.mu.Unlock()
		return ErrNotFound
	}
	c.data.Posts = kept
	err := c.commitLocked()
	c.mu.Unlock()
	if err != nil {
		return err
	}

	c.dispatch("delete post", func(ctx context.Context) error {
		docs, err := c.remote.FindByField(ctx, CollectionPosts, "slug", slug)
		if err != nil {
			return err
		}
		if len(docs) == 0 {
			return nil
		}
		return c.remote.DeleteByID(ctx, CollectionPosts, docs[0].ID)
	})
	return nil
}

// AddEvent inserts an event at the head of the collection. The remote id,
// once assigned, is attached back onto the in-memory record and becomes
// the authoritative handle for later updates and deletes.
func (c *Coordinator) AddEvent(e content.Event) error {
	c.mu.Lock()
	e.RemoteID = ""
	c.data.Events = append([]content.Event{e}, c.data.Events...)
	err := c.commitLocked()
	c.mu.Unlock()
	if err != nil {
		return err
	}

	doc := marshalEventDoc(e)
	c.dispatch("add event", func(ctx context.Context) error {
		id, err := c.remote.Add(ctx, CollectionEvents, doc)
		if err != nil {
			return err
		}
		c.mu.Lock()
		defer c.mu.Unlock()
		for i := range c.data.Events {
			ev := &c.data.Events[i]
			if ev.RemoteID == "" && ev.Title == e.Title && ev.Date == e.Date &&
				ev.End == e.End && ev.Location == e.Location && ev.Organizer == e.Organizer {
				ev.RemoteID = id
				break
			}
		}
		return c.commitLocked()
	})
	return nil
}

// UpdateEvent replaces the event at the given positional index. The index
// is only valid within one render cycle; the stored remote id routes the
// remote update.
func (c *Coordinator) UpdateEvent(idx int, e content.Event) error {
	c.mu.Lock()
	if idx < 0 || idx >= len(c.data.Events) {
		c.mu.Unlock()
		return ErrNotFound
	}
	e.RemoteID = c.data.Events[idx].RemoteID
	c.data.Events[idx] = e
	err := c.commitLocked()
	c.mu.Unlock()
	if err != nil {
		return err
	}

	if e.RemoteID == "" {
		return nil
	}
	id, doc := e.RemoteID, marshalEventDoc(e)
	c.dispatch("update event", func(ctx context.Context) error {
		return c.remote.UpdateByID(ctx, CollectionEvents, id, doc)
	})
	return nil
}

// DeleteEvent removes the event at the given positional index.
func (c *Coordinator) DeleteEvent(idx int) error {
	c.mu.Lock()
	if idx < 0 || idx >= len(c.data.Events) {
		c.mu.Unlock()
		return ErrNotFound
	}
	id := c.data.Events[idx].RemoteID
	c.data.Events = append(c.data.Events[:idx:idx], c.data.Events[idx+1:]...)
	err := c.commitLocked()
	c.mu.Unlock()
	if err != nil {
		return err
	}

	if id == "" {
		return nil
	}
	c.dispatch("delete event", func(ctx context.Context) error {
		return c.remote.DeleteByID(ctx, CollectionEvents, id)
	})
	return nil
}

// AddAlbum inserts an album at the head of the collection.
func (c *Coordinator) AddAlbum(a content.Album) error {
	c.mu.Lock()
	a.RemoteID = ""
	c.data.Albums = append([]content.Album{a}, c.data.Albums...)
	err := c.commitLocked()
	c.mu.Unlock()
	if err != nil {
		return err
	}

	doc := marshalAlbumDoc(a)
	c.dispatch("add album", func(ctx context.Context) error {
		id, err := c.remote.Add(ctx, CollectionAlbums, doc)
		if err != nil {
			return err
		}
		c.mu.Lock()
		defer c.mu.Unlock()
		for i := range c.data.Albums {
			al := &c.data.Albums[i]
			if al.RemoteID == "" && al.Title == a.Title && al.Location == a.Location && al.Year == a.Year {
				al.RemoteID = id
				break
			}
		}
		return c.commitLocked()
	})
	return nil
}

// UpdateAlbum replaces the album at the given positional index.
func (c *Coordinator) UpdateAlbum(idx int, a content.Album) error {
	c.mu.Lock()
	if idx < 0 || idx >= len(c.data.Albums) {
		c.mu.Unlock()
		return ErrNotFound
	}
	a.RemoteID = c.data.Albums[idx].RemoteID
	c.data.Albums[idx] = a
	err := c.commitLocked()
	c.mu.Unlock()
	if err != nil {
		return err
	}

	if a.RemoteID == "" {
		return nil
	}
	id, doc := a.RemoteID, marshalAlbumDoc(a)
	c.dispatch("update album", func(ctx context.Context) error {
		return c.remote.UpdateByID(ctx, CollectionAlbums, id, doc)
	})
	return nil
}

// DeleteAlbum removes the album at the given positional index.
func (c *Coordinator) DeleteAlbum(idx int) error {
	c.mu.Lock()
	if idx < 0 || idx >= len(c.data.Albums) {
		c.mu.Unlock()
		return ErrNotFound
	}
	id := c.data.Albums[idx].RemoteID
	c.data.Albums = append(c.data.Albums[:idx:idx], c.data.Albums[idx+1:]...)
	err := c.commitLocked()
	c.mu.Unlock()
	if err != nil {
		return err
	}

	if id == "" {
		return nil
	}
	c.dispatch("delete album", func(ctx context.Context) error {
		return c.remote.DeleteByID(ctx, CollectionAlbums, id)
	})
	return nil
}

// Seed copies the bundled defaults into the remote store, once. Guarded by
// a pre-check: any existing post document skips the whole seed. The guard
// is best-effort, not atomic: concurrent seeders could double-seed.
func (c *Coordinator) Seed(ctx context.Context) error {
	if c.remote == nil {
		return nil
	}
	n, err := c.remote.Count(ctx, CollectionPosts)
	if err != nil {
		return fmt.Errorf("seed pre-check: %w", err)
	}
	if n > 0 {
		c.log.Info("remote store already has data, skipping seed")
		return nil
	}

	c.log.Info("seeding remote store from bundled defaults")
	d := DefaultDataset()
	for _, p := range d.Posts {
		if _, err := c.remote.Add(ctx, CollectionPosts, marshalPostDoc(p)); err != nil {
			return fmt.Errorf("seed posts: %w", err)
		}
	}
	for _, e := range d.Events {
		if _, err := c.remote.Add(ctx, CollectionEvents, marshalEventDoc(e)); err != nil {
			return fmt.Errorf("seed events: %w", err)
		}
	}
	for _, a := range d.Albums {
		if _, err := c.remote.Add(ctx, CollectionAlbums, marshalAlbumDoc(a)); err != nil {
			return fmt.Errorf("seed albums: %w", err)
		}
	}
	return nil
}

// ExportSnapshot serializes the full dataset as an indented JSON document.
func (c *Coordinator) ExportSnapshot() ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return json.MarshalIndent(c.data, "", "  ")
}

// ImportSnapshot replaces the dataset wholesale. The document must carry
// the posts, events and albums collections; otherwise the prior dataset is
// left untouched. With a remote store the three synced collections are
// wiped and reinserted as one logical batch; a failure midway returns an
// error wrapping ErrImportPartial, since the remote store may be left
// partially wiped.
func (c *Coordinator) ImportSnapshot(ctx context.Context, raw []byte) error {
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(raw, &keys); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	for _, k := range []string{"posts", "events", "albums"} {
		if _, ok := keys[k]; !ok {
			return fmt.Errorf("%w: no %q key", ErrInvalidSnapshot, k)
		}
	}
	var d content.Dataset
	if err := json.Unmarshal(raw, &d); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}

	c.mu.Lock()
	c.data = d
	err := c.commitLocked()
	c.mu.Unlock()
	if err != nil {
		return err
	}

	if c.remote == nil {
		return nil
	}
	for _, col := range SyncedCollections {
		if err := c.remote.DeleteAll(ctx, col); err != nil {
			return fmt.Errorf("%w: wipe %s: %v", ErrImportPartial, col, err)
		}
	}
	for _, p := range d.Posts {
		if _, err := c.remote.Add(ctx, CollectionPosts, marshalPostDoc(p)); err != nil {
			return fmt.Errorf("%w: reinsert posts: %v", ErrImportPartial, err)
		}
	}
	for _, e := range d.Events {
		if _, err := c.remote.Add(ctx, CollectionEvents, marshalEventDoc(e)); err != nil {
			return fmt.Errorf("%w: reinsert events: %v", ErrImportPartial, err)
		}
	}
	for _, a := range d.Albums {
		if _, err := c.remote.Add(ctx, CollectionAlbums, marshalAlbumDoc(a)); err != nil {
			return fmt.Errorf("%w: reinsert albums: %v", ErrImportPartial, err)
		}
	}
	return nil
}

// ResetToDefault clears the local store and reloads the bundled defaults.
// The remote store is not touched.
func (c *Coordinator) ResetToDefault() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.local.ClearDataset(); err != nil {
		return err
	}
	c.data = DefaultDataset()
	return c.commitLocked()
}
