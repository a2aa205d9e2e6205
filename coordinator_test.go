package sitecms

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kwarda-kaltara/sitecms/content"
)

// memDocStore is an in-memory DocumentStore for coordinator tests. It
// counts mutating calls so seed idempotence can be asserted exactly.
type memDocStore struct {
	mu     sync.Mutex
	docs   map[string][]Document
	nextID int
	writes int

	failList bool
	failAdd  bool
}

func newMemDocStore() *memDocStore {
	return &memDocStore{docs: make(map[string][]Document)}
}

func (m *memDocStore) ListAll(ctx context.Context, collection string) ([]Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failList {
		return nil, errors.New("connection refused")
	}
	out := make([]Document, len(m.docs[collection]))
	copy(out, m.docs[collection])
	return out, nil
}

func (m *memDocStore) Add(ctx context.Context, collection string, doc json.RawMessage) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAdd {
		return "", errors.New("connection refused")
	}
	m.nextID++
	m.writes++
	id := fmt.Sprintf("doc-%d", m.nextID)
	m.docs[collection] = append(m.docs[collection], Document{ID: id, Data: doc})
	return id, nil
}

func (m *memDocStore) UpdateByID(ctx context.Context, collection, id string, doc json.RawMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, d := range m.docs[collection] {
		if d.ID == id {
			m.writes++
			m.docs[collection][i].Data = doc
			return nil
		}
	}
	return ErrNotFound
}

func (m *memDocStore) DeleteByID(ctx context.Context, collection, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, d := range m.docs[collection] {
		if d.ID == id {
			m.writes++
			m.docs[collection] = append(m.docs[collection][:i], m.docs[collection][i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (m *memDocStore) FindByField(ctx context.Context, collection, field, value string) ([]Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Document
	for _, d := range m.docs[collection] {
		var fields map[string]any
		if err := json.Unmarshal(d.Data, &fields); err != nil {
			return nil, err
		}
		if s, ok := fields[field].(string); ok && s == value {
			out = append(out, d)
		}
	}
	return out, nil
}

func (m *memDocStore) DeleteAll(ctx context.Context, collection string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writes += len(m.docs[collection])
	delete(m.docs, collection)
	return nil
}

func (m *memDocStore) Count(ctx context.Context, collection string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.docs[collection]), nil
}

func (m *memDocStore) writeCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

func newTestCoordinator(t *testing.T, remote DocumentStore) (*Coordinator, *LocalStore) {
	t.Helper()
	local, err := NewLocalStore(filepath.Join(t.TempDir(), "cms.db"))
	require.NoError(t, err)
	t.Cleanup(func() { local.Close() })
	return NewCoordinator(local, remote, nil), local
}

func testPost(title string) content.Post {
	return content.Post{
		Title:    title,
		Category: "Kegiatan",
		Date:     "2025-04-10",
		Location: "Tarakan",
		Excerpt:  "Ringkasan kegiatan.",
		Tags:     []string{"latihan"},
	}
}

func TestAddPostUniqueSlug(t *testing.T) {
	c, _ := newTestCoordinator(t, nil)
	require.NoError(t, c.Load(context.Background()))

	first, err := c.AddPost(testPost("Jambore Daerah 2025"))
	require.NoError(t, err)
	second, err := c.AddPost(testPost("Jambore Daerah 2025"))
	require.NoError(t, err)

	assert.Equal(t, "jambore-daerah-2025", first.Slug)
	assert.NotEqual(t, first.Slug, second.Slug)
	assert.True(t, strings.HasPrefix(second.Slug, first.Slug+"-"))
}

func TestSaveLoadRoundTrip(t *testing.T) {
	c, local := newTestCoordinator(t, nil)
	require.NoError(t, c.Load(context.Background()))
	_, err := c.AddPost(testPost("Round Trip"))
	require.NoError(t, err)
	want := c.Snapshot()

	fresh := NewCoordinator(local, nil, nil)
	require.NoError(t, fresh.Load(context.Background()))
	assert.Equal(t, want, fresh.Snapshot())
}

func TestImportRejectsMissingCollections(t *testing.T) {
	c, _ := newTestCoordinator(t, nil)
	require.NoError(t, c.Load(context.Background()))
	before := c.Snapshot()

	err := c.ImportSnapshot(context.Background(), []byte(`{"posts":[],"events":[]}`))
	require.ErrorIs(t, err, ErrInvalidSnapshot)
	assert.Equal(t, before, c.Snapshot())

	err = c.ImportSnapshot(context.Background(), []byte(`not json`))
	require.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, before, c.Snapshot())
}

func TestExportImportRoundTrip(t *testing.T) {
	c, _ := newTestCoordinator(t, nil)
	require.NoError(t, c.Load(context.Background()))
	before := c.Snapshot()

	payload, err := c.ExportSnapshot()
	require.NoError(t, err)
	require.NoError(t, c.ImportSnapshot(context.Background(), payload))
	assert.Equal(t, before, c.Snapshot())
}

func TestSeedIdempotent(t *testing.T) {
	remote := newMemDocStore()
	c, _ := newTestCoordinator(t, remote)

	require.NoError(t, c.Seed(context.Background()))
	writes := remote.writeCount()
	defaults := DefaultDataset()
	require.Equal(t, len(defaults.Posts)+len(defaults.Events)+len(defaults.Albums), writes)

	require.NoError(t, c.Seed(context.Background()))
	assert.Equal(t, writes, remote.writeCount(), "second seed must perform zero writes")
}

func TestDeletePostRemovesExactlyOne(t *testing.T) {
	c, _ := newTestCoordinator(t, nil)
	require.NoError(t, c.Load(context.Background()))
	base := len(c.Snapshot().Posts)

	first, err := c.AddPost(testPost("Judul Sama"))
	require.NoError(t, err)
	second, err := c.AddPost(testPost("Judul Sama"))
	require.NoError(t, err)

	require.NoError(t, c.DeletePost(first.Slug))

	posts := c.Snapshot().Posts
	assert.Len(t, posts, base+1)
	assert.False(t, c.Snapshot().HasSlug(first.Slug))
	assert.True(t, c.Snapshot().HasSlug(second.Slug))

	assert.ErrorIs(t, c.DeletePost(first.Slug), ErrNotFound)
}

func TestAddPostAttachesRemoteID(t *testing.T) {
	remote := newMemDocStore()
	c, _ := newTestCoordinator(t, remote)
	require.NoError(t, c.Load(context.Background()))

	added, err := c.AddPost(testPost("Sinkron ke Database"))
	require.NoError(t, err)
	c.Wait()

	docs, err := remote.FindByField(context.Background(), CollectionPosts, "slug", added.Slug)
	require.NoError(t, err)
	require.Len(t, docs, 1)

	for _, p := range c.Snapshot().Posts {
		if p.Slug == added.Slug {
			assert.Equal(t, docs[0].ID, p.RemoteID)
			return
		}
	}
	t.Fatalf("post %q not found in snapshot", added.Slug)
}

func TestEventRemoteIDRoutesUpdateAndDelete(t *testing.T) {
	remote := newMemDocStore()
	c, _ := newTestCoordinator(t, remote)
	require.NoError(t, c.Load(context.Background()))

	ev := content.Event{
		Title: "Rapat Kerja", Date: "2025-05-01", End: "2025-05-02",
		Location: "Tanjung Selor", Organizer: "Kwarda", URL: "#",
	}
	require.NoError(t, c.AddEvent(ev))
	c.Wait()

	events := c.Snapshot().Events
	require.NotEmpty(t, events)
	id := events[0].RemoteID
	require.NotEmpty(t, id, "add must attach the remote id")

	ev.Title = "Rapat Kerja Daerah"
	require.NoError(t, c.UpdateEvent(0, ev))
	c.Wait()

	docs, err := remote.ListAll(context.Background(), CollectionEvents)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, id, docs[0].ID)
	var stored content.Event
	require.NoError(t, json.Unmarshal(docs[0].Data, &stored))
	assert.Equal(t, "Rapat Kerja Daerah", stored.Title)

	require.NoError(t, c.DeleteEvent(0))
	c.Wait()
	docs, err = remote.ListAll(context.Background(), CollectionEvents)
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestLoadRemoteIsAuthoritative(t *testing.T) {
	remote := newMemDocStore()
	_, err := remote.Add(context.Background(), CollectionPosts, marshalPostDoc(testPost("Dari Database")))
	require.NoError(t, err)

	c, local := newTestCoordinator(t, remote)

	// Stale local content must be replaced, not merged.
	stale := DefaultDataset()
	require.NoError(t, local.SaveDataset(stale))

	require.NoError(t, c.Load(context.Background()))
	data := c.Snapshot()
	require.Len(t, data.Posts, 1)
	assert.Equal(t, "Dari Database", data.Posts[0].Title)
	assert.NotEmpty(t, data.Posts[0].RemoteID)

	// And the local store now mirrors the remote union.
	mirrored, err := local.LoadDataset()
	require.NoError(t, err)
	assert.Equal(t, data, mirrored)
}

func TestLoadFallsBackWhenRemoteUnavailable(t *testing.T) {
	remote := newMemDocStore()
	remote.failList = true
	c, _ := newTestCoordinator(t, remote)

	err := c.Load(context.Background())
	require.ErrorIs(t, err, ErrRemoteUnavailable)

	// Defaults were seeded locally and serve the site.
	data := c.Snapshot()
	assert.Equal(t, DefaultDataset().Posts, data.Posts)
}

func TestImportPartialFailureIsDistinct(t *testing.T) {
	remote := newMemDocStore()
	c, _ := newTestCoordinator(t, remote)
	require.NoError(t, c.Load(context.Background()))

	payload, err := c.ExportSnapshot()
	require.NoError(t, err)

	remote.failAdd = true
	err = c.ImportSnapshot(context.Background(), payload)
	require.ErrorIs(t, err, ErrImportPartial)
}

func TestResetToDefault(t *testing.T) {
	c, _ := newTestCoordinator(t, nil)
	require.NoError(t, c.Load(context.Background()))
	_, err := c.AddPost(testPost("Akan Hilang"))
	require.NoError(t, err)

	require.NoError(t, c.ResetToDefault())
	assert.Equal(t, DefaultDataset(), c.Snapshot())
}
