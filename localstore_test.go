package sitecms

import (
	"path/filepath"
	"testing"

	"github.com/kwarda-kaltara/sitecms/content"
)

func setupTestStore(t *testing.T) *LocalStore {
	t.Helper()
	s, err := NewLocalStore(filepath.Join(t.TempDir(), "cms.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestLoadDatasetEmpty(t *testing.T) {
	s := setupTestStore(t)

	if _, err := s.LoadDataset(); err != ErrNotFound {
		t.Fatalf("LoadDataset on empty store = %v, want ErrNotFound", err)
	}
}

func TestSaveAndLoadDataset(t *testing.T) {
	s := setupTestStore(t)

	d := content.Dataset{
		Posts: []content.Post{{
			Title:    "Pelantikan Pengurus",
			Slug:     "pelantikan-pengurus",
			Category: "Kegiatan",
			Date:     "2025-02-01",
			Location: "Tanjung Selor",
			Excerpt:  "Pelantikan pengurus baru.",
			Content:  []string{"Paragraf satu.", "Paragraf dua."},
			Tags:     []string{"organisasi"},
		}},
		Events: []content.Event{{
			Title: "Perkemahan", Date: "2025-03-01", End: "2025-03-03",
			Location: "Malinau", Organizer: "Kwarcab", URL: "#",
		}},
		Albums: []content.Album{{Title: "Dokumentasi", Location: "Nunukan", Year: 2025, Count: 12}},
	}
	if err := s.SaveDataset(d); err != nil {
		t.Fatalf("SaveDataset failed: %v", err)
	}

	got, err := s.LoadDataset()
	if err != nil {
		t.Fatalf("LoadDataset failed: %v", err)
	}
	if len(got.Posts) != 1 || got.Posts[0].Slug != "pelantikan-pengurus" {
		t.Errorf("Posts = %+v, want the saved post", got.Posts)
	}
	if len(got.Posts[0].Content) != 2 {
		t.Errorf("Content paragraphs = %d, want 2", len(got.Posts[0].Content))
	}
	if len(got.Events) != 1 || got.Events[0].Organizer != "Kwarcab" {
		t.Errorf("Events = %+v, want the saved event", got.Events)
	}
	if len(got.Albums) != 1 || got.Albums[0].Year != 2025 {
		t.Errorf("Albums = %+v, want the saved album", got.Albums)
	}
}

func TestClearDataset(t *testing.T) {
	s := setupTestStore(t)

	if err := s.SaveDataset(DefaultDataset()); err != nil {
		t.Fatalf("SaveDataset failed: %v", err)
	}
	if err := s.ClearDataset(); err != nil {
		t.Fatalf("ClearDataset failed: %v", err)
	}
	if _, err := s.LoadDataset(); err != ErrNotFound {
		t.Fatalf("LoadDataset after clear = %v, want ErrNotFound", err)
	}
}

func TestCredentialsRoundTrip(t *testing.T) {
	s := setupTestStore(t)

	if _, err := s.Credentials(); err != ErrNotFound {
		t.Fatalf("Credentials on empty store = %v, want ErrNotFound", err)
	}

	want := content.Credentials{Username: "ketua", Password: "rahasia"}
	if err := s.SetCredentials(want); err != nil {
		t.Fatalf("SetCredentials failed: %v", err)
	}
	got, err := s.Credentials()
	if err != nil {
		t.Fatalf("Credentials failed: %v", err)
	}
	if got != want {
		t.Errorf("Credentials = %+v, want %+v", got, want)
	}
}

func TestAuthenticatedFlag(t *testing.T) {
	s := setupTestStore(t)

	if s.Authenticated() {
		t.Fatal("fresh store should not be authenticated")
	}
	if err := s.SetAuthenticated(true); err != nil {
		t.Fatalf("SetAuthenticated(true) failed: %v", err)
	}
	if !s.Authenticated() {
		t.Fatal("flag should be set after SetAuthenticated(true)")
	}
	if err := s.SetAuthenticated(false); err != nil {
		t.Fatalf("SetAuthenticated(false) failed: %v", err)
	}
	if s.Authenticated() {
		t.Fatal("flag should be cleared after SetAuthenticated(false)")
	}
}
