package sitecms

import (
	"strings"
	"testing"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Jambore Daerah 2025", "jambore-daerah-2025"},
		{"  Pelantikan  Pengurus  ", "pelantikan-pengurus"},
		{"Kemah & Bakti!", "kemah-bakti"},
		{"UPPER case", "upper-case"},
		{"---", ""},
	}
	for _, tt := range tests {
		if got := Slugify(tt.in); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestUniqueSlug(t *testing.T) {
	taken := map[string]bool{"jambore": true}
	has := func(s string) bool { return taken[s] }

	if got := UniqueSlug("raimuna", has); got != "raimuna" {
		t.Errorf("free slug changed: %q", got)
	}
	got := UniqueSlug("jambore", has)
	if !strings.HasPrefix(got, "jambore-") || got == "jambore-" {
		t.Errorf("taken slug must get a suffix, got %q", got)
	}
}

func TestSplitTags(t *testing.T) {
	got := SplitTags(" latihan,  , jambore ,organisasi,")
	want := []string{"latihan", "jambore", "organisasi"}
	if len(got) != len(want) {
		t.Fatalf("SplitTags = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("tag[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestSplitParagraphs(t *testing.T) {
	got := SplitParagraphs("Paragraf satu.\n\nParagraf dua.\n \nParagraf tiga.")
	if len(got) != 3 {
		t.Fatalf("paragraphs = %d (%v), want 3", len(got), got)
	}
	if got[2] != "Paragraf tiga." {
		t.Errorf("last paragraph = %q", got[2])
	}
	if SplitParagraphs("   ") != nil {
		t.Error("blank body must yield nil")
	}
}

func TestBuildURL(t *testing.T) {
	if got := BuildURL("https://example.org", "catatan", "slug"); got != "https://example.org/catatan/slug/" {
		t.Errorf("BuildURL = %q", got)
	}
	if got := BuildURL("https://example.org"); got != "https://example.org" {
		t.Errorf("BuildURL base = %q", got)
	}
}

func TestSanitizeFilename(t *testing.T) {
	if got := SanitizeFilename("foto kemah (1).jpg"); got != "foto_kemah__1_.jpg" {
		t.Errorf("SanitizeFilename = %q", got)
	}
	if got := SanitizeFilename("../../etc/passwd"); strings.Contains(got, "/") {
		t.Errorf("separator survived sanitization: %q", got)
	}
}
