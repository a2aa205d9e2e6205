package views

import (
	"testing"

	"github.com/kwarda-kaltara/sitecms/content"
)

func testPosts() []content.Post {
	return []content.Post{
		{Slug: "rapat-kerja", Title: "Rapat Kerja Daerah", Date: "2025-01-01", Category: "Kegiatan", Location: "Tanjung Selor", Excerpt: "Rapat kerja tahunan", Tags: []string{"rapat"}},
		{Slug: "jambore", Title: "Jambore Daerah", Date: "2025-06-01", Category: "Kegiatan", Location: "Bulungan", Excerpt: "Jambore pramuka penggalang", Tags: []string{"jambore", "penggalang"}},
		{Slug: "lomba-lct", Title: "Lomba Cerdas Tangkas", Date: "2025-03-01", Category: "Prestasi", Location: "Tarakan", Excerpt: "Lomba tingkat kwartir", Tags: []string{"lomba"}},
	}
}

func TestSortPostsByDateNewestFirst(t *testing.T) {
	sorted := SortPostsByDate(testPosts())
	want := []string{"2025-06-01", "2025-03-01", "2025-01-01"}
	for i, w := range want {
		if sorted[i].Date != w {
			t.Errorf("sorted[%d].Date = %s, want %s", i, sorted[i].Date, w)
		}
	}
}

func TestSortPostsByDateDoesNotMutateInput(t *testing.T) {
	posts := testPosts()
	SortPostsByDate(posts)
	if posts[0].Slug != "rapat-kerja" {
		t.Errorf("input slice was reordered")
	}
}

func TestFilterPostsQuery(t *testing.T) {
	posts := testPosts()

	got := FilterPosts(posts, "jambore", "", "")
	if len(got) != 1 || got[0].Slug != "jambore" {
		t.Fatalf("query match = %v", got)
	}

	// The query searches title, excerpt and location as lowercase substrings.
	got = FilterPosts(posts, "TARAKAN", "", "")
	if len(got) != 1 || got[0].Slug != "lomba-lct" {
		t.Fatalf("location match should be case-insensitive, got %v", got)
	}

	if got := FilterPosts(posts, "tidak-ada", "", ""); len(got) != 0 {
		t.Fatalf("expected no matches, got %v", got)
	}
}

func TestFilterPostsFacets(t *testing.T) {
	posts := testPosts()

	if got := FilterPosts(posts, "", "Kegiatan", ""); len(got) != 2 {
		t.Errorf("category facet matched %d posts, want 2", len(got))
	}
	if got := FilterPosts(posts, "", "", "penggalang"); len(got) != 1 || got[0].Slug != "jambore" {
		t.Errorf("tag facet = %v", got)
	}
	// Facets are exact, not substring.
	if got := FilterPosts(posts, "", "Kegiat", ""); len(got) != 0 {
		t.Errorf("partial category must not match, got %v", got)
	}
	if got := FilterPosts(posts, "lomba", "Kegiatan", ""); len(got) != 0 {
		t.Errorf("query and facet combine with AND, got %v", got)
	}
}

func TestPostCategoriesAndTags(t *testing.T) {
	posts := testPosts()

	cats := PostCategories(posts)
	if len(cats) != 2 || cats[0] != "Kegiatan" || cats[1] != "Prestasi" {
		t.Errorf("PostCategories = %v", cats)
	}

	tags := PostTags(posts)
	want := []string{"rapat", "jambore", "penggalang", "lomba"}
	if len(tags) != len(want) {
		t.Fatalf("PostTags = %v", tags)
	}
	for i, w := range want {
		if tags[i] != w {
			t.Errorf("tags[%d] = %s, want %s", i, tags[i], w)
		}
	}
}

func TestFilterDownloads(t *testing.T) {
	items := []content.Download{
		{Title: "Formulir Pendaftaran", Desc: "Formulir gudep", Category: "Formulir"},
		{Title: "AD/ART", Desc: "Anggaran dasar", Category: "Peraturan"},
	}

	if got := FilterDownloads(items, "gudep", ""); len(got) != 1 || got[0].Title != "Formulir Pendaftaran" {
		t.Errorf("description match = %v", got)
	}
	if got := FilterDownloads(items, "", "Peraturan"); len(got) != 1 || got[0].Title != "AD/ART" {
		t.Errorf("category facet = %v", got)
	}
}

func TestFilterPPID(t *testing.T) {
	docs := []content.PPIDDoc{
		{Title: "Laporan Keuangan", Number: "001/PPID/2024", Unit: "Sekretariat", Type: "berkala", Year: 2024},
		{Title: "Profil Kwartir", Number: "002/PPID/2025", Unit: "Humas", Type: "setiap_saat", Year: 2025},
		{Title: "Laporan Kegiatan", Number: "003/PPID/2025", Unit: "Sekretariat", Type: "berkala", Year: 2025},
	}

	if got := FilterPPID(docs, "keuangan", "", ""); len(got) != 1 || got[0].Year != 2024 {
		t.Errorf("query over title = %v", got)
	}
	if got := FilterPPID(docs, "humas", "", ""); len(got) != 1 || got[0].Title != "Profil Kwartir" {
		t.Errorf("query over unit = %v", got)
	}
	if got := FilterPPID(docs, "", "berkala", "2025"); len(got) != 1 || got[0].Title != "Laporan Kegiatan" {
		t.Errorf("type+year facets = %v", got)
	}
	if got := FilterPPID(docs, "", "", "2023"); len(got) != 0 {
		t.Errorf("unknown year must match nothing, got %v", got)
	}
}

func TestPPIDYearsNewestFirst(t *testing.T) {
	docs := []content.PPIDDoc{
		{Year: 2023}, {Year: 2025}, {Year: 2023}, {Year: 2024},
	}
	years := PPIDYears(docs)
	want := []int{2025, 2024, 2023}
	if len(years) != len(want) {
		t.Fatalf("PPIDYears = %v", years)
	}
	for i, w := range want {
		if years[i] != w {
			t.Errorf("years[%d] = %d, want %d", i, years[i], w)
		}
	}
}

func TestFormatDateID(t *testing.T) {
	if got := FormatDateID("2025-06-01"); got != "01 Jun 2025" {
		t.Errorf("FormatDateID = %q", got)
	}
	if got := FormatDateID("2025-08-17"); got != "17 Agu 2025" {
		t.Errorf("FormatDateID = %q", got)
	}
	if got := FormatDateID("besok"); got != "besok" {
		t.Errorf("unparseable dates pass through, got %q", got)
	}
}

func TestPPIDTypeLabel(t *testing.T) {
	cases := map[string]string{
		"berkala":     "Berkala",
		"setiap_saat": "Setiap Saat",
		"lainnya":     "Serta Merta",
		"":            "Serta Merta",
	}
	for typ, want := range cases {
		if got := PPIDTypeLabel(typ); got != want {
			t.Errorf("PPIDTypeLabel(%q) = %q, want %q", typ, got, want)
		}
	}
}

func TestRelatedPostsShareTags(t *testing.T) {
	posts := testPosts()
	current := content.Post{Slug: "kemah-bakti", Tags: []string{"penggalang", "kemah"}}

	related := RelatedPosts(current, append(posts, current))
	if len(related) != 1 || related[0].Slug != "jambore" {
		t.Errorf("RelatedPosts = %v", related)
	}
}
