package views

import (
	"sort"
	"strconv"
	"strings"

	"github.com/kwarda-kaltara/sitecms/content"
)

func matchesQuery(q string, fields ...string) bool {
	if q == "" {
		return true
	}
	q = strings.ToLower(q)
	return strings.Contains(strings.ToLower(strings.Join(fields, " ")), q)
}

func hasTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}

// FilterPosts applies a case-insensitive substring search over
// title/excerpt/location plus exact category and tag facets.
func FilterPosts(posts []content.Post, q, category, tag string) []content.Post {
	out := make([]content.Post, 0, len(posts))
	for _, p := range posts {
		if !matchesQuery(q, p.Title, p.Excerpt, p.Location) {
			continue
		}
		if category != "" && p.Category != category {
			continue
		}
		if tag != "" && !hasTag(p.Tags, tag) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// SortPostsByDate orders posts newest first. ISO dates compare lexically.
func SortPostsByDate(posts []content.Post) []content.Post {
	out := make([]content.Post, len(posts))
	copy(out, posts)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date > out[j].Date
	})
	return out
}

// SortEventsByDate orders events by start date, newest first.
func SortEventsByDate(events []content.Event) []content.Event {
	out := make([]content.Event, len(events))
	copy(out, events)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date > out[j].Date
	})
	return out
}

// FilterEvents applies the substring search over title/location/organizer.
func FilterEvents(events []content.Event, q string) []content.Event {
	out := make([]content.Event, 0, len(events))
	for _, ev := range events {
		if matchesQuery(q, ev.Title, ev.Location, ev.Organizer) {
			out = append(out, ev)
		}
	}
	return out
}

// FilterAlbums applies the substring search over title/location.
func FilterAlbums(albums []content.Album, q string) []content.Album {
	out := make([]content.Album, 0, len(albums))
	for _, al := range albums {
		if matchesQuery(q, al.Title, al.Location) {
			out = append(out, al)
		}
	}
	return out
}

// FilterDownloads searches title/desc/category with an exact category facet.
func FilterDownloads(items []content.Download, q, category string) []content.Download {
	out := make([]content.Download, 0, len(items))
	for _, d := range items {
		if !matchesQuery(q, d.Title, d.Desc, d.Category) {
			continue
		}
		if category != "" && d.Category != category {
			continue
		}
		out = append(out, d)
	}
	return out
}

// FilterPPID searches title/number/unit with exact type and year facets.
// An empty or unparseable year selects all years.
func FilterPPID(docs []content.PPIDDoc, q, typ, year string) []content.PPIDDoc {
	yearN, _ := strconv.Atoi(year)
	out := make([]content.PPIDDoc, 0, len(docs))
	for _, d := range docs {
		if !matchesQuery(q, d.Title, d.Number, d.Unit) {
			continue
		}
		if typ != "" && d.Type != typ {
			continue
		}
		if year != "" && d.Year != yearN {
			continue
		}
		out = append(out, d)
	}
	return out
}

// PostCategories returns distinct categories in first-seen order.
func PostCategories(posts []content.Post) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, p := range posts {
		if p.Category == "" {
			continue
		}
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		out = append(out, p.Category)
	}
	return out
}

// PostTags returns distinct tags in first-seen order.
func PostTags(posts []content.Post) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, p := range posts {
		for _, t := range p.Tags {
			if t == "" {
				continue
			}
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			out = append(out, t)
		}
	}
	return out
}

// DownloadCategories returns distinct download categories in first-seen order.
func DownloadCategories(items []content.Download) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, d := range items {
		if d.Category == "" {
			continue
		}
		if _, ok := seen[d.Category]; ok {
			continue
		}
		seen[d.Category] = struct{}{}
		out = append(out, d.Category)
	}
	return out
}

// PPIDYears returns distinct document years, newest first.
func PPIDYears(docs []content.PPIDDoc) []int {
	seen := make(map[int]struct{})
	var out []int
	for _, d := range docs {
		if _, ok := seen[d.Year]; ok {
			continue
		}
		seen[d.Year] = struct{}{}
		out = append(out, d.Year)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(out)))
	return out
}
