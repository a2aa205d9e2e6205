package views

import (
	"strings"
	"time"

	"github.com/a-h/templ"
)

type navLink struct {
	Href  string
	Label string
	Key   string
}

var navLinks = []navLink{
	{"/", "Beranda", "beranda"},
	{"/catatan/", "Catatan", "catatan"},
	{"/agenda/", "Agenda", "agenda"},
	{"/galeri/", "Galeri", "galeri"},
	{"/download/", "Download", "download"},
	{"/ppid/", "PPID", "ppid"},
}

func layout(site Site, meta PageMeta, active, body string) templ.Component {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html><html lang=\"id\"><head>")
	b.WriteString("<meta charset=\"utf-8\"/>")
	b.WriteString("<meta name=\"viewport\" content=\"width=device-width, initial-scale=1\"/>")
	b.WriteString("<title>" + esc(meta.Title) + "</title>")
	if meta.Description != "" {
		b.WriteString("<meta name=\"description\" content=\"" + esc(meta.Description) + "\"/>")
		b.WriteString("<meta property=\"og:description\" content=\"" + esc(meta.Description) + "\"/>")
	}
	b.WriteString("<meta property=\"og:title\" content=\"" + esc(meta.Title) + "\"/>")
	if meta.OGType != "" {
		b.WriteString("<meta property=\"og:type\" content=\"" + meta.OGType + "\"/>")
	}
	if meta.URL != "" {
		b.WriteString("<link rel=\"canonical\" href=\"" + esc(meta.URL) + "\"/>")
		b.WriteString("<meta property=\"og:url\" content=\"" + esc(meta.URL) + "\"/>")
	}
	b.WriteString("<link rel=\"alternate\" type=\"application/rss+xml\" title=\"" + esc(site.Name) + "\" href=\"/feed.xml\"/>")
	b.WriteString("<link rel=\"stylesheet\" href=\"/public/style.css\"/>")
	b.WriteString("<script type=\"application/ld+json\">" + WebsiteJsonLD(site) + "</script>")
	b.WriteString("</head><body data-page=\"" + esc(active) + "\">")

	b.WriteString("<header class=\"site-header\"><div class=\"container\">")
	b.WriteString("<a class=\"brand\" href=\"/\">" + esc(site.Name) + "</a>")
	b.WriteString("<nav aria-label=\"Navigasi utama\"><ul class=\"nav\">")
	for _, l := range navLinks {
		b.WriteString("<li><a href=\"" + l.Href + "\"")
		if l.Key == active {
			b.WriteString(" aria-current=\"page\"")
		}
		b.WriteString(">" + esc(l.Label) + "</a></li>")
	}
	b.WriteString("</ul></nav></div></header>")

	b.WriteString("<main class=\"container\">")
	b.WriteString(body)
	b.WriteString("</main>")

	b.WriteString("<footer class=\"site-footer\"><div class=\"container\">")
	b.WriteString("<p>&copy; " + time.Now().Format("2006") + " " + esc(site.Name) + "</p>")
	b.WriteString("</div></footer>")

	b.WriteString("</body></html>")
	return raw(b.String())
}

// NotFound renders the 404 page.
func NotFound(site Site) templ.Component {
	body := "<section class=\"empty\"><h1>Halaman tidak ditemukan</h1>" +
		"<p>Halaman yang Anda cari tidak tersedia.</p>" +
		"<p><a class=\"btn\" href=\"/\">Kembali ke beranda</a></p></section>"
	return layout(site, PageMeta{Title: "Tidak Ditemukan - " + site.Name}, "", body)
}

// ServerError renders the 500 page.
func ServerError(site Site) templ.Component {
	body := "<section class=\"empty\"><h1>Terjadi kesalahan</h1>" +
		"<p>Server mengalami gangguan. Silakan coba beberapa saat lagi.</p></section>"
	return layout(site, PageMeta{Title: "Kesalahan - " + site.Name}, "", body)
}
