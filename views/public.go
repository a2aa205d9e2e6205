package views

import (
	"strconv"
	"strings"

	"github.com/a-h/templ"

	"github.com/kwarda-kaltara/sitecms/content"
)

func coverMedia(cover, alt string) string {
	if cover == "" {
		return "<div class=\"card__media\" role=\"img\" aria-label=\"" + esc(alt) + "\"></div>"
	}
	return "<div class=\"card__media\"><img src=\"" + esc(cover) + "\" alt=\"" + esc(alt) + "\" loading=\"lazy\"/></div>"
}

func postCard(p content.Post) string {
	var b strings.Builder
	b.WriteString("<article class=\"card\" role=\"listitem\">")
	b.WriteString(coverMedia(p.Cover, p.Title))
	b.WriteString("<div class=\"card__body\">")
	if p.Category != "" {
		b.WriteString("<span class=\"label tag\">" + esc(p.Category) + "</span>")
	}
	b.WriteString("<h3 class=\"card__title\"><a href=\"/catatan/" + PathEscape(p.Slug) + "/\">" + esc(p.Title) + "</a></h3>")
	b.WriteString("<div class=\"meta\">" + esc(p.Location) + " &bull; " + esc(FormatDateID(p.Date)) + "</div>")
	b.WriteString("<p>" + esc(p.Excerpt) + "</p>")
	if len(p.Tags) > 0 {
		b.WriteString("<div class=\"tags\">")
		for _, t := range p.Tags {
			b.WriteString("<a class=\"tag\" href=\"/catatan/?tag=" + PathEscape(t) + "\">" + esc(t) + "</a>")
		}
		b.WriteString("</div>")
	}
	b.WriteString("<div class=\"card__actions\"><a class=\"btn\" href=\"/catatan/" + PathEscape(p.Slug) + "/\">Baca kisah</a></div>")
	b.WriteString("</div></article>")
	return b.String()
}

// Home renders the landing page with the latest posts and upcoming agenda.
func Home(site Site, posts []content.Post, events []content.Event) templ.Component {
	var b strings.Builder
	b.WriteString("<section class=\"hero\"><h1>" + esc(site.Name) + "</h1>")
	if site.Description != "" {
		b.WriteString("<p>" + esc(site.Description) + "</p>")
	}
	b.WriteString("</section>")

	b.WriteString("<section><h2>Catatan Terbaru</h2><div class=\"grid\" role=\"list\">")
	latest := SortPostsByDate(posts)
	if len(latest) > 3 {
		latest = latest[:3]
	}
	for _, p := range latest {
		b.WriteString(postCard(p))
	}
	b.WriteString("</div><p><a class=\"btn\" href=\"/catatan/\">Semua catatan</a></p></section>")

	b.WriteString("<section><h2>Agenda</h2>")
	upcoming := SortEventsByDate(events)
	if len(upcoming) > 3 {
		upcoming = upcoming[:3]
	}
	for _, ev := range upcoming {
		b.WriteString(eventItem(ev))
	}
	b.WriteString("<p><a class=\"btn\" href=\"/agenda/\">Semua agenda</a></p></section>")

	meta := PageMeta{
		Title:       site.Name,
		Description: site.Description,
		URL:         buildURL(site.URL),
		OGType:      "website",
	}
	return layout(site, meta, "beranda", b.String())
}

// Posts renders the filtered, date-descending post list.
func Posts(site Site, posts []content.Post, q, category, tag string) templ.Component {
	all := SortPostsByDate(posts)
	filtered := FilterPosts(all, q, category, tag)

	var b strings.Builder
	b.WriteString("<h1>Catatan Kegiatan</h1>")
	b.WriteString("<form class=\"filterbar\" method=\"get\" action=\"/catatan/\">")
	b.WriteString("<input type=\"search\" name=\"q\" value=\"" + esc(q) + "\" placeholder=\"Cari catatan...\" aria-label=\"Cari catatan\"/>")
	b.WriteString(selectBox("category", "Semua kategori", PostCategories(all), category))
	b.WriteString(selectBox("tag", "Semua tag", PostTags(all), tag))
	b.WriteString("<button class=\"btn\" type=\"submit\">Filter</button></form>")

	if len(filtered) == 0 {
		b.WriteString("<p class=\"empty\">Belum ada kisah di rentang filter ini. Coba perluas pencarian.</p>")
	} else {
		b.WriteString("<div class=\"grid\" role=\"list\">")
		for _, p := range filtered {
			b.WriteString(postCard(p))
		}
		b.WriteString("</div>")
	}

	meta := PageMeta{
		Title:       "Catatan - " + site.Name,
		Description: site.Description,
		URL:         buildURL(site.URL, "catatan"),
		OGType:      "website",
	}
	return layout(site, meta, "catatan", b.String())
}

// PostDetail renders a single post with its paragraphs and related posts.
func PostDetail(site Site, post content.Post, all []content.Post) templ.Component {
	var b strings.Builder
	b.WriteString("<article class=\"post\">")
	if post.Category != "" {
		b.WriteString("<span class=\"label tag\">" + esc(post.Category) + "</span>")
	}
	b.WriteString("<h1>" + esc(post.Title) + "</h1>")
	b.WriteString("<div class=\"meta\">" + esc(post.Location) + " &bull; " + esc(FormatDateID(post.Date)) + "</div>")
	if post.Cover != "" {
		b.WriteString("<img class=\"post__cover\" src=\"" + esc(post.Cover) + "\" alt=\"" + esc(post.Title) + "\"/>")
	}
	b.WriteString("<p class=\"post__excerpt\">" + esc(post.Excerpt) + "</p>")
	for _, para := range post.Content {
		b.WriteString("<p>" + esc(para) + "</p>")
	}
	if len(post.Tags) > 0 {
		b.WriteString("<div class=\"tags\">")
		for _, t := range post.Tags {
			b.WriteString("<a class=\"tag\" href=\"/catatan/?tag=" + PathEscape(t) + "\">" + esc(t) + "</a>")
		}
		b.WriteString("</div>")
	}
	b.WriteString("</article>")

	related := RelatedPosts(post, all)
	if len(related) > 3 {
		related = related[:3]
	}
	if len(related) > 0 {
		b.WriteString("<section><h2>Catatan Terkait</h2><div class=\"grid\" role=\"list\">")
		for _, p := range related {
			b.WriteString(postCard(p))
		}
		b.WriteString("</div></section>")
	}
	b.WriteString("<script type=\"application/ld+json\">" + ArticleJsonLD(site, post) + "</script>")

	meta := PageMeta{
		Title:       post.Title + " - " + site.Name,
		Description: post.Excerpt,
		URL:         buildURL(site.URL, "catatan", post.Slug),
		OGType:      "article",
	}
	return layout(site, meta, "catatan", b.String())
}

func eventItem(ev content.Event) string {
	var b strings.Builder
	b.WriteString("<div class=\"agenda__item\">")
	b.WriteString("<div class=\"agenda__date\" aria-label=\"Tanggal kegiatan\">" + esc(FormatDateID(ev.Date)) + "</div>")
	b.WriteString("<div><h3>" + esc(ev.Title) + "</h3>")
	b.WriteString("<div class=\"meta\">" + esc(ev.Location) + " &bull; " + esc(FormatDateID(ev.Date)) + "&ndash;" + esc(FormatDateID(ev.End)) + "</div>")
	b.WriteString("<p>Penyelenggara: " + esc(ev.Organizer) + "</p>")
	if ev.URL != "" && ev.URL != "#" {
		b.WriteString("<a class=\"btn btn--solid\" href=\"" + esc(ev.URL) + "\" rel=\"noopener\">Detail / Daftar</a>")
	}
	b.WriteString("</div></div>")
	return b.String()
}

// Events renders the agenda list, newest start date first.
func Events(site Site, events []content.Event, q string) templ.Component {
	filtered := FilterEvents(SortEventsByDate(events), q)

	var b strings.Builder
	b.WriteString("<h1>Agenda Kegiatan</h1>")
	b.WriteString("<form class=\"filterbar\" method=\"get\" action=\"/agenda/\">")
	b.WriteString("<input type=\"search\" name=\"q\" value=\"" + esc(q) + "\" placeholder=\"Cari agenda...\" aria-label=\"Cari agenda\"/>")
	b.WriteString("<button class=\"btn\" type=\"submit\">Cari</button></form>")
	if len(filtered) == 0 {
		b.WriteString("<p class=\"empty\">Tidak ada agenda sesuai filter.</p>")
	}
	for _, ev := range filtered {
		b.WriteString(eventItem(ev))
	}

	meta := PageMeta{
		Title:       "Agenda - " + site.Name,
		Description: site.Description,
		URL:         buildURL(site.URL, "agenda"),
		OGType:      "website",
	}
	return layout(site, meta, "agenda", b.String())
}

// Albums renders the photo-album gallery.
func Albums(site Site, albums []content.Album, q string) templ.Component {
	filtered := FilterAlbums(albums, q)

	var b strings.Builder
	b.WriteString("<h1>Galeri</h1>")
	b.WriteString("<form class=\"filterbar\" method=\"get\" action=\"/galeri/\">")
	b.WriteString("<input type=\"search\" name=\"q\" value=\"" + esc(q) + "\" placeholder=\"Cari album...\" aria-label=\"Cari album\"/>")
	b.WriteString("<button class=\"btn\" type=\"submit\">Cari</button></form>")
	if len(filtered) == 0 {
		b.WriteString("<p class=\"empty\">Tidak ada album sesuai filter.</p>")
	} else {
		b.WriteString("<div class=\"grid\" role=\"list\">")
		for _, al := range filtered {
			b.WriteString("<div class=\"card\" role=\"listitem\">")
			b.WriteString(coverMedia(al.Cover, "Album "+al.Title))
			b.WriteString("<div class=\"card__body\"><h3 class=\"card__title\">" + esc(al.Title) + "</h3>")
			b.WriteString("<div class=\"meta\">" + esc(al.Location) + " &bull; " + strconv.Itoa(al.Year) + " &bull; " + strconv.Itoa(al.Count) + " foto/video</div>")
			b.WriteString("</div></div>")
		}
		b.WriteString("</div>")
	}

	meta := PageMeta{
		Title:       "Galeri - " + site.Name,
		Description: site.Description,
		URL:         buildURL(site.URL, "galeri"),
		OGType:      "website",
	}
	return layout(site, meta, "galeri", b.String())
}

// Downloads renders the document table with search and category facets.
func Downloads(site Site, items []content.Download, q, category string) templ.Component {
	filtered := FilterDownloads(items, q, category)

	var b strings.Builder
	b.WriteString("<h1>Pusat Unduhan</h1>")
	b.WriteString("<form class=\"filterbar\" method=\"get\" action=\"/download/\">")
	b.WriteString("<input type=\"search\" name=\"q\" value=\"" + esc(q) + "\" placeholder=\"Cari dokumen...\" aria-label=\"Cari dokumen\"/>")
	b.WriteString(selectBox("category", "Semua kategori", DownloadCategories(items), category))
	b.WriteString("<button class=\"btn\" type=\"submit\">Filter</button></form>")

	b.WriteString("<table><thead><tr><th>Judul</th><th>Kategori</th><th>Deskripsi</th><th></th><th>Diperbarui</th></tr></thead><tbody>")
	if len(filtered) == 0 {
		b.WriteString("<tr><td colspan=\"5\" class=\"empty\">Tidak ada dokumen sesuai filter.</td></tr>")
	}
	for _, d := range filtered {
		b.WriteString("<tr><td>" + esc(d.Title) + "</td><td>" + esc(d.Category) + "</td><td>" + esc(d.Desc) + "</td>")
		b.WriteString("<td class=\"table-actions\"><a href=\"" + esc(d.File) + "\">Unduh</a></td>")
		b.WriteString("<td>" + esc(FormatDateID(d.Updated)) + "</td></tr>")
	}
	b.WriteString("</tbody></table>")

	meta := PageMeta{
		Title:       "Download - " + site.Name,
		Description: site.Description,
		URL:         buildURL(site.URL, "download"),
		OGType:      "website",
	}
	return layout(site, meta, "download", b.String())
}

// PPID renders the public-disclosure document table with type and year facets.
func PPID(site Site, docs []content.PPIDDoc, q, typ, year string) templ.Component {
	filtered := FilterPPID(docs, q, typ, year)

	var b strings.Builder
	b.WriteString("<h1>PPID - Informasi Publik</h1>")
	b.WriteString("<form class=\"filterbar\" method=\"get\" action=\"/ppid/\">")
	b.WriteString("<input type=\"search\" name=\"q\" value=\"" + esc(q) + "\" placeholder=\"Cari dokumen...\" aria-label=\"Cari dokumen\"/>")
	b.WriteString("<select name=\"type\" aria-label=\"Jenis informasi\"><option value=\"\">Semua jenis</option>")
	for _, t := range []string{"berkala", "setiap_saat", "serta_merta"} {
		b.WriteString("<option value=\"" + t + "\"")
		if t == typ {
			b.WriteString(" selected")
		}
		b.WriteString(">" + PPIDTypeLabel(t) + "</option>")
	}
	b.WriteString("</select>")
	b.WriteString("<select name=\"year\" aria-label=\"Tahun\"><option value=\"\">Semua tahun</option>")
	for _, y := range PPIDYears(docs) {
		ys := strconv.Itoa(y)
		b.WriteString("<option value=\"" + ys + "\"")
		if ys == year {
			b.WriteString(" selected")
		}
		b.WriteString(">" + ys + "</option>")
	}
	b.WriteString("</select>")
	b.WriteString("<button class=\"btn\" type=\"submit\">Filter</button></form>")

	b.WriteString("<table><thead><tr><th>Judul</th><th>Nomor / Tahun</th><th>Jenis</th><th>Unit</th><th>Terbit</th><th></th></tr></thead><tbody>")
	if len(filtered) == 0 {
		b.WriteString("<tr><td colspan=\"6\" class=\"empty\">Tidak ada dokumen sesuai filter.</td></tr>")
	}
	for _, d := range filtered {
		number := d.Number
		if number == "" {
			number = "-"
		}
		b.WriteString("<tr><td>" + esc(d.Title) + "</td>")
		b.WriteString("<td>" + esc(number) + " / " + strconv.Itoa(d.Year) + "</td>")
		b.WriteString("<td>" + PPIDTypeLabel(d.Type) + "</td>")
		b.WriteString("<td>" + esc(d.Unit) + "</td>")
		b.WriteString("<td>" + esc(FormatDateID(d.Published)) + "</td>")
		b.WriteString("<td class=\"table-actions\"><a href=\"" + esc(d.File) + "\">Unduh</a></td></tr>")
	}
	b.WriteString("</tbody></table>")

	meta := PageMeta{
		Title:       "PPID - " + site.Name,
		Description: site.Description,
		URL:         buildURL(site.URL, "ppid"),
		OGType:      "website",
	}
	return layout(site, meta, "ppid", b.String())
}

func selectBox(name, emptyLabel string, options []string, selected string) string {
	var b strings.Builder
	b.WriteString("<select name=\"" + name + "\" aria-label=\"" + esc(emptyLabel) + "\">")
	b.WriteString("<option value=\"\">" + esc(emptyLabel) + "</option>")
	for _, opt := range options {
		b.WriteString("<option value=\"" + esc(opt) + "\"")
		if opt == selected {
			b.WriteString(" selected")
		}
		b.WriteString(">" + esc(opt) + "</option>")
	}
	b.WriteString("</select>")
	return b.String()
}

// RelatedPosts returns posts sharing at least one tag with the current post.
func RelatedPosts(current content.Post, posts []content.Post) []content.Post {
	tagSet := make(map[string]struct{})
	for _, t := range current.Tags {
		tag := strings.ToLower(strings.TrimSpace(t))
		if tag != "" {
			tagSet[tag] = struct{}{}
		}
	}
	var related []content.Post
	for _, p := range posts {
		if p.Slug == current.Slug {
			continue
		}
		for _, t := range p.Tags {
			tag := strings.ToLower(strings.TrimSpace(t))
			if _, ok := tagSet[tag]; ok {
				related = append(related, p)
				break
			}
		}
	}
	return related
}
