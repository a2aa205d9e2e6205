package views

import (
	"strconv"
	"strings"

	"github.com/a-h/templ"

	"github.com/kwarda-kaltara/sitecms/content"
)

type adminNav struct {
	Href  string
	Label string
	Key   string
}

var adminLinks = []adminNav{
	{"/admin/", "Dashboard", "dashboard"},
	{"/admin/posts/", "Berita", "posts"},
	{"/admin/events/", "Agenda", "events"},
	{"/admin/albums/", "Galeri", "albums"},
	{"/admin/data/", "Data", "data"},
	{"/admin/settings/", "Pengaturan", "settings"},
}

func adminLayout(site Site, title, active, msg string, remote RemoteStatus, csrf, body string) templ.Component {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html><html lang=\"id\"><head>")
	b.WriteString("<meta charset=\"utf-8\"/>")
	b.WriteString("<meta name=\"viewport\" content=\"width=device-width, initial-scale=1\"/>")
	b.WriteString("<meta name=\"robots\" content=\"noindex\"/>")
	b.WriteString("<title>" + esc(title) + " - Admin " + esc(site.Name) + "</title>")
	b.WriteString("<link rel=\"stylesheet\" href=\"/public/admin.css\"/>")
	b.WriteString("</head><body class=\"admin\">")

	b.WriteString("<aside class=\"sidebar\"><div class=\"sidebar__brand\">" + esc(site.Name) + "</div><nav><ul>")
	for _, l := range adminLinks {
		b.WriteString("<li><a href=\"" + l.Href + "\"")
		if l.Key == active {
			b.WriteString(" class=\"active\"")
		}
		b.WriteString(">" + esc(l.Label) + "</a></li>")
	}
	b.WriteString("</ul></nav></aside>")

	b.WriteString("<div class=\"admin__main\"><header class=\"admin__header\">")
	b.WriteString("<h1>" + esc(title) + "</h1><div class=\"admin__header-right\">")
	if remote.Enabled {
		if remote.LastErr == "" {
			b.WriteString("<span class=\"status status--connected\" title=\"Tersambung ke database\">&#9679; Database</span>")
		} else {
			b.WriteString("<span class=\"status status--error\" title=\"" + esc(remote.LastErr) + "\">&#9679; Sinkronisasi gagal</span>")
		}
	} else {
		b.WriteString("<span class=\"status status--local\" title=\"Menggunakan penyimpanan lokal\">&#9679; Lokal</span>")
	}
	b.WriteString("<form method=\"post\" action=\"/admin/logout/\">" + csrfField(csrf) +
		"<button class=\"btn btn--secondary\" type=\"submit\">Keluar</button></form>")
	b.WriteString("</div></header>")

	if msg != "" {
		b.WriteString("<div class=\"toast show\" role=\"status\">" + esc(msg) + "</div>")
	}
	b.WriteString("<main class=\"admin__content\">" + body + "</main></div>")
	b.WriteString("</body></html>")
	return raw(b.String())
}

func csrfField(csrf string) string {
	return "<input type=\"hidden\" name=\"_csrf\" value=\"" + esc(csrf) + "\"/>"
}

func formField(label, input string) string {
	return "<div class=\"form-group\"><label>" + esc(label) + "</label>" + input + "</div>"
}

func textInput(name, value, placeholder string, required bool) string {
	s := "<input type=\"text\" name=\"" + name + "\" value=\"" + esc(value) + "\" placeholder=\"" + esc(placeholder) + "\""
	if required {
		s += " required"
	}
	return s + "/>"
}

func dateInput(name, value string, required bool) string {
	s := "<input type=\"date\" name=\"" + name + "\" value=\"" + esc(value) + "\""
	if required {
		s += " required"
	}
	return s + "/>"
}

func coverFields(cover string) string {
	var b strings.Builder
	b.WriteString(formField("Gambar Cover", "<input type=\"file\" name=\"cover_file\" accept=\"image/*\"/>"))
	b.WriteString(formField("Atau URL Gambar", textInput("cover", cover, "https://...", false)))
	if cover != "" {
		b.WriteString("<div class=\"cover-preview\"><img src=\"" + esc(cover) + "\" alt=\"Cover saat ini\"/></div>")
	}
	return b.String()
}

// AdminLogin renders the credential form, optionally with an error banner.
func AdminLogin(site Site, showError bool, csrf string) templ.Component {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html><html lang=\"id\"><head>")
	b.WriteString("<meta charset=\"utf-8\"/><meta name=\"robots\" content=\"noindex\"/>")
	b.WriteString("<title>Masuk - Admin " + esc(site.Name) + "</title>")
	b.WriteString("<link rel=\"stylesheet\" href=\"/public/admin.css\"/>")
	b.WriteString("</head><body class=\"admin admin--login\">")
	b.WriteString("<div class=\"login-card\"><h1>" + esc(site.Name) + "</h1><p>Panel Admin</p>")
	if showError {
		b.WriteString("<div class=\"error\" role=\"alert\">Username atau password salah</div>")
	}
	b.WriteString("<form method=\"post\" action=\"/admin/login/\">" + csrfField(csrf))
	b.WriteString(formField("Username", "<input type=\"text\" name=\"username\" required autofocus/>"))
	b.WriteString(formField("Password", "<input type=\"password\" name=\"password\" required/>"))
	b.WriteString("<button class=\"btn btn--primary\" type=\"submit\">Masuk</button></form>")
	b.WriteString("</div></body></html>")
	return raw(b.String())
}

// AdminDashboard renders collection counts and the five most recent posts.
func AdminDashboard(site Site, stats DashboardStats, recent []content.Post, remote RemoteStatus, msg, csrf string) templ.Component {
	var b strings.Builder
	b.WriteString("<div class=\"stats\">")
	b.WriteString(statCard("Berita", stats.Posts))
	b.WriteString(statCard("Agenda", stats.Events))
	b.WriteString(statCard("Album", stats.Albums))
	b.WriteString(statCard("Dokumen", stats.Downloads))
	b.WriteString("</div>")

	b.WriteString("<section><h2>Berita Terbaru</h2>")
	if len(recent) == 0 {
		b.WriteString("<p class=\"empty\">Belum ada berita.</p>")
	}
	for _, p := range recent {
		category := p.Category
		if category == "" {
			category = "Umum"
		}
		b.WriteString("<div class=\"recent-item\"><div class=\"recent-item__info\">")
		b.WriteString("<strong>" + esc(p.Title) + "</strong>")
		b.WriteString("<div class=\"recent-item__meta\">" + esc(p.Location) + " &bull; " + esc(FormatDateID(p.Date)) + "</div>")
		b.WriteString("</div><span class=\"recent-item__category\">" + esc(category) + "</span></div>")
	}
	b.WriteString("</section>")
	return adminLayout(site, "Dashboard", "dashboard", msg, remote, csrf, b.String())
}

func statCard(label string, n int) string {
	return "<div class=\"stat-card\"><div class=\"stat-card__value\">" + strconv.Itoa(n) + "</div>" +
		"<div class=\"stat-card__label\">" + esc(label) + "</div></div>"
}

// AdminPosts renders the post management table with search and category filter.
func AdminPosts(site Site, posts []content.Post, q, category, msg string, remote RemoteStatus, csrf string) templ.Component {
	all := SortPostsByDate(posts)
	filtered := FilterPosts(all, q, category, "")

	var b strings.Builder
	b.WriteString("<div class=\"section-actions\"><a class=\"btn btn--primary\" href=\"/admin/posts/new/\">Tambah Berita</a></div>")
	b.WriteString("<form class=\"filterbar\" method=\"get\" action=\"/admin/posts/\">")
	b.WriteString("<input type=\"search\" name=\"q\" value=\"" + esc(q) + "\" placeholder=\"Cari berita...\"/>")
	b.WriteString(selectBox("category", "Semua kategori", PostCategories(all), category))
	b.WriteString("<button class=\"btn\" type=\"submit\">Filter</button></form>")

	b.WriteString("<table><thead><tr><th>Judul</th><th>Kategori</th><th>Tanggal</th><th>Lokasi</th><th></th></tr></thead><tbody>")
	if len(filtered) == 0 {
		b.WriteString("<tr><td colspan=\"5\" class=\"empty\">Tidak ada berita.</td></tr>")
	}
	for _, p := range filtered {
		b.WriteString("<tr><td>" + esc(p.Title) + "</td><td>" + esc(p.Category) + "</td>")
		b.WriteString("<td>" + esc(FormatDateID(p.Date)) + "</td><td>" + esc(p.Location) + "</td>")
		b.WriteString("<td class=\"table-actions\">")
		b.WriteString("<a href=\"/admin/posts/" + PathEscape(p.Slug) + "/\">Edit</a>")
		b.WriteString("<form method=\"post\" action=\"/admin/posts/" + PathEscape(p.Slug) + "/delete/\" onsubmit=\"return confirm('Yakin ingin menghapus berita ini?')\">")
		b.WriteString(csrfField(csrf) + "<button class=\"btn--link\" type=\"submit\">Hapus</button></form>")
		b.WriteString("</td></tr>")
	}
	b.WriteString("</tbody></table>")
	return adminLayout(site, "Kelola Berita", "posts", msg, remote, csrf, b.String())
}

// AdminPostForm renders the add/edit form for one post.
func AdminPostForm(site Site, post content.Post, isNew bool, remote RemoteStatus, csrf string) templ.Component {
	title := "Edit Berita"
	action := "/admin/posts/" + PathEscape(post.Slug) + "/save/"
	submit := "Simpan Perubahan"
	if isNew {
		title = "Tambah Berita Baru"
		action = "/admin/posts/save/"
		submit = "Tambah Berita"
	}

	var b strings.Builder
	b.WriteString("<form method=\"post\" action=\"" + action + "\" enctype=\"multipart/form-data\">" + csrfField(csrf))
	b.WriteString(formField("Judul Berita *", textInput("title", post.Title, "Judul kegiatan atau berita", true)))
	b.WriteString(formField("Kategori", selectBox("category", "Pilih kategori", []string{"Kegiatan", "Prestasi", "Pengumuman", "Pelatihan"}, post.Category)))
	b.WriteString(formField("Tanggal *", dateInput("date", post.Date, true)))
	b.WriteString(formField("Lokasi *", textInput("location", post.Location, "Kota/Kabupaten", true)))
	b.WriteString(formField("Ringkasan *", "<textarea name=\"excerpt\" rows=\"2\" required>"+esc(post.Excerpt)+"</textarea>"))
	b.WriteString(formField("Isi Berita", "<textarea name=\"content\" rows=\"8\" placeholder=\"Pisahkan paragraf dengan baris kosong\">"+esc(strings.Join(post.Content, "\n\n"))+"</textarea>"))
	b.WriteString(formField("Tags", textInput("tags", JoinTags(post.Tags), "pisahkan, dengan, koma", false)))
	b.WriteString(coverFields(post.Cover))
	b.WriteString("<div class=\"form-actions\"><a class=\"btn btn--secondary\" href=\"/admin/posts/\">Batal</a>")
	b.WriteString("<button class=\"btn btn--primary\" type=\"submit\">" + submit + "</button></div></form>")
	return adminLayout(site, title, "posts", "", remote, csrf, b.String())
}

// AdminEvents renders the agenda management table.
func AdminEvents(site Site, events []content.Event, msg string, remote RemoteStatus, csrf string) templ.Component {
	var b strings.Builder
	b.WriteString("<div class=\"section-actions\"><a class=\"btn btn--primary\" href=\"/admin/events/new/\">Tambah Agenda</a></div>")
	b.WriteString("<table><thead><tr><th>Judul</th><th>Mulai</th><th>Selesai</th><th>Lokasi</th><th>Penyelenggara</th><th></th></tr></thead><tbody>")
	if len(events) == 0 {
		b.WriteString("<tr><td colspan=\"6\" class=\"empty\">Belum ada agenda.</td></tr>")
	}
	for i, ev := range events {
		idx := strconv.Itoa(i)
		b.WriteString("<tr><td>" + esc(ev.Title) + "</td><td>" + esc(FormatDateID(ev.Date)) + "</td>")
		b.WriteString("<td>" + esc(FormatDateID(ev.End)) + "</td><td>" + esc(ev.Location) + "</td><td>" + esc(ev.Organizer) + "</td>")
		b.WriteString("<td class=\"table-actions\">")
		b.WriteString("<a href=\"/admin/events/" + idx + "/\">Edit</a>")
		b.WriteString("<form method=\"post\" action=\"/admin/events/" + idx + "/delete/\" onsubmit=\"return confirm('Yakin ingin menghapus agenda ini?')\">")
		b.WriteString(csrfField(csrf) + "<button class=\"btn--link\" type=\"submit\">Hapus</button></form>")
		b.WriteString("</td></tr>")
	}
	b.WriteString("</tbody></table>")
	return adminLayout(site, "Kelola Agenda", "events", msg, remote, csrf, b.String())
}

// AdminEventForm renders the add/edit form for one agenda entry.
func AdminEventForm(site Site, ev content.Event, idx int, isNew bool, remote RemoteStatus, csrf string) templ.Component {
	title := "Edit Agenda"
	action := "/admin/events/" + strconv.Itoa(idx) + "/save/"
	submit := "Simpan Perubahan"
	if isNew {
		title = "Tambah Agenda Baru"
		action = "/admin/events/save/"
		submit = "Tambah Agenda"
	}

	var b strings.Builder
	b.WriteString("<form method=\"post\" action=\"" + action + "\">" + csrfField(csrf))
	b.WriteString(formField("Judul Agenda *", textInput("title", ev.Title, "Nama kegiatan", true)))
	b.WriteString(formField("Tanggal Mulai *", dateInput("date", ev.Date, true)))
	b.WriteString(formField("Tanggal Selesai *", dateInput("end", ev.End, true)))
	b.WriteString(formField("Lokasi *", textInput("location", ev.Location, "Kota/Kabupaten", true)))
	b.WriteString(formField("Penyelenggara *", textInput("organizer", ev.Organizer, "Nama penyelenggara", true)))
	b.WriteString(formField("URL Pendaftaran", textInput("url", ev.URL, "https://example.com/daftar", false)))
	b.WriteString("<div class=\"form-actions\"><a class=\"btn btn--secondary\" href=\"/admin/events/\">Batal</a>")
	b.WriteString("<button class=\"btn btn--primary\" type=\"submit\">" + submit + "</button></div></form>")
	return adminLayout(site, title, "events", "", remote, csrf, b.String())
}

// AdminAlbums renders the gallery management grid.
func AdminAlbums(site Site, albums []content.Album, msg string, remote RemoteStatus, csrf string) templ.Component {
	var b strings.Builder
	b.WriteString("<div class=\"section-actions\"><a class=\"btn btn--primary\" href=\"/admin/albums/new/\">Tambah Album</a></div>")
	if len(albums) == 0 {
		b.WriteString("<p class=\"empty\">Belum ada album.</p>")
	} else {
		b.WriteString("<div class=\"grid\">")
		for i, al := range albums {
			idx := strconv.Itoa(i)
			b.WriteString("<div class=\"card\">")
			b.WriteString(coverMedia(al.Cover, "Album "+al.Title))
			b.WriteString("<div class=\"card__body\"><h3 class=\"card__title\">" + esc(al.Title) + "</h3>")
			b.WriteString("<div class=\"meta\">" + esc(al.Location) + " &bull; " + strconv.Itoa(al.Year) + " &bull; " + strconv.Itoa(al.Count) + " foto</div>")
			b.WriteString("<div class=\"table-actions\">")
			b.WriteString("<a href=\"/admin/albums/" + idx + "/\">Edit</a>")
			b.WriteString("<form method=\"post\" action=\"/admin/albums/" + idx + "/delete/\" onsubmit=\"return confirm('Yakin ingin menghapus album ini?')\">")
			b.WriteString(csrfField(csrf) + "<button class=\"btn--link\" type=\"submit\">Hapus</button></form>")
			b.WriteString("</div></div></div>")
		}
		b.WriteString("</div>")
	}
	return adminLayout(site, "Kelola Galeri", "albums", msg, remote, csrf, b.String())
}

// AdminAlbumForm renders the add/edit form for one album.
func AdminAlbumForm(site Site, al content.Album, idx int, isNew bool, remote RemoteStatus, csrf string) templ.Component {
	title := "Edit Album"
	action := "/admin/albums/" + strconv.Itoa(idx) + "/save/"
	submit := "Simpan Perubahan"
	if isNew {
		title = "Tambah Album Baru"
		action = "/admin/albums/save/"
		submit = "Tambah Album"
	}
	year := ""
	if al.Year != 0 {
		year = strconv.Itoa(al.Year)
	}

	var b strings.Builder
	b.WriteString("<form method=\"post\" action=\"" + action + "\" enctype=\"multipart/form-data\">" + csrfField(csrf))
	b.WriteString(formField("Judul Album *", textInput("title", al.Title, "Nama album", true)))
	b.WriteString(formField("Lokasi *", textInput("location", al.Location, "Kota/Kabupaten", true)))
	b.WriteString(formField("Tahun *", "<input type=\"number\" name=\"year\" value=\""+year+"\" min=\"2000\" max=\"2100\" required/>"))
	b.WriteString(formField("Jumlah Foto *", "<input type=\"number\" name=\"count\" value=\""+strconv.Itoa(al.Count)+"\" min=\"0\" required/>"))
	b.WriteString(coverFields(al.Cover))
	b.WriteString("<div class=\"form-actions\"><a class=\"btn btn--secondary\" href=\"/admin/albums/\">Batal</a>")
	b.WriteString("<button class=\"btn btn--primary\" type=\"submit\">" + submit + "</button></div></form>")
	return adminLayout(site, title, "albums", "", remote, csrf, b.String())
}

// AdminData renders export, import, and reset controls.
func AdminData(site Site, msg string, remote RemoteStatus, csrf string) templ.Component {
	var b strings.Builder
	b.WriteString("<section><h2>Export Data</h2><p>Unduh seluruh konten sebagai berkas JSON.</p>")
	b.WriteString("<a class=\"btn\" href=\"/admin/data/export/\">Export Data</a></section>")

	b.WriteString("<section><h2>Import Data</h2><p>Berkas harus memuat kunci <code>posts</code>, <code>events</code>, dan <code>albums</code>.</p>")
	b.WriteString("<form method=\"post\" action=\"/admin/data/import/\" enctype=\"multipart/form-data\">" + csrfField(csrf))
	b.WriteString("<input type=\"file\" name=\"file\" accept=\"application/json\" required/>")
	b.WriteString("<button class=\"btn btn--primary\" type=\"submit\">Import</button></form></section>")

	b.WriteString("<section><h2>Reset Data</h2><p>Kembalikan konten lokal ke bawaan. Database tidak tersentuh.</p>")
	b.WriteString("<form method=\"post\" action=\"/admin/data/reset/\" onsubmit=\"return confirm('Yakin ingin mereset semua data lokal?')\">")
	b.WriteString(csrfField(csrf) + "<button class=\"btn btn--danger\" type=\"submit\">Reset ke Bawaan</button></form></section>")
	return adminLayout(site, "Kelola Data", "data", msg, remote, csrf, b.String())
}

// AdminSettings renders the credential change form.
func AdminSettings(site Site, username, msg string, remote RemoteStatus, csrf string) templ.Component {
	var b strings.Builder
	b.WriteString("<form method=\"post\" action=\"/admin/settings/\">" + csrfField(csrf))
	b.WriteString(formField("Username Baru", textInput("username", "", username, false)))
	b.WriteString(formField("Password Baru", "<input type=\"password\" name=\"password\"/>"))
	b.WriteString(formField("Konfirmasi Password", "<input type=\"password\" name=\"confirm\"/>"))
	b.WriteString("<div class=\"form-actions\"><button class=\"btn btn--primary\" type=\"submit\">Simpan Pengaturan</button></div></form>")
	return adminLayout(site, "Pengaturan", "settings", msg, remote, csrf, b.String())
}
