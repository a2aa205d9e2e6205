package sitecms

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/kwarda-kaltara/sitecms/content"
	"github.com/kwarda-kaltara/sitecms/views"
)

const msgRequiredFields = "Mohon lengkapi semua field yang wajib"

func (a *App) remoteStatus() views.RemoteStatus {
	st := views.RemoteStatus{Enabled: a.Coord.RemoteEnabled()}
	if err := a.Coord.LastSyncError(); err != nil {
		st.LastErr = err.Error()
	}
	return st
}

func adminRedirect(c echo.Context, path, msg string) error {
	if msg != "" {
		path += "?msg=" + url.QueryEscape(msg)
	}
	return c.Redirect(http.StatusSeeOther, path)
}

// requireAdmin gates every dashboard route behind the session cookie
// and the locally persisted authenticated flag.
func (a *App) requireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !IsAdmin(c) || !a.Auth.Authenticated() {
			if c.Request().Method != http.MethodGet {
				return c.Redirect(http.StatusSeeOther, "/admin/")
			}
			return Render(c, views.AdminLogin(a.site(), false, CsrfToken(c)))
		}
		return next(c)
	}
}

func (a *App) handleAdminLogin(c echo.Context) error {
	ip := c.RealIP()
	if !a.loginLimiter.Check(ip) {
		return c.String(http.StatusTooManyRequests, "Terlalu banyak percobaan masuk. Coba lagi nanti.")
	}
	username := c.FormValue("username")
	password := c.FormValue("password")
	if !a.Auth.Login(username, password) {
		a.loginLimiter.Record(ip)
		return Render(c, views.AdminLogin(a.site(), true, CsrfToken(c)))
	}
	if err := setAdminSession(c); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/admin/")
}

func (a *App) handleAdminLogout(c echo.Context) error {
	if err := a.Auth.Logout(); err != nil {
		return err
	}
	if err := clearAdminSession(c); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/admin/")
}

func (a *App) handleAdminDashboard(c echo.Context) error {
	data := a.Coord.Snapshot()
	stats := views.DashboardStats{
		Posts:     len(data.Posts),
		Events:    len(data.Events),
		Albums:    len(data.Albums),
		Downloads: len(data.Downloads),
	}
	recent := views.SortPostsByDate(data.Posts)
	if len(recent) > 5 {
		recent = recent[:5]
	}
	return Render(c, views.AdminDashboard(a.site(), stats, recent, a.remoteStatus(), c.QueryParam("msg"), CsrfToken(c)))
}

// ---- Posts ----

func (a *App) handleAdminPosts(c echo.Context) error {
	data := a.Coord.Snapshot()
	return Render(c, views.AdminPosts(a.site(), data.Posts,
		c.QueryParam("q"), c.QueryParam("category"), c.QueryParam("msg"),
		a.remoteStatus(), CsrfToken(c)))
}

func (a *App) handleAdminPostNew(c echo.Context) error {
	post := content.Post{Date: time.Now().Format("2006-01-02")}
	return Render(c, views.AdminPostForm(a.site(), post, true, a.remoteStatus(), CsrfToken(c)))
}

func (a *App) handleAdminPostEdit(c echo.Context) error {
	slug := c.Param("slug")
	data := a.Coord.Snapshot()
	for _, p := range data.Posts {
		if p.Slug == slug {
			return Render(c, views.AdminPostForm(a.site(), p, false, a.remoteStatus(), CsrfToken(c)))
		}
	}
	return c.NoContent(http.StatusNotFound)
}

func (a *App) postFromForm(c echo.Context, existing content.Post) (content.Post, string) {
	title := strings.TrimSpace(c.FormValue("title"))
	date := strings.TrimSpace(c.FormValue("date"))
	location := strings.TrimSpace(c.FormValue("location"))
	excerpt := strings.TrimSpace(c.FormValue("excerpt"))
	if title == "" || date == "" || location == "" || excerpt == "" {
		return content.Post{}, msgRequiredFields
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return content.Post{}, "Format tanggal tidak valid"
	}
	category := c.FormValue("category")
	if category == "" {
		category = "Kegiatan"
	}
	cover, msg := a.coverFromForm(c)
	if msg != "" {
		return content.Post{}, msg
	}
	return content.Post{
		RemoteID: existing.RemoteID,
		Title:    title,
		Slug:     existing.Slug,
		Category: category,
		Date:     date,
		Location: location,
		Excerpt:  excerpt,
		Content:  SplitParagraphs(c.FormValue("content")),
		Tags:     SplitTags(c.FormValue("tags")),
		Cover:    cover,
	}, ""
}

func (a *App) handleAdminPostCreate(c echo.Context) error {
	post, msg := a.postFromForm(c, content.Post{})
	if msg != "" {
		return adminRedirect(c, "/admin/posts/", msg)
	}
	if _, err := a.Coord.AddPost(post); err != nil {
		return err
	}
	return adminRedirect(c, "/admin/posts/", "Berita berhasil ditambahkan")
}

func (a *App) handleAdminPostUpdate(c echo.Context) error {
	slug := c.Param("slug")
	var existing content.Post
	found := false
	for _, p := range a.Coord.Snapshot().Posts {
		if p.Slug == slug {
			existing, found = p, true
			break
		}
	}
	if !found {
		return c.NoContent(http.StatusNotFound)
	}
	post, msg := a.postFromForm(c, existing)
	if msg != "" {
		return adminRedirect(c, "/admin/posts/", msg)
	}
	a.deleteReplacedCover(c, existing.Cover, post.Cover)
	if err := a.Coord.UpdatePost(slug, post); err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.NoContent(http.StatusNotFound)
		}
		return err
	}
	return adminRedirect(c, "/admin/posts/", "Berita berhasil diperbarui")
}

func (a *App) handleAdminPostDelete(c echo.Context) error {
	slug := c.Param("slug")
	for _, p := range a.Coord.Snapshot().Posts {
		if p.Slug == slug {
			a.deleteReplacedCover(c, p.Cover, "")
			break
		}
	}
	if err := a.Coord.DeletePost(slug); err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.NoContent(http.StatusNotFound)
		}
		return err
	}
	return adminRedirect(c, "/admin/posts/", "Berita berhasil dihapus")
}

// ---- Events ----

func (a *App) handleAdminEvents(c echo.Context) error {
	data := a.Coord.Snapshot()
	return Render(c, views.AdminEvents(a.site(), data.Events, c.QueryParam("msg"), a.remoteStatus(), CsrfToken(c)))
}

func (a *App) handleAdminEventNew(c echo.Context) error {
	return Render(c, views.AdminEventForm(a.site(), content.Event{}, 0, true, a.remoteStatus(), CsrfToken(c)))
}

func (a *App) handleAdminEventEdit(c echo.Context) error {
	idx, err := strconv.Atoi(c.Param("idx"))
	if err != nil {
		return c.NoContent(http.StatusNotFound)
	}
	data := a.Coord.Snapshot()
	if idx < 0 || idx >= len(data.Events) {
		return c.NoContent(http.StatusNotFound)
	}
	return Render(c, views.AdminEventForm(a.site(), data.Events[idx], idx, false, a.remoteStatus(), CsrfToken(c)))
}

func eventFromForm(c echo.Context, existing content.Event) (content.Event, string) {
	title := strings.TrimSpace(c.FormValue("title"))
	date := strings.TrimSpace(c.FormValue("date"))
	end := strings.TrimSpace(c.FormValue("end"))
	location := strings.TrimSpace(c.FormValue("location"))
	organizer := strings.TrimSpace(c.FormValue("organizer"))
	if title == "" || date == "" || end == "" || location == "" || organizer == "" {
		return content.Event{}, msgRequiredFields
	}
	eventURL := strings.TrimSpace(c.FormValue("url"))
	if eventURL == "" {
		eventURL = "#"
	}
	return content.Event{
		RemoteID:  existing.RemoteID,
		Title:     title,
		Date:      date,
		End:       end,
		Location:  location,
		Organizer: organizer,
		URL:       eventURL,
	}, ""
}

func (a *App) handleAdminEventCreate(c echo.Context) error {
	ev, msg := eventFromForm(c, content.Event{})
	if msg != "" {
		return adminRedirect(c, "/admin/events/", msg)
	}
	if err := a.Coord.AddEvent(ev); err != nil {
		return err
	}
	return adminRedirect(c, "/admin/events/", "Agenda berhasil ditambahkan")
}

func (a *App) handleAdminEventUpdate(c echo.Context) error {
	idx, err := strconv.Atoi(c.Param("idx"))
	if err != nil {
		return c.NoContent(http.StatusNotFound)
	}
	data := a.Coord.Snapshot()
	if idx < 0 || idx >= len(data.Events) {
		return c.NoContent(http.StatusNotFound)
	}
	ev, msg := eventFromForm(c, data.Events[idx])
	if msg != "" {
		return adminRedirect(c, "/admin/events/", msg)
	}
	if err := a.Coord.UpdateEvent(idx, ev); err != nil {
		return err
	}
	return adminRedirect(c, "/admin/events/", "Agenda berhasil diperbarui")
}

func (a *App) handleAdminEventDelete(c echo.Context) error {
	idx, err := strconv.Atoi(c.Param("idx"))
	if err != nil {
		return c.NoContent(http.StatusNotFound)
	}
	if err := a.Coord.DeleteEvent(idx); err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.NoContent(http.StatusNotFound)
		}
		return err
	}
	return adminRedirect(c, "/admin/events/", "Agenda berhasil dihapus")
}

// ---- Albums ----

func (a *App) handleAdminAlbums(c echo.Context) error {
	data := a.Coord.Snapshot()
	return Render(c, views.AdminAlbums(a.site(), data.Albums, c.QueryParam("msg"), a.remoteStatus(), CsrfToken(c)))
}

func (a *App) handleAdminAlbumNew(c echo.Context) error {
	al := content.Album{Year: time.Now().Year()}
	return Render(c, views.AdminAlbumForm(a.site(), al, 0, true, a.remoteStatus(), CsrfToken(c)))
}

func (a *App) handleAdminAlbumEdit(c echo.Context) error {
	idx, err := strconv.Atoi(c.Param("idx"))
	if err != nil {
		return c.NoContent(http.StatusNotFound)
	}
	data := a.Coord.Snapshot()
	if idx < 0 || idx >= len(data.Albums) {
		return c.NoContent(http.StatusNotFound)
	}
	return Render(c, views.AdminAlbumForm(a.site(), data.Albums[idx], idx, false, a.remoteStatus(), CsrfToken(c)))
}

func (a *App) albumFromForm(c echo.Context, existing content.Album) (content.Album, string) {
	title := strings.TrimSpace(c.FormValue("title"))
	location := strings.TrimSpace(c.FormValue("location"))
	if title == "" || location == "" {
		return content.Album{}, msgRequiredFields
	}
	year, err := strconv.Atoi(c.FormValue("year"))
	if err != nil {
		year = time.Now().Year()
	}
	count, err := strconv.Atoi(c.FormValue("count"))
	if err != nil {
		count = 0
	}
	cover, msg := a.coverFromForm(c)
	if msg != "" {
		return content.Album{}, msg
	}
	return content.Album{
		RemoteID: existing.RemoteID,
		Title:    title,
		Location: location,
		Year:     year,
		Count:    count,
		Cover:    cover,
	}, ""
}

func (a *App) handleAdminAlbumCreate(c echo.Context) error {
	al, msg := a.albumFromForm(c, content.Album{})
	if msg != "" {
		return adminRedirect(c, "/admin/albums/", msg)
	}
	if err := a.Coord.AddAlbum(al); err != nil {
		return err
	}
	return adminRedirect(c, "/admin/albums/", "Album berhasil ditambahkan")
}

func (a *App) handleAdminAlbumUpdate(c echo.Context) error {
	idx, err := strconv.Atoi(c.Param("idx"))
	if err != nil {
		return c.NoContent(http.StatusNotFound)
	}
	data := a.Coord.Snapshot()
	if idx < 0 || idx >= len(data.Albums) {
		return c.NoContent(http.StatusNotFound)
	}
	al, msg := a.albumFromForm(c, data.Albums[idx])
	if msg != "" {
		return adminRedirect(c, "/admin/albums/", msg)
	}
	a.deleteReplacedCover(c, data.Albums[idx].Cover, al.Cover)
	if err := a.Coord.UpdateAlbum(idx, al); err != nil {
		return err
	}
	return adminRedirect(c, "/admin/albums/", "Album berhasil diperbarui")
}

func (a *App) handleAdminAlbumDelete(c echo.Context) error {
	idx, err := strconv.Atoi(c.Param("idx"))
	if err != nil {
		return c.NoContent(http.StatusNotFound)
	}
	data := a.Coord.Snapshot()
	if idx >= 0 && idx < len(data.Albums) {
		a.deleteReplacedCover(c, data.Albums[idx].Cover, "")
	}
	if err := a.Coord.DeleteAlbum(idx); err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.NoContent(http.StatusNotFound)
		}
		return err
	}
	return adminRedirect(c, "/admin/albums/", "Album berhasil dihapus")
}

// ---- Covers ----

// coverFromForm resolves the cover reference for a post or album form.
// A selected file wins over the URL field; without object storage the
// file is rejected so oversized inline payloads never reach the Dataset.
func (a *App) coverFromForm(c echo.Context) (cover, msg string) {
	fh, err := c.FormFile("cover_file")
	if err != nil || fh.Size == 0 {
		// No file selected; fall back to the URL field.
		return strings.TrimSpace(c.FormValue("cover")), ""
	}
	if a.Blobs == nil {
		return "", "Penyimpanan objek tidak tersedia. Gunakan URL eksternal."
	}
	u, err := a.uploadCover(c, fh)
	if err != nil {
		return "", UploadErrorMessage(err)
	}
	return u, ""
}

func (a *App) uploadCover(c echo.Context, fh *multipart.FileHeader) (string, error) {
	f, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	img, err := ProcessCover(f, fh.Header.Get("Content-Type"), fh.Size)
	if err != nil {
		return "", err
	}
	key := StorageKey(coverFolder, fh.Filename)
	return a.Blobs.Upload(c.Request().Context(), key, img.Data, UploadMeta{
		OriginalName: fh.Filename,
		ContentType:  img.ContentType,
	}, func(pct float64) {
		a.logger.Debug("upload progress", "key", key, "pct", pct)
	})
}

// deleteReplacedCover removes the previous stored object when a cover
// changes. Best effort: failures are logged, never surfaced.
func (a *App) deleteReplacedCover(c echo.Context, old, current string) {
	if a.Blobs == nil || old == "" || old == current || !a.Blobs.Owns(old) {
		return
	}
	if err := a.Blobs.Delete(c.Request().Context(), old); err != nil {
		a.logger.Warn("delete old cover", "url", old, "err", err)
	}
}

// handleAdminUpload is the standalone upload endpoint. It returns the
// stored URL as JSON, or a data-URL preview when object storage is not
// configured so the admin can still see the image before hosting it
// elsewhere.
func (a *App) handleAdminUpload(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "file wajib diisi")
	}
	f, err := fh.Open()
	if err != nil {
		return err
	}
	defer f.Close()

	img, err := ProcessCover(f, fh.Header.Get("Content-Type"), fh.Size)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": UploadErrorMessage(err)})
	}
	if a.Blobs == nil {
		return c.JSON(http.StatusOK, map[string]string{
			"preview": img.DataURL(),
			"message": "Penyimpanan objek tidak tersedia. Gunakan URL eksternal.",
		})
	}
	key := StorageKey(coverFolder, fh.Filename)
	u, err := a.Blobs.Upload(c.Request().Context(), key, img.Data, UploadMeta{
		OriginalName: fh.Filename,
		ContentType:  img.ContentType,
	}, func(pct float64) {
		a.logger.Debug("upload progress", "key", key, "pct", pct)
	})
	if err != nil {
		return c.JSON(http.StatusBadGateway, map[string]string{"error": UploadErrorMessage(err)})
	}
	return c.JSON(http.StatusOK, map[string]string{"url": u})
}

// ---- Data ----

func (a *App) handleAdminData(c echo.Context) error {
	return Render(c, views.AdminData(a.site(), c.QueryParam("msg"), a.remoteStatus(), CsrfToken(c)))
}

func (a *App) handleAdminExport(c echo.Context) error {
	payload, err := a.Coord.ExportSnapshot()
	if err != nil {
		return err
	}
	name := "kwarda-kaltara-data-" + time.Now().Format("2006-01-02") + ".json"
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+name+`"`)
	return c.Blob(http.StatusOK, echo.MIMEApplicationJSON, payload)
}

func (a *App) handleAdminImport(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return adminRedirect(c, "/admin/data/", "Berkas wajib dipilih")
	}
	f, err := fh.Open()
	if err != nil {
		return err
	}
	defer f.Close()
	payload, err := io.ReadAll(f)
	if err != nil {
		return adminRedirect(c, "/admin/data/", "Gagal membaca file: "+err.Error())
	}
	if err := a.Coord.ImportSnapshot(c.Request().Context(), payload); err != nil {
		switch {
		case errors.Is(err, ErrInvalidSnapshot):
			return adminRedirect(c, "/admin/data/", "Format file tidak valid")
		case errors.Is(err, ErrImportPartial):
			a.logger.Error("import left remote store partially synced", "err", err)
			return adminRedirect(c, "/admin/data/", "Import selesai lokal, tetapi sinkronisasi database gagal di tengah jalan")
		default:
			return err
		}
	}
	return adminRedirect(c, "/admin/data/", "Data berhasil di-import")
}

func (a *App) handleAdminReset(c echo.Context) error {
	if err := a.Coord.ResetToDefault(); err != nil {
		return err
	}
	return adminRedirect(c, "/admin/data/", "Data berhasil direset")
}

// ---- Settings ----

func (a *App) handleAdminSettings(c echo.Context) error {
	return Render(c, views.AdminSettings(a.site(), a.Auth.Username(), c.QueryParam("msg"), a.remoteStatus(), CsrfToken(c)))
}

func (a *App) handleAdminSettingsSave(c echo.Context) error {
	username := strings.TrimSpace(c.FormValue("username"))
	password := c.FormValue("password")
	confirm := c.FormValue("confirm")
	if username == "" && password == "" {
		return adminRedirect(c, "/admin/settings/", "Tidak ada perubahan")
	}
	if password != "" && password != confirm {
		return adminRedirect(c, "/admin/settings/", "Password tidak cocok")
	}
	if err := a.Auth.ChangeCredentials(username, password); err != nil {
		return err
	}
	return adminRedirect(c, "/admin/settings/", "Pengaturan berhasil disimpan")
}
