package sitecms

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kwarda-kaltara/sitecms/views"
)

func (a *App) site() views.Site {
	return views.Site{
		Name:        a.Config.Name,
		URL:         a.Config.URL,
		Description: a.Config.Description,
		Author:      a.Config.Author,
	}
}

func (a *App) handleHome(c echo.Context) error {
	data := a.Coord.Snapshot()
	return Render(c, views.Home(a.site(), data.Posts, data.Events))
}

func (a *App) handlePosts(c echo.Context) error {
	data := a.Coord.Snapshot()
	return Render(c, views.Posts(a.site(), data.Posts,
		c.QueryParam("q"), c.QueryParam("category"), c.QueryParam("tag")))
}

func (a *App) handlePost(c echo.Context) error {
	slug := c.Param("slug")
	data := a.Coord.Snapshot()
	for _, p := range data.Posts {
		if p.Slug == slug {
			return Render(c, views.PostDetail(a.site(), p, data.Posts))
		}
	}
	return RenderStatus(c, http.StatusNotFound, views.NotFound(a.site()))
}

func (a *App) handleEvents(c echo.Context) error {
	data := a.Coord.Snapshot()
	return Render(c, views.Events(a.site(), data.Events, c.QueryParam("q")))
}

func (a *App) handleAlbums(c echo.Context) error {
	data := a.Coord.Snapshot()
	return Render(c, views.Albums(a.site(), data.Albums, c.QueryParam("q")))
}

func (a *App) handleDownloads(c echo.Context) error {
	data := a.Coord.Snapshot()
	return Render(c, views.Downloads(a.site(), data.Downloads,
		c.QueryParam("q"), c.QueryParam("category")))
}

func (a *App) handlePPID(c echo.Context) error {
	data := a.Coord.Snapshot()
	return Render(c, views.PPID(a.site(), data.PPID,
		c.QueryParam("q"), c.QueryParam("type"), c.QueryParam("year")))
}

func (a *App) handleSitemap(c echo.Context) error {
	data := a.Coord.Snapshot()
	return a.renderSitemap(c, data.Posts)
}

func (a *App) handleFeed(c echo.Context) error {
	data := a.Coord.Snapshot()
	return a.renderRSS(c, views.SortPostsByDate(data.Posts))
}

func (a *App) handleFavicon(c echo.Context) error {
	return c.File(a.staticDir + "/favicon.svg")
}

func (a *App) handleRobots(c echo.Context) error {
	return c.File(a.staticDir + "/robots.txt")
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	he, ok := err.(*echo.HTTPError)
	if ok && he.Code == http.StatusNotFound {
		_ = RenderStatus(c, http.StatusNotFound, views.NotFound(a.site()))
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		a.logger.Error("server error", "err", err)
		_ = RenderStatus(c, code, views.ServerError(a.site()))
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
