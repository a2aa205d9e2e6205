// Package sitecms is a content site for a regional scouting organization,
// built with Go, Echo, and templ: news posts, agenda, photo albums,
// downloads and public-disclosure documents, managed through a built-in
// admin dashboard.
//
// Content lives in an in-memory Dataset owned by a Coordinator. A local
// SQLite store is always the durability fallback; when a PostgreSQL DSN
// is configured the remote document store is authoritative at load time
// and every mutation is mirrored to it in the background. Cover images
// upload to any S3-compatible bucket.
package sitecms

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// App wires together the stores, coordinator, handlers, and middleware.
type App struct {
	Config SiteConfig
	Echo   *echo.Echo
	Local  *LocalStore
	Remote DocumentStore
	Blobs  BlobStore
	Coord  *Coordinator
	Auth   *AuthGate

	loginLimiter *LoginLimiter
	customRoutes []func(*App)
	staticDir    string
	logger       *slog.Logger
}

// New creates an App with the given configuration.
func New(cfg SiteConfig, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config:    cfg,
		Echo:      echo.New(),
		staticDir: "public",
		logger:    slog.Default(),
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Start opens the stores, loads content, and serves HTTP until shutdown.
func (a *App) Start() error {
	if a.Config.SessionSecret == "" {
		return fmt.Errorf("sitecms: SessionSecret is required")
	}

	ctx := context.Background()

	local, err := NewLocalStore(a.Config.LocalDBPath)
	if err != nil {
		return fmt.Errorf("sitecms: open local store: %w", err)
	}
	a.Local = local

	if a.Remote == nil && a.Config.RemoteDSN != "" {
		remote, err := NewPostgresDocStore(a.Config.RemoteDSN)
		if err != nil {
			return fmt.Errorf("sitecms: open document store: %w", err)
		}
		a.Remote = remote
	}

	if a.Blobs == nil && a.Config.S3Bucket != "" {
		blobs, err := NewS3BlobStore(ctx, a.Config)
		if err != nil {
			return fmt.Errorf("sitecms: init object storage: %w", err)
		}
		a.Blobs = blobs
	}

	a.Auth = NewAuthGate(local)
	a.Coord = NewCoordinator(local, a.Remote, a.logger)
	a.Coord.SetNotifier(func(err error) {
		a.logger.Warn("background sync failed", "err", err)
	})

	if err := a.Coord.Load(ctx); err != nil {
		if !errors.Is(err, ErrRemoteUnavailable) {
			return fmt.Errorf("sitecms: load content: %w", err)
		}
		a.logger.Warn("document store unreachable, serving from local store", "err", err)
	}

	if a.Coord.RemoteEnabled() {
		if err := a.Coord.Seed(ctx); err != nil {
			a.logger.Warn("seed skipped", "err", err)
		}
	}

	a.loginLimiter = NewLoginLimiter(5, time.Minute)

	a.setupMiddleware()
	a.setupRoutes()

	for _, fn := range a.customRoutes {
		fn(a)
	}

	if err := a.Echo.Start(a.Config.Addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (a *App) setupRoutes() {
	e := a.Echo

	e.Static("/public", a.staticDir)
	e.GET("/favicon.svg", a.handleFavicon)
	e.GET("/robots.txt", a.handleRobots)

	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)

	e.GET("/", a.handleHome)
	e.GET("/catatan/", a.handlePosts)
	e.GET("/catatan/:slug/", a.handlePost)
	e.GET("/agenda/", a.handleEvents)
	e.GET("/galeri/", a.handleAlbums)
	e.GET("/download/", a.handleDownloads)
	e.GET("/ppid/", a.handlePPID)

	e.POST("/admin/login/", a.handleAdminLogin)

	admin := e.Group("/admin", a.requireAdmin)
	admin.GET("/", a.handleAdminDashboard)
	admin.POST("/logout/", a.handleAdminLogout)

	admin.GET("/posts/", a.handleAdminPosts)
	admin.GET("/posts/new/", a.handleAdminPostNew)
	admin.POST("/posts/save/", a.handleAdminPostCreate)
	admin.GET("/posts/:slug/", a.handleAdminPostEdit)
	admin.POST("/posts/:slug/save/", a.handleAdminPostUpdate)
	admin.POST("/posts/:slug/delete/", a.handleAdminPostDelete)

	admin.GET("/events/", a.handleAdminEvents)
	admin.GET("/events/new/", a.handleAdminEventNew)
	admin.POST("/events/save/", a.handleAdminEventCreate)
	admin.GET("/events/:idx/", a.handleAdminEventEdit)
	admin.POST("/events/:idx/save/", a.handleAdminEventUpdate)
	admin.POST("/events/:idx/delete/", a.handleAdminEventDelete)

	admin.GET("/albums/", a.handleAdminAlbums)
	admin.GET("/albums/new/", a.handleAdminAlbumNew)
	admin.POST("/albums/save/", a.handleAdminAlbumCreate)
	admin.GET("/albums/:idx/", a.handleAdminAlbumEdit)
	admin.POST("/albums/:idx/save/", a.handleAdminAlbumUpdate)
	admin.POST("/albums/:idx/delete/", a.handleAdminAlbumDelete)

	admin.GET("/data/", a.handleAdminData)
	admin.GET("/data/export/", a.handleAdminExport)
	admin.POST("/data/import/", a.handleAdminImport)
	admin.POST("/data/reset/", a.handleAdminReset)

	admin.GET("/settings/", a.handleAdminSettings)
	admin.POST("/settings/", a.handleAdminSettingsSave)

	admin.POST("/api/upload", a.handleAdminUpload)
}

// Close drains in-flight remote writes and releases store handles.
func (a *App) Close() error {
	if a.Coord != nil {
		a.Coord.Wait()
	}
	if a.Local != nil {
		a.Local.Close()
	}
	if closer, ok := a.Remote.(interface{ Close() error }); ok {
		closer.Close()
	}
	return nil
}
