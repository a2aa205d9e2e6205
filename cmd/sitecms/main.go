// Command sitecms runs the content site and admin dashboard.
// All deployment settings come from environment variables.
package main

import (
	"log/slog"
	"os"
	"strings"

	"github.com/kwarda-kaltara/sitecms"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg := sitecms.SiteConfig{
		Name:        sitecms.EnvOr("SITE_NAME", "Kwarda Kaltara"),
		URL:         strings.TrimSuffix(sitecms.EnvOr("SITE_URL", "http://localhost:3000"), "/"),
		Description: os.Getenv("SITE_DESCRIPTION"),
		Author:      os.Getenv("SITE_AUTHOR"),

		Addr:        sitecms.EnvOr("LISTEN_ADDR", ":3000"),
		LocalDBPath: sitecms.EnvOr("LOCAL_DB_PATH", "data/cms.db"),

		RemoteDSN: os.Getenv("DATABASE_DSN"),

		S3RootUser:      os.Getenv("S3_ACCESS_KEY"),
		S3RootPassword:  os.Getenv("S3_SECRET_KEY"),
		S3Bucket:        os.Getenv("S3_BUCKET"),
		S3Region:        sitecms.EnvOr("S3_REGION", "us-east-1"),
		S3BaseEndpoint:  os.Getenv("S3_ENDPOINT"),
		S3PublicBaseURL: os.Getenv("S3_PUBLIC_BASE_URL"),

		SessionSecret: sitecms.MustEnv("ADMIN_SESSION_SECRET"),
		CookieSecure:  strings.EqualFold(os.Getenv("COOKIE_SECURE"), "true"),
	}

	app := sitecms.New(cfg, sitecms.WithLogger(logger))
	defer app.Close()

	if err := app.Start(); err != nil {
		slog.Error("server stopped", "err", err)
		os.Exit(1)
	}
}
