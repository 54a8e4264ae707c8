package main

import (
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"

	site "github.com/adaptiveedge/site"
	"github.com/adaptiveedge/site/views"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	cfg := site.SiteConfig{
		Name:        site.EnvOr("SITE_NAME", "Adaptive Edge"),
		URL:         strings.TrimSuffix(site.EnvOr("SITE_URL", "http://localhost:3000"), "/"),
		Description: os.Getenv("SITE_DESCRIPTION"),
		Author:      os.Getenv("SITE_AUTHOR"),

		Addr:         site.EnvOr("ADDR", ":3000"),
		DatabasePath: site.EnvOr("DATABASE_PATH", "data/site.db"),

		AdminPassword: site.MustEnv("ADMIN_PASSWORD"),
		SessionSecret: site.MustEnv("ADMIN_SESSION_SECRET"),
		CookieSecure:  strings.EqualFold(os.Getenv("COOKIE_SECURE"), "true"),

		SMTPAddr:     os.Getenv("SMTP_ADDR"),
		SMTPUser:     os.Getenv("SMTP_USER"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		MailFrom:     os.Getenv("MAIL_FROM"),
		MailTo:       os.Getenv("MAIL_TO"),
	}

	app := site.New(cfg, site.ViewFuncs{
		Home:          views.Home,
		Work:          views.Work,
		CaseStudyPage: views.CaseStudyPage,
		Blog:          views.Blog,
		Post:          views.Post,
		ContactPage:   views.ContactPage,

		AdminLogin:         views.AdminLogin,
		AdminDashboard:     views.AdminDashboard,
		AdminBlogForm:      views.AdminBlogForm,
		AdminCaseStudyForm: views.AdminCaseStudyForm,
		AdminImages:        views.AdminImages,
		PreviewPost:        views.PreviewPost,
		PreviewCaseStudy:   views.PreviewCaseStudy,

		NotFound:    views.NotFound,
		ServerError: views.ServerError,
	})
	defer app.Close()

	slog.Info("starting site", "addr", cfg.Addr, "url", cfg.URL)
	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
}
