package site

import (
	"log"
	"os"
	"time"
)

// SiteConfig holds all configuration for the site and its admin area.
type SiteConfig struct {
	Name        string // Site name (default "Adaptive Edge")
	URL         string // Canonical URL (default "http://localhost:3000")
	Description string // Site description for RSS and robots
	Author      string // Default post author

	Addr         string // Listen address (default ":3000")
	DatabasePath string // SQLite path (default "data/site.db")

	AdminPassword string // Required: admin login password
	SessionSecret string // Required: session encryption secret
	CookieSecure  bool   // Set true for HTTPS

	ContentCacheTTL time.Duration // Published-content cache TTL (default 5min)

	// Outbound mail for contact-form notifications. Leaving SMTPAddr empty
	// disables sending; submissions are still stored.
	SMTPAddr     string // host:port
	SMTPUser     string
	SMTPPassword string
	MailFrom     string // sender address
	MailTo       string // operator notification recipient
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Adaptive Edge"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.DatabasePath == "" {
		c.DatabasePath = "data/site.db"
	}
	if c.ContentCacheTTL == 0 {
		c.ContentCacheTTL = 5 * time.Minute
	}
}

// Option configures additional App behavior.
type Option func(*App)

// WithStaticDir sets the directory served under /public and used as the
// parent of the upload directories (default "public").
func WithStaticDir(dir string) Option {
	return func(a *App) {
		a.staticDir = dir
	}
}

// WithMailer replaces the SMTP mailer, mainly for tests.
func WithMailer(m Mailer) Option {
	return func(a *App) {
		a.mailer = m
	}
}

// EnvOr returns the value of the environment variable key, or fallback if empty.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// MustEnv returns the value of the environment variable key, or fatally exits if empty.
func MustEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		log.Fatalf("site: required environment variable %s is not set", key)
	}
	return v
}
