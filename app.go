// Package site implements the Adaptive Edge marketing site and its embedded
// CMS: public pages, a JSON content API, a session-gated admin area for
// authoring blog posts and case studies, image uploads, and contact-form
// handling, backed by SQLite.
//
// Templates are provided through the ViewFuncs struct so the binary owns all
// markup; the package owns handlers, middleware, validation, and storage.
package site

import (
	"crypto/subtle"
	"fmt"
	"net/http"
	"time"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
)

// ViewFuncs holds the templ components the handlers render. This is the
// inversion-of-control mechanism that keeps all markup in the views package.
type ViewFuncs struct {
	Home          func(cfg SiteConfig, featured []CaseStudy, posts []BlogPost) templ.Component
	Work          func(cfg SiteConfig, studies []CaseStudy, activeCategory string) templ.Component
	CaseStudyPage func(cfg SiteConfig, cs CaseStudy) templ.Component
	Blog          func(cfg SiteConfig, posts []BlogPost) templ.Component
	Post          func(cfg SiteConfig, post BlogPost) templ.Component
	ContactPage   func(cfg SiteConfig) templ.Component

	AdminLogin         func(cfg SiteConfig, showError bool, csrfToken string) templ.Component
	AdminDashboard     func(cfg SiteConfig, posts []BlogPost, studies []CaseStudy, message, csrfToken string) templ.Component
	AdminBlogForm      func(cfg SiteConfig, post BlogPost, isNew bool, fieldErrors map[string]string, csrfToken string) templ.Component
	AdminCaseStudyForm func(cfg SiteConfig, cs CaseStudy, isNew bool, fieldErrors map[string]string, csrfToken string) templ.Component
	AdminImages        func(images []Image, csrfToken string) templ.Component
	PreviewPost        func(cfg SiteConfig, post BlogPost) templ.Component
	PreviewCaseStudy   func(cfg SiteConfig, cs CaseStudy) templ.Component

	NotFound    func(cfg SiteConfig) templ.Component
	ServerError func(cfg SiteConfig) templ.Component
}

// App wires together the store, cache, mailer, handlers, middleware, and the
// provided templates.
type App struct {
	Config SiteConfig
	Echo   *echo.Echo
	Store  *Store
	Cache  *ContentCache
	Views  ViewFuncs

	loginLimiter *LoginLimiter
	mailer       Mailer
	staticDir    string
}

// New creates an App with the given configuration and view functions.
func New(cfg SiteConfig, views ViewFuncs, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config:    cfg,
		Echo:      echo.New(),
		Views:     views,
		staticDir: "public",
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Init initializes the store, cache, limiter, mailer, middleware, and routes.
// Split from Start so tests can drive the Echo instance directly.
func (a *App) Init() error {
	if a.Config.AdminPassword == "" {
		return fmt.Errorf("site: AdminPassword is required")
	}
	if a.Config.SessionSecret == "" {
		return fmt.Errorf("site: SessionSecret is required")
	}

	store, err := NewStore(a.Config.DatabasePath)
	if err != nil {
		return fmt.Errorf("site: init store: %w", err)
	}
	a.Store = store

	a.Cache = NewContentCache(a.Store, a.Config.ContentCacheTTL)
	a.loginLimiter = NewLoginLimiter(5, time.Minute)

	if a.mailer == nil && a.Config.SMTPAddr != "" {
		a.mailer = NewSMTPMailer(a.Config)
	}

	a.setupMiddleware()
	a.setupRoutes()
	return nil
}

// Start initializes the app and runs the server.
func (a *App) Start() error {
	if err := a.Init(); err != nil {
		return err
	}
	if err := a.Echo.Start(a.Config.Addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (a *App) setupRoutes() {
	e := a.Echo

	// Static assets and uploaded images.
	e.Static("/public", a.staticDir)
	e.Static("/blog-images", a.uploadDir(ImageKindBlog))
	e.Static("/case-study-images", a.uploadDir(ImageKindCaseStudy))
	e.GET("/favicon.svg", a.handleFavicon)
	e.GET("/robots.txt", a.handleRobots)

	// Public pages.
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)
	e.GET("/", a.handleHome)
	e.GET("/work/", a.handleWork)
	e.GET("/work/:slug/", a.handleCaseStudy)
	e.GET("/blog/", a.handleBlog)
	e.GET("/blog/:slug/", a.handlePost)
	e.GET("/contact/", a.handleContactPage)

	// JSON API. Reads are public; every mutating route requires the admin
	// session, as does the contacts listing.
	api := e.Group("/api")
	api.POST("/contact", a.handleAPIContactCreate)
	api.GET("/contacts", a.handleAPIContactList, requireAdmin)

	api.GET("/blog-posts", a.handleAPIBlogPostList)
	api.GET("/blog-posts/by-id/:id", a.handleAPIBlogPostByID)
	api.GET("/blog-posts/:slug", a.handleAPIBlogPostBySlug)
	api.POST("/blog-posts", a.handleAPIBlogPostCreate, requireAdmin)
	api.PATCH("/blog-posts/:id", a.handleAPIBlogPostUpdate, requireAdmin)
	api.DELETE("/blog-posts/:id", a.handleAPIBlogPostDelete, requireAdmin)

	api.GET("/case-studies", a.handleAPICaseStudyList)
	api.GET("/case-studies/by-id/:id", a.handleAPICaseStudyByID)
	api.GET("/case-studies/:slug", a.handleAPICaseStudyBySlug)
	api.POST("/case-studies", a.handleAPICaseStudyCreate, requireAdmin)
	api.PUT("/case-studies/:id", a.handleAPICaseStudyUpdate, requireAdmin)
	api.DELETE("/case-studies/:id", a.handleAPICaseStudyDelete, requireAdmin)

	api.POST("/blog-images", a.handleAPIBlogImageUpload, requireAdmin)
	api.POST("/case-study-images", a.handleAPICaseStudyImageUpload, requireAdmin)

	api.POST("/admin/login", a.handleAPIAdminLogin)
	api.POST("/admin/logout", a.handleAPIAdminLogout)
	api.GET("/admin/session", a.handleAPIAdminSession)

	// Admin pages.
	e.GET("/admin/", a.handleAdmin)
	e.POST("/admin/login/", a.handleAdminLogin)
	e.POST("/admin/logout/", handleAdminLogout)
	e.GET("/admin/blog/new/", a.handleAdminBlogNew)
	e.GET("/admin/blog/edit/:id/", a.handleAdminBlogEdit)
	e.POST("/admin/blog/save/", a.handleAdminBlogSave)
	e.POST("/admin/blog/preview/", a.handleAdminBlogPreview)
	e.GET("/admin/case-studies/new/", a.handleAdminCaseStudyNew)
	e.GET("/admin/case-studies/edit/:id/", a.handleAdminCaseStudyEdit)
	e.POST("/admin/case-studies/save/", a.handleAdminCaseStudySave)
	e.POST("/admin/case-studies/preview/", a.handleAdminCaseStudyPreview)
	e.GET("/admin/images/", a.handleImageLibrary)
	e.DELETE("/admin/images/:filename/", a.handleImageDelete)
}

// Close cleans up resources. Call when the app is shutting down.
func (a *App) Close() error {
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}

func (a *App) checkAdminPassword(candidate string) bool {
	return subtle.ConstantTimeCompare([]byte(candidate), []byte(a.Config.AdminPassword)) == 1
}
