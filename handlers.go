package site

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
)

func (a *App) handleHome(c echo.Context) error {
	featured, err := a.Cache.FeaturedCaseStudies()
	if err != nil {
		return err
	}
	posts, err := a.Cache.PublishedPosts()
	if err != nil {
		return err
	}
	return Render(c, a.Views.Home(a.Config, featured, posts))
}

func (a *App) handleWork(c echo.Context) error {
	category := c.QueryParam("category")
	studies, err := a.Cache.CaseStudies(category)
	if err != nil {
		return err
	}
	return Render(c, a.Views.Work(a.Config, studies, category))
}

func (a *App) handleCaseStudy(c echo.Context) error {
	cs, err := a.Cache.CaseStudy(c.Param("slug"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return RenderStatus(c, http.StatusNotFound, a.Views.NotFound(a.Config))
		}
		return err
	}
	return Render(c, a.Views.CaseStudyPage(a.Config, cs))
}

func (a *App) handleBlog(c echo.Context) error {
	posts, err := a.Cache.PublishedPosts()
	if err != nil {
		return err
	}
	return Render(c, a.Views.Blog(a.Config, posts))
}

func (a *App) handlePost(c echo.Context) error {
	post, err := a.Cache.PublishedPost(c.Param("slug"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return RenderStatus(c, http.StatusNotFound, a.Views.NotFound(a.Config))
		}
		return err
	}
	return Render(c, a.Views.Post(a.Config, post))
}

func (a *App) handleContactPage(c echo.Context) error {
	return Render(c, a.Views.ContactPage(a.Config))
}

func (a *App) handleFavicon(c echo.Context) error {
	return c.File(a.staticDir + "/favicon.svg")
}

// handleRobots generates robots.txt dynamically using the canonical URL.
func (a *App) handleRobots(c echo.Context) error {
	body := fmt.Sprintf("User-agent: *\nAllow: /\nDisallow: /admin/\n\nSitemap: %s/sitemap.xml\n", a.Config.URL)
	return c.String(http.StatusOK, body)
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	he, ok := err.(*echo.HTTPError)
	if ok && he.Code == http.StatusNotFound {
		_ = RenderStatus(c, http.StatusNotFound, a.Views.NotFound(a.Config))
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		c.Logger().Errorf("server error: %v", err)
		_ = RenderStatus(c, code, a.Views.ServerError(a.Config))
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
