package site

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
)

func (a *App) handleAdmin(c echo.Context) error {
	if !IsAdmin(c) {
		return Render(c, a.Views.AdminLogin(a.Config, false, CsrfToken(c)))
	}
	return a.renderAdminDashboard(c, c.QueryParam("msg"))
}

func (a *App) handleAdminLogin(c echo.Context) error {
	if !a.loginLimiter.Allow(c.RealIP()) {
		return c.String(http.StatusTooManyRequests, "Too many login attempts. Try again later.")
	}
	if a.checkAdminPassword(c.FormValue("password")) {
		if err := setAdminSession(c); err != nil {
			return err
		}
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	return Render(c, a.Views.AdminLogin(a.Config, true, CsrfToken(c)))
}

func handleAdminLogout(c echo.Context) error {
	if err := clearAdminSession(c); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/admin/")
}

func (a *App) renderAdminDashboard(c echo.Context, msg string) error {
	posts, err := a.Store.ListBlogPosts()
	if err != nil {
		return err
	}
	studies, err := a.Store.ListCaseStudies()
	if err != nil {
		return err
	}
	return Render(c, a.Views.AdminDashboard(a.Config, posts, studies, msg, CsrfToken(c)))
}

// --- Blog post authoring ---

func (a *App) handleAdminBlogNew(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	post := BlogPost{
		Author:   a.Config.Author,
		Category: BlogPostCategories[0],
		Date:     time.Now().Format("2006-01-02"),
	}
	return Render(c, a.Views.AdminBlogForm(a.Config, post, true, nil, CsrfToken(c)))
}

func (a *App) handleAdminBlogEdit(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	post, err := a.Store.GetBlogPostByID(c.Param("id"))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return echo.ErrNotFound
		}
		return err
	}
	return Render(c, a.Views.AdminBlogForm(a.Config, post, false, nil, CsrfToken(c)))
}

// blogPostFromForm collects the editor's fields. The slug is auto-derived
// from the title when left blank on a new post; editing keeps the stored
// slug (the form does not offer the field once a post exists).
func blogPostFromForm(c echo.Context) BlogPost {
	slug := strings.TrimSpace(c.FormValue("slug"))
	title := strings.TrimSpace(c.FormValue("title"))
	if slug == "" {
		slug = Slugify(title)
	}
	return BlogPost{
		ID:          strings.TrimSpace(c.FormValue("id")),
		Title:       title,
		Slug:        slug,
		Excerpt:     c.FormValue("excerpt"),
		Content:     c.FormValue("content"),
		Author:      strings.TrimSpace(c.FormValue("author")),
		Category:    c.FormValue("category"),
		Image:       strings.TrimSpace(c.FormValue("image")),
		LinkedinURL: strings.TrimSpace(c.FormValue("linkedinUrl")),
		Featured:    c.FormValue("featured") != "",
		Published:   c.FormValue("published") != "",
		Date:        strings.TrimSpace(c.FormValue("date")),
	}
}

func (a *App) handleAdminBlogSave(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	if err := c.Request().ParseForm(); err != nil {
		return err
	}
	draft := blogPostFromForm(c)
	if draft.Date == "" {
		draft.Date = time.Now().Format("2006-01-02")
	}
	isNew := draft.ID == ""

	// Validation failures re-render the form with the entered values intact.
	renderErrors := func(err error) error {
		var verr *ValidationError
		if errors.As(err, &verr) {
			return Render(c, a.Views.AdminBlogForm(a.Config, draft, isNew, verr.Fields, CsrfToken(c)))
		}
		if errors.Is(err, ErrDuplicateSlug) {
			fields := map[string]string{"slug": "is already in use"}
			return Render(c, a.Views.AdminBlogForm(a.Config, draft, isNew, fields, CsrfToken(c)))
		}
		return err
	}

	if isNew {
		in := BlogPostInput{
			Title:       draft.Title,
			Slug:        draft.Slug,
			Excerpt:     draft.Excerpt,
			Content:     draft.Content,
			Author:      draft.Author,
			Category:    draft.Category,
			Image:       draft.Image,
			LinkedinURL: draft.LinkedinURL,
			Featured:    draft.Featured,
			Published:   draft.Published,
			Date:        draft.Date,
		}
		if err := ValidateBlogPostInsert(in); err != nil {
			return renderErrors(err)
		}
		if _, err := a.Store.CreateBlogPost(in); err != nil {
			return renderErrors(err)
		}
	} else {
		patch := BlogPostPatch{
			Title:       &draft.Title,
			Excerpt:     &draft.Excerpt,
			Content:     &draft.Content,
			Author:      &draft.Author,
			Category:    &draft.Category,
			Image:       &draft.Image,
			LinkedinURL: &draft.LinkedinURL,
			Featured:    &draft.Featured,
			Published:   &draft.Published,
			Date:        &draft.Date,
		}
		if err := ValidateBlogPostPatch(patch); err != nil {
			return renderErrors(err)
		}
		if _, err := a.Store.UpdateBlogPost(draft.ID, patch); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return echo.ErrNotFound
			}
			return renderErrors(err)
		}
	}
	a.Cache.Invalidate()
	return c.Redirect(http.StatusSeeOther, "/admin/?msg=saved")
}

// handleAdminBlogPreview renders the draft through the public post template
// without persisting anything.
func (a *App) handleAdminBlogPreview(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	if err := c.Request().ParseForm(); err != nil {
		return err
	}
	draft := blogPostFromForm(c)
	if draft.Date == "" {
		draft.Date = time.Now().Format("2006-01-02")
	}
	return Render(c, a.Views.PreviewPost(a.Config, draft))
}

// --- Case study authoring ---

func (a *App) handleAdminCaseStudyNew(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	return Render(c, a.Views.AdminCaseStudyForm(a.Config, CaseStudy{}, true, nil, CsrfToken(c)))
}

func (a *App) handleAdminCaseStudyEdit(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	cs, err := a.Store.GetCaseStudyByID(c.Param("id"))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return echo.ErrNotFound
		}
		return err
	}
	return Render(c, a.Views.AdminCaseStudyForm(a.Config, cs, false, nil, CsrfToken(c)))
}

func caseStudyFromForm(c echo.Context) CaseStudy {
	slug := strings.TrimSpace(c.FormValue("slug"))
	title := strings.TrimSpace(c.FormValue("title"))
	if slug == "" {
		slug = Slugify(title)
	}
	return CaseStudy{
		ID:                   strings.TrimSpace(c.FormValue("id")),
		Slug:                 slug,
		Title:                title,
		Client:               strings.TrimSpace(c.FormValue("client")),
		Category:             strings.TrimSpace(c.FormValue("category")),
		Challenge:            c.FormValue("challenge"),
		Approach:             c.FormValue("approach"),
		Impact:               c.FormValue("impact"),
		RoleDescription:      c.FormValue("roleDescription"),
		Featured:             c.FormValue("featured") != "",
		TreeHouseAttribution: strings.TrimSpace(c.FormValue("treeHouseAttribution")),
		Image:                strings.TrimSpace(c.FormValue("image")),
	}
}

func (a *App) handleAdminCaseStudySave(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	if err := c.Request().ParseForm(); err != nil {
		return err
	}
	draft := caseStudyFromForm(c)
	isNew := draft.ID == ""

	renderErrors := func(err error) error {
		var verr *ValidationError
		if errors.As(err, &verr) {
			return Render(c, a.Views.AdminCaseStudyForm(a.Config, draft, isNew, verr.Fields, CsrfToken(c)))
		}
		if errors.Is(err, ErrDuplicateSlug) {
			fields := map[string]string{"slug": "is already in use"}
			return Render(c, a.Views.AdminCaseStudyForm(a.Config, draft, isNew, fields, CsrfToken(c)))
		}
		return err
	}

	if isNew {
		in := CaseStudyInput{
			Slug:                 draft.Slug,
			Title:                draft.Title,
			Client:               draft.Client,
			Category:             draft.Category,
			Challenge:            draft.Challenge,
			Approach:             draft.Approach,
			Impact:               draft.Impact,
			RoleDescription:      draft.RoleDescription,
			Featured:             draft.Featured,
			TreeHouseAttribution: draft.TreeHouseAttribution,
			Image:                draft.Image,
		}
		if err := ValidateCaseStudyInsert(in); err != nil {
			return renderErrors(err)
		}
		if _, err := a.Store.CreateCaseStudy(in); err != nil {
			return renderErrors(err)
		}
	} else {
		// The slug stays immutable once a case study exists; the form never
		// sends one when editing.
		patch := CaseStudyPatch{
			Title:                &draft.Title,
			Client:               &draft.Client,
			Category:             &draft.Category,
			Challenge:            &draft.Challenge,
			Approach:             &draft.Approach,
			Impact:               &draft.Impact,
			RoleDescription:      &draft.RoleDescription,
			Featured:             &draft.Featured,
			TreeHouseAttribution: &draft.TreeHouseAttribution,
			Image:                &draft.Image,
		}
		if err := ValidateCaseStudyPatch(patch); err != nil {
			return renderErrors(err)
		}
		if _, err := a.Store.UpdateCaseStudy(draft.ID, patch); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return echo.ErrNotFound
			}
			return renderErrors(err)
		}
	}
	a.Cache.Invalidate()
	return c.Redirect(http.StatusSeeOther, "/admin/?msg=saved")
}

func (a *App) handleAdminCaseStudyPreview(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	if err := c.Request().ParseForm(); err != nil {
		return err
	}
	return Render(c, a.Views.PreviewCaseStudy(a.Config, caseStudyFromForm(c)))
}
