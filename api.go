package site

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

// JSON envelopes matching the authoring client's expectations.

func errorBody(message string) map[string]any {
	return map[string]any{"success": false, "message": message}
}

func validationBody(message string, verr *ValidationError) map[string]any {
	return map[string]any{"success": false, "message": message, "errors": verr.Fields}
}

// --- Contact ---

func (a *App) handleAPIContactCreate(c echo.Context) error {
	var in ContactInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody("Invalid form data"))
	}
	if err := ValidateContact(in); err != nil {
		var verr *ValidationError
		errors.As(err, &verr)
		return c.JSON(http.StatusBadRequest, validationBody("Invalid form data", verr))
	}
	contact, err := a.Store.CreateContact(in)
	if err != nil {
		c.Logger().Errorf("create contact: %v", err)
		return c.JSON(http.StatusInternalServerError, errorBody("Failed to submit contact form"))
	}
	// Emails are fire-and-forget; the response does not wait for them.
	a.notifyContact(contact)
	return c.JSON(http.StatusOK, map[string]any{"success": true, "contact": contact})
}

func (a *App) handleAPIContactList(c echo.Context) error {
	contacts, err := a.Store.ListContacts()
	if err != nil {
		c.Logger().Errorf("list contacts: %v", err)
		return c.JSON(http.StatusInternalServerError, errorBody("Failed to retrieve contacts"))
	}
	if contacts == nil {
		contacts = []Contact{}
	}
	return c.JSON(http.StatusOK, contacts)
}

// --- Blog posts ---

func (a *App) handleAPIBlogPostList(c echo.Context) error {
	posts, err := a.Store.ListBlogPosts()
	if err != nil {
		c.Logger().Errorf("list blog posts: %v", err)
		return c.JSON(http.StatusInternalServerError, errorBody("Failed to retrieve blog posts"))
	}
	if posts == nil {
		posts = []BlogPost{}
	}
	return c.JSON(http.StatusOK, posts)
}

func (a *App) handleAPIBlogPostBySlug(c echo.Context) error {
	post, err := a.Store.GetBlogPostBySlug(c.Param("slug"))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, errorBody("Blog post not found"))
		}
		c.Logger().Errorf("get blog post: %v", err)
		return c.JSON(http.StatusInternalServerError, errorBody("Failed to retrieve blog post"))
	}
	return c.JSON(http.StatusOK, post)
}

func (a *App) handleAPIBlogPostByID(c echo.Context) error {
	post, err := a.Store.GetBlogPostByID(c.Param("id"))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, errorBody("Blog post not found"))
		}
		c.Logger().Errorf("get blog post: %v", err)
		return c.JSON(http.StatusInternalServerError, errorBody("Failed to retrieve blog post"))
	}
	return c.JSON(http.StatusOK, post)
}

func (a *App) handleAPIBlogPostCreate(c echo.Context) error {
	var in BlogPostInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody("Invalid blog post data"))
	}
	if err := ValidateBlogPostInsert(in); err != nil {
		var verr *ValidationError
		errors.As(err, &verr)
		return c.JSON(http.StatusBadRequest, validationBody("Invalid blog post data", verr))
	}
	post, err := a.Store.CreateBlogPost(in)
	if err != nil {
		if errors.Is(err, ErrDuplicateSlug) {
			return c.JSON(http.StatusConflict, errorBody("A blog post with this slug already exists"))
		}
		c.Logger().Errorf("create blog post: %v", err)
		return c.JSON(http.StatusInternalServerError, errorBody("Failed to create blog post"))
	}
	a.Cache.Invalidate()
	return c.JSON(http.StatusCreated, map[string]any{"success": true, "post": post})
}

func (a *App) handleAPIBlogPostUpdate(c echo.Context) error {
	var patch BlogPostPatch
	if err := c.Bind(&patch); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody("Invalid blog post data"))
	}
	if err := ValidateBlogPostPatch(patch); err != nil {
		var verr *ValidationError
		errors.As(err, &verr)
		return c.JSON(http.StatusBadRequest, validationBody("Invalid blog post data", verr))
	}
	post, err := a.Store.UpdateBlogPost(c.Param("id"), patch)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return c.JSON(http.StatusNotFound, errorBody("Blog post not found"))
		case errors.Is(err, ErrDuplicateSlug):
			return c.JSON(http.StatusConflict, errorBody("A blog post with this slug already exists"))
		}
		c.Logger().Errorf("update blog post: %v", err)
		return c.JSON(http.StatusInternalServerError, errorBody("Failed to update blog post"))
	}
	a.Cache.Invalidate()
	return c.JSON(http.StatusOK, map[string]any{"success": true, "post": post})
}

func (a *App) handleAPIBlogPostDelete(c echo.Context) error {
	deleted, err := a.Store.DeleteBlogPost(c.Param("id"))
	if err != nil {
		c.Logger().Errorf("delete blog post: %v", err)
		return c.JSON(http.StatusInternalServerError, errorBody("Failed to delete blog post"))
	}
	if !deleted {
		return c.JSON(http.StatusNotFound, errorBody("Blog post not found"))
	}
	a.Cache.Invalidate()
	return c.JSON(http.StatusOK, map[string]any{"success": true, "message": "Blog post deleted successfully"})
}

// --- Case studies ---

func (a *App) handleAPICaseStudyList(c echo.Context) error {
	studies, err := a.Store.ListCaseStudies()
	if err != nil {
		c.Logger().Errorf("list case studies: %v", err)
		return c.JSON(http.StatusInternalServerError, errorBody("Failed to retrieve case studies"))
	}
	if studies == nil {
		studies = []CaseStudy{}
	}
	return c.JSON(http.StatusOK, studies)
}

func (a *App) handleAPICaseStudyBySlug(c echo.Context) error {
	cs, err := a.Store.GetCaseStudyBySlug(c.Param("slug"))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, errorBody("Case study not found"))
		}
		c.Logger().Errorf("get case study: %v", err)
		return c.JSON(http.StatusInternalServerError, errorBody("Failed to retrieve case study"))
	}
	return c.JSON(http.StatusOK, cs)
}

func (a *App) handleAPICaseStudyByID(c echo.Context) error {
	cs, err := a.Store.GetCaseStudyByID(c.Param("id"))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, errorBody("Case study not found"))
		}
		c.Logger().Errorf("get case study: %v", err)
		return c.JSON(http.StatusInternalServerError, errorBody("Failed to retrieve case study"))
	}
	return c.JSON(http.StatusOK, cs)
}

func (a *App) handleAPICaseStudyCreate(c echo.Context) error {
	var in CaseStudyInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody("Invalid case study data"))
	}
	if err := ValidateCaseStudyInsert(in); err != nil {
		var verr *ValidationError
		errors.As(err, &verr)
		return c.JSON(http.StatusBadRequest, validationBody("Invalid case study data", verr))
	}
	cs, err := a.Store.CreateCaseStudy(in)
	if err != nil {
		if errors.Is(err, ErrDuplicateSlug) {
			return c.JSON(http.StatusConflict, errorBody("A case study with this slug already exists"))
		}
		c.Logger().Errorf("create case study: %v", err)
		return c.JSON(http.StatusInternalServerError, errorBody("Failed to create case study"))
	}
	a.Cache.Invalidate()
	return c.JSON(http.StatusCreated, map[string]any{"success": true, "caseStudy": cs})
}

func (a *App) handleAPICaseStudyUpdate(c echo.Context) error {
	var patch CaseStudyPatch
	if err := c.Bind(&patch); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody("Invalid case study data"))
	}
	if err := ValidateCaseStudyPatch(patch); err != nil {
		var verr *ValidationError
		errors.As(err, &verr)
		return c.JSON(http.StatusBadRequest, validationBody("Invalid case study data", verr))
	}
	cs, err := a.Store.UpdateCaseStudy(c.Param("id"), patch)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return c.JSON(http.StatusNotFound, errorBody("Case study not found"))
		case errors.Is(err, ErrDuplicateSlug):
			return c.JSON(http.StatusConflict, errorBody("A case study with this slug already exists"))
		}
		c.Logger().Errorf("update case study: %v", err)
		return c.JSON(http.StatusInternalServerError, errorBody("Failed to update case study"))
	}
	a.Cache.Invalidate()
	return c.JSON(http.StatusOK, map[string]any{"success": true, "caseStudy": cs})
}

func (a *App) handleAPICaseStudyDelete(c echo.Context) error {
	deleted, err := a.Store.DeleteCaseStudy(c.Param("id"))
	if err != nil {
		c.Logger().Errorf("delete case study: %v", err)
		return c.JSON(http.StatusInternalServerError, errorBody("Failed to delete case study"))
	}
	if !deleted {
		return c.JSON(http.StatusNotFound, errorBody("Case study not found"))
	}
	a.Cache.Invalidate()
	return c.JSON(http.StatusOK, map[string]any{"success": true, "message": "Case study deleted successfully"})
}

// --- Admin session ---

func (a *App) handleAPIAdminLogin(c echo.Context) error {
	if !a.loginLimiter.Allow(c.RealIP()) {
		return c.JSON(http.StatusTooManyRequests, errorBody("Too many login attempts. Try again later."))
	}
	var body struct {
		Password string `json:"password"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody("Invalid login data"))
	}
	if !a.checkAdminPassword(body.Password) {
		return c.JSON(http.StatusUnauthorized, errorBody("Invalid password"))
	}
	if err := setAdminSession(c); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true})
}

func (a *App) handleAPIAdminLogout(c echo.Context) error {
	if err := clearAdminSession(c); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true})
}

func (a *App) handleAPIAdminSession(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{"authenticated": IsAdmin(c)})
}
