package site

import (
	"net/mail"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// BlogPostCategories is the fixed allow-list the blog editor offers.
// The first entry is the editor's default.
var BlogPostCategories = []string{
	"AI & Technology",
	"Leadership",
	"Business Strategy",
	"Digital Transformation",
	"Industry Insights",
}

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// ValidationError carries a field-indexed error map. It is returned by the
// validate functions below and mapped to a 400 at the route boundary.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for f, msg := range e.Fields {
		parts = append(parts, f+": "+msg)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// fieldErrors accumulates per-field messages; set keeps the first message
// recorded for a field and ignores later ones.
type fieldErrors map[string]string

func (fe fieldErrors) set(field, msg string) {
	if _, ok := fe[field]; !ok {
		fe[field] = msg
	}
}

func (fe fieldErrors) err() error {
	if len(fe) == 0 {
		return nil
	}
	return &ValidationError{Fields: fe}
}

// BlogPostInput is the create payload for a blog post. ID may be supplied by
// a client but is normally server-assigned.
type BlogPostInput struct {
	ID          string `json:"id,omitempty"`
	Title       string `json:"title"`
	Slug        string `json:"slug"`
	Excerpt     string `json:"excerpt"`
	Content     string `json:"content"`
	Author      string `json:"author"`
	Category    string `json:"category"`
	Image       string `json:"image,omitempty"`
	LinkedinURL string `json:"linkedinUrl,omitempty"`
	Featured    bool   `json:"featured"`
	Published   bool   `json:"published"`
	Date        string `json:"date"`
}

// BlogPostPatch is the partial-update payload. Only non-nil fields are
// applied; supplied fields are validated against the same constraints as
// creation. A patch with no fields at all is rejected.
type BlogPostPatch struct {
	Title       *string `json:"title"`
	Slug        *string `json:"slug"`
	Excerpt     *string `json:"excerpt"`
	Content     *string `json:"content"`
	Author      *string `json:"author"`
	Category    *string `json:"category"`
	Image       *string `json:"image"`
	LinkedinURL *string `json:"linkedinUrl"`
	Featured    *bool   `json:"featured"`
	Published   *bool   `json:"published"`
	Date        *string `json:"date"`
}

// CaseStudyInput is the create payload for a case study.
type CaseStudyInput struct {
	ID                   string `json:"id,omitempty"`
	Slug                 string `json:"slug"`
	Title                string `json:"title"`
	Client               string `json:"client"`
	Category             string `json:"category"`
	Challenge            string `json:"challenge"`
	Approach             string `json:"approach"`
	Impact               string `json:"impact"`
	RoleDescription      string `json:"roleDescription"`
	Featured             bool   `json:"featured"`
	TreeHouseAttribution string `json:"treeHouseAttribution,omitempty"`
	Image                string `json:"image,omitempty"`
}

// CaseStudyPatch is the partial-update payload for a case study.
type CaseStudyPatch struct {
	Slug                 *string `json:"slug"`
	Title                *string `json:"title"`
	Client               *string `json:"client"`
	Category             *string `json:"category"`
	Challenge            *string `json:"challenge"`
	Approach             *string `json:"approach"`
	Impact               *string `json:"impact"`
	RoleDescription      *string `json:"roleDescription"`
	Featured             *bool   `json:"featured"`
	TreeHouseAttribution *string `json:"treeHouseAttribution"`
	Image                *string `json:"image"`
}

// ContactInput is the contact-form payload.
type ContactInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Company string `json:"company,omitempty"`
	Message string `json:"message"`
}

// ValidateBlogPostInsert checks a create payload. It never mutates the input.
func ValidateBlogPostInsert(in BlogPostInput) error {
	fe := fieldErrors{}
	checkOptionalUUID(fe, "id", in.ID)
	checkRequired(fe, "title", in.Title)
	checkSlug(fe, "slug", in.Slug)
	checkRequired(fe, "excerpt", in.Excerpt)
	checkRequired(fe, "content", in.Content)
	checkRequired(fe, "author", in.Author)
	checkCategory(fe, in.Category)
	checkDate(fe, "date", in.Date)
	checkOptionalURL(fe, "image", in.Image)
	checkOptionalURL(fe, "linkedinUrl", in.LinkedinURL)
	return fe.err()
}

// ValidateBlogPostPatch checks a partial update. Empty patches are rejected
// so a PATCH body of {} cannot silently succeed.
func ValidateBlogPostPatch(p BlogPostPatch) error {
	fe := fieldErrors{}
	supplied := false
	for _, f := range []struct {
		name  string
		value *string
		check func(fieldErrors, string, string)
	}{
		{"title", p.Title, checkRequired},
		{"slug", p.Slug, checkSlug},
		{"excerpt", p.Excerpt, checkRequired},
		{"content", p.Content, checkRequired},
		{"author", p.Author, checkRequired},
		{"date", p.Date, checkDate},
		{"image", p.Image, checkOptionalURL},
		{"linkedinUrl", p.LinkedinURL, checkOptionalURL},
	} {
		if f.value != nil {
			supplied = true
			f.check(fe, f.name, *f.value)
		}
	}
	if p.Category != nil {
		supplied = true
		checkCategory(fe, *p.Category)
	}
	if p.Featured != nil || p.Published != nil {
		supplied = true
	}
	if !supplied {
		fe.set("_", "patch must supply at least one field")
	}
	return fe.err()
}

// ValidateCaseStudyInsert checks a case-study create payload.
func ValidateCaseStudyInsert(in CaseStudyInput) error {
	fe := fieldErrors{}
	checkOptionalUUID(fe, "id", in.ID)
	checkSlug(fe, "slug", in.Slug)
	checkRequired(fe, "title", in.Title)
	checkRequired(fe, "client", in.Client)
	checkRequired(fe, "category", in.Category)
	checkRequired(fe, "challenge", in.Challenge)
	checkRequired(fe, "approach", in.Approach)
	checkRequired(fe, "impact", in.Impact)
	checkRequired(fe, "roleDescription", in.RoleDescription)
	checkOptionalURL(fe, "image", in.Image)
	return fe.err()
}

// ValidateCaseStudyPatch checks a case-study partial update.
func ValidateCaseStudyPatch(p CaseStudyPatch) error {
	fe := fieldErrors{}
	supplied := false
	for _, f := range []struct {
		name  string
		value *string
		check func(fieldErrors, string, string)
	}{
		{"slug", p.Slug, checkSlug},
		{"title", p.Title, checkRequired},
		{"client", p.Client, checkRequired},
		{"category", p.Category, checkRequired},
		{"challenge", p.Challenge, checkRequired},
		{"approach", p.Approach, checkRequired},
		{"impact", p.Impact, checkRequired},
		{"roleDescription", p.RoleDescription, checkRequired},
		{"image", p.Image, checkOptionalURL},
	} {
		if f.value != nil {
			supplied = true
			f.check(fe, f.name, *f.value)
		}
	}
	if p.Featured != nil || p.TreeHouseAttribution != nil {
		supplied = true
	}
	if !supplied {
		fe.set("_", "patch must supply at least one field")
	}
	return fe.err()
}

// ValidateContact checks a contact-form payload.
func ValidateContact(in ContactInput) error {
	fe := fieldErrors{}
	checkRequired(fe, "name", in.Name)
	if strings.TrimSpace(in.Email) == "" {
		fe.set("email", "is required")
	} else if _, err := mail.ParseAddress(in.Email); err != nil {
		fe.set("email", "must be a valid email address")
	}
	checkRequired(fe, "message", in.Message)
	return fe.err()
}

func checkRequired(fe fieldErrors, field, v string) {
	if strings.TrimSpace(v) == "" {
		fe.set(field, "is required")
	}
}

func checkSlug(fe fieldErrors, field, v string) {
	if strings.TrimSpace(v) == "" {
		fe.set(field, "is required")
		return
	}
	if !slugPattern.MatchString(v) {
		fe.set(field, "must contain only lowercase letters, digits and hyphens")
	}
}

func checkDate(fe fieldErrors, field, v string) {
	if v == "" {
		fe.set(field, "is required")
		return
	}
	if _, err := time.Parse("2006-01-02", v); err != nil {
		fe.set(field, "must be in YYYY-MM-DD format")
	}
}

func checkCategory(fe fieldErrors, v string) {
	if strings.TrimSpace(v) == "" {
		fe.set("category", "is required")
		return
	}
	for _, c := range BlogPostCategories {
		if v == c {
			return
		}
	}
	fe.set("category", "must be one of: "+strings.Join(BlogPostCategories, ", "))
}

// checkOptionalURL accepts an empty value, an absolute http(s) URL, or a
// rooted path such as the ones the upload handler returns.
func checkOptionalURL(fe fieldErrors, field, v string) {
	if v == "" {
		return
	}
	if strings.HasPrefix(v, "/") {
		return
	}
	u, err := url.Parse(v)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		fe.set(field, "must be a URL or a rooted path")
	}
}

func checkOptionalUUID(fe fieldErrors, field, v string) {
	if v == "" {
		return
	}
	if _, err := uuid.Parse(v); err != nil {
		fe.set(field, "must be a UUID")
	}
}
