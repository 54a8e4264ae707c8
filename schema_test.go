package site

import (
	"errors"
	"testing"
)

func validationFields(t *testing.T, err error) map[string]string {
	t.Helper()
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	return verr.Fields
}

func TestValidateBlogPostInsert(t *testing.T) {
	if err := ValidateBlogPostInsert(validPostInput()); err != nil {
		t.Fatalf("valid input rejected: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*BlogPostInput)
		field  string
	}{
		{"missing title", func(in *BlogPostInput) { in.Title = "" }, "title"},
		{"blank title", func(in *BlogPostInput) { in.Title = "   " }, "title"},
		{"missing excerpt", func(in *BlogPostInput) { in.Excerpt = "" }, "excerpt"},
		{"missing content", func(in *BlogPostInput) { in.Content = "" }, "content"},
		{"missing author", func(in *BlogPostInput) { in.Author = "" }, "author"},
		{"uppercase slug", func(in *BlogPostInput) { in.Slug = "Bad-Slug" }, "slug"},
		{"leading hyphen slug", func(in *BlogPostInput) { in.Slug = "-bad" }, "slug"},
		{"double hyphen slug", func(in *BlogPostInput) { in.Slug = "bad--slug" }, "slug"},
		{"unknown category", func(in *BlogPostInput) { in.Category = "Cooking" }, "category"},
		{"bad date", func(in *BlogPostInput) { in.Date = "15/01/2025" }, "date"},
		{"bad image url", func(in *BlogPostInput) { in.Image = "javascript:alert(1)" }, "image"},
		{"bad id", func(in *BlogPostInput) { in.ID = "not-a-uuid" }, "id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validPostInput()
			tt.mutate(&in)
			fields := validationFields(t, ValidateBlogPostInsert(in))
			if _, ok := fields[tt.field]; !ok {
				t.Errorf("expected error on %q, got %v", tt.field, fields)
			}
		})
	}
}

func TestValidateBlogPostInsertOptionalFields(t *testing.T) {
	in := validPostInput()
	in.Image = "/blog-images/123.png"
	in.LinkedinURL = "https://www.linkedin.com/posts/abc"
	if err := ValidateBlogPostInsert(in); err != nil {
		t.Errorf("rooted path and absolute URL should be accepted: %v", err)
	}
}

func TestValidateBlogPostPatch(t *testing.T) {
	if err := ValidateBlogPostPatch(BlogPostPatch{}); err == nil {
		t.Error("empty patch should be rejected")
	}

	good := "New Title"
	if err := ValidateBlogPostPatch(BlogPostPatch{Title: &good}); err != nil {
		t.Errorf("single-field patch rejected: %v", err)
	}

	blank := ""
	fields := validationFields(t, ValidateBlogPostPatch(BlogPostPatch{Title: &blank}))
	if _, ok := fields["title"]; !ok {
		t.Errorf("blank supplied field should fail, got %v", fields)
	}

	badSlug := "Not A Slug"
	fields = validationFields(t, ValidateBlogPostPatch(BlogPostPatch{Slug: &badSlug}))
	if _, ok := fields["slug"]; !ok {
		t.Errorf("bad slug in patch should fail, got %v", fields)
	}
}

func TestValidateCaseStudyInsert(t *testing.T) {
	if err := ValidateCaseStudyInsert(validCaseStudyInput()); err != nil {
		t.Fatalf("valid input rejected: %v", err)
	}

	in := validCaseStudyInput()
	in.Client = ""
	fields := validationFields(t, ValidateCaseStudyInsert(in))
	if _, ok := fields["client"]; !ok {
		t.Errorf("expected error on client, got %v", fields)
	}

	in = validCaseStudyInput()
	in.Slug = "UPPER"
	fields = validationFields(t, ValidateCaseStudyInsert(in))
	if _, ok := fields["slug"]; !ok {
		t.Errorf("expected error on slug, got %v", fields)
	}
}

func TestValidateCaseStudyPatch(t *testing.T) {
	if err := ValidateCaseStudyPatch(CaseStudyPatch{}); err == nil {
		t.Error("empty patch should be rejected")
	}
	impact := "<p>new impact</p>"
	if err := ValidateCaseStudyPatch(CaseStudyPatch{Impact: &impact}); err != nil {
		t.Errorf("single-field patch rejected: %v", err)
	}
}

func TestValidateContact(t *testing.T) {
	valid := ContactInput{Name: "Sam", Email: "sam@example.com", Message: "Hi"}
	if err := ValidateContact(valid); err != nil {
		t.Fatalf("valid contact rejected: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*ContactInput)
		field  string
	}{
		{"missing name", func(in *ContactInput) { in.Name = "" }, "name"},
		{"missing email", func(in *ContactInput) { in.Email = "" }, "email"},
		{"bad email", func(in *ContactInput) { in.Email = "not-an-email" }, "email"},
		{"missing message", func(in *ContactInput) { in.Message = "" }, "message"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.mutate(&in)
			fields := validationFields(t, ValidateContact(in))
			if _, ok := fields[tt.field]; !ok {
				t.Errorf("expected error on %q, got %v", tt.field, fields)
			}
		})
	}

	withCompany := valid
	withCompany.Company = "Acme"
	if err := ValidateContact(withCompany); err != nil {
		t.Errorf("company is optional: %v", err)
	}
}
