package site

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "site.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestNewStoreOpensDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "site.db")
	s, err := NewStore(path)
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	defer s.Close()

	if _, err := os.Stat(path); err != nil {
		t.Errorf("database file not created: %v", err)
	}
	// Schema is in place and queryable through the registered driver.
	if _, err := s.ListBlogPosts(); err != nil {
		t.Errorf("fresh store should be queryable: %v", err)
	}
}

func validPostInput() BlogPostInput {
	return BlogPostInput{
		Title:    "Test Post",
		Slug:     "test-post",
		Excerpt:  "A summary",
		Content:  "<p>Body</p>",
		Author:   "Jo",
		Category: "AI & Technology",
		Date:     "2025-01-15",
	}
}

func TestCreateBlogPostAssignsServerFields(t *testing.T) {
	s := setupTestStore(t)

	post, err := s.CreateBlogPost(validPostInput())
	if err != nil {
		t.Fatalf("CreateBlogPost failed: %v", err)
	}
	if post.ID == "" {
		t.Error("ID should be server-assigned")
	}
	if post.CreatedAt.IsZero() || post.UpdatedAt.IsZero() {
		t.Error("timestamps should be server-assigned")
	}
	if post.Published {
		t.Error("Published should default to false")
	}
	if post.Title != "Test Post" || post.Slug != "test-post" || post.Excerpt != "A summary" ||
		post.Content != "<p>Body</p>" || post.Author != "Jo" || post.Category != "AI & Technology" ||
		post.Date != "2025-01-15" {
		t.Errorf("input fields not preserved: %+v", post)
	}

	got, err := s.GetBlogPostBySlug("test-post")
	if err != nil {
		t.Fatalf("GetBlogPostBySlug failed: %v", err)
	}
	if got.ID != post.ID {
		t.Errorf("ID = %q, want %q", got.ID, post.ID)
	}

	byID, err := s.GetBlogPostByID(post.ID)
	if err != nil {
		t.Fatalf("GetBlogPostByID failed: %v", err)
	}
	if byID.Slug != "test-post" {
		t.Errorf("Slug = %q, want test-post", byID.Slug)
	}
}

func TestCreateBlogPostDuplicateSlug(t *testing.T) {
	s := setupTestStore(t)

	if _, err := s.CreateBlogPost(validPostInput()); err != nil {
		t.Fatalf("first create failed: %v", err)
	}
	_, err := s.CreateBlogPost(validPostInput())
	if !errors.Is(err, ErrDuplicateSlug) {
		t.Errorf("expected ErrDuplicateSlug, got %v", err)
	}

	posts, err := s.ListBlogPosts()
	if err != nil {
		t.Fatalf("ListBlogPosts failed: %v", err)
	}
	if len(posts) != 1 {
		t.Errorf("exactly one create should succeed, have %d rows", len(posts))
	}
}

func TestUpdateBlogPostPartial(t *testing.T) {
	s := setupTestStore(t)

	created, err := s.CreateBlogPost(validPostInput())
	if err != nil {
		t.Fatalf("CreateBlogPost failed: %v", err)
	}

	time.Sleep(10 * time.Millisecond)
	title := "X"
	updated, err := s.UpdateBlogPost(created.ID, BlogPostPatch{Title: &title})
	if err != nil {
		t.Fatalf("UpdateBlogPost failed: %v", err)
	}
	if updated.Title != "X" {
		t.Errorf("Title = %q, want X", updated.Title)
	}
	if updated.Slug != created.Slug || updated.Excerpt != created.Excerpt ||
		updated.Content != created.Content || updated.Author != created.Author ||
		updated.Category != created.Category || updated.Date != created.Date ||
		updated.Published != created.Published || updated.Featured != created.Featured {
		t.Errorf("patch changed unrelated fields: %+v vs %+v", updated, created)
	}
	if !updated.CreatedAt.Equal(created.CreatedAt) {
		t.Error("CreatedAt must not change on update")
	}
	if !updated.UpdatedAt.After(created.UpdatedAt) {
		t.Errorf("UpdatedAt must advance: %v -> %v", created.UpdatedAt, updated.UpdatedAt)
	}
	if updated.ID != created.ID {
		t.Error("ID must be immutable")
	}
}

func TestUpdateBlogPostUnknownID(t *testing.T) {
	s := setupTestStore(t)

	title := "X"
	_, err := s.UpdateBlogPost("00000000-0000-0000-0000-000000000000", BlogPostPatch{Title: &title})
	if !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("expected sql.ErrNoRows, got %v", err)
	}
}

func TestDeleteBlogPost(t *testing.T) {
	s := setupTestStore(t)

	created, err := s.CreateBlogPost(validPostInput())
	if err != nil {
		t.Fatalf("CreateBlogPost failed: %v", err)
	}

	deleted, err := s.DeleteBlogPost("no-such-id")
	if err != nil {
		t.Fatalf("DeleteBlogPost failed: %v", err)
	}
	if deleted {
		t.Error("deleting an unknown id should report false")
	}

	deleted, err = s.DeleteBlogPost(created.ID)
	if err != nil {
		t.Fatalf("DeleteBlogPost failed: %v", err)
	}
	if !deleted {
		t.Error("deleting a known id should report true")
	}

	if _, err := s.GetBlogPostByID(created.ID); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("post should be gone, got %v", err)
	}
}

func TestListBlogPostsOrder(t *testing.T) {
	s := setupTestStore(t)

	for _, slug := range []string{"first", "second", "third"} {
		in := validPostInput()
		in.Slug = slug
		in.Title = slug
		if _, err := s.CreateBlogPost(in); err != nil {
			t.Fatalf("create %s failed: %v", slug, err)
		}
	}

	posts, err := s.ListBlogPosts()
	if err != nil {
		t.Fatalf("ListBlogPosts failed: %v", err)
	}
	if len(posts) != 3 {
		t.Fatalf("count = %d, want 3", len(posts))
	}
	if posts[0].Slug != "third" || posts[2].Slug != "first" {
		t.Errorf("expected newest first, got %s..%s", posts[0].Slug, posts[2].Slug)
	}
}

func TestPublishedFiltering(t *testing.T) {
	s := setupTestStore(t)

	draft := validPostInput()
	draft.Slug = "draft-post"
	if _, err := s.CreateBlogPost(draft); err != nil {
		t.Fatalf("create draft failed: %v", err)
	}
	live := validPostInput()
	live.Slug = "live-post"
	live.Published = true
	if _, err := s.CreateBlogPost(live); err != nil {
		t.Fatalf("create live failed: %v", err)
	}

	published, err := s.ListPublishedBlogPosts()
	if err != nil {
		t.Fatalf("ListPublishedBlogPosts failed: %v", err)
	}
	if len(published) != 1 || published[0].Slug != "live-post" {
		t.Errorf("published = %+v, want only live-post", published)
	}

	all, err := s.ListBlogPosts()
	if err != nil {
		t.Fatalf("ListBlogPosts failed: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("all = %d, want 2", len(all))
	}
}

func validCaseStudyInput() CaseStudyInput {
	return CaseStudyInput{
		Slug:            "acme-replatform",
		Title:           "Acme replatform",
		Client:          "Acme",
		Category:        "Transformation",
		Challenge:       "<p>c</p>",
		Approach:        "<p>a</p>",
		Impact:          "<p>i</p>",
		RoleDescription: "<p>r</p>",
	}
}

func TestCaseStudyCRUD(t *testing.T) {
	s := setupTestStore(t)

	cs, err := s.CreateCaseStudy(validCaseStudyInput())
	if err != nil {
		t.Fatalf("CreateCaseStudy failed: %v", err)
	}
	if cs.ID == "" || cs.CreatedAt.IsZero() {
		t.Error("server fields not assigned")
	}

	if _, err := s.CreateCaseStudy(validCaseStudyInput()); !errors.Is(err, ErrDuplicateSlug) {
		t.Errorf("expected ErrDuplicateSlug, got %v", err)
	}

	time.Sleep(10 * time.Millisecond)
	featured := true
	updated, err := s.UpdateCaseStudy(cs.ID, CaseStudyPatch{Featured: &featured})
	if err != nil {
		t.Fatalf("UpdateCaseStudy failed: %v", err)
	}
	if !updated.Featured {
		t.Error("Featured should be true after patch")
	}
	if updated.Client != "Acme" || updated.Slug != "acme-replatform" {
		t.Error("patch changed unrelated fields")
	}
	if !updated.UpdatedAt.After(cs.UpdatedAt) {
		t.Error("UpdatedAt must advance")
	}

	got, err := s.GetCaseStudyBySlug("acme-replatform")
	if err != nil {
		t.Fatalf("GetCaseStudyBySlug failed: %v", err)
	}
	if got.ID != cs.ID {
		t.Errorf("ID = %q, want %q", got.ID, cs.ID)
	}

	deleted, err := s.DeleteCaseStudy(cs.ID)
	if err != nil || !deleted {
		t.Fatalf("DeleteCaseStudy = %v, %v", deleted, err)
	}
	if _, err := s.GetCaseStudyByID(cs.ID); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("case study should be gone, got %v", err)
	}
}

func TestContacts(t *testing.T) {
	s := setupTestStore(t)

	ct, err := s.CreateContact(ContactInput{
		Name:    "Sam",
		Email:   "sam@example.com",
		Message: "Hello",
	})
	if err != nil {
		t.Fatalf("CreateContact failed: %v", err)
	}
	if ct.ID == "" || ct.CreatedAt.IsZero() {
		t.Error("server fields not assigned")
	}
	if ct.Company != "" {
		t.Errorf("Company = %q, want empty", ct.Company)
	}

	contacts, err := s.ListContacts()
	if err != nil {
		t.Fatalf("ListContacts failed: %v", err)
	}
	if len(contacts) != 1 || contacts[0].Email != "sam@example.com" {
		t.Errorf("contacts = %+v", contacts)
	}
}

func TestImageMetadata(t *testing.T) {
	s := setupTestStore(t)

	img := Image{
		Filename:     "123-456.png",
		OriginalName: "photo.png",
		Kind:         ImageKindBlog,
		Width:        800,
		Height:       600,
		Size:         1024,
		UploadedAt:   time.Now().UTC(),
	}
	if err := s.SaveImage(img); err != nil {
		t.Fatalf("SaveImage failed: %v", err)
	}
	images, err := s.ListImages()
	if err != nil {
		t.Fatalf("ListImages failed: %v", err)
	}
	if len(images) != 1 || images[0].Filename != "123-456.png" || images[0].Width != 800 {
		t.Errorf("images = %+v", images)
	}
	if err := s.DeleteImage("123-456.png"); err != nil {
		t.Fatalf("DeleteImage failed: %v", err)
	}
	images, _ = s.ListImages()
	if len(images) != 0 {
		t.Errorf("expected no images, got %d", len(images))
	}
}
