package site

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	_ "modernc.org/sqlite"
)

// ErrDuplicateSlug is returned by create/update when the slug unique index
// rejects the write. Mapped to 409 at the route boundary.
var ErrDuplicateSlug = errors.New("slug already exists")

// Timestamps are stored as fixed-width UTC strings so lexicographic ORDER BY
// matches chronological order.
const sqlTimeLayout = "2006-01-02T15:04:05.000000000Z"

// Store wraps a SQLite database and provides CRUD for blog posts, case
// studies, contacts, and image metadata.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the SQLite database at path, ensures the data
// directory exists, and runs schema migrations.
func NewStore(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL for concurrent read/write, busy timeout so writers wait instead of
	// failing with SQLITE_BUSY, synchronous=NORMAL is safe under WAL.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
		PRAGMA cache_size=-8000;
	`); err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS blog_posts (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    slug TEXT NOT NULL UNIQUE,
    excerpt TEXT NOT NULL,
    content TEXT NOT NULL,
    author TEXT NOT NULL,
    category TEXT NOT NULL,
    image TEXT,
    linkedin_url TEXT,
    featured INTEGER NOT NULL DEFAULT 0,
    published INTEGER NOT NULL DEFAULT 0,
    date TEXT NOT NULL,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS case_studies (
    id TEXT PRIMARY KEY,
    slug TEXT NOT NULL UNIQUE,
    title TEXT NOT NULL,
    client TEXT NOT NULL,
    category TEXT NOT NULL,
    challenge TEXT NOT NULL,
    approach TEXT NOT NULL,
    impact TEXT NOT NULL,
    role_description TEXT NOT NULL,
    featured INTEGER NOT NULL DEFAULT 0,
    tree_house_attribution TEXT,
    image TEXT,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS contacts (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    email TEXT NOT NULL,
    company TEXT,
    message TEXT NOT NULL,
    created_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS images (
    filename TEXT PRIMARY KEY,
    original_name TEXT NOT NULL,
    kind TEXT NOT NULL,
    width INTEGER NOT NULL DEFAULT 0,
    height INTEGER NOT NULL DEFAULT 0,
    size INTEGER NOT NULL DEFAULT 0,
    uploaded_at TEXT NOT NULL
);
`)
	return err
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func formatTime(t time.Time) string {
	return t.UTC().Format(sqlTimeLayout)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(sqlTimeLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// --- Blog posts ---

const blogPostColumns = `id, title, slug, excerpt, content, author, category, image, linkedin_url, featured, published, date, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBlogPost(r rowScanner) (BlogPost, error) {
	var p BlogPost
	var image, linkedin sql.NullString
	var featured, published int
	var created, updated string
	err := r.Scan(&p.ID, &p.Title, &p.Slug, &p.Excerpt, &p.Content, &p.Author,
		&p.Category, &image, &linkedin, &featured, &published, &p.Date, &created, &updated)
	if err != nil {
		return BlogPost{}, err
	}
	p.Image = image.String
	p.LinkedinURL = linkedin.String
	p.Featured = featured == 1
	p.Published = published == 1
	p.CreatedAt = parseTime(created)
	p.UpdatedAt = parseTime(updated)
	return p, nil
}

// ListBlogPosts returns every post, drafts included, newest first.
func (s *Store) ListBlogPosts() ([]BlogPost, error) {
	rows, err := s.db.Query(`SELECT ` + blogPostColumns + ` FROM blog_posts ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []BlogPost
	for rows.Next() {
		p, err := scanBlogPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// ListPublishedBlogPosts returns published posts, newest first.
func (s *Store) ListPublishedBlogPosts() ([]BlogPost, error) {
	rows, err := s.db.Query(`SELECT ` + blogPostColumns + ` FROM blog_posts WHERE published = 1 ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []BlogPost
	for rows.Next() {
		p, err := scanBlogPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// GetBlogPostBySlug returns a post by slug, any publication state.
func (s *Store) GetBlogPostBySlug(slug string) (BlogPost, error) {
	row := s.db.QueryRow(`SELECT `+blogPostColumns+` FROM blog_posts WHERE slug = ?`, slug)
	return scanBlogPost(row)
}

// GetBlogPostByID returns a post by id.
func (s *Store) GetBlogPostByID(id string) (BlogPost, error) {
	row := s.db.QueryRow(`SELECT `+blogPostColumns+` FROM blog_posts WHERE id = ?`, id)
	return scanBlogPost(row)
}

// CreateBlogPost inserts a validated payload, assigning id and timestamps
// unless the client supplied an id. The inserted row is returned atomically
// via RETURNING, so there is no write/read-back race.
func (s *Store) CreateBlogPost(in BlogPostInput) (BlogPost, error) {
	id := in.ID
	if id == "" {
		id = uuid.NewString()
	}
	now := formatTime(time.Now())
	row := s.db.QueryRow(`
INSERT INTO blog_posts (id, title, slug, excerpt, content, author, category, image, linkedin_url, featured, published, date, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
RETURNING `+blogPostColumns,
		id, in.Title, in.Slug, in.Excerpt, in.Content, in.Author, in.Category,
		nullString(in.Image), nullString(in.LinkedinURL), boolInt(in.Featured), boolInt(in.Published), in.Date, now, now)
	p, err := scanBlogPost(row)
	if isUniqueViolation(err) {
		return BlogPost{}, ErrDuplicateSlug
	}
	if err != nil {
		return BlogPost{}, fmt.Errorf("create blog post: %w", err)
	}
	return p, nil
}

// UpdateBlogPost applies the non-nil patch fields to the post with the given
// id and refreshes updated_at. Returns sql.ErrNoRows when the id is unknown.
func (s *Store) UpdateBlogPost(id string, patch BlogPostPatch) (BlogPost, error) {
	set := []string{"updated_at = ?"}
	args := []any{formatTime(time.Now())}
	add := func(col string, v any) {
		set = append(set, col+" = ?")
		args = append(args, v)
	}
	if patch.Title != nil {
		add("title", *patch.Title)
	}
	if patch.Slug != nil {
		add("slug", *patch.Slug)
	}
	if patch.Excerpt != nil {
		add("excerpt", *patch.Excerpt)
	}
	if patch.Content != nil {
		add("content", *patch.Content)
	}
	if patch.Author != nil {
		add("author", *patch.Author)
	}
	if patch.Category != nil {
		add("category", *patch.Category)
	}
	if patch.Image != nil {
		add("image", nullString(*patch.Image))
	}
	if patch.LinkedinURL != nil {
		add("linkedin_url", nullString(*patch.LinkedinURL))
	}
	if patch.Featured != nil {
		add("featured", boolInt(*patch.Featured))
	}
	if patch.Published != nil {
		add("published", boolInt(*patch.Published))
	}
	if patch.Date != nil {
		add("date", *patch.Date)
	}
	args = append(args, id)
	row := s.db.QueryRow(`UPDATE blog_posts SET `+strings.Join(set, ", ")+` WHERE id = ? RETURNING `+blogPostColumns, args...)
	p, err := scanBlogPost(row)
	if isUniqueViolation(err) {
		return BlogPost{}, ErrDuplicateSlug
	}
	if err != nil {
		return BlogPost{}, err
	}
	return p, nil
}

// DeleteBlogPost removes a post by id, reporting whether a row was removed.
func (s *Store) DeleteBlogPost(id string) (bool, error) {
	res, err := s.db.Exec(`DELETE FROM blog_posts WHERE id = ?`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// --- Case studies ---

const caseStudyColumns = `id, slug, title, client, category, challenge, approach, impact, role_description, featured, tree_house_attribution, image, created_at, updated_at`

func scanCaseStudy(r rowScanner) (CaseStudy, error) {
	var cs CaseStudy
	var attribution, image sql.NullString
	var featured int
	var created, updated string
	err := r.Scan(&cs.ID, &cs.Slug, &cs.Title, &cs.Client, &cs.Category,
		&cs.Challenge, &cs.Approach, &cs.Impact, &cs.RoleDescription,
		&featured, &attribution, &image, &created, &updated)
	if err != nil {
		return CaseStudy{}, err
	}
	cs.Featured = featured == 1
	cs.TreeHouseAttribution = attribution.String
	cs.Image = image.String
	cs.CreatedAt = parseTime(created)
	cs.UpdatedAt = parseTime(updated)
	return cs, nil
}

// ListCaseStudies returns all case studies, newest first.
func (s *Store) ListCaseStudies() ([]CaseStudy, error) {
	rows, err := s.db.Query(`SELECT ` + caseStudyColumns + ` FROM case_studies ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var studies []CaseStudy
	for rows.Next() {
		cs, err := scanCaseStudy(rows)
		if err != nil {
			return nil, err
		}
		studies = append(studies, cs)
	}
	return studies, rows.Err()
}

// GetCaseStudyBySlug returns a case study by slug.
func (s *Store) GetCaseStudyBySlug(slug string) (CaseStudy, error) {
	row := s.db.QueryRow(`SELECT `+caseStudyColumns+` FROM case_studies WHERE slug = ?`, slug)
	return scanCaseStudy(row)
}

// GetCaseStudyByID returns a case study by id.
func (s *Store) GetCaseStudyByID(id string) (CaseStudy, error) {
	row := s.db.QueryRow(`SELECT `+caseStudyColumns+` FROM case_studies WHERE id = ?`, id)
	return scanCaseStudy(row)
}

// CreateCaseStudy inserts a validated payload, assigning id and timestamps.
func (s *Store) CreateCaseStudy(in CaseStudyInput) (CaseStudy, error) {
	id := in.ID
	if id == "" {
		id = uuid.NewString()
	}
	now := formatTime(time.Now())
	row := s.db.QueryRow(`
INSERT INTO case_studies (id, slug, title, client, category, challenge, approach, impact, role_description, featured, tree_house_attribution, image, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
RETURNING `+caseStudyColumns,
		id, in.Slug, in.Title, in.Client, in.Category, in.Challenge, in.Approach,
		in.Impact, in.RoleDescription, boolInt(in.Featured),
		nullString(in.TreeHouseAttribution), nullString(in.Image), now, now)
	cs, err := scanCaseStudy(row)
	if isUniqueViolation(err) {
		return CaseStudy{}, ErrDuplicateSlug
	}
	if err != nil {
		return CaseStudy{}, fmt.Errorf("create case study: %w", err)
	}
	return cs, nil
}

// UpdateCaseStudy applies the non-nil patch fields and refreshes updated_at.
func (s *Store) UpdateCaseStudy(id string, patch CaseStudyPatch) (CaseStudy, error) {
	set := []string{"updated_at = ?"}
	args := []any{formatTime(time.Now())}
	add := func(col string, v any) {
		set = append(set, col+" = ?")
		args = append(args, v)
	}
	if patch.Slug != nil {
		add("slug", *patch.Slug)
	}
	if patch.Title != nil {
		add("title", *patch.Title)
	}
	if patch.Client != nil {
		add("client", *patch.Client)
	}
	if patch.Category != nil {
		add("category", *patch.Category)
	}
	if patch.Challenge != nil {
		add("challenge", *patch.Challenge)
	}
	if patch.Approach != nil {
		add("approach", *patch.Approach)
	}
	if patch.Impact != nil {
		add("impact", *patch.Impact)
	}
	if patch.RoleDescription != nil {
		add("role_description", *patch.RoleDescription)
	}
	if patch.Featured != nil {
		add("featured", boolInt(*patch.Featured))
	}
	if patch.TreeHouseAttribution != nil {
		add("tree_house_attribution", nullString(*patch.TreeHouseAttribution))
	}
	if patch.Image != nil {
		add("image", nullString(*patch.Image))
	}
	args = append(args, id)
	row := s.db.QueryRow(`UPDATE case_studies SET `+strings.Join(set, ", ")+` WHERE id = ? RETURNING `+caseStudyColumns, args...)
	cs, err := scanCaseStudy(row)
	if isUniqueViolation(err) {
		return CaseStudy{}, ErrDuplicateSlug
	}
	if err != nil {
		return CaseStudy{}, err
	}
	return cs, nil
}

// DeleteCaseStudy removes a case study by id.
func (s *Store) DeleteCaseStudy(id string) (bool, error) {
	res, err := s.db.Exec(`DELETE FROM case_studies WHERE id = ?`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// --- Contacts ---

// CreateContact stores a contact-form submission.
func (s *Store) CreateContact(in ContactInput) (Contact, error) {
	id := uuid.NewString()
	now := formatTime(time.Now())
	row := s.db.QueryRow(`
INSERT INTO contacts (id, name, email, company, message, created_at)
VALUES (?, ?, ?, ?, ?, ?)
RETURNING id, name, email, company, message, created_at`,
		id, in.Name, in.Email, nullString(in.Company), in.Message, now)
	var ct Contact
	var company sql.NullString
	var created string
	if err := row.Scan(&ct.ID, &ct.Name, &ct.Email, &company, &ct.Message, &created); err != nil {
		return Contact{}, fmt.Errorf("create contact: %w", err)
	}
	ct.Company = company.String
	ct.CreatedAt = parseTime(created)
	return ct, nil
}

// ListContacts returns submissions, newest first.
func (s *Store) ListContacts() ([]Contact, error) {
	rows, err := s.db.Query(`SELECT id, name, email, company, message, created_at FROM contacts ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var contacts []Contact
	for rows.Next() {
		var ct Contact
		var company sql.NullString
		var created string
		if err := rows.Scan(&ct.ID, &ct.Name, &ct.Email, &company, &ct.Message, &created); err != nil {
			return nil, err
		}
		ct.Company = company.String
		ct.CreatedAt = parseTime(created)
		contacts = append(contacts, ct)
	}
	return contacts, rows.Err()
}

// --- Images ---

// SaveImage records upload metadata for the admin image library.
func (s *Store) SaveImage(img Image) error {
	_, err := s.db.Exec(`
INSERT OR REPLACE INTO images (filename, original_name, kind, width, height, size, uploaded_at)
VALUES (?, ?, ?, ?, ?, ?, ?)`,
		img.Filename, img.OriginalName, img.Kind, img.Width, img.Height, img.Size, formatTime(img.UploadedAt))
	return err
}

// ListImages returns upload metadata, newest first.
func (s *Store) ListImages() ([]Image, error) {
	rows, err := s.db.Query(`SELECT filename, original_name, kind, width, height, size, uploaded_at FROM images ORDER BY uploaded_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var images []Image
	for rows.Next() {
		var img Image
		var uploaded string
		if err := rows.Scan(&img.Filename, &img.OriginalName, &img.Kind, &img.Width, &img.Height, &img.Size, &uploaded); err != nil {
			return nil, err
		}
		img.UploadedAt = parseTime(uploaded)
		images = append(images, img)
	}
	return images, rows.Err()
}

// DeleteImage removes an upload record by filename.
func (s *Store) DeleteImage(filename string) error {
	_, err := s.db.Exec(`DELETE FROM images WHERE filename = ?`, filename)
	return err
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
