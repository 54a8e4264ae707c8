package site

import (
	"database/sql"
	"sync"
	"time"
)

// ErrNotFound is returned when requested content does not exist.
var ErrNotFound = sql.ErrNoRows

// ContentCache is an in-memory cache of the published content the public
// pages render: published blog posts and all case studies, with TTL.
// Mutations through the API or admin area must call Invalidate.
type ContentCache struct {
	mu      sync.RWMutex
	posts   []BlogPost
	studies []CaseStudy
	fetched time.Time
	ttl     time.Duration
	store   *Store
}

// NewContentCache creates a ContentCache backed by the given Store.
func NewContentCache(s *Store, ttl time.Duration) *ContentCache {
	return &ContentCache{store: s, ttl: ttl}
}

func (c *ContentCache) valid() bool {
	return c.posts != nil && time.Since(c.fetched) < c.ttl
}

// Invalidate clears the cache so the next read triggers a fresh load.
func (c *ContentCache) Invalidate() {
	c.mu.Lock()
	c.posts = nil
	c.studies = nil
	c.mu.Unlock()
}

func (c *ContentCache) load() error {
	if c.valid() {
		return nil
	}
	posts, err := c.store.ListPublishedBlogPosts()
	if err != nil {
		return err
	}
	studies, err := c.store.ListCaseStudies()
	if err != nil {
		return err
	}
	if posts == nil {
		posts = []BlogPost{}
	}
	c.posts = posts
	c.studies = studies
	c.fetched = time.Now()
	return nil
}

// ensureLoaded returns cached content after refreshing it if stale. It tries
// a read lock first; only takes a write lock when a reload is needed.
func (c *ContentCache) ensureLoaded() ([]BlogPost, []CaseStudy, error) {
	c.mu.RLock()
	if c.valid() {
		posts, studies := c.posts, c.studies
		c.mu.RUnlock()
		return posts, studies, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.load(); err != nil {
		return nil, nil, err
	}
	return c.posts, c.studies, nil
}

// PublishedPosts returns published blog posts, newest first.
func (c *ContentCache) PublishedPosts() ([]BlogPost, error) {
	posts, _, err := c.ensureLoaded()
	return posts, err
}

// CaseStudies returns all case studies, newest first. If category is
// non-empty, results are filtered to that category.
func (c *ContentCache) CaseStudies(category string) ([]CaseStudy, error) {
	_, studies, err := c.ensureLoaded()
	if err != nil {
		return nil, err
	}
	if category == "" {
		return studies, nil
	}
	var filtered []CaseStudy
	for _, cs := range studies {
		if cs.Category == category {
			filtered = append(filtered, cs)
		}
	}
	return filtered, nil
}

// PublishedPost returns a single published post by slug from the cache.
func (c *ContentCache) PublishedPost(slug string) (BlogPost, error) {
	posts, _, err := c.ensureLoaded()
	if err != nil {
		return BlogPost{}, err
	}
	for _, p := range posts {
		if p.Slug == slug {
			return p, nil
		}
	}
	return BlogPost{}, ErrNotFound
}

// CaseStudy returns a single case study by slug from the cache.
func (c *ContentCache) CaseStudy(slug string) (CaseStudy, error) {
	_, studies, err := c.ensureLoaded()
	if err != nil {
		return CaseStudy{}, err
	}
	for _, cs := range studies {
		if cs.Slug == slug {
			return cs, nil
		}
	}
	return CaseStudy{}, ErrNotFound
}

// FeaturedCaseStudies returns case studies flagged for prioritized display.
func (c *ContentCache) FeaturedCaseStudies() ([]CaseStudy, error) {
	_, studies, err := c.ensureLoaded()
	if err != nil {
		return nil, err
	}
	var featured []CaseStudy
	for _, cs := range studies {
		if cs.Featured {
			featured = append(featured, cs)
		}
	}
	return featured, nil
}
