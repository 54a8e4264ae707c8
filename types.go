package site

import "time"

// BlogPost is a blog article authored through the admin area. Content is
// rich-text HTML produced by the editor, stored verbatim.
type BlogPost struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Excerpt     string    `json:"excerpt"`
	Content     string    `json:"content"`
	Author      string    `json:"author"`
	Category    string    `json:"category"`
	Image       string    `json:"image,omitempty"`
	LinkedinURL string    `json:"linkedinUrl,omitempty"`
	Featured    bool      `json:"featured"`
	Published   bool      `json:"published"`
	Date        string    `json:"date"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// CaseStudy is a client engagement write-up shown on the work pages.
type CaseStudy struct {
	ID                   string    `json:"id"`
	Slug                 string    `json:"slug"`
	Title                string    `json:"title"`
	Client               string    `json:"client"`
	Category             string    `json:"category"`
	Challenge            string    `json:"challenge"`
	Approach             string    `json:"approach"`
	Impact               string    `json:"impact"`
	RoleDescription      string    `json:"roleDescription"`
	Featured             bool      `json:"featured"`
	TreeHouseAttribution string    `json:"treeHouseAttribution,omitempty"`
	Image                string    `json:"image,omitempty"`
	CreatedAt            time.Time `json:"createdAt"`
	UpdatedAt            time.Time `json:"updatedAt"`
}

// Contact is a contact-form submission.
type Contact struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Company   string    `json:"company,omitempty"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

// Image kinds, matching the public directory the file lands in.
const (
	ImageKindBlog      = "blog"
	ImageKindCaseStudy = "case-study"
)

// Image is upload metadata kept for the admin image library. The file itself
// lives under the public directory for its kind.
type Image struct {
	Filename     string    `json:"filename"`
	OriginalName string    `json:"originalName"`
	Kind         string    `json:"kind"`
	Width        int       `json:"width"`
	Height       int       `json:"height"`
	Size         int64     `json:"size"`
	UploadedAt   time.Time `json:"uploadedAt"`
}

// URL returns the public path the uploaded file is served from.
func (i Image) URL() string {
	if i.Kind == ImageKindCaseStudy {
		return "/case-study-images/" + i.Filename
	}
	return "/blog-images/" + i.Filename
}
