package views

import (
	"bytes"

	"github.com/a-h/templ"

	site "github.com/adaptiveedge/site"
)

// Home shows featured case studies and the latest blog posts.
func Home(cfg site.SiteConfig, featured []site.CaseStudy, posts []site.BlogPost) templ.Component {
	return page(cfg, "", func(buf *bytes.Buffer) {
		buf.WriteString("<section class=\"hero\"><h1>" + esc(cfg.Name) + "</h1>")
		if cfg.Description != "" {
			buf.WriteString("<p>" + esc(cfg.Description) + "</p>")
		}
		buf.WriteString("</section>")

		if len(featured) > 0 {
			buf.WriteString("<section class=\"featured-work\"><h2>Featured work</h2><div class=\"cards\">")
			for _, cs := range featured {
				buf.WriteString("<article class=\"card\">")
				img(buf, cs.Image, cs.Title, "card-image")
				buf.WriteString("<span class=\"category\">" + esc(cs.Category) + "</span>")
				buf.WriteString("<h3><a href=\"/work/" + esc(cs.Slug) + "/\">" + esc(cs.Title) + "</a></h3>")
				buf.WriteString("<p class=\"client\">" + esc(cs.Client) + "</p>")
				buf.WriteString("</article>")
			}
			buf.WriteString("</div></section>")
		}

		if len(posts) > 0 {
			buf.WriteString("<section class=\"recent-posts\"><h2>From the blog</h2><ul>")
			for i, p := range posts {
				if i == 3 {
					break
				}
				buf.WriteString("<li><a href=\"/blog/" + esc(p.Slug) + "/\">" + esc(p.Title) + "</a>")
				buf.WriteString("<span class=\"date\">" + esc(p.Date) + "</span></li>")
			}
			buf.WriteString("</ul></section>")
		}
	})
}

// Work lists case studies, optionally filtered by category.
func Work(cfg site.SiteConfig, studies []site.CaseStudy, activeCategory string) templ.Component {
	return page(cfg, "Work", func(buf *bytes.Buffer) {
		buf.WriteString("<h1>Work</h1>")
		if activeCategory != "" {
			buf.WriteString("<p class=\"filter\">Showing: " + esc(activeCategory) +
				" <a href=\"/work/\">All</a></p>")
		}
		if len(studies) == 0 {
			buf.WriteString("<p>No case studies found in this category.</p>")
			return
		}
		buf.WriteString("<div class=\"cards\">")
		for _, cs := range studies {
			buf.WriteString("<article class=\"card\">")
			img(buf, cs.Image, cs.Title, "card-image")
			buf.WriteString("<span class=\"category\">" + esc(cs.Category) + "</span>")
			buf.WriteString("<h2><a href=\"/work/" + esc(cs.Slug) + "/\">" + esc(cs.Title) + "</a></h2>")
			buf.WriteString("<p class=\"client\">" + esc(cs.Client) + "</p>")
			buf.WriteString("</article>")
		}
		buf.WriteString("</div>")
	})
}

func caseStudyArticle(buf *bytes.Buffer, cs site.CaseStudy) {
	buf.WriteString("<article class=\"case-study\">")
	buf.WriteString("<span class=\"category\">" + esc(cs.Category) + "</span>")
	buf.WriteString("<h1>" + esc(cs.Title) + "</h1>")
	buf.WriteString("<p class=\"client\">" + esc(cs.Client) + "</p>")
	img(buf, cs.Image, cs.Title, "lead-image")
	buf.WriteString("<section><h2>Challenge</h2><div>" + cs.Challenge + "</div></section>")
	buf.WriteString("<section><h2>Approach</h2><div>" + cs.Approach + "</div></section>")
	buf.WriteString("<section><h2>Impact</h2><div>" + cs.Impact + "</div></section>")
	buf.WriteString("<section><h2>Our role</h2><div>" + cs.RoleDescription + "</div></section>")
	if cs.TreeHouseAttribution != "" {
		buf.WriteString("<p class=\"attribution\">" + esc(cs.TreeHouseAttribution) + "</p>")
	}
	buf.WriteString("</article>")
}

// CaseStudyPage renders a single case study.
func CaseStudyPage(cfg site.SiteConfig, cs site.CaseStudy) templ.Component {
	return page(cfg, cs.Title, func(buf *bytes.Buffer) {
		caseStudyArticle(buf, cs)
	})
}

// Blog lists published posts.
func Blog(cfg site.SiteConfig, posts []site.BlogPost) templ.Component {
	return page(cfg, "Blog", func(buf *bytes.Buffer) {
		buf.WriteString("<h1>Blog</h1>")
		if len(posts) == 0 {
			buf.WriteString("<p>Nothing published yet.</p>")
			return
		}
		buf.WriteString("<div class=\"post-list\">")
		for _, p := range posts {
			buf.WriteString("<article class=\"post-summary\">")
			buf.WriteString("<span class=\"category\">" + esc(p.Category) + "</span>")
			buf.WriteString("<h2><a href=\"/blog/" + esc(p.Slug) + "/\">" + esc(p.Title) + "</a></h2>")
			buf.WriteString("<p class=\"meta\">" + esc(p.Author) + " &middot; " + esc(p.Date) + "</p>")
			buf.WriteString("<p>" + esc(p.Excerpt) + "</p>")
			buf.WriteString("</article>")
		}
		buf.WriteString("</div>")
	})
}

// postArticle renders the post body shared by the public page and the
// authoring preview. Content is editor-produced HTML, written as-is.
func postArticle(buf *bytes.Buffer, p site.BlogPost) {
	buf.WriteString("<article class=\"post\">")
	buf.WriteString("<span class=\"category\">" + esc(p.Category) + "</span>")
	buf.WriteString("<h1>" + esc(p.Title) + "</h1>")
	buf.WriteString("<p class=\"meta\">" + esc(p.Author) + " &middot; " + esc(p.Date) + "</p>")
	img(buf, p.Image, p.Title, "lead-image")
	buf.WriteString("<div class=\"content\">" + p.Content + "</div>")
	if p.LinkedinURL != "" {
		buf.WriteString("<p><a href=\"" + esc(p.LinkedinURL) + "\" rel=\"noopener\">Discuss on LinkedIn</a></p>")
	}
	buf.WriteString("</article>")
}

// Post renders a single published post.
func Post(cfg site.SiteConfig, p site.BlogPost) templ.Component {
	return page(cfg, p.Title, func(buf *bytes.Buffer) {
		postArticle(buf, p)
	})
}

// ContactPage renders the contact form; it submits to the JSON API.
func ContactPage(cfg site.SiteConfig) templ.Component {
	return page(cfg, "Contact", func(buf *bytes.Buffer) {
		buf.WriteString("<h1>Get in touch</h1>")
		buf.WriteString("<form class=\"contact-form\" method=\"post\" action=\"/api/contact\">")
		buf.WriteString("<label>Name<input type=\"text\" name=\"name\" required></label>")
		buf.WriteString("<label>Email<input type=\"email\" name=\"email\" required></label>")
		buf.WriteString("<label>Company<input type=\"text\" name=\"company\"></label>")
		buf.WriteString("<label>Message<textarea name=\"message\" rows=\"6\" required></textarea></label>")
		buf.WriteString("<button type=\"submit\">Send</button>")
		buf.WriteString("</form>")
	})
}

// NotFound is the styled 404 page.
func NotFound(cfg site.SiteConfig) templ.Component {
	return page(cfg, "Not found", func(buf *bytes.Buffer) {
		buf.WriteString("<h1>404</h1><p>That page does not exist. <a href=\"/\">Back home</a></p>")
	})
}

// ServerError is the styled 500 page.
func ServerError(cfg site.SiteConfig) templ.Component {
	return page(cfg, "Something went wrong", func(buf *bytes.Buffer) {
		buf.WriteString("<h1>500</h1><p>Something went wrong. <a href=\"/\">Back home</a></p>")
	})
}
