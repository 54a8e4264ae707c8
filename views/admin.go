package views

import (
	"bytes"
	"fmt"

	"github.com/a-h/templ"

	site "github.com/adaptiveedge/site"
)

func csrfField(buf *bytes.Buffer, token string) {
	buf.WriteString("<input type=\"hidden\" name=\"_csrf\" value=\"" + esc(token) + "\">")
}

func fieldError(buf *bytes.Buffer, fieldErrors map[string]string, field string) {
	if msg, ok := fieldErrors[field]; ok {
		buf.WriteString("<p class=\"field-error\">" + esc(field) + " " + esc(msg) + "</p>")
	}
}

// AdminLogin renders the password prompt.
func AdminLogin(cfg site.SiteConfig, showError bool, csrfToken string) templ.Component {
	return page(cfg, "Admin", func(buf *bytes.Buffer) {
		buf.WriteString("<h1>Admin login</h1>")
		if showError {
			buf.WriteString("<p class=\"field-error\">Wrong password.</p>")
		}
		buf.WriteString("<form method=\"post\" action=\"/admin/login/\">")
		csrfField(buf, csrfToken)
		buf.WriteString("<label>Password<input type=\"password\" name=\"password\" autofocus></label>")
		buf.WriteString("<button type=\"submit\">Log in</button>")
		buf.WriteString("</form>")
	})
}

// AdminDashboard lists both entity types with edit/delete controls.
func AdminDashboard(cfg site.SiteConfig, posts []site.BlogPost, studies []site.CaseStudy, message, csrfToken string) templ.Component {
	return page(cfg, "Dashboard", func(buf *bytes.Buffer) {
		buf.WriteString("<h1>Dashboard</h1>")
		if message != "" {
			buf.WriteString("<p class=\"notice\">" + esc(message) + "</p>")
		}
		buf.WriteString("<p><a href=\"/admin/blog/new/\">New post</a> &middot; ")
		buf.WriteString("<a href=\"/admin/case-studies/new/\">New case study</a> &middot; ")
		buf.WriteString("<a href=\"/admin/images/\">Images</a></p>")
		buf.WriteString("<form method=\"post\" action=\"/admin/logout/\">")
		csrfField(buf, csrfToken)
		buf.WriteString("<button type=\"submit\">Log out</button></form>")

		buf.WriteString("<h2>Blog posts</h2><table><tr><th>Title</th><th>Date</th><th>Status</th><th></th></tr>")
		for _, p := range posts {
			status := "draft"
			if p.Published {
				status = "published"
			}
			buf.WriteString("<tr><td>" + esc(p.Title) + "</td><td>" + esc(p.Date) + "</td>")
			buf.WriteString("<td>" + status + "</td>")
			buf.WriteString("<td><a href=\"/admin/blog/edit/" + esc(p.ID) + "/\">Edit</a></td></tr>")
		}
		buf.WriteString("</table>")

		buf.WriteString("<h2>Case studies</h2><table><tr><th>Title</th><th>Client</th><th>Featured</th><th></th></tr>")
		for _, cs := range studies {
			featured := ""
			if cs.Featured {
				featured = "&starf;"
			}
			buf.WriteString("<tr><td>" + esc(cs.Title) + "</td><td>" + esc(cs.Client) + "</td>")
			buf.WriteString("<td>" + featured + "</td>")
			buf.WriteString("<td><a href=\"/admin/case-studies/edit/" + esc(cs.ID) + "/\">Edit</a></td></tr>")
		}
		buf.WriteString("</table>")
	})
}

func textInput(buf *bytes.Buffer, label, name, value string, fieldErrors map[string]string) {
	buf.WriteString("<label>" + esc(label) + "<input type=\"text\" name=\"" + name + "\" id=\"" + name + "\" value=\"" + esc(value) + "\"></label>")
	fieldError(buf, fieldErrors, name)
}

// richText renders a minimal toolbar plus a contenteditable surface synced
// into a hidden textarea the form actually submits.
func richText(buf *bytes.Buffer, label, name, value string, fieldErrors map[string]string) {
	buf.WriteString("<label>" + esc(label) + "</label>")
	buf.WriteString("<div class=\"rt-toolbar\" data-for=\"" + name + "\">")
	for _, cmd := range []string{"bold", "italic", "insertUnorderedList", "insertOrderedList"} {
		buf.WriteString("<button type=\"button\" data-cmd=\"" + cmd + "\">" + cmd + "</button>")
	}
	buf.WriteString("</div>")
	buf.WriteString("<div class=\"rt-surface\" contenteditable=\"true\" data-for=\"" + name + "\">" + value + "</div>")
	buf.WriteString("<textarea name=\"" + name + "\" id=\"" + name + "\" hidden>" + esc(value) + "</textarea>")
	fieldError(buf, fieldErrors, name)
}

const editorScript = `<script>
document.querySelectorAll('.rt-toolbar button').forEach(function(b){
  b.addEventListener('click',function(){document.execCommand(b.dataset.cmd,false,null)});
});
document.querySelectorAll('form').forEach(function(f){
  f.addEventListener('submit',function(){
    document.querySelectorAll('.rt-surface').forEach(function(s){
      document.getElementById(s.dataset.for).value=s.innerHTML;
    });
  });
});
</script>`

// slugScript keeps the slug in step with the title until the author takes
// manual control of the slug field.
const slugScript = `<script>
(function(){
  var title=document.getElementById('title'),slug=document.getElementById('slug');
  if(!title||!slug)return;
  var manual=slug.value!=='';
  slug.addEventListener('input',function(){manual=true});
  title.addEventListener('input',function(){
    if(manual)return;
    slug.value=title.value.toLowerCase().replace(/[^a-z0-9]+/g,'-').replace(/^-+|-+$/g,'');
  });
})();
</script>`

// AdminBlogForm is the create/edit form for blog posts. On an existing post
// the slug is shown but immutable.
func AdminBlogForm(cfg site.SiteConfig, p site.BlogPost, isNew bool, fieldErrors map[string]string, csrfToken string) templ.Component {
	title := "Edit post"
	if isNew {
		title = "New post"
	}
	return page(cfg, title, func(buf *bytes.Buffer) {
		buf.WriteString("<h1>" + title + "</h1>")
		buf.WriteString("<form method=\"post\" action=\"/admin/blog/save/\">")
		csrfField(buf, csrfToken)
		if !isNew {
			buf.WriteString("<input type=\"hidden\" name=\"id\" value=\"" + esc(p.ID) + "\">")
		}
		textInput(buf, "Title", "title", p.Title, fieldErrors)
		if isNew {
			textInput(buf, "Slug", "slug", p.Slug, fieldErrors)
		} else {
			buf.WriteString("<label>Slug<input type=\"text\" value=\"" + esc(p.Slug) + "\" disabled></label>")
		}
		buf.WriteString("<label>Excerpt<textarea name=\"excerpt\" rows=\"3\">" + esc(p.Excerpt) + "</textarea></label>")
		fieldError(buf, fieldErrors, "excerpt")
		richText(buf, "Content", "content", p.Content, fieldErrors)
		textInput(buf, "Author", "author", p.Author, fieldErrors)
		buf.WriteString("<label>Category<select name=\"category\">")
		for _, cat := range site.BlogPostCategories {
			sel := ""
			if cat == p.Category {
				sel = " selected"
			}
			buf.WriteString("<option value=\"" + esc(cat) + "\"" + sel + ">" + esc(cat) + "</option>")
		}
		buf.WriteString("</select></label>")
		fieldError(buf, fieldErrors, "category")
		textInput(buf, "Date (YYYY-MM-DD)", "date", p.Date, fieldErrors)
		textInput(buf, "Header image URL", "image", p.Image, fieldErrors)
		textInput(buf, "LinkedIn URL", "linkedinUrl", p.LinkedinURL, fieldErrors)
		checkbox(buf, "Featured", "featured", p.Featured)
		checkbox(buf, "Published", "published", p.Published)
		buf.WriteString("<button type=\"submit\">Save</button> ")
		buf.WriteString("<button type=\"submit\" formaction=\"/admin/blog/preview/\" formtarget=\"_blank\">Preview</button>")
		buf.WriteString("</form>")
		if isNew {
			buf.WriteString(slugScript)
		}
		buf.WriteString(editorScript)
	})
}

// AdminCaseStudyForm is the create/edit form for case studies.
func AdminCaseStudyForm(cfg site.SiteConfig, cs site.CaseStudy, isNew bool, fieldErrors map[string]string, csrfToken string) templ.Component {
	title := "Edit case study"
	if isNew {
		title = "New case study"
	}
	return page(cfg, title, func(buf *bytes.Buffer) {
		buf.WriteString("<h1>" + title + "</h1>")
		buf.WriteString("<form method=\"post\" action=\"/admin/case-studies/save/\">")
		csrfField(buf, csrfToken)
		if !isNew {
			buf.WriteString("<input type=\"hidden\" name=\"id\" value=\"" + esc(cs.ID) + "\">")
		}
		textInput(buf, "Title", "title", cs.Title, fieldErrors)
		if isNew {
			textInput(buf, "Slug", "slug", cs.Slug, fieldErrors)
		} else {
			buf.WriteString("<label>Slug<input type=\"text\" value=\"" + esc(cs.Slug) + "\" disabled></label>")
		}
		textInput(buf, "Client", "client", cs.Client, fieldErrors)
		textInput(buf, "Category", "category", cs.Category, fieldErrors)
		richText(buf, "Challenge", "challenge", cs.Challenge, fieldErrors)
		richText(buf, "Approach", "approach", cs.Approach, fieldErrors)
		richText(buf, "Impact", "impact", cs.Impact, fieldErrors)
		richText(buf, "Our role", "roleDescription", cs.RoleDescription, fieldErrors)
		textInput(buf, "Image URL", "image", cs.Image, fieldErrors)
		textInput(buf, "Attribution", "treeHouseAttribution", cs.TreeHouseAttribution, fieldErrors)
		checkbox(buf, "Featured", "featured", cs.Featured)
		buf.WriteString("<button type=\"submit\">Save</button> ")
		buf.WriteString("<button type=\"submit\" formaction=\"/admin/case-studies/preview/\" formtarget=\"_blank\">Preview</button>")
		buf.WriteString("</form>")
		if isNew {
			buf.WriteString(slugScript)
		}
		buf.WriteString(editorScript)
	})
}

func checkbox(buf *bytes.Buffer, label, name string, checked bool) {
	chk := ""
	if checked {
		chk = " checked"
	}
	buf.WriteString("<label class=\"check\"><input type=\"checkbox\" name=\"" + name + "\"" + chk + "> " + esc(label) + "</label>")
}

// AdminImages lists uploaded images with thumbnails and delete controls.
func AdminImages(images []site.Image, csrfToken string) templ.Component {
	return component(func(buf *bytes.Buffer) {
		buf.WriteString("<!DOCTYPE html><html lang=\"en\"><head><meta charset=\"utf-8\"><title>Images</title>")
		buf.WriteString("<link rel=\"stylesheet\" href=\"/public/site.css\"></head><body><main>")
		buf.WriteString("<h1>Images</h1><p><a href=\"/admin/\">Back to dashboard</a></p>")
		if len(images) == 0 {
			buf.WriteString("<p>No uploads yet.</p>")
		}
		buf.WriteString("<div class=\"image-grid\">")
		for _, im := range images {
			buf.WriteString("<figure>")
			img(buf, im.URL(), im.OriginalName, "thumb")
			buf.WriteString("<figcaption>" + esc(im.Filename))
			if im.Width > 0 {
				buf.WriteString(fmt.Sprintf(" (%dx%d)", im.Width, im.Height))
			}
			buf.WriteString("</figcaption>")
			buf.WriteString("<button data-filename=\"" + esc(im.Filename) + "\" data-csrf=\"" + esc(csrfToken) + "\" class=\"delete-image\">Delete</button>")
			buf.WriteString("</figure>")
		}
		buf.WriteString("</div>")
		buf.WriteString(`<script>
document.querySelectorAll('.delete-image').forEach(function(b){
  b.addEventListener('click',function(){
    fetch('/admin/images/'+b.dataset.filename+'/',{method:'DELETE',headers:{'X-CSRF-Token':b.dataset.csrf}})
      .then(function(){location.reload()});
  });
});
</script>`)
		buf.WriteString("</main></body></html>")
	})
}

// PreviewPost renders a draft through the public post template with a
// banner, without persisting it.
func PreviewPost(cfg site.SiteConfig, p site.BlogPost) templ.Component {
	return page(cfg, "Preview: "+p.Title, func(buf *bytes.Buffer) {
		buf.WriteString("<p class=\"preview-banner\">Preview &mdash; not saved</p>")
		postArticle(buf, p)
	})
}

// PreviewCaseStudy renders a draft case study through the public template.
func PreviewCaseStudy(cfg site.SiteConfig, cs site.CaseStudy) templ.Component {
	return page(cfg, "Preview: "+cs.Title, func(buf *bytes.Buffer) {
		buf.WriteString("<p class=\"preview-banner\">Preview &mdash; not saved</p>")
		caseStudyArticle(buf, cs)
	})
}
