// Package views holds the templ components for the public site and the
// admin area. Components are plain Go functions writing escaped HTML, wired
// into the handlers through site.ViewFuncs.
package views

import (
	"bytes"
	"context"
	"html"
	"io"

	"github.com/a-h/templ"

	site "github.com/adaptiveedge/site"
)

func esc(s string) string {
	return html.EscapeString(s)
}

// component wraps a buffer-writing function as a templ.Component.
func component(f func(buf *bytes.Buffer)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var buf bytes.Buffer
		f(&buf)
		_, err := w.Write(buf.Bytes())
		return err
	})
}

// page renders the shared document shell: head, navigation, footer.
func page(cfg site.SiteConfig, title string, body func(buf *bytes.Buffer)) templ.Component {
	return component(func(buf *bytes.Buffer) {
		buf.WriteString("<!DOCTYPE html><html lang=\"en\"><head>")
		buf.WriteString("<meta charset=\"utf-8\"><meta name=\"viewport\" content=\"width=device-width, initial-scale=1\">")
		if title != "" {
			buf.WriteString("<title>" + esc(title) + " | " + esc(cfg.Name) + "</title>")
		} else {
			buf.WriteString("<title>" + esc(cfg.Name) + "</title>")
		}
		if cfg.Description != "" {
			buf.WriteString("<meta name=\"description\" content=\"" + esc(cfg.Description) + "\">")
		}
		buf.WriteString("<link rel=\"icon\" href=\"/favicon.svg\" type=\"image/svg+xml\">")
		buf.WriteString("<link rel=\"stylesheet\" href=\"/public/site.css\">")
		buf.WriteString("<link rel=\"alternate\" type=\"application/rss+xml\" href=\"/feed.xml\">")
		buf.WriteString("</head><body>")
		buf.WriteString("<header class=\"site-header\"><nav>")
		buf.WriteString("<a class=\"brand\" href=\"/\">" + esc(cfg.Name) + "</a>")
		buf.WriteString("<a href=\"/work/\">Work</a>")
		buf.WriteString("<a href=\"/blog/\">Blog</a>")
		buf.WriteString("<a href=\"/contact/\">Contact</a>")
		buf.WriteString("</nav></header><main>")
		body(buf)
		buf.WriteString("</main>")
		buf.WriteString("<footer class=\"site-footer\"><p>&copy; " + esc(cfg.Name) + "</p></footer>")
		buf.WriteString("</body></html>")
	})
}

// img writes an image tag that hides itself when the URL fails to load, so a
// bad optional image never leaves a broken placeholder on the page.
func img(buf *bytes.Buffer, src, alt, class string) {
	if src == "" {
		return
	}
	buf.WriteString("<img src=\"" + esc(src) + "\" alt=\"" + esc(alt) + "\"")
	if class != "" {
		buf.WriteString(" class=\"" + esc(class) + "\"")
	}
	buf.WriteString(" onerror=\"this.style.display='none'\">")
}
