package site

import (
	"bytes"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func multipartImage(t *testing.T, filename, contentType string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	hdr := textproto.MIMEHeader{}
	hdr.Set("Content-Disposition", `form-data; name="image"; filename="`+filename+`"`)
	hdr.Set("Content-Type", contentType)
	part, err := mw.CreatePart(hdr)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &body, mw.FormDataContentType()
}

func doUpload(app *App, path string, body *bytes.Buffer, contentType string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", contentType)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	app.Echo.ServeHTTP(rec, req)
	return rec
}

func TestBlogImageUpload(t *testing.T) {
	staticDir := t.TempDir()
	app := newTestApp(t, WithStaticDir(staticDir))
	cookies := loginAdmin(t, app)

	body, ctype := multipartImage(t, "photo.png", "image/png", pngBytes(t, 10, 8))
	rec := doUpload(app, "/api/blog-images", body, ctype, cookies)
	if rec.Code != http.StatusOK {
		t.Fatalf("upload = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	resp := decodeBody(t, rec)
	filename, _ := resp["filename"].(string)
	if filename == "" || !strings.HasSuffix(filename, ".png") {
		t.Errorf("filename = %q, want generated .png name", filename)
	}
	if url, _ := resp["url"].(string); url != "/blog-images/"+filename {
		t.Errorf("url = %q, want /blog-images/%s", url, filename)
	}

	stored := filepath.Join(staticDir, "blog-images", filename)
	if _, err := os.Stat(stored); err != nil {
		t.Errorf("uploaded file missing on disk: %v", err)
	}
	thumb := filepath.Join(staticDir, "blog-images", "thumbs",
		strings.TrimSuffix(filename, ".png")+".jpg")
	if _, err := os.Stat(thumb); err != nil {
		t.Errorf("thumbnail missing: %v", err)
	}

	images, err := app.Store.ListImages()
	if err != nil {
		t.Fatalf("ListImages failed: %v", err)
	}
	if len(images) != 1 {
		t.Fatalf("images = %d, want 1", len(images))
	}
	img := images[0]
	if img.OriginalName != "photo.png" || img.Kind != ImageKindBlog {
		t.Errorf("metadata = %+v", img)
	}
	if img.Width != 10 || img.Height != 8 {
		t.Errorf("dimensions = %dx%d, want 10x8", img.Width, img.Height)
	}
}

func TestCaseStudyImageUpload(t *testing.T) {
	staticDir := t.TempDir()
	app := newTestApp(t, WithStaticDir(staticDir))
	cookies := loginAdmin(t, app)

	body, ctype := multipartImage(t, "chart.png", "image/png", pngBytes(t, 4, 4))
	rec := doUpload(app, "/api/case-study-images", body, ctype, cookies)
	if rec.Code != http.StatusOK {
		t.Fatalf("upload = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	resp := decodeBody(t, rec)
	imageURL, _ := resp["imageUrl"].(string)
	if !strings.HasPrefix(imageURL, "/case-study-images/") {
		t.Errorf("imageUrl = %q, want /case-study-images/ prefix", imageURL)
	}
	if _, err := os.Stat(filepath.Join(staticDir, "case-study-images", filepath.Base(imageURL))); err != nil {
		t.Errorf("uploaded file missing on disk: %v", err)
	}
}

func TestUploadRejectsOversize(t *testing.T) {
	staticDir := t.TempDir()
	app := newTestApp(t, WithStaticDir(staticDir))
	cookies := loginAdmin(t, app)

	body, ctype := multipartImage(t, "big.jpg", "image/jpeg", make([]byte, 6<<20))
	rec := doUpload(app, "/api/blog-images", body, ctype, cookies)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("oversize upload = %d, want 400: %s", rec.Code, rec.Body.String())
	}

	// Rejection happens before any file is written.
	if entries, err := os.ReadDir(filepath.Join(staticDir, "blog-images")); err == nil && len(entries) > 0 {
		t.Errorf("rejected upload left %d files on disk", len(entries))
	}
	if images, _ := app.Store.ListImages(); len(images) != 0 {
		t.Errorf("rejected upload recorded metadata: %+v", images)
	}
}

func TestUploadRejectsNonImage(t *testing.T) {
	app := newTestApp(t)
	cookies := loginAdmin(t, app)

	body, ctype := multipartImage(t, "notes.txt", "text/plain", []byte("hello"))
	rec := doUpload(app, "/api/blog-images", body, ctype, cookies)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("txt upload = %d, want 400", rec.Code)
	}

	// Extension alone is not enough; the declared type must match too.
	body, ctype = multipartImage(t, "fake.png", "text/plain", []byte("hello"))
	rec = doUpload(app, "/api/blog-images", body, ctype, cookies)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("mismatched type upload = %d, want 400", rec.Code)
	}
}

func TestUploadFilenamesUnique(t *testing.T) {
	app := newTestApp(t)
	cookies := loginAdmin(t, app)

	data := pngBytes(t, 2, 2)
	seen := map[string]bool{}
	for i := 0; i < 3; i++ {
		body, ctype := multipartImage(t, "same.png", "image/png", data)
		rec := doUpload(app, "/api/blog-images", body, ctype, cookies)
		if rec.Code != http.StatusOK {
			t.Fatalf("upload %d = %d: %s", i, rec.Code, rec.Body.String())
		}
		filename, _ := decodeBody(t, rec)["filename"].(string)
		if seen[filename] {
			t.Fatalf("filename %q reused", filename)
		}
		seen[filename] = true
	}
}

func TestUploadRequiresFile(t *testing.T) {
	app := newTestApp(t)
	cookies := loginAdmin(t, app)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	mw.WriteField("note", "no file here")
	mw.Close()

	rec := doUpload(app, "/api/blog-images", &body, mw.FormDataContentType(), cookies)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing file = %d, want 400", rec.Code)
	}
}
