package site

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"log/slog"
	"math/rand/v2"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/image/draw"

	_ "image/gif"
	_ "image/png"

	_ "golang.org/x/image/webp"
)

const (
	maxUploadSize  = 5 << 20 // 5MB
	thumbnailWidth = 300
	thumbsSubdir   = "thumbs"
)

var allowedImageExts = map[string]bool{
	".jpeg": true,
	".jpg":  true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

var allowedImageMIMEs = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// uploadDir returns the public directory uploads for kind are written to.
func (a *App) uploadDir(kind string) string {
	if kind == ImageKindCaseStudy {
		return filepath.Join(a.staticDir, "case-study-images")
	}
	return filepath.Join(a.staticDir, "blog-images")
}

// uploadFilename builds a collision-resistant name: millisecond timestamp
// plus a random suffix, keeping the original extension.
func uploadFilename(originalName string) string {
	ext := strings.ToLower(filepath.Ext(originalName))
	return fmt.Sprintf("%d-%d%s", time.Now().UnixMilli(), rand.IntN(1_000_000_000), ext)
}

// validateUpload rejects non-image uploads before anything touches disk.
func validateUpload(fh *multipart.FileHeader) error {
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !allowedImageExts[ext] {
		return fmt.Errorf("only image files are allowed (jpeg, jpg, png, gif, webp)")
	}
	if !allowedImageMIMEs[strings.ToLower(fh.Header.Get("Content-Type"))] {
		return fmt.Errorf("only image files are allowed (jpeg, jpg, png, gif, webp)")
	}
	if fh.Size > maxUploadSize {
		return fmt.Errorf("file too large (max 5MB)")
	}
	return nil
}

// saveUpload validates and persists a multipart image upload, records its
// metadata, and returns the stored Image. Dimension sniffing and thumbnail
// generation are best effort; a file that passes the extension/MIME/size
// checks is stored even if it does not decode.
func (a *App) saveUpload(fh *multipart.FileHeader, kind string) (Image, error) {
	if err := validateUpload(fh); err != nil {
		return Image{}, err
	}

	src, err := fh.Open()
	if err != nil {
		return Image{}, err
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, maxUploadSize+1))
	if err != nil {
		return Image{}, err
	}
	if int64(len(data)) > maxUploadSize {
		return Image{}, fmt.Errorf("file too large (max 5MB)")
	}

	img := Image{
		Filename:     uploadFilename(fh.Filename),
		OriginalName: fh.Filename,
		Kind:         kind,
		Size:         int64(len(data)),
		UploadedAt:   time.Now().UTC(),
	}
	if cfg, _, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
		img.Width = cfg.Width
		img.Height = cfg.Height
	}

	dir := a.uploadDir(kind)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Image{}, fmt.Errorf("create upload dir: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, img.Filename), data, 0o644); err != nil {
		return Image{}, fmt.Errorf("write image: %w", err)
	}

	if err := a.writeThumbnail(dir, img.Filename, data); err != nil {
		slog.Warn("thumbnail generation failed", "filename", img.Filename, "error", err)
	}

	if err := a.Store.SaveImage(img); err != nil {
		return Image{}, err
	}
	return img, nil
}

// writeThumbnail decodes the upload and stores a small JPEG preview for the
// admin image library under <dir>/thumbs/.
func (a *App) writeThumbnail(dir, filename string, data []byte) error {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return err
	}
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w > thumbnailWidth {
		newH := h * thumbnailWidth / w
		dst := image.NewRGBA(image.Rect(0, 0, thumbnailWidth, newH))
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)
		src = dst
	}
	thumbDir := filepath.Join(dir, thumbsSubdir)
	if err := os.MkdirAll(thumbDir, 0o755); err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, src, &jpeg.Options{Quality: 80}); err != nil {
		return err
	}
	name := strings.TrimSuffix(filename, filepath.Ext(filename)) + ".jpg"
	return os.WriteFile(filepath.Join(thumbDir, name), buf.Bytes(), 0o644)
}

func (a *App) handleAPIBlogImageUpload(c echo.Context) error {
	fh, err := c.FormFile("image")
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorBody("No image file provided"))
	}
	img, err := a.saveUpload(fh, ImageKindBlog)
	if err != nil {
		return uploadError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"success":  true,
		"url":      img.URL(),
		"filename": img.Filename,
	})
}

func (a *App) handleAPICaseStudyImageUpload(c echo.Context) error {
	fh, err := c.FormFile("image")
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorBody("No image file provided"))
	}
	img, err := a.saveUpload(fh, ImageKindCaseStudy)
	if err != nil {
		return uploadError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"success":  true,
		"imageUrl": img.URL(),
		"message":  "Image uploaded successfully",
	})
}

// uploadError distinguishes rejected uploads (400) from storage failures (500).
func uploadError(c echo.Context, err error) error {
	msg := err.Error()
	if strings.Contains(msg, "only image files") || strings.Contains(msg, "too large") {
		return c.JSON(http.StatusBadRequest, errorBody(msg))
	}
	c.Logger().Errorf("image upload: %v", err)
	return c.JSON(http.StatusInternalServerError, errorBody("Failed to upload image"))
}

// handleImageDelete removes an uploaded file and its metadata (admin library).
func (a *App) handleImageDelete(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	filename := c.Param("filename")
	if filename == "" || filename != filepath.Base(filename) {
		return c.String(http.StatusBadRequest, "Filename required")
	}
	for _, kind := range []string{ImageKindBlog, ImageKindCaseStudy} {
		dir := a.uploadDir(kind)
		_ = os.Remove(filepath.Join(dir, filename))
		thumb := strings.TrimSuffix(filename, filepath.Ext(filename)) + ".jpg"
		_ = os.Remove(filepath.Join(dir, thumbsSubdir, thumb))
	}
	if err := a.Store.DeleteImage(filename); err != nil {
		return err
	}
	return a.renderImageLibrary(c)
}

// handleImageLibrary lists uploads in the admin area.
func (a *App) handleImageLibrary(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	return a.renderImageLibrary(c)
}

func (a *App) renderImageLibrary(c echo.Context) error {
	images, err := a.Store.ListImages()
	if err != nil {
		return err
	}
	return Render(c, a.Views.AdminImages(images, CsrfToken(c)))
}
