// Package storage saves uploaded product and event images to disk and
// hands back publicly resolvable URLs.
package storage

import (
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

const thumbWidth = 300

type ImageStore struct {
	Dir     string
	BaseURL string
}

func NewImageStore(dir, baseURL string) *ImageStore {
	return &ImageStore{Dir: dir, BaseURL: strings.TrimRight(baseURL, "/")}
}

// SaveImage decodes the upload, writes the original plus a 300px-wide
// thumbnail under a fresh uuid name, and returns both public URLs.
func (s *ImageStore) SaveImage(file *multipart.FileHeader, subdir string) (url, thumbURL string, err error) {
	src, err := file.Open()
	if err != nil {
		return "", "", fmt.Errorf("failed to open image file: %w", err)
	}
	defer src.Close()

	img, err := imaging.Decode(src)
	if err != nil {
		return "", "", fmt.Errorf("failed to decode image: %w", err)
	}

	name := uuid.NewString() + ".jpg"
	origPath := filepath.Join(s.Dir, subdir, name)
	thumbPath := filepath.Join(s.Dir, subdir, "thumb", name)

	if err := os.MkdirAll(filepath.Dir(origPath), 0o755); err != nil {
		return "", "", fmt.Errorf("failed to create upload directory: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(thumbPath), 0o755); err != nil {
		return "", "", fmt.Errorf("failed to create thumbnail directory: %w", err)
	}

	if err := imaging.Save(img, origPath); err != nil {
		return "", "", fmt.Errorf("failed to save image: %w", err)
	}
	thumb := imaging.Resize(img, thumbWidth, 0, imaging.Lanczos)
	if err := imaging.Save(thumb, thumbPath); err != nil {
		return "", "", fmt.Errorf("failed to save thumbnail: %w", err)
	}

	return s.publicURL(subdir, name), s.publicURL(subdir, "thumb", name), nil
}

func (s *ImageStore) publicURL(parts ...string) string {
	return s.BaseURL + "/" + strings.Join(append([]string{"uploads"}, parts...), "/")
}
