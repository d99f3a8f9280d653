// Package thumbnails mirrors remote book cover images into local storage.
package thumbnails

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"time"
)

const subdir = "thumbnails"

// Mirror downloads thumbnail images into <uploadsDir>/thumbnails. Downloads
// are synchronous and best-effort: callers treat any error as "no image".
type Mirror struct {
	uploadsDir string
	httpClient *http.Client
}

// NewMirror creates a mirror rooted at the uploads directory, creating the
// thumbnails subdirectory if absent.
func NewMirror(uploadsDir string) (*Mirror, error) {
	if err := os.MkdirAll(filepath.Join(uploadsDir, subdir), 0755); err != nil {
		return nil, fmt.Errorf("create thumbnails dir: %w", err)
	}

	return &Mirror{
		uploadsDir: uploadsDir,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

// MirrorURL fetches the image and writes it under the thumbnails directory,
// named after the URL's basename. A later download with the same basename
// overwrites the earlier file. Returns the relative path recorded on the
// book, e.g. "uploads/thumbnails/foo.jpg".
func (m *Mirror) MirrorURL(rawURL string) (string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid thumbnail URL: %w", err)
	}

	base := path.Base(parsed.Path)
	if base == "." || base == "/" || base == "" {
		return "", fmt.Errorf("cannot derive filename from %q", rawURL)
	}

	req, err := http.NewRequest(http.MethodGet, rawURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", "Bookstore/1.0")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to fetch thumbnail: status %d", resp.StatusCode)
	}

	targetDir := filepath.Join(m.uploadsDir, subdir)

	// Write to a temp file in the same directory so the rename is atomic.
	tmpFile, err := os.CreateTemp(targetDir, "thumb_tmp_")
	if err != nil {
		return "", err
	}
	tmpPath := tmpFile.Name()
	defer func() {
		tmpFile.Close()
		os.Remove(tmpPath)
	}()

	if _, err := io.Copy(tmpFile, resp.Body); err != nil {
		return "", err
	}
	tmpFile.Close()

	if err := os.Rename(tmpPath, filepath.Join(targetDir, base)); err != nil {
		return "", err
	}

	return path.Join("uploads", subdir, base), nil
}
