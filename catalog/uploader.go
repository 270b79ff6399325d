package catalog

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// ScreenshotPath is the deterministic storage path for one screenshot.
// Both ids are freshly generated per attempt, so a retried item can
// never overwrite a prior partial upload.
func ScreenshotPath(websiteID, screenshotID string) string {
	return path.Join("screenshots", websiteID, screenshotID+".jpg")
}

// FileStore is a blob store rooted at a local directory. Uploads land
// under root/<path> and resolve to baseURL/<path>, which a static file
// server (or the api package) makes durable.
type FileStore struct {
	root    string
	baseURL string
}

// NewFileStore creates a blob store. baseURL may be empty, in which
// case uploads resolve to file:// URLs (useful for local tooling).
func NewFileStore(root, baseURL string) (*FileStore, error) {
	if root == "" {
		return nil, fmt.Errorf("%w: empty root", ErrUpload)
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("%w: resolve root: %v", ErrUpload, err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("%w: create root: %v", ErrUpload, err)
	}
	return &FileStore{root: abs, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Upload writes data under the given relative path and returns the
// durable URL. Existing blobs are never overwritten.
func (s *FileStore) Upload(ctx context.Context, data []byte, blobPath string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpload, err)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("%w: empty payload", ErrUpload)
	}

	clean := path.Clean("/" + blobPath)[1:]
	if clean == "" || strings.HasPrefix(clean, "..") {
		return "", fmt.Errorf("%w: invalid path %q", ErrUpload, blobPath)
	}

	target := filepath.Join(s.root, filepath.FromSlash(clean))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpload, err)
	}

	f, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrUpload, clean, err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(target)
		return "", fmt.Errorf("%w: write %s: %v", ErrUpload, clean, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(target)
		return "", fmt.Errorf("%w: close %s: %v", ErrUpload, clean, err)
	}

	if s.baseURL == "" {
		return "file://" + target, nil
	}
	return s.baseURL + "/" + clean, nil
}

// Root returns the absolute blob root, for serving via HTTP.
func (s *FileStore) Root() string { return s.root }
