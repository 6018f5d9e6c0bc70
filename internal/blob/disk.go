package blob

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"chitchat/internal/domain"
)

// DiskStore stores blobs on the local filesystem under a root directory and
// resolves URLs against a public base URL.
type DiskStore struct {
	root    string
	baseURL string
}

var _ domain.BlobStore = (*DiskStore)(nil)

func NewDiskStore(root, baseURL string) (*DiskStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("creating blob root: %w", err)
	}
	return &DiskStore{
		root:    root,
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

func (s *DiskStore) Put(ctx context.Context, path string, r io.Reader) error {
	full, err := s.resolve(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("creating blob dir: %w", err)
	}

	out, err := os.Create(full)
	if err != nil {
		return fmt.Errorf("creating blob file: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, r); err != nil {
		// Remove the partial file so a failed upload leaves no state behind.
		os.Remove(full)
		return fmt.Errorf("writing blob: %w", err)
	}
	return nil
}

func (s *DiskStore) URL(path string) (string, error) {
	if _, err := s.resolve(path); err != nil {
		return "", err
	}
	return s.baseURL + "/uploads/" + path, nil
}

// Root returns the on-disk root, used by the HTTP layer for serving.
func (s *DiskStore) Root() string { return s.root }

// resolve maps a blob path to an absolute file path, rejecting traversal.
func (s *DiskStore) resolve(path string) (string, error) {
	if path == "" || strings.Contains(path, "..") || strings.HasPrefix(path, "/") {
		return "", domain.ErrInvalidInput
	}
	clean := filepath.Clean(filepath.FromSlash(path))
	full := filepath.Join(s.root, clean)
	if !strings.HasPrefix(full, filepath.Clean(s.root)+string(os.PathSeparator)) {
		return "", domain.ErrInvalidInput
	}
	return full, nil
}
