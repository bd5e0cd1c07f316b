package upload

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Storage writes uploaded files to a fixed server-local directory, to be
// served back under /public.
type Storage struct {
	Dir string
}

// NewStorage creates the directory when missing.
func NewStorage(dir string) (*Storage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("upload dir: %w", err)
	}
	return &Storage{Dir: dir}, nil
}

// Save persists the reader under a collision-avoiding name built from a
// timestamp prefix and the sanitized original filename. The stored name is
// returned.
func (s *Storage) Save(r io.Reader, originalName string) (string, error) {
	name := fmt.Sprintf("%d-%s", time.Now().UnixNano(), sanitize(originalName))
	f, err := os.Create(filepath.Join(s.Dir, name))
	if err != nil {
		return "", err
	}
	defer f.Close()
	if _, err := io.Copy(f, r); err != nil {
		os.Remove(f.Name())
		return "", err
	}
	return name, nil
}

// PublicURL builds the reachable URL for a stored file from the request's
// own scheme and host.
func (s *Storage) PublicURL(scheme, host, name string) string {
	return scheme + "://" + host + "/public/" + name
}

// sanitize strips any path components and characters that do not belong in a
// filename served over HTTP.
func sanitize(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		}
		return '_'
	}, name)
	if name == "" || name == "." || name == ".." {
		name = "upload"
	}
	return name
}
