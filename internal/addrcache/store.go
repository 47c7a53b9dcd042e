// Package addrcache owns the on-disk address cache: the manifest, one CSV file
// per cached state, and any regional archives kept for reuse.
package addrcache

import (
	"bytes"
	"io"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"
	"github.com/rotisserie/eris"

	"github.com/sells-group/addrcache/internal/model"
	"github.com/sells-group/addrcache/internal/region"
)

const (
	manifestName = "manifest.json"
	filePerms    = 0o644
	dirPerms     = 0o755
)

// Store reads and writes the cache rooted at a fixed directory. It assumes a
// single writer; concurrent writers race with last-writer-wins semantics.
type Store struct {
	root string
}

// New returns a Store rooted at root. The directory is created lazily on the
// first write.
func New(root string) *Store {
	return &Store{root: root}
}

// DefaultRoot resolves the conventional cache root under the user's home
// directory: <home>/.addrcache/cache/addresses. homeDir is usually
// os.UserHomeDir.
func DefaultRoot(homeDir func() (string, error)) (string, error) {
	home, err := homeDir()
	if err != nil {
		return "", eris.Wrapf(model.ErrHomeDirUnavailable, "resolve cache root: %v", err)
	}
	if home == "" {
		return "", eris.Wrap(model.ErrHomeDirUnavailable, "resolve cache root: empty home directory")
	}
	return filepath.Join(home, ".addrcache", "cache", "addresses"), nil
}

// Root returns the cache root directory.
func (s *Store) Root() string {
	return s.root
}

// ManifestPath returns the path of the manifest file.
func (s *Store) ManifestPath() string {
	return filepath.Join(s.root, manifestName)
}

// StatePath returns the cache file path for a state: <root>/<UPPER>.csv.
func (s *Store) StatePath(code string) string {
	return filepath.Join(s.root, region.Canonical(code)+".csv")
}

func (s *Store) ensureRoot() error {
	if err := os.MkdirAll(s.root, dirPerms); err != nil {
		return eris.Wrap(err, "addrcache: create cache dir")
	}
	return nil
}

// writeFile replaces path via write-then-rename so readers never observe a
// half-written file.
func (s *Store) writeFile(path string, r io.Reader) error {
	if err := s.ensureRoot(); err != nil {
		return err
	}
	if err := atomic.WriteFile(path, r); err != nil {
		return eris.Wrapf(err, "addrcache: write %s", filepath.Base(path))
	}
	// atomic.WriteFile leaves new files at 0600.
	if err := os.Chmod(path, filePerms); err != nil {
		return eris.Wrapf(err, "addrcache: chmod %s", filepath.Base(path))
	}
	return nil
}

func (s *Store) writeBytes(path string, data []byte) error {
	return s.writeFile(path, bytes.NewReader(data))
}

func fileExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err == nil {
		return !info.IsDir(), nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, eris.Wrapf(err, "addrcache: stat %s", filepath.Base(path))
}

func dirExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err == nil {
		return info.IsDir(), nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, eris.Wrapf(err, "addrcache: stat %s", filepath.Base(path))
}
