package fetcher

import (
	"archive/zip"
	"bytes"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/addrcache/internal/model"
)

// Entry is one file inside a regional bundle, either a ZIP member or a file
// under an extracted directory. Name always uses forward slashes.
type Entry struct {
	Name string
	Size int64
	open func() (io.ReadCloser, error)
}

// Open returns a reader for the entry contents.
func (e Entry) Open() (io.ReadCloser, error) {
	return e.open()
}

// ReadAll returns the full entry contents.
func (e Entry) ReadAll() ([]byte, error) {
	rc, err := e.Open()
	if err != nil {
		return nil, eris.Wrapf(err, "open entry %s", e.Name)
	}
	defer rc.Close() //nolint:errcheck

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, eris.Wrapf(err, "read entry %s", e.Name)
	}
	return data, nil
}

// ZIPEntries indexes an in-memory ZIP archive. Directory members are skipped.
// An archive that cannot be opened fails with model.ErrArchiveCorrupt.
func ZIPEntries(data []byte) ([]Entry, error) {
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, eris.Wrapf(model.ErrArchiveCorrupt, "zip: open archive: %v", err)
	}

	entries := make([]Entry, 0, len(r.File))
	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		entries = append(entries, Entry{
			Name: cleanEntryName(f.Name),
			Size: int64(f.UncompressedSize64),
			open: f.Open,
		})
	}
	return entries, nil
}

// ZIPFileEntries reads a ZIP archive from disk and indexes it.
func ZIPFileEntries(zipPath string) ([]Entry, error) {
	data, err := os.ReadFile(zipPath)
	if err != nil {
		return nil, eris.Wrap(err, "zip: read archive")
	}
	return ZIPEntries(data)
}

// DirEntries indexes every regular file below root, naming each by its path
// relative to root.
func DirEntries(root string) ([]Entry, error) {
	var entries []Entry
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		entries = append(entries, Entry{
			Name: filepath.ToSlash(rel),
			Size: info.Size(),
			open: func() (io.ReadCloser, error) { return os.Open(p) },
		})
		return nil
	})
	if err != nil {
		return nil, eris.Wrap(err, "dir: walk bundle")
	}
	return entries, nil
}

// cleanEntryName normalises separators and strips leading "./" or "/" so
// path matching sees the same shape for every archive producer.
func cleanEntryName(name string) string {
	name = strings.ReplaceAll(name, `\`, "/")
	name = path.Clean("/" + name)
	return strings.TrimPrefix(name, "/")
}
