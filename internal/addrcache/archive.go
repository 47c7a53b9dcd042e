package addrcache

import (
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"

	"github.com/sells-group/addrcache/internal/region"
)

// ArchiveKind tells how a cached regional bundle is stored.
type ArchiveKind int

const (
	ArchiveNone ArchiveKind = iota
	ArchiveZIP
	ArchiveDir
)

func (k ArchiveKind) String() string {
	switch k {
	case ArchiveZIP:
		return "zip"
	case ArchiveDir:
		return "dir"
	default:
		return "none"
	}
}

// CachedArchive locates a regional bundle already present in the cache root.
type CachedArchive struct {
	Region region.Region
	Kind   ArchiveKind
	Path   string
	Size   int64 // bytes; zero for directories
}

// ArchivePath returns where a downloaded regional ZIP is kept: <root>/<region>.zip.
func (s *Store) ArchivePath(r region.Region) string {
	return filepath.Join(s.root, r.String()+".zip")
}

// ArchiveDirPath returns where a user-extracted regional bundle may live:
// <root>/<region>/.
func (s *Store) ArchiveDirPath(r region.Region) string {
	return filepath.Join(s.root, r.String())
}

// CachedArchive returns the locally cached bundle for r. A ZIP takes
// precedence over an extracted directory.
func (s *Store) CachedArchive(r region.Region) (CachedArchive, bool, error) {
	zipPath := s.ArchivePath(r)
	info, err := os.Stat(zipPath)
	switch {
	case err == nil && !info.IsDir() && info.Size() > 0:
		return CachedArchive{Region: r, Kind: ArchiveZIP, Path: zipPath, Size: info.Size()}, true, nil
	case err != nil && !os.IsNotExist(err):
		return CachedArchive{}, false, eris.Wrapf(err, "addrcache: stat %s", filepath.Base(zipPath))
	}

	dirPath := s.ArchiveDirPath(r)
	ok, err := dirExists(dirPath)
	if err != nil {
		return CachedArchive{}, false, err
	}
	if ok {
		return CachedArchive{Region: r, Kind: ArchiveDir, Path: dirPath}, true, nil
	}
	return CachedArchive{Region: r, Kind: ArchiveNone}, false, nil
}

// CachedArchives lists every region with a locally cached bundle.
func (s *Store) CachedArchives() ([]CachedArchive, error) {
	var out []CachedArchive
	for _, r := range region.Regions() {
		a, ok, err := s.CachedArchive(r)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, a)
		}
	}
	return out, nil
}

// SaveArchive stores a downloaded regional ZIP and returns its path.
func (s *Store) SaveArchive(r region.Region, data []byte) (string, error) {
	path := s.ArchivePath(r)
	if err := s.writeBytes(path, data); err != nil {
		return "", err
	}
	return path, nil
}
