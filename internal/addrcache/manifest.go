package addrcache

import (
	"encoding/json"
	"os"
	"sort"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/addrcache/internal/model"
	"github.com/sells-group/addrcache/internal/region"
)

// ManifestVersion is the manifest schema version written by this package.
const ManifestVersion = 1

// Manifest indexes which states are cached, when, from where, and how many
// records each holds.
type Manifest struct {
	Version int                   `json:"version"`
	States  map[string]StateEntry `json:"states"`
}

// StateEntry describes one cached state. Entries are replaced wholesale on
// every (re)download.
type StateEntry struct {
	DownloadedAt time.Time `json:"downloaded_at" yaml:"downloaded_at"`
	SourceURL    string    `json:"source_url" yaml:"source_url"`
	RecordCount  int       `json:"record_count" yaml:"record_count"`
}

// CachedState pairs a state code with its manifest entry.
type CachedState struct {
	Code  string     `json:"code" yaml:"code"`
	Entry StateEntry `json:"entry" yaml:"entry"`
}

// NewManifest returns an empty manifest at the current version.
func NewManifest() *Manifest {
	return &Manifest{Version: ManifestVersion, States: make(map[string]StateEntry)}
}

// Set records entry for code, replacing any previous entry.
func (m *Manifest) Set(code string, entry StateEntry) {
	if m.States == nil {
		m.States = make(map[string]StateEntry)
	}
	m.States[region.Canonical(code)] = entry
}

// Entry returns the manifest entry for code.
func (m *Manifest) Entry(code string) (StateEntry, bool) {
	e, ok := m.States[region.Canonical(code)]
	return e, ok
}

// LoadManifest reads the manifest from disk. A missing file yields an empty
// manifest; an unparseable one fails with model.ErrManifestCorrupt and is left
// untouched for the operator to inspect.
func (s *Store) LoadManifest() (*Manifest, error) {
	data, err := os.ReadFile(s.ManifestPath())
	if os.IsNotExist(err) {
		return NewManifest(), nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "addrcache: read manifest")
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, eris.Wrapf(model.ErrManifestCorrupt, "%s: %v", s.ManifestPath(), err)
	}
	if m.Version == 0 {
		m.Version = ManifestVersion
	}
	if m.States == nil {
		m.States = make(map[string]StateEntry)
	}
	return &m, nil
}

// SaveManifest writes the manifest as indented JSON, replacing the prior file.
func (s *Store) SaveManifest(m *Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return eris.Wrap(err, "addrcache: marshal manifest")
	}
	return s.writeBytes(s.ManifestPath(), append(data, '\n'))
}

// IsCached reports whether code has both a manifest entry and a cache file.
// Both sources are re-read on every call; either one alone counts as not
// cached.
func (s *Store) IsCached(code string) (bool, error) {
	m, err := s.LoadManifest()
	if err != nil {
		return false, err
	}
	return s.isCachedIn(m, code)
}

func (s *Store) isCachedIn(m *Manifest, code string) (bool, error) {
	if _, ok := m.Entry(code); !ok {
		return false, nil
	}
	return fileExists(s.StatePath(code))
}

// ListCached returns every manifest entry sorted by state code.
func (s *Store) ListCached() ([]CachedState, error) {
	m, err := s.LoadManifest()
	if err != nil {
		return nil, err
	}

	out := make([]CachedState, 0, len(m.States))
	for code, entry := range m.States {
		out = append(out, CachedState{Code: code, Entry: entry})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}
