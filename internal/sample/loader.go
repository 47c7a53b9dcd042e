package sample

import (
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/addrcache/internal/addrcache"
	"github.com/sells-group/addrcache/internal/model"
	"github.com/sells-group/addrcache/internal/region"
)

// Loader reads cached states and draws bounded samples from them.
type Loader struct {
	store    *addrcache.Store
	shuffler Shuffler
}

// NewLoader creates a Loader over store. A nil shuffler uses NewRandom.
func NewLoader(store *addrcache.Store, shuffler Shuffler) *Loader {
	if shuffler == nil {
		shuffler = NewRandom()
	}
	return &Loader{store: store, shuffler: shuffler}
}

// Load returns records for codes, concatenated in request order. Every code
// must already be cached; the first one that is not fails the whole call with
// model.ErrNotCached. When 0 < count < pool size the pool is shuffled once and
// truncated, otherwise the full pool is returned in file order. A code named
// more than once is read once.
func (l *Loader) Load(codes []string, count int) ([]model.AddressRecord, error) {
	log := zap.L().With(zap.String("component", "sample.loader"))
	codes = uniqueCodes(codes)

	for _, code := range codes {
		ok, err := l.store.IsCached(code)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, eris.Wrapf(model.ErrNotCached, "state %s", region.Canonical(code))
		}
	}

	var pool []model.AddressRecord
	for _, code := range codes {
		records, err := l.store.ReadState(code)
		if err != nil {
			return nil, err
		}
		pool = append(pool, records...)
	}

	if count > 0 && count < len(pool) {
		pool = Bound(pool, count, l.shuffler)
	}

	log.Debug("loaded sample",
		zap.Strings("states", codes),
		zap.Int("requested", count),
		zap.Int("returned", len(pool)),
	)
	return pool, nil
}

// uniqueCodes canonicalizes codes and drops repeats, keeping first-seen order.
func uniqueCodes(codes []string) []string {
	seen := make(map[string]bool, len(codes))
	out := make([]string, 0, len(codes))
	for _, code := range codes {
		code = region.Canonical(code)
		if seen[code] {
			continue
		}
		seen[code] = true
		out = append(out, code)
	}
	return out
}
