// Package acquire downloads OpenAddresses regional bundles and fills the
// per-state address cache from them.
package acquire

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sells-group/addrcache/internal/addrcache"
	"github.com/sells-group/addrcache/internal/fetcher"
	"github.com/sells-group/addrcache/internal/model"
	"github.com/sells-group/addrcache/internal/region"
	"github.com/sells-group/addrcache/internal/sample"
)

// DefaultLimit is the per-state record cap used when Options.Limit is unset.
const DefaultLimit = 10000

// Options configures one acquisition run.
type Options struct {
	Limit        int  // max records kept per state (default 10,000)
	Force        bool // re-extract states that are already cached
	Quiet        bool // log warnings and errors only
	KeepArchives bool // keep downloaded region ZIPs under the cache root
}

// Result summarizes an acquisition run.
type Result struct {
	RunID   string         `json:"run_id" yaml:"run_id"`
	Skipped []string       `json:"skipped" yaml:"skipped"`
	Cached  map[string]int `json:"cached" yaml:"cached"`
	Empty   []string       `json:"empty" yaml:"empty"`
}

// Pipeline fetches regional bundles and writes bounded state samples
// through a Store.
type Pipeline struct {
	store     *addrcache.Store
	fetcher   fetcher.Fetcher
	shuffler  sample.Shuffler
	endpoints map[region.Region]string
	now       func() time.Time
}

// New creates a Pipeline. endpoints overrides the archive URL per region; a
// nil shuffler uses sample.NewRandom.
func New(store *addrcache.Store, f fetcher.Fetcher, shuffler sample.Shuffler, endpoints map[region.Region]string) *Pipeline {
	if shuffler == nil {
		shuffler = sample.NewRandom()
	}
	return &Pipeline{
		store:     store,
		fetcher:   f,
		shuffler:  shuffler,
		endpoints: endpoints,
		now:       time.Now,
	}
}

// URL returns the archive URL used for r.
func (p *Pipeline) URL(r region.Region) string {
	if u, ok := p.endpoints[r]; ok && u != "" {
		return u
	}
	return r.URL()
}

// Acquire makes every code in codes available in the cache. Codes are
// validated before any I/O; cached codes are skipped unless opts.Force is
// set. Each needed region is read once, and the manifest is saved after every
// state so a failed run keeps the states it finished.
func (p *Pipeline) Acquire(ctx context.Context, codes []string, opts Options) (*Result, error) {
	if opts.Limit <= 0 {
		opts.Limit = DefaultLimit
	}

	runID := uuid.New().String()
	log := zap.L().With(
		zap.String("component", "acquire.pipeline"),
		zap.String("run_id", runID),
	)
	if opts.Quiet {
		log = log.WithOptions(zap.IncreaseLevel(zapcore.WarnLevel))
	}

	wanted, err := validate(codes)
	if err != nil {
		return nil, err
	}

	manifest, err := p.store.LoadManifest()
	if err != nil {
		return nil, err
	}

	result := &Result{RunID: runID, Cached: make(map[string]int)}

	var needed []string
	for _, code := range wanted {
		if !opts.Force {
			ok, err := p.store.IsCached(code)
			if err != nil {
				return nil, err
			}
			if ok {
				log.Info("state already cached", zap.String("state", code))
				result.Skipped = append(result.Skipped, code)
				continue
			}
		}
		needed = append(needed, code)
	}

	if len(needed) == 0 {
		log.Info("nothing to acquire", zap.Int("skipped", len(result.Skipped)))
		return result, nil
	}

	for _, group := range groupByRegion(needed) {
		if err := ctx.Err(); err != nil {
			return result, eris.Wrap(err, "acquire: cancelled")
		}
		if err := p.acquireRegion(ctx, log, group, manifest, opts, result); err != nil {
			return result, err
		}
	}

	log.Info("acquisition complete",
		zap.Int("cached", len(result.Cached)),
		zap.Int("skipped", len(result.Skipped)),
		zap.Int("empty", len(result.Empty)),
	)
	return result, nil
}

func (p *Pipeline) acquireRegion(ctx context.Context, log *zap.Logger, group regionGroup, manifest *addrcache.Manifest, opts Options, result *Result) error {
	sourceURL := p.URL(group.region)
	rlog := log.With(zap.String("region", group.region.String()))

	entries, err := p.openRegion(ctx, rlog, group.region, sourceURL, opts.KeepArchives)
	if err != nil {
		return eris.Wrapf(err, "acquire: region %s", group.region)
	}

	candidates := candidateCap(opts.Limit)
	for _, code := range group.codes {
		stateLog := rlog.With(zap.String("state", code))
		start := time.Now()

		pool, scanned, err := extractState(stateLog, entries, code, candidates)
		if err != nil {
			return eris.Wrapf(err, "acquire: extract %s", code)
		}
		records := sample.Bound(pool, opts.Limit, p.shuffler)

		if len(records) == 0 {
			stateLog.Warn("no addresses found for state", zap.Int("files_scanned", scanned))
			result.Empty = append(result.Empty, code)
			continue
		}

		if err := p.store.WriteState(code, records); err != nil {
			return err
		}
		manifest.Set(code, addrcache.StateEntry{
			DownloadedAt: p.now().UTC(),
			SourceURL:    sourceURL,
			RecordCount:  len(records),
		})
		if err := p.store.SaveManifest(manifest); err != nil {
			return err
		}
		result.Cached[code] = len(records)

		stateLog.Info("state cached",
			zap.Int("records", len(records)),
			zap.Int("candidates", len(pool)),
			zap.Int("files_scanned", scanned),
			zap.Duration("elapsed", time.Since(start)),
		)
	}
	return nil
}

// openRegion indexes the bundle for r, preferring a cached archive over the
// network.
func (p *Pipeline) openRegion(ctx context.Context, log *zap.Logger, r region.Region, sourceURL string, keep bool) ([]fetcher.Entry, error) {
	cached, ok, err := p.store.CachedArchive(r)
	if err != nil {
		return nil, err
	}
	if ok {
		log.Info("using cached archive", zap.String("path", cached.Path), zap.String("kind", cached.Kind.String()))
		if cached.Kind == addrcache.ArchiveDir {
			return fetcher.DirEntries(cached.Path)
		}
		return fetcher.ZIPFileEntries(cached.Path)
	}

	log.Info("downloading archive", zap.String("url", sourceURL))
	start := time.Now()
	data, err := p.fetcher.Fetch(ctx, sourceURL)
	if err != nil {
		return nil, err
	}
	log.Info("archive downloaded",
		zap.Int("bytes", len(data)),
		zap.Duration("elapsed", time.Since(start)),
	)

	entries, err := fetcher.ZIPEntries(data)
	if err != nil {
		return nil, err
	}

	if keep {
		path, err := p.store.SaveArchive(r, data)
		if err != nil {
			log.Warn("failed to keep archive", zap.Error(err))
		} else {
			log.Debug("archive kept", zap.String("path", path))
		}
	}
	return entries, nil
}

// validate canonicalizes codes, dropping duplicates. Any invalid code fails
// the whole request.
func validate(codes []string) ([]string, error) {
	seen := make(map[string]bool, len(codes))
	out := make([]string, 0, len(codes))
	for _, raw := range codes {
		code := region.Canonical(raw)
		if !region.IsValid(code) {
			return nil, eris.Wrapf(model.ErrInvalidState, "state %q", raw)
		}
		if seen[code] {
			continue
		}
		seen[code] = true
		out = append(out, code)
	}
	return out, nil
}

type regionGroup struct {
	region region.Region
	codes  []string
}

// groupByRegion buckets codes by region in region.Regions order, keeping the
// request order inside each bucket.
func groupByRegion(codes []string) []regionGroup {
	byRegion := make(map[region.Region][]string)
	for _, code := range codes {
		r, _ := region.ForState(code)
		byRegion[r] = append(byRegion[r], code)
	}
	var groups []regionGroup
	for _, r := range region.Regions() {
		if cs, ok := byRegion[r]; ok {
			groups = append(groups, regionGroup{region: r, codes: cs})
		}
	}
	return groups
}

// candidateCap is how many rows are gathered before sampling down to limit.
// It saturates at math.MaxInt.
func candidateCap(limit int) int {
	if limit > math.MaxInt/2 {
		return math.MaxInt
	}
	return 2 * limit
}
