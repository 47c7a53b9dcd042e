package acquire

import (
	"bytes"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/addrcache/internal/fetcher"
	"github.com/sells-group/addrcache/internal/model"
	"github.com/sells-group/addrcache/internal/normalize"
	"github.com/sells-group/addrcache/internal/region"
)

var csvOpts = fetcher.CSVOptions{LazyQuotes: true, TrimSpace: true}

// stateEntry reports whether name is a CSV under a us/<lower>/ directory.
func stateEntry(name, lower string) bool {
	name = strings.ToLower(name)
	if !strings.HasSuffix(name, ".csv") {
		return false
	}
	prefix := "us/" + lower + "/"
	return strings.HasPrefix(name, prefix) || strings.Contains(name, "/"+prefix)
}

// extractState normalizes rows from every entry belonging to code, stopping
// once limit records have been collected. It returns the records and the
// number of files read. A file that fails to parse part way keeps the rows
// read before the failure.
func extractState(log *zap.Logger, entries []fetcher.Entry, code string, limit int) ([]model.AddressRecord, int, error) {
	lower, ok := region.PathName(code)
	if !ok {
		return nil, 0, eris.Wrapf(model.ErrInvalidState, "state %q", code)
	}

	var (
		pool    []model.AddressRecord
		scanned int
	)
	for _, e := range entries {
		if len(pool) >= limit {
			break
		}
		if !stateEntry(e.Name, lower) {
			continue
		}

		data, err := e.ReadAll()
		if err != nil {
			return nil, scanned, eris.Wrapf(model.ErrArchiveCorrupt, "%s: %v", e.Name, err)
		}
		scanned++

		var cols *normalize.Columns
		_, err = fetcher.ReadCSV(bytes.NewReader(fetcher.DecodeText(data)), csvOpts, func(header, row []string) error {
			if cols == nil {
				c := normalize.Resolve(header, normalize.Aliases)
				cols = &c
			}
			rec, ok := cols.Row(row, code)
			if !ok {
				return nil
			}
			pool = append(pool, rec)
			if len(pool) >= limit {
				return fetcher.ErrStop
			}
			return nil
		})
		if err != nil {
			log.Warn("skipping unreadable csv", zap.String("entry", e.Name), zap.Error(err))
		}
	}
	return pool, scanned, nil
}
