package addrcache

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"io"
	"os"
	"strings"

	"github.com/jszwec/csvutil"
	"github.com/rotisserie/eris"

	"github.com/sells-group/addrcache/internal/model"
	"github.com/sells-group/addrcache/internal/region"
)

// EscapeField quotes a CSV value when it contains a delimiter, a quote, or a
// line break. Embedded quotes are doubled.
func EscapeField(field string) string {
	if !strings.ContainsAny(field, ",\"\n\r") {
		return field
	}
	return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
}

// WriteRecords writes the cache header followed by one escaped row per record.
// CR line breaks inside a value are written as LF so the row reads back
// unchanged.
func WriteRecords(w io.Writer, records []model.AddressRecord) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(strings.Join(model.CacheHeader, ",") + "\n"); err != nil {
		return eris.Wrap(err, "write header")
	}
	for _, rec := range records {
		fields := rec.Fields()
		for i, f := range fields {
			fields[i] = EscapeField(model.FoldLineBreaks(f))
		}
		if _, err := bw.WriteString(strings.Join(fields, ",") + "\n"); err != nil {
			return eris.Wrap(err, "write record")
		}
	}
	return eris.Wrap(bw.Flush(), "flush records")
}

// WriteState replaces the cache file for code with records.
func (s *Store) WriteState(code string, records []model.AddressRecord) error {
	var buf bytes.Buffer
	if err := WriteRecords(&buf, records); err != nil {
		return eris.Wrapf(err, "addrcache: encode %s", region.Canonical(code))
	}
	return s.writeBytes(s.StatePath(code), buf.Bytes())
}

// ReadState decodes every record in the cache file for code.
func (s *Store) ReadState(code string) ([]model.AddressRecord, error) {
	f, err := os.Open(s.StatePath(code))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, eris.Wrapf(model.ErrNotCached, "state %s", region.Canonical(code))
		}
		return nil, eris.Wrapf(err, "addrcache: open %s", region.Canonical(code))
	}
	defer f.Close() //nolint:errcheck

	records, err := decodeRecords(f)
	if err != nil {
		return nil, eris.Wrapf(err, "addrcache: read %s", region.Canonical(code))
	}
	return records, nil
}

func decodeRecords(r io.Reader) ([]model.AddressRecord, error) {
	dec, err := csvutil.NewDecoder(csv.NewReader(r))
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "read header")
	}

	var records []model.AddressRecord
	for {
		var rec model.AddressRecord
		if err := dec.Decode(&rec); err == io.EOF {
			break
		} else if err != nil {
			return nil, eris.Wrap(err, "decode record")
		}
		records = append(records, rec)
	}
	return records, nil
}
