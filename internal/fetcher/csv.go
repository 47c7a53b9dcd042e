package fetcher

import (
	"bytes"
	"encoding/csv"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/rotisserie/eris"
	"golang.org/x/text/encoding/charmap"
)

// ErrStop may be returned from a ReadCSV callback to end reading early
// without an error.
var ErrStop = eris.New("csv: stop")

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVOptions configures the CSV reader.
type CSVOptions struct {
	Delimiter  rune // default ','
	Comment    rune // comment character (0 = none)
	LazyQuotes bool
	TrimSpace  bool
}

// DecodeText returns data as UTF-8. A leading BOM is dropped, and content
// that is not valid UTF-8 is decoded as Windows-1252, the usual encoding of
// county exports that are not UTF-8.
func DecodeText(data []byte) []byte {
	data = bytes.TrimPrefix(data, utf8BOM)
	if utf8.Valid(data) {
		return data
	}
	decoded, err := charmap.Windows1252.NewDecoder().Bytes(data)
	if err != nil {
		return bytes.ToValidUTF8(data, []byte("\uFFFD"))
	}
	return decoded
}

// ReadCSV reads a header row and then calls fn with it for every data row.
// Rows may have any number of fields. Returning ErrStop from fn ends the read cleanly.
// The header is returned even when fn stops early.
func ReadCSV(r io.Reader, opts CSVOptions, fn func(header, row []string) error) ([]string, error) {
	reader := csv.NewReader(r)
	if opts.Delimiter != 0 {
		reader.Comma = opts.Delimiter
	}
	if opts.Comment != 0 {
		reader.Comment = opts.Comment
	}
	reader.LazyQuotes = opts.LazyQuotes
	reader.FieldsPerRecord = -1 // allow variable fields

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "csv: read header")
	}
	if opts.TrimSpace {
		trimFields(header)
	}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			return header, nil
		}
		if err != nil {
			return header, eris.Wrap(err, "csv: read row")
		}
		if opts.TrimSpace {
			trimFields(record)
		}
		if err := fn(header, record); err != nil {
			if eris.Is(err, ErrStop) {
				return header, nil
			}
			return header, err
		}
	}
}

func trimFields(record []string) {
	for i, field := range record {
		record[i] = strings.TrimSpace(field)
	}
}
