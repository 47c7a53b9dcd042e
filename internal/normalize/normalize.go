// Package normalize maps heterogeneous OpenAddresses CSV schemas onto
// model.AddressRecord.
package normalize

import (
	"strings"

	"github.com/sells-group/addrcache/internal/model"
)

// Field is a logical address component.
type Field int

const (
	Number Field = iota
	Street
	Unit
	City
	State
	Zip
	numFields
)

var fieldNames = [numFields]string{"number", "street", "unit", "city", "state", "zip"}

func (f Field) String() string {
	if f < 0 || f >= numFields {
		return "unknown"
	}
	return fieldNames[f]
}

// Alias lists, in priority order, the header names accepted for one field.
type Alias struct {
	Field   Field
	Headers []string
}

// Aliases is the header resolution table. Each field is resolved on its own:
// the first listed header present in the file wins, compared
// case-insensitively.
var Aliases = []Alias{
	{Number, []string{"number", "house_number"}},
	{Street, []string{"street", "street_name"}},
	{Unit, []string{"unit", "apartment"}},
	{City, []string{"city", "locality"}},
	{State, []string{"region", "state"}},
	{Zip, []string{"postcode", "zip", "postal_code"}},
}

// Columns holds the resolved column index for each field, -1 when absent.
type Columns [numFields]int

// Resolve maps a header row onto column positions using table.
func Resolve(header []string, table []Alias) Columns {
	byName := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(h))
		if _, dup := byName[name]; !dup {
			byName[name] = i
		}
	}

	var cols Columns
	for i := range cols {
		cols[i] = -1
	}
	for _, a := range table {
		for _, h := range a.Headers {
			if idx, ok := byName[strings.ToLower(h)]; ok {
				cols[a.Field] = idx
				break
			}
		}
	}
	return cols
}

// Has reports whether field was found in the header.
func (c Columns) Has(f Field) bool {
	return c[f] >= 0
}

// Value returns the trimmed value of field in row, or "" when the column is
// absent or the row is short. Embedded line breaks come back as LF.
func (c Columns) Value(row []string, f Field) string {
	idx := c[f]
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return model.FoldLineBreaks(strings.TrimSpace(row[idx]))
}

// Row builds a record from one data row. Rows with no street or no city are
// rejected. fallbackState fills the state when the row leaves it blank, since
// the archive path already names the state.
func (c Columns) Row(row []string, fallbackState string) (model.AddressRecord, bool) {
	number := c.Value(row, Number)
	street := c.Value(row, Street)
	city := c.Value(row, City)
	if street == "" || city == "" {
		return model.AddressRecord{}, false
	}

	state := c.Value(row, State)
	if state == "" {
		state = fallbackState
	}
	if state == "" {
		return model.AddressRecord{}, false
	}

	return model.AddressRecord{
		Address1: Line1(number, street),
		Address2: c.Value(row, Unit),
		City:     city,
		State:    state,
		Zip:      c.Value(row, Zip),
	}, true
}

// Line1 joins a house number and street name, falling back to the street
// alone when there is no number.
func Line1(number, street string) string {
	number = strings.TrimSpace(number)
	street = strings.TrimSpace(street)
	if number == "" {
		return street
	}
	if street == "" {
		return ""
	}
	return number + " " + street
}
