package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/addrcache/internal/model"
)

func TestResolve_OpenAddressesHeader(t *testing.T) {
	cols := Resolve([]string{"LON", "LAT", "NUMBER", "STREET", "UNIT", "CITY", "DISTRICT", "REGION", "POSTCODE", "ID", "HASH"}, Aliases)

	assert.Equal(t, 2, cols[Number])
	assert.Equal(t, 3, cols[Street])
	assert.Equal(t, 4, cols[Unit])
	assert.Equal(t, 5, cols[City])
	assert.Equal(t, 7, cols[State])
	assert.Equal(t, 8, cols[Zip])
}

func TestResolve_FirstAliasWins(t *testing.T) {
	// Both "zip" and "postcode" exist; postcode is listed first.
	cols := Resolve([]string{"zip", "street", "postcode", "city"}, Aliases)
	assert.Equal(t, 2, cols[Zip])

	// Only the later alias exists.
	cols = Resolve([]string{"postal_code", "street_name", "locality", "state", "apartment", "house_number"}, Aliases)
	assert.Equal(t, 0, cols[Zip])
	assert.Equal(t, 1, cols[Street])
	assert.Equal(t, 2, cols[City])
	assert.Equal(t, 3, cols[State])
	assert.Equal(t, 4, cols[Unit])
	assert.Equal(t, 5, cols[Number])
}

func TestResolve_Missing(t *testing.T) {
	cols := Resolve([]string{"street", "city"}, Aliases)
	assert.False(t, cols.Has(Number))
	assert.False(t, cols.Has(Zip))
	assert.True(t, cols.Has(Street))
	assert.Equal(t, "", cols.Value([]string{"Main St", "X"}, Number))
}

func TestResolve_CustomTable(t *testing.T) {
	table := []Alias{
		{Street, []string{"full_street"}},
		{City, []string{"town"}},
	}
	cols := Resolve([]string{"TOWN", "FULL_STREET"}, table)
	assert.Equal(t, 1, cols[Street])
	assert.Equal(t, 0, cols[City])
	assert.False(t, cols.Has(State))
}

func TestRow_Basic(t *testing.T) {
	cols := Resolve([]string{"NUMBER", "STREET", "CITY", "REGION", "POSTCODE"}, Aliases)

	rec, ok := cols.Row([]string{"123", "Main St", "Springfield", "IL", "62701"}, "IL")
	require.True(t, ok)
	assert.Equal(t, model.AddressRecord{Address1: "123 Main St", City: "Springfield", State: "IL", Zip: "62701"}, rec)
}

func TestRow_FoldsCarriageReturns(t *testing.T) {
	cols := Resolve([]string{"NUMBER", "STREET", "UNIT", "CITY", "REGION", "POSTCODE"}, Aliases)

	rec, ok := cols.Row([]string{"5", "Oak\r\nAve", "Bldg A\rRear", "Peoria", "IL", "61602"}, "IL")
	require.True(t, ok)
	assert.Equal(t, "5 Oak\nAve", rec.Address1)
	assert.Equal(t, "Bldg A\nRear", rec.Address2)
	assert.NotContains(t, rec.Address1+rec.Address2, "\r")
}

func TestRow_DropsMissingStreetOrCity(t *testing.T) {
	cols := Resolve([]string{"NUMBER", "STREET", "CITY", "REGION", "POSTCODE"}, Aliases)

	_, ok := cols.Row([]string{"123", "", "Springfield", "IL", "62701"}, "IL")
	assert.False(t, ok, "missing street")

	_, ok = cols.Row([]string{"123", "Main St", "  ", "IL", "62701"}, "IL")
	assert.False(t, ok, "missing city")

	_, ok = cols.Row([]string{"123"}, "IL")
	assert.False(t, ok, "short row")
}

func TestRow_StateFallback(t *testing.T) {
	cols := Resolve([]string{"NUMBER", "STREET", "CITY", "REGION"}, Aliases)

	rec, ok := cols.Row([]string{"1", "Oak Ave", "Chicago", ""}, "IL")
	require.True(t, ok)
	assert.Equal(t, "IL", rec.State)

	_, ok = cols.Row([]string{"1", "Oak Ave", "Chicago", ""}, "")
	assert.False(t, ok)
}

func TestRow_StreetOnly(t *testing.T) {
	cols := Resolve([]string{"STREET", "CITY", "STATE"}, Aliases)
	rec, ok := cols.Row([]string{"Rural Route 5", "Nowhere", "KS"}, "KS")
	require.True(t, ok)
	assert.Equal(t, "Rural Route 5", rec.Address1)
}

func TestRow_CaseInsensitiveHeaders(t *testing.T) {
	cols := Resolve([]string{"number", "street", "city", "region", "postcode"}, Aliases)
	rec, ok := cols.Row([]string{"123", "Main St", "Springfield", "IL", "62701"}, "IL")
	require.True(t, ok)
	assert.Equal(t, "123 Main St", rec.Address1)
}

func TestRow_AliasEquivalence(t *testing.T) {
	a := Resolve([]string{"NUMBER", "STREET", "UNIT", "CITY", "REGION", "POSTCODE"}, Aliases)
	b := Resolve([]string{"HOUSE_NUMBER", "STREET_NAME", "APARTMENT", "LOCALITY", "STATE", "ZIP"}, Aliases)

	row := []string{"742", "Evergreen Terrace", "B", "Springfield", "OR", "97403"}
	recA, okA := a.Row(row, "OR")
	recB, okB := b.Row(row, "OR")
	require.True(t, okA)
	require.True(t, okB)
	assert.Equal(t, recA, recB)
	assert.Equal(t, "742 Evergreen Terrace", recA.Address1)
}

func TestLine1(t *testing.T) {
	assert.Equal(t, "5 Elm St", Line1("5", "Elm St"))
	assert.Equal(t, "Elm St", Line1("", "Elm St"))
	assert.Equal(t, "Elm St", Line1("  ", " Elm St "))
	assert.Equal(t, "", Line1("5", ""))
}

func TestFieldString(t *testing.T) {
	assert.Equal(t, "street", Street.String())
	assert.Equal(t, "zip", Zip.String())
	assert.Equal(t, "unknown", Field(42).String())
}
