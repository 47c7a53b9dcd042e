package model

import (
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
)

func TestAddressRecord_Fields(t *testing.T) {
	t.Parallel()

	a := AddressRecord{Address1: "123 Main St", Address2: "Apt 4B", City: "Springfield", State: "IL", Zip: "62701"}
	assert.Equal(t, []string{"123 Main St", "Apt 4B", "Springfield", "IL", "62701"}, a.Fields())
	assert.Len(t, CacheHeader, len(a.Fields()))
}

func TestAddressRecord_Valid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		rec  AddressRecord
		want bool
	}{
		{"complete", AddressRecord{Address1: "1 A St", City: "X", State: "IL"}, true},
		{"no line1", AddressRecord{City: "X", State: "IL"}, false},
		{"blank city", AddressRecord{Address1: "1 A St", City: "  ", State: "IL"}, false},
		{"no state", AddressRecord{Address1: "1 A St", City: "X"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.rec.Valid())
		})
	}
}

func TestFoldLineBreaks(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"a\nb", "a\nb"},
		{"a\r\nb", "a\nb"},
		{"a\rb", "a\nb"},
		{"a\r\r\nb\r", "a\n\nb\n"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FoldLineBreaks(tt.in), "input %q", tt.in)
	}
}

func TestErrorKinds_MatchThroughWrap(t *testing.T) {
	t.Parallel()

	err := eris.Wrapf(ErrNotCached, "state %s", "ZZ")
	assert.True(t, eris.Is(err, ErrNotCached))
	assert.False(t, eris.Is(err, ErrInvalidState))
	assert.Contains(t, err.Error(), "ZZ")
}
