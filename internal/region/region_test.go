package region

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForState_AllCodesMapToOneRegion(t *testing.T) {
	known := map[Region]bool{Northeast: true, Midwest: true, South: true, West: true}

	codes := All()
	require.Len(t, codes, 51)
	for _, code := range codes {
		r, ok := ForState(code)
		require.True(t, ok, "state %s should have a region", code)
		assert.True(t, known[r], "state %s mapped to unknown region %q", code, r)
	}
}

func TestForState_Buckets(t *testing.T) {
	tests := []struct {
		region Region
		states []string
	}{
		{Northeast, []string{"CT", "ME", "MA", "NH", "NJ", "NY", "PA", "RI", "VT"}},
		{Midwest, []string{"IL", "IN", "IA", "KS", "MI", "MN", "MO", "NE", "ND", "OH", "SD", "WI"}},
		{South, []string{"AL", "AR", "DE", "DC", "FL", "GA", "KY", "LA", "MD", "MS", "NC", "OK", "SC", "TN", "TX", "VA", "WV"}},
		{West, []string{"AK", "AZ", "CA", "CO", "HI", "ID", "MT", "NV", "NM", "OR", "UT", "WA", "WY"}},
	}

	for _, tt := range tests {
		t.Run(tt.region.String(), func(t *testing.T) {
			for _, s := range tt.states {
				r, ok := ForState(s)
				assert.True(t, ok)
				assert.Equal(t, tt.region, r, "state %s", s)
			}
			assert.Len(t, StatesIn(tt.region), len(tt.states))
		})
	}
}

func TestForState_Invalid(t *testing.T) {
	for _, code := range []string{"", "ZZ", "PR", "CAL", "C", "  "} {
		_, ok := ForState(code)
		assert.False(t, ok, "code %q", code)
		assert.False(t, IsValid(code), "code %q", code)
	}
}

func TestForState_CaseInsensitive(t *testing.T) {
	r, ok := ForState("ca")
	require.True(t, ok)
	assert.Equal(t, West, r)

	assert.True(t, IsValid("Dc"))
	assert.True(t, IsValid(" ny "))
}

func TestRegionURL(t *testing.T) {
	assert.Equal(t, "https://data.openaddresses.io/openaddr-collected-us_west.zip", West.URL())
	assert.Equal(t, "https://data.openaddresses.io/openaddr-collected-us_northeast.zip", Northeast.URL())
}

func TestPathName(t *testing.T) {
	name, ok := PathName("CA")
	assert.True(t, ok)
	assert.Equal(t, "ca", name)

	name, ok = PathName("dc")
	assert.True(t, ok)
	assert.Equal(t, "dc", name)

	_, ok = PathName("invalid")
	assert.False(t, ok)
}

func TestAll_Sorted(t *testing.T) {
	codes := All()
	for i := 1; i < len(codes); i++ {
		assert.Less(t, codes[i-1], codes[i])
	}
}

func TestParse(t *testing.T) {
	r, ok := Parse("us_south")
	assert.True(t, ok)
	assert.Equal(t, South, r)

	r, ok = Parse("West")
	assert.True(t, ok)
	assert.Equal(t, West, r)

	_, ok = Parse("us_east")
	assert.False(t, ok)
}
