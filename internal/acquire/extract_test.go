package acquire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sells-group/addrcache/internal/fetcher"
)

func TestStateEntry(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"us/ca/los_angeles.csv", true},
		{"US/CA/Statewide.CSV", true},
		{"openaddr-collected-us_west/us/ca/alameda.csv", true},
		{"us/ca/sub/dir/city_of_x.csv", true},
		{"us/ca/los_angeles.vrt", false},
		{"us/ca.csv", false},
		{"us/nv/clark.csv", false},
		{"bus/ca/x.csv", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stateEntry(tt.name, "ca"))
		})
	}
}

func TestExtractState_StopsAtLimit(t *testing.T) {
	data := buildZIP(t, map[string]string{
		"us/ny/a.csv": addressCSV("NY", 50),
		"us/ny/b.csv": addressCSV("NY", 50),
	})
	entries, err := fetcher.ZIPEntries(data)
	require.NoError(t, err)

	pool, scanned, err := extractState(zap.NewNop(), entries, "NY", 20)
	require.NoError(t, err)
	assert.Len(t, pool, 20)
	assert.Equal(t, 1, scanned)
}

func TestExtractState_AliasHeaders(t *testing.T) {
	data := buildZIP(t, map[string]string{
		"us/vt/a.csv": "house_number,street_name,apartment,locality,state,zip\n5,Elm St,2,Burlington,,05401\n,Pine Rd,,Stowe,VT,05672\n9,Oak Ln,,,VT,05000\n",
	})
	entries, err := fetcher.ZIPEntries(data)
	require.NoError(t, err)

	pool, _, err := extractState(zap.NewNop(), entries, "VT", 100)
	require.NoError(t, err)
	require.Len(t, pool, 2)
	assert.Equal(t, "5 Elm St", pool[0].Address1)
	assert.Equal(t, "2", pool[0].Address2)
	assert.Equal(t, "VT", pool[0].State)
	assert.Equal(t, "Pine Rd", pool[1].Address1)
}

func TestExtractState_Windows1252(t *testing.T) {
	data := buildZIP(t, map[string]string{
		"us/nm/a.csv": "NUMBER,STREET,CITY,REGION\n1,Calle Pe\xF1a,Espa\xF1ola,NM\n",
	})
	entries, err := fetcher.ZIPEntries(data)
	require.NoError(t, err)

	pool, _, err := extractState(zap.NewNop(), entries, "NM", 10)
	require.NoError(t, err)
	require.Len(t, pool, 1)
	assert.Equal(t, "1 Calle Peña", pool[0].Address1)
	assert.Equal(t, "Española", pool[0].City)
}

func TestExtractState_MalformedFileKeepsEarlierRows(t *testing.T) {
	data := buildZIP(t, map[string]string{
		"us/me/a.csv": "NUMBER,STREET,CITY,REGION\n1,Main St,Portland,ME\n2,\"Broken,Portland,ME\n",
	})
	entries, err := fetcher.ZIPEntries(data)
	require.NoError(t, err)

	pool, scanned, err := extractState(zap.NewNop(), entries, "ME", 10)
	require.NoError(t, err)
	assert.Equal(t, 1, scanned)
	require.Len(t, pool, 1)
	assert.Equal(t, "1 Main St", pool[0].Address1)
}
