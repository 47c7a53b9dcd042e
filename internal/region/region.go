// Package region maps US state codes to the OpenAddresses regional bundles
// that carry their address data.
package region

import (
	"sort"
	"strings"
)

// Region is one of the four OpenAddresses US collection buckets.
type Region string

const (
	Northeast Region = "us_northeast"
	Midwest   Region = "us_midwest"
	South     Region = "us_south"
	West      Region = "us_west"
)

const baseURL = "https://data.openaddresses.io/openaddr-collected-"

// URL returns the bundled archive endpoint for the region.
func (r Region) URL() string {
	return baseURL + string(r) + ".zip"
}

func (r Region) String() string {
	return string(r)
}

// Regions returns all regions in a stable order.
func Regions() []Region {
	return []Region{Northeast, Midwest, South, West}
}

// stateRegions maps every supported state abbreviation (50 states + DC) to
// the bundle that contains it.
var stateRegions = map[string]Region{
	"CT": Northeast, "ME": Northeast, "MA": Northeast, "NH": Northeast,
	"NJ": Northeast, "NY": Northeast, "PA": Northeast, "RI": Northeast,
	"VT": Northeast,

	"IL": Midwest, "IN": Midwest, "IA": Midwest, "KS": Midwest,
	"MI": Midwest, "MN": Midwest, "MO": Midwest, "NE": Midwest,
	"ND": Midwest, "OH": Midwest, "SD": Midwest, "WI": Midwest,

	"AL": South, "AR": South, "DE": South, "DC": South, "FL": South,
	"GA": South, "KY": South, "LA": South, "MD": South, "MS": South,
	"NC": South, "OK": South, "SC": South, "TN": South, "TX": South,
	"VA": South, "WV": South,

	"AK": West, "AZ": West, "CA": West, "CO": West, "HI": West,
	"ID": West, "MT": West, "NV": West, "NM": West, "OR": West,
	"UT": West, "WA": West, "WY": West,
}

// Canonical returns the uppercase, trimmed form of a state code.
func Canonical(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// ForState returns the region for a state code (case-insensitive).
func ForState(code string) (Region, bool) {
	r, ok := stateRegions[Canonical(code)]
	return r, ok
}

// IsValid reports whether code is one of the supported state codes.
func IsValid(code string) bool {
	_, ok := stateRegions[Canonical(code)]
	return ok
}

// PathName returns the lowercase code used in archive paths (e.g. "us/ca/").
func PathName(code string) (string, bool) {
	if !IsValid(code) {
		return "", false
	}
	return strings.ToLower(Canonical(code)), true
}

// All returns a sorted list of every supported state code.
func All() []string {
	codes := make([]string, 0, len(stateRegions))
	for code := range stateRegions {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// StatesIn returns the sorted state codes bundled in r.
func StatesIn(r Region) []string {
	var codes []string
	for code, reg := range stateRegions {
		if reg == r {
			codes = append(codes, code)
		}
	}
	sort.Strings(codes)
	return codes
}

// Parse resolves a region by name ("us_west" or "west").
func Parse(name string) (Region, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, r := range Regions() {
		if name == string(r) || "us_"+name == string(r) {
			return r, true
		}
	}
	return "", false
}
