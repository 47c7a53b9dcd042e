package model

import "strings"

// AddressRecord is a normalized postal address as stored in the state cache.
type AddressRecord struct {
	Address1 string `json:"address1" yaml:"address1" csv:"address1"`
	Address2 string `json:"address2" yaml:"address2" csv:"address2"`
	City     string `json:"city" yaml:"city" csv:"city"`
	State    string `json:"state" yaml:"state" csv:"state"`
	Zip      string `json:"zip" yaml:"zip" csv:"zip"`
}

// CacheHeader is the header row of every state cache file.
var CacheHeader = []string{"address1", "address2", "city", "state", "zip"}

// Fields returns the record values in CacheHeader order.
func (a AddressRecord) Fields() []string {
	return []string{a.Address1, a.Address2, a.City, a.State, a.Zip}
}

// Valid reports whether the record carries the fields every consumer relies on.
func (a AddressRecord) Valid() bool {
	return strings.TrimSpace(a.Address1) != "" &&
		strings.TrimSpace(a.City) != "" &&
		strings.TrimSpace(a.State) != ""
}

var lineBreaks = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// FoldLineBreaks rewrites CRLF and lone CR line breaks as LF. CSV readers
// fold CRLF inside quoted fields, so a cached value must never carry a CR.
func FoldLineBreaks(s string) string {
	if !strings.ContainsRune(s, '\r') {
		return s
	}
	return lineBreaks.Replace(s)
}
