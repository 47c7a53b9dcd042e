package model

import "github.com/rotisserie/eris"

// Error kinds returned by the acquisition and sampling layers. Callers match
// them with eris.Is; the wrapping message names the offending state or URL.
var (
	ErrInvalidState       = eris.New("invalid state code")
	ErrHomeDirUnavailable = eris.New("home directory unavailable")
	ErrManifestCorrupt    = eris.New("cache manifest corrupt")
	ErrNetworkFailure     = eris.New("network failure")
	ErrArchiveCorrupt     = eris.New("archive corrupt")
	ErrNotCached          = eris.New("state not cached")
)
