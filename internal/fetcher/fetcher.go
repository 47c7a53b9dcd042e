// Package fetcher downloads regional address bundles and reads their ZIP and
// CSV contents.
package fetcher

import "context"

// Fetcher defines the interface for downloading remote archives.
type Fetcher interface {
	// Fetch downloads url and returns the full response body. Transport
	// failures and non-2xx responses wrap model.ErrNetworkFailure.
	Fetch(ctx context.Context, url string) ([]byte, error)
}
