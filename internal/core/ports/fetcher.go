package ports

import "context"

// Fetcher downloads remote resources over HTTP(S), retrying transient failures.
//
//go:generate mockgen -source=fetcher.go -destination=mocks/mock_fetcher.go -package=mocks
type Fetcher interface {
	// Fetch returns the response body of url as bytes.
	Fetch(ctx context.Context, url string) ([]byte, error)
	// FetchText returns the response body of url decoded as text.
	FetchText(ctx context.Context, url string) (string, error)
}
