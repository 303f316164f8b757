// Package fetcher downloads runtime assets over HTTP with a bounded retry loop.
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/schollz/progressbar/v3"
	"go.trai.ch/rebuild/internal/core/domain"
	"go.trai.ch/rebuild/internal/core/ports"
	"go.trai.ch/zerr"
)

const (
	// DefaultAttempts is the number of tries before a download is reported as failed.
	DefaultAttempts = 3
	// DefaultBackoff is the flat delay between two tries.
	DefaultBackoff = 2 * time.Second
)

// Fetcher implements ports.Fetcher on net/http.
type Fetcher struct {
	client   *http.Client
	logger   ports.Logger
	tracer   ports.Tracer
	attempts int
	backoff  time.Duration
	progress io.Writer
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithClient replaces the HTTP client.
func WithClient(c *http.Client) Option {
	return func(f *Fetcher) { f.client = c }
}

// WithAttempts sets the retry budget. Values below one are treated as one.
func WithAttempts(n int) Option {
	return func(f *Fetcher) { f.attempts = max(n, 1) }
}

// WithBackoff sets the delay between tries.
func WithBackoff(d time.Duration) Option {
	return func(f *Fetcher) { f.backoff = d }
}

// WithProgress renders a byte progress bar to w for responses that announce
// their length. A nil writer disables it.
func WithProgress(w io.Writer) Option {
	return func(f *Fetcher) { f.progress = w }
}

// New creates a Fetcher with the default retry policy.
func New(logger ports.Logger, tracer ports.Tracer, opts ...Option) *Fetcher {
	f := &Fetcher{
		client:   http.DefaultClient,
		logger:   logger,
		tracer:   tracer,
		attempts: DefaultAttempts,
		backoff:  DefaultBackoff,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// FetchText downloads url and returns the body as a string.
func (f *Fetcher) FetchText(ctx context.Context, url string) (string, error) {
	body, err := f.Fetch(ctx, url)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// Fetch downloads url, retrying on transport errors and non-200 responses.
// Once the budget is spent the last failure is returned in the ErrNetwork class.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	ctx, span := f.tracer.Start(ctx, "fetch")
	defer span.End()
	span.SetAttribute("url", url)

	var lastErr error
	for attempt := 1; attempt <= f.attempts; attempt++ {
		if attempt == 1 {
			f.logger.Info("downloading: " + url)
		} else {
			f.logger.Info(fmt.Sprintf("downloading: %s (attempt %d/%d)", url, attempt, f.attempts))
		}

		body, err := f.get(ctx, url)
		if err == nil {
			span.SetAttribute("attempts", attempt)
			span.SetAttribute("bytes", len(body))
			return body, nil
		}
		lastErr = err
		f.logger.Debug(fmt.Sprintf("fetch attempt %d for %s failed: %v", attempt, url, err))

		if attempt == f.attempts {
			break
		}
		if err := sleep(ctx, f.backoff); err != nil {
			lastErr = err
			break
		}
	}

	err := errors.Join(domain.ErrNetwork, zerr.With(
		zerr.Wrap(lastErr, fmt.Sprintf("failed to fetch %s", url)),
		"attempts", f.attempts,
	))
	span.RecordError(err)
	return nil, err
}

func (f *Fetcher) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to create request")
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, zerr.With(zerr.Wrap(domain.ErrUnexpectedStatus, resp.Status), "status", resp.StatusCode)
	}

	var body io.Reader = resp.Body
	if f.progress != nil && resp.ContentLength > 0 {
		bar := progressbar.NewOptions64(resp.ContentLength,
			progressbar.OptionSetWriter(f.progress),
			progressbar.OptionSetDescription("downloading"),
			progressbar.OptionShowBytes(true),
			progressbar.OptionThrottle(100*time.Millisecond),
			progressbar.OptionClearOnFinish(),
		)
		defer func() { _ = bar.Finish() }()
		body = io.TeeReader(resp.Body, bar)
	}

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to read response body")
	}
	return data, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
