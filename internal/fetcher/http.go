package fetcher

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/addrcache/internal/model"
	"github.com/sells-group/addrcache/internal/resilience"
)

// HTTPOptions configures the HTTP fetcher.
type HTTPOptions struct {
	UserAgent      string
	Timeout        time.Duration // whole request, body included
	ConnectTimeout time.Duration
	MaxAttempts    int           // total attempts when rate limited (429)
	InitialBackoff time.Duration // first wait after a 429
	MaxBackoff     time.Duration
	RatePerSec     float64 // per-host request rate; 0 = unlimited
	RateLimiters   map[string]*rate.Limiter
}

// HTTPFetcher implements Fetcher using net/http. Only 429 responses are
// retried; every other failure is returned at once.
type HTTPFetcher struct {
	client   *http.Client
	opts     HTTPOptions
	limiters map[string]*rate.Limiter
}

// NewHTTPFetcher creates a new HTTPFetcher with the given options.
func NewHTTPFetcher(opts HTTPOptions) *HTTPFetcher {
	if opts.Timeout == 0 {
		opts.Timeout = 10 * time.Minute
	}
	if opts.ConnectTimeout == 0 {
		opts.ConnectTimeout = 30 * time.Second
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 4
	}
	if opts.InitialBackoff == 0 {
		opts.InitialBackoff = 30 * time.Second
	}
	if opts.MaxBackoff == 0 {
		opts.MaxBackoff = 2 * time.Minute
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "addrcache/1.0"
	}
	limiters := make(map[string]*rate.Limiter)
	for k, v := range opts.RateLimiters {
		limiters[k] = v
	}
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		DialContext:         (&net.Dialer{Timeout: opts.ConnectTimeout}).DialContext,
		TLSHandshakeTimeout: opts.ConnectTimeout,
		MaxIdleConnsPerHost: 2,
		IdleConnTimeout:     90 * time.Second,
	}
	return &HTTPFetcher{
		client: &http.Client{
			Timeout:   opts.Timeout,
			Transport: transport,
		},
		opts:     opts,
		limiters: limiters,
	}
}

func (f *HTTPFetcher) limiterFor(rawURL string) *rate.Limiter {
	host := ""
	if u, err := url.Parse(rawURL); err == nil {
		host = u.Host
	}
	if lim, ok := f.limiters[host]; ok {
		return lim
	}
	if f.opts.RatePerSec <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	lim := rate.NewLimiter(rate.Limit(f.opts.RatePerSec), 1)
	f.limiters[host] = lim
	return lim
}

// Fetch downloads rawURL fully into memory.
func (f *HTTPFetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	log := zap.L().With(
		zap.String("component", "fetcher.http"),
		zap.String("url", rawURL),
	)

	retry := resilience.RetryConfig{
		MaxAttempts:    f.opts.MaxAttempts,
		InitialBackoff: f.opts.InitialBackoff,
		MaxBackoff:     f.opts.MaxBackoff,
		Multiplier:     2.0,
		JitterFraction: 0,
		ShouldRetry:    resilience.IsRateLimited,
		OnRetry:        resilience.RetryLogger("openaddresses", "fetch"),
	}

	start := time.Now()
	data, err := resilience.DoVal(ctx, retry, func(ctx context.Context) ([]byte, error) {
		return f.fetchOnce(ctx, rawURL)
	})
	if err != nil {
		if resilience.IsRateLimited(err) {
			return nil, eris.Wrapf(model.ErrNetworkFailure, "GET %s: rate limited, exhausted %d attempts", rawURL, f.opts.MaxAttempts)
		}
		return nil, err
	}

	log.Debug("fetched archive",
		zap.Int("bytes", len(data)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return data, nil
}

func (f *HTTPFetcher) fetchOnce(ctx context.Context, rawURL string) ([]byte, error) {
	if err := f.limiterFor(rawURL).Wait(ctx); err != nil {
		return nil, eris.Wrapf(model.ErrNetworkFailure, "GET %s: rate limiter wait: %v", rawURL, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, eris.Wrapf(model.ErrNetworkFailure, "GET %s: create request: %v", rawURL, err)
	}
	req.Header.Set("User-Agent", f.opts.UserAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, eris.Wrapf(model.ErrNetworkFailure, "GET %s: %v", rawURL, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode == http.StatusTooManyRequests {
		te := resilience.NewTransientError(eris.Errorf("GET %s: http 429", rawURL), resp.StatusCode)
		te.RetryAfter = resilience.ParseRetryAfter(resp.Header.Get("Retry-After"), time.Now())
		return nil, te
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, eris.Wrapf(model.ErrNetworkFailure, "GET %s: unexpected status %d", rawURL, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrapf(model.ErrNetworkFailure, "GET %s: read body: %v", rawURL, err)
	}
	return data, nil
}
