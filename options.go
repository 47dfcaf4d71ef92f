package client

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	DefaultBaseURL = "https://api.rollbar.com/api/1"

	// AccessTokenHeader carries the project access token on every request.
	AccessTokenHeader = "X-Rollbar-Access-Token"

	minTimeout     = 100 * time.Millisecond
	maxTimeout     = 5 * time.Minute
	maxConcurrency = 64
)

type Option func(*Options)

type Options struct {
	baseURL        string
	timeout        time.Duration
	concurrency    int
	requestLogger  RequestLogger
	requestHeaders map[string]string
	httpClient     *http.Client
	registerer     prometheus.Registerer
}

func newClientOptions() *Options {
	return &Options{
		baseURL:       DefaultBaseURL,
		timeout:       8 * time.Second,
		concurrency:   4,
		requestLogger: &NoopLogger{},
		requestHeaders: map[string]string{
			"Accept": "application/json",
		},
	}
}

func WithBaseURL(baseURL string) Option {
	return func(o *Options) {
		baseURL = strings.TrimSpace(baseURL)
		if baseURL != "" {
			o.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(o *Options) {
		if timeout >= minTimeout {
			o.timeout = timeout
		}
	}
}

// WithConcurrency bounds the number of in-flight requests issued by
// [Client.ResolveItemIDs].
func WithConcurrency(n int) Option {
	return func(o *Options) {
		if n > 0 {
			o.concurrency = n
		}
	}
}

func WithRequestLogger(logger RequestLogger) Option {
	return func(o *Options) {
		if logger != nil {
			o.requestLogger = logger
		}
	}
}

// WithRequestHeader adds a static header to every request. The Accept
// header and the access token header cannot be overridden.
func WithRequestHeader(header, value string) Option {
	return func(o *Options) {
		header = strings.TrimSpace(header)

		if header == "" || strings.EqualFold(header, "Accept") || strings.EqualFold(header, AccessTokenHeader) {
			return
		}

		o.requestHeaders[header] = value
	}
}

// WithHTTPClient supplies the underlying HTTP client, for example to share a
// transport or to install a proxy. The client is copied, so the timeout set
// by [WithTimeout] applies to the copy and the caller's client is left as is.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(o *Options) {
		if httpClient != nil {
			o.httpClient = httpClient
		}
	}
}

// WithMetrics registers request counters and latency histograms with the
// given registerer.
func WithMetrics(registerer prometheus.Registerer) Option {
	return func(o *Options) {
		if registerer != nil {
			o.registerer = registerer
		}
	}
}

func (o *Options) Validate() error {
	parsed, err := url.Parse(o.baseURL)
	if err != nil {
		return fmt.Errorf("baseURL is invalid: %w", err)
	}

	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("baseURL must use http or https, got %q", o.baseURL)
	}

	if parsed.Host == "" {
		return fmt.Errorf("baseURL must include a host, got %q", o.baseURL)
	}

	if o.timeout < minTimeout {
		return fmt.Errorf("timeout must be at least %v", minTimeout)
	}

	if o.timeout > maxTimeout {
		return fmt.Errorf("timeout must not exceed %v", maxTimeout)
	}

	if o.concurrency < 1 {
		return errors.New("concurrency must be positive")
	}

	if o.concurrency > maxConcurrency {
		return fmt.Errorf("concurrency must not exceed %d", maxConcurrency)
	}

	if o.requestLogger == nil {
		return errors.New("requestLogger must not be nil")
	}

	return nil
}
