package client

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// Client is a read-only client for the Rollbar API. It is immutable once
// returned by [New] and safe for concurrent use.
type Client struct {
	http        *resty.Client
	baseURL     string
	accessToken string
	options     *Options
	metrics     *metrics
}

// New creates a client authenticated with a project access token. The token
// is attached to every request in the X-Rollbar-Access-Token header.
func New(accessToken string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(accessToken) == "" {
		return nil, errors.New("access token must be set")
	}

	options := newClientOptions()

	for _, o := range opts {
		o(options)
	}

	if err := options.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	m, err := newMetrics(options.registerer)
	if err != nil {
		return nil, fmt.Errorf("failed to register metrics: %w", err)
	}

	var http *resty.Client
	if options.httpClient != nil {
		// resty sets the timeout on the client it wraps; copy so the
		// caller's client keeps its own settings.
		hc := *options.httpClient
		http = resty.NewWithClient(&hc)
	} else {
		http = resty.New()
	}

	http.SetBaseURL(options.baseURL).
		SetTimeout(options.timeout).
		SetRetryCount(0).
		SetLogger(options.requestLogger).
		SetHeaders(options.requestHeaders).
		SetHeader(AccessTokenHeader, accessToken)

	return &Client{
		http:        http,
		baseURL:     options.baseURL,
		accessToken: accessToken,
		options:     options,
		metrics:     m,
	}, nil
}

// BaseURL returns the API base address the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// request describes one GET against the API. Op is the label attached to
// every failure and metric.
type request struct {
	op         string
	path       string
	pathParams map[string]string
	query      map[string]string
}

// get performs the request and returns the raw body of a 2xx response.
func (c *Client) get(ctx context.Context, req request) ([]byte, error) {
	c.options.requestLogger.Debugf("GET %s (%s)", req.path, req.op)

	r := c.http.R().SetContext(ctx)
	if len(req.pathParams) > 0 {
		r.SetPathParams(req.pathParams)
	}
	if len(req.query) > 0 {
		r.SetQueryParams(req.query)
	}

	response, err := r.Get(req.path)
	if err != nil {
		c.options.requestLogger.Errorf("%s request failed: %s", req.op, c.redact(err.Error()))
		return nil, c.fail(req.op, ErrTransport, 0, err, "request failed: "+err.Error())
	}

	if !response.IsSuccess() {
		body := strings.TrimSpace(string(truncate(response.Body(), maxErrorBody)))
		if body == "" {
			body = "(empty error body)"
		}

		message := fmt.Sprintf("non-success status %d: %s", response.StatusCode(), body)
		c.options.requestLogger.Errorf("%s returned %d", req.op, response.StatusCode())

		return nil, c.fail(req.op, ErrStatus, response.StatusCode(), nil, message)
	}

	return response.Body(), nil
}

const maxErrorBody = 2048

func truncate(body []byte, n int) []byte {
	if len(body) > n {
		return body[:n]
	}

	return body
}

func (c *Client) fail(op string, kind error, status int, cause error, message string) *Error {
	return &Error{
		Op:         op,
		Kind:       kind,
		StatusCode: status,
		Message:    c.redact(message),
		Err:        cause,
	}
}

func (c *Client) redact(value string) string {
	return redactString(value, c.accessToken)
}

func (c *Client) observe(op string, started time.Time, err error) {
	c.metrics.observe(op, started, err)
}
