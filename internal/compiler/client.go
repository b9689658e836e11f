package compiler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/opmodel/extpack/internal/output"
)

// DefaultEndpoint is the public Closure Compiler service.
const DefaultEndpoint = "https://closure-compiler.appspot.com/compile"

// Defaults applied by NewClient.
const (
	DefaultTimeout       = 60 * time.Second
	DefaultRetries       = 1
	DefaultRetryInterval = 500 * time.Millisecond
)

// maxResponseBytes bounds the response body read into memory.
const maxResponseBytes = 64 << 20

// Compiler submits a unit and returns its interpreted result.
// Compilation errors are reported in the Result, not as an error.
type Compiler interface {
	Compile(ctx context.Context, unit Unit) (*Result, error)
}

// ClientOptions configures an HTTP compiler client.
type ClientOptions struct {
	// Endpoint is the service URL. Defaults to DefaultEndpoint.
	Endpoint string

	// Root is the directory unit paths are relative to.
	Root string

	// Timeout bounds each request. Defaults to DefaultTimeout.
	Timeout time.Duration

	// Retries is the number of retries after a transient failure.
	// Negative disables retries; zero means DefaultRetries.
	Retries int

	// RetryInterval is the initial wait before a retry.
	RetryInterval time.Duration

	// HTTPClient overrides the HTTP client. Its Timeout is left untouched.
	HTTPClient *http.Client
}

// Client talks to the remote compilation service over HTTP.
type Client struct {
	endpoint      string
	root          string
	http          *http.Client
	retries       uint64
	retryInterval time.Duration
}

// NewClient creates a client with defaults applied.
func NewClient(opts ClientOptions) *Client {
	c := &Client{
		endpoint:      opts.Endpoint,
		root:          opts.Root,
		http:          opts.HTTPClient,
		retryInterval: opts.RetryInterval,
	}
	if c.endpoint == "" {
		c.endpoint = DefaultEndpoint
	}
	if c.http == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		c.http = &http.Client{Timeout: timeout}
	}
	switch {
	case opts.Retries < 0:
		c.retries = 0
	case opts.Retries == 0:
		c.retries = DefaultRetries
	default:
		c.retries = uint64(opts.Retries)
	}
	if c.retryInterval <= 0 {
		c.retryInterval = DefaultRetryInterval
	}
	return c
}

// Endpoint returns the service URL.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Compile submits the unit in a single request and parses the response.
// Transient failures are retried before a NetworkError is returned.
func (c *Client) Compile(ctx context.Context, unit Unit) (*Result, error) {
	payload, err := EncodeRequest(c.root, unit)
	if err != nil {
		return nil, err
	}
	body := payload.Form.Encode()

	output.Debug("submitting compilation unit",
		"unit", unit.Name,
		"endpoint", c.endpoint,
		"files", len(payload.Submitted),
		"level", unit.Options.Level,
		"bytes", len(body),
	)

	var data []byte
	op := func() error {
		var opErr error
		data, opErr = c.post(ctx, body)
		return opErr
	}

	bf := backoff.NewExponentialBackOff()
	bf.InitialInterval = c.retryInterval
	policy := backoff.WithContext(backoff.WithMaxRetries(bf, c.retries), ctx)

	notify := func(err error, wait time.Duration) {
		output.Warn("compile request failed, retrying", "unit", unit.Name, "error", err, "wait", wait)
	}

	if err := backoff.RetryNotify(op, policy, notify); err != nil {
		var netErr *NetworkError
		if !errors.As(err, &netErr) {
			err = &NetworkError{Endpoint: c.endpoint, Cause: err}
		}
		return nil, err
	}

	result, err := ParseResponse(unit.Name, data, payload.Submitted)
	if err != nil {
		return nil, err
	}

	if result.Statistics != nil {
		output.Debug("compilation statistics",
			"unit", unit.Name,
			"original", result.Statistics.OriginalSize,
			"compressed", result.Statistics.CompressedSize,
			"gzip", result.Statistics.CompressedGzipSize,
		)
	}
	return result, nil
}

// post sends one request. Errors worth retrying are returned as is; all
// others are wrapped with backoff.Permanent.
func (c *Client) post(ctx context.Context, body string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(body))
	if err != nil {
		return nil, backoff.Permanent(&NetworkError{Endpoint: c.endpoint, Cause: err})
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, backoff.Permanent(&NetworkError{Endpoint: c.endpoint, Cause: ctx.Err()})
		}
		return nil, &NetworkError{Endpoint: c.endpoint, Cause: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &NetworkError{Endpoint: c.endpoint, Cause: fmt.Errorf("reading response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		netErr := &NetworkError{Endpoint: c.endpoint, StatusCode: resp.StatusCode}
		if transient(resp.StatusCode) {
			return nil, netErr
		}
		return nil, backoff.Permanent(netErr)
	}
	return data, nil
}

func transient(status int) bool {
	return status == http.StatusTooManyRequests || status >= 500
}
