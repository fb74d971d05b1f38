package routing

import (
	"context"
	"errors"
	"fmt"
	"goal-route-service/internal/ports"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// errNoRoute marks a well-formed provider answer that contains no usable route.
var errNoRoute = errors.New("no route in response")

type httpStatusError struct {
	Code int
	Body string
	// RetryAfter is the server's Retry-After hint, zero when absent.
	RetryAfter time.Duration
}

// maxRetryAfter bounds how long a Retry-After hint may stall a search.
const maxRetryAfter = 5 * time.Second

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("Code %d: %s", e.Code, e.Body)
}

// httpClient wraps an *http.Client with auth headers and retry/backoff.
// It is safe for concurrent use.
type httpClient struct {
	session    *http.Client
	apiKey     string
	maxAttempt int
	backoff    time.Duration
}

func newHTTPClient(apiKey string, timeout time.Duration) *httpClient {
	return &httpClient{
		session:    &http.Client{Timeout: timeout},
		apiKey:     apiKey,
		maxAttempt: 4,
		backoff:    200 * time.Millisecond,
	}
}

func (c *httpClient) newRequest(
	ctx context.Context,
	method string,
	url string,
	body io.Reader,
) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	if c.apiKey != "" {
		req.Header.Set("Authorization", c.apiKey)
	}
	req.Header.Set("Accept", "application/json, application/geo+json")

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return req, nil
}

func (c *httpClient) do(req *http.Request) (*http.Response, error) {
	resp, err := c.session.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		resp.Body.Close()
		return nil, &httpStatusError{
			Code:       resp.StatusCode,
			Body:       strings.TrimSpace(string(b)),
			RetryAfter: retryAfter(resp.Header.Get("Retry-After")),
		}
	}
	return resp, nil
}

// doWithRetry retries transient failures (network errors, 429 and 5xx responses)
// using exponential backoff while respecting context cancellation.
func (c *httpClient) doWithRetry(
	ctx context.Context,
	makeReq func() (*http.Request, error),
) (*http.Response, error) {
	backoff := c.backoff

	var lastErr error

	for attempt := 1; attempt <= c.maxAttempt; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		req, err := makeReq()
		if err != nil {
			return nil, fmt.Errorf("make request: %w", err)
		}

		resp, err := c.do(req)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		if !retryable(err) || attempt == c.maxAttempt {
			return nil, lastErr
		}

		wait := backoff
		var he *httpStatusError
		if errors.As(err, &he) && he.RetryAfter > wait {
			wait = min(he.RetryAfter, maxRetryAfter)
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}

		backoff *= 2
	}

	return nil, lastErr
}

// retryAfter parses a delay-seconds Retry-After value; HTTP dates are ignored.
func retryAfter(v string) time.Duration {
	secs, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

func retryable(err error) bool {
	var he *httpStatusError
	if errors.As(err, &he) {
		switch he.Code {
		case 429, 500, 502, 503, 504:
			return true
		}
		return false
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

// classify maps a fetch error onto the provider response variants.
// isNotFound recognises provider-specific "no route" HTTP errors.
func classify(err error, isNotFound func(*httpStatusError) bool) ports.RouteResponse {
	if errors.Is(err, errNoRoute) {
		return ports.NotFound(err.Error())
	}

	var he *httpStatusError
	if errors.As(err, &he) {
		switch {
		case he.Code == http.StatusTooManyRequests:
			return ports.RateLimited(he.Error())
		case isNotFound(he):
			return ports.NotFound(he.Error())
		}
	}

	return ports.Failed(err.Error())
}
