package routing

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetryAfter(t *testing.T) {
	assert.Equal(t, 2*time.Second, retryAfter("2"))
	assert.Zero(t, retryAfter(""))
	assert.Zero(t, retryAfter("-1"))
	assert.Zero(t, retryAfter("Wed, 21 Oct 2015 07:28:00 GMT"))
}

func TestRetryable(t *testing.T) {
	assert.True(t, retryable(&httpStatusError{Code: 429}))
	assert.True(t, retryable(&httpStatusError{Code: 503}))
	assert.False(t, retryable(&httpStatusError{Code: 400}))
	assert.False(t, retryable(context.Canceled))
	assert.False(t, retryable(errors.New("decode failed")))
}

func TestDoWithRetryHonoursRetryAfter(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := newHTTPClient("", time.Second)
	c.backoff = time.Millisecond

	start := time.Now()
	resp, err := c.doWithRetry(context.Background(), func() (*http.Request, error) {
		return c.newRequest(context.Background(), http.MethodGet, srv.URL, nil)
	})
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, int32(2), calls.Load())
	assert.GreaterOrEqual(t, time.Since(start), time.Second)
}

func TestDoWithRetryStopsOnClientError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "bad coordinates", http.StatusBadRequest)
	}))
	defer srv.Close()

	c := newHTTPClient("", time.Second)
	_, err := c.doWithRetry(context.Background(), func() (*http.Request, error) {
		return c.newRequest(context.Background(), http.MethodGet, srv.URL, nil)
	})

	var he *httpStatusError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusBadRequest, he.Code)
	assert.Equal(t, "bad coordinates", he.Body)
	assert.Equal(t, int32(1), calls.Load())
}
