package http

import (
	"context"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/scanflow/scanctl/internal/logger"
)

// NewRetryableClient returns a new pre-configured instance of retryablehttp.Client.
// Calls against the scan service are not idempotent (folder creation, uploads, scan jobs), so the
// client never retries and hands any failure straight back to the caller.
func NewRetryableClient(timeout time.Duration) *retryablehttp.Client {
	return &retryablehttp.Client{
		HTTPClient: &http.Client{
			Timeout:   timeout,
			Transport: &http.Transport{Proxy: http.ProxyFromEnvironment},
		},
		RetryWaitMin: 1 * time.Second,
		RetryWaitMax: 30 * time.Second,
		RetryMax:     0,
		CheckRetry: func(ctx context.Context, resp *http.Response, err error) (bool, error) {
			return retryablehttp.DefaultRetryPolicy(ctx, resp, err)
		},
		Backoff:      retryablehttp.DefaultBackoff,
		ErrorHandler: retryablehttp.PassthroughErrorHandler,
		Logger:       &logger.Logger{},
	}
}
