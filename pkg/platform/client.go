package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// HTTPClient wraps http.Client with JSON helpers and capped exponential
// backoff. Both the pricing oracle and the classifier clients build on it.
// Every call is bounded by the caller's context plus the per-attempt
// timeout, so a dead backend can never hold a request open indefinitely.
type HTTPClient struct {
	client  *http.Client
	retries uint64
	logger  *slog.Logger
}

func NewHTTPClient(retries int, timeout time.Duration) *HTTPClient {
	if retries < 0 {
		retries = 0
	}
	return &HTTPClient{
		client:  &http.Client{Timeout: timeout},
		retries: uint64(retries),
		logger:  slog.Default(),
	}
}

// PostJSON posts the request body and decodes the JSON response into out.
// Server errors (5xx) and transport errors are retried; client errors are
// returned immediately.
func (c *HTTPClient) PostJSON(ctx context.Context, url string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.client.Do(req)
		if err != nil {
			c.logger.Warn("http request failed, retrying", "url", url, "error", err)
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 500 {
			c.logger.Warn("http request failed, retrying", "url", url, "status", resp.StatusCode)
			return fmt.Errorf("server error: %s", resp.Status)
		}
		if resp.StatusCode >= 400 {
			return backoff.Permanent(fmt.Errorf("request rejected: %s", resp.Status))
		}

		if out == nil {
			io.Copy(io.Discard, resp.Body)
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return backoff.Permanent(fmt.Errorf("decode response: %w", err))
		}
		return nil
	}

	return backoff.Retry(operation, c.policy(ctx))
}

// GetJSON fetches the URL and decodes the JSON response into out, with the
// same retry semantics as PostJSON.
func (c *HTTPClient) GetJSON(ctx context.Context, url string, out any) error {
	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		resp, err := c.client.Do(req)
		if err != nil {
			c.logger.Warn("http request failed, retrying", "url", url, "error", err)
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 500 {
			return fmt.Errorf("server error: %s", resp.Status)
		}
		if resp.StatusCode >= 400 {
			return backoff.Permanent(fmt.Errorf("request rejected: %s", resp.Status))
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return backoff.Permanent(fmt.Errorf("decode response: %w", err))
		}
		return nil
	}
	return backoff.Retry(operation, c.policy(ctx))
}

func (c *HTTPClient) policy(ctx context.Context) backoff.BackOffContext {
	return backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(
			backoff.WithInitialInterval(200*time.Millisecond),
			backoff.WithMaxInterval(2*time.Second),
		), c.retries),
		ctx,
	)
}
