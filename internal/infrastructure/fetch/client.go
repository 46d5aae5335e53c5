// Package fetch retrieves raw product payloads from retailer search APIs.
package fetch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/basketlens/backend/internal/domain"
)

const (
	maxAttempts = 3

	// maxErrorBody bounds how much of a failed response is logged
	maxErrorBody = 512
)

// ClientConfig holds the settings shared by every retailer client
type ClientConfig struct {
	BaseURL           string
	PageSize          int
	MaxItems          int
	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int
}

// client posts JSON to a retailer API with rate limiting and retries
type client struct {
	httpClient  *http.Client
	baseURL     string
	rateLimiter *rate.Limiter
	backoff     func(attempt int) time.Duration
	logger      zerolog.Logger
}

func newClient(config ClientConfig, logger zerolog.Logger) *client {
	timeout := config.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	rps := config.RequestsPerSecond
	if rps <= 0 {
		rps = 2
	}
	burst := config.Burst
	if burst <= 0 {
		burst = 4
	}

	return &client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL:     config.BaseURL,
		rateLimiter: rate.NewLimiter(rate.Limit(rps), burst),
		backoff:     exponentialBackoff,
		logger:      logger,
	}
}

// exponentialBackoff returns 500ms, 1s, 2s for attempts 1, 2, 3
func exponentialBackoff(attempt int) time.Duration {
	return time.Duration(500*(1<<(attempt-1))) * time.Millisecond
}

// retryable reports whether a response status is worth another attempt
func retryable(status int) bool {
	return status == http.StatusTooManyRequests || status >= http.StatusInternalServerError
}

// postJSON sends payload and decodes a 200 response into out. Transport
// errors, 429 and 5xx are retried up to maxAttempts; other statuses fail at once.
func (c *client) postJSON(ctx context.Context, reqURL string, headers map[string]string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			if err := sleep(ctx, c.backoff(attempt-1)); err != nil {
				return fmt.Errorf("%w: %v", domain.ErrRetailerAPIFailure, err)
			}
		}

		if err := c.rateLimiter.Wait(ctx); err != nil {
			return fmt.Errorf("%w: rate limiter: %v", domain.ErrRetailerAPIFailure, err)
		}

		status, respBody, err := c.do(ctx, reqURL, headers, body)
		if err != nil {
			c.logger.Warn().Err(err).Int("attempt", attempt).Str("url", reqURL).Msg("request failed")
			lastErr = fmt.Errorf("%w: %v", domain.ErrRetailerAPIFailure, err)
			continue
		}

		if status != http.StatusOK {
			c.logger.Warn().
				Int("attempt", attempt).
				Int("status", status).
				Str("url", reqURL).
				Str("body", truncate(respBody, maxErrorBody)).
				Msg("unexpected status")
			lastErr = fmt.Errorf("%w: status %d", domain.ErrRetailerAPIFailure, status)
			if !retryable(status) {
				return lastErr
			}
			continue
		}

		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("%w: failed to decode response: %v", domain.ErrRetailerAPIFailure, err)
		}
		return nil
	}

	c.logger.Error().Err(lastErr).Str("url", reqURL).Msg("all retries failed")
	return lastErr
}

func (c *client) do(ctx context.Context, reqURL string, headers map[string]string, body []byte) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(body))
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "BasketLens/1.0")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to read response: %w", err)
	}
	return resp.StatusCode, respBody, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
