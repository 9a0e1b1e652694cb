// Package cache purges edge-cached exercise responses after writes.
package cache

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Invalidator purges cached representations of one exercise.
type Invalidator interface {
	Invalidate(ctx context.Context, exerciseID string) error
}

// NoopInvalidator is used when no cache sits in front of the service.
type NoopInvalidator struct{}

// Invalidate does nothing.
func (NoopInvalidator) Invalidate(context.Context, string) error { return nil }

// HTTPInvalidator posts exercise ids to an edge cache purge endpoint.
type HTTPInvalidator struct {
	client *http.Client
	url    string
	token  string
}

// NewHTTPInvalidator constructs an HTTPInvalidator.
func NewHTTPInvalidator(endpoint, token string, timeout time.Duration) *HTTPInvalidator {
	return &HTTPInvalidator{
		client: &http.Client{Timeout: timeout},
		url:    strings.TrimRight(endpoint, "/"),
		token:  token,
	}
}

// Invalidate sends the exercise id along with the paths that embed it.
func (h *HTTPInvalidator) Invalidate(ctx context.Context, exerciseID string) error {
	body := strings.Join([]string{
		"/v1/exercises/" + exerciseID,
		"/v1/exercises",
		"/v1/exercises/total-calories",
	}, "\n")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.url, strings.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "text/plain")
	req.Header.Set("X-Exercise-Id", exerciseID)
	if h.token != "" {
		req.Header.Set("Authorization", "Bearer "+h.token)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return fmt.Errorf("cache invalidation: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 400 {
		return &InvalidationError{Status: resp.StatusCode}
	}
	return nil
}

// InvalidationError is a non-successful purge response.
type InvalidationError struct {
	Status int
}

func (e *InvalidationError) Error() string {
	return fmt.Sprintf("cache invalidation failed with status %d %s", e.Status, http.StatusText(e.Status))
}
