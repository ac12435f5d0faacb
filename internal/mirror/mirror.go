// Package mirror implements the best-effort remote write that accompanies
// every deal transition. The sync policy is local-authoritative: the store
// write is the transition, the mirror is fire-and-forget, and a mirror
// failure never rolls the local state back.
package mirror

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/twa-market/marketplace-go-app/internal/models"
)

// Remote mirrors deal transitions to an upstream system
type Remote interface {
	MirrorTransition(ctx context.Context, dealID string, status models.DealStatus, reason string) error
}

// Noop is the disabled mirror
type Noop struct{}

// MirrorTransition does nothing
func (Noop) MirrorTransition(ctx context.Context, dealID string, status models.DealStatus, reason string) error {
	return nil
}

// HTTP posts transitions as JSON to a configured endpoint
type HTTP struct {
	Endpoint string
	Client   *http.Client
}

// NewHTTP creates a mirror client with a 10 second request timeout
func NewHTTP(endpoint string) *HTTP {
	return &HTTP{
		Endpoint: endpoint,
		Client:   &http.Client{Timeout: 10 * time.Second},
	}
}

type transitionBody struct {
	DealID string            `json:"dealId"`
	Status models.DealStatus `json:"status"`
	Reason string            `json:"reason,omitempty"`
}

// MirrorTransition posts the transition upstream. Any non-2xx response is an
// error; the caller decides whether to log or propagate.
func (h *HTTP) MirrorTransition(ctx context.Context, dealID string, status models.DealStatus, reason string) error {
	payload, err := json.Marshal(transitionBody{DealID: dealID, Status: status, Reason: reason})
	if err != nil {
		return fmt.Errorf("failed to encode transition: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build mirror request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.Client.Do(req)
	if err != nil {
		return fmt.Errorf("mirror request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("mirror returned %d", resp.StatusCode)
	}
	return nil
}
