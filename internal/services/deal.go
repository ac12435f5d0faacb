package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/twa-market/marketplace-go-app/internal/deal"
	"github.com/twa-market/marketplace-go-app/internal/events"
	"github.com/twa-market/marketplace-go-app/internal/metrics"
	"github.com/twa-market/marketplace-go-app/internal/mirror"
	"github.com/twa-market/marketplace-go-app/internal/models"
	"github.com/twa-market/marketplace-go-app/internal/notify"
	"github.com/twa-market/marketplace-go-app/internal/store"
)

const mirrorTimeout = 10 * time.Second

// DealService handles deal lifecycle operations. Transitions are applied to
// the local repository first (the repository is the source of truth), then
// broadcast on the bus, mirrored remotely best-effort and reported to the
// buyer notifier.
type DealService struct {
	repo     store.DealRepository
	bus      *events.Bus
	remote   mirror.Remote
	notifier notify.Notifier
	metrics  *metrics.AppMetrics
}

// NewDealService creates a new deal service
func NewDealService(repo store.DealRepository, bus *events.Bus, remote mirror.Remote, notifier notify.Notifier, m *metrics.AppMetrics) *DealService {
	return &DealService{
		repo:     repo,
		bus:      bus,
		remote:   remote,
		notifier: notifier,
		metrics:  m,
	}
}

// ListDeals returns all deals, optionally filtered to one status
func (s *DealService) ListDeals(ctx context.Context, status *models.DealStatus) ([]models.Deal, error) {
	deals, err := s.repo.ListDeals(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list deals: %w", err)
	}
	if status == nil {
		return deals, nil
	}
	filtered := make([]models.Deal, 0, len(deals))
	for _, d := range deals {
		if d.Status == *status {
			filtered = append(filtered, d)
		}
	}
	return filtered, nil
}

// GetDeal returns the deal with the given id
func (s *DealService) GetDeal(ctx context.Context, id string) (*models.Deal, error) {
	return s.repo.GetDeal(ctx, id)
}

// Cancel performs a buyer-initiated cancellation. It is legal only while the
// deal is pending or confirmed; a missing reason defaults to
// deal.DefaultCancelReason.
func (s *DealService) Cancel(ctx context.Context, dealID, reason string) (*models.Deal, error) {
	d, err := s.repo.GetDeal(ctx, dealID)
	if err != nil {
		return nil, err
	}

	if !deal.CanCancel(d.Status) {
		return nil, fmt.Errorf("%w: cannot cancel a %s deal", deal.ErrInvalidTransition, d.Status)
	}
	if reason == "" {
		reason = deal.DefaultCancelReason
	}

	return s.applyTransition(ctx, d, models.StatusCancelled, reason)
}

// Advance performs an admin-triggered status change. Allowed moves are the
// forward chain plus cancellation from any non-terminal state.
func (s *DealService) Advance(ctx context.Context, dealID string, next models.DealStatus, reason string) (*models.Deal, error) {
	d, err := s.repo.GetDeal(ctx, dealID)
	if err != nil {
		return nil, err
	}

	if err := deal.Transition(d.Status, next); err != nil {
		return nil, err
	}
	if next == models.StatusCancelled && reason == "" {
		reason = deal.DefaultCancelReason
	}

	return s.applyTransition(ctx, d, next, reason)
}

// applyTransition commits the status change locally, then fans out the side
// effects. The mirror write runs detached: its failure is logged and the
// local transition stands.
func (s *DealService) applyTransition(ctx context.Context, d *models.Deal, next models.DealStatus, reason string) (*models.Deal, error) {
	prev := d.Status
	d.Status = next
	d.UpdatedAt = time.Now()
	if next == models.StatusCancelled {
		d.CancelReason = reason
	}

	if err := s.repo.UpdateDeal(ctx, d); err != nil {
		return nil, fmt.Errorf("failed to persist transition: %w", err)
	}

	log.Printf("[DEAL] Transition applied: deal_id=%s, %s -> %s", d.ID, prev, next)
	s.metrics.RecordTransition(ctx, string(prev), string(next))
	s.bus.Publish(events.DealUpdated{DealID: d.ID, Status: next})
	s.notifier.DealStatusChanged(d)

	go func(dealID string, status models.DealStatus, reason string) {
		mctx, cancel := context.WithTimeout(context.Background(), mirrorTimeout)
		defer cancel()
		if err := s.remote.MirrorTransition(mctx, dealID, status, reason); err != nil {
			log.Printf("[MIRROR] Remote write failed for deal %s: %v", dealID, err)
		}
	}(d.ID, next, reason)

	return d, nil
}
