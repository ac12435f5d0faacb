package services

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twa-market/marketplace-go-app/internal/deal"
	"github.com/twa-market/marketplace-go-app/internal/events"
	"github.com/twa-market/marketplace-go-app/internal/metrics"
	"github.com/twa-market/marketplace-go-app/internal/models"
	"github.com/twa-market/marketplace-go-app/internal/store"
)

type recordingMirror struct {
	mu    sync.Mutex
	calls chan string
	fail  bool
}

func newRecordingMirror() *recordingMirror {
	return &recordingMirror{calls: make(chan string, 16)}
}

func (m *recordingMirror) MirrorTransition(ctx context.Context, dealID string, status models.DealStatus, reason string) error {
	m.mu.Lock()
	fail := m.fail
	m.mu.Unlock()
	m.calls <- dealID
	if fail {
		return errors.New("remote unavailable")
	}
	return nil
}

type recordingNotifier struct {
	mu    sync.Mutex
	deals []models.Deal
}

func (n *recordingNotifier) DealStatusChanged(d *models.Deal) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.deals = append(n.deals, *d)
}

func newDealService(t *testing.T) (*DealService, *events.Bus, *recordingMirror, *recordingNotifier) {
	t.Helper()
	fs, err := store.OpenFileStore(filepath.Join(t.TempDir(), "deals.json"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = fs.Close() })

	bus := events.NewBus()
	m := newRecordingMirror()
	n := &recordingNotifier{}
	return NewDealService(fs, bus, m, n, metrics.NewNoop()), bus, m, n
}

func TestCancelPendingDealDefaultsReason(t *testing.T) {
	svc, _, _, _ := newDealService(t)

	d, err := svc.Cancel(context.Background(), "3", "")
	require.NoError(t, err)

	assert.Equal(t, models.StatusCancelled, d.Status)
	assert.NotEmpty(t, d.CancelReason)
	assert.Equal(t, deal.DefaultCancelReason, d.CancelReason)
}

func TestCancelKeepsExplicitReason(t *testing.T) {
	svc, _, _, _ := newDealService(t)

	d, err := svc.Cancel(context.Background(), "3", "changed my mind")
	require.NoError(t, err)
	assert.Equal(t, "changed my mind", d.CancelReason)
}

func TestCancelShippedDealIsRejected(t *testing.T) {
	svc, _, _, _ := newDealService(t)

	// Deal 1 is seeded as shipped; the buyer may no longer cancel it.
	_, err := svc.Cancel(context.Background(), "1", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, deal.ErrInvalidTransition)

	// The stored deal is untouched.
	got, err := svc.GetDeal(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusShipped, got.Status)
}

func TestCancelUnknownDeal(t *testing.T) {
	svc, _, _, _ := newDealService(t)

	_, err := svc.Cancel(context.Background(), "999", "")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestCancelRefreshesUpdatedAt(t *testing.T) {
	svc, _, _, _ := newDealService(t)

	before, err := svc.GetDeal(context.Background(), "3")
	require.NoError(t, err)

	d, err := svc.Cancel(context.Background(), "3", "")
	require.NoError(t, err)
	assert.True(t, d.UpdatedAt.After(before.UpdatedAt))
	assert.Equal(t, before.TotalPrice, d.TotalPrice)
}

func TestAdvanceFollowsForwardChain(t *testing.T) {
	svc, _, _, _ := newDealService(t)
	ctx := context.Background()

	for _, next := range []models.DealStatus{models.StatusConfirmed, models.StatusShipped, models.StatusDelivered} {
		d, err := svc.Advance(ctx, "3", next, "")
		require.NoError(t, err)
		assert.Equal(t, next, d.Status)
	}

	// Delivered is absorbing.
	_, err := svc.Advance(ctx, "3", models.StatusCancelled, "")
	assert.ErrorIs(t, err, deal.ErrInvalidTransition)
}

func TestAdvanceRejectsSkippedStates(t *testing.T) {
	svc, _, _, _ := newDealService(t)

	_, err := svc.Advance(context.Background(), "3", models.StatusDelivered, "")
	assert.ErrorIs(t, err, deal.ErrInvalidTransition)

	_, err = svc.Advance(context.Background(), "3", models.DealStatus("lost"), "")
	assert.ErrorIs(t, err, deal.ErrInvalidTransition)
}

func TestAdvanceCanCancelShippedDeal(t *testing.T) {
	svc, _, _, _ := newDealService(t)

	// Admin cancellation from shipped is allowed even though buyer cancel
	// is not.
	d, err := svc.Advance(context.Background(), "1", models.StatusCancelled, "package lost in transit")
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, d.Status)
	assert.Equal(t, "package lost in transit", d.CancelReason)
}

func TestTransitionPublishesEvent(t *testing.T) {
	svc, bus, _, _ := newDealService(t)

	ch, cancel := bus.Subscribe(4)
	defer cancel()

	_, err := svc.Cancel(context.Background(), "3", "")
	require.NoError(t, err)

	select {
	case e := <-ch:
		assert.Equal(t, "3", e.DealID)
		assert.Equal(t, models.StatusCancelled, e.Status)
	case <-time.After(time.Second):
		t.Fatal("expected a dealUpdated event")
	}
}

func TestTransitionNotifiesBuyer(t *testing.T) {
	svc, _, _, notifier := newDealService(t)

	_, err := svc.Advance(context.Background(), "3", models.StatusConfirmed, "")
	require.NoError(t, err)

	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	require.Len(t, notifier.deals, 1)
	assert.Equal(t, models.StatusConfirmed, notifier.deals[0].Status)
}

func TestMirrorFailureDoesNotBlockTransition(t *testing.T) {
	svc, _, remote, _ := newDealService(t)
	remote.mu.Lock()
	remote.fail = true
	remote.mu.Unlock()

	d, err := svc.Cancel(context.Background(), "3", "")
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, d.Status)

	select {
	case id := <-remote.calls:
		assert.Equal(t, "3", id)
	case <-time.After(time.Second):
		t.Fatal("expected a mirror attempt")
	}

	// Local state survives the remote failure.
	got, err := svc.GetDeal(context.Background(), "3")
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, got.Status)
}

func TestListDealsStatusFilter(t *testing.T) {
	svc, _, _, _ := newDealService(t)

	pending := models.StatusPending
	deals, err := svc.ListDeals(context.Background(), &pending)
	require.NoError(t, err)
	require.Len(t, deals, 1)
	assert.Equal(t, "3", deals[0].ID)

	all, err := svc.ListDeals(context.Background(), nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}
