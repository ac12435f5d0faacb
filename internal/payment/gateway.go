// Package payment provides the payment gateway abstraction: a stub gateway
// that fabricates pending payments for the demo deployment, and a
// YooKassa-style HTTP client for the real integration.
package payment

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/twa-market/marketplace-go-app/internal/models"
)

// Request is the normalized input to a gateway call. Validation happens in
// the service layer before the gateway is reached.
type Request struct {
	ProductID  string
	Quantity   int
	TotalPrice float64
	UserID     string
}

// Gateway creates payments with an external processor. Implementations must
// honor the idempotence key where the processor supports it.
type Gateway interface {
	CreatePayment(ctx context.Context, req Request, idempotenceKey string) (*models.Payment, error)
}

// FormatAmount renders a price the way the gateway wire format expects,
// always with two decimals
func FormatAmount(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

// StubGateway fabricates pending payment records without calling out. Each
// call yields a distinct payment id even for identical input; the
// idempotence key is accepted but not honored.
type StubGateway struct {
	BaseURL  string
	Currency string
	now      func() time.Time

	mu     sync.Mutex
	lastMS int64
}

// NewStubGateway creates a stub gateway issuing confirmation URLs under baseURL
func NewStubGateway(baseURL string) *StubGateway {
	return &StubGateway{BaseURL: baseURL, Currency: "RUB", now: time.Now}
}

// nextID returns payment_<unix-ms>, bumping the clock value when two calls
// land in the same millisecond so ids stay distinct
func (g *StubGateway) nextID(now time.Time) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	ms := now.UnixMilli()
	if ms <= g.lastMS {
		ms = g.lastMS + 1
	}
	g.lastMS = ms
	return fmt.Sprintf("payment_%d", ms)
}

// CreatePayment fabricates a pending payment record
func (g *StubGateway) CreatePayment(ctx context.Context, req Request, idempotenceKey string) (*models.Payment, error) {
	now := g.now()
	id := g.nextID(now)

	return &models.Payment{
		ID:     id,
		Status: "pending",
		Paid:   false,
		Amount: models.Amount{
			Value:    FormatAmount(req.TotalPrice),
			Currency: g.Currency,
		},
		Confirmation: models.Confirmation{
			Type:            "redirect",
			ConfirmationURL: fmt.Sprintf("%s/payment/process?payment_id=%s", g.BaseURL, id),
		},
		CreatedAt:   now,
		Description: fmt.Sprintf("Payment for product #%s", req.ProductID),
		Metadata: map[string]string{
			"productId": req.ProductID,
			"quantity":  fmt.Sprintf("%d", req.Quantity),
			"userId":    req.UserID,
		},
	}, nil
}
