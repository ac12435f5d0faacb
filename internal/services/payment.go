package services

import (
	"context"
	"log"

	"github.com/google/uuid"
	"github.com/twa-market/marketplace-go-app/internal/metrics"
	"github.com/twa-market/marketplace-go-app/internal/models"
	"github.com/twa-market/marketplace-go-app/internal/payment"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// PaymentService validates checkout requests and shapes gateway responses.
// The gateway is injected so the stub can be swapped for the real processor
// without touching validation.
type PaymentService struct {
	gateway payment.Gateway
	metrics *metrics.AppMetrics
}

// NewPaymentService creates a new payment service
func NewPaymentService(gateway payment.Gateway, m *metrics.AppMetrics) *PaymentService {
	return &PaymentService{gateway: gateway, metrics: m}
}

// Create validates req and creates a payment through the gateway. A fresh
// idempotence key is generated per call; the stub gateway ignores it, so
// identical requests still produce distinct payments.
func (s *PaymentService) Create(ctx context.Context, req models.CreatePaymentRequest) (*models.Payment, error) {
	if req.ProductID == "" {
		return nil, &ValidationError{Field: "productId", Reason: "required"}
	}
	if req.Quantity <= 0 {
		return nil, &ValidationError{Field: "quantity", Reason: "must be a positive integer"}
	}
	if req.TotalPrice <= 0 {
		return nil, &ValidationError{Field: "totalPrice", Reason: "must be a positive amount"}
	}
	if req.UserID == "" {
		return nil, &ValidationError{Field: "userId", Reason: "required"}
	}
	if req.PaymentMethod == "" {
		req.PaymentMethod = models.PaymentCard
	}
	if !req.PaymentMethod.Valid() {
		return nil, &ValidationError{Field: "paymentMethod", Reason: "unknown payment method"}
	}

	p, err := s.gateway.CreatePayment(ctx, payment.Request{
		ProductID:  req.ProductID,
		Quantity:   req.Quantity,
		TotalPrice: req.TotalPrice,
		UserID:     req.UserID,
	}, uuid.NewString())
	if err != nil {
		return nil, err
	}

	log.Printf("[PAYMENT] Payment created: id=%s, amount=%s %s, product_id=%s",
		p.ID, p.Amount.Value, p.Amount.Currency, req.ProductID)

	attrs := []attribute.KeyValue{
		attribute.String("payment_method", string(req.PaymentMethod)),
		attribute.String("payment_status", p.Status),
	}
	s.metrics.PaymentsCreated.Add(ctx, 1, metric.WithAttributes(s.metrics.WithServiceName(attrs)...))
	s.metrics.RevenueTotal.Add(ctx, req.TotalPrice, metric.WithAttributes(s.metrics.WithServiceName(attrs)...))

	return p, nil
}
