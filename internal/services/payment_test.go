package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twa-market/marketplace-go-app/internal/metrics"
	"github.com/twa-market/marketplace-go-app/internal/models"
	"github.com/twa-market/marketplace-go-app/internal/payment"
)

func newPaymentService() *PaymentService {
	return NewPaymentService(payment.NewStubGateway("http://localhost:8080"), metrics.NewNoop())
}

func TestCreatePayment(t *testing.T) {
	svc := newPaymentService()

	p, err := svc.Create(context.Background(), models.CreatePaymentRequest{
		ProductID:  "1",
		Quantity:   1,
		TotalPrice: 2500,
		UserID:     "user_123",
	})
	require.NoError(t, err)

	assert.Equal(t, "2500.00", p.Amount.Value)
	assert.Equal(t, "pending", p.Status)
	assert.False(t, p.Paid)
	assert.NotEmpty(t, p.Confirmation.ConfirmationURL)
}

func TestCreatePaymentValidation(t *testing.T) {
	svc := newPaymentService()
	valid := models.CreatePaymentRequest{ProductID: "1", Quantity: 1, TotalPrice: 2500, UserID: "user_123"}

	tests := []struct {
		name   string
		mutate func(*models.CreatePaymentRequest)
		field  string
	}{
		{"missing product", func(r *models.CreatePaymentRequest) { r.ProductID = "" }, "productId"},
		{"zero quantity", func(r *models.CreatePaymentRequest) { r.Quantity = 0 }, "quantity"},
		{"negative quantity", func(r *models.CreatePaymentRequest) { r.Quantity = -2 }, "quantity"},
		{"missing total", func(r *models.CreatePaymentRequest) { r.TotalPrice = 0 }, "totalPrice"},
		{"missing user", func(r *models.CreatePaymentRequest) { r.UserID = "" }, "userId"},
		{"bad method", func(r *models.CreatePaymentRequest) { r.PaymentMethod = "cash" }, "paymentMethod"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)

			_, err := svc.Create(context.Background(), req)
			require.Error(t, err)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestCreatePaymentDefaultsMethodToCard(t *testing.T) {
	svc := newPaymentService()

	_, err := svc.Create(context.Background(), models.CreatePaymentRequest{
		ProductID: "1", Quantity: 1, TotalPrice: 100, UserID: "u",
	})
	assert.NoError(t, err)
}

func TestRepeatedPaymentsGetDistinctIDs(t *testing.T) {
	svc := newPaymentService()
	req := models.CreatePaymentRequest{ProductID: "1", Quantity: 1, TotalPrice: 2500, UserID: "user_123"}

	first, err := svc.Create(context.Background(), req)
	require.NoError(t, err)
	second, err := svc.Create(context.Background(), req)
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
}
