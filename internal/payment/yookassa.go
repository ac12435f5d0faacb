package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/twa-market/marketplace-go-app/internal/models"
)

const defaultYooKassaEndpoint = "https://api.yookassa.ru/v3/payments"

// YooKassaGateway creates real payments through the YooKassa API using Basic
// shop credentials and a per-request Idempotence-Key header.
type YooKassaGateway struct {
	ShopID    string
	SecretKey string
	ReturnURL string
	Endpoint  string
	Client    *http.Client
}

// NewYooKassaGateway creates a gateway client with a 10 second request timeout
func NewYooKassaGateway(shopID, secretKey, returnURL string) *YooKassaGateway {
	return &YooKassaGateway{
		ShopID:    shopID,
		SecretKey: secretKey,
		ReturnURL: returnURL,
		Endpoint:  defaultYooKassaEndpoint,
		Client:    &http.Client{Timeout: 10 * time.Second},
	}
}

type yooKassaRequest struct {
	Amount       models.Amount     `json:"amount"`
	Confirmation confirmationSpec  `json:"confirmation"`
	Description  string            `json:"description"`
	Metadata     map[string]string `json:"metadata"`
}

type confirmationSpec struct {
	Type      string `json:"type"`
	ReturnURL string `json:"return_url"`
}

// CreatePayment posts the payment to YooKassa and decodes the created record
func (g *YooKassaGateway) CreatePayment(ctx context.Context, req Request, idempotenceKey string) (*models.Payment, error) {
	body := yooKassaRequest{
		Amount: models.Amount{
			Value:    FormatAmount(req.TotalPrice),
			Currency: "RUB",
		},
		Confirmation: confirmationSpec{
			Type:      "redirect",
			ReturnURL: g.ReturnURL,
		},
		Description: fmt.Sprintf("Payment for product #%s", req.ProductID),
		Metadata: map[string]string{
			"productId": req.ProductID,
			"quantity":  fmt.Sprintf("%d", req.Quantity),
			"userId":    req.UserID,
		},
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode payment request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build payment request: %w", err)
	}
	httpReq.SetBasicAuth(g.ShopID, g.SecretKey)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Idempotence-Key", idempotenceKey)

	resp, err := g.Client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("payment gateway request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("payment gateway returned %d: %s", resp.StatusCode, msg)
	}

	var payment models.Payment
	if err := json.NewDecoder(resp.Body).Decode(&payment); err != nil {
		return nil, fmt.Errorf("failed to decode gateway response: %w", err)
	}
	return &payment, nil
}
