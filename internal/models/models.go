package models

import "time"

// DealStatus is the closed set of deal lifecycle states
type DealStatus string

const (
	StatusPending   DealStatus = "pending"
	StatusConfirmed DealStatus = "confirmed"
	StatusShipped   DealStatus = "shipped"
	StatusDelivered DealStatus = "delivered"
	StatusCancelled DealStatus = "cancelled"
)

// Valid reports whether s is a known deal status
func (s DealStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// PaymentMethod is the closed set of accepted payment methods
type PaymentMethod string

const (
	PaymentCard   PaymentMethod = "card"
	PaymentWallet PaymentMethod = "wallet"
	PaymentCrypto PaymentMethod = "crypto"
)

// Valid reports whether m is a known payment method
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCard, PaymentWallet, PaymentCrypto:
		return true
	}
	return false
}

// UserRole is the closed set of user roles
type UserRole string

const (
	RoleBuyer   UserRole = "buyer"
	RoleSeller  UserRole = "seller"
	RoleBlogger UserRole = "blogger"
	RoleManager UserRole = "manager"
)

// SellerSummary is the denormalized seller info embedded in a product
type SellerSummary struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Avatar   string `json:"avatar,omitempty"`
	Verified bool   `json:"verified"`
}

// Product represents a catalog item
type Product struct {
	ID            string        `json:"id"`
	Title         string        `json:"title"`
	Description   string        `json:"description"`
	Price         float64       `json:"price"`
	OriginalPrice float64       `json:"originalPrice,omitempty"`
	Category      string        `json:"category"`
	Subcategory   string        `json:"subcategory,omitempty"`
	Images        []string      `json:"images"`
	Rating        float64       `json:"rating"`
	ReviewsCount  int           `json:"reviewsCount"`
	Seller        SellerSummary `json:"seller"`
	InStock       bool          `json:"inStock"`
	Tags          []string      `json:"tags"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

// User represents a user account
type User struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone,omitempty"`
	Avatar     string    `json:"avatar,omitempty"`
	Bio        string    `json:"bio,omitempty"`
	Role       UserRole  `json:"role"`
	Verified   bool      `json:"verified"`
	TelegramID int64     `json:"telegramId,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Deal represents one buyer-seller transaction tracked through fulfillment.
// Product is a snapshot copy taken at creation, not a catalog reference, so
// later catalog edits never alter historical deals. TotalPrice is fixed at
// creation and never recomputed.
type Deal struct {
	ID                string        `json:"id"`
	Product           Product       `json:"product"`
	Buyer             User          `json:"buyer"`
	Seller            User          `json:"seller"`
	Status            DealStatus    `json:"status"`
	Quantity          int           `json:"quantity"`
	TotalPrice        float64       `json:"totalPrice"`
	PaymentMethod     PaymentMethod `json:"paymentMethod"`
	TrackingNumber    string        `json:"trackingNumber,omitempty"`
	CancelReason      string        `json:"cancelReason,omitempty"`
	CreatedAt         time.Time     `json:"createdAt"`
	UpdatedAt         time.Time     `json:"updatedAt"`
	EstimatedDelivery *time.Time    `json:"estimatedDelivery,omitempty"`
}

// Amount is a payment amount on the wire, value formatted with two decimals
type Amount struct {
	Value    string `json:"value"`
	Currency string `json:"currency"`
}

// Confirmation is the gateway redirect the client follows to pay
type Confirmation struct {
	Type            string `json:"type"`
	ConfirmationURL string `json:"confirmation_url"`
}

// Payment represents a gateway payment record
type Payment struct {
	ID           string            `json:"id"`
	Status       string            `json:"status"`
	Paid         bool              `json:"paid"`
	Amount       Amount            `json:"amount"`
	Confirmation Confirmation      `json:"confirmation"`
	CreatedAt    time.Time         `json:"created_at"`
	Description  string            `json:"description"`
	Metadata     map[string]string `json:"metadata"`
}

// CreatePaymentRequest is the body of POST /api/payment/create
type CreatePaymentRequest struct {
	ProductID     string        `json:"productId"`
	Quantity      int           `json:"quantity"`
	TotalPrice    float64       `json:"totalPrice"`
	UserID        string        `json:"userId"`
	PaymentMethod PaymentMethod `json:"paymentMethod,omitempty"`
}

// CreatePaymentResponse is the body returned by POST /api/payment/create
type CreatePaymentResponse struct {
	Success bool     `json:"success"`
	Payment *Payment `json:"payment"`
}

// CancelDealRequest is the body of POST /api/deals/cancel
type CancelDealRequest struct {
	DealID string `json:"dealId"`
	Reason string `json:"reason,omitempty"`
}

// CancelDealResponse is the body returned by POST /api/deals/cancel
type CancelDealResponse struct {
	Success bool   `json:"success"`
	Deal    *Deal  `json:"deal"`
	Message string `json:"message"`
}

// AdvanceDealRequest is the body of PUT /api/deals/{id}/status
type AdvanceDealRequest struct {
	Status DealStatus `json:"status"`
	Reason string     `json:"reason,omitempty"`
}
