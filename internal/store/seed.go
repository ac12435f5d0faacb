package store

import (
	"time"

	"github.com/twa-market/marketplace-go-app/internal/models"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func datetime(y int, m time.Month, d, hh, mm int) time.Time {
	return time.Date(y, m, d, hh, mm, 0, 0, time.UTC)
}

// SeedProducts returns the demo catalog
func SeedProducts() []models.Product {
	return []models.Product{
		{
			ID: "1", Title: "Electric Grinder Set", Description: "Modern electric grinders for home and office",
			Price: 2500, OriginalPrice: 3000, Category: "home", Subcategory: "kitchen",
			Images: []string{"/api/placeholder/300/300"}, Rating: 4.5, ReviewsCount: 23,
			Seller:  models.SellerSummary{ID: "1", Name: "KitchenPro", Avatar: "/api/placeholder/40/40", Verified: true},
			InStock: true, Tags: []string{"new", "sale"},
			CreatedAt: date(2024, 1, 15), UpdatedAt: date(2024, 1, 15),
		},
		{
			ID: "2", Title: "Matte Lipstick Pencil 3-in-1 No.11", Description: "Long-lasting matte lipstick pencil",
			Price: 890, OriginalPrice: 1200, Category: "beauty", Subcategory: "makeup",
			Images: []string{"/api/placeholder/300/300"}, Rating: 4.8, ReviewsCount: 156,
			Seller:  models.SellerSummary{ID: "2", Name: "BeautyStore", Avatar: "/api/placeholder/40/40", Verified: true},
			InStock: true, Tags: []string{"new", "bestseller"},
			CreatedAt: date(2024, 1, 14), UpdatedAt: date(2024, 1, 14),
		},
		{
			ID: "3", Title: "Lip Gloss", Description: "Glossy lip gloss with long-wear finish",
			Price: 450, Category: "beauty", Subcategory: "makeup",
			Images: []string{"/api/placeholder/300/300"}, Rating: 4.2, ReviewsCount: 89,
			Seller:  models.SellerSummary{ID: "3", Name: "CosmeticShop", Avatar: "/api/placeholder/40/40", Verified: false},
			InStock: true, Tags: []string{"popular"},
			CreatedAt: date(2024, 1, 13), UpdatedAt: date(2024, 1, 13),
		},
		{
			ID: "4", Title: "Blush 2-in-1 Dry and Cream No.01", Description: "Dual-use blush, dry and cream in one",
			Price: 1200, Category: "beauty", Subcategory: "makeup",
			Images: []string{"/api/placeholder/300/300"}, Rating: 4.6, ReviewsCount: 67,
			Seller:  models.SellerSummary{ID: "4", Name: "BeautyPro", Avatar: "/api/placeholder/40/40", Verified: true},
			InStock: true, Tags: []string{"2in1", "quality"},
			CreatedAt: date(2024, 1, 12), UpdatedAt: date(2024, 1, 12),
		},
		{
			ID: "5", Title: "Blush 2-in-1 Dry and Cream No.04", Description: "Dual-use blush, dry and cream in one",
			Price: 1200, Category: "beauty", Subcategory: "makeup",
			Images: []string{"/api/placeholder/300/300"}, Rating: 4.4, ReviewsCount: 45,
			Seller:  models.SellerSummary{ID: "4", Name: "BeautyPro", Avatar: "/api/placeholder/40/40", Verified: true},
			InStock: true, Tags: []string{"2in1", "quality"},
			CreatedAt: date(2024, 1, 11), UpdatedAt: date(2024, 1, 11),
		},
		{
			ID: "6", Title: "Green House Plants", Description: "Indoor plants for interior decoration",
			Price: 800, Category: "home", Subcategory: "decor",
			Images: []string{"/api/placeholder/300/300"}, Rating: 4.7, ReviewsCount: 34,
			Seller:  models.SellerSummary{ID: "5", Name: "GreenHome", Avatar: "/api/placeholder/40/40", Verified: true},
			InStock: true, Tags: []string{"plants", "home"},
			CreatedAt: date(2024, 1, 10), UpdatedAt: date(2024, 1, 10),
		},
		{
			ID: "7", Title: "Classic Jeans", Description: "Comfortable jeans made of quality denim",
			Price: 2500, Category: "clothing", Subcategory: "pants",
			Images: []string{"/api/placeholder/300/300"}, Rating: 4.3, ReviewsCount: 78,
			Seller:  models.SellerSummary{ID: "6", Name: "FashionStore", Avatar: "/api/placeholder/40/40", Verified: true},
			InStock: true, Tags: []string{"jeans", "classic"},
			CreatedAt: date(2024, 1, 9), UpdatedAt: date(2024, 1, 9),
		},
		{
			ID: "8", Title: "White T-Shirt", Description: "Soft cotton t-shirt, basic cut",
			Price: 800, Category: "clothing", Subcategory: "shirts",
			Images: []string{"/api/placeholder/300/300"}, Rating: 4.5, ReviewsCount: 123,
			Seller:  models.SellerSummary{ID: "7", Name: "BasicWear", Avatar: "/api/placeholder/40/40", Verified: true},
			InStock: true, Tags: []string{"basic", "cotton"},
			CreatedAt: date(2024, 1, 8), UpdatedAt: date(2024, 1, 8),
		},
		{
			ID: "9", Title: "Smartphone iPhone 15", Description: "Latest smartphone with an excellent camera",
			Price: 89990, OriginalPrice: 99990, Category: "electronics", Subcategory: "phones",
			Images: []string{"/api/placeholder/300/300"}, Rating: 4.9, ReviewsCount: 234,
			Seller:  models.SellerSummary{ID: "8", Name: "TechStore", Avatar: "/api/placeholder/40/40", Verified: true},
			InStock: true, Tags: []string{"new", "sale", "premium"},
			CreatedAt: date(2024, 1, 7), UpdatedAt: date(2024, 1, 7),
		},
		{
			ID: "10", Title: "Programming Handbook", Description: "A textbook on modern programming",
			Price: 1200, Category: "other", Subcategory: "other",
			Images: []string{"/api/placeholder/300/300"}, Rating: 4.6, ReviewsCount: 45,
			Seller:  models.SellerSummary{ID: "9", Name: "BookStore", Avatar: "/api/placeholder/40/40", Verified: true},
			InStock: true, Tags: []string{"education", "tech"},
			CreatedAt: date(2024, 1, 6), UpdatedAt: date(2024, 1, 6),
		},
	}
}

// SeedDeals returns the demo deal history: deal 1 shipped, deal 2 delivered,
// deal 3 pending, all owned by the same demo buyer
func SeedDeals() []models.Deal {
	products := SeedProducts()
	byID := make(map[string]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	buyer := models.User{
		ID: "2", Name: "Ivan Petrov", Email: "ivan@example.com",
		Role: models.RoleBuyer, Verified: true, TelegramID: 100200300,
		CreatedAt: date(2024, 1, 1), UpdatedAt: date(2024, 1, 1),
	}
	seller := func(id, name, email string, verified bool) models.User {
		return models.User{
			ID: id, Name: name, Email: email, Role: models.RoleSeller, Verified: verified,
			CreatedAt: date(2024, 1, 1), UpdatedAt: date(2024, 1, 1),
		}
	}

	delivery := datetime(2024, 1, 20, 18, 0)

	return []models.Deal{
		{
			ID: "1", Product: byID["1"], Buyer: buyer,
			Seller: seller("1", "KitchenPro", "kitchen@example.com", true),
			Status: models.StatusShipped, Quantity: 1, TotalPrice: 2500,
			PaymentMethod: models.PaymentCard, TrackingNumber: "TRK123456789",
			CreatedAt: datetime(2024, 1, 15, 10, 0), UpdatedAt: datetime(2024, 1, 16, 14, 30),
			EstimatedDelivery: &delivery,
		},
		{
			ID: "2", Product: byID["2"], Buyer: buyer,
			Seller: seller("2", "BeautyStore", "beauty@example.com", true),
			Status: models.StatusDelivered, Quantity: 2, TotalPrice: 1780,
			PaymentMethod: models.PaymentWallet,
			CreatedAt:     datetime(2024, 1, 10, 15, 30), UpdatedAt: datetime(2024, 1, 12, 9, 15),
		},
		{
			ID: "3", Product: byID["3"], Buyer: buyer,
			Seller: seller("3", "CosmeticShop", "cosmetic@example.com", false),
			Status: models.StatusPending, Quantity: 1, TotalPrice: 450,
			PaymentMethod: models.PaymentCrypto,
			CreatedAt:     datetime(2024, 1, 16, 12, 0), UpdatedAt: datetime(2024, 1, 16, 12, 0),
		},
	}
}
