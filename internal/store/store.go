// Package store defines the persistence interfaces for deals, products and
// favorites, with file-backed and MySQL-backed implementations.
package store

import (
	"context"
	"errors"

	"github.com/twa-market/marketplace-go-app/internal/models"
)

// ErrNotFound is returned when a requested record does not exist
var ErrNotFound = errors.New("not found")

// DealRepository is the source of truth for deal records. Deals are created
// once and mutated only through status updates; there is no delete.
type DealRepository interface {
	ListDeals(ctx context.Context) ([]models.Deal, error)
	GetDeal(ctx context.Context, id string) (*models.Deal, error)
	CreateDeal(ctx context.Context, d *models.Deal) error
	UpdateDeal(ctx context.Context, d *models.Deal) error
}

// ProductRepository provides read access to the catalog
type ProductRepository interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
	GetProduct(ctx context.Context, id string) (*models.Product, error)
}

// FavoritesRepository holds the set of favorited product ids. The set is
// global per installation, keyed only by product id.
type FavoritesRepository interface {
	ListFavorites(ctx context.Context) ([]string, error)
	AddFavorite(ctx context.Context, productID string) error
	RemoveFavorite(ctx context.Context, productID string) error
}
