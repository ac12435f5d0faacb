package services

import (
	"context"
	"fmt"

	"github.com/twa-market/marketplace-go-app/internal/catalog"
	"github.com/twa-market/marketplace-go-app/internal/metrics"
	"github.com/twa-market/marketplace-go-app/internal/models"
	"github.com/twa-market/marketplace-go-app/internal/store"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// CatalogService serves filtered product listings and manages the favorites
// set. The filter pipeline itself stays pure; this layer feeds it the
// catalog and favorites snapshots.
type CatalogService struct {
	products  store.ProductRepository
	favorites store.FavoritesRepository
	metrics   *metrics.AppMetrics
}

// NewCatalogService creates a new catalog service
func NewCatalogService(products store.ProductRepository, favorites store.FavoritesRepository, m *metrics.AppMetrics) *CatalogService {
	return &CatalogService{
		products:  products,
		favorites: favorites,
		metrics:   m,
	}
}

// Search runs the filter/sort pipeline over the current catalog
func (s *CatalogService) Search(ctx context.Context, q catalog.Query) ([]models.Product, error) {
	products, err := s.products.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	favoriteIDs, err := s.favorites.ListFavorites(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load favorites: %w", err)
	}
	favoriteSet := make(map[string]bool, len(favoriteIDs))
	for _, id := range favoriteIDs {
		favoriteSet[id] = true
	}

	attrs := []attribute.KeyValue{
		attribute.String("category", q.Category),
		attribute.String("sort", string(q.Sort)),
		attribute.Bool("favorites_only", q.FavoritesOnly),
	}
	s.metrics.CatalogSearches.Add(ctx, 1, metric.WithAttributes(s.metrics.WithServiceName(attrs)...))

	return catalog.Apply(products, q, favoriteSet), nil
}

// GetProduct returns one product and records the view
func (s *CatalogService) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	p, err := s.products.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	attrs := []attribute.KeyValue{
		attribute.String("product_id", p.ID),
		attribute.String("product_category", p.Category),
	}
	s.metrics.ProductsViewed.Add(ctx, 1, metric.WithAttributes(s.metrics.WithServiceName(attrs)...))
	return p, nil
}

// ListFavorites returns the favorited product ids
func (s *CatalogService) ListFavorites(ctx context.Context) ([]string, error) {
	return s.favorites.ListFavorites(ctx)
}

// AddFavorite adds a product to the favorites set after checking it exists
func (s *CatalogService) AddFavorite(ctx context.Context, productID string) error {
	if _, err := s.products.GetProduct(ctx, productID); err != nil {
		return err
	}
	if err := s.favorites.AddFavorite(ctx, productID); err != nil {
		return fmt.Errorf("failed to add favorite: %w", err)
	}
	s.recordFavoritesCount(ctx)
	return nil
}

// RemoveFavorite removes a product from the favorites set
func (s *CatalogService) RemoveFavorite(ctx context.Context, productID string) error {
	if err := s.favorites.RemoveFavorite(ctx, productID); err != nil {
		return fmt.Errorf("failed to remove favorite: %w", err)
	}
	s.recordFavoritesCount(ctx)
	return nil
}

func (s *CatalogService) recordFavoritesCount(ctx context.Context) {
	ids, err := s.favorites.ListFavorites(ctx)
	if err != nil {
		return
	}
	s.metrics.FavoritesCount.Record(ctx, int64(len(ids)),
		metric.WithAttributes(s.metrics.WithServiceName(nil)...))
}
