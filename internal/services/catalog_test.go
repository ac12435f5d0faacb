package services

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twa-market/marketplace-go-app/internal/catalog"
	"github.com/twa-market/marketplace-go-app/internal/metrics"
	"github.com/twa-market/marketplace-go-app/internal/store"
)

func newCatalogService(t *testing.T) *CatalogService {
	t.Helper()
	fs, err := store.OpenFileStore(filepath.Join(t.TempDir(), "catalog.json"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = fs.Close() })
	return NewCatalogService(fs, fs, metrics.NewNoop())
}

func TestSearchDefaultQueryReturnsWholeCatalog(t *testing.T) {
	svc := newCatalogService(t)

	products, err := svc.Search(context.Background(), catalog.Query{})
	require.NoError(t, err)
	assert.Len(t, products, 10)

	// The 450-priced product passes the default (unconstrained) filter.
	var found bool
	for _, p := range products {
		if p.ID == "3" {
			found = true
			assert.Equal(t, 450.0, p.Price)
		}
	}
	assert.True(t, found)
}

func TestSearchFavoritesOnlyUsesStoredSet(t *testing.T) {
	svc := newCatalogService(t)
	ctx := context.Background()

	require.NoError(t, svc.AddFavorite(ctx, "2"))
	require.NoError(t, svc.AddFavorite(ctx, "7"))

	products, err := svc.Search(ctx, catalog.Query{FavoritesOnly: true})
	require.NoError(t, err)
	require.Len(t, products, 2)
	for _, p := range products {
		assert.Contains(t, []string{"2", "7"}, p.ID)
	}
}

func TestAddFavoriteUnknownProduct(t *testing.T) {
	svc := newCatalogService(t)

	err := svc.AddFavorite(context.Background(), "does-not-exist")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestRemoveFavorite(t *testing.T) {
	svc := newCatalogService(t)
	ctx := context.Background()

	require.NoError(t, svc.AddFavorite(ctx, "1"))
	require.NoError(t, svc.RemoveFavorite(ctx, "1"))

	ids, err := svc.ListFavorites(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestGetProduct(t *testing.T) {
	svc := newCatalogService(t)

	p, err := svc.GetProduct(context.Background(), "9")
	require.NoError(t, err)
	assert.Equal(t, "electronics", p.Category)

	_, err = svc.GetProduct(context.Background(), "404")
	assert.ErrorIs(t, err, store.ErrNotFound)
}
