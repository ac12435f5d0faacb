package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twa-market/marketplace-go-app/internal/models"
)

func openTempStore(t *testing.T) *FileStore {
	t.Helper()
	fs, err := OpenFileStore(filepath.Join(t.TempDir(), "marketplace.json"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = fs.Close() })
	return fs
}

func TestFileStoreSeedsOnFirstOpen(t *testing.T) {
	fs := openTempStore(t)
	ctx := context.Background()

	deals, err := fs.ListDeals(ctx)
	require.NoError(t, err)
	require.Len(t, deals, 3)

	statuses := map[string]models.DealStatus{}
	for _, d := range deals {
		statuses[d.ID] = d.Status
	}
	assert.Equal(t, models.StatusShipped, statuses["1"])
	assert.Equal(t, models.StatusDelivered, statuses["2"])
	assert.Equal(t, models.StatusPending, statuses["3"])

	products, err := fs.ListProducts(ctx)
	require.NoError(t, err)
	assert.Len(t, products, 10)

	favorites, err := fs.ListFavorites(ctx)
	require.NoError(t, err)
	assert.Empty(t, favorites)
}

func TestFileStorePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "marketplace.json")
	ctx := context.Background()

	fs, err := OpenFileStore(path)
	require.NoError(t, err)

	d, err := fs.GetDeal(ctx, "3")
	require.NoError(t, err)
	d.Status = models.StatusConfirmed
	require.NoError(t, fs.UpdateDeal(ctx, d))
	require.NoError(t, fs.AddFavorite(ctx, "2"))
	require.NoError(t, fs.Close())

	reopened, err := OpenFileStore(path)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.GetDeal(ctx, "3")
	require.NoError(t, err)
	assert.Equal(t, models.StatusConfirmed, got.Status)

	favorites, err := reopened.ListFavorites(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"2"}, favorites)
}

func TestFileStoreGetDealNotFound(t *testing.T) {
	fs := openTempStore(t)

	_, err := fs.GetDeal(context.Background(), "999")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFileStoreUpdateUnknownDeal(t *testing.T) {
	fs := openTempStore(t)

	err := fs.UpdateDeal(context.Background(), &models.Deal{ID: "999"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFavoritesSetSemantics(t *testing.T) {
	fs := openTempStore(t)
	ctx := context.Background()

	require.NoError(t, fs.AddFavorite(ctx, "1"))
	require.NoError(t, fs.AddFavorite(ctx, "1"))
	require.NoError(t, fs.AddFavorite(ctx, "3"))

	favorites, err := fs.ListFavorites(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "3"}, favorites)

	require.NoError(t, fs.RemoveFavorite(ctx, "1"))
	require.NoError(t, fs.RemoveFavorite(ctx, "missing"))

	favorites, err = fs.ListFavorites(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"3"}, favorites)
}
