package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twa-market/marketplace-go-app/internal/models"
	"github.com/twa-market/marketplace-go-app/internal/store"
)

func ids(products []models.Product) []string {
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.ID
	}
	return out
}

func TestApplySearchMatchesTitleOrDescription(t *testing.T) {
	products := store.SeedProducts()

	byTitle := Apply(products, Query{Search: "lip gloss"}, nil)
	require.Len(t, byTitle, 1)
	assert.Equal(t, "3", byTitle[0].ID)

	// "denim" only appears in the jeans description
	byDescription := Apply(products, Query{Search: "DENIM"}, nil)
	require.Len(t, byDescription, 1)
	assert.Equal(t, "7", byDescription[0].ID)
}

func TestApplyCategoryFilter(t *testing.T) {
	products := store.SeedProducts()

	beauty := Apply(products, Query{Category: "beauty"}, nil)
	assert.Equal(t, []string{"2", "3", "4", "5"}, ids(beauty))

	all := Apply(products, Query{Category: CategoryAll}, nil)
	assert.Len(t, all, len(products))
}

func TestApplyFavoritesOnly(t *testing.T) {
	products := store.SeedProducts()
	favorites := map[string]bool{"2": true, "9": true}

	got := Apply(products, Query{FavoritesOnly: true, Sort: SortPriceLow}, favorites)
	assert.Equal(t, []string{"2", "9"}, ids(got))

	none := Apply(products, Query{FavoritesOnly: true}, nil)
	assert.Empty(t, none)
}

// The legacy {0,0} range means "unbounded", not "price must equal zero": the
// 450-priced product must appear under the default filter state.
func TestZeroRangeSentinelIsUnbounded(t *testing.T) {
	products := store.SeedProducts()

	got := Apply(products, Query{Price: NormalizeLegacyRange(0, 0)}, nil)
	assert.Len(t, got, len(products))
	assert.Contains(t, ids(got), "3")
}

func TestPriceRangeInclusiveBounds(t *testing.T) {
	products := store.SeedProducts()

	got := Apply(products, Query{Price: &PriceRange{Min: 450, Max: 890}, Sort: SortPriceLow}, nil)
	assert.Equal(t, []string{"3", "6", "8", "2"}, ids(got))

	// Max == 0 keeps the upper bound open
	open := Apply(products, Query{Price: &PriceRange{Min: 2500}}, nil)
	assert.ElementsMatch(t, []string{"1", "7", "9"}, ids(open))
}

func TestApplyIsIdempotent(t *testing.T) {
	products := store.SeedProducts()
	q := Query{Category: "beauty", Price: &PriceRange{Min: 500}, Sort: SortRating}

	once := Apply(products, q, nil)
	twice := Apply(once, q, nil)
	assert.Equal(t, once, twice)
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	products := store.SeedProducts()
	before := ids(products)

	Apply(products, Query{Sort: SortPriceHigh}, nil)
	assert.Equal(t, before, ids(products))
}

func TestPriceSortsAreReversed(t *testing.T) {
	products := store.SeedProducts()

	low := Apply(products, Query{Sort: SortPriceLow}, nil)
	high := Apply(products, Query{Sort: SortPriceHigh}, nil)
	require.Equal(t, len(low), len(high))

	// Reversal holds pointwise for prices; equal-price runs keep input order
	// under a stable sort, so compare prices rather than ids.
	n := len(low)
	for i := 0; i < n; i++ {
		assert.Equal(t, low[i].Price, high[n-1-i].Price)
	}
}

func TestNewestSortIsStableOnTies(t *testing.T) {
	day := store.SeedProducts()[0].CreatedAt
	products := []models.Product{
		{ID: "a", Price: 10, CreatedAt: day},
		{ID: "b", Price: 20, CreatedAt: day},
		{ID: "c", Price: 30, CreatedAt: day.AddDate(0, 0, 1)},
	}

	got := Apply(products, Query{Sort: SortNewest}, nil)
	assert.Equal(t, []string{"c", "a", "b"}, ids(got))
}

func TestRatingSortsDescending(t *testing.T) {
	products := store.SeedProducts()

	got := Apply(products, Query{Sort: SortRating}, nil)
	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i-1].Rating, got[i].Rating)
	}
	assert.Equal(t, "9", got[0].ID)
}

func TestNormalizeLegacyRange(t *testing.T) {
	assert.Nil(t, NormalizeLegacyRange(0, 0))
	require.NotNil(t, NormalizeLegacyRange(100, 0))
	assert.Equal(t, &PriceRange{Min: 0, Max: 500}, NormalizeLegacyRange(0, 500))
}
