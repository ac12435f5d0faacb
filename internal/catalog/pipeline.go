// Package catalog implements the product filter/sort pipeline. Apply is a
// pure function: no I/O, deterministic for a given input slice and favorites
// snapshot.
package catalog

import (
	"sort"
	"strings"

	"github.com/twa-market/marketplace-go-app/internal/models"
)

// SortKey selects the ordering applied after filtering
type SortKey string

const (
	SortNewest    SortKey = "newest"
	SortPriceLow  SortKey = "price-low"
	SortPriceHigh SortKey = "price-high"
	SortRating    SortKey = "rating"
)

// Valid reports whether k is a known sort key
func (k SortKey) Valid() bool {
	switch k {
	case SortNewest, SortPriceLow, SortPriceHigh, SortRating:
		return true
	}
	return false
}

// CategoryAll bypasses category filtering
const CategoryAll = "all"

// PriceRange is an inclusive price constraint. Max == 0 means no upper bound.
type PriceRange struct {
	Min float64
	Max float64
}

// Query parameterizes one pipeline run. A nil Price means no price
// constraint; an empty Category behaves like CategoryAll.
type Query struct {
	Search        string
	Category      string
	Price         *PriceRange
	FavoritesOnly bool
	Sort          SortKey
}

// Apply filters products by q and the favorites id set, then sorts. The
// input slice is not modified. Ties keep the input order (stable sort).
func Apply(products []models.Product, q Query, favorites map[string]bool) []models.Product {
	search := strings.ToLower(q.Search)

	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if search != "" &&
			!strings.Contains(strings.ToLower(p.Title), search) &&
			!strings.Contains(strings.ToLower(p.Description), search) {
			continue
		}
		if q.Category != "" && q.Category != CategoryAll && p.Category != q.Category {
			continue
		}
		if q.FavoritesOnly && !favorites[p.ID] {
			continue
		}
		if q.Price != nil {
			if p.Price < q.Price.Min {
				continue
			}
			if q.Price.Max > 0 && p.Price > q.Price.Max {
				continue
			}
		}
		out = append(out, p)
	}

	switch q.Sort {
	case SortPriceLow:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	case SortPriceHigh:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price > out[j].Price })
	case SortRating:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Rating > out[j].Rating })
	case SortNewest:
		fallthrough
	default:
		sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	}

	return out
}

// NormalizeLegacyRange maps the legacy {0,0} wire sentinel to "no
// constraint". Legacy clients send min=0,max=0 to mean unfiltered.
func NormalizeLegacyRange(min, max float64) *PriceRange {
	if min == 0 && max == 0 {
		return nil
	}
	return &PriceRange{Min: min, Max: max}
}
