package repository

import (
	"context"

	"flatmatex/internal/domain/entity"
)

type ListingSort string

const (
	SortNewest    ListingSort = "newest"
	SortOldest    ListingSort = "oldest"
	SortPriceLow  ListingSort = "price-low"
	SortPriceHigh ListingSort = "price-high"
)

// ListingFilter is the normalized search expression produced by the query
// translator. Zero values mean "no constraint".
type ListingFilter struct {
	State       string   // case-insensitive substring
	City        string   // case-insensitive substring
	Location    string   // case-insensitive substring
	MinPrice    *float64 // inclusive lower bound
	MaxPrice    *float64 // inclusive upper bound
	Furnishing  string   // exact match
	Gender      string   // exact match
	Preferences []string // OR across tags, each a case-insensitive substring
}

type ListingRepository interface {
	Create(ctx context.Context, listing *entity.Listing) error
	GetByID(ctx context.Context, id string) (*entity.Listing, error)
	List(ctx context.Context, filter ListingFilter, sort ListingSort, limit, offset int) ([]*entity.Listing, int64, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*entity.Listing, error)
	Update(ctx context.Context, listing *entity.Listing) error
	DeleteOwned(ctx context.Context, id, ownerID string) (bool, error)
}
