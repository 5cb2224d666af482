package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flatmatex/internal/domain/entity"
	"flatmatex/internal/domain/repository"
)

func price(v float64) *float64 {
	return &v
}

func testListing(id string, p *float64, createdAt time.Time) *entity.Listing {
	return &entity.Listing{
		ID:        id,
		Price:     p,
		State:     "Karnataka",
		City:      "Bengaluru",
		CreatedAt: createdAt,
	}
}

func TestContainsFold(t *testing.T) {
	assert.True(t, containsFold("Karnataka", "karn"))
	assert.True(t, containsFold("Karnataka", "TAKA"))
	assert.True(t, containsFold("anything", ""))
	assert.False(t, containsFold("Karnataka", "kerala"))
	assert.False(t, containsFold("", "karn"))
}

func TestMatchesFilterSubstringAndPrice(t *testing.T) {
	l := &entity.Listing{
		State:    "Karnataka",
		City:     "Bengaluru",
		Location: "Indiranagar 100ft Road",
		Price:    price(15000),
	}

	assert.True(t, matchesFilter(l, repository.ListingFilter{State: "karn"}))
	assert.True(t, matchesFilter(l, repository.ListingFilter{State: "karn", MinPrice: price(10000)}))
	assert.True(t, matchesFilter(l, repository.ListingFilter{Location: "indiranagar"}))
	assert.False(t, matchesFilter(l, repository.ListingFilter{MaxPrice: price(5000)}))
	assert.False(t, matchesFilter(l, repository.ListingFilter{State: "kerala"}))

	// Bounds are inclusive.
	assert.True(t, matchesFilter(l, repository.ListingFilter{MinPrice: price(15000), MaxPrice: price(15000)}))
}

func TestMatchesFilterUnpricedListing(t *testing.T) {
	l := &entity.Listing{State: "Karnataka"}

	assert.True(t, matchesFilter(l, repository.ListingFilter{}))
	assert.False(t, matchesFilter(l, repository.ListingFilter{MinPrice: price(1)}))
	assert.False(t, matchesFilter(l, repository.ListingFilter{MaxPrice: price(50000)}))
}

func TestMatchesFilterExactFields(t *testing.T) {
	l := &entity.Listing{Furnishing: "Furnished", Gender: "Female"}

	assert.True(t, matchesFilter(l, repository.ListingFilter{Furnishing: "Furnished", Gender: "Female"}))
	assert.False(t, matchesFilter(l, repository.ListingFilter{Furnishing: "Semi-Furnished"}))
	assert.False(t, matchesFilter(l, repository.ListingFilter{Gender: "Male"}))
}

func TestMatchesFilterPreferences(t *testing.T) {
	l := &entity.Listing{Preferences: []string{"Non-smoker", "Vegetarian only"}}

	// OR semantics: one matching tag is enough.
	assert.True(t, matchesFilter(l, repository.ListingFilter{Preferences: []string{"pets", "vegetarian"}}))
	assert.False(t, matchesFilter(l, repository.ListingFilter{Preferences: []string{"pets"}}))
	assert.False(t, matchesFilter(&entity.Listing{}, repository.ListingFilter{Preferences: []string{"pets"}}))
}

func TestSortListingsPrice(t *testing.T) {
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	a := testListing("a", price(8000), base)
	b := testListing("b", price(5000), base.Add(time.Hour))
	c := testListing("c", price(5000), base.Add(2*time.Hour))
	d := testListing("d", nil, base.Add(3*time.Hour))

	listings := []*entity.Listing{a, b, c, d}
	sortListings(listings, repository.SortPriceLow)

	// Unpriced sorts as free; equal prices tie-break newest first.
	require.Len(t, listings, 4)
	assert.Equal(t, "d", listings[0].ID)
	assert.Equal(t, "c", listings[1].ID)
	assert.Equal(t, "b", listings[2].ID)
	assert.Equal(t, "a", listings[3].ID)

	sortListings(listings, repository.SortPriceHigh)
	assert.Equal(t, "a", listings[0].ID)
	assert.Equal(t, "c", listings[1].ID)
	assert.Equal(t, "b", listings[2].ID)
	assert.Equal(t, "d", listings[3].ID)
}

func TestSortListingsRecency(t *testing.T) {
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	old := testListing("old", nil, base)
	mid := testListing("mid", nil, base.Add(time.Hour))
	new_ := testListing("new", nil, base.Add(2*time.Hour))

	listings := []*entity.Listing{mid, old, new_}
	sortListings(listings, repository.SortNewest)
	assert.Equal(t, []string{"new", "mid", "old"}, []string{listings[0].ID, listings[1].ID, listings[2].ID})

	sortListings(listings, repository.SortOldest)
	assert.Equal(t, []string{"old", "mid", "new"}, []string{listings[0].ID, listings[1].ID, listings[2].ID})
}
