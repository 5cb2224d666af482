package repository

import (
	"context"
	"sort"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"flatmatex/internal/domain/entity"
	"flatmatex/internal/domain/repository"
	"flatmatex/pkg/errors"
)

type firestoreListingRepository struct {
	client *firestore.Client
}

func NewFirestoreListingRepository(client *firestore.Client) repository.ListingRepository {
	return &firestoreListingRepository{
		client: client,
	}
}

func (r *firestoreListingRepository) Create(ctx context.Context, listing *entity.Listing) error {
	if listing.ID == "" {
		doc := r.client.Collection("listings").NewDoc()
		listing.ID = doc.ID
	}

	now := time.Now()
	if listing.CreatedAt.IsZero() {
		listing.CreatedAt = now
	}
	listing.UpdatedAt = now

	_, err := r.client.Collection("listings").Doc(listing.ID).Set(ctx, listing)
	if err != nil {
		return errors.Internal("Failed to create listing", err)
	}

	return nil
}

func (r *firestoreListingRepository) GetByID(ctx context.Context, id string) (*entity.Listing, error) {
	doc, err := r.client.Collection("listings").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Listing", err)
		}
		return nil, errors.Internal("Failed to get listing", err)
	}

	var listing entity.Listing
	if err := doc.DataTo(&listing); err != nil {
		return nil, errors.Internal("Failed to parse listing data", err)
	}

	return &listing, nil
}

// List runs the search over a single document fetch: Firestore has no
// substring matching, so the predicates are applied in memory, and the
// total count and the returned window observe the same snapshot. Counts
// across separate requests may still race with concurrent writes.
func (r *firestoreListingRepository) List(ctx context.Context, filter repository.ListingFilter, sortBy repository.ListingSort, limit, offset int) ([]*entity.Listing, int64, error) {
	docs, err := r.client.Collection("listings").Documents(ctx).GetAll()
	if err != nil {
		return nil, 0, errors.Internal("Failed to fetch listings", err)
	}

	var matched []*entity.Listing
	for _, doc := range docs {
		var listing entity.Listing
		if err := doc.DataTo(&listing); err != nil {
			continue // Skip malformed documents
		}
		if matchesFilter(&listing, filter) {
			matched = append(matched, &listing)
		}
	}

	sortListings(matched, sortBy)
	total := int64(len(matched))

	start := offset
	if start > len(matched) {
		start = len(matched)
	}
	end := len(matched)
	if limit > 0 && start+limit < end {
		end = start + limit
	}

	return matched[start:end], total, nil
}

func (r *firestoreListingRepository) ListByOwner(ctx context.Context, ownerID string) ([]*entity.Listing, error) {
	query := r.client.Collection("listings").
		Where("ownerId", "==", ownerID).
		OrderBy("createdAt", firestore.Desc)

	iter := query.Documents(ctx)
	var listings []*entity.Listing

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Internal("Failed to iterate owner listings", err)
		}

		var listing entity.Listing
		if err := doc.DataTo(&listing); err != nil {
			return nil, errors.Internal("Failed to parse listing data", err)
		}
		listings = append(listings, &listing)
	}

	return listings, nil
}

func (r *firestoreListingRepository) Update(ctx context.Context, listing *entity.Listing) error {
	listing.UpdatedAt = time.Now()

	_, err := r.client.Collection("listings").Doc(listing.ID).Set(ctx, listing)
	if err != nil {
		return errors.Internal("Failed to update listing", err)
	}

	return nil
}

// DeleteOwned deletes the listing only when ownerID matches. A missing
// record and a foreign record are indistinguishable to the caller.
func (r *firestoreListingRepository) DeleteOwned(ctx context.Context, id, ownerID string) (bool, error) {
	doc, err := r.client.Collection("listings").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return false, nil
		}
		return false, errors.Internal("Failed to get listing", err)
	}

	var listing entity.Listing
	if err := doc.DataTo(&listing); err != nil {
		return false, errors.Internal("Failed to parse listing data", err)
	}

	if listing.OwnerID != ownerID {
		return false, nil
	}

	if _, err := doc.Ref.Delete(ctx); err != nil {
		return false, errors.Internal("Failed to delete listing", err)
	}

	return true, nil
}

func matchesFilter(l *entity.Listing, f repository.ListingFilter) bool {
	if !containsFold(l.State, f.State) {
		return false
	}
	if !containsFold(l.City, f.City) {
		return false
	}
	if !containsFold(l.Location, f.Location) {
		return false
	}
	if f.MinPrice != nil && (l.Price == nil || *l.Price < *f.MinPrice) {
		return false
	}
	if f.MaxPrice != nil && (l.Price == nil || *l.Price > *f.MaxPrice) {
		return false
	}
	if f.Furnishing != "" && l.Furnishing != f.Furnishing {
		return false
	}
	if f.Gender != "" && l.Gender != f.Gender {
		return false
	}
	if len(f.Preferences) > 0 && !matchesAnyPreference(l.Preferences, f.Preferences) {
		return false
	}
	return true
}

// containsFold is a case-insensitive substring check; an empty needle
// always matches.
func containsFold(haystack, needle string) bool {
	if needle == "" {
		return true
	}
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func matchesAnyPreference(tags, wanted []string) bool {
	for _, w := range wanted {
		for _, tag := range tags {
			if containsFold(tag, w) {
				return true
			}
		}
	}
	return false
}

func sortListings(listings []*entity.Listing, sortBy repository.ListingSort) {
	sort.SliceStable(listings, func(i, j int) bool {
		a, b := listings[i], listings[j]
		switch sortBy {
		case repository.SortOldest:
			return a.CreatedAt.Before(b.CreatedAt)
		case repository.SortPriceLow:
			pa, pb := sortPrice(a), sortPrice(b)
			if pa != pb {
				return pa < pb
			}
			return a.CreatedAt.After(b.CreatedAt)
		case repository.SortPriceHigh:
			pa, pb := sortPrice(a), sortPrice(b)
			if pa != pb {
				return pa > pb
			}
			return a.CreatedAt.After(b.CreatedAt)
		default: // newest
			return a.CreatedAt.After(b.CreatedAt)
		}
	})
}

// sortPrice treats unpriced listings as free so they sort ahead of any
// priced listing on price-low and behind on price-high.
func sortPrice(l *entity.Listing) float64 {
	if l.Price == nil {
		return 0
	}
	return *l.Price
}
