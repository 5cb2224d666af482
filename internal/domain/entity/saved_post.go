package entity

import (
	"fmt"
	"time"
)

type SavedPost struct {
	ID        string    `json:"id" firestore:"id"`
	UserID    string    `json:"user_id" firestore:"userId"`
	ListingID string    `json:"listing_id" firestore:"listingId"`
	SavedAt   time.Time `json:"saved_at" firestore:"savedAt"`
}

type SavedPostWithListing struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	ListingID string    `json:"listing_id"`
	Listing   *Listing  `json:"listing"`
	SavedAt   time.Time `json:"saved_at"`
}

// SavedPostID is the document key for a saved post. One document per
// (user, listing) pair keeps duplicates impossible at the store level.
func SavedPostID(userID, listingID string) string {
	return fmt.Sprintf("%s_%s", userID, listingID)
}
