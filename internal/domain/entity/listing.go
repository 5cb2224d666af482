package entity

import (
	"time"
)

type Listing struct {
	ID          string    `json:"id" firestore:"id"`
	OwnerID     string    `json:"owner_id" firestore:"ownerId"`
	OwnerEmail  string    `json:"owner_email" firestore:"ownerEmail"`
	Images      []string  `json:"images" firestore:"images"`
	Price       *float64  `json:"price,omitempty" firestore:"price,omitempty"`
	Furnishing  string    `json:"furnishing" firestore:"furnishing"`
	State       string    `json:"state" firestore:"state"`
	City        string    `json:"city" firestore:"city"`
	Location    string    `json:"location" firestore:"location"`
	Preferences []string  `json:"preferences" firestore:"preferences"`
	Gender      string    `json:"gender" firestore:"gender"`
	Description string    `json:"description" firestore:"description"`
	CreatedAt   time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt   time.Time `json:"updated_at" firestore:"updatedAt"`
}
