package entity

import (
	"time"
)

type User struct {
	ID            string    `json:"id" firestore:"id"`
	FullName      string    `json:"fullname" firestore:"fullname"`
	Email         string    `json:"email" firestore:"email"`
	Phone         string    `json:"phone" firestore:"phone"`
	Age           int       `json:"age" firestore:"age"`
	Gender        string    `json:"gender" firestore:"gender"` // "Male", "Female", "Other"
	Occupation    string    `json:"occupation" firestore:"occupation"`
	EmailVerified bool      `json:"email_verified" firestore:"emailVerified"`
	CreatedAt     time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt     time.Time `json:"updated_at" firestore:"updatedAt"`
}

// PublicProfile is the subset of User exposed to other users, e.g. as the
// counterpart annotation on a conversation.
type PublicProfile struct {
	ID         string `json:"id"`
	FullName   string `json:"fullname"`
	Gender     string `json:"gender"`
	Occupation string `json:"occupation"`
}

func (u *User) Public() *PublicProfile {
	return &PublicProfile{
		ID:         u.ID,
		FullName:   u.FullName,
		Gender:     u.Gender,
		Occupation: u.Occupation,
	}
}
