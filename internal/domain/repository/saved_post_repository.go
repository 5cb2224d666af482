package repository

import (
	"context"

	"flatmatex/internal/domain/entity"
)

type SavedPostRepository interface {
	Save(ctx context.Context, userID, listingID string) (*entity.SavedPost, error)
	Remove(ctx context.Context, userID, listingID string) error
	IsSaved(ctx context.Context, userID, listingID string) (bool, error)
	ListByUser(ctx context.Context, userID string) ([]*entity.SavedPost, error)
}
