package usecase

import (
	"context"

	"flatmatex/internal/domain/entity"
	"flatmatex/internal/domain/repository"
	"flatmatex/pkg/errors"
	"flatmatex/pkg/logger"
)

type SavedPostUseCase struct {
	savedPostRepo repository.SavedPostRepository
	listingRepo   repository.ListingRepository
}

func NewSavedPostUseCase(
	savedPostRepo repository.SavedPostRepository,
	listingRepo repository.ListingRepository,
) *SavedPostUseCase {
	return &SavedPostUseCase{
		savedPostRepo: savedPostRepo,
		listingRepo:   listingRepo,
	}
}

func (uc *SavedPostUseCase) Save(ctx context.Context, userID, listingID string) (*entity.SavedPost, error) {
	if userID == "" {
		return nil, errors.Unauthorized("Authentication required", nil)
	}

	if _, err := uc.listingRepo.GetByID(ctx, listingID); err != nil {
		return nil, err
	}

	return uc.savedPostRepo.Save(ctx, userID, listingID)
}

func (uc *SavedPostUseCase) Remove(ctx context.Context, userID, listingID string) error {
	if userID == "" {
		return errors.Unauthorized("Authentication required", nil)
	}
	return uc.savedPostRepo.Remove(ctx, userID, listingID)
}

// List returns the caller's saved posts with their listings joined in.
// Saved posts whose listing has since been deleted are skipped.
func (uc *SavedPostUseCase) List(ctx context.Context, userID string) ([]*entity.SavedPostWithListing, error) {
	if userID == "" {
		return nil, errors.Unauthorized("Authentication required", nil)
	}

	savedPosts, err := uc.savedPostRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := make([]*entity.SavedPostWithListing, 0, len(savedPosts))
	for _, savedPost := range savedPosts {
		listing, err := uc.listingRepo.GetByID(ctx, savedPost.ListingID)
		if err != nil {
			if errors.Is(err, "NOT_FOUND") {
				continue
			}
			logger.Warn("Failed to load listing %s for saved post: %v", savedPost.ListingID, err)
			continue
		}

		result = append(result, &entity.SavedPostWithListing{
			ID:        savedPost.ID,
			UserID:    savedPost.UserID,
			ListingID: savedPost.ListingID,
			Listing:   listing,
			SavedAt:   savedPost.SavedAt,
		})
	}

	return result, nil
}
