package usecase

import (
	"context"
	"fmt"
	"io"
	"time"

	"flatmatex/internal/domain/entity"
	"flatmatex/internal/domain/repository"
	"flatmatex/pkg/errors"
	"flatmatex/pkg/logger"
)

type ListingUseCase struct {
	listingRepo   repository.ListingRepository
	userRepo      repository.UserRepository
	fileStorage   FileStorage
	maxImageSize  int64
	maxImageCount int
}

func NewListingUseCase(
	listingRepo repository.ListingRepository,
	userRepo repository.UserRepository,
	fileStorage FileStorage,
	maxImageSize int64,
	maxImageCount int,
) *ListingUseCase {
	return &ListingUseCase{
		listingRepo:   listingRepo,
		userRepo:      userRepo,
		fileStorage:   fileStorage,
		maxImageSize:  maxImageSize,
		maxImageCount: maxImageCount,
	}
}

type CreateListingInput struct {
	Price       *float64
	Furnishing  string
	State       string
	City        string
	Location    string
	Preferences []string
	Gender      string
	Description string
}

type ImageUpload struct {
	Reader      io.Reader
	ContentType string
	Size        int64
}

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
}

func validateListingInput(input CreateListingInput) error {
	if input.State == "" {
		return errors.Validation("state is required", nil)
	}
	if input.City == "" {
		return errors.Validation("city is required", nil)
	}
	if input.Furnishing == "" {
		return errors.Validation("furnishing is required", nil)
	}
	if input.Price != nil && *input.Price < 0 {
		return errors.Validation("price must not be negative", nil)
	}
	return nil
}

// CreateListing persists a new listing for ownerID. Image uploads run
// first; an upload failure drops that image and is logged, it never fails
// the listing itself.
func (uc *ListingUseCase) CreateListing(ctx context.Context, ownerID string, input CreateListingInput, images []ImageUpload) (*entity.Listing, error) {
	if ownerID == "" {
		return nil, errors.Unauthorized("Authentication required", nil)
	}
	if err := validateListingInput(input); err != nil {
		return nil, err
	}
	if len(images) > uc.maxImageCount {
		return nil, errors.Validation(fmt.Sprintf("at most %d images per listing", uc.maxImageCount), nil)
	}

	owner, err := uc.userRepo.GetByID(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	urls, err := uc.uploadImages(ctx, images)
	if err != nil {
		return nil, err
	}

	listing := &entity.Listing{
		OwnerID:     ownerID,
		OwnerEmail:  owner.Email,
		Images:      urls,
		Price:       input.Price,
		Furnishing:  input.Furnishing,
		State:       input.State,
		City:        input.City,
		Location:    input.Location,
		Preferences: input.Preferences,
		Gender:      input.Gender,
		Description: input.Description,
		CreatedAt:   time.Now(),
	}

	if err := uc.listingRepo.Create(ctx, listing); err != nil {
		return nil, err
	}

	return listing, nil
}

func (uc *ListingUseCase) uploadImages(ctx context.Context, images []ImageUpload) ([]string, error) {
	urls := make([]string, 0, len(images))
	for _, img := range images {
		if !allowedImageTypes[img.ContentType] {
			return nil, errors.Validation("unsupported image type: "+img.ContentType, nil)
		}
		if img.Size > uc.maxImageSize {
			return nil, errors.Validation("image exceeds the size limit", nil)
		}

		url, err := uc.fileStorage.Upload(ctx, img.Reader, img.ContentType, "listings")
		if err != nil {
			// Degraded path: keep the listing, skip the image.
			logger.Error("Image upload failed, continuing without it: %v", err)
			continue
		}
		urls = append(urls, url)
	}
	return urls, nil
}

// MaxImageCount is the per-listing image cap, exposed so the HTTP layer
// can reject oversized uploads before opening any file.
func (uc *ListingUseCase) MaxImageCount() int {
	return uc.maxImageCount
}

func (uc *ListingUseCase) GetListing(ctx context.Context, id string) (*entity.Listing, error) {
	return uc.listingRepo.GetByID(ctx, id)
}

func (uc *ListingUseCase) UpdateListing(ctx context.Context, id, ownerID string, input CreateListingInput) (*entity.Listing, error) {
	if ownerID == "" {
		return nil, errors.Unauthorized("Authentication required", nil)
	}
	if err := validateListingInput(input); err != nil {
		return nil, err
	}

	listing, err := uc.listingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if listing.OwnerID != ownerID {
		return nil, errors.NotFound("Listing", nil)
	}

	listing.Price = input.Price
	listing.Furnishing = input.Furnishing
	listing.State = input.State
	listing.City = input.City
	listing.Location = input.Location
	listing.Preferences = input.Preferences
	listing.Gender = input.Gender
	listing.Description = input.Description

	if err := uc.listingRepo.Update(ctx, listing); err != nil {
		return nil, err
	}

	return listing, nil
}

// DeleteListing removes the listing if ownerID owns it. Missing and
// not-owned are reported identically so listing IDs cannot be probed.
// Stored images are cleaned up best-effort in the background.
func (uc *ListingUseCase) DeleteListing(ctx context.Context, id, ownerID string) error {
	if ownerID == "" {
		return errors.Unauthorized("Authentication required", nil)
	}

	listing, err := uc.listingRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	deleted, err := uc.listingRepo.DeleteOwned(ctx, id, ownerID)
	if err != nil {
		return err
	}
	if !deleted {
		return errors.NotFound("Listing", nil)
	}

	if len(listing.Images) > 0 {
		go uc.cleanupImages(listing.ID, listing.Images)
	}

	return nil
}

func (uc *ListingUseCase) cleanupImages(listingID string, urls []string) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var failed int
	for _, url := range urls {
		if err := uc.fileStorage.Delete(ctx, url); err != nil {
			failed++
			logger.Error("Failed to delete image %s for listing %s: %v", url, listingID, err)
		}
	}
	if failed > 0 {
		logger.Warn("Image cleanup for listing %s finished with %d/%d failures", listingID, failed, len(urls))
	}
}

func (uc *ListingUseCase) ListMyListings(ctx context.Context, ownerID string) ([]*entity.Listing, error) {
	if ownerID == "" {
		return nil, errors.Unauthorized("Authentication required", nil)
	}
	return uc.listingRepo.ListByOwner(ctx, ownerID)
}

// SearchListings runs the translated query and returns the matching page
// with its total count.
func (uc *ListingUseCase) SearchListings(ctx context.Context, params *SearchParams) ([]*entity.Listing, int64, error) {
	return uc.listingRepo.List(ctx, params.Filter, params.Sort, params.Limit, params.Offset)
}
