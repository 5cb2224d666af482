package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"flatmatex/internal/domain/entity"
	"flatmatex/internal/domain/repository"
	"flatmatex/pkg/errors"
	"flatmatex/pkg/logger"
)

type firestoreSavedPostRepository struct {
	client *firestore.Client
}

func NewFirestoreSavedPostRepository(client *firestore.Client) repository.SavedPostRepository {
	return &firestoreSavedPostRepository{client: client}
}

// Save writes one document per (user, listing) pair. The keyed Create
// enforces uniqueness: a second save reports CONFLICT without writing.
func (r *firestoreSavedPostRepository) Save(ctx context.Context, userID, listingID string) (*entity.SavedPost, error) {
	savedPost := &entity.SavedPost{
		ID:        entity.SavedPostID(userID, listingID),
		UserID:    userID,
		ListingID: listingID,
		SavedAt:   time.Now(),
	}

	_, err := r.client.Collection("savedPosts").Doc(savedPost.ID).Create(ctx, savedPost)
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return nil, errors.Conflict("Post already saved")
		}
		return nil, errors.Internal("Failed to save post", err)
	}

	return savedPost, nil
}

func (r *firestoreSavedPostRepository) Remove(ctx context.Context, userID, listingID string) error {
	id := entity.SavedPostID(userID, listingID)

	doc, err := r.client.Collection("savedPosts").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return errors.NotFound("Saved post", err)
		}
		return errors.Internal("Failed to get saved post", err)
	}

	if _, err := doc.Ref.Delete(ctx); err != nil {
		return errors.Internal("Failed to remove saved post", err)
	}

	return nil
}

func (r *firestoreSavedPostRepository) IsSaved(ctx context.Context, userID, listingID string) (bool, error) {
	doc, err := r.client.Collection("savedPosts").Doc(entity.SavedPostID(userID, listingID)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return false, nil
		}
		return false, errors.Internal("Failed to check saved post", err)
	}

	return doc.Exists(), nil
}

func (r *firestoreSavedPostRepository) ListByUser(ctx context.Context, userID string) ([]*entity.SavedPost, error) {
	query := r.client.Collection("savedPosts").
		Where("userId", "==", userID).
		OrderBy("savedAt", firestore.Desc)

	docs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, errors.Internal("Failed to fetch saved posts", err)
	}

	var savedPosts []*entity.SavedPost
	for _, doc := range docs {
		var savedPost entity.SavedPost
		if err := doc.DataTo(&savedPost); err != nil {
			logger.Warn("Skipping malformed saved post %s: %v", doc.Ref.ID, err)
			continue
		}
		savedPosts = append(savedPosts, &savedPost)
	}

	return savedPosts, nil
}
