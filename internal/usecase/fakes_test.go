package usecase

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"flatmatex/internal/domain/entity"
	"flatmatex/internal/domain/repository"
	"flatmatex/pkg/errors"
)

// In-memory repository fakes shared by the usecase tests.

type fakeUserRepo struct {
	users map[string]*entity.User
}

func newFakeUserRepo(users ...*entity.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[string]*entity.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) Create(ctx context.Context, user *entity.User) error {
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, errors.NotFound("User", nil)
	}
	return user, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	for _, user := range r.users {
		if strings.EqualFold(user.Email, email) {
			return user, nil
		}
	}
	return nil, errors.NotFound("User", nil)
}

func (r *fakeUserRepo) GetByIDs(ctx context.Context, ids []string) (map[string]*entity.User, error) {
	result := make(map[string]*entity.User)
	for _, id := range ids {
		if user, ok := r.users[id]; ok {
			result[id] = user
		}
	}
	return result, nil
}

func (r *fakeUserRepo) Update(ctx context.Context, user *entity.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return errors.NotFound("User", nil)
	}
	r.users[user.ID] = user
	return nil
}

type fakeConversationRepo struct {
	conversations map[string]*entity.Conversation
	messages      map[string][]*entity.Message
	lastPreview   string
	nextMessageID int
}

func newFakeConversationRepo() *fakeConversationRepo {
	return &fakeConversationRepo{
		conversations: make(map[string]*entity.Conversation),
		messages:      make(map[string][]*entity.Message),
	}
}

func (r *fakeConversationRepo) GetOrCreate(ctx context.Context, userA, userB string) (*entity.Conversation, error) {
	id := entity.ConversationID(userA, userB)
	if conversation, ok := r.conversations[id]; ok {
		return conversation, nil
	}

	if userB < userA {
		userA, userB = userB, userA
	}
	now := time.Now()
	conversation := &entity.Conversation{
		ID:           id,
		Participants: []string{userA, userB},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	r.conversations[id] = conversation
	return conversation, nil
}

func (r *fakeConversationRepo) GetByID(ctx context.Context, id string) (*entity.Conversation, error) {
	conversation, ok := r.conversations[id]
	if !ok {
		return nil, errors.NotFound("Conversation", nil)
	}
	return conversation, nil
}

func (r *fakeConversationRepo) ListByUserID(ctx context.Context, userID string) ([]*entity.Conversation, error) {
	var result []*entity.Conversation
	for _, conversation := range r.conversations {
		if conversation.HasParticipant(userID) {
			result = append(result, conversation)
		}
	}
	return result, nil
}

func (r *fakeConversationRepo) UpdateLastMessage(ctx context.Context, id, preview string, at time.Time) error {
	conversation, ok := r.conversations[id]
	if !ok {
		return errors.NotFound("Conversation", nil)
	}
	conversation.LastMessage = preview
	conversation.LastMessageAt = at
	r.lastPreview = preview
	return nil
}

func (r *fakeConversationRepo) CreateMessage(ctx context.Context, message *entity.Message) error {
	r.nextMessageID++
	message.ID = fmt.Sprintf("msg-%d", r.nextMessageID)
	r.messages[message.ConversationID] = append(r.messages[message.ConversationID], message)
	return nil
}

func (r *fakeConversationRepo) ListMessages(ctx context.Context, conversationID string) ([]*entity.Message, error) {
	return r.messages[conversationID], nil
}

func (r *fakeConversationRepo) MarkMessagesRead(ctx context.Context, conversationID, receiverID string) error {
	for _, message := range r.messages[conversationID] {
		if message.ReceiverID == receiverID {
			message.Read = true
		}
	}
	return nil
}

type fakeListingRepo struct {
	listings map[string]*entity.Listing
}

func newFakeListingRepo(listings ...*entity.Listing) *fakeListingRepo {
	r := &fakeListingRepo{listings: make(map[string]*entity.Listing)}
	for _, l := range listings {
		r.listings[l.ID] = l
	}
	return r
}

func (r *fakeListingRepo) Create(ctx context.Context, listing *entity.Listing) error {
	if listing.ID == "" {
		listing.ID = fmt.Sprintf("listing-%d", len(r.listings)+1)
	}
	r.listings[listing.ID] = listing
	return nil
}

func (r *fakeListingRepo) GetByID(ctx context.Context, id string) (*entity.Listing, error) {
	listing, ok := r.listings[id]
	if !ok {
		return nil, errors.NotFound("Listing", nil)
	}
	return listing, nil
}

func (r *fakeListingRepo) List(ctx context.Context, filter repository.ListingFilter, sort repository.ListingSort, limit, offset int) ([]*entity.Listing, int64, error) {
	var all []*entity.Listing
	for _, listing := range r.listings {
		all = append(all, listing)
	}
	return all, int64(len(all)), nil
}

func (r *fakeListingRepo) ListByOwner(ctx context.Context, ownerID string) ([]*entity.Listing, error) {
	var result []*entity.Listing
	for _, listing := range r.listings {
		if listing.OwnerID == ownerID {
			result = append(result, listing)
		}
	}
	return result, nil
}

func (r *fakeListingRepo) Update(ctx context.Context, listing *entity.Listing) error {
	r.listings[listing.ID] = listing
	return nil
}

func (r *fakeListingRepo) DeleteOwned(ctx context.Context, id, ownerID string) (bool, error) {
	listing, ok := r.listings[id]
	if !ok || listing.OwnerID != ownerID {
		return false, nil
	}
	delete(r.listings, id)
	return true, nil
}

type fakeSavedPostRepo struct {
	saved map[string]*entity.SavedPost
}

func newFakeSavedPostRepo() *fakeSavedPostRepo {
	return &fakeSavedPostRepo{saved: make(map[string]*entity.SavedPost)}
}

func (r *fakeSavedPostRepo) Save(ctx context.Context, userID, listingID string) (*entity.SavedPost, error) {
	id := entity.SavedPostID(userID, listingID)
	if _, ok := r.saved[id]; ok {
		return nil, errors.Conflict("Post already saved")
	}
	savedPost := &entity.SavedPost{
		ID:        id,
		UserID:    userID,
		ListingID: listingID,
		SavedAt:   time.Now(),
	}
	r.saved[id] = savedPost
	return savedPost, nil
}

func (r *fakeSavedPostRepo) Remove(ctx context.Context, userID, listingID string) error {
	delete(r.saved, entity.SavedPostID(userID, listingID))
	return nil
}

func (r *fakeSavedPostRepo) IsSaved(ctx context.Context, userID, listingID string) (bool, error) {
	_, ok := r.saved[entity.SavedPostID(userID, listingID)]
	return ok, nil
}

func (r *fakeSavedPostRepo) ListByUser(ctx context.Context, userID string) ([]*entity.SavedPost, error) {
	var result []*entity.SavedPost
	for _, savedPost := range r.saved {
		if savedPost.UserID == userID {
			result = append(result, savedPost)
		}
	}
	return result, nil
}

type fakeFileStorage struct {
	uploads int
	deleted []string
	failAll bool
}

func (s *fakeFileStorage) Upload(ctx context.Context, file io.Reader, contentType string, folder string) (string, error) {
	if s.failAll {
		return "", errors.ExternalService("upload failed", nil)
	}
	s.uploads++
	return fmt.Sprintf("https://storage.example.com/%s/%d", folder, s.uploads), nil
}

func (s *fakeFileStorage) Delete(ctx context.Context, url string) error {
	s.deleted = append(s.deleted, url)
	return nil
}
