package usecase

import (
	"context"

	"flatmatex/internal/domain/entity"
	"flatmatex/internal/domain/repository"
	"flatmatex/pkg/errors"
)

type UserUseCase struct {
	userRepo repository.UserRepository
}

func NewUserUseCase(userRepo repository.UserRepository) *UserUseCase {
	return &UserUseCase{
		userRepo: userRepo,
	}
}

type UpdateProfileInput struct {
	FullName   string
	Phone      string
	Age        int
	Gender     string
	Occupation string
}

func (uc *UserUseCase) GetProfile(ctx context.Context, id string) (*entity.PublicProfile, error) {
	user, err := uc.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return user.Public(), nil
}

func (uc *UserUseCase) UpdateProfile(ctx context.Context, uid string, input UpdateProfileInput) (*entity.User, error) {
	if uid == "" {
		return nil, errors.Unauthorized("Authentication required", nil)
	}

	user, err := uc.userRepo.GetByID(ctx, uid)
	if err != nil {
		return nil, err
	}

	user.FullName = input.FullName
	user.Phone = input.Phone
	user.Age = input.Age
	user.Gender = input.Gender
	user.Occupation = input.Occupation

	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}
