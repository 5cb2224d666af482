package usecase

import (
	"context"
	"time"

	"flatmatex/internal/domain/entity"
	"flatmatex/internal/domain/repository"
	"flatmatex/pkg/errors"
	"flatmatex/pkg/logger"
)

type AuthUseCase struct {
	userRepo     repository.UserRepository
	firebaseAuth FirebaseAuthClient
}

func NewAuthUseCase(userRepo repository.UserRepository, firebaseAuth FirebaseAuthClient) *AuthUseCase {
	return &AuthUseCase{
		userRepo:     userRepo,
		firebaseAuth: firebaseAuth,
	}
}

type RegisterInput struct {
	FullName   string
	Email      string
	Password   string
	Phone      string
	Age        int
	Gender     string
	Occupation string
}

type AuthResult struct {
	User  *entity.User `json:"user"`
	Token string       `json:"token"`
}

func (uc *AuthUseCase) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	// Email uniqueness is case-insensitive; GetByEmail matches the stored
	// lowercase form.
	existing, err := uc.userRepo.GetByEmail(ctx, input.Email)
	if err == nil && existing != nil {
		return nil, errors.Conflict("Email already in use")
	}

	uid, err := uc.firebaseAuth.CreateUser(ctx, input.Email, input.Password, input.FullName)
	if err != nil {
		return nil, errors.ExternalService("Failed to create user in authentication provider", err)
	}

	now := time.Now()
	user := &entity.User{
		ID:         uid,
		FullName:   input.FullName,
		Email:      input.Email,
		Phone:      input.Phone,
		Age:        input.Age,
		Gender:     input.Gender,
		Occupation: input.Occupation,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := uc.userRepo.Create(ctx, user); err != nil {
		if delErr := uc.firebaseAuth.DeleteUser(ctx, uid); delErr != nil {
			logger.Error("Failed to roll back auth user %s: %v", uid, delErr)
		}
		return nil, errors.Internal("Failed to create user record", err)
	}

	token, err := uc.firebaseAuth.SignInWithEmailPassword(input.Email, input.Password)
	if err != nil {
		return nil, errors.ExternalService("Failed to generate authentication token", err)
	}

	return &AuthResult{
		User:  user,
		Token: token,
	}, nil
}

func (uc *AuthUseCase) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	token, err := uc.firebaseAuth.SignInWithEmailPassword(email, password)
	if err != nil {
		logger.Warn("Login failed for %s: %v", email, err)
		return nil, errors.Unauthorized("Invalid credentials", err)
	}

	uid, err := uc.firebaseAuth.VerifyToken(ctx, token)
	if err != nil {
		return nil, errors.Unauthorized("Invalid credentials", err)
	}

	user, err := uc.userRepo.GetByID(ctx, uid)
	if err != nil {
		return nil, err
	}

	return &AuthResult{
		User:  user,
		Token: token,
	}, nil
}

func (uc *AuthUseCase) GetCurrentUser(ctx context.Context, uid string) (*entity.User, error) {
	if uid == "" {
		return nil, errors.Unauthorized("Authentication required", nil)
	}
	return uc.userRepo.GetByID(ctx, uid)
}
