package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/picquest/rewards-backend/internal/models"
	"github.com/picquest/rewards-backend/internal/repositories"
	"github.com/picquest/rewards-backend/internal/validation"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Compile-time check to ensure UserServiceImpl implements UserService
var _ UserService = (*UserServiceImpl)(nil)

// UserServiceImpl handles user-related business logic
type UserServiceImpl struct {
	userRepo repositories.UserRepository
}

// NewUserService creates a new UserServiceImpl
func NewUserService(userRepo repositories.UserRepository) *UserServiceImpl {
	return &UserServiceImpl{
		userRepo: userRepo,
	}
}

// FindOrCreate resolves the verified identity to a User record, creating it
// on first contact. Email is the identity anchor.
func (s *UserServiceImpl) FindOrCreate(ctx context.Context, email, name, image string) (*models.User, error) {
	if email == "" {
		return nil, &validation.Error{Fields: []validation.FieldError{{Field: "email", Message: "is required"}}}
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	user = &models.User{
		Email: email,
		Name:  name,
		Image: image,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		// A concurrent first request may have created the record; the unique
		// email index makes the insert lose, so fall back to the lookup.
		if existing, findErr := s.userRepo.FindByEmail(ctx, email); findErr == nil {
			return existing, nil
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// GetByEmail loads a user by email
func (s *UserServiceImpl) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("user %s: %w", email, ErrNotFound)
		}
		return nil, err
	}
	return user, nil
}

// UpdateExpertise sets the user's self-declared expertise and bio, which are
// forwarded to the reviewer on dispatch.
func (s *UserServiceImpl) UpdateExpertise(ctx context.Context, userID primitive.ObjectID, expertise, bio string) (*models.User, error) {
	input := struct {
		Expertise string `validate:"required,max=200"`
		Bio       string `validate:"omitempty,max=500"`
	}{Expertise: expertise, Bio: bio}
	if verr := validation.Struct(&input); verr != nil {
		return nil, verr
	}

	user, err := s.userRepo.UpdateProfile(ctx, userID, expertise, bio)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("user %s: %w", userID.Hex(), ErrNotFound)
		}
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return user, nil
}
