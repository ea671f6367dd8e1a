package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	apperrors "uniapply/internal/errors"
	"uniapply/internal/model"
	"uniapply/internal/repository"
	"uniapply/internal/storage"
)

const (
	bcryptCost        = 10
	passwordMinLength = 8
)

const msgEmailTaken = "user with this email already exists."

// RegisterInput is the payload of a registration.
type RegisterInput struct {
	Email     string
	FirstName string
	LastName  string
	Password  string
	Bio       string
	Avatar    *Upload
}

// ProfilePatch is a partial update of the caller's user and profile. Nil fields are left alone.
type ProfilePatch struct {
	Email     *string
	FirstName *string
	LastName  *string
	Password  *string
	Bio       *string
	Avatar    *Upload
}

// UserService exposes registration and self-service profile operations.
type UserService interface {
	Register(ctx context.Context, in RegisterInput) (*model.User, error)
	GetProfile(ctx context.Context, userID uint) (*model.User, error)
	UpdateProfile(ctx context.Context, userID uint, patch ProfilePatch) (*model.User, error)
}

type userService struct {
	repo    repository.UserRepository
	storage storage.Storage
	log     *zap.Logger
}

// NewUserService builds a UserService.
func NewUserService(repo repository.UserRepository, sink storage.Storage, log *zap.Logger) UserService {
	return &userService{repo: repo, storage: sink, log: log}
}

// Register creates the user with a hashed password and its profile in one transaction.
func (s *userService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	in.Email = normalizeEmail(in.Email)

	verr := &apperrors.ValidationError{}
	if len(in.Password) < passwordMinLength {
		verr.Add("password", fmt.Sprintf("Ensure this field has at least %d characters.", passwordMinLength))
	}
	if err := s.checkEmailFree(ctx, in.Email, 0, verr); err != nil {
		return nil, err
	}
	if err := verr.Err(); err != nil {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	avatar, err := storeUpload(ctx, s.storage, in.Avatar, storage.PrefixAvatars)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Email:        in.Email,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		PasswordHash: string(hashed),
		IsActive:     true,
	}

	err = s.repo.WithTransaction(ctx, func(ctx context.Context, repo repository.UserRepository) error {
		if err := repo.Create(ctx, user); err != nil {
			return fmt.Errorf("create user: %w", err)
		}
		user.Profile = model.Profile{UserID: user.ID, Bio: in.Bio, Avatar: avatar}
		if err := repo.CreateProfile(ctx, &user.Profile); err != nil {
			return fmt.Errorf("create profile: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, emailConflict(err)
	}

	s.log.Info("user registered", zap.Uint("user_id", user.ID))
	return user, nil
}

func (s *userService) GetProfile(ctx context.Context, userID uint) (*model.User, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, notFound(err, "load user")
	}
	return user, nil
}

// UpdateProfile applies the patch to the user row and the profile row atomically.
func (s *userService) UpdateProfile(ctx context.Context, userID uint, patch ProfilePatch) (*model.User, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, notFound(err, "load user")
	}

	verr := &apperrors.ValidationError{}
	if patch.Email != nil {
		email := normalizeEmail(*patch.Email)
		if email != user.Email {
			if err := s.checkEmailFree(ctx, email, user.ID, verr); err != nil {
				return nil, err
			}
		}
		user.Email = email
	}
	if patch.FirstName != nil {
		user.FirstName = *patch.FirstName
	}
	if patch.LastName != nil {
		user.LastName = *patch.LastName
	}
	if patch.Password != nil {
		if len(*patch.Password) < passwordMinLength {
			verr.Add("password", fmt.Sprintf("Ensure this field has at least %d characters.", passwordMinLength))
		} else {
			hashed, err := bcrypt.GenerateFromPassword([]byte(*patch.Password), bcryptCost)
			if err != nil {
				return nil, fmt.Errorf("hash password: %w", err)
			}
			user.PasswordHash = string(hashed)
		}
	}
	if err := verr.Err(); err != nil {
		return nil, err
	}

	if patch.Bio != nil {
		user.Profile.Bio = *patch.Bio
	}
	if patch.Avatar != nil {
		url, err := storeUpload(ctx, s.storage, patch.Avatar, storage.PrefixAvatars)
		if err != nil {
			return nil, err
		}
		user.Profile.Avatar = url
	}
	user.Profile.UserID = user.ID

	err = s.repo.WithTransaction(ctx, func(ctx context.Context, repo repository.UserRepository) error {
		if err := repo.Update(ctx, user); err != nil {
			return fmt.Errorf("update user: %w", err)
		}
		if err := repo.UpdateProfile(ctx, &user.Profile); err != nil {
			return fmt.Errorf("update profile: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, emailConflict(err)
	}
	return user, nil
}

// checkEmailFree records a validation error when email belongs to a user other than selfID.
func (s *userService) checkEmailFree(ctx context.Context, email string, selfID uint, verr *apperrors.ValidationError) error {
	existing, err := s.repo.FindByEmail(ctx, email)
	switch {
	case err == nil && existing != nil && existing.ID != selfID:
		verr.Add("email", msgEmailTaken)
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("check email: %w", err)
	}
	return nil
}

// emailConflict turns a unique-key violation from a concurrent signup with the same
// email into the same field error checkEmailFree reports.
func emailConflict(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperrors.NewValidationError("email", msgEmailTaken)
	}
	return err
}

func normalizeEmail(email string) string {
	email = strings.TrimSpace(email)
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email
	}
	// the domain part is case-insensitive, the local part is kept as typed
	return email[:at] + strings.ToLower(email[at:])
}
