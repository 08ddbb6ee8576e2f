package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/99minutos/project-registry/internal/core/domain"
	"github.com/99minutos/project-registry/internal/core/ports"
)

// bcrypt ignores everything past 72 bytes and newer versions reject it.
const maxPasswordBytes = 72

// UserService implements registration and profile management.
type UserService struct {
	repo     ports.UserRepository
	logger   zerolog.Logger
	hashCost int
}

func NewUserService(repo ports.UserRepository, logger zerolog.Logger) *UserService {
	return &UserService{repo: repo, logger: logger, hashCost: bcrypt.DefaultCost}
}

// Create registers a new user with a bcrypt-hashed password.
func (s *UserService) Create(ctx context.Context, input ports.CreateUserInput) (*domain.User, error) {
	if err := s.ensureUsernameFree(ctx, input.Username, 0); err != nil {
		return nil, err
	}

	hash, err := s.hashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.Create(ctx, &domain.User{
		Username:       input.Username,
		Email:          input.Email,
		FullName:       input.FullName,
		HashedPassword: hash,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Uint("user_id", user.ID).Str("username", user.Username).Msg("user created")
	return user, nil
}

func (s *UserService) Get(ctx context.Context, id uint) (*domain.User, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *UserService) List(ctx context.Context, page domain.Page) ([]*domain.User, error) {
	return s.repo.List(ctx, page)
}

// Update applies the non-nil fields of input. A new password is re-hashed.
func (s *UserService) Update(ctx context.Context, id uint, input ports.UpdateUserInput) (*domain.User, error) {
	if input.Username != nil {
		if err := s.ensureUsernameFree(ctx, *input.Username, id); err != nil {
			return nil, err
		}
	}

	patch := domain.UserPatch{
		Username: input.Username,
		Email:    input.Email,
		FullName: input.FullName,
	}
	if input.Password != nil {
		hash, err := s.hashPassword(*input.Password)
		if err != nil {
			return nil, err
		}
		patch.HashedPassword = &hash
	}

	if patch.Empty() {
		return s.repo.FindByID(ctx, id)
	}
	return s.repo.Update(ctx, id, patch)
}

func (s *UserService) hashPassword(password string) (string, error) {
	if len(password) > maxPasswordBytes {
		return "", domain.NewValidationError(fmt.Sprintf("password must be at most %d bytes", maxPasswordBytes))
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// Delete removes the user together with its projects.
func (s *UserService) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Uint("user_id", id).Msg("user deleted")
	return nil
}

// ensureUsernameFree fails with ErrUserExists when username belongs to a
// user other than self.
func (s *UserService) ensureUsernameFree(ctx context.Context, username string, self uint) error {
	existing, err := s.repo.FindByUsername(ctx, username)
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		return nil
	case err != nil:
		return fmt.Errorf("find user: %w", err)
	case existing.ID != self:
		return domain.ErrUserExists
	}
	return nil
}
