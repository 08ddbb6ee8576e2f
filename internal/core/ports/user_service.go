package ports

import (
	"context"

	"github.com/99minutos/project-registry/internal/core/domain"
)

// CreateUserInput is the DTO passed from the transport layer to UserService.
type CreateUserInput struct {
	Username string
	Password string
	Email    string
	FullName string
}

// UpdateUserInput carries optional profile changes. Password is plain text.
type UpdateUserInput struct {
	Username *string
	Password *string
	Email    *string
	FullName *string
}

// UserService defines use-case operations for users.
type UserService interface {
	Create(ctx context.Context, input CreateUserInput) (*domain.User, error)
	Get(ctx context.Context, id uint) (*domain.User, error)
	List(ctx context.Context, page domain.Page) ([]*domain.User, error)
	Update(ctx context.Context, id uint, input UpdateUserInput) (*domain.User, error)
	Delete(ctx context.Context, id uint) error
}
