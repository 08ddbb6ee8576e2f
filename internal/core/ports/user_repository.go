package ports

import (
	"context"

	"github.com/99minutos/project-registry/internal/core/domain"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id uint) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	List(ctx context.Context, page domain.Page) ([]*domain.User, error)
	Update(ctx context.Context, id uint, patch domain.UserPatch) (*domain.User, error)
	// Delete removes the user and every project it owns in one transaction.
	Delete(ctx context.Context, id uint) error
}
