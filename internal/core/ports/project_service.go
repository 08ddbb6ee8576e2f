package ports

import (
	"context"

	"github.com/99minutos/project-registry/internal/core/domain"
)

type CreateProjectInput struct {
	Name        string
	Description string
	OwnerID     uint
}

type UpdateProjectInput struct {
	Name        *string
	Description *string
	OwnerID     *uint
}

// ProjectService defines use-case operations for projects.
type ProjectService interface {
	Create(ctx context.Context, input CreateProjectInput) (*domain.Project, error)
	Get(ctx context.Context, id uint) (*domain.Project, error)
	List(ctx context.Context, filter ProjectFilter) ([]*domain.Project, error)
	// ListByOwner fails with domain.ErrUserNotFound when the owner does not exist.
	ListByOwner(ctx context.Context, ownerID uint, page domain.Page) ([]*domain.Project, error)
	Update(ctx context.Context, id uint, input UpdateProjectInput) (*domain.Project, error)
	Delete(ctx context.Context, id uint) error
}
