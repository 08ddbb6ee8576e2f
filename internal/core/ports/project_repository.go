package ports

import (
	"context"

	"github.com/99minutos/project-registry/internal/core/domain"
)

// ProjectFilter narrows a project listing. Zero OwnerID means all owners.
type ProjectFilter struct {
	OwnerID uint
	Page    domain.Page
}

// ProjectRepository defines persistence operations for projects.
type ProjectRepository interface {
	Create(ctx context.Context, project *domain.Project) (*domain.Project, error)
	FindByID(ctx context.Context, id uint) (*domain.Project, error)
	List(ctx context.Context, filter ProjectFilter) ([]*domain.Project, error)
	Update(ctx context.Context, id uint, patch domain.ProjectPatch) (*domain.Project, error)
	Delete(ctx context.Context, id uint) error
}
