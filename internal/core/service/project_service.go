package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/99minutos/project-registry/internal/core/domain"
	"github.com/99minutos/project-registry/internal/core/ports"
)

// ProjectService implements project CRUD and enforces that every project
// has an existing owner.
type ProjectService struct {
	repo   ports.ProjectRepository
	users  ports.UserRepository
	logger zerolog.Logger
}

func NewProjectService(repo ports.ProjectRepository, users ports.UserRepository, logger zerolog.Logger) *ProjectService {
	return &ProjectService{repo: repo, users: users, logger: logger}
}

func (s *ProjectService) Create(ctx context.Context, input ports.CreateProjectInput) (*domain.Project, error) {
	if err := s.ensureOwner(ctx, input.OwnerID); err != nil {
		return nil, err
	}

	project, err := s.repo.Create(ctx, &domain.Project{
		Name:        input.Name,
		Description: input.Description,
		OwnerID:     input.OwnerID,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Uint("project_id", project.ID).Uint("owner_id", project.OwnerID).Msg("project created")
	return project, nil
}

func (s *ProjectService) Get(ctx context.Context, id uint) (*domain.Project, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *ProjectService) List(ctx context.Context, filter ports.ProjectFilter) ([]*domain.Project, error) {
	return s.repo.List(ctx, filter)
}

func (s *ProjectService) ListByOwner(ctx context.Context, ownerID uint, page domain.Page) ([]*domain.Project, error) {
	if _, err := s.users.FindByID(ctx, ownerID); err != nil {
		return nil, err
	}
	return s.repo.List(ctx, ports.ProjectFilter{OwnerID: ownerID, Page: page})
}

func (s *ProjectService) Update(ctx context.Context, id uint, input ports.UpdateProjectInput) (*domain.Project, error) {
	if input.OwnerID != nil {
		if err := s.ensureOwner(ctx, *input.OwnerID); err != nil {
			return nil, err
		}
	}

	patch := domain.ProjectPatch{
		Name:        input.Name,
		Description: input.Description,
		OwnerID:     input.OwnerID,
	}
	if patch.Empty() {
		return s.repo.FindByID(ctx, id)
	}
	return s.repo.Update(ctx, id, patch)
}

func (s *ProjectService) Delete(ctx context.Context, id uint) error {
	return s.repo.Delete(ctx, id)
}

func (s *ProjectService) ensureOwner(ctx context.Context, ownerID uint) error {
	if ownerID == 0 {
		return domain.ErrOwnerNotFound
	}
	if _, err := s.users.FindByID(ctx, ownerID); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.ErrOwnerNotFound
		}
		return fmt.Errorf("find owner: %w", err)
	}
	return nil
}
