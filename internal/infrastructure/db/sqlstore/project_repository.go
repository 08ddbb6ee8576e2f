package sqlstore

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/99minutos/project-registry/internal/core/domain"
	"github.com/99minutos/project-registry/internal/core/ports"
)

// ProjectRepository implements ports.ProjectRepository with GORM.
type ProjectRepository struct {
	store *Store
}

func NewProjectRepository(store *Store) *ProjectRepository {
	return &ProjectRepository{store: store}
}

func (r *ProjectRepository) Create(ctx context.Context, project *domain.Project) (*domain.Project, error) {
	rec := projectRecord{
		Name:        project.Name,
		Description: project.Description,
		OwnerID:     project.OwnerID,
	}

	if err := r.store.Session(ctx).Omit(clause.Associations).Create(&rec).Error; err != nil {
		if isForeignKeyViolation(err) {
			return nil, domain.ErrOwnerNotFound
		}
		return nil, fmt.Errorf("insert project: %w", err)
	}
	return rec.toDomain(), nil
}

func (r *ProjectRepository) FindByID(ctx context.Context, id uint) (*domain.Project, error) {
	var rec projectRecord
	if err := r.store.Session(ctx).First(&rec, id).Error; err != nil {
		if isNotFound(err) {
			return nil, domain.ErrProjectNotFound
		}
		return nil, fmt.Errorf("find project: %w", err)
	}
	return rec.toDomain(), nil
}

func (r *ProjectRepository) List(ctx context.Context, filter ports.ProjectFilter) ([]*domain.Project, error) {
	q := r.store.Session(ctx).Order("id")
	if filter.OwnerID != 0 {
		q = q.Where("owner_id = ?", filter.OwnerID)
	}

	var recs []projectRecord
	if err := q.Offset(filter.Page.Skip).Limit(filter.Page.Limit).Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}

	projects := make([]*domain.Project, len(recs))
	for i := range recs {
		projects[i] = recs[i].toDomain()
	}
	return projects, nil
}

func (r *ProjectRepository) Update(ctx context.Context, id uint, patch domain.ProjectPatch) (*domain.Project, error) {
	fields := map[string]any{}
	if patch.Name != nil {
		fields["name"] = *patch.Name
	}
	if patch.Description != nil {
		fields["description"] = *patch.Description
	}
	if patch.OwnerID != nil {
		fields["owner_id"] = *patch.OwnerID
	}

	var rec projectRecord
	err := r.store.Transaction(ctx, func(tx *gorm.DB) error {
		if err := tx.First(&rec, id).Error; err != nil {
			return err
		}
		if len(fields) > 0 {
			if err := tx.Model(&rec).Omit(clause.Associations).Updates(fields).Error; err != nil {
				return err
			}
		}
		return tx.First(&rec, id).Error
	})
	switch {
	case err == nil:
		return rec.toDomain(), nil
	case isNotFound(err):
		return nil, domain.ErrProjectNotFound
	case isForeignKeyViolation(err):
		return nil, domain.ErrOwnerNotFound
	}
	return nil, fmt.Errorf("update project: %w", err)
}

func (r *ProjectRepository) Delete(ctx context.Context, id uint) error {
	res := r.store.Session(ctx).Delete(&projectRecord{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete project: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrProjectNotFound
	}
	return nil
}
