package sqlstore

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/99minutos/project-registry/internal/core/domain"
)

// UserRepository implements ports.UserRepository with GORM.
type UserRepository struct {
	store *Store
}

func NewUserRepository(store *Store) *UserRepository {
	return &UserRepository{store: store}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	rec := userRecord{
		Username:       user.Username,
		Email:          user.Email,
		FullName:       user.FullName,
		HashedPassword: user.HashedPassword,
	}

	if err := r.store.Session(ctx).Create(&rec).Error; err != nil {
		if isDuplicateKey(err) {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return rec.toDomain(), nil
}

func (r *UserRepository) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	var rec userRecord
	if err := r.store.Session(ctx).First(&rec, id).Error; err != nil {
		if isNotFound(err) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return rec.toDomain(), nil
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	var rec userRecord
	if err := r.store.Session(ctx).Where("username = ?", username).First(&rec).Error; err != nil {
		if isNotFound(err) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return rec.toDomain(), nil
}

func (r *UserRepository) List(ctx context.Context, page domain.Page) ([]*domain.User, error) {
	var recs []userRecord
	err := r.store.Session(ctx).
		Order("id").
		Offset(page.Skip).
		Limit(page.Limit).
		Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	users := make([]*domain.User, len(recs))
	for i := range recs {
		users[i] = recs[i].toDomain()
	}
	return users, nil
}

func (r *UserRepository) Update(ctx context.Context, id uint, patch domain.UserPatch) (*domain.User, error) {
	fields := map[string]any{}
	if patch.Username != nil {
		fields["username"] = *patch.Username
	}
	if patch.Email != nil {
		fields["email"] = *patch.Email
	}
	if patch.FullName != nil {
		fields["full_name"] = *patch.FullName
	}
	if patch.HashedPassword != nil {
		fields["hashed_password"] = *patch.HashedPassword
	}

	var rec userRecord
	err := r.store.Transaction(ctx, func(tx *gorm.DB) error {
		if err := tx.First(&rec, id).Error; err != nil {
			return err
		}
		if len(fields) > 0 {
			if err := tx.Model(&rec).Updates(fields).Error; err != nil {
				return err
			}
		}
		return tx.First(&rec, id).Error
	})
	switch {
	case err == nil:
		return rec.toDomain(), nil
	case isNotFound(err):
		return nil, domain.ErrUserNotFound
	case isDuplicateKey(err):
		return nil, domain.ErrUserExists
	}
	return nil, fmt.Errorf("update user: %w", err)
}

// Delete removes the user and its projects in one transaction.
func (r *UserRepository) Delete(ctx context.Context, id uint) error {
	err := r.store.Transaction(ctx, func(tx *gorm.DB) error {
		if err := tx.Where("owner_id = ?", id).Delete(&projectRecord{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&userRecord{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		if isNotFound(err) {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}
