package sqlstore

import (
	"time"

	"github.com/99minutos/project-registry/internal/core/domain"
)

type userRecord struct {
	ID             uint   `gorm:"primaryKey"`
	Username       string `gorm:"size:64;uniqueIndex;not null"`
	Email          string `gorm:"size:254"`
	FullName       string `gorm:"size:128"`
	HashedPassword string `gorm:"not null"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (userRecord) TableName() string {
	return "users"
}

type projectRecord struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"size:128;not null"`
	Description string `gorm:"size:1024"`
	OwnerID     uint   `gorm:"index;not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Owner userRecord `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE"`
}

func (projectRecord) TableName() string {
	return "projects"
}

func (r *userRecord) toDomain() *domain.User {
	return &domain.User{
		ID:             r.ID,
		Username:       r.Username,
		Email:          r.Email,
		FullName:       r.FullName,
		HashedPassword: r.HashedPassword,
		CreatedAt:      r.CreatedAt.UTC(),
		UpdatedAt:      r.UpdatedAt.UTC(),
	}
}

func (r *projectRecord) toDomain() *domain.Project {
	return &domain.Project{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		OwnerID:     r.OwnerID,
		CreatedAt:   r.CreatedAt.UTC(),
		UpdatedAt:   r.UpdatedAt.UTC(),
	}
}
