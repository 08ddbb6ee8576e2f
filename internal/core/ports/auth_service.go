package ports

import (
	"context"

	"github.com/99minutos/project-registry/internal/core/domain"
)

// AuthService verifies credentials and resolves bearer tokens.
type AuthService interface {
	Login(ctx context.Context, username, password string) (*domain.Token, error)
	CurrentUser(ctx context.Context, token string) (*domain.User, error)
}
