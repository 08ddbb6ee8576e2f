package sqlstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/99minutos/project-registry/internal/core/domain"
	"github.com/99minutos/project-registry/internal/core/ports"
)

func seedUser(t *testing.T, repo *UserRepository, username string) *domain.User {
	t.Helper()
	u, err := repo.Create(context.Background(), &domain.User{Username: username, HashedPassword: "hash"})
	require.NoError(t, err)
	return u
}

func TestUserRepository_CreateAndFind(t *testing.T) {
	repo := NewUserRepository(newTestStore(t))
	ctx := context.Background()

	created, err := repo.Create(ctx, &domain.User{Username: "alice", Email: "alice@example.com", HashedPassword: "hash"})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	byID, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", byID.Username)
	assert.Equal(t, "hash", byID.HashedPassword)

	byName, err := repo.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byName.ID)
}

func TestUserRepository_NotFound(t *testing.T) {
	repo := NewUserRepository(newTestStore(t))
	ctx := context.Background()

	_, err := repo.FindByID(ctx, 42)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	_, err = repo.FindByUsername(ctx, "ghost")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	_, err = repo.Update(ctx, 42, domain.UserPatch{})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, 42), domain.ErrUserNotFound)
}

func TestUserRepository_DuplicateUsername(t *testing.T) {
	repo := NewUserRepository(newTestStore(t))
	seedUser(t, repo, "bob")

	_, err := repo.Create(context.Background(), &domain.User{Username: "bob", HashedPassword: "other"})
	assert.ErrorIs(t, err, domain.ErrUserExists)
}

func TestUserRepository_UpdateRenameConflict(t *testing.T) {
	repo := NewUserRepository(newTestStore(t))
	seedUser(t, repo, "carol")
	dave := seedUser(t, repo, "dave")

	taken := "carol"
	_, err := repo.Update(context.Background(), dave.ID, domain.UserPatch{Username: &taken})
	assert.ErrorIs(t, err, domain.ErrUserExists)
}

func TestUserRepository_Update(t *testing.T) {
	repo := NewUserRepository(newTestStore(t))
	u := seedUser(t, repo, "erin")

	name := "Erin Example"
	email := "erin@example.com"
	updated, err := repo.Update(context.Background(), u.ID, domain.UserPatch{FullName: &name, Email: &email})
	require.NoError(t, err)
	assert.Equal(t, name, updated.FullName)
	assert.Equal(t, email, updated.Email)
	assert.Equal(t, "erin", updated.Username)
}

func TestUserRepository_List(t *testing.T) {
	repo := NewUserRepository(newTestStore(t))
	for _, name := range []string{"u1", "u2", "u3", "u4"} {
		seedUser(t, repo, name)
	}

	users, err := repo.List(context.Background(), domain.Page{Skip: 1, Limit: 2})
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "u2", users[0].Username)
	assert.Equal(t, "u3", users[1].Username)
}

func TestUserRepository_DeleteCascadesProjects(t *testing.T) {
	store := newTestStore(t)
	users := NewUserRepository(store)
	projects := NewProjectRepository(store)
	ctx := context.Background()

	owner := seedUser(t, users, "frank")
	keep := seedUser(t, users, "gina")
	p1, err := projects.Create(ctx, &domain.Project{Name: "one", OwnerID: owner.ID})
	require.NoError(t, err)
	_, err = projects.Create(ctx, &domain.Project{Name: "two", OwnerID: owner.ID})
	require.NoError(t, err)
	_, err = projects.Create(ctx, &domain.Project{Name: "three", OwnerID: keep.ID})
	require.NoError(t, err)

	require.NoError(t, users.Delete(ctx, owner.ID))

	_, err = projects.FindByID(ctx, p1.ID)
	assert.ErrorIs(t, err, domain.ErrProjectNotFound)

	left, err := projects.List(ctx, ports.ProjectFilter{Page: domain.Page{Limit: 10}})
	require.NoError(t, err)
	require.Len(t, left, 1)
	assert.Equal(t, keep.ID, left[0].OwnerID)
}
