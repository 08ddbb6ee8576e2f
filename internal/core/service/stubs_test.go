package service

import (
	"context"
	"sort"
	"sync"

	"github.com/99minutos/project-registry/internal/core/domain"
	"github.com/99minutos/project-registry/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub repositories
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	mu     sync.Mutex
	nextID uint
	users  map[uint]*domain.User
	// projects is consulted on Delete to mirror the cascade.
	projects *stubProjectRepo
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[uint]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == user.Username {
			return nil, domain.ErrUserExists
		}
	}
	r.nextID++
	created := cloneUser(user)
	created.ID = r.nextID
	r.users[created.ID] = cloneUser(created)
	return created, nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id uint) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) List(_ context.Context, page domain.Page) ([]*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]uint, 0, len(r.users))
	for id := range r.users {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := []*domain.User{}
	for i, id := range ids {
		if i < page.Skip || len(out) >= page.Limit {
			continue
		}
		out = append(out, cloneUser(r.users[id]))
	}
	return out, nil
}

func (r *stubUserRepo) Update(_ context.Context, id uint, patch domain.UserPatch) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if patch.Username != nil {
		u.Username = *patch.Username
	}
	if patch.Email != nil {
		u.Email = *patch.Email
	}
	if patch.FullName != nil {
		u.FullName = *patch.FullName
	}
	if patch.HashedPassword != nil {
		u.HashedPassword = *patch.HashedPassword
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) Delete(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.users, id)
	if r.projects != nil {
		r.projects.deleteByOwner(id)
	}
	return nil
}

type stubProjectRepo struct {
	mu       sync.Mutex
	nextID   uint
	projects map[uint]*domain.Project
}

func newStubProjectRepo() *stubProjectRepo {
	return &stubProjectRepo{projects: make(map[uint]*domain.Project)}
}

func (r *stubProjectRepo) Create(_ context.Context, p *domain.Project) (*domain.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	clone := *p
	clone.ID = r.nextID
	stored := clone
	r.projects[clone.ID] = &stored
	return &clone, nil
}

func (r *stubProjectRepo) FindByID(_ context.Context, id uint) (*domain.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.projects[id]
	if !ok {
		return nil, domain.ErrProjectNotFound
	}
	clone := *p
	return &clone, nil
}

func (r *stubProjectRepo) List(_ context.Context, filter ports.ProjectFilter) ([]*domain.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*domain.Project{}
	for _, p := range r.projects {
		if filter.OwnerID != 0 && p.OwnerID != filter.OwnerID {
			continue
		}
		clone := *p
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubProjectRepo) Update(_ context.Context, id uint, patch domain.ProjectPatch) (*domain.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.projects[id]
	if !ok {
		return nil, domain.ErrProjectNotFound
	}
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.OwnerID != nil {
		p.OwnerID = *patch.OwnerID
	}
	clone := *p
	return &clone, nil
}

func (r *stubProjectRepo) Delete(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.projects[id]; !ok {
		return domain.ErrProjectNotFound
	}
	delete(r.projects, id)
	return nil
}

func (r *stubProjectRepo) deleteByOwner(ownerID uint) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, p := range r.projects {
		if p.OwnerID == ownerID {
			delete(r.projects, id)
		}
	}
}

// stubLockout locks a username after max failures.
type stubLockout struct {
	max      int
	failures map[string]int
}

func newStubLockout(max int) *stubLockout {
	return &stubLockout{max: max, failures: make(map[string]int)}
}

func (l *stubLockout) IsLocked(_ context.Context, username string) (bool, int, error) {
	if l.failures[username] >= l.max {
		return true, 60, nil
	}
	return false, 0, nil
}

func (l *stubLockout) RecordFailure(_ context.Context, username string) error {
	l.failures[username]++
	return nil
}

func (l *stubLockout) RecordSuccess(_ context.Context, username string) error {
	delete(l.failures, username)
	return nil
}
