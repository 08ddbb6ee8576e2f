package handler

import (
	"context"
	"sync"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/project-registry/internal/core/domain"
	"github.com/99minutos/project-registry/internal/core/ports"
)

type stubAuthService struct {
	loginFn   func(ctx context.Context, username, password string) (*domain.Token, error)
	currentFn func(ctx context.Context, token string) (*domain.User, error)
}

func (s *stubAuthService) Login(ctx context.Context, username, password string) (*domain.Token, error) {
	return s.loginFn(ctx, username, password)
}

func (s *stubAuthService) CurrentUser(ctx context.Context, token string) (*domain.User, error) {
	return s.currentFn(ctx, token)
}

type stubUserService struct {
	createFn func(ctx context.Context, in ports.CreateUserInput) (*domain.User, error)
	getFn    func(ctx context.Context, id uint) (*domain.User, error)
	listFn   func(ctx context.Context, page domain.Page) ([]*domain.User, error)
	updateFn func(ctx context.Context, id uint, in ports.UpdateUserInput) (*domain.User, error)
	deleteFn func(ctx context.Context, id uint) error
}

func (s *stubUserService) Create(ctx context.Context, in ports.CreateUserInput) (*domain.User, error) {
	return s.createFn(ctx, in)
}

func (s *stubUserService) Get(ctx context.Context, id uint) (*domain.User, error) {
	return s.getFn(ctx, id)
}

func (s *stubUserService) List(ctx context.Context, page domain.Page) ([]*domain.User, error) {
	return s.listFn(ctx, page)
}

func (s *stubUserService) Update(ctx context.Context, id uint, in ports.UpdateUserInput) (*domain.User, error) {
	return s.updateFn(ctx, id, in)
}

func (s *stubUserService) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

type stubProjectService struct {
	createFn      func(ctx context.Context, in ports.CreateProjectInput) (*domain.Project, error)
	getFn         func(ctx context.Context, id uint) (*domain.Project, error)
	listFn        func(ctx context.Context, f ports.ProjectFilter) ([]*domain.Project, error)
	listByOwnerFn func(ctx context.Context, ownerID uint, page domain.Page) ([]*domain.Project, error)
	updateFn      func(ctx context.Context, id uint, in ports.UpdateProjectInput) (*domain.Project, error)
	deleteFn      func(ctx context.Context, id uint) error
}

func (s *stubProjectService) Create(ctx context.Context, in ports.CreateProjectInput) (*domain.Project, error) {
	return s.createFn(ctx, in)
}

func (s *stubProjectService) Get(ctx context.Context, id uint) (*domain.Project, error) {
	return s.getFn(ctx, id)
}

func (s *stubProjectService) List(ctx context.Context, f ports.ProjectFilter) ([]*domain.Project, error) {
	return s.listFn(ctx, f)
}

func (s *stubProjectService) ListByOwner(ctx context.Context, ownerID uint, page domain.Page) ([]*domain.Project, error) {
	return s.listByOwnerFn(ctx, ownerID, page)
}

func (s *stubProjectService) Update(ctx context.Context, id uint, in ports.UpdateProjectInput) (*domain.Project, error) {
	return s.updateFn(ctx, id, in)
}

func (s *stubProjectService) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

type recordingAuditor struct {
	mu     sync.Mutex
	events []domain.AuditEvent
}

func (a *recordingAuditor) Enqueue(e domain.AuditEvent) {
	a.mu.Lock()
	a.events = append(a.events, e)
	a.mu.Unlock()
}

func (a *recordingAuditor) all() []domain.AuditEvent {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]domain.AuditEvent(nil), a.events...)
}

func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}
