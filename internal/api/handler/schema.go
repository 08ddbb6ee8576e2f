package handler

import (
	"time"

	"github.com/99minutos/project-registry/internal/core/domain"
)

// ValidationStatusCode is the application code carried in the 422 envelope.
const ValidationStatusCode = 10422

// ErrorResponse is the body of every non-validation error.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// ValidationErrorResponse is the 422 envelope.
type ValidationErrorResponse struct {
	StatusCode int    `json:"status_code"`
	Message    string `json:"message"`
	Data       any    `json:"data"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// --- Auth ---

// tokenRequest mirrors the OAuth2 password grant form.
type tokenRequest struct {
	Username  string `form:"username"   json:"username"   validate:"required"`
	Password  string `form:"password"   json:"password"   validate:"required"`
	GrantType string `form:"grant_type" json:"grant_type" validate:"omitempty,oneof=password"`
	Scope     string `form:"scope"      json:"scope"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// --- Users ---

type createUserRequest struct {
	Username string `json:"username"  validate:"required,min=3,max=64,printascii"`
	Password string `json:"password"  validate:"required,min=8,maxbytes=72"`
	Email    string `json:"email"     validate:"omitempty,email,max=254"`
	FullName string `json:"full_name" validate:"omitempty,max=128"`
}

type updateUserRequest struct {
	Username *string `json:"username"  validate:"omitempty,min=3,max=64,printascii"`
	Password *string `json:"password"  validate:"omitempty,min=8,maxbytes=72"`
	Email    *string `json:"email"     validate:"omitempty,email,max=254"`
	FullName *string `json:"full_name" validate:"omitempty,max=128"`
}

type userResponse struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email,omitempty"`
	FullName  string    `json:"full_name,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// --- Projects ---

type createProjectRequest struct {
	Name        string `json:"name"        validate:"required,min=1,max=128"`
	Description string `json:"description" validate:"omitempty,max=1024"`
	OwnerID     uint   `json:"owner_id"    validate:"required,gt=0"`
}

type updateProjectRequest struct {
	Name        *string `json:"name"        validate:"omitempty,min=1,max=128"`
	Description *string `json:"description" validate:"omitempty,max=1024"`
	OwnerID     *uint   `json:"owner_id"    validate:"omitempty,gt=0"`
}

type projectResponse struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	OwnerID     uint      `json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// --- Paging ---

const defaultLimit = 100

type pageQuery struct {
	Skip  int `query:"skip"  validate:"gte=0"`
	Limit int `query:"limit" validate:"gte=1,lte=100"`
}

func (q pageQuery) page() domain.Page {
	return domain.Page{Skip: q.Skip, Limit: q.Limit}
}
