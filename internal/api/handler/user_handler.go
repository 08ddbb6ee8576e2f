package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/project-registry/internal/api/metrics"
	"github.com/99minutos/project-registry/internal/core/domain"
	"github.com/99minutos/project-registry/internal/core/ports"
)

// UserHandler handles HTTP requests under /users.
type UserHandler struct {
	users    ports.UserService
	projects ports.ProjectService
	auditor  ports.Auditor
	metrics  *metrics.Metrics
}

func NewUserHandler(users ports.UserService, projects ports.ProjectService, auditor ports.Auditor, m *metrics.Metrics) *UserHandler {
	return &UserHandler{users: users, projects: projects, auditor: auditor, metrics: m}
}

// Create registers a new user.
//
// @Summary      Create a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      createUserRequest  true  "New user"
// @Success      201   {object}  userResponse
// @Failure      409   {object}  ErrorResponse
// @Failure      422   {object}  ValidationErrorResponse
// @Router       /users [post]
func (h *UserHandler) Create(c echo.Context) error {
	var req createUserRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	user, err := h.users.Create(c.Request().Context(), toCreateUserInput(req))
	if err != nil {
		return err
	}

	h.metrics.Mutation("user", "create")
	h.audit(c, domain.AuditUserCreated, user)
	return c.JSON(http.StatusCreated, toUserResponse(user))
}

// List returns a page of users ordered by id.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Param        skip   query     int  false  "Offset"       default(0)
// @Param        limit  query     int  false  "Page size"    default(100)
// @Success      200    {array}   userResponse
// @Failure      422    {object}  ValidationErrorResponse
// @Router       /users [get]
func (h *UserHandler) List(c echo.Context) error {
	page, err := bindPage(c)
	if err != nil {
		return err
	}

	users, err := h.users.List(c.Request().Context(), page)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponses(users))
}

// Get returns one user.
//
// @Summary      Get a user
// @Tags         users
// @Produce      json
// @Param        id   path      int  true  "User id"
// @Success      200  {object}  userResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /users/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	user, err := h.users.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

// Update changes the caller's own profile.
//
// @Summary      Update a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                true  "User id"
// @Param        body  body      updateUserRequest  true  "Fields to change"
// @Success      200   {object}  userResponse
// @Failure      401   {object}  ErrorResponse
// @Failure      403   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Failure      409   {object}  ErrorResponse
// @Failure      422   {object}  ValidationErrorResponse
// @Router       /users/{id} [put]
func (h *UserHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req updateUserRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	user, err := h.users.Update(c.Request().Context(), id, toUpdateUserInput(req))
	if err != nil {
		return err
	}

	h.metrics.Mutation("user", "update")
	h.audit(c, domain.AuditUserUpdated, user)
	return c.JSON(http.StatusOK, toUserResponse(user))
}

// Delete removes the caller's account and every project it owns.
//
// @Summary      Delete a user
// @Tags         users
// @Security     BearerAuth
// @Param        id   path  int  true  "User id"
// @Success      204
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /users/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	caller, _ := currentUser(c)

	if err := h.users.Delete(c.Request().Context(), id); err != nil {
		return err
	}

	h.metrics.Mutation("user", "delete")
	if caller != nil {
		h.audit(c, domain.AuditUserDeleted, caller)
	}
	return c.NoContent(http.StatusNoContent)
}

// Projects lists the projects owned by a user.
//
// @Summary      List a user's projects
// @Tags         users
// @Produce      json
// @Param        id     path      int  true   "User id"
// @Param        skip   query     int  false  "Offset"     default(0)
// @Param        limit  query     int  false  "Page size"  default(100)
// @Success      200    {array}   projectResponse
// @Failure      404    {object}  ErrorResponse
// @Router       /users/{id}/projects [get]
func (h *UserHandler) Projects(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	page, err := bindPage(c)
	if err != nil {
		return err
	}

	projects, err := h.projects.ListByOwner(c.Request().Context(), id, page)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toProjectResponses(projects))
}

func (h *UserHandler) audit(c echo.Context, action string, user *domain.User) {
	if h.auditor == nil {
		return
	}
	ip, requestID := requestInfo(c)
	h.auditor.Enqueue(domain.AuditEvent{
		Action:    action,
		Username:  user.Username,
		UserID:    user.ID,
		Success:   true,
		IP:        ip,
		RequestID: requestID,
	})
}

// bindPage reads skip/limit from the query string.
func bindPage(c echo.Context) (domain.Page, error) {
	q := pageQuery{Limit: defaultLimit}
	err := echo.QueryParamsBinder(c).
		Int("skip", &q.Skip).
		Int("limit", &q.Limit).
		BindError()
	if err != nil {
		return domain.Page{}, domain.NewValidationError("skip and limit must be integers")
	}
	if err := c.Validate(q); err != nil {
		return domain.Page{}, err
	}
	return q.page(), nil
}
