package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/project-registry/internal/api/metrics"
	"github.com/99minutos/project-registry/internal/core/domain"
	"github.com/99minutos/project-registry/internal/core/ports"
)

// ProjectHandler handles HTTP requests under /projects.
type ProjectHandler struct {
	service ports.ProjectService
	auditor ports.Auditor
	metrics *metrics.Metrics
}

func NewProjectHandler(service ports.ProjectService, auditor ports.Auditor, m *metrics.Metrics) *ProjectHandler {
	return &ProjectHandler{service: service, auditor: auditor, metrics: m}
}

// Create adds a project for an existing owner.
//
// @Summary      Create a project
// @Tags         projects
// @Accept       json
// @Produce      json
// @Param        body  body      createProjectRequest  true  "New project"
// @Success      201   {object}  projectResponse
// @Failure      404   {object}  ErrorResponse
// @Failure      422   {object}  ValidationErrorResponse
// @Router       /projects [post]
func (h *ProjectHandler) Create(c echo.Context) error {
	var req createProjectRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	project, err := h.service.Create(c.Request().Context(), toCreateProjectInput(req))
	if err != nil {
		return err
	}

	h.metrics.Mutation("project", "create")
	h.audit(c, domain.AuditProjectCreated, project.ID, project.OwnerID)
	return c.JSON(http.StatusCreated, toProjectResponse(project))
}

// List returns a page of projects, optionally filtered by owner.
//
// @Summary      List projects
// @Tags         projects
// @Produce      json
// @Param        skip      query     int  false  "Offset"         default(0)
// @Param        limit     query     int  false  "Page size"      default(100)
// @Param        owner_id  query     int  false  "Filter by owner"
// @Success      200       {array}   projectResponse
// @Failure      422       {object}  ValidationErrorResponse
// @Router       /projects [get]
func (h *ProjectHandler) List(c echo.Context) error {
	page, err := bindPage(c)
	if err != nil {
		return err
	}
	var ownerID uint
	if err := echo.QueryParamsBinder(c).Uint("owner_id", &ownerID).BindError(); err != nil {
		return domain.NewValidationError("owner_id must be a positive integer")
	}

	projects, err := h.service.List(c.Request().Context(), ports.ProjectFilter{OwnerID: ownerID, Page: page})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toProjectResponses(projects))
}

// Get returns one project.
//
// @Summary      Get a project
// @Tags         projects
// @Produce      json
// @Param        id   path      int  true  "Project id"
// @Success      200  {object}  projectResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /projects/{id} [get]
func (h *ProjectHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	project, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toProjectResponse(project))
}

// Update changes a project's fields.
//
// @Summary      Update a project
// @Tags         projects
// @Accept       json
// @Produce      json
// @Param        id    path      int                   true  "Project id"
// @Param        body  body      updateProjectRequest  true  "Fields to change"
// @Success      200   {object}  projectResponse
// @Failure      404   {object}  ErrorResponse
// @Failure      422   {object}  ValidationErrorResponse
// @Router       /projects/{id} [put]
func (h *ProjectHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req updateProjectRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	project, err := h.service.Update(c.Request().Context(), id, toUpdateProjectInput(req))
	if err != nil {
		return err
	}

	h.metrics.Mutation("project", "update")
	h.audit(c, domain.AuditProjectUpdated, project.ID, project.OwnerID)
	return c.JSON(http.StatusOK, toProjectResponse(project))
}

// Delete removes a project.
//
// @Summary      Delete a project
// @Tags         projects
// @Param        id   path  int  true  "Project id"
// @Success      204
// @Failure      404  {object}  ErrorResponse
// @Router       /projects/{id} [delete]
func (h *ProjectHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), id); err != nil {
		return err
	}

	h.metrics.Mutation("project", "delete")
	h.audit(c, domain.AuditProjectDeleted, id, 0)
	return c.NoContent(http.StatusNoContent)
}

func (h *ProjectHandler) audit(c echo.Context, action string, projectID, ownerID uint) {
	if h.auditor == nil {
		return
	}
	ip, requestID := requestInfo(c)
	h.auditor.Enqueue(domain.AuditEvent{
		Action:    action,
		UserID:    ownerID,
		Success:   true,
		IP:        ip,
		RequestID: requestID,
		Detail:    "project " + strconv.FormatUint(uint64(projectID), 10),
	})
}
