// Copyright 2025 TaxiUNN
// Licensed under the EUPL-1.2

package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/taxiunn/interactions/internal/models"
	"github.com/taxiunn/interactions/internal/repository"
)

// ProjectHandlers contains handlers for project CRUD.
type ProjectHandlers struct {
	repo     *repository.Repository
	validate *validator.Validate
}

// NewProjects creates a new ProjectHandlers instance.
func NewProjects(repo *repository.Repository) *ProjectHandlers {
	return &ProjectHandlers{
		repo:     repo,
		validate: newValidator(),
	}
}

// checkProjectRules runs the write-time business rules: the title must be
// globally unique and admin_id must reference an administrator. Pass 0 as
// excludeID on create.
func (h *ProjectHandlers) checkProjectRules(c echo.Context, title string, adminID, excludeID int64) (FieldErrors, error) {
	ctx := c.Request().Context()
	fe := FieldErrors{}

	taken, err := h.repo.ProjectTitleExists(ctx, title, excludeID)
	if err != nil {
		return nil, err
	}
	if taken {
		fe.Add("title", "Project with this title already exists!")
	}

	admin, err := h.repo.GetEmployeeByID(ctx, adminID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	if admin == nil || !admin.IsAdmin() {
		fe.Add("admin_id", "Only users with role='admin' can own projects!")
	}

	return fe, nil
}

// ProjectCreateRequest is the request body for creating a project.
type ProjectCreateRequest struct {
	AdminID     int64      `json:"admin_id" validate:"required"`
	Title       string     `json:"title" validate:"required,max=50"`
	Description string     `json:"description" validate:"required,max=150"`
	StartDate   *time.Time `json:"start_date"`
	FinishDate  *time.Time `json:"finish_date"`
}

// Create creates a new project owned by an administrator.
func (h *ProjectHandlers) Create(c echo.Context) error {
	var req ProjectCreateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid request body!"})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, fieldErrors(err))
	}

	fe, err := h.checkProjectRules(c, req.Title, req.AdminID, 0)
	if err != nil {
		return err
	}
	if len(fe) > 0 {
		return c.JSON(http.StatusBadRequest, fe)
	}

	project := &models.Project{
		AdminID:     req.AdminID,
		Title:       req.Title,
		Description: req.Description,
		StartDate:   req.StartDate,
		FinishDate:  req.FinishDate,
	}
	if err := h.repo.CreateProject(c.Request().Context(), project); err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, project)
}

// Get returns a single project by ID.
func (h *ProjectHandlers) Get(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"message": "Not found."})
	}

	project, err := h.repo.GetProjectByID(c.Request().Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		return c.JSON(http.StatusNotFound, map[string]string{"message": "Not found."})
	}
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, project)
}

// ProjectUpdateRequest is the request body for a partial project update.
type ProjectUpdateRequest struct {
	AdminID     *int64     `json:"admin_id"`
	Title       *string    `json:"title" validate:"omitempty,max=50"`
	Description *string    `json:"description" validate:"omitempty,max=150"`
	StartDate   *time.Time `json:"start_date"`
	FinishDate  *time.Time `json:"finish_date"`
}

// Update applies the provided fields to an existing project. Title and
// admin_id changes go through the same rules as creation.
func (h *ProjectHandlers) Update(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"message": "Not found."})
	}

	project, err := h.repo.GetProjectByID(c.Request().Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		return c.JSON(http.StatusNotFound, map[string]string{"message": "Not found."})
	}
	if err != nil {
		return err
	}

	var req ProjectUpdateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid request body!"})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, fieldErrors(err))
	}

	if req.AdminID != nil {
		project.AdminID = *req.AdminID
	}
	if req.Title != nil {
		project.Title = *req.Title
	}
	if req.Description != nil {
		project.Description = *req.Description
	}
	if req.StartDate != nil {
		project.StartDate = req.StartDate
	}
	if req.FinishDate != nil {
		project.FinishDate = req.FinishDate
	}

	fe, err := h.checkProjectRules(c, project.Title, project.AdminID, project.ID)
	if err != nil {
		return err
	}
	if len(fe) > 0 {
		return c.JSON(http.StatusBadRequest, fe)
	}

	if err := h.repo.UpdateProject(c.Request().Context(), project); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, project)
}

// Delete removes a project.
func (h *ProjectHandlers) Delete(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"message": "Not found."})
	}

	err = h.repo.DeleteProject(c.Request().Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		return c.JSON(http.StatusNotFound, map[string]string{"message": "Not found."})
	}
	if err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

// List returns all projects ordered by finish date.
func (h *ProjectHandlers) List(c echo.Context) error {
	projects, err := h.repo.ListProjects(c.Request().Context())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, projects)
}
