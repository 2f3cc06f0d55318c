// Copyright 2025 TaxiUNN
// Licensed under the EUPL-1.2

// Package testutil provides test helpers and fixtures.
package testutil

import (
	"context"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"github.com/vinovest/sqlx"
	"golang.org/x/crypto/bcrypt"

	"github.com/taxiunn/interactions/internal/database"
	"github.com/taxiunn/interactions/internal/models"
	"github.com/taxiunn/interactions/internal/repository"
)

// NewTestDB creates an in-memory SQLite database for tests.
// Returns both the database connection and the repository for convenience.
func NewTestDB(t *testing.T) (*sqlx.DB, *repository.Repository) {
	t.Helper()
	db, err := database.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})
	repo := repository.New(db)
	return db, repo
}

// NewTestEmployee creates an active employee with the given role. The
// password is bcrypt-hashed so login flows work against the fixture.
func NewTestEmployee(t *testing.T, repo *repository.Repository, email, password string, role models.Role) *models.Employee {
	t.Helper()
	ctx := context.Background()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	employee := &models.Employee{
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		IsActive:     true,
	}
	require.NoError(t, repo.CreateEmployee(ctx, employee))
	return employee
}

// NewTestAdmin creates an administrator fixture.
func NewTestAdmin(t *testing.T, repo *repository.Repository, email string) *models.Employee {
	t.Helper()
	return NewTestEmployee(t, repo, email, "admin-password", models.RoleAdmin)
}

// NewTestProject creates a project owned by the given administrator.
func NewTestProject(t *testing.T, repo *repository.Repository, adminID int64, title string) *models.Project {
	t.Helper()
	ctx := context.Background()

	project := &models.Project{
		AdminID:     adminID,
		Title:       title,
		Description: "test project",
	}
	require.NoError(t, repo.CreateProject(ctx, project))
	return project
}

// NewEchoContext creates an Echo context for handler tests.
func NewEchoContext(e *echo.Echo, method, path string, body io.Reader) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, path, body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	return c, rec
}
