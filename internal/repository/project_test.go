// Copyright 2025 TaxiUNN
// Licensed under the EUPL-1.2

package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taxiunn/interactions/internal/models"
	"github.com/taxiunn/interactions/internal/repository"
	"github.com/taxiunn/interactions/internal/testutil"
)

func TestCreateProject(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	admin := testutil.NewTestAdmin(t, repo, "admin@b.com")

	start := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)
	finish := start.AddDate(0, 3, 0)
	project := &models.Project{
		AdminID:     admin.ID,
		Title:       "Dispatcher",
		Description: "Dispatch backend",
		StartDate:   &start,
		FinishDate:  &finish,
	}
	err := repo.CreateProject(ctx, project)

	require.NoError(t, err)
	assert.NotZero(t, project.ID)
	assert.NotZero(t, project.CreatedAt)
}

func TestCreateProject_DuplicateTitle(t *testing.T) {
	_, repo := testutil.NewTestDB(t)

	admin := testutil.NewTestAdmin(t, repo, "admin@b.com")
	testutil.NewTestProject(t, repo, admin.ID, "Dispatcher")

	err := repo.CreateProject(context.Background(), &models.Project{
		AdminID:     admin.ID,
		Title:       "Dispatcher",
		Description: "duplicate",
	})

	assert.Error(t, err)
}

func TestGetProjectByID(t *testing.T) {
	_, repo := testutil.NewTestDB(t)

	admin := testutil.NewTestAdmin(t, repo, "admin@b.com")
	created := testutil.NewTestProject(t, repo, admin.ID, "Dispatcher")

	retrieved, err := repo.GetProjectByID(context.Background(), created.ID)

	require.NoError(t, err)
	assert.Equal(t, created.ID, retrieved.ID)
	assert.Equal(t, "Dispatcher", retrieved.Title)
	assert.Equal(t, admin.ID, retrieved.AdminID)
}

func TestGetProjectByID_NotFound(t *testing.T) {
	_, repo := testutil.NewTestDB(t)

	_, err := repo.GetProjectByID(context.Background(), 999)

	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestListProjects_OrderedByFinishDate(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	admin := testutil.NewTestAdmin(t, repo, "admin@b.com")

	late := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	early := time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, repo.CreateProject(ctx, &models.Project{
		AdminID: admin.ID, Title: "Later", Description: "d", FinishDate: &late,
	}))
	require.NoError(t, repo.CreateProject(ctx, &models.Project{
		AdminID: admin.ID, Title: "Earlier", Description: "d", FinishDate: &early,
	}))

	projects, err := repo.ListProjects(ctx)

	require.NoError(t, err)
	require.Len(t, projects, 2)
	assert.Equal(t, "Earlier", projects[0].Title)
	assert.Equal(t, "Later", projects[1].Title)
}

func TestListProjects_Empty(t *testing.T) {
	_, repo := testutil.NewTestDB(t)

	projects, err := repo.ListProjects(context.Background())

	require.NoError(t, err)
	assert.Empty(t, projects)
}

func TestUpdateProject(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	admin := testutil.NewTestAdmin(t, repo, "admin@b.com")
	project := testutil.NewTestProject(t, repo, admin.ID, "Dispatcher")

	project.Title = "Dispatcher v2"
	project.Description = "updated"
	require.NoError(t, repo.UpdateProject(ctx, project))

	retrieved, err := repo.GetProjectByID(ctx, project.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dispatcher v2", retrieved.Title)
	assert.Equal(t, "updated", retrieved.Description)
}

func TestDeleteProject(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	admin := testutil.NewTestAdmin(t, repo, "admin@b.com")
	project := testutil.NewTestProject(t, repo, admin.ID, "Dispatcher")

	require.NoError(t, repo.DeleteProject(ctx, project.ID))

	_, err := repo.GetProjectByID(ctx, project.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestDeleteProject_NotFound(t *testing.T) {
	_, repo := testutil.NewTestDB(t)

	err := repo.DeleteProject(context.Background(), 999)

	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestProjectTitleExists(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	admin := testutil.NewTestAdmin(t, repo, "admin@b.com")
	project := testutil.NewTestProject(t, repo, admin.ID, "Dispatcher")

	taken, err := repo.ProjectTitleExists(ctx, "Dispatcher", 0)
	require.NoError(t, err)
	assert.True(t, taken)

	// The project itself does not count when excluded.
	taken, err = repo.ProjectTitleExists(ctx, "Dispatcher", project.ID)
	require.NoError(t, err)
	assert.False(t, taken)

	taken, err = repo.ProjectTitleExists(ctx, "Unknown", 0)
	require.NoError(t, err)
	assert.False(t, taken)
}
