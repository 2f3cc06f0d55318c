// Copyright 2025 TaxiUNN
// Licensed under the EUPL-1.2

package repository

import (
	"context"
	"time"

	"github.com/taxiunn/interactions/internal/models"
)

// CreateProject inserts a new project and fills in its ID.
func (r *Repository) CreateProject(ctx context.Context, p *models.Project) error {
	p.CreatedAt = time.Now().UTC()

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO projects (admin_id, title, description, start_date, finish_date, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		p.AdminID, p.Title, p.Description, p.StartDate, p.FinishDate, p.CreatedAt)
	if err != nil {
		return err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = id
	return nil
}

// GetProjectByID retrieves a project by ID.
func (r *Repository) GetProjectByID(ctx context.Context, id int64) (*models.Project, error) {
	var p models.Project
	err := r.db.GetContext(ctx, &p, `SELECT * FROM projects WHERE id = ?`, id)
	if err != nil {
		return nil, wrapError(err)
	}
	return &p, nil
}

// ListProjects returns all projects ordered by finish date.
func (r *Repository) ListProjects(ctx context.Context) ([]models.Project, error) {
	projects := []models.Project{}
	err := r.db.SelectContext(ctx, &projects, `SELECT * FROM projects ORDER BY finish_date`)
	if err != nil {
		return nil, err
	}
	return projects, nil
}

// UpdateProject saves changed fields of an existing project.
func (r *Repository) UpdateProject(ctx context.Context, p *models.Project) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE projects SET admin_id = ?, title = ?, description = ?, start_date = ?, finish_date = ? WHERE id = ?`,
		p.AdminID, p.Title, p.Description, p.StartDate, p.FinishDate, p.ID)
	return err
}

// DeleteProject deletes a project by ID.
func (r *Repository) DeleteProject(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// ProjectTitleExists checks whether a project with the given title exists,
// excluding the project with excludeID (pass 0 on create).
func (r *Repository) ProjectTitleExists(ctx context.Context, title string, excludeID int64) (bool, error) {
	var count int64
	err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM projects WHERE title = ? AND id != ?`, title, excludeID)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
