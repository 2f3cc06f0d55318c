// Copyright 2025 TaxiUNN
// Licensed under the EUPL-1.2

package repository

import (
	"context"
	"time"

	"github.com/taxiunn/interactions/internal/models"
)

// CreateEmployee inserts a new employee and fills in its ID and timestamps.
func (r *Repository) CreateEmployee(ctx context.Context, e *models.Employee) error {
	now := time.Now().UTC()
	e.CreatedAt = now
	e.UpdatedAt = now

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO employees (email, password_hash, role, full_name, is_active, is_staff, is_superuser, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.Email, e.PasswordHash, e.Role, e.FullName, e.IsActive, e.IsStaff, e.IsSuperuser, e.CreatedAt, e.UpdatedAt)
	if err != nil {
		return err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	e.ID = id
	return nil
}

// GetEmployeeByID retrieves an employee by ID.
func (r *Repository) GetEmployeeByID(ctx context.Context, id int64) (*models.Employee, error) {
	var e models.Employee
	err := r.db.GetContext(ctx, &e, `SELECT * FROM employees WHERE id = ?`, id)
	if err != nil {
		return nil, wrapError(err)
	}
	return &e, nil
}

// GetEmployeeByEmail retrieves an employee by email address.
func (r *Repository) GetEmployeeByEmail(ctx context.Context, email string) (*models.Employee, error) {
	var e models.Employee
	err := r.db.GetContext(ctx, &e, `SELECT * FROM employees WHERE email = ?`, email)
	if err != nil {
		return nil, wrapError(err)
	}
	return &e, nil
}

// EmployeeEmailExists checks whether an account with the given email exists.
func (r *Repository) EmployeeEmailExists(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM employees WHERE email = ?`, email)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// UpdateEmployeeFullName updates the display name of an employee.
func (r *Repository) UpdateEmployeeFullName(ctx context.Context, id int64, fullName *string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE employees SET full_name = ?, updated_at = ? WHERE id = ?`,
		fullName, time.Now().UTC(), id)
	return err
}

// UpdateEmployeePassword overwrites the stored password hash.
func (r *Repository) UpdateEmployeePassword(ctx context.Context, id int64, passwordHash string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE employees SET password_hash = ?, updated_at = ? WHERE id = ?`,
		passwordHash, time.Now().UTC(), id)
	return err
}

// CountAdmins returns the number of administrator accounts.
func (r *Repository) CountAdmins(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM employees WHERE role = ?`, models.RoleAdmin)
	if err != nil {
		return 0, err
	}
	return count, nil
}
