// Copyright 2025 TaxiUNN
// Licensed under the EUPL-1.2

package models

import "time"

// Role is the closed set of staff account roles.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleWorker Role = "worker"
)

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleWorker:
		return true
	}
	return false
}

// Employee is a staff account. The password is stored as a bcrypt hash and
// never serialized.
type Employee struct { //nolint:govet // fieldalignment: readability over optimization
	ID           int64     `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         Role      `db:"role" json:"role"`
	FullName     *string   `db:"full_name" json:"full_name"`
	IsActive     bool      `db:"is_active" json:"is_active"`
	IsStaff      bool      `db:"is_staff" json:"-"`
	IsSuperuser  bool      `db:"is_superuser" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// IsAdmin reports whether the employee may own projects.
func (e *Employee) IsAdmin() bool {
	return e.Role == RoleAdmin
}
