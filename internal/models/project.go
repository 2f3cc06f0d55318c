// Copyright 2025 TaxiUNN
// Licensed under the EUPL-1.2

package models

import "time"

// Project is a unit of work owned by an administrator.
type Project struct { //nolint:govet // fieldalignment: readability over optimization
	ID          int64      `db:"id" json:"id"`
	AdminID     int64      `db:"admin_id" json:"admin_id"`
	Title       string     `db:"title" json:"title"`
	Description string     `db:"description" json:"description"`
	StartDate   *time.Time `db:"start_date" json:"start_date"`
	FinishDate  *time.Time `db:"finish_date" json:"finish_date"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
}
