package postgres

import (
	"database/sql"
	"time"
)

const seasonColumns = "id, external_id, label, start_year, end_year, created_at, updated_at"

type seasonTableModel struct {
	ID         int64          `db:"id"`
	ExternalID sql.NullString `db:"external_id"`
	Label      string         `db:"label"`
	StartYear  sql.NullInt64  `db:"start_year"`
	EndYear    sql.NullInt64  `db:"end_year"`
	CreatedAt  time.Time      `db:"created_at"`
	UpdatedAt  time.Time      `db:"updated_at"`
}

type seasonInsertModel struct {
	ExternalID *string `db:"external_id"`
	Label      string  `db:"label"`
	StartYear  *int    `db:"start_year"`
	EndYear    *int    `db:"end_year"`
}
