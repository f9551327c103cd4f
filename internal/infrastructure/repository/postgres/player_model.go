package postgres

import (
	"database/sql"
	"time"
)

const playerColumns = "id, external_id, full_name, nationality, position, current_club_id, shirt_number, created_at, updated_at"

type playerTableModel struct {
	ID            int64          `db:"id"`
	ExternalID    string         `db:"external_id"`
	FullName      string         `db:"full_name"`
	Nationality   sql.NullString `db:"nationality"`
	Position      sql.NullString `db:"position"`
	CurrentClubID sql.NullInt64  `db:"current_club_id"`
	ShirtNumber   sql.NullInt64  `db:"shirt_number"`
	CreatedAt     time.Time      `db:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at"`
}

type playerInsertModel struct {
	ExternalID    string  `db:"external_id"`
	FullName      string  `db:"full_name"`
	Nationality   *string `db:"nationality"`
	Position      *string `db:"position"`
	CurrentClubID *int64  `db:"current_club_id"`
	ShirtNumber   *int    `db:"shirt_number"`
}
