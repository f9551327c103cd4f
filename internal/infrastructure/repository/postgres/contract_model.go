package postgres

import "time"

const contractColumns = "id, player_id, club_id, season_id, jersey_number, created_at"

type contractTableModel struct {
	ID           int64     `db:"id"`
	PlayerID     int64     `db:"player_id"`
	ClubID       int64     `db:"club_id"`
	SeasonID     int64     `db:"season_id"`
	JerseyNumber int       `db:"jersey_number"`
	CreatedAt    time.Time `db:"created_at"`
}

type contractInsertModel struct {
	PlayerID     int64 `db:"player_id"`
	ClubID       int64 `db:"club_id"`
	SeasonID     int64 `db:"season_id"`
	JerseyNumber int   `db:"jersey_number"`
}
