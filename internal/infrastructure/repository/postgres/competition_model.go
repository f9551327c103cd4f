package postgres

import "time"

const competitionColumns = "id, external_id, name, country_code, club_count, player_count, total_market_value, created_at, updated_at"

type competitionTableModel struct {
	ID               int64     `db:"id"`
	ExternalID       string    `db:"external_id"`
	Name             string    `db:"name"`
	CountryCode      string    `db:"country_code"`
	ClubCount        int       `db:"club_count"`
	PlayerCount      int       `db:"player_count"`
	TotalMarketValue int64     `db:"total_market_value"`
	CreatedAt        time.Time `db:"created_at"`
	UpdatedAt        time.Time `db:"updated_at"`
}

type competitionInsertModel struct {
	ExternalID       string `db:"external_id"`
	Name             string `db:"name"`
	CountryCode      string `db:"country_code"`
	ClubCount        int    `db:"club_count"`
	PlayerCount      int    `db:"player_count"`
	TotalMarketValue int64  `db:"total_market_value"`
}
