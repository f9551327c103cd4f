package postgres

import (
	"database/sql"
	"time"
)

const clubColumns = "id, external_id, name, official_name, slug, country_code, crest_url, primary_color, secondary_color, created_at, updated_at"

type clubTableModel struct {
	ID             int64          `db:"id"`
	ExternalID     sql.NullString `db:"external_id"`
	Name           string         `db:"name"`
	OfficialName   sql.NullString `db:"official_name"`
	Slug           sql.NullString `db:"slug"`
	CountryCode    sql.NullString `db:"country_code"`
	CrestURL       sql.NullString `db:"crest_url"`
	PrimaryColor   sql.NullString `db:"primary_color"`
	SecondaryColor sql.NullString `db:"secondary_color"`
	CreatedAt      time.Time      `db:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at"`
}

type clubInsertModel struct {
	ExternalID     *string `db:"external_id"`
	Name           string  `db:"name"`
	OfficialName   *string `db:"official_name"`
	Slug           *string `db:"slug"`
	CountryCode    *string `db:"country_code"`
	CrestURL       *string `db:"crest_url"`
	PrimaryColor   *string `db:"primary_color"`
	SecondaryColor *string `db:"secondary_color"`
}

const clubSeasonColumns = "id, competition_id, season_id, club_id"

type clubSeasonTableModel struct {
	ID            int64 `db:"id"`
	CompetitionID int64 `db:"competition_id"`
	SeasonID      int64 `db:"season_id"`
	ClubID        int64 `db:"club_id"`
}

type clubSeasonInsertModel struct {
	CompetitionID int64 `db:"competition_id"`
	SeasonID      int64 `db:"season_id"`
	ClubID        int64 `db:"club_id"`
}
