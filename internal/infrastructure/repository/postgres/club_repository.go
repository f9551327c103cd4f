package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/jersey-metadata/internal/domain/club"
	qb "github.com/riskibarqy/jersey-metadata/internal/platform/querybuilder"
)

// Empty branding values never overwrite stored ones.
const clubUpsertSet = `
DO UPDATE SET
    name = EXCLUDED.name,
    official_name = COALESCE(EXCLUDED.official_name, clubs.official_name),
    slug = COALESCE(clubs.slug, EXCLUDED.slug),
    country_code = COALESCE(EXCLUDED.country_code, clubs.country_code),
    crest_url = COALESCE(EXCLUDED.crest_url, clubs.crest_url),
    primary_color = COALESCE(EXCLUDED.primary_color, clubs.primary_color),
    secondary_color = COALESCE(EXCLUDED.secondary_color, clubs.secondary_color),
    updated_at = NOW()
RETURNING ` + clubColumns

type ClubRepository struct {
	db *sqlx.DB
}

func NewClubRepository(db *sqlx.DB) *ClubRepository {
	return &ClubRepository{db: db}
}

func (r *ClubRepository) Upsert(ctx context.Context, item club.Club) (club.Club, error) {
	if err := item.Validate(); err != nil {
		return club.Club{}, fmt.Errorf("upsert club: %w", err)
	}

	conflict := "ON CONFLICT (external_id)"
	if strings.TrimSpace(item.ExternalID) == "" {
		conflict = "ON CONFLICT (slug)"
	}

	insertModel := clubInsertModel{
		ExternalID:     nullableString(item.ExternalID),
		Name:           strings.TrimSpace(item.Name),
		OfficialName:   nullableString(item.OfficialName),
		Slug:           nullableString(item.Slug),
		CountryCode:    nullableString(item.CountryCode),
		CrestURL:       nullableString(item.CrestURL),
		PrimaryColor:   nullableString(item.PrimaryColor),
		SecondaryColor: nullableString(item.SecondaryColor),
	}
	query, args, err := qb.InsertModel("clubs", insertModel, conflict+clubUpsertSet)
	if err != nil {
		return club.Club{}, fmt.Errorf("build club upsert query: %w", err)
	}

	var row clubTableModel
	if err := r.db.QueryRowxContext(ctx, query, args...).StructScan(&row); err != nil {
		if isUniqueViolation(err) {
			return club.Club{}, fmt.Errorf("upsert club %q: slug already used: %w", item.Name, err)
		}
		return club.Club{}, fmt.Errorf("upsert club %q: %w", item.Name, err)
	}
	return clubFromRow(row), nil
}

// UpdateProfile leaves a column untouched when the profile value is empty.
func (r *ClubRepository) UpdateProfile(ctx context.Context, id int64, profile club.Profile) (club.Club, bool, error) {
	query, args, err := qb.Update("clubs").
		SetExpr("official_name", "COALESCE(?, official_name)", nullableString(profile.OfficialName)).
		SetExpr("country_code", "COALESCE(?, country_code)", nullableString(profile.CountryCode)).
		SetExpr("crest_url", "COALESCE(?, crest_url)", nullableString(profile.CrestURL)).
		SetExpr("primary_color", "COALESCE(?, primary_color)", nullableString(profile.PrimaryColor)).
		SetExpr("secondary_color", "COALESCE(?, secondary_color)", nullableString(profile.SecondaryColor)).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("id", id)).
		Suffix("RETURNING " + clubColumns).
		ToSQL()
	if err != nil {
		return club.Club{}, false, fmt.Errorf("build club profile update query: %w", err)
	}

	var row clubTableModel
	if err := r.db.QueryRowxContext(ctx, query, args...).StructScan(&row); err != nil {
		if isNotFound(err) {
			return club.Club{}, false, nil
		}
		return club.Club{}, false, fmt.Errorf("update club profile id=%d: %w", id, err)
	}
	return clubFromRow(row), true, nil
}

func (r *ClubRepository) UpsertClubSeason(ctx context.Context, item club.ClubSeason) (club.ClubSeason, error) {
	if err := item.Validate(); err != nil {
		return club.ClubSeason{}, fmt.Errorf("upsert club season: %w", err)
	}

	insertModel := clubSeasonInsertModel{
		CompetitionID: item.CompetitionID,
		SeasonID:      item.SeasonID,
		ClubID:        item.ClubID,
	}
	query, args, err := qb.InsertModel("club_seasons", insertModel, `ON CONFLICT (competition_id, season_id, club_id)
DO UPDATE SET updated_at = NOW()
RETURNING `+clubSeasonColumns)
	if err != nil {
		return club.ClubSeason{}, fmt.Errorf("build club season upsert query: %w", err)
	}

	var row clubSeasonTableModel
	if err := r.db.QueryRowxContext(ctx, query, args...).StructScan(&row); err != nil {
		return club.ClubSeason{}, fmt.Errorf("upsert club season club=%d season=%d: %w", item.ClubID, item.SeasonID, err)
	}
	return club.ClubSeason{
		ID:            row.ID,
		CompetitionID: row.CompetitionID,
		SeasonID:      row.SeasonID,
		ClubID:        row.ClubID,
	}, nil
}

func (r *ClubRepository) GetByID(ctx context.Context, id int64) (club.Club, bool, error) {
	return r.getOne(ctx, qb.Eq("id", id))
}

func (r *ClubRepository) GetBySlug(ctx context.Context, slug string) (club.Club, bool, error) {
	return r.getOne(ctx, qb.Eq("slug", strings.TrimSpace(slug)))
}

func (r *ClubRepository) GetByExternalID(ctx context.Context, externalID string) (club.Club, bool, error) {
	return r.getOne(ctx, qb.Eq("external_id", strings.TrimSpace(externalID)))
}

func (r *ClubRepository) SearchByName(ctx context.Context, term string, limit int) ([]club.Club, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return []club.Club{}, nil
	}

	pattern := qb.ContainsPattern(term)
	query, args, err := qb.Select(clubColumns).From("clubs").
		Where(qb.Or(qb.ILike("name", pattern), qb.ILike("official_name", pattern))).
		OrderByExpr(`CASE
    WHEN lower(name) = lower(?) OR lower(official_name) = lower(?) THEN 0
    WHEN name ILIKE ? ESCAPE '\' OR official_name ILIKE ? ESCAPE '\' THEN 1
    ELSE 2
END`, term, term, qb.PrefixPattern(term), qb.PrefixPattern(term)).
		OrderBy("name", "id").
		Limit(limit).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build search clubs query: %w", err)
	}

	var rows []clubTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("search clubs: %w", err)
	}

	out := make([]club.Club, 0, len(rows))
	for _, row := range rows {
		out = append(out, clubFromRow(row))
	}
	return out, nil
}

func (r *ClubRepository) FindByExactName(ctx context.Context, name string) (club.Club, bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return club.Club{}, false, nil
	}
	return r.getOne(ctx, qb.Or(qb.Eq("name", name), qb.Eq("official_name", name)))
}

func (r *ClubRepository) getOne(ctx context.Context, cond qb.Condition) (club.Club, bool, error) {
	query, args, err := qb.Select(clubColumns).From("clubs").Where(cond).OrderBy("id").Limit(1).ToSQL()
	if err != nil {
		return club.Club{}, false, fmt.Errorf("build select club query: %w", err)
	}

	var row clubTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return club.Club{}, false, nil
		}
		return club.Club{}, false, fmt.Errorf("select club: %w", err)
	}
	return clubFromRow(row), true, nil
}

func clubFromRow(row clubTableModel) club.Club {
	return club.Club{
		ID:             row.ID,
		ExternalID:     nullStringValue(row.ExternalID),
		Name:           row.Name,
		OfficialName:   nullStringValue(row.OfficialName),
		Slug:           nullStringValue(row.Slug),
		CountryCode:    nullStringValue(row.CountryCode),
		CrestURL:       nullStringValue(row.CrestURL),
		PrimaryColor:   nullStringValue(row.PrimaryColor),
		SecondaryColor: nullStringValue(row.SecondaryColor),
	}
}
