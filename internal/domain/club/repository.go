package club

import "context"

// Repository describes club persistence needs from use cases.
type Repository interface {
	Upsert(ctx context.Context, item Club) (Club, error)
	// UpdateProfile writes the non-empty profile fields onto the club with the given id.
	UpdateProfile(ctx context.Context, id int64, profile Profile) (Club, bool, error)
	UpsertClubSeason(ctx context.Context, item ClubSeason) (ClubSeason, error)
	GetByID(ctx context.Context, id int64) (Club, bool, error)
	GetBySlug(ctx context.Context, slug string) (Club, bool, error)
	GetByExternalID(ctx context.Context, externalID string) (Club, bool, error)
	// SearchByName matches term case-insensitively as a substring of name or official name.
	SearchByName(ctx context.Context, term string, limit int) ([]Club, error)
	// FindByExactName matches name or official name exactly after trimming.
	FindByExactName(ctx context.Context, name string) (Club, bool, error)
}
