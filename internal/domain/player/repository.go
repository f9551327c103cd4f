package player

import "context"

// Repository describes player persistence needs from use cases.
type Repository interface {
	Upsert(ctx context.Context, item Player) (Player, error)
	GetByID(ctx context.Context, id int64) (Player, bool, error)
	GetByExternalID(ctx context.Context, externalID string) (Player, bool, error)
	GetByIDs(ctx context.Context, ids []int64) ([]Player, error)
}
