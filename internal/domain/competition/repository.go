package competition

import "context"

// Repository describes competition persistence needs from use cases.
type Repository interface {
	Upsert(ctx context.Context, item Competition) (Competition, error)
	GetByID(ctx context.Context, id int64) (Competition, bool, error)
	GetByExternalID(ctx context.Context, externalID string) (Competition, bool, error)
}
