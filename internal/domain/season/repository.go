package season

import "context"

// Repository describes season persistence needs from use cases.
type Repository interface {
	Upsert(ctx context.Context, item Season) (Season, error)
	GetByID(ctx context.Context, id int64) (Season, bool, error)
	GetByLabel(ctx context.Context, label string) (Season, bool, error)
	// GetByExternalIDOrLabel tries the provider season id first, then the label.
	GetByExternalIDOrLabel(ctx context.Context, externalID, label string) (Season, bool, error)
}
