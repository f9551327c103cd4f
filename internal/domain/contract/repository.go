package contract

import "context"

// Repository describes contract persistence needs from use cases.
type Repository interface {
	Upsert(ctx context.Context, item Contract) (Contract, error)
	// ListByClubSeason returns contracts in insertion order; a nil jersey means all numbers.
	ListByClubSeason(ctx context.Context, clubID, seasonID int64, jersey *int) ([]Contract, error)
	CountByClubSeason(ctx context.Context, clubID, seasonID int64) (int, error)
}
