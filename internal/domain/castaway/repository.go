package castaway

import "context"

type Repository interface {
	GetByID(ctx context.Context, castawayID string) (Castaway, bool, error)
	ListBySeason(ctx context.Context, seasonID string) ([]Castaway, error)
}
