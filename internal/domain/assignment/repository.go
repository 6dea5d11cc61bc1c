package assignment

import "context"

// Ledger is the assignment ledger. TryAssign checks and writes atomically:
// concurrent callers for the same castaway see exactly one success.
type Ledger interface {
	TryAssign(ctx context.Context, a Assignment, rosterSize int) (Assignment, error)
	// ListByLeagueSeason returns entries in insertion order.
	ListByLeagueSeason(ctx context.Context, leagueSeasonID string) ([]Assignment, error)
	CountByTeam(ctx context.Context, leagueSeasonID string) (map[string]int, error)
}
