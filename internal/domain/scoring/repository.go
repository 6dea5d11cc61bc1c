package scoring

import "context"

// Repository is the read side of the scoring aggregate. Totals change only
// inside grading.Settler.Settle.
type Repository interface {
	CurrentTotal(ctx context.Context, teamID string) (int64, bool, error)
}

// LeaderboardRead is one cache lookup. On a miss, Generation is handed back
// to Set with the standings computed after the lookup.
type LeaderboardRead struct {
	Standings  []Standing
	Hit        bool
	Generation int64
}

// LeaderboardCache holds ranked standings per league-season. Invalidate
// advances the generation, and Set writes only while the generation it is
// given is still current, so standings read before an invalidation are
// never stored after it.
type LeaderboardCache interface {
	Get(ctx context.Context, leagueSeasonID string) (LeaderboardRead, error)
	Set(ctx context.Context, leagueSeasonID string, generation int64, standings []Standing) (bool, error)
	Invalidate(ctx context.Context, leagueSeasonID string) error
}
