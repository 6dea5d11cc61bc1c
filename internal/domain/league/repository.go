package league

import "context"

// Repository is the read side of the league/roster collaborator.
type Repository interface {
	GetByID(ctx context.Context, leagueSeasonID string) (Season, bool, error)
	GetByLeagueAndSeason(ctx context.Context, leagueID, seasonID string) (Season, bool, error)
}
