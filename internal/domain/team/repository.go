package team

import "context"

// Repository describes team persistence needs from use cases.
type Repository interface {
	GetByID(ctx context.Context, teamID string) (Team, bool, error)
	// ListByLeagueSeason returns teams in join order (created_at, then id).
	ListByLeagueSeason(ctx context.Context, leagueSeasonID string) ([]Team, error)
}
