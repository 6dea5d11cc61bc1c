package memory

import (
	"context"

	"github.com/riskibarqy/castaway-league/internal/domain/league"
)

type LeagueSeasonRepository struct {
	store *Store
}

func NewLeagueSeasonRepository(store *Store) *LeagueSeasonRepository {
	return &LeagueSeasonRepository{store: store}
}

func (r *LeagueSeasonRepository) GetByID(_ context.Context, leagueSeasonID string) (league.Season, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	item, ok := r.store.seasons[leagueSeasonID]
	return item, ok, nil
}

func (r *LeagueSeasonRepository) GetByLeagueAndSeason(_ context.Context, leagueID, seasonID string) (league.Season, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, item := range r.store.seasons {
		if item.LeagueID == leagueID && item.SeasonID == seasonID {
			return item, true, nil
		}
	}
	return league.Season{}, false, nil
}
