package memory

import "context"

type ScoringRepository struct {
	store *Store
}

func NewScoringRepository(store *Store) *ScoringRepository {
	return &ScoringRepository{store: store}
}

func (r *ScoringRepository) CurrentTotal(_ context.Context, teamID string) (int64, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	item, ok := r.store.teams[teamID]
	if !ok {
		return 0, false, nil
	}
	return item.TotalPoints, true, nil
}

func (s *Store) applyDeltaLocked(teamID string, delta int64) int64 {
	item := s.teams[teamID]
	item.TotalPoints += delta
	s.teams[teamID] = item
	return item.TotalPoints
}
