package memory

import (
	"context"

	"github.com/riskibarqy/castaway-league/internal/domain/assignment"
)

type AssignmentRepository struct {
	store *Store
}

func NewAssignmentRepository(store *Store) *AssignmentRepository {
	return &AssignmentRepository{store: store}
}

func (r *AssignmentRepository) TryAssign(_ context.Context, a assignment.Assignment, rosterSize int) (assignment.Assignment, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if err := r.store.tryAssignLocked(a, rosterSize); err != nil {
		return assignment.Assignment{}, err
	}
	return a, nil
}

func (r *AssignmentRepository) ListByLeagueSeason(_ context.Context, leagueSeasonID string) ([]assignment.Assignment, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]assignment.Assignment, 0)
	for _, item := range r.store.assignments {
		if item.LeagueSeasonID == leagueSeasonID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *AssignmentRepository) CountByTeam(_ context.Context, leagueSeasonID string) (map[string]int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	return r.store.countByTeamLocked(leagueSeasonID), nil
}

// tryAssignLocked is the ledger check-and-write. Caller holds the write lock.
func (s *Store) tryAssignLocked(a assignment.Assignment, rosterSize int) error {
	if err := a.Validate(); err != nil {
		return err
	}

	key := pairKey(a.LeagueSeasonID, a.CastawayID)
	if holder, ok := s.assignedCastaway[key]; ok {
		return &assignment.ConflictError{CastawayID: a.CastawayID, HeldByTeamID: holder}
	}

	held := 0
	for _, item := range s.assignments {
		if item.LeagueSeasonID == a.LeagueSeasonID && item.TeamID == a.TeamID {
			held++
		}
	}
	if err := assignment.CheckRoster(held, rosterSize); err != nil {
		return err
	}

	s.assignments = append(s.assignments, a)
	s.assignedCastaway[key] = a.TeamID
	return nil
}

func (s *Store) countByTeamLocked(leagueSeasonID string) map[string]int {
	out := make(map[string]int)
	for _, item := range s.assignments {
		if item.LeagueSeasonID == leagueSeasonID {
			out[item.TeamID]++
		}
	}
	return out
}

func (s *Store) undoLastAssignmentLocked() {
	n := len(s.assignments)
	if n == 0 {
		return
	}
	last := s.assignments[n-1]
	s.assignments = s.assignments[:n-1]
	delete(s.assignedCastaway, pairKey(last.LeagueSeasonID, last.CastawayID))
}
