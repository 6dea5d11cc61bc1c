package memory

import (
	"context"
	"fmt"

	"github.com/riskibarqy/castaway-league/internal/domain/wager"
)

type SubmissionRepository struct {
	store *Store
}

func NewSubmissionRepository(store *Store) *SubmissionRepository {
	return &SubmissionRepository{store: store}
}

func (r *SubmissionRepository) Create(_ context.Context, s wager.Submission) error {
	if err := s.Validate(); err != nil {
		return fmt.Errorf("validate submission: %w", err)
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	q, ok := r.store.questions[s.QuestionID]
	if !ok {
		return fmt.Errorf("question %s not found", s.QuestionID)
	}
	if q.IsGraded() {
		return wager.ErrWindowClosed
	}
	key := pairKey(s.TeamID, s.QuestionID)
	if _, ok := r.store.submissionByTeam[key]; ok {
		return wager.ErrDuplicateSubmission
	}

	r.store.submissions[s.ID] = cloneSubmission(s)
	r.store.submissionOrder = append(r.store.submissionOrder, s.ID)
	r.store.submissionByTeam[key] = s.ID
	return nil
}

func (r *SubmissionRepository) GetByTeamAndQuestion(_ context.Context, teamID, questionID string) (wager.Submission, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	id, ok := r.store.submissionByTeam[pairKey(teamID, questionID)]
	if !ok {
		return wager.Submission{}, false, nil
	}
	return cloneSubmission(r.store.submissions[id]), true, nil
}

func (r *SubmissionRepository) ListByQuestion(_ context.Context, questionID string) ([]wager.Submission, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	return r.store.filterSubmissionsLocked(func(s wager.Submission) bool { return s.QuestionID == questionID }), nil
}

func (r *SubmissionRepository) ListByTeam(_ context.Context, teamID string) ([]wager.Submission, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	return r.store.filterSubmissionsLocked(func(s wager.Submission) bool { return s.TeamID == teamID }), nil
}

func (s *Store) filterSubmissionsLocked(keep func(wager.Submission) bool) []wager.Submission {
	out := make([]wager.Submission, 0)
	for _, id := range s.submissionOrder {
		item := s.submissions[id]
		if keep(item) {
			out = append(out, cloneSubmission(item))
		}
	}
	return out
}
