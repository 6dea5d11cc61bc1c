package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/riskibarqy/castaway-league/internal/domain/grading"
	"github.com/riskibarqy/castaway-league/internal/domain/question"
	"github.com/riskibarqy/castaway-league/internal/domain/wager"
)

type GradingRepository struct {
	store *Store
}

func NewGradingRepository(store *Store) *GradingRepository {
	return &GradingRepository{store: store}
}

// Settle holds the store write lock for the whole run, so a concurrent
// grading of the same question observes either nothing or everything.
func (r *GradingRepository) Settle(_ context.Context, questionID string, gradedAt time.Time, plan grading.PlanFunc) ([]grading.Result, question.LeagueQuestion, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	q, ok := r.store.questions[questionID]
	if !ok {
		return nil, question.LeagueQuestion{}, grading.ErrUnknownQuestion
	}

	subs := r.store.filterSubmissionsLocked(func(s wager.Submission) bool { return s.QuestionID == questionID })
	correct, results, err := plan(cloneQuestion(q), subs)
	if err != nil {
		return nil, question.LeagueQuestion{}, err
	}

	// Validate every write before applying any of them.
	for _, res := range results {
		sub, ok := r.store.submissions[res.SubmissionID]
		if !ok || sub.QuestionID != questionID {
			return nil, question.LeagueQuestion{}, fmt.Errorf("submission %s does not belong to question %s", res.SubmissionID, questionID)
		}
		if sub.Graded {
			return nil, question.LeagueQuestion{}, fmt.Errorf("submission %s already graded", res.SubmissionID)
		}
		if _, ok := r.store.teams[res.TeamID]; !ok {
			return nil, question.LeagueQuestion{}, fmt.Errorf("team %s not found", res.TeamID)
		}
	}

	for _, res := range results {
		sub := r.store.submissions[res.SubmissionID]
		awarded := res.Delta
		at := gradedAt
		sub.Graded = true
		sub.AwardedPoints = &awarded
		sub.GradedAt = &at
		r.store.submissions[res.SubmissionID] = sub

		r.store.applyDeltaLocked(res.TeamID, res.Delta)
	}

	if !q.IsGraded() {
		at := gradedAt
		q.GradedAt = &at
		q.CorrectAnswer = correct
		r.store.questions[questionID] = q
	}

	return results, cloneQuestion(q), nil
}
