package grading

import (
	"context"
	"time"

	"github.com/riskibarqy/castaway-league/internal/domain/question"
	"github.com/riskibarqy/castaway-league/internal/domain/wager"
)

// PlanFunc decides the outcome for a locked question and its submissions.
type PlanFunc func(q question.LeagueQuestion, submissions []wager.Submission) (correctAnswer string, results []Result, err error)

// Settler runs a grading as one atomic unit: it locks the question and its
// submissions, calls plan, then marks each planned submission graded,
// applies team deltas, and records the correct answer and grading time.
// If plan returns an error nothing is written. ErrUnknownQuestion is
// returned when the question does not exist.
type Settler interface {
	Settle(ctx context.Context, questionID string, gradedAt time.Time, plan PlanFunc) ([]Result, question.LeagueQuestion, error)
}
