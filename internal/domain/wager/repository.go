package wager

import "context"

type Repository interface {
	// Create inserts the submission only if the question is still ungraded
	// and the team has no submission for it, checked atomically. It fails
	// with ErrWindowClosed or ErrDuplicateSubmission otherwise.
	Create(ctx context.Context, s Submission) error
	GetByTeamAndQuestion(ctx context.Context, teamID, questionID string) (Submission, bool, error)
	ListByQuestion(ctx context.Context, questionID string) ([]Submission, error)
	ListByTeam(ctx context.Context, teamID string) ([]Submission, error)
}
