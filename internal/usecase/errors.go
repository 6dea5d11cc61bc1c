package usecase

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/castaway-league/internal/domain/assignment"
	"github.com/riskibarqy/castaway-league/internal/domain/draft"
	"github.com/riskibarqy/castaway-league/internal/domain/grading"
	"github.com/riskibarqy/castaway-league/internal/domain/question"
	"github.com/riskibarqy/castaway-league/internal/domain/wager"
)

// Error categories. Domain errors are wrapped with one of these so callers
// can branch on the category and still match the precise sentinel.
var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrConflict              = errors.New("conflict")
	ErrState                 = errors.New("invalid state")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)

var categories = []struct {
	category error
	members  []error
}{
	{
		category: ErrState,
		members:  []error{draft.ErrDraftClosed, draft.ErrDraftNotActive, draft.ErrDraftAlreadyStarted, wager.ErrWindowClosed},
	},
	{
		category: ErrConflict,
		members: []error{
			assignment.ErrAlreadyAssigned, assignment.ErrRosterFull,
			draft.ErrCastawayUnavailable, draft.ErrNotYourTurn, draft.ErrDraftExists, draft.ErrVersionConflict,
			wager.ErrDuplicateSubmission,
			grading.ErrAlreadyGraded, grading.ErrCorrectAnswerMismatch,
		},
	},
	{
		category: ErrNotFound,
		members:  []error{grading.ErrUnknownQuestion, question.ErrTemplateNotFound},
	},
	{
		category: ErrInvalidInput,
		members: []error{
			draft.ErrInsufficientTeams, draft.ErrUnknownStrategy, draft.ErrDuplicateTeam,
			question.ErrTextRequired, question.ErrUnknownType, question.ErrTooFewOptions, question.ErrDuplicateOption,
			question.ErrUnexpectedOptions, question.ErrInvalidPointValue, question.ErrPointValueOverCap, question.ErrInvalidEpisode,
			wager.ErrInvalidWager, wager.ErrInvalidOption, wager.ErrEmptyAnswer,
			grading.ErrCorrectAnswerRequired,
		},
	},
}

// classify tags a domain error with its category. Errors that already carry
// a category, or that are not domain errors, are returned unchanged.
func classify(err error) error {
	if err == nil || hasCategory(err) {
		return err
	}
	for _, group := range categories {
		for _, member := range group.members {
			if errors.Is(err, member) {
				return fmt.Errorf("%w: %w", group.category, err)
			}
		}
	}
	return err
}

func hasCategory(err error) bool {
	for _, category := range []error{ErrInvalidInput, ErrConflict, ErrState, ErrNotFound, ErrUnauthorized, ErrDependencyUnavailable} {
		if errors.Is(err, category) {
			return true
		}
	}
	return false
}

// PickLanded reports whether err is a castaway-unavailable rejection caused
// by teamID itself holding the castaway, i.e. an earlier attempt of the
// same pick already committed.
func PickLanded(err error, teamID string) bool {
	var unavailable *draft.CastawayUnavailableError
	if !errors.As(err, &unavailable) {
		return false
	}
	return teamID != "" && unavailable.HeldByTeamID == teamID
}

// hasExpectedCategory is true for outcomes of normal concurrent use rather
// than system faults.
func hasExpectedCategory(err error) bool {
	return errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrState) ||
		errors.Is(err, ErrNotFound)
}
