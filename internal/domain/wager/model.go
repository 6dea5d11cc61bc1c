package wager

import (
	"fmt"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/castaway-league/internal/domain/question"
)

var (
	ErrWindowClosed        = errors.New("submission window is closed")
	ErrDuplicateSubmission = errors.New("team already submitted for this question")
	ErrInvalidWager        = errors.New("invalid wager amount")
	ErrInvalidOption       = errors.New("answer does not match any option")
	ErrEmptyAnswer         = errors.New("answer is required")
)

// Submission is one wager ledger entry. Once Graded is set, AwardedPoints
// and GradedAt never change.
type Submission struct {
	ID             string
	LeagueSeasonID string
	QuestionID     string
	TeamID         string
	Answer         string
	Wager          int64
	SubmittedAt    time.Time
	Graded         bool
	AwardedPoints  *int64
	GradedAt       *time.Time
}

func (s Submission) Validate() error {
	if s.ID == "" {
		return fmt.Errorf("submission id is required")
	}
	if s.QuestionID == "" {
		return fmt.Errorf("submission question id is required")
	}
	if s.TeamID == "" {
		return fmt.Errorf("submission team id is required")
	}
	if s.Wager < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidWager, s.Wager)
	}
	if s.Graded && s.AwardedPoints == nil {
		return fmt.Errorf("graded submission must carry awarded points")
	}

	return nil
}

// ResolveWager applies the default and cap. A nil request stakes the
// question's base points; maxWager <= 0 means uncapped.
func ResolveWager(requested *int64, basePoints, maxWager int64) (int64, error) {
	amount := basePoints
	if requested != nil {
		amount = *requested
	}
	if amount < 0 {
		return 0, fmt.Errorf("%w: %d is negative", ErrInvalidWager, amount)
	}
	if maxWager > 0 && amount > maxWager {
		return 0, fmt.Errorf("%w: %d exceeds cap %d", ErrInvalidWager, amount, maxWager)
	}
	return amount, nil
}

// ValidateAnswer returns the text to store: the trimmed answer as typed.
// Multiple choice answers must match a declared option under
// question.Normalize.
func ValidateAnswer(q question.LeagueQuestion, answer string) (string, error) {
	trimmed := strings.TrimSpace(answer)
	if trimmed == "" {
		return "", ErrEmptyAnswer
	}
	if q.Type == question.TypeMultipleChoice {
		if _, ok := q.MatchOption(trimmed); !ok {
			return "", fmt.Errorf("%w: %q not in %v", ErrInvalidOption, trimmed, q.Options)
		}
	}
	return trimmed, nil
}
