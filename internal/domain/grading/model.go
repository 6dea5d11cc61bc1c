package grading

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/castaway-league/internal/domain/question"
	"github.com/riskibarqy/castaway-league/internal/domain/wager"
)

var (
	ErrAlreadyGraded         = errors.New("question already graded")
	ErrUnknownQuestion       = errors.New("unknown question")
	ErrCorrectAnswerMismatch = errors.New("question was graded with a different correct answer")
	ErrCorrectAnswerRequired = errors.New("correct answer is required")
)

// Result is the per-submission outcome of one grading run. It is not
// persisted; the submission and team total carry its effects.
type Result struct {
	SubmissionID string
	TeamID       string
	Answer       string
	Wager        int64
	Correct      bool
	Delta        int64
}

// Delta is the symmetric wager rule: win the stake or lose it.
func Delta(correct bool, wager int64) int64 {
	if correct {
		return wager
	}
	return -wager
}

// IsCorrect compares under question.Normalize for both question types.
func IsCorrect(answer, correctAnswer string) bool {
	return question.Normalize(answer) == question.Normalize(correctAnswer)
}

// Plan grades the still-ungraded submissions of q against correctAnswer.
// Already-graded submissions are skipped. Results keep the input order.
//
// A question graded for the first time with no submissions yields an empty
// plan; that run still closes the window. A repeated run with nothing left
// fails with ErrAlreadyGraded.
func Plan(q question.LeagueQuestion, submissions []wager.Submission, correctAnswer string) ([]Result, error) {
	correct, err := ResolveCorrectAnswer(q, correctAnswer)
	if err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(submissions))
	for _, s := range submissions {
		if s.Graded {
			continue
		}
		ok := IsCorrect(s.Answer, correct)
		results = append(results, Result{
			SubmissionID: s.ID,
			TeamID:       s.TeamID,
			Answer:       s.Answer,
			Wager:        s.Wager,
			Correct:      ok,
			Delta:        Delta(ok, s.Wager),
		})
	}

	if len(results) == 0 && q.IsGraded() {
		return nil, fmt.Errorf("%w: question %s", ErrAlreadyGraded, q.ID)
	}
	return results, nil
}

// ResolveCorrectAnswer validates the revealed answer for q and returns the
// form to store. For multiple choice it is the declared option text.
func ResolveCorrectAnswer(q question.LeagueQuestion, correctAnswer string) (string, error) {
	if question.Normalize(correctAnswer) == "" {
		return "", ErrCorrectAnswerRequired
	}

	stored := correctAnswer
	if q.Type == question.TypeMultipleChoice {
		opt, ok := q.MatchOption(correctAnswer)
		if !ok {
			return "", fmt.Errorf("%w: correct answer %q", wager.ErrInvalidOption, correctAnswer)
		}
		stored = opt
	}

	if q.IsGraded() && !IsCorrect(q.CorrectAnswer, stored) {
		return "", fmt.Errorf("%w: stored %q, got %q", ErrCorrectAnswerMismatch, q.CorrectAnswer, correctAnswer)
	}
	return strings.TrimSpace(stored), nil
}

// Total sums the deltas of a grading run.
func Total(results []Result) int64 {
	var sum int64
	for _, r := range results {
		sum += r.Delta
	}
	return sum
}

// DeltasByTeam folds results into one increment per team.
func DeltasByTeam(results []Result) map[string]int64 {
	out := make(map[string]int64, len(results))
	for _, r := range results {
		out[r.TeamID] += r.Delta
	}
	return out
}
