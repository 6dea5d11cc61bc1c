package usecase

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/riskibarqy/castaway-league/internal/domain/grading"
	"github.com/riskibarqy/castaway-league/internal/domain/notification"
	"github.com/riskibarqy/castaway-league/internal/domain/question"
	"github.com/riskibarqy/castaway-league/internal/domain/wager"
	"github.com/riskibarqy/castaway-league/internal/infrastructure/repository/memory"
	"github.com/stretchr/testify/require"
)

func instantiateTribeQuestion(t *testing.T, h *harness) question.LeagueQuestion {
	t.Helper()
	q, err := h.questions.Instantiate(context.Background(), InstantiateInput{
		LeagueSeasonID: memory.LeagueSeasonIDDemo,
		Episode:        1,
		Inline: &QuestionContentInput{
			Text:       "Which tribe wins immunity?",
			Type:       "multiple_choice",
			Options:    []string{" Red ", "Blue"},
			PointValue: 5,
		},
	})
	require.NoError(t, err)
	return q
}

func TestWagerAndGrading_CorrectAnswerSettlesOnce(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	q := instantiateTribeQuestion(t, h)
	require.Equal(t, []string{"Red", "Blue"}, q.Options)

	sub, err := h.wagers.SubmitAnswer(ctx, SubmitAnswerInput{TeamID: "team-tiki", QuestionID: q.ID, Answer: "red", Wager: int64Ptr(10)})
	require.NoError(t, err)
	require.Equal(t, "red", sub.Answer)
	require.Equal(t, int64(10), sub.Wager)

	results, err := h.grading.GradeQuestion(ctx, q.ID, "Red")
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.True(t, results[0].Correct)
	require.Equal(t, int64(10), results[0].Delta)

	_, err = h.grading.GradeQuestion(ctx, q.ID, "Red")
	require.ErrorIs(t, err, grading.ErrAlreadyGraded)
	require.ErrorIs(t, err, ErrConflict)

	total, err := h.scoring.CurrentTotal(ctx, "team-tiki")
	require.NoError(t, err)
	require.Equal(t, int64(10), total)

	graded, err := h.wagers.ListByQuestion(ctx, q.ID)
	require.NoError(t, err)
	require.Len(t, graded, 1)
	require.True(t, graded[0].Graded)
	require.Equal(t, int64(10), *graded[0].AwardedPoints)

	available := h.publisher.ofType(notification.EventResultsAvailable)
	require.Len(t, available, 1)
	require.Equal(t, 1, available[0].GradedCount)
}

func TestWagerAndGrading_IncorrectAnswerCanGoNegative(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	q := instantiateTribeQuestion(t, h)

	_, err := h.wagers.SubmitAnswer(ctx, SubmitAnswerInput{TeamID: "team-idol", QuestionID: q.ID, Answer: "Blue", Wager: int64Ptr(7)})
	require.NoError(t, err)
	// Omitted wager stakes the point value.
	defaulted, err := h.wagers.SubmitAnswer(ctx, SubmitAnswerInput{TeamID: "team-buff", QuestionID: q.ID, Answer: "RED"})
	require.NoError(t, err)
	require.Equal(t, int64(5), defaulted.Wager)

	results, err := h.grading.GradeQuestion(ctx, q.ID, "red")
	require.NoError(t, err)
	require.Equal(t, int64(-2), grading.Total(results))

	idol, err := h.scoring.CurrentTotal(ctx, "team-idol")
	require.NoError(t, err)
	require.Equal(t, int64(-7), idol)

	board, err := h.scoring.Leaderboard(ctx, memory.LeagueSeasonIDDemo)
	require.NoError(t, err)
	require.Len(t, board, 4)
	require.Equal(t, "team-buff", board[0].TeamID)
	require.Equal(t, "team-tiki", board[1].TeamID)
	require.Equal(t, "team-snuf", board[2].TeamID)
	require.Equal(t, "team-idol", board[3].TeamID)
	require.Equal(t, 4, board[3].Rank)
}

func TestWagerService_SubmissionRejections(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	q := instantiateTribeQuestion(t, h)

	first, err := h.wagers.SubmitAnswer(ctx, SubmitAnswerInput{TeamID: "team-tiki", QuestionID: q.ID, Answer: "Red", Wager: int64Ptr(3)})
	require.NoError(t, err)

	tests := []struct {
		name  string
		input SubmitAnswerInput
		want  []error
	}{
		{"duplicate", SubmitAnswerInput{TeamID: "team-tiki", QuestionID: q.ID, Answer: "Blue"}, []error{ErrConflict, wager.ErrDuplicateSubmission}},
		{"not an option", SubmitAnswerInput{TeamID: "team-idol", QuestionID: q.ID, Answer: "Green"}, []error{ErrInvalidInput, wager.ErrInvalidOption}},
		{"negative wager", SubmitAnswerInput{TeamID: "team-idol", QuestionID: q.ID, Answer: "Red", Wager: int64Ptr(-1)}, []error{ErrInvalidInput, wager.ErrInvalidWager}},
		{"over cap", SubmitAnswerInput{TeamID: "team-idol", QuestionID: q.ID, Answer: "Red", Wager: int64Ptr(101)}, []error{ErrInvalidInput, wager.ErrInvalidWager}},
		{"empty answer", SubmitAnswerInput{TeamID: "team-idol", QuestionID: q.ID, Answer: "  "}, []error{ErrInvalidInput, wager.ErrEmptyAnswer}},
		{"unknown question", SubmitAnswerInput{TeamID: "team-idol", QuestionID: "q-missing", Answer: "Red"}, []error{ErrNotFound}},
		{"unknown team", SubmitAnswerInput{TeamID: "team-ghost", QuestionID: q.ID, Answer: "Red"}, []error{ErrNotFound}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := h.wagers.SubmitAnswer(ctx, tc.input)
			for _, want := range tc.want {
				require.ErrorIs(t, err, want)
			}
		})
	}

	stored, err := h.wagers.ListByTeam(ctx, "team-tiki")
	require.NoError(t, err)
	require.Len(t, stored, 1)
	require.Equal(t, first, stored[0])

	_, err = h.grading.GradeQuestion(ctx, q.ID, "Blue")
	require.NoError(t, err)

	_, err = h.wagers.SubmitAnswer(ctx, SubmitAnswerInput{TeamID: "team-snuf", QuestionID: q.ID, Answer: "Red"})
	require.ErrorIs(t, err, wager.ErrWindowClosed)
	require.ErrorIs(t, err, ErrState)
}

func TestGradingService_FillInTheBlankIsExactNormalizedMatch(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	q, err := h.questions.Instantiate(ctx, InstantiateInput{
		LeagueSeasonID: memory.LeagueSeasonIDDemo,
		Episode:        2,
		TemplateID:     "tpl-voted-out",
	})
	require.NoError(t, err)
	require.Equal(t, question.TypeFillInTheBlank, q.Type)

	_, err = h.wagers.SubmitAnswer(ctx, SubmitAnswerInput{TeamID: "team-tiki", QuestionID: q.ID, Answer: "  sue "})
	require.NoError(t, err)
	_, err = h.wagers.SubmitAnswer(ctx, SubmitAnswerInput{TeamID: "team-idol", QuestionID: q.ID, Answer: "Susan"})
	require.NoError(t, err)

	results, err := h.grading.GradeQuestion(ctx, q.ID, "Sue")
	require.NoError(t, err)
	require.Len(t, results, 2)
	require.True(t, results[0].Correct)
	require.False(t, results[1].Correct)
	require.Equal(t, int64(10), results[0].Delta)
	require.Equal(t, int64(-10), results[1].Delta)
}

func TestGradingService_Rejections(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	q := instantiateTribeQuestion(t, h)

	_, err := h.grading.GradeQuestion(ctx, "q-missing", "Red")
	require.ErrorIs(t, err, grading.ErrUnknownQuestion)
	require.ErrorIs(t, err, ErrNotFound)

	_, err = h.grading.GradeQuestion(ctx, q.ID, "Green")
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = h.grading.GradeQuestion(ctx, q.ID, " ")
	require.ErrorIs(t, err, grading.ErrCorrectAnswerRequired)

	// First grading of a question nobody answered closes its window.
	results, err := h.grading.GradeQuestion(ctx, q.ID, "Blue")
	require.NoError(t, err)
	require.Empty(t, results)

	_, err = h.grading.GradeQuestion(ctx, q.ID, "Red")
	require.ErrorIs(t, err, grading.ErrCorrectAnswerMismatch)
}

func TestGradingService_ConcurrentGradingAppliesDeltasOnce(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	q := instantiateTribeQuestion(t, h)

	for _, teamID := range demoTeams {
		_, err := h.wagers.SubmitAnswer(ctx, SubmitAnswerInput{TeamID: teamID, QuestionID: q.ID, Answer: "Red", Wager: int64Ptr(4)})
		require.NoError(t, err)
	}

	var (
		wg        sync.WaitGroup
		successes atomic.Int32
	)
	start := make(chan struct{})
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, err := h.grading.GradeQuestion(ctx, q.ID, "Red")
			switch {
			case err == nil:
				successes.Add(1)
			case errors.Is(err, grading.ErrAlreadyGraded):
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	close(start)
	wg.Wait()

	require.Equal(t, int32(1), successes.Load())
	for _, teamID := range demoTeams {
		total, err := h.scoring.CurrentTotal(ctx, teamID)
		require.NoError(t, err)
		require.Equal(t, int64(4), total, teamID)
	}
}
