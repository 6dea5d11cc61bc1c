package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/castaway-league/internal/domain/grading"
	"github.com/riskibarqy/castaway-league/internal/domain/notification"
	"github.com/riskibarqy/castaway-league/internal/domain/question"
	"github.com/riskibarqy/castaway-league/internal/domain/scoring"
	"github.com/riskibarqy/castaway-league/internal/domain/wager"
	"github.com/riskibarqy/castaway-league/internal/platform/id"
	"github.com/riskibarqy/castaway-league/internal/platform/logging"
)

type GradingService struct {
	settler     grading.Settler
	leaderboard scoring.LeaderboardCache
	events      eventEmitter
	logger      *logging.Logger
	now         func() time.Time
}

// NewGradingService builds the grading engine. leaderboard may be nil.
func NewGradingService(
	settler grading.Settler,
	leaderboard scoring.LeaderboardCache,
	publisher notification.Publisher,
	idGen id.Generator,
	logger *logging.Logger,
) *GradingService {
	if logger == nil {
		logger = logging.Default()
	}
	if idGen == nil {
		idGen = id.NewTimeOrderedGenerator()
	}

	return &GradingService{
		settler:     settler,
		leaderboard: leaderboard,
		events:      newEventEmitter(publisher, idGen, logger),
		logger:      logger.Named("usecase.grading"),
		now:         time.Now,
	}
}

// GradeQuestion settles every ungraded submission of a question against
// correctAnswer and applies the deltas to team totals in one atomic unit.
// Re-running it never re-applies a delta; with nothing left to grade it
// fails with grading.ErrAlreadyGraded.
func (s *GradingService) GradeQuestion(ctx context.Context, questionID, correctAnswer string) (_ []grading.Result, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GradingService.GradeQuestion")
	defer func() { endUsecaseSpan(span, err) }()

	questionID = strings.TrimSpace(questionID)
	if questionID == "" {
		return nil, fmt.Errorf("%w: question_id is required", ErrInvalidInput)
	}

	results, graded, err := s.settler.Settle(ctx, questionID, s.now().UTC(), func(q question.LeagueQuestion, submissions []wager.Submission) (string, []grading.Result, error) {
		correct, err := grading.ResolveCorrectAnswer(q, correctAnswer)
		if err != nil {
			return "", nil, err
		}
		planned, err := grading.Plan(q, submissions, correct)
		if err != nil {
			return "", nil, err
		}
		return correct, planned, nil
	})
	if err != nil {
		if errors.Is(err, grading.ErrAlreadyGraded) {
			s.logger.WarnContext(ctx, "grading found nothing to settle", "question_id", questionID)
		}
		if classified := classify(err); classified != err {
			return nil, classified
		}
		return nil, errors.Wrap(err, "settle question")
	}

	if s.leaderboard != nil {
		if err := s.leaderboard.Invalidate(ctx, graded.LeagueSeasonID); err != nil {
			s.logger.WarnContext(ctx, "invalidate leaderboard cache failed", "league_season_id", graded.LeagueSeasonID, "error", err)
		}
	}

	s.logger.InfoContext(ctx, "question graded",
		"question_id", graded.ID,
		"league_season_id", graded.LeagueSeasonID,
		"graded", len(results),
		"net_delta", grading.Total(results),
	)
	s.events.emit(ctx, notification.Event{
		Type:           notification.EventResultsAvailable,
		LeagueSeasonID: graded.LeagueSeasonID,
		Episode:        graded.Episode,
		QuestionIDs:    []string{graded.ID},
		GradedCount:    len(results),
		OccurredAt:     s.now().UTC(),
	})

	return results, nil
}
