package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/castaway-league/internal/domain/question"
	"github.com/riskibarqy/castaway-league/internal/domain/team"
	"github.com/riskibarqy/castaway-league/internal/domain/wager"
	"github.com/riskibarqy/castaway-league/internal/platform/id"
	"github.com/riskibarqy/castaway-league/internal/platform/logging"
)

type SubmitAnswerInput struct {
	TeamID     string
	QuestionID string
	Answer     string
	// Wager defaults to the question's point value when nil.
	Wager *int64
}

type WagerService struct {
	questionRepo   question.Repository
	teamRepo       team.Repository
	submissionRepo wager.Repository
	idGen          id.Generator
	logger         *logging.Logger
	now            func() time.Time
}

func NewWagerService(
	questionRepo question.Repository,
	teamRepo team.Repository,
	submissionRepo wager.Repository,
	idGen id.Generator,
	logger *logging.Logger,
) *WagerService {
	if logger == nil {
		logger = logging.Default()
	}
	if idGen == nil {
		idGen = id.NewTimeOrderedGenerator()
	}

	return &WagerService{
		questionRepo:   questionRepo,
		teamRepo:       teamRepo,
		submissionRepo: submissionRepo,
		idGen:          idGen,
		logger:         logger.Named("usecase.wager"),
		now:            time.Now,
	}
}

// SubmitAnswer records a team's single answer and stake for a question.
// The window and duplicate checks are repeated atomically by the
// repository, so the early checks here only shape the error message.
func (s *WagerService) SubmitAnswer(ctx context.Context, input SubmitAnswerInput) (_ wager.Submission, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.WagerService.SubmitAnswer")
	defer func() { endUsecaseSpan(span, err) }()

	input.TeamID = strings.TrimSpace(input.TeamID)
	input.QuestionID = strings.TrimSpace(input.QuestionID)
	if input.TeamID == "" || input.QuestionID == "" {
		return wager.Submission{}, fmt.Errorf("%w: team_id and question_id are required", ErrInvalidInput)
	}

	q, exists, err := s.questionRepo.GetByID(ctx, input.QuestionID)
	if err != nil {
		return wager.Submission{}, errors.Wrap(err, "get league question")
	}
	if !exists {
		return wager.Submission{}, fmt.Errorf("%w: question=%s", ErrNotFound, input.QuestionID)
	}

	entrant, exists, err := s.teamRepo.GetByID(ctx, input.TeamID)
	if err != nil {
		return wager.Submission{}, errors.Wrap(err, "get team")
	}
	if !exists {
		return wager.Submission{}, fmt.Errorf("%w: team=%s", ErrNotFound, input.TeamID)
	}
	if entrant.LeagueSeasonID != q.LeagueSeasonID {
		return wager.Submission{}, fmt.Errorf("%w: team %s is not part of league season %s", ErrUnauthorized, entrant.ID, q.LeagueSeasonID)
	}

	if q.IsGraded() {
		return wager.Submission{}, classify(fmt.Errorf("%w: question %s graded at %s", wager.ErrWindowClosed, q.ID, q.GradedAt.Format(time.RFC3339)))
	}

	answer, err := wager.ValidateAnswer(q, input.Answer)
	if err != nil {
		return wager.Submission{}, classify(err)
	}
	amount, err := wager.ResolveWager(input.Wager, q.PointValue, q.MaxWager)
	if err != nil {
		return wager.Submission{}, classify(err)
	}

	submissionID, err := s.idGen.NewID()
	if err != nil {
		return wager.Submission{}, errors.Wrap(err, "generate submission id")
	}
	item := wager.Submission{
		ID:             submissionID,
		LeagueSeasonID: q.LeagueSeasonID,
		QuestionID:     q.ID,
		TeamID:         entrant.ID,
		Answer:         answer,
		Wager:          amount,
		SubmittedAt:    s.now().UTC(),
	}
	if err := s.submissionRepo.Create(ctx, item); err != nil {
		if errors.Is(err, wager.ErrDuplicateSubmission) || errors.Is(err, wager.ErrWindowClosed) {
			return wager.Submission{}, classify(err)
		}
		return wager.Submission{}, errors.Wrap(err, "create submission")
	}

	s.logger.InfoContext(ctx, "submission accepted",
		"submission_id", item.ID,
		"question_id", item.QuestionID,
		"team_id", item.TeamID,
		"wager", item.Wager,
	)
	return item, nil
}

func (s *WagerService) ListByQuestion(ctx context.Context, questionID string) ([]wager.Submission, error) {
	questionID = strings.TrimSpace(questionID)
	if questionID == "" {
		return nil, fmt.Errorf("%w: question_id is required", ErrInvalidInput)
	}

	_, exists, err := s.questionRepo.GetByID(ctx, questionID)
	if err != nil {
		return nil, errors.Wrap(err, "get league question")
	}
	if !exists {
		return nil, fmt.Errorf("%w: question=%s", ErrNotFound, questionID)
	}

	items, err := s.submissionRepo.ListByQuestion(ctx, questionID)
	if err != nil {
		return nil, errors.Wrap(err, "list submissions by question")
	}
	return items, nil
}

func (s *WagerService) ListByTeam(ctx context.Context, teamID string) ([]wager.Submission, error) {
	teamID = strings.TrimSpace(teamID)
	if teamID == "" {
		return nil, fmt.Errorf("%w: team_id is required", ErrInvalidInput)
	}

	_, exists, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		return nil, errors.Wrap(err, "get team")
	}
	if !exists {
		return nil, fmt.Errorf("%w: team=%s", ErrNotFound, teamID)
	}

	items, err := s.submissionRepo.ListByTeam(ctx, teamID)
	if err != nil {
		return nil, errors.Wrap(err, "list submissions by team")
	}
	return items, nil
}
