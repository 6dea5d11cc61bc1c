package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/castaway-league/internal/domain/league"
	"github.com/riskibarqy/castaway-league/internal/domain/notification"
	"github.com/riskibarqy/castaway-league/internal/domain/question"
	"github.com/riskibarqy/castaway-league/internal/domain/wager"
	"github.com/riskibarqy/castaway-league/internal/platform/id"
	"github.com/riskibarqy/castaway-league/internal/platform/logging"
	"github.com/sourcegraph/conc/pool"
)

type QuestionConfig struct {
	// MaxWagerPerQuestion caps stakes on new questions. Zero means uncapped.
	MaxWagerPerQuestion int64
	BatchWorkers        int
}

type QuestionContentInput struct {
	Text    string
	Type    string
	Options []string
	// PointValue defaults to question.DefaultPointValue when zero.
	PointValue int64
}

type InstantiateInput struct {
	LeagueSeasonID string
	Episode        int
	// Exactly one of TemplateID and Inline is set.
	TemplateID string
	Inline     *QuestionContentInput
	PointValue *int64
	SortOrder  *int
}

type CreateFromTemplatesInput struct {
	LeagueSeasonID string
	Episode        int
	TemplateIDs    []string
}

type QuestionService struct {
	templateRepo question.TemplateRepository
	questionRepo question.Repository
	leagueRepo   league.Repository
	events       eventEmitter
	idGen        id.Generator
	cfg          QuestionConfig
	logger       *logging.Logger
	now          func() time.Time
}

func NewQuestionService(
	templateRepo question.TemplateRepository,
	questionRepo question.Repository,
	leagueRepo league.Repository,
	publisher notification.Publisher,
	idGen id.Generator,
	cfg QuestionConfig,
	logger *logging.Logger,
) *QuestionService {
	if logger == nil {
		logger = logging.Default()
	}
	if idGen == nil {
		idGen = id.NewTimeOrderedGenerator()
	}
	if cfg.BatchWorkers < 1 {
		cfg.BatchWorkers = 1
	}

	return &QuestionService{
		templateRepo: templateRepo,
		questionRepo: questionRepo,
		leagueRepo:   leagueRepo,
		events:       newEventEmitter(publisher, idGen, logger),
		idGen:        idGen,
		cfg:          cfg,
		logger:       logger.Named("usecase.question"),
		now:          time.Now,
	}
}

func (s *QuestionService) CreateTemplate(ctx context.Context, input QuestionContentInput) (question.Template, error) {
	content, err := buildContent(input)
	if err != nil {
		return question.Template{}, err
	}

	templateID, err := s.idGen.NewID()
	if err != nil {
		return question.Template{}, errors.Wrap(err, "generate template id")
	}
	item := question.Template{
		ID:        templateID,
		Content:   content,
		CreatedAt: s.now().UTC(),
	}
	if err := item.Validate(); err != nil {
		return question.Template{}, classify(err)
	}
	if err := s.templateRepo.CreateTemplate(ctx, item); err != nil {
		return question.Template{}, errors.Wrap(err, "create question template")
	}

	s.logger.InfoContext(ctx, "question template created", "template_id", item.ID, "type", string(item.Type))
	return item, nil
}

func (s *QuestionService) GetTemplate(ctx context.Context, templateID string) (question.Template, error) {
	templateID = strings.TrimSpace(templateID)
	if templateID == "" {
		return question.Template{}, fmt.Errorf("%w: template_id is required", ErrInvalidInput)
	}

	item, exists, err := s.templateRepo.GetTemplate(ctx, templateID)
	if err != nil {
		return question.Template{}, errors.Wrap(err, "get question template")
	}
	if !exists {
		return question.Template{}, classify(fmt.Errorf("%w: template=%s", question.ErrTemplateNotFound, templateID))
	}
	return item, nil
}

func (s *QuestionService) ListTemplates(ctx context.Context) ([]question.Template, error) {
	items, err := s.templateRepo.ListTemplates(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list question templates")
	}
	return items, nil
}

// Instantiate creates one league question, copying template content at
// this moment. Later template edits do not reach the instance.
func (s *QuestionService) Instantiate(ctx context.Context, input InstantiateInput) (_ question.LeagueQuestion, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.QuestionService.Instantiate")
	defer func() { endUsecaseSpan(span, err) }()

	input.LeagueSeasonID = strings.TrimSpace(input.LeagueSeasonID)
	input.TemplateID = strings.TrimSpace(input.TemplateID)
	if err := s.validateTarget(ctx, input.LeagueSeasonID, input.Episode); err != nil {
		return question.LeagueQuestion{}, err
	}

	var content question.Content
	switch {
	case input.TemplateID != "" && input.Inline != nil:
		return question.LeagueQuestion{}, fmt.Errorf("%w: template_id and inline question are mutually exclusive", ErrInvalidInput)
	case input.TemplateID != "":
		tmpl, err := s.GetTemplate(ctx, input.TemplateID)
		if err != nil {
			return question.LeagueQuestion{}, err
		}
		content = question.Snapshot(tmpl)
	case input.Inline != nil:
		content, err = buildContent(*input.Inline)
		if err != nil {
			return question.LeagueQuestion{}, err
		}
	default:
		return question.LeagueQuestion{}, fmt.Errorf("%w: template_id or inline question is required", ErrInvalidInput)
	}
	if input.PointValue != nil {
		if *input.PointValue < 1 {
			return question.LeagueQuestion{}, classify(fmt.Errorf("%w: got %d", question.ErrInvalidPointValue, *input.PointValue))
		}
		content.PointValue = *input.PointValue
	}

	sortOrder := 0
	if input.SortOrder != nil {
		sortOrder = *input.SortOrder
	} else {
		maxSort, err := s.questionRepo.MaxSortOrder(ctx, input.LeagueSeasonID, input.Episode)
		if err != nil {
			return question.LeagueQuestion{}, errors.Wrap(err, "get max sort order")
		}
		sortOrder = maxSort + 1
	}

	item, err := s.newLeagueQuestion(input.LeagueSeasonID, input.Episode, input.TemplateID, content, sortOrder)
	if err != nil {
		return question.LeagueQuestion{}, err
	}
	if err := s.questionRepo.Create(ctx, item); err != nil {
		return question.LeagueQuestion{}, errors.Wrap(err, "create league question")
	}

	s.logger.InfoContext(ctx, "league question instantiated",
		"question_id", item.ID,
		"league_season_id", item.LeagueSeasonID,
		"episode", item.Episode,
		"template_id", item.TemplateID,
	)
	return item, nil
}

// CreateFromTemplates instantiates every template or none. All failing
// templates are reported together in a question.BatchError.
func (s *QuestionService) CreateFromTemplates(ctx context.Context, input CreateFromTemplatesInput) (_ []question.LeagueQuestion, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.QuestionService.CreateFromTemplates")
	defer func() { endUsecaseSpan(span, err) }()

	input.LeagueSeasonID = strings.TrimSpace(input.LeagueSeasonID)
	if len(input.TemplateIDs) == 0 {
		return nil, fmt.Errorf("%w: template_ids is required", ErrInvalidInput)
	}
	if err := s.validateTarget(ctx, input.LeagueSeasonID, input.Episode); err != nil {
		return nil, err
	}

	maxSort, err := s.questionRepo.MaxSortOrder(ctx, input.LeagueSeasonID, input.Episode)
	if err != nil {
		return nil, errors.Wrap(err, "get max sort order")
	}

	built := make([]question.LeagueQuestion, len(input.TemplateIDs))
	failures := make([]error, len(input.TemplateIDs))
	p := pool.New().WithMaxGoroutines(s.cfg.BatchWorkers)
	for i, rawID := range input.TemplateIDs {
		p.Go(func() {
			templateID := strings.TrimSpace(rawID)
			tmpl, err := s.GetTemplate(ctx, templateID)
			if err != nil {
				failures[i] = err
				return
			}
			built[i], failures[i] = s.newLeagueQuestion(input.LeagueSeasonID, input.Episode, templateID, question.Snapshot(tmpl), maxSort+i+1)
		})
	}
	p.Wait()

	var batchErr question.BatchError
	for i, failure := range failures {
		if failure != nil {
			batchErr.Failures = append(batchErr.Failures, question.BatchFailure{
				Index:      i,
				TemplateID: strings.TrimSpace(input.TemplateIDs[i]),
				Err:        failure,
			})
		}
	}
	if len(batchErr.Failures) > 0 {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, &batchErr)
	}

	if err := s.questionRepo.CreateBatch(ctx, built); err != nil {
		return nil, errors.Wrap(err, "create league questions batch")
	}

	s.logger.InfoContext(ctx, "league questions instantiated from templates",
		"league_season_id", input.LeagueSeasonID,
		"episode", input.Episode,
		"count", len(built),
	)
	return built, nil
}

func (s *QuestionService) GetQuestion(ctx context.Context, questionID string) (question.LeagueQuestion, error) {
	questionID = strings.TrimSpace(questionID)
	if questionID == "" {
		return question.LeagueQuestion{}, fmt.Errorf("%w: question_id is required", ErrInvalidInput)
	}

	item, exists, err := s.questionRepo.GetByID(ctx, questionID)
	if err != nil {
		return question.LeagueQuestion{}, errors.Wrap(err, "get league question")
	}
	if !exists {
		return question.LeagueQuestion{}, fmt.Errorf("%w: question=%s", ErrNotFound, questionID)
	}
	return item, nil
}

func (s *QuestionService) ListEpisodeQuestions(ctx context.Context, leagueSeasonID string, episode int) ([]question.LeagueQuestion, error) {
	leagueSeasonID = strings.TrimSpace(leagueSeasonID)
	if err := s.validateTarget(ctx, leagueSeasonID, episode); err != nil {
		return nil, err
	}

	items, err := s.questionRepo.ListByEpisode(ctx, leagueSeasonID, episode)
	if err != nil {
		return nil, errors.Wrap(err, "list episode questions")
	}
	return items, nil
}

// AnnounceWindowClosing emits one window-closing event listing the
// episode's ungraded questions. The airing scheduler decides when.
func (s *QuestionService) AnnounceWindowClosing(ctx context.Context, leagueSeasonID string, episode int) (notification.Event, error) {
	items, err := s.ListEpisodeQuestions(ctx, leagueSeasonID, episode)
	if err != nil {
		return notification.Event{}, err
	}
	if len(items) == 0 {
		return notification.Event{}, fmt.Errorf("%w: no questions for league_season=%s episode=%d", ErrNotFound, leagueSeasonID, episode)
	}

	open := make([]string, 0, len(items))
	for _, item := range items {
		if !item.IsGraded() {
			open = append(open, item.ID)
		}
	}
	if len(open) == 0 {
		return notification.Event{}, classify(fmt.Errorf("%w: every question of episode %d is graded", wager.ErrWindowClosed, episode))
	}

	event := s.events.stamp(notification.Event{
		Type:           notification.EventQuestionWindowClosing,
		LeagueSeasonID: strings.TrimSpace(leagueSeasonID),
		Episode:        episode,
		QuestionIDs:    open,
		OccurredAt:     s.now().UTC(),
	})
	if err := s.events.publisher.Publish(ctx, event); err != nil {
		return notification.Event{}, fmt.Errorf("%w: publish window closing: %w", ErrDependencyUnavailable, err)
	}

	s.logger.InfoContext(ctx, "question window closing announced",
		"league_season_id", event.LeagueSeasonID,
		"episode", episode,
		"open_questions", len(open),
	)
	return event, nil
}

func (s *QuestionService) validateTarget(ctx context.Context, leagueSeasonID string, episode int) error {
	if leagueSeasonID == "" {
		return fmt.Errorf("%w: league_season_id is required", ErrInvalidInput)
	}
	if episode < 1 {
		return classify(fmt.Errorf("%w: got %d", question.ErrInvalidEpisode, episode))
	}

	_, exists, err := s.leagueRepo.GetByID(ctx, leagueSeasonID)
	if err != nil {
		return errors.Wrap(err, "get league season")
	}
	if !exists {
		return fmt.Errorf("%w: league_season=%s", ErrNotFound, leagueSeasonID)
	}
	return nil
}

func (s *QuestionService) newLeagueQuestion(leagueSeasonID string, episode int, templateID string, content question.Content, sortOrder int) (question.LeagueQuestion, error) {
	questionID, err := s.idGen.NewID()
	if err != nil {
		return question.LeagueQuestion{}, errors.Wrap(err, "generate question id")
	}

	item := question.LeagueQuestion{
		ID:             questionID,
		LeagueSeasonID: leagueSeasonID,
		Episode:        episode,
		TemplateID:     templateID,
		Content:        content,
		MaxWager:       s.cfg.MaxWagerPerQuestion,
		SortOrder:      sortOrder,
		CreatedAt:      s.now().UTC(),
	}
	if err := item.Validate(); err != nil {
		return question.LeagueQuestion{}, classify(err)
	}
	return item, nil
}

func buildContent(input QuestionContentInput) (question.Content, error) {
	kind, err := question.ParseType(input.Type)
	if err != nil {
		return question.Content{}, classify(err)
	}

	pointValue := input.PointValue
	if pointValue == 0 {
		pointValue = question.DefaultPointValue
	}
	content := question.Content{
		Text:       input.Text,
		Type:       kind,
		Options:    input.Options,
		PointValue: pointValue,
	}.Clean()
	if err := content.Validate(); err != nil {
		return question.Content{}, classify(err)
	}
	return content, nil
}
