package usecase

import (
	"context"
	"sync"
	"testing"

	"github.com/riskibarqy/castaway-league/internal/domain/notification"
	"github.com/riskibarqy/castaway-league/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/castaway-league/internal/platform/id"
	"github.com/riskibarqy/castaway-league/internal/platform/logging"
	"github.com/riskibarqy/castaway-league/internal/platform/resilience"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []notification.Event
}

func (p *recordingPublisher) Publish(_ context.Context, event notification.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) ofType(eventType notification.EventType) []notification.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]notification.Event, 0)
	for _, event := range p.events {
		if event.Type == eventType {
			out = append(out, event)
		}
	}
	return out
}

type harness struct {
	store     *memory.Store
	publisher *recordingPublisher
	drafts    *DraftService
	questions *QuestionService
	wagers    *WagerService
	grading   *GradingService
	scoring   *ScoringService
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	store := memory.NewStore()
	store.Load(memory.DemoSeed())
	publisher := &recordingPublisher{}
	idGen := id.NewTimeOrderedGenerator()
	logger := logging.NewNop()

	leagueRepo := memory.NewLeagueSeasonRepository(store)
	teamRepo := memory.NewTeamRepository(store)
	questionRepo := memory.NewQuestionRepository(store)
	scoringRepo := memory.NewScoringRepository(store)

	return &harness{
		store:     store,
		publisher: publisher,
		drafts: NewDraftService(
			leagueRepo,
			teamRepo,
			memory.NewCastawayRepository(store),
			memory.NewDraftRepository(store),
			memory.NewAssignmentRepository(store),
			publisher,
			idGen,
			DraftConfig{
				DefaultStrategy:   "snake",
				DefaultRosterSize: 2,
				PickRetry:         resilience.RetryConfig{MaxAttempts: 5},
			},
			logger,
		),
		questions: NewQuestionService(
			memory.NewQuestionTemplateRepository(store),
			questionRepo,
			leagueRepo,
			publisher,
			idGen,
			QuestionConfig{MaxWagerPerQuestion: 100, BatchWorkers: 4},
			logger,
		),
		wagers:  NewWagerService(questionRepo, teamRepo, memory.NewSubmissionRepository(store), idGen, logger),
		grading: NewGradingService(memory.NewGradingRepository(store), nil, publisher, idGen, logger),
		scoring: NewScoringService(leagueRepo, teamRepo, scoringRepo, nil, logger),
	}
}

func int64Ptr(v int64) *int64 {
	return &v
}
