package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/riskibarqy/castaway-league/internal/config"
	"github.com/riskibarqy/castaway-league/internal/interfaces/httpapi"
	idgen "github.com/riskibarqy/castaway-league/internal/platform/id"
	"github.com/riskibarqy/castaway-league/internal/platform/logging"
	"github.com/riskibarqy/castaway-league/internal/platform/resilience"
	"github.com/riskibarqy/castaway-league/internal/usecase"
)

// App is the assembled API process: the HTTP server plus the resources that
// must be released after it stops.
type App struct {
	Server *http.Server

	closers []func(context.Context) error
}

func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	a := &App{}
	ok := false
	defer func() {
		if !ok {
			_ = a.Close(context.Background())
		}
	}()

	repos, err := newRepositories(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, func(context.Context) error { return repos.close() })

	leaderboard, closeRedis, err := newLeaderboardCache(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, func(context.Context) error { return closeRedis() })

	publisher, err := newPublisher(cfg, logger)
	if err != nil {
		return nil, err
	}
	// Drain queued notifications before the stores go away.
	a.closers = append([]func(context.Context) error{publisher.Close}, a.closers...)

	ids := idgen.NewTimeOrderedGenerator()

	draftSvc := usecase.NewDraftService(
		repos.leagues,
		repos.teams,
		repos.castaways,
		repos.drafts,
		repos.ledger,
		publisher,
		ids,
		usecase.DraftConfig{
			DefaultStrategy:   cfg.DraftDefaultStrategy,
			DefaultRosterSize: cfg.DraftDefaultRosterSize,
			PickRetry: resilience.RetryConfig{
				MaxAttempts: cfg.DraftPickMaxRetries,
				BaseDelay:   5 * time.Millisecond,
				MaxDelay:    50 * time.Millisecond,
			},
		},
		logger,
	)
	questionSvc := usecase.NewQuestionService(
		repos.templates,
		repos.questions,
		repos.leagues,
		publisher,
		ids,
		usecase.QuestionConfig{
			MaxWagerPerQuestion: cfg.WagerMaxPerQuestion,
			BatchWorkers:        cfg.TemplateBatchWorkers,
		},
		logger,
	)
	wagerSvc := usecase.NewWagerService(repos.questions, repos.teams, repos.submissions, ids, logger)
	gradingSvc := usecase.NewGradingService(repos.settler, leaderboard, publisher, ids, logger)
	scoringSvc := usecase.NewScoringService(repos.leagues, repos.teams, repos.scoring, leaderboard, logger)

	handler := httpapi.NewHandler(draftSvc, questionSvc, wagerSvc, gradingSvc, scoringSvc, logger)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins, cfg.InternalJobToken)

	a.Server = &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
	}

	ok = true
	return a, nil
}

// Close releases resources in registration order and reports every failure.
func (a *App) Close(ctx context.Context) error {
	var errs error
	for _, closeFn := range a.closers {
		if err := closeFn(ctx); err != nil {
			errs = errors.CombineErrors(errs, err)
		}
	}
	a.closers = nil
	return errs
}
