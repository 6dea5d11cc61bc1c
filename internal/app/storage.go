package app

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/castaway-league/internal/config"
	"github.com/riskibarqy/castaway-league/internal/domain/assignment"
	"github.com/riskibarqy/castaway-league/internal/domain/castaway"
	"github.com/riskibarqy/castaway-league/internal/domain/draft"
	"github.com/riskibarqy/castaway-league/internal/domain/grading"
	"github.com/riskibarqy/castaway-league/internal/domain/league"
	"github.com/riskibarqy/castaway-league/internal/domain/question"
	"github.com/riskibarqy/castaway-league/internal/domain/scoring"
	"github.com/riskibarqy/castaway-league/internal/domain/team"
	"github.com/riskibarqy/castaway-league/internal/domain/wager"
	"github.com/riskibarqy/castaway-league/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/castaway-league/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/castaway-league/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/castaway-league/internal/platform/logging"
)

// repositories is the full set of storage ports one driver provides.
type repositories struct {
	leagues     league.Repository
	teams       team.Repository
	castaways   castaway.Repository
	drafts      draft.Repository
	ledger      assignment.Ledger
	templates   question.TemplateRepository
	questions   question.Repository
	submissions wager.Repository
	settler     grading.Settler
	scoring     scoring.Repository

	close func() error
}

func newRepositories(ctx context.Context, cfg config.Config, logger *logging.Logger) (repositories, error) {
	var (
		repos repositories
		err   error
	)
	switch cfg.StorageDriver {
	case config.StorageDriverMemory:
		repos = newMemoryRepositories(memory.DemoSeed())
		logger.Info("storage driver selected", "driver", cfg.StorageDriver)
	case config.StorageDriverPostgres:
		repos, err = newPostgresRepositories(ctx, cfg)
		if err != nil {
			return repositories{}, err
		}
		logger.Info("storage driver selected", "driver", cfg.StorageDriver, "db", dbNameFromURL(cfg.DBURL))
	default:
		return repositories{}, errors.Newf("unsupported storage driver %q", cfg.StorageDriver)
	}

	if cfg.CacheEnabled {
		repos.leagues = cache.NewLeagueSeasonRepository(repos.leagues, cfg.CacheTTL)
		repos.templates = cache.NewTemplateRepository(repos.templates, cfg.CacheTTL)
	}
	return repos, nil
}

func newMemoryRepositories(seed memory.Seed) repositories {
	store := memory.NewStore()
	store.Load(seed)

	return repositories{
		leagues:     memory.NewLeagueSeasonRepository(store),
		teams:       memory.NewTeamRepository(store),
		castaways:   memory.NewCastawayRepository(store),
		drafts:      memory.NewDraftRepository(store),
		ledger:      memory.NewAssignmentRepository(store),
		templates:   memory.NewQuestionTemplateRepository(store),
		questions:   memory.NewQuestionRepository(store),
		submissions: memory.NewSubmissionRepository(store),
		settler:     memory.NewGradingRepository(store),
		scoring:     memory.NewScoringRepository(store),
		close:       func() error { return nil },
	}
}

func newPostgresRepositories(ctx context.Context, cfg config.Config) (repositories, error) {
	db, err := openDB(ctx, cfg)
	if err != nil {
		return repositories{}, err
	}
	if cfg.AppEnv == config.EnvDev {
		if err := postgres.BootstrapSeed(ctx, db, memory.DemoSeed()); err != nil {
			_ = db.Close()
			return repositories{}, errors.Wrap(err, "bootstrap demo seed")
		}
	}

	return postgresRepositories(db), nil
}

func postgresRepositories(db *sqlx.DB) repositories {
	return repositories{
		leagues:     postgres.NewLeagueSeasonRepository(db),
		teams:       postgres.NewTeamRepository(db),
		castaways:   postgres.NewCastawayRepository(db),
		drafts:      postgres.NewDraftRepository(db),
		ledger:      postgres.NewAssignmentRepository(db),
		templates:   postgres.NewQuestionTemplateRepository(db),
		questions:   postgres.NewQuestionRepository(db),
		submissions: postgres.NewSubmissionRepository(db),
		settler:     postgres.NewGradingRepository(db),
		scoring:     postgres.NewScoringRepository(db),
		close:       db.Close,
	}
}
