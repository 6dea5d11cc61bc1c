package app

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/redis/go-redis/v9"

	"github.com/riskibarqy/castaway-league/internal/config"
	"github.com/riskibarqy/castaway-league/internal/domain/notification"
	"github.com/riskibarqy/castaway-league/internal/domain/scoring"
	notify "github.com/riskibarqy/castaway-league/internal/infrastructure/notification"
	rediscache "github.com/riskibarqy/castaway-league/internal/infrastructure/repository/redis"
	"github.com/riskibarqy/castaway-league/internal/platform/logging"
	"github.com/riskibarqy/castaway-league/internal/platform/resilience"
)

const redisPingTimeout = 3 * time.Second

// newPublisher puts the webhook client, or a log sink when delivery is
// disabled, behind the async dispatcher.
func newPublisher(cfg config.Config, logger *logging.Logger) (*notify.Dispatcher, error) {
	var sink notification.Publisher = notify.NewLogPublisher(logger)
	if cfg.NotifyEnabled {
		webhook, err := notify.NewWebhookPublisher(notify.WebhookConfig{
			BaseURL: cfg.NotifyBaseURL,
			Token:   cfg.NotifyToken,
			Timeout: cfg.NotifyTimeout,
			CircuitBreaker: resilience.CircuitBreakerConfig{
				Enabled:          cfg.NotifyCircuitEnabled,
				FailureThreshold: cfg.NotifyCircuitFailureCount,
				OpenTimeout:      cfg.NotifyCircuitOpenTimeout,
				HalfOpenMaxReq:   cfg.NotifyCircuitHalfOpenMaxReq,
			},
		}, nil, logger)
		if err != nil {
			return nil, err
		}
		sink = webhook
	}

	dispatcher, err := notify.NewDispatcher(sink, notify.DispatcherConfig{
		Workers:        cfg.NotifyWorkers,
		PublishTimeout: cfg.NotifyTimeout,
		Retry: resilience.RetryConfig{
			MaxAttempts: 3,
			BaseDelay:   200 * time.Millisecond,
			MaxDelay:    2 * time.Second,
		},
	}, logger)
	if err != nil {
		return nil, err
	}

	logger.Info("notification publisher ready",
		"webhook_enabled", cfg.NotifyEnabled,
		"workers", cfg.NotifyWorkers,
	)
	return dispatcher, nil
}

// newLeaderboardCache returns nil when Redis is disabled; the scoring and
// grading services treat a nil cache as "always recompute".
func newLeaderboardCache(ctx context.Context, cfg config.Config, logger *logging.Logger) (scoring.LeaderboardCache, func() error, error) {
	if !cfg.RedisEnabled {
		return nil, func() error { return nil }, nil
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, nil, errors.Wrap(err, "parse REDIS_URL")
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, errors.Wrap(err, "ping redis")
	}

	logger.Info("leaderboard cache enabled", "addr", opts.Addr, "ttl", cfg.LeaderboardCacheTTL.String())
	return rediscache.NewLeaderboardCache(client, cfg.LeaderboardCacheTTL), client.Close, nil
}
