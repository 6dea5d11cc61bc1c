package notification

import (
	"context"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/panjf2000/ants/v2"

	"github.com/riskibarqy/castaway-league/internal/domain/notification"
	"github.com/riskibarqy/castaway-league/internal/platform/logging"
	"github.com/riskibarqy/castaway-league/internal/platform/resilience"
)

var ErrDispatcherClosed = errors.New("notification dispatcher closed")

type DispatcherConfig struct {
	Workers        int
	PublishTimeout time.Duration
	Retry          resilience.RetryConfig
}

// Dispatcher hands events to next on an ants worker pool, so request
// handlers never wait on delivery. Publish fails fast when every worker
// is busy.
type Dispatcher struct {
	next    notification.Publisher
	pool    *ants.Pool
	timeout time.Duration
	retry   resilience.RetryConfig
	logger  *logging.Logger

	mu       sync.RWMutex
	closed   bool
	inFlight sync.WaitGroup
}

func NewDispatcher(next notification.Publisher, cfg DispatcherConfig, logger *logging.Logger) (*Dispatcher, error) {
	if next == nil {
		return nil, errors.New("next publisher is required")
	}
	workers := cfg.Workers
	if workers < 1 {
		workers = 4
	}
	timeout := cfg.PublishTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = logging.Default()
	}

	pool, err := ants.NewPool(workers, ants.WithNonblocking(true))
	if err != nil {
		return nil, errors.Wrap(err, "create notification worker pool")
	}

	return &Dispatcher{
		next:    next,
		pool:    pool,
		timeout: timeout,
		retry:   resilience.NormalizeRetryConfig(cfg.Retry),
		logger:  logger.Named("notification.dispatcher"),
	}, nil
}

func (d *Dispatcher) Publish(ctx context.Context, event notification.Event) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return ErrDispatcherClosed
	}

	// Delivery outlives the request; keep its values (trace) but not its deadline.
	taskCtx := context.WithoutCancel(ctx)
	d.inFlight.Add(1)
	if err := d.pool.Submit(func() {
		defer d.inFlight.Done()
		d.deliver(taskCtx, event)
	}); err != nil {
		d.inFlight.Done()
		return errors.Wrap(err, "submit notification event")
	}
	return nil
}

func (d *Dispatcher) deliver(ctx context.Context, event notification.Event) {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	err := resilience.Retry(ctx, d.retry, isTransient, func(ctx context.Context, attempt int) error {
		if attempt > 1 {
			d.logger.DebugContext(ctx, "retrying notification event", "event_type", string(event.Type), "attempt", attempt)
		}
		return d.next.Publish(ctx, event)
	})
	if err != nil {
		d.logger.WarnContext(ctx, "notification event dropped",
			"event_type", string(event.Type),
			"event_id", event.ID,
			"league_season_id", event.LeagueSeasonID,
			"error", err,
		)
	}
}

// Close stops accepting events and waits for in-flight deliveries until ctx ends.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.closed = true
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.inFlight.Wait()
		close(done)
	}()

	select {
	case <-done:
		d.pool.Release()
		return nil
	case <-ctx.Done():
		d.pool.Release()
		return errors.Wrap(ctx.Err(), "wait for notification deliveries")
	}
}
