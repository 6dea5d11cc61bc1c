package notification

import (
	"context"
	"net/url"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"
	"github.com/valyala/fasthttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/riskibarqy/castaway-league/internal/domain/notification"
	"github.com/riskibarqy/castaway-league/internal/platform/logging"
	"github.com/riskibarqy/castaway-league/internal/platform/resilience"
)

var errWebhookTransient = errors.New("notification webhook transient failure")

type WebhookConfig struct {
	BaseURL        string
	Token          string
	Timeout        time.Duration
	CircuitBreaker resilience.CircuitBreakerConfig
}

// WebhookPublisher posts events to the notification collaborator:
// POST {BaseURL}/v1/events/{type} with the event as JSON body.
type WebhookPublisher struct {
	client  *fasthttp.Client
	baseURL string
	token   string
	timeout time.Duration
	breaker *resilience.CircuitBreaker
	logger  *logging.Logger
}

// NewWebhookPublisher validates BaseURL. client may be nil; tests pass one
// dialing an in-memory listener.
func NewWebhookPublisher(cfg WebhookConfig, client *fasthttp.Client, logger *logging.Logger) (*WebhookPublisher, error) {
	baseURL, err := validateHTTPBaseURL(cfg.BaseURL)
	if err != nil {
		return nil, errors.Wrap(err, "invalid NOTIFY_BASE_URL")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if client == nil {
		client = &fasthttp.Client{
			Name:                "castaway-league-notify",
			ReadTimeout:         timeout,
			WriteTimeout:        timeout,
			MaxIdleConnDuration: time.Minute,
		}
	}
	if logger == nil {
		logger = logging.Default()
	}

	breaker := resilience.NewCircuitBreaker(cfg.CircuitBreaker)
	named := logger.Named("notification.webhook")
	breaker.OnStateChange(func(from, to resilience.CircuitState) {
		named.Warn("notification circuit state changed", "from", string(from), "to", string(to))
	})

	return &WebhookPublisher{
		client:  client,
		baseURL: baseURL,
		token:   strings.TrimSpace(cfg.Token),
		timeout: timeout,
		breaker: breaker,
		logger:  named,
	}, nil
}

func (p *WebhookPublisher) Publish(ctx context.Context, event notification.Event) error {
	if err := ctx.Err(); err != nil {
		return errors.Wrap(err, "publish notification")
	}

	body, err := sonic.Marshal(event)
	if err != nil {
		return errors.Wrap(err, "marshal notification event")
	}
	endpoint := p.eventURL(event.Type)

	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.SetAttributes(
			attribute.String("notification.url", endpoint),
			attribute.String("notification.event_type", string(event.Type)),
			attribute.String("notification.event_id", event.ID),
		)
	}

	err = p.breaker.Execute(ctx, isTransient, func(ctx context.Context) error {
		return p.post(ctx, endpoint, event, body)
	})
	if err != nil {
		if errors.Is(err, resilience.ErrCircuitOpen) {
			p.logger.WarnContext(ctx, "notification circuit breaker rejected event", "event_type", string(event.Type), "state", string(p.breaker.State()))
			return errors.Wrap(err, "notification collaborator is temporarily unavailable")
		}
		return err
	}

	p.logger.DebugContext(ctx, "notification event delivered", "event_type", string(event.Type), "event_id", event.ID)
	return nil
}

func (p *WebhookPublisher) post(ctx context.Context, endpoint string, event notification.Event, body []byte) error {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer func() {
		fasthttp.ReleaseRequest(req)
		fasthttp.ReleaseResponse(resp)
	}()

	req.SetRequestURI(endpoint)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.Header.Set("Accept", "application/json")
	if event.ID != "" {
		req.Header.Set("Idempotency-Key", event.ID)
	}
	if p.token != "" {
		req.Header.Set("Authorization", "Bearer "+p.token)
	}
	req.SetBodyRaw(body)

	deadline := time.Now().Add(p.timeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}
	if err := p.client.DoDeadline(req, resp, deadline); err != nil {
		return errors.Wrapf(errWebhookTransient, "post %s: %v", endpoint, err)
	}

	status := resp.StatusCode()
	if status/100 == 2 {
		return nil
	}
	raw := truncateForLog(string(resp.Body()), 512)
	if isRetryableStatus(status) {
		return errors.Wrapf(errWebhookTransient, "post %s status=%d body=%s", endpoint, status, raw)
	}
	return errors.Newf("post %s status=%d body=%s", endpoint, status, raw)
}

func (p *WebhookPublisher) eventURL(eventType notification.EventType) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	_, _ = buf.WriteString(p.baseURL)
	_, _ = buf.WriteString("/v1/events/")
	_, _ = buf.WriteString(url.PathEscape(string(eventType)))
	return buf.String()
}

// isTransient decides what trips the breaker: network errors, 429 and 5xx.
// A 4xx means the collaborator is up and rejected this one event.
func isTransient(err error) bool {
	return errors.Is(err, errWebhookTransient)
}

func isRetryableStatus(status int) bool {
	return status == fasthttp.StatusTooManyRequests || status >= 500
}

func validateHTTPBaseURL(raw string) (string, error) {
	candidate := strings.TrimSpace(raw)
	if candidate == "" {
		return "", errors.New("value is empty")
	}

	parsed, err := url.Parse(candidate)
	if err != nil {
		return "", errors.Wrapf(err, "parse %q", candidate)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", errors.Newf("%q uses unsupported scheme=%q; expected http or https", candidate, parsed.Scheme)
	}
	if strings.TrimSpace(parsed.Host) == "" {
		return "", errors.Newf("%q has empty host", candidate)
	}

	return strings.TrimRight(candidate, "/"), nil
}

func truncateForLog(s string, limit int) string {
	if limit <= 0 || len(s) <= limit {
		return s
	}
	return s[:limit] + "...(truncated " + strconv.Itoa(len(s)-limit) + " bytes)"
}
