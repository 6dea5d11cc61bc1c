package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/castaway-league/internal/platform/logging"
	"github.com/riskibarqy/castaway-league/internal/usecase"
)

const maxRequestBodyBytes = 1 << 20

type Handler struct {
	draftService    *usecase.DraftService
	questionService *usecase.QuestionService
	wagerService    *usecase.WagerService
	gradingService  *usecase.GradingService
	scoringService  *usecase.ScoringService
	logger          *logging.Logger
	validator       *validator.Validate
}

func NewHandler(
	draftService *usecase.DraftService,
	questionService *usecase.QuestionService,
	wagerService *usecase.WagerService,
	gradingService *usecase.GradingService,
	scoringService *usecase.ScoringService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		draftService:    draftService,
		questionService: questionService,
		wagerService:    wagerService,
		gradingService:  gradingService,
		scoringService:  scoringService,
		logger:          logger.Named("httpapi"),
		validator:       validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

// decodeRequest reads a JSON body into dst and validates it. An empty body
// is accepted when allowEmpty is set, leaving dst at its zero value.
func (h *Handler) decodeRequest(ctx context.Context, w http.ResponseWriter, r *http.Request, dst any, allowEmpty bool) error {
	if r.Body == nil || r.ContentLength == 0 {
		if allowEmpty {
			return h.validateRequest(ctx, dst)
		}
		return fmt.Errorf("%w: request body is required", usecase.ErrInvalidInput)
	}

	decoder := sonic.ConfigDefault.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}

	return h.validateRequest(ctx, dst)
}

func pathEpisode(r *http.Request) (int, error) {
	raw := strings.TrimSpace(r.PathValue("episode"))
	episode, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: episode must be an integer, got %q", usecase.ErrInvalidInput, raw)
	}
	return episode, nil
}
