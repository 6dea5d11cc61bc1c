package httpapi

import (
	"fmt"
	"net/http"

	"github.com/riskibarqy/castaway-league/internal/usecase"
)

func (h *Handler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SubmitAnswer")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	questionID := r.PathValue("questionID")
	var req submitAnswerRequest
	if err := h.decodeRequest(ctx, w, r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}

	submission, err := h.wagerService.SubmitAnswer(ctx, usecase.SubmitAnswerInput{
		TeamID:     principal.TeamID,
		QuestionID: questionID,
		Answer:     req.Answer,
		Wager:      req.Wager,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "submit answer failed", "question_id", questionID, "team_id", principal.TeamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, submissionToDTO(submission))
}

func (h *Handler) ListSubmissionsByQuestion(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListSubmissionsByQuestion")
	defer span.End()

	questionID := r.PathValue("questionID")
	items, err := h.wagerService.ListByQuestion(ctx, questionID)
	if err != nil {
		h.logger.WarnContext(ctx, "list submissions by question failed", "question_id", questionID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, mapSlice(items, submissionToDTO))
}

func (h *Handler) ListSubmissionsByTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListSubmissionsByTeam")
	defer span.End()

	teamID := r.PathValue("teamID")
	items, err := h.wagerService.ListByTeam(ctx, teamID)
	if err != nil {
		h.logger.WarnContext(ctx, "list submissions by team failed", "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, mapSlice(items, submissionToDTO))
}
