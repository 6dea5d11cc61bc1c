package httpapi

import (
	"net/http"
)

func (h *Handler) GradeQuestion(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GradeQuestion")
	defer span.End()

	questionID := r.PathValue("questionID")
	var req gradeQuestionRequest
	if err := h.decodeRequest(ctx, w, r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}

	results, err := h.gradingService.GradeQuestion(ctx, questionID, req.CorrectAnswer)
	if err != nil {
		h.logger.WarnContext(ctx, "grade question failed", "question_id", questionID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, mapSlice(results, gradingResultToDTO))
}

func (h *Handler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Leaderboard")
	defer span.End()

	leagueSeasonID := r.PathValue("leagueSeasonID")
	standings, err := h.scoringService.Leaderboard(ctx, leagueSeasonID)
	if err != nil {
		h.logger.WarnContext(ctx, "leaderboard failed", "league_season_id", leagueSeasonID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, standings)
}

func (h *Handler) TeamTotal(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.TeamTotal")
	defer span.End()

	teamID := r.PathValue("teamID")
	total, err := h.scoringService.CurrentTotal(ctx, teamID)
	if err != nil {
		h.logger.WarnContext(ctx, "team total failed", "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, teamTotalDTO{TeamID: teamID, TotalPoints: total})
}
