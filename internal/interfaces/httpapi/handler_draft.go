package httpapi

import (
	"fmt"
	"net/http"

	"github.com/riskibarqy/castaway-league/internal/usecase"
)

func (h *Handler) StartDraft(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.StartDraft")
	defer span.End()

	leagueSeasonID := r.PathValue("leagueSeasonID")
	var req startDraftRequest
	if err := h.decodeRequest(ctx, w, r, &req, true); err != nil {
		writeError(ctx, w, err)
		return
	}

	d, err := h.draftService.StartDraft(ctx, usecase.StartDraftInput{
		LeagueSeasonID: leagueSeasonID,
		TeamIDs:        req.TeamIDs,
		Strategy:       req.Strategy,
		RosterSize:     req.RosterSize,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "start draft failed", "league_season_id", leagueSeasonID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, draftToDTO(ctx, d))
}

func (h *Handler) GetDraft(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetDraft")
	defer span.End()

	draftID := r.PathValue("draftID")
	d, err := h.draftService.GetDraft(ctx, draftID)
	if err != nil {
		h.logger.WarnContext(ctx, "get draft failed", "draft_id", draftID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, draftToDTO(ctx, d))
}

func (h *Handler) GetDraftByLeagueSeason(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetDraftByLeagueSeason")
	defer span.End()

	leagueSeasonID := r.PathValue("leagueSeasonID")
	d, err := h.draftService.GetDraftByLeagueSeason(ctx, leagueSeasonID)
	if err != nil {
		h.logger.WarnContext(ctx, "get draft by league season failed", "league_season_id", leagueSeasonID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, draftToDTO(ctx, d))
}

func (h *Handler) DraftPick(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DraftPick")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	draftID := r.PathValue("draftID")
	var req draftPickRequest
	if err := h.decodeRequest(ctx, w, r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.draftService.DraftPick(ctx, usecase.DraftPickInput{
		DraftID:    draftID,
		TeamID:     principal.TeamID,
		CastawayID: req.CastawayID,
	})
	if err != nil {
		if usecase.PickLanded(err, principal.TeamID) {
			h.logger.InfoContext(ctx, "pick already landed", "draft_id", draftID, "team_id", principal.TeamID, "castaway_id", req.CastawayID)
		} else {
			h.logger.WarnContext(ctx, "draft pick failed", "draft_id", draftID, "team_id", principal.TeamID, "error", err)
		}
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, draftPickDTO{
		Assignment: assignmentToDTO(result.Assignment),
		Draft:      draftToDTO(ctx, result.Draft),
	})
}

func (h *Handler) ListAssignments(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListAssignments")
	defer span.End()

	leagueSeasonID := r.PathValue("leagueSeasonID")
	items, err := h.draftService.ListAssignments(ctx, leagueSeasonID)
	if err != nil {
		h.logger.WarnContext(ctx, "list assignments failed", "league_season_id", leagueSeasonID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, mapSlice(items, assignmentToDTO))
}
