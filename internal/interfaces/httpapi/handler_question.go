package httpapi

import (
	"net/http"

	"github.com/riskibarqy/castaway-league/internal/usecase"
)

func (h *Handler) CreateTemplate(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateTemplate")
	defer span.End()

	var req questionContentRequest
	if err := h.decodeRequest(ctx, w, r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}

	tpl, err := h.questionService.CreateTemplate(ctx, req.toInput())
	if err != nil {
		h.logger.WarnContext(ctx, "create question template failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, templateToDTO(tpl))
}

func (h *Handler) ListTemplates(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTemplates")
	defer span.End()

	items, err := h.questionService.ListTemplates(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list question templates failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, mapSlice(items, templateToDTO))
}

func (h *Handler) GetTemplate(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTemplate")
	defer span.End()

	templateID := r.PathValue("templateID")
	tpl, err := h.questionService.GetTemplate(ctx, templateID)
	if err != nil {
		h.logger.WarnContext(ctx, "get question template failed", "template_id", templateID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, templateToDTO(tpl))
}

func (h *Handler) InstantiateQuestion(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.InstantiateQuestion")
	defer span.End()

	leagueSeasonID := r.PathValue("leagueSeasonID")
	var req instantiateQuestionRequest
	if err := h.decodeRequest(ctx, w, r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}

	input := usecase.InstantiateInput{
		LeagueSeasonID: leagueSeasonID,
		Episode:        req.Episode,
		TemplateID:     req.TemplateID,
		PointValue:     req.PointValue,
		SortOrder:      req.SortOrder,
	}
	if req.Inline != nil {
		inline := req.Inline.toInput()
		input.Inline = &inline
	}

	q, err := h.questionService.Instantiate(ctx, input)
	if err != nil {
		h.logger.WarnContext(ctx, "instantiate question failed",
			"league_season_id", leagueSeasonID,
			"episode", req.Episode,
			"template_id", req.TemplateID,
			"error", err,
		)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, leagueQuestionToDTO(q))
}

func (h *Handler) CreateQuestionsFromTemplates(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateQuestionsFromTemplates")
	defer span.End()

	leagueSeasonID := r.PathValue("leagueSeasonID")
	var req createFromTemplatesRequest
	if err := h.decodeRequest(ctx, w, r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}

	items, err := h.questionService.CreateFromTemplates(ctx, usecase.CreateFromTemplatesInput{
		LeagueSeasonID: leagueSeasonID,
		Episode:        req.Episode,
		TemplateIDs:    req.TemplateIDs,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "create questions from templates failed",
			"league_season_id", leagueSeasonID,
			"episode", req.Episode,
			"templates", len(req.TemplateIDs),
			"error", err,
		)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, mapSlice(items, leagueQuestionToDTO))
}

func (h *Handler) ListEpisodeQuestions(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListEpisodeQuestions")
	defer span.End()

	leagueSeasonID := r.PathValue("leagueSeasonID")
	episode, err := pathEpisode(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items, err := h.questionService.ListEpisodeQuestions(ctx, leagueSeasonID, episode)
	if err != nil {
		h.logger.WarnContext(ctx, "list episode questions failed", "league_season_id", leagueSeasonID, "episode", episode, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, mapSlice(items, leagueQuestionToDTO))
}

func (h *Handler) AnnounceWindowClosing(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AnnounceWindowClosing")
	defer span.End()

	leagueSeasonID := r.PathValue("leagueSeasonID")
	episode, err := pathEpisode(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	event, err := h.questionService.AnnounceWindowClosing(ctx, leagueSeasonID, episode)
	if err != nil {
		h.logger.WarnContext(ctx, "announce window closing failed", "league_season_id", leagueSeasonID, "episode", episode, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusAccepted, event)
}
