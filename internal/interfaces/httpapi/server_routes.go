package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerDraftRoutes(mux *http.ServeMux, handler *Handler) {
	mux.Handle("POST /v1/league-seasons/{leagueSeasonID}/draft/start", RequireUser(http.HandlerFunc(handler.StartDraft)))
	mux.HandleFunc("GET /v1/league-seasons/{leagueSeasonID}/draft", handler.GetDraftByLeagueSeason)
	mux.HandleFunc("GET /v1/drafts/{draftID}", handler.GetDraft)
	mux.Handle("POST /v1/drafts/{draftID}/picks", RequireTeam(http.HandlerFunc(handler.DraftPick)))
	mux.HandleFunc("GET /v1/league-seasons/{leagueSeasonID}/assignments", handler.ListAssignments)
}

func registerQuestionRoutes(mux *http.ServeMux, handler *Handler) {
	mux.Handle("POST /v1/question-templates", RequireUser(http.HandlerFunc(handler.CreateTemplate)))
	mux.HandleFunc("GET /v1/question-templates", handler.ListTemplates)
	mux.HandleFunc("GET /v1/question-templates/{templateID}", handler.GetTemplate)
	mux.Handle("POST /v1/league-seasons/{leagueSeasonID}/questions", RequireUser(http.HandlerFunc(handler.InstantiateQuestion)))
	mux.Handle("POST /v1/league-seasons/{leagueSeasonID}/questions/from-templates", RequireUser(http.HandlerFunc(handler.CreateQuestionsFromTemplates)))
	mux.HandleFunc("GET /v1/league-seasons/{leagueSeasonID}/episodes/{episode}/questions", handler.ListEpisodeQuestions)
}

func registerSubmissionRoutes(mux *http.ServeMux, handler *Handler) {
	mux.Handle("POST /v1/questions/{questionID}/submissions", RequireTeam(http.HandlerFunc(handler.SubmitAnswer)))
	mux.HandleFunc("GET /v1/questions/{questionID}/submissions", handler.ListSubmissionsByQuestion)
	mux.HandleFunc("GET /v1/teams/{teamID}/submissions", handler.ListSubmissionsByTeam)
}

func registerScoringRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/league-seasons/{leagueSeasonID}/leaderboard", handler.Leaderboard)
	mux.HandleFunc("GET /v1/teams/{teamID}/total", handler.TeamTotal)
}

// Internal routes are called by the grading operator tooling and the
// episode airing scheduler.
func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/questions/{questionID}/grade", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.GradeQuestion)))
	mux.Handle("POST /v1/internal/league-seasons/{leagueSeasonID}/episodes/{episode}/window-closing", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.AnnounceWindowClosing)))
}
