package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/castaway-league/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/castaway-league/internal/platform/id"
	"github.com/riskibarqy/castaway-league/internal/platform/logging"
	"github.com/riskibarqy/castaway-league/internal/platform/resilience"
	"github.com/riskibarqy/castaway-league/internal/usecase"
	"github.com/stretchr/testify/require"
)

const testJobToken = "job-secret"

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code   int    `json:"code"`
		Status string `json:"status"`
		Errors []struct {
			Reason string `json:"reason"`
		} `json:"errors"`
	} `json:"error"`
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	store := memory.NewStore()
	store.Load(memory.DemoSeed())
	idGen := id.NewTimeOrderedGenerator()
	logger := logging.NewNop()
	publisher := usecase.NewNoopPublisher()

	leagueRepo := memory.NewLeagueSeasonRepository(store)
	teamRepo := memory.NewTeamRepository(store)
	questionRepo := memory.NewQuestionRepository(store)

	handler := NewHandler(
		usecase.NewDraftService(
			leagueRepo,
			teamRepo,
			memory.NewCastawayRepository(store),
			memory.NewDraftRepository(store),
			memory.NewAssignmentRepository(store),
			publisher,
			idGen,
			usecase.DraftConfig{DefaultStrategy: "snake", DefaultRosterSize: 2, PickRetry: resilience.RetryConfig{MaxAttempts: 3}},
			logger,
		),
		usecase.NewQuestionService(
			memory.NewQuestionTemplateRepository(store),
			questionRepo,
			leagueRepo,
			publisher,
			idGen,
			usecase.QuestionConfig{MaxWagerPerQuestion: 100, BatchWorkers: 2},
			logger,
		),
		usecase.NewWagerService(questionRepo, teamRepo, memory.NewSubmissionRepository(store), idGen, logger),
		usecase.NewGradingService(memory.NewGradingRepository(store), nil, publisher, idGen, logger),
		usecase.NewScoringService(leagueRepo, teamRepo, memory.NewScoringRepository(store), nil, logger),
		logger,
	)

	return NewRouter(handler, logger, []string{"*"}, testJobToken)
}

func do(t *testing.T, router http.Handler, method, path string, headers map[string]string, body any) (int, envelope) {
	t.Helper()

	var payload []byte
	if body != nil {
		var err error
		payload, err = sonic.Marshal(body)
		require.NoError(t, err)
	}

	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var out envelope
	require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return rec.Code, out
}

func decodeData(t *testing.T, env envelope, dst any) {
	t.Helper()
	require.NoError(t, sonic.Unmarshal(env.Data, dst))
}

func reason(env envelope) string {
	if env.Error == nil || len(env.Error.Errors) == 0 {
		return ""
	}
	return env.Error.Errors[0].Reason
}

func teamHeaders(id string) map[string]string {
	return map[string]string{headerTeamID: id}
}

func TestRouter_Healthz(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)
	code, _ := do(t, router, http.MethodGet, "/healthz", nil, nil)
	require.Equal(t, http.StatusOK, code)
}

func TestRouter_DraftFlow(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)
	commissioner := map[string]string{headerUserID: "user-ana"}

	code, env := do(t, router, http.MethodPost, "/v1/league-seasons/"+memory.LeagueSeasonIDDemo+"/draft/start", nil, map[string]any{"strategy": "sequential"})
	require.Equal(t, http.StatusUnauthorized, code)
	require.Equal(t, "unauthorized", reason(env))

	code, env = do(t, router, http.MethodPost, "/v1/league-seasons/"+memory.LeagueSeasonIDDemo+"/draft/start", commissioner, map[string]any{"strategy": "sequential"})
	require.Equal(t, http.StatusCreated, code)
	var started draftDTO
	decodeData(t, env, &started)
	require.Equal(t, "IN_PROGRESS", started.Status)
	require.Equal(t, "team-tiki", started.CurrentTeamID)
	require.Equal(t, 1, started.Round)

	code, env = do(t, router, http.MethodPost, "/v1/league-seasons/"+memory.LeagueSeasonIDDemo+"/draft/start", commissioner, nil)
	require.Equal(t, http.StatusConflict, code)
	require.Equal(t, "invalidState", reason(env))

	picks := "/v1/drafts/" + started.ID + "/picks"

	code, _ = do(t, router, http.MethodPost, picks, nil, map[string]any{"castaway_id": "cw-rachel"})
	require.Equal(t, http.StatusUnauthorized, code)

	code, env = do(t, router, http.MethodPost, picks, teamHeaders("team-idol"), map[string]any{"castaway_id": "cw-rachel"})
	require.Equal(t, http.StatusConflict, code)
	require.Equal(t, "conflict", reason(env))

	code, env = do(t, router, http.MethodPost, picks, teamHeaders("team-tiki"), map[string]any{"castaway_id": "cw-rachel"})
	require.Equal(t, http.StatusCreated, code)
	var pick draftPickDTO
	decodeData(t, env, &pick)
	require.Equal(t, "cw-rachel", pick.Assignment.CastawayID)
	require.Equal(t, 1, pick.Assignment.PickNumber)
	require.Equal(t, "team-idol", pick.Draft.CurrentTeamID)

	// Replaying the committed request after the turn moved on.
	code, env = do(t, router, http.MethodPost, picks, teamHeaders("team-tiki"), map[string]any{"castaway_id": "cw-rachel"})
	require.Equal(t, http.StatusConflict, code)
	require.Equal(t, "castawayUnavailable", reason(env))

	code, env = do(t, router, http.MethodPost, picks, teamHeaders("team-idol"), map[string]any{"castaway_id": "cw-rachel"})
	require.Equal(t, http.StatusConflict, code)
	require.Equal(t, "castawayUnavailable", reason(env))

	code, env = do(t, router, http.MethodPost, picks, teamHeaders("team-idol"), map[string]any{})
	require.Equal(t, http.StatusBadRequest, code)
	require.Equal(t, "invalidInput", reason(env))

	code, env = do(t, router, http.MethodGet, "/v1/league-seasons/"+memory.LeagueSeasonIDDemo+"/assignments", nil, nil)
	require.Equal(t, http.StatusOK, code)
	var assignments []assignmentDTO
	decodeData(t, env, &assignments)
	require.Len(t, assignments, 1)
	require.Equal(t, "team-tiki", assignments[0].TeamID)

	code, env = do(t, router, http.MethodGet, "/v1/drafts/"+started.ID, nil, nil)
	require.Equal(t, http.StatusOK, code)
	var current draftDTO
	decodeData(t, env, &current)
	require.Equal(t, 1, current.PickCount)

	code, _ = do(t, router, http.MethodGet, "/v1/drafts/missing", nil, nil)
	require.Equal(t, http.StatusNotFound, code)
}

func TestRouter_WagerAndGradingFlow(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)
	commissioner := map[string]string{headerUserID: "user-ana"}
	jobs := map[string]string{headerInternalJobToken: testJobToken}

	code, env := do(t, router, http.MethodPost, "/v1/league-seasons/"+memory.LeagueSeasonIDDemo+"/questions", commissioner, map[string]any{
		"episode":     1,
		"template_id": "tpl-voted-out",
	})
	require.Equal(t, http.StatusCreated, code)
	var q leagueQuestionDTO
	decodeData(t, env, &q)
	require.Equal(t, "FILL_IN_THE_BLANK", q.Content.Type)
	require.EqualValues(t, 10, q.Content.PointValue)

	code, env = do(t, router, http.MethodPost, "/v1/league-seasons/"+memory.LeagueSeasonIDDemo+"/questions", commissioner, map[string]any{
		"episode":     1,
		"template_id": "tpl-voted-out",
		"inline":      map[string]any{"text": "Who?", "type": "FILL_IN_THE_BLANK"},
	})
	require.Equal(t, http.StatusBadRequest, code)
	require.Equal(t, "invalidInput", reason(env))

	submissions := "/v1/questions/" + q.ID + "/submissions"
	code, _ = do(t, router, http.MethodPost, submissions, teamHeaders("team-tiki"), map[string]any{"answer": "Sue", "wager": 7})
	require.Equal(t, http.StatusCreated, code)
	code, env = do(t, router, http.MethodPost, submissions, teamHeaders("team-idol"), map[string]any{"answer": "sue "})
	require.Equal(t, http.StatusCreated, code)
	var defaulted submissionDTO
	decodeData(t, env, &defaulted)
	require.EqualValues(t, 10, defaulted.Wager)

	code, env = do(t, router, http.MethodPost, submissions, teamHeaders("team-tiki"), map[string]any{"answer": "Andy"})
	require.Equal(t, http.StatusConflict, code)
	require.Equal(t, "conflict", reason(env))

	code, env = do(t, router, http.MethodPost, submissions, teamHeaders("team-buff"), map[string]any{"answer": "Andy", "wager": 1000})
	require.Equal(t, http.StatusBadRequest, code)
	require.Equal(t, "invalidInput", reason(env))

	grade := "/v1/internal/questions/" + q.ID + "/grade"
	code, _ = do(t, router, http.MethodPost, grade, nil, map[string]any{"correct_answer": "Sue"})
	require.Equal(t, http.StatusUnauthorized, code)

	code, env = do(t, router, http.MethodPost, grade, jobs, map[string]any{"correct_answer": "SUE"})
	require.Equal(t, http.StatusOK, code)
	var results []gradingResultDTO
	decodeData(t, env, &results)
	require.Len(t, results, 2)

	code, env = do(t, router, http.MethodPost, grade, jobs, map[string]any{"correct_answer": "Sue"})
	require.Equal(t, http.StatusConflict, code)
	require.Equal(t, "conflict", reason(env))

	code, env = do(t, router, http.MethodPost, submissions, teamHeaders("team-buff"), map[string]any{"answer": "Sue"})
	require.Equal(t, http.StatusConflict, code)
	require.Equal(t, "invalidState", reason(env))

	code, env = do(t, router, http.MethodGet, "/v1/teams/team-idol/total", nil, nil)
	require.Equal(t, http.StatusOK, code)
	var total teamTotalDTO
	decodeData(t, env, &total)
	require.EqualValues(t, 10, total.TotalPoints)

	code, env = do(t, router, http.MethodGet, "/v1/league-seasons/"+memory.LeagueSeasonIDDemo+"/leaderboard", nil, nil)
	require.Equal(t, http.StatusOK, code)
	var standings []struct {
		Rank        int    `json:"rank"`
		TeamID      string `json:"teamId"`
		TotalPoints int64  `json:"totalPoints"`
	}
	decodeData(t, env, &standings)
	require.Len(t, standings, 4)
	require.Equal(t, "team-idol", standings[0].TeamID)
	require.Equal(t, 1, standings[0].Rank)
	require.Equal(t, "team-tiki", standings[1].TeamID)

	code, env = do(t, router, http.MethodGet, "/v1/teams/team-tiki/submissions", nil, nil)
	require.Equal(t, http.StatusOK, code)
	var mine []submissionDTO
	decodeData(t, env, &mine)
	require.Len(t, mine, 1)
	require.True(t, mine[0].Graded)
	require.NotNil(t, mine[0].AwardedPoints)
	require.EqualValues(t, 7, *mine[0].AwardedPoints)
}

func TestRouter_WindowClosingAndEpisodeList(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)
	commissioner := map[string]string{headerUserID: "user-ana"}

	code, _ := do(t, router, http.MethodPost, "/v1/league-seasons/"+memory.LeagueSeasonIDDemo+"/questions/from-templates", commissioner, map[string]any{
		"episode":      2,
		"template_ids": []string{"tpl-immunity-winner", "tpl-idol-played"},
	})
	require.Equal(t, http.StatusCreated, code)

	code, env := do(t, router, http.MethodGet, "/v1/league-seasons/"+memory.LeagueSeasonIDDemo+"/episodes/2/questions", nil, nil)
	require.Equal(t, http.StatusOK, code)
	var questions []leagueQuestionDTO
	decodeData(t, env, &questions)
	require.Len(t, questions, 2)

	code, _ = do(t, router, http.MethodGet, "/v1/league-seasons/"+memory.LeagueSeasonIDDemo+"/episodes/two/questions", nil, nil)
	require.Equal(t, http.StatusBadRequest, code)

	code, env = do(t, router, http.MethodPost, "/v1/internal/league-seasons/"+memory.LeagueSeasonIDDemo+"/episodes/2/window-closing",
		map[string]string{headerInternalJobToken: testJobToken}, nil)
	require.Equal(t, http.StatusAccepted, code)
	var event struct {
		Type        string   `json:"type"`
		QuestionIDs []string `json:"questionIds"`
	}
	decodeData(t, env, &event)
	require.Equal(t, "question.window_closing", event.Type)
	require.Len(t, event.QuestionIDs, 2)
}

func TestRequireInternalJobToken_Unconfigured(t *testing.T) {
	t.Parallel()

	handler := RequireInternalJobToken("", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	req := httptest.NewRequest(http.MethodPost, "/v1/internal/questions/q1/grade", nil)
	req.Header.Set(headerInternalJobToken, "anything")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRequireTeam_SetsPrincipal(t *testing.T) {
	t.Parallel()

	var got Principal
	handler := RequireTeam(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = principalFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))
	req := httptest.NewRequest(http.MethodPost, "/v1/drafts/d1/picks", nil)
	req.Header.Set(headerTeamID, " team-tiki ")
	req.Header.Set(headerUserID, "user-ana")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, Principal{UserID: "user-ana", TeamID: "team-tiki"}, got)
}
