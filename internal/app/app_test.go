package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/riskibarqy/castaway-league/internal/config"
	"github.com/riskibarqy/castaway-league/internal/domain/draft"
	"github.com/riskibarqy/castaway-league/internal/platform/logging"
)

func memoryConfig() config.Config {
	return config.Config{
		AppEnv:                 config.EnvDev,
		HTTPAddr:               ":0",
		ReadTimeout:            time.Second,
		WriteTimeout:           time.Second,
		CORSAllowedOrigins:     []string{"*"},
		InternalJobToken:       "job-secret",
		StorageDriver:          config.StorageDriverMemory,
		CacheEnabled:           true,
		CacheTTL:               time.Minute,
		DraftDefaultRosterSize: 2,
		DraftDefaultStrategy:   draft.OrderSnake,
		DraftPickMaxRetries:    3,
		WagerMaxPerQuestion:    100,
		TemplateBatchWorkers:   2,
		NotifyTimeout:          time.Second,
		NotifyWorkers:          2,
	}
}

func TestNew_MemoryDriverServesDemoLeague(t *testing.T) {
	a, err := New(context.Background(), memoryConfig(), logging.NewNop())
	if err != nil {
		t.Fatalf("build app: %v", err)
	}
	t.Cleanup(func() {
		if err := a.Close(context.Background()); err != nil {
			t.Errorf("close app: %v", err)
		}
	})

	req := httptest.NewRequest(http.MethodGet, "/v1/league-seasons/ls-office-s47/leaderboard", nil)
	rec := httptest.NewRecorder()
	a.Server.Handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "team-tiki") {
		t.Fatalf("expected demo team in leaderboard: %s", rec.Body.String())
	}
}

func TestNew_RejectsEmptyAddr(t *testing.T) {
	cfg := memoryConfig()
	cfg.HTTPAddr = ""

	if _, err := New(context.Background(), cfg, logging.NewNop()); err == nil {
		t.Fatalf("expected error for empty addr")
	}
}

func TestNew_UnknownStorageDriver(t *testing.T) {
	cfg := memoryConfig()
	cfg.StorageDriver = "sqlite"

	if _, err := New(context.Background(), cfg, logging.NewNop()); err == nil {
		t.Fatalf("expected error for unknown storage driver")
	}
}
