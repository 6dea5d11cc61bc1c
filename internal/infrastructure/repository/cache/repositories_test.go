package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/castaway-league/internal/domain/league"
	"github.com/riskibarqy/castaway-league/internal/domain/question"
)

type countingTemplates struct {
	mu        sync.Mutex
	templates []question.Template
	gets      atomic.Int64
	lists     atomic.Int64
}

func (c *countingTemplates) CreateTemplate(_ context.Context, t question.Template) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.templates = append(c.templates, t)
	return nil
}

func (c *countingTemplates) GetTemplate(_ context.Context, templateID string) (question.Template, bool, error) {
	c.gets.Add(1)
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, t := range c.templates {
		if t.ID == templateID {
			return t, true, nil
		}
	}
	return question.Template{}, false, nil
}

func (c *countingTemplates) ListTemplates(_ context.Context) ([]question.Template, error) {
	c.lists.Add(1)
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]question.Template(nil), c.templates...), nil
}

func tribeTemplate(id string) question.Template {
	return question.Template{
		ID: id,
		Content: question.Content{
			Text:       "Which tribe wins immunity?",
			Type:       question.TypeMultipleChoice,
			Options:    []string{"Red", "Blue"},
			PointValue: 5,
		},
	}
}

func TestTemplateRepository_CachesReadsAndInvalidatesOnCreate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	next := &countingTemplates{templates: []question.Template{tribeTemplate("tpl-1")}}
	repo := NewTemplateRepository(next, time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, ok, err := repo.GetTemplate(ctx, "tpl-1")
			assert.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, "tpl-1", got.ID)
		}()
	}
	wg.Wait()
	require.Equal(t, int64(1), next.gets.Load())

	got, _, err := repo.GetTemplate(ctx, "tpl-1")
	require.NoError(t, err)
	got.Options[0] = "mutated"
	again, _, err := repo.GetTemplate(ctx, "tpl-1")
	require.NoError(t, err)
	require.Equal(t, "Red", again.Options[0], "callers must not alias cached options")

	items, err := repo.ListTemplates(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	_, err = repo.ListTemplates(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1), next.lists.Load())

	require.NoError(t, repo.CreateTemplate(ctx, tribeTemplate("tpl-2")))
	items, err = repo.ListTemplates(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.Equal(t, int64(2), next.lists.Load())
}

func TestTemplateRepository_CachesMisses(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	next := &countingTemplates{}
	repo := NewTemplateRepository(next, time.Minute)

	for i := 0; i < 3; i++ {
		_, ok, err := repo.GetTemplate(ctx, "tpl-missing")
		require.NoError(t, err)
		require.False(t, ok)
	}
	require.Equal(t, int64(1), next.gets.Load())

	require.NoError(t, repo.CreateTemplate(ctx, tribeTemplate("tpl-missing")))
	_, ok, err := repo.GetTemplate(ctx, "tpl-missing")
	require.NoError(t, err)
	require.True(t, ok)
}

type stubSeasons struct {
	calls atomic.Int64
}

func (s *stubSeasons) GetByID(_ context.Context, leagueSeasonID string) (league.Season, bool, error) {
	s.calls.Add(1)
	if leagueSeasonID != "ls-1" {
		return league.Season{}, false, nil
	}
	return league.Season{ID: "ls-1", LeagueID: "office", SeasonID: "s47", RosterSize: 2}, true, nil
}

func (s *stubSeasons) GetByLeagueAndSeason(ctx context.Context, leagueID, seasonID string) (league.Season, bool, error) {
	if leagueID == "office" && seasonID == "s47" {
		return s.GetByID(ctx, "ls-1")
	}
	s.calls.Add(1)
	return league.Season{}, false, nil
}

func TestLeagueSeasonRepository_CachesLookups(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	next := &stubSeasons{}
	repo := NewLeagueSeasonRepository(next, time.Minute)

	for i := 0; i < 3; i++ {
		season, ok, err := repo.GetByID(ctx, "ls-1")
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, 2, season.RosterSize)
	}
	require.Equal(t, int64(1), next.calls.Load())

	season, ok, err := repo.GetByLeagueAndSeason(ctx, "office", "s47")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "ls-1", season.ID)
	require.Equal(t, int64(2), next.calls.Load())
}
