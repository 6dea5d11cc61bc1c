package cache

import (
	"context"
	"time"

	"github.com/riskibarqy/castaway-league/internal/domain/league"
	"github.com/riskibarqy/castaway-league/internal/domain/question"
	basecache "github.com/riskibarqy/castaway-league/internal/platform/cache"
)

const templateListKey = "template:list"

type LeagueSeasonRepository struct {
	next  league.Repository
	cache *basecache.Store[cachedSeason]
}

func NewLeagueSeasonRepository(next league.Repository, ttl time.Duration) *LeagueSeasonRepository {
	return &LeagueSeasonRepository{next: next, cache: basecache.NewStore[cachedSeason](ttl)}
}

func (r *LeagueSeasonRepository) GetByID(ctx context.Context, leagueSeasonID string) (league.Season, bool, error) {
	cached, err := r.cache.GetOrLoad(ctx, "season:id:"+leagueSeasonID, func(ctx context.Context) (cachedSeason, error) {
		item, exists, err := r.next.GetByID(ctx, leagueSeasonID)
		if err != nil {
			return cachedSeason{}, err
		}
		return cachedSeason{value: item, exists: exists}, nil
	})
	if err != nil {
		return league.Season{}, false, err
	}
	return cached.value, cached.exists, nil
}

func (r *LeagueSeasonRepository) GetByLeagueAndSeason(ctx context.Context, leagueID, seasonID string) (league.Season, bool, error) {
	key := "season:pair:" + leagueID + ":" + seasonID
	cached, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (cachedSeason, error) {
		item, exists, err := r.next.GetByLeagueAndSeason(ctx, leagueID, seasonID)
		if err != nil {
			return cachedSeason{}, err
		}
		return cachedSeason{value: item, exists: exists}, nil
	})
	if err != nil {
		return league.Season{}, false, err
	}
	return cached.value, cached.exists, nil
}

type cachedSeason struct {
	value  league.Season
	exists bool
}

// TemplateRepository caches template reads. Templates are never edited in
// place through this port, so only CreateTemplate invalidates.
type TemplateRepository struct {
	next  question.TemplateRepository
	cache *basecache.Store[cachedTemplates]
}

func NewTemplateRepository(next question.TemplateRepository, ttl time.Duration) *TemplateRepository {
	return &TemplateRepository{next: next, cache: basecache.NewStore[cachedTemplates](ttl)}
}

func (r *TemplateRepository) CreateTemplate(ctx context.Context, t question.Template) error {
	if err := r.next.CreateTemplate(ctx, t); err != nil {
		return err
	}
	r.cache.Delete(ctx, templateListKey, "template:id:"+t.ID)
	return nil
}

func (r *TemplateRepository) GetTemplate(ctx context.Context, templateID string) (question.Template, bool, error) {
	cached, err := r.cache.GetOrLoad(ctx, "template:id:"+templateID, func(ctx context.Context) (cachedTemplates, error) {
		item, exists, err := r.next.GetTemplate(ctx, templateID)
		if err != nil {
			return cachedTemplates{}, err
		}
		if !exists {
			return cachedTemplates{}, nil
		}
		return cachedTemplates{items: []question.Template{cloneTemplate(item)}}, nil
	})
	if err != nil {
		return question.Template{}, false, err
	}
	if len(cached.items) == 0 {
		return question.Template{}, false, nil
	}
	return cloneTemplate(cached.items[0]), true, nil
}

func (r *TemplateRepository) ListTemplates(ctx context.Context) ([]question.Template, error) {
	cached, err := r.cache.GetOrLoad(ctx, templateListKey, func(ctx context.Context) (cachedTemplates, error) {
		items, err := r.next.ListTemplates(ctx)
		if err != nil {
			return cachedTemplates{}, err
		}
		return cachedTemplates{items: cloneTemplates(items)}, nil
	})
	if err != nil {
		return nil, err
	}
	return cloneTemplates(cached.items), nil
}

type cachedTemplates struct {
	items []question.Template
}

func cloneTemplates(items []question.Template) []question.Template {
	out := make([]question.Template, 0, len(items))
	for _, item := range items {
		out = append(out, cloneTemplate(item))
	}
	return out
}

func cloneTemplate(t question.Template) question.Template {
	t.Options = append([]string(nil), t.Options...)
	if len(t.Options) == 0 {
		t.Options = nil
	}
	return t
}
