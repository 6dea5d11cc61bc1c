package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/riskibarqy/castaway-league/internal/domain/question"
)

type QuestionTemplateRepository struct {
	store *Store
}

func NewQuestionTemplateRepository(store *Store) *QuestionTemplateRepository {
	return &QuestionTemplateRepository{store: store}
}

func (r *QuestionTemplateRepository) CreateTemplate(_ context.Context, t question.Template) error {
	if err := t.Validate(); err != nil {
		return fmt.Errorf("validate template: %w", err)
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.templates[t.ID]; ok {
		return fmt.Errorf("template %s already exists", t.ID)
	}
	r.store.templates[t.ID] = cloneTemplate(t)
	r.store.templateOrder = append(r.store.templateOrder, t.ID)
	return nil
}

func (r *QuestionTemplateRepository) GetTemplate(_ context.Context, templateID string) (question.Template, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	item, ok := r.store.templates[templateID]
	if !ok {
		return question.Template{}, false, nil
	}
	return cloneTemplate(item), true, nil
}

func (r *QuestionTemplateRepository) ListTemplates(_ context.Context) ([]question.Template, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]question.Template, 0, len(r.store.templateOrder))
	for _, id := range r.store.templateOrder {
		out = append(out, cloneTemplate(r.store.templates[id]))
	}
	return out, nil
}

type QuestionRepository struct {
	store *Store
}

func NewQuestionRepository(store *Store) *QuestionRepository {
	return &QuestionRepository{store: store}
}

func (r *QuestionRepository) Create(ctx context.Context, q question.LeagueQuestion) error {
	return r.CreateBatch(ctx, []question.LeagueQuestion{q})
}

func (r *QuestionRepository) CreateBatch(_ context.Context, qs []question.LeagueQuestion) error {
	for _, q := range qs {
		if err := q.Validate(); err != nil {
			return fmt.Errorf("validate question %s: %w", q.ID, err)
		}
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	seen := make(map[string]struct{}, len(qs))
	for _, q := range qs {
		if _, ok := r.store.questions[q.ID]; ok {
			return fmt.Errorf("question %s already exists", q.ID)
		}
		if _, ok := seen[q.ID]; ok {
			return fmt.Errorf("question %s repeated in batch", q.ID)
		}
		seen[q.ID] = struct{}{}
	}
	for _, q := range qs {
		r.store.questions[q.ID] = cloneQuestion(q)
	}
	return nil
}

func (r *QuestionRepository) GetByID(_ context.Context, questionID string) (question.LeagueQuestion, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	item, ok := r.store.questions[questionID]
	if !ok {
		return question.LeagueQuestion{}, false, nil
	}
	return cloneQuestion(item), true, nil
}

func (r *QuestionRepository) ListByEpisode(_ context.Context, leagueSeasonID string, episode int) ([]question.LeagueQuestion, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]question.LeagueQuestion, 0)
	for _, item := range r.store.questions {
		if item.LeagueSeasonID == leagueSeasonID && item.Episode == episode {
			out = append(out, cloneQuestion(item))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SortOrder != out[j].SortOrder {
			return out[i].SortOrder < out[j].SortOrder
		}
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *QuestionRepository) MaxSortOrder(_ context.Context, leagueSeasonID string, episode int) (int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	maxOrder := 0
	for _, item := range r.store.questions {
		if item.LeagueSeasonID == leagueSeasonID && item.Episode == episode && item.SortOrder > maxOrder {
			maxOrder = item.SortOrder
		}
	}
	return maxOrder, nil
}
