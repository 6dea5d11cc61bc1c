package memory

import (
	"context"
	"sort"

	"github.com/riskibarqy/castaway-league/internal/domain/castaway"
)

type CastawayRepository struct {
	store *Store
}

func NewCastawayRepository(store *Store) *CastawayRepository {
	return &CastawayRepository{store: store}
}

func (r *CastawayRepository) GetByID(_ context.Context, castawayID string) (castaway.Castaway, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	item, ok := r.store.castaways[castawayID]
	return item, ok, nil
}

func (r *CastawayRepository) ListBySeason(_ context.Context, seasonID string) ([]castaway.Castaway, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]castaway.Castaway, 0)
	for _, item := range r.store.castaways {
		if item.SeasonID == seasonID {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
