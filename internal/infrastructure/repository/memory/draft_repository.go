package memory

import (
	"context"
	"fmt"

	"github.com/riskibarqy/castaway-league/internal/domain/assignment"
	"github.com/riskibarqy/castaway-league/internal/domain/draft"
)

type DraftRepository struct {
	store *Store
}

func NewDraftRepository(store *Store) *DraftRepository {
	return &DraftRepository{store: store}
}

func (r *DraftRepository) GetByID(_ context.Context, draftID string) (draft.Draft, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	item, ok := r.store.drafts[draftID]
	if !ok {
		return draft.Draft{}, false, nil
	}
	return cloneDraft(item), true, nil
}

func (r *DraftRepository) GetByLeagueSeason(_ context.Context, leagueSeasonID string) (draft.Draft, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	id, ok := r.store.draftBySeason[leagueSeasonID]
	if !ok {
		return draft.Draft{}, false, nil
	}
	return cloneDraft(r.store.drafts[id]), true, nil
}

func (r *DraftRepository) Create(_ context.Context, d draft.Draft) error {
	if err := d.Validate(); err != nil {
		return fmt.Errorf("validate draft: %w", err)
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.draftBySeason[d.LeagueSeasonID]; ok {
		return draft.ErrDraftExists
	}
	if _, ok := r.store.drafts[d.ID]; ok {
		return draft.ErrDraftExists
	}
	r.store.drafts[d.ID] = cloneDraft(d)
	r.store.draftBySeason[d.LeagueSeasonID] = d.ID
	return nil
}

func (r *DraftRepository) Update(_ context.Context, d draft.Draft, expectedVersion int64) error {
	if err := d.Validate(); err != nil {
		return fmt.Errorf("validate draft: %w", err)
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	return r.store.swapDraftLocked(d, expectedVersion)
}

func (r *DraftRepository) CommitPick(_ context.Context, commit draft.PickCommit) (assignment.Assignment, error) {
	if err := commit.Next.Validate(); err != nil {
		return assignment.Assignment{}, fmt.Errorf("validate draft: %w", err)
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	current, ok := r.store.drafts[commit.Next.ID]
	if !ok || current.Version != commit.ExpectedVersion {
		return assignment.Assignment{}, draft.ErrVersionConflict
	}
	if err := r.store.tryAssignLocked(commit.Assignment, commit.Next.RosterSize); err != nil {
		return assignment.Assignment{}, err
	}
	if err := r.store.swapDraftLocked(commit.Next, commit.ExpectedVersion); err != nil {
		r.store.undoLastAssignmentLocked()
		return assignment.Assignment{}, err
	}
	return commit.Assignment, nil
}

func (s *Store) swapDraftLocked(d draft.Draft, expectedVersion int64) error {
	current, ok := s.drafts[d.ID]
	if !ok || current.Version != expectedVersion {
		return draft.ErrVersionConflict
	}
	if !draft.Monotonic(current.Status, d.Status) {
		return fmt.Errorf("illegal draft transition %s -> %s", current.Status, d.Status)
	}
	s.drafts[d.ID] = cloneDraft(d)
	return nil
}
