package draft

import (
	"context"

	"github.com/riskibarqy/castaway-league/internal/domain/assignment"
)

// PickCommit is one atomic unit: the ledger entry and the draft advance are
// written together, and only if the stored draft still has ExpectedVersion.
type PickCommit struct {
	Next            Draft
	ExpectedVersion int64
	Assignment      assignment.Assignment
}

type Repository interface {
	GetByID(ctx context.Context, draftID string) (Draft, bool, error)
	GetByLeagueSeason(ctx context.Context, leagueSeasonID string) (Draft, bool, error)
	// Create fails with ErrDraftExists when the league-season already has a draft.
	Create(ctx context.Context, d Draft) error
	// Update is a compare-and-swap on Version; ErrVersionConflict on mismatch.
	Update(ctx context.Context, d Draft, expectedVersion int64) error
	// CommitPick fails with ErrVersionConflict, or with the ledger's
	// assignment.ErrAlreadyAssigned / assignment.ErrRosterFull, leaving
	// nothing written.
	CommitPick(ctx context.Context, commit PickCommit) (assignment.Assignment, error)
}
