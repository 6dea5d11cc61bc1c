package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/castaway-league/internal/domain/assignment"
	"github.com/riskibarqy/castaway-league/internal/domain/draft"
	qb "github.com/riskibarqy/castaway-league/internal/platform/querybuilder"
)

const draftColumns = "id, public_id, league_season_public_id, status, strategy, roster_size, team_ids, turn_order, turn_index, pick_count, version, started_at, completed_at, created_at, updated_at"

type DraftRepository struct {
	db *sqlx.DB
}

func NewDraftRepository(db *sqlx.DB) *DraftRepository {
	return &DraftRepository{db: db}
}

func (r *DraftRepository) GetByID(ctx context.Context, draftID string) (draft.Draft, bool, error) {
	query, args, err := qb.Select(draftColumns).From("drafts").
		Where(qb.Eq("public_id", draftID)).
		ToSQL()
	if err != nil {
		return draft.Draft{}, false, fmt.Errorf("build select draft query: %w", err)
	}
	return r.getOne(ctx, query, args)
}

func (r *DraftRepository) GetByLeagueSeason(ctx context.Context, leagueSeasonID string) (draft.Draft, bool, error) {
	query, args, err := qb.Select(draftColumns).From("drafts").
		Where(qb.Eq("league_season_public_id", leagueSeasonID)).
		ToSQL()
	if err != nil {
		return draft.Draft{}, false, fmt.Errorf("build select draft by league season query: %w", err)
	}
	return r.getOne(ctx, query, args)
}

func (r *DraftRepository) getOne(ctx context.Context, query string, args []any) (draft.Draft, bool, error) {
	var row draftTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return draft.Draft{}, false, nil
		}
		return draft.Draft{}, false, fmt.Errorf("get draft: %w", err)
	}
	return draftFromRow(row), true, nil
}

func (r *DraftRepository) Create(ctx context.Context, d draft.Draft) error {
	if err := d.Validate(); err != nil {
		return fmt.Errorf("validate draft: %w", err)
	}

	const insertDraftQuery = `
INSERT INTO drafts (
    public_id, league_season_public_id, status, strategy, roster_size, team_ids, turn_order,
    turn_index, pick_count, version, started_at, completed_at, created_at, updated_at
)
VALUES (
    :public_id, :league_season_public_id, :status, :strategy, :roster_size, :team_ids, :turn_order,
    :turn_index, :pick_count, :version, :started_at, :completed_at, :created_at, :updated_at
)`

	sqlQuery, args, err := sqlx.Named(insertDraftQuery, draftToRow(d))
	if err != nil {
		return fmt.Errorf("bind insert draft query: %w", err)
	}
	sqlQuery = r.db.Rebind(sqlQuery)
	if _, err := r.db.ExecContext(ctx, sqlQuery, args...); err != nil {
		if isUniqueViolation(err, "") {
			return draft.ErrDraftExists
		}
		return fmt.Errorf("insert draft: %w", err)
	}
	return nil
}

func (r *DraftRepository) Update(ctx context.Context, d draft.Draft, expectedVersion int64) error {
	if err := d.Validate(); err != nil {
		return fmt.Errorf("validate draft: %w", err)
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx for draft update: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := swapDraftTx(ctx, tx, d, expectedVersion); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit draft update tx: %w", err)
	}
	return nil
}

// CommitPick writes the ledger entry and the draft advance in one tx. The
// draft row stays locked from the version check to commit.
func (r *DraftRepository) CommitPick(ctx context.Context, commit draft.PickCommit) (assignment.Assignment, error) {
	if err := commit.Next.Validate(); err != nil {
		return assignment.Assignment{}, fmt.Errorf("validate draft: %w", err)
	}
	if err := commit.Assignment.Validate(); err != nil {
		return assignment.Assignment{}, err
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return assignment.Assignment{}, fmt.Errorf("begin tx for draft pick: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := lockDraftTx(ctx, tx, commit.Next.ID, commit.ExpectedVersion); err != nil {
		return assignment.Assignment{}, err
	}
	if err := tryAssignTx(ctx, tx, commit.Assignment, commit.Next.RosterSize); err != nil {
		return assignment.Assignment{}, err
	}
	if err := swapDraftTx(ctx, tx, commit.Next, commit.ExpectedVersion); err != nil {
		return assignment.Assignment{}, err
	}

	if err := tx.Commit(); err != nil {
		return assignment.Assignment{}, fmt.Errorf("commit draft pick tx: %w", err)
	}
	return commit.Assignment, nil
}

// lockDraftTx takes the draft row lock and checks its version.
func lockDraftTx(ctx context.Context, tx *sqlx.Tx, draftID string, expectedVersion int64) (draft.Status, error) {
	query, args, err := qb.Select("status", "version").From("drafts").
		Where(qb.Eq("public_id", draftID)).
		ForUpdate().
		ToSQL()
	if err != nil {
		return "", fmt.Errorf("build lock draft query: %w", err)
	}

	var row struct {
		Status  string `db:"status"`
		Version int64  `db:"version"`
	}
	if err := tx.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return "", draft.ErrVersionConflict
		}
		return "", fmt.Errorf("lock draft: %w", err)
	}
	if row.Version != expectedVersion {
		return "", draft.ErrVersionConflict
	}
	return draft.Status(row.Status), nil
}

func swapDraftTx(ctx context.Context, tx *sqlx.Tx, d draft.Draft, expectedVersion int64) error {
	current, err := lockDraftTx(ctx, tx, d.ID, expectedVersion)
	if err != nil {
		return err
	}
	if !draft.Monotonic(current, d.Status) {
		return fmt.Errorf("illegal draft transition %s -> %s", current, d.Status)
	}

	row := draftToRow(d)
	query, args, err := qb.Update("drafts").
		Set("status", row.Status).
		Set("strategy", row.Strategy).
		Set("roster_size", row.RosterSize).
		Set("team_ids", row.TeamIDs).
		Set("turn_order", row.TurnOrder).
		Set("turn_index", row.TurnIndex).
		Set("pick_count", row.PickCount).
		Set("version", row.Version).
		Set("started_at", row.StartedAt).
		Set("completed_at", row.CompletedAt).
		Set("updated_at", row.UpdatedAt).
		Where(
			qb.Eq("public_id", d.ID),
			qb.Eq("version", expectedVersion),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update draft query: %w", err)
	}

	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update draft: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("read updated draft rows: %w", err)
	}
	if affected != 1 {
		return draft.ErrVersionConflict
	}
	return nil
}

func draftToRow(d draft.Draft) draftTableModel {
	return draftTableModel{
		PublicID:       d.ID,
		LeagueSeasonID: d.LeagueSeasonID,
		Status:         string(d.Status),
		Strategy:       string(d.Strategy),
		RosterSize:     d.RosterSize,
		TeamIDs:        stringArray(d.TeamIDs),
		TurnOrder:      stringArray(d.TurnOrder),
		TurnIndex:      d.TurnIndex,
		PickCount:      d.PickCount,
		Version:        d.Version,
		StartedAt:      timePtrToNull(d.StartedAt),
		CompletedAt:    timePtrToNull(d.CompletedAt),
		CreatedAt:      d.CreatedAt.UTC(),
		UpdatedAt:      d.UpdatedAt.UTC(),
	}
}

func draftFromRow(row draftTableModel) draft.Draft {
	return draft.Draft{
		ID:             row.PublicID,
		LeagueSeasonID: row.LeagueSeasonID,
		Status:         draft.Status(row.Status),
		Strategy:       draft.OrderStrategy(row.Strategy),
		RosterSize:     row.RosterSize,
		TeamIDs:        []string(row.TeamIDs),
		TurnOrder:      []string(row.TurnOrder),
		TurnIndex:      row.TurnIndex,
		PickCount:      row.PickCount,
		Version:        row.Version,
		StartedAt:      nullTimeToPtr(row.StartedAt),
		CompletedAt:    nullTimeToPtr(row.CompletedAt),
		CreatedAt:      row.CreatedAt.UTC(),
		UpdatedAt:      row.UpdatedAt.UTC(),
	}
}
