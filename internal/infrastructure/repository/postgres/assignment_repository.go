package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/castaway-league/internal/domain/assignment"
	qb "github.com/riskibarqy/castaway-league/internal/platform/querybuilder"
)

const (
	assignmentColumns        = "id, public_id, league_season_public_id, team_public_id, castaway_public_id, draft_public_id, pick_number, created_at"
	assignmentCastawayUnique = "assignments_league_season_castaway_key"
)

type AssignmentRepository struct {
	db *sqlx.DB
}

func NewAssignmentRepository(db *sqlx.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

func (r *AssignmentRepository) TryAssign(ctx context.Context, a assignment.Assignment, rosterSize int) (assignment.Assignment, error) {
	if err := a.Validate(); err != nil {
		return assignment.Assignment{}, err
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return assignment.Assignment{}, fmt.Errorf("begin tx for assignment: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := tryAssignTx(ctx, tx, a, rosterSize); err != nil {
		return assignment.Assignment{}, err
	}
	if err := tx.Commit(); err != nil {
		return assignment.Assignment{}, fmt.Errorf("commit assignment tx: %w", err)
	}
	return a, nil
}

func (r *AssignmentRepository) ListByLeagueSeason(ctx context.Context, leagueSeasonID string) ([]assignment.Assignment, error) {
	query, args, err := qb.Select(assignmentColumns).From("assignments").
		Where(qb.Eq("league_season_public_id", leagueSeasonID)).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select assignments query: %w", err)
	}

	var rows []assignmentTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select assignments: %w", err)
	}

	out := make([]assignment.Assignment, 0, len(rows))
	for _, row := range rows {
		out = append(out, assignment.Assignment{
			ID:             row.PublicID,
			LeagueSeasonID: row.LeagueSeasonID,
			TeamID:         row.TeamID,
			CastawayID:     row.CastawayID,
			DraftID:        row.DraftID.String,
			PickNumber:     row.PickNumber,
			CreatedAt:      row.CreatedAt.UTC(),
		})
	}
	return out, nil
}

func (r *AssignmentRepository) CountByTeam(ctx context.Context, leagueSeasonID string) (map[string]int, error) {
	query, args, err := qb.Select("team_public_id", "COUNT(1) AS held").From("assignments").
		Where(qb.Eq("league_season_public_id", leagueSeasonID)).
		GroupBy("team_public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build count assignments query: %w", err)
	}

	var rows []struct {
		TeamID string `db:"team_public_id"`
		Held   int    `db:"held"`
	}
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("count assignments by team: %w", err)
	}

	out := make(map[string]int, len(rows))
	for _, row := range rows {
		out[row.TeamID] = row.Held
	}
	return out, nil
}

// tryAssignTx is the ledger check-and-write inside tx. The team row lock
// serializes roster counting per team; the unique constraint settles races
// on the same castaway across teams.
func tryAssignTx(ctx context.Context, tx *sqlx.Tx, a assignment.Assignment, rosterSize int) error {
	lockQuery, lockArgs, err := qb.Select("public_id").From("teams").
		Where(
			qb.Eq("public_id", a.TeamID),
			qb.Eq("league_season_public_id", a.LeagueSeasonID),
		).
		ForUpdate().
		ToSQL()
	if err != nil {
		return fmt.Errorf("build lock team query: %w", err)
	}
	var lockedTeam string
	if err := tx.GetContext(ctx, &lockedTeam, lockQuery, lockArgs...); err != nil {
		if isNotFound(err) {
			return fmt.Errorf("team %s not in league season %s", a.TeamID, a.LeagueSeasonID)
		}
		return fmt.Errorf("lock team for assignment: %w", err)
	}

	if holder, ok, err := castawayHolder(ctx, tx, a.LeagueSeasonID, a.CastawayID); err != nil {
		return err
	} else if ok {
		return &assignment.ConflictError{CastawayID: a.CastawayID, HeldByTeamID: holder}
	}

	countQuery, countArgs, err := qb.Select("COUNT(1)").From("assignments").
		Where(
			qb.Eq("league_season_public_id", a.LeagueSeasonID),
			qb.Eq("team_public_id", a.TeamID),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build count team assignments query: %w", err)
	}
	var held int
	if err := tx.GetContext(ctx, &held, countQuery, countArgs...); err != nil {
		return fmt.Errorf("count team assignments: %w", err)
	}
	if err := assignment.CheckRoster(held, rosterSize); err != nil {
		return err
	}

	insertQuery, insertArgs, err := qb.InsertModel("assignments", assignmentInsertModel{
		PublicID:       a.ID,
		LeagueSeasonID: a.LeagueSeasonID,
		TeamID:         a.TeamID,
		CastawayID:     a.CastawayID,
		DraftID:        stringToNull(a.DraftID),
		PickNumber:     a.PickNumber,
		CreatedAt:      a.CreatedAt.UTC(),
	}, "ON CONFLICT ON CONSTRAINT "+assignmentCastawayUnique+" DO NOTHING RETURNING id")
	if err != nil {
		return fmt.Errorf("build insert assignment query: %w", err)
	}

	var insertedID int64
	if err := tx.GetContext(ctx, &insertedID, insertQuery, insertArgs...); err != nil {
		if !isNotFound(err) {
			return fmt.Errorf("insert assignment: %w", err)
		}
		// Another team's insert committed between the holder check and ours.
		holder, _, holderErr := castawayHolder(ctx, tx, a.LeagueSeasonID, a.CastawayID)
		if holderErr != nil {
			return holderErr
		}
		return &assignment.ConflictError{CastawayID: a.CastawayID, HeldByTeamID: holder}
	}

	return nil
}

func castawayHolder(ctx context.Context, tx *sqlx.Tx, leagueSeasonID, castawayID string) (string, bool, error) {
	query, args, err := qb.Select("team_public_id").From("assignments").
		Where(
			qb.Eq("league_season_public_id", leagueSeasonID),
			qb.Eq("castaway_public_id", castawayID),
		).
		ToSQL()
	if err != nil {
		return "", false, fmt.Errorf("build select castaway holder query: %w", err)
	}

	var holder string
	if err := tx.GetContext(ctx, &holder, query, args...); err != nil {
		if isNotFound(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("select castaway holder: %w", err)
	}
	return holder, true, nil
}
