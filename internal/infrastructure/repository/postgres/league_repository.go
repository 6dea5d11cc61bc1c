package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/castaway-league/internal/domain/league"
	qb "github.com/riskibarqy/castaway-league/internal/platform/querybuilder"
)

const leagueSeasonColumns = "id, public_id, league_id, season_id, name, roster_size, created_at, updated_at"

type LeagueSeasonRepository struct {
	db *sqlx.DB
}

func NewLeagueSeasonRepository(db *sqlx.DB) *LeagueSeasonRepository {
	return &LeagueSeasonRepository{db: db}
}

func (r *LeagueSeasonRepository) GetByID(ctx context.Context, leagueSeasonID string) (league.Season, bool, error) {
	query, args, err := qb.Select(leagueSeasonColumns).From("league_seasons").
		Where(qb.Eq("public_id", leagueSeasonID)).
		ToSQL()
	if err != nil {
		return league.Season{}, false, fmt.Errorf("build select league season query: %w", err)
	}
	return r.getOne(ctx, query, args)
}

func (r *LeagueSeasonRepository) GetByLeagueAndSeason(ctx context.Context, leagueID, seasonID string) (league.Season, bool, error) {
	query, args, err := qb.Select(leagueSeasonColumns).From("league_seasons").
		Where(
			qb.Eq("league_id", leagueID),
			qb.Eq("season_id", seasonID),
		).
		ToSQL()
	if err != nil {
		return league.Season{}, false, fmt.Errorf("build select league season by league query: %w", err)
	}
	return r.getOne(ctx, query, args)
}

func (r *LeagueSeasonRepository) getOne(ctx context.Context, query string, args []any) (league.Season, bool, error) {
	var row leagueSeasonTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return league.Season{}, false, nil
		}
		return league.Season{}, false, fmt.Errorf("get league season: %w", err)
	}

	return league.Season{
		ID:         row.PublicID,
		LeagueID:   row.LeagueID,
		SeasonID:   row.SeasonID,
		Name:       row.Name,
		RosterSize: row.RosterSize,
		CreatedAt:  row.CreatedAt.UTC(),
	}, true, nil
}
