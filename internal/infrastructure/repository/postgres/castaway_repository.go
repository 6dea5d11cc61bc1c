package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/castaway-league/internal/domain/castaway"
	qb "github.com/riskibarqy/castaway-league/internal/platform/querybuilder"
)

const castawayColumns = "id, public_id, season_id, name, status, created_at, updated_at"

type CastawayRepository struct {
	db *sqlx.DB
}

func NewCastawayRepository(db *sqlx.DB) *CastawayRepository {
	return &CastawayRepository{db: db}
}

func (r *CastawayRepository) GetByID(ctx context.Context, castawayID string) (castaway.Castaway, bool, error) {
	query, args, err := qb.Select(castawayColumns).From("castaways").
		Where(qb.Eq("public_id", castawayID)).
		ToSQL()
	if err != nil {
		return castaway.Castaway{}, false, fmt.Errorf("build select castaway query: %w", err)
	}

	var row castawayTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return castaway.Castaway{}, false, nil
		}
		return castaway.Castaway{}, false, fmt.Errorf("get castaway: %w", err)
	}

	return castawayFromRow(row), true, nil
}

func (r *CastawayRepository) ListBySeason(ctx context.Context, seasonID string) ([]castaway.Castaway, error) {
	query, args, err := qb.Select(castawayColumns).From("castaways").
		Where(qb.Eq("season_id", seasonID)).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select castaways by season query: %w", err)
	}

	var rows []castawayTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select castaways by season: %w", err)
	}

	out := make([]castaway.Castaway, 0, len(rows))
	for _, row := range rows {
		out = append(out, castawayFromRow(row))
	}
	return out, nil
}

func castawayFromRow(row castawayTableModel) castaway.Castaway {
	return castaway.Castaway{
		ID:       row.PublicID,
		SeasonID: row.SeasonID,
		Name:     row.Name,
		Status:   castaway.Status(row.Status),
	}
}
