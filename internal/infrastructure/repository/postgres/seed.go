package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/castaway-league/internal/infrastructure/repository/memory"
)

// BootstrapSeed loads seed into an empty database. It is a no-op once any
// league season exists.
func BootstrapSeed(ctx context.Context, db *sqlx.DB, seed memory.Seed) error {
	var count int
	if err := db.GetContext(ctx, &count, `SELECT COUNT(1) FROM league_seasons`); err != nil {
		return fmt.Errorf("count league seasons for bootstrap seed: %w", err)
	}
	if count > 0 {
		return nil
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, s := range seed.Seasons {
		sqlQuery, args, err := sqlx.Named(`
INSERT INTO league_seasons (public_id, league_id, season_id, name, roster_size, created_at)
VALUES (:public_id, :league_id, :season_id, :name, :roster_size, :created_at)
ON CONFLICT (public_id) DO NOTHING`, map[string]any{
			"public_id":   s.ID,
			"league_id":   s.LeagueID,
			"season_id":   s.SeasonID,
			"name":        s.Name,
			"roster_size": s.RosterSize,
			"created_at":  seedTime(s.CreatedAt),
		})
		if err != nil {
			return fmt.Errorf("bind seed league season %s query: %w", s.ID, err)
		}
		sqlQuery = tx.Rebind(sqlQuery)
		if _, err := tx.ExecContext(ctx, sqlQuery, args...); err != nil {
			return fmt.Errorf("seed league season %s: %w", s.ID, err)
		}
	}

	for _, t := range seed.Teams {
		sqlQuery, args, err := sqlx.Named(`
INSERT INTO teams (public_id, league_season_public_id, owner_user_id, name, total_points, created_at)
VALUES (:public_id, :league_season_public_id, :owner_user_id, :name, :total_points, :created_at)
ON CONFLICT (public_id) DO NOTHING`, map[string]any{
			"public_id":               t.ID,
			"league_season_public_id": t.LeagueSeasonID,
			"owner_user_id":           t.OwnerUserID,
			"name":                    t.Name,
			"total_points":            t.TotalPoints,
			"created_at":              seedTime(t.CreatedAt),
		})
		if err != nil {
			return fmt.Errorf("bind seed team %s query: %w", t.ID, err)
		}
		sqlQuery = tx.Rebind(sqlQuery)
		if _, err := tx.ExecContext(ctx, sqlQuery, args...); err != nil {
			return fmt.Errorf("seed team %s: %w", t.ID, err)
		}
	}

	for _, c := range seed.Castaways {
		sqlQuery, args, err := sqlx.Named(`
INSERT INTO castaways (public_id, season_id, name, status)
VALUES (:public_id, :season_id, :name, :status)
ON CONFLICT (public_id) DO NOTHING`, map[string]any{
			"public_id": c.ID,
			"season_id": c.SeasonID,
			"name":      c.Name,
			"status":    string(c.Status),
		})
		if err != nil {
			return fmt.Errorf("bind seed castaway %s query: %w", c.ID, err)
		}
		sqlQuery = tx.Rebind(sqlQuery)
		if _, err := tx.ExecContext(ctx, sqlQuery, args...); err != nil {
			return fmt.Errorf("seed castaway %s: %w", c.ID, err)
		}
	}

	for _, t := range seed.Templates {
		sqlQuery, args, err := sqlx.Named(`
INSERT INTO question_templates (public_id, text, type, options, point_value, created_at)
VALUES (:public_id, :text, :type, :options, :point_value, :created_at)
ON CONFLICT (public_id) DO NOTHING`, map[string]any{
			"public_id":   t.ID,
			"text":        t.Text,
			"type":        string(t.Type),
			"options":     stringArray(t.Options),
			"point_value": t.PointValue,
			"created_at":  seedTime(t.CreatedAt),
		})
		if err != nil {
			return fmt.Errorf("bind seed template %s query: %w", t.ID, err)
		}
		sqlQuery = tx.Rebind(sqlQuery)
		if _, err := tx.ExecContext(ctx, sqlQuery, args...); err != nil {
			return fmt.Errorf("seed template %s: %w", t.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed tx: %w", err)
	}

	return nil
}

func seedTime(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now().UTC()
	}
	return t.UTC()
}
