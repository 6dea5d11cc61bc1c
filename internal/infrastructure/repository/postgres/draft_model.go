package postgres

import (
	"database/sql"
	"time"

	"github.com/lib/pq"
)

type draftTableModel struct {
	ID             int64          `db:"id"`
	PublicID       string         `db:"public_id"`
	LeagueSeasonID string         `db:"league_season_public_id"`
	Status         string         `db:"status"`
	Strategy       string         `db:"strategy"`
	RosterSize     int            `db:"roster_size"`
	TeamIDs        pq.StringArray `db:"team_ids"`
	TurnOrder      pq.StringArray `db:"turn_order"`
	TurnIndex      int            `db:"turn_index"`
	PickCount      int            `db:"pick_count"`
	Version        int64          `db:"version"`
	StartedAt      sql.NullTime   `db:"started_at"`
	CompletedAt    sql.NullTime   `db:"completed_at"`
	CreatedAt      time.Time      `db:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at"`
}

// assignmentInsertModel is the column set written by the ledger.
type assignmentInsertModel struct {
	PublicID       string         `db:"public_id"`
	LeagueSeasonID string         `db:"league_season_public_id"`
	TeamID         string         `db:"team_public_id"`
	CastawayID     string         `db:"castaway_public_id"`
	DraftID        sql.NullString `db:"draft_public_id"`
	PickNumber     int            `db:"pick_number"`
	CreatedAt      time.Time      `db:"created_at"`
}

type assignmentTableModel struct {
	ID int64 `db:"id"`
	assignmentInsertModel
}
