package postgres

import "time"

type leagueSeasonTableModel struct {
	ID         int64     `db:"id"`
	PublicID   string    `db:"public_id"`
	LeagueID   string    `db:"league_id"`
	SeasonID   string    `db:"season_id"`
	Name       string    `db:"name"`
	RosterSize int       `db:"roster_size"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}
