package postgres

import "time"

type teamTableModel struct {
	ID             int64     `db:"id"`
	PublicID       string    `db:"public_id"`
	LeagueSeasonID string    `db:"league_season_public_id"`
	OwnerUserID    string    `db:"owner_user_id"`
	Name           string    `db:"name"`
	TotalPoints    int64     `db:"total_points"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

type castawayTableModel struct {
	ID        int64     `db:"id"`
	PublicID  string    `db:"public_id"`
	SeasonID  string    `db:"season_id"`
	Name      string    `db:"name"`
	Status    string    `db:"status"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}
