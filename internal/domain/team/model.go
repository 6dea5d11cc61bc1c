package team

import (
	"fmt"
	"time"
)

// Team is a user's entry in one league-season. TotalPoints is the scoring
// aggregate and is written only by grading.
type Team struct {
	ID             string
	LeagueSeasonID string
	OwnerUserID    string
	Name           string
	TotalPoints    int64
	CreatedAt      time.Time
}

func (t Team) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("team id is required")
	}
	if t.LeagueSeasonID == "" {
		return fmt.Errorf("team league season id is required")
	}
	if t.OwnerUserID == "" {
		return fmt.Errorf("team owner user id is required")
	}
	if t.Name == "" {
		return fmt.Errorf("team name is required")
	}

	return nil
}
