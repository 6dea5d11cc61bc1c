package league

import (
	"fmt"
	"time"
)

// Season binds one league to one show-season. Drafting and scoring are scoped to it.
type Season struct {
	ID         string
	LeagueID   string
	SeasonID   string
	Name       string
	RosterSize int
	CreatedAt  time.Time
}

func (s Season) Validate() error {
	if s.ID == "" {
		return fmt.Errorf("league season id is required")
	}
	if s.LeagueID == "" {
		return fmt.Errorf("league id is required")
	}
	if s.SeasonID == "" {
		return fmt.Errorf("season id is required")
	}
	if s.RosterSize < 0 {
		return fmt.Errorf("roster size must be >= 0")
	}

	return nil
}
