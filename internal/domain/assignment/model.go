package assignment

import (
	"fmt"
	"time"

	"github.com/cockroachdb/errors"
)

var (
	ErrAlreadyAssigned = errors.New("castaway already assigned in league season")
	ErrRosterFull      = errors.New("team roster is full")
)

// Assignment is one ledger entry: a castaway held by a team within a
// league-season. Entries are never mutated.
type Assignment struct {
	ID             string
	LeagueSeasonID string
	TeamID         string
	CastawayID     string
	DraftID        string
	PickNumber     int
	CreatedAt      time.Time
}

func (a Assignment) Validate() error {
	if a.ID == "" {
		return fmt.Errorf("assignment id is required")
	}
	if a.LeagueSeasonID == "" {
		return fmt.Errorf("assignment league season id is required")
	}
	if a.TeamID == "" {
		return fmt.Errorf("assignment team id is required")
	}
	if a.CastawayID == "" {
		return fmt.Errorf("assignment castaway id is required")
	}
	if a.PickNumber < 0 {
		return fmt.Errorf("assignment pick number must be >= 0")
	}

	return nil
}

// ConflictError reports which team already holds the castaway. It matches
// ErrAlreadyAssigned with errors.Is.
type ConflictError struct {
	CastawayID   string
	HeldByTeamID string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("castaway %s already assigned to team %s", e.CastawayID, e.HeldByTeamID)
}

func (e *ConflictError) Is(target error) bool {
	return target == ErrAlreadyAssigned
}

// CheckRoster returns ErrRosterFull when held has reached rosterSize.
// A rosterSize of zero means unlimited.
func CheckRoster(held, rosterSize int) error {
	if rosterSize > 0 && held >= rosterSize {
		return fmt.Errorf("%w: holds %d of %d", ErrRosterFull, held, rosterSize)
	}
	return nil
}
