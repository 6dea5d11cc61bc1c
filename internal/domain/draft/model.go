package draft

import (
	"fmt"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
)

type Status string

const (
	StatusPending    Status = "PENDING"
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
)

func (s Status) rank() int {
	switch s {
	case StatusPending:
		return 0
	case StatusInProgress:
		return 1
	case StatusCompleted:
		return 2
	default:
		return -1
	}
}

// CanTransitionTo allows only forward, single-step moves.
func (s Status) CanTransitionTo(next Status) bool {
	from, to := s.rank(), next.rank()
	return from >= 0 && to == from+1
}

// Monotonic reports whether moving from one status to another never goes
// backwards. Staying put is allowed.
func Monotonic(from, to Status) bool {
	return from.rank() >= 0 && to.rank() >= from.rank()
}

type OrderStrategy string

const (
	OrderSequential OrderStrategy = "sequential"
	OrderSnake      OrderStrategy = "snake"
	OrderRandom     OrderStrategy = "random"
)

func ParseOrderStrategy(v string) (OrderStrategy, error) {
	switch s := OrderStrategy(strings.ToLower(strings.TrimSpace(v))); s {
	case OrderSequential, OrderSnake, OrderRandom:
		return s, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownStrategy, v)
	}
}

var (
	ErrNotYourTurn         = errors.New("not your turn")
	ErrDraftNotActive      = errors.New("draft is not active")
	ErrDraftClosed         = errors.New("draft is closed")
	ErrCastawayUnavailable = errors.New("castaway unavailable")
	ErrInsufficientTeams   = errors.New("at least two teams are required")
	ErrDraftAlreadyStarted = errors.New("draft already started")
	ErrDraftExists         = errors.New("draft already exists for league season")
	ErrVersionConflict     = errors.New("draft version conflict")
	ErrUnknownStrategy     = errors.New("unknown draft order strategy")
	ErrDuplicateTeam       = errors.New("duplicate team in draft")
)

// StateError reports a lifecycle violation together with the current status,
// so a caller can decide whether refreshing makes sense.
type StateError struct {
	Err    error
	Status Status
}

func (e *StateError) Error() string {
	return fmt.Sprintf("%s (status=%s)", e.Err, e.Status)
}

func (e *StateError) Unwrap() error {
	return e.Err
}

// CastawayUnavailableError wraps the ledger conflict for a draft pick.
type CastawayUnavailableError struct {
	CastawayID   string
	HeldByTeamID string
}

func (e *CastawayUnavailableError) Error() string {
	return fmt.Sprintf("%s: castaway %s held by team %s", ErrCastawayUnavailable, e.CastawayID, e.HeldByTeamID)
}

func (e *CastawayUnavailableError) Is(target error) bool {
	return target == ErrCastawayUnavailable
}

// Draft is the per league-season draft. TurnOrder is the precomputed
// full-duration sequence; TurnIndex points into it. Version increases on
// every committed change and guards compare-and-swap updates.
type Draft struct {
	ID             string
	LeagueSeasonID string
	Status         Status
	Strategy       OrderStrategy
	RosterSize     int
	TeamIDs        []string
	TurnOrder      []string
	TurnIndex      int
	PickCount      int
	Version        int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
	StartedAt      *time.Time
	CompletedAt    *time.Time
}

func (d Draft) Validate() error {
	if d.ID == "" {
		return fmt.Errorf("draft id is required")
	}
	if d.LeagueSeasonID == "" {
		return fmt.Errorf("draft league season id is required")
	}
	if d.Status.rank() < 0 {
		return fmt.Errorf("invalid draft status %q", d.Status)
	}
	if d.RosterSize < 1 {
		return fmt.Errorf("draft roster size must be >= 1")
	}
	if d.Status != StatusPending {
		if len(d.TeamIDs) < 2 {
			return ErrInsufficientTeams
		}
		if len(d.TurnOrder) == 0 {
			return fmt.Errorf("draft turn order is required once started")
		}
		if d.TurnIndex < 0 || d.TurnIndex >= len(d.TurnOrder) {
			return fmt.Errorf("draft turn index %d out of range", d.TurnIndex)
		}
	}

	return nil
}

// CurrentTeamID returns the team on the clock. It is empty unless IN_PROGRESS.
func (d Draft) CurrentTeamID() string {
	if d.Status != StatusInProgress || d.TurnIndex < 0 || d.TurnIndex >= len(d.TurnOrder) {
		return ""
	}
	return d.TurnOrder[d.TurnIndex]
}

// Round is 1-based and derived from the pointer position.
func (d Draft) Round() int {
	if len(d.TeamIDs) == 0 {
		return 0
	}
	return d.TurnIndex/len(d.TeamIDs) + 1
}

func (d Draft) HasTeam(teamID string) bool {
	for _, id := range d.TeamIDs {
		if id == teamID {
			return true
		}
	}
	return false
}
