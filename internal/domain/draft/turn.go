package draft

import (
	"fmt"
	"time"

	"github.com/riskibarqy/castaway-league/internal/domain/assignment"
)

// RemainingCapacity maps each team to the picks it may still make.
func RemainingCapacity(teamIDs []string, rosterSize int, held map[string]int) map[string]int {
	out := make(map[string]int, len(teamIDs))
	for _, id := range teamIDs {
		left := rosterSize - held[id]
		if left < 0 {
			left = 0
		}
		out[id] = left
	}
	return out
}

// NextTurn scans forward from current, wrapping around order, and returns the
// first index whose team still has capacity. ok is false when no team does.
func NextTurn(order []string, current int, remaining map[string]int) (int, bool) {
	n := len(order)
	if n == 0 {
		return 0, false
	}
	for i := 1; i <= n; i++ {
		idx := ((current+i)%n + n) % n
		if remaining[order[idx]] > 0 {
			return idx, true
		}
	}
	return 0, false
}

// FirstTurn is NextTurn from just before the start of order.
func FirstTurn(order []string, remaining map[string]int) (int, bool) {
	return NextTurn(order, -1, remaining)
}

// Start moves a PENDING draft to IN_PROGRESS with the given turn order.
// If no team has capacity left the draft completes immediately.
func Start(d Draft, order []string, remaining map[string]int, now time.Time) (Draft, error) {
	if !d.Status.CanTransitionTo(StatusInProgress) {
		return Draft{}, &StateError{Err: ErrDraftAlreadyStarted, Status: d.Status}
	}

	next := d
	next.TurnOrder = append([]string(nil), order...)
	next.Status = StatusInProgress
	next.StartedAt = &now
	next.UpdatedAt = now
	next.Version = d.Version + 1

	idx, ok := FirstTurn(order, remaining)
	if !ok {
		next.Status = StatusCompleted
		next.CompletedAt = &now
		return next, nil
	}
	next.TurnIndex = idx
	return next, nil
}

// PlanPick validates a pick request against the draft state and returns the
// draft as it will be once the pick commits. remaining must reflect the
// ledger before this pick. Castaway availability is checked by the ledger.
func PlanPick(d Draft, teamID string, remaining map[string]int, now time.Time) (Draft, error) {
	switch {
	case d.Status == StatusCompleted:
		return Draft{}, &StateError{Err: ErrDraftClosed, Status: d.Status}
	case d.Status != StatusInProgress:
		return Draft{}, &StateError{Err: ErrDraftNotActive, Status: d.Status}
	}

	current := d.CurrentTeamID()
	if current != teamID {
		return Draft{}, fmt.Errorf("%w: team %s is on the clock", ErrNotYourTurn, current)
	}
	if err := assignment.CheckRoster(d.RosterSize-remaining[teamID], d.RosterSize); err != nil {
		return Draft{}, err
	}

	after := make(map[string]int, len(remaining))
	for id, left := range remaining {
		after[id] = left
	}
	after[teamID]--

	next := d
	next.PickCount = d.PickCount + 1
	next.Version = d.Version + 1
	next.UpdatedAt = now

	idx, ok := NextTurn(d.TurnOrder, d.TurnIndex, after)
	if !ok {
		next.Status = StatusCompleted
		next.CompletedAt = &now
		return next, nil
	}
	next.TurnIndex = idx
	return next, nil
}
