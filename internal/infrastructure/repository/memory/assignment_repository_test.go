package memory

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/riskibarqy/castaway-league/internal/domain/assignment"
)

func newAssignment(id, team, castaway string) assignment.Assignment {
	return assignment.Assignment{
		ID:             id,
		LeagueSeasonID: LeagueSeasonIDDemo,
		TeamID:         team,
		CastawayID:     castaway,
		CreatedAt:      time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC),
	}
}

func TestAssignmentRepository_ConcurrentSameCastawayExactlyOneWins(t *testing.T) {
	store := NewStore()
	store.Load(DemoSeed())
	repo := NewAssignmentRepository(store)

	const attempts = 32
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
	)
	start := make(chan struct{})
	wg.Add(attempts)
	for i := range attempts {
		go func() {
			defer wg.Done()
			<-start
			team := []string{"team-tiki", "team-idol", "team-buff", "team-snuf"}[i%4]
			_, err := repo.TryAssign(t.Context(), newAssignment(fmt.Sprintf("a-%d", i), team, "cw-rachel"), 0)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, assignment.ErrAlreadyAssigned):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	close(start)
	wg.Wait()

	if successes != 1 || conflicts != attempts-1 {
		t.Fatalf("expected exactly one success, got successes=%d conflicts=%d", successes, conflicts)
	}
	items, _ := repo.ListByLeagueSeason(t.Context(), LeagueSeasonIDDemo)
	if len(items) != 1 {
		t.Fatalf("ledger must hold one entry, got %d", len(items))
	}
}

func TestAssignmentRepository_RosterFullAndOrder(t *testing.T) {
	store := NewStore()
	repo := NewAssignmentRepository(store)
	ctx := t.Context()

	if _, err := repo.TryAssign(ctx, newAssignment("a1", "t1", "c1"), 2); err != nil {
		t.Fatalf("first assign: %v", err)
	}
	if _, err := repo.TryAssign(ctx, newAssignment("a2", "t2", "c2"), 2); err != nil {
		t.Fatalf("second assign: %v", err)
	}
	if _, err := repo.TryAssign(ctx, newAssignment("a3", "t1", "c3"), 2); err != nil {
		t.Fatalf("third assign: %v", err)
	}
	if _, err := repo.TryAssign(ctx, newAssignment("a4", "t1", "c4"), 2); !errors.Is(err, assignment.ErrRosterFull) {
		t.Fatalf("expected ErrRosterFull, got %v", err)
	}

	_, err := repo.TryAssign(ctx, newAssignment("a5", "t2", "c1"), 2)
	var conflict *assignment.ConflictError
	if !errors.As(err, &conflict) || conflict.HeldByTeamID != "t1" {
		t.Fatalf("expected conflict naming t1, got %v", err)
	}

	items, err := repo.ListByLeagueSeason(ctx, LeagueSeasonIDDemo)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	var ids []string
	for _, item := range items {
		ids = append(ids, item.ID)
	}
	if fmt.Sprint(ids) != "[a1 a2 a3]" {
		t.Fatalf("expected insertion order, got %v", ids)
	}

	counts, _ := repo.CountByTeam(ctx, LeagueSeasonIDDemo)
	if counts["t1"] != 2 || counts["t2"] != 1 {
		t.Fatalf("unexpected counts %v", counts)
	}
}
