//go:build integration

package postgres

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/riskibarqy/castaway-league/internal/domain/assignment"
	"github.com/riskibarqy/castaway-league/internal/domain/draft"
	"github.com/riskibarqy/castaway-league/internal/domain/grading"
	"github.com/riskibarqy/castaway-league/internal/domain/question"
	"github.com/riskibarqy/castaway-league/internal/domain/wager"
	"github.com/riskibarqy/castaway-league/internal/infrastructure/repository/memory"
)

func startPostgres(t *testing.T, ctx context.Context) *sqlx.DB {
	t.Helper()
	if _, err := tc.NewDockerProvider(); err != nil {
		t.Skipf("docker not available: %v", err)
	}

	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        "postgres:16-alpine",
			Env:          map[string]string{"POSTGRES_USER": "castaway", "POSTGRES_PASSWORD": "castaway", "POSTGRES_DB": "castaway"},
			ExposedPorts: []string{"5432/tcp"},
			WaitingFor:   wait.ForLog("database system is ready to accept connections").WithOccurrence(2).WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start postgres: %v", err)
	}
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)
	dsn := fmt.Sprintf("postgres://castaway:castaway@%s:%s/castaway?sslmode=disable", host, port.Port())

	_, thisFile, _, _ := runtime.Caller(0)
	migrationsDir := filepath.Join(filepath.Dir(thisFile), "..", "..", "..", "..", "db", "migrations")
	m, err := migrate.New("file://"+filepath.ToSlash(migrationsDir), dsn)
	require.NoError(t, err)
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		t.Fatalf("migrate up: %v", err)
	}
	_, _ = m.Close()

	db, err := sqlx.ConnectContext(ctx, "postgres", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, BootstrapSeed(ctx, db, memory.DemoSeed()))
	return db
}

func TestPostgres_DraftPickLedger(t *testing.T) {
	ctx := context.Background()
	db := startPostgres(t, ctx)

	drafts := NewDraftRepository(db)
	ledger := NewAssignmentRepository(db)
	now := time.Date(2026, 10, 1, 20, 0, 0, 0, time.UTC)

	d := draft.Draft{
		ID:             "draft-1",
		LeagueSeasonID: memory.LeagueSeasonIDDemo,
		Status:         draft.StatusInProgress,
		Strategy:       draft.OrderSequential,
		RosterSize:     1,
		TeamIDs:        []string{"team-tiki", "team-idol"},
		TurnOrder:      []string{"team-tiki", "team-idol"},
		Version:        1,
		CreatedAt:      now,
		UpdatedAt:      now,
		StartedAt:      &now,
	}
	require.NoError(t, drafts.Create(ctx, d))
	require.ErrorIs(t, drafts.Create(ctx, d), draft.ErrDraftExists)

	next := d
	next.TurnIndex = 1
	next.PickCount = 1
	next.Version = 2
	pick := assignment.Assignment{
		ID:             "asg-1",
		LeagueSeasonID: memory.LeagueSeasonIDDemo,
		TeamID:         "team-tiki",
		CastawayID:     "cw-rachel",
		DraftID:        d.ID,
		PickNumber:     1,
		CreatedAt:      now,
	}
	_, err := drafts.CommitPick(ctx, draft.PickCommit{Next: next, ExpectedVersion: 1, Assignment: pick})
	require.NoError(t, err)

	_, err = drafts.CommitPick(ctx, draft.PickCommit{Next: next, ExpectedVersion: 1, Assignment: pick})
	require.ErrorIs(t, err, draft.ErrVersionConflict)

	stolen := pick
	stolen.ID = "asg-2"
	stolen.TeamID = "team-idol"
	final := next
	final.Version = 3
	_, err = drafts.CommitPick(ctx, draft.PickCommit{Next: final, ExpectedVersion: 2, Assignment: stolen})
	var conflict *assignment.ConflictError
	require.ErrorAs(t, err, &conflict)
	require.Equal(t, "team-tiki", conflict.HeldByTeamID)

	stored, ok, err := drafts.GetByID(ctx, d.ID)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, int64(2), stored.Version)
	require.Equal(t, []string{"team-tiki", "team-idol"}, stored.TurnOrder)

	entries, err := ledger.ListByLeagueSeason(ctx, memory.LeagueSeasonIDDemo)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	counts, err := ledger.CountByTeam(ctx, memory.LeagueSeasonIDDemo)
	require.NoError(t, err)
	require.Equal(t, map[string]int{"team-tiki": 1}, counts)
}

func TestPostgres_ConcurrentAssignExactlyOneWins(t *testing.T) {
	ctx := context.Background()
	db := startPostgres(t, ctx)
	ledger := NewAssignmentRepository(db)

	teams := []string{"team-tiki", "team-idol", "team-buff", "team-snuf"}
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := ledger.TryAssign(ctx, assignment.Assignment{
				ID:             fmt.Sprintf("asg-%d", i),
				LeagueSeasonID: memory.LeagueSeasonIDDemo,
				TeamID:         teams[i%len(teams)],
				CastawayID:     "cw-sam",
				CreatedAt:      time.Now().UTC(),
			}, 2)
			if err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
				return
			}
			if !errors.Is(err, assignment.ErrAlreadyAssigned) {
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()
	require.Equal(t, 1, successes)
}

func TestPostgres_SubmitAndSettle(t *testing.T) {
	ctx := context.Background()
	db := startPostgres(t, ctx)

	questions := NewQuestionRepository(db)
	submissions := NewSubmissionRepository(db)
	settler := NewGradingRepository(db)
	scores := NewScoringRepository(db)
	now := time.Date(2026, 10, 1, 20, 0, 0, 0, time.UTC)

	maxSort, err := questions.MaxSortOrder(ctx, memory.LeagueSeasonIDDemo, 1)
	require.NoError(t, err)
	require.Zero(t, maxSort)

	q := question.LeagueQuestion{
		ID:             "q-1",
		LeagueSeasonID: memory.LeagueSeasonIDDemo,
		Episode:        1,
		TemplateID:     "tpl-immunity-winner",
		Content: question.Content{
			Text:       "Which tribe wins immunity?",
			Type:       question.TypeMultipleChoice,
			Options:    []string{"Red", "Blue"},
			PointValue: 5,
		},
		MaxWager:  100,
		SortOrder: 1,
		CreatedAt: now,
	}
	require.NoError(t, questions.CreateBatch(ctx, []question.LeagueQuestion{q}))

	for _, s := range []wager.Submission{
		{ID: "s-1", LeagueSeasonID: q.LeagueSeasonID, QuestionID: q.ID, TeamID: "team-tiki", Answer: "Red", Wager: 10, SubmittedAt: now},
		{ID: "s-2", LeagueSeasonID: q.LeagueSeasonID, QuestionID: q.ID, TeamID: "team-idol", Answer: "Blue", Wager: 7, SubmittedAt: now},
	} {
		require.NoError(t, submissions.Create(ctx, s))
	}
	dup := wager.Submission{ID: "s-3", LeagueSeasonID: q.LeagueSeasonID, QuestionID: q.ID, TeamID: "team-tiki", Answer: "Blue", Wager: 1, SubmittedAt: now}
	require.ErrorIs(t, submissions.Create(ctx, dup), wager.ErrDuplicateSubmission)

	plan := func(lq question.LeagueQuestion, subs []wager.Submission) (string, []grading.Result, error) {
		results, err := grading.Plan(lq, subs, "red")
		return "Red", results, err
	}
	results, graded, err := settler.Settle(ctx, q.ID, now.Add(time.Hour), plan)
	require.NoError(t, err)
	require.Len(t, results, 2)
	require.True(t, graded.IsGraded())
	require.Equal(t, "Red", graded.CorrectAnswer)

	_, _, err = settler.Settle(ctx, q.ID, now.Add(2*time.Hour), plan)
	require.ErrorIs(t, err, grading.ErrAlreadyGraded)

	tiki, ok, err := scores.CurrentTotal(ctx, "team-tiki")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, int64(10), tiki)
	idol, _, err := scores.CurrentTotal(ctx, "team-idol")
	require.NoError(t, err)
	require.Equal(t, int64(-7), idol)

	late := wager.Submission{ID: "s-4", LeagueSeasonID: q.LeagueSeasonID, QuestionID: q.ID, TeamID: "team-buff", Answer: "Red", Wager: 1, SubmittedAt: now}
	require.ErrorIs(t, submissions.Create(ctx, late), wager.ErrWindowClosed)

	stored, ok, err := submissions.GetByTeamAndQuestion(ctx, "team-idol", q.ID)
	require.NoError(t, err)
	require.True(t, ok)
	require.True(t, stored.Graded)
	require.Equal(t, int64(-7), *stored.AwardedPoints)
}
