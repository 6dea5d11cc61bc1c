package querybuilder

import (
	"testing"
	"time"
)

func TestSelectBuilder(t *testing.T) {
	query, args, err := Select("id", "status", "version").
		From("drafts").
		Where(Eq("league_season_id", "ls-1"), IsNull("completed_at")).
		OrderBy("created_at", "id").
		Limit(10).
		Offset(20).
		ForUpdate().
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT id, status, version FROM drafts WHERE league_season_id = $1 AND completed_at IS NULL ORDER BY created_at, id LIMIT 10 OFFSET 20 FOR UPDATE"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 1 || args[0] != "ls-1" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestSelectBuilder_InAndExpr(t *testing.T) {
	query, args, err := Select("team_id", "COUNT(*)").
		From("assignments").
		Where(In("team_id", []any{"t1", "t2"}), Expr("pick_number > ?", 3)).
		GroupBy("team_id").
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT team_id, COUNT(*) FROM assignments WHERE team_id IN ($1, $2) AND pick_number > $3 GROUP BY team_id"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 3 || args[2] != 3 {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestSelectBuilder_EmptyInMatchesNothing(t *testing.T) {
	query, args, err := Select("id").From("teams").Where(In("id", nil)).ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}
	if query != "SELECT id FROM teams WHERE 1=0" || len(args) != 0 {
		t.Fatalf("unexpected query %q args %+v", query, args)
	}
}

func TestSelectBuilder_RequiresTable(t *testing.T) {
	if _, _, err := Select("id").ToSQL(); err == nil {
		t.Fatalf("expected error for missing table")
	}
}

func TestInsertBuilder(t *testing.T) {
	query, args, err := InsertInto("submissions").
		Columns("id", "team_id").
		Values("s1", "t1").
		Suffix("ON CONFLICT (team_id, question_id) DO NOTHING").
		Returning("id").
		ToSQL()
	if err != nil {
		t.Fatalf("build insert query: %v", err)
	}

	wantQuery := "INSERT INTO submissions (id, team_id) VALUES ($1, $2) ON CONFLICT (team_id, question_id) DO NOTHING RETURNING id"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != "s1" || args[1] != "t1" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertBuilder_RowWidthMismatch(t *testing.T) {
	_, _, err := InsertInto("teams").Columns("id", "name").Values("t1").ToSQL()
	if err == nil {
		t.Fatalf("expected error for short row")
	}
}

func TestUpdateBuilder(t *testing.T) {
	query, args, err := Update("drafts").
		Set("turn_index", 4).
		SetExpr("version", "version + ?", 1).
		SetExpr("updated_at", "NOW()").
		Where(Eq("id", "d1"), Eq("version", int64(7))).
		Returning("version").
		ToSQL()
	if err != nil {
		t.Fatalf("build update query: %v", err)
	}

	wantQuery := "UPDATE drafts SET turn_index = $1, version = version + $2, updated_at = NOW() WHERE id = $3 AND version = $4 RETURNING version"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 4 || args[0] != 4 || args[1] != 1 || args[2] != "d1" || args[3] != int64(7) {
		t.Fatalf("unexpected args: %+v", args)
	}
}

type teamRow struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	CreatedAt time.Time `db:"created_at"`
	ignored   string
	Skip      string `db:"-"`
}

func TestInsertModels(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rows := []teamRow{
		{ID: "t1", Name: "Alpha", CreatedAt: now, ignored: "x"},
		{ID: "t2", Name: "Beta", CreatedAt: now},
	}

	query, args, err := InsertModels("teams", rows, "")
	if err != nil {
		t.Fatalf("build insert models: %v", err)
	}

	wantQuery := "INSERT INTO teams (id, name, created_at) VALUES ($1, $2, $3), ($4, $5, $6)"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 6 || args[3] != "t2" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertModel_RejectsNonStruct(t *testing.T) {
	if _, _, err := InsertModel("teams", 42, ""); err == nil {
		t.Fatalf("expected error for non-struct model")
	}
	var nilRow *teamRow
	if _, _, err := InsertModel("teams", nilRow, ""); err == nil {
		t.Fatalf("expected error for nil model")
	}
}

func TestSelectBuilder_ForShare(t *testing.T) {
	query, _, err := Select("graded_at").From("league_questions").Where(Eq("public_id", "q1")).ForShare().ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}
	if query != "SELECT graded_at FROM league_questions WHERE public_id = $1 FOR SHARE" {
		t.Fatalf("unexpected query %q", query)
	}
}
