package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/castaway-league/internal/domain/grading"
	"github.com/riskibarqy/castaway-league/internal/domain/question"
	qb "github.com/riskibarqy/castaway-league/internal/platform/querybuilder"
)

type GradingRepository struct {
	db *sqlx.DB
}

func NewGradingRepository(db *sqlx.DB) *GradingRepository {
	return &GradingRepository{db: db}
}

// Settle locks the question row, then its submissions, for the whole run.
// Concurrent gradings of one question queue on the first lock and the later
// one plans against already-graded rows.
func (r *GradingRepository) Settle(ctx context.Context, questionID string, gradedAt time.Time, plan grading.PlanFunc) ([]grading.Result, question.LeagueQuestion, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, question.LeagueQuestion{}, fmt.Errorf("begin tx for grading: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	lockQuery, lockArgs, err := qb.Select(leagueQuestionColumns).From("league_questions").
		Where(qb.Eq("public_id", questionID)).
		ForUpdate().
		ToSQL()
	if err != nil {
		return nil, question.LeagueQuestion{}, fmt.Errorf("build lock question query: %w", err)
	}
	var qRow leagueQuestionTableModel
	if err := tx.GetContext(ctx, &qRow, lockQuery, lockArgs...); err != nil {
		if isNotFound(err) {
			return nil, question.LeagueQuestion{}, grading.ErrUnknownQuestion
		}
		return nil, question.LeagueQuestion{}, fmt.Errorf("lock question for grading: %w", err)
	}
	q := questionFromRow(qRow)

	subsQuery, subsArgs, err := qb.Select(submissionColumns).From("submissions").
		Where(qb.Eq("question_public_id", questionID)).
		OrderBy("id").
		ForUpdate().
		ToSQL()
	if err != nil {
		return nil, question.LeagueQuestion{}, fmt.Errorf("build lock submissions query: %w", err)
	}
	var subRows []submissionTableModel
	if err := tx.SelectContext(ctx, &subRows, subsQuery, subsArgs...); err != nil {
		return nil, question.LeagueQuestion{}, fmt.Errorf("lock submissions for grading: %w", err)
	}

	correct, results, err := plan(q, submissionsFromRows(subRows))
	if err != nil {
		return nil, question.LeagueQuestion{}, err
	}

	at := gradedAt.UTC()
	for _, res := range results {
		if err := gradeSubmissionTx(ctx, tx, questionID, res, at); err != nil {
			return nil, question.LeagueQuestion{}, err
		}
		if _, err := applyDeltaTx(ctx, tx, res.TeamID, res.Delta); err != nil {
			return nil, question.LeagueQuestion{}, err
		}
	}

	if !q.IsGraded() {
		closeQuery, closeArgs, err := qb.Update("league_questions").
			Set("graded_at", at).
			Set("correct_answer", correct).
			SetExpr("updated_at", "NOW()").
			Where(qb.Eq("public_id", questionID)).
			ToSQL()
		if err != nil {
			return nil, question.LeagueQuestion{}, fmt.Errorf("build close question query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, closeQuery, closeArgs...); err != nil {
			return nil, question.LeagueQuestion{}, fmt.Errorf("close question: %w", err)
		}
		q.GradedAt = &at
		q.CorrectAnswer = correct
	}

	if err := tx.Commit(); err != nil {
		return nil, question.LeagueQuestion{}, fmt.Errorf("commit grading tx: %w", err)
	}
	return results, q, nil
}

func gradeSubmissionTx(ctx context.Context, tx *sqlx.Tx, questionID string, res grading.Result, at time.Time) error {
	query, args, err := qb.Update("submissions").
		Set("graded", true).
		Set("awarded_points", res.Delta).
		Set("graded_at", at).
		Where(
			qb.Eq("public_id", res.SubmissionID),
			qb.Eq("question_public_id", questionID),
			qb.Eq("graded", false),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build grade submission query: %w", err)
	}

	out, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("grade submission %s: %w", res.SubmissionID, err)
	}
	affected, err := out.RowsAffected()
	if err != nil {
		return fmt.Errorf("read graded submission rows: %w", err)
	}
	if affected != 1 {
		return fmt.Errorf("submission %s missing or already graded", res.SubmissionID)
	}
	return nil
}

// applyDeltaTx is the single-statement total increment of a settlement.
func applyDeltaTx(ctx context.Context, tx *sqlx.Tx, teamID string, delta int64) (int64, error) {
	query, args, err := qb.Update("teams").
		SetExpr("total_points", "total_points + ?", delta).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("public_id", teamID)).
		Returning("total_points").
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build apply team delta query: %w", err)
	}

	var total int64
	if err := tx.GetContext(ctx, &total, query, args...); err != nil {
		if isNotFound(err) {
			return 0, fmt.Errorf("team %s not found", teamID)
		}
		return 0, fmt.Errorf("apply team delta: %w", err)
	}
	return total, nil
}
