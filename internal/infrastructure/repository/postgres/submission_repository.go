package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/castaway-league/internal/domain/wager"
	qb "github.com/riskibarqy/castaway-league/internal/platform/querybuilder"
)

const (
	submissionColumns    = "id, public_id, league_season_public_id, question_public_id, team_public_id, answer, wager, submitted_at, graded, awarded_points, graded_at"
	submissionTeamUnique = "submissions_team_question_key"
)

type SubmissionRepository struct {
	db *sqlx.DB
}

func NewSubmissionRepository(db *sqlx.DB) *SubmissionRepository {
	return &SubmissionRepository{db: db}
}

// Create holds a shared lock on the question row, so a grading run (which
// takes FOR UPDATE) cannot interleave with the window check and the insert.
func (r *SubmissionRepository) Create(ctx context.Context, s wager.Submission) error {
	if err := s.Validate(); err != nil {
		return fmt.Errorf("validate submission: %w", err)
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx for submission: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	lockQuery, lockArgs, err := qb.Select("graded_at IS NOT NULL AS graded").From("league_questions").
		Where(qb.Eq("public_id", s.QuestionID)).
		ForShare().
		ToSQL()
	if err != nil {
		return fmt.Errorf("build lock question query: %w", err)
	}
	var graded bool
	if err := tx.GetContext(ctx, &graded, lockQuery, lockArgs...); err != nil {
		if isNotFound(err) {
			return fmt.Errorf("question %s not found", s.QuestionID)
		}
		return fmt.Errorf("lock question for submission: %w", err)
	}
	if graded {
		return wager.ErrWindowClosed
	}

	insertQuery, insertArgs, err := qb.InsertModel("submissions", submissionInsertModel{
		PublicID:       s.ID,
		LeagueSeasonID: s.LeagueSeasonID,
		QuestionID:     s.QuestionID,
		TeamID:         s.TeamID,
		Answer:         s.Answer,
		Wager:          s.Wager,
		SubmittedAt:    s.SubmittedAt.UTC(),
	}, "")
	if err != nil {
		return fmt.Errorf("build insert submission query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, insertQuery, insertArgs...); err != nil {
		if isUniqueViolation(err, submissionTeamUnique) {
			return wager.ErrDuplicateSubmission
		}
		return fmt.Errorf("insert submission: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit submission tx: %w", err)
	}
	return nil
}

func (r *SubmissionRepository) GetByTeamAndQuestion(ctx context.Context, teamID, questionID string) (wager.Submission, bool, error) {
	query, args, err := qb.Select(submissionColumns).From("submissions").
		Where(
			qb.Eq("team_public_id", teamID),
			qb.Eq("question_public_id", questionID),
		).
		ToSQL()
	if err != nil {
		return wager.Submission{}, false, fmt.Errorf("build select submission query: %w", err)
	}

	var row submissionTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return wager.Submission{}, false, nil
		}
		return wager.Submission{}, false, fmt.Errorf("get submission: %w", err)
	}
	return submissionFromRow(row), true, nil
}

func (r *SubmissionRepository) ListByQuestion(ctx context.Context, questionID string) ([]wager.Submission, error) {
	return r.list(ctx, qb.Eq("question_public_id", questionID))
}

func (r *SubmissionRepository) ListByTeam(ctx context.Context, teamID string) ([]wager.Submission, error) {
	return r.list(ctx, qb.Eq("team_public_id", teamID))
}

func (r *SubmissionRepository) list(ctx context.Context, cond qb.Condition) ([]wager.Submission, error) {
	query, args, err := qb.Select(submissionColumns).From("submissions").
		Where(cond).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select submissions query: %w", err)
	}

	var rows []submissionTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select submissions: %w", err)
	}
	return submissionsFromRows(rows), nil
}

func submissionsFromRows(rows []submissionTableModel) []wager.Submission {
	out := make([]wager.Submission, 0, len(rows))
	for _, row := range rows {
		out = append(out, submissionFromRow(row))
	}
	return out
}

func submissionFromRow(row submissionTableModel) wager.Submission {
	return wager.Submission{
		ID:             row.PublicID,
		LeagueSeasonID: row.LeagueSeasonID,
		QuestionID:     row.QuestionID,
		TeamID:         row.TeamID,
		Answer:         row.Answer,
		Wager:          row.Wager,
		SubmittedAt:    row.SubmittedAt.UTC(),
		Graded:         row.Graded,
		AwardedPoints:  nullInt64ToPtr(row.AwardedPoints),
		GradedAt:       nullTimeToPtr(row.GradedAt),
	}
}
