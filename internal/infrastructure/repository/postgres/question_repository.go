package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/castaway-league/internal/domain/question"
	qb "github.com/riskibarqy/castaway-league/internal/platform/querybuilder"
)

const (
	questionTemplateColumns = "id, public_id, text, type, options, point_value, created_at, updated_at"
	leagueQuestionColumns   = "id, public_id, league_season_public_id, episode, template_public_id, text, type, options, point_value, max_wager, sort_order, correct_answer, graded_at, created_at, updated_at"
)

type QuestionTemplateRepository struct {
	db *sqlx.DB
}

func NewQuestionTemplateRepository(db *sqlx.DB) *QuestionTemplateRepository {
	return &QuestionTemplateRepository{db: db}
}

func (r *QuestionTemplateRepository) CreateTemplate(ctx context.Context, t question.Template) error {
	if err := t.Validate(); err != nil {
		return fmt.Errorf("validate template: %w", err)
	}

	query, args, err := qb.InsertModel("question_templates", templateToRow(t), "")
	if err != nil {
		return fmt.Errorf("build insert template query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err, "") {
			return fmt.Errorf("template %s already exists", t.ID)
		}
		return fmt.Errorf("insert template: %w", err)
	}
	return nil
}

// UpsertTemplates loads a template library in one tx, replacing the content
// of templates that already exist. League questions keep their snapshots.
func (r *QuestionTemplateRepository) UpsertTemplates(ctx context.Context, templates []question.Template) error {
	if len(templates) == 0 {
		return nil
	}
	rows := make([]questionTemplateInsertModel, 0, len(templates))
	for _, t := range templates {
		if err := t.Validate(); err != nil {
			return fmt.Errorf("validate template %s: %w", t.ID, err)
		}
		rows = append(rows, templateToRow(t))
	}

	query, args, err := qb.InsertModels("question_templates", rows, `
ON CONFLICT (public_id) DO UPDATE SET
    text = EXCLUDED.text,
    type = EXCLUDED.type,
    options = EXCLUDED.options,
    point_value = EXCLUDED.point_value,
    updated_at = NOW()`)
	if err != nil {
		return fmt.Errorf("build upsert templates query: %w", err)
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx for template upsert: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert templates: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit template upsert tx: %w", err)
	}
	return nil
}

func (r *QuestionTemplateRepository) GetTemplate(ctx context.Context, templateID string) (question.Template, bool, error) {
	query, args, err := qb.Select(questionTemplateColumns).From("question_templates").
		Where(qb.Eq("public_id", templateID)).
		ToSQL()
	if err != nil {
		return question.Template{}, false, fmt.Errorf("build select template query: %w", err)
	}

	var row questionTemplateTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return question.Template{}, false, nil
		}
		return question.Template{}, false, fmt.Errorf("get template: %w", err)
	}
	return templateFromRow(row), true, nil
}

func (r *QuestionTemplateRepository) ListTemplates(ctx context.Context) ([]question.Template, error) {
	query, args, err := qb.Select(questionTemplateColumns).From("question_templates").
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select templates query: %w", err)
	}

	var rows []questionTemplateTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select templates: %w", err)
	}

	out := make([]question.Template, 0, len(rows))
	for _, row := range rows {
		out = append(out, templateFromRow(row))
	}
	return out, nil
}

type QuestionRepository struct {
	db *sqlx.DB
}

func NewQuestionRepository(db *sqlx.DB) *QuestionRepository {
	return &QuestionRepository{db: db}
}

func (r *QuestionRepository) Create(ctx context.Context, q question.LeagueQuestion) error {
	return r.CreateBatch(ctx, []question.LeagueQuestion{q})
}

// CreateBatch is a single multi-row INSERT, so the batch lands whole or not at all.
func (r *QuestionRepository) CreateBatch(ctx context.Context, qs []question.LeagueQuestion) error {
	if len(qs) == 0 {
		return nil
	}
	rows := make([]leagueQuestionInsertModel, 0, len(qs))
	for _, q := range qs {
		if err := q.Validate(); err != nil {
			return fmt.Errorf("validate question %s: %w", q.ID, err)
		}
		rows = append(rows, leagueQuestionInsertModel{
			PublicID:       q.ID,
			LeagueSeasonID: q.LeagueSeasonID,
			Episode:        q.Episode,
			TemplateID:     stringToNull(q.TemplateID),
			Text:           q.Text,
			Type:           string(q.Type),
			Options:        stringArray(q.Options),
			PointValue:     q.PointValue,
			MaxWager:       q.MaxWager,
			SortOrder:      q.SortOrder,
			CreatedAt:      q.CreatedAt.UTC(),
		})
	}

	query, args, err := qb.InsertModels("league_questions", rows, "")
	if err != nil {
		return fmt.Errorf("build insert questions query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err, "") {
			return fmt.Errorf("question already exists: %w", err)
		}
		return fmt.Errorf("insert questions: %w", err)
	}
	return nil
}

func (r *QuestionRepository) GetByID(ctx context.Context, questionID string) (question.LeagueQuestion, bool, error) {
	query, args, err := qb.Select(leagueQuestionColumns).From("league_questions").
		Where(qb.Eq("public_id", questionID)).
		ToSQL()
	if err != nil {
		return question.LeagueQuestion{}, false, fmt.Errorf("build select question query: %w", err)
	}

	var row leagueQuestionTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return question.LeagueQuestion{}, false, nil
		}
		return question.LeagueQuestion{}, false, fmt.Errorf("get question: %w", err)
	}
	return questionFromRow(row), true, nil
}

func (r *QuestionRepository) ListByEpisode(ctx context.Context, leagueSeasonID string, episode int) ([]question.LeagueQuestion, error) {
	query, args, err := qb.Select(leagueQuestionColumns).From("league_questions").
		Where(
			qb.Eq("league_season_public_id", leagueSeasonID),
			qb.Eq("episode", episode),
		).
		OrderBy("sort_order", "created_at", "public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select episode questions query: %w", err)
	}

	var rows []leagueQuestionTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select episode questions: %w", err)
	}

	out := make([]question.LeagueQuestion, 0, len(rows))
	for _, row := range rows {
		out = append(out, questionFromRow(row))
	}
	return out, nil
}

func (r *QuestionRepository) MaxSortOrder(ctx context.Context, leagueSeasonID string, episode int) (int, error) {
	query, args, err := qb.Select("COALESCE(MAX(sort_order), 0)").From("league_questions").
		Where(
			qb.Eq("league_season_public_id", leagueSeasonID),
			qb.Eq("episode", episode),
		).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build max sort order query: %w", err)
	}

	var maxOrder int
	if err := r.db.GetContext(ctx, &maxOrder, query, args...); err != nil {
		return 0, fmt.Errorf("select max sort order: %w", err)
	}
	return maxOrder, nil
}

func templateToRow(t question.Template) questionTemplateInsertModel {
	return questionTemplateInsertModel{
		PublicID:   t.ID,
		Text:       t.Text,
		Type:       string(t.Type),
		Options:    stringArray(t.Options),
		PointValue: t.PointValue,
		CreatedAt:  t.CreatedAt.UTC(),
	}
}

func templateFromRow(row questionTemplateTableModel) question.Template {
	return question.Template{
		ID: row.PublicID,
		Content: question.Content{
			Text:       row.Text,
			Type:       question.Type(row.Type),
			Options:    optionsFromArray(row.Options),
			PointValue: row.PointValue,
		},
		CreatedAt: row.CreatedAt.UTC(),
	}
}

func questionFromRow(row leagueQuestionTableModel) question.LeagueQuestion {
	return question.LeagueQuestion{
		ID:             row.PublicID,
		LeagueSeasonID: row.LeagueSeasonID,
		Episode:        row.Episode,
		TemplateID:     row.TemplateID.String,
		Content: question.Content{
			Text:       row.Text,
			Type:       question.Type(row.Type),
			Options:    optionsFromArray(row.Options),
			PointValue: row.PointValue,
		},
		MaxWager:      row.MaxWager,
		SortOrder:     row.SortOrder,
		CorrectAnswer: row.CorrectAnswer.String,
		GradedAt:      nullTimeToPtr(row.GradedAt),
		CreatedAt:     row.CreatedAt.UTC(),
	}
}

// optionsFromArray keeps fill-in-the-blank options nil, matching the domain.
func optionsFromArray(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	return append([]string(nil), values...)
}
