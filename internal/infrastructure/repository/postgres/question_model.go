package postgres

import (
	"database/sql"
	"time"

	"github.com/lib/pq"
)

type questionTemplateInsertModel struct {
	PublicID   string         `db:"public_id"`
	Text       string         `db:"text"`
	Type       string         `db:"type"`
	Options    pq.StringArray `db:"options"`
	PointValue int64          `db:"point_value"`
	CreatedAt  time.Time      `db:"created_at"`
}

type questionTemplateTableModel struct {
	ID int64 `db:"id"`
	questionTemplateInsertModel
	UpdatedAt time.Time `db:"updated_at"`
}

// leagueQuestionInsertModel is shared by single and batch inserts.
type leagueQuestionInsertModel struct {
	PublicID       string         `db:"public_id"`
	LeagueSeasonID string         `db:"league_season_public_id"`
	Episode        int            `db:"episode"`
	TemplateID     sql.NullString `db:"template_public_id"`
	Text           string         `db:"text"`
	Type           string         `db:"type"`
	Options        pq.StringArray `db:"options"`
	PointValue     int64          `db:"point_value"`
	MaxWager       int64          `db:"max_wager"`
	SortOrder      int            `db:"sort_order"`
	CreatedAt      time.Time      `db:"created_at"`
}

type leagueQuestionTableModel struct {
	ID int64 `db:"id"`
	leagueQuestionInsertModel
	CorrectAnswer sql.NullString `db:"correct_answer"`
	GradedAt      sql.NullTime   `db:"graded_at"`
	UpdatedAt     time.Time      `db:"updated_at"`
}

type submissionInsertModel struct {
	PublicID       string    `db:"public_id"`
	LeagueSeasonID string    `db:"league_season_public_id"`
	QuestionID     string    `db:"question_public_id"`
	TeamID         string    `db:"team_public_id"`
	Answer         string    `db:"answer"`
	Wager          int64     `db:"wager"`
	SubmittedAt    time.Time `db:"submitted_at"`
}

type submissionTableModel struct {
	ID int64 `db:"id"`
	submissionInsertModel
	Graded        bool          `db:"graded"`
	AwardedPoints sql.NullInt64 `db:"awarded_points"`
	GradedAt      sql.NullTime  `db:"graded_at"`
}
