package httpapi

import (
	"context"
	"time"

	"github.com/riskibarqy/castaway-league/internal/domain/assignment"
	"github.com/riskibarqy/castaway-league/internal/domain/draft"
	"github.com/riskibarqy/castaway-league/internal/domain/grading"
	"github.com/riskibarqy/castaway-league/internal/domain/question"
	"github.com/riskibarqy/castaway-league/internal/domain/wager"
	"github.com/riskibarqy/castaway-league/internal/usecase"
)

type startDraftRequest struct {
	TeamIDs    []string `json:"team_ids" validate:"omitempty,min=2,dive,required"`
	Strategy   string   `json:"strategy" validate:"omitempty,oneof=sequential snake random"`
	RosterSize int      `json:"roster_size" validate:"omitempty,min=1,max=50"`
}

type draftPickRequest struct {
	CastawayID string `json:"castaway_id" validate:"required,max=64"`
}

type questionContentRequest struct {
	Text       string   `json:"text" validate:"required,max=500"`
	Type       string   `json:"type" validate:"required,oneof=MULTIPLE_CHOICE FILL_IN_THE_BLANK"`
	Options    []string `json:"options" validate:"omitempty,max=20,dive,required,max=200"`
	PointValue int64    `json:"point_value" validate:"omitempty,min=1"`
}

type instantiateQuestionRequest struct {
	Episode    int                     `json:"episode" validate:"required,min=1"`
	TemplateID string                  `json:"template_id" validate:"required_without=Inline,excluded_with=Inline"`
	Inline     *questionContentRequest `json:"inline"`
	PointValue *int64                  `json:"point_value" validate:"omitempty,min=1"`
	SortOrder  *int                    `json:"sort_order" validate:"omitempty,min=0"`
}

type createFromTemplatesRequest struct {
	Episode     int      `json:"episode" validate:"required,min=1"`
	TemplateIDs []string `json:"template_ids" validate:"required,min=1,max=50,dive,required"`
}

type submitAnswerRequest struct {
	Answer string `json:"answer" validate:"required,max=500"`
	Wager  *int64 `json:"wager" validate:"omitempty,min=0"`
}

type gradeQuestionRequest struct {
	CorrectAnswer string `json:"correct_answer" validate:"required,max=500"`
}

type draftDTO struct {
	ID             string     `json:"id"`
	LeagueSeasonID string     `json:"leagueSeasonId"`
	Status         string     `json:"status"`
	Strategy       string     `json:"strategy"`
	RosterSize     int        `json:"rosterSize"`
	TeamIDs        []string   `json:"teamIds"`
	TurnOrder      []string   `json:"turnOrder"`
	CurrentTeamID  string     `json:"currentTeamId,omitempty"`
	Round          int        `json:"round"`
	PickCount      int        `json:"pickCount"`
	Version        int64      `json:"version"`
	StartedAt      *time.Time `json:"startedAt,omitempty"`
	CompletedAt    *time.Time `json:"completedAt,omitempty"`
}

type assignmentDTO struct {
	ID             string    `json:"id"`
	LeagueSeasonID string    `json:"leagueSeasonId"`
	TeamID         string    `json:"teamId"`
	CastawayID     string    `json:"castawayId"`
	DraftID        string    `json:"draftId,omitempty"`
	PickNumber     int       `json:"pickNumber"`
	CreatedAt      time.Time `json:"createdAt"`
}

type draftPickDTO struct {
	Assignment assignmentDTO `json:"assignment"`
	Draft      draftDTO      `json:"draft"`
}

type questionContentDTO struct {
	Text       string   `json:"text"`
	Type       string   `json:"type"`
	Options    []string `json:"options,omitempty"`
	PointValue int64    `json:"pointValue"`
}

type templateDTO struct {
	ID        string             `json:"id"`
	Content   questionContentDTO `json:"content"`
	CreatedAt time.Time          `json:"createdAt"`
}

type leagueQuestionDTO struct {
	ID             string             `json:"id"`
	LeagueSeasonID string             `json:"leagueSeasonId"`
	Episode        int                `json:"episode"`
	Content        questionContentDTO `json:"content"`
	MaxWager       int64              `json:"maxWager"`
	SortOrder      int                `json:"sortOrder"`
	CorrectAnswer  string             `json:"correctAnswer,omitempty"`
	GradedAt       *time.Time         `json:"gradedAt,omitempty"`
}

type submissionDTO struct {
	ID            string     `json:"id"`
	QuestionID    string     `json:"questionId"`
	TeamID        string     `json:"teamId"`
	Answer        string     `json:"answer"`
	Wager         int64      `json:"wager"`
	SubmittedAt   time.Time  `json:"submittedAt"`
	Graded        bool       `json:"graded"`
	AwardedPoints *int64     `json:"awardedPoints,omitempty"`
	GradedAt      *time.Time `json:"gradedAt,omitempty"`
}

type gradingResultDTO struct {
	SubmissionID string `json:"submissionId"`
	TeamID       string `json:"teamId"`
	Answer       string `json:"answer"`
	Wager        int64  `json:"wager"`
	Correct      bool   `json:"correct"`
	Delta        int64  `json:"delta"`
}

type teamTotalDTO struct {
	TeamID      string `json:"teamId"`
	TotalPoints int64  `json:"totalPoints"`
}

func draftToDTO(ctx context.Context, v draft.Draft) draftDTO {
	_, span := startSpan(ctx, "httpapi.draftToDTO")
	defer span.End()

	return draftDTO{
		ID:             v.ID,
		LeagueSeasonID: v.LeagueSeasonID,
		Status:         string(v.Status),
		Strategy:       string(v.Strategy),
		RosterSize:     v.RosterSize,
		TeamIDs:        nonNilStrings(v.TeamIDs),
		TurnOrder:      nonNilStrings(v.TurnOrder),
		CurrentTeamID:  v.CurrentTeamID(),
		Round:          v.Round(),
		PickCount:      v.PickCount,
		Version:        v.Version,
		StartedAt:      v.StartedAt,
		CompletedAt:    v.CompletedAt,
	}
}

func assignmentToDTO(v assignment.Assignment) assignmentDTO {
	return assignmentDTO{
		ID:             v.ID,
		LeagueSeasonID: v.LeagueSeasonID,
		TeamID:         v.TeamID,
		CastawayID:     v.CastawayID,
		DraftID:        v.DraftID,
		PickNumber:     v.PickNumber,
		CreatedAt:      v.CreatedAt,
	}
}

func contentToDTO(v question.Content) questionContentDTO {
	return questionContentDTO{
		Text:       v.Text,
		Type:       string(v.Type),
		Options:    v.Options,
		PointValue: v.PointValue,
	}
}

func templateToDTO(v question.Template) templateDTO {
	return templateDTO{
		ID:        v.ID,
		Content:   contentToDTO(v.Content),
		CreatedAt: v.CreatedAt,
	}
}

func leagueQuestionToDTO(v question.LeagueQuestion) leagueQuestionDTO {
	return leagueQuestionDTO{
		ID:             v.ID,
		LeagueSeasonID: v.LeagueSeasonID,
		Episode:        v.Episode,
		Content:        contentToDTO(v.Content),
		MaxWager:       v.MaxWager,
		SortOrder:      v.SortOrder,
		CorrectAnswer:  v.CorrectAnswer,
		GradedAt:       v.GradedAt,
	}
}

func submissionToDTO(v wager.Submission) submissionDTO {
	return submissionDTO{
		ID:            v.ID,
		QuestionID:    v.QuestionID,
		TeamID:        v.TeamID,
		Answer:        v.Answer,
		Wager:         v.Wager,
		SubmittedAt:   v.SubmittedAt,
		Graded:        v.Graded,
		AwardedPoints: v.AwardedPoints,
		GradedAt:      v.GradedAt,
	}
}

func gradingResultToDTO(v grading.Result) gradingResultDTO {
	return gradingResultDTO{
		SubmissionID: v.SubmissionID,
		TeamID:       v.TeamID,
		Answer:       v.Answer,
		Wager:        v.Wager,
		Correct:      v.Correct,
		Delta:        v.Delta,
	}
}

func (r questionContentRequest) toInput() usecase.QuestionContentInput {
	return usecase.QuestionContentInput{
		Text:       r.Text,
		Type:       r.Type,
		Options:    r.Options,
		PointValue: r.PointValue,
	}
}

func mapSlice[T, D any](items []T, convert func(T) D) []D {
	out := make([]D, 0, len(items))
	for _, item := range items {
		out = append(out, convert(item))
	}
	return out
}

func nonNilStrings(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}
