package notification

import (
	"context"
	"time"
)

type EventType string

const (
	EventDraftTurn             EventType = "draft.turn"
	EventDraftCompleted        EventType = "draft.completed"
	EventResultsAvailable      EventType = "results.available"
	EventQuestionWindowClosing EventType = "question.window_closing"
)

// Event is handed to the notification collaborator. Delivery, scheduling
// and preference filtering are its concern.
type Event struct {
	ID             string    `json:"id"`
	Type           EventType `json:"type"`
	LeagueSeasonID string    `json:"leagueSeasonId"`
	DraftID        string    `json:"draftId,omitempty"`
	TeamID         string    `json:"teamId,omitempty"`
	Round          int       `json:"round,omitempty"`
	QuestionIDs    []string  `json:"questionIds,omitempty"`
	Episode        int       `json:"episode,omitempty"`
	GradedCount    int       `json:"gradedCount,omitempty"`
	OccurredAt     time.Time `json:"occurredAt"`
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
}
