package grading

import (
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/castaway-league/internal/domain/question"
	"github.com/riskibarqy/castaway-league/internal/domain/wager"
)

func TestDelta(t *testing.T) {
	tests := []struct {
		correct bool
		wager   int64
		want    int64
	}{
		{correct: true, wager: 10, want: 10},
		{correct: false, wager: 10, want: -10},
		{correct: true, wager: 0, want: 0},
		{correct: false, wager: 0, want: 0},
	}
	for _, tc := range tests {
		if got := Delta(tc.correct, tc.wager); got != tc.want {
			t.Fatalf("Delta(%v, %d) = %d, want %d", tc.correct, tc.wager, got, tc.want)
		}
	}
}

func TestIsCorrect(t *testing.T) {
	if !IsCorrect(" red", "Red ") {
		t.Fatalf("comparison must be trimmed and case-insensitive")
	}
	if IsCorrect("Jeff", "Jeff Probst") {
		t.Fatalf("partial answers are incorrect")
	}
}

func mcQuestion() question.LeagueQuestion {
	return question.LeagueQuestion{
		ID:             "q1",
		LeagueSeasonID: "ls1",
		Episode:        1,
		Content:        question.Content{Text: "Which tribe wins?", Type: question.TypeMultipleChoice, Options: []string{"Red", "Blue"}, PointValue: 10},
	}
}

func TestPlan_SkipsGradedAndKeepsOrder(t *testing.T) {
	awarded := int64(5)
	subs := []wager.Submission{
		{ID: "s1", TeamID: "a", Answer: "red", Wager: 10},
		{ID: "s2", TeamID: "b", Answer: "Blue", Wager: 4},
		{ID: "s3", TeamID: "c", Answer: "Red", Wager: 5, Graded: true, AwardedPoints: &awarded},
	}

	results, err := Plan(mcQuestion(), subs, "RED")
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected two results, got %+v", results)
	}
	if results[0].SubmissionID != "s1" || !results[0].Correct || results[0].Delta != 10 {
		t.Fatalf("unexpected first result %+v", results[0])
	}
	if results[1].SubmissionID != "s2" || results[1].Correct || results[1].Delta != -4 {
		t.Fatalf("unexpected second result %+v", results[1])
	}
	if Total(results) != 6 {
		t.Fatalf("unexpected total %d", Total(results))
	}
}

func TestPlan_EmptyFirstRunThenAlreadyGraded(t *testing.T) {
	q := mcQuestion()
	results, err := Plan(q, nil, "Red")
	if err != nil || len(results) != 0 {
		t.Fatalf("first run with no submissions should succeed empty, got %v %v", results, err)
	}

	now := time.Now()
	q.GradedAt = &now
	q.CorrectAnswer = "Red"
	if _, err := Plan(q, nil, "red"); !errors.Is(err, ErrAlreadyGraded) {
		t.Fatalf("expected ErrAlreadyGraded, got %v", err)
	}
}

func TestResolveCorrectAnswer(t *testing.T) {
	q := mcQuestion()

	got, err := ResolveCorrectAnswer(q, " red ")
	if err != nil || got != "Red" {
		t.Fatalf("expected canonical option Red, got %q err=%v", got, err)
	}
	if _, err := ResolveCorrectAnswer(q, "green"); !errors.Is(err, wager.ErrInvalidOption) {
		t.Fatalf("expected ErrInvalidOption, got %v", err)
	}
	if _, err := ResolveCorrectAnswer(q, "  "); !errors.Is(err, ErrCorrectAnswerRequired) {
		t.Fatalf("expected ErrCorrectAnswerRequired, got %v", err)
	}

	now := time.Now()
	q.GradedAt = &now
	q.CorrectAnswer = "Red"
	if _, err := ResolveCorrectAnswer(q, "Blue"); !errors.Is(err, ErrCorrectAnswerMismatch) {
		t.Fatalf("expected ErrCorrectAnswerMismatch, got %v", err)
	}

	fill := question.LeagueQuestion{ID: "q2", Content: question.Content{Type: question.TypeFillInTheBlank}}
	if got, err := ResolveCorrectAnswer(fill, "  Jeff Probst "); err != nil || got != "Jeff Probst" {
		t.Fatalf("unexpected fill-in answer %q err=%v", got, err)
	}
}

func TestDeltasByTeam(t *testing.T) {
	got := DeltasByTeam([]Result{{TeamID: "a", Delta: 3}, {TeamID: "b", Delta: -2}, {TeamID: "a", Delta: -1}})
	if got["a"] != 2 || got["b"] != -2 {
		t.Fatalf("unexpected deltas %v", got)
	}
}
