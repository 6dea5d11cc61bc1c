package question

import (
	"errors"
	"testing"
	"time"
)

func TestContentValidate(t *testing.T) {
	tests := []struct {
		name    string
		content Content
		wantErr error
	}{
		{name: "valid multiple choice", content: Content{Text: "Who wins immunity?", Type: TypeMultipleChoice, Options: []string{"Red", "Blue"}, PointValue: 5}},
		{name: "valid fill in", content: Content{Text: "Who is voted out?", Type: TypeFillInTheBlank, PointValue: 1}},
		{name: "missing text", content: Content{Text: "  ", Type: TypeFillInTheBlank, PointValue: 1}, wantErr: ErrTextRequired},
		{name: "one option", content: Content{Text: "q", Type: TypeMultipleChoice, Options: []string{"Red"}, PointValue: 1}, wantErr: ErrTooFewOptions},
		{name: "no options", content: Content{Text: "q", Type: TypeMultipleChoice, PointValue: 1}, wantErr: ErrTooFewOptions},
		{name: "blank option", content: Content{Text: "q", Type: TypeMultipleChoice, Options: []string{"Red", " "}, PointValue: 1}, wantErr: ErrTooFewOptions},
		{name: "case-insensitive duplicate", content: Content{Text: "q", Type: TypeMultipleChoice, Options: []string{"Red", " red "}, PointValue: 1}, wantErr: ErrDuplicateOption},
		{name: "fill in with options", content: Content{Text: "q", Type: TypeFillInTheBlank, Options: []string{"x"}, PointValue: 1}, wantErr: ErrUnexpectedOptions},
		{name: "zero points", content: Content{Text: "q", Type: TypeFillInTheBlank, PointValue: 0}, wantErr: ErrInvalidPointValue},
		{name: "unknown type", content: Content{Text: "q", Type: "ESSAY", PointValue: 1}, wantErr: ErrUnknownType},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.content.Validate()
			if tc.wantErr == nil && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tc.wantErr != nil && !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestMatchOption(t *testing.T) {
	c := Content{Type: TypeMultipleChoice, Options: []string{"Red", "Blue"}}
	if opt, ok := c.MatchOption("  rED "); !ok || opt != "Red" {
		t.Fatalf("expected Red, got %q ok=%v", opt, ok)
	}
	if _, ok := c.MatchOption("green"); ok {
		t.Fatalf("green is not an option")
	}
}

func TestSnapshotIsDetachedFromTemplate(t *testing.T) {
	tpl := Template{
		ID:      "tpl-1",
		Content: Content{Text: " Who wins? ", Type: TypeMultipleChoice, Options: []string{" Red", "Blue "}, PointValue: 3},
	}

	snap := Snapshot(tpl)
	tpl.Options[0] = "Green"
	tpl.Text = "edited"

	if snap.Text != "Who wins?" || snap.Options[0] != "Red" || snap.Options[1] != "Blue" {
		t.Fatalf("snapshot must be trimmed and detached, got %+v", snap)
	}
}

func TestLeagueQuestionValidate(t *testing.T) {
	q := LeagueQuestion{
		ID:             "q1",
		LeagueSeasonID: "ls1",
		Episode:        1,
		Content:        Content{Text: "q", Type: TypeFillInTheBlank, PointValue: 20},
		MaxWager:       10,
	}
	if err := q.Validate(); !errors.Is(err, ErrPointValueOverCap) {
		t.Fatalf("expected ErrPointValueOverCap, got %v", err)
	}

	q.MaxWager = 50
	q.Episode = 0
	if err := q.Validate(); !errors.Is(err, ErrInvalidEpisode) {
		t.Fatalf("expected ErrInvalidEpisode, got %v", err)
	}

	q.Episode = 2
	if err := q.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.IsGraded() {
		t.Fatalf("fresh question is not graded")
	}
	now := time.Now()
	q.GradedAt = &now
	if !q.IsGraded() {
		t.Fatalf("expected graded")
	}
}

func TestBatchErrorUnwrapsEachFailure(t *testing.T) {
	err := error(&BatchError{Failures: []BatchFailure{
		{Index: 0, TemplateID: "a", Err: ErrTooFewOptions},
		{Index: 2, TemplateID: "c", Err: ErrTemplateNotFound},
	}})

	if !errors.Is(err, ErrTooFewOptions) || !errors.Is(err, ErrTemplateNotFound) {
		t.Fatalf("batch error must expose every failure: %v", err)
	}
	var batch *BatchError
	if !errors.As(err, &batch) || len(batch.Failures) != 2 {
		t.Fatalf("expected two failures, got %+v", batch)
	}
}
