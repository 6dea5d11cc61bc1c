package question

import (
	"fmt"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
)

type Type string

const (
	TypeMultipleChoice Type = "MULTIPLE_CHOICE"
	TypeFillInTheBlank Type = "FILL_IN_THE_BLANK"
)

const (
	DefaultPointValue        int64 = 1
	MinMultipleChoiceOptions       = 2
)

var (
	ErrTextRequired      = errors.New("question text is required")
	ErrUnknownType       = errors.New("unknown question type")
	ErrTooFewOptions     = errors.New("multiple choice question needs at least two options")
	ErrDuplicateOption   = errors.New("duplicate option")
	ErrUnexpectedOptions = errors.New("fill in the blank question cannot carry options")
	ErrInvalidPointValue = errors.New("point value must be >= 1")
	ErrPointValueOverCap = errors.New("point value exceeds wager cap")
	ErrInvalidEpisode    = errors.New("episode number must be >= 1")
	ErrTemplateNotFound  = errors.New("question template not found")
)

func ParseType(v string) (Type, error) {
	switch t := Type(strings.ToUpper(strings.TrimSpace(v))); t {
	case TypeMultipleChoice, TypeFillInTheBlank:
		return t, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownType, v)
	}
}

// Normalize is the comparison form for answers and options.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Content is the display payload shared by templates and league questions.
// Instantiation copies it; a league question never reads back from its template.
type Content struct {
	Text       string
	Type       Type
	Options    []string
	PointValue int64
}

// Clean trims text and options and returns a copy safe to store.
func (c Content) Clean() Content {
	out := Content{
		Text:       strings.TrimSpace(c.Text),
		Type:       c.Type,
		PointValue: c.PointValue,
	}
	if len(c.Options) > 0 {
		out.Options = make([]string, 0, len(c.Options))
		for _, opt := range c.Options {
			out.Options = append(out.Options, strings.TrimSpace(opt))
		}
	}
	return out
}

func (c Content) Validate() error {
	if strings.TrimSpace(c.Text) == "" {
		return ErrTextRequired
	}
	if c.PointValue < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidPointValue, c.PointValue)
	}

	switch c.Type {
	case TypeMultipleChoice:
		if len(c.Options) < MinMultipleChoiceOptions {
			return fmt.Errorf("%w: got %d", ErrTooFewOptions, len(c.Options))
		}
		seen := make(map[string]struct{}, len(c.Options))
		for _, opt := range c.Options {
			key := Normalize(opt)
			if key == "" {
				return fmt.Errorf("%w: empty option", ErrTooFewOptions)
			}
			if _, ok := seen[key]; ok {
				return fmt.Errorf("%w: %q", ErrDuplicateOption, opt)
			}
			seen[key] = struct{}{}
		}
	case TypeFillInTheBlank:
		if len(c.Options) > 0 {
			return ErrUnexpectedOptions
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownType, c.Type)
	}

	return nil
}

// MatchOption returns the declared option equal to answer under Normalize.
func (c Content) MatchOption(answer string) (string, bool) {
	key := Normalize(answer)
	for _, opt := range c.Options {
		if Normalize(opt) == key {
			return opt, true
		}
	}
	return "", false
}

// Template is a reusable, league-independent question.
type Template struct {
	ID string
	Content
	CreatedAt time.Time
}

func (t Template) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("template id is required")
	}
	return t.Content.Validate()
}

// LeagueQuestion is a question bound to one episode of a league-season.
// TemplateID records provenance only.
type LeagueQuestion struct {
	ID             string
	LeagueSeasonID string
	Episode        int
	TemplateID     string
	Content
	MaxWager      int64
	SortOrder     int
	CorrectAnswer string
	GradedAt      *time.Time
	CreatedAt     time.Time
}

func (q LeagueQuestion) Validate() error {
	if q.ID == "" {
		return fmt.Errorf("question id is required")
	}
	if q.LeagueSeasonID == "" {
		return fmt.Errorf("question league season id is required")
	}
	if q.Episode < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidEpisode, q.Episode)
	}
	if err := q.Content.Validate(); err != nil {
		return err
	}
	if q.MaxWager > 0 && q.PointValue > q.MaxWager {
		return fmt.Errorf("%w: %d > %d", ErrPointValueOverCap, q.PointValue, q.MaxWager)
	}

	return nil
}

func (q LeagueQuestion) IsGraded() bool {
	return q.GradedAt != nil
}

// Snapshot copies template content into a new league question. Slices are
// cloned so later template edits cannot leak into the instance.
func Snapshot(t Template) Content {
	c := t.Content.Clean()
	c.Options = append([]string(nil), c.Options...)
	if len(c.Options) == 0 {
		c.Options = nil
	}
	return c
}

// BatchFailure is one rejected entry of a bulk instantiation.
type BatchFailure struct {
	Index      int
	TemplateID string
	Err        error
}

// BatchError lists every failing template of an all-or-nothing batch.
type BatchError struct {
	Failures []BatchFailure
}

func (e *BatchError) Error() string {
	parts := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		parts = append(parts, fmt.Sprintf("[%d] template %s: %v", f.Index, f.TemplateID, f.Err))
	}
	return fmt.Sprintf("%d of batch failed: %s", len(e.Failures), strings.Join(parts, "; "))
}

func (e *BatchError) Unwrap() []error {
	out := make([]error, 0, len(e.Failures))
	for _, f := range e.Failures {
		out = append(out, f.Err)
	}
	return out
}
