package memory

import (
	"sync"

	"github.com/riskibarqy/castaway-league/internal/domain/assignment"
	"github.com/riskibarqy/castaway-league/internal/domain/castaway"
	"github.com/riskibarqy/castaway-league/internal/domain/draft"
	"github.com/riskibarqy/castaway-league/internal/domain/league"
	"github.com/riskibarqy/castaway-league/internal/domain/question"
	"github.com/riskibarqy/castaway-league/internal/domain/team"
	"github.com/riskibarqy/castaway-league/internal/domain/wager"
)

// Store is the shared in-memory database behind every memory repository.
// One lock covers all tables so multi-entity writes (pick commit, grading
// settlement) are atomic the same way a SQL transaction is.
type Store struct {
	mu sync.RWMutex

	seasons   map[string]league.Season
	teams     map[string]team.Team
	castaways map[string]castaway.Castaway

	drafts           map[string]draft.Draft
	draftBySeason    map[string]string
	assignments      []assignment.Assignment
	assignedCastaway map[string]string

	templates     map[string]question.Template
	templateOrder []string
	questions     map[string]question.LeagueQuestion

	submissions      map[string]wager.Submission
	submissionOrder  []string
	submissionByTeam map[string]string
}

func NewStore() *Store {
	return &Store{
		seasons:          make(map[string]league.Season),
		teams:            make(map[string]team.Team),
		castaways:        make(map[string]castaway.Castaway),
		drafts:           make(map[string]draft.Draft),
		draftBySeason:    make(map[string]string),
		assignedCastaway: make(map[string]string),
		templates:        make(map[string]question.Template),
		questions:        make(map[string]question.LeagueQuestion),
		submissions:      make(map[string]wager.Submission),
		submissionByTeam: make(map[string]string),
	}
}

func pairKey(a, b string) string {
	return a + "::" + b
}

func cloneDraft(d draft.Draft) draft.Draft {
	copied := d
	copied.TeamIDs = append([]string(nil), d.TeamIDs...)
	copied.TurnOrder = append([]string(nil), d.TurnOrder...)
	if d.StartedAt != nil {
		v := *d.StartedAt
		copied.StartedAt = &v
	}
	if d.CompletedAt != nil {
		v := *d.CompletedAt
		copied.CompletedAt = &v
	}
	return copied
}

func cloneTemplate(t question.Template) question.Template {
	copied := t
	copied.Options = append([]string(nil), t.Options...)
	return copied
}

func cloneQuestion(q question.LeagueQuestion) question.LeagueQuestion {
	copied := q
	copied.Options = append([]string(nil), q.Options...)
	if q.GradedAt != nil {
		v := *q.GradedAt
		copied.GradedAt = &v
	}
	return copied
}

func cloneSubmission(s wager.Submission) wager.Submission {
	copied := s
	if s.AwardedPoints != nil {
		v := *s.AwardedPoints
		copied.AwardedPoints = &v
	}
	if s.GradedAt != nil {
		v := *s.GradedAt
		copied.GradedAt = &v
	}
	return copied
}
