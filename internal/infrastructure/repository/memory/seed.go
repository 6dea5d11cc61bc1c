package memory

import (
	"time"

	"github.com/riskibarqy/castaway-league/internal/domain/castaway"
	"github.com/riskibarqy/castaway-league/internal/domain/league"
	"github.com/riskibarqy/castaway-league/internal/domain/question"
	"github.com/riskibarqy/castaway-league/internal/domain/team"
)

const (
	SeasonIDDemo       = "s47"
	LeagueSeasonIDDemo = "ls-office-s47"
)

// Seed is the fixture data loaded into a Store.
type Seed struct {
	Seasons   []league.Season
	Teams     []team.Team
	Castaways []castaway.Castaway
	Templates []question.Template
}

func (s *Store) Load(seed Seed) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, item := range seed.Seasons {
		s.seasons[item.ID] = item
	}
	for _, item := range seed.Teams {
		s.teams[item.ID] = item
	}
	for _, item := range seed.Castaways {
		s.castaways[item.ID] = item
	}
	for _, item := range seed.Templates {
		if _, ok := s.templates[item.ID]; !ok {
			s.templateOrder = append(s.templateOrder, item.ID)
		}
		s.templates[item.ID] = cloneTemplate(item)
	}
}

// DemoSeed is one office league playing season 47 with four teams.
func DemoSeed() Seed {
	joined := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	return Seed{
		Seasons: []league.Season{
			{ID: LeagueSeasonIDDemo, LeagueID: "office-league", SeasonID: SeasonIDDemo, Name: "Office League S47", RosterSize: 2, CreatedAt: joined},
		},
		Teams: []team.Team{
			{ID: "team-tiki", LeagueSeasonID: LeagueSeasonIDDemo, OwnerUserID: "user-ana", Name: "Tiki Torches", CreatedAt: joined},
			{ID: "team-idol", LeagueSeasonID: LeagueSeasonIDDemo, OwnerUserID: "user-ben", Name: "Hidden Idols", CreatedAt: joined.Add(time.Minute)},
			{ID: "team-buff", LeagueSeasonID: LeagueSeasonIDDemo, OwnerUserID: "user-cai", Name: "Buff Squad", CreatedAt: joined.Add(2 * time.Minute)},
			{ID: "team-snuf", LeagueSeasonID: LeagueSeasonIDDemo, OwnerUserID: "user-dee", Name: "Snuffers", CreatedAt: joined.Add(3 * time.Minute)},
		},
		Castaways: []castaway.Castaway{
			{ID: "cw-rachel", SeasonID: SeasonIDDemo, Name: "Rachel", Status: castaway.StatusActive},
			{ID: "cw-sam", SeasonID: SeasonIDDemo, Name: "Sam", Status: castaway.StatusActive},
			{ID: "cw-sue", SeasonID: SeasonIDDemo, Name: "Sue", Status: castaway.StatusActive},
			{ID: "cw-genevieve", SeasonID: SeasonIDDemo, Name: "Genevieve", Status: castaway.StatusActive},
			{ID: "cw-teeny", SeasonID: SeasonIDDemo, Name: "Teeny", Status: castaway.StatusActive},
			{ID: "cw-andy", SeasonID: SeasonIDDemo, Name: "Andy", Status: castaway.StatusActive},
			{ID: "cw-caroline", SeasonID: SeasonIDDemo, Name: "Caroline", Status: castaway.StatusActive},
			{ID: "cw-kyle", SeasonID: SeasonIDDemo, Name: "Kyle", Status: castaway.StatusActive},
			{ID: "cw-sierra", SeasonID: SeasonIDDemo, Name: "Sierra", Status: castaway.StatusEliminated},
		},
		Templates: []question.Template{
			{
				ID:        "tpl-immunity-winner",
				Content:   question.Content{Text: "Which tribe wins the immunity challenge?", Type: question.TypeMultipleChoice, Options: []string{"Red", "Blue", "Yellow"}, PointValue: 5},
				CreatedAt: joined,
			},
			{
				ID:        "tpl-voted-out",
				Content:   question.Content{Text: "Who is voted out at tribal council?", Type: question.TypeFillInTheBlank, PointValue: 10},
				CreatedAt: joined,
			},
			{
				ID:        "tpl-idol-played",
				Content:   question.Content{Text: "Is a hidden immunity idol played?", Type: question.TypeMultipleChoice, Options: []string{"Yes", "No"}, PointValue: 3},
				CreatedAt: joined,
			},
		},
	}
}
