package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/castaway-league/internal/domain/assignment"
	"github.com/riskibarqy/castaway-league/internal/domain/castaway"
	"github.com/riskibarqy/castaway-league/internal/domain/draft"
	"github.com/riskibarqy/castaway-league/internal/domain/league"
	"github.com/riskibarqy/castaway-league/internal/domain/notification"
	"github.com/riskibarqy/castaway-league/internal/domain/team"
	"github.com/riskibarqy/castaway-league/internal/platform/id"
	"github.com/riskibarqy/castaway-league/internal/platform/logging"
	"github.com/riskibarqy/castaway-league/internal/platform/resilience"
)

type DraftConfig struct {
	DefaultStrategy   draft.OrderStrategy
	DefaultRosterSize int
	// PickRetry bounds reload-and-retry on optimistic version conflicts.
	PickRetry resilience.RetryConfig
}

type StartDraftInput struct {
	LeagueSeasonID string
	// TeamIDs defaults to the league-season's teams in join order.
	TeamIDs    []string
	Strategy   string
	RosterSize int
}

type DraftPickInput struct {
	DraftID    string
	TeamID     string
	CastawayID string
}

type DraftPickResult struct {
	Assignment assignment.Assignment
	Draft      draft.Draft
}

type DraftService struct {
	leagueRepo   league.Repository
	teamRepo     team.Repository
	castawayRepo castaway.Repository
	draftRepo    draft.Repository
	ledger       assignment.Ledger
	events       eventEmitter
	idGen        id.Generator
	cfg          DraftConfig
	logger       *logging.Logger
	now          func() time.Time
}

func NewDraftService(
	leagueRepo league.Repository,
	teamRepo team.Repository,
	castawayRepo castaway.Repository,
	draftRepo draft.Repository,
	ledger assignment.Ledger,
	publisher notification.Publisher,
	idGen id.Generator,
	cfg DraftConfig,
	logger *logging.Logger,
) *DraftService {
	if logger == nil {
		logger = logging.Default()
	}
	if idGen == nil {
		idGen = id.NewTimeOrderedGenerator()
	}
	if cfg.DefaultStrategy == "" {
		cfg.DefaultStrategy = draft.OrderSnake
	}
	if cfg.DefaultRosterSize < 1 {
		cfg.DefaultRosterSize = 1
	}

	return &DraftService{
		leagueRepo:   leagueRepo,
		teamRepo:     teamRepo,
		castawayRepo: castawayRepo,
		draftRepo:    draftRepo,
		ledger:       ledger,
		events:       newEventEmitter(publisher, idGen, logger),
		idGen:        idGen,
		cfg:          cfg,
		logger:       logger.Named("usecase.draft"),
		now:          time.Now,
	}
}

func (s *DraftService) StartDraft(ctx context.Context, input StartDraftInput) (_ draft.Draft, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DraftService.StartDraft")
	defer func() { endUsecaseSpan(span, err) }()

	input.LeagueSeasonID = strings.TrimSpace(input.LeagueSeasonID)
	if input.LeagueSeasonID == "" {
		return draft.Draft{}, fmt.Errorf("%w: league_season_id is required", ErrInvalidInput)
	}

	season, err := s.loadSeason(ctx, input.LeagueSeasonID)
	if err != nil {
		return draft.Draft{}, err
	}

	strategy := s.cfg.DefaultStrategy
	if strings.TrimSpace(input.Strategy) != "" {
		strategy, err = draft.ParseOrderStrategy(input.Strategy)
		if err != nil {
			return draft.Draft{}, classify(err)
		}
	}

	rosterSize := input.RosterSize
	if rosterSize == 0 {
		rosterSize = season.RosterSize
	}
	if rosterSize == 0 {
		rosterSize = s.cfg.DefaultRosterSize
	}
	if rosterSize < 1 {
		return draft.Draft{}, fmt.Errorf("%w: roster_size must be >= 1", ErrInvalidInput)
	}

	teamIDs, err := s.resolveTeams(ctx, season.ID, input.TeamIDs)
	if err != nil {
		return draft.Draft{}, err
	}
	if len(teamIDs) < 2 {
		return draft.Draft{}, classify(fmt.Errorf("%w: got %d", draft.ErrInsufficientTeams, len(teamIDs)))
	}
	if err := s.ensureCastawayPool(ctx, season.SeasonID, len(teamIDs)*rosterSize); err != nil {
		return draft.Draft{}, err
	}

	existing, exists, err := s.draftRepo.GetByLeagueSeason(ctx, season.ID)
	if err != nil {
		return draft.Draft{}, errors.Wrap(err, "get draft by league season")
	}
	if exists && existing.Status != draft.StatusPending {
		return draft.Draft{}, classify(&draft.StateError{Err: draft.ErrDraftAlreadyStarted, Status: existing.Status})
	}

	now := s.now().UTC()
	pending := existing
	if !exists {
		draftID, err := s.idGen.NewID()
		if err != nil {
			return draft.Draft{}, errors.Wrap(err, "generate draft id")
		}
		pending = draft.Draft{
			ID:             draftID,
			LeagueSeasonID: season.ID,
			Status:         draft.StatusPending,
			CreatedAt:      now,
		}
	}
	pending.Strategy = strategy
	pending.RosterSize = rosterSize
	pending.TeamIDs = teamIDs

	order, err := draft.BuildTurnOrder(strategy, teamIDs, rosterSize, pending.ID)
	if err != nil {
		return draft.Draft{}, classify(err)
	}
	held, err := s.ledger.CountByTeam(ctx, season.ID)
	if err != nil {
		return draft.Draft{}, errors.Wrap(err, "count assignments by team")
	}

	started, err := draft.Start(pending, order, draft.RemainingCapacity(teamIDs, rosterSize, held), now)
	if err != nil {
		return draft.Draft{}, classify(err)
	}

	if exists {
		err = s.draftRepo.Update(ctx, started, existing.Version)
	} else {
		err = s.draftRepo.Create(ctx, started)
	}
	if err != nil {
		if errors.Is(err, draft.ErrDraftExists) || errors.Is(err, draft.ErrVersionConflict) {
			return draft.Draft{}, classify(err)
		}
		return draft.Draft{}, errors.Wrap(err, "save started draft")
	}

	s.logger.InfoContext(ctx, "draft started",
		"draft_id", started.ID,
		"league_season_id", started.LeagueSeasonID,
		"strategy", string(started.Strategy),
		"roster_size", started.RosterSize,
		"teams", len(started.TeamIDs),
	)
	s.announce(ctx, started)

	return started, nil
}

func (s *DraftService) GetDraft(ctx context.Context, draftID string) (draft.Draft, error) {
	draftID = strings.TrimSpace(draftID)
	if draftID == "" {
		return draft.Draft{}, fmt.Errorf("%w: draft_id is required", ErrInvalidInput)
	}

	item, exists, err := s.draftRepo.GetByID(ctx, draftID)
	if err != nil {
		return draft.Draft{}, errors.Wrap(err, "get draft")
	}
	if !exists {
		return draft.Draft{}, fmt.Errorf("%w: draft=%s", ErrNotFound, draftID)
	}
	return item, nil
}

func (s *DraftService) GetDraftByLeagueSeason(ctx context.Context, leagueSeasonID string) (draft.Draft, error) {
	leagueSeasonID = strings.TrimSpace(leagueSeasonID)
	if leagueSeasonID == "" {
		return draft.Draft{}, fmt.Errorf("%w: league_season_id is required", ErrInvalidInput)
	}

	item, exists, err := s.draftRepo.GetByLeagueSeason(ctx, leagueSeasonID)
	if err != nil {
		return draft.Draft{}, errors.Wrap(err, "get draft by league season")
	}
	if !exists {
		return draft.Draft{}, fmt.Errorf("%w: draft for league_season=%s", ErrNotFound, leagueSeasonID)
	}
	return item, nil
}

// DraftPick commits one pick. A stale draft version is reloaded and the pick
// re-validated, up to the configured attempts. A castaway already held by
// anyone, including the caller, surfaces as draft.ErrCastawayUnavailable;
// see PickLanded.
func (s *DraftService) DraftPick(ctx context.Context, input DraftPickInput) (_ DraftPickResult, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DraftService.DraftPick")
	defer func() { endUsecaseSpan(span, err) }()

	input.DraftID = strings.TrimSpace(input.DraftID)
	input.TeamID = strings.TrimSpace(input.TeamID)
	input.CastawayID = strings.TrimSpace(input.CastawayID)
	if input.DraftID == "" || input.TeamID == "" || input.CastawayID == "" {
		return DraftPickResult{}, fmt.Errorf("%w: draft_id, team_id and castaway_id are required", ErrInvalidInput)
	}

	current, err := s.GetDraft(ctx, input.DraftID)
	if err != nil {
		return DraftPickResult{}, err
	}
	if err := s.validateCastaway(ctx, current.LeagueSeasonID, input.CastawayID); err != nil {
		return DraftPickResult{}, err
	}

	var result DraftPickResult
	err = resilience.Retry(ctx, s.cfg.PickRetry, isVersionConflict, func(ctx context.Context, attempt int) error {
		if attempt > 1 {
			reloaded, err := s.GetDraft(ctx, input.DraftID)
			if err != nil {
				return err
			}
			current = reloaded
		}

		out, err := s.commitPick(ctx, current, input)
		if err != nil {
			return err
		}
		result = out
		return nil
	})
	if err != nil {
		if isVersionConflict(err) {
			s.logger.WarnContext(ctx, "draft pick retries exhausted", "draft_id", input.DraftID, "team_id", input.TeamID)
		}
		return DraftPickResult{}, classify(err)
	}

	s.logger.InfoContext(ctx, "draft pick committed",
		"draft_id", result.Draft.ID,
		"team_id", result.Assignment.TeamID,
		"castaway_id", result.Assignment.CastawayID,
		"pick_number", result.Assignment.PickNumber,
		"status", string(result.Draft.Status),
	)
	s.announce(ctx, result.Draft)

	return result, nil
}

func (s *DraftService) commitPick(ctx context.Context, current draft.Draft, input DraftPickInput) (DraftPickResult, error) {
	held, err := s.ledger.CountByTeam(ctx, current.LeagueSeasonID)
	if err != nil {
		return DraftPickResult{}, errors.Wrap(err, "count assignments by team")
	}

	now := s.now().UTC()
	next, err := draft.PlanPick(current, input.TeamID, draft.RemainingCapacity(current.TeamIDs, current.RosterSize, held), now)
	if err != nil {
		if errors.Is(err, draft.ErrNotYourTurn) || errors.Is(err, draft.ErrDraftClosed) {
			if landed, lookupErr := s.heldBy(ctx, current.LeagueSeasonID, input.CastawayID); lookupErr == nil && landed == input.TeamID {
				return DraftPickResult{}, &draft.CastawayUnavailableError{CastawayID: input.CastawayID, HeldByTeamID: landed}
			}
		}
		return DraftPickResult{}, err
	}

	assignmentID, err := s.idGen.NewID()
	if err != nil {
		return DraftPickResult{}, errors.Wrap(err, "generate assignment id")
	}
	entry := assignment.Assignment{
		ID:             assignmentID,
		LeagueSeasonID: current.LeagueSeasonID,
		TeamID:         input.TeamID,
		CastawayID:     input.CastawayID,
		DraftID:        current.ID,
		PickNumber:     next.PickCount,
		CreatedAt:      now,
	}

	committed, err := s.draftRepo.CommitPick(ctx, draft.PickCommit{
		Next:            next,
		ExpectedVersion: current.Version,
		Assignment:      entry,
	})
	if err != nil {
		var conflict *assignment.ConflictError
		if errors.As(err, &conflict) {
			return DraftPickResult{}, &draft.CastawayUnavailableError{
				CastawayID:   conflict.CastawayID,
				HeldByTeamID: conflict.HeldByTeamID,
			}
		}
		return DraftPickResult{}, err
	}

	return DraftPickResult{Assignment: committed, Draft: next}, nil
}

// heldBy returns the team holding castawayID in the league-season, or "".
func (s *DraftService) heldBy(ctx context.Context, leagueSeasonID, castawayID string) (string, error) {
	items, err := s.ledger.ListByLeagueSeason(ctx, leagueSeasonID)
	if err != nil {
		return "", errors.Wrap(err, "list assignments")
	}
	for _, item := range items {
		if item.CastawayID == castawayID {
			return item.TeamID, nil
		}
	}
	return "", nil
}

func (s *DraftService) ListAssignments(ctx context.Context, leagueSeasonID string) ([]assignment.Assignment, error) {
	leagueSeasonID = strings.TrimSpace(leagueSeasonID)
	if leagueSeasonID == "" {
		return nil, fmt.Errorf("%w: league_season_id is required", ErrInvalidInput)
	}
	if _, err := s.loadSeason(ctx, leagueSeasonID); err != nil {
		return nil, err
	}

	items, err := s.ledger.ListByLeagueSeason(ctx, leagueSeasonID)
	if err != nil {
		return nil, errors.Wrap(err, "list assignments")
	}
	return items, nil
}

func (s *DraftService) loadSeason(ctx context.Context, leagueSeasonID string) (league.Season, error) {
	season, exists, err := s.leagueRepo.GetByID(ctx, leagueSeasonID)
	if err != nil {
		return league.Season{}, errors.Wrap(err, "get league season")
	}
	if !exists {
		return league.Season{}, fmt.Errorf("%w: league_season=%s", ErrNotFound, leagueSeasonID)
	}
	return season, nil
}

func (s *DraftService) resolveTeams(ctx context.Context, leagueSeasonID string, requested []string) ([]string, error) {
	members, err := s.teamRepo.ListByLeagueSeason(ctx, leagueSeasonID)
	if err != nil {
		return nil, errors.Wrap(err, "list teams by league season")
	}

	if len(requested) == 0 {
		out := make([]string, 0, len(members))
		for _, item := range members {
			out = append(out, item.ID)
		}
		return out, nil
	}

	known := make(map[string]struct{}, len(members))
	for _, item := range members {
		known[item.ID] = struct{}{}
	}
	out := make([]string, 0, len(requested))
	for _, raw := range requested {
		teamID := strings.TrimSpace(raw)
		if _, ok := known[teamID]; !ok {
			return nil, fmt.Errorf("%w: team %q is not part of league season %s", ErrInvalidInput, teamID, leagueSeasonID)
		}
		out = append(out, teamID)
	}
	return out, nil
}

func (s *DraftService) validateCastaway(ctx context.Context, leagueSeasonID, castawayID string) error {
	season, err := s.loadSeason(ctx, leagueSeasonID)
	if err != nil {
		return err
	}

	item, exists, err := s.castawayRepo.GetByID(ctx, castawayID)
	if err != nil {
		return errors.Wrap(err, "get castaway")
	}
	if !exists || item.SeasonID != season.SeasonID {
		return fmt.Errorf("%w: castaway=%s in season=%s", ErrNotFound, castawayID, season.SeasonID)
	}
	if item.Status == castaway.StatusEliminated {
		return fmt.Errorf("%w: castaway %s is eliminated", ErrInvalidInput, castawayID)
	}
	return nil
}

// ensureCastawayPool rejects a draft that could never complete.
func (s *DraftService) ensureCastawayPool(ctx context.Context, seasonID string, needed int) error {
	items, err := s.castawayRepo.ListBySeason(ctx, seasonID)
	if err != nil {
		return errors.Wrap(err, "list castaways by season")
	}
	active := 0
	for _, item := range items {
		if item.Status == castaway.StatusActive {
			active++
		}
	}
	if active < needed {
		return fmt.Errorf("%w: draft needs %d active castaways, season %s has %d", ErrInvalidInput, needed, seasonID, active)
	}
	return nil
}

func (s *DraftService) announce(ctx context.Context, d draft.Draft) {
	switch d.Status {
	case draft.StatusCompleted:
		s.events.emit(ctx, notification.Event{
			Type:           notification.EventDraftCompleted,
			LeagueSeasonID: d.LeagueSeasonID,
			DraftID:        d.ID,
			OccurredAt:     s.now().UTC(),
		})
	case draft.StatusInProgress:
		s.events.emit(ctx, notification.Event{
			Type:           notification.EventDraftTurn,
			LeagueSeasonID: d.LeagueSeasonID,
			DraftID:        d.ID,
			TeamID:         d.CurrentTeamID(),
			Round:          d.Round(),
			OccurredAt:     s.now().UTC(),
		})
	}
}

func isVersionConflict(err error) bool {
	return errors.Is(err, draft.ErrVersionConflict)
}
