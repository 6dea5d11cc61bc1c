package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/castaway-league/internal/domain/league"
	"github.com/riskibarqy/castaway-league/internal/domain/scoring"
	"github.com/riskibarqy/castaway-league/internal/domain/team"
	"github.com/riskibarqy/castaway-league/internal/platform/logging"
)

// ScoringService is the read side of the scoring aggregate. Totals are
// written only by grading settlement.
type ScoringService struct {
	leagueRepo  league.Repository
	teamRepo    team.Repository
	scoringRepo scoring.Repository
	cache       scoring.LeaderboardCache
	logger      *logging.Logger
}

func NewScoringService(
	leagueRepo league.Repository,
	teamRepo team.Repository,
	scoringRepo scoring.Repository,
	cache scoring.LeaderboardCache,
	logger *logging.Logger,
) *ScoringService {
	if logger == nil {
		logger = logging.Default()
	}

	return &ScoringService{
		leagueRepo:  leagueRepo,
		teamRepo:    teamRepo,
		scoringRepo: scoringRepo,
		cache:       cache,
		logger:      logger.Named("usecase.scoring"),
	}
}

func (s *ScoringService) CurrentTotal(ctx context.Context, teamID string) (int64, error) {
	teamID = strings.TrimSpace(teamID)
	if teamID == "" {
		return 0, fmt.Errorf("%w: team_id is required", ErrInvalidInput)
	}

	total, exists, err := s.scoringRepo.CurrentTotal(ctx, teamID)
	if err != nil {
		return 0, errors.Wrap(err, "get current total")
	}
	if !exists {
		return 0, fmt.Errorf("%w: team=%s", ErrNotFound, teamID)
	}
	return total, nil
}

// Leaderboard ranks the league-season's teams by total, ties by join order.
func (s *ScoringService) Leaderboard(ctx context.Context, leagueSeasonID string) (_ []scoring.Standing, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoringService.Leaderboard")
	defer func() { endUsecaseSpan(span, err) }()

	leagueSeasonID = strings.TrimSpace(leagueSeasonID)
	if leagueSeasonID == "" {
		return nil, fmt.Errorf("%w: league_season_id is required", ErrInvalidInput)
	}

	var (
		fillCache  bool
		generation int64
	)
	if s.cache != nil {
		read, err := s.cache.Get(ctx, leagueSeasonID)
		switch {
		case err != nil:
			s.logger.WarnContext(ctx, "read leaderboard cache failed", "league_season_id", leagueSeasonID, "error", err)
		case read.Hit:
			return read.Standings, nil
		default:
			fillCache, generation = true, read.Generation
		}
	}

	_, exists, err := s.leagueRepo.GetByID(ctx, leagueSeasonID)
	if err != nil {
		return nil, errors.Wrap(err, "get league season")
	}
	if !exists {
		return nil, fmt.Errorf("%w: league_season=%s", ErrNotFound, leagueSeasonID)
	}

	teams, err := s.teamRepo.ListByLeagueSeason(ctx, leagueSeasonID)
	if err != nil {
		return nil, errors.Wrap(err, "list teams by league season")
	}
	standings := scoring.RankTeams(teams)

	if fillCache {
		stored, err := s.cache.Set(ctx, leagueSeasonID, generation, standings)
		switch {
		case err != nil:
			s.logger.WarnContext(ctx, "write leaderboard cache failed", "league_season_id", leagueSeasonID, "error", err)
		case !stored:
			s.logger.DebugContext(ctx, "leaderboard invalidated during read, not cached", "league_season_id", leagueSeasonID)
		}
	}
	return standings, nil
}
