package notification

import (
	"context"

	"github.com/riskibarqy/castaway-league/internal/domain/notification"
	"github.com/riskibarqy/castaway-league/internal/platform/logging"
)

// LogPublisher records events in the service log. It stands in for the
// webhook when NOTIFY_ENABLED is off.
type LogPublisher struct {
	logger *logging.Logger
}

func NewLogPublisher(logger *logging.Logger) *LogPublisher {
	if logger == nil {
		logger = logging.Default()
	}
	return &LogPublisher{logger: logger.Named("notification.log")}
}

func (p *LogPublisher) Publish(ctx context.Context, event notification.Event) error {
	p.logger.InfoContext(ctx, "notification event",
		"event_id", event.ID,
		"event_type", string(event.Type),
		"league_season_id", event.LeagueSeasonID,
		"draft_id", event.DraftID,
		"team_id", event.TeamID,
		"episode", event.Episode,
		"question_ids", event.QuestionIDs,
	)
	return nil
}
