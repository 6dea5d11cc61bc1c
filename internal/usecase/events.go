package usecase

import (
	"context"

	"github.com/riskibarqy/castaway-league/internal/domain/notification"
	"github.com/riskibarqy/castaway-league/internal/platform/id"
	"github.com/riskibarqy/castaway-league/internal/platform/logging"
)

type noopPublisher struct{}

func (noopPublisher) Publish(_ context.Context, _ notification.Event) error {
	return nil
}

func NewNoopPublisher() notification.Publisher {
	return noopPublisher{}
}

// eventEmitter stamps and hands events to the notification collaborator.
// Delivery failures never fail the mutation that produced the event.
type eventEmitter struct {
	publisher notification.Publisher
	idGen     id.Generator
	logger    *logging.Logger
}

func newEventEmitter(publisher notification.Publisher, idGen id.Generator, logger *logging.Logger) eventEmitter {
	if publisher == nil {
		publisher = NewNoopPublisher()
	}
	return eventEmitter{publisher: publisher, idGen: idGen, logger: logger}
}

func (e eventEmitter) stamp(event notification.Event) notification.Event {
	if event.ID == "" {
		if eventID, err := e.idGen.NewID(); err == nil {
			event.ID = eventID
		}
	}
	return event
}

func (e eventEmitter) emit(ctx context.Context, event notification.Event) {
	event = e.stamp(event)
	if err := e.publisher.Publish(ctx, event); err != nil {
		e.logger.WarnContext(ctx, "publish notification event failed",
			"event_type", string(event.Type),
			"league_season_id", event.LeagueSeasonID,
			"error", err,
		)
	}
}
