package events

import (
	"context"

	"go.uber.org/zap"
)

type LogPublisher struct {
	log *zap.Logger
}

func NewLogPublisher(log *zap.Logger) *LogPublisher {
	return &LogPublisher{log: log}
}

func (p *LogPublisher) Publish(_ context.Context, e Event) error {
	p.log.Info("domain event",
		zap.String("type", string(e.Type)),
		zap.String("entity_id", e.EntityID),
		zap.Time("occurred_at", e.OccurredAt),
	)
	return nil
}
