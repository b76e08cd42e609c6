package processors

import (
	"context"
	"sync/atomic"

	"adspark/internal/events"
	"adspark/internal/logger"
	"adspark/internal/worker/processors/validation"
)

// EventProcessor acknowledges deploy events. There is no ad platform
// behind it; acknowledgment is a log line and a counter.
type EventProcessor struct {
	logger    *logger.Logger
	validator *validation.Validator
	processed atomic.Int64
}

func NewEventProcessor(logger *logger.Logger) *EventProcessor {
	return &EventProcessor{
		logger:    logger,
		validator: validation.New(logger),
	}
}

func (ep *EventProcessor) Process(ctx context.Context, event events.DeployEvent) error {
	if err := ep.validator.ValidateDeployEvent(event); err != nil {
		return err
	}

	ep.logger.Info("Variant %s of campaign %s deployed to test pages (%q, %s)",
		event.VariantID, event.CampaignID, event.Headline, event.Angle)
	ep.processed.Add(1)
	return nil
}

func (ep *EventProcessor) Processed() int64 {
	return ep.processed.Load()
}
