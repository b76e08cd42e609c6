package events

import (
	"context"
	"fmt"
	"time"

	"adspark/internal/logger"

	"github.com/segmentio/kafka-go"
)

type KafkaNotifier struct {
	writer *kafka.Writer
	logger *logger.Logger
}

func NewKafkaNotifier(brokers []string, topic string, logger *logger.Logger) *KafkaNotifier {
	return &KafkaNotifier{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.Hash{},
			BatchTimeout:           50 * time.Millisecond,
			RequiredAcks:           kafka.RequireOne,
			AllowAutoTopicCreation: true,
		},
		logger: logger,
	}
}

func (n *KafkaNotifier) NotifyDeploy(ctx context.Context, event DeployEvent) error {
	value, err := event.Encode()
	if err != nil {
		return fmt.Errorf("failed to encode deploy event: %w", err)
	}

	// keyed by campaign so one campaign's deploys stay ordered
	msg := kafka.Message{
		Key:   []byte(event.CampaignID),
		Value: value,
		Time:  event.Timestamp,
	}
	if err := n.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish deploy event: %w", err)
	}

	n.logger.Debug("Published deploy event %s for variant %s", event.ID, event.VariantID)
	return nil
}

func (n *KafkaNotifier) Close() error {
	return n.writer.Close()
}
