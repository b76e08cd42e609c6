package events

import (
	"context"
	"encoding/json"
	"time"

	"adspark/internal/config"
	"adspark/internal/logger"
	"adspark/internal/models"

	"github.com/google/uuid"
)

const TypeDeployRequested = "variant.deploy_requested"

// DeployEvent records a user's intent to publish a variant. Nothing is
// actually published to an ad platform.
type DeployEvent struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	CampaignID string    `json:"campaign_id"`
	VariantID  string    `json:"variant_id"`
	Headline   string    `json:"headline"`
	Angle      string    `json:"angle"`
	Timestamp  time.Time `json:"timestamp"`
}

func NewDeployEvent(campaignID string, v models.Variant) DeployEvent {
	return DeployEvent{
		ID:         uuid.New().String(),
		Type:       TypeDeployRequested,
		CampaignID: campaignID,
		VariantID:  v.ID,
		Headline:   v.Headline,
		Angle:      v.Angle,
		Timestamp:  time.Now().UTC(),
	}
}

func (e DeployEvent) Encode() ([]byte, error) {
	return json.Marshal(e)
}

func Decode(data []byte) (DeployEvent, error) {
	var e DeployEvent
	err := json.Unmarshal(data, &e)
	return e, err
}

type Notifier interface {
	NotifyDeploy(ctx context.Context, event DeployEvent) error
	Close() error
}

// LogNotifier only writes the event to the log.
type LogNotifier struct {
	logger *logger.Logger
}

func NewLogNotifier(logger *logger.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) NotifyDeploy(ctx context.Context, event DeployEvent) error {
	n.logger.Info("Deploying variant: %s (campaign %s, angle %q)", event.VariantID, event.CampaignID, event.Angle)
	return nil
}

func (n *LogNotifier) Close() error { return nil }

// NewNotifier publishes to Kafka when brokers are configured and falls back
// to logging otherwise.
func NewNotifier(cfg *config.Config, logger *logger.Logger) Notifier {
	if brokers := cfg.Brokers(); len(brokers) > 0 {
		logger.Info("Publishing deploy events to Kafka topic %s", cfg.KafkaTopic)
		return NewKafkaNotifier(brokers, cfg.KafkaTopic, logger)
	}
	return NewLogNotifier(logger)
}
