package validation

import (
	"errors"
	"fmt"
	"strings"

	"adspark/internal/events"
	"adspark/internal/logger"
)

var ErrInvalidEvent = errors.New("invalid deploy event")

type Validator struct {
	logger *logger.Logger
}

func New(logger *logger.Logger) *Validator {
	return &Validator{
		logger: logger,
	}
}

// ValidateDeployEvent checks that an event names a known type, a campaign
// and a variant. Copy fields are informational and may be empty.
func (v *Validator) ValidateDeployEvent(event events.DeployEvent) error {
	v.logger.Debug("Validating deploy event: %+v", event)

	if event.Type != events.TypeDeployRequested {
		return fmt.Errorf("%w: unsupported type %q", ErrInvalidEvent, event.Type)
	}

	var missing []string
	if strings.TrimSpace(event.CampaignID) == "" {
		missing = append(missing, "campaign_id")
	}
	if strings.TrimSpace(event.VariantID) == "" {
		missing = append(missing, "variant_id")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: event %s is missing %s", ErrInvalidEvent, event.ID, strings.Join(missing, ", "))
	}

	return nil
}
