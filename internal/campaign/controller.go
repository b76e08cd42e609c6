package campaign

import (
	"context"
	"errors"
	"sync"

	"adspark/internal/ai"
	"adspark/internal/events"
	"adspark/internal/logger"
	"adspark/internal/metrics"
	"adspark/internal/models"

	"github.com/google/uuid"
)

const DeployAcknowledgment = "Variant deployed to test pages! Performance data will be available soon."

type Generator interface {
	GenerateAdCopy(ctx context.Context, productName, productImageRef string) ([]ai.AdCopy, error)
}

type Notifier interface {
	NotifyDeploy(ctx context.Context, event events.DeployEvent) error
}

// Controller owns the state of one campaign. The lock is never held while
// waiting on the generator, so reads and deploys proceed during a
// generation.
type Controller struct {
	mu        sync.Mutex
	state     State
	generator Generator
	notifier  Notifier
	logger    *logger.Logger
	newToken  func() string
}

func NewController(c models.Campaign, generator Generator, notifier Notifier, log *logger.Logger) *Controller {
	state, _ := Apply(State{}, Uploaded{Campaign: c})
	return &Controller{
		state:     state,
		generator: generator,
		notifier:  notifier,
		logger:    log.With("campaign", c.ID),
		newToken:  func() string { return uuid.New().String() },
	}
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

func (c *Controller) Campaign() models.Campaign {
	return c.Snapshot().Campaign
}

// Generate requests copy for the campaign and commits the result, or the
// fallback batch when generation is unavailable. If another Generate
// started meanwhile, this call's result is discarded and the current
// campaign is returned.
func (c *Controller) Generate(ctx context.Context) (models.Campaign, error) {
	c.mu.Lock()
	token := c.newToken()
	next, err := Apply(c.state, GenerationStarted{Token: token})
	if err != nil {
		current := c.state.Campaign.Clone()
		c.mu.Unlock()
		return current, err
	}
	c.state = next
	productName := next.Campaign.ProductName
	image := next.Campaign.OriginalImage
	c.mu.Unlock()

	c.logger.Info("Generating variants for %q", productName)
	copies, genErr := c.generator.GenerateAdCopy(ctx, productName, image)

	var ev Event = GenerationSucceeded{Token: token, Copies: copies}
	outcome := "generated"
	if genErr != nil || len(copies) == 0 {
		outcome = "fallback"
	}
	if genErr != nil {
		ev = GenerationFailed{Token: token, Err: genErr}
		c.logger.Warn("Generation unavailable, using fallback variants: %v", genErr)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	next, err = Apply(c.state, ev)
	if errors.Is(err, ErrStaleGeneration) {
		metrics.IncGenerations("stale")
		c.logger.Debug("Discarding stale generation result %s", token)
		return c.state.Campaign.Clone(), nil
	}
	if err != nil {
		return c.state.Campaign.Clone(), err
	}

	c.state = next
	metrics.IncGenerations(outcome)
	return c.state.Campaign.Clone(), nil
}

// Deploy acknowledges a deploy intent for one of the campaign's variants.
// The campaign itself is left untouched; notifier failures are only logged.
func (c *Controller) Deploy(ctx context.Context, variantID string) (string, error) {
	c.mu.Lock()
	variant, ok := c.state.Campaign.FindVariant(variantID)
	campaignID := c.state.Campaign.ID
	c.mu.Unlock()

	if !ok {
		return "", ErrVariantNotFound
	}

	if err := c.notifier.NotifyDeploy(ctx, events.NewDeployEvent(campaignID, variant)); err != nil {
		c.logger.Error("Failed to send deploy notification for %s: %v", variantID, err)
		metrics.IncDeploys("notify_failed")
	} else {
		metrics.IncDeploys("ok")
	}

	return DeployAcknowledgment, nil
}
