package campaign

import (
	"errors"
	"fmt"

	"adspark/internal/ai"
	"adspark/internal/models"
)

var (
	ErrInvalidTransition = errors.New("invalid campaign transition")
	ErrStaleGeneration   = errors.New("stale generation result")
	ErrCampaignNotFound  = errors.New("campaign not found")
	ErrVariantNotFound   = errors.New("variant not found")
)

// State is everything a campaign view owns. It is plain data and
// serializes as-is.
type State struct {
	Campaign        models.Campaign `json:"campaign"`
	GenerationToken string          `json:"generation_token,omitempty"`
}

func (s State) clone() State {
	s.Campaign = s.Campaign.Clone()
	return s
}

// Event is a user action or a generation result.
type Event interface {
	isEvent()
}

// Uploaded replaces the state with a fresh draft campaign.
type Uploaded struct {
	Campaign models.Campaign
}

// GenerationStarted moves a campaign into generating under a new token.
type GenerationStarted struct {
	Token string
}

// GenerationSucceeded carries the parsed copy batch for Token.
type GenerationSucceeded struct {
	Token  string
	Copies []ai.AdCopy
}

// GenerationFailed reports that generation for Token was unavailable.
type GenerationFailed struct {
	Token string
	Err   error
}

func (Uploaded) isEvent()            {}
func (GenerationStarted) isEvent()   {}
func (GenerationSucceeded) isEvent() {}
func (GenerationFailed) isEvent()    {}

// Apply returns the state that follows s after ev. s is never modified. On
// error the returned state equals s.
func Apply(s State, ev Event) (State, error) {
	next := s.clone()

	switch e := ev.(type) {
	case Uploaded:
		c := e.Campaign.Clone()
		c.Status = models.CampaignStatusDraft
		c.Variants = []models.Variant{}
		return State{Campaign: c}, nil

	case GenerationStarted:
		switch s.Campaign.Status {
		case models.CampaignStatusDraft, models.CampaignStatusGenerating:
		default:
			return s, fmt.Errorf("%w: cannot generate from %s", ErrInvalidTransition, s.Campaign.Status)
		}
		if e.Token == "" {
			return s, fmt.Errorf("%w: empty generation token", ErrInvalidTransition)
		}
		next.Campaign.Status = models.CampaignStatusGenerating
		next.GenerationToken = e.Token
		return next, nil

	case GenerationSucceeded:
		if err := checkToken(s, e.Token); err != nil {
			return s, err
		}
		if len(e.Copies) == 0 {
			next.Campaign.Variants = FallbackVariants(s.Campaign.OriginalImage)
		} else {
			next.Campaign.Variants = VariantsFromCopies(e.Copies, s.Campaign.OriginalImage)
		}
		next.Campaign.Status = models.CampaignStatusReady
		next.GenerationToken = ""
		return next, nil

	case GenerationFailed:
		if err := checkToken(s, e.Token); err != nil {
			return s, err
		}
		next.Campaign.Variants = FallbackVariants(s.Campaign.OriginalImage)
		next.Campaign.Status = models.CampaignStatusReady
		next.GenerationToken = ""
		return next, nil
	}

	return s, fmt.Errorf("%w: unknown event %T", ErrInvalidTransition, ev)
}

func checkToken(s State, token string) error {
	if s.Campaign.Status != models.CampaignStatusGenerating || token != s.GenerationToken {
		return ErrStaleGeneration
	}
	return nil
}

// VariantsFromCopies maps a generated batch onto variants, in order. Every
// variant shares the campaign's original image.
func VariantsFromCopies(copies []ai.AdCopy, imageURL string) []models.Variant {
	variants := make([]models.Variant, len(copies))
	for i, c := range copies {
		variants[i] = models.Variant{
			ID:       fmt.Sprintf("variant-%d", i),
			Headline: c.Headline,
			Body:     c.Body,
			CTA:      c.CTA,
			Angle:    c.Angle,
			ImageURL: imageURL,
		}
	}
	return variants
}

var fallbackVariants = []models.Variant{
	{
		ID:       "mock-1",
		Headline: "Revolutionize Your Look",
		Body:     "Step into confidence with our premium collection. Style that speaks volumes.",
		CTA:      "Shop Now",
		Angle:    "Emotional Appeal",
	},
	{
		ID:       "mock-2",
		Headline: "Limited Stock Alert",
		Body:     "Only 5 left! Don't miss out on this bestseller.",
		CTA:      "Buy Now",
		Angle:    "Urgency",
	},
	{
		ID:       "mock-3",
		Headline: "Loved by 50k+",
		Body:     "Join thousands of satisfied customers. See why everyone's talking!",
		CTA:      "Join Now",
		Angle:    "Social Proof",
	},
}

// FallbackVariants returns a fresh copy of the fixed three-variant batch
// used whenever generation is unavailable.
func FallbackVariants(imageURL string) []models.Variant {
	variants := make([]models.Variant, len(fallbackVariants))
	for i, v := range fallbackVariants {
		v.ImageURL = imageURL
		variants[i] = v
	}
	return variants
}
