package performance

import (
	"context"

	"adspark/internal/models"
)

const placeholderImage = "/api/placeholder/300/300"

var sampleSummary = models.Summary{
	TotalRevenue:    185335,
	TotalViews:      1255609,
	TotalEngagement: 89542,
	ActiveCampaigns: 12,
}

var sampleVariants = []models.Variant{
	{
		ID:       "1",
		Headline: "Transform Your Style",
		Body:     "Discover the perfect look that matches your personality. Shop now!",
		CTA:      "Shop Now",
		Angle:    "Lifestyle",
		ImageURL: placeholderImage,
		Performance: &models.Performance{
			Views:       45230,
			Engagement:  3420,
			Conversions: 89,
			CTR:         7.6,
		},
	},
	{
		ID:       "2",
		Headline: "Limited Time Offer",
		Body:     "Get 30% off premium styles. Only 24 hours left!",
		CTA:      "Claim Offer",
		Angle:    "Urgency",
		ImageURL: placeholderImage,
		Performance: &models.Performance{
			Views:       38720,
			Engagement:  2890,
			Conversions: 156,
			CTR:         4.0,
		},
	},
	{
		ID:       "3",
		Headline: "10k+ Happy Customers",
		Body:     "Join thousands who already love our products. See what they say!",
		CTA:      "Read Reviews",
		Angle:    "Social Proof",
		ImageURL: placeholderImage,
		Performance: &models.Performance{
			Views:       29440,
			Engagement:  4230,
			Conversions: 67,
			CTR:         14.4,
		},
	},
}

// StaticProvider returns fixed sample data.
type StaticProvider struct{}

func NewStaticProvider() StaticProvider {
	return StaticProvider{}
}

func (StaticProvider) Summary(ctx context.Context) (models.Summary, error) {
	return sampleSummary, nil
}

func (StaticProvider) DeployedVariants(ctx context.Context) ([]models.Variant, error) {
	return SampleVariants(), nil
}

// SampleVariants returns a copy of the built-in deployed variants.
func SampleVariants() []models.Variant {
	out := make([]models.Variant, len(sampleVariants))
	for i, v := range sampleVariants {
		out[i] = v.Clone()
	}
	return out
}

func SampleSummary() models.Summary {
	return sampleSummary
}
