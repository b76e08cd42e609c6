// Package performance serves the metrics shown for deployed variants. The
// numbers are sample data; Provider is the seam where a real analytics
// backend would plug in.
package performance

import (
	"context"
	"fmt"
	"strconv"

	"adspark/internal/models"
)

type Provider interface {
	Summary(ctx context.Context) (models.Summary, error)
	DeployedVariants(ctx context.Context) ([]models.Variant, error)
}

// FormatCTR renders a click-through rate with one decimal place.
func FormatCTR(ctr float64) string {
	return strconv.FormatFloat(ctr, 'f', 1, 64) + "%"
}

// DeployedView is a deployed variant prepared for display.
type DeployedView struct {
	models.Variant
	CTRDisplay string `json:"ctr_display,omitempty"`
}

// Dashboard is the performance half of the dashboard payload.
type Dashboard struct {
	Summary  models.Summary `json:"summary"`
	Deployed []DeployedView `json:"deployed_variants"`
}

func LoadDashboard(ctx context.Context, p Provider) (Dashboard, error) {
	summary, err := p.Summary(ctx)
	if err != nil {
		return Dashboard{}, fmt.Errorf("failed to load summary: %w", err)
	}

	variants, err := p.DeployedVariants(ctx)
	if err != nil {
		return Dashboard{}, fmt.Errorf("failed to load deployed variants: %w", err)
	}

	views := make([]DeployedView, len(variants))
	for i, v := range variants {
		views[i] = DeployedView{Variant: v}
		if v.Performance != nil {
			views[i].CTRDisplay = FormatCTR(v.Performance.CTR)
		}
	}
	return Dashboard{Summary: summary, Deployed: views}, nil
}
