package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// VariantPerformance is the stored form of a deployed variant and its metrics.
type VariantPerformance struct {
	ID          string    `json:"id" gorm:"primaryKey"`
	VariantID   string    `json:"variant_id" gorm:"uniqueIndex;not null"`
	Headline    string    `json:"headline" gorm:"not null"`
	Body        string    `json:"body"`
	CTA         string    `json:"cta"`
	Angle       string    `json:"angle"`
	ImageURL    string    `json:"image_url"`
	Views       int       `json:"views" gorm:"default:0"`
	Engagement  int       `json:"engagement" gorm:"default:0"`
	Conversions int       `json:"conversions" gorm:"default:0"`
	CTR         float64   `json:"ctr"`
	Position    int       `json:"position"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (vp *VariantPerformance) BeforeCreate(tx *gorm.DB) error {
	if vp.ID == "" {
		vp.ID = uuid.New().String()
	}
	return nil
}

func (vp VariantPerformance) ToVariant() Variant {
	return Variant{
		ID:       vp.VariantID,
		Headline: vp.Headline,
		Body:     vp.Body,
		CTA:      vp.CTA,
		Angle:    vp.Angle,
		ImageURL: vp.ImageURL,
		Performance: &Performance{
			Views:       vp.Views,
			Engagement:  vp.Engagement,
			Conversions: vp.Conversions,
			CTR:         vp.CTR,
		},
	}
}

func NewVariantPerformance(v Variant, position int) VariantPerformance {
	vp := VariantPerformance{
		VariantID: v.ID,
		Headline:  v.Headline,
		Body:      v.Body,
		CTA:       v.CTA,
		Angle:     v.Angle,
		ImageURL:  v.ImageURL,
		Position:  position,
	}
	if v.Performance != nil {
		vp.Views = v.Performance.Views
		vp.Engagement = v.Performance.Engagement
		vp.Conversions = v.Performance.Conversions
		vp.CTR = v.Performance.CTR
	}
	return vp
}

// AggregateSummary is the stored dashboard header row.
type AggregateSummary struct {
	ID              uint      `json:"-" gorm:"primaryKey"`
	TotalRevenue    float64   `json:"total_revenue" gorm:"type:decimal(12,2)"`
	TotalViews      int       `json:"total_views"`
	TotalEngagement int       `json:"total_engagement"`
	ActiveCampaigns int       `json:"active_campaigns"`
	UpdatedAt       time.Time `json:"updated_at"`
}
