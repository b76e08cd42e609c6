package performance

import (
	"context"
	"errors"
	"fmt"

	"adspark/internal/logger"
	"adspark/internal/models"

	"gorm.io/gorm"
)

// StoreProvider reads deployed variants and the summary from the database.
type StoreProvider struct {
	db     *gorm.DB
	logger *logger.Logger
}

func NewStoreProvider(db *gorm.DB, logger *logger.Logger) *StoreProvider {
	return &StoreProvider{db: db, logger: logger}
}

// Seed loads the sample rows into empty tables.
func (p *StoreProvider) Seed(ctx context.Context) error {
	return p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.VariantPerformance{}).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to count variant performances: %w", err)
		}
		if count == 0 {
			rows := make([]models.VariantPerformance, 0, len(sampleVariants))
			for i, v := range SampleVariants() {
				rows = append(rows, models.NewVariantPerformance(v, i))
			}
			if err := tx.Create(&rows).Error; err != nil {
				return fmt.Errorf("failed to seed variant performances: %w", err)
			}
			p.logger.Info("Seeded %d sample variant performances", len(rows))
		}

		var summary models.AggregateSummary
		err := tx.First(&summary).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s := SampleSummary()
			summary = models.AggregateSummary{
				TotalRevenue:    s.TotalRevenue,
				TotalViews:      s.TotalViews,
				TotalEngagement: s.TotalEngagement,
				ActiveCampaigns: s.ActiveCampaigns,
			}
			if err := tx.Create(&summary).Error; err != nil {
				return fmt.Errorf("failed to seed summary: %w", err)
			}
			return nil
		}
		return err
	})
}

func (p *StoreProvider) Summary(ctx context.Context) (models.Summary, error) {
	var row models.AggregateSummary
	if err := p.db.WithContext(ctx).Order("id").First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Summary{}, nil
		}
		return models.Summary{}, fmt.Errorf("failed to fetch summary: %w", err)
	}
	return models.Summary{
		TotalRevenue:    row.TotalRevenue,
		TotalViews:      row.TotalViews,
		TotalEngagement: row.TotalEngagement,
		ActiveCampaigns: row.ActiveCampaigns,
	}, nil
}

func (p *StoreProvider) DeployedVariants(ctx context.Context) ([]models.Variant, error) {
	var rows []models.VariantPerformance
	if err := p.db.WithContext(ctx).Order("position").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch variant performances: %w", err)
	}

	variants := make([]models.Variant, len(rows))
	for i, row := range rows {
		variants[i] = row.ToVariant()
	}
	return variants, nil
}
