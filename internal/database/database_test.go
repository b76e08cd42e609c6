package database

import (
	"testing"

	"adspark/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSQLiteMigrates(t *testing.T) {
	db, err := New("sqlite://file:"+t.Name()+"?mode=memory&cache=shared", "error")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	assert.True(t, db.DB.Migrator().HasTable(&models.VariantPerformance{}))
	assert.True(t, db.DB.Migrator().HasTable(&models.AggregateSummary{}))

	row := models.VariantPerformance{VariantID: "v1", Headline: "h"}
	require.NoError(t, db.DB.Create(&row).Error)
	assert.NotEmpty(t, row.ID)
}
