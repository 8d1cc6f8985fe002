package model

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultQueryConfig(t *testing.T) {
	t.Run("Returns correct default values", func(t *testing.T) {
		config := DefaultQueryConfig()

		assert.Equal(t, 5, config.TopK, "Default TopK should be 5")
		assert.Equal(t, 0.7, config.SimilarityThreshold, "Default SimilarityThreshold should be 0.7")
		assert.Empty(t, config.Contract, "Default Contract filter should be empty")
		assert.Empty(t, config.InternetService, "Default InternetService filter should be empty")
		assert.False(t, config.ChurnedOnly, "Default ChurnedOnly should be false")
		assert.Equal(t, 0.6, config.SimilarityWeight, "Default SimilarityWeight should be 0.6")
		assert.Equal(t, 0.4, config.RiskWeight, "Default RiskWeight should be 0.4")
	})

	t.Run("Default weights sum to 1.0", func(t *testing.T) {
		config := DefaultQueryConfig()

		sum := config.SimilarityWeight + config.RiskWeight
		assert.InDelta(t, 1.0, sum, 0.001, "Default weights should sum to 1.0")
	})

	t.Run("Can be modified after creation", func(t *testing.T) {
		config := DefaultQueryConfig()

		config.TopK = 10
		config.SimilarityThreshold = 0.8
		config.Contract = ContractMonthToMonth
		config.ChurnedOnly = true

		assert.Equal(t, 10, config.TopK)
		assert.Equal(t, 0.8, config.SimilarityThreshold)
		assert.Equal(t, ContractMonthToMonth, config.Contract)
		assert.True(t, config.ChurnedOnly)
	})

	t.Run("Can set DatasetRIDs", func(t *testing.T) {
		config := DefaultQueryConfig()

		ds1 := uuid.New()
		ds2 := uuid.New()
		config.DatasetRIDs = []uuid.UUID{ds1, ds2}

		require.Len(t, config.DatasetRIDs, 2)
		assert.Equal(t, ds1, config.DatasetRIDs[0])
		assert.Equal(t, ds2, config.DatasetRIDs[1])
	})
}
