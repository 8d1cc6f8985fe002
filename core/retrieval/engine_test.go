package retrieval

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/siherrmann/churner/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEngine(t *testing.T) {
	t.Run("Create new engine", func(t *testing.T) {
		_, customers := initHandlers(t)
		engine := NewEngine(customers)
		require.NotNil(t, engine, "Expected NewEngine to return a non-nil instance")
		assert.NotNil(t, engine.customers, "Expected engine to have customers handler")
	})
}

func TestVectorRetrieve(t *testing.T) {
	datasets, customers := initHandlers(t)
	engine := NewEngine(customers)

	ds, inserted := insertTestCustomers(t, datasets, customers,
		[][]float32{
			{1, 0, 0},
			{0.9, 0.1, 0},
			{0, 0, 1},
		},
		[]bool{true, false, true},
	)

	t.Run("Vector retrieve with results", func(t *testing.T) {
		config := &model.QueryConfig{
			TopK:                10,
			SimilarityThreshold: 0.0,
			DatasetRIDs:         []uuid.UUID{ds.RID},
		}

		results, err := engine.VectorRetrieve(context.Background(), []float32{1, 0, 0}, config)

		assert.NoError(t, err, "Expected VectorRetrieve to not return an error")
		require.Len(t, results, 3, "Expected all customers with threshold 0")
		assert.Equal(t, inserted[0].RID, results[0].Customer.RID, "Expected the identical vector first")
		assert.InDelta(t, 1.0, results[0].SimilarityScore, 1e-6, "Expected similarity 1 for identical vector")
		assert.Equal(t, results[0].Score, results[0].SimilarityScore, "Expected score to equal similarity for vector retrieval")
		assert.Equal(t, model.RetrievalMethodVector, results[0].RetrievalMethod, "Expected vector retrieval method")
	})

	t.Run("Vector retrieve applies TopK", func(t *testing.T) {
		config := &model.QueryConfig{
			TopK:                2,
			SimilarityThreshold: 0.0,
			DatasetRIDs:         []uuid.UUID{ds.RID},
		}

		results, err := engine.VectorRetrieve(context.Background(), []float32{1, 0, 0}, config)
		assert.NoError(t, err)
		assert.Len(t, results, 2, "Expected at most TopK results")
	})

	t.Run("Vector retrieve applies threshold", func(t *testing.T) {
		config := &model.QueryConfig{
			TopK:                10,
			SimilarityThreshold: 0.95,
			DatasetRIDs:         []uuid.UUID{ds.RID},
		}

		results, err := engine.VectorRetrieve(context.Background(), []float32{1, 0, 0}, config)
		assert.NoError(t, err)
		assert.Len(t, results, 2, "Expected only customers above the threshold")
	})

	// Cleanup
	for _, customer := range inserted {
		customers.DeleteCustomer(customer.RID)
	}
	datasets.DeleteDataset(ds.RID)
}
