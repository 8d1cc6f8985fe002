// Package retrieval finds customers similar to a query feature vector
// using the pgvector cosine index, with pluggable ranking strategies.
package retrieval

import (
	"context"

	"github.com/siherrmann/churner/database"
	"github.com/siherrmann/churner/model"
)

// Engine provides similarity retrieval over stored customers
type Engine struct {
	customers *database.CustomersDBHandler
}

// NewEngine creates a new retrieval engine
func NewEngine(customers *database.CustomersDBHandler) *Engine {
	return &Engine{
		customers: customers,
	}
}

// VectorRetrieve performs pure cosine similarity search
func (e *Engine) VectorRetrieve(ctx context.Context, features []float32, config *model.QueryConfig) ([]*model.NeighborResult, error) {
	customers, err := e.customers.SelectCustomersBySimilarity(features, config.TopK, config.SimilarityThreshold, config)
	if err != nil {
		return nil, err
	}

	results := make([]*model.NeighborResult, len(customers))
	for i, customer := range customers {
		score := 0.0
		if customer.Similarity != nil {
			score = *customer.Similarity
		}
		results[i] = &model.NeighborResult{
			Customer:        customer,
			Score:           score,
			SimilarityScore: score,
			RetrievalMethod: model.RetrievalMethodVector,
		}
	}

	return results, nil
}
