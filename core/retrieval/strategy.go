package retrieval

import (
	"context"
	"fmt"
	"sort"

	"github.com/siherrmann/churner/core/classify"
	"github.com/siherrmann/churner/model"
)

// Strategy defines a retrieval strategy
type Strategy interface {
	Retrieve(ctx context.Context, features []float32, config *model.QueryConfig) ([]*model.NeighborResult, error)
}

// VectorOnlyStrategy performs pure cosine similarity search
type VectorOnlyStrategy struct {
	engine *Engine
}

// NewVectorOnlyStrategy creates a new vector-only strategy
func NewVectorOnlyStrategy(engine *Engine) *VectorOnlyStrategy {
	return &VectorOnlyStrategy{engine: engine}
}

// Retrieve performs vector-only retrieval
func (s *VectorOnlyStrategy) Retrieve(ctx context.Context, features []float32, config *model.QueryConfig) ([]*model.NeighborResult, error) {
	return s.engine.VectorRetrieve(ctx, features, config)
}

// SegmentScopedStrategy restricts similarity search to a customer
// segment (contract type and/or internet service), filtering at the
// database level
type SegmentScopedStrategy struct {
	engine *Engine
}

// NewSegmentScopedStrategy creates a new segment-scoped strategy
func NewSegmentScopedStrategy(engine *Engine) *SegmentScopedStrategy {
	return &SegmentScopedStrategy{engine: engine}
}

// Retrieve performs similarity retrieval within the configured segment
func (s *SegmentScopedStrategy) Retrieve(ctx context.Context, features []float32, config *model.QueryConfig) ([]*model.NeighborResult, error) {
	if config == nil || (config.Contract == "" && config.InternetService == "") {
		return nil, fmt.Errorf("segment scoped retrieval requires a contract or internet service filter")
	}

	results, err := s.engine.VectorRetrieve(ctx, features, config)
	if err != nil {
		return nil, err
	}

	for _, result := range results {
		result.RetrievalMethod = model.RetrievalMethodSegment
		result.Customer.RetrievalMethod = model.RetrievalMethodSegment
	}

	return results, nil
}

// RiskWeightedStrategy combines cosine similarity with the predicted
// churn probability of each neighbor, surfacing similar customers that
// are also likely to churn
type RiskWeightedStrategy struct {
	engine     *Engine
	classifier *classify.Classifier
}

// NewRiskWeightedStrategy creates a new risk-weighted strategy.
// The classifier must be trained on features of the same dimension.
func NewRiskWeightedStrategy(engine *Engine, classifier *classify.Classifier) *RiskWeightedStrategy {
	return &RiskWeightedStrategy{engine: engine, classifier: classifier}
}

// Retrieve performs risk-weighted retrieval. Candidates are fetched with
// a widened TopK, rescored as SimilarityWeight*similarity +
// RiskWeight*churn probability and cut back to TopK.
func (s *RiskWeightedStrategy) Retrieve(ctx context.Context, features []float32, config *model.QueryConfig) ([]*model.NeighborResult, error) {
	if s.classifier == nil {
		return nil, fmt.Errorf("risk weighted retrieval requires a trained classifier")
	}
	if config == nil {
		defaultConfig := model.DefaultQueryConfig()
		config = &defaultConfig
	}

	// Widen the candidate pool so rescoring has room to reorder
	candidateConfig := *config
	candidateConfig.TopK = config.TopK * 3

	results, err := s.engine.VectorRetrieve(ctx, features, &candidateConfig)
	if err != nil {
		return nil, err
	}

	for _, result := range results {
		probability, err := s.classifier.PredictCustomer(result.Customer)
		if err != nil {
			return nil, err
		}

		result.ChurnProbability = probability
		result.Score = config.SimilarityWeight*result.SimilarityScore + config.RiskWeight*probability
		result.RetrievalMethod = model.RetrievalMethodRiskWeighted
		result.Customer.Score = result.Score
		result.Customer.RetrievalMethod = model.RetrievalMethodRiskWeighted
	}

	sort.Slice(results, func(i, j int) bool { return results[i].Score > results[j].Score })

	if len(results) > config.TopK {
		results = results[:config.TopK]
	}

	return results, nil
}
