package model

import "github.com/google/uuid"

// QueryConfig represents configuration for a similar-customer query
type QueryConfig struct {
	// Vector search parameters
	TopK                int     `json:"top_k"`
	SimilarityThreshold float64 `json:"similarity_threshold,omitempty"`

	// Dataset filtering
	DatasetRIDs []uuid.UUID `json:"dataset_rids,omitempty"` // Filter by specific datasets

	// Segment filtering (exact match on the raw field values)
	Contract        string `json:"contract,omitempty"`
	InternetService string `json:"internet_service,omitempty"`
	ChurnedOnly     bool   `json:"churned_only"`

	// Ranking parameters for risk-weighted retrieval
	SimilarityWeight float64 `json:"similarity_weight"` // Weight for cosine similarity
	RiskWeight       float64 `json:"risk_weight"`       // Weight for predicted churn probability
}

// DefaultQueryConfig returns a sensible default configuration
func DefaultQueryConfig() QueryConfig {
	return QueryConfig{
		TopK:                5,
		SimilarityThreshold: 0.7,
		ChurnedOnly:         false,
		SimilarityWeight:    0.6,
		RiskWeight:          0.4,
	}
}
