package model

// NeighborResult represents a customer retrieved by a similarity query
type NeighborResult struct {
	Customer         *Customer       `json:"customer"`
	Score            float64         `json:"score"`             // Combined score from ranking
	SimilarityScore  float64         `json:"similarity_score"`  // Cosine similarity score
	ChurnProbability float64         `json:"churn_probability"` // Set by risk-weighted retrieval
	RetrievalMethod  RetrievalMethod `json:"retrieval_method"`  // How it was retrieved
}
