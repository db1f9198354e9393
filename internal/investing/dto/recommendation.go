package dto

// RecommendationItem is one suggestion produced by the recommender.
type RecommendationItem struct {
	Symbol string `json:"symbol,omitempty"`
	Name   string `json:"name,omitempty"`
	Reason string `json:"reason"`
}

// RecommendationResult is the JSON document the recommender prints on stdout.
type RecommendationResult struct {
	UserID                 string               `json:"userId,omitempty"`
	RecommendedStocks      []RecommendationItem `json:"recommendedStocks"`
	RecommendedMutualFunds []RecommendationItem `json:"recommendedMutualFunds"`
}
