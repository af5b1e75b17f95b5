package dto

type ResumeQuery struct {
	Text string `json:"text"`
}

type DescriptionQuery struct {
	Description string `json:"description"`
}

type Recommendation struct {
	JobID           int64   `json:"job_id"`
	JobTitle        string  `json:"job_title"`
	Description     string  `json:"description"`
	SimilarityScore float64 `json:"similarity_score"`
}

type RecommendationResponse struct {
	Recommendations []Recommendation `json:"recommendations"`
}

type CategoryPrediction struct {
	PredictedCategory string `json:"predicted_category"`
}

type CategoryList struct {
	Categories []string `json:"categories"`
}

type ErrorDetail struct {
	Detail string `json:"detail"`
}

type StatusResponse struct {
	Message   string   `json:"message"`
	Docs      string   `json:"docs"`
	Health    string   `json:"health"`
	Endpoints []string `json:"endpoints"`
}

type HealthResponse struct {
	Status string `json:"status"`
}
