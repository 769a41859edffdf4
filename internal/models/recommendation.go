package models

// RecommendationScore is a scored candidate produced by a single scorer.
// Ephemeral, never persisted.
type RecommendationScore struct {
	ProgramID   string  `json:"program_id"`
	Score       float64 `json:"score"`
	Explanation string  `json:"explanation,omitempty"`
}

// Recommendation is one entry of the API response, with full program detail
// attached.
type Recommendation struct {
	ProgramID    string  `json:"program_id"`
	ProgramName  string  `json:"program_name"`
	Description  string  `json:"description"`
	Skills       string  `json:"skills"`
	Score        float64 `json:"score"`
	Explanation  string  `json:"explanation"`
	CourseURL    string  `json:"course_url,omitempty"`
	CourseRating float64 `json:"course_rating,omitempty"`
}
