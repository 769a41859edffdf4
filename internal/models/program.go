package models

// Program is one entry of the study program catalog. The catalog is built
// once at artifact load time and is immutable afterwards.
type Program struct {
	ProgramID   string  `json:"program_id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	TagsText    string  `json:"tags_text"`
	URL         string  `json:"url,omitempty"`
	University  string  `json:"university,omitempty"`
	Difficulty  string  `json:"difficulty,omitempty"`
	Rating      float64 `json:"rating,omitempty"`

	// Combined lowercase name+description+tags, derived at load.
	// Used for lexical matching in explanations.
	Text string `json:"-"`
}

// UserProfile is the /recommend request body. The grade fields are accepted
// and validated but not used by the scoring core yet.
type UserProfile struct {
	Interests     string   `json:"interests" binding:"required"`
	MathGrade     *float64 `json:"math_grade" binding:"omitempty,gte=0,lte=100"`
	ScienceGrade  *float64 `json:"science_grade" binding:"omitempty,gte=0,lte=100"`
	LanguageGrade *float64 `json:"language_grade" binding:"omitempty,gte=0,lte=100"`
	UserID        string   `json:"user_id"`
}
