package services

import (
	"sort"
	"strings"

	"github.com/jasseurchibani/student-program-recommender/internal/artifacts"
	"github.com/jasseurchibani/student-program-recommender/internal/config"
	"github.com/jasseurchibani/student-program-recommender/internal/models"
)

type ContentBasedService interface {
	GetContentBasedRecommendations(interests string, k int) ([]models.RecommendationScore, error)

	// SimilarityScores exposes the projection+cosine step on its own, one
	// similarity per catalog row. The new-user collaborative path reuses it.
	SimilarityScores(interests string) ([]float64, error)
}

type contentBasedService struct {
	store  *artifacts.Store
	config *config.Config
}

func NewContentBasedService(store *artifacts.Store, cfg *config.Config) ContentBasedService {
	return &contentBasedService{
		store:  store,
		config: cfg,
	}
}

func (s *contentBasedService) SimilarityScores(interests string) ([]float64, error) {
	if !s.store.TFIDFAvailable() || !s.store.CatalogAvailable() {
		return nil, ErrAssetsNotLoaded
	}

	// The UI sends comma-separated interests; the vectorizer was trained on
	// free text, so commas become whitespace before projecting.
	queryVector := s.store.Vectorizer().Transform(strings.ReplaceAll(interests, ",", " "))

	matrix := s.store.Matrix()
	similarities := make([]float64, len(matrix))
	for i, row := range matrix {
		similarities[i] = artifacts.CosineSimilarity(queryVector, row)
	}

	return similarities, nil
}

func (s *contentBasedService) GetContentBasedRecommendations(interests string, k int) ([]models.RecommendationScore, error) {
	similarities, err := s.SimilarityScores(interests)
	if err != nil {
		return nil, err
	}

	type scoredProgram struct {
		idx   int
		score float64
	}

	scored := make([]scoredProgram, 0, len(similarities))
	for idx, score := range similarities {
		scored = append(scored, scoredProgram{idx: idx, score: score})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})

	// Only strictly positive similarity counts as a match; results are never
	// padded with zero-similarity programs.
	recommendations := make([]models.RecommendationScore, 0, k)
	for _, sp := range scored {
		if sp.score <= 0 {
			break
		}
		if len(recommendations) >= k {
			break
		}

		program, ok := s.store.ProgramAt(sp.idx)
		if !ok {
			continue
		}

		recommendations = append(recommendations, models.RecommendationScore{
			ProgramID:   program.ProgramID,
			Score:       sp.score,
			Explanation: GenerateContentExplanation(interests, program),
		})
	}

	return recommendations, nil
}
