package services

import (
	"errors"
	"sort"

	"github.com/jasseurchibani/student-program-recommender/internal/artifacts"
	"github.com/jasseurchibani/student-program-recommender/internal/config"
	"github.com/jasseurchibani/student-program-recommender/internal/models"
)

const (
	// Wide similarity net for the pseudo profile, averaged down to the top
	// slice. Same constants the model was tuned with offline.
	pseudoProfileCandidates = 20
	pseudoProfileFactors    = 10
)

type CollaborativeService interface {
	GetCollaborativeRecommendations(userID string, k int) ([]models.RecommendationScore, error)
	GetNewUserRecommendations(interests string, k int) ([]models.RecommendationScore, error)
}

type collaborativeService struct {
	store          *artifacts.Store
	contentService ContentBasedService
	config         *config.Config
}

func NewCollaborativeService(store *artifacts.Store, content ContentBasedService, cfg *config.Config) CollaborativeService {
	return &collaborativeService{
		store:          store,
		contentService: content,
		config:         cfg,
	}
}

// GetCollaborativeRecommendations scores all programs for a user present in
// the factor model. An unknown user or an absent model is an expected case
// and yields an empty result, never an error.
func (s *collaborativeService) GetCollaborativeRecommendations(userID string, k int) ([]models.RecommendationScore, error) {
	if !s.store.CFAvailable() {
		return []models.RecommendationScore{}, nil
	}

	cf := s.store.FactorModel()
	userIdx, ok := cf.UserIndex(userID)
	if !ok {
		return []models.RecommendationScore{}, nil
	}

	predicted := cf.Predict(cf.UserFactors[userIdx])
	return s.selectTopK(cf, predicted, k, collaborativeExplanation), nil
}

// GetNewUserRecommendations approximates a collaborative ranking for a user
// with no interaction history: the item factors of the programs most similar
// to the interests are averaged into a pseudo user-factor vector, which is
// then scored like any trained user.
func (s *collaborativeService) GetNewUserRecommendations(interests string, k int) ([]models.RecommendationScore, error) {
	if !s.store.CFAvailable() {
		return []models.RecommendationScore{}, nil
	}

	similarities, err := s.contentService.SimilarityScores(interests)
	if err != nil {
		if errors.Is(err, ErrAssetsNotLoaded) {
			return []models.RecommendationScore{}, nil
		}
		return nil, err
	}

	cf := s.store.FactorModel()

	topPrograms := topKIndices(similarities, pseudoProfileCandidates)
	if len(topPrograms) > pseudoProfileFactors {
		topPrograms = topPrograms[:pseudoProfileFactors]
	}

	validFactors := make([][]float64, 0, len(topPrograms))
	for _, progIdx := range topPrograms {
		program, ok := s.store.ProgramAt(progIdx)
		if !ok {
			continue
		}
		itemIdx, ok := cf.ItemIndex(program.ProgramID)
		if !ok {
			// Program never seen in interaction data; skip.
			continue
		}
		validFactors = append(validFactors, cf.ItemColumn(itemIdx))
	}

	if len(validFactors) == 0 {
		return []models.RecommendationScore{}, nil
	}

	pseudoUserFactor := make([]float64, len(validFactors[0]))
	for _, factors := range validFactors {
		for i, v := range factors {
			pseudoUserFactor[i] += v
		}
	}
	for i := range pseudoUserFactor {
		pseudoUserFactor[i] /= float64(len(validFactors))
	}

	predicted := cf.Predict(pseudoUserFactor)
	return s.selectTopK(cf, predicted, k, newUserExplanation), nil
}

func (s *collaborativeService) selectTopK(cf *artifacts.FactorModel, predicted []float64, k int, explanation string) []models.RecommendationScore {
	chosen := []models.RecommendationScore{}
	rawScores := []float64{}

	for _, idx := range topKIndices(predicted, k) {
		if idx < 0 || idx >= len(cf.ProgramIDs) {
			continue
		}
		chosen = append(chosen, models.RecommendationScore{
			ProgramID:   cf.ProgramIDs[idx],
			Explanation: explanation,
		})
		rawScores = append(rawScores, predicted[idx])
	}

	for i, score := range normalizeScores(rawScores) {
		chosen[i].Score = score
	}

	return chosen
}

// topKIndices returns the indices of the k highest scores, best first. Ties
// break by original array order with the last occurrence winning, since the
// selection takes the tail of an ascending stable sort and reverses it.
func topKIndices(scores []float64, k int) []int {
	idx := make([]int, len(scores))
	for i := range idx {
		idx[i] = i
	}

	sort.SliceStable(idx, func(a, b int) bool {
		return scores[idx[a]] < scores[idx[b]]
	})

	if k > len(idx) {
		k = len(idx)
	}

	top := make([]int, 0, k)
	for i := len(idx) - 1; i >= len(idx)-k; i-- {
		top = append(top, idx[i])
	}
	return top
}

// normalizeScores min-max normalizes into [0,1]. A constant score set maps to
// all ones to avoid dividing by zero.
func normalizeScores(scores []float64) []float64 {
	if len(scores) == 0 {
		return scores
	}

	mn, mx := scores[0], scores[0]
	for _, s := range scores[1:] {
		if s < mn {
			mn = s
		}
		if s > mx {
			mx = s
		}
	}

	normalized := make([]float64, len(scores))
	if mx == mn {
		for i := range normalized {
			normalized[i] = 1.0
		}
		return normalized
	}

	for i, s := range scores {
		normalized[i] = (s - mn) / (mx - mn)
	}
	return normalized
}
