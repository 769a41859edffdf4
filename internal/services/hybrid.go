package services

import (
	"sort"

	"github.com/jasseurchibani/student-program-recommender/internal/artifacts"
	"github.com/jasseurchibani/student-program-recommender/internal/config"
	"github.com/jasseurchibani/student-program-recommender/internal/models"
)

// wideCandidateK is how many candidates each scorer contributes before
// fusion trims to the requested k.
const wideCandidateK = 20

type HybridService interface {
	GetHybridRecommendations(interests, userID string, k int) ([]models.Recommendation, error)
}

type hybridService struct {
	store                *artifacts.Store
	contentService       ContentBasedService
	collaborativeService CollaborativeService
	config               *config.Config
}

func NewHybridService(store *artifacts.Store, content ContentBasedService, collaborative CollaborativeService, cfg *config.Config) HybridService {
	return &hybridService{
		store:                store,
		contentService:       content,
		collaborativeService: collaborative,
		config:               cfg,
	}
}

func (s *hybridService) GetHybridRecommendations(interests, userID string, k int) ([]models.Recommendation, error) {
	// Content is the baseline signal: if its assets are missing the whole
	// hybrid call fails the same way, there is no recovery path here.
	contentRecs, err := s.contentService.GetContentBasedRecommendations(interests, wideCandidateK)
	if err != nil {
		return nil, err
	}

	contentScores := make(map[string]float64, len(contentRecs))
	contentExplanations := make(map[string]string, len(contentRecs))
	for _, rec := range contentRecs {
		contentScores[rec.ProgramID] = rec.Score
		contentExplanations[rec.ProgramID] = rec.Explanation
	}

	var cfRecs []models.RecommendationScore
	if userID != "" {
		cfRecs, err = s.collaborativeService.GetCollaborativeRecommendations(userID, wideCandidateK)
	} else {
		cfRecs, err = s.collaborativeService.GetNewUserRecommendations(interests, wideCandidateK)
	}
	if err != nil {
		return nil, err
	}

	cfScores := make(map[string]float64, len(cfRecs))
	maxCF := 0.0
	for _, rec := range cfRecs {
		cfScores[rec.ProgramID] = rec.Score
		if rec.Score > maxCF {
			maxCF = rec.Score
		}
	}

	type hybridCandidate struct {
		programID string
		score     float64
	}

	candidates := make([]hybridCandidate, 0, len(contentScores)+len(cfScores))
	seen := make(map[string]bool, len(contentScores)+len(cfScores))

	combine := func(programID string) {
		if seen[programID] {
			return
		}
		seen[programID] = true

		contentScore := contentScores[programID]

		var hybridScore float64
		if len(cfScores) > 0 {
			cfScoreNorm := 0.0
			if maxCF > 0 {
				cfScoreNorm = cfScores[programID] / maxCF
			}
			hybridScore = s.config.ContentWeight*contentScore + s.config.CollaborativeWeight*cfScoreNorm
		} else {
			// CF produced nothing at all: the hybrid score degenerates to
			// the content score, no weighting applied.
			hybridScore = contentScore
		}

		candidates = append(candidates, hybridCandidate{programID: programID, score: hybridScore})
	}

	for _, rec := range contentRecs {
		combine(rec.ProgramID)
	}
	for _, rec := range cfRecs {
		combine(rec.ProgramID)
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return candidates[i].programID < candidates[j].programID
	})

	filtered := make([]hybridCandidate, 0, len(candidates))
	for _, c := range candidates {
		if c.score > s.config.RelevanceFloor {
			filtered = append(filtered, c)
		}
	}

	top := filtered
	if len(filtered) >= k {
		top = filtered[:k]
	} else if len(candidates) > 0 {
		// Not enough candidates pass the relevance floor: drop the floor and
		// take the best of the unfiltered sort so the caller still gets k
		// results whenever k candidates exist, even low-relevance ones.
		top = candidates
		if len(top) > k {
			top = top[:k]
		}
	}

	recommendations := make([]models.Recommendation, 0, len(top))
	for _, c := range top {
		program, ok := s.store.ProgramByID(c.programID)
		if !ok {
			continue
		}

		explanation, ok := contentExplanations[c.programID]
		if !ok {
			explanation = hybridFallbackExplanation
		}

		recommendations = append(recommendations, buildRecommendation(program, c.score, explanation))
	}

	return recommendations, nil
}

func buildRecommendation(program *models.Program, score float64, explanation string) models.Recommendation {
	return models.Recommendation{
		ProgramID:    program.ProgramID,
		ProgramName:  program.Name,
		Description:  program.Description,
		Skills:       program.TagsText,
		Score:        score,
		Explanation:  explanation,
		CourseURL:    program.URL,
		CourseRating: program.Rating,
	}
}
