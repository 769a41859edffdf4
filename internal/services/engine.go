package services

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/jasseurchibani/student-program-recommender/internal/artifacts"
	"github.com/jasseurchibani/student-program-recommender/internal/config"
	"github.com/jasseurchibani/student-program-recommender/internal/models"
)

// Strategy is the closed set of recommendation approaches.
type Strategy int

const (
	StrategyContent Strategy = iota
	StrategyCollaborative
	StrategyHybrid
)

func (s Strategy) String() string {
	switch s {
	case StrategyContent:
		return "content-based"
	case StrategyCollaborative:
		return "collaborative"
	case StrategyHybrid:
		return "hybrid"
	}
	return "unknown"
}

// ParseStrategy normalizes the approach names the UI and older clients send.
func ParseStrategy(approach string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(approach)) {
	case "", "hybrid":
		return StrategyHybrid, nil
	case "content-based", "content", "content_based", "contentbased":
		return StrategyContent, nil
	case "collaborative", "cf", "collab", "collaborative-filtering", "collaborative_filtering":
		return StrategyCollaborative, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownStrategy, approach)
}

type RecommendationEngine interface {
	Recommend(profile models.UserProfile, strategy Strategy, k int) ([]models.Recommendation, error)
}

type recommendationEngine struct {
	store                *artifacts.Store
	contentService       ContentBasedService
	collaborativeService CollaborativeService
	hybridService        HybridService
	config               *config.Config
	log                  *zap.Logger
}

func NewRecommendationEngine(
	store *artifacts.Store,
	content ContentBasedService,
	collaborative CollaborativeService,
	hybrid HybridService,
	cfg *config.Config,
	log *zap.Logger,
) RecommendationEngine {
	return &recommendationEngine{
		store:                store,
		contentService:       content,
		collaborativeService: collaborative,
		hybridService:        hybrid,
		config:               cfg,
		log:                  log,
	}
}

func (e *recommendationEngine) Recommend(profile models.UserProfile, strategy Strategy, k int) ([]models.Recommendation, error) {
	if k <= 0 {
		k = e.config.DefaultK
	}

	e.log.Info("generating recommendations",
		zap.String("strategy", strategy.String()),
		zap.Int("k", k),
		zap.Bool("known_user", profile.UserID != ""))

	switch strategy {
	case StrategyContent:
		recs, err := e.contentService.GetContentBasedRecommendations(profile.Interests, k)
		if err != nil {
			return nil, err
		}
		return e.withDetail(recs), nil

	case StrategyCollaborative:
		return e.collaborativeWithFallback(profile, k)

	case StrategyHybrid:
		return e.hybridService.GetHybridRecommendations(profile.Interests, profile.UserID, k)
	}

	return nil, fmt.Errorf("%w: %d", ErrUnknownStrategy, strategy)
}

// collaborativeWithFallback walks the documented chain: existing-user CF,
// then simulated CF for new users, then content-based. Each fallback step is
// invisible to the caller; an empty final result is valid, not an error.
func (e *recommendationEngine) collaborativeWithFallback(profile models.UserProfile, k int) ([]models.Recommendation, error) {
	if profile.UserID != "" {
		recs, err := e.collaborativeService.GetCollaborativeRecommendations(profile.UserID, k)
		if err != nil {
			return nil, err
		}
		if len(recs) > 0 {
			return e.withDetail(recs), nil
		}
		e.log.Debug("user not in factor model, falling back to simulated CF",
			zap.String("user_id", profile.UserID))
	}

	recs, err := e.collaborativeService.GetNewUserRecommendations(profile.Interests, k)
	if err != nil {
		return nil, err
	}
	if len(recs) > 0 {
		return e.withDetail(recs), nil
	}

	e.log.Debug("simulated CF empty, falling back to content-based")
	contentRecs, err := e.contentService.GetContentBasedRecommendations(profile.Interests, k)
	if err != nil {
		return nil, err
	}
	return e.withDetail(contentRecs), nil
}

// withDetail attaches full catalog detail to scored candidates, skipping any
// id the catalog does not know.
func (e *recommendationEngine) withDetail(scores []models.RecommendationScore) []models.Recommendation {
	recommendations := make([]models.Recommendation, 0, len(scores))
	for _, rec := range scores {
		program, ok := e.store.ProgramByID(rec.ProgramID)
		if !ok {
			continue
		}
		recommendations = append(recommendations, buildRecommendation(program, rec.Score, rec.Explanation))
	}
	return recommendations
}
