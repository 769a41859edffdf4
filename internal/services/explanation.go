package services

import (
	"fmt"
	"strings"

	"github.com/jasseurchibani/student-program-recommender/internal/models"
)

const (
	collaborativeExplanation  = "Users with similar interests also liked this program."
	newUserExplanation        = "Based on your interests, users with similar profiles have enjoyed this program."
	hybridFallbackExplanation = "Recommended based on your interests and similar user preferences."
)

// GenerateContentExplanation produces one sentence justifying a content-based
// recommendation from interest/tag overlap. Pure function, never fails.
func GenerateContentExplanation(interests string, program *models.Program) string {
	matches := []string{}
	for _, token := range parseInterestTokens(interests) {
		if strings.Contains(program.Text, token) {
			matches = append(matches, token)
		}
	}

	if len(matches) == 0 {
		return fmt.Sprintf("This program focuses on %s, which may align with your background and interests.", program.TagsText)
	}

	// Brevity policy: never name more than the first two matched tokens.
	var matchedText string
	switch len(matches) {
	case 1:
		matchedText = matches[0]
	case 2:
		matchedText = matches[0] + " and " + matches[1]
	default:
		matchedText = matches[0] + ", " + matches[1] + ", and others"
	}

	return fmt.Sprintf("Recommended because you're interested in %s, and this program focuses on %s.", matchedText, program.TagsText)
}

// parseInterestTokens lowercases, treats commas as separators and splits on
// whitespace.
func parseInterestTokens(interests string) []string {
	text := strings.ReplaceAll(strings.ToLower(interests), ",", " ")

	tokens := []string{}
	for _, tok := range strings.Fields(text) {
		if tok != "" {
			tokens = append(tokens, tok)
		}
	}
	return tokens
}
