package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/pageza/cravings/backend/internal/types"
)

const (
	stepSuggest = "suggest"
	stepDetail  = "detail"

	// calorieTolerance is the relative gap between the model's calorie figure
	// and the 4/4/9 figure above which a warning is logged
	calorieTolerance = 0.10
)

// RecipeService turns cravings into suggestions and suggestions into full recipes
type RecipeService struct {
	llm         Completer
	temperature float64
	logger      logrus.FieldLogger
}

// NewRecipeService creates a new RecipeService instance. temperature is used
// for the suggestion step only.
func NewRecipeService(llm Completer, temperature float64, logger logrus.FieldLogger) *RecipeService {
	return &RecipeService{
		llm:         llm,
		temperature: temperature,
		logger:      logger.WithField("component", "recipe"),
	}
}

// Suggest asks the model for recipe ideas matching craving
func (s *RecipeService) Suggest(ctx context.Context, craving string) ([]types.RecipeSuggestion, error) {
	if strings.TrimSpace(craving) == "" {
		return nil, ErrCravingRequired
	}

	log := s.logger.WithFields(logrus.Fields{"step": stepSuggest, "craving": craving})
	log.Info("generating recipe suggestions")

	temperature := s.temperature
	text, err := s.llm.Complete(ctx, BuildSuggestionPrompt(craving), CompletionOptions{
		System:      suggestionSystemPrompt,
		Temperature: &temperature,
		Step:        stepSuggest,
	})
	if err != nil {
		return nil, completionFailure(err)
	}

	suggestions, err := ExtractSuggestions(text)
	if err != nil {
		extractionFailures.WithLabelValues(stepSuggest).Inc()
		log.WithError(err).WithField("raw_response", text).Error("failed to parse suggestions")
		return nil, err
	}

	log.WithField("count", len(suggestions)).Info("recipe suggestions generated")
	return suggestions, nil
}

// Expand asks the model for the ingredients and steps of a suggestion.
// calories_kcal is always derived from the returned macros.
func (s *RecipeService) Expand(ctx context.Context, suggestion types.RecipeSuggestion) (*types.FullRecipe, error) {
	if strings.TrimSpace(suggestion.Name) == "" {
		return nil, ErrRecipeRequired
	}

	log := s.logger.WithFields(logrus.Fields{"step": stepDetail, "recipe": suggestion.Name})
	log.Info("generating recipe details")

	text, err := s.llm.Complete(ctx, BuildDetailPrompt(suggestion), CompletionOptions{
		System: detailSystemPrompt,
		Step:   stepDetail,
	})
	if err != nil {
		return nil, completionFailure(err)
	}

	recipe, err := ExtractFullRecipe(text)
	if err != nil {
		extractionFailures.WithLabelValues(stepDetail).Inc()
		log.WithError(err).WithField("raw_response", text).Error("failed to parse recipe details")
		return nil, err
	}

	reconcileCalories(log, recipe)
	return recipe, nil
}

func reconcileCalories(log logrus.FieldLogger, recipe *types.FullRecipe) {
	computed := math.Round(recipe.Macros.Calories())
	reported := recipe.CaloriesKcal
	if reported > 0 && math.Abs(reported-computed) > calorieTolerance*computed {
		log.WithFields(logrus.Fields{
			"reported_kcal": reported,
			"computed_kcal": computed,
		}).Warn("model calories disagree with macros, using computed value")
	}
	recipe.CaloriesKcal = computed
}

func completionFailure(err error) error {
	if errors.Is(err, ErrCompletionFailed) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrCompletionFailed, err)
}
