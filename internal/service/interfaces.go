package service

import (
	"context"

	"github.com/pageza/cravings/backend/internal/types"
)

// Completer is the text completion service the recipe flow depends on
type Completer interface {
	Complete(ctx context.Context, prompt string, opts CompletionOptions) (string, error)
}

// IRecipeService defines the interface for recipe generation operations
type IRecipeService interface {
	Suggest(ctx context.Context, craving string) ([]types.RecipeSuggestion, error)
	Expand(ctx context.Context, suggestion types.RecipeSuggestion) (*types.FullRecipe, error)
}

var (
	_ Completer      = (*LLMService)(nil)
	_ IRecipeService = (*RecipeService)(nil)
)
