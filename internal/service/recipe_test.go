package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/cravings/backend/internal/logging"
	"github.com/pageza/cravings/backend/internal/types"
)

// stubCompleter records the last call and answers with a canned response
type stubCompleter struct {
	text   string
	err    error
	calls  int
	prompt string
	opts   CompletionOptions
}

func (s *stubCompleter) Complete(ctx context.Context, prompt string, opts CompletionOptions) (string, error) {
	s.calls++
	s.prompt = prompt
	s.opts = opts
	return s.text, s.err
}

func TestSuggest(t *testing.T) {
	stub := &stubCompleter{text: threeSuggestions}
	svc := NewRecipeService(stub, 0.9, logging.Discard())

	suggestions, err := svc.Suggest(context.Background(), "spicy chicken")
	require.NoError(t, err)
	assert.Len(t, suggestions, 3)

	assert.Equal(t, 1, stub.calls)
	assert.Contains(t, stub.prompt, "spicy chicken")
	assert.Equal(t, stepSuggest, stub.opts.Step)
	assert.Equal(t, suggestionSystemPrompt, stub.opts.System)
	require.NotNil(t, stub.opts.Temperature)
	assert.Equal(t, 0.9, *stub.opts.Temperature)
}

func TestSuggestRequiresCraving(t *testing.T) {
	for _, craving := range []string{"", "   ", "\n\t"} {
		stub := &stubCompleter{text: threeSuggestions}
		svc := NewRecipeService(stub, 0.9, logging.Discard())

		suggestions, err := svc.Suggest(context.Background(), craving)
		assert.ErrorIs(t, err, ErrCravingRequired)
		assert.Nil(t, suggestions)
		assert.Equal(t, 0, stub.calls)
	}
}

func TestSuggestCompletionFailure(t *testing.T) {
	stub := &stubCompleter{err: errors.New("connection reset by peer")}
	svc := NewRecipeService(stub, 0.9, logging.Discard())

	_, err := svc.Suggest(context.Background(), "spicy chicken")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCompletionFailed)
	assert.Contains(t, err.Error(), "connection reset by peer")
}

func TestSuggestMalformedResponse(t *testing.T) {
	stub := &stubCompleter{text: "Sorry, I can only talk about cooking."}
	svc := NewRecipeService(stub, 0.9, logging.Discard())

	_, err := svc.Suggest(context.Background(), "spicy chicken")

	var malformedErr *MalformedResponseError
	require.True(t, errors.As(err, &malformedErr))
	assert.Equal(t, stub.text, malformedErr.Raw)
}

func TestExpand(t *testing.T) {
	stub := &stubCompleter{text: "```json\n" + tikkaRecipe + "\n```"}
	svc := NewRecipeService(stub, 0.9, logging.Discard())

	suggestion := types.RecipeSuggestion{
		Name:   "Chicken Tikka",
		Macros: types.Macros{ProteinG: 40, CarbsG: 20, FatG: 15},
	}
	recipe, err := svc.Expand(context.Background(), suggestion)
	require.NoError(t, err)

	assert.Equal(t, "Chicken Tikka", recipe.Name)
	assert.Equal(t, 375.0, recipe.CaloriesKcal)
	assert.Len(t, recipe.Ingredients, 3)

	assert.Equal(t, stepDetail, stub.opts.Step)
	assert.Nil(t, stub.opts.Temperature)
	assert.Contains(t, stub.prompt, "Chicken Tikka")
}

func TestExpandRecomputesCalories(t *testing.T) {
	stub := &stubCompleter{text: `{
		"name": "Chicken Tikka",
		"macros": {"protein_g": 40, "carbs_g": 20, "fat_g": 15},
		"calories_kcal": 900,
		"servings": 2,
		"ingredients": [{"name": "chicken", "quantity": "400 g"}],
		"instructions": ["Grill it."]
	}`}
	svc := NewRecipeService(stub, 0.9, logging.Discard())

	recipe, err := svc.Expand(context.Background(), types.RecipeSuggestion{Name: "Chicken Tikka"})
	require.NoError(t, err)
	assert.Equal(t, 375.0, recipe.CaloriesKcal)
}

func TestExpandRequiresName(t *testing.T) {
	stub := &stubCompleter{text: tikkaRecipe}
	svc := NewRecipeService(stub, 0.9, logging.Discard())

	_, err := svc.Expand(context.Background(), types.RecipeSuggestion{Description: "no name"})
	assert.ErrorIs(t, err, ErrRecipeRequired)
	assert.Equal(t, 0, stub.calls)
}

func TestExpandMalformedResponse(t *testing.T) {
	stub := &stubCompleter{text: "I am not able to produce that recipe."}
	svc := NewRecipeService(stub, 0.9, logging.Discard())

	_, err := svc.Expand(context.Background(), types.RecipeSuggestion{Name: "Chicken Tikka"})
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestCompletionFailureKeepsExistingWrap(t *testing.T) {
	wrapped := completionFailure(ErrCompletionFailed)
	assert.Equal(t, ErrCompletionFailed, wrapped)

	plain := completionFailure(context.DeadlineExceeded)
	assert.ErrorIs(t, plain, ErrCompletionFailed)
	assert.ErrorIs(t, plain, context.DeadlineExceeded)
}
