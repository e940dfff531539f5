package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/pageza/cravings/backend/internal/types"
)

// MockRecipeService is a mock implementation of the recipe service
type MockRecipeService struct {
	mock.Mock
}

// Suggest mocks the Suggest method
func (m *MockRecipeService) Suggest(ctx context.Context, craving string) ([]types.RecipeSuggestion, error) {
	args := m.Called(ctx, craving)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.RecipeSuggestion), args.Error(1)
}

// Expand mocks the Expand method
func (m *MockRecipeService) Expand(ctx context.Context, suggestion types.RecipeSuggestion) (*types.FullRecipe, error) {
	args := m.Called(ctx, suggestion)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.FullRecipe), args.Error(1)
}
