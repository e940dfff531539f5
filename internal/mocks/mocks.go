package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/pageza/cravings/backend/internal/service"
)

// MockCompleter is a mock implementation of the completion service
type MockCompleter struct {
	mock.Mock
}

// Complete mocks the Complete method
func (m *MockCompleter) Complete(ctx context.Context, prompt string, opts service.CompletionOptions) (string, error) {
	args := m.Called(ctx, prompt, opts)
	return args.String(0), args.Error(1)
}
