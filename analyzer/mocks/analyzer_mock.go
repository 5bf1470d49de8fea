package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockAnalyzer struct {
	mock.Mock
}

func (m *MockAnalyzer) Analyze(ctx context.Context, text string, prompt string) (string, error) {
	args := m.Called(ctx, text, prompt)
	return args.String(0), args.Error(1)
}
