package services

import (
	"context"

	"github.com/stretchr/testify/mock"

	"movieweek/internal/dataprocessing"
	"movieweek/pkg/contracts/domain"
)

// MockAnalyzer is a mock for the Analyzer interface
type MockAnalyzer struct {
	mock.Mock
}

func (m *MockAnalyzer) Run(ctx context.Context, src dataprocessing.Source) (*domain.Analysis, error) {
	args := m.Called(ctx, src)
	if a := args.Get(0); a != nil {
		return a.(*domain.Analysis), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAnalyzer) RunRemote(ctx context.Context) (*domain.Analysis, error) {
	args := m.Called(ctx)
	if a := args.Get(0); a != nil {
		return a.(*domain.Analysis), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAnalyzer) RemoteURL() string {
	return m.Called().String(0)
}
