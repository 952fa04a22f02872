package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"reviewapi/internal/model"
	"reviewapi/internal/service"
)

type MockReviewService struct {
	mock.Mock
}

func (m *MockReviewService) ListByPlace(ctx context.Context, placeID string) ([]model.Review, error) {
	args := m.Called(ctx, placeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Review), args.Error(1)
}

func (m *MockReviewService) Get(ctx context.Context, id string) (*model.Review, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Review), args.Error(1)
}

func (m *MockReviewService) Create(ctx context.Context, placeID string, attrs service.Attrs) (*model.Review, error) {
	args := m.Called(ctx, placeID, attrs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Review), args.Error(1)
}

func (m *MockReviewService) Update(ctx context.Context, id string, attrs service.Attrs) (*model.Review, error) {
	args := m.Called(ctx, id, attrs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Review), args.Error(1)
}

func (m *MockReviewService) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
