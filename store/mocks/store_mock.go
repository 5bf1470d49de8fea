package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/dkoval/notewave/models"
)

type MockStore struct {
	mock.Mock
}

func (m *MockStore) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *MockStore) GetUser(ctx context.Context, provider string, providerId string) (models.User, error) {
	args := m.Called(ctx, provider, providerId)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *MockStore) FindPage(ctx context.Context, externalId string, ownerId string) (models.Page, error) {
	args := m.Called(ctx, externalId, ownerId)
	return args.Get(0).(models.Page), args.Error(1)
}

func (m *MockStore) UpsertPage(ctx context.Context, page models.Page) error {
	args := m.Called(ctx, page)
	return args.Error(0)
}

func (m *MockStore) DeletePage(ctx context.Context, externalId string, ownerId string) error {
	args := m.Called(ctx, externalId, ownerId)
	return args.Error(0)
}

func (m *MockStore) ListPages(ctx context.Context, ownerId string) ([]models.Page, error) {
	args := m.Called(ctx, ownerId)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Page), args.Error(1)
}

func (m *MockStore) ListStalePages(ctx context.Context, syncedBefore int64, limit int32) ([]models.Page, error) {
	args := m.Called(ctx, syncedBefore, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Page), args.Error(1)
}
