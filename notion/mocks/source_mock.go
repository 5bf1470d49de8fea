package mocks

import (
	"context"

	"github.com/jomei/notionapi"
	"github.com/stretchr/testify/mock"

	"github.com/dkoval/notewave/notion"
)

type MockSource struct {
	mock.Mock
}

func (m *MockSource) GetPageMetadata(ctx context.Context, pageId string) (notion.PageMeta, error) {
	args := m.Called(ctx, pageId)
	return args.Get(0).(notion.PageMeta), args.Error(1)
}

func (m *MockSource) ListChildren(ctx context.Context, blockId string, pageSize int) ([]notionapi.Block, error) {
	args := m.Called(ctx, blockId, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]notionapi.Block), args.Error(1)
}

func (m *MockSource) ListDatabasePageIds(ctx context.Context, databaseId string) ([]string, error) {
	args := m.Called(ctx, databaseId)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}
