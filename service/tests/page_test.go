package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jomei/notionapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/dkoval/notewave/cache"
	"github.com/dkoval/notewave/models"
	"github.com/dkoval/notewave/notion"
	"github.com/dkoval/notewave/service"
	"github.com/dkoval/notewave/store"
)

func pageMeta(title string) notion.PageMeta {
	return notion.PageMeta{
		URL:            "https://notion.so/p1",
		CreatedTime:    time.Unix(1700000000, 0),
		LastEditedTime: time.Unix(1700000100, 0),
		Properties: notionapi.Properties{
			"Name": &notionapi.TitleProperty{
				Title: []notionapi.RichText{{PlainText: title}},
			},
		},
	}
}

func expectSyncEvents(mocks serviceMocks) {
	mocks.cache.On("Publish", mock.Anything, service.SyncEventsChannel, mock.Anything).Return(nil)
}

func TestGetPage_CacheHit(t *testing.T) {
	svc, mocks := setupService(t)
	ctx := context.Background()

	cached := models.Page{ExternalId: "p1", OwnerId: "owner1", Title: "Cached"}
	data, _ := json.Marshal(cached)
	mocks.cache.On("Get", mock.Anything, "page:p1").Return(data, nil)

	page, err := svc.GetPage(ctx, "p1", "owner1")

	assert.NoError(t, err)
	assert.Equal(t, "Cached", page.Title)
	mocks.store.AssertNotCalled(t, "FindPage", mock.Anything, mock.Anything, mock.Anything)
}

func TestGetPage_CacheHitWrongOwnerRejected(t *testing.T) {
	svc, mocks := setupService(t)
	ctx := context.Background()

	cached := models.Page{ExternalId: "p1", OwnerId: "other", Title: "Cached"}
	data, _ := json.Marshal(cached)
	mocks.cache.On("Get", mock.Anything, "page:p1").Return(data, nil)

	_, err := svc.GetPage(ctx, "p1", "owner1")

	assert.ErrorIs(t, err, store.ErrItemNotFound)
	mocks.store.AssertNotCalled(t, "FindPage", mock.Anything, mock.Anything, mock.Anything)
}

func TestGetPage_CacheMissPopulates(t *testing.T) {
	svc, mocks := setupService(t)
	ctx := context.Background()

	stored := models.Page{ExternalId: "p1", OwnerId: "owner1", Title: "Stored"}
	mocks.cache.On("Get", mock.Anything, "page:p1").Return(nil, cache.ErrCacheMiss)
	mocks.store.On("FindPage", mock.Anything, "p1", "owner1").Return(stored, nil)
	mocks.cache.On("Set", mock.Anything, "page:p1", mock.Anything, 24*time.Hour).Return(nil)

	page, err := svc.GetPage(ctx, "p1", "owner1")

	assert.NoError(t, err)
	assert.Equal(t, "Stored", page.Title)
	mocks.cache.AssertExpectations(t)
}

func TestGetPage_CacheUnavailableFallsThrough(t *testing.T) {
	svc, mocks := setupService(t)
	ctx := context.Background()

	stored := models.Page{ExternalId: "p1", OwnerId: "owner1", Title: "Stored"}
	mocks.cache.On("Get", mock.Anything, "page:p1").Return(nil, errors.New("connection refused"))
	mocks.store.On("FindPage", mock.Anything, "p1", "owner1").Return(stored, nil)
	mocks.cache.On("Set", mock.Anything, "page:p1", mock.Anything, mock.Anything).Return(errors.New("connection refused"))

	page, err := svc.GetPage(ctx, "p1", "owner1")

	assert.NoError(t, err)
	assert.Equal(t, "Stored", page.Title)
}

func TestListPages_CacheMissPopulates(t *testing.T) {
	svc, mocks := setupService(t)
	ctx := context.Background()

	stored := []models.Page{{ExternalId: "p1", OwnerId: "owner1"}}
	mocks.cache.On("Get", mock.Anything, "pages:owner1").Return(nil, cache.ErrCacheMiss)
	mocks.store.On("ListPages", mock.Anything, "owner1").Return(stored, nil)
	mocks.cache.On("Set", mock.Anything, "pages:owner1", mock.Anything, time.Hour).Return(nil)

	pages, err := svc.ListPages(ctx, "owner1")

	assert.NoError(t, err)
	assert.Len(t, pages, 1)
	mocks.cache.AssertExpectations(t)
}

func TestSyncPage_Success(t *testing.T) {
	svc, mocks := setupService(t)
	ctx := context.Background()
	expectSyncEvents(mocks)

	mocks.source.On("GetPageMetadata", mock.Anything, "p1").Return(pageMeta("Synced Page"), nil)
	mocks.source.On("ListChildren", mock.Anything, "p1", 100).
		Return([]notionapi.Block{remoteParagraph("b1", "hello", false)}, nil)

	var upserted models.Page
	mocks.store.On("UpsertPage", mock.Anything, mock.AnythingOfType("models.Page")).
		Run(func(args mock.Arguments) {
			upserted = args.Get(1).(models.Page)
		}).
		Return(nil)
	mocks.cache.On("Delete", mock.Anything, "page:p1", "pages:owner1").Return(nil)

	ok := svc.SyncPage(ctx, "p1", "owner1")

	assert.True(t, ok)
	assert.Equal(t, "Synced Page", upserted.Title)
	assert.Equal(t, "owner1", upserted.OwnerId)
	assert.Len(t, upserted.Blocks, 1)
	assert.Contains(t, upserted.PlainText, "# Synced Page")
	assert.Contains(t, upserted.PlainText, "hello")
	assert.Empty(t, upserted.AnalysisText)
	mocks.cache.AssertExpectations(t)
}

func TestSyncPage_RemoteMetadataFailure(t *testing.T) {
	svc, mocks := setupService(t)
	ctx := context.Background()
	expectSyncEvents(mocks)

	mocks.source.On("GetPageMetadata", mock.Anything, "p1").
		Return(notion.PageMeta{}, errors.New("notion unavailable"))

	ok := svc.SyncPage(ctx, "p1", "owner1")

	assert.False(t, ok)
	mocks.store.AssertNotCalled(t, "UpsertPage", mock.Anything, mock.Anything)
	mocks.cache.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
}

func TestSyncPage_UpsertFailure(t *testing.T) {
	svc, mocks := setupService(t)
	ctx := context.Background()
	expectSyncEvents(mocks)

	mocks.source.On("GetPageMetadata", mock.Anything, "p1").Return(pageMeta("Synced Page"), nil)
	mocks.source.On("ListChildren", mock.Anything, "p1", 100).
		Return([]notionapi.Block{}, nil)
	mocks.store.On("UpsertPage", mock.Anything, mock.AnythingOfType("models.Page")).
		Return(errors.New("throttled"))

	ok := svc.SyncPage(ctx, "p1", "owner1")

	assert.False(t, ok)
	mocks.cache.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
}

func TestSyncAllPages_PartialFailure(t *testing.T) {
	svc, mocks := setupService(t)
	ctx := context.Background()
	expectSyncEvents(mocks)

	mocks.source.On("ListDatabasePageIds", mock.Anything, "db1").
		Return([]string{"p1", "p2", "p3", "p4", "p5"}, nil)

	for _, id := range []string{"p1", "p2", "p3"} {
		mocks.source.On("GetPageMetadata", mock.Anything, id).Return(pageMeta("Page "+id), nil)
		mocks.source.On("ListChildren", mock.Anything, id, 100).
			Return([]notionapi.Block{}, nil)
	}
	for _, id := range []string{"p4", "p5"} {
		mocks.source.On("GetPageMetadata", mock.Anything, id).
			Return(notion.PageMeta{}, errors.New("gone"))
	}

	mocks.store.On("UpsertPage", mock.Anything, mock.AnythingOfType("models.Page")).Return(nil)

	var listInvalidations atomic.Int32
	mocks.cache.On("Delete", mock.Anything, "pages:owner1").
		Run(func(args mock.Arguments) { listInvalidations.Add(1) }).
		Return(nil)
	mocks.cache.On("Delete", mock.Anything, mock.AnythingOfType("string")).Return(nil)

	ok := svc.SyncAllPages(ctx, "owner1")

	assert.True(t, ok)
	assert.Equal(t, int32(1), listInvalidations.Load())
	mocks.store.AssertNumberOfCalls(t, "UpsertPage", 3)
}

func TestSyncAllPages_AllFail(t *testing.T) {
	svc, mocks := setupService(t)
	ctx := context.Background()
	expectSyncEvents(mocks)

	mocks.source.On("ListDatabasePageIds", mock.Anything, "db1").
		Return([]string{"p1", "p2"}, nil)
	mocks.source.On("GetPageMetadata", mock.Anything, mock.AnythingOfType("string")).
		Return(notion.PageMeta{}, errors.New("gone"))
	mocks.cache.On("Delete", mock.Anything, "pages:owner1").Return(nil)

	ok := svc.SyncAllPages(ctx, "owner1")

	assert.False(t, ok)
	mocks.cache.AssertExpectations(t)
}

func TestSyncAllPages_NoDatabaseConfigured(t *testing.T) {
	_, mocks := setupService(t)
	ctx := context.Background()

	svc, err := service.NewService(
		mocks.store, mocks.cache, mocks.source,
		mocks.analyzer, mocks.speech, mocks.mq,
		nil, []byte("secret"), service.Config{},
	)
	assert.NoError(t, err)

	ok := svc.SyncAllPages(ctx, "owner1")

	assert.False(t, ok)
	mocks.source.AssertNotCalled(t, "ListDatabasePageIds", mock.Anything, mock.Anything)
}

func TestDeletePage(t *testing.T) {
	svc, mocks := setupService(t)
	ctx := context.Background()
	expectSyncEvents(mocks)

	mocks.store.On("DeletePage", mock.Anything, "p1", "owner1").Return(nil)
	mocks.cache.On("Delete", mock.Anything, "page:p1", "pages:owner1").Return(nil)

	err := svc.DeletePage(ctx, "p1", "owner1")

	assert.NoError(t, err)
	mocks.store.AssertExpectations(t)
	mocks.cache.AssertExpectations(t)
}

func TestDeletePage_StoreFailure(t *testing.T) {
	svc, mocks := setupService(t)
	ctx := context.Background()

	mocks.store.On("DeletePage", mock.Anything, "p1", "owner1").Return(store.ErrItemNotFound)

	err := svc.DeletePage(ctx, "p1", "owner1")

	assert.ErrorIs(t, err, store.ErrItemNotFound)
	mocks.cache.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
}

func TestRequestBulkSync(t *testing.T) {
	svc, mocks := setupService(t)
	ctx := context.Background()

	mocks.mq.On("Send", mock.Anything, `{"ownerId":"owner1"}`).Return(nil)

	err := svc.RequestBulkSync(ctx, "owner1")

	assert.NoError(t, err)
	mocks.mq.AssertExpectations(t)
}
