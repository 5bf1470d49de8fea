package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/dkoval/notewave/cache"
	"github.com/dkoval/notewave/models"
)

func TestAnalyzePage_StoresResultAndInvalidates(t *testing.T) {
	svc, mocks := setupService(t)
	ctx := context.Background()

	stored := models.Page{ExternalId: "p1", OwnerId: "owner1", PlainText: "# Doc\n\nbody\n"}
	mocks.cache.On("Get", mock.Anything, "page:p1").Return(nil, cache.ErrCacheMiss)
	mocks.store.On("FindPage", mock.Anything, "p1", "owner1").Return(stored, nil)
	mocks.cache.On("Set", mock.Anything, "page:p1", mock.Anything, mock.Anything).Return(nil)

	mocks.analyzer.On("Analyze", mock.Anything, stored.PlainText, mock.AnythingOfType("string")).
		Return("A short summary.", nil)

	var upserted models.Page
	mocks.store.On("UpsertPage", mock.Anything, mock.AnythingOfType("models.Page")).
		Run(func(args mock.Arguments) {
			upserted = args.Get(1).(models.Page)
		}).
		Return(nil)
	mocks.cache.On("Delete", mock.Anything, "page:p1", "pages:owner1").Return(nil)

	text, err := svc.AnalyzePage(ctx, "p1", "owner1")

	assert.NoError(t, err)
	assert.Equal(t, "A short summary.", text)
	assert.Equal(t, "A short summary.", upserted.AnalysisText)
	assert.NotZero(t, upserted.AnalyzedAt)
	mocks.cache.AssertExpectations(t)
}

func TestAnalyzePage_RequiresRenderedText(t *testing.T) {
	svc, mocks := setupService(t)
	ctx := context.Background()

	stored := models.Page{ExternalId: "p1", OwnerId: "owner1"}
	mocks.cache.On("Get", mock.Anything, "page:p1").Return(nil, cache.ErrCacheMiss)
	mocks.store.On("FindPage", mock.Anything, "p1", "owner1").Return(stored, nil)
	mocks.cache.On("Set", mock.Anything, "page:p1", mock.Anything, mock.Anything).Return(nil)

	_, err := svc.AnalyzePage(ctx, "p1", "owner1")

	assert.Error(t, err)
	mocks.analyzer.AssertNotCalled(t, "Analyze", mock.Anything, mock.Anything, mock.Anything)
}

func TestAnalyzePage_AnalyzerFailure(t *testing.T) {
	svc, mocks := setupService(t)
	ctx := context.Background()

	stored := models.Page{ExternalId: "p1", OwnerId: "owner1", PlainText: "text"}
	data, _ := json.Marshal(stored)
	mocks.cache.On("Get", mock.Anything, "page:p1").Return(data, nil)
	mocks.analyzer.On("Analyze", mock.Anything, "text", mock.AnythingOfType("string")).
		Return("", errors.New("model overloaded"))

	_, err := svc.AnalyzePage(ctx, "p1", "owner1")

	assert.Error(t, err)
	mocks.store.AssertNotCalled(t, "UpsertPage", mock.Anything, mock.Anything)
}

func TestNarratePage_PrefersAnalysisText(t *testing.T) {
	svc, mocks := setupService(t)
	ctx := context.Background()

	stored := models.Page{
		ExternalId:   "p1",
		OwnerId:      "owner1",
		PlainText:    "raw text",
		AnalysisText: "summary text",
	}
	data, _ := json.Marshal(stored)
	mocks.cache.On("Get", mock.Anything, "page:p1").Return(data, nil)
	mocks.speech.On("Synthesize", mock.Anything, "summary text").Return([]byte{0x49, 0x44, 0x33}, nil)

	audio, err := svc.NarratePage(ctx, "p1", "owner1")

	assert.NoError(t, err)
	assert.NotEmpty(t, audio)
	mocks.speech.AssertExpectations(t)
}

func TestNarratePage_FallsBackToPlainText(t *testing.T) {
	svc, mocks := setupService(t)
	ctx := context.Background()

	stored := models.Page{ExternalId: "p1", OwnerId: "owner1", PlainText: "raw text"}
	data, _ := json.Marshal(stored)
	mocks.cache.On("Get", mock.Anything, "page:p1").Return(data, nil)
	mocks.speech.On("Synthesize", mock.Anything, "raw text").Return([]byte{0x49}, nil)

	_, err := svc.NarratePage(ctx, "p1", "owner1")

	assert.NoError(t, err)
	mocks.speech.AssertExpectations(t)
}

func TestNarratePage_NoText(t *testing.T) {
	svc, mocks := setupService(t)
	ctx := context.Background()

	stored := models.Page{ExternalId: "p1", OwnerId: "owner1"}
	data, _ := json.Marshal(stored)
	mocks.cache.On("Get", mock.Anything, "page:p1").Return(data, nil)

	_, err := svc.NarratePage(ctx, "p1", "owner1")

	assert.Error(t, err)
	mocks.speech.AssertNotCalled(t, "Synthesize", mock.Anything, mock.Anything)
}
