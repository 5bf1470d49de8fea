package service_test

import (
	"testing"

	"github.com/jomei/notionapi"
	"github.com/stretchr/testify/assert"

	analyzermocks "github.com/dkoval/notewave/analyzer/mocks"
	cachemocks "github.com/dkoval/notewave/cache/mocks"
	mqmocks "github.com/dkoval/notewave/mq/mocks"
	notionmocks "github.com/dkoval/notewave/notion/mocks"
	"github.com/dkoval/notewave/service"
	speechmocks "github.com/dkoval/notewave/speech/mocks"
	storemocks "github.com/dkoval/notewave/store/mocks"
)

type serviceMocks struct {
	store    *storemocks.MockStore
	cache    *cachemocks.MockCache
	source   *notionmocks.MockSource
	analyzer *analyzermocks.MockAnalyzer
	speech   *speechmocks.MockSynthesizer
	mq       *mqmocks.MockMQ
}

func setupService(t *testing.T) (*service.Service, serviceMocks) {
	mocks := serviceMocks{
		store:    new(storemocks.MockStore),
		cache:    new(cachemocks.MockCache),
		source:   new(notionmocks.MockSource),
		analyzer: new(analyzermocks.MockAnalyzer),
		speech:   new(speechmocks.MockSynthesizer),
		mq:       new(mqmocks.MockMQ),
	}

	svc, err := service.NewService(
		mocks.store,
		mocks.cache,
		mocks.source,
		mocks.analyzer,
		mocks.speech,
		mocks.mq,
		nil,
		[]byte("secret"),
		service.Config{NotionDatabaseId: "db1"},
	)
	assert.NoError(t, err)

	return svc, mocks
}

// Remote block constructors for fetcher tests

func remoteParagraph(id string, text string, hasChildren bool) notionapi.Block {
	return &notionapi.ParagraphBlock{
		BasicBlock: notionapi.BasicBlock{
			Object:      "block",
			ID:          notionapi.BlockID(id),
			Type:        "paragraph",
			HasChildren: hasChildren,
		},
		Paragraph: notionapi.Paragraph{
			RichText: []notionapi.RichText{{PlainText: text}},
		},
	}
}

func remoteBullet(id string, text string, hasChildren bool) notionapi.Block {
	return &notionapi.BulletedListItemBlock{
		BasicBlock: notionapi.BasicBlock{
			Object:      "block",
			ID:          notionapi.BlockID(id),
			Type:        "bulleted_list_item",
			HasChildren: hasChildren,
		},
		BulletedListItem: notionapi.ListItem{
			RichText: []notionapi.RichText{{PlainText: text}},
		},
	}
}
