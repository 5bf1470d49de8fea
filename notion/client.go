package notion

import (
	"context"
	"fmt"
	"time"

	"github.com/jomei/notionapi"
	"golang.org/x/time/rate"
)

const (
	// Notion's public API allows an average of 3 requests per second.
	requestsPerSecond = 3
	requestBurst      = 3

	// A hung remote call fails the affected subtree instead of stalling
	// the whole batch.
	callTimeout = 15 * time.Second
)

type NotionSource struct {
	api     *notionapi.Client
	limiter *rate.Limiter
}

func NewNotionSource(token string) *NotionSource {
	return &NotionSource{
		api:     notionapi.NewClient(notionapi.Token(token)),
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), requestBurst),
	}
}

func (s *NotionSource) GetPageMetadata(ctx context.Context, pageId string) (PageMeta, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return PageMeta{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	page, err := s.api.Page.Get(ctx, notionapi.PageID(pageId))
	if err != nil {
		return PageMeta{}, fmt.Errorf("fetching page %s: %w", pageId, err)
	}

	return PageMeta{
		Id:             string(page.ID),
		URL:            page.URL,
		CreatedTime:    page.CreatedTime,
		LastEditedTime: page.LastEditedTime,
		CreatedBy:      page.CreatedBy,
		Properties:     page.Properties,
	}, nil
}

func (s *NotionSource) ListChildren(ctx context.Context, blockId string, pageSize int) ([]notionapi.Block, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	resp, err := s.api.Block.GetChildren(ctx, notionapi.BlockID(blockId), &notionapi.Pagination{
		PageSize: pageSize,
	})
	if err != nil {
		return nil, fmt.Errorf("listing children of %s: %w", blockId, err)
	}

	return resp.Results, nil
}

func (s *NotionSource) ListDatabasePageIds(ctx context.Context, databaseId string) ([]string, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	resp, err := s.api.Database.Query(ctx, notionapi.DatabaseID(databaseId), &notionapi.DatabaseQueryRequest{
		PageSize: 100,
	})
	if err != nil {
		return nil, fmt.Errorf("querying database %s: %w", databaseId, err)
	}

	ids := make([]string, 0, len(resp.Results))
	for _, page := range resp.Results {
		ids = append(ids, string(page.ID))
	}

	return ids, nil
}
