package service

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/dkoval/notewave/cache"
	"github.com/dkoval/notewave/models"
	"github.com/dkoval/notewave/notion"
	"github.com/dkoval/notewave/store"
)

const (
	pageListKeyPrefix   = "pages:"
	pageDetailKeyPrefix = "page:"
)

// SyncEventsChannel is the pub/sub channel carrying SyncEventMessage fan-out
// to websocket clients.
const SyncEventsChannel = "sync-events"

type SyncEventMessage struct {
	OwnerId string `json:"ownerId"`
	PageId  string `json:"pageId"`
	Event   string `json:"event"`
	Title   string `json:"title,omitempty"`
}

const (
	EventPageSynced  = "page-synced"
	EventSyncFailed  = "sync-failed"
	EventPageDeleted = "page-deleted"
)

// BulkSyncMessage is the queue message that asks the worker to sync all of an
// owner's pages.
type BulkSyncMessage struct {
	OwnerId string `json:"ownerId"`
}

func pageListKey(ownerId string) string {
	return pageListKeyPrefix + ownerId
}

func pageDetailKey(externalId string) string {
	return pageDetailKeyPrefix + externalId
}

// ListPages returns the owner's synced pages, read through the cache. Cache
// failures fall through to the store; the system stays correct with the
// cache entirely unavailable.
func (s *Service) ListPages(ctx context.Context, ownerId string) ([]models.Page, error) {
	key := pageListKey(ownerId)

	if data, err := s.Cache.Get(ctx, key); err == nil {
		var pages []models.Page
		if err := json.Unmarshal(data, &pages); err == nil {
			return pages, nil
		}
		log.Printf("Discarding malformed cached page list for owner %s", ownerId)
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		log.Printf("Cache read failed for %s: %v", key, err)
	}

	pages, err := s.Store.ListPages(ctx, ownerId)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(pages); err == nil {
		if err := s.Cache.Set(ctx, key, data, s.Config.ListCacheTTL); err != nil {
			log.Printf("Cache write failed for %s: %v", key, err)
		}
	}

	return pages, nil
}

// GetPage returns one synced page, read through the cache.
func (s *Service) GetPage(ctx context.Context, externalId string, ownerId string) (models.Page, error) {
	key := pageDetailKey(externalId)

	if data, err := s.Cache.Get(ctx, key); err == nil {
		var page models.Page
		if err := json.Unmarshal(data, &page); err == nil {
			// The detail key is namespaced by page id alone; reject a hit
			// belonging to a different owner.
			if page.OwnerId == ownerId {
				return page, nil
			}
			return models.Page{}, store.ErrItemNotFound
		}
		log.Printf("Discarding malformed cached page %s", externalId)
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		log.Printf("Cache read failed for %s: %v", key, err)
	}

	page, err := s.Store.FindPage(ctx, externalId, ownerId)
	if err != nil {
		return models.Page{}, err
	}

	if data, err := json.Marshal(page); err == nil {
		if err := s.Cache.Set(ctx, key, data, s.Config.DetailCacheTTL); err != nil {
			log.Printf("Cache write failed for %s: %v", key, err)
		}
	}

	return page, nil
}

// DeletePage removes the page row and its cache entries.
func (s *Service) DeletePage(ctx context.Context, externalId string, ownerId string) error {
	if err := s.Store.DeletePage(ctx, externalId, ownerId); err != nil {
		return err
	}

	if err := s.Cache.Delete(ctx, pageDetailKey(externalId), pageListKey(ownerId)); err != nil {
		log.Printf("Cache invalidation failed for page %s: %v", externalId, err)
	}

	s.publishSyncEvent(ctx, SyncEventMessage{OwnerId: ownerId, PageId: externalId, Event: EventPageDeleted})

	return nil
}

// SyncPage fetches one page from the remote source, rebuilds its block tree
// and plain text, and upserts the row keyed by (externalId, ownerId). All
// internal errors reduce to a logged false; nothing escapes the boundary.
func (s *Service) SyncPage(ctx context.Context, externalId string, ownerId string) bool {
	return s.syncPage(ctx, externalId, ownerId, true)
}

func (s *Service) syncPage(ctx context.Context, externalId string, ownerId string, invalidateList bool) bool {
	meta, err := s.Source.GetPageMetadata(ctx, externalId)
	if err != nil {
		log.Printf("Sync failed fetching metadata for page %s: %v", externalId, err)
		s.publishSyncEvent(ctx, SyncEventMessage{OwnerId: ownerId, PageId: externalId, Event: EventSyncFailed})
		return false
	}
	details := notion.ExtractDetails(meta)

	blocks, err := s.FetchBlockTree(ctx, externalId, s.Config.MaxFetchDepth)
	if err != nil {
		log.Printf("Sync failed fetching block tree for page %s: %v", externalId, err)
		s.publishSyncEvent(ctx, SyncEventMessage{OwnerId: ownerId, PageId: externalId, Event: EventSyncFailed})
		return false
	}

	page := models.Page{
		ExternalId:         externalId,
		OwnerId:            ownerId,
		Title:              details.Title,
		Description:        details.Description,
		Author:             details.Author,
		CreatedDate:        details.CreatedDate,
		URL:                details.URL,
		Blocks:             blocks,
		LastSyncedAt:       time.Now().Unix(),
		SourceLastEditedAt: details.LastEditedDate,
	}
	page.PlainText = RenderPlainText(page)

	if err := s.Store.UpsertPage(ctx, page); err != nil {
		log.Printf("Sync failed upserting page %s: %v", externalId, err)
		s.publishSyncEvent(ctx, SyncEventMessage{OwnerId: ownerId, PageId: externalId, Event: EventSyncFailed})
		return false
	}

	// Invalidate before reporting success so no caller can observe the
	// pre-sync value from cache. One-shot: if the delete itself fails the
	// stale entry survives until TTL expiry.
	keys := []string{pageDetailKey(externalId)}
	if invalidateList {
		keys = append(keys, pageListKey(ownerId))
	}
	if err := s.Cache.Delete(ctx, keys...); err != nil {
		log.Printf("Cache invalidation failed for page %s: %v", externalId, err)
	}

	s.publishSyncEvent(ctx, SyncEventMessage{OwnerId: ownerId, PageId: externalId, Event: EventPageSynced, Title: page.Title})

	return true
}

// SyncAllPages syncs every page of the configured Notion database for the
// owner, concurrently and without isolation: one page failing does not roll
// back or stop the others. The owner's page-list cache entry is invalidated
// exactly once, whatever the per-page outcomes.
func (s *Service) SyncAllPages(ctx context.Context, ownerId string) bool {
	if s.Config.NotionDatabaseId == "" {
		log.Printf("Bulk sync failed: no Notion database id configured")
		return false
	}

	pageIds, err := s.Source.ListDatabasePageIds(ctx, s.Config.NotionDatabaseId)
	if err != nil {
		log.Printf("Bulk sync failed listing database pages: %v", err)
		return false
	}

	results := make(chan bool, len(pageIds))
	for _, pageId := range pageIds {
		go func(pageId string) {
			results <- s.syncPage(ctx, pageId, ownerId, false)
		}(pageId)
	}

	succeeded := 0
	for range pageIds {
		if <-results {
			succeeded++
		}
	}

	if err := s.Cache.Delete(ctx, pageListKey(ownerId)); err != nil {
		log.Printf("Cache invalidation failed for owner %s page list: %v", ownerId, err)
	}

	log.Printf("Bulk sync for owner %s: %d/%d pages synced", ownerId, succeeded, len(pageIds))
	return succeeded > 0
}

// RequestBulkSync enqueues an asynchronous bulk sync for the owner.
func (s *Service) RequestBulkSync(ctx context.Context, ownerId string) error {
	body, err := json.Marshal(BulkSyncMessage{OwnerId: ownerId})
	if err != nil {
		return err
	}
	return s.MQ.Send(ctx, string(body))
}

func (s *Service) publishSyncEvent(ctx context.Context, event SyncEventMessage) {
	body, err := json.Marshal(event)
	if err != nil {
		return
	}
	if err := s.Cache.Publish(ctx, SyncEventsChannel, body); err != nil {
		log.Printf("Failed to publish %s event for page %s: %v", event.Event, event.PageId, err)
	}
}
