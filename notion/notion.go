package notion

import (
	"context"
	"time"

	"github.com/jomei/notionapi"
)

// PageMeta is the metadata half of a remote page: its property map plus the
// timestamps and authorship Notion reports for it.
type PageMeta struct {
	Id             string
	URL            string
	CreatedTime    time.Time
	LastEditedTime time.Time
	CreatedBy      notionapi.User
	Properties     notionapi.Properties
}

// Source is the remote content source consumed by the sync pipeline.
// ListChildren returns a single page of up to pageSize children; deeper
// pagination is not modeled (observed pages stay under 100 children).
type Source interface {
	GetPageMetadata(ctx context.Context, pageId string) (PageMeta, error)
	ListChildren(ctx context.Context, blockId string, pageSize int) ([]notionapi.Block, error)
	ListDatabasePageIds(ctx context.Context, databaseId string) ([]string, error)
}
