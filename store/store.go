package store

import (
	"context"
	"errors"

	"github.com/dkoval/notewave/models"
)

type NotewaveStore interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	GetUser(ctx context.Context, provider string, providerId string) (models.User, error)

	FindPage(ctx context.Context, externalId string, ownerId string) (models.Page, error)
	UpsertPage(ctx context.Context, page models.Page) error
	DeletePage(ctx context.Context, externalId string, ownerId string) error
	ListPages(ctx context.Context, ownerId string) ([]models.Page, error)
	ListStalePages(ctx context.Context, syncedBefore int64, limit int32) ([]models.Page, error)
}

// Custom error types for clarity
var (
	ErrItemNotFound    = errors.New("item does not exist")
	ErrConditionFailed = errors.New("condition not met")
)
