package worker

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/dkoval/notewave/mq"
	"github.com/dkoval/notewave/service"
)

// MQConsumer drains the bulk-sync queue: each message asks for all of one
// owner's pages to be re-synced from the remote source.
type MQConsumer struct {
	syncQueue mq.MessageQueue
	svc       *service.Service
}

func NewMQConsumer(syncQueue mq.MessageQueue, svc *service.Service) *MQConsumer {
	return &MQConsumer{
		syncQueue: syncQueue,
		svc:       svc,
	}
}

// Allow up to 5 minutes for a rate-limited full resync of an owner's pages
const visibilityTimeout = 300

func (mqConsumer MQConsumer) Run(shutdownCtx context.Context) {
	for {
		msg, err := mqConsumer.syncQueue.Receive(shutdownCtx, visibilityTimeout)

		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return
			}
			log.Printf("mqConsumer receive error: %v", err)
			continue
		}

		if msg == nil {
			continue
		}

		var syncMsg service.BulkSyncMessage
		if err := json.Unmarshal([]byte(msg.Body), &syncMsg); err != nil {
			continue
		}
		if syncMsg.OwnerId == "" {
			continue
		}

		// timeout should be a little less than queue visibility timeout
		ctx, cancel := context.WithTimeout(context.Background(), time.Duration(visibilityTimeout-1)*time.Second)
		ok := mqConsumer.svc.SyncAllPages(ctx, syncMsg.OwnerId)
		cancel()

		if !ok {
			log.Printf("Bulk sync for owner %s completed with no pages synced", syncMsg.OwnerId)
		}

		if err := mqConsumer.syncQueue.Delete(context.Background(), msg); err != nil {
			log.Printf("mqConsumer delete error: %v", err)
			continue
		}
	}
}
