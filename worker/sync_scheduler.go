package worker

import (
	"context"
	"log"
	"time"

	"github.com/dkoval/notewave/service"
)

// SyncScheduler re-syncs pages whose last sync predates the staleness
// window. Pages are refreshed sequentially: the scheduler shares the remote
// source's rate budget with interactive syncs and must not crowd them out.
type SyncScheduler struct {
	svc             *service.Service
	tickerInterval  time.Duration
	stalenessWindow time.Duration
	batchLimit      int32
}

func NewSyncScheduler(svc *service.Service, tickerInterval time.Duration, stalenessWindow time.Duration, batchLimit int32) *SyncScheduler {
	return &SyncScheduler{
		svc:             svc,
		tickerInterval:  tickerInterval,
		stalenessWindow: stalenessWindow,
		batchLimit:      batchLimit,
	}
}

func (sched *SyncScheduler) Run(shutdownCtx context.Context) {
	ticker := time.NewTicker(sched.tickerInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			sched.refreshStalePages(shutdownCtx)

		case <-shutdownCtx.Done():
			return
		}
	}
}

func (sched *SyncScheduler) refreshStalePages(ctx context.Context) {
	cutoff := time.Now().Add(-sched.stalenessWindow).Unix()

	stalePages, err := sched.svc.Store.ListStalePages(ctx, cutoff, sched.batchLimit)
	if err != nil {
		log.Printf("Scheduler failed to list stale pages: %v", err)
		return
	}
	if len(stalePages) == 0 {
		return
	}

	refreshed := 0
	for _, page := range stalePages {
		if ctx.Err() != nil {
			return
		}
		if sched.svc.SyncPage(ctx, page.ExternalId, page.OwnerId) {
			refreshed++
		}
	}

	log.Printf("Scheduler refreshed %d/%d stale pages", refreshed, len(stalePages))
}
