package api

import (
	"context"
	"log"
	"net/http"
	"time"

	"golang.org/x/oauth2"

	"github.com/dkoval/notewave/analyzer"
	"github.com/dkoval/notewave/api/rest"
	"github.com/dkoval/notewave/api/ws"
	"github.com/dkoval/notewave/cache"
	"github.com/dkoval/notewave/mq"
	"github.com/dkoval/notewave/notion"
	"github.com/dkoval/notewave/service"
	"github.com/dkoval/notewave/speech"
	"github.com/dkoval/notewave/store"
	"github.com/dkoval/notewave/worker"
)

type NotewaveAPI struct {
	restHandler *rest.Handler
	wsHandler   *ws.Handler
	shutdownCtx context.Context
}

const (
	schedulerInterval = 15 * time.Minute
	stalenessWindow   = 24 * time.Hour
	schedulerBatch    = 25
)

func NewNotewaveAPI(
	notewaveStore store.NotewaveStore,
	notewaveCache cache.NotewaveCache,
	source notion.Source,
	textAnalyzer analyzer.TextAnalyzer,
	synthesizer speech.Synthesizer,
	syncQueue mq.MessageQueue,
	oauthConfigs map[string]*oauth2.Config,
	jwtSecret []byte,
	serviceConfig service.Config,
	shutdownCtx context.Context,
) (*NotewaveAPI, error) {
	wsHub := ws.NewHub(notewaveCache)
	if err := wsHub.InitSubscriptions(shutdownCtx); err != nil {
		log.Printf("Failed to start WS hub subscriptions: %v", err)
		return &NotewaveAPI{}, err
	}
	go wsHub.Run()

	svc, err := service.NewService(
		notewaveStore,
		notewaveCache,
		source,
		textAnalyzer,
		synthesizer,
		syncQueue,
		oauthConfigs,
		jwtSecret,
		serviceConfig,
	)
	if err != nil {
		log.Printf("Failed to create service: %v", err)
		return &NotewaveAPI{}, err
	}

	mqConsumer := worker.NewMQConsumer(syncQueue, svc)
	go mqConsumer.Run(shutdownCtx)

	syncScheduler := worker.NewSyncScheduler(svc, schedulerInterval, stalenessWindow, schedulerBatch)
	go syncScheduler.Run(shutdownCtx)

	restHandler := rest.NewHandler(svc)
	wsHandler := ws.NewHandler(svc, wsHub)

	return &NotewaveAPI{
		restHandler: restHandler,
		wsHandler:   wsHandler,
		shutdownCtx: shutdownCtx,
	}, nil
}

func (notewaveAPI *NotewaveAPI) RegisterRoutes(mux *http.ServeMux, requiredOrigin string) {
	// Health check endpoint (no auth required)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	mux.HandleFunc("/login", notewaveAPI.restHandler.HandleLogin)
	mux.HandleFunc("/me", notewaveAPI.restHandler.HandleMe)
	mux.HandleFunc("/pages", notewaveAPI.restHandler.HandlePages)
	mux.HandleFunc("/pages/", notewaveAPI.restHandler.HandlePage)

	wsUpgrader := notewaveAPI.wsHandler.NewWsUpgrader(requiredOrigin)
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		notewaveAPI.wsHandler.ServeWS(wsUpgrader, w, r, notewaveAPI.shutdownCtx)
	})
}
