package main

import (
	"context"
	"encoding/base64"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"golang.org/x/oauth2"

	"github.com/dkoval/notewave/analyzer/claude"
	"github.com/dkoval/notewave/api"
	"github.com/dkoval/notewave/cache/redis"
	"github.com/dkoval/notewave/mq/sqsmq"
	"github.com/dkoval/notewave/notion"
	"github.com/dkoval/notewave/service"
	"github.com/dkoval/notewave/speech/polly"
	"github.com/dkoval/notewave/store/dynamo"
)

const (
	DynamoDBTable    = "Notewave"
	SQSBulkSyncQueue = "BulkSyncQueue"
)

func main() {
	ctx := context.Background()
	devMode := os.Getenv("DEV_MODE") == "true"

	notewaveStore, err := dynamo.NewDynamoNotewaveStore(ctx, devMode, os.Getenv("DYNAMODB_ENDPOINT"), DynamoDBTable)
	if err != nil {
		log.Fatalf("Failed to create dynamodb store: %v", err)
	}

	syncQueue, err := sqsmq.NewSQSMessageQueue(ctx, devMode, os.Getenv("SQS_ENDPOINT"), SQSBulkSyncQueue)
	if err != nil {
		log.Fatalf("Failed to create SQS MQ: %v", err)
	}

	notewaveCache, err := redis.NewRedisNotewaveCache(ctx, devMode, os.Getenv("REDIS_ENDPOINT"))
	if err != nil {
		log.Fatalf("Failed to create redis cache: %v", err)
	}

	source := notion.NewNotionSource(os.Getenv("NOTION_TOKEN"))

	textAnalyzer := claude.NewClaudeAnalyzer(os.Getenv("ANTHROPIC_API_KEY"), os.Getenv("ANTHROPIC_MODEL"))

	synthesizer, err := polly.NewPollySynthesizer(ctx, devMode, os.Getenv("POLLY_VOICE"))
	if err != nil {
		log.Fatalf("Failed to create polly synthesizer: %v", err)
	}

	var oauthConfigs = map[string]*oauth2.Config{
		"github": {
			ClientID:     os.Getenv("GITHUB_CLIENT_ID"),
			ClientSecret: os.Getenv("GITHUB_CLIENT_SECRET"),
			RedirectURL:  os.Getenv("OAUTH_REDIRECT_URL"),
		},
		"google": {
			ClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
			ClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
			RedirectURL:  os.Getenv("OAUTH_REDIRECT_URL"),
		},
	}

	jwtSecret, err := base64.StdEncoding.DecodeString(os.Getenv("JWT_SECRET"))
	if err != nil {
		log.Fatalf("Failed to decode base64 jwtSecret: %v", err)
	}

	serviceConfig := service.Config{
		NotionDatabaseId: os.Getenv("NOTION_DATABASE_ID"),
		AnalysisPrompt:   os.Getenv("ANALYSIS_PROMPT"),
	}
	if depth := os.Getenv("MAX_FETCH_DEPTH"); depth != "" {
		if d, err := strconv.Atoi(depth); err == nil {
			serviceConfig.MaxFetchDepth = d
		}
	}

	shutdownCtx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer stop()

	notewaveAPI, err := api.NewNotewaveAPI(
		notewaveStore,
		notewaveCache,
		source,
		textAnalyzer,
		synthesizer,
		syncQueue,
		oauthConfigs,
		jwtSecret,
		serviceConfig,
		shutdownCtx,
	)
	if err != nil {
		log.Fatalf("Failed to create notewave api: %v", err)
	}

	mux := http.NewServeMux()
	notewaveAPI.RegisterRoutes(mux, os.Getenv("ALLOWED_ORIGIN"))

	hostPort := "8080"
	if p := os.Getenv("HOST_PORT"); p != "" {
		hostPort = p
	}
	log.Printf("Starting server on host port: %s\n", hostPort)
	log.Fatal(http.ListenAndServe(":"+hostPort, mux))
}
