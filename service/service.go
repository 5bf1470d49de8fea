package service

import (
	"time"

	"golang.org/x/oauth2"

	"github.com/dkoval/notewave/analyzer"
	"github.com/dkoval/notewave/cache"
	"github.com/dkoval/notewave/mq"
	"github.com/dkoval/notewave/notion"
	"github.com/dkoval/notewave/speech"
	"github.com/dkoval/notewave/store"
)

// Config carries the tunables of the sync pipeline. Zero values are replaced
// with defaults by NewService.
type Config struct {
	// NotionDatabaseId is the collection queried by bulk sync. Bulk sync
	// fails fast when it is empty; single-page sync does not need it.
	NotionDatabaseId string

	// MaxFetchDepth bounds the block tree at this many levels below the
	// page root.
	MaxFetchDepth int

	AnalysisPrompt string

	ListCacheTTL   time.Duration
	DetailCacheTTL time.Duration
}

const (
	defaultMaxFetchDepth  = 3
	defaultListCacheTTL   = 1 * time.Hour
	defaultDetailCacheTTL = 24 * time.Hour
	defaultAnalysisPrompt = "Summarize the following document in a few short paragraphs, " +
		"keeping the original structure recognizable:"
)

type Service struct {
	Store        store.NotewaveStore
	Cache        cache.NotewaveCache
	Source       notion.Source
	Analyzer     analyzer.TextAnalyzer
	Speech       speech.Synthesizer
	MQ           mq.MessageQueue
	OAuthConfigs map[string]*oauth2.Config
	JWTSecret    []byte
	Config       Config
}

func NewService(
	notewaveStore store.NotewaveStore,
	notewaveCache cache.NotewaveCache,
	source notion.Source,
	textAnalyzer analyzer.TextAnalyzer,
	synthesizer speech.Synthesizer,
	syncQueue mq.MessageQueue,
	oauthConfigs map[string]*oauth2.Config,
	jwtSecret []byte,
	config Config,
) (*Service, error) {
	oauthConfigs, err := addOauthEndpointsAndScopes(oauthConfigs)
	if err != nil {
		return nil, err
	}

	if config.MaxFetchDepth <= 0 {
		config.MaxFetchDepth = defaultMaxFetchDepth
	}
	if config.ListCacheTTL <= 0 {
		config.ListCacheTTL = defaultListCacheTTL
	}
	if config.DetailCacheTTL <= 0 {
		config.DetailCacheTTL = defaultDetailCacheTTL
	}
	if config.AnalysisPrompt == "" {
		config.AnalysisPrompt = defaultAnalysisPrompt
	}

	return &Service{
		Store:        notewaveStore,
		Cache:        notewaveCache,
		Source:       source,
		Analyzer:     textAnalyzer,
		Speech:       synthesizer,
		MQ:           syncQueue,
		OAuthConfigs: oauthConfigs,
		JWTSecret:    jwtSecret,
		Config:       config,
	}, nil
}
