package service

import (
	"context"
	"errors"
	"log"
	"time"
)

// AnalyzePage runs the text analyzer over the page's rendered plain text,
// stores the result on the page row, and invalidates its cache entries.
func (s *Service) AnalyzePage(ctx context.Context, externalId string, ownerId string) (string, error) {
	page, err := s.GetPage(ctx, externalId, ownerId)
	if err != nil {
		return "", err
	}
	if page.PlainText == "" {
		return "", errors.New("page has no rendered text; sync it first")
	}

	analysisText, err := s.Analyzer.Analyze(ctx, page.PlainText, s.Config.AnalysisPrompt)
	if err != nil {
		return "", err
	}

	page.AnalysisText = analysisText
	page.AnalyzedAt = time.Now().Unix()

	if err := s.Store.UpsertPage(ctx, page); err != nil {
		return "", err
	}

	if err := s.Cache.Delete(ctx, pageDetailKey(externalId), pageListKey(ownerId)); err != nil {
		log.Printf("Cache invalidation failed for page %s: %v", externalId, err)
	}

	return analysisText, nil
}

// NarratePage synthesizes audio for the page, preferring the analysis text
// and falling back to the raw plain text. Audio is returned to the caller,
// never stored.
func (s *Service) NarratePage(ctx context.Context, externalId string, ownerId string) ([]byte, error) {
	page, err := s.GetPage(ctx, externalId, ownerId)
	if err != nil {
		return nil, err
	}

	text := page.AnalysisText
	if text == "" {
		text = page.PlainText
	}
	if text == "" {
		return nil, errors.New("page has no text to narrate; sync it first")
	}

	return s.Speech.Synthesize(ctx, text)
}
