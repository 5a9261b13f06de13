package gemini

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/bobmcallan/investsync/internal/models"
)

// cleanJSONBlock strips Markdown code fences the model sometimes wraps around
// JSON replies, returning the inner payload.
func cleanJSONBlock(s string) string {
	s = strings.TrimSpace(s)

	start := strings.Index(s, "```")
	if start < 0 {
		return s
	}

	inner := s[start+3:]
	// Drop an optional language tag on the fence line.
	if nl := strings.IndexByte(inner, '\n'); nl >= 0 {
		lang := strings.TrimSpace(inner[:nl])
		if lang == "" || lang == "json" {
			inner = inner[nl+1:]
		}
	}

	if end := strings.Index(inner, "```"); end >= 0 {
		inner = inner[:end]
	}
	return strings.TrimSpace(inner)
}

// parseHoldings decodes the model's extraction reply into holding drafts.
// A shape mismatch is a parse error; no validation beyond JSON decoding.
func parseHoldings(text string) ([]models.HoldingDraft, error) {
	var items []struct {
		Name         string  `json:"name"`
		Symbol       string  `json:"symbol"`
		Quantity     float64 `json:"quantity"`
		Profit       float64 `json:"profit"`
		CurrentPrice float64 `json:"currentPrice"`
	}
	if err := json.Unmarshal([]byte(cleanJSONBlock(text)), &items); err != nil {
		return nil, fmt.Errorf("failed to parse extracted holdings: %w", err)
	}

	drafts := make([]models.HoldingDraft, 0, len(items))
	for _, item := range items {
		drafts = append(drafts, models.HoldingDraft{
			Name:         item.Name,
			Symbol:       item.Symbol,
			Quantity:     item.Quantity,
			Profit:       item.Profit,
			CurrentPrice: item.CurrentPrice,
		})
	}
	return drafts, nil
}

// parseTrends decodes the model's trend reply and attaches the grounding
// sources and timestamp uniformly to every trend. Per-asset sourcing is not
// available from a single grounded call.
func parseTrends(text string, sources []models.TrendSource, now time.Time) ([]models.MarketTrend, error) {
	var items []struct {
		Symbol    string `json:"symbol"`
		Sentiment string `json:"sentiment"`
		Summary   string `json:"summary"`
	}
	if err := json.Unmarshal([]byte(cleanJSONBlock(text)), &items); err != nil {
		return nil, fmt.Errorf("failed to parse market trends: %w", err)
	}

	trends := make([]models.MarketTrend, 0, len(items))
	for _, item := range items {
		trends = append(trends, models.MarketTrend{
			Symbol:    item.Symbol,
			Sentiment: item.Sentiment,
			Summary:   item.Summary,
			Sources:   sources,
			Timestamp: now,
		})
	}
	return trends, nil
}
