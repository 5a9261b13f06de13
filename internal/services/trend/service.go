// Package trend orchestrates the AI adapter for screenshot extraction and
// market sentiment analysis.
package trend

import (
	"context"
	"fmt"

	"github.com/bobmcallan/investsync/internal/common"
	"github.com/bobmcallan/investsync/internal/interfaces"
	"github.com/bobmcallan/investsync/internal/models"
)

// Service implements interfaces.TrendService.
type Service struct {
	ai     interfaces.AIClient
	logger *common.Logger
}

func NewService(ai interfaces.AIClient, logger *common.Logger) *Service {
	return &Service{
		ai:     ai,
		logger: logger,
	}
}

// ExtractFromImage runs screenshot extraction and stamps import defaults on
// drafts with missing identity fields. Extraction failures propagate so the
// client can retry with a better screenshot.
func (s *Service) ExtractFromImage(ctx context.Context, image []byte, mimeType string) ([]models.HoldingDraft, error) {
	if len(image) == 0 {
		return nil, fmt.Errorf("image is required: %w", models.ErrValidation)
	}

	drafts, err := s.ai.ExtractHoldings(ctx, image, mimeType)
	if err != nil {
		return nil, err
	}

	for i := range drafts {
		if drafts[i].Symbol == "" {
			drafts[i].Symbol = models.DefaultHoldingSymbol
		}
		if drafts[i].Name == "" {
			drafts[i].Name = models.DefaultHoldingName
		}
		if drafts[i].Notes == "" {
			drafts[i].Notes = models.ImportedHoldingNotes
		}
	}

	s.logger.Info().Int("count", len(drafts)).Msg("Holdings extracted from screenshot")
	return drafts, nil
}

// MarketTrends analyzes sentiment for the distinct assets in the holdings.
// Analysis failures degrade to an empty list, never an error, so a flaky
// upstream cannot break the dashboard.
func (s *Service) MarketTrends(ctx context.Context, holdings []*models.Holding) ([]models.MarketTrend, error) {
	assets := assetLabels(holdings)
	if len(assets) == 0 {
		return []models.MarketTrend{}, nil
	}

	trends, err := s.ai.AnalyzeTrends(ctx, assets)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Trend analysis failed, returning empty result")
		return []models.MarketTrend{}, nil
	}
	return trends, nil
}

// assetLabels builds "Name (SYMBOL)" labels for the distinct assets, keyed by
// name and symbol, preserving first-seen order. The parenthetical is omitted
// when a holding has no symbol.
func assetLabels(holdings []*models.Holding) []string {
	seen := make(map[string]bool, len(holdings))
	var labels []string
	for _, h := range holdings {
		key := h.Name + "|" + h.Symbol
		if seen[key] {
			continue
		}
		seen[key] = true

		label := h.Name
		if h.Symbol != "" {
			label += " (" + h.Symbol + ")"
		}
		labels = append(labels, label)
	}
	return labels
}

// Ensure Service implements TrendService
var _ interfaces.TrendService = (*Service)(nil)
