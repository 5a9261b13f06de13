package interfaces

import (
	"context"

	"github.com/bobmcallan/investsync/internal/models"
)

// AIClient is the boundary to the external generative model. The model does
// the actual extraction and analysis work; implementations only shape prompts
// and reshape JSON replies.
type AIClient interface {
	// ExtractHoldings sends a portfolio screenshot to the model and parses
	// the returned JSON array into holding drafts. Errors propagate.
	ExtractHoldings(ctx context.Context, image []byte, mimeType string) ([]models.HoldingDraft, error)

	// AnalyzeTrends asks the model, with web-search grounding enabled, for a
	// per-asset sentiment/summary array. Assets are display labels such as
	// "Apple Inc (AAPL)". Grounding sources and timestamps are attached to
	// every returned trend.
	AnalyzeTrends(ctx context.Context, assets []string) ([]models.MarketTrend, error)
}
