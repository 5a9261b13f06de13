package trend

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/investsync/internal/common"
	"github.com/bobmcallan/investsync/internal/models"
)

// stubAIClient records the assets it was asked about and returns canned data.
type stubAIClient struct {
	drafts     []models.HoldingDraft
	trends     []models.MarketTrend
	extractErr error
	trendsErr  error
	gotAssets  []string
}

func (s *stubAIClient) ExtractHoldings(ctx context.Context, image []byte, mimeType string) ([]models.HoldingDraft, error) {
	return s.drafts, s.extractErr
}

func (s *stubAIClient) AnalyzeTrends(ctx context.Context, assets []string) ([]models.MarketTrend, error) {
	s.gotAssets = assets
	return s.trends, s.trendsErr
}

func newTestService(stub *stubAIClient) *Service {
	return NewService(stub, common.NewSilentLogger())
}

func TestExtractFromImage_StampsDefaults(t *testing.T) {
	stub := &stubAIClient{drafts: []models.HoldingDraft{
		{Name: "Apple Inc", Symbol: "AAPL", Profit: 100, Notes: "seen on screen"},
		{Profit: -20},
	}}
	svc := newTestService(stub)

	drafts, err := svc.ExtractFromImage(context.Background(), []byte{0x89, 0x50}, "image/png")
	require.NoError(t, err)
	require.Len(t, drafts, 2)

	assert.Equal(t, "AAPL", drafts[0].Symbol)
	assert.Equal(t, "seen on screen", drafts[0].Notes)

	assert.Equal(t, models.DefaultHoldingSymbol, drafts[1].Symbol)
	assert.Equal(t, models.DefaultHoldingName, drafts[1].Name)
	assert.Equal(t, models.ImportedHoldingNotes, drafts[1].Notes)
}

func TestExtractFromImage_ErrorsPropagate(t *testing.T) {
	stub := &stubAIClient{extractErr: errors.New("model unavailable")}
	svc := newTestService(stub)

	_, err := svc.ExtractFromImage(context.Background(), []byte{0x01}, "image/png")
	assert.Error(t, err)
}

func TestExtractFromImage_EmptyImage(t *testing.T) {
	svc := newTestService(&stubAIClient{})
	_, err := svc.ExtractFromImage(context.Background(), nil, "image/png")
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestMarketTrends_DeduplicatesAssets(t *testing.T) {
	stub := &stubAIClient{trends: []models.MarketTrend{
		{Symbol: "AAPL", Sentiment: models.SentimentBullish, Summary: "up", Timestamp: time.Now()},
	}}
	svc := newTestService(stub)

	holdings := []*models.Holding{
		{Name: "Apple Inc", Symbol: "AAPL"},
		{Name: "Apple Inc", Symbol: "AAPL"},
		{Name: "Tesla", Symbol: "TSLA"},
	}

	trends, err := svc.MarketTrends(context.Background(), holdings)
	require.NoError(t, err)
	assert.Len(t, trends, 1)
	assert.Equal(t, []string{"Apple Inc (AAPL)", "Tesla (TSLA)"}, stub.gotAssets)
}

func TestMarketTrends_LabelWithoutSymbol(t *testing.T) {
	stub := &stubAIClient{}
	svc := newTestService(stub)

	_, err := svc.MarketTrends(context.Background(), []*models.Holding{
		{Name: "Mystery Fund"},
		{Name: "Tesla", Symbol: "TSLA"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Mystery Fund", "Tesla (TSLA)"}, stub.gotAssets)
}

func TestMarketTrends_EmptyHoldings(t *testing.T) {
	stub := &stubAIClient{}
	svc := newTestService(stub)

	trends, err := svc.MarketTrends(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, trends)
	assert.Nil(t, stub.gotAssets, "no upstream call for an empty portfolio")
}

func TestMarketTrends_SwallowsUpstreamErrors(t *testing.T) {
	stub := &stubAIClient{trendsErr: errors.New("search grounding failed")}
	svc := newTestService(stub)

	trends, err := svc.MarketTrends(context.Background(), []*models.Holding{{Name: "Tesla", Symbol: "TSLA"}})
	require.NoError(t, err, "trend failures degrade to an empty result")
	assert.Empty(t, trends)
	assert.NotNil(t, trends)
}
