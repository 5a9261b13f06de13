// Package gemini provides a client for the Google Gemini API
package gemini

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"github.com/bobmcallan/investsync/internal/common"
	"github.com/bobmcallan/investsync/internal/interfaces"
	"github.com/bobmcallan/investsync/internal/models"
)

const (
	DefaultModel      = "gemini-2.5-flash"
	DefaultMaxSources = 3
	DefaultRateLimit  = 5 // requests per second
)

// Client implements the AIClient interface
type Client struct {
	client     *genai.Client
	model      string
	maxSources int
	limiter    *rate.Limiter
	logger     *common.Logger
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithModel sets the model to use
func WithModel(model string) ClientOption {
	return func(c *Client) {
		if model != "" {
			c.model = model
		}
	}
}

// WithMaxSources sets how many grounding sources are attached to each trend
func WithMaxSources(n int) ClientOption {
	return func(c *Client) {
		if n > 0 {
			c.maxSources = n
		}
	}
}

// WithRateLimit sets the request rate limit in requests per second
func WithRateLimit(n int) ClientOption {
	return func(c *Client) {
		if n > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(n), n)
		}
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a new Gemini client
func NewClient(ctx context.Context, apiKey string, opts ...ClientOption) (*Client, error) {
	genaiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	c := &Client{
		client:     genaiClient,
		model:      DefaultModel,
		maxSources: DefaultMaxSources,
		limiter:    rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		logger:     common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Close closes the client
func (c *Client) Close() error {
	// The genai client doesn't have a Close method
	return nil
}

// ExtractHoldings sends a portfolio screenshot to the model and parses the
// returned JSON array of holdings. Errors propagate to the caller.
func (c *Client) ExtractHoldings(ctx context.Context, image []byte, mimeType string) ([]models.HoldingDraft, error) {
	if mimeType == "" {
		mimeType = "image/png"
	}

	c.logger.Debug().Str("model", c.model).Int("bytes", len(image)).Msg("Extracting holdings from screenshot")

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	prompt := `Analyze this investment screenshot. Extract the list of stock holdings.
For each holding, identify the Stock Name, Stock Symbol (if visible, otherwise guess based on name),
Quantity (number of shares), and Profit/Loss amount.
If exact quantity isn't visible, estimate or leave as 0.
Return ONLY a JSON array.`

	parts := []*genai.Part{
		genai.NewPartFromBytes(image, mimeType),
		genai.NewPartFromText(prompt),
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema: &genai.Schema{
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"name":         {Type: genai.TypeString},
					"symbol":       {Type: genai.TypeString},
					"quantity":     {Type: genai.TypeNumber},
					"profit":       {Type: genai.TypeNumber},
					"currentPrice": {Type: genai.TypeNumber, Description: "Current price if visible, else 0"},
				},
				Required: []string{"name", "profit"},
			},
		},
	}

	result, err := c.client.Models.GenerateContent(ctx, c.model, contents, config)
	if err != nil {
		return nil, fmt.Errorf("failed to extract holdings: %w", err)
	}

	text, err := extractTextFromResponse(result)
	if err != nil {
		return nil, err
	}

	return parseHoldings(text)
}

// AnalyzeTrends asks the model for per-asset sentiment with live web-search
// grounding. Response schemas are not supported alongside the googleSearch
// tool, so the reply is free-form text cleaned before JSON parsing.
func (c *Client) AnalyzeTrends(ctx context.Context, assets []string) ([]models.MarketTrend, error) {
	if len(assets) == 0 {
		return []models.MarketTrend{}, nil
	}

	c.logger.Debug().Str("model", c.model).Int("assets", len(assets)).Msg("Analyzing market trends")

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	prompt := fmt.Sprintf(`Search for the latest financial news and market sentiment for the following assets: %s.
For each asset, provide a brief summary of the latest news and judge the trend (bullish/bearish/neutral).

Return a raw JSON array (do not include markdown text outside the JSON) where each object has:
- "symbol": string
- "sentiment": "bullish" | "bearish" | "neutral"
- "summary": string
`, strings.Join(assets, ", "))

	config := &genai.GenerateContentConfig{
		Tools: []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}},
	}

	result, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), config)
	if err != nil {
		return nil, fmt.Errorf("failed to analyze trends: %w", err)
	}

	text, err := extractTextFromResponse(result)
	if err != nil {
		return nil, err
	}

	return parseTrends(text, extractSources(result, c.maxSources), time.Now())
}

// extractTextFromResponse extracts text from a generate content response
func extractTextFromResponse(result *genai.GenerateContentResponse) (string, error) {
	if len(result.Candidates) == 0 || result.Candidates[0].Content == nil || len(result.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no content generated")
	}

	text := ""
	for _, part := range result.Candidates[0].Content.Parts {
		if part.Text != "" {
			text += part.Text
		}
	}

	return text, nil
}

// extractSources pulls up to limit web sources from grounding metadata.
func extractSources(result *genai.GenerateContentResponse, limit int) []models.TrendSource {
	var sources []models.TrendSource
	if len(result.Candidates) == 0 || result.Candidates[0].GroundingMetadata == nil {
		return sources
	}
	for _, chunk := range result.Candidates[0].GroundingMetadata.GroundingChunks {
		if chunk.Web == nil || chunk.Web.URI == "" || chunk.Web.Title == "" {
			continue
		}
		sources = append(sources, models.TrendSource{Title: chunk.Web.Title, URI: chunk.Web.URI})
		if len(sources) >= limit {
			break
		}
	}
	return sources
}

// Ensure Client implements AIClient
var _ interfaces.AIClient = (*Client)(nil)
