package models

import "time"

// Sentiment values returned by trend analysis.
const (
	SentimentBullish = "bullish"
	SentimentBearish = "bearish"
	SentimentNeutral = "neutral"
)

// TrendSource is a web source backing a trend summary.
type TrendSource struct {
	Title string `json:"title"`
	URI   string `json:"uri"`
}

// MarketTrend is an ephemeral per-asset sentiment summary produced by the AI
// adapter. It is never persisted; every call produces fresh results.
type MarketTrend struct {
	Symbol    string        `json:"symbol"`
	Sentiment string        `json:"sentiment"`
	Summary   string        `json:"summary"`
	Sources   []TrendSource `json:"sources"`
	Timestamp time.Time     `json:"timestamp"`
}
