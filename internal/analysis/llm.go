package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"

	"virtual-trader/internal/models"
	"virtual-trader/internal/pricing"
)

const analysisSystemPrompt = `You are an investment analyst. You receive a quote for a stock or
cryptocurrency and respond with a JSON object only, no prose, matching:
{
  "trend": "up" | "down" | "neutral",
  "hotScore": 0-100,
  "recommendation": "buy" | "sell" | "hold",
  "confidence": 0-100,
  "sentiment": "positive" | "negative" | "neutral",
  "summary": "one or two sentences"
}`

// LLMAnalyzer asks an OpenAI model for an analysis and falls back
// to the quote-derived heuristics when the model is unavailable or
// returns something unusable.
type LLMAnalyzer struct {
	client *openai.Client
	model  string
	router *pricing.Router
	logger zerolog.Logger
}

// NewLLMAnalyzer creates an LLM-backed analyzer.
func NewLLMAnalyzer(apiKey, model string, router *pricing.Router, logger zerolog.Logger) *LLMAnalyzer {
	return &LLMAnalyzer{
		client: openai.NewClient(apiKey),
		model:  model,
		router: router,
		logger: logger,
	}
}

// Name returns the analyzer name.
func (a *LLMAnalyzer) Name() string { return "llm" }

// llmVerdict is the JSON shape the model is asked to produce.
type llmVerdict struct {
	Trend          Trend          `json:"trend"`
	HotScore       float64        `json:"hotScore"`
	Recommendation Recommendation `json:"recommendation"`
	Confidence     float64        `json:"confidence"`
	Sentiment      string         `json:"sentiment"`
	Summary        string         `json:"summary"`
}

// Analyze fetches the quote, asks the model, and merges the verdict.
func (a *LLMAnalyzer) Analyze(ctx context.Context, assetType models.AssetType, symbol string) (*Analysis, error) {
	quote, err := a.router.Quote(ctx, assetType, symbol)
	if err != nil {
		return nil, err
	}

	verdict, err := a.askModel(ctx, quote)
	if err != nil {
		a.logger.Warn().Err(err).Str("symbol", symbol).Msg("LLM analysis failed, using basic analysis")
		result := FromQuote(quote)
		return &result, nil
	}

	result := FromQuote(quote)
	result.Trend = verdict.Trend
	result.HotScore = verdict.HotScore
	result.Recommendation = verdict.Recommendation
	result.Confidence = verdict.Confidence
	result.Sentiment = verdict.Sentiment
	result.Summary = verdict.Summary
	return &result, nil
}

func (a *LLMAnalyzer) askModel(ctx context.Context, quote models.Quote) (*llmVerdict, error) {
	userPrompt := fmt.Sprintf(
		"Analyze %s (%s, %s).\nPrice: %s\nChange: %s%%\nVolume: %d\nDay high: %s\nDay low: %s",
		quote.Symbol, quote.Name, quote.Type,
		quote.Price, quote.ChangePercent.StringFixed(2), quote.Volume, quote.High, quote.Low)

	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: a.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: analysisSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("openai completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from openai")
	}

	content := resp.Choices[0].Message.Content
	payload := extractJSON(content)
	if payload == "" {
		return nil, fmt.Errorf("no JSON object in model response")
	}

	var verdict llmVerdict
	if err := json.Unmarshal([]byte(payload), &verdict); err != nil {
		return nil, fmt.Errorf("failed to parse model response: %w", err)
	}
	if verdict.Trend == "" || verdict.Recommendation == "" {
		return nil, fmt.Errorf("incomplete model response")
	}
	return &verdict, nil
}

// extractJSON pulls the outermost JSON object out of a model reply,
// tolerating prose or markdown fences around it.
func extractJSON(s string) string {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return ""
	}
	return s[start : end+1]
}
