// Package analysis provides investment analysis for symbols, combining
// quote-derived heuristics with an optional LLM-backed analyzer.
package analysis

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"virtual-trader/internal/models"
	"virtual-trader/internal/pricing"
)

// Trend represents the short-term price direction of a symbol.
type Trend string

const (
	TrendUp      Trend = "up"
	TrendDown    Trend = "down"
	TrendNeutral Trend = "neutral"
)

// Recommendation represents a suggested action.
type Recommendation string

const (
	RecommendBuy  Recommendation = "buy"
	RecommendSell Recommendation = "sell"
	RecommendHold Recommendation = "hold"
)

// RiskLevel grades the risk of acting on a recommendation.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// Timing describes a suggested entry or exit.
type Timing struct {
	Recommended  bool            `json:"recommended"`
	Price        decimal.Decimal `json:"price"`
	Reason       string          `json:"reason"`
	ExpectedGain float64         `json:"expectedGain"`
	RiskLevel    RiskLevel       `json:"riskLevel"`
}

// Analysis is the result of analyzing a symbol.
type Analysis struct {
	Symbol         string           `json:"symbol"`
	Name           string           `json:"name"`
	Type           models.AssetType `json:"type"`
	CurrentPrice   decimal.Decimal  `json:"currentPrice"`
	Trend          Trend            `json:"trend"`
	HotScore       float64          `json:"hotScore"`
	Recommendation Recommendation   `json:"recommendation"`
	Confidence     float64          `json:"confidence"`
	Sentiment      string           `json:"sentiment"`
	Summary        string           `json:"summary"`
	BuyTiming      *Timing          `json:"buyTiming,omitempty"`
	SellTiming     *Timing          `json:"sellTiming,omitempty"`
}

// Analyzer produces an Analysis for a symbol.
type Analyzer interface {
	Analyze(ctx context.Context, assetType models.AssetType, symbol string) (*Analysis, error)
	Name() string
}

// BasicAnalyzer derives an analysis from the latest quote alone.
// Trend is up above +2% daily change, down below -2%, else neutral.
type BasicAnalyzer struct {
	router *pricing.Router
}

// NewBasicAnalyzer creates a quote-driven analyzer.
func NewBasicAnalyzer(router *pricing.Router) *BasicAnalyzer {
	return &BasicAnalyzer{router: router}
}

// Name returns the analyzer name.
func (a *BasicAnalyzer) Name() string { return "basic" }

// Analyze builds an analysis from the symbol's current quote.
func (a *BasicAnalyzer) Analyze(ctx context.Context, assetType models.AssetType, symbol string) (*Analysis, error) {
	quote, err := a.router.Quote(ctx, assetType, symbol)
	if err != nil {
		return nil, err
	}
	result := FromQuote(quote)
	return &result, nil
}

// FromQuote derives a deterministic analysis from a quote.
func FromQuote(q models.Quote) Analysis {
	change, _ := q.ChangePercent.Float64()
	absChange := change
	if absChange < 0 {
		absChange = -absChange
	}

	trend := TrendNeutral
	switch {
	case change > 2:
		trend = TrendUp
	case change < -2:
		trend = TrendDown
	}

	hotScore := absChange * 10
	if hotScore > 100 {
		hotScore = 100
	}

	confidence := absChange * 10
	if confidence > 100 {
		confidence = 100
	}

	result := Analysis{
		Symbol:       q.Symbol,
		Name:         q.Name,
		Type:         q.Type,
		CurrentPrice: q.Price,
		Trend:        trend,
		HotScore:     hotScore,
		Confidence:   confidence,
	}

	switch trend {
	case TrendUp:
		result.Recommendation = RecommendBuy
		result.Sentiment = "positive"
		result.Summary = fmt.Sprintf("%s is up %.2f%% with rising momentum", q.Symbol, change)
		result.BuyTiming = &Timing{
			Recommended:  true,
			Price:        q.Price.Mul(decimal.NewFromFloat(0.98)),
			Reason:       "uptrend entry point",
			ExpectedGain: absChange * 1.5,
			RiskLevel:    RiskMedium,
		}
	case TrendDown:
		result.Recommendation = RecommendSell
		result.Sentiment = "negative"
		result.Summary = fmt.Sprintf("%s is down %.2f%% under selling pressure", q.Symbol, absChange)
		result.SellTiming = &Timing{
			Recommended:  true,
			Price:        q.Price.Mul(decimal.NewFromFloat(1.02)),
			Reason:       "downtrend exit point",
			ExpectedGain: absChange * 0.5,
			RiskLevel:    RiskHigh,
		}
	default:
		result.Recommendation = RecommendHold
		result.Sentiment = "neutral"
		result.Summary = fmt.Sprintf("%s is stable at %.2f%% change, no clear signal", q.Symbol, change)
	}

	return result
}
