package pricing

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"virtual-trader/internal/models"
)

func hotQuote(symbol string, changePercent float64, volume int64) models.Quote {
	price := decimal.NewFromInt(100)
	return models.Quote{
		Symbol:        symbol,
		Name:          symbol,
		Type:          models.AssetStock,
		Price:         price,
		ChangePercent: decimal.NewFromFloat(changePercent),
		Volume:        volume,
	}
}

func TestHotListRanksByScore(t *testing.T) {
	src := NewStaticSource(models.AssetStock)
	src.SetQuote(hotQuote("FLAT", 0.1, 1000))
	src.SetQuote(hotQuote("MOVER", 8.5, 1000))
	src.SetQuote(hotQuote("DIPPER", -6.0, 1000))

	hot, err := HotList(context.Background(), src, []string{"FLAT", "MOVER", "DIPPER"}, 0)
	if err != nil {
		t.Fatalf("hot list: %v", err)
	}
	if len(hot) != 3 {
		t.Fatalf("got %d entries, want 3", len(hot))
	}
	if hot[0].Symbol != "MOVER" || hot[1].Symbol != "DIPPER" || hot[2].Symbol != "FLAT" {
		t.Errorf("ranking = %s, %s, %s; want MOVER, DIPPER, FLAT",
			hot[0].Symbol, hot[1].Symbol, hot[2].Symbol)
	}
	if hot[0].HotScore <= hot[1].HotScore || hot[1].HotScore <= hot[2].HotScore {
		t.Error("hot scores not strictly descending")
	}
}

func TestHotListSkipsFailedSymbols(t *testing.T) {
	src := NewStaticSource(models.AssetStock)
	src.SetQuote(hotQuote("AAPL", 1.0, 1000))

	hot, err := HotList(context.Background(), src, []string{"AAPL", "MISSING"}, 0)
	if err != nil {
		t.Fatalf("hot list: %v", err)
	}
	if len(hot) != 1 || hot[0].Symbol != "AAPL" {
		t.Fatalf("expected only AAPL, got %v", hot)
	}
}

func TestHotListAllFailed(t *testing.T) {
	src := NewStaticSource(models.AssetStock)
	if _, err := HotList(context.Background(), src, []string{"A", "B"}, 0); err == nil {
		t.Fatal("expected error when every lookup fails")
	}
}

func TestHotListLimit(t *testing.T) {
	src := NewStaticSource(models.AssetStock)
	for _, s := range []string{"A", "B", "C", "D"} {
		src.SetQuote(hotQuote(s, 1.0, 1000))
	}
	hot, err := HotList(context.Background(), src, []string{"A", "B", "C", "D"}, 2)
	if err != nil {
		t.Fatalf("hot list: %v", err)
	}
	if len(hot) != 2 {
		t.Errorf("got %d entries, want 2", len(hot))
	}
}

func TestHotScoreVolumeFloor(t *testing.T) {
	// Zero volume must not blow up the log term.
	score := HotScore(hotQuote("X", 1.0, 0))
	if score != 0.7 {
		t.Errorf("score = %f, want 0.7 (log10(1) contributes nothing)", score)
	}
}
