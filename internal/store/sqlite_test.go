package store

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"virtual-trader/internal/models"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "trades.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func d(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

func buyAt(id, accountID, symbol string, at time.Time) models.Trade {
	return models.NewBuyTrade(id, accountID, symbol, symbol, models.AssetStock,
		d(10), d(100), d(1), at)
}

func TestLogAndListTrades(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)

	trades := []models.Trade{
		buyAt("t1", "account-alice", "AAPL", base),
		models.NewSellTrade("t2", "account-alice", "AAPL", "AAPL", models.AssetStock,
			d(5), d(120), d(0.5), d(100), d(20), base.Add(time.Hour)),
		buyAt("t3", "account-alice", "bitcoin", base.Add(2*time.Hour)),
	}
	for i := range trades {
		if err := s.LogTrade(ctx, &trades[i]); err != nil {
			t.Fatalf("log trade %s: %v", trades[i].ID, err)
		}
	}

	got, err := s.ListTrades(ctx, TradeFilter{AccountID: "account-alice"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d trades, want 3", len(got))
	}
	// Execution order: oldest first.
	if got[0].ID != "t1" || got[1].ID != "t2" || got[2].ID != "t3" {
		t.Errorf("order = %s, %s, %s; want t1, t2, t3", got[0].ID, got[1].ID, got[2].ID)
	}

	sell := got[1]
	if sell.Action != models.ActionSell {
		t.Errorf("action = %s, want sell", sell.Action)
	}
	profit, ok := sell.RealizedProfit()
	if !ok {
		t.Fatal("sell trade lost its profit through the store")
	}
	if !profit.Equal(d(100)) {
		t.Errorf("profit = %s, want 100", profit)
	}
	if !sell.ProfitPercent.Equal(d(20)) {
		t.Errorf("profit percent = %s, want 20", sell.ProfitPercent)
	}

	buy := got[0]
	if buy.Profit != nil || buy.ProfitPercent != nil {
		t.Error("buy trade must not grow profit columns")
	}
	if !buy.Quantity.Equal(d(10)) || !buy.Price.Equal(d(100)) || !buy.Fee.Equal(d(1)) {
		t.Errorf("buy round trip mangled: qty=%s price=%s fee=%s", buy.Quantity, buy.Price, buy.Fee)
	}
}

func TestListTradesFilters(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	seed := []models.Trade{
		buyAt("a1", "account-alice", "AAPL", base),
		buyAt("a2", "account-alice", "MSFT", base.Add(24*time.Hour)),
		models.NewSellTrade("a3", "account-alice", "AAPL", "AAPL", models.AssetStock,
			d(1), d(110), decimal.Zero, d(10), d(10), base.Add(48*time.Hour)),
		buyAt("b1", "account-bob", "AAPL", base),
	}
	for i := range seed {
		if err := s.LogTrade(ctx, &seed[i]); err != nil {
			t.Fatalf("log: %v", err)
		}
	}

	cases := []struct {
		name   string
		filter TradeFilter
		want   []string
	}{
		{"by account", TradeFilter{AccountID: "account-bob"}, []string{"b1"}},
		{"by symbol", TradeFilter{AccountID: "account-alice", Symbol: "AAPL"}, []string{"a1", "a3"}},
		{"by action", TradeFilter{AccountID: "account-alice", Action: "sell"}, []string{"a3"}},
		{"by start date", TradeFilter{AccountID: "account-alice", StartDate: base.Add(12 * time.Hour)}, []string{"a2", "a3"}},
		{"by end date", TradeFilter{AccountID: "account-alice", EndDate: base.Add(36 * time.Hour)}, []string{"a1", "a2"}},
		{"with limit", TradeFilter{AccountID: "account-alice", Limit: 2}, []string{"a1", "a2"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := s.ListTrades(ctx, tc.filter)
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			if len(got) != len(tc.want) {
				t.Fatalf("got %d trades, want %d", len(got), len(tc.want))
			}
			for i, id := range tc.want {
				if got[i].ID != id {
					t.Errorf("trade %d = %s, want %s", i, got[i].ID, id)
				}
			}
		})
	}
}

func TestDeleteTrades(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Now()

	alice := buyAt("a1", "account-alice", "AAPL", now)
	bob := buyAt("b1", "account-bob", "AAPL", now)
	for _, tr := range []*models.Trade{&alice, &bob} {
		if err := s.LogTrade(ctx, tr); err != nil {
			t.Fatalf("log: %v", err)
		}
	}

	if err := s.DeleteTrades(ctx, "account-alice"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	got, err := s.ListTrades(ctx, TradeFilter{AccountID: "account-alice"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("alice still has %d trades after delete", len(got))
	}

	got, err = s.ListTrades(ctx, TradeFilter{AccountID: "account-bob"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("bob's trades were deleted too")
	}
}

func TestAccountIDs(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Now()

	for i, acc := range []string{"account-alice", "account-bob", "account-alice"} {
		tr := buyAt(string(rune('a'+i)), acc, "AAPL", now)
		if err := s.LogTrade(ctx, &tr); err != nil {
			t.Fatalf("log: %v", err)
		}
	}

	ids, err := s.AccountIDs(ctx)
	if err != nil {
		t.Fatalf("account ids: %v", err)
	}
	if len(ids) != 2 {
		t.Errorf("got %d account ids, want 2: %v", len(ids), ids)
	}
}

func TestExportTradesCSV(t *testing.T) {
	now := time.Date(2026, 8, 1, 10, 30, 0, 0, time.UTC)
	trades := []models.Trade{
		buyAt("t1", "account-alice", "AAPL", now),
		models.NewSellTrade("t2", "account-alice", "AAPL", "AAPL", models.AssetStock,
			d(5), d(120), decimal.Zero, d(100), d(20), now.Add(time.Hour)),
	}

	path := filepath.Join(t.TempDir(), "trades.csv")
	if err := ExportTradesCSV(path, trades); err != nil {
		t.Fatalf("export: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want header plus 2 rows", len(lines))
	}
	if !strings.Contains(lines[1], "t1") || !strings.Contains(lines[1], "AAPL") || !strings.Contains(lines[1], "buy") {
		t.Errorf("buy row malformed: %s", lines[1])
	}
	if !strings.Contains(lines[2], "t2") || !strings.Contains(lines[2], "sell") || !strings.Contains(lines[2], "100") {
		t.Errorf("sell row malformed: %s", lines[2])
	}
}
