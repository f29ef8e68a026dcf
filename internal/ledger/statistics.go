package ledger

import (
	"github.com/shopspring/decimal"

	"virtual-trader/internal/models"
)

// computeStatistics derives realized-performance statistics from a trade
// history. It is a pure function: statistics are never cached on the
// ledger, they are recomputed on every snapshot.
func computeStatistics(trades []models.Trade) models.Statistics {
	stats := models.Statistics{
		TotalTrades:   len(trades),
		WinRate:       decimal.Zero,
		AverageProfit: decimal.Zero,
	}

	sellCount := 0
	profitSum := decimal.Zero
	var best, worst *models.Trade

	for i := range trades {
		t := trades[i]
		profit, ok := t.RealizedProfit()
		if !ok {
			continue
		}
		sellCount++
		profitSum = profitSum.Add(profit)

		if profit.IsPositive() {
			stats.WinningTrades++
		} else if profit.IsNegative() {
			stats.LosingTrades++
		}

		if best == nil || profit.GreaterThan(*best.Profit) {
			c := trades[i]
			best = &c
		}
		if worst == nil || profit.LessThan(*worst.Profit) {
			c := trades[i]
			worst = &c
		}
	}

	decided := stats.WinningTrades + stats.LosingTrades
	if decided > 0 {
		stats.WinRate = decimal.NewFromInt(int64(stats.WinningTrades)).
			Div(decimal.NewFromInt(int64(decided))).
			Mul(hundred)
	}
	if sellCount > 0 {
		stats.AverageProfit = profitSum.Div(decimal.NewFromInt(int64(sellCount)))
	}
	stats.BestTrade = best
	stats.WorstTrade = worst
	return stats
}
