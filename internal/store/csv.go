package store

import (
	"fmt"
	"os"

	"github.com/gocarina/gocsv"

	"virtual-trader/internal/models"
)

// tradeRow is the flattened CSV representation of a trade.
type tradeRow struct {
	ID            string `csv:"id"`
	AccountID     string `csv:"account_id"`
	Symbol        string `csv:"symbol"`
	Name          string `csv:"name"`
	Type          string `csv:"type"`
	Action        string `csv:"action"`
	Quantity      string `csv:"quantity"`
	Price         string `csv:"price"`
	TotalAmount   string `csv:"total_amount"`
	Fee           string `csv:"fee"`
	Profit        string `csv:"profit"`
	ProfitPercent string `csv:"profit_percent"`
	Timestamp     string `csv:"timestamp"`
}

// ExportTradesCSV writes trades to a CSV file at the given path.
func ExportTradesCSV(path string, trades []models.Trade) error {
	rows := make([]tradeRow, 0, len(trades))
	for _, t := range trades {
		row := tradeRow{
			ID:          t.ID,
			AccountID:   t.AccountID,
			Symbol:      t.Symbol,
			Name:        t.Name,
			Type:        string(t.Type),
			Action:      string(t.Action),
			Quantity:    t.Quantity.String(),
			Price:       t.Price.String(),
			TotalAmount: t.TotalAmount.String(),
			Fee:         t.Fee.String(),
			Timestamp:   t.Timestamp.Format("2006-01-02 15:04:05"),
		}
		if t.Profit != nil {
			row.Profit = t.Profit.String()
		}
		if t.ProfitPercent != nil {
			row.ProfitPercent = t.ProfitPercent.String()
		}
		rows = append(rows, row)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	defer file.Close()

	if err := gocsv.MarshalFile(&rows, file); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return nil
}
