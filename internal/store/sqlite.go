package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"virtual-trader/internal/models"
)

// SQLiteStore implements TradeStore using SQLite.
//
// Monetary columns are stored as TEXT so decimal values round-trip
// exactly; REAL columns would reintroduce binary-float drift.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite-based trade journal.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS trades (
		id TEXT PRIMARY KEY,
		account_id TEXT NOT NULL,
		symbol TEXT NOT NULL,
		name TEXT NOT NULL,
		asset_type TEXT NOT NULL,
		action TEXT NOT NULL,
		quantity TEXT NOT NULL,
		price TEXT NOT NULL,
		total_amount TEXT NOT NULL,
		fee TEXT NOT NULL,
		profit TEXT,
		profit_percent TEXT,
		timestamp DATETIME NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_trades_account ON trades(account_id);
	CREATE INDEX IF NOT EXISTS idx_trades_symbol ON trades(symbol);
	CREATE INDEX IF NOT EXISTS idx_trades_timestamp ON trades(timestamp);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// LogTrade appends a trade to the journal.
func (s *SQLiteStore) LogTrade(ctx context.Context, trade *models.Trade) error {
	var profit, profitPercent sql.NullString
	if trade.Profit != nil {
		profit = sql.NullString{String: trade.Profit.String(), Valid: true}
	}
	if trade.ProfitPercent != nil {
		profitPercent = sql.NullString{String: trade.ProfitPercent.String(), Valid: true}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO trades (id, account_id, symbol, name, asset_type, action, quantity, price, total_amount, fee, profit, profit_percent, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, trade.ID, trade.AccountID, trade.Symbol, trade.Name, trade.Type, trade.Action,
		trade.Quantity.String(), trade.Price.String(), trade.TotalAmount.String(), trade.Fee.String(),
		profit, profitPercent, trade.Timestamp)
	if err != nil {
		return fmt.Errorf("failed to log trade: %w", err)
	}
	return nil
}

// ListTrades retrieves journaled trades in execution order.
func (s *SQLiteStore) ListTrades(ctx context.Context, filter TradeFilter) ([]models.Trade, error) {
	query := `SELECT id, account_id, symbol, name, asset_type, action, quantity, price, total_amount, fee, profit, profit_percent, timestamp FROM trades WHERE 1=1`
	args := []interface{}{}

	if filter.AccountID != "" {
		query += " AND account_id = ?"
		args = append(args, filter.AccountID)
	}
	if filter.Symbol != "" {
		query += " AND symbol = ?"
		args = append(args, filter.Symbol)
	}
	if filter.Action != "" {
		query += " AND action = ?"
		args = append(args, filter.Action)
	}
	if !filter.StartDate.IsZero() {
		query += " AND timestamp >= ?"
		args = append(args, filter.StartDate)
	}
	if !filter.EndDate.IsZero() {
		query += " AND timestamp <= ?"
		args = append(args, filter.EndDate)
	}
	query += " ORDER BY timestamp ASC, created_at ASC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query trades: %w", err)
	}
	defer rows.Close()

	var trades []models.Trade
	for rows.Next() {
		t, err := scanTrade(rows)
		if err != nil {
			return nil, err
		}
		trades = append(trades, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating trades: %w", err)
	}
	return trades, nil
}

func scanTrade(rows *sql.Rows) (models.Trade, error) {
	var t models.Trade
	var quantity, price, totalAmount, fee string
	var profit, profitPercent sql.NullString

	if err := rows.Scan(&t.ID, &t.AccountID, &t.Symbol, &t.Name, &t.Type, &t.Action,
		&quantity, &price, &totalAmount, &fee, &profit, &profitPercent, &t.Timestamp); err != nil {
		return models.Trade{}, fmt.Errorf("failed to scan trade: %w", err)
	}

	var err error
	if t.Quantity, err = decimal.NewFromString(quantity); err != nil {
		return models.Trade{}, fmt.Errorf("bad quantity in trade %s: %w", t.ID, err)
	}
	if t.Price, err = decimal.NewFromString(price); err != nil {
		return models.Trade{}, fmt.Errorf("bad price in trade %s: %w", t.ID, err)
	}
	if t.TotalAmount, err = decimal.NewFromString(totalAmount); err != nil {
		return models.Trade{}, fmt.Errorf("bad total_amount in trade %s: %w", t.ID, err)
	}
	if t.Fee, err = decimal.NewFromString(fee); err != nil {
		return models.Trade{}, fmt.Errorf("bad fee in trade %s: %w", t.ID, err)
	}
	if profit.Valid {
		p, err := decimal.NewFromString(profit.String)
		if err != nil {
			return models.Trade{}, fmt.Errorf("bad profit in trade %s: %w", t.ID, err)
		}
		t.Profit = &p
	}
	if profitPercent.Valid {
		p, err := decimal.NewFromString(profitPercent.String)
		if err != nil {
			return models.Trade{}, fmt.Errorf("bad profit_percent in trade %s: %w", t.ID, err)
		}
		t.ProfitPercent = &p
	}
	return t, nil
}

// DeleteTrades removes all journaled trades for an account.
func (s *SQLiteStore) DeleteTrades(ctx context.Context, accountID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM trades WHERE account_id = ?`, accountID)
	if err != nil {
		return fmt.Errorf("failed to delete trades: %w", err)
	}
	return nil
}

// AccountIDs returns the distinct account ids present in the journal.
func (s *SQLiteStore) AccountIDs(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT account_id FROM trades ORDER BY account_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan account id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Ensure SQLiteStore implements TradeStore
var _ TradeStore = (*SQLiteStore)(nil)
