package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"
)

func logLine(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	var fields map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &fields); err != nil {
		t.Fatalf("log output is not JSON: %v\n%s", err, buf.String())
	}
	return fields
}

func TestLogTradeFields(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	LogTrade(logger, "account-alice", "AAPL", "buy", "10", "195.5")

	fields := logLine(t, &buf)
	want := map[string]string{
		"event":    "trade",
		"account":  "account-alice",
		"symbol":   "AAPL",
		"action":   "buy",
		"quantity": "10",
		"price":    "195.5",
		"level":    "info",
	}
	for key, value := range want {
		if fields[key] != value {
			t.Errorf("field %q = %v, want %q", key, fields[key], value)
		}
	}
}

func TestLogRejectionFields(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	LogRejection(logger, "account-bob", "TSLA", "sell", errors.New("no position in TSLA"))

	fields := logLine(t, &buf)
	if fields["event"] != "trade_rejected" {
		t.Errorf("event = %v, want trade_rejected", fields["event"])
	}
	if fields["level"] != "warn" {
		t.Errorf("level = %v, want warn", fields["level"])
	}
	if fields["error"] != "no position in TSLA" {
		t.Errorf("error = %v, want no position in TSLA", fields["error"])
	}
}

func TestLogResetFields(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	LogReset(logger, "account-alice", "100000.00")

	fields := logLine(t, &buf)
	if fields["event"] != "reset" {
		t.Errorf("event = %v, want reset", fields["event"])
	}
	if fields["initial_balance"] != "100000.00" {
		t.Errorf("initial_balance = %v, want 100000.00", fields["initial_balance"])
	}
}

func TestWithAccount(t *testing.T) {
	var buf bytes.Buffer
	logger := WithAccount(zerolog.New(&buf), "account-carol")

	logger.Info().Msg("restored")

	fields := logLine(t, &buf)
	if fields["account"] != "account-carol" {
		t.Errorf("account = %v, want account-carol", fields["account"])
	}
}

func TestParseLevel(t *testing.T) {
	cases := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"bogus", zerolog.InfoLevel},
	}
	for _, tc := range cases {
		if got := parseLevel(tc.in); got != tc.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
