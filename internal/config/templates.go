package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const configTemplate = `# Virtual Trader Configuration

[server]
# HTTP listen address
addr = ":8080"
# Allowed CORS origin ("*" for any)
cors_origin = "*"

[account]
# Starting cash balance for new virtual accounts (USD)
initial_balance = 100000.0
# Proportional trading fee charged on buys and sells (0.001 = 0.1%)
fee_rate = 0.0
# Account used when a request carries no user id
default_user = "default"

[pricing]
# Stock price provider: "yahoo" or "static"
stock_provider = "yahoo"
# Crypto price provider: "coingecko" or "static"
crypto_provider = "coingecko"
# Quote cache TTL in seconds
cache_ttl = 60
# HTTP timeout in seconds for provider calls
timeout = 8

[database]
# SQLite trade journal location
path = "trader.db"

[logging]
# Log level: debug, info, warn, error
level = "info"
# Log to console
console = true
# Log to rotating file
file = true
`

const credentialsTemplate = `# Virtual Trader Credentials
# Keep this file private (chmod 600)

[openai]
# Optional: enables the AI-backed investment analyzer
api_key = ""
model = "gpt-4o-mini"
`

func createTemplateConfig(configDir string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	path := filepath.Join(configDir, "config.toml")
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	if err := os.WriteFile(path, []byte(configTemplate), 0644); err != nil {
		return fmt.Errorf("writing config template: %w", err)
	}
	return nil
}

func createTemplateCredentials(configDir string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	path := filepath.Join(configDir, "credentials.toml")
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	if err := os.WriteFile(path, []byte(credentialsTemplate), 0600); err != nil {
		return fmt.Errorf("writing credentials template: %w", err)
	}
	return nil
}
