package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// chdirTemp moves into an empty directory so no stray in1888.yaml or .env
// is picked up.
func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("HOME", dir)
	return dir
}

func TestLoadDefaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "I", cfg.Report.Flag)
	assert.Equal(t, "BINANCE", cfg.Report.Exchange)
	assert.Equal(t, "USDT", cfg.Report.Asset)
	assert.False(t, cfg.Report.FeeFallbackToLocal)
	assert.Equal(t, map[string]string{"COMPRA": "0110", "VENDA": "0120"}, cfg.Report.Classification)
	assert.Equal(t, ExchangeInfo{URL: "https://www.binance.com/", Country: "KY"}, cfg.Report.Exchanges["BINANCE"])
	assert.Equal(t, DefaultPurchaseFile, cfg.Output.PurchaseFile)
	assert.Equal(t, DefaultSaleFile, cfg.Output.SaleFile)
	assert.Equal(t, []string{"DATE", "TYPE", "DEPOSITOR", "QUANTITY", "TOTAL VALUE", "FIXED FEE"}, cfg.Input.Columns.Required())
	assert.Equal(t, []string{"fee value in local currency"}, cfg.Input.Columns.Optional())
	assert.Equal(t, int64(10<<20), cfg.Server.MaxUploadBytes())
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	chdirTemp(t)
	t.Setenv("IN1888_REPORT_ASSET", "BTC")
	t.Setenv("IN1888_REPORT_EXCHANGE", "kraken")
	t.Setenv("IN1888_OUTPUT_DIR", "/tmp/reports")
	t.Setenv("IN1888_INPUT_SHEET", "Transações")
	t.Setenv("IN1888_LOG_LEVEL", "debug")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "BTC", cfg.Report.Asset)
	assert.Equal(t, "KRAKEN", cfg.Report.Exchange)
	assert.Equal(t, "/tmp/reports", cfg.Output.Dir)
	assert.Equal(t, "Transações", cfg.Input.Sheet)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadDotEnv(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("IN1888_REPORT_FLAG=X\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("IN1888_REPORT_FLAG") })

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "X", cfg.Report.Flag)
}

func TestLoadFileNormalizesTables(t *testing.T) {
	dir := chdirTemp(t)
	path := filepath.Join(dir, "custom.yaml")
	content := `
report:
  classification:
    COMPRA: "0110"
    Buy: " 0110 "
    SELL: "0120"
  exchanges:
    Kraken:
      url: https://www.kraken.com/
      country: US
input:
  columns:
    date: DATA
    exchange: EXCHANGE
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "0110", cfg.Report.Classification["BUY"])
	assert.Equal(t, "0120", cfg.Report.Classification["SELL"])
	assert.Equal(t, "0110", cfg.Report.Classification["COMPRA"])
	assert.Equal(t, "US", cfg.Report.Exchanges["KRAKEN"].Country)
	assert.Equal(t, "DATA", cfg.Input.Columns.Date)
	assert.Equal(t, "TYPE", cfg.Input.Columns.Type, "unset keys keep their defaults")
	assert.Contains(t, cfg.Input.Columns.Optional(), "EXCHANGE")
}

func TestLoadFileUnquotedCode(t *testing.T) {
	dir := chdirTemp(t)
	path := filepath.Join(dir, "custom.yaml")
	content := `
report:
  classification:
    COMPRA: 0110
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quote the code")
}

func TestIgnoredTypes(t *testing.T) {
	cfg := Default()
	assert.Empty(t, cfg.IgnoredTypes())

	cfg.Report.Classification["TRANSFER"] = "IGNORE"
	cfg.Report.Classification["DEPOSIT"] = ""
	assert.Equal(t, []string{"DEPOSIT", "TRANSFER"}, cfg.IgnoredTypes())
}

func TestLoadExplicitFileMissing(t *testing.T) {
	dir := chdirTemp(t)

	_, err := Load(filepath.Join(dir, "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults are valid", func(*Config) {}, ""},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, "invalid log level"},
		{"bad format", func(c *Config) { c.Log.Format = "xml" }, "invalid log format"},
		{"empty column", func(c *Config) { c.Input.Columns.Quantity = "" }, "input.columns.quantity"},
		{"empty flag", func(c *Config) { c.Report.Flag = "" }, "report.flag"},
		{"long flag", func(c *Config) { c.Report.Flag = "IX" }, "single character"},
		{"octal code", func(c *Config) { c.Report.Classification["COMPRA"] = "72" }, "report.classification.COMPRA"},
		{"unknown code", func(c *Config) { c.Report.Classification["VENDA"] = "0130" }, "report.classification.VENDA"},
		{"ignored type", func(c *Config) { c.Report.Classification["TRANSFER"] = "IGNORE" }, ""},
		{"pipe in exchange url", func(c *Config) {
			c.Report.Exchanges["BINANCE"] = ExchangeInfo{URL: "https://a|b/", Country: "KY"}
		}, "report.exchanges.BINANCE.url"},
		{"pipe in exchange country", func(c *Config) {
			c.Report.Exchanges["BINANCE"] = ExchangeInfo{URL: "https://www.binance.com/", Country: "K|Y"}
		}, "report.exchanges.BINANCE.country"},
		{"pipe in asset", func(c *Config) { c.Report.Asset = "US|DT" }, "report.asset"},
		{"same file names", func(c *Config) { c.Output.SaleFile = c.Output.PurchaseFile }, "must differ"},
		{"upload limit", func(c *Config) { c.Server.MaxUploadMB = 0 }, "max_upload_mb"},
		{"rate", func(c *Config) { c.Server.Burst = 0 }, "rate limit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestNormalize(t *testing.T) {
	cfg := Default()
	cfg.Report.Classification = map[string]string{"compra": " 0110", " venda ": "0120"}
	cfg.Report.Exchanges = map[string]ExchangeInfo{"binance": {Country: "KY"}}
	cfg.Report.Exchange = " binance "
	cfg.Log.Format = "JSON"

	cfg.Normalize()

	assert.Equal(t, map[string]string{"COMPRA": "0110", "VENDA": "0120"}, cfg.Report.Classification)
	assert.Contains(t, cfg.Report.Exchanges, "BINANCE")
	assert.Equal(t, "BINANCE", cfg.Report.Exchange)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Default().WriteYAML(&buf))

	assert.Contains(t, buf.String(), "purchase_file: IN1888_0110_COMPRA.txt")

	var decoded Config
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, *Default(), decoded)
}
