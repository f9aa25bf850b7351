// =============================================================================
// IN1888 Report Generator - Configuration Module
// =============================================================================
//
// This module loads the application configuration. Values are layered, later
// sources overriding earlier ones:
//
//   1. Built-in defaults (Default)
//   2. A YAML file: --config, or in1888.yaml in . or $HOME/.in1888
//   3. A .env file in the working directory (loaded into the environment)
//   4. IN1888_* environment variables, "." replaced by "_"
//      e.g. IN1888_REPORT_ASSET=BTC, IN1888_OUTPUT_DIR=/tmp/out
//
// Map keys (classification and exchange tables) are upper-cased after loading:
// the YAML/env layer folds them to lower case and lookups are made on
// upper-cased transaction types and exchange names.
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"sort"
	"strings"

	"github.com/ginjaninja78/in1888-converter/internal/types"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// =============================================================================
// DEFAULTS
// =============================================================================

const (
	EnvPrefix = "IN1888"

	DefaultFlag     = "I"
	DefaultExchange = "BINANCE"
	DefaultAsset    = "USDT"

	DefaultPurchaseFile = "IN1888_0110_COMPRA.txt"
	DefaultSaleFile     = "IN1888_0120_VENDA.txt"
	DefaultMetaFile     = "IN1888_meta.json"
	DefaultArchiveFile  = "IN1888.zip"
)

// =============================================================================
// CONFIGURATION STRUCTURE
// =============================================================================

// Config holds the complete application configuration.
type Config struct {
	Log    LogConfig    `mapstructure:"log" yaml:"log"`
	Input  InputConfig  `mapstructure:"input" yaml:"input"`
	Output OutputConfig `mapstructure:"output" yaml:"output"`
	Report ReportConfig `mapstructure:"report" yaml:"report"`
	Server ServerConfig `mapstructure:"server" yaml:"server"`
}

// LogConfig controls the logrus logger.
type LogConfig struct {
	// Level is a logrus level name: trace, debug, info, warn, error.
	Level string `mapstructure:"level" yaml:"level"`

	// Format is "text" or "json".
	Format string `mapstructure:"format" yaml:"format"`
}

// InputConfig describes the spreadsheet being read.
type InputConfig struct {
	// Sheet is the preferred sheet name. Empty means the first sheet.
	Sheet string `mapstructure:"sheet" yaml:"sheet"`

	// Columns holds the header names of each field.
	Columns Columns `mapstructure:"columns" yaml:"columns"`
}

// Columns maps report fields to spreadsheet header names. Matching is exact.
type Columns struct {
	Date       string `mapstructure:"date" yaml:"date"`
	Type       string `mapstructure:"type" yaml:"type"`
	Depositor  string `mapstructure:"depositor" yaml:"depositor"`
	Quantity   string `mapstructure:"quantity" yaml:"quantity"`
	TotalValue string `mapstructure:"total_value" yaml:"total_value"`
	FixedFee   string `mapstructure:"fixed_fee" yaml:"fixed_fee"`

	// LocalFee is optional; a missing column reads as zero.
	LocalFee string `mapstructure:"local_fee" yaml:"local_fee"`

	// Exchange and Asset are optional per-row overrides of the report
	// constants. Leave empty to always use Report.Exchange / Report.Asset.
	Exchange string `mapstructure:"exchange" yaml:"exchange"`
	Asset    string `mapstructure:"asset" yaml:"asset"`
}

// Required returns the header names that must be present, in check order.
func (c Columns) Required() []string {
	return []string{c.Date, c.Type, c.Depositor, c.Quantity, c.TotalValue, c.FixedFee}
}

// Optional returns the configured optional header names.
func (c Columns) Optional() []string {
	var out []string
	for _, col := range []string{c.LocalFee, c.Exchange, c.Asset} {
		if col != "" {
			out = append(out, col)
		}
	}
	return out
}

// OutputConfig controls where and under which names reports are written.
type OutputConfig struct {
	// Dir overrides the output directory. Empty means the directory of the
	// input spreadsheet.
	Dir string `mapstructure:"dir" yaml:"dir"`

	PurchaseFile string `mapstructure:"purchase_file" yaml:"purchase_file"`
	SaleFile     string `mapstructure:"sale_file" yaml:"sale_file"`

	// MetaFile and ArchiveFile name the entries of the HTTP download.
	MetaFile    string `mapstructure:"meta_file" yaml:"meta_file"`
	ArchiveFile string `mapstructure:"archive_file" yaml:"archive_file"`
}

// ExchangeInfo is the metadata printed for an exchange.
type ExchangeInfo struct {
	URL     string `mapstructure:"url" yaml:"url"`
	Country string `mapstructure:"country" yaml:"country"`
}

// ReportConfig holds the values that shape every report line.
type ReportConfig struct {
	// Flag is the literal third field of every line.
	Flag string `mapstructure:"flag" yaml:"flag"`

	// Exchange and Asset are written on every line unless a per-row column
	// is configured and filled.
	Exchange string `mapstructure:"exchange" yaml:"exchange"`
	Asset    string `mapstructure:"asset" yaml:"asset"`

	// FeeFallbackToLocal uses the local-currency fee when the fixed fee
	// cell is blank.
	FeeFallbackToLocal bool `mapstructure:"fee_fallback_to_local" yaml:"fee_fallback_to_local"`

	// Classification maps a transaction type to its report code.
	Classification map[string]string `mapstructure:"classification" yaml:"classification"`

	// Exchanges maps an exchange name to its URL and country.
	Exchanges map[string]ExchangeInfo `mapstructure:"exchanges" yaml:"exchanges"`
}

// ServerConfig controls the HTTP endpoint.
type ServerConfig struct {
	Addr              string  `mapstructure:"addr" yaml:"addr"`
	MaxUploadMB       int64   `mapstructure:"max_upload_mb" yaml:"max_upload_mb"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second" yaml:"requests_per_second"`
	Burst             int     `mapstructure:"burst" yaml:"burst"`
	ReadTimeoutSec    int     `mapstructure:"read_timeout_seconds" yaml:"read_timeout_seconds"`
	WriteTimeoutSec   int     `mapstructure:"write_timeout_seconds" yaml:"write_timeout_seconds"`
}

// MaxUploadBytes converts MaxUploadMB to bytes.
func (s ServerConfig) MaxUploadBytes() int64 {
	return s.MaxUploadMB << 20
}

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Log: LogConfig{Level: "info", Format: "text"},
		Input: InputConfig{
			Columns: Columns{
				Date:       "DATE",
				Type:       "TYPE",
				Depositor:  "DEPOSITOR",
				Quantity:   "QUANTITY",
				TotalValue: "TOTAL VALUE",
				FixedFee:   "FIXED FEE",
				LocalFee:   "fee value in local currency",
			},
		},
		Output: OutputConfig{
			PurchaseFile: DefaultPurchaseFile,
			SaleFile:     DefaultSaleFile,
			MetaFile:     DefaultMetaFile,
			ArchiveFile:  DefaultArchiveFile,
		},
		Report: ReportConfig{
			Flag:     DefaultFlag,
			Exchange: DefaultExchange,
			Asset:    DefaultAsset,
			Classification: map[string]string{
				"COMPRA": "0110",
				"VENDA":  "0120",
			},
			Exchanges: map[string]ExchangeInfo{
				"BINANCE": {URL: "https://www.binance.com/", Country: "KY"},
			},
		},
		Server: ServerConfig{
			Addr:              ":8080",
			MaxUploadMB:       10,
			RequestsPerSecond: 10,
			Burst:             30,
			ReadTimeoutSec:    30,
			WriteTimeoutSec:   60,
		},
	}
}

// setDefaults registers every default with viper so that environment
// variables can override keys that no file mentions.
func setDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)

	v.SetDefault("input.sheet", d.Input.Sheet)
	v.SetDefault("input.columns.date", d.Input.Columns.Date)
	v.SetDefault("input.columns.type", d.Input.Columns.Type)
	v.SetDefault("input.columns.depositor", d.Input.Columns.Depositor)
	v.SetDefault("input.columns.quantity", d.Input.Columns.Quantity)
	v.SetDefault("input.columns.total_value", d.Input.Columns.TotalValue)
	v.SetDefault("input.columns.fixed_fee", d.Input.Columns.FixedFee)
	v.SetDefault("input.columns.local_fee", d.Input.Columns.LocalFee)
	v.SetDefault("input.columns.exchange", d.Input.Columns.Exchange)
	v.SetDefault("input.columns.asset", d.Input.Columns.Asset)

	v.SetDefault("output.dir", d.Output.Dir)
	v.SetDefault("output.purchase_file", d.Output.PurchaseFile)
	v.SetDefault("output.sale_file", d.Output.SaleFile)
	v.SetDefault("output.meta_file", d.Output.MetaFile)
	v.SetDefault("output.archive_file", d.Output.ArchiveFile)

	v.SetDefault("report.flag", d.Report.Flag)
	v.SetDefault("report.exchange", d.Report.Exchange)
	v.SetDefault("report.asset", d.Report.Asset)
	v.SetDefault("report.fee_fallback_to_local", d.Report.FeeFallbackToLocal)
	v.SetDefault("report.classification", d.Report.Classification)
	v.SetDefault("report.exchanges", map[string]interface{}{
		"BINANCE": map[string]interface{}{
			"url":     d.Report.Exchanges["BINANCE"].URL,
			"country": d.Report.Exchanges["BINANCE"].Country,
		},
	})

	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("server.max_upload_mb", d.Server.MaxUploadMB)
	v.SetDefault("server.requests_per_second", d.Server.RequestsPerSecond)
	v.SetDefault("server.burst", d.Server.Burst)
	v.SetDefault("server.read_timeout_seconds", d.Server.ReadTimeoutSec)
	v.SetDefault("server.write_timeout_seconds", d.Server.WriteTimeoutSec)
}

// =============================================================================
// CONFIGURATION LOADING
// =============================================================================

// Load builds the configuration from defaults, an optional YAML file, .env
// and the environment.
//
// PARAMETERS:
//   - configPath: An explicit config file. When empty, in1888.yaml is
//     searched for and its absence is not an error.
//
// RETURNS:
//   - The normalized, validated configuration.
//   - An error if an explicit file cannot be read or a value is invalid.
func Load(configPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("in1888")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.in1888")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.Normalize()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Normalize upper-cases table keys and the exchange constant, and trims
// codes, so lookups made on upper-cased row values succeed.
func (c *Config) Normalize() {
	classification := make(map[string]string, len(c.Report.Classification))
	for k, code := range c.Report.Classification {
		classification[strings.ToUpper(strings.TrimSpace(k))] = strings.TrimSpace(code)
	}
	c.Report.Classification = classification

	exchanges := make(map[string]ExchangeInfo, len(c.Report.Exchanges))
	for k, info := range c.Report.Exchanges {
		exchanges[strings.ToUpper(strings.TrimSpace(k))] = info
	}
	c.Report.Exchanges = exchanges

	c.Report.Exchange = strings.ToUpper(strings.TrimSpace(c.Report.Exchange))
	c.Report.Asset = strings.TrimSpace(c.Report.Asset)
	c.Log.Format = strings.ToLower(c.Log.Format)
}

// Validate checks values that would otherwise fail late or produce
// malformed report lines.
func (c *Config) Validate() error {
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", c.Log.Level)
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", c.Log.Format)
	}

	names := map[string]string{
		"date":        c.Input.Columns.Date,
		"type":        c.Input.Columns.Type,
		"depositor":   c.Input.Columns.Depositor,
		"quantity":    c.Input.Columns.Quantity,
		"total_value": c.Input.Columns.TotalValue,
		"fixed_fee":   c.Input.Columns.FixedFee,
	}
	for key, name := range names {
		if name == "" {
			return fmt.Errorf("input.columns.%s must not be empty", key)
		}
	}

	if len(c.Report.Flag) != 1 {
		return fmt.Errorf("report.flag must be a single character, got: %q", c.Report.Flag)
	}
	fields := map[string]string{
		"report.flag":     c.Report.Flag,
		"report.exchange": c.Report.Exchange,
		"report.asset":    c.Report.Asset,
	}
	for name, info := range c.Report.Exchanges {
		fields["report.exchanges."+name+".url"] = info.URL
		fields["report.exchanges."+name+".country"] = info.Country
	}
	for field, value := range fields {
		if strings.Contains(value, types.FieldSeparator) {
			return fmt.Errorf("%s must not contain '|': %q", field, value)
		}
	}

	// An unquoted 0110 in YAML is an octal integer and arrives as "72".
	// Other text values are allowed and keep the type out of both reports.
	for typ, code := range c.Report.Classification {
		if isDigits(code) && !types.Code(code).Valid() {
			return fmt.Errorf("report.classification.%s maps to %q, expected %q or %q (quote the code in YAML)",
				typ, code, types.CodePurchase, types.CodeSale)
		}
	}

	if c.Output.PurchaseFile == "" || c.Output.SaleFile == "" {
		return fmt.Errorf("output file names must not be empty")
	}
	if c.Output.PurchaseFile == c.Output.SaleFile {
		return fmt.Errorf("output.purchase_file and output.sale_file must differ, both are %q", c.Output.PurchaseFile)
	}

	if c.Server.MaxUploadMB <= 0 {
		return fmt.Errorf("server.max_upload_mb must be positive, got: %d", c.Server.MaxUploadMB)
	}
	if c.Server.RequestsPerSecond <= 0 || c.Server.Burst < 1 {
		return fmt.Errorf("server rate limit must be positive, got: %g/s burst %d", c.Server.RequestsPerSecond, c.Server.Burst)
	}

	return nil
}

// IgnoredTypes returns the classified transaction types whose code is not a
// report code, sorted.
func (c *Config) IgnoredTypes() []string {
	var out []string
	for typ, code := range c.Report.Classification {
		if !types.Code(code).Valid() {
			out = append(out, typ)
		}
	}
	sort.Strings(out)
	return out
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// WriteYAML writes the configuration as YAML.
func (c *Config) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return enc.Close()
}
