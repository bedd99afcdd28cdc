// Package config loads scanner configuration from YAML with environment
// variable overrides and sensible defaults.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"TickerScout/internal/indicator"
	"TickerScout/internal/model"
)

// Duration wraps time.Duration so YAML accepts "2h", "90s" and friends.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) Std() time.Duration { return time.Duration(d) }

// Trigger configures one classification trigger by name.
type Trigger struct {
	Name       string `yaml:"name"`
	Enabled    bool   `yaml:"enabled"`
	RSIOptions struct {
		Overbought float64 `yaml:"overbought"`
		Oversold   float64 `yaml:"oversold"`
	} `yaml:"rsi_options"`
}

// Config holds all application configuration.
type Config struct {
	Symbols            []string  `yaml:"symbols"`
	ScanInterval       Duration  `yaml:"scan_interval"`
	MaxConcurrentScans int       `yaml:"max_concurrent_scans"`
	RSISmoothingMethod string    `yaml:"rsi_smoothing_method"`
	IndicatorPeriod    int       `yaml:"indicator_period"`
	Triggers           []Trigger `yaml:"triggers"`

	Creeper model.CreeperCriteria `yaml:"creeper"`

	DataSource struct {
		BaseURL string `yaml:"base_url"`
		APIKey  string `yaml:"api_key"`
		UseMock bool   `yaml:"use_mock"`
	} `yaml:"data_source"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Database struct {
		RecorderPath string `yaml:"recorder_path"`
		MetadataPath string `yaml:"metadata_path"`
	} `yaml:"database"`
	Metrics struct {
		ListenAddr string `yaml:"listen_addr"`
	} `yaml:"metrics"`
	Proxy string `yaml:"proxy"`
	Debug bool   `yaml:"debug"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides and defaults. A missing file is not an error; the result is
// the defaults plus whatever the environment provides.
func Load(path string) (*Config, error) {
	cfg := &Config{Creeper: model.DefaultCreeperCriteria()}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("TICKERSCOUT_SYMBOLS"); v != "" {
		cfg.Symbols = splitCSV(v)
	}
	if v := os.Getenv("TICKERSCOUT_BASE_URL"); v != "" {
		cfg.DataSource.BaseURL = v
	}
	if v := os.Getenv("TICKERSCOUT_API_KEY"); v != "" {
		cfg.DataSource.APIKey = v
	}
	if v := os.Getenv("TICKERSCOUT_SCAN_INTERVAL"); v != "" {
		if parsed, perr := time.ParseDuration(v); perr == nil {
			cfg.ScanInterval = Duration(parsed)
		}
	}
	if v := os.Getenv("TICKERSCOUT_MAX_CONCURRENT"); v != "" {
		if n, perr := strconv.Atoi(v); perr == nil {
			cfg.MaxConcurrentScans = n
		}
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.RecorderPath = v
	}

	// Defaults
	if cfg.ScanInterval == 0 {
		cfg.ScanInterval = Duration(4 * time.Hour)
	}
	if cfg.MaxConcurrentScans == 0 {
		cfg.MaxConcurrentScans = 8
	}
	if cfg.IndicatorPeriod == 0 {
		cfg.IndicatorPeriod = 14
	}
	if cfg.Database.RecorderPath == "" {
		cfg.Database.RecorderPath = "data/tickerscout.db"
	}
	if cfg.Database.MetadataPath == "" {
		cfg.Database.MetadataPath = "data/metadata.db"
	}
	if cfg.Metrics.ListenAddr == "" {
		cfg.Metrics.ListenAddr = ":9090"
	}
	if len(cfg.Triggers) == 0 {
		cfg.Triggers = defaultTriggers()
	}

	return cfg, nil
}

func defaultTriggers() []Trigger {
	rsi := Trigger{Name: "rsi", Enabled: true}
	creeper := Trigger{Name: "creeper", Enabled: true}
	return []Trigger{rsi, creeper}
}

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Validate checks that all required fields are set and consistent.
func (c *Config) Validate() error {
	if c.DataSource.BaseURL == "" && !c.DataSource.UseMock {
		return fmt.Errorf("data_source.base_url is required unless data_source.use_mock is set")
	}
	if c.MaxConcurrentScans <= 0 {
		return fmt.Errorf("max_concurrent_scans must be positive")
	}
	if c.IndicatorPeriod <= 0 {
		return fmt.Errorf("indicator_period must be positive")
	}
	if c.ScanInterval.Std() < time.Minute {
		return fmt.Errorf("scan_interval must be at least 1m, got %s", c.ScanInterval.Std())
	}
	if _, err := indicator.ParseMethod(c.RSISmoothingMethod); err != nil {
		return err
	}
	if err := c.Creeper.Validate(); err != nil {
		return err
	}
	for _, tr := range c.Triggers {
		switch tr.Name {
		case "rsi", "creeper":
		default:
			return fmt.Errorf("unknown trigger %q", tr.Name)
		}
	}
	return nil
}

// TriggerEnabled reports whether the named trigger is configured and on.
func (c *Config) TriggerEnabled(name string) bool {
	for _, tr := range c.Triggers {
		if tr.Name == name {
			return tr.Enabled
		}
	}
	return false
}

// RSITrigger returns the rsi trigger options, zero-valued if absent.
func (c *Config) RSITrigger() (overbought, oversold float64) {
	for _, tr := range c.Triggers {
		if tr.Name == "rsi" {
			return tr.RSIOptions.Overbought, tr.RSIOptions.Oversold
		}
	}
	return 0, 0
}
