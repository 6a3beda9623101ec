// =================================
// File: internal/config/config.go
// =================================
package config

import (
	"errors"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	RPCList         []string `mapstructure:"rpc_list"`
	WebSocketURL    string   `mapstructure:"websocket_url"`
	JupiterBaseURL  string   `mapstructure:"jupiter_base_url"`
	JupiterPriceURL string   `mapstructure:"jupiter_price_url"`
	JitoURL         string   `mapstructure:"jito_url"`
	TasksFile       string   `mapstructure:"tasks_file"`
	ConfirmTimeout  int      `mapstructure:"confirm_timeout_ms"`
	SellRaceBudget  int      `mapstructure:"sell_race_budget_ms"`
	KeepAlive       int      `mapstructure:"keepalive_interval_ms"`
	DebugLogging    bool     `mapstructure:"debug_logging"`
	LogFile         string   `mapstructure:"log_file"`
}

const (
	DefaultConfirmTimeout = 12_000
	DefaultSellRaceBudget = 1_000
	DefaultKeepAlive      = 19_000
	DefaultTasksFile      = "configs/tasks.csv"
	DefaultLogFile        = "bot.log"
)

func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	defaults := map[string]interface{}{
		"confirm_timeout_ms":    DefaultConfirmTimeout,
		"sell_race_budget_ms":   DefaultSellRaceBudget,
		"keepalive_interval_ms": DefaultKeepAlive,
		"tasks_file":            DefaultTasksFile,
		"log_file":              DefaultLogFile,
	}
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := loadEnvironmentVariables(v, &cfg); err != nil {
		return nil, err
	}

	return &cfg, validateConfig(&cfg)
}

// ConfirmTimeoutDuration returns the confirmation wait bound.
func (c *Config) ConfirmTimeoutDuration() time.Duration {
	return time.Duration(c.ConfirmTimeout) * time.Millisecond
}

// SellRaceBudgetDuration returns the sell-side relay race budget.
func (c *Config) SellRaceBudgetDuration() time.Duration {
	return time.Duration(c.SellRaceBudget) * time.Millisecond
}

// KeepAliveDuration returns the delay between keep-alive ping rounds.
func (c *Config) KeepAliveDuration() time.Duration {
	return time.Duration(c.KeepAlive) * time.Millisecond
}

func validateConfig(cfg *Config) error {
	if len(cfg.RPCList) == 0 {
		return errors.New("rpc_list is empty")
	}
	for _, rpcURL := range cfg.RPCList {
		if err := validateURLWithCache(rpcURL, "http"); err != nil {
			return errors.New("invalid RPC URL protocol")
		}
	}
	if cfg.WebSocketURL == "" {
		return errors.New("websocket_url is required for confirmation tracking")
	}
	if err := validateURLWithCache(cfg.WebSocketURL, "ws"); err != nil {
		return errors.New("invalid WebSocket URL protocol")
	}
	if cfg.JitoURL != "" {
		if err := validateURLWithCache(cfg.JitoURL, "http"); err != nil {
			return errors.New("invalid Jito URL protocol")
		}
	}
	return validateNumericParams(cfg)
}

func validateNumericParams(cfg *Config) error {
	if cfg.ConfirmTimeout <= 0 {
		return errors.New("invalid confirm_timeout_ms")
	}
	if cfg.SellRaceBudget <= 0 {
		return errors.New("invalid sell_race_budget_ms")
	}
	if cfg.KeepAlive <= 0 {
		return errors.New("invalid keepalive_interval_ms")
	}
	return nil
}

var urlCache sync.Map

func validateURLWithCache(rawURL string, protocol string) error {
	if _, ok := urlCache.Load(rawURL); ok {
		return nil
	}
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return errors.New("invalid URL format")
	}
	if !strings.HasPrefix(parsed.Scheme, protocol) {
		return errors.New("invalid URL protocol")
	}
	urlCache.Store(rawURL, parsed)
	return nil
}

func loadEnvironmentVariables(v *viper.Viper, cfg *Config) error {
	v.AutomaticEnv()
	v.SetEnvPrefix("QUICKSWAP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if envJito := v.GetString("JITO_URL"); envJito != "" {
		cfg.JitoURL = envJito
	}
	if envWS := v.GetString("WEBSOCKET_URL"); envWS != "" {
		cfg.WebSocketURL = envWS
	}
	return nil
}
