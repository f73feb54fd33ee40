package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	goValidator "github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"golang-backtester/pkg/utils"
)

// ErrInvalidConfig is returned by Validate when a setting is out of range.
var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Log          Logger         `mapstructure:"logger"`
	API          API            `mapstructure:"api"`
	AlphaVantage AlphaVantage   `mapstructure:"alphavantage"`
	Synthetic    Synthetic      `mapstructure:"synthetic"`
	Cache        Cache          `mapstructure:"cache"`
	Indicator    Indicator      `mapstructure:"indicator"`
	Portfolio    Portfolio      `mapstructure:"portfolio"`
	Backtest     Backtest       `mapstructure:"backtest"`
	Scheduler    Scheduler      `mapstructure:"scheduler"`
	Telegram     TelegramConfig `mapstructure:"telegram"`
}

type Logger struct {
	Level    string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
	Encoding string `mapstructure:"encoding" validate:"required,oneof=json console"`
}

type API struct {
	Port               int           `mapstructure:"port" validate:"gt=0,lte=65535"`
	RateLimitPerSecond float64       `mapstructure:"rate_limit_per_second" validate:"gt=0"`
	RateLimitBurst     int           `mapstructure:"rate_limit_burst" validate:"gte=1"`
	RequestTimeout     time.Duration `mapstructure:"request_timeout" validate:"gt=0"`
}

type AlphaVantage struct {
	BaseURL             string        `mapstructure:"base_url" validate:"required,url"`
	APIKey              string        `mapstructure:"api_key"`
	Timeout             time.Duration `mapstructure:"timeout" validate:"gt=0"`
	MaxRequestPerMinute int           `mapstructure:"max_request_per_minute" validate:"gt=0"`
	MaxRequestPerDay    int           `mapstructure:"max_request_per_day" validate:"gt=0"`
	Retries             int           `mapstructure:"retries" validate:"gte=1"`
	RetryDelay          time.Duration `mapstructure:"retry_delay" validate:"gte=0"`
}

type Synthetic struct {
	MinPrice float64 `mapstructure:"min_price" validate:"gt=0"`
	MaxPrice float64 `mapstructure:"max_price" validate:"gtfield=MinPrice"`
	Seed     int64   `mapstructure:"seed"`
}

type Cache struct {
	DefaultExpiration time.Duration `mapstructure:"default_expiration"`
	CleanupInterval   time.Duration `mapstructure:"cleanup_interval"`
}

type Indicator struct {
	SMAShortWindow int `mapstructure:"sma_short_window" validate:"gte=1"`
	SMALongWindow  int `mapstructure:"sma_long_window" validate:"gtefield=SMAShortWindow"`
	EMAShortSpan   int `mapstructure:"ema_short_span" validate:"gte=1"`
	EMALongSpan    int `mapstructure:"ema_long_span" validate:"gte=1"`
	ATRWindow      int `mapstructure:"atr_window" validate:"gte=2"`
	SignalWarmup   int `mapstructure:"signal_warmup" validate:"gte=1"`
}

type Portfolio struct {
	InitialCash   float64 `mapstructure:"initial_cash" validate:"gt=0"`
	StopLossPct   float64 `mapstructure:"stop_loss_pct" validate:"gt=0,lt=1"`
	TakeProfitPct float64 `mapstructure:"take_profit_pct" validate:"gt=1"`
}

type Backtest struct {
	Ticker         string `mapstructure:"ticker" validate:"required"`
	StartDate      string `mapstructure:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate        string `mapstructure:"end_date" validate:"required,datetime=2006-01-02"`
	MaxConcurrency int    `mapstructure:"max_concurrency" validate:"gte=1"`
	MaxRangeDays   int    `mapstructure:"max_range_days" validate:"gte=1"`
	ReportDir      string `mapstructure:"report_dir"`
}

type Scheduler struct {
	Enabled        bool          `mapstructure:"enabled"`
	CronExpression string        `mapstructure:"cron_expression" validate:"required_if=Enabled true"`
	Tickers        []string      `mapstructure:"tickers"`
	LookbackDays   int           `mapstructure:"lookback_days" validate:"gte=1"`
	Timeout        time.Duration `mapstructure:"timeout" validate:"gt=0"`
}

type TelegramConfig struct {
	BotToken            string `mapstructure:"bot_token"`
	ChatID              int64  `mapstructure:"chat_id"`
	MaxMessagePerSecond int    `mapstructure:"max_message_per_second" validate:"gte=1"`
}

// Enabled reports whether scheduled summaries should be posted to Telegram.
func (t TelegramConfig) Enabled() bool {
	return t.BotToken != "" && t.ChatID != 0
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.encoding", "console")

	v.SetDefault("api.port", 8080)
	v.SetDefault("api.rate_limit_per_second", 2.0)
	v.SetDefault("api.rate_limit_burst", 5)
	v.SetDefault("api.request_timeout", 2*time.Minute)

	v.SetDefault("alphavantage.base_url", "https://www.alphavantage.co")
	v.SetDefault("alphavantage.api_key", "")
	v.SetDefault("alphavantage.timeout", 15*time.Second)
	v.SetDefault("alphavantage.max_request_per_minute", 5)
	v.SetDefault("alphavantage.max_request_per_day", 25)
	v.SetDefault("alphavantage.retries", 3)
	v.SetDefault("alphavantage.retry_delay", 5*time.Second)

	v.SetDefault("synthetic.min_price", 100.0)
	v.SetDefault("synthetic.max_price", 150.0)
	v.SetDefault("synthetic.seed", 0)

	v.SetDefault("cache.default_expiration", time.Hour)
	v.SetDefault("cache.cleanup_interval", 10*time.Minute)

	v.SetDefault("indicator.sma_short_window", 10)
	v.SetDefault("indicator.sma_long_window", 30)
	v.SetDefault("indicator.ema_short_span", 10)
	v.SetDefault("indicator.ema_long_span", 30)
	v.SetDefault("indicator.atr_window", 14)
	v.SetDefault("indicator.signal_warmup", 30)

	v.SetDefault("portfolio.initial_cash", 10000.0)
	v.SetDefault("portfolio.stop_loss_pct", 0.95)
	v.SetDefault("portfolio.take_profit_pct", 1.10)

	v.SetDefault("backtest.ticker", "AAPL")
	v.SetDefault("backtest.start_date", "2023-10-01")
	v.SetDefault("backtest.end_date", "2025-03-21")
	v.SetDefault("backtest.max_concurrency", 4)
	v.SetDefault("backtest.max_range_days", 3660)
	v.SetDefault("backtest.report_dir", "results")

	v.SetDefault("scheduler.enabled", false)
	v.SetDefault("scheduler.cron_expression", "0 18 * * 1-5")
	v.SetDefault("scheduler.tickers", []string{"AAPL"})
	v.SetDefault("scheduler.lookback_days", 365)
	v.SetDefault("scheduler.timeout", 5*time.Minute)

	v.SetDefault("telegram.bot_token", "")
	v.SetDefault("telegram.chat_id", 0)
	v.SetDefault("telegram.max_message_per_second", 1)
}

// Load reads .env (when present), the YAML config file and environment
// overrides. An empty path searches the working directory for config.yaml.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Println("Failed to load .env file:", err)
	}

	v := viper.New()
	setDefaults(v)
	v.SetConfigType("yaml")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks struct tags and the cross-section constraints the tags
// cannot express.
func (c *Config) Validate() error {
	if err := goValidator.New().Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	start, _ := time.Parse(utils.DateLayout, c.Backtest.StartDate)
	end, _ := time.Parse(utils.DateLayout, c.Backtest.EndDate)
	if end.Before(start) {
		return fmt.Errorf("%w: backtest.end_date %s is before backtest.start_date %s", ErrInvalidConfig, c.Backtest.EndDate, c.Backtest.StartDate)
	}
	if start.AddDate(0, 0, c.Backtest.MaxRangeDays).Before(end) {
		return fmt.Errorf("%w: backtest window spans more than backtest.max_range_days (%d)", ErrInvalidConfig, c.Backtest.MaxRangeDays)
	}
	if c.Scheduler.LookbackDays > c.Backtest.MaxRangeDays {
		return fmt.Errorf("%w: scheduler.lookback_days must be <= backtest.max_range_days", ErrInvalidConfig)
	}
	if c.Indicator.EMALongSpan < c.Indicator.EMAShortSpan {
		return fmt.Errorf("%w: indicator.ema_long_span must be >= indicator.ema_short_span", ErrInvalidConfig)
	}
	return nil
}
