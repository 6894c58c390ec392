package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type ExchangeConfig struct {
	Name    string `yaml:"name"`
	BaseURL string `yaml:"base_url"`
	// WebSocket miniTicker endpoint; empty disables the live stream.
	StreamURL      string        `yaml:"stream_url"`
	ReconnectDelay time.Duration `yaml:"reconnect_delay"`
	PingInterval   time.Duration `yaml:"ping_interval"`
}

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		Output string `yaml:"output"`
	} `yaml:"logging"`
	Exchanges []ExchangeConfig `yaml:"exchanges"`
	Symbols   []string         `yaml:"symbols"`
	Scan      struct {
		AggregateInterval   time.Duration `yaml:"aggregate_interval"`
		PumpScanInterval    time.Duration `yaml:"pump_scan_interval"`
		SignalCheckInterval time.Duration `yaml:"signal_check_interval"`
	} `yaml:"scan"`
	Pump struct {
		ThresholdPct     float64       `yaml:"threshold_pct"`
		WindowMinutes    int           `yaml:"window_minutes"`
		VolumeMultiplier float64       `yaml:"volume_multiplier"`
		EventTTL         time.Duration `yaml:"event_ttl"`
		Cooldown         time.Duration `yaml:"cooldown"`
	} `yaml:"pump"`
	Cache struct {
		AggregatedTTL time.Duration `yaml:"aggregated_ttl"`
		PriceTTL      time.Duration `yaml:"price_ttl"`
	} `yaml:"cache"`
	Redis struct {
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		Prefix   string `yaml:"prefix"`
	} `yaml:"redis"`
	ClickHouse struct {
		Host             string        `yaml:"host"`
		Port             int           `yaml:"port"`
		Database         string        `yaml:"database"`
		User             string        `yaml:"user"`
		Password         string        `yaml:"password"`
		UseHTTP          bool          `yaml:"use_http"`
		AsyncInsert      bool          `yaml:"async_insert"`
		WaitForAsync     bool          `yaml:"wait_for_async_insert"`
		DialTimeout      time.Duration `yaml:"dial_timeout"`
		ReadTimeout      time.Duration `yaml:"read_timeout"`
		WriteTimeout     time.Duration `yaml:"write_timeout"`
		MaxExecutionTime time.Duration `yaml:"max_execution_time"`
	} `yaml:"clickhouse"`
	Kafka struct {
		Brokers      []string `yaml:"brokers"`
		PumpTopic    string   `yaml:"pump_topic"`
		ClosureTopic string   `yaml:"closure_topic"`
		RequiredAcks int      `yaml:"required_acks"`
		Compression  string   `yaml:"compression"`
		Producer     struct {
			MaxAttempts  int           `yaml:"max_attempts"`
			Linger       time.Duration `yaml:"linger"`
			BatchBytes   int           `yaml:"batch_bytes"`
			BatchSize    int           `yaml:"batch_size"`
			WriteTimeout time.Duration `yaml:"write_timeout"`
			ReadTimeout  time.Duration `yaml:"read_timeout"`
			Async        bool          `yaml:"async"`
		} `yaml:"producer"`
	} `yaml:"kafka"`
	Stream struct {
		Enabled    bool `yaml:"enabled"`
		MaxRPS     int  `yaml:"max_rps"`
		BufferSize int  `yaml:"buffer_size"`
	} `yaml:"stream"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	c.applyDefaults()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("SYMBOLS"); v != "" {
		c.Symbols = strings.Split(v, ",")
	}
	if v := os.Getenv("REDIS_HOST"); v != "" {
		c.Redis.Host = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.Redis.Password = v
	}
	if v := os.Getenv("CLICKHOUSE_HOST"); v != "" {
		c.ClickHouse.Host = v
	}
	if v := os.Getenv("CLICKHOUSE_PASSWORD"); v != "" {
		c.ClickHouse.Password = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}

	return c, nil
}

func (c *Config) applyDefaults() {
	if c.Scan.AggregateInterval <= 0 {
		c.Scan.AggregateInterval = 5 * time.Second
	}
	if c.Scan.PumpScanInterval <= 0 {
		c.Scan.PumpScanInterval = 10 * time.Second
	}
	if c.Scan.SignalCheckInterval <= 0 {
		c.Scan.SignalCheckInterval = 30 * time.Second
	}
	if c.Pump.ThresholdPct == 0 {
		c.Pump.ThresholdPct = 5
	}
	if c.Pump.WindowMinutes == 0 {
		c.Pump.WindowMinutes = 5
	}
	if c.Pump.VolumeMultiplier == 0 {
		c.Pump.VolumeMultiplier = 2
	}
	if c.Pump.EventTTL <= 0 {
		c.Pump.EventTTL = 30 * time.Minute
	}
	if c.Pump.Cooldown <= 0 {
		c.Pump.Cooldown = 15 * time.Minute
	}
	if c.Cache.AggregatedTTL <= 0 {
		c.Cache.AggregatedTTL = 10 * time.Second
	}
	if c.Cache.PriceTTL <= 0 {
		c.Cache.PriceTTL = 30 * time.Second
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "console"
	}
	if c.Logging.Output == "" {
		c.Logging.Output = "stdout"
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if len(c.Exchanges) == 0 {
		return fmt.Errorf("at least one exchange is required")
	}
	for i, e := range c.Exchanges {
		if e.Name == "" {
			return fmt.Errorf("exchanges[%d].name is required", i)
		}
		if e.BaseURL == "" {
			return fmt.Errorf("exchanges[%d].base_url is required", i)
		}
	}
	if len(c.Symbols) == 0 {
		return fmt.Errorf("symbols cannot be empty")
	}
	if c.Pump.ThresholdPct < 0 {
		return fmt.Errorf("pump.threshold_pct must not be negative")
	}
	if c.Pump.VolumeMultiplier < 0 {
		return fmt.Errorf("pump.volume_multiplier must not be negative")
	}
	return nil
}

// ExchangeNames returns the configured exchange ids in declaration order.
func (c *Config) ExchangeNames() []string {
	names := make([]string, len(c.Exchanges))
	for i, e := range c.Exchanges {
		names[i] = e.Name
	}
	return names
}
