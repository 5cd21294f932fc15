package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is defaults-first: Load starts from defaultConfig, overlays an
// optional YAML file (LOB_CONFIG), then a handful of env overrides. A
// .env file is honored if present.
type Config struct {
	Logging struct {
		Level  string `yaml:"level"`
		Pretty bool   `yaml:"pretty"`
	} `yaml:"logging"`
	Server struct {
		Addr        string `yaml:"addr"`
		MetricsAddr string `yaml:"metrics_addr"`
	} `yaml:"server"`
	Feed struct {
		Enabled       bool     `yaml:"enabled"`
		Brokers       []string `yaml:"brokers"`
		TradeTopic    string   `yaml:"trade_topic"`
		DepthTopic    string   `yaml:"depth_topic"`
		OutboxDir     string   `yaml:"outbox_dir"`
		FlushInterval int      `yaml:"flush_interval_ms"`
		DepthInterval int      `yaml:"depth_interval_ms"`
		DepthLevels   int      `yaml:"depth_levels"`
	} `yaml:"feed"`
	Sim struct {
		Enabled    bool  `yaml:"enabled"`
		IntervalMs int   `yaml:"interval_ms"`
		BasePrice  int64 `yaml:"base_price"` // cents
		RangeCents int64 `yaml:"range_cents"`
		MaxQty     int64 `yaml:"max_qty"`
	} `yaml:"sim"`
}

func defaultConfig() Config {
	var c Config
	c.Logging.Level = "info"
	c.Logging.Pretty = false
	c.Server.Addr = ":8080"
	c.Server.MetricsAddr = ":9090"
	c.Feed.Enabled = false
	c.Feed.Brokers = []string{"localhost:9092"}
	c.Feed.TradeTopic = "lob.trades"
	c.Feed.DepthTopic = "lob.depth"
	c.Feed.OutboxDir = "./outbox"
	c.Feed.FlushInterval = 250
	c.Feed.DepthInterval = 1000
	c.Feed.DepthLevels = 10
	c.Sim.Enabled = true
	c.Sim.IntervalMs = 100
	c.Sim.BasePrice = 10000 // $100.00
	c.Sim.RangeCents = 50
	c.Sim.MaxQty = 20
	return c
}

func Load() Config {
	_ = godotenv.Load()

	c := defaultConfig()
	if path := os.Getenv("LOB_CONFIG"); path != "" {
		if b, err := os.ReadFile(path); err == nil {
			_ = yaml.Unmarshal(b, &c)
		}
	}
	if v := os.Getenv("LOB_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("LOB_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("LOB_METRICS_ADDR"); v != "" {
		c.Server.MetricsAddr = v
	}
	return c
}

// FlushEvery is the broadcaster drain interval.
func (c Config) FlushEvery() time.Duration {
	return time.Duration(c.Feed.FlushInterval) * time.Millisecond
}

// DepthEvery is the depth publisher interval.
func (c Config) DepthEvery() time.Duration {
	return time.Duration(c.Feed.DepthInterval) * time.Millisecond
}

// SimEvery is the simulator tick interval.
func (c Config) SimEvery() time.Duration {
	return time.Duration(c.Sim.IntervalMs) * time.Millisecond
}
