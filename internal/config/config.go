package config

import "time"

// CollectorConfig is the root configuration for a collector instance.
type CollectorConfig struct {
	Instance InstanceConfig `yaml:"instance"`
	API      APIConfig      `yaml:"api"`
	Database DatabaseConfig `yaml:"database"`
	Universe UniverseConfig `yaml:"universe"`
	Poller   PollerConfig   `yaml:"poller"`
	Stream   StreamConfig   `yaml:"stream"`
	Writers  WritersConfig  `yaml:"writers"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

// InstanceConfig identifies this collector.
type InstanceConfig struct {
	ID string `yaml:"id"`
	AZ string `yaml:"az"`
}

// APIConfig holds TD Ameritrade API settings.
type APIConfig struct {
	BaseURL         string        `yaml:"base_url"`
	AccountID       string        `yaml:"account_id"`       // Overrides the account in the credentials file
	CredentialsFile string        `yaml:"credentials_file"` // Path to JSON account file (refresh-token grant)
	AccessToken     string        `yaml:"access_token"`     // Pre-issued bearer token (alternative to credentials_file)
	Timeout         time.Duration `yaml:"timeout"`
}

// DatabaseConfig holds the TimescaleDB connection for time-series data.
type DatabaseConfig struct {
	Timescale DBConfig `yaml:"timescale"`
}

// DBConfig holds a single database connection.
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
}

// UniverseConfig holds symbol registry settings.
type UniverseConfig struct {
	// Watchlists names the brokerage watchlists that seed the tracked
	// symbol set. Empty means all watchlists in the account.
	Watchlists        []string      `yaml:"watchlists"`
	ReconcileInterval time.Duration `yaml:"reconcile_interval"`
}

// PollerConfig holds quote poller settings.
type PollerConfig struct {
	Interval    time.Duration `yaml:"interval"`
	Concurrency int           `yaml:"concurrency"`
	ChunkSize   int           `yaml:"chunk_size"` // Symbols per quotes request
}

// StreamConfig holds streamer WebSocket settings.
type StreamConfig struct {
	Enabled      bool          `yaml:"enabled"`
	PingTimeout  time.Duration `yaml:"ping_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	BufferSize   int           `yaml:"buffer_size"`
}

// WritersConfig holds batch writer settings.
type WritersConfig struct {
	BatchSize     int           `yaml:"batch_size"`
	FlushInterval time.Duration `yaml:"flush_interval"`
	BufferSize    int           `yaml:"buffer_size"`
}

// MetricsConfig holds health endpoint settings.
type MetricsConfig struct {
	Port int    `yaml:"port"`
	Path string `yaml:"path"`
}
