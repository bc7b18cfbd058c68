// Package config loads runtime settings for the Uplink CLI. Values come
// from built-in defaults, overlaid by an optional JSON file (-c/-config),
// overlaid by command-line flags; later sources win.
package config

import "time"

// Config holds the runtime settings consumed by the client core.
//
// Staleness windows are per query class: the short window covers
// frequently-changing aggregates (file listings, admin stats, activity),
// the long one rarely-changing configuration (storage info, container
// options).
type Config struct {
	ServerBaseURL  string
	RequestTimeout time.Duration

	// Upload restrictions and transfer tuning.
	MaxFileSizeBytes    int64
	MaxNumberOfFiles    int
	AllowedTypes        []string
	ChunkSizeBytes      int
	ConcurrentTransfers int

	// Cache behavior.
	StaleWindowShort time.Duration
	StaleWindowLong  time.Duration
	SweepMaxAge      time.Duration

	// JournalPath is the SQLite file holding the local upload history.
	JournalPath string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerBaseURL = "http://127.0.0.1:8000"
	c.RequestTimeout = 30 * time.Second
	c.MaxFileSizeBytes = 100 * 1024 * 1024
	c.MaxNumberOfFiles = 10
	c.AllowedTypes = []string{".csv", ".json", ".txt", ".xlsx", ".xls", ".xml"}
	c.ChunkSizeBytes = 1024 * 1024
	c.ConcurrentTransfers = 3
	c.StaleWindowShort = 5 * time.Second
	c.StaleWindowLong = 5 * time.Minute
	c.SweepMaxAge = 30 * time.Minute
	c.JournalPath = "uplink.db"
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from JSON (if a config file is given) and command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
