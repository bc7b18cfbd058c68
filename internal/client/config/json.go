package config

import (
	"encoding/json"
	"os"

	"github.com/dataport/uplink/internal/flagx"
	"github.com/dataport/uplink/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Durations
// accept either strings like "30s" or integer nanoseconds via
// timex.Duration. Only fields present in the file override the defaults.
type JsonConfig struct {
	ServerBaseURL       *string         `json:"server_base_url"`
	RequestTimeout      *timex.Duration `json:"request_timeout"`
	MaxFileSizeBytes    *int64          `json:"max_file_size_bytes"`
	MaxNumberOfFiles    *int            `json:"max_number_of_files"`
	AllowedTypes        []string        `json:"allowed_types"`
	ChunkSizeBytes      *int            `json:"chunk_size_bytes"`
	ConcurrentTransfers *int            `json:"concurrent_transfers"`
	StaleWindowShort    *timex.Duration `json:"stale_window_short"`
	StaleWindowLong     *timex.Duration `json:"stale_window_long"`
	SweepMaxAge         *timex.Duration `json:"sweep_max_age"`
	JournalPath         *string         `json:"journal_path"`
}

// parseJson overlays cfg with values loaded from the JSON file named by the
// -c/-config flags. Absent file means no overlay. Read or parse failures
// panic; main recovers them into a startup error.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.ServerBaseURL != nil {
		cfg.ServerBaseURL = *jc.ServerBaseURL
	}
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.MaxFileSizeBytes != nil {
		cfg.MaxFileSizeBytes = *jc.MaxFileSizeBytes
	}
	if jc.MaxNumberOfFiles != nil {
		cfg.MaxNumberOfFiles = *jc.MaxNumberOfFiles
	}
	if jc.AllowedTypes != nil {
		cfg.AllowedTypes = jc.AllowedTypes
	}
	if jc.ChunkSizeBytes != nil {
		cfg.ChunkSizeBytes = *jc.ChunkSizeBytes
	}
	if jc.ConcurrentTransfers != nil {
		cfg.ConcurrentTransfers = *jc.ConcurrentTransfers
	}
	if jc.StaleWindowShort != nil {
		cfg.StaleWindowShort = jc.StaleWindowShort.Duration
	}
	if jc.StaleWindowLong != nil {
		cfg.StaleWindowLong = jc.StaleWindowLong.Duration
	}
	if jc.SweepMaxAge != nil {
		cfg.SweepMaxAge = jc.SweepMaxAge.Duration
	}
	if jc.JournalPath != nil {
		cfg.JournalPath = *jc.JournalPath
	}
}
