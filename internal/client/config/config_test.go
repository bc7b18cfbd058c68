package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()

	assert.Equal(t, "http://127.0.0.1:8000", cfg.ServerBaseURL)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.Equal(t, int64(100*1024*1024), cfg.MaxFileSizeBytes)
	assert.Equal(t, 10, cfg.MaxNumberOfFiles)
	assert.Contains(t, cfg.AllowedTypes, ".csv")
	assert.Equal(t, 3, cfg.ConcurrentTransfers)
	assert.Equal(t, 5*time.Second, cfg.StaleWindowShort)
	assert.Equal(t, 5*time.Minute, cfg.StaleWindowLong)
	assert.Equal(t, "uplink.db", cfg.JournalPath)
}

func TestParseJson(t *testing.T) {
	data := `{
		"server_base_url": "https://portal.example.com",
		"request_timeout": "10s",
		"max_number_of_files": 3,
		"allowed_types": [".csv"],
		"stale_window_short": "1s",
		"journal_path": "/tmp/journal.db"
	}`

	file := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(file, []byte(data), 0o600))

	origArgs := os.Args
	defer func() { os.Args = origArgs }()
	os.Args = []string{"client", "-c", file}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)

	assert.Equal(t, "https://portal.example.com", cfg.ServerBaseURL)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 3, cfg.MaxNumberOfFiles)
	assert.Equal(t, []string{".csv"}, cfg.AllowedTypes)
	assert.Equal(t, 1*time.Second, cfg.StaleWindowShort)
	assert.Equal(t, "/tmp/journal.db", cfg.JournalPath)
	// Fields absent from the file keep their defaults.
	assert.Equal(t, int64(100*1024*1024), cfg.MaxFileSizeBytes)
}

func TestParseFlags(t *testing.T) {
	origArgs := os.Args
	defer func() { os.Args = origArgs }()
	os.Args = []string{"client", "-a", "https://portal.example.com", "-t", "5", "-j", "custom.db"}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseFlags(cfg)

	assert.Equal(t, "https://portal.example.com", cfg.ServerBaseURL)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "custom.db", cfg.JournalPath)
}
