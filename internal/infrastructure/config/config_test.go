package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 3001, cfg.Server.Port)
	assert.Equal(t, DriverJSON, cfg.Storage.Driver)
	assert.Equal(t, "./db.json", cfg.Storage.Path)
	assert.Equal(t, "./poke.csv", cfg.Seed.CSVPath)
	assert.Equal(t, "http://localhost:3001/images/", cfg.Seed.ImageBaseURL)
	assert.Equal(t, "public", cfg.Static.Dir)
	assert.True(t, cfg.Metrics.Enabled)
	assert.False(t, cfg.Storage.IsSQL())
}

func TestLoad_Environment(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("PORT", "8080")
	t.Setenv("IMAGE_BASE_URL", "https://cdn.example.com/img/")
	t.Setenv("STORAGE_DRIVER", "sqlite")
	t.Setenv("STORAGE_DSN", "file:pokedex.db")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Addr())
	assert.Equal(t, "https://cdn.example.com/img/", cfg.Seed.ImageBaseURL)
	assert.Equal(t, DriverSQLite, cfg.Storage.Driver)
	assert.True(t, cfg.Storage.IsSQL())
}

func TestValidateConfig(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:  ServerConfig{Port: 3001},
			Storage: StorageConfig{Driver: DriverJSON, Path: "db.json"},
			Seed:    SeedConfig{CSVPath: "poke.csv"},
		}
	}

	tests := []struct {
		name   string
		mutate func(cfg *Config)
	}{
		{"bad port", func(cfg *Config) { cfg.Server.Port = 0 }},
		{"json without path", func(cfg *Config) { cfg.Storage.Path = "" }},
		{"postgres without dsn", func(cfg *Config) { cfg.Storage.Driver = DriverPostgres }},
		{"unknown driver", func(cfg *Config) { cfg.Storage.Driver = "mongo" }},
		{"missing csv", func(cfg *Config) { cfg.Seed.CSVPath = "" }},
	}

	require.NoError(t, validateConfig(valid()))

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			assert.Error(t, validateConfig(cfg))
		})
	}
}

// chdir changes the working directory for the duration of the test
// (equivalent of testing.T.Chdir, which requires Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
