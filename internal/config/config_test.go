package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	c, err := LoadUnchecked("")
	require.NoError(t, err)
	require.NoError(t, c.Validate())
	assert.Equal(t, "8080", c.Server.Port)
	assert.Equal(t, int64(20<<20), c.MaxUploadBytes())
	assert.False(t, c.Cache.Enabled)
	assert.False(t, c.IsProduction())
}

func TestLoadFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.yaml", `
server:
  port: "9090"
  env: production
  max_upload_mb: 5
logging:
  level: debug
  format: json
cache:
  enabled: true
  ttl: 30m
battery_dir: /srv/batteries
`)
	c, err := LoadUnchecked(path)
	require.NoError(t, err)
	require.NoError(t, c.Validate())

	assert.Equal(t, "9090", c.Server.Port)
	assert.True(t, c.IsProduction())
	assert.Equal(t, 5, c.Server.MaxUploadMB)
	assert.Equal(t, "json", c.Logging.Format)
	assert.True(t, c.Cache.Enabled)
	assert.Equal(t, 30*time.Minute, c.Cache.TTL)
	assert.Equal(t, "/srv/batteries", c.BatteryDir)
	// untouched keys keep their defaults
	assert.Equal(t, "./static", c.Server.StaticDir)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := LoadUnchecked(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"API_PORT":            "7000",
		"LOG_LEVEL":           "warn",
		"MAX_UPLOAD_MB":       "3",
		"ENABLE_RESULT_CACHE": "true",
		"RESULT_CACHE_TTL":    "90s",
		"BATTERY_DIR":         "",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	c := Default()
	require.NoError(t, c.applyEnv(lookup))
	assert.Equal(t, "7000", c.Server.Port)
	assert.Equal(t, "warn", c.Logging.Level)
	assert.Equal(t, 3, c.Server.MaxUploadMB)
	assert.True(t, c.Cache.Enabled)
	assert.Equal(t, 90*time.Second, c.Cache.TTL)
	assert.Equal(t, "./examples/batteries", c.BatteryDir)
}

func TestApplyEnvRejectsGarbage(t *testing.T) {
	for _, key := range []string{"MAX_UPLOAD_MB", "ENABLE_RESULT_CACHE", "RESULT_CACHE_TTL"} {
		t.Run(key, func(t *testing.T) {
			c := Default()
			err := c.applyEnv(func(k string) (string, bool) {
				if k == key {
					return "not-a-value", true
				}
				return "", false
			})
			assert.ErrorContains(t, err, key)
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad port", func(c *Config) { c.Server.Port = "http" }},
		{"port out of range", func(c *Config) { c.Server.Port = "70000" }},
		{"zero upload cap", func(c *Config) { c.Server.MaxUploadMB = 0 }},
		{"bad log level", func(c *Config) { c.Logging.Level = "loud" }},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }},
		{"cache without ttl", func(c *Config) { c.Cache.Enabled = true; c.Cache.TTL = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.mutate(c)
			assert.Error(t, c.Validate())
		})
	}

	var nilCfg *Config
	assert.Error(t, nilCfg.Validate())
}

func TestListPresets(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b_home.yaml", "battery:\n  name: Home\n  capacity_kwh: 10\n  price: 5500.50\n")
	writeFile(t, dir, "a_unnamed.yml", "battery:\n  capacity_kwh: 5\n  price: 3000\n")
	writeFile(t, dir, "broken.yaml", "battery: [\n")
	writeFile(t, dir, "zero.yaml", "battery:\n  capacity_kwh: 0\n  price: 100\n")
	writeFile(t, dir, "notes.txt", "ignored")

	var skipped []string
	presets, err := ListPresets(dir, func(path string, err error) {
		skipped = append(skipped, filepath.Base(path))
	})
	require.NoError(t, err)
	require.Len(t, presets, 2)

	assert.Equal(t, "a_unnamed", presets[0].ID)
	assert.Equal(t, "a_unnamed", presets[0].Battery.Name)
	assert.Equal(t, "b_home", presets[1].ID)
	assert.Equal(t, "Home", presets[1].Battery.Name)
	assert.Equal(t, 10, presets[1].Battery.CapacityKWh)
	assert.True(t, decimal.RequireFromString("5500.5").Equal(presets[1].Battery.Price))

	assert.ElementsMatch(t, []string{"broken.yaml", "zero.yaml"}, skipped)
}

func TestListPresetsMissingDir(t *testing.T) {
	presets, err := ListPresets(filepath.Join(t.TempDir(), "missing"), nil)
	require.NoError(t, err)
	assert.Empty(t, presets)
}

func TestMergeBattery(t *testing.T) {
	base := BatteryConfig{Name: "Home", CapacityKWh: 10, Price: decimal.NewFromInt(5500)}

	out := MergeBattery(base, BatteryConfig{CapacityKWh: 12})
	assert.Equal(t, "Home", out.Name)
	assert.Equal(t, 12, out.CapacityKWh)
	assert.True(t, out.Price.Equal(decimal.NewFromInt(5500)))

	out = MergeBattery(base, BatteryConfig{Price: decimal.NewFromInt(4000)})
	assert.Equal(t, 10, out.CapacityKWh)
	assert.True(t, out.Price.Equal(decimal.NewFromInt(4000)))
}
