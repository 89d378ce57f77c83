package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func env(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestFromEnvDefaults(t *testing.T) {
	c, err := FromEnv(env(nil))
	require.NoError(t, err)
	assert.Equal(t, Defaults(), c)
}

func TestFromEnvOverrides(t *testing.T) {
	c, err := FromEnv(env(map[string]string{
		"JASS_SEED":         "0x2a",
		"JASS_ITERATIONS":   "500",
		"JASS_PACE":         "250ms",
		"JASS_PLAYERS":      "s:a:200, r:b:host:1, n:c ,n:d",
		"JASS_GAMES":        "3",
		"JASS_JWT_SECRET":   "hunter2",
		"JASS_REDIS_ADDR":   "localhost:6379",
		"JASS_REDIS_TTL":    "1h",
		"JASS_DATABASE_URL": "postgres://localhost/jass",
		"JASS_LOG_LEVEL":    "debug",
	}))
	require.NoError(t, err)
	assert.Equal(t, uint64(42), c.Seed)
	assert.Equal(t, 500, c.Iterations)
	assert.Equal(t, 250*time.Millisecond, c.Pace)
	assert.Equal(t, []string{"s:a:200", "r:b:host:1", "n:c", "n:d"}, c.Players)
	assert.Equal(t, 3, c.Games)
	assert.Equal(t, "hunter2", c.JWTSecret)
	assert.Equal(t, "localhost:6379", c.RedisAddr)
	assert.Equal(t, time.Hour, c.RedisTTL)
	assert.Equal(t, "postgres://localhost/jass", c.DatabaseURL)
	assert.Equal(t, logrus.DebugLevel, c.LogLevel)
}

func TestFromEnvRejects(t *testing.T) {
	cases := map[string]map[string]string{
		"seed":           {"JASS_SEED": "-1"},
		"iterations":     {"JASS_ITERATIONS": "eight"},
		"few iterations": {"JASS_ITERATIONS": "8"},
		"pace":           {"JASS_PACE": "soon"},
		"negative pace":  {"JASS_PACE": "-1s"},
		"three players":  {"JASS_PLAYERS": "s:a,s:b,s:c"},
		"games":          {"JASS_GAMES": "0"},
		"log level":      {"JASS_LOG_LEVEL": "loud"},
	}
	for name, vars := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := FromEnv(env(vars))
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("JASS_ITERATIONS=77\n"), 0o600))
	t.Setenv("JASS_ITERATIONS", "")
	os.Unsetenv("JASS_ITERATIONS")

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 77, c.Iterations)
}

func TestLoadWithoutEnvFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.NoError(t, err)
}
