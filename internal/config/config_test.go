package config

import (
	"flag"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseServer_Defaults(t *testing.T) {
	for _, k := range []string{"ADDR", "DB_PATH", "API_KEY", "AUTO_ENLIST"} {
		t.Setenv(k, "")
	}

	cfg := parseServer(flag.NewFlagSet("test", flag.ContinueOnError), nil)

	assert.Equal(t, &Config{Addr: ":8000", DBPath: "cya.db", AutoEnlist: true}, cfg)
}

func TestParseServer_EnvAndFlags(t *testing.T) {
	t.Setenv("ADDR", ":9000")
	t.Setenv("DB_PATH", "/var/lib/cya.db")
	t.Setenv("API_KEY", "admin")
	t.Setenv("AUTO_ENLIST", "false")

	cfg := parseServer(flag.NewFlagSet("test", flag.ContinueOnError), []string{"-addr", ":7000"})

	assert.Equal(t, ":7000", cfg.Addr)
	assert.Equal(t, "/var/lib/cya.db", cfg.DBPath)
	assert.Equal(t, "admin", cfg.APIKey)
	assert.False(t, cfg.AutoEnlist)
}

func TestParseAgent(t *testing.T) {
	t.Setenv("CYA_SERVER_URL", "http://cya:8000")
	t.Setenv("CYA_HOSTNAME", "host-1")
	t.Setenv("HOST_API_KEY", "12345")
	t.Setenv("CHECK_INTERVAL", "30s")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOCK_FILE", "")

	cfg, err := parseAgent(flag.NewFlagSet("test", flag.ContinueOnError), []string{"-hostname", "host-2", "check"})
	require.NoError(t, err)

	assert.Equal(t, "http://cya:8000", cfg.ServerURL)
	assert.Equal(t, "host-2", cfg.Hostname)
	assert.Equal(t, "12345", cfg.APIKey)
	assert.Equal(t, 30*time.Second, cfg.Interval)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, "/tmp/cya_client.lock", cfg.LockFile)
	assert.Equal(t, []string{"check"}, cfg.Args)
}

func TestParseAgent_NonPositiveInterval(t *testing.T) {
	t.Setenv("CHECK_INTERVAL", "")

	for _, v := range []string{"0", "0s", "-1m"} {
		fs := flag.NewFlagSet("test", flag.ContinueOnError)
		fs.SetOutput(io.Discard)
		cfg, err := parseAgent(fs, []string{"-interval=" + v, "run"})
		assert.Error(t, err, v)
		assert.Nil(t, cfg, v)
	}

	cfg, err := parseAgent(flag.NewFlagSet("test", flag.ContinueOnError), []string{"-interval=5s", "run"})
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, cfg.Interval)
}

func TestParseAgent_BadFlag(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	_, err := parseAgent(fs, []string{"-interval=soon"})
	assert.Error(t, err)
}

func TestEnvDuration_Invalid(t *testing.T) {
	t.Setenv("CHECK_INTERVAL", "soon")
	assert.Equal(t, time.Minute, envDuration("CHECK_INTERVAL", time.Minute))

	t.Setenv("CHECK_INTERVAL", "-5s")
	assert.Equal(t, time.Minute, envDuration("CHECK_INTERVAL", time.Minute))
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelWarn, parseLevel("WARNING"))
	assert.Equal(t, slog.LevelError, parseLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLevel(""))
	assert.Equal(t, slog.LevelInfo, parseLevel("loud"))
}
