package config

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the server configuration.
type Config struct {
	Addr       string // HTTP listen address, e.g. ":8000"
	DBPath     string // SQLite file, ":memory:" for a throwaway store
	APIKey     string // Bearer key for container creation (env API_KEY). Empty = auth disabled.
	AutoEnlist bool   // newly registered hosts may receive containers right away
}

// AgentConfig holds the host agent configuration.
type AgentConfig struct {
	ServerURL string        // base URL of the cya server
	Hostname  string        // name the host registers under
	APIKey    string        // host key (env HOST_API_KEY), sent as "Token <key>"
	Interval  time.Duration // time between checks in run mode
	LogLevel  slog.Level
	LockFile  string
	Args      []string // subcommand and its arguments
}

// Load parses server flags and env vars. Flags take precedence over env
// vars, which take precedence over a .env file in the working directory.
func Load() *Config {
	loadDotEnv()

	fs := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	return parseServer(fs, os.Args[1:])
}

// LoadAgent parses agent flags and env vars the same way as Load. Invalid
// values exit with the usage text.
func LoadAgent() *AgentConfig {
	loadDotEnv()

	fs := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	cfg, err := parseAgent(fs, os.Args[1:])
	if err != nil {
		fmt.Fprintln(fs.Output(), err)
		fs.Usage()
		os.Exit(2)
	}
	return cfg
}

func parseServer(fs *flag.FlagSet, args []string) *Config {
	addr := fs.String("addr", envOrDefault("ADDR", ":8000"), "HTTP listen address")
	dbPath := fs.String("db", envOrDefault("DB_PATH", "cya.db"), "SQLite database path")
	autoEnlist := fs.Bool("auto-enlist", envBool("AUTO_ENLIST", true), "Enlist hosts as soon as they register")
	fs.Parse(args)

	return &Config{
		Addr:       *addr,
		DBPath:     *dbPath,
		APIKey:     os.Getenv("API_KEY"),
		AutoEnlist: *autoEnlist,
	}
}

func parseAgent(fs *flag.FlagSet, args []string) (*AgentConfig, error) {
	hostname, _ := os.Hostname()

	server := fs.String("server", os.Getenv("CYA_SERVER_URL"), "cya server URL")
	name := fs.String("hostname", envOrDefault("CYA_HOSTNAME", hostname), "Name to register this host under")
	interval := fs.Duration("interval", envDuration("CHECK_INTERVAL", time.Minute), "Time between checks in run mode")
	lockFile := fs.String("lock", envOrDefault("LOCK_FILE", "/tmp/cya_client.lock"), "Lock file guarding concurrent runs")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if *interval <= 0 {
		return nil, fmt.Errorf("invalid -interval %s: must be positive", *interval)
	}

	return &AgentConfig{
		ServerURL: *server,
		Hostname:  *name,
		APIKey:    os.Getenv("HOST_API_KEY"),
		Interval:  *interval,
		LogLevel:  parseLevel(os.Getenv("LOG_LEVEL")),
		LockFile:  *lockFile,
		Args:      fs.Args(),
	}, nil
}

// loadDotEnv reads .env when present. Variables already set win.
func loadDotEnv() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("ignoring .env", "error", err)
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

// parseLevel maps DEBUG, INFO, WARNING and ERROR to slog levels. Unknown
// values fall back to INFO.
func parseLevel(s string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR", "CRITICAL":
		return slog.LevelError
	}
	return slog.LevelInfo
}
