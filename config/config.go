package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultEnvFile is the config file read when no --env-file flag is given.
const DefaultEnvFile = ".env"

// Config is the resolved overlay configuration: the Navidrome connection
// profile plus the HTTP server and presentation settings. It is loaded once
// at startup and never mutated afterwards; every backend call receives it
// read-only.
type Config struct {
	NavidromeURL      string
	NavidromeUser     string
	NavidromePassword string
	NavidromeClient   string
	NavidromeVersion  string
	RequestTimeout    time.Duration

	ServerHost     string
	ServerPort     int
	RefreshSeconds int
	ShowProgress   bool

	// NothingPlayingPlaceholder selects the idle cover image: "dark",
	// "light", or "off".
	NothingPlayingPlaceholder string

	AssetsDir string
	LogPath   string
	LogLevel  string

	Theme Theme

	// EnvFile is the path the values were loaded from, kept so the change
	// watcher and the setup wizard target the same file.
	EnvFile string
}

// Load resolves configuration with the precedence: explicit overrides, then
// process environment variables, then the env file, then built-in defaults.
// The env file uses the same KEY=VALUE format godotenv understands, so a
// plain .env next to the binary works for local setups.
func Load(envFile string, overrides map[string]string) (*Config, error) {
	if envFile == "" {
		envFile = DefaultEnvFile
	}

	fileValues, err := godotenv.Read(envFile)
	if err != nil {
		// A missing file is fine; env vars or the wizard cover it.
		fileValues = map[string]string{}
	}

	pick := func(name, fallback string) string {
		if v, ok := overrides[name]; ok && v != "" {
			return v
		}
		if v, ok := os.LookupEnv(name); ok {
			return v
		}
		if v, ok := fileValues[name]; ok {
			return v
		}
		return fallback
	}

	cfg := &Config{
		NavidromeURL:      strings.TrimRight(pick("NAVIDROME_URL", ""), "/"),
		NavidromeUser:     pick("NAVIDROME_USER", ""),
		NavidromePassword: pick("NAVIDROME_PASSWORD", ""),
		NavidromeClient:   pick("NAVIDROME_CLIENT_NAME", "obs-overlay"),
		NavidromeVersion:  pick("NAVIDROME_API_VERSION", "1.16.1"),
		RequestTimeout:    time.Duration(asFloat(pick("NAVIDROME_TIMEOUT", "6"), 6) * float64(time.Second)),
		ServerHost:        pick("OVERLAY_HOST", "127.0.0.1"),
		ServerPort:        asInt(pick("OVERLAY_PORT", "8080"), 8080),
		RefreshSeconds:    asInt(pick("OVERLAY_REFRESH_SECONDS", "1"), 1),
		ShowProgress:      asBool(pick("OVERLAY_SHOW_PROGRESS", "false")),
		AssetsDir:         pick("OVERLAY_ASSETS_DIR", "assets"),
		LogPath:           pick("OVERLAY_LOG_PATH", ""),
		LogLevel:          pick("OVERLAY_LOG_LEVEL", "info"),
		Theme:             loadTheme(pick),
		EnvFile:           envFile,
	}

	cfg.NothingPlayingPlaceholder = normalizePlaceholder(pick("OVERLAY_NOTHING_PLAYING_PLACEHOLDER", "dark"))

	if cfg.NavidromeURL == "" || cfg.NavidromeUser == "" || cfg.NavidromePassword == "" {
		return nil, fmt.Errorf(
			"missing configuration: NAVIDROME_URL, NAVIDROME_USER, and NAVIDROME_PASSWORD must be set (run the setup command or create %s)",
			envFile,
		)
	}

	return cfg, nil
}

// normalizePlaceholder maps the accepted spellings onto dark/light/off,
// falling back to dark for anything unrecognized.
func normalizePlaceholder(raw string) string {
	v := strings.ToLower(strings.TrimSpace(raw))
	switch v {
	case "none", "off", "false", "0":
		return "off"
	case "dark", "light":
		return v
	default:
		return "dark"
	}
}

func asInt(value string, fallback int) int {
	if n, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
		return n
	}
	return fallback
}

func asFloat(value string, fallback float64) float64 {
	if f, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err == nil {
		return f
	}
	return fallback
}

func asBool(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "1", "yes":
		return true
	}
	return false
}
