package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultURLs are the portal entry points tried when nothing else is configured
var DefaultURLs = []string{
	"http://192.168.20.12:8080/EMR/main.jsp",
	"http://192.168.20.11:8080/EMR/main.jsp",
}

const (
	defaultTimeoutSeconds = 10
	defaultSettleSeconds  = 5
	defaultDepartment     = "HAEMODIALYSIS UNIT"
	stateDirName          = ".dialysis_autofill"
)

// Config is the runtime configuration of the autofill tool
type Config struct {
	OriginURL      string   `json:"origin_url"`
	OriginURLs     []string `json:"origin_urls"`
	Headless       bool     `json:"headless"`
	TimeoutSeconds int      `json:"timeout_seconds"`
	SettleSeconds  int      `json:"settle_seconds"`
	DiagnosticsDir string   `json:"diagnostics_dir"`
	JournalPath    string   `json:"journal_path"`
	Department     string   `json:"department"`
	RequireSave    bool     `json:"require_save"`
}

// Default - configuration used when no file or environment overrides exist
func Default() *Config {
	stateDir := "."
	if homeDir, err := os.UserHomeDir(); err == nil {
		stateDir = filepath.Join(homeDir, stateDirName)
	}

	return &Config{
		OriginURLs:     append([]string(nil), DefaultURLs...),
		TimeoutSeconds: defaultTimeoutSeconds,
		SettleSeconds:  defaultSettleSeconds,
		DiagnosticsDir: ".",
		JournalPath:    filepath.Join(stateDir, "runs.db"),
		Department:     defaultDepartment,
	}
}

// Load - defaults, then the optional JSON file at path, then ORIGIN_* environment variables.
// A .env file in the working directory is loaded first when present.
func Load(path string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := json.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		case os.IsNotExist(err):
		default:
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if cfg.TimeoutSeconds <= 0 {
		return nil, fmt.Errorf("timeout_seconds must be positive, got %d", cfg.TimeoutSeconds)
	}
	if cfg.SettleSeconds < 0 {
		return nil, fmt.Errorf("settle_seconds must not be negative, got %d", cfg.SettleSeconds)
	}

	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("ORIGIN_URL"); v != "" {
		c.OriginURL = v
	}
	if v := os.Getenv("ORIGIN_DIAGNOSTICS_DIR"); v != "" {
		c.DiagnosticsDir = v
	}
	if v := os.Getenv("ORIGIN_JOURNAL_PATH"); v != "" {
		c.JournalPath = v
	}

	if v := os.Getenv("ORIGIN_HEADLESS"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("ORIGIN_HEADLESS: %w", err)
		}
		c.Headless = b
	}
	if v := os.Getenv("ORIGIN_REQUIRE_SAVE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("ORIGIN_REQUIRE_SAVE: %w", err)
		}
		c.RequireSave = b
	}
	if v := os.Getenv("ORIGIN_TIMEOUT_SECONDS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("ORIGIN_TIMEOUT_SECONDS: %w", err)
		}
		c.TimeoutSeconds = n
	}
	if v := os.Getenv("ORIGIN_SETTLE_SECONDS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("ORIGIN_SETTLE_SECONDS: %w", err)
		}
		c.SettleSeconds = n
	}

	return nil
}

// CandidateURLs - origin_url first, then the configured list, without duplicates
func (c *Config) CandidateURLs() []string {
	urls := make([]string, 0, len(c.OriginURLs)+1)
	seen := make(map[string]bool)

	add := func(u string) {
		u = strings.TrimSpace(u)
		if u == "" || seen[u] {
			return
		}
		seen[u] = true
		urls = append(urls, u)
	}

	add(c.OriginURL)
	for _, u := range c.OriginURLs {
		add(u)
	}
	if len(urls) == 0 {
		for _, u := range DefaultURLs {
			add(u)
		}
	}
	return urls
}

// Timeout - bounded wait per element lookup
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// SettleDelay - pause before the browser closes
func (c *Config) SettleDelay() time.Duration {
	return time.Duration(c.SettleSeconds) * time.Second
}
