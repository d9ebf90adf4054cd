package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, k := range []string{
		"ORIGIN_URL", "ORIGIN_HEADLESS", "ORIGIN_TIMEOUT_SECONDS", "ORIGIN_SETTLE_SECONDS",
		"ORIGIN_DIAGNOSTICS_DIR", "ORIGIN_JOURNAL_PATH", "ORIGIN_REQUIRE_SAVE",
	} {
		t.Setenv(k, "")
	}
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	require.NoError(t, err)

	assert.Equal(t, DefaultURLs, cfg.CandidateURLs())
	assert.Equal(t, 10*time.Second, cfg.Timeout())
	assert.Equal(t, 5*time.Second, cfg.SettleDelay())
	assert.False(t, cfg.Headless)
	assert.False(t, cfg.RequireSave)
	assert.Equal(t, "HAEMODIALYSIS UNIT", cfg.Department)
}

func TestLoad_FileThenEnv(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"origin_url": "http://file/EMR/main.jsp",
		"headless": true,
		"timeout_seconds": 20,
		"department": "RENAL UNIT"
	}`), 0644))

	t.Setenv("ORIGIN_TIMEOUT_SECONDS", "30")
	t.Setenv("ORIGIN_REQUIRE_SAVE", "true")
	t.Setenv("ORIGIN_DIAGNOSTICS_DIR", "/tmp/shots")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.True(t, cfg.Headless)
	assert.Equal(t, 30*time.Second, cfg.Timeout())
	assert.True(t, cfg.RequireSave)
	assert.Equal(t, "/tmp/shots", cfg.DiagnosticsDir)
	assert.Equal(t, "RENAL UNIT", cfg.Department)
	assert.Equal(t, []string{
		"http://file/EMR/main.jsp",
		DefaultURLs[0],
		DefaultURLs[1],
	}, cfg.CandidateURLs())
}

func TestLoad_EnvURLOverridesFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("ORIGIN_URL", DefaultURLs[1])

	cfg, err := Load("")
	require.NoError(t, err)

	// already in the defaults, so only moved to the front
	assert.Equal(t, []string{DefaultURLs[1], DefaultURLs[0]}, cfg.CandidateURLs())
}

func TestLoad_Rejects(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		file string
	}{
		{name: "bad bool", env: map[string]string{"ORIGIN_HEADLESS": "maybe"}},
		{name: "bad int", env: map[string]string{"ORIGIN_TIMEOUT_SECONDS": "ten"}},
		{name: "zero timeout", env: map[string]string{"ORIGIN_TIMEOUT_SECONDS": "0"}},
		{name: "negative settle", env: map[string]string{"ORIGIN_SETTLE_SECONDS": "-1"}},
		{name: "bad json", file: "{not json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			path := ""
			if tt.file != "" {
				path = filepath.Join(t.TempDir(), "config.json")
				require.NoError(t, os.WriteFile(path, []byte(tt.file), 0644))
			}

			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

func TestCandidateURLs_EmptyListFallsBack(t *testing.T) {
	cfg := &Config{OriginURLs: []string{" ", ""}}
	assert.Equal(t, DefaultURLs, cfg.CandidateURLs())
}
