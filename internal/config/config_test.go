package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultValidates(t *testing.T) {
	t.Setenv(APIKeyEnv, "")
	warnings, err := Validate(Default())
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	require.Contains(t, warnings[0].Message, "api.api_key is empty")
}

func TestParseLayersOverDefaults(t *testing.T) {
	t.Setenv(APIKeyEnv, "")
	content := `
api:
  base_url: https://fraud.example.com
  api_key: secret-key
capture:
  feed_url: ws://127.0.0.1:7071/stream
`
	cfg, warnings, err := Parse(content, Default())
	require.NoError(t, err)
	require.Empty(t, warnings)

	require.Equal(t, "https://fraud.example.com", cfg.API.BaseURL)
	require.Equal(t, "secret-key", cfg.API.APIKey)
	require.Equal(t, "/analyze", cfg.API.AnalyzePath)
	require.Equal(t, 60000, cfg.API.TimeoutMS)
	require.Equal(t, "standard", cfg.API.WireFormat)
	require.Equal(t, "ws://127.0.0.1:7071/stream", cfg.Capture.FeedURL)
	require.Equal(t, 4000, cfg.Capture.MaxTranscriptChars)
}

func TestParseEmptyContentKeepsDefaults(t *testing.T) {
	t.Setenv(APIKeyEnv, "")
	cfg, _, err := Parse("", Default())
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

func TestParseRejectsBadYAML(t *testing.T) {
	_, _, err := Parse("api: [not a mapping", Default())
	require.Error(t, err)
	require.Contains(t, err.Error(), "decode yaml")
}

func TestEnvOverridesAPIKey(t *testing.T) {
	t.Setenv(APIKeyEnv, "env-key")
	cfg, warnings, err := Parse("api:\n  api_key: file-key\n", Default())
	require.NoError(t, err)
	require.Empty(t, warnings)
	require.Equal(t, "env-key", cfg.API.APIKey)
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "empty base url", mutate: func(c *Config) { c.API.BaseURL = " " }, wantErr: "api.base_url"},
		{name: "relative analyze path", mutate: func(c *Config) { c.API.AnalyzePath = "analyze" }, wantErr: "api.analyze_path"},
		{name: "relative health path", mutate: func(c *Config) { c.API.HealthPath = "health" }, wantErr: "api.health_path"},
		{name: "zero timeout", mutate: func(c *Config) { c.API.TimeoutMS = 0 }, wantErr: "api.timeout_ms"},
		{name: "bad wire format", mutate: func(c *Config) { c.API.WireFormat = "v2" }, wantErr: "api.wire_format"},
		{name: "zero transcript cap", mutate: func(c *Config) { c.Capture.MaxTranscriptChars = 0 }, wantErr: "max_transcript_chars"},
		{name: "empty audio format", mutate: func(c *Config) { c.Audio.Format = "" }, wantErr: "audio.format"},
		{name: "http feed url", mutate: func(c *Config) { c.Capture.FeedURL = "http://x/feed" }, wantErr: "capture.feed_url"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)
			_, err := Validate(cfg)
			require.Error(t, err)
			require.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Setenv(APIKeyEnv, "")
	loaded, err := Load(filepath.Join(t.TempDir(), "config.yaml"))
	require.NoError(t, err)
	require.False(t, loaded.Exists)
	require.Equal(t, Default(), loaded.Config)
	require.NotEmpty(t, loaded.Warnings)
	require.Contains(t, loaded.Warnings[0].Message, "not found")
}

func TestLoadExistingFile(t *testing.T) {
	t.Setenv(APIKeyEnv, "")
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "api:\n  base_url: http://10.0.0.2:8000\n  api_key: k\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.True(t, loaded.Exists)
	require.Equal(t, "http://10.0.0.2:8000", loaded.Config.API.BaseURL)
}

func TestResolvePathPrecedence(t *testing.T) {
	explicit, err := ResolvePath("/tmp/custom.yaml")
	require.NoError(t, err)
	require.Equal(t, "/tmp/custom.yaml", explicit)

	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	resolved, err := ResolvePath("")
	require.NoError(t, err)
	require.Equal(t, "/xdg/fraudshield/config.yaml", resolved)
}
