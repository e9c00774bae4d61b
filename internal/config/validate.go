package config

import (
	"fmt"
	"strings"
)

// Validate enforces config invariants and returns non-fatal warnings.
func Validate(cfg Config) ([]Warning, error) {
	warnings := make([]Warning, 0)

	if strings.TrimSpace(cfg.API.BaseURL) == "" {
		return nil, fmt.Errorf("api.base_url must not be empty")
	}
	if !strings.HasPrefix(strings.TrimSpace(cfg.API.AnalyzePath), "/") {
		return nil, fmt.Errorf("api.analyze_path must start with '/'")
	}
	if !strings.HasPrefix(strings.TrimSpace(cfg.API.HealthPath), "/") {
		return nil, fmt.Errorf("api.health_path must start with '/'")
	}
	if cfg.API.TimeoutMS <= 0 {
		return nil, fmt.Errorf("api.timeout_ms must be > 0")
	}

	format := strings.ToLower(strings.TrimSpace(cfg.API.WireFormat))
	if format != "standard" && format != "legacy" {
		return nil, fmt.Errorf("api.wire_format must be one of: standard, legacy")
	}

	if cfg.Capture.MaxTranscriptChars <= 0 {
		return nil, fmt.Errorf("capture.max_transcript_chars must be > 0")
	}
	if strings.TrimSpace(cfg.Audio.Format) == "" {
		return nil, fmt.Errorf("audio.format must not be empty")
	}
	if strings.TrimSpace(cfg.Audio.Language) == "" {
		return nil, fmt.Errorf("audio.language must not be empty")
	}

	if strings.TrimSpace(cfg.API.APIKey) == "" {
		warnings = append(warnings, Warning{
			Message: fmt.Sprintf("api.api_key is empty; the backend may reject requests (set %s)", APIKeyEnv),
		})
	}

	feed := strings.TrimSpace(cfg.Capture.FeedURL)
	if feed != "" && !strings.HasPrefix(feed, "ws://") && !strings.HasPrefix(feed, "wss://") {
		return nil, fmt.Errorf("capture.feed_url must be a ws:// or wss:// URL")
	}

	return warnings, nil
}
