// Package config resolves, parses, validates, and defaults fraudshield
// configuration.
package config

// Config is the fully materialized runtime configuration.
type Config struct {
	API     APIConfig     `yaml:"api"`
	Capture CaptureConfig `yaml:"capture"`
	Audio   AudioConfig   `yaml:"audio"`
}

// APIConfig locates and authenticates against the analysis backend.
type APIConfig struct {
	BaseURL     string `yaml:"base_url"`
	AnalyzePath string `yaml:"analyze_path"`
	HealthPath  string `yaml:"health_path"`
	APIKey      string `yaml:"api_key"`
	TimeoutMS   int    `yaml:"timeout_ms"`
	WireFormat  string `yaml:"wire_format"`
}

// CaptureConfig controls the live speech capture feed.
type CaptureConfig struct {
	FeedURL            string `yaml:"feed_url"`
	Language           string `yaml:"language"`
	MaxTranscriptChars int    `yaml:"max_transcript_chars"`
}

// AudioConfig controls defaults for uploaded/linked audio analysis.
type AudioConfig struct {
	Format   string `yaml:"format"`
	Language string `yaml:"language"`
}

// Warning is a non-fatal parse/validation message.
type Warning struct {
	Message string
}
