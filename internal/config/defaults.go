package config

// Default returns the canonical runtime configuration used when no file
// is present.
func Default() Config {
	return Config{
		API: APIConfig{
			BaseURL:     "http://localhost:5000",
			AnalyzePath: "/analyze",
			HealthPath:  "/health",
			TimeoutMS:   60000,
			WireFormat:  "standard",
		},
		Capture: CaptureConfig{
			Language:           "en-US",
			MaxTranscriptChars: 4000,
		},
		Audio: AudioConfig{
			Format:   "wav",
			Language: "en",
		},
	}
}
