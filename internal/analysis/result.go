// Package analysis normalizes backend fraud verdicts and derives risk bands.
package analysis

// Acoustics carries optional voice-signal measurements returned by the
// audio-capable deployment.
type Acoustics struct {
	AvgDB        float64
	SilenceRatio float64
}

// Result is the canonical analysis record. It is produced whole by
// Normalize and never patched afterwards.
type Result struct {
	RiskScore        float64
	Verdict          string
	Explanation      string
	MatchedKeywords  []string
	AlertRequired    bool
	SourceTranscript string

	// ServerTranscript and Acoustics are only populated by the audio
	// deployment, which transcribes server-side.
	ServerTranscript string
	Acoustics        *Acoustics
}

const (
	VerdictFraud = "Fraud Likely"
	VerdictSafe  = "Safe Conversation"

	defaultExplanation = "No explanation available"
)
