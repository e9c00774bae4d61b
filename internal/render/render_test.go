package render

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fraudshield/fraudshield/internal/analysis"
)

func TestPresentFraudResultWithAlert(t *testing.T) {
	var out bytes.Buffer
	term := NewTerminal(&out)

	result := analysis.Result{
		RiskScore:       0.92,
		Verdict:         "Fraud Likely",
		Explanation:     "requested SSN",
		MatchedKeywords: []string{"social security", "urgent"},
		AlertRequired:   true,
	}
	term.Present(context.Background(), result, analysis.BandHigh, true)

	text := out.String()
	require.Contains(t, text, "POTENTIAL FRAUD DETECTED")
	require.Contains(t, text, "risk: 92% [HIGH]")
	require.Contains(t, text, "High risk detected. Consider ending this call immediately.")
	require.Contains(t, text, "verdict: Fraud Likely")
	require.Contains(t, text, "explanation: requested SSN")
	require.Contains(t, text, "matched keywords: social security, urgent")
}

func TestPresentSafeResultWithoutAlert(t *testing.T) {
	var out bytes.Buffer
	term := NewTerminal(&out)

	result := analysis.Result{
		RiskScore:       0.0,
		Verdict:         "Safe Conversation",
		Explanation:     "No explanation available",
		MatchedKeywords: []string{},
	}
	term.Present(context.Background(), result, analysis.BandLow, false)

	text := out.String()
	require.NotContains(t, text, "POTENTIAL FRAUD DETECTED")
	require.Contains(t, text, "risk: 0% [LOW]")
	require.Contains(t, text, "Low risk detected. Stay vigilant.")
	require.Contains(t, text, "no specific suspicious keywords were highlighted")
}

func TestPresentHighBandWithoutAlertOmitsAlertBlock(t *testing.T) {
	var out bytes.Buffer
	term := NewTerminal(&out)

	// Band drives severity copy only; the alert block follows the flag.
	result := analysis.Result{RiskScore: 0.95, Verdict: "Safe Conversation", Explanation: "n/a"}
	term.Present(context.Background(), result, analysis.BandHigh, false)

	text := out.String()
	require.NotContains(t, text, "POTENTIAL FRAUD DETECTED")
	require.Contains(t, text, "[HIGH]")
}

func TestPresentAudioDeploymentExtras(t *testing.T) {
	var out bytes.Buffer
	term := NewTerminal(&out)

	result := analysis.Result{
		RiskScore:        0.85,
		Verdict:          "Fraud Likely",
		Explanation:      "urgency language",
		ServerTranscript: "send the otp now",
		Acoustics:        &analysis.Acoustics{AvgDB: -8.5, SilenceRatio: 0.03},
	}
	term.Present(context.Background(), result, analysis.BandHigh, true)

	text := out.String()
	require.Contains(t, text, "server transcript: send the otp now")
	require.Contains(t, text, "acoustics: -8.5 dB avg, 3% silence")
}

func TestLifecycleLines(t *testing.T) {
	var out bytes.Buffer
	term := NewTerminal(&out)

	term.ShowCapturing(context.Background())
	term.ShowAnalyzing(context.Background())
	term.ShowNotice(context.Background(), "capture unavailable")
	term.ShowError(context.Background(), "transcript is empty")

	text := out.String()
	require.Contains(t, text, "listening...")
	require.Contains(t, text, "analyzing transcript...")
	require.Contains(t, text, "notice: capture unavailable")
	require.Contains(t, text, "error: transcript is empty")
}
