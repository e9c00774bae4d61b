// Package render writes analysis verdicts and lifecycle notices to the
// terminal.
package render

import (
	"context"
	"fmt"
	"io"
	"math"
	"strings"
	"sync"

	"github.com/fraudshield/fraudshield/internal/analysis"
)

// bannerText is the per-band advisory line. Band severity is cosmetic;
// the alert block below is driven only by the alert flag.
func bannerText(band analysis.Band) string {
	switch band {
	case analysis.BandHigh:
		return "High risk detected. Consider ending this call immediately."
	case analysis.BandMedium:
		return "Medium risk detected. Please exercise caution."
	default:
		return "Low risk detected. Stay vigilant."
	}
}

// Terminal renders session output to a single writer.
type Terminal struct {
	mu  sync.Mutex
	out io.Writer
}

// NewTerminal constructs a terminal presenter.
func NewTerminal(out io.Writer) *Terminal {
	return &Terminal{out: out}
}

func (t *Terminal) ShowCapturing(context.Context) {
	t.writeLine("listening... speak now, then run `fraudshield stop` to analyze")
}

func (t *Terminal) ShowAnalyzing(context.Context) {
	t.writeLine("analyzing transcript...")
}

func (t *Terminal) ShowNotice(_ context.Context, message string) {
	t.writeLine("notice: " + message)
}

func (t *Terminal) ShowError(_ context.Context, message string) {
	t.writeLine("error: " + message)
}

// Present renders one normalized verdict with its band and, when the
// alert flag is raised, an interrupt-style alert block.
func (t *Terminal) Present(_ context.Context, result analysis.Result, band analysis.Band, alertPending bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	var b strings.Builder

	if alertPending {
		b.WriteString("!! POTENTIAL FRAUD DETECTED !!\n")
	}

	percentage := int(math.Round(result.RiskScore * 100))
	fmt.Fprintf(&b, "risk: %d%% [%s]\n", percentage, band)
	b.WriteString(bannerText(band) + "\n")
	fmt.Fprintf(&b, "verdict: %s\n", result.Verdict)
	fmt.Fprintf(&b, "explanation: %s\n", result.Explanation)

	if len(result.MatchedKeywords) > 0 {
		fmt.Fprintf(&b, "matched keywords: %s\n", strings.Join(result.MatchedKeywords, ", "))
	} else {
		b.WriteString("no specific suspicious keywords were highlighted\n")
	}

	if result.ServerTranscript != "" {
		fmt.Fprintf(&b, "server transcript: %s\n", result.ServerTranscript)
	}
	if result.Acoustics != nil {
		fmt.Fprintf(&b, "acoustics: %.1f dB avg, %d%% silence\n",
			result.Acoustics.AvgDB, int(math.Round(result.Acoustics.SilenceRatio*100)))
	}

	_, _ = io.WriteString(t.out, b.String())
}

func (t *Terminal) writeLine(line string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, _ = io.WriteString(t.out, line+"\n")
}
