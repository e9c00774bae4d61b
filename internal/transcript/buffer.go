// Package transcript maintains the mutable call transcript under analysis.
package transcript

import "strings"

// DefaultMaxChars is the live-capture retention window.
const DefaultMaxChars = 4000

// Buffer accumulates finalized capture segments and manual edits for one
// analysis cycle. Capture appends and manual SetText are both
// authoritative: last writer wins, there is no merge.
type Buffer struct {
	maxChars int
	text     string
}

// NewBuffer constructs a buffer with the given retention cap. A cap of
// zero or less falls back to DefaultMaxChars.
func NewBuffer(maxChars int) *Buffer {
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}
	return &Buffer{maxChars: maxChars}
}

// AppendFinal commits one finalized capture segment. Content beyond the
// retention cap is dropped oldest-first; overflow is never an error.
func (b *Buffer) AppendFinal(segment string) {
	segment = strings.TrimSpace(segment)
	if segment == "" {
		return
	}
	next := strings.TrimSpace(b.text + " " + segment)
	b.text = clampTail(next, b.maxChars)
}

// SetText replaces the buffer wholesale. This is the manual-entry path
// and always succeeds; environments without capture rely on it
// exclusively.
func (b *Buffer) SetText(text string) {
	b.text = clampTail(text, b.maxChars)
}

// Text returns the current buffer content.
func (b *Buffer) Text() string {
	return b.text
}

// Snapshot returns a trimmed copy of the buffer, decoupled from any
// later appends or edits.
func (b *Buffer) Snapshot() string {
	return strings.TrimSpace(b.text)
}

// Empty reports whether the trimmed buffer holds no text.
func (b *Buffer) Empty() bool {
	return strings.TrimSpace(b.text) == ""
}

// Reset clears the buffer for a new cycle.
func (b *Buffer) Reset() {
	b.text = ""
}

// clampTail keeps the newest max characters of text, sliding-window style.
func clampTail(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[len(runes)-max:])
}
