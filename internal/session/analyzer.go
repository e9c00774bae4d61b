package session

import (
	"context"
	"errors"
)

var (
	// ErrEmptyTranscript refuses submission before any network call is
	// made; recovery is local to the current cycle.
	ErrEmptyTranscript = errors.New("transcript is empty; speak or type text before analyzing")
	// ErrAnalyzerUnavailable indicates runtime gateway wiring is missing.
	ErrAnalyzerUnavailable = errors.New("analysis gateway not configured")
)

// Analyzer abstracts the request gateway consumed by orchestration.
type Analyzer interface {
	AnalyzeText(ctx context.Context, text string) ([]byte, error)
}

// AnalyzerFunc adapts a function to the Analyzer interface.
type AnalyzerFunc func(ctx context.Context, text string) ([]byte, error)

func (f AnalyzerFunc) AnalyzeText(ctx context.Context, text string) ([]byte, error) {
	return f(ctx, text)
}

// PlaceholderAnalyzer is a no-op fallback used in tests and degraded
// wiring.
type PlaceholderAnalyzer struct{}

func (PlaceholderAnalyzer) AnalyzeText(context.Context, string) ([]byte, error) {
	return nil, ErrAnalyzerUnavailable
}

// Recorder abstracts the transcript capture source.
type Recorder interface {
	Start(context.Context) error
	Stop() error
	Supported() bool
	Segments() <-chan string
}

// PlaceholderRecorder reports capture as unavailable; manual entry
// remains the only input path.
type PlaceholderRecorder struct{}

func (PlaceholderRecorder) Start(context.Context) error { return errCaptureUnavailable }
func (PlaceholderRecorder) Stop() error                 { return nil }
func (PlaceholderRecorder) Supported() bool             { return false }
func (PlaceholderRecorder) Segments() <-chan string     { return nil }

var errCaptureUnavailable = errors.New("speech capture not wired; transcript must be typed")
