// Package capture delivers finalized speech segments from an external
// transcription feed.
package capture

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// ErrUnsupported is the non-fatal notice returned when no capture feed
// is available; manual transcript entry remains fully supported.
var ErrUnsupported = errors.New(
	"live speech capture is not available in this environment; type the transcript and run analyze --text instead")

// Config locates the external speech-capture feed.
type Config struct {
	FeedURL     string
	Language    string
	DialTimeout time.Duration
}

// feedEvent is one message from the capture feed. Interim results carry
// final=false and are never committed.
type feedEvent struct {
	Text  string `json:"text"`
	Final bool   `json:"final"`
}

// startMessage subscribes the feed for one capture session.
type startMessage struct {
	Action   string `json:"action"`
	Language string `json:"language,omitempty"`
}

// Source owns one connection to the capture feed and forwards finalized
// segments. Start while capturing is a no-op, Stop is idempotent.
type Source struct {
	cfg    Config
	logger *slog.Logger

	mu        sync.Mutex
	conn      *websocket.Conn
	capturing bool

	segments chan string
}

// New constructs a capture source. The segments channel outlives
// individual start/stop cycles.
func New(cfg Config, logger *slog.Logger) *Source {
	if cfg.DialTimeout <= 0 {
		cfg.DialTimeout = 3 * time.Second
	}
	return &Source{cfg: cfg, logger: logger, segments: make(chan string, 64)}
}

// Supported reports whether a capture feed is configured. Environments
// without one rely on manual entry exclusively.
func (s *Source) Supported() bool {
	return strings.TrimSpace(s.cfg.FeedURL) != ""
}

// Capturing reports whether a capture session is active.
func (s *Source) Capturing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.capturing
}

// Segments returns the finalized-segment stream.
func (s *Source) Segments() <-chan string {
	return s.segments
}

// Start connects to the feed and begins forwarding finalized segments.
// Already-capturing is a no-op; an unconfigured feed returns
// ErrUnsupported rather than failing the session.
func (s *Source) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.capturing {
		return nil
	}
	if !s.Supported() {
		return ErrUnsupported
	}

	dialCtx, cancel := context.WithTimeout(ctx, s.cfg.DialTimeout)
	defer cancel()

	conn, _, err := websocket.DefaultDialer.DialContext(dialCtx, s.cfg.FeedURL, nil)
	if err != nil {
		return fmt.Errorf("dial capture feed %q: %w", s.cfg.FeedURL, err)
	}

	if err := conn.WriteJSON(startMessage{Action: "start", Language: s.cfg.Language}); err != nil {
		_ = conn.Close()
		return fmt.Errorf("subscribe capture feed: %w", err)
	}

	s.conn = conn
	s.capturing = true
	go s.readLoop(conn)
	return nil
}

// Stop ends the capture session. Stopping a never-started source is a
// safe no-op.
func (s *Source) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.capturing || s.conn == nil {
		s.capturing = false
		return nil
	}

	_ = s.conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second),
	)
	_ = s.conn.Close()
	s.conn = nil
	s.capturing = false
	return nil
}

// readLoop forwards finalized segments until the feed ends.
func (s *Source) readLoop(conn *websocket.Conn) {
	defer s.onEnd(conn)

	for {
		var event feedEvent
		if err := conn.ReadJSON(&event); err != nil {
			return
		}
		if !event.Final || strings.TrimSpace(event.Text) == "" {
			continue
		}
		select {
		case s.segments <- event.Text:
		default:
			s.logWarn("capture segment dropped: consumer backlog full")
		}
	}
}

// onEnd clears capture state when the feed closes from either side.
func (s *Source) onEnd(conn *websocket.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == conn {
		_ = s.conn.Close()
		s.conn = nil
		s.capturing = false
	}
}

func (s *Source) logWarn(message string) {
	if s.logger == nil {
		return
	}
	s.logger.Warn(message)
}

// Probe checks feed reachability without starting a session.
func Probe(ctx context.Context, cfg Config) error {
	if strings.TrimSpace(cfg.FeedURL) == "" {
		return ErrUnsupported
	}
	timeout := cfg.DialTimeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	dialCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	conn, _, err := websocket.DefaultDialer.DialContext(dialCtx, cfg.FeedURL, nil)
	if err != nil {
		return fmt.Errorf("capture feed %q unreachable: %w", cfg.FeedURL, err)
	}
	return conn.Close()
}
