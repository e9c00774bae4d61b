// Package session coordinates the capture, submit, and verdict lifecycle.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/fraudshield/fraudshield/internal/analysis"
	"github.com/fraudshield/fraudshield/internal/fsm"
	"github.com/fraudshield/fraudshield/internal/gateway"
	"github.com/fraudshield/fraudshield/internal/ipc"
	"github.com/fraudshield/fraudshield/internal/transcript"
)

type action int

const (
	actionAnalyze action = iota + 1
	actionCancel
)

// CycleResult is the complete output of one analysis cycle.
type CycleResult struct {
	State        fsm.State
	Result       *analysis.Result
	Band         analysis.Band
	AlertPending bool
	Transcript   string
	Cancelled    bool
	Err          error
	StartedAt    time.Time
	FinishedAt   time.Time
}

// Controller orchestrates cycle state transitions and side effects. All
// transitions run to completion on the single Run goroutine; IPC
// handlers only enqueue actions.
type Controller struct {
	logger    *slog.Logger
	analyzer  Analyzer
	recorder  Recorder
	presenter Presenter
	buffer    *transcript.Buffer

	mu      sync.RWMutex
	state   fsm.State
	busy    bool
	lastErr string

	actions chan action
	texts   chan string
}

// NewController constructs a session controller with safe default
// fallbacks.
func NewController(
	logger *slog.Logger,
	analyzer Analyzer,
	recorder Recorder,
	presenter Presenter,
	maxTranscriptChars int,
) *Controller {
	if analyzer == nil {
		analyzer = PlaceholderAnalyzer{}
	}
	if recorder == nil {
		recorder = PlaceholderRecorder{}
	}
	if presenter == nil {
		presenter = noopPresenter{}
	}

	return &Controller{
		logger:    logger,
		analyzer:  analyzer,
		recorder:  recorder,
		presenter: presenter,
		buffer:    transcript.NewBuffer(maxTranscriptChars),
		state:     fsm.StateIdle,
		actions:   make(chan action, 1),
		texts:     make(chan string, 1),
	}
}

// State returns the current lifecycle state snapshot.
func (c *Controller) State() fsm.State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Busy reports whether a submission is outstanding.
func (c *Controller) Busy() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.busy
}

// LastError returns the retained error message for the current cycle.
func (c *Controller) LastError() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastErr
}

// transition applies one lifecycle event to the controller state.
func (c *Controller) transition(event fsm.Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	next, err := fsm.Transition(c.state, event)
	if err != nil {
		return err
	}
	c.state = next
	return nil
}

// beginCycle clears the prior verdict, the error slot, and the
// transcript buffer, then enters capturing.
func (c *Controller) beginCycle() error {
	c.mu.Lock()
	c.lastErr = ""
	c.busy = false
	c.buffer.Reset()
	c.mu.Unlock()
	return c.transition(fsm.EventStart)
}

// Run executes one full cycle: capture until an analyze or cancel
// action arrives, then submit and settle into result or failed.
func (c *Controller) Run(ctx context.Context) CycleResult {
	result := CycleResult{StartedAt: time.Now()}

	if err := c.beginCycle(); err != nil {
		return c.finish(result, err)
	}

	if err := c.recorder.Start(ctx); err != nil {
		// Capture-less environments stay fully usable through typed
		// transcripts, so this is a notice, never a cycle failure.
		c.presenter.ShowNotice(ctx, err.Error())
		c.logWarn("capture unavailable", "error", err.Error())
	}
	c.presenter.ShowCapturing(ctx)

	for {
		select {
		case <-ctx.Done():
			_ = c.recorder.Stop()
			_ = c.transition(fsm.EventReset)
			result.Cancelled = true
			return c.finish(result, ctx.Err())

		case segment := <-c.recorder.Segments():
			c.mu.Lock()
			c.buffer.AppendFinal(segment)
			c.mu.Unlock()

		case text := <-c.texts:
			c.mu.Lock()
			c.buffer.SetText(text)
			c.mu.Unlock()

		case a := <-c.actions:
			switch a {
			case actionCancel:
				_ = c.recorder.Stop()
				_ = c.transition(fsm.EventReset)
				result.Cancelled = true
				return c.finish(result, nil)

			case actionAnalyze:
				c.mu.Lock()
				snapshot := c.buffer.Snapshot()
				c.mu.Unlock()

				if snapshot == "" {
					// Submit transition refused; no network call, the
					// cycle keeps capturing.
					c.setLastError(ErrEmptyTranscript.Error())
					c.presenter.ShowError(ctx, ErrEmptyTranscript.Error())
					continue
				}

				_ = c.recorder.Stop()
				return c.submit(ctx, result, snapshot)

			default:
				_ = c.transition(fsm.EventReset)
				return c.finish(result, fmt.Errorf("unknown action %d", a))
			}
		}
	}
}

// AnalyzeText runs one manual-entry cycle end to end. This is the
// one-shot path for typed transcripts.
func (c *Controller) AnalyzeText(ctx context.Context, text string) CycleResult {
	result := CycleResult{StartedAt: time.Now()}

	if err := c.beginCycle(); err != nil {
		return c.finish(result, err)
	}

	c.mu.Lock()
	c.buffer.SetText(text)
	snapshot := c.buffer.Snapshot()
	c.mu.Unlock()

	if snapshot == "" {
		_ = c.transition(fsm.EventReset)
		c.setLastError(ErrEmptyTranscript.Error())
		c.presenter.ShowError(ctx, ErrEmptyTranscript.Error())
		return c.finish(result, ErrEmptyTranscript)
	}

	return c.submit(ctx, result, snapshot)
}

// submit performs the bounded network attempt and settles the cycle.
// The result record and its alert flag are assigned together; no
// intermediate state exposes one without the other.
func (c *Controller) submit(ctx context.Context, result CycleResult, snapshot string) CycleResult {
	if err := c.transition(fsm.EventSubmit); err != nil {
		return c.finish(result, err)
	}
	c.setBusy(true)
	c.presenter.ShowAnalyzing(ctx)
	result.Transcript = snapshot

	raw, err := c.analyzer.AnalyzeText(ctx, snapshot)
	c.setBusy(false)
	if err != nil {
		_ = c.transition(fsm.EventFail)
		message := DisplayMessage(err)
		c.setLastError(message)
		c.presenter.ShowError(ctx, message)
		return c.finish(result, err)
	}

	normalized := analysis.Normalize(raw, snapshot)
	band := analysis.Classify(normalized.RiskScore)
	if err := c.transition(fsm.EventSucceed); err != nil {
		return c.finish(result, err)
	}

	result.Result = &normalized
	result.Band = band
	result.AlertPending = normalized.AlertRequired
	c.presenter.Present(ctx, normalized, band, normalized.AlertRequired)
	return c.finish(result, nil)
}

// Handle serves IPC commands for the active owner session.
func (c *Controller) Handle(_ context.Context, req ipc.Request) ipc.Response {
	switch req.Command {
	case "status":
		return ipc.Response{OK: true, State: string(c.State()), Message: c.LastError()}
	case "stop", "analyze":
		return c.requestAnalyze()
	case "cancel":
		return c.requestCancel()
	case "text":
		return c.requestText(req.Text)
	default:
		return ipc.Response{OK: false, State: string(c.State()), Error: fmt.Sprintf("unknown command: %s", req.Command)}
	}
}

// requestAnalyze enqueues a stop-and-analyze action when state permits.
// Resubmission while busy is refused, never queued.
func (c *Controller) requestAnalyze() ipc.Response {
	state := c.State()
	if state == fsm.StateSubmitted {
		return ipc.Response{OK: false, State: string(state), Error: "analysis already in progress"}
	}
	if state != fsm.StateCapturing {
		return ipc.Response{OK: false, State: string(state), Error: fmt.Sprintf("cannot analyze from state %s", state)}
	}

	select {
	case c.actions <- actionAnalyze:
		return ipc.Response{OK: true, State: string(state), Message: "analysis requested"}
	default:
		return ipc.Response{OK: true, State: string(state), Message: "analysis already requested"}
	}
}

// requestCancel enqueues a cancel action when state permits it.
func (c *Controller) requestCancel() ipc.Response {
	state := c.State()
	if state == fsm.StateSubmitted {
		return ipc.Response{OK: false, State: string(state), Error: "cannot cancel while analyzing"}
	}
	if state != fsm.StateCapturing {
		return ipc.Response{OK: false, State: string(state), Error: fmt.Sprintf("cannot cancel from state %s", state)}
	}

	select {
	case c.actions <- actionCancel:
		return ipc.Response{OK: true, State: string(state), Message: "cancel requested"}
	default:
		return ipc.Response{OK: true, State: string(state), Message: "cancel already requested"}
	}
}

// requestText applies a manual transcript override. Edits while a
// submission is outstanding are accepted into the buffer but cannot
// touch the in-flight snapshot.
func (c *Controller) requestText(text string) ipc.Response {
	state := c.State()
	if state != fsm.StateCapturing && state != fsm.StateSubmitted {
		return ipc.Response{OK: false, State: string(state), Error: fmt.Sprintf("cannot edit transcript from state %s", state)}
	}

	select {
	case c.texts <- text:
		return ipc.Response{OK: true, State: string(state), Message: "transcript replaced"}
	default:
		return ipc.Response{OK: false, State: string(state), Error: "previous edit still pending"}
	}
}

// finish stamps the terminal snapshot of one cycle.
func (c *Controller) finish(result CycleResult, err error) CycleResult {
	result.State = c.State()
	result.Err = err
	result.FinishedAt = time.Now()
	return result
}

func (c *Controller) setBusy(busy bool) {
	c.mu.Lock()
	c.busy = busy
	c.mu.Unlock()
}

func (c *Controller) setLastError(message string) {
	c.mu.Lock()
	c.lastErr = message
	c.mu.Unlock()
}

func (c *Controller) logWarn(message string, fields ...any) {
	if c.logger == nil {
		return
	}
	c.logger.Warn(message, fields...)
}

// DisplayMessage maps gateway failures onto user-facing copy; backend
// messages pass through verbatim when available.
func DisplayMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, gateway.ErrTimeout):
		return "The analysis request timed out. Please try again."
	case errors.Is(err, gateway.ErrUnreachable):
		return "Unable to reach the fraud analysis backend. Check your connection and try again."
	}

	var backendErr *gateway.BackendError
	if errors.As(err, &backendErr) {
		return backendErr.Message
	}
	return err.Error()
}
