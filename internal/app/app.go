package app

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fraudshield/fraudshield/internal/analysis"
	"github.com/fraudshield/fraudshield/internal/capture"
	"github.com/fraudshield/fraudshield/internal/cli"
	"github.com/fraudshield/fraudshield/internal/config"
	"github.com/fraudshield/fraudshield/internal/doctor"
	"github.com/fraudshield/fraudshield/internal/gateway"
	"github.com/fraudshield/fraudshield/internal/ipc"
	"github.com/fraudshield/fraudshield/internal/logging"
	"github.com/fraudshield/fraudshield/internal/render"
	"github.com/fraudshield/fraudshield/internal/session"
	"github.com/fraudshield/fraudshield/internal/version"
)

type Runner struct {
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger
}

func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	r := Runner{Stdout: stdout, Stderr: stderr}
	return r.Execute(ctx, args)
}

func (r Runner) Execute(ctx context.Context, args []string) int {
	parsed, err := cli.Parse(args)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n\n", err)
		fmt.Fprint(r.Stderr, cli.HelpText("fraudshield"))
		return 2
	}

	if parsed.ShowHelp {
		fmt.Fprint(r.Stdout, cli.HelpText("fraudshield"))
		return 0
	}

	if parsed.Command == cli.CommandVersion {
		fmt.Fprintln(r.Stdout, version.String())
		return 0
	}

	logRuntime, err := logging.New()
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: setup logging: %v\n", err)
		return 1
	}
	defer func() { _ = logRuntime.Close() }()

	logger := r.Logger
	if logger == nil {
		logger = logRuntime.Logger
	}

	cfgLoaded, err := config.Load(parsed.ConfigPath)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		logger.Error("load config failed", "error", err.Error())
		return 1
	}
	for _, w := range cfgLoaded.Warnings {
		fmt.Fprintf(r.Stderr, "warning: %s\n", w.Message)
		logger.Warn("config warning", "message", w.Message)
	}

	logger.Info("command start",
		"command", parsed.Command,
		"config", cfgLoaded.Path,
		"log", logRuntime.Path,
	)

	switch parsed.Command {
	case cli.CommandDoctor:
		report := doctor.Run(ctx, cfgLoaded)
		fmt.Fprintln(r.Stdout, report.String())
		if report.OK() {
			return 0
		}
		return 1
	case cli.CommandStatus:
		return r.commandStatus(ctx)
	case cli.CommandStop:
		return r.forwardOrFail(ctx, "stop")
	case cli.CommandCancel:
		return r.forwardOrFail(ctx, "cancel")
	case cli.CommandAnalyze:
		return r.commandAnalyze(ctx, parsed, cfgLoaded.Config, logger)
	case cli.CommandListen:
		return r.commandListen(ctx, cfgLoaded.Config, logger)
	default:
		fmt.Fprintf(r.Stderr, "error: unsupported command %q\n", parsed.Command)
		return 2
	}
}

func (r Runner) commandStatus(ctx context.Context) int {
	socketPath, err := ipc.RuntimeSocketPath()
	if err != nil {
		fmt.Fprintln(r.Stdout, "idle")
		return 0
	}

	resp, handled, err := tryForward(ctx, socketPath, ipc.Request{Command: "status"})
	if handled {
		if err != nil {
			fmt.Fprintf(r.Stderr, "error: %v\n", err)
			return 1
		}
		if resp.State == "" {
			resp.State = "idle"
		}
		fmt.Fprintln(r.Stdout, resp.State)
		return 0
	}

	fmt.Fprintln(r.Stdout, "idle")
	return 0
}

func (r Runner) forwardOrFail(ctx context.Context, command string) int {
	socketPath, err := ipc.RuntimeSocketPath()
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}

	resp, handled, err := tryForward(ctx, socketPath, ipc.Request{Command: command})
	if !handled {
		fmt.Fprintf(r.Stderr, "error: no active fraudshield session\n")
		return 1
	}
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}
	if resp.Message != "" {
		fmt.Fprintln(r.Stdout, resp.Message)
	}
	return 0
}

// commandAnalyze runs one standalone analysis cycle against the backend
// without an owning listen session.
func (r Runner) commandAnalyze(ctx context.Context, parsed cli.Parsed, cfg config.Config, logger *slog.Logger) int {
	client := newGateway(cfg, logger)
	presenter := render.NewTerminal(r.Stdout)

	if parsed.Text != "" {
		controller := session.NewController(logger, client, nil, presenter, cfg.Capture.MaxTranscriptChars)
		result := controller.AnalyzeText(ctx, parsed.Text)
		return r.settle(logger, result)
	}

	req, err := buildAudioRequest(parsed, cfg)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}

	started := time.Now()
	presenter.ShowAnalyzing(ctx)
	raw, err := client.AnalyzeAudio(ctx, req)
	if err != nil {
		message := session.DisplayMessage(err)
		presenter.ShowError(ctx, message)
		logger.Error("audio analysis failed", "error", err.Error(), "duration_ms", time.Since(started).Milliseconds())
		return 1
	}

	normalized := analysis.Normalize(raw, "")
	band := analysis.Classify(normalized.RiskScore)
	presenter.Present(ctx, normalized, band, normalized.AlertRequired)
	logger.Info("audio analysis complete",
		"band", band.String(),
		"alert", normalized.AlertRequired,
		"duration_ms", time.Since(started).Milliseconds(),
	)
	return 0
}

// buildAudioRequest encodes a local file or passes a remote URL through.
func buildAudioRequest(parsed cli.Parsed, cfg config.Config) (gateway.AudioRequest, error) {
	req := gateway.AudioRequest{
		Format:   cfg.Audio.Format,
		Language: cfg.Audio.Language,
	}

	if parsed.AudioURL != "" {
		req.URL = parsed.AudioURL
		return req, nil
	}

	data, err := os.ReadFile(parsed.FilePath)
	if err != nil {
		return gateway.AudioRequest{}, fmt.Errorf("read audio file: %w", err)
	}
	req.Base64 = base64.StdEncoding.EncodeToString(data)

	if ext := strings.TrimPrefix(filepath.Ext(parsed.FilePath), "."); ext != "" {
		req.Format = strings.ToLower(ext)
	}
	return req, nil
}

// commandListen claims the session socket and runs capture cycles until
// the context ends. Each settled cycle rolls straight into a new one.
func (r Runner) commandListen(ctx context.Context, cfg config.Config, logger *slog.Logger) int {
	socketPath, err := ipc.RuntimeSocketPath()
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}

	listener, err := ipc.Acquire(ctx, socketPath, 180*time.Millisecond, 8)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}
	defer func() {
		_ = listener.Close()
		_ = os.Remove(socketPath)
	}()

	client := newGateway(cfg, logger)
	recorder := capture.New(capture.Config{
		FeedURL:  cfg.Capture.FeedURL,
		Language: cfg.Capture.Language,
	}, logger)
	presenter := render.NewTerminal(r.Stdout)
	controller := session.NewController(logger, client, recorder, presenter, cfg.Capture.MaxTranscriptChars)

	serverCtx, serverCancel := context.WithCancel(ctx)
	defer serverCancel()

	serverErrCh := make(chan error, 1)
	go func() {
		serverErrCh <- ipc.Serve(serverCtx, listener, controller)
	}()

	for {
		result := controller.Run(ctx)
		logCycleResult(logger, result)

		if ctx.Err() != nil {
			fmt.Fprintln(r.Stdout, "stopped")
			break
		}
		if result.Err != nil && !result.Cancelled {
			// Failed cycles report but keep the session alive; the next
			// cycle starts clean.
			fmt.Fprintf(r.Stderr, "error: %v\n", session.DisplayMessage(result.Err))
		}
	}

	serverCancel()
	if serverErr := <-serverErrCh; serverErr != nil {
		fmt.Fprintf(r.Stderr, "error: ipc server failed: %v\n", serverErr)
		return 1
	}
	return 0
}

// settle prints the terminal outcome of a one-shot cycle.
func (r Runner) settle(logger *slog.Logger, result session.CycleResult) int {
	logCycleResult(logger, result)

	if result.Cancelled {
		fmt.Fprintln(r.Stdout, "cancelled")
		return 0
	}
	if result.Err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", session.DisplayMessage(result.Err))
		return 1
	}
	return 0
}

func newGateway(cfg config.Config, logger *slog.Logger) *gateway.Client {
	return gateway.New(gateway.Config{
		BaseURL:     cfg.API.BaseURL,
		AnalyzePath: cfg.API.AnalyzePath,
		HealthPath:  cfg.API.HealthPath,
		APIKey:      cfg.API.APIKey,
		Timeout:     time.Duration(cfg.API.TimeoutMS) * time.Millisecond,
		WireFormat:  cfg.API.WireFormat,
	}, logger)
}

func logCycleResult(logger *slog.Logger, result session.CycleResult) {
	if logger == nil {
		return
	}
	fields := []any{
		"state", result.State,
		"cancelled", result.Cancelled,
		"started_at", result.StartedAt.Format(time.RFC3339Nano),
		"finished_at", result.FinishedAt.Format(time.RFC3339Nano),
		"duration_ms", result.FinishedAt.Sub(result.StartedAt).Milliseconds(),
		"transcript_length", len(result.Transcript),
	}
	if result.Result != nil {
		fields = append(fields,
			"risk_score", result.Result.RiskScore,
			"band", result.Band.String(),
			"alert", result.AlertPending,
		)
	}

	if result.Err != nil {
		logger.Error("cycle failed", append(fields, "error", result.Err.Error())...)
		return
	}
	logger.Info("cycle complete", fields...)
}

func tryForward(ctx context.Context, socketPath string, req ipc.Request) (ipc.Response, bool, error) {
	resp, err := ipc.Send(ctx, socketPath, req, 220*time.Millisecond)
	if err == nil {
		if resp.OK {
			return resp, true, nil
		}
		return resp, true, errors.New(resp.Error)
	}

	if isSocketMissing(err) {
		return ipc.Response{}, false, nil
	}
	if isConnectionRefused(err) {
		return ipc.Response{}, false, nil
	}

	return ipc.Response{}, true, fmt.Errorf("forward command %q: %w", req.Command, err)
}

func isSocketMissing(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, os.ErrNotExist) ||
		strings.Contains(err.Error(), "no such file or directory")
}

func isConnectionRefused(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, syscall.ECONNREFUSED)
}
