// Package doctor runs runtime readiness diagnostics for config, the analysis backend, and the capture feed.
package doctor

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fraudshield/fraudshield/internal/capture"
	"github.com/fraudshield/fraudshield/internal/config"
	"github.com/fraudshield/fraudshield/internal/gateway"
)

// Check is one doctor assertion result.
type Check struct {
	Name    string
	Pass    bool
	Message string
}

// Report is the full doctor output contract.
type Report struct {
	Checks []Check
}

// OK returns true when all checks pass.
func (r Report) OK() bool {
	for _, check := range r.Checks {
		if !check.Pass {
			return false
		}
	}
	return true
}

// String renders the report as user-facing text output.
func (r Report) String() string {
	var b strings.Builder
	for _, check := range r.Checks {
		status := "OK"
		if !check.Pass {
			status = "FAIL"
		}
		b.WriteString(fmt.Sprintf("[%s] %s: %s\n", status, check.Name, check.Message))
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// Run executes environment/config/runtime checks for a loaded config.
func Run(ctx context.Context, cfg config.Loaded) Report {
	checks := []Check{}

	checks = append(checks, checkConfig(cfg))
	checks = append(checks, checkAPIKey(cfg.Config))
	checks = append(checks, checkBackend(ctx, cfg.Config))
	checks = append(checks, checkCaptureFeed(ctx, cfg.Config))

	return Report{Checks: checks}
}

func checkConfig(cfg config.Loaded) Check {
	message := fmt.Sprintf("loaded %q", cfg.Path)
	if !cfg.Exists {
		message = fmt.Sprintf("%q not found, using defaults", cfg.Path)
	}
	if len(cfg.Warnings) > 0 {
		notes := make([]string, 0, len(cfg.Warnings))
		for _, w := range cfg.Warnings {
			notes = append(notes, w.Message)
		}
		message = message + " (" + strings.Join(notes, "; ") + ")"
	}
	return Check{Name: "config", Pass: true, Message: message}
}

func checkAPIKey(cfg config.Config) Check {
	if strings.TrimSpace(cfg.API.APIKey) == "" {
		return Check{
			Name:    "api.key",
			Pass:    false,
			Message: fmt.Sprintf("api_key is empty; set api.api_key or %s", config.APIKeyEnv),
		}
	}
	return Check{Name: "api.key", Pass: true, Message: "api key configured"}
}

// checkBackend probes the analysis backend health endpoint.
func checkBackend(ctx context.Context, cfg config.Config) Check {
	client := gateway.New(gateway.Config{
		BaseURL:     cfg.API.BaseURL,
		AnalyzePath: cfg.API.AnalyzePath,
		HealthPath:  cfg.API.HealthPath,
		APIKey:      cfg.API.APIKey,
		Timeout:     time.Duration(cfg.API.TimeoutMS) * time.Millisecond,
		WireFormat:  cfg.API.WireFormat,
	}, nil)

	if err := client.CheckHealth(ctx); err != nil {
		return Check{Name: "backend.health", Pass: false, Message: err.Error()}
	}
	return Check{Name: "backend.health", Pass: true, Message: fmt.Sprintf("reachable at %s", cfg.API.BaseURL)}
}

// checkCaptureFeed dials the transcript feed when one is configured.
func checkCaptureFeed(ctx context.Context, cfg config.Config) Check {
	feed := strings.TrimSpace(cfg.Capture.FeedURL)
	if feed == "" {
		return Check{Name: "capture.feed", Pass: true, Message: "no capture feed configured, manual entry only"}
	}

	err := capture.Probe(ctx, capture.Config{
		FeedURL:  feed,
		Language: cfg.Capture.Language,
	})
	if err != nil {
		return Check{Name: "capture.feed", Pass: false, Message: fmt.Sprintf("dial failed: %v", err)}
	}
	return Check{Name: "capture.feed", Pass: true, Message: fmt.Sprintf("reachable at %s", feed)}
}
