package session

import (
	"context"

	"github.com/fraudshield/fraudshield/internal/analysis"
)

// Presenter is the session-facing subset of presentation behavior. All
// rendering decisions live behind it.
type Presenter interface {
	ShowCapturing(context.Context)
	ShowAnalyzing(context.Context)
	ShowNotice(context.Context, string)
	ShowError(context.Context, string)
	Present(ctx context.Context, result analysis.Result, band analysis.Band, alertPending bool)
}

// noopPresenter preserves session flow when no presenter is wired.
type noopPresenter struct{}

func (noopPresenter) ShowCapturing(context.Context)                                    {}
func (noopPresenter) ShowAnalyzing(context.Context)                                    {}
func (noopPresenter) ShowNotice(context.Context, string)                               {}
func (noopPresenter) ShowError(context.Context, string)                                {}
func (noopPresenter) Present(context.Context, analysis.Result, analysis.Band, bool) {}
