// Package report loads the AI-written weekly wellness report.
package report

import (
	"context"

	"github.com/julianstephens/serene/internal/errors"
	"github.com/julianstephens/serene/internal/logger"
	"github.com/julianstephens/serene/internal/models"
)

type Source interface {
	WeeklyReport(ctx context.Context) (*models.WeeklyReport, error)
}

type Loader struct {
	src Source
}

func NewLoader(src Source) *Loader {
	return &Loader{src: src}
}

// Load returns the weekly report, or nil when there is none to show. A fetch
// failure is treated like a missing report; the error is returned for callers
// that want to mention it.
func (l *Loader) Load(ctx context.Context) (*models.WeeklyReport, error) {
	rep, err := l.src.WeeklyReport(ctx)
	if err != nil {
		logger.Warn("Failed to load weekly report", "error", err)
		return nil, errors.New(errors.KindSourceUnavailable, "weekly report", err)
	}
	if rep == nil {
		logger.Debug("No weekly report available")
	}
	return rep, nil
}
