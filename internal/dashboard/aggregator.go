// Package dashboard assembles the composite dashboard view from three
// independent analytics sources.
package dashboard

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/julianstephens/serene/internal/errors"
	"github.com/julianstephens/serene/internal/logger"
	"github.com/julianstephens/serene/internal/models"
)

// Source is the part of the API client the aggregator reads from.
type Source interface {
	MoodForecast(ctx context.Context) (*models.Forecast, error)
	LatestInsights(ctx context.Context) (*models.Insights, error)
	Streak(ctx context.Context) (int, error)
}

// Authenticator gates refreshes on there being a usable session.
type Authenticator interface {
	Authenticated(ctx context.Context) bool
}

type Aggregator struct {
	src  Source
	auth Authenticator

	mu    sync.RWMutex
	state models.CompositeViewState
}

func New(src Source, auth Authenticator) *Aggregator {
	return &Aggregator{src: src, auth: auth}
}

// State returns a copy of the last assembled view.
func (a *Aggregator) State() models.CompositeViewState {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.state.Clone()
}

// Refresh re-reads all three sources and returns the new view. Each field is
// owned by its own read: a failed read resets only that field. Without a
// session it returns the current view and sends nothing.
func (a *Aggregator) Refresh(ctx context.Context) models.CompositeViewState {
	if a.auth != nil && !a.auth.Authenticated(ctx) {
		logger.Debug("Skipping dashboard refresh, no session")
		return a.State()
	}

	var (
		next models.CompositeViewState
		g    errgroup.Group
	)

	// Goroutines never return an error so one failure cannot cancel the others.
	g.Go(func() error {
		f, err := a.src.MoodForecast(ctx)
		if err != nil {
			logger.Info("Not enough data for forecast yet", "error", classify("mood forecast", err))
			return nil
		}
		next.Forecast = f
		return nil
	})
	g.Go(func() error {
		in, err := a.src.LatestInsights(ctx)
		if err != nil {
			logger.Warn("Failed to fetch insights", "error", classify("latest insights", err))
			return nil
		}
		next.Insights = in
		return nil
	})
	g.Go(func() error {
		n, err := a.src.Streak(ctx)
		if err != nil {
			logger.Warn("Failed to fetch streak", "error", classify("streak", err))
			return nil
		}
		next.Streak = n
		return nil
	})
	_ = g.Wait()

	a.mu.Lock()
	a.state = next
	a.mu.Unlock()

	return next.Clone()
}

func classify(op string, err error) error {
	return errors.New(errors.KindSourceUnavailable, op, err)
}
