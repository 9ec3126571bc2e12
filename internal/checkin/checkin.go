// Package checkin manages the daily check-in form and its submission.
package checkin

import (
	"context"
	"sync"

	"github.com/julianstephens/serene/internal/errors"
	"github.com/julianstephens/serene/internal/logger"
	"github.com/julianstephens/serene/internal/models"
)

const (
	MessageSaved  = "Check-in saved successfully!"
	MessageFailed = "Failed to save check-in."
)

type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusSuccess
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "idle"
	}
}

type Backend interface {
	CreateCheckin(ctx context.Context, draft models.CheckinDraft) (*models.CheckinReceipt, error)
}

// Refresher is notified after a check-in is saved so derived views catch up.
type Refresher interface {
	Refresh(ctx context.Context) models.CompositeViewState
}

type Controller struct {
	backend   Backend
	refresher Refresher

	mu      sync.Mutex
	draft   models.CheckinDraft
	status  Status
	message string
}

// New returns a controller with the default draft. refresher may be nil.
func New(backend Backend, refresher Refresher) *Controller {
	return &Controller{
		backend:   backend,
		refresher: refresher,
		draft:     models.DefaultDraft(),
	}
}

func (c *Controller) Draft() models.CheckinDraft {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft
}

func (c *Controller) SetDraft(d models.CheckinDraft) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft = d
}

// Status returns the outcome of the last submission and its user-facing message.
func (c *Controller) Status() (Status, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status, c.message
}

// Submit validates and saves the current draft. On success the draft is reset
// and the refresher triggered; on failure the draft is kept for another try.
func (c *Controller) Submit(ctx context.Context) error {
	c.mu.Lock()
	draft := c.draft
	if err := draft.Validate(); err != nil {
		c.status, c.message = StatusError, err.Error()
		c.mu.Unlock()
		return err
	}
	c.status, c.message = StatusLoading, ""
	c.mu.Unlock()

	receipt, err := c.backend.CreateCheckin(ctx, draft)

	c.mu.Lock()
	if err != nil {
		c.status, c.message = StatusError, MessageFailed
		c.mu.Unlock()
		logger.Warn("Failed to save check-in", "error", err)
		return errors.New(errors.KindMutationFailed, "save check-in", err)
	}
	c.status, c.message = StatusSuccess, MessageSaved
	c.draft = models.DefaultDraft()
	c.mu.Unlock()

	logger.Info("Check-in saved", "id", receipt.ID)

	if c.refresher != nil {
		c.refresher.Refresh(ctx)
	}
	return nil
}
