// Package journal keeps the visible journal list in step with the backend,
// showing new entries before the server has confirmed them.
package journal

import (
	"context"
	stderrors "errors"
	"strings"
	"sync"
	"time"

	"github.com/julianstephens/serene/internal/errors"
	"github.com/julianstephens/serene/internal/logger"
	"github.com/julianstephens/serene/internal/models"
)

var (
	ErrEmptyContent = stderrors.New("journal entry is empty")
	ErrNotDeletable = stderrors.New("entry has not been saved yet")
	ErrNotFound     = stderrors.New("journal entry not found")
	ErrCancelled    = stderrors.New("deletion cancelled")
)

// Backend is the part of the API client the controller needs.
type Backend interface {
	ListJournal(ctx context.Context) ([]models.JournalEntry, error)
	CreateJournal(ctx context.Context, content string) (*models.JournalEntry, error)
	DeleteJournal(ctx context.Context, serverID int64) error
}

// Confirmer is the yes/no gate in front of a delete.
type Confirmer interface {
	Confirm(ctx context.Context, entry models.JournalEntry) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, entry models.JournalEntry) (bool, error)

func (f ConfirmFunc) Confirm(ctx context.Context, entry models.JournalEntry) (bool, error) {
	return f(ctx, entry)
}

type Option func(*Controller)

// WithClock overrides the time source used for speculative ids and timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

type Controller struct {
	backend Backend
	now     func() time.Time

	mu        sync.Mutex
	state     State
	composer  string
	lastLocal int64
	listeners []func(State)
}

func New(backend Backend, opts ...Option) *Controller {
	c := &Controller{backend: backend, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// OnChange registers fn to be called with a copy of the state after every change.
func (c *Controller) OnChange(fn func(State)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, fn)
}

func (c *Controller) SetComposer(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.composer = text
}

func (c *Controller) Composer() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.composer
}

// Entries returns a copy of the visible list.
func (c *Controller) Entries() []models.JournalEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.JournalEntry(nil), c.state.Entries...)
}

// Find returns the visible entry with the given identity.
func (c *Controller) Find(id models.EntryID) (models.JournalEntry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, e := range c.state.Entries {
		if sameID(e.ID, id) {
			return e, true
		}
	}
	return models.JournalEntry{}, false
}

// Load replaces the visible list with the server's. On failure the list is left as is.
func (c *Controller) Load(ctx context.Context) error {
	feed, err := c.backend.ListJournal(ctx)
	if err != nil {
		logger.Warn("Failed to load journal", "error", err)
		return errors.New(errors.KindSourceUnavailable, "load journal", err)
	}
	c.apply(Load{Canonical: Canonical(feed)})
	return nil
}

// Create submits the composer's content. The entry is shown immediately and
// the composer cleared; on failure the entry is withdrawn and the text is not
// restored.
func (c *Controller) Create(ctx context.Context) error {
	s, err := c.Begin()
	if err != nil {
		return err
	}
	return s.Complete(ctx)
}

// Submission is a create whose speculative entry is visible but not yet sent.
type Submission struct {
	c       *Controller
	local   int64
	content string
}

// Local returns the speculative identity's local id.
func (s *Submission) Local() int64 { return s.local }

// Begin takes the composer's content, appends it as a speculative entry and
// clears the composer. Nothing is sent until Complete.
func (c *Controller) Begin() (*Submission, error) {
	c.mu.Lock()
	content := c.composer
	if strings.TrimSpace(content) == "" {
		c.mu.Unlock()
		return nil, ErrEmptyContent
	}

	now := c.now()
	local := now.UnixMilli()
	if local <= c.lastLocal {
		local = c.lastLocal + 1
	}
	c.lastLocal = local

	c.state = Apply(c.state, Speculate{Entry: models.JournalEntry{
		ID:           models.SpeculativeID(local),
		Type:         models.EntryTypeJournal,
		Content:      content,
		Timestamp:    now,
		IsOptimistic: true,
	}})
	c.composer = ""
	c.unlockAndNotify()

	return &Submission{c: c, local: local, content: content}, nil
}

// Complete sends the create and then either commits the server's list or
// rolls the speculative entry back. A KindSourceUnavailable error means the
// server kept the entry but the list could not be fetched.
func (s *Submission) Complete(ctx context.Context) error {
	c := s.c

	if _, err := c.backend.CreateJournal(ctx, s.content); err != nil {
		logger.Warn("Failed to create journal entry", "local_id", s.local, "error", err)
		c.apply(Rollback{Local: s.local})
		return errors.New(errors.KindMutationFailed, "create journal entry", err)
	}

	feed, err := c.backend.ListJournal(ctx)
	if err != nil {
		logger.Warn("Failed to refresh journal after create", "local_id", s.local, "error", err)
		c.apply(Rollback{Local: s.local})
		return errors.New(errors.KindSourceUnavailable, "journal entry saved, but could not refresh", err)
	}

	c.apply(Commit{Local: s.local, Canonical: Canonical(feed)})
	return nil
}

// Delete removes a confirmed entry after confirm approves it. A nil confirm
// counts as declined.
func (c *Controller) Delete(ctx context.Context, id models.EntryID, confirm Confirmer) error {
	entry, ok := c.Find(id)
	if !ok {
		return ErrNotFound
	}
	if !DeleteAffordance(entry) {
		return ErrNotDeletable
	}

	if confirm == nil {
		return ErrCancelled
	}
	approved, err := confirm.Confirm(ctx, entry)
	if err != nil {
		return err
	}
	if !approved {
		return ErrCancelled
	}

	if err := c.backend.DeleteJournal(ctx, entry.ID.Server); err != nil {
		logger.Warn("Failed to delete journal entry", "id", entry.ID.String(), "error", err)
		return errors.New(errors.KindMutationFailed, "delete journal entry", err)
	}

	c.apply(Remove{ID: entry.ID})
	return nil
}

func (c *Controller) apply(t Transition) {
	c.mu.Lock()
	c.state = Apply(c.state, t)
	c.unlockAndNotify()
}

// unlockAndNotify must be called with c.mu held; it releases it before calling listeners.
func (c *Controller) unlockAndNotify() {
	snapshot := State{Entries: append([]models.JournalEntry(nil), c.state.Entries...)}
	listeners := append([]func(State)(nil), c.listeners...)
	c.mu.Unlock()

	for _, fn := range listeners {
		fn(snapshot)
	}
}
