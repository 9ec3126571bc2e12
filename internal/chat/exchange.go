// Package chat runs the turn-by-turn conversation with the assistant.
package chat

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/julianstephens/serene/internal/errors"
	"github.com/julianstephens/serene/internal/logger"
	"github.com/julianstephens/serene/internal/models"
)

const (
	DefaultReplyDelay = 800 * time.Millisecond
	DefaultFallback   = "Sorry, I am having trouble connecting right now."
)

// Sender delivers one user message and returns the assistant's reply.
type Sender interface {
	SendChat(ctx context.Context, message string) (string, error)
}

type Option func(*Exchange)

// WithReplyDelay sets the pause between receiving a reply and showing it.
func WithReplyDelay(d time.Duration) Option {
	return func(e *Exchange) { e.delay = d }
}

// WithSleep replaces the function used to wait out the reply delay.
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(e *Exchange) { e.sleep = sleep }
}

// WithFallback sets the assistant turn shown when a request fails.
func WithFallback(text string) Option {
	return func(e *Exchange) { e.fallback = text }
}

// Exchange holds the conversation. Submissions may overlap; each reply is
// appended only after the replies of all earlier submissions.
type Exchange struct {
	sender   Sender
	delay    time.Duration
	sleep    func(ctx context.Context, d time.Duration) error
	fallback string

	mu        sync.Mutex
	turns     []models.ChatTurn
	input     string
	pending   int
	tail      chan struct{}
	listeners []func()
}

func New(sender Sender, opts ...Option) *Exchange {
	e := &Exchange{
		sender:   sender,
		delay:    DefaultReplyDelay,
		sleep:    sleepContext,
		fallback: DefaultFallback,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// OnChange registers fn to be called after every change to the conversation.
func (e *Exchange) OnChange(fn func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.listeners = append(e.listeners, fn)
}

// Turns returns a copy of the conversation so far.
func (e *Exchange) Turns() []models.ChatTurn {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]models.ChatTurn(nil), e.turns...)
}

// Typing reports whether any reply is still outstanding.
func (e *Exchange) Typing() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pending > 0
}

func (e *Exchange) Input() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.input
}

func (e *Exchange) SetInput(text string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.input = text
}

// SubmitInput submits the current input.
func (e *Exchange) SubmitInput(ctx context.Context) bool {
	return e.Submit(ctx, e.Input())
}

// Submit appends text as a user turn and blocks until its reply, or the
// fallback turn, has been appended. Blank text is ignored and reports false.
func (e *Exchange) Submit(ctx context.Context, text string) bool {
	p, ok := e.Begin(text)
	if !ok {
		return false
	}
	p.Complete(ctx)
	return true
}

// Pending is a submission whose user turn is visible and whose reply is outstanding.
type Pending struct {
	e    *Exchange
	text string
	prev chan struct{}
	done chan struct{}
}

// Begin appends the user turn, clears the input and reserves the reply's
// place in the conversation without sending anything. Blank text is ignored.
func (e *Exchange) Begin(text string) (*Pending, bool) {
	if strings.TrimSpace(text) == "" {
		return nil, false
	}

	e.mu.Lock()
	e.turns = append(e.turns, models.ChatTurn{Sender: models.SenderUser, Text: text})
	e.input = ""
	e.pending++
	p := &Pending{e: e, text: text, prev: e.tail, done: make(chan struct{})}
	e.tail = p.done
	e.mu.Unlock()
	e.notify()

	return p, true
}

// Complete sends the message and appends the reply once every earlier
// submission has appended its own. It must be called exactly once.
func (p *Pending) Complete(ctx context.Context) {
	e := p.e

	reply, err := e.sender.SendChat(ctx, p.text)
	if err != nil {
		logger.Warn("Chat request failed", "error", errors.New(errors.KindExchangeFailed, "send chat", err))
		reply = e.fallback
	} else if err := e.sleep(ctx, e.delay); err != nil {
		logger.Debug("Reply delay interrupted", "error", err)
	}

	if p.prev != nil {
		<-p.prev
	}

	e.mu.Lock()
	e.turns = append(e.turns, models.ChatTurn{Sender: models.SenderAssistant, Text: reply})
	e.pending--
	e.mu.Unlock()
	close(p.done)
	e.notify()
}

func (e *Exchange) notify() {
	e.mu.Lock()
	listeners := append([]func(){}, e.listeners...)
	e.mu.Unlock()
	for _, fn := range listeners {
		fn()
	}
}
