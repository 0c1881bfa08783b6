// Package interactive implements multi-turn prompts on top of the session
// guard: a handler asks a question and waits for the same user to answer in
// the same chat.
package interactive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/edgard/botkit/internal/session"
)

var (
	// ErrPromptActive is returned when the user already has a prompt pending in the chat.
	ErrPromptActive = errors.New("a prompt is already pending for this user")
	// ErrTimedOut is returned when no accepted reply arrived in time.
	ErrTimedOut = errors.New("timed out waiting for reply")
)

type waiterKey struct {
	ch session.ChannelID
	u  session.UserID
}

type waiter struct {
	accept  func(string) bool
	replies chan string
}

// Prompter routes incoming messages to the prompt waiting for them.
type Prompter struct {
	guard   *session.Guard
	clock   clockwork.Clock
	timeout time.Duration
	logger  *slog.Logger

	mu      sync.Mutex
	waiters map[waiterKey]*waiter
}

func NewPrompter(guard *session.Guard, clock clockwork.Clock, timeout time.Duration, logger *slog.Logger) *Prompter {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Prompter{
		guard:   guard,
		clock:   clock,
		timeout: timeout,
		logger:  logger.With("component", "prompter"),
		waiters: make(map[waiterKey]*waiter),
	}
}

// WaitOption customizes a single wait.
type WaitOption func(*waitOptions)

type waitOptions struct {
	ready func()
}

// OnReady runs fn once the prompt is registered and replies can be delivered,
// before the wait starts. Send the question from fn so that an immediate
// answer is not lost.
func OnReady(fn func()) WaitOption {
	return func(o *waitOptions) { o.ready = fn }
}

// WaitForReply blocks until user u sends a message in channel ch that accept
// approves, the prompt timeout elapses, or ctx is done. A nil accept takes
// the first message.
func (p *Prompter) WaitForReply(ctx context.Context, ch session.ChannelID, u session.UserID, accept func(string) bool, opts ...WaitOption) (reply string, err error) {
	var o waitOptions
	for _, opt := range opts {
		opt(&o)
	}

	key := waiterKey{ch: ch, u: u}
	w := &waiter{accept: accept, replies: make(chan string, 1)}

	// The guard entry and the waiter appear together for Deliver.
	p.mu.Lock()
	if !p.guard.TryBegin(ch, u) {
		p.mu.Unlock()
		return "", ErrPromptActive
	}
	p.waiters[key] = w
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		if p.waiters[key] == w {
			delete(p.waiters, key)
		}
		p.mu.Unlock()

		if completeErr := p.guard.Complete(ch, u); completeErr != nil {
			p.logger.ErrorContext(ctx, "Pending prompt was cleared by someone else", "channel", ch, "user", u)
			reply, err = "", fmt.Errorf("failed to end prompt: %w", completeErr)
		}
	}()

	if o.ready != nil {
		o.ready()
	}

	p.logger.DebugContext(ctx, "Waiting for reply", "channel", ch, "user", u, "timeout", p.timeout)

	timer := p.clock.NewTimer(p.timeout)
	defer timer.Stop()

	select {
	case reply = <-w.replies:
		return reply, nil
	case <-timer.Chan():
		return "", ErrTimedOut
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Deliver hands text from user u in channel ch to the waiting prompt and
// reports whether it was consumed.
func (p *Prompter) Deliver(ch session.ChannelID, u session.UserID, text string) bool {
	key := waiterKey{ch: ch, u: u}

	p.mu.Lock()
	defer p.mu.Unlock()
	w, ok := p.waiters[key]
	if !ok {
		return false
	}
	if w.accept != nil && !w.accept(text) {
		return false
	}
	select {
	case w.replies <- text:
		delete(p.waiters, key)
		return true
	default:
		return false
	}
}

// WaitForConfirmation waits for a yes or no answer. A timeout counts as no.
func (p *Prompter) WaitForConfirmation(ctx context.Context, ch session.ChannelID, u session.UserID, opts ...WaitOption) (bool, error) {
	reply, err := p.WaitForReply(ctx, ch, u, func(s string) bool {
		_, ok := parseConfirmation(s)
		return ok
	}, opts...)
	if errors.Is(err, ErrTimedOut) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	v, _ := parseConfirmation(reply)
	return v, nil
}

func parseConfirmation(s string) (value, ok bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "y", "yes":
		return true, true
	case "n", "no":
		return false, true
	}
	v, err := strconv.ParseBool(s)
	return v, err == nil
}

// WaitForOption waits for an integer in [lo, hi]. It returns false on timeout.
func (p *Prompter) WaitForOption(ctx context.Context, ch session.ChannelID, u session.UserID, lo, hi int, opts ...WaitOption) (int, bool, error) {
	parse := func(s string) (int, bool) {
		n, err := strconv.Atoi(strings.TrimSpace(s))
		return n, err == nil && n >= lo && n <= hi
	}
	reply, err := p.WaitForReply(ctx, ch, u, func(s string) bool {
		_, ok := parse(s)
		return ok
	}, opts...)
	if errors.Is(err, ErrTimedOut) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	n, _ := parse(reply)
	return n, true, nil
}
