package client

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"pierres.shop/app/pkg/view"
)

type Status string

const (
	StatusIdle    Status = "idle"
	StatusPending Status = "pending"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// ErrBusy is returned when an action is dispatched while another one of the
// same kind is still pending.
var ErrBusy = errors.New("client: a request of this kind is already pending")

// State is what a screen renders from. StatusCode is 0 unless the last
// action failed with an HTTP status.
type State struct {
	Status     Status
	StatusCode int
	Message    string
	Outcome    view.Outcome
}

// Result is what a successful action reports.
type Result struct {
	Message string
	Outcome view.Outcome
}

type Action func(ctx context.Context) (Result, error)

// Effects are the side effects a lifecycle triggers on resolution. Nil
// fields are skipped.
type Effects struct {
	SignOut  func()
	Navigate func(path string)
	Notify   func(view.Flash)
}

const (
	DefaultListingPath   = "/products-board"
	DefaultLoginPath     = "/login"
	DefaultRedirectDelay = 3 * time.Second
)

type Option func(*Lifecycle)

func WithEffects(e Effects) Option { return func(l *Lifecycle) { l.effects = e } }

func WithClock(c clock.Clock) Option { return func(l *Lifecycle) { l.clock = c } }

func WithLogger(lg *slog.Logger) Option { return func(l *Lifecycle) { l.log = lg } }

func WithListingPath(p string) Option { return func(l *Lifecycle) { l.listingPath = p } }

func WithLoginPath(p string) Option { return func(l *Lifecycle) { l.loginPath = p } }

func WithRedirectDelay(d time.Duration) Option { return func(l *Lifecycle) { l.redirectDelay = d } }

// Lifecycle tracks the most recent request of one resource kind:
// idle -> pending -> success | error, and pending again on the next dispatch.
// It is safe for concurrent use.
type Lifecycle struct {
	kind view.ResourceKind

	effects       Effects
	clock         clock.Clock
	log           *slog.Logger
	listingPath   string
	loginPath     string
	redirectDelay time.Duration

	mu       sync.Mutex
	state    State
	subs     map[int]func(State)
	nextSub  int
	redirect *clock.Timer
	closed   bool
}

func NewLifecycle(kind view.ResourceKind, opts ...Option) *Lifecycle {
	l := &Lifecycle{
		kind:          kind,
		clock:         clock.New(),
		log:           slog.New(slog.DiscardHandler),
		listingPath:   DefaultListingPath,
		loginPath:     DefaultLoginPath,
		redirectDelay: DefaultRedirectDelay,
		state:         State{Status: StatusIdle},
		subs:          map[int]func(State){},
	}
	for _, o := range opts {
		o(l)
	}
	return l
}

func (l *Lifecycle) Kind() view.ResourceKind { return l.kind }

func (l *Lifecycle) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Subscribe registers fn to receive every state change. The returned func
// removes it.
func (l *Lifecycle) Subscribe(fn func(State)) (cancel func()) {
	l.mu.Lock()
	id := l.nextSub
	l.nextSub++
	l.subs[id] = fn
	l.mu.Unlock()

	return func() {
		l.mu.Lock()
		delete(l.subs, id)
		l.mu.Unlock()
	}
}

// Begin moves the lifecycle to pending and hands out the ticket that must
// resolve it. The previous terminal state is dropped.
func (l *Lifecycle) Begin() (*Ticket, error) {
	l.mu.Lock()
	if l.state.Status == StatusPending {
		l.mu.Unlock()
		return nil, ErrBusy
	}
	l.state = State{Status: StatusPending}
	subs := l.subscribers()
	l.mu.Unlock()

	l.log.Debug("lifecycle_pending", slog.String("kind", string(l.kind)))
	publish(subs, State{Status: StatusPending})
	return &Ticket{l: l}, nil
}

// Dispatch runs act between Begin and Resolve. It fails only with ErrBusy;
// the action's own error ends up in the returned State. A panicking action
// leaves the lifecycle in error before the panic continues.
func (l *Lifecycle) Dispatch(ctx context.Context, act Action) (State, error) {
	t, err := l.Begin()
	if err != nil {
		return l.State(), err
	}
	defer func() {
		if r := recover(); r != nil {
			t.Resolve(Result{}, fmt.Errorf("client: %s action panicked: %v", l.kind, r))
			panic(r)
		}
	}()
	res, err := act(ctx)
	return t.Resolve(res, err), nil
}

// Close cancels a scheduled redirect and drops subscribers. Tickets still
// resolve, but no effects run afterwards.
func (l *Lifecycle) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closed = true
	if l.redirect != nil {
		l.redirect.Stop()
		l.redirect = nil
	}
	clear(l.subs)
}

func (l *Lifecycle) subscribers() []func(State) {
	out := make([]func(State), 0, len(l.subs))
	for _, fn := range l.subs {
		out = append(out, fn)
	}
	return out
}

func publish(subs []func(State), s State) {
	for _, fn := range subs {
		fn(s)
	}
}

// Ticket resolves exactly one pending cycle.
type Ticket struct {
	l    *Lifecycle
	once sync.Once
	done State
}

// Resolve settles the cycle to success (err == nil) or error. Only the first
// call has any effect; later calls return the state it produced.
func (t *Ticket) Resolve(res Result, err error) State {
	t.once.Do(func() { t.done = t.l.resolve(res, err) })
	return t.done
}

func (l *Lifecycle) resolve(res Result, err error) State {
	next := State{Status: StatusSuccess, Message: res.Message, Outcome: res.Outcome}
	if err != nil {
		next = State{Status: StatusError, Message: err.Error()}
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			next.StatusCode = apiErr.StatusCode
			next.Message = apiErr.Message
		}
	}

	l.mu.Lock()
	l.state = next
	closed := l.closed
	subs := l.subscribers()
	l.mu.Unlock()

	l.log.Debug("lifecycle_resolved",
		slog.String("kind", string(l.kind)),
		slog.String("status", string(next.Status)),
		slog.Int("status_code", next.StatusCode),
		slog.String("outcome", string(next.Outcome)),
	)
	publish(subs, next)
	if !closed {
		l.runEffects(next)
	}
	return next
}

func (l *Lifecycle) runEffects(s State) {
	switch s.Status {
	case StatusError:
		l.notify(view.FlashError, s)
		if s.StatusCode == http.StatusForbidden && l.effects.SignOut != nil {
			l.effects.SignOut()
		}

	case StatusSuccess:
		l.notify(view.FlashSuccess, s)
		switch s.Outcome {
		case view.OutcomeCreated:
			if l.effects.Navigate != nil {
				l.effects.Navigate(l.listingPath)
			}
		case view.OutcomeVerified:
			l.scheduleRedirect(l.loginPath)
		}
	}
}

func (l *Lifecycle) notify(kind view.FlashKind, s State) {
	if s.Message == "" || l.effects.Notify == nil {
		return
	}
	l.effects.Notify(view.Flash{Kind: kind, Message: s.Message, Resource: l.kind, Outcome: s.Outcome})
}

func (l *Lifecycle) scheduleRedirect(path string) {
	if l.effects.Navigate == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return
	}
	if l.redirect != nil {
		l.redirect.Stop()
	}
	navigate := l.effects.Navigate
	l.redirect = l.clock.AfterFunc(l.redirectDelay, func() { navigate(path) })
}
