package syncx

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/hvlab/settlement/internal/ledger"
	"github.com/hvlab/settlement/internal/logging"
)

const (
	// PushDebounce is the quiet period between a local mutation and the
	// remote push; rapid edits collapse into one write.
	PushDebounce = time.Second
	// EchoWindow is how long the local-echo flag stays set after a push.
	EchoWindow = 2 * time.Second
	// ReconnectInterval is the default liveness probe period.
	ReconnectInterval = 10 * time.Second
)

// Status labels surfaced through the collaborator's sync-status callback.
const (
	StatusOffline      = "offline"
	StatusLive         = "live"
	StatusReconnecting = "reconnecting"
	StatusRemoteEdit   = "remote update"
	StatusError        = "sync error"
)

// State is the engine's connection state.
type State int32

const (
	StateDisconnected State = iota
	StateIdle
	StatePushing
)

// Engine keeps the local store and the shared remote document consistent.
// Conflicts resolve by whole-document last-writer-wins; the engine never
// merges. All remote-origin store mutations are delivered through onRemote,
// which the owner must marshal onto its single mutation context.
type Engine struct {
	tr            Transport
	logger        logging.Logger
	sessionID     string
	onRemote      func(projects map[string][]*ledger.LineItem)
	onStatus      func(label string)
	localSnapshot func() map[string][]*ledger.LineItem

	pushDebounce      time.Duration
	echoWindow        time.Duration
	reconnectInterval time.Duration
	now               func() time.Time

	state atomic.Int32

	mu          sync.Mutex
	lastHash    string
	localEcho   bool
	echoTimer   *time.Timer
	pushTimer   *time.Timer
	pendingPush map[string][]*ledger.LineItem

	stopOnce sync.Once
	stopped  chan struct{}
	wg       sync.WaitGroup
}

type Option func(*Engine)

// WithIntervals overrides the protocol timings; used by tests.
func WithIntervals(pushDebounce, echoWindow, reconnect time.Duration) Option {
	return func(e *Engine) {
		e.pushDebounce = pushDebounce
		e.echoWindow = echoWindow
		e.reconnectInterval = reconnect
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// New builds an engine. onRemote receives whole replacement documents;
// onStatus receives status labels; localSnapshot supplies the local store for
// the initial remote seed. Each engine gets a fresh session id.
func New(tr Transport, onRemote func(map[string][]*ledger.LineItem), onStatus func(string),
	localSnapshot func() map[string][]*ledger.LineItem, logger logging.Logger, opts ...Option) *Engine {

	e := &Engine{
		tr:                tr,
		logger:            logger,
		sessionID:         uuid.NewString(),
		onRemote:          onRemote,
		onStatus:          onStatus,
		localSnapshot:     localSnapshot,
		pushDebounce:      PushDebounce,
		echoWindow:        EchoWindow,
		reconnectInterval: ReconnectInterval,
		now:               time.Now,
		stopped:           make(chan struct{}),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SessionID returns this client's session identity.
func (e *Engine) SessionID() string { return e.sessionID }

// State returns the current connection state.
func (e *Engine) State() State { return State(e.state.Load()) }

func (e *Engine) setStatus(label string) {
	if e.onStatus != nil {
		e.onStatus(label)
	}
}

// Start connects, performs the initial exchange and launches the listener
// and reconnect supervisor. A transport reporting ErrNotConfigured leaves the
// engine permanently offline; that is a supported mode, not an error.
func (e *Engine) Start(ctx context.Context) error {
	if err := e.tr.Connect(ctx); err != nil {
		if errors.Is(err, ErrNotConfigured) {
			e.setStatus(StatusOffline)
			return nil
		}
		e.logger.Warn(ctx, "mirror connect failed", "error", err)
		e.setStatus(StatusReconnecting)
	} else {
		e.state.Store(int32(StateIdle))
		e.initialSync(ctx)
		e.setStatus(StatusLive)
	}

	e.wg.Add(2)
	go e.runListener(ctx)
	go e.runSupervisor(ctx)
	return nil
}

// initialSync pulls the remote document. Remote data wins and replaces the
// local store; an empty remote is seeded from a non-empty local store.
func (e *Engine) initialSync(ctx context.Context) {
	env, err := e.tr.Load(ctx)
	if err != nil {
		e.logger.Warn(ctx, "initial document load failed", "error", err)
		e.setStatus(StatusError)
		return
	}

	if env.Empty() {
		if local := e.localSnapshot(); len(local) > 0 {
			e.doPush(ctx, local)
		}
		return
	}

	e.mu.Lock()
	e.lastHash = Digest(env.Projects)
	e.mu.Unlock()
	e.onRemote(env.Projects)
}

// Push schedules a debounced mirror write of the snapshot. Only the latest
// snapshot inside the window is written. While disconnected the push is
// dropped; the local copy remains authoritative and a later mutation will
// push the full state anyway.
func (e *Engine) Push(snapshot map[string][]*ledger.LineItem) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.pendingPush = snapshot
	if e.pushTimer != nil {
		e.pushTimer.Stop()
	}
	e.pushTimer = time.AfterFunc(e.pushDebounce, e.flushPush)
}

func (e *Engine) flushPush() {
	e.mu.Lock()
	snap := e.pendingPush
	e.pendingPush = nil
	e.pushTimer = nil
	e.mu.Unlock()

	if snap == nil || e.State() == StateDisconnected {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	e.doPush(ctx, snap)
}

// doPush writes the whole document, records its hash and raises the echo
// guard for the echo window.
func (e *Engine) doPush(ctx context.Context, snap map[string][]*ledger.LineItem) {
	e.state.Store(int32(StatePushing))
	defer e.state.Store(int32(StateIdle))

	now := e.now()
	env := &Envelope{Projects: snap, Metadata: NewMetadata(e.sessionID, now)}
	if err := e.tr.Store(ctx, env); err != nil {
		e.logger.Warn(ctx, "document push failed", "error", err)
		e.setStatus(StatusError)
		return
	}

	e.mu.Lock()
	e.lastHash = Digest(snap)
	e.localEcho = true
	if e.echoTimer != nil {
		e.echoTimer.Stop()
	}
	e.echoTimer = time.AfterFunc(e.echoWindow, func() {
		e.mu.Lock()
		e.localEcho = false
		e.mu.Unlock()
	})
	e.mu.Unlock()

	e.setStatus(fmt.Sprintf("synced %s", now.Format("15:04:05")))
}

// handleRemote reacts to a remote push notification. Events carrying this
// client's own session id are echoes of its own writes and are discarded;
// unattributed events inside the echo window are treated the same. Identical
// content hashes are no-ops; a genuine difference replaces the local store.
func (e *Engine) handleRemote(env Envelope) {
	e.mu.Lock()
	if env.Metadata != nil && env.Metadata.SessionID == e.sessionID {
		e.mu.Unlock()
		return
	}
	if e.localEcho && env.Metadata == nil {
		e.mu.Unlock()
		return
	}

	h := Digest(env.Projects)
	if h == e.lastHash {
		e.mu.Unlock()
		return
	}
	e.lastHash = h
	e.mu.Unlock()

	e.onRemote(env.Projects)
	e.setStatus(StatusRemoteEdit)
}

// runListener maintains the remote subscription, redialing with a delay when
// it drops.
func (e *Engine) runListener(ctx context.Context) {
	defer e.wg.Done()
	for {
		select {
		case <-e.stopped:
			return
		case <-ctx.Done():
			return
		default:
		}

		events, err := e.tr.Listen(ctx)
		if err != nil {
			select {
			case <-time.After(e.reconnectInterval):
				continue
			case <-e.stopped:
				return
			case <-ctx.Done():
				return
			}
		}

		for env := range events {
			e.handleRemote(env)
		}
		// subscription dropped; loop redials
	}
}

// runSupervisor probes liveness and re-initializes the session after a
// failure, demoting to disconnected while the mirror is unreachable.
func (e *Engine) runSupervisor(ctx context.Context) {
	defer e.wg.Done()

	ticker := time.NewTicker(e.reconnectInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			probe, cancel := context.WithTimeout(ctx, 3*time.Second)
			err := e.tr.Ping(probe)
			cancel()

			if err != nil {
				if e.State() != StateDisconnected {
					e.state.Store(int32(StateDisconnected))
					e.setStatus(StatusReconnecting)
				}
				if err := e.tr.Connect(ctx); err == nil {
					e.state.Store(int32(StateIdle))
					e.initialSync(ctx)
					e.setStatus(StatusLive)
				}
			} else if e.State() == StateDisconnected {
				e.state.Store(int32(StateIdle))
				e.setStatus(StatusLive)
			}

		case <-e.stopped:
			return
		case <-ctx.Done():
			return
		}
	}
}

// Stop shuts the engine down. Idempotent: stopping a stopped engine, or one
// that never connected, is a no-op.
func (e *Engine) Stop() {
	e.stopOnce.Do(func() {
		close(e.stopped)
		e.mu.Lock()
		if e.pushTimer != nil {
			e.pushTimer.Stop()
		}
		if e.echoTimer != nil {
			e.echoTimer.Stop()
		}
		e.mu.Unlock()
		e.tr.Close()
		e.state.Store(int32(StateDisconnected))
		e.wg.Wait()
	})
}
