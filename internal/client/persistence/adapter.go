// Package persistence keeps the durable local snapshot of the ledger store:
// a single JSON document keyed by project name, written with a trailing
// debounce during normal operation and synchronously flushed at shutdown.
package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/hvlab/settlement/internal/ledger"
	"github.com/hvlab/settlement/internal/logging"
)

const (
	// SaveDebounce collapses rapid save requests into one write.
	SaveDebounce = 100 * time.Millisecond
	// loadRetryDelay separates read attempts when the file is briefly
	// locked, e.g. while an in-place update replaces the executable.
	loadRetryDelay = 500 * time.Millisecond
	loadAttempts   = 3
)

// Archiver receives a copy of every shutdown backup. Optional.
type Archiver interface {
	Archive(ctx context.Context, name string, body []byte) error
}

// Adapter is the local persistence layer. Save is best-effort and debounced;
// Load retries transient failures and degrades to an empty store; Flush is
// the synchronous shutdown path.
type Adapter struct {
	path      string
	backupDir string
	retention time.Duration
	debounce  time.Duration
	logger    logging.Logger
	archiver  Archiver

	mu      sync.Mutex
	timer   *time.Timer
	pending []byte
	writing bool
}

type Option func(*Adapter)

// WithDebounce overrides the save debounce window.
func WithDebounce(d time.Duration) Option {
	return func(a *Adapter) { a.debounce = d }
}

// WithArchiver attaches a backup archiver.
func WithArchiver(ar Archiver) Option {
	return func(a *Adapter) { a.archiver = ar }
}

// WithRetention overrides how long shutdown backups are kept.
func WithRetention(d time.Duration) Option {
	return func(a *Adapter) { a.retention = d }
}

func New(path, backupDir string, logger logging.Logger, opts ...Option) *Adapter {
	a := &Adapter{
		path:      path,
		backupDir: backupDir,
		retention: 7 * 24 * time.Hour,
		debounce:  SaveDebounce,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Encode serializes a snapshot in the shared document format: one JSON
// object, project names as keys, items as arrays. Map keys marshal sorted,
// so the output is canonical.
func Encode(snapshot map[string][]*ledger.LineItem) ([]byte, error) {
	if snapshot == nil {
		snapshot = map[string][]*ledger.LineItem{}
	}
	return json.MarshalIndent(snapshot, "", "  ")
}

// Decode parses the document format back into a project map.
func Decode(data []byte) (map[string][]*ledger.LineItem, error) {
	projects := make(map[string][]*ledger.LineItem)
	if err := json.Unmarshal(data, &projects); err != nil {
		return nil, fmt.Errorf("decoding data file: %w", err)
	}
	return projects, nil
}

// Load reads the data file with up to three attempts half a second apart.
// A missing file and exhausted retries both yield an empty store: startup
// must not fail on local-read trouble.
func (a *Adapter) Load(ctx context.Context) map[string][]*ledger.LineItem {
	var data []byte

	backoff := retry.WithMaxRetries(loadAttempts-1, retry.NewConstant(loadRetryDelay))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		b, err := os.ReadFile(a.path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				data = nil
				return nil
			}
			return retry.RetryableError(err)
		}
		data = b
		return nil
	})
	if err != nil {
		a.logger.Warn(ctx, "data file unreadable, starting empty", "path", a.path, "error", err)
		return map[string][]*ledger.LineItem{}
	}
	if data == nil {
		return map[string][]*ledger.LineItem{}
	}

	projects, err := Decode(data)
	if err != nil {
		a.logger.Warn(ctx, "data file corrupt, starting empty", "path", a.path, "error", err)
		return map[string][]*ledger.LineItem{}
	}
	return projects
}

// Save schedules a debounced write of the snapshot. Repeated calls within
// the window collapse into a single write carrying the latest snapshot.
// Failures are logged, never raised: the in-memory store stays authoritative.
func (a *Adapter) Save(snapshot map[string][]*ledger.LineItem) {
	data, err := Encode(snapshot)
	if err != nil {
		a.logger.Warn(context.Background(), "snapshot encode failed", "error", err)
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	a.pending = data
	if a.timer != nil {
		a.timer.Stop()
	}
	a.timer = time.AfterFunc(a.debounce, a.writePending)
}

func (a *Adapter) writePending() {
	a.mu.Lock()
	data := a.pending
	a.pending = nil
	a.timer = nil
	a.writing = true
	a.mu.Unlock()

	defer func() {
		a.mu.Lock()
		a.writing = false
		a.mu.Unlock()
	}()

	if data == nil {
		return
	}
	if err := atomicWrite(a.path, data); err != nil {
		a.logger.Warn(context.Background(), "data save failed", "path", a.path, "error", err)
	}
}

// WriteInFlight reports whether a write is pending or running. The
// self-update sequence polls this before replacing the executable.
func (a *Adapter) WriteInFlight() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.writing || a.timer != nil || a.pending != nil
}

// Flush cancels any pending debounce and writes the snapshot synchronously
// with an fsync, then takes a timestamped backup and prunes expired ones.
// Called once at shutdown.
func (a *Adapter) Flush(ctx context.Context, snapshot map[string][]*ledger.LineItem) error {
	a.mu.Lock()
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
	a.pending = nil
	a.mu.Unlock()

	data, err := Encode(snapshot)
	if err != nil {
		return fmt.Errorf("encoding final snapshot: %w", err)
	}
	if err := atomicWrite(a.path, data); err != nil {
		return fmt.Errorf("final save: %w", err)
	}

	if err := a.backup(ctx, data); err != nil {
		a.logger.Warn(ctx, "shutdown backup failed", "error", err)
	}
	return nil
}

// atomicWrite writes through a temp file in the target directory, fsyncs and
// renames, so readers never observe a torn document.
func atomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".settlement-*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
