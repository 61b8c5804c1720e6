package persistence

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hvlab/settlement/internal/ledger"
)

const backupPrefix = "auto_backup_"

// nowFn is a test seam for backup naming and retention.
var nowFn = time.Now

// backup writes a timestamped copy of the document into the backup directory
// and removes copies older than the retention window, then hands the bytes to
// the archiver when one is configured.
func (a *Adapter) backup(ctx context.Context, data []byte) error {
	if a.backupDir == "" {
		return nil
	}
	if err := os.MkdirAll(a.backupDir, 0o755); err != nil {
		return fmt.Errorf("creating backup dir: %w", err)
	}

	name := backupPrefix + nowFn().Format("20060102_150405") + ".json"
	path := filepath.Join(a.backupDir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing backup: %w", err)
	}

	a.pruneBackups(ctx)

	if a.archiver != nil {
		if err := a.archiver.Archive(ctx, name, data); err != nil {
			a.logger.Warn(ctx, "backup archive upload failed", "name", name, "error", err)
		}
	}
	return nil
}

// pruneBackups deletes auto backups whose modification time is past the
// retention window.
func (a *Adapter) pruneBackups(ctx context.Context) {
	entries, err := os.ReadDir(a.backupDir)
	if err != nil {
		a.logger.Warn(ctx, "backup dir unreadable", "dir", a.backupDir, "error", err)
		return
	}

	cutoff := nowFn().Add(-a.retention)
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, backupPrefix) || !strings.HasSuffix(name, ".json") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(filepath.Join(a.backupDir, name)); err != nil {
				a.logger.Warn(ctx, "backup prune failed", "name", name, "error", err)
			}
		}
	}
}

// WriteTo serializes the snapshot to an arbitrary path ("save as"). Unlike
// Save this is synchronous and reports failure to the caller.
func (a *Adapter) WriteTo(path string, snapshot map[string][]*ledger.LineItem) error {
	data, err := Encode(snapshot)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
