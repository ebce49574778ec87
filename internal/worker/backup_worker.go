// Package worker keeps CSV snapshots of the ledger on disk. It listens
// for mutation events and rewrites the day's snapshot when the ledger
// has changed, so a store outage never costs more than the debounce
// window of history.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/tekinf2025/controle-financeiro-tekinfo/internal/core"
	"github.com/tekinf2025/controle-financeiro-tekinfo/internal/events"
	"github.com/tekinf2025/controle-financeiro-tekinfo/internal/export"
	"github.com/tekinf2025/controle-financeiro-tekinfo/internal/log"
	"github.com/tekinf2025/controle-financeiro-tekinfo/internal/store"
)

type BackupWorker struct {
	store    store.RecordStore
	dir      string
	interval time.Duration
	dirty    atomic.Bool
}

func NewBackupWorker(recordStore store.RecordStore, dir string, interval time.Duration) *BackupWorker {
	if interval <= 0 {
		interval = time.Minute
	}
	return &BackupWorker{
		store:    recordStore,
		dir:      dir,
		interval: interval,
	}
}

// HandleEvent marks the ledger dirty. The actual snapshot happens on
// the next tick of Run, coalescing event bursts into one export.
func (w *BackupWorker) HandleEvent(event *events.LancamentoEvent) error {
	w.dirty.Store(true)
	slog.Debug("Ledger marked dirty for backup",
		"kind", string(event.Kind),
		"lancamento_id", event.LancamentoID)
	return nil
}

// Run writes snapshots until ctx is cancelled. A snapshot is taken on
// startup and then whenever events arrived since the last tick.
func (w *BackupWorker) Run(ctx context.Context) error {
	if _, err := w.Snapshot(ctx); err != nil {
		slog.ErrorContext(ctx, "Startup snapshot failed", log.FieldError, err)
		// keep running, the store may come back
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if !w.dirty.Swap(false) {
				continue
			}
			if _, err := w.Snapshot(ctx); err != nil {
				slog.ErrorContext(ctx, "Periodic snapshot failed", log.FieldError, err)
				w.dirty.Store(true)
			}
		}
	}
}

// Snapshot exports the full ledger to the day's CSV file and returns
// the written path. The write goes through a temp file so a crash never
// leaves a truncated snapshot.
func (w *BackupWorker) Snapshot(ctx context.Context) (string, error) {
	list, err := w.store.List(ctx)
	if err != nil {
		return "", fmt.Errorf("list lancamentos for snapshot: %w", err)
	}

	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return "", fmt.Errorf("create backup directory: %w", err)
	}

	path := filepath.Join(w.dir, export.Filename(core.Today()))
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(export.CSV(list)), 0644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return "", fmt.Errorf("finalize snapshot: %w", err)
	}

	slog.InfoContext(ctx, "Ledger snapshot written",
		"path", path,
		log.FieldRecords, len(list),
		log.FieldComponent, log.ComponentBackupWorker,
		log.FieldOperation, log.OpSnapshot)
	return path, nil
}
