// Package repository maintains the locally cached transaction list and
// keeps it consistent with the record store. The cache is the single
// shared state of the application; only this package mutates it, and
// every mutation is applied from the store's acknowledged response,
// never speculatively.
package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/tekinf2025/controle-financeiro-tekinfo/internal/core"
	"github.com/tekinf2025/controle-financeiro-tekinfo/internal/events"
	"github.com/tekinf2025/controle-financeiro-tekinfo/internal/log"
	"github.com/tekinf2025/controle-financeiro-tekinfo/internal/store"
)

// ErrNotLoaded is returned by operations that need a cached list before
// the first successful Load.
var ErrNotLoaded = errors.New("transaction list not loaded")

type Repository struct {
	store  store.RecordStore
	events *events.Client

	mu     sync.RWMutex
	cache  []core.Lancamento
	loaded bool
}

func New(recordStore store.RecordStore, eventsClient *events.Client) *Repository {
	return &Repository{
		store:  recordStore,
		events: eventsClient,
	}
}

// Load fetches the full list from the store, ordered by due date
// descending. On failure the previously cached list is retained.
func (r *Repository) Load(ctx context.Context) error {
	list, err := r.store.List(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to load lancamentos, keeping cached list",
			log.FieldError, err,
			"cached", r.Len(),
			log.FieldComponent, log.ComponentRepository,
			log.FieldOperation, log.OpLoad)
		return fmt.Errorf("load lancamentos: %w", err)
	}

	r.mu.Lock()
	r.cache = list
	r.loaded = true
	r.mu.Unlock()

	slog.InfoContext(ctx, "Lancamentos loaded", "count", len(list),
		log.FieldComponent, log.ComponentRepository,
		log.FieldOperation, log.OpLoad)
	return nil
}

// Loaded reports whether at least one Load has succeeded.
func (r *Repository) Loaded() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.loaded
}

// Len returns the size of the cached list.
func (r *Repository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.cache)
}

// Snapshot returns a copy of the cached list. Callers may filter and
// aggregate it freely without affecting the cache.
func (r *Repository) Snapshot() []core.Lancamento {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]core.Lancamento, len(r.cache))
	copy(out, r.cache)
	return out
}

// Get returns the cached record with the given id.
func (r *Repository) Get(id string) (core.Lancamento, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, l := range r.cache {
		if l.ID == id {
			return l, nil
		}
	}
	return core.Lancamento{}, store.ErrNotFound
}

// Add validates and creates a new entry. On success the store-assigned
// record is prepended to the cache (most recent due date first is the
// load order; new entries go to the head as the freshest rows).
func (r *Repository) Add(ctx context.Context, draft core.LancamentoDraft) (core.Lancamento, error) {
	if err := draft.Validate(); err != nil {
		return core.Lancamento{}, err
	}

	record, err := r.store.Insert(ctx, draft)
	if err != nil {
		return core.Lancamento{}, fmt.Errorf("add lancamento: %w", err)
	}

	r.mu.Lock()
	r.cache = append([]core.Lancamento{record}, r.cache...)
	r.mu.Unlock()

	r.events.PublishLancamento(ctx, events.LancamentoCreated, record.ID)

	slog.InfoContext(ctx, "Lancamento created",
		log.FieldLancamentoID, record.ID,
		log.FieldDescricao, record.Descricao,
		log.FieldTipo, string(record.Tipo),
		log.FieldValor, record.Valor.String(),
		log.FieldComponent, log.ComponentRepository,
		log.FieldOperation, log.OpCreate)
	return record, nil
}

// Update validates and edits an existing entry. On success the matching
// cached record is replaced in place with the store's returned record.
func (r *Repository) Update(ctx context.Context, id string, draft core.LancamentoDraft) (core.Lancamento, error) {
	if err := draft.Validate(); err != nil {
		return core.Lancamento{}, err
	}

	record, err := r.store.Update(ctx, id, draft)
	if err != nil {
		return core.Lancamento{}, fmt.Errorf("update lancamento %s: %w", id, err)
	}

	r.replace(record)
	r.events.PublishLancamento(ctx, events.LancamentoUpdated, record.ID)

	slog.InfoContext(ctx, "Lancamento updated",
		log.FieldLancamentoID, record.ID,
		log.FieldStatus, string(record.Status),
		log.FieldComponent, log.ComponentRepository,
		log.FieldOperation, log.OpUpdate)
	return record, nil
}

// Remove hard-deletes an entry. Deleting an id the store does not know
// fails with the store's not-found error and leaves the cache unchanged.
func (r *Repository) Remove(ctx context.Context, id string) error {
	if err := r.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("remove lancamento %s: %w", id, err)
	}

	r.mu.Lock()
	for i, l := range r.cache {
		if l.ID == id {
			r.cache = append(r.cache[:i], r.cache[i+1:]...)
			break
		}
	}
	r.mu.Unlock()

	r.events.PublishLancamento(ctx, events.LancamentoDeleted, id)

	slog.InfoContext(ctx, "Lancamento removed",
		log.FieldLancamentoID, id,
		log.FieldComponent, log.ComponentRepository,
		log.FieldOperation, log.OpDelete)
	return nil
}

// MarkPaid closes an open entry (status Aberto -> Fechado). Same
// success and failure contract as Update.
func (r *Repository) MarkPaid(ctx context.Context, id string) (core.Lancamento, error) {
	current, err := r.Get(id)
	if err != nil {
		return core.Lancamento{}, fmt.Errorf("mark paid %s: %w", id, err)
	}

	draft := core.LancamentoDraft{
		DataVencimento: current.DataVencimento,
		Descricao:      current.Descricao,
		Observacao:     current.Observacao,
		Categoria:      current.Categoria,
		Tipo:           current.Tipo,
		Valor:          current.Valor,
		Status:         core.Fechado,
		CodigoBarras:   current.CodigoBarras,
	}

	record, err := r.store.Update(ctx, id, draft)
	if err != nil {
		return core.Lancamento{}, fmt.Errorf("mark paid %s: %w", id, err)
	}

	r.replace(record)
	r.events.PublishLancamento(ctx, events.LancamentoPaid, record.ID)

	slog.InfoContext(ctx, "Lancamento marked as paid",
		log.FieldLancamentoID, record.ID,
		log.FieldComponent, log.ComponentRepository,
		log.FieldOperation, log.OpMarkPaid)
	return record, nil
}

// replace swaps the cached record with the same id, keeping position.
func (r *Repository) replace(record core.Lancamento) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, l := range r.cache {
		if l.ID == record.ID {
			r.cache[i] = record
			return
		}
	}
	// The store acknowledged a record the cache never saw (e.g. another
	// session created it); adopt it at the head.
	r.cache = append([]core.Lancamento{record}, r.cache...)
}
