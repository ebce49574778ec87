// Package store defines the record store contract: a single remote
// table of lançamentos supporting ordered listing and row-level CRUD,
// each mutation returning the affected record as the store persisted it.
package store

import (
	"context"
	"errors"

	"github.com/tekinf2025/controle-financeiro-tekinfo/internal/core"
)

var (
	// ErrNotFound is returned when an id does not exist in the store.
	ErrNotFound = errors.New("lancamento not found")
)

// RecordStore is the outbound port for transaction persistence.
type RecordStore interface {
	// List returns every record ordered by data_vencimento descending.
	List(ctx context.Context) ([]core.Lancamento, error)

	// Insert creates a record from the draft. The store assigns id and
	// timestamps and returns the persisted record.
	Insert(ctx context.Context, draft core.LancamentoDraft) (core.Lancamento, error)

	// Update replaces the user-controlled fields of the record with the
	// given id and returns the persisted record. Returns ErrNotFound if
	// the id does not exist.
	Update(ctx context.Context, id string, draft core.LancamentoDraft) (core.Lancamento, error)

	// Delete removes the record with the given id. Returns ErrNotFound
	// if the id does not exist; deletion is a hard delete.
	Delete(ctx context.Context, id string) error
}
