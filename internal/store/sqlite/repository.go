// Package sqlite implements the record store contract on an embedded
// SQLite database, for self-hosted deployments that do not use the
// hosted table endpoint. It mirrors the remote contract: ids and
// timestamps are assigned here, never by callers.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"github.com/tekinf2025/controle-financeiro-tekinfo/internal/core"
	"github.com/tekinf2025/controle-financeiro-tekinfo/internal/store"
)

type Repository struct {
	db *sql.DB
}

var _ store.RecordStore = (*Repository)(nil)

func NewRepository(dbPath string) (*Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func nowISO() string { return time.Now().UTC().Format(time.RFC3339) }

const selectColumns = `id, data_vencimento, descricao, observacao, categoria, tipo, valor, status, codigo_barras, created_at, updated_at`

func scanLancamento(row interface{ Scan(...any) error }) (core.Lancamento, error) {
	var (
		l          core.Lancamento
		venc       string
		valor      string
		categoria  string
		tipo       string
		statusText string
	)
	err := row.Scan(&l.ID, &venc, &l.Descricao, &l.Observacao, &categoria, &tipo,
		&valor, &statusText, &l.CodigoBarras, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return core.Lancamento{}, err
	}

	l.DataVencimento, err = core.ParseDate(venc)
	if err != nil {
		return core.Lancamento{}, fmt.Errorf("stored due date %q: %w", venc, err)
	}
	l.Valor, err = decimal.NewFromString(valor)
	if err != nil {
		return core.Lancamento{}, fmt.Errorf("stored amount %q: %w", valor, err)
	}
	l.Categoria = core.Categoria(categoria)
	l.Tipo = core.Tipo(tipo)
	l.Status = core.Status(statusText)
	return l, nil
}

// List implements store.RecordStore.
func (r *Repository) List(ctx context.Context) ([]core.Lancamento, error) {
	query := `
		SELECT ` + selectColumns + `
		FROM lancamentos
		ORDER BY data_vencimento DESC, created_at DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list lancamentos: %w", err)
	}
	defer rows.Close()

	var list []core.Lancamento
	for rows.Next() {
		l, err := scanLancamento(rows)
		if err != nil {
			return nil, fmt.Errorf("scan lancamento: %w", err)
		}
		list = append(list, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate lancamentos: %w", err)
	}
	return list, nil
}

// Insert implements store.RecordStore.
func (r *Repository) Insert(ctx context.Context, draft core.LancamentoDraft) (core.Lancamento, error) {
	id := uuid.NewString()
	now := nowISO()
	query := `
		INSERT INTO lancamentos (` + selectColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		id, draft.DataVencimento.String(), draft.Descricao, draft.Observacao,
		string(draft.Categoria), string(draft.Tipo), draft.Valor.StringFixed(2),
		string(draft.Status), draft.CodigoBarras, now, now)
	if err != nil {
		return core.Lancamento{}, fmt.Errorf("insert lancamento: %w", err)
	}

	slog.InfoContext(ctx, "Lancamento saved to SQLite",
		"id", id,
		"descricao", draft.Descricao,
		"valor", draft.Valor.StringFixed(2))

	return r.get(ctx, id)
}

// Update implements store.RecordStore.
func (r *Repository) Update(ctx context.Context, id string, draft core.LancamentoDraft) (core.Lancamento, error) {
	query := `
		UPDATE lancamentos
		SET data_vencimento = ?, descricao = ?, observacao = ?, categoria = ?,
		    tipo = ?, valor = ?, status = ?, codigo_barras = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		draft.DataVencimento.String(), draft.Descricao, draft.Observacao,
		string(draft.Categoria), string(draft.Tipo), draft.Valor.StringFixed(2),
		string(draft.Status), draft.CodigoBarras, nowISO(), id)
	if err != nil {
		return core.Lancamento{}, fmt.Errorf("update lancamento %s: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return core.Lancamento{}, fmt.Errorf("update lancamento %s: %w", id, err)
	}
	if affected == 0 {
		return core.Lancamento{}, store.ErrNotFound
	}

	slog.InfoContext(ctx, "Lancamento updated in SQLite", "id", id, "status", string(draft.Status))
	return r.get(ctx, id)
}

// Delete implements store.RecordStore.
func (r *Repository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM lancamentos WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete lancamento %s: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete lancamento %s: %w", id, err)
	}
	if affected == 0 {
		return store.ErrNotFound
	}

	slog.InfoContext(ctx, "Lancamento deleted from SQLite", "id", id)
	return nil
}

func (r *Repository) get(ctx context.Context, id string) (core.Lancamento, error) {
	query := `SELECT ` + selectColumns + ` FROM lancamentos WHERE id = ?`
	l, err := scanLancamento(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return core.Lancamento{}, store.ErrNotFound
	}
	if err != nil {
		return core.Lancamento{}, fmt.Errorf("get lancamento %s: %w", id, err)
	}
	return l, nil
}
