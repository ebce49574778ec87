package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/tekinf2025/controle-financeiro-tekinfo/internal/core"
	"github.com/tekinf2025/controle-financeiro-tekinfo/internal/store"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()
	repo, err := NewRepository(filepath.Join(t.TempDir(), "financeiro.db"))
	if err != nil {
		t.Fatalf("NewRepository: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func draft(t *testing.T, desc, valor string) core.LancamentoDraft {
	t.Helper()
	v, err := decimal.NewFromString(valor)
	if err != nil {
		t.Fatal(err)
	}
	return core.LancamentoDraft{
		DataVencimento: core.NewDate(2025, 3, 10),
		Descricao:      desc,
		Categoria:      core.CustoFixo,
		Tipo:           core.Saida,
		Valor:          v,
		Status:         core.Aberto,
	}
}

func TestRepositoryInsertAndList(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	rec, err := repo.Insert(ctx, draft(t, "Internet fibra", "129.90"))
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}

	if rec.ID == "" {
		t.Error("expected generated id")
	}
	if rec.CreatedAt == "" || rec.UpdatedAt == "" {
		t.Error("expected timestamps")
	}
	if !rec.Valor.Equal(decimal.RequireFromString("129.90")) {
		t.Errorf("Valor = %s", rec.Valor)
	}

	list, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 1 || list[0].ID != rec.ID {
		t.Errorf("list = %+v", list)
	}
}

func TestRepositoryListOrder(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	older := draft(t, "antigo", "10.00")
	older.DataVencimento = core.NewDate(2025, 1, 5)
	newer := draft(t, "recente", "20.00")
	newer.DataVencimento = core.NewDate(2025, 6, 5)

	if _, err := repo.Insert(ctx, older); err != nil {
		t.Fatal(err)
	}
	if _, err := repo.Insert(ctx, newer); err != nil {
		t.Fatal(err)
	}

	list, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("len = %d", len(list))
	}
	if list[0].Descricao != "recente" {
		t.Errorf("expected newest due date first, got %q", list[0].Descricao)
	}
}

func TestRepositoryUpdate(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	rec, err := repo.Insert(ctx, draft(t, "Luz", "200.00"))
	if err != nil {
		t.Fatal(err)
	}

	changed := draft(t, "Luz e força", "210.50")
	changed.Status = core.Fechado

	updated, err := repo.Update(ctx, rec.ID, changed)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	if updated.Descricao != "Luz e força" {
		t.Errorf("Descricao = %q", updated.Descricao)
	}
	if updated.Status != core.Fechado {
		t.Errorf("Status = %q", updated.Status)
	}
	if !updated.Valor.Equal(decimal.RequireFromString("210.50")) {
		t.Errorf("Valor = %s", updated.Valor)
	}
	if updated.CreatedAt != rec.CreatedAt {
		t.Errorf("CreatedAt changed: %q -> %q", rec.CreatedAt, updated.CreatedAt)
	}
}

func TestRepositoryUpdateNotFound(t *testing.T) {
	repo := newTestRepository(t)

	_, err := repo.Update(context.Background(), "missing", draft(t, "x", "1.00"))
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestRepositoryDelete(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	rec, err := repo.Insert(ctx, draft(t, "Assinatura", "30.00"))
	if err != nil {
		t.Fatal(err)
	}

	if err := repo.Delete(ctx, rec.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	list, err := repo.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 0 {
		t.Errorf("len = %d, want 0", len(list))
	}

	if err := repo.Delete(ctx, rec.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("second delete err = %v, want ErrNotFound", err)
	}
}
