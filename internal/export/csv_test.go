package export

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/tekinf2025/controle-financeiro-tekinfo/internal/core"
)

func TestCSVHeaderOnlyForEmptyList(t *testing.T) {
	got := CSV(nil)
	want := Header + "\n"
	if got != want {
		t.Fatalf("CSV(nil) = %q, want %q", got, want)
	}
}

func TestCSVRow(t *testing.T) {
	list := []core.Lancamento{{
		DataVencimento: core.NewDate(2025, 9, 19),
		Descricao:      "Loja",
		Observacao:     "inss Ricardo",
		Categoria:      core.CustoFixo,
		Tipo:           core.Saida,
		Valor:          decimal.NewFromInt(334),
		Status:         core.Aberto,
		CodigoBarras:   "858700000030339603852526620716252417348212035901",
	}}
	got := CSV(list)

	lines := strings.Split(strings.TrimRight(got, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header + 1 row, got %d lines", len(lines))
	}
	want := `2025-09-19,"Loja","inss Ricardo","Custo Fixo","Saida",334,"Aberto","858700000030339603852526620716252417348212035901"`
	if lines[1] != want {
		t.Errorf("row = %q, want %q", lines[1], want)
	}
}

func TestCSVPreservesEmbeddedComma(t *testing.T) {
	list := []core.Lancamento{{
		DataVencimento: core.NewDate(2025, 9, 6),
		Descricao:      "Casa, quintal e garagem",
		Categoria:      core.CustoExtra,
		Tipo:           core.Saida,
		Valor:          decimal.NewFromInt(90),
		Status:         core.Fechado,
	}}
	got := CSV(list)
	if !strings.Contains(got, `"Casa, quintal e garagem"`) {
		t.Fatalf("comma inside quoted field not preserved: %q", got)
	}
}

func TestCSVEscapesEmbeddedQuote(t *testing.T) {
	list := []core.Lancamento{{
		DataVencimento: core.NewDate(2025, 9, 6),
		Descricao:      `Loja "central"`,
		Categoria:      core.CustoFixo,
		Tipo:           core.Saida,
		Valor:          decimal.NewFromInt(10),
		Status:         core.Aberto,
	}}
	got := CSV(list)
	if !strings.Contains(got, `"Loja ""central"""`) {
		t.Fatalf("embedded quote not doubled: %q", got)
	}
}

func TestFilename(t *testing.T) {
	got := Filename(core.NewDate(2025, 9, 19))
	if got != "lancamentos_2025-09-19.csv" {
		t.Fatalf("Filename = %q", got)
	}
}
