package engine

import (
	"github.com/shopspring/decimal"

	"github.com/tekinf2025/controle-financeiro-tekinfo/internal/core"
)

// Totals summarizes a (usually filtered) transaction list. Sums are
// exact decimal sums; Saldo is always Receitas minus Saidas.
type Totals struct {
	Receitas          decimal.Decimal
	Saidas            decimal.Decimal
	Saldo             decimal.Decimal
	TotalTransactions int
}

// Aggregate computes income, expense, balance and count over the list.
func Aggregate(list []core.Lancamento) Totals {
	receitas := decimal.Zero
	saidas := decimal.Zero
	for _, l := range list {
		switch l.Tipo {
		case core.Receita:
			receitas = receitas.Add(l.Valor)
		case core.Saida:
			saidas = saidas.Add(l.Valor)
		}
	}
	return Totals{
		Receitas:          receitas,
		Saidas:            saidas,
		Saldo:             receitas.Sub(saidas),
		TotalTransactions: len(list),
	}
}
