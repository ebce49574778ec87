// Package engine derives filtered views and summary totals from the
// full transaction list. Everything here is a pure function of its
// inputs so callers can memoize results keyed by the filter alone.
package engine

import (
	"strings"

	"github.com/tekinf2025/controle-financeiro-tekinfo/internal/core"
)

// Wildcard is the sentinel select value meaning "no constraint".
const Wildcard = "all"

// Filter describes the view over the transaction list. Every field is
// optional; the zero Filter (with wildcards) passes everything.
type Filter struct {
	SearchTerm string
	Categoria  string
	Tipo       string
	Status     string
	StartDate  core.Date
	EndDate    core.Date
}

// NewFilter returns a Filter with every categorical field at its
// wildcard value and no date bounds.
func NewFilter() Filter {
	return Filter{Categoria: Wildcard, Tipo: Wildcard, Status: Wildcard}
}

// Matches reports whether a single entry passes the filter. All
// predicates are AND'd; only the search term spans two fields (OR over
// descricao and observacao).
func (f Filter) Matches(l core.Lancamento) bool {
	if term := strings.ToLower(strings.TrimSpace(f.SearchTerm)); term != "" {
		desc := strings.ToLower(l.Descricao)
		obs := strings.ToLower(l.Observacao)
		if !strings.Contains(desc, term) && !strings.Contains(obs, term) {
			return false
		}
	}
	if f.Categoria != "" && f.Categoria != Wildcard && string(l.Categoria) != f.Categoria {
		return false
	}
	if f.Tipo != "" && f.Tipo != Wildcard && string(l.Tipo) != f.Tipo {
		return false
	}
	if f.Status != "" && f.Status != Wildcard && string(l.Status) != f.Status {
		return false
	}
	return l.DataVencimento.Within(f.StartDate, f.EndDate)
}

// Apply returns the entries passing the filter, preserving input order.
// The result is always a fresh slice; the input is never mutated.
func Apply(list []core.Lancamento, f Filter) []core.Lancamento {
	out := make([]core.Lancamento, 0, len(list))
	for _, l := range list {
		if f.Matches(l) {
			out = append(out, l)
		}
	}
	return out
}

// Key returns a stable cache key for the filter.
func (f Filter) Key() string {
	var b strings.Builder
	b.WriteString(strings.ToLower(strings.TrimSpace(f.SearchTerm)))
	b.WriteByte('|')
	b.WriteString(f.Categoria)
	b.WriteByte('|')
	b.WriteString(f.Tipo)
	b.WriteByte('|')
	b.WriteString(f.Status)
	b.WriteByte('|')
	b.WriteString(f.StartDate.String())
	b.WriteByte('|')
	b.WriteString(f.EndDate.String())
	return b.String()
}
