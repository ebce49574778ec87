package http

import (
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/tekinf2025/controle-financeiro-tekinfo/internal/core"
	"github.com/tekinf2025/controle-financeiro-tekinfo/internal/export"
	"github.com/tekinf2025/controle-financeiro-tekinfo/internal/log"
	"github.com/tekinf2025/controle-financeiro-tekinfo/internal/store"
)

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"brl":       formatReais,
		"brdate":    formatDateBR,
		"saldoCl":   saldoClass,
		"tipoLabel": tipoLabel,
	}
}

// formatReais renders a decimal amount as Brazilian currency, e.g.
// 1234.5 -> "R$ 1.234,50".
func formatReais(v decimal.Decimal) string {
	neg := v.IsNegative()
	s := v.Abs().StringFixed(2)

	intPart, fracPart, _ := strings.Cut(s, ".")
	var b strings.Builder
	for i, ch := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(ch)
	}

	out := "R$ " + b.String() + "," + fracPart
	if neg {
		return "-" + out
	}
	return out
}

func formatDateBR(d core.Date) string {
	if d.IsZero() {
		return ""
	}
	return fmt.Sprintf("%02d/%02d/%04d", d.Day(), d.Month(), d.Year())
}

// tipoLabel maps the stored value to its display form.
func tipoLabel(t core.Tipo) string {
	if t == core.Saida {
		return "Saída"
	}
	return string(t)
}

func saldoClass(v decimal.Decimal) string {
	if v.IsNegative() {
		return "saldo-negativo"
	}
	return "saldo-positivo"
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if s.templates == nil {
		slog.ErrorContext(r.Context(), "Templates not loaded", "url", r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	start, end := core.Today().MonthBounds()
	data := struct {
		Inicio     string
		Fim        string
		Categorias []core.Categoria
		Tipos      []core.Tipo
		Statuses   []core.Status
	}{
		Inicio:     start.String(),
		Fim:        end.String(),
		Categorias: []core.Categoria{core.CustoFixo, core.CustoExtra, core.CatReceita},
		Tipos:      []core.Tipo{core.Saida, core.Receita},
		Statuses:   []core.Status{core.Aberto, core.Fechado},
	}

	if err := s.templates.ExecuteTemplate(w, "index.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Index template execution failed", "error", err, "template", "index.html")
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// handleTablePartial renders the filtered records table.
func (s *Server) handleTablePartial(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	f := ParseFilter(r.URL.Query())
	v := s.view(r.Context(), f)

	if s.templates == nil {
		_, _ = w.Write([]byte(`<div class="placeholder">` + fmt.Sprintf("%d lançamentos", len(v.Items)) + `</div>`))
		return
	}

	data := struct {
		Items []core.Lancamento
	}{Items: v.Items}

	if err := s.templates.ExecuteTemplate(w, "lancamentos_table.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Template execution error", "error", err, "template", "lancamentos_table.html")
		_, _ = w.Write([]byte(`<div class="placeholder">Erro ao renderizar a tabela</div>`))
	}
}

// handleSummaryPartial renders the totals for the filtered view.
func (s *Server) handleSummaryPartial(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	f := ParseFilter(r.URL.Query())
	v := s.view(r.Context(), f)

	if s.templates == nil {
		_, _ = w.Write([]byte(`<div class="placeholder">Saldo: ` + formatReais(v.Totals.Saldo) + `</div>`))
		return
	}

	data := struct {
		Receitas decimal.Decimal
		Saidas   decimal.Decimal
		Saldo    decimal.Decimal
		Count    int
	}{
		Receitas: v.Totals.Receitas,
		Saidas:   v.Totals.Saidas,
		Saldo:    v.Totals.Saldo,
		Count:    v.Totals.TotalTransactions,
	}

	if err := s.templates.ExecuteTemplate(w, "resumo.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Template execution error", "error", err, "template", "resumo.html")
		_, _ = w.Write([]byte(`<div class="placeholder">Erro ao renderizar o resumo</div>`))
	}
}

// handleExportCSV streams the current filtered view as a CSV download.
func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	if resp := RequireMethod(r, http.MethodGet); resp != nil {
		resp.Write(w)
		return
	}

	f := ParseFilter(r.URL.Query())
	v := s.view(r.Context(), f)

	filename := export.Filename(core.Today())
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	_, _ = w.Write([]byte(export.CSV(v.Items)))

	slog.InfoContext(r.Context(), "CSV export generated",
		"filename", filename,
		log.FieldRecords, len(v.Items),
		log.FieldComponent, log.ComponentExportHandler,
		log.FieldOperation, log.OpExport)
}

// writeRepoError maps repository failures to HTMX error responses.
func writeRepoError(w http.ResponseWriter, r *http.Request, err error, action string) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		NotFoundError("Lançamento não encontrado").Write(w)
	case errors.Is(err, core.ErrInvalidDate),
		errors.Is(err, core.ErrInvalidValor),
		errors.Is(err, core.ErrNegativeValor),
		errors.Is(err, core.ErrEmptyDescricao),
		errors.Is(err, core.ErrInvalidCategoria),
		errors.Is(err, core.ErrInvalidTipo),
		errors.Is(err, core.ErrInvalidStatus):
		UnprocessableEntityError("Dados inválidos: " + err.Error()).Write(w)
	default:
		slog.ErrorContext(r.Context(), "Ledger operation failed",
			log.FieldError, err,
			log.FieldOperation, action,
			log.FieldComponent, log.ComponentLancamentoHandler)
		InternalServerError("Erro ao salvar o lançamento").
			TriggerErrorNotification("Erro ao salvar o lançamento").
			Write(w)
	}
}
