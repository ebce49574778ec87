package http

import (
	"fmt"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/tekinf2025/controle-financeiro-tekinfo/internal/core"
	"github.com/tekinf2025/controle-financeiro-tekinfo/internal/log"
)

func (s *Server) handleCreateLancamento(w http.ResponseWriter, r *http.Request) {
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return
	}
	if resp := ParseFormOrFail(r); resp != nil {
		resp.Write(w)
		return
	}

	draft, err := ParseDraft(r.Form)
	if err != nil {
		UnprocessableEntityError("Dados inválidos: " + err.Error()).Write(w)
		return
	}

	record, err := s.repo.Add(r.Context(), draft)
	if err != nil {
		writeRepoError(w, r, err, "create")
		return
	}
	s.invalidateViews()

	slog.InfoContext(r.Context(), "Lancamento created",
		log.FieldLancamentoID, record.ID,
		log.FieldDescricao, record.Descricao,
		log.FieldValor, record.Valor.String(),
		log.FieldTipo, string(record.Tipo),
		log.FieldComponent, log.ComponentLancamentoHandler,
		log.FieldOperation, log.OpCreate)

	msg := fmt.Sprintf("Lançamento registrado: %s — %s",
		template.HTMLEscapeString(record.Descricao), formatReais(record.Valor))

	NewHTMXResponse().
		TriggerLancamentoCreated(record.ID).
		TriggerFormReset().
		TriggerLedgerRefresh().
		TriggerSuccessNotification(msg).
		Write(w)
}

func (s *Server) handleUpdateLancamento(w http.ResponseWriter, r *http.Request) {
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return
	}
	if resp := ParseFormOrFail(r); resp != nil {
		resp.Write(w)
		return
	}

	id := sanitizeInput(r.Form.Get("id"))
	if id == "" {
		BadRequestError("ID do lançamento ausente").Write(w)
		return
	}

	draft, err := ParseDraft(r.Form)
	if err != nil {
		UnprocessableEntityError("Dados inválidos: " + err.Error()).Write(w)
		return
	}

	record, err := s.repo.Update(r.Context(), id, draft)
	if err != nil {
		writeRepoError(w, r, err, "update")
		return
	}
	s.invalidateViews()

	slog.InfoContext(r.Context(), "Lancamento updated",
		log.FieldLancamentoID, record.ID,
		log.FieldDescricao, record.Descricao,
		log.FieldComponent, log.ComponentLancamentoHandler,
		log.FieldOperation, log.OpUpdate)

	NewHTMXResponse().
		TriggerLancamentoUpdated(record.ID).
		TriggerFormReset().
		TriggerLedgerRefresh().
		TriggerSuccessNotification("Lançamento atualizado").
		Write(w)
}

func (s *Server) handleMarkPaid(w http.ResponseWriter, r *http.Request) {
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return
	}
	if resp := ParseFormOrFail(r); resp != nil {
		resp.Write(w)
		return
	}

	id := sanitizeInput(r.Form.Get("id"))
	if id == "" {
		BadRequestError("ID do lançamento ausente").Write(w)
		return
	}

	// Only open records can be settled.
	if current, err := s.repo.Get(id); err == nil && current.Status == core.Fechado {
		UnprocessableEntityError("Lançamento já está fechado").Write(w)
		return
	}

	record, err := s.repo.MarkPaid(r.Context(), id)
	if err != nil {
		writeRepoError(w, r, err, "mark_paid")
		return
	}
	s.invalidateViews()

	slog.InfoContext(r.Context(), "Lancamento marked as paid",
		log.FieldLancamentoID, record.ID,
		log.FieldDescricao, record.Descricao,
		log.FieldComponent, log.ComponentLancamentoHandler,
		log.FieldOperation, log.OpMarkPaid)

	NewHTMXResponse().
		TriggerLancamentoUpdated(record.ID).
		TriggerLedgerRefresh().
		TriggerSuccessNotification("Lançamento pago: " + template.HTMLEscapeString(record.Descricao)).
		Write(w)
}

func (s *Server) handleDeleteLancamento(w http.ResponseWriter, r *http.Request) {
	if resp := RequireDeleteOrPOST(r); resp != nil {
		resp.Write(w)
		return
	}

	parser := NewRequestBodyParser(r)
	if err := parser.Parse(); err != nil {
		slog.ErrorContext(r.Context(), "Parse delete body error",
			log.FieldError, err,
			log.FieldMethod, r.Method,
			log.FieldURL, r.URL.Path)
		BadRequestError("Formato de requisição inválido").Write(w)
		return
	}

	id := parser.Get("id")
	if id == "" {
		// HTMX may also send the id as a query parameter.
		id = sanitizeInput(r.URL.Query().Get("id"))
	}
	if id == "" {
		BadRequestError("ID do lançamento ausente").Write(w)
		return
	}

	if err := s.repo.Remove(r.Context(), id); err != nil {
		writeRepoError(w, r, err, "delete")
		return
	}
	s.invalidateViews()

	slog.InfoContext(r.Context(), "Lancamento deleted",
		log.FieldLancamentoID, id,
		log.FieldComponent, log.ComponentLancamentoHandler,
		log.FieldOperation, log.OpDelete)

	NewHTMXResponse().
		TriggerLancamentoDeleted(id).
		TriggerLedgerRefresh().
		TriggerSuccessNotification("Lançamento excluído").
		Write(w)
}
