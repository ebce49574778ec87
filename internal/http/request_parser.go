// Package http provides HTTP server and handler implementations.
//
// This file implements utilities for parsing and validating HTTP request data.
// It consolidates the repeated patterns of filter extraction from query
// strings and draft extraction from form posts.

package http

import (
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/tekinf2025/controle-financeiro-tekinfo/internal/core"
	"github.com/tekinf2025/controle-financeiro-tekinfo/internal/engine"
)

// ParseFilter extracts a filter from query parameters. Absent date
// bounds default to the current month; a present-but-empty bound means
// unconstrained. Unparseable dates fall back to the default.
func ParseFilter(query url.Values) engine.Filter {
	f := engine.NewFilter()
	f.StartDate, f.EndDate = core.Today().MonthBounds()

	if v := strings.TrimSpace(query.Get("busca")); v != "" {
		f.SearchTerm = sanitizeInput(v)
	}
	if v := strings.TrimSpace(query.Get("categoria")); v != "" {
		f.Categoria = v
	}
	if v := strings.TrimSpace(query.Get("tipo")); v != "" {
		f.Tipo = v
	}
	if v := strings.TrimSpace(query.Get("status")); v != "" {
		f.Status = v
	}

	if query.Has("inicio") {
		f.StartDate = parseDateOrZero(query.Get("inicio"), f.StartDate)
	}
	if query.Has("fim") {
		f.EndDate = parseDateOrZero(query.Get("fim"), f.EndDate)
	}

	return f
}

func parseDateOrZero(raw string, fallback core.Date) core.Date {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return core.Date{}
	}
	d, err := core.ParseDate(raw)
	if err != nil {
		return fallback
	}
	return d
}

// ParseDraft extracts a record draft from form values. Field names
// match the table columns so the same form works for create and edit.
func ParseDraft(form url.Values) (core.LancamentoDraft, error) {
	var draft core.LancamentoDraft

	date, err := core.ParseDate(strings.TrimSpace(form.Get("data_vencimento")))
	if err != nil {
		return draft, err
	}

	valor, err := core.ParseValor(strings.TrimSpace(form.Get("valor")))
	if err != nil {
		return draft, err
	}

	draft = core.LancamentoDraft{
		DataVencimento: date,
		Descricao:      sanitizeInput(form.Get("descricao")),
		Observacao:     sanitizeInput(form.Get("observacao")),
		Categoria:      core.Categoria(strings.TrimSpace(form.Get("categoria"))),
		Tipo:           core.Tipo(strings.TrimSpace(form.Get("tipo"))),
		Valor:          valor,
		Status:         core.Status(strings.TrimSpace(form.Get("status"))),
		CodigoBarras:   sanitizeInput(form.Get("codigo_barras")),
	}
	if draft.Status == "" {
		draft.Status = core.Aberto
	}
	return draft, nil
}

// RequestBodyParser handles different content types for request body parsing.
// It supports both JSON and form-encoded data, commonly used with HTMX.
type RequestBodyParser struct {
	body     []byte
	jsonData map[string]interface{}
	formData url.Values
	parsed   bool
	err      error
}

// NewRequestBodyParser creates a parser for the given request.
// It reads the body once and stores it for subsequent parsing.
func NewRequestBodyParser(r *http.Request) *RequestBodyParser {
	p := &RequestBodyParser{}
	p.body, p.err = io.ReadAll(r.Body)
	return p
}

// Parse attempts to parse the body as JSON or form data.
func (p *RequestBodyParser) Parse() error {
	if p.parsed {
		return p.err
	}
	p.parsed = true

	if p.err != nil {
		return p.err
	}

	if len(p.body) == 0 {
		p.formData = url.Values{}
		return nil
	}

	// Try JSON first if content looks like JSON
	if p.body[0] == '{' || p.body[0] == '[' {
		p.jsonData = make(map[string]interface{})
		if err := json.Unmarshal(p.body, &p.jsonData); err != nil {
			p.err = err
			return err
		}
		return nil
	}

	// Fall back to form parsing
	p.formData, p.err = url.ParseQuery(string(p.body))
	return p.err
}

// Get returns a string value from the parsed data (JSON or form).
func (p *RequestBodyParser) Get(key string) string {
	if p.jsonData != nil {
		if val, ok := p.jsonData[key]; ok {
			return strings.TrimSpace(sanitizeInput(stringValue(val)))
		}
	}
	if p.formData != nil {
		return strings.TrimSpace(sanitizeInput(p.formData.Get(key)))
	}
	return ""
}

// stringValue converts an interface{} to string.
func stringValue(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}

// sanitizeInput removes potentially dangerous characters and trims whitespace
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	// Remove control characters except tab, newline, carriage return
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

// RequireMethod checks if the request method matches the expected method(s).
// Returns an error response builder if the method doesn't match.
func RequireMethod(r *http.Request, methods ...string) *HTMXResponseBuilder {
	for _, m := range methods {
		if r.Method == m {
			return nil
		}
	}
	return MethodNotAllowedError(strings.Join(methods, ", "))
}

// RequirePOST is a convenience function for POST-only handlers.
func RequirePOST(r *http.Request) *HTMXResponseBuilder {
	return RequireMethod(r, http.MethodPost)
}

// RequireDeleteOrPOST is a convenience function for DELETE/POST handlers.
func RequireDeleteOrPOST(r *http.Request) *HTMXResponseBuilder {
	return RequireMethod(r, http.MethodDelete, http.MethodPost)
}

// ParseFormOrFail parses the request form and returns an error response on failure.
// Returns nil on success.
func ParseFormOrFail(r *http.Request) *HTMXResponseBuilder {
	if err := r.ParseForm(); err != nil {
		return BadRequestError("Formato de requisição inválido")
	}
	return nil
}
