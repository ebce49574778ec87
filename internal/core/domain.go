package core

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	CustoFixo  Categoria = "Custo Fixo"
	CustoExtra Categoria = "Custo Extra"
	CatReceita Categoria = "Receita"

	Saida   Tipo = "Saida"
	Receita Tipo = "Receita"

	Aberto  Status = "Aberto"
	Fechado Status = "Fechado"
)

type (
	Categoria string

	Tipo string

	Status string

	// Lancamento is a single ledger entry as acknowledged by the record
	// store. ID and the timestamps are owned by the store and never
	// recomputed on the client side.
	Lancamento struct {
		ID             string          `json:"id"`
		DataVencimento Date            `json:"data_vencimento"`
		Descricao      string          `json:"descricao"`
		Observacao     string          `json:"observacao"`
		Categoria      Categoria       `json:"categoria"`
		Tipo           Tipo            `json:"tipo"`
		Valor          decimal.Decimal `json:"valor"`
		Status         Status          `json:"status"`
		CodigoBarras   string          `json:"codigo_barras"`
		CreatedAt      string          `json:"created_at,omitempty"`
		UpdatedAt      string          `json:"updated_at,omitempty"`
	}

	// LancamentoDraft carries the fields the user controls when creating
	// or editing an entry. The store assigns everything else.
	LancamentoDraft struct {
		DataVencimento Date            `json:"data_vencimento"`
		Descricao      string          `json:"descricao"`
		Observacao     string          `json:"observacao"`
		Categoria      Categoria       `json:"categoria"`
		Tipo           Tipo            `json:"tipo"`
		Valor          decimal.Decimal `json:"valor"`
		Status         Status          `json:"status"`
		CodigoBarras   string          `json:"codigo_barras"`
	}
)

var (
	ErrInvalidDate      = errors.New("invalid due date")
	ErrInvalidValor     = errors.New("invalid amount")
	ErrNegativeValor    = errors.New("amount cannot be negative")
	ErrEmptyDescricao   = errors.New("empty description")
	ErrInvalidCategoria = errors.New("invalid category")
	ErrInvalidTipo      = errors.New("invalid type")
	ErrInvalidStatus    = errors.New("invalid status")
)

func (c Categoria) Validate() error {
	switch c {
	case CustoFixo, CustoExtra, CatReceita:
		return nil
	default:
		return ErrInvalidCategoria
	}
}

func (t Tipo) Validate() error {
	switch t {
	case Saida, Receita:
		return nil
	default:
		return ErrInvalidTipo
	}
}

func (s Status) Validate() error {
	switch s {
	case Aberto, Fechado:
		return nil
	default:
		return ErrInvalidStatus
	}
}

// ParseValor parses a user-supplied amount into a two-decimal value.
// Sign is expressed through Tipo, so negative amounts are rejected.
// Accepts both "1234.56" and "1.234,56" style inputs.
func ParseValor(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidValor
	}
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	}
	v, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidValor
	}
	if v.IsNegative() {
		return decimal.Zero, ErrNegativeValor
	}
	return v.Round(2), nil
}

func (d LancamentoDraft) Validate() error {
	if d.DataVencimento.IsZero() {
		return ErrInvalidDate
	}
	if len(strings.TrimSpace(d.Descricao)) == 0 {
		return ErrEmptyDescricao
	}
	if len(d.Descricao) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	if err := d.Categoria.Validate(); err != nil {
		return err
	}
	if err := d.Tipo.Validate(); err != nil {
		return err
	}
	if err := d.Status.Validate(); err != nil {
		return err
	}
	if d.Valor.IsNegative() {
		return ErrNegativeValor
	}
	return nil
}
