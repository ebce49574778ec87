// Package export renders the currently filtered transaction list as a
// CSV download. It is a pure projection of the list it is handed; no
// store round trip happens here.
package export

import (
	"strings"

	"github.com/tekinf2025/controle-financeiro-tekinfo/internal/core"
)

// Header is the literal CSV header row.
const Header = "Data Vencimento,Descrição,Observação,Categoria,Tipo,Valor,Status,Código de Barras"

// CSV renders the list. Text fields are always double-quoted (embedded
// quotes doubled); the due date and the amount stay unquoted.
func CSV(list []core.Lancamento) string {
	var b strings.Builder
	b.WriteString(Header)
	b.WriteByte('\n')
	for _, l := range list {
		b.WriteString(l.DataVencimento.String())
		b.WriteByte(',')
		writeQuoted(&b, l.Descricao)
		b.WriteByte(',')
		writeQuoted(&b, l.Observacao)
		b.WriteByte(',')
		writeQuoted(&b, string(l.Categoria))
		b.WriteByte(',')
		writeQuoted(&b, string(l.Tipo))
		b.WriteByte(',')
		b.WriteString(l.Valor.String())
		b.WriteByte(',')
		writeQuoted(&b, string(l.Status))
		b.WriteByte(',')
		writeQuoted(&b, l.CodigoBarras)
		b.WriteByte('\n')
	}
	return b.String()
}

// Filename returns the download name for an export performed on the
// given date, e.g. lancamentos_2025-09-19.csv.
func Filename(date core.Date) string {
	return "lancamentos_" + date.String() + ".csv"
}

func writeQuoted(b *strings.Builder, s string) {
	b.WriteByte('"')
	b.WriteString(strings.ReplaceAll(s, `"`, `""`))
	b.WriteByte('"')
}
