package http

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tekinf2025/controle-financeiro-tekinfo/internal/core"
	"github.com/tekinf2025/controle-financeiro-tekinfo/internal/repository"
	"github.com/tekinf2025/controle-financeiro-tekinfo/internal/store"
)

type fakeStore struct {
	records []core.Lancamento
	nextID  int
	fail    bool
}

var errStoreDown = errors.New("store unavailable")

func (f *fakeStore) List(ctx context.Context) ([]core.Lancamento, error) {
	if f.fail {
		return nil, errStoreDown
	}
	out := make([]core.Lancamento, len(f.records))
	copy(out, f.records)
	return out, nil
}

func (f *fakeStore) Insert(ctx context.Context, draft core.LancamentoDraft) (core.Lancamento, error) {
	if f.fail {
		return core.Lancamento{}, errStoreDown
	}
	f.nextID++
	rec := core.Lancamento{
		ID:             fmt.Sprintf("id-%d", f.nextID),
		DataVencimento: draft.DataVencimento,
		Descricao:      draft.Descricao,
		Observacao:     draft.Observacao,
		Categoria:      draft.Categoria,
		Tipo:           draft.Tipo,
		Valor:          draft.Valor,
		Status:         draft.Status,
		CodigoBarras:   draft.CodigoBarras,
	}
	f.records = append(f.records, rec)
	return rec, nil
}

func (f *fakeStore) Update(ctx context.Context, id string, draft core.LancamentoDraft) (core.Lancamento, error) {
	if f.fail {
		return core.Lancamento{}, errStoreDown
	}
	for i, rec := range f.records {
		if rec.ID == id {
			rec.DataVencimento = draft.DataVencimento
			rec.Descricao = draft.Descricao
			rec.Observacao = draft.Observacao
			rec.Categoria = draft.Categoria
			rec.Tipo = draft.Tipo
			rec.Valor = draft.Valor
			rec.Status = draft.Status
			rec.CodigoBarras = draft.CodigoBarras
			f.records[i] = rec
			return rec, nil
		}
	}
	return core.Lancamento{}, store.ErrNotFound
}

func (f *fakeStore) Delete(ctx context.Context, id string) error {
	if f.fail {
		return errStoreDown
	}
	for i, rec := range f.records {
		if rec.ID == id {
			f.records = append(f.records[:i], f.records[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("decimal %q: %v", s, err)
	}
	return d
}

func seedRecord(t *testing.T, fs *fakeStore, desc, tipo, valor string, status core.Status) core.Lancamento {
	t.Helper()
	cat := core.CustoFixo
	if core.Tipo(tipo) == core.Receita {
		cat = core.CatReceita
	}
	rec, err := fs.Insert(context.Background(), core.LancamentoDraft{
		DataVencimento: core.Today(),
		Descricao:      desc,
		Categoria:      cat,
		Tipo:           core.Tipo(tipo),
		Valor:          mustDecimal(t, valor),
		Status:         status,
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	return rec
}

func newTestServer(t *testing.T, fs *fakeStore) *Server {
	t.Helper()
	repo := repository.New(fs, nil)
	if err := repo.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	s := NewServer("127.0.0.1:0", repo, time.Minute)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = s.Shutdown(ctx)
	})
	return s
}

func postForm(s *Server, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	s.Server.Handler.ServeHTTP(rec, req)
	return rec
}

func validForm() url.Values {
	form := url.Values{}
	form.Set("data_vencimento", core.Today().String())
	form.Set("descricao", "Internet fibra")
	form.Set("categoria", "Custo Fixo")
	form.Set("tipo", "Saida")
	form.Set("valor", "129,90")
	return form
}

func TestHandleCreateLancamento(t *testing.T) {
	fs := &fakeStore{}
	s := newTestServer(t, fs)

	rec := postForm(s, "/lancamentos", validForm())

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if len(fs.records) != 1 {
		t.Fatalf("store has %d records, want 1", len(fs.records))
	}
	if !strings.Contains(rec.Header().Get("HX-Trigger"), "lancamento:created") {
		t.Errorf("HX-Trigger = %q", rec.Header().Get("HX-Trigger"))
	}
}

func TestHandleCreateLancamentoInvalid(t *testing.T) {
	fs := &fakeStore{}
	s := newTestServer(t, fs)

	form := validForm()
	form.Set("valor", "-10,00")

	rec := postForm(s, "/lancamentos", form)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", rec.Code)
	}
	if len(fs.records) != 0 {
		t.Errorf("store has %d records, want 0", len(fs.records))
	}
}

func TestHandleCreateLancamentoStoreFailure(t *testing.T) {
	fs := &fakeStore{}
	s := newTestServer(t, fs)
	fs.fail = true

	rec := postForm(s, "/lancamentos", validForm())

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}

func TestHandleCreateLancamentoMethodNotAllowed(t *testing.T) {
	s := newTestServer(t, &fakeStore{})

	req := httptest.NewRequest(http.MethodGet, "/lancamentos", nil)
	rec := httptest.NewRecorder()
	s.Server.Handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
}

func TestHandleUpdateLancamento(t *testing.T) {
	fs := &fakeStore{}
	existing := seedRecord(t, fs, "Luz", "Saida", "200.00", core.Aberto)
	s := newTestServer(t, fs)

	form := validForm()
	form.Set("id", existing.ID)
	form.Set("descricao", "Luz e força")

	rec := postForm(s, "/lancamentos/update", form)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if fs.records[0].Descricao != "Luz e força" {
		t.Errorf("store record = %q", fs.records[0].Descricao)
	}
}

func TestHandleUpdateLancamentoNotFound(t *testing.T) {
	s := newTestServer(t, &fakeStore{})

	form := validForm()
	form.Set("id", "missing")

	rec := postForm(s, "/lancamentos/update", form)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestHandleMarkPaid(t *testing.T) {
	fs := &fakeStore{}
	existing := seedRecord(t, fs, "Boleto", "Saida", "80.00", core.Aberto)
	s := newTestServer(t, fs)

	form := url.Values{}
	form.Set("id", existing.ID)

	rec := postForm(s, "/lancamentos/pagar", form)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if fs.records[0].Status != core.Fechado {
		t.Errorf("status = %q, want Fechado", fs.records[0].Status)
	}
}

func TestHandleMarkPaidAlreadyClosed(t *testing.T) {
	fs := &fakeStore{}
	existing := seedRecord(t, fs, "Boleto", "Saida", "80.00", core.Fechado)
	s := newTestServer(t, fs)

	form := url.Values{}
	form.Set("id", existing.ID)

	rec := postForm(s, "/lancamentos/pagar", form)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", rec.Code)
	}
}

func TestHandleDeleteLancamento(t *testing.T) {
	fs := &fakeStore{}
	existing := seedRecord(t, fs, "Assinatura", "Saida", "30.00", core.Aberto)
	s := newTestServer(t, fs)

	form := url.Values{}
	form.Set("id", existing.ID)

	rec := postForm(s, "/lancamentos/delete", form)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if len(fs.records) != 0 {
		t.Errorf("store has %d records, want 0", len(fs.records))
	}
}

func TestHandleDeleteLancamentoJSONBody(t *testing.T) {
	fs := &fakeStore{}
	existing := seedRecord(t, fs, "Assinatura", "Saida", "30.00", core.Aberto)
	s := newTestServer(t, fs)

	req := httptest.NewRequest(http.MethodDelete, "/lancamentos/delete",
		strings.NewReader(`{"id":"`+existing.ID+`"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Server.Handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if len(fs.records) != 0 {
		t.Errorf("store has %d records, want 0", len(fs.records))
	}
}

func TestHandleDeleteLancamentoMissingID(t *testing.T) {
	s := newTestServer(t, &fakeStore{})

	rec := postForm(s, "/lancamentos/delete", url.Values{})

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHandleExportCSV(t *testing.T) {
	fs := &fakeStore{}
	seedRecord(t, fs, "Mensalidade", "Receita", "150.00", core.Aberto)
	s := newTestServer(t, fs)

	req := httptest.NewRequest(http.MethodGet, "/export/csv", nil)
	rec := httptest.NewRecorder()
	s.Server.Handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Errorf("Content-Type = %q", ct)
	}
	cd := rec.Header().Get("Content-Disposition")
	if !strings.Contains(cd, "lancamentos_") || !strings.Contains(cd, ".csv") {
		t.Errorf("Content-Disposition = %q", cd)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Mensalidade") {
		t.Errorf("CSV body missing record: %s", body)
	}
}

func TestHandleTablePartial(t *testing.T) {
	fs := &fakeStore{}
	seedRecord(t, fs, "Internet fibra", "Saida", "129.90", core.Aberto)
	s := newTestServer(t, fs)

	req := httptest.NewRequest(http.MethodGet, "/ui/lancamentos", nil)
	rec := httptest.NewRecorder()
	s.Server.Handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Internet fibra") {
		t.Errorf("table partial missing record: %s", rec.Body.String())
	}
}

func TestHandleSummaryPartial(t *testing.T) {
	fs := &fakeStore{}
	seedRecord(t, fs, "Mensalidade", "Receita", "100.00", core.Aberto)
	seedRecord(t, fs, "Luz", "Saida", "40.00", core.Aberto)
	s := newTestServer(t, fs)

	req := httptest.NewRequest(http.MethodGet, "/ui/resumo", nil)
	rec := httptest.NewRecorder()
	s.Server.Handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "R$ 60,00") {
		t.Errorf("summary missing saldo: %s", body)
	}
}

func TestViewCacheInvalidatedOnMutation(t *testing.T) {
	fs := &fakeStore{}
	s := newTestServer(t, fs)

	// Warm the cache with the default view.
	req := httptest.NewRequest(http.MethodGet, "/ui/lancamentos", nil)
	s.Server.Handler.ServeHTTP(httptest.NewRecorder(), req)

	postForm(s, "/lancamentos", validForm())

	req = httptest.NewRequest(http.MethodGet, "/ui/lancamentos", nil)
	rec := httptest.NewRecorder()
	s.Server.Handler.ServeHTTP(rec, req)

	if !strings.Contains(rec.Body.String(), "Internet fibra") {
		t.Errorf("stale view after mutation: %s", rec.Body.String())
	}
}

func TestHealthAndReady(t *testing.T) {
	s := newTestServer(t, &fakeStore{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	s.Server.Handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("healthz status = %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/readyz", nil)
	rec = httptest.NewRecorder()
	s.Server.Handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("readyz status = %d", rec.Code)
	}
}

func TestReadyBeforeLoad(t *testing.T) {
	repo := repository.New(&fakeStore{}, nil)
	s := NewServer("127.0.0.1:0", repo, time.Minute)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = s.Shutdown(ctx)
	})

	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	rec := httptest.NewRecorder()
	s.Server.Handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("readyz status = %d, want 503", rec.Code)
	}
}

func TestHandleCreateLancamentoExplicitStatus(t *testing.T) {
	fs := &fakeStore{}
	s := newTestServer(t, fs)

	form := validForm()
	form.Set("status", "Fechado")
	rec := postForm(s, "/lancamentos", form)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if len(fs.records) != 1 {
		t.Fatalf("store has %d records, want 1", len(fs.records))
	}
	if fs.records[0].Status != core.Fechado {
		t.Errorf("stored status = %q, want Fechado", fs.records[0].Status)
	}
}

func TestIndexPageFormAndSummaryWiring(t *testing.T) {
	fs := &fakeStore{}
	s := newTestServer(t, fs)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	s.Server.Handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()

	// The create/edit form must expose the status as a real choice and
	// carry the hidden id used when a row is edited in place.
	formPart := body[strings.Index(body, `id="lancamento-form"`):]
	if !strings.Contains(formPart, `<select name="status"`) {
		t.Error("create form has no status select")
	}
	for _, option := range []string{">Aberto<", ">Fechado<"} {
		if !strings.Contains(formPart, option) {
			t.Errorf("status select missing option %s", option)
		}
	}
	if !strings.Contains(formPart, `name="id"`) {
		t.Error("create form has no hidden id field")
	}

	// The summary cards must re-fetch whenever the filter form changes,
	// not only after mutations.
	resumoPart := body[strings.Index(body, `id="resumo"`):strings.Index(body, `id="lancamento-form"`)]
	if !strings.Contains(resumoPart, "change from:#filter-form") {
		t.Error("summary section does not refresh on filter change")
	}
	if !strings.Contains(resumoPart, "ledger:refresh from:body") {
		t.Error("summary section does not refresh after mutations")
	}
}

func TestCreateLancamentoLogsStructuredFields(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	fs := &fakeStore{}
	s := newTestServer(t, fs)

	rec := postForm(s, "/lancamentos", validForm())
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	out := buf.String()
	for _, want := range []string{
		`"component":"lancamento_handler"`,
		`"operation":"create"`,
		`"lancamento_id":"id-1"`,
		`"descricao":"Internet fibra"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %s:\n%s", want, out)
		}
	}
}
