// Package rest implements the record store contract against a hosted
// PostgREST-style table endpoint. Each operation is a single
// request/response; failures surface immediately with no retries.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tekinf2025/controle-financeiro-tekinfo/internal/core"
	"github.com/tekinf2025/controle-financeiro-tekinfo/internal/store"
)

const defaultTimeout = 15 * time.Second

type Client struct {
	http    *http.Client
	baseURL string
	apiKey  string
	table   string
}

var _ store.RecordStore = (*Client)(nil)

// NewClient creates a client for the given PostgREST endpoint. baseURL
// is the service root (the "/rest/v1" prefix is appended here), apiKey
// is sent both as apikey and bearer token, table is the table name.
func NewClient(baseURL, apiKey, table string) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("record store URL is required")
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("parse record store URL: %w", err)
	}
	if table == "" {
		table = "financeiro_lancamentos"
	}
	return &Client{
		http:    &http.Client{Timeout: defaultTimeout},
		baseURL: baseURL,
		apiKey:  apiKey,
		table:   table,
	}, nil
}

func (c *Client) tableURL(query string) string {
	u := c.baseURL + "/rest/v1/" + c.table
	if query != "" {
		u += "?" + query
	}
	return u
}

func (c *Client) newRequest(ctx context.Context, method, u string, body any) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if c.apiKey != "" {
		req.Header.Set("apikey", c.apiKey)
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	// Mutations must hand back the persisted row.
	req.Header.Set("Prefer", "return=representation")
	return req, nil
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("record store request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read record store response: %w", err)
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, store.ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("record store %s %s: status %d: %s",
			req.Method, req.URL.Path, resp.StatusCode, truncate(data, 200))
	}
	return data, nil
}

func truncate(b []byte, n int) string {
	s := strings.TrimSpace(string(b))
	if len(s) > n {
		return s[:n] + "..."
	}
	return s
}

// List implements store.RecordStore.
func (c *Client) List(ctx context.Context) ([]core.Lancamento, error) {
	q := url.Values{}
	q.Set("select", "*")
	q.Set("order", "data_vencimento.desc")
	req, err := c.newRequest(ctx, http.MethodGet, c.tableURL(q.Encode()), nil)
	if err != nil {
		return nil, err
	}
	data, err := c.do(req)
	if err != nil {
		return nil, fmt.Errorf("list lancamentos: %w", err)
	}

	var list []core.Lancamento
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("decode lancamento list: %w", err)
	}

	slog.DebugContext(ctx, "Fetched lancamentos from record store", "count", len(list))
	return list, nil
}

// insertPayload decorates the draft with the timestamps the hosted
// table expects on insert, matching the original table contract.
type insertPayload struct {
	core.LancamentoDraft
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

type updatePayload struct {
	core.LancamentoDraft
	UpdatedAt string `json:"updated_at"`
}

func nowISO() string { return time.Now().UTC().Format(time.RFC3339) }

// Insert implements store.RecordStore.
func (c *Client) Insert(ctx context.Context, draft core.LancamentoDraft) (core.Lancamento, error) {
	payload := insertPayload{LancamentoDraft: draft, CreatedAt: nowISO(), UpdatedAt: nowISO()}
	req, err := c.newRequest(ctx, http.MethodPost, c.tableURL(""), payload)
	if err != nil {
		return core.Lancamento{}, err
	}
	data, err := c.do(req)
	if err != nil {
		return core.Lancamento{}, fmt.Errorf("insert lancamento: %w", err)
	}
	record, err := decodeSingle(data)
	if err != nil {
		return core.Lancamento{}, fmt.Errorf("insert lancamento: %w", err)
	}

	slog.InfoContext(ctx, "Lancamento inserted in record store",
		"id", record.ID,
		"descricao", record.Descricao,
		"valor", record.Valor.String())
	return record, nil
}

// Update implements store.RecordStore.
func (c *Client) Update(ctx context.Context, id string, draft core.LancamentoDraft) (core.Lancamento, error) {
	q := url.Values{}
	q.Set("id", "eq."+id)
	payload := updatePayload{LancamentoDraft: draft, UpdatedAt: nowISO()}
	req, err := c.newRequest(ctx, http.MethodPatch, c.tableURL(q.Encode()), payload)
	if err != nil {
		return core.Lancamento{}, err
	}
	data, err := c.do(req)
	if err != nil {
		return core.Lancamento{}, fmt.Errorf("update lancamento %s: %w", id, err)
	}
	record, err := decodeSingle(data)
	if err != nil {
		return core.Lancamento{}, fmt.Errorf("update lancamento %s: %w", id, err)
	}

	slog.InfoContext(ctx, "Lancamento updated in record store", "id", record.ID, "status", record.Status)
	return record, nil
}

// Delete implements store.RecordStore.
func (c *Client) Delete(ctx context.Context, id string) error {
	q := url.Values{}
	q.Set("id", "eq."+id)
	req, err := c.newRequest(ctx, http.MethodDelete, c.tableURL(q.Encode()), nil)
	if err != nil {
		return err
	}
	data, err := c.do(req)
	if err != nil {
		return fmt.Errorf("delete lancamento %s: %w", id, err)
	}
	// PostgREST deletes matching rows and returns them; an empty result
	// means the id did not exist.
	var deleted []json.RawMessage
	if err := json.Unmarshal(data, &deleted); err != nil {
		return fmt.Errorf("decode delete response: %w", err)
	}
	if len(deleted) == 0 {
		return store.ErrNotFound
	}

	slog.InfoContext(ctx, "Lancamento deleted from record store", "id", id)
	return nil
}

// decodeSingle unwraps the single-element array PostgREST returns for
// row-level mutations. An empty array means the filter matched nothing.
func decodeSingle(data []byte) (core.Lancamento, error) {
	var list []core.Lancamento
	if err := json.Unmarshal(data, &list); err != nil {
		// Some deployments return a bare object when Prefer asks for a
		// single representation.
		var one core.Lancamento
		if err2 := json.Unmarshal(data, &one); err2 == nil && one.ID != "" {
			return one, nil
		}
		return core.Lancamento{}, fmt.Errorf("decode record: %w", err)
	}
	if len(list) == 0 {
		return core.Lancamento{}, store.ErrNotFound
	}
	return list[0], nil
}
