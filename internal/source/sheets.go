package source

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/comfy-catalog/catalog-server/internal/catalog"
	"github.com/comfy-catalog/catalog-server/internal/config"
)

const defaultBaseURL = "https://docs.google.com"

var (
	bareSheetIDPattern = regexp.MustCompile(`^[A-Za-z0-9-_]{20,}$`)
	sheetURLPattern    = regexp.MustCompile(`/spreadsheets/d/([A-Za-z0-9-_]+)`)
)

// ExtractSheetID accepts a full Google Sheets URL or a bare sheet ID and
// returns the ID.
func ExtractSheetID(urlOrID string) string {
	if urlOrID == "" {
		return ""
	}
	if bareSheetIDPattern.MatchString(urlOrID) {
		return urlOrID
	}
	if m := sheetURLPattern.FindStringSubmatch(urlOrID); m != nil {
		return m[1]
	}

	return urlOrID
}

// Client reads worksheet tabs from a published Google Sheet through its
// CSV export endpoint. The sheet must be readable by "anyone with the
// link"; no credentials are sent.
type Client struct {
	httpClient   *http.Client
	baseURL      string
	sheetID      string
	modelsTab    string
	workflowsTab string
}

type Option func(c *Client)

// WithBaseURL overrides the Google endpoint, used by tests.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimSuffix(baseURL, "/")
	}
}

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func NewClient(cfg *config.Config, options ...Option) (*Client, error) {
	sheetID := ExtractSheetID(cfg.SheetID)
	if sheetID == "" {
		return nil, fmt.Errorf("sheet_id is not set")
	}

	client := &Client{
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		baseURL:      defaultBaseURL,
		sheetID:      sheetID,
		modelsTab:    cfg.ModelsTab,
		workflowsTab: cfg.WorkflowsTab,
	}

	for _, opt := range options {
		opt(client)
	}

	return client, nil
}

// FetchModels reads the models/LoRAs tab. The raw CSV bytes are returned
// alongside the entries so callers can fingerprint the fetch.
func (c *Client) FetchModels(ctx context.Context) ([]catalog.ModelEntry, []byte, error) {
	raw, err := c.fetchTab(ctx, c.modelsTab)
	if err != nil {
		return nil, nil, err
	}

	rows, err := parseRows(raw)
	if err != nil {
		return nil, nil, fmt.Errorf("tab %q: %w", c.modelsTab, err)
	}

	entries := make([]catalog.ModelEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, catalog.ModelEntry{
			Tipo:                   row["tipo"],
			Nome:                   row["nome"],
			BaseModel:              row["base_model"],
			EstiloUtilizacao:       row["estilo_utilizacao"],
			DimensionsRecomendadas: row["dimensions_recomendadas"],
			StrengthTipica:         row["strength_tipica"],
			Notas:                  row["notas"],
			FonteURL:               row["fonte_url"],
			CaminhoLocal:           row["caminho_local"],
			UltimaAtualizacao:      row["ultima_atualizacao"],
		})
	}

	return entries, raw, nil
}

// FetchWorkflows reads the workflows tab.
func (c *Client) FetchWorkflows(ctx context.Context) ([]catalog.WorkflowEntry, []byte, error) {
	raw, err := c.fetchTab(ctx, c.workflowsTab)
	if err != nil {
		return nil, nil, err
	}

	rows, err := parseRows(raw)
	if err != nil {
		return nil, nil, fmt.Errorf("tab %q: %w", c.workflowsTab, err)
	}

	entries := make([]catalog.WorkflowEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, catalog.WorkflowEntry{
			Nome:                row["nome"],
			Objetivo:            row["objetivo"],
			NodesPrincipais:     row["nodes_principais"],
			KSamplerRecomendado: row["ksampler_recomendado"],
			Dependencias:        row["dependencias"],
			TempoMedio:          row["tempo_medio"],
			QualidadeEsperada:   row["qualidade_esperada"],
			Link:                row["link"],
			Versao:              row["versao"],
			UltimaAtualizacao:   row["ultima_atualizacao"],
		})
	}

	return entries, raw, nil
}

func (c *Client) fetchTab(ctx context.Context, tab string) ([]byte, error) {
	endpoint := fmt.Sprintf(
		"%s/spreadsheets/d/%s/gviz/tq?tqx=out:csv&sheet=%s",
		c.baseURL, c.sheetID, url.QueryEscape(tab),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch tab %q: %w", tab, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch tab %q: status %d", tab, resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read tab %q: %w", tab, err)
	}

	return raw, nil
}

// parseRows turns raw worksheet CSV into one map per data row, keyed by
// normalized header name. Headers are trimmed and lowercased; columns
// missing from the sheet simply read as "". Source order is preserved.
func parseRows(raw []byte) ([]map[string]string, error) {
	reader := csv.NewReader(bytes.NewReader(raw))
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("invalid csv: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	header := make([]string, len(records[0]))
	for i, name := range records[0] {
		header[i] = strings.ToLower(strings.TrimSpace(name))
	}

	rows := make([]map[string]string, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make(map[string]string, len(header))
		for i, name := range header {
			if name == "" {
				continue
			}
			if i < len(record) {
				row[name] = record[i]
			}
		}
		rows = append(rows, row)
	}

	return rows, nil
}
