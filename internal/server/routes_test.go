package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/comfy-catalog/catalog-server/internal/app"
	"github.com/comfy-catalog/catalog-server/internal/catalog"
	"github.com/comfy-catalog/catalog-server/internal/config"
	"github.com/comfy-catalog/catalog-server/internal/source"
)

const testSheetID = "1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms"

func newFakeSheet(t *testing.T) *httptest.Server {
	t.Helper()

	modelsCSV := "tipo,nome,base_model,estilo_utilizacao,notas,fonte_url\n" +
		"lora,AnimeStyle,SDXL,anime,\"linha1\nlinha2, teste\",https://civitai.com/animestyle\n" +
		"model,RealismCheckpoint,SD1.5,retrato,,\n"
	workflowsCSV := "nome,objetivo,dependencias,versao\n" +
		"Retrato HighRes,retrato realista,\"ControlNet, IPAdapter\",v2\n" +
		"Upscale Simples,upscale,UltimateSDUpscale,v1\n"

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("sheet") {
		case config.DefaultModelsTab:
			w.Write([]byte(modelsCSV))
		case config.DefaultWorkflowsTab:
			w.Write([]byte(workflowsCSV))
		default:
			http.NotFound(w, r)
		}
	}))
}

func newTestServer(t *testing.T) (http.Handler, *app.App) {
	t.Helper()

	sheet := newFakeSheet(t)
	t.Cleanup(sheet.Close)

	cfg := &config.Config{
		Host:           "localhost",
		Port:           8883,
		Environment:    "test",
		SheetID:        testSheetID,
		ModelsTab:      config.DefaultModelsTab,
		WorkflowsTab:   config.DefaultWorkflowsTab,
		RefreshTTL:     config.DefaultRefreshTTL,
		CacheDir:       t.TempDir(),
		ExportsDir:     t.TempDir(),
		FilesystemType: config.FilesystemLocal,
	}

	a, err := app.NewApp(cfg,
		app.WithStore(source.WithBaseURL(sheet.URL)),
		app.WithExportStore(),
	)
	if err != nil {
		t.Fatalf("NewApp() error = %v", err)
	}
	t.Cleanup(a.Close)

	srv, err := NewServer(cfg)
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}
	srv.SetupRoutes(a)

	return srv.Handler(), a
}

func doRequest(t *testing.T, handler http.Handler, method, target string) *httptest.ResponseRecorder {
	t.Helper()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, nil)
	handler.ServeHTTP(rec, req)

	return rec
}

type listModelsResponse struct {
	Status string               `json:"status"`
	Data   []catalog.ModelEntry `json:"data"`
	Total  int                  `json:"total"`
}

type listWorkflowsResponse struct {
	Status string                  `json:"status"`
	Data   []catalog.WorkflowEntry `json:"data"`
	Total  int                     `json:"total"`
}

func TestHealthz(t *testing.T) {
	handler, _ := newTestServer(t)

	rec := doRequest(t, handler, http.MethodGet, "/healthz")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestListModelsFiltering(t *testing.T) {
	handler, _ := newTestServer(t)

	tests := []struct {
		name      string
		target    string
		wantNomes []string
		wantTotal int
	}{
		{
			name:      "no filters returns everything",
			target:    "/api/v1/models",
			wantNomes: []string{"AnimeStyle", "RealismCheckpoint"},
			wantTotal: 2,
		},
		{
			name:      "tipo filter",
			target:    "/api/v1/models?tipo=lora",
			wantNomes: []string{"AnimeStyle"},
			wantTotal: 2,
		},
		{
			name:      "free text over notas",
			target:    "/api/v1/models?q=linha2",
			wantNomes: []string{"AnimeStyle"},
			wantTotal: 2,
		},
		{
			name:      "no match is empty, not an error",
			target:    "/api/v1/models?base_model=FLUX",
			wantNomes: []string{},
			wantTotal: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, handler, http.MethodGet, tt.target)
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
			}

			var resp listModelsResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("bad response body: %v", err)
			}

			nomes := make([]string, 0, len(resp.Data))
			for _, e := range resp.Data {
				nomes = append(nomes, e.Nome)
			}

			if len(nomes) != len(tt.wantNomes) {
				t.Fatalf("got %v, want %v", nomes, tt.wantNomes)
			}
			for i := range nomes {
				if nomes[i] != tt.wantNomes[i] {
					t.Errorf("got %v, want %v", nomes, tt.wantNomes)
				}
			}
			if resp.Total != tt.wantTotal {
				t.Errorf("total = %d, want %d", resp.Total, tt.wantTotal)
			}
		})
	}
}

func TestListWorkflowsFiltering(t *testing.T) {
	handler, _ := newTestServer(t)

	rec := doRequest(t, handler, http.MethodGet, "/api/v1/workflows?q=ipadapter")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}

	var resp listWorkflowsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response body: %v", err)
	}

	if len(resp.Data) != 1 || resp.Data[0].Nome != "Retrato HighRes" {
		t.Errorf("unexpected workflows: %+v", resp.Data)
	}
}

func TestExportModelsCSVEndpoint(t *testing.T) {
	handler, _ := newTestServer(t)

	rec := doRequest(t, handler, http.MethodGet, "/api/v1/models/export?tipo=lora&fields=nome,tipo")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}

	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Errorf("content type = %q, want text/csv", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "modelos_loras_filtrados.csv") {
		t.Errorf("content disposition = %q", cd)
	}

	want := "nome,tipo\nAnimeStyle,lora\n"
	if rec.Body.String() != want {
		t.Errorf("body = %q, want %q", rec.Body.String(), want)
	}
}

func TestExportUnknownFieldIsBadRequest(t *testing.T) {
	handler, _ := newTestServer(t)

	rec := doRequest(t, handler, http.MethodGet, "/api/v1/models/export?fields=rating")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestExportStoreFlow(t *testing.T) {
	handler, _ := newTestServer(t)

	rec := doRequest(t, handler, http.MethodGet, "/api/v1/workflows/export?store=true")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}

	var resp struct {
		Data map[string]string `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if !strings.Contains(resp.Data["url"], "/file/") {
		t.Errorf("unexpected export url: %q", resp.Data["url"])
	}

	// The stored file is then servable through /file/:filename.
	filename := resp.Data["url"][strings.LastIndex(resp.Data["url"], "/")+1:]
	fileRec := doRequest(t, handler, http.MethodGet, "/file/"+filename)
	if fileRec.Code != http.StatusOK {
		t.Fatalf("file status = %d", fileRec.Code)
	}
	if !strings.Contains(fileRec.Body.String(), "Retrato HighRes") {
		t.Errorf("stored export content missing rows: %q", fileRec.Body.String())
	}
}

func TestRefreshEndpoint(t *testing.T) {
	handler, a := newTestServer(t)

	rec := doRequest(t, handler, http.MethodPost, "/api/v1/refresh")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}

	var resp struct {
		Data struct {
			Digest    string `json:"digest"`
			Models    int    `json:"models"`
			Workflows int    `json:"workflows"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response body: %v", err)
	}

	if resp.Data.Digest == "" || resp.Data.Models != 2 || resp.Data.Workflows != 2 {
		t.Errorf("unexpected refresh summary: %+v", resp.Data)
	}
	if a.Store().Current() == nil {
		t.Error("refresh did not install a snapshot")
	}
}
