package catalog

import (
	"bytes"
	"encoding/csv"
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestExportModelsCSV(t *testing.T) {
	entries := []ModelEntry{
		{Tipo: "lora", Nome: "AnimeStyle", BaseModel: "SDXL"},
		{Tipo: "model", Nome: "RealismCheckpoint", BaseModel: "SD1.5"},
	}

	out, err := ExportModelsCSV(entries, []string{"nome", "tipo", "base_model"})
	if err != nil {
		t.Fatalf("ExportModelsCSV() error = %v", err)
	}

	want := "nome,tipo,base_model\n" +
		"AnimeStyle,lora,SDXL\n" +
		"RealismCheckpoint,model,SD1.5\n"
	if string(out) != want {
		t.Errorf("ExportModelsCSV() = %q, want %q", out, want)
	}
}

func TestExportModelsCSVDefaultFieldOrder(t *testing.T) {
	out, err := ExportModelsCSV([]ModelEntry{{Nome: "x"}}, nil)
	if err != nil {
		t.Fatalf("ExportModelsCSV() error = %v", err)
	}

	header := strings.SplitN(string(out), "\n", 2)[0]
	if got := strings.Split(header, ","); !reflect.DeepEqual(got, ModelFields) {
		t.Errorf("header = %v, want full schema %v", got, ModelFields)
	}
}

func TestExportModelsCSVUnknownField(t *testing.T) {
	_, err := ExportModelsCSV([]ModelEntry{{Nome: "x"}}, []string{"nome", "rating"})
	if !errors.Is(err, ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}

	// The column list is a caller contract; it must fail even when there
	// is nothing to export.
	_, err = ExportModelsCSV(nil, []string{"rating"})
	if !errors.Is(err, ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField for empty entries, got %v", err)
	}
}

func TestExportCSVQuoting(t *testing.T) {
	entries := []ModelEntry{
		{Nome: "Teste", Notas: "linha1\nlinha2, teste"},
		{Nome: `aspas "duplas"`, Notas: "simples"},
	}

	out, err := ExportModelsCSV(entries, []string{"nome", "notas"})
	if err != nil {
		t.Fatalf("ExportModelsCSV() error = %v", err)
	}

	if !strings.Contains(string(out), `"linha1`+"\n"+`linha2, teste"`) {
		t.Errorf("multiline field was not quoted: %q", out)
	}
	if !strings.Contains(string(out), `"aspas ""duplas"""`) {
		t.Errorf("internal quotes were not doubled: %q", out)
	}
}

func TestExportCSVRoundTrip(t *testing.T) {
	entries := []ModelEntry{
		{Tipo: "lora", Nome: "virgula, no nome", Notas: "linha1\nlinha2, teste"},
		{Tipo: "model", Nome: `com "aspas"`, Notas: ""},
		{Tipo: "model", Nome: "simples", Notas: "sem escapes"},
	}
	fields := []string{"tipo", "nome", "notas"}

	out, err := ExportModelsCSV(entries, fields)
	if err != nil {
		t.Fatalf("ExportModelsCSV() error = %v", err)
	}

	records, err := csv.NewReader(bytes.NewReader(out)).ReadAll()
	if err != nil {
		t.Fatalf("exported CSV does not re-parse: %v", err)
	}

	if !reflect.DeepEqual(records[0], fields) {
		t.Fatalf("header = %v, want %v", records[0], fields)
	}
	if len(records) != len(entries)+1 {
		t.Fatalf("got %d rows, want %d", len(records)-1, len(entries))
	}

	for i, entry := range entries {
		want := []string{entry.Tipo, entry.Nome, entry.Notas}
		if !reflect.DeepEqual(records[i+1], want) {
			t.Errorf("row %d = %v, want %v", i, records[i+1], want)
		}
	}
}

func TestExportWorkflowsCSV(t *testing.T) {
	entries := []WorkflowEntry{
		{Nome: "Retrato HighRes", Objetivo: "retrato realista", Versao: "v2"},
	}

	out, err := ExportWorkflowsCSV(entries, []string{"nome", "objetivo", "versao"})
	if err != nil {
		t.Fatalf("ExportWorkflowsCSV() error = %v", err)
	}

	want := "nome,objetivo,versao\nRetrato HighRes,retrato realista,v2\n"
	if string(out) != want {
		t.Errorf("ExportWorkflowsCSV() = %q, want %q", out, want)
	}

	if _, err := ExportWorkflowsCSV(entries, []string{"tipo"}); !errors.Is(err, ErrUnknownField) {
		t.Errorf("model-only field should be unknown for workflows, got %v", err)
	}
}

func TestExportEmptyEntries(t *testing.T) {
	out, err := ExportWorkflowsCSV(nil, nil)
	if err != nil {
		t.Fatalf("ExportWorkflowsCSV() error = %v", err)
	}

	want := strings.Join(WorkflowFields, ",") + "\n"
	if string(out) != want {
		t.Errorf("empty export should still contain the header, got %q", out)
	}
}
