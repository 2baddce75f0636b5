package catalog

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// ErrUnknownField is returned when an export column list names a field
// that does not exist in the entry schema. It signals a caller mistake,
// never a data condition.
var ErrUnknownField = fmt.Errorf("unknown catalog field")

// ExportModelsCSV serializes the entries as UTF-8 CSV with a header row,
// columns in exactly fieldOrder. Fields containing commas, quotes or
// newlines are quoted per RFC 4180, so the output round-trips through any
// standard CSV reader. An empty fieldOrder exports the full schema.
func ExportModelsCSV(entries []ModelEntry, fieldOrder []string) ([]byte, error) {
	fieldOrder, err := resolveFields(fieldOrder, ModelFields)
	if err != nil {
		return nil, err
	}

	rows := make([][]string, 0, len(entries))
	for _, entry := range entries {
		rows = append(rows, projectFields(entry, fieldOrder))
	}

	return writeCSV(fieldOrder, rows)
}

// ExportWorkflowsCSV is the workflow counterpart of ExportModelsCSV.
func ExportWorkflowsCSV(entries []WorkflowEntry, fieldOrder []string) ([]byte, error) {
	fieldOrder, err := resolveFields(fieldOrder, WorkflowFields)
	if err != nil {
		return nil, err
	}

	rows := make([][]string, 0, len(entries))
	for _, entry := range entries {
		rows = append(rows, projectFields(entry, fieldOrder))
	}

	return writeCSV(fieldOrder, rows)
}

type fieldReader interface {
	FieldValue(name string) (string, bool)
}

// resolveFields validates the requested columns against the schema before
// any output is produced, so a bad column list fails even for an empty
// entry sequence. An empty request resolves to the full schema.
func resolveFields(fieldOrder, schema []string) ([]string, error) {
	if len(fieldOrder) == 0 {
		return schema, nil
	}

	known := make(map[string]struct{}, len(schema))
	for _, name := range schema {
		known[name] = struct{}{}
	}

	for _, name := range fieldOrder {
		if _, ok := known[name]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownField, name)
		}
	}

	return fieldOrder, nil
}

func projectFields(entry fieldReader, fieldOrder []string) []string {
	row := make([]string, len(fieldOrder))
	for i, name := range fieldOrder {
		// Field names were validated in resolveFields.
		row[i], _ = entry.FieldValue(name)
	}

	return row
}

func writeCSV(header []string, rows [][]string) ([]byte, error) {
	var buf bytes.Buffer

	w := csv.NewWriter(&buf)
	if err := w.Write(header); err != nil {
		return nil, err
	}
	if err := w.WriteAll(rows); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
