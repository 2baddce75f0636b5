package catalog

import "strings"

// ModelFilter selects model/LoRA entries. Empty string means "any" for
// that dimension. Exact-match fields compare case-insensitively; FreeText
// is a case-insensitive substring search over nome, notas and fonte_url.
type ModelFilter struct {
	Tipo             string `json:"tipo"`
	BaseModel        string `json:"base_model"`
	EstiloUtilizacao string `json:"estilo_utilizacao"`
	FreeText         string `json:"free_text"`
}

// WorkflowFilter selects workflow entries. FreeText searches nome,
// objetivo and dependencias.
type WorkflowFilter struct {
	Objetivo string `json:"objetivo"`
	Versao   string `json:"versao"`
	FreeText string `json:"free_text"`
}

// FilterModels returns the entries matching the filter, preserving the
// relative order of the input. The input slice is never mutated; no
// matches yields an empty slice, not an error.
func FilterModels(entries []ModelEntry, filter ModelFilter) []ModelEntry {
	matched := make([]ModelEntry, 0, len(entries))
	for _, entry := range entries {
		if entry.matches(filter) {
			matched = append(matched, entry)
		}
	}

	return matched
}

// FilterWorkflows is the workflow counterpart of FilterModels.
func FilterWorkflows(entries []WorkflowEntry, filter WorkflowFilter) []WorkflowEntry {
	matched := make([]WorkflowEntry, 0, len(entries))
	for _, entry := range entries {
		if entry.matches(filter) {
			matched = append(matched, entry)
		}
	}

	return matched
}

func (e ModelEntry) matches(filter ModelFilter) bool {
	if !fieldEquals(e.Tipo, filter.Tipo) {
		return false
	}
	if !fieldEquals(e.BaseModel, filter.BaseModel) {
		return false
	}
	if !fieldEquals(e.EstiloUtilizacao, filter.EstiloUtilizacao) {
		return false
	}

	return anyContains(filter.FreeText, e.Nome, e.Notas, e.FonteURL)
}

func (e WorkflowEntry) matches(filter WorkflowFilter) bool {
	if !fieldEquals(e.Objetivo, filter.Objetivo) {
		return false
	}
	if !fieldEquals(e.Versao, filter.Versao) {
		return false
	}

	return anyContains(filter.FreeText, e.Nome, e.Objetivo, e.Dependencias)
}

func fieldEquals(value, want string) bool {
	if want == "" {
		return true
	}

	return strings.EqualFold(value, want)
}

func anyContains(query string, values ...string) bool {
	if query == "" {
		return true
	}

	query = strings.ToLower(query)
	for _, value := range values {
		if strings.Contains(strings.ToLower(value), query) {
			return true
		}
	}

	return false
}
