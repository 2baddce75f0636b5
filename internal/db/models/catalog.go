package models

import (
	"time"

	"github.com/comfy-catalog/catalog-server/internal/catalog"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ModelRow mirrors one row of the modelos_loras worksheet. Pos is the
// source row position; there is no other identity, duplicates included.
type ModelRow struct {
	bun.BaseModel `bun:"table:model_entries"`

	Pos                    int    `bun:",pk"`
	Tipo                   string `bun:",nullzero"`
	Nome                   string `bun:",nullzero"`
	BaseModelName          string `bun:"base_model,nullzero"`
	EstiloUtilizacao       string `bun:",nullzero"`
	DimensionsRecomendadas string `bun:",nullzero"`
	StrengthTipica         string `bun:",nullzero"`
	Notas                  string `bun:",nullzero"`
	FonteURL               string `bun:"fonte_url,nullzero"`
	CaminhoLocal           string `bun:",nullzero"`
	UltimaAtualizacao      string `bun:",nullzero"`
}

// WorkflowRow mirrors one row of the workflows worksheet.
type WorkflowRow struct {
	bun.BaseModel `bun:"table:workflow_entries"`

	Pos                 int    `bun:",pk"`
	Nome                string `bun:",nullzero"`
	Objetivo            string `bun:",nullzero"`
	NodesPrincipais     string `bun:",nullzero"`
	KSamplerRecomendado string `bun:"ksampler_recomendado,nullzero"`
	Dependencias        string `bun:",nullzero"`
	TempoMedio          string `bun:",nullzero"`
	QualidadeEsperada   string `bun:",nullzero"`
	Link                string `bun:",nullzero"`
	Versao              string `bun:",nullzero"`
	UltimaAtualizacao   string `bun:",nullzero"`
}

// Entry converts the stored row back to its catalog type.
func (r ModelRow) Entry() catalog.ModelEntry {
	return catalog.ModelEntry{
		Tipo:                   r.Tipo,
		Nome:                   r.Nome,
		BaseModel:              r.BaseModelName,
		EstiloUtilizacao:       r.EstiloUtilizacao,
		DimensionsRecomendadas: r.DimensionsRecomendadas,
		StrengthTipica:         r.StrengthTipica,
		Notas:                  r.Notas,
		FonteURL:               r.FonteURL,
		CaminhoLocal:           r.CaminhoLocal,
		UltimaAtualizacao:      r.UltimaAtualizacao,
	}
}

func (r WorkflowRow) Entry() catalog.WorkflowEntry {
	return catalog.WorkflowEntry{
		Nome:                r.Nome,
		Objetivo:            r.Objetivo,
		NodesPrincipais:     r.NodesPrincipais,
		KSamplerRecomendado: r.KSamplerRecomendado,
		Dependencias:        r.Dependencias,
		TempoMedio:          r.TempoMedio,
		QualidadeEsperada:   r.QualidadeEsperada,
		Link:                r.Link,
		Versao:              r.Versao,
		UltimaAtualizacao:   r.UltimaAtualizacao,
	}
}

// SyncState records the last snapshot written to the mirror.
type SyncState struct {
	bun.BaseModel `bun:"table:sync_state"`

	ID       uuid.UUID `bun:",type:uuid,pk"`
	Digest   string    `bun:",notnull"`
	SyncedAt time.Time `bun:",notnull"`
}
