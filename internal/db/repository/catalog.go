package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/comfy-catalog/catalog-server/internal/catalog"
	"github.com/comfy-catalog/catalog-server/internal/db/models"
	"github.com/comfy-catalog/catalog-server/internal/store"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ICatalogRepository persists catalog snapshots into the local mirror.
// The lifecycle is wholesale: a snapshot replaces everything, there is no
// partial update or delete.
type ICatalogRepository interface {
	ReplaceAll(ctx context.Context, snapshot *store.Snapshot) error
	LoadSnapshot(ctx context.Context) (*store.Snapshot, error)
	LastSync(ctx context.Context) (*models.SyncState, error)
}

type CatalogRepository struct {
	db *bun.DB
}

func NewCatalogRepository(db *bun.DB) ICatalogRepository {
	return &CatalogRepository{db: db}
}

func (r *CatalogRepository) ReplaceAll(ctx context.Context, snapshot *store.Snapshot) error {
	if snapshot == nil {
		return fmt.Errorf("snapshot is nil")
	}

	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		tables := []interface{}{
			(*models.ModelRow)(nil),
			(*models.WorkflowRow)(nil),
			(*models.SyncState)(nil),
		}
		for _, table := range tables {
			if _, err := tx.NewDelete().Model(table).Where("1 = 1").Exec(ctx); err != nil {
				return fmt.Errorf("failed to clear table: %w", err)
			}
		}

		if len(snapshot.Models) > 0 {
			rows := make([]models.ModelRow, len(snapshot.Models))
			for i, entry := range snapshot.Models {
				rows[i] = modelRowFromEntry(i, entry)
			}
			if _, err := tx.NewInsert().Model(&rows).Exec(ctx); err != nil {
				return fmt.Errorf("failed to insert model entries: %w", err)
			}
		}

		if len(snapshot.Workflows) > 0 {
			rows := make([]models.WorkflowRow, len(snapshot.Workflows))
			for i, entry := range snapshot.Workflows {
				rows[i] = workflowRowFromEntry(i, entry)
			}
			if _, err := tx.NewInsert().Model(&rows).Exec(ctx); err != nil {
				return fmt.Errorf("failed to insert workflow entries: %w", err)
			}
		}

		state := &models.SyncState{
			ID:       uuid.New(),
			Digest:   snapshot.Digest,
			SyncedAt: snapshot.FetchedAt,
		}
		if _, err := tx.NewInsert().Model(state).Exec(ctx); err != nil {
			return fmt.Errorf("failed to record sync state: %w", err)
		}

		return nil
	})
}

func (r *CatalogRepository) LoadSnapshot(ctx context.Context) (*store.Snapshot, error) {
	state, err := r.LastSync(ctx)
	if err != nil {
		return nil, err
	}

	var modelRows []models.ModelRow
	if err := r.db.NewSelect().Model(&modelRows).Order("pos ASC").Scan(ctx); err != nil {
		return nil, err
	}

	var workflowRows []models.WorkflowRow
	if err := r.db.NewSelect().Model(&workflowRows).Order("pos ASC").Scan(ctx); err != nil {
		return nil, err
	}

	snapshot := &store.Snapshot{
		Models:    make([]catalog.ModelEntry, len(modelRows)),
		Workflows: make([]catalog.WorkflowEntry, len(workflowRows)),
		Digest:    state.Digest,
		FetchedAt: state.SyncedAt,
	}
	for i, row := range modelRows {
		snapshot.Models[i] = row.Entry()
	}
	for i, row := range workflowRows {
		snapshot.Workflows[i] = row.Entry()
	}

	return snapshot, nil
}

func (r *CatalogRepository) LastSync(ctx context.Context) (*models.SyncState, error) {
	var state models.SyncState
	err := r.db.NewSelect().Model(&state).Order("synced_at DESC").Limit(1).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("catalog mirror is empty")
	}
	if err != nil {
		return nil, err
	}

	return &state, nil
}

func modelRowFromEntry(pos int, entry catalog.ModelEntry) models.ModelRow {
	return models.ModelRow{
		Pos:                    pos,
		Tipo:                   entry.Tipo,
		Nome:                   entry.Nome,
		BaseModelName:          entry.BaseModel,
		EstiloUtilizacao:       entry.EstiloUtilizacao,
		DimensionsRecomendadas: entry.DimensionsRecomendadas,
		StrengthTipica:         entry.StrengthTipica,
		Notas:                  entry.Notas,
		FonteURL:               entry.FonteURL,
		CaminhoLocal:           entry.CaminhoLocal,
		UltimaAtualizacao:      entry.UltimaAtualizacao,
	}
}

func workflowRowFromEntry(pos int, entry catalog.WorkflowEntry) models.WorkflowRow {
	return models.WorkflowRow{
		Pos:                 pos,
		Nome:                entry.Nome,
		Objetivo:            entry.Objetivo,
		NodesPrincipais:     entry.NodesPrincipais,
		KSamplerRecomendado: entry.KSamplerRecomendado,
		Dependencias:        entry.Dependencias,
		TempoMedio:          entry.TempoMedio,
		QualidadeEsperada:   entry.QualidadeEsperada,
		Link:                entry.Link,
		Versao:              entry.Versao,
		UltimaAtualizacao:   entry.UltimaAtualizacao,
	}
}
