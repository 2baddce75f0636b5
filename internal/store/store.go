package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/comfy-catalog/catalog-server/internal/catalog"
	"github.com/comfy-catalog/catalog-server/internal/utils/hashutil"

	"github.com/vmihailenco/msgpack/v5"
	"go.uber.org/zap"
)

const cacheFileName = "snapshot.bin"

// Snapshot is one wholesale read of the source spreadsheet. It is never
// mutated after creation; a refresh builds a new one and swaps it in.
type Snapshot struct {
	Models    []catalog.ModelEntry    `msgpack:"models"`
	Workflows []catalog.WorkflowEntry `msgpack:"workflows"`

	// Digest fingerprints the raw fetched bytes, used to detect whether
	// the sheet actually changed between refreshes.
	Digest    string    `msgpack:"digest"`
	FetchedAt time.Time `msgpack:"fetched_at"`
}

// Fetcher is the row source boundary; satisfied by source.Client.
type Fetcher interface {
	FetchModels(ctx context.Context) ([]catalog.ModelEntry, []byte, error)
	FetchWorkflows(ctx context.Context) ([]catalog.WorkflowEntry, []byte, error)
}

// Store holds the current catalog snapshot. Readers get whatever snapshot
// is current and keep filtering against it even if a refresh lands
// mid-request; there is no in-place mutation.
type Store struct {
	mu      sync.RWMutex
	current *Snapshot

	fetcher  Fetcher
	ttl      time.Duration
	cacheDir string
	logger   *zap.Logger
}

func NewStore(fetcher Fetcher, ttl time.Duration, cacheDir string, logger *zap.Logger) *Store {
	return &Store{
		fetcher:  fetcher,
		ttl:      ttl,
		cacheDir: cacheDir,
		logger:   logger,
	}
}

// Current returns the latest snapshot, or nil when nothing has been
// fetched or loaded yet.
func (s *Store) Current() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.current
}

// NeedsRefresh reports whether the current snapshot is missing or older
// than the configured TTL.
func (s *Store) NeedsRefresh() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.current == nil {
		return true
	}

	return time.Since(s.current.FetchedAt) > s.ttl
}

// Refresh fetches both tabs wholesale, swaps in the new snapshot and
// persists it to the disk cache. The previous snapshot is simply
// discarded.
func (s *Store) Refresh(ctx context.Context) (*Snapshot, error) {
	models, modelsRaw, err := s.fetcher.FetchModels(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to refresh models: %w", err)
	}

	workflows, workflowsRaw, err := s.fetcher.FetchWorkflows(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to refresh workflows: %w", err)
	}

	raw := make([]byte, 0, len(modelsRaw)+len(workflowsRaw)+1)
	raw = append(raw, modelsRaw...)
	raw = append(raw, 0)
	raw = append(raw, workflowsRaw...)

	snapshot := &Snapshot{
		Models:    models,
		Workflows: workflows,
		Digest:    hashutil.Blake3Hash(raw),
		FetchedAt: time.Now().UTC(),
	}

	s.mu.Lock()
	s.current = snapshot
	s.mu.Unlock()

	if err := s.writeCache(snapshot); err != nil {
		s.logger.Warn("failed to write snapshot cache", zap.Error(err))
	}

	return snapshot, nil
}

// RunRefresher refreshes the snapshot on the TTL interval until the
// context is cancelled.
func (s *Store) RunRefresher(ctx context.Context) error {
	ticker := time.NewTicker(s.ttl)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := s.Refresh(ctx); err != nil {
				s.logger.Error("snapshot refresh failed", zap.Error(err))
			}
		}
	}
}

// LoadCache restores the last persisted snapshot, so the catalog is
// servable before the first fetch completes (or when the sheet is
// unreachable on startup).
func (s *Store) LoadCache() error {
	data, err := os.ReadFile(s.cachePath())
	if err != nil {
		return err
	}

	var snapshot Snapshot
	if err := msgpack.Unmarshal(data, &snapshot); err != nil {
		return fmt.Errorf("failed to decode snapshot cache: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		s.current = &snapshot
	}

	return nil
}

func (s *Store) writeCache(snapshot *Snapshot) error {
	data, err := msgpack.Marshal(snapshot)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(s.cacheDir, os.ModePerm); err != nil {
		return err
	}

	tmp := s.cachePath() + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}

	return os.Rename(tmp, s.cachePath())
}

func (s *Store) cachePath() string {
	return filepath.Join(s.cacheDir, cacheFileName)
}
