package store

import (
	"context"
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/comfy-catalog/catalog-server/internal/catalog"

	"go.uber.org/zap"
)

type fakeFetcher struct {
	models    []catalog.ModelEntry
	workflows []catalog.WorkflowEntry
	raw       string
	err       error
	calls     int
}

func (f *fakeFetcher) FetchModels(ctx context.Context) ([]catalog.ModelEntry, []byte, error) {
	f.calls++
	if f.err != nil {
		return nil, nil, f.err
	}
	return f.models, []byte(f.raw + "-models"), nil
}

func (f *fakeFetcher) FetchWorkflows(ctx context.Context) ([]catalog.WorkflowEntry, []byte, error) {
	if f.err != nil {
		return nil, nil, f.err
	}
	return f.workflows, []byte(f.raw + "-workflows"), nil
}

func newTestStore(t *testing.T, fetcher Fetcher) *Store {
	t.Helper()
	return NewStore(fetcher, 5*time.Minute, t.TempDir(), zap.NewNop())
}

func TestRefreshSwapsSnapshot(t *testing.T) {
	fetcher := &fakeFetcher{
		models:    []catalog.ModelEntry{{Tipo: "lora", Nome: "AnimeStyle"}},
		workflows: []catalog.WorkflowEntry{{Nome: "Retrato HighRes"}},
		raw:       "v1",
	}
	s := newTestStore(t, fetcher)

	if s.Current() != nil {
		t.Fatal("fresh store should have no snapshot")
	}
	if !s.NeedsRefresh() {
		t.Fatal("fresh store should need a refresh")
	}

	snapshot, err := s.Refresh(context.Background())
	if err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}

	if s.Current() != snapshot {
		t.Error("Current() should return the refreshed snapshot")
	}
	if snapshot.Digest == "" {
		t.Error("snapshot digest should be set")
	}
	if s.NeedsRefresh() {
		t.Error("fresh snapshot should not need a refresh")
	}
	if !reflect.DeepEqual(snapshot.Models, fetcher.models) {
		t.Errorf("snapshot models = %v", snapshot.Models)
	}
}

func TestRefreshDigestTracksContent(t *testing.T) {
	fetcher := &fakeFetcher{raw: "v1"}
	s := newTestStore(t, fetcher)

	first, err := s.Refresh(context.Background())
	if err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}

	same, err := s.Refresh(context.Background())
	if err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	if same.Digest != first.Digest {
		t.Error("identical content should produce an identical digest")
	}

	fetcher.raw = "v2"
	changed, err := s.Refresh(context.Background())
	if err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	if changed.Digest == first.Digest {
		t.Error("changed content should produce a different digest")
	}
}

func TestRefreshErrorKeepsOldSnapshot(t *testing.T) {
	fetcher := &fakeFetcher{raw: "v1"}
	s := newTestStore(t, fetcher)

	snapshot, err := s.Refresh(context.Background())
	if err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}

	fetcher.err = fmt.Errorf("sheet unreachable")
	if _, err := s.Refresh(context.Background()); err == nil {
		t.Fatal("expected refresh error")
	}

	if s.Current() != snapshot {
		t.Error("failed refresh must not replace the current snapshot")
	}
}

func TestCacheRoundTrip(t *testing.T) {
	fetcher := &fakeFetcher{
		models:    []catalog.ModelEntry{{Nome: "AnimeStyle", Notas: "linha1\nlinha2, teste"}},
		workflows: []catalog.WorkflowEntry{{Nome: "Upscale", Versao: "v1"}},
		raw:       "v1",
	}

	dir := t.TempDir()
	s := NewStore(fetcher, time.Minute, dir, zap.NewNop())

	snapshot, err := s.Refresh(context.Background())
	if err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}

	// A second store pointed at the same cache dir starts from the
	// persisted snapshot.
	restored := NewStore(fetcher, time.Minute, dir, zap.NewNop())
	if err := restored.LoadCache(); err != nil {
		t.Fatalf("LoadCache() error = %v", err)
	}

	got := restored.Current()
	if got == nil {
		t.Fatal("restored store has no snapshot")
	}
	if got.Digest != snapshot.Digest {
		t.Errorf("digest = %q, want %q", got.Digest, snapshot.Digest)
	}
	if !reflect.DeepEqual(got.Models, snapshot.Models) {
		t.Errorf("models = %v, want %v", got.Models, snapshot.Models)
	}
	if !reflect.DeepEqual(got.Workflows, snapshot.Workflows) {
		t.Errorf("workflows = %v, want %v", got.Workflows, snapshot.Workflows)
	}
}

func TestLoadCacheMissingFile(t *testing.T) {
	s := newTestStore(t, &fakeFetcher{})
	if err := s.LoadCache(); err == nil {
		t.Fatal("expected error for missing cache file")
	}
	if s.Current() != nil {
		t.Error("failed load must not install a snapshot")
	}
}
