package exportstore

import (
	"github.com/comfy-catalog/catalog-server/internal/utils/hashutil"

	"github.com/gammazero/workerpool"
)

// Saver writes exports through a bounded worker pool so a burst of export
// clicks never blocks request handlers on disk or S3 latency.
type Saver struct {
	wp    *workerpool.WorkerPool
	store ExportStore
}

func NewSaver(store ExportStore, maxWorkers int) *Saver {
	return &Saver{
		wp:    workerpool.New(maxWorkers),
		store: store,
	}
}

func (s *Saver) Stop() {
	s.wp.StopWait()
}

// SaveBytes stores the content under its blake3 hash and delivers the
// resulting URL (or an error) on the provided channels.
func (s *Saver) SaveBytes(content []byte, response chan string, errc chan error) {
	file := NewExportFile(hashutil.Blake3Hash(content), content)

	s.wp.Submit(func() {
		url, err := s.store.Save(file)
		if err != nil {
			errc <- err
			return
		}

		response <- url
	})
}
