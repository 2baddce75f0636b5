package exportstore

import (
	"fmt"
	"strings"

	"github.com/comfy-catalog/catalog-server/internal/config"
)

// ExportFile is one generated CSV export, named by content hash so
// re-exporting identical data overwrites rather than piles up.
type ExportFile struct {
	Name      string
	Extension string
	Content   []byte
}

type ExportStore interface {
	Save(file ExportFile) (string, error)
	Resolve(filename string) (string, error)
}

func NewExportFile(name string, content []byte) ExportFile {
	return ExportFile{
		Name:      name,
		Extension: ".csv",
		Content:   content,
	}
}

func NewExportStore(cfg *config.Config) (ExportStore, error) {
	filesystem := strings.ToLower(cfg.FilesystemType)

	if filesystem == config.FilesystemLocal {
		return NewLocalExportStore(cfg)
	} else if filesystem == config.FilesystemS3 {
		return NewS3ExportStore(cfg)
	}

	return nil, fmt.Errorf("invalid filesystem type %s", cfg.FilesystemType)
}
