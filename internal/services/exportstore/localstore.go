package exportstore

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/comfy-catalog/catalog-server/internal/config"
)

type LocalExportStore struct {
	exportsDir string
	host       string
	port       int
}

func NewLocalExportStore(cfg *config.Config) (*LocalExportStore, error) {
	if cfg.ExportsDir == "" {
		return nil, fmt.Errorf("exports_dir is not set")
	}

	return &LocalExportStore{
		exportsDir: cfg.ExportsDir,
		host:       cfg.Host,
		port:       cfg.Port,
	}, nil
}

func (s *LocalExportStore) Save(file ExportFile) (string, error) {
	filedest := filepath.Join(s.exportsDir, fmt.Sprintf("%s%s", file.Name, file.Extension))

	if err := os.MkdirAll(filepath.Dir(filedest), os.ModePerm); err != nil {
		return "", err
	}

	if err := os.WriteFile(filedest, file.Content, os.FileMode(0644)); err != nil {
		return "", err
	}

	return fmt.Sprintf("http://%s:%d/file/%s%s", s.host, s.port, file.Name, file.Extension), nil
}

func (s *LocalExportStore) Resolve(filename string) (string, error) {
	resolved := filepath.Join(s.exportsDir, filename)

	if _, err := os.Stat(resolved); err != nil {
		return "", err
	}

	return resolved, nil
}
