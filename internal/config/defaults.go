package config

import "errors"

const (
	FilesystemLocal = "local"
	FilesystemS3    = "s3"
)

const (
	DefaultCatalogHome = "~/.comfy-catalog"

	// Worksheet tab names in the source spreadsheet. These are part of
	// the sheet contract, same as the column headers.
	DefaultModelsTab    = "modelos_loras"
	DefaultWorkflowsTab = "workflows"

	// Snapshot lifetime in seconds.
	DefaultRefreshTTL = 300
)

var (
	ErrCatalogHomeNotSet       = errors.New("catalog home directory is not set")
	ErrCatalogHomeExpandFailed = errors.New("failed to expand catalog home directory")
)
