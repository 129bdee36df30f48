package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/yamigumo/werewolf-gm/internal/models"
)

// FileConfig holds configuration for the file-backed repository
type FileConfig struct {
	// Path is the location of the JSON state file
	Path string
}

// fileRepository implements the Repository interface on a local JSON file
type fileRepository struct {
	path string
}

// NewFile creates a new file-backed state repository
func NewFile(cfg *FileConfig) (*fileRepository, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.Path == "" {
		return nil, errors.New("path cannot be empty")
	}

	if dir := filepath.Dir(cfg.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create state directory: %w", err)
		}
	}

	return &fileRepository{path: cfg.Path}, nil
}

// Load reads the full document from disk
func (r *fileRepository) Load(ctx context.Context) (*models.Document, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrDocumentNotFound
		}
		return nil, fmt.Errorf("failed to read state file: %w", err)
	}

	var doc models.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal state file: %w", err)
	}

	return &doc, nil
}

// Save writes the full document to disk. The document is written to a
// temporary file and renamed so a crash mid-write never leaves a truncated
// state file behind.
func (r *fileRepository) Save(ctx context.Context, input *SaveDocumentInput) error {
	if input == nil || input.Document == nil {
		return errors.New("input and document cannot be nil")
	}

	data, err := json.MarshalIndent(input.Document, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}

	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}

	if err := os.Rename(tmp, r.path); err != nil {
		return fmt.Errorf("failed to replace state file: %w", err)
	}

	return nil
}
