package state

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/yamigumo/werewolf-gm/internal/repositories/state Repository

import (
	"context"
	"errors"

	"github.com/yamigumo/werewolf-gm/internal/models"
)

// ErrDocumentNotFound is returned when no document exists in the backing store
var ErrDocumentNotFound = errors.New("state document not found")

// Repository defines the interface for durable persistence of the whole
// state document
type Repository interface {
	// Load reads the full document from the backing store
	Load(ctx context.Context) (*models.Document, error)

	// Save persists the full document to the backing store
	Save(ctx context.Context, input *SaveDocumentInput) error
}
