// Package store holds the single in-memory source of truth for all
// guild-scoped game data. The document is loaded from the repository once per
// process lifetime; every read hands out a deep copy and every mutation runs
// under one mutex together with its synchronous persist.
package store

import (
	"context"
	"errors"
	"log"
	"sync"

	"github.com/yamigumo/werewolf-gm/internal/models"
	"github.com/yamigumo/werewolf-gm/internal/repositories/state"
)

// Config holds configuration for the store
type Config struct {
	// Repository is the durable backend
	Repository state.Repository
}

// Store is the lock-guarded in-memory state document
type Store struct {
	mu     sync.Mutex
	repo   state.Repository
	doc    *models.Document
	loaded bool
}

// New creates a new store
func New(cfg *Config) (*Store, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.Repository == nil {
		return nil, errors.New("repository cannot be nil")
	}

	return &Store{
		repo: cfg.Repository,
	}, nil
}

// EnsureLoaded loads the document from the backend on first call. A missing
// or corrupt backend never raises past this boundary: the store falls back to
// an empty default document, persists it best-effort, and logs.
func (s *Store) EnsureLoaded(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ensureLoadedLocked(ctx)
}

func (s *Store) ensureLoadedLocked(ctx context.Context) error {
	if s.loaded {
		return nil
	}

	doc, err := s.repo.Load(ctx)
	switch {
	case err == nil:
		s.doc = doc
		if s.doc.Guilds == nil {
			s.doc.Guilds = map[string]*models.GuildState{}
		}
	case errors.Is(err, state.ErrDocumentNotFound):
		s.doc = models.NewDocument()
		s.persistLocked(ctx)
	default:
		log.Printf("Failed to load state document, starting from defaults: %v", err)
		s.doc = models.NewDocument()
		s.persistLocked(ctx)
	}

	s.loaded = true
	return nil
}

// ReadState returns a deep copy of the full document. Callers are never
// handed the live object.
func (s *Store) ReadState(ctx context.Context) (*models.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoadedLocked(ctx); err != nil {
		return nil, err
	}

	return s.doc.Clone(), nil
}

// UpdateState applies the mutator to the live document and persists the
// result, all under a single mutual-exclusion section so concurrent callers
// cannot interleave a partial write. The post-mutation document is returned
// as a deep copy.
//
// Persist failures are logged and swallowed: the in-memory state stays
// authoritative until the next successful write.
func (s *Store) UpdateState(ctx context.Context, mutate func(*models.Document)) (*models.Document, error) {
	if mutate == nil {
		return nil, errors.New("mutator cannot be nil")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoadedLocked(ctx); err != nil {
		return nil, err
	}

	mutate(s.doc)
	s.persistLocked(ctx)

	return s.doc.Clone(), nil
}

// Reset replaces the entire document with defaults and persists
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.doc = models.NewDocument()
	s.loaded = true
	s.persistLocked(ctx)

	return nil
}

func (s *Store) persistLocked(ctx context.Context) {
	err := s.repo.Save(ctx, &state.SaveDocumentInput{
		Document: s.doc,
	})
	if err != nil {
		log.Printf("Failed to persist state document: %v", err)
	}
}
