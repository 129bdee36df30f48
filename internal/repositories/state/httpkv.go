package state

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/yamigumo/werewolf-gm/internal/models"
)

// HTTPKVConfig holds configuration for the remote key-value repository
type HTTPKVConfig struct {
	// Endpoint is the full URL the document lives at (one key per process)
	Endpoint string

	// Token is the bearer token sent with every request
	Token string

	// HTTPClient is optional; a client with a sane timeout is used when nil
	HTTPClient *http.Client
}

// httpKVRepository implements the Repository interface against a remote
// key-value REST endpoint using simple GET/PUT with bearer-token auth
type httpKVRepository struct {
	endpoint string
	token    string
	client   *http.Client
}

// NewHTTPKV creates a new remote key-value state repository
func NewHTTPKV(cfg *HTTPKVConfig) (*httpKVRepository, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.Endpoint == "" {
		return nil, errors.New("endpoint cannot be empty")
	}

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	return &httpKVRepository{
		endpoint: cfg.Endpoint,
		token:    cfg.Token,
		client:   client,
	}, nil
}

// Load fetches the full document from the remote store
func (r *httpKVRepository) Load(ctx context.Context) (*models.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	r.authorize(req)

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to get state document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrDocumentNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d from state store", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read state document: %w", err)
	}

	var doc models.Document
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal state document: %w", err)
	}

	return &doc, nil
}

// Save writes the full document to the remote store
func (r *httpKVRepository) Save(ctx context.Context, input *SaveDocumentInput) error {
	if input == nil || input.Document == nil {
		return errors.New("input and document cannot be nil")
	}

	docJSON, err := json.Marshal(input.Document)
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, r.endpoint, bytes.NewReader(docJSON))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	r.authorize(req)

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to save state document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("unexpected status %d from state store", resp.StatusCode)
	}

	return nil
}

func (r *httpKVRepository) authorize(req *http.Request) {
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}
}
