package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/yamigumo/werewolf-gm/internal/models"
)

// defaultRedisKey is the key the document is stored under when none is
// configured
const defaultRedisKey = "werewolf:state"

// RedisConfig holds configuration for the Redis-backed repository
type RedisConfig struct {
	// Redis client
	RedisClient *redis.Client

	// Key the document is stored under; defaults to defaultRedisKey
	Key string
}

// redisRepository implements the Repository interface using a single Redis key
type redisRepository struct {
	client *redis.Client
	key    string
}

// NewRedis creates a new Redis-backed state repository
func NewRedis(cfg *RedisConfig) (*redisRepository, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.RedisClient == nil {
		return nil, errors.New("redis client cannot be nil")
	}

	// Test connection
	if err := cfg.RedisClient.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	key := cfg.Key
	if key == "" {
		key = defaultRedisKey
	}

	return &redisRepository{
		client: cfg.RedisClient,
		key:    key,
	}, nil
}

// Load reads the full document from Redis
func (r *redisRepository) Load(ctx context.Context) (*models.Document, error) {
	docJSON, err := r.client.Get(ctx, r.key).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrDocumentNotFound
		}
		return nil, fmt.Errorf("failed to get state document: %w", err)
	}

	var doc models.Document
	if err := json.Unmarshal([]byte(docJSON), &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal state document: %w", err)
	}

	return &doc, nil
}

// Save persists the full document to Redis
func (r *redisRepository) Save(ctx context.Context, input *SaveDocumentInput) error {
	if input == nil || input.Document == nil {
		return errors.New("input and document cannot be nil")
	}

	docJSON, err := json.Marshal(input.Document)
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}

	if err := r.client.Set(ctx, r.key, docJSON, 0).Err(); err != nil {
		return fmt.Errorf("failed to save state document: %w", err)
	}

	return nil
}
