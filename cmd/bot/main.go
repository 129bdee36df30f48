package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/yamigumo/werewolf-gm/internal/handlers/discord"
	"github.com/yamigumo/werewolf-gm/internal/repositories/state"
	gameService "github.com/yamigumo/werewolf-gm/internal/services/game"
	"github.com/yamigumo/werewolf-gm/internal/services/messaging"
	"github.com/yamigumo/werewolf-gm/internal/store"
)

func main() {
	// Load .env when present; real env vars win
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	repo, err := buildRepository()
	if err != nil {
		log.Fatalf("Failed to create state repository: %v", err)
	}

	stateStore, err := store.New(&store.Config{
		Repository: repo,
	})
	if err != nil {
		log.Fatalf("Failed to create state store: %v", err)
	}

	// Warm the store so a bad backend surfaces at startup, not mid-game
	if err := stateStore.EnsureLoaded(context.Background()); err != nil {
		log.Fatalf("Failed to load state: %v", err)
	}

	gameSvc, err := gameService.New(&gameService.Config{
		Store: stateStore,
	})
	if err != nil {
		log.Fatalf("Failed to create game service: %v", err)
	}

	messagingSvc, err := messaging.NewService(&messaging.ServiceConfig{})
	if err != nil {
		log.Fatalf("Failed to create messaging service: %v", err)
	}

	// Get Discord token from environment
	discordToken := getEnv("DISCORD_TOKEN", "")
	if discordToken == "" {
		log.Fatal("DISCORD_TOKEN environment variable is required")
	}

	// Get application ID for the bot
	applicationID := getEnv("APPLICATION_ID", "")

	// Get optional guild ID for development
	guildID := getEnv("GUILD_ID", "")

	// Initialize Discord bot
	bot, err := discord.New(&discord.Config{
		Token:            discordToken,
		ApplicationID:    applicationID,
		GuildID:          guildID,
		GameService:      gameSvc,
		MessagingService: messagingSvc,
	})
	if err != nil {
		log.Fatalf("Failed to create Discord bot: %v", err)
	}

	// Start the bot
	if err := bot.Start(); err != nil {
		log.Fatalf("Failed to start Discord bot: %v", err)
	}

	// Wait for interrupt signal to gracefully shutdown
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	// Shutdown the bot
	if err := bot.Stop(); err != nil {
		log.Printf("Error stopping bot: %v", err)
	}

	log.Println("Bot has been shut down")
}

// buildRepository selects the persistence backend from STORAGE_BACKEND:
// "file" (default), "redis", or "httpkv"
func buildRepository() (state.Repository, error) {
	switch getEnv("STORAGE_BACKEND", "file") {
	case "redis":
		redisClient := redis.NewClient(&redis.Options{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       0,
		})

		// Test Redis connection
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}

		return state.NewRedis(&state.RedisConfig{
			RedisClient: redisClient,
			Key:         getEnv("REDIS_KEY", ""),
		})
	case "httpkv":
		return state.NewHTTPKV(&state.HTTPKVConfig{
			Endpoint: getEnv("HTTPKV_ENDPOINT", ""),
			Token:    getEnv("HTTPKV_TOKEN", ""),
		})
	default:
		return state.NewFile(&state.FileConfig{
			Path: getEnv("STATE_FILE", "data/game_state.json"),
		})
	}
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
