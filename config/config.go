package config

import (
	"context"
	"log"
	"os"

	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
)

// Config collects the terminal's environment in one place. The backend URL is
// the only value the terminal cannot work without.
type Config struct {
	ListenAddr    string
	BackendURL    string
	SnapBaseURL   string
	SnapClientKey string
	TerminalID    string
	SpoolDir      string
	PublicURL     string
}

func Load() Config {
	cfg := Config{
		ListenAddr:    getenv("LISTEN_ADDR", ":8080"),
		BackendURL:    getenv("BACKEND_URL", "http://localhost:3000"),
		SnapBaseURL:   os.Getenv("SNAP_BASE_URL"),
		SnapClientKey: os.Getenv("SNAP_CLIENT_KEY"),
		TerminalID:    getenv("TERMINAL_ID", "terminal-1"),
		SpoolDir:      getenv("PRINT_SPOOL_DIR", "./spool"),
	}
	cfg.PublicURL = getenv("PUBLIC_URL", cfg.BackendURL)
	return cfg
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func MustInitRedis() *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr: os.Getenv("REDIS_HOST") + ":" + os.Getenv("REDIS_PORT"),
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}

	return client
}

func NewKafkaWriter(topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:     kafka.TCP(os.Getenv("KAFKA_BROKER")),
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
	}
}
