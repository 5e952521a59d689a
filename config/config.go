// Package config loads runtime configuration from environment variables, with
// optional .env support for local runs.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/eventhub/datagen/internal/models"
)

type Config struct {
	// DataDir holds the per-entity JSONL files.
	DataDir string
	// ProducerURL is the creative-field gateway endpoint. Empty means run
	// fully offline on fallback fields.
	ProducerURL     string
	ProducerTimeout time.Duration
	// RabbitURL enables per-record publishing when set.
	RabbitURL string
	// PostgresDSN is used by the load action.
	PostgresDSN string
	// ServerPort is used by the serve action.
	ServerPort string
	// Seed fixes the sampling RNG; 0 seeds from the clock.
	Seed int64
}

func Load() Config {
	_ = godotenv.Load()

	return Config{
		DataDir:         getenv("DATAGEN_DATA_DIR", "data/generated"),
		ProducerURL:     os.Getenv("DATAGEN_PRODUCER_URL"),
		ProducerTimeout: time.Duration(getenvInt("DATAGEN_PRODUCER_TIMEOUT_SEC", 60)) * time.Second,
		RabbitURL:       os.Getenv("DATAGEN_RABBIT_URL"),
		PostgresDSN:     getenv("DATAGEN_POSTGRES_DSN", "host=localhost user=postgres password=postgres dbname=eventhub port=5432 sslmode=disable"),
		ServerPort:      getenv("DATAGEN_SERVER_PORT", "8080"),
		Seed:            int64(getenvInt("DATAGEN_SEED", 0)),
	}
}

// TargetCounts is the full dataset profile.
func TargetCounts() map[models.EntityType]int {
	return map[models.EntityType]int{
		models.EntityUsers:        10000,
		models.EntityVenues:       50,
		models.EntityEvents:       500,
		models.EntityReservations: 50000,
		models.EntityKBArticles:   100,
		models.EntityTickets:      5000,
	}
}

// ReducedCounts is the small test-mode profile.
func ReducedCounts() map[models.EntityType]int {
	return map[models.EntityType]int{
		models.EntityUsers:        100,
		models.EntityVenues:       5,
		models.EntityEvents:       10,
		models.EntityReservations: 100,
		models.EntityKBArticles:   10,
		models.EntityTickets:      20,
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
