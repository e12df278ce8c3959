package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	BackendMongo = "mongo"
	BackendPOS   = "pos"

	CommitPartial      = "partial"
	CommitAllOrNothing = "all_or_nothing"
)

type Config struct {
	Port        string
	MongoURI    string
	DBName      string
	Environment string
	AppId       string
	FSPath      string // Physical directory for uploaded import files

	// Catalog collaborator: "mongo" stores products and warehouses locally,
	// "pos" forwards them to the POS backend at POSBaseURL.
	CatalogBackend string
	POSBaseURL     string
	POSTimeout     time.Duration

	ImportCommitPolicy string
	VariantSeparator   string

	DistributionConcurrency int

	// Empty RedisURL keeps the distribution lock in-process.
	RedisURL            string
	DistributionLockTTL time.Duration

	ImportRetentionDays int
	RetentionSchedule   string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	} else {
		log.Println("Loaded .env file successfully")
	}

	return &Config{
		Port:                    getEnv("PORT", "8080"),
		MongoURI:                getEnv("MONGO_URI", "mongodb://localhost:27017"),
		DBName:                  getEnv("DB_NAME", "go-catalog"),
		Environment:             getEnv("ENVIRONMENT", "development"),
		AppId:                   getEnv("APP_ID", "go-catalog"),
		FSPath:                  getEnv("FS_PATH", "./uploads"),
		CatalogBackend:          getEnv("CATALOG_BACKEND", BackendMongo),
		POSBaseURL:              getEnv("POS_BASE_URL", "http://localhost:8000"),
		POSTimeout:              getEnvDuration("POS_TIMEOUT", 15*time.Second),
		ImportCommitPolicy:      getEnv("IMPORT_COMMIT_POLICY", CommitPartial),
		VariantSeparator:        getEnv("VARIANT_SEPARATOR", "-"),
		DistributionConcurrency: getEnvInt("DISTRIBUTION_CONCURRENCY", 4),
		RedisURL:                getEnv("REDIS_URL", ""),
		DistributionLockTTL:     getEnvDuration("DISTRIBUTION_LOCK_TTL", 10*time.Minute),
		ImportRetentionDays:     getEnvInt("IMPORT_RETENTION_DAYS", 30),
		RetentionSchedule:       getEnv("RETENTION_SCHEDULE", "0 3 * * *"),
	}, nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Invalid %s=%q, using %d", key, value, fallback)
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("Invalid %s=%q, using %s", key, value, fallback)
		return fallback
	}
	return d
}
