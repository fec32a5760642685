package config

import (
	"flag"
	"fmt"
	"time"

	pkgRetry "github.com/avolkhin/docchat-backend/internal/pkg/retry"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	// Server configuration
	ServerAddr string `env:"SERVER_ADDR" envDefault:":3000"`

	// External service configurations
	EmbeddingCfg   EmbeddingConnectorConfig   `envPrefix:"EMBEDDING_"`
	VectorStoreCfg VectorStoreConnectorConfig `envPrefix:"QDRANT_"`

	// Generation endpoint is carried in the model config surface only; the
	// server returns retrieved passages verbatim and never calls it.
	GenerationEndpoint string `env:"GENERATION_ENDPOINT" envDefault:"http://localhost:8081/v1"`

	// Retrieval configuration (initial values; tunable over the API)
	RAGCfg RAGConfig `envPrefix:"RAG_"`

	// Streaming configuration
	StreamCfg StreamConfig `envPrefix:"STREAM_"`

	// File upload configuration
	UploadDir     string           `env:"UPLOAD_DIR" envDefault:"./uploads"`
	FileUploadCfg FileUploadConfig `envPrefix:"FILE_UPLOAD_"`

	// Logging configuration
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Mock configuration
	EnableMocks bool `env:"ENABLE_MOCKS" envDefault:"false"`

	// Environment (set from flag, not from env var)
	Environment string
}

type EmbeddingConnectorConfig struct {
	HTTPClientConfig
	Model string               `env:"MODEL" envDefault:"text-embedding-3-small"`
	Retry pkgRetry.RetryConfig `envPrefix:"RETRY_"`
}

type VectorStoreConnectorConfig struct {
	HTTPClientConfig
	Collection string               `env:"COLLECTION" envDefault:"documents"`
	Retry      pkgRetry.RetryConfig `envPrefix:"RETRY_"`
}

type HTTPClientConfig struct {
	RequestTimeout        time.Duration `env:"TIMEOUT" envDefault:"30s"`
	ConnTimeout           time.Duration `env:"CONN_TIMEOUT" envDefault:"10s"`
	KeepAlive             time.Duration `env:"KEEP_ALIVE" envDefault:"90s"`
	IdleConnTimeout       time.Duration `env:"IDLE_CONN_TIMEOUT" envDefault:"90s"`
	ResponseHeaderTimeout time.Duration `env:"RESPONSE_HEADER_TIMEOUT" envDefault:"10s"`
	Token                 string        `env:"TOKEN"`
	Url                   string        `env:"SERVICE_URL"`
}

// RAGConfig holds the initial retrieval parameters. They become the first
// model-config snapshot and can be changed at runtime over the API.
type RAGConfig struct {
	ChunkSize        int  `env:"CHUNK_SIZE" envDefault:"512"`
	ChunkOverlap     int  `env:"CHUNK_OVERLAP" envDefault:"50"`
	TopK             int  `env:"TOP_K" envDefault:"5"`
	HybridSearch     bool `env:"HYBRID_SEARCH" envDefault:"true"`
	RerankingEnabled bool `env:"RERANKING_ENABLED" envDefault:"true"`
}

// StreamConfig holds streaming response tuning.
type StreamConfig struct {
	// TokenDelay paces token emission for perceived streaming.
	TokenDelay time.Duration `env:"TOKEN_DELAY" envDefault:"50ms"`
	// BufferSize is the event channel capacity; the producer blocks only if
	// the consumer falls this many events behind.
	BufferSize int `env:"BUFFER_SIZE" envDefault:"256"`
}

// FileUploadConfig holds file upload limits
type FileUploadConfig struct {
	MaxFileSize   int64 `env:"MAX_FILE_SIZE" envDefault:"10485760"`  // 10 MiB
	MaxUploadSize int64 `env:"MAX_UPLOAD_SIZE" envDefault:"16777216"` // multipart memory limit
}

func LoadConfig() (*Config, error) {
	envFlag := flag.String("env", "local", "Environment to run (local, prod, or custom)")
	flag.Parse()

	envFile := getEnvFile(*envFlag)
	// Try to load env file, but don't fail if it's missing.
	// In containerized/prod environments variables are usually set externally.
	if err := godotenv.Load(envFile); err != nil {
		fmt.Printf("Warning: could not load %s file (this is ok if env vars are set externally): %v\n", envFile, err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	cfg.Environment = *envFlag

	applyDefaults(cfg)

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.EmbeddingCfg.Url == "" {
		cfg.EmbeddingCfg.Url = "http://localhost:8080/v1"
	}
	if cfg.VectorStoreCfg.Url == "" {
		cfg.VectorStoreCfg.Url = "http://localhost:6333"
	}
}

func validateConfig(cfg *Config) error {
	if cfg.RAGCfg.ChunkSize < 1 {
		return fmt.Errorf("RAG_CHUNK_SIZE must be positive, got %d", cfg.RAGCfg.ChunkSize)
	}

	if cfg.RAGCfg.ChunkOverlap < 0 || cfg.RAGCfg.ChunkOverlap >= cfg.RAGCfg.ChunkSize {
		return fmt.Errorf("RAG_CHUNK_OVERLAP must be in [0, RAG_CHUNK_SIZE), got %d", cfg.RAGCfg.ChunkOverlap)
	}

	if cfg.RAGCfg.TopK < 1 {
		return fmt.Errorf("RAG_TOP_K must be positive, got %d", cfg.RAGCfg.TopK)
	}

	if cfg.FileUploadCfg.MaxFileSize < 1 {
		return fmt.Errorf("FILE_UPLOAD_MAX_FILE_SIZE must be positive, got %d", cfg.FileUploadCfg.MaxFileSize)
	}

	if cfg.StreamCfg.BufferSize < 1 {
		return fmt.Errorf("STREAM_BUFFER_SIZE must be positive, got %d", cfg.StreamCfg.BufferSize)
	}

	return nil
}

func getEnvFile(environment string) string {
	switch environment {
	case "prod", "production":
		return ".env.prod"
	case "local", "dev", "development":
		return ".env.local"
	default:
		return fmt.Sprintf(".env.%s", environment)
	}
}
