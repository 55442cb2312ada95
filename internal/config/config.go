package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"hr-rag-assistant/utils"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

const (
	ProviderAzure  = "azure"
	ProviderGoogle = "google"
)

// Supported Cosmos DB vCore vector index kinds.
const (
	IndexHNSW    = "vector-hnsw"
	IndexIVF     = "vector-ivf"
	IndexDiskANN = "vector-diskann"
)

type Config struct {
	// Azure Cosmos DB for MongoDB vCore
	CosmosConnectionString string `env:"COSMOS_CONNECTION_STRING"`
	CosmosDatabaseName     string `env:"COSMOS_DATABASE_NAME" envDefault:"hr_knowledge_base"`
	CosmosCollectionName   string `env:"COSMOS_COLLECTION_NAME" envDefault:"hr_policies"`
	VectorIndexType        string `env:"VECTOR_INDEX_TYPE" envDefault:"vector-hnsw"`

	// AI provider: "azure" (default) or "google"
	AIProvider string `env:"AI_PROVIDER" envDefault:"azure"`

	// Azure OpenAI embeddings
	EmbeddingEndpoint string `env:"AZURE_OPENAI_EMBEDDING_ENDPOINT"`
	EmbeddingKey      string `env:"AZURE_OPENAI_EMBEDDING_KEY"`
	EmbeddingModel    string `env:"EMBEDDING_MODEL_DEPLOYMENT" envDefault:"text-embedding-ada-002"`

	// Azure OpenAI chat
	ChatEndpoint string `env:"AZURE_OPENAI_CHAT_ENDPOINT"`
	ChatKey      string `env:"AZURE_OPENAI_CHAT_API_KEY"`
	ChatModel    string `env:"CHAT_MODEL_DEPLOYMENT" envDefault:"gpt-4o"`

	APIVersion string `env:"AZURE_OPENAI_API_VERSION" envDefault:"2024-02-01"`

	// Google Generative AI
	GeminiAPIKey string `env:"GEMINI_API_KEY"`

	// Document processing
	DataDir             string `env:"DATA_DIR" envDefault:"./data"`
	ChunkSize           int    `env:"CHUNK_SIZE" envDefault:"1000"`
	ChunkOverlap        int    `env:"CHUNK_OVERLAP" envDefault:"200"`
	EmbeddingDimensions int    `env:"EMBEDDING_DIMENSIONS" envDefault:"1536"`
	TopK                int    `env:"TOP_K" envDefault:"3"`

	// HTTP server
	Port            string   `env:"PORT" envDefault:"8080"`
	GinMode         string   `env:"GIN_MODE" envDefault:"debug"`
	CORSOrigins     []string `env:"CORS_ORIGINS" envDefault:"*" envSeparator:","`
	MaxRequestBytes int64    `env:"MAX_REQUEST_BYTES" envDefault:"1048576"`

	// Optional Redis embedding cache; disabled when RedisURL is empty
	RedisURL          string        `env:"REDIS_URL"`
	RedisPassword     string        `env:"REDIS_PASSWORD"`
	RedisDB           int           `env:"REDIS_DB" envDefault:"0"`
	EmbeddingCacheTTL time.Duration `env:"EMBEDDING_CACHE_TTL" envDefault:"24h"`

	// OpenTelemetry; tracing export is disabled when the endpoint is empty
	OTLPEndpoint   string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	OTelSampleRate float64 `env:"OTEL_SAMPLE_RATIO" envDefault:"1.0"`
	ServiceName    string  `env:"OTEL_SERVICE_NAME" envDefault:"hr-rag-assistant"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// LoadConfig reads .env (when present) and the process environment, then
// validates the result. Validation failures are returned as
// *utils.ConfigurationError.
func LoadConfig() (*Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, &utils.ConfigurationError{Reason: err.Error()}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

type setting struct {
	key   string
	value string
}

// Validate checks that every required setting is present and that the
// chunking parameters cannot produce a non-advancing window.
func (c *Config) Validate() error {
	required := []setting{
		{"COSMOS_CONNECTION_STRING", c.CosmosConnectionString},
		{"COSMOS_DATABASE_NAME", c.CosmosDatabaseName},
		{"COSMOS_COLLECTION_NAME", c.CosmosCollectionName},
		{"VECTOR_INDEX_TYPE", c.VectorIndexType},
		{"EMBEDDING_MODEL_DEPLOYMENT", c.EmbeddingModel},
		{"CHAT_MODEL_DEPLOYMENT", c.ChatModel},
	}

	switch c.AIProvider {
	case ProviderAzure:
		required = append(required, []setting{
			{"AZURE_OPENAI_EMBEDDING_ENDPOINT", c.EmbeddingEndpoint},
			{"AZURE_OPENAI_EMBEDDING_KEY", c.EmbeddingKey},
			{"AZURE_OPENAI_CHAT_ENDPOINT", c.ChatEndpoint},
			{"AZURE_OPENAI_CHAT_API_KEY", c.ChatKey},
			{"AZURE_OPENAI_API_VERSION", c.APIVersion},
		}...)
	case ProviderGoogle:
		required = append(required, setting{"GEMINI_API_KEY", c.GeminiAPIKey})
	default:
		return &utils.ConfigurationError{Reason: fmt.Sprintf("unknown AI_PROVIDER %q", c.AIProvider)}
	}

	var missing []string
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			missing = append(missing, r.key)
		}
	}
	if len(missing) > 0 {
		return &utils.ConfigurationError{Missing: missing}
	}

	switch c.VectorIndexType {
	case IndexHNSW, IndexIVF, IndexDiskANN:
	default:
		return &utils.ConfigurationError{Reason: fmt.Sprintf("unsupported VECTOR_INDEX_TYPE %q", c.VectorIndexType)}
	}

	if c.ChunkSize <= 0 {
		return &utils.ConfigurationError{Reason: "CHUNK_SIZE must be positive"}
	}
	if c.ChunkOverlap < 0 || c.ChunkOverlap >= c.ChunkSize {
		return &utils.ConfigurationError{Reason: fmt.Sprintf(
			"CHUNK_OVERLAP (%d) must be at least 0 and smaller than CHUNK_SIZE (%d)", c.ChunkOverlap, c.ChunkSize)}
	}
	if c.EmbeddingDimensions <= 0 {
		return &utils.ConfigurationError{Reason: "EMBEDDING_DIMENSIONS must be positive"}
	}
	if c.TopK <= 0 {
		return &utils.ConfigurationError{Reason: "TOP_K must be positive"}
	}

	return nil
}

// CacheEnabled reports whether query/chunk embeddings are cached in Redis.
func (c *Config) CacheEnabled() bool {
	return c.RedisURL != ""
}
