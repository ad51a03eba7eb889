package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Logger    LoggerConfig
	LLM       LLMConfig
	Embedding EmbeddingConfig
	Redis     RedisConfig
	CacheTTLs CacheTTLConfig
	Retrieval RetrievalConfig
	Quiz      QuizConfig
}

type ServerConfig struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type LoggerConfig struct {
	Level string
	Env   string
}

// LLMConfig configures the generation backend.
type LLMConfig struct {
	Provider        string
	Model           string
	ServerURL       string
	APIKey          string
	Temperature     float64
	MaxOutputTokens int
	Timeout         time.Duration
	JSONMode        bool
}

type EmbeddingConfig struct {
	Source   string
	Ollama   OllamaEmbeddingConfig
	OpenAI   OpenAIEmbeddingConfig
	GoogleAI GoogleAIEmbeddingConfig
}

type OllamaEmbeddingConfig struct {
	ServerURL string
	Model     string
}

type OpenAIEmbeddingConfig struct {
	APIKey string
	Model  string
}

type GoogleAIEmbeddingConfig struct {
	APIKey string
	Model  string
}

type RedisConfig struct {
	Address  string
	Password string
	DB       int
}

type CacheTTLConfig struct {
	Embedding   string
	VectorIndex string // empty keeps the redis index indefinitely
}

// RetrievalConfig controls chunking and nearest-neighbour lookup.
type RetrievalConfig struct {
	TopK         int
	ChunkSize    int
	ChunkOverlap int
	Separator    string
	Index        string
	Namespace    string
}

type QuizConfig struct {
	DefaultTopic string
	MaxQuestions int
	MaxAttempts  int
}

const (
	DefaultTopic        = "General Knowledge"
	DefaultMaxQuestions = 10
	DefaultMaxAttempts  = 10
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8090)
	v.SetDefault("server.read_timeout", 120)
	v.SetDefault("server.write_timeout", 120)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.env", "development")

	v.SetDefault("llm.provider", "ollama")
	v.SetDefault("llm.server_url", "http://localhost:11434")
	v.SetDefault("llm.temperature", 0.8)
	v.SetDefault("llm.max_output_tokens", 500)
	v.SetDefault("llm.timeout", 30)
	v.SetDefault("llm.json_mode", false)

	v.SetDefault("embedding.source", "ollama")
	v.SetDefault("embedding.ollama.server_url", "http://localhost:11434")
	v.SetDefault("embedding.ollama.model", "nomic-embed-text")
	v.SetDefault("embedding.openai.model", "text-embedding-ada-002")
	v.SetDefault("embedding.googleai.model", "embedding-001")

	v.SetDefault("cache_ttls.embedding", "168h")
	v.SetDefault("cache_ttls.vector_index", "")

	v.SetDefault("retrieval.top_k", 4)
	v.SetDefault("retrieval.chunk_size", 1024)
	v.SetDefault("retrieval.chunk_overlap", 100)
	v.SetDefault("retrieval.separator", " ")
	v.SetDefault("retrieval.index", "memory")
	v.SetDefault("retrieval.namespace", "default")

	v.SetDefault("quiz.default_topic", DefaultTopic)
	v.SetDefault("quiz.max_questions", DefaultMaxQuestions)
	v.SetDefault("quiz.max_attempts", DefaultMaxAttempts)
}

// LoadConfig reads config.yaml (if present) and the environment.
// A missing config file is not an error; defaults and env vars still apply.
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// Add config paths based on environment
	if os.Getenv("ENV") == "test" {
		v.AddConfigPath("../../config")
		v.AddConfigPath("../../")
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("./configs")
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if configFile := v.ConfigFileUsed(); configFile != "" {
		absPath, _ := filepath.Abs(configFile)
		fmt.Printf("Using config file: %s\n", absPath)
	}

	cfg := fromViper(v)

	// Secrets are commonly provided without the nested prefix.
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		if cfg.LLM.Provider == "openai" && cfg.LLM.APIKey == "" {
			cfg.LLM.APIKey = key
		}
		if cfg.Embedding.OpenAI.APIKey == "" {
			cfg.Embedding.OpenAI.APIKey = key
		}
	}
	if key := os.Getenv("GOOGLE_API_KEY"); key != "" {
		if cfg.LLM.Provider == "googleai" && cfg.LLM.APIKey == "" {
			cfg.LLM.APIKey = key
		}
		if cfg.Embedding.GoogleAI.APIKey == "" {
			cfg.Embedding.GoogleAI.APIKey = key
		}
	}
	if addr := os.Getenv("REDIS_ADDRESS"); addr != "" {
		cfg.Redis.Address = addr
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		Server: ServerConfig{
			Port:         v.GetInt("server.port"),
			ReadTimeout:  time.Duration(v.GetInt("server.read_timeout")) * time.Second,
			WriteTimeout: time.Duration(v.GetInt("server.write_timeout")) * time.Second,
		},
		Logger: LoggerConfig{
			Level: v.GetString("logger.level"),
			Env:   v.GetString("logger.env"),
		},
		LLM: LLMConfig{
			Provider:        v.GetString("llm.provider"),
			Model:           v.GetString("llm.model"),
			ServerURL:       v.GetString("llm.server_url"),
			APIKey:          v.GetString("llm.api_key"),
			Temperature:     v.GetFloat64("llm.temperature"),
			MaxOutputTokens: v.GetInt("llm.max_output_tokens"),
			Timeout:         time.Duration(v.GetInt("llm.timeout")) * time.Second,
			JSONMode:        v.GetBool("llm.json_mode"),
		},
		Embedding: EmbeddingConfig{
			Source: v.GetString("embedding.source"),
			Ollama: OllamaEmbeddingConfig{
				ServerURL: v.GetString("embedding.ollama.server_url"),
				Model:     v.GetString("embedding.ollama.model"),
			},
			OpenAI: OpenAIEmbeddingConfig{
				APIKey: v.GetString("embedding.openai.api_key"),
				Model:  v.GetString("embedding.openai.model"),
			},
			GoogleAI: GoogleAIEmbeddingConfig{
				APIKey: v.GetString("embedding.googleai.api_key"),
				Model:  v.GetString("embedding.googleai.model"),
			},
		},
		Redis: RedisConfig{
			Address:  v.GetString("redis.address"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		CacheTTLs: CacheTTLConfig{
			Embedding:   v.GetString("cache_ttls.embedding"),
			VectorIndex: v.GetString("cache_ttls.vector_index"),
		},
		Retrieval: RetrievalConfig{
			TopK:         v.GetInt("retrieval.top_k"),
			ChunkSize:    v.GetInt("retrieval.chunk_size"),
			ChunkOverlap: v.GetInt("retrieval.chunk_overlap"),
			Separator:    v.GetString("retrieval.separator"),
			Index:        v.GetString("retrieval.index"),
			Namespace:    v.GetString("retrieval.namespace"),
		},
		Quiz: QuizConfig{
			DefaultTopic: v.GetString("quiz.default_topic"),
			MaxQuestions: v.GetInt("quiz.max_questions"),
			MaxAttempts:  v.GetInt("quiz.max_attempts"),
		},
	}
}

// Validate rejects values no component can work with.
func (c *Config) Validate() error {
	if c.Quiz.MaxQuestions < 1 || c.Quiz.MaxQuestions > DefaultMaxQuestions {
		return fmt.Errorf("quiz.max_questions must be in [1,%d], got %d", DefaultMaxQuestions, c.Quiz.MaxQuestions)
	}
	if c.Quiz.MaxAttempts < 1 {
		return fmt.Errorf("quiz.max_attempts must be positive, got %d", c.Quiz.MaxAttempts)
	}
	if c.Retrieval.TopK < 1 {
		return fmt.Errorf("retrieval.top_k must be positive, got %d", c.Retrieval.TopK)
	}
	if c.Retrieval.ChunkSize < 1 || c.Retrieval.ChunkOverlap < 0 || c.Retrieval.ChunkOverlap >= c.Retrieval.ChunkSize {
		return fmt.Errorf("invalid chunking: size=%d overlap=%d", c.Retrieval.ChunkSize, c.Retrieval.ChunkOverlap)
	}
	switch c.LLM.Provider {
	case "ollama", "openai", "googleai":
	default:
		return fmt.Errorf("unsupported llm.provider %q", c.LLM.Provider)
	}
	switch c.Retrieval.Index {
	case "memory", "redis":
	default:
		return fmt.Errorf("unsupported retrieval.index %q", c.Retrieval.Index)
	}
	if c.Retrieval.Index == "redis" && c.Redis.Address == "" {
		return fmt.Errorf("retrieval.index=redis requires redis.address")
	}
	return nil
}

// ParseTTLStringOrDefault parses a duration string, falling back to def when empty or invalid.
func (c *Config) ParseTTLStringOrDefault(ttlString string, def time.Duration) time.Duration {
	if ttlString == "" {
		return def
	}
	d, err := time.ParseDuration(ttlString)
	if err != nil || d <= 0 {
		return def
	}
	return d
}
