package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"pdfqa/internal/models"
)

type Config struct {
	EmbedLLM     LLMConfig        `yaml:"embed_llm"`
	InferenceLLM LLMConfig        `yaml:"inference_llm"`
	RAG          RAGConfig        `yaml:"rag"`
	Database     DatabaseConfig   `yaml:"database"`
	Server       ServerConfig     `yaml:"server"`
	Documents    []DocumentConfig `yaml:"documents"`
}

type LLMConfig struct {
	Provider string `yaml:"provider"`
	BaseURL  string `yaml:"base_url"`
	Model    string `yaml:"model"`
	Key      string `yaml:"key"`
}

type RAGConfig struct {
	ChunkWords int `yaml:"chunk_words"`
	BatchSize  int `yaml:"batch_size"`
	TopK       int `yaml:"top_k"`
	StartPage  int `yaml:"start_page"`
	// EndPage of 0 reads through the last page.
	EndPage int `yaml:"end_page"`
}

type DatabaseConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Driver   string `yaml:"driver"`
	DSN      string `yaml:"dsn"`
	Password string `yaml:"password"`
	Debug    bool   `yaml:"debug"`
}

type ServerConfig struct {
	Addr            string `yaml:"addr"`
	ShutdownTimeout string `yaml:"shutdown_timeout"`
}

type DocumentConfig struct {
	ID        string   `yaml:"id"`
	Title     string   `yaml:"title"`
	Path      string   `yaml:"path"`
	StartPage int      `yaml:"start_page"`
	EndPage   int      `yaml:"end_page"`
	Questions []string `yaml:"questions"`
}

const (
	defaultEmbedProvider   = "ollama"
	defaultEmbedURL        = "http://localhost:11434"
	defaultEmbedModel      = "nomic-embed-text"
	defaultInferenceURL    = "https://api.openai.com/v1"
	defaultInferenceModel  = "gpt-4o-mini"
	defaultDriver          = "pgdriver"
	defaultAddr            = ":8080"
	defaultShutdownTimeout = "5s"
)

// LoadConfig reads the yaml file at path, applies environment overrides and
// fills in defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse builds a Config from yaml bytes.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.applyEnv()
	cfg.ApplyDefaults()
	if _, err := NewCatalog(cfg.Documents); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("OPENAI_API_KEY"); v != "" && c.InferenceLLM.Key == "" {
		c.InferenceLLM.Key = v
	}
	if v := os.Getenv("OLLAMA_HOST"); v != "" && c.EmbedLLM.Provider != "openai" {
		c.EmbedLLM.BaseURL = v
	}
	if v := os.Getenv("DATABASE_DSN"); v != "" {
		c.Database.DSN = v
	}
}

// ApplyDefaults sets every unset field to its default value.
func (c *Config) ApplyDefaults() {
	if c.EmbedLLM.Provider == "" {
		c.EmbedLLM.Provider = defaultEmbedProvider
	}
	if c.EmbedLLM.BaseURL == "" && c.EmbedLLM.Provider == defaultEmbedProvider {
		c.EmbedLLM.BaseURL = defaultEmbedURL
	}
	if c.EmbedLLM.Model == "" {
		c.EmbedLLM.Model = defaultEmbedModel
	}
	if c.InferenceLLM.Provider == "" {
		c.InferenceLLM.Provider = "openai"
	}
	if c.InferenceLLM.BaseURL == "" {
		c.InferenceLLM.BaseURL = defaultInferenceURL
	}
	if c.InferenceLLM.Model == "" {
		c.InferenceLLM.Model = defaultInferenceModel
	}

	if c.RAG.ChunkWords <= 0 {
		c.RAG.ChunkWords = models.DefaultWordLength
	}
	if c.RAG.BatchSize <= 0 {
		c.RAG.BatchSize = models.DefaultBatchSize
	}
	if c.RAG.TopK <= 0 {
		c.RAG.TopK = models.DefaultTopK
	}
	if c.RAG.StartPage <= 0 {
		c.RAG.StartPage = 1
	}

	if c.Database.Driver == "" {
		c.Database.Driver = defaultDriver
	}
	if c.Server.Addr == "" {
		c.Server.Addr = defaultAddr
	}
	if c.Server.ShutdownTimeout == "" {
		c.Server.ShutdownTimeout = defaultShutdownTimeout
	}

	for i := range c.Documents {
		if c.Documents[i].StartPage <= 0 {
			c.Documents[i].StartPage = c.RAG.StartPage
		}
		if c.Documents[i].EndPage == 0 {
			c.Documents[i].EndPage = c.RAG.EndPage
		}
	}
}
