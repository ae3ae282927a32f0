package embedding

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"

	"pdfqa/internal/config"
	"pdfqa/internal/models"
)

// NewEmbedder builds the embedder named by cfg.Provider.
func NewEmbedder(cfg *config.LLMConfig) (embeddings.Embedder, error) {
	var (
		e   *embeddings.EmbedderImpl
		err error
	)
	switch strings.ToLower(cfg.Provider) {
	case "", "ollama":
		e, err = NewOllamaEmbedder(cfg)
	case "openai":
		e, err = NewOpenAIEmbedder(cfg)
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", cfg.Provider)
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

// NewOpenAIEmbedder creates an embedder for any OpenAI compatible endpoint.
func NewOpenAIEmbedder(cfg *config.LLMConfig) (*embeddings.EmbedderImpl, error) {
	log.Debug().Interface("config", map[string]string{
		"base_url":        cfg.BaseURL,
		"embedding_model": cfg.Model,
	}).Msg("Creating openai embedder")

	opts := []openai.Option{
		openai.WithToken(strings.TrimPrefix(cfg.Key, "Bearer ")),
		openai.WithEmbeddingModel(cfg.Model),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}
	llm, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize openai client: %w", err)
	}
	return embeddings.NewEmbedder(llm, embeddings.WithBatchSize(models.DefaultBatchSize))
}

// new ollama embedder
func NewOllamaEmbedder(cfg *config.LLMConfig) (*embeddings.EmbedderImpl, error) {
	log.Debug().Interface("config", map[string]string{
		"base_url":        cfg.BaseURL,
		"embedding_model": cfg.Model,
	}).Msg("Creating ollama embedder")

	llm, err := ollama.New(
		ollama.WithServerURL(cfg.BaseURL),
		ollama.WithModel(cfg.Model),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize ollama client: %w", err)
	}
	return embeddings.NewEmbedder(llm, embeddings.WithBatchSize(models.DefaultBatchSize))
}

// EmbedBatches embeds texts with one provider call per batch of batchSize and
// returns the vectors in input order. onBatch, when set, is called after
// each batch with the number of texts embedded so far.
func EmbedBatches(ctx context.Context, embedder embeddings.Embedder, texts []string, batchSize int, onBatch func(done, total int)) ([][]float32, error) {
	if batchSize <= 0 {
		batchSize = models.DefaultBatchSize
	}

	vectors := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += batchSize {
		end := min(start+batchSize, len(texts))
		batch, err := embedder.EmbedDocuments(ctx, texts[start:end])
		if err != nil {
			return nil, err
		}
		if len(batch) != end-start {
			return nil, fmt.Errorf("embedding provider returned %d vectors for %d texts", len(batch), end-start)
		}
		vectors = append(vectors, batch...)

		log.Debug().Int("done", end).Int("total", len(texts)).Msg("Embedded batch")
		if onBatch != nil {
			onBatch(end, len(texts))
		}
	}
	return vectors, nil
}
