package llmservice

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"pdfqa/internal/config"
	"pdfqa/internal/models"
)

var (
	ErrMissingCredential = errors.New("missing api key")
	ErrEmptyCompletion   = errors.New("model returned no completion")
)

// Generator turns a prompt into a single completion.
type Generator interface {
	Generate(ctx context.Context, apiKey, prompt string) (string, error)
}

// OpenAIGenerator calls an OpenAI compatible chat completion endpoint.
type OpenAIGenerator struct {
	cfg config.LLMConfig
}

func NewGenerator(cfg *config.LLMConfig) *OpenAIGenerator {
	return &OpenAIGenerator{cfg: *cfg}
}

// Generate sends prompt as one user message and returns the first choice.
// A blank apiKey fails before any request is made.
func (g *OpenAIGenerator) Generate(ctx context.Context, apiKey, prompt string) (string, error) {
	apiKey = strings.TrimSpace(strings.TrimPrefix(apiKey, "Bearer "))
	if apiKey == "" {
		return "", ErrMissingCredential
	}

	llmConfig := g.cfg
	llmConfig.Key = apiKey
	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeHuman, prompt),
	}

	res, err := GenerateContent(ctx, &llmConfig, nil, messages,
		llms.WithTemperature(models.Temperature),
		llms.WithMaxTokens(models.MaxTokens),
		llms.WithN(1),
	)
	if err != nil {
		return "", err
	}
	if len(res.Choices) == 0 {
		return "", ErrEmptyCompletion
	}
	return res.Choices[0].Content, nil
}

// call llm
func GenerateContent(ctx context.Context, llmConfig *config.LLMConfig, tools []llms.Tool, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	log.Debug().Str("base_url", llmConfig.BaseURL).Str("model", llmConfig.Model).Msg("Generating content")

	opts := []openai.Option{
		openai.WithToken(llmConfig.Key),
		openai.WithModel(llmConfig.Model),
	}
	if llmConfig.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(llmConfig.BaseURL))
	}
	llm, err := openai.New(opts...)
	if err != nil {
		return nil, err
	}

	if len(tools) > 0 {
		options = append(options, llms.WithTools(tools))
	}
	return llm.GenerateContent(ctx, messages, options...)
}
