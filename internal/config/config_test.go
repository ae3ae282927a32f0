package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"pdfqa/internal/config"
)

const sample = `
inference_llm:
  model: gpt-test
rag:
  chunk_words: 40
documents:
  - id: brochure
    title: Brochure
    path: ./brochure.pdf
    start_page: 3
    questions:
      - What is covered?
      - What is excluded?
  - id: manual
    path: ./manual.pdf
`

func TestParseAppliesDefaults(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("OLLAMA_HOST", "")
	t.Setenv("DATABASE_DSN", "")

	cfg, err := config.Parse([]byte(sample))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	tests := []struct {
		name string
		got  interface{}
		want interface{}
	}{
		{"chunk words", cfg.RAG.ChunkWords, 40},
		{"batch size", cfg.RAG.BatchSize, 1000},
		{"top k", cfg.RAG.TopK, 5},
		{"start page", cfg.RAG.StartPage, 1},
		{"embed provider", cfg.EmbedLLM.Provider, "ollama"},
		{"inference model", cfg.InferenceLLM.Model, "gpt-test"},
		{"driver", cfg.Database.Driver, "pgdriver"},
		{"addr", cfg.Server.Addr, ":8080"},
		{"document start page kept", cfg.Documents[0].StartPage, 3},
		{"document start page defaulted", cfg.Documents[1].StartPage, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
			}
		})
	}
}

func TestParseEnvOverrides(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-env")
	t.Setenv("OLLAMA_HOST", "http://ollama:11434")
	t.Setenv("DATABASE_DSN", "postgres://db/answers")

	cfg, err := config.Parse([]byte(sample))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if cfg.InferenceLLM.Key != "sk-env" {
		t.Errorf("InferenceLLM.Key = %q, want %q", cfg.InferenceLLM.Key, "sk-env")
	}
	if cfg.EmbedLLM.BaseURL != "http://ollama:11434" {
		t.Errorf("EmbedLLM.BaseURL = %q", cfg.EmbedLLM.BaseURL)
	}
	if cfg.Database.DSN != "postgres://db/answers" {
		t.Errorf("Database.DSN = %q", cfg.Database.DSN)
	}
}

func TestParseRejectsBadDocuments(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"missing id", "documents:\n  - path: a.pdf\n"},
		{"missing path", "documents:\n  - id: a\n"},
		{"duplicate id", "documents:\n  - id: a\n    path: a.pdf\n  - id: a\n    path: b.pdf\n"},
		{"bad yaml", "documents: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := config.Parse([]byte(tt.yaml)); err == nil {
				t.Errorf("Parse() error = nil, want error")
			}
		})
	}
}

func TestCatalog(t *testing.T) {
	cfg, err := config.Parse([]byte(sample))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	catalog, err := cfg.Catalog()
	if err != nil {
		t.Fatalf("Catalog() error = %v", err)
	}

	ids := catalog.IDs()
	if len(ids) != 2 || ids[0] != "brochure" || ids[1] != "manual" {
		t.Errorf("IDs() = %v, want [brochure manual]", ids)
	}

	questions, err := catalog.Questions("brochure")
	if err != nil {
		t.Fatalf("Questions() error = %v", err)
	}
	if len(questions) != 2 {
		t.Errorf("Questions() = %v, want 2 questions", questions)
	}

	doc, err := catalog.Lookup("manual")
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	if doc.Title != "manual" {
		t.Errorf("Lookup().Title = %q, want id as title", doc.Title)
	}

	if _, err := catalog.Lookup(""); !errors.Is(err, config.ErrNoDocumentSelected) {
		t.Errorf("Lookup(\"\") error = %v, want ErrNoDocumentSelected", err)
	}
	if _, err := catalog.Questions("missing"); !errors.Is(err, config.ErrUnknownDocument) {
		t.Errorf("Questions(missing) error = %v, want ErrUnknownDocument", err)
	}
}

func TestLoadConfigShipped(t *testing.T) {
	cfg, err := config.LoadConfig(filepath.Join("..", "..", "configs", "config.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	catalog, err := cfg.Catalog()
	if err != nil {
		t.Fatalf("Catalog() error = %v", err)
	}
	q, err := catalog.Questions("smart-protect-goal")
	if err != nil {
		t.Fatalf("Questions() error = %v", err)
	}
	if len(q) != 10 {
		t.Errorf("len(Questions(smart-protect-goal)) = %d, want 10", len(q))
	}
	q, err = catalog.Questions("future-wealth-gain")
	if err != nil {
		t.Fatalf("Questions() error = %v", err)
	}
	if len(q) != 8 {
		t.Errorf("len(Questions(future-wealth-gain)) = %d, want 8", len(q))
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := config.LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("LoadConfig() error = %v, want ErrNotExist", err)
	}
}
