package embedding_test

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"pdfqa/internal/config"
	"pdfqa/internal/embedding"
)

// lengthEmbedder encodes each text as its length and records every call.
type lengthEmbedder struct {
	calls [][]string
	err   error
	short bool
}

func (e *lengthEmbedder) EmbedDocuments(_ context.Context, texts []string) ([][]float32, error) {
	e.calls = append(e.calls, texts)
	if e.err != nil {
		return nil, e.err
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = []float32{float32(len(t))}
	}
	if e.short {
		out = out[:len(out)-1]
	}
	return out, nil
}

func (e *lengthEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	v, err := e.EmbedDocuments(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return v[0], nil
}

func TestEmbedBatches(t *testing.T) {
	texts := []string{"a", "bb", "ccc", "dddd", "eeeee"}

	tests := []struct {
		name      string
		batchSize int
		wantCalls int
	}{
		{"batches of two", 2, 3},
		{"single batch", 10, 1},
		{"one per call", 1, 5},
		{"default batch size", 0, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := &lengthEmbedder{}
			var progress []int
			got, err := embedding.EmbedBatches(context.Background(), e, texts, tt.batchSize, func(done, total int) {
				if total != len(texts) {
					t.Errorf("onBatch total = %d, want %d", total, len(texts))
				}
				progress = append(progress, done)
			})
			if err != nil {
				t.Fatalf("EmbedBatches() error = %v", err)
			}
			if len(e.calls) != tt.wantCalls {
				t.Errorf("provider calls = %d, want %d", len(e.calls), tt.wantCalls)
			}
			want := [][]float32{{1}, {2}, {3}, {4}, {5}}
			if !reflect.DeepEqual(got, want) {
				t.Errorf("EmbedBatches() = %v, want %v", got, want)
			}
			if len(progress) != tt.wantCalls || progress[len(progress)-1] != len(texts) {
				t.Errorf("progress = %v, want %d reports ending at %d", progress, tt.wantCalls, len(texts))
			}
		})
	}
}

func TestEmbedBatchesErrors(t *testing.T) {
	boom := errors.New("provider down")

	e := &lengthEmbedder{err: boom}
	if _, err := embedding.EmbedBatches(context.Background(), e, []string{"a"}, 1, nil); !errors.Is(err, boom) {
		t.Errorf("EmbedBatches() error = %v, want %v", err, boom)
	}

	e = &lengthEmbedder{short: true}
	if _, err := embedding.EmbedBatches(context.Background(), e, []string{"a", "b"}, 2, nil); err == nil {
		t.Error("EmbedBatches() error = nil, want count mismatch")
	}
}

func TestNewEmbedderUnknownProvider(t *testing.T) {
	_, err := embedding.NewEmbedder(&config.LLMConfig{Provider: "carrier-pigeon"})
	if err == nil {
		t.Error("NewEmbedder() error = nil, want error")
	}
}

func TestNewEmbedderProviders(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.LLMConfig
	}{
		{"ollama", config.LLMConfig{Provider: "ollama", BaseURL: "http://localhost:11434", Model: "nomic-embed-text"}},
		{"openai", config.LLMConfig{Provider: "openai", BaseURL: "http://localhost:9999/v1", Model: "text-embedding-3-small", Key: "sk-test"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := embedding.NewEmbedder(&tt.cfg)
			if err != nil {
				t.Fatalf("NewEmbedder() error = %v", err)
			}
			if e == nil {
				t.Error("NewEmbedder() = nil")
			}
		})
	}
}
