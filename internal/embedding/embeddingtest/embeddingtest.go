// Package embeddingtest provides a deterministic embedder for tests.
package embeddingtest

import (
	"context"
	"hash/fnv"
	"strings"
	"sync"
	"unicode"
)

const dimensions = 256

// HashEmbedder maps text to a bag-of-words vector by hashing each lowercase
// word into one of a fixed number of buckets. Texts sharing words land close
// together, identical texts embed identically.
type HashEmbedder struct {
	// Err, when set, is returned by every call.
	Err error

	mu    sync.Mutex
	calls [][]string
}

func (e *HashEmbedder) EmbedDocuments(_ context.Context, texts []string) ([][]float32, error) {
	e.mu.Lock()
	e.calls = append(e.calls, append([]string(nil), texts...))
	e.mu.Unlock()

	if e.Err != nil {
		return nil, e.Err
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = Vector(t)
	}
	return out, nil
}

func (e *HashEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	v, err := e.EmbedDocuments(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return v[0], nil
}

// Calls returns the batches passed to the embedder so far.
func (e *HashEmbedder) Calls() [][]string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([][]string(nil), e.calls...)
}

// Reset forgets recorded calls.
func (e *HashEmbedder) Reset() {
	e.mu.Lock()
	e.calls = nil
	e.mu.Unlock()
}

// Vector is the embedding HashEmbedder produces for text.
func Vector(text string) []float32 {
	v := make([]float32, dimensions+1)
	// keeps the vector non-zero for texts without words
	v[dimensions] = 0.01
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, w := range words {
		h := fnv.New32a()
		h.Write([]byte(w))
		v[h.Sum32()%dimensions]++
	}
	return v
}
