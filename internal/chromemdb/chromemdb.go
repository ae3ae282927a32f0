package chromemdb

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"sync"

	"github.com/philippgille/chromem-go"
	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/embeddings"

	"pdfqa/internal/embedding"
	"pdfqa/internal/models"
)

var (
	ErrIndexNotFitted = errors.New("index has not been fitted")
	ErrEmptyCorpus    = errors.New("no chunks to index")
)

const collectionName = "chunks"

// fitted is one complete, queryable generation of the index.
type fitted struct {
	chunks     []models.Chunk
	collection *chromem.Collection
	neighbors  int
}

// Index is an in-memory nearest-neighbor index over document chunks. Each
// Fit builds a fresh chromem database and swaps it in only once it is
// complete, so queries see either the previous corpus or the new one.
type Index struct {
	embedder embeddings.Embedder
	onBatch  func(done, total int)

	fitMu sync.Mutex
	mu    sync.RWMutex
	state *fitted
}

type Option func(*Index)

// WithBatchHook reports embedding progress during Fit.
func WithBatchHook(fn func(done, total int)) Option {
	return func(ix *Index) {
		ix.onBatch = fn
	}
}

func NewIndex(embedder embeddings.Embedder, opts ...Option) *Index {
	ix := &Index{embedder: embedder}
	for _, opt := range opts {
		opt(ix)
	}
	return ix
}

// Fit embeds chunks in batches of batchSize and replaces the indexed corpus.
// Queries return min(k, len(chunks)) neighbors. On error the previous corpus
// stays in place.
func (ix *Index) Fit(ctx context.Context, chunks []models.Chunk, batchSize, k int) error {
	if len(chunks) == 0 {
		return ErrEmptyCorpus
	}
	if k <= 0 {
		k = models.DefaultTopK
	}

	ix.fitMu.Lock()
	defer ix.fitMu.Unlock()

	texts := models.Strings(chunks)
	vectors, err := embedding.EmbedBatches(ctx, ix.embedder, texts, batchSize, ix.onBatch)
	if err != nil {
		return err
	}

	db := chromem.NewDB()
	collection, err := db.CreateCollection(collectionName, nil, ix.embedQuery)
	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	docs := make([]chromem.Document, len(chunks))
	for i, c := range chunks {
		docs[i] = chromem.Document{
			ID:        strconv.Itoa(i),
			Content:   texts[i],
			Metadata:  map[string]string{"page": strconv.Itoa(c.PageNumber)},
			Embedding: vectors[i],
		}
	}
	if err := collection.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
		return fmt.Errorf("failed to add documents: %w", err)
	}

	next := &fitted{
		chunks:     append([]models.Chunk(nil), chunks...),
		collection: collection,
		neighbors:  min(k, len(chunks)),
	}

	ix.mu.Lock()
	ix.state = next
	ix.mu.Unlock()

	log.Debug().Int("chunks", len(chunks)).Int("neighbors", next.neighbors).Msg("Index fitted")
	return nil
}

// Query returns the nearest chunks to text, nearest first.
func (ix *Index) Query(ctx context.Context, text string) ([]models.Chunk, error) {
	state, results, err := ix.search(ctx, text)
	if err != nil {
		return nil, err
	}
	chunks := make([]models.Chunk, len(results))
	for i, pos := range results {
		chunks[i] = state.chunks[pos]
	}
	return chunks, nil
}

// QueryIndices is Query returning chunk positions instead of chunks.
func (ix *Index) QueryIndices(ctx context.Context, text string) ([]int, error) {
	_, results, err := ix.search(ctx, text)
	return results, err
}

func (ix *Index) search(ctx context.Context, text string) (*fitted, []int, error) {
	state := ix.current()
	if state == nil {
		return nil, nil, ErrIndexNotFitted
	}

	vectors, err := ix.embedder.EmbedDocuments(ctx, []string{text})
	if err != nil {
		return nil, nil, err
	}
	if len(vectors) != 1 {
		return nil, nil, fmt.Errorf("embedding provider returned %d vectors for 1 query", len(vectors))
	}

	results, err := state.collection.QueryWithOptions(ctx, chromem.QueryOptions{
		QueryEmbedding: vectors[0],
		NResults:       state.neighbors,
	})
	if err != nil {
		return nil, nil, err
	}

	positions := make([]int, len(results))
	for i, r := range results {
		pos, err := strconv.Atoi(r.ID)
		if err != nil || pos < 0 || pos >= len(state.chunks) {
			return nil, nil, fmt.Errorf("unexpected document id %q", r.ID)
		}
		positions[i] = pos
	}
	log.Debug().Ints("positions", positions).Msg("Index queried")
	return state, positions, nil
}

func (ix *Index) embedQuery(ctx context.Context, text string) ([]float32, error) {
	return ix.embedder.EmbedQuery(ctx, text)
}

func (ix *Index) current() *fitted {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.state
}

// Ready reports whether a Fit has completed.
func (ix *Index) Ready() bool {
	return ix.current() != nil
}

// Len is the number of indexed chunks.
func (ix *Index) Len() int {
	if s := ix.current(); s != nil {
		return len(s.chunks)
	}
	return 0
}

// Neighbors is the number of results each query returns.
func (ix *Index) Neighbors() int {
	if s := ix.current(); s != nil {
		return s.neighbors
	}
	return 0
}

// Chunks returns a copy of the indexed chunks.
func (ix *Index) Chunks() []models.Chunk {
	if s := ix.current(); s != nil {
		return append([]models.Chunk(nil), s.chunks...)
	}
	return nil
}
