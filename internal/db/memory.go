package db

import (
	"context"
	"sync"
	"time"

	"pdfqa/internal/models"
)

// MemoryStore keeps answer history in process, used when no database is
// configured.
type MemoryStore struct {
	mu      sync.RWMutex
	answers map[string][]models.AnswerRecord
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{answers: make(map[string][]models.AnswerRecord)}
}

func (m *MemoryStore) SaveAnswer(_ context.Context, rec *models.AnswerRecord) error {
	r := *rec
	r.Sources = append([]string(nil), rec.Sources...)
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}

	m.mu.Lock()
	m.answers[r.SessionID] = append(m.answers[r.SessionID], r)
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) ListAnswers(_ context.Context, sessionID string) ([]models.AnswerRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]models.AnswerRecord(nil), m.answers[sessionID]...), nil
}

func (m *MemoryStore) Reset(_ context.Context) error {
	m.mu.Lock()
	m.answers = make(map[string][]models.AnswerRecord)
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Close() error {
	return nil
}
