package rag

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/embeddings"

	"pdfqa/internal/chromemdb"
	"pdfqa/internal/config"
	"pdfqa/internal/helper"
	"pdfqa/internal/llmservice"
	"pdfqa/internal/models"
	"pdfqa/internal/parser"
)

var (
	ErrEmptyQuestion   = errors.New("question is empty")
	ErrSessionNotFound = errors.New("session not found")
)

// AnswerLog stores answered questions.
type AnswerLog interface {
	SaveAnswer(ctx context.Context, rec *models.AnswerRecord) error
	ListAnswers(ctx context.Context, sessionID string) ([]models.AnswerRecord, error)
}

// Service holds what every session shares: configuration, the document
// catalog, the model clients and the answer log.
type Service struct {
	cfg       *config.Config
	catalog   *config.Catalog
	embedder  embeddings.Embedder
	generator llmservice.Generator
	history   AnswerLog
	indexOpts []chromemdb.Option

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewService wires a Service. history may be nil.
func NewService(cfg *config.Config, embedder embeddings.Embedder, generator llmservice.Generator, history AnswerLog, indexOpts ...chromemdb.Option) (*Service, error) {
	catalog, err := cfg.Catalog()
	if err != nil {
		return nil, err
	}
	return &Service{
		cfg:       cfg,
		catalog:   catalog,
		embedder:  embedder,
		generator: generator,
		history:   history,
		indexOpts: indexOpts,
		sessions:  make(map[string]*Session),
	}, nil
}

func (s *Service) Catalog() *config.Catalog {
	return s.catalog
}

// Questions returns the curated questions for a catalog document.
func (s *Service) Questions(id config.DocumentID) ([]string, error) {
	return s.catalog.Questions(id)
}

// NewSession creates and registers a session with its own empty index.
func (s *Service) NewSession() (*Session, error) {
	id, err := helper.GenerateUUID()
	if err != nil {
		return nil, err
	}
	sess := &Session{
		ID:    id,
		svc:   s,
		index: chromemdb.NewIndex(s.embedder, s.indexOpts...),
	}

	s.mu.Lock()
	s.sessions[id] = sess
	s.mu.Unlock()

	log.Info().Str("session", id).Msg("Session created")
	return sess, nil
}

func (s *Service) Session(id string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return sess, nil
}

// CloseSession drops the session and its index.
func (s *Service) CloseSession(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return false
	}
	delete(s.sessions, id)
	log.Info().Str("session", id).Msg("Session closed")
	return true
}

// Session is one user's view: a single loaded corpus and its history.
type Session struct {
	ID string

	svc   *Service
	index *chromemdb.Index

	loadMu   sync.Mutex
	mu       sync.RWMutex
	document config.DocumentID
	source   string
}

// Load reads pages startPage through endPage of the file at path, chunks them
// and fits the session index. A startPage of zero falls back to the
// configured first page.
func (s *Session) Load(ctx context.Context, path string, startPage, endPage int) error {
	return s.load(ctx, path, startPage, endPage, "")
}

// load holds loadMu across the fit and the metadata update so Document and
// Source always describe the corpus the index holds.
func (s *Session) load(ctx context.Context, path string, startPage, endPage int, id config.DocumentID) error {
	params := s.svc.cfg.RAG
	if startPage <= 0 {
		startPage = params.StartPage
	}
	if startPage <= 0 {
		startPage = 1
	}

	pages, err := parser.LoadPages(path, startPage, endPage)
	if err != nil {
		return err
	}
	chunks := parser.ChunkPages(pages, params.ChunkWords, startPage)
	log.Info().Str("session", s.ID).Str("path", path).Int("pages", len(pages)).Int("chunks", len(chunks)).Msg("Document chunked")

	s.loadMu.Lock()
	defer s.loadMu.Unlock()
	if err := s.index.Fit(ctx, chunks, params.BatchSize, params.TopK); err != nil {
		return err
	}

	s.mu.Lock()
	s.source = path
	s.document = id
	s.mu.Unlock()
	return nil
}

// LoadCorpus loads the file at path and reports the outcome as a status
// line. Failures are returned as error-marked text, never as errors.
func (s *Session) LoadCorpus(ctx context.Context, path string, startPage int) string {
	if err := s.Load(ctx, path, startPage, s.svc.cfg.RAG.EndPage); err != nil {
		return s.errorText(err)
	}
	return models.CorpusLoaded
}

// SelectDocument loads a catalog document by id.
func (s *Session) SelectDocument(ctx context.Context, id config.DocumentID) error {
	doc, err := s.svc.catalog.Lookup(id)
	if err != nil {
		return err
	}
	return s.load(ctx, doc.Path, doc.StartPage, doc.EndPage, id)
}

// LoadDocument is SelectDocument reporting a status line.
func (s *Session) LoadDocument(ctx context.Context, id config.DocumentID) string {
	if err := s.SelectDocument(ctx, id); err != nil {
		return s.errorText(err)
	}
	return models.CorpusLoaded
}

// Document is the catalog id of the loaded corpus, empty when it was loaded
// by path or not at all.
func (s *Session) Document() config.DocumentID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.document
}

// Source is the path of the loaded corpus.
func (s *Session) Source() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.source
}

func (s *Session) Ready() bool {
	return s.index.Ready()
}

// Chunks returns the chunks of the loaded corpus.
func (s *Session) Chunks() []models.Chunk {
	return s.index.Chunks()
}

// Ask answers question from the loaded corpus. apiKey falls back to the
// configured key. The credential and the question are checked before any
// provider is called.
func (s *Session) Ask(ctx context.Context, question, apiKey string) (*models.PromptResponse, error) {
	if strings.TrimSpace(apiKey) == "" {
		apiKey = s.svc.cfg.InferenceLLM.Key
	}
	if strings.TrimSpace(apiKey) == "" {
		return nil, llmservice.ErrMissingCredential
	}
	if strings.TrimSpace(question) == "" {
		return nil, ErrEmptyQuestion
	}

	top, err := s.index.Query(ctx, question)
	if err != nil {
		return nil, err
	}
	sources := models.Strings(top)
	prompt := ComposePrompt(question, sources)

	answer, err := s.svc.generator.Generate(ctx, apiKey, prompt)
	if err != nil {
		return nil, err
	}

	s.record(ctx, question, answer, sources)
	return &models.PromptResponse{
		Query:   question,
		Source:  sources,
		Content: answer,
	}, nil
}

// Answer is Ask with failures reported as error-marked text.
func (s *Session) Answer(ctx context.Context, question, apiKey string) string {
	res, err := s.Ask(ctx, question, apiKey)
	if err != nil {
		return s.errorText(err)
	}
	return res.Content
}

// History lists the answers given in this session.
func (s *Session) History(ctx context.Context) ([]models.AnswerRecord, error) {
	if s.svc.history == nil {
		return nil, nil
	}
	return s.svc.history.ListAnswers(ctx, s.ID)
}

func (s *Session) record(ctx context.Context, question, answer string, sources []string) {
	if s.svc.history == nil {
		return
	}
	rec := &models.AnswerRecord{
		SessionID:  s.ID,
		DocumentID: string(s.Document()),
		Question:   question,
		Answer:     answer,
		Sources:    sources,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.svc.history.SaveAnswer(ctx, rec); err != nil {
		log.Warn().Err(err).Str("session", s.ID).Msg("Failed to record answer")
	}
}

func (s *Session) errorText(err error) string {
	if errors.Is(err, chromemdb.ErrIndexNotFitted) {
		log.Error().Err(err).Str("session", s.ID).Msg("Question asked before a corpus was loaded")
	} else if !isUserError(err) {
		log.Error().Err(err).Str("session", s.ID).Msg("Request failed")
	}
	return ErrorText(err)
}

func isUserError(err error) bool {
	return errors.Is(err, llmservice.ErrMissingCredential) ||
		errors.Is(err, ErrEmptyQuestion) ||
		errors.Is(err, config.ErrNoDocumentSelected)
}

// ErrorText renders err as the error-marked message shown to users.
func ErrorText(err error) string {
	var msg string
	switch {
	case errors.Is(err, llmservice.ErrMissingCredential):
		msg = "Please enter your OpenAI API key. Get your key here: https://platform.openai.com/account/api-keys"
	case errors.Is(err, ErrEmptyQuestion):
		msg = "Question field is empty"
	case errors.Is(err, config.ErrNoDocumentSelected):
		msg = "Please select at least one document."
	case errors.Is(err, chromemdb.ErrIndexNotFitted):
		msg = "No corpus loaded. Load a document before asking questions."
	default:
		msg = err.Error()
	}
	return models.ErrorMarker + msg
}
