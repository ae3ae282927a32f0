package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"pdfqa/internal/config"
	"pdfqa/internal/models"
)

const apiKeyHeader = "X-OpenAI-Key"

type documentResponse struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Questions int    `json:"questions"`
}

type sessionResponse struct {
	ID       string `json:"id"`
	Document string `json:"document,omitempty"`
	Ready    bool   `json:"ready"`
	Chunks   int    `json:"chunks"`
}

type loadCorpusRequest struct {
	Document string `json:"document" binding:"required"`
}

type answerRequest struct {
	Question string `json:"question"`
	APIKey   string `json:"apiKey"`
}

// ListDocuments lists the catalog.
func (h *Handler) ListDocuments(c *gin.Context) {
	docs := h.svc.Catalog().Documents()
	out := make([]documentResponse, len(docs))
	for i, d := range docs {
		out[i] = documentResponse{ID: d.ID, Title: d.Title, Questions: len(d.Questions)}
	}
	sendJSON(c, http.StatusOK, out)
}

// ListQuestions returns the curated questions of a document.
func (h *Handler) ListQuestions(c *gin.Context) {
	questions, err := h.svc.Questions(config.DocumentID(c.Param("id")))
	if err != nil {
		sendError(c, http.StatusNotFound, err)
		return
	}
	sendJSON(c, http.StatusOK, questions)
}

func (h *Handler) CreateSession(c *gin.Context) {
	sess, err := h.svc.NewSession()
	if err != nil {
		sendError(c, http.StatusInternalServerError, err)
		return
	}
	sendJSON(c, http.StatusCreated, sessionResponse{ID: sess.ID})
}

func (h *Handler) GetSession(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	sendJSON(c, http.StatusOK, sessionResponse{
		ID:       sess.ID,
		Document: string(sess.Document()),
		Ready:    sess.Ready(),
		Chunks:   len(sess.Chunks()),
	})
}

func (h *Handler) DeleteSession(c *gin.Context) {
	if _, ok := h.session(c); !ok {
		return
	}
	h.svc.CloseSession(c.Param("id"))
	c.Status(http.StatusNoContent)
}

// LoadCorpus fits the session index on a catalog document. Only catalog
// documents can be loaded over HTTP.
func (h *Handler) LoadCorpus(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	var req loadCorpusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, http.StatusBadRequest, err)
		return
	}

	if err := sess.SelectDocument(c.Request.Context(), config.DocumentID(req.Document)); err != nil {
		sendError(c, http.StatusInternalServerError, err)
		return
	}
	sendJSON(c, http.StatusOK, gin.H{"status": models.CorpusLoaded, "chunks": len(sess.Chunks())})
}

// Answer answers a question from the session corpus. The key comes from the
// X-OpenAI-Key header or the request body.
func (h *Handler) Answer(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	var req answerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, http.StatusBadRequest, err)
		return
	}

	apiKey := strings.TrimSpace(c.GetHeader(apiKeyHeader))
	if apiKey == "" {
		apiKey = req.APIKey
	}

	res, err := sess.Ask(c.Request.Context(), req.Question, apiKey)
	if err != nil {
		sendError(c, http.StatusBadGateway, err)
		return
	}
	sendJSON(c, http.StatusOK, res)
}

func (h *Handler) GetHistory(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	history, err := sess.History(c.Request.Context())
	if err != nil {
		sendError(c, http.StatusInternalServerError, err)
		return
	}
	if history == nil {
		history = []models.AnswerRecord{}
	}
	sendJSON(c, http.StatusOK, history)
}
