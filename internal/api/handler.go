package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"pdfqa/internal/chromemdb"
	"pdfqa/internal/config"
	"pdfqa/internal/llmservice"
	"pdfqa/internal/parser"
	"pdfqa/internal/rag"
)

type Handler struct {
	svc *rag.Service
}

func NewHandler(svc *rag.Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes registers all API routes
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	v1 := r.Group("/api/v1")

	// Catalog routes
	v1.GET("/documents", h.ListDocuments)
	v1.GET("/documents/:id/questions", h.ListQuestions)

	// Session routes
	v1.POST("/sessions", h.CreateSession)
	v1.GET("/sessions/:id", h.GetSession)
	v1.DELETE("/sessions/:id", h.DeleteSession)
	v1.POST("/sessions/:id/corpus", h.LoadCorpus)
	v1.POST("/sessions/:id/answer", h.Answer)
	v1.GET("/sessions/:id/history", h.GetHistory)

	v1.GET("/health", h.CheckHealth)
}

// Common error response structure
type ErrorResponse struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

func sendError(c *gin.Context, status int, err error) {
	code := "INTERNAL_ERROR"
	switch {
	case errors.Is(err, rag.ErrSessionNotFound):
		code, status = "SESSION_NOT_FOUND", http.StatusNotFound
	case errors.Is(err, config.ErrUnknownDocument):
		code, status = "DOCUMENT_NOT_FOUND", http.StatusNotFound
	case errors.Is(err, config.ErrNoDocumentSelected):
		code, status = "NO_DOCUMENT_SELECTED", http.StatusBadRequest
	case errors.Is(err, llmservice.ErrMissingCredential):
		code, status = "MISSING_API_KEY", http.StatusUnauthorized
	case errors.Is(err, rag.ErrEmptyQuestion):
		code, status = "EMPTY_QUESTION", http.StatusBadRequest
	case errors.Is(err, chromemdb.ErrIndexNotFitted):
		code, status = "CORPUS_NOT_LOADED", http.StatusConflict
	case errors.Is(err, chromemdb.ErrEmptyCorpus), errors.Is(err, parser.ErrUnsupportedFormat):
		code, status = "UNPROCESSABLE_DOCUMENT", http.StatusUnprocessableEntity
	case status == http.StatusBadRequest:
		code = "BAD_REQUEST"
	case status == http.StatusBadGateway:
		code = "PROVIDER_ERROR"
	}

	c.JSON(status, ErrorResponse{
		Code:    code,
		Message: err.Error(),
	})
}

func sendJSON(c *gin.Context, status int, data interface{}) {
	c.JSON(status, data)
}

func (h *Handler) session(c *gin.Context) (*rag.Session, bool) {
	sess, err := h.svc.Session(c.Param("id"))
	if err != nil {
		sendError(c, http.StatusNotFound, err)
		return nil, false
	}
	return sess, true
}

// CheckHealth reports liveness.
func (h *Handler) CheckHealth(c *gin.Context) {
	sendJSON(c, http.StatusOK, gin.H{"status": "ok"})
}
