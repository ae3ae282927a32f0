package models

import (
	"fmt"
	"time"
)

// Chunk is a page-tagged word window, the unit the index retrieves.
type Chunk struct {
	PageNumber int    `json:"page_number"`
	Text       string `json:"text"`
}

// String renders the chunk the way it is embedded and shown to the model.
func (c Chunk) String() string {
	return fmt.Sprintf("[%d] \"%s\"", c.PageNumber, c.Text)
}

// Strings renders every chunk in order.
func Strings(chunks []Chunk) []string {
	out := make([]string, len(chunks))
	for i, c := range chunks {
		out[i] = c.String()
	}
	return out
}

type PromptResponse struct {
	Query   string   `json:"query"`
	Source  []string `json:"source"`
	Content string   `json:"content"`
}

// AnswerRecord is one answered question kept in a session's history.
type AnswerRecord struct {
	SessionID  string    `json:"session_id"`
	DocumentID string    `json:"document_id,omitempty"`
	Question   string    `json:"question"`
	Answer     string    `json:"answer"`
	Sources    []string  `json:"sources"`
	CreatedAt  time.Time `json:"created_at"`
}
