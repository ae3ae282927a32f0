package rag

import (
	"strings"

	"pdfqa/internal/models"
)

// ComposePrompt lays out the retrieved chunks, the answering instructions
// and the question in the form the model is asked to complete.
func ComposePrompt(question string, topChunks []string) string {
	var b strings.Builder
	b.WriteString("search results:\n\n")
	for _, c := range topChunks {
		b.WriteString(c)
		b.WriteString("\n\n")
	}
	b.WriteString(models.PromptInstructions)
	b.WriteString("\n\nQuery: ")
	b.WriteString(question)
	b.WriteString("\nAnswer:")
	return b.String()
}
