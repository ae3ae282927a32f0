package parser

import (
	"strings"

	"pdfqa/internal/models"
)

// ChunkPages splits normalized pages into windows of wordLength words. Page
// i is tagged startPage+i. A short last window on any page but the final one
// is carried to the front of the next page instead of being emitted, so only
// the final page may yield a chunk shorter than wordLength.
func ChunkPages(pages []string, wordLength, startPage int) []models.Chunk {
	if wordLength <= 0 {
		wordLength = models.DefaultWordLength
	}

	streams := resolveStreams(pages, wordLength)

	var chunks []models.Chunk
	for idx, words := range streams {
		for i := 0; i < len(words); i += wordLength {
			end := min(i+wordLength, len(words))
			chunks = append(chunks, models.Chunk{
				PageNumber: idx + startPage,
				Text:       strings.TrimSpace(strings.Join(words[i:end], " ")),
			})
		}
	}
	return chunks
}

// resolveStreams is the first pass: it returns each page's final token
// stream, with every carried remainder moved off its page and prepended to
// the next one. A carried remainder that is still short on the next page is
// carried again as part of that page's own remainder.
func resolveStreams(pages []string, wordLength int) [][]string {
	streams := make([][]string, len(pages))
	var carry []string
	for idx, page := range pages {
		tokens := splitWords(page)
		words := make([]string, 0, len(carry)+len(tokens))
		words = append(append(words, carry...), tokens...)
		carry = nil

		if rem := len(words) % wordLength; rem != 0 && idx < len(pages)-1 {
			cut := len(words) - rem
			carry = words[cut:]
			words = words[:cut:cut]
		}
		streams[idx] = words
	}
	return streams
}

// splitWords splits on single spaces and keeps empty tokens. An empty page
// has no tokens.
func splitWords(page string) []string {
	if page == "" {
		return nil
	}
	return strings.Split(page, " ")
}
