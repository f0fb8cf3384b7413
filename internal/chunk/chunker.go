package chunk

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Chunk is a bounded contiguous slice of a document's text, sized to fit an
// LLM context window
type Chunk struct {
	ChunkID    string `json:"chunk_id"`
	Text       string `json:"text"`
	StartChar  int    `json:"start_char"`
	EndChar    int    `json:"end_char"`
	ChunkIndex int    `json:"chunk_index"`
}

var paragraphSplit = regexp.MustCompile(`\n\s*\n`)

// Chunker splits documents into overlapping windows that prefer paragraph
// boundaries. Each chunk after the first carries a trailing slice of its
// predecessor so context survives the cut. No text is dropped.
type Chunker struct {
	chunkSize int
	overlap   int
}

// NewChunker creates a chunker with the given target size and overlap in
// characters
func NewChunker(chunkSize, overlap int) *Chunker {
	if chunkSize <= 0 {
		chunkSize = 2000
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= chunkSize {
		overlap = chunkSize / 2
	}
	return &Chunker{chunkSize: chunkSize, overlap: overlap}
}

// Split chunks a document. Text shorter than the chunk size yields exactly
// one chunk spanning the whole document.
func (c *Chunker) Split(text, documentID string) []Chunk {
	if len(text) < c.chunkSize {
		return []Chunk{{
			ChunkID:    chunkID(documentID, 0),
			Text:       text,
			StartChar:  0,
			EndChar:    len(text),
			ChunkIndex: 0,
		}}
	}

	var chunks []Chunk
	var current strings.Builder
	chunkStart := 0
	index := 0

	flush := func(overlapLen int) {
		body := strings.TrimSpace(current.String())
		if body == "" {
			return
		}
		end := chunkStart + current.Len()
		chunks = append(chunks, Chunk{
			ChunkID:    chunkID(documentID, index),
			Text:       body,
			StartChar:  chunkStart,
			EndChar:    end,
			ChunkIndex: index,
		})
		chunkStart = end - overlapLen
		index++
	}

	for _, para := range paragraphSplit.Split(text, -1) {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}

		if current.Len()+len(para) > c.chunkSize && current.Len() > 0 {
			overlapText := overlapSuffix(current.String(), c.overlap)
			flush(len(overlapText))
			current.Reset()
			current.WriteString(overlapText)
			current.WriteString("\n\n")
			current.WriteString(para)
			continue
		}

		if current.Len() > 0 {
			current.WriteString("\n\n")
		}
		current.WriteString(para)
	}

	flush(0)

	return chunks
}

// FindRelevant filters chunks likely to mention an event. The match is a
// case-insensitive substring search against the event keywords expanded
// with the individual words (longer than 3 characters) of every multi-word
// keyword. Deliberately permissive: recall over precision.
func (c *Chunker) FindRelevant(chunks []Chunk, keywords []string) []Chunk {
	expanded := ExpandKeywords(keywords)

	var relevant []Chunk
	for _, ch := range chunks {
		lower := strings.ToLower(ch.Text)
		for _, kw := range expanded {
			if strings.Contains(lower, kw) {
				relevant = append(relevant, ch)
				break
			}
		}
	}
	return relevant
}

// ExpandKeywords lowercases the keywords and adds each individual word of a
// multi-word keyword, dropping tokens of 3 characters or fewer and
// duplicates while preserving order
func ExpandKeywords(keywords []string) []string {
	var partial []string
	for _, kw := range keywords {
		kw = strings.ToLower(kw)
		partial = append(partial, strings.Fields(kw)...)
		partial = append(partial, kw)
	}

	seen := make(map[string]bool, len(partial))
	var unique []string
	for _, kw := range partial {
		if len(kw) > 3 && !seen[kw] {
			seen[kw] = true
			unique = append(unique, kw)
		}
	}
	return unique
}

// Combine concatenates chunk texts with separators up to maxLength. The
// first chunk is always included, even when it alone exceeds maxLength, so
// the result is never empty for non-empty input.
func (c *Chunker) Combine(chunks []Chunk, maxLength int) string {
	var combined strings.Builder
	for _, ch := range chunks {
		if combined.Len() > 0 && combined.Len()+len(ch.Text) > maxLength {
			break
		}
		if combined.Len() > 0 {
			combined.WriteString("\n\n---\n\n")
		}
		combined.WriteString(ch.Text)
	}
	return combined.String()
}

// overlapSuffix returns at least overlap bytes from the end of text,
// never splitting a multi-byte rune
func overlapSuffix(text string, overlap int) string {
	if len(text) <= overlap {
		return text
	}
	start := len(text) - overlap
	for start > 0 && !utf8.RuneStart(text[start]) {
		start--
	}
	return text[start:]
}

func chunkID(documentID string, index int) string {
	return fmt.Sprintf("%s_chunk_%d", documentID, index)
}
