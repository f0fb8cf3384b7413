package extract

import (
	"fmt"
	"strings"

	"github.com/jrswathi1999/Lincoln-historical-divergence/internal/chunk"
	"github.com/jrswathi1999/Lincoln-historical-divergence/internal/model"
)

const extractionSystemPrompt = "You are an expert historian extracting structured information from historical texts."

const extractionPromptTemplate = `You are analyzing a historical text for information about a specific event.

EVENT: %s (%s)
DOCUMENT: %s
AUTHOR: %s

TEXT:
%s

Think through the text step by step:
1. Does this passage actually describe or reference the event above?
2. What specific factual claims does the author make about it?
3. What dates or times are mentioned in connection with the event?
4. What is the author's tone toward the event?

Then respond with a JSON object with exactly these fields:
{
  "event": "%s",
  "author": "%s",
  "claims": ["specific factual claim 1", "specific factual claim 2"],
  "temporal_details": {"date": "date as written in the text or empty", "time": "time as written or empty"},
  "tone": "one or two words, e.g. solemn, triumphant, matter-of-fact"
}

Rules:
- Claims must be specific and verifiable statements made by this author about this event.
- If the passage does not describe the event, return an empty claims list.
- Quote dates and times exactly as the text gives them; do not reformat.`

// buildExtractionPrompt renders the user message for one chunk
func buildExtractionPrompt(c chunk.Chunk, event model.Event, docTitle, author string) string {
	return fmt.Sprintf(extractionPromptTemplate,
		event.Name, event.ID, docTitle, author, strings.TrimSpace(c.Text), event.ID, author)
}
