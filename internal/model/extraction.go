package model

// TemporalDetails holds dates and times mentioned in relation to an event,
// verbatim from the source text
type TemporalDetails struct {
	Date string `json:"date,omitempty"`
	Time string `json:"time,omitempty"`
}

// EventExtraction is the structured record the LLM derives from one chunk
// for one event. SourceID and ChunkID identify the (document, event, chunk)
// triple so a resumed run can skip work already on disk.
type EventExtraction struct {
	Event           string          `json:"event"`
	Author          string          `json:"author"`
	Claims          []string        `json:"claims"`
	TemporalDetails TemporalDetails `json:"temporal_details"`
	Tone            string          `json:"tone,omitempty"`
	SourceDocument  string          `json:"source_document"`
	SourceID        string          `json:"source_id"`
	ChunkID         string          `json:"chunk_id"`
}

// HasClaims reports whether the extraction found anything usable
func (e *EventExtraction) HasClaims() bool {
	return len(e.Claims) > 0
}
