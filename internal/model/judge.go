package model

// ContradictionType is the closed set of contradiction classes the judge
// may assign
type ContradictionType string

const (
	ContradictionFactual      ContradictionType = "Factual"
	ContradictionInterpretive ContradictionType = "Interpretive"
	ContradictionOmission     ContradictionType = "Omission"
	ContradictionNone         ContradictionType = "None"
)

// ContradictionTypes lists every class in report order
func ContradictionTypes() []ContradictionType {
	return []ContradictionType{
		ContradictionFactual,
		ContradictionInterpretive,
		ContradictionOmission,
		ContradictionNone,
	}
}

// ContradictionClassification pairs a contradiction class with the judge's
// explanation for it
type ContradictionClassification struct {
	Type        ContradictionType `json:"type"`
	Explanation string            `json:"explanation"`
}

// ComparisonPair joins one Lincoln extraction with one other-author
// extraction for the same event. Pairs are ephemeral; only the judged
// result is persisted.
type ComparisonPair struct {
	EventID           string          `json:"event_id"`
	EventName         string          `json:"event_name"`
	LincolnExtraction EventExtraction `json:"lincoln_extraction"`
	OtherExtraction   EventExtraction `json:"other_extraction"`
	LincolnAuthor     string          `json:"lincoln_author"`
	OtherAuthor       string          `json:"other_author"`
	LincolnSource     string          `json:"lincoln_source"`
	OtherSource       string          `json:"other_source"`
}

// ID is a stable identifier used to match pairs across experiment runs and
// manual label files
func (p *ComparisonPair) ID() string {
	return p.EventID + "_" + p.LincolnAuthor + "_" + p.OtherAuthor
}

// JudgeVerdict is the structured output of a single judge call
type JudgeVerdict struct {
	ConsistencyScore  int                         `json:"consistency_score"`
	ContradictionType ContradictionClassification `json:"contradiction_type"`
	Reasoning         string                      `json:"reasoning"`
	KeyDifferences    []string                    `json:"key_differences"`
	KeySimilarities   []string                    `json:"key_similarities"`
}

// JudgeResult is the persisted form of a verdict, carrying the pair's
// provenance alongside the verdict itself
type JudgeResult struct {
	EventID           string                      `json:"event_id"`
	EventName         string                      `json:"event_name"`
	LincolnAuthor     string                      `json:"lincoln_author"`
	OtherAuthor       string                      `json:"other_author"`
	LincolnSource     string                      `json:"lincoln_source"`
	OtherSource       string                      `json:"other_source"`
	ConsistencyScore  int                         `json:"consistency_score"`
	ContradictionType ContradictionClassification `json:"contradiction_type"`
	Reasoning         string                      `json:"reasoning"`
	KeyDifferences    []string                    `json:"key_differences"`
	KeySimilarities   []string                    `json:"key_similarities"`
}
