package extract

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jrswathi1999/Lincoln-historical-divergence/internal/chunk"
	"github.com/jrswathi1999/Lincoln-historical-divergence/internal/model"
)

// fakeCompleter scripts CompleteJSON responses per call
type fakeCompleter struct {
	mu      sync.Mutex
	calls   int
	prompts []string
	fill    func(call int, out *model.EventExtraction) error
}

func (f *fakeCompleter) CompleteJSON(ctx context.Context, system, user string, temperature float32, out any) error {
	f.mu.Lock()
	f.calls++
	call := f.calls
	f.prompts = append(f.prompts, user)
	f.mu.Unlock()

	extraction, ok := out.(*model.EventExtraction)
	if !ok {
		return errors.New("unexpected output type")
	}
	return f.fill(call, extraction)
}

func testEvent() model.Event {
	return model.Event{
		ID:       "gettysburg_address",
		Name:     "Gettysburg Address",
		Keywords: []string{"gettysburg", "four score"},
	}
}

func testDoc(content string) model.NormalizedDocument {
	return model.NormalizedDocument{
		ID:      "gutenberg_6812",
		Title:   "Speeches and Letters",
		From:    "Abraham Lincoln",
		Content: content,
	}
}

func newTestExtractor(fake *fakeCompleter) *Extractor {
	return &Extractor{
		client:      fake,
		chunker:     chunk.NewChunker(2000, 200),
		workers:     2,
		temperature: 0.3,
	}
}

func TestExtractChunkSetsProvenance(t *testing.T) {
	fake := &fakeCompleter{fill: func(call int, out *model.EventExtraction) error {
		// a confused model answers with the wrong event and author
		out.Event = "something_else"
		out.Author = "Nobody"
		out.Claims = []string{"The speech lasted two minutes."}
		out.Tone = "solemn"
		return nil
	}}

	e := newTestExtractor(fake)
	c := chunk.Chunk{ChunkID: "gutenberg_6812_chunk_0", Text: "Four score and seven years ago"}

	extraction, err := e.ExtractChunk(context.Background(), c, testEvent(), testDoc("x"))
	if err != nil {
		t.Fatalf("ExtractChunk returned error: %v", err)
	}

	if extraction.Event != "gettysburg_address" {
		t.Errorf("event = %q, want gettysburg_address", extraction.Event)
	}
	if extraction.Author != "Abraham Lincoln" {
		t.Errorf("author = %q, want Abraham Lincoln", extraction.Author)
	}
	if extraction.SourceID != "gutenberg_6812" {
		t.Errorf("source id = %q", extraction.SourceID)
	}
	if extraction.ChunkID != "gutenberg_6812_chunk_0" {
		t.Errorf("chunk id = %q", extraction.ChunkID)
	}
	if extraction.SourceDocument != "Speeches and Letters" {
		t.Errorf("source document = %q", extraction.SourceDocument)
	}
}

func TestExtractChunkPromptContents(t *testing.T) {
	fake := &fakeCompleter{fill: func(call int, out *model.EventExtraction) error {
		out.Claims = []string{"claim"}
		return nil
	}}

	e := newTestExtractor(fake)
	c := chunk.Chunk{ChunkID: "c0", Text: "Four score and seven years ago our fathers"}

	if _, err := e.ExtractChunk(context.Background(), c, testEvent(), testDoc("x")); err != nil {
		t.Fatalf("ExtractChunk returned error: %v", err)
	}

	prompt := fake.prompts[0]
	for _, want := range []string{"Gettysburg Address", "gettysburg_address", "Speeches and Letters", "Abraham Lincoln", "Four score and seven years ago"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestExtractDocumentSkipsIrrelevant(t *testing.T) {
	fake := &fakeCompleter{fill: func(call int, out *model.EventExtraction) error {
		t.Error("CompleteJSON called for a document with no relevant chunks")
		return nil
	}}

	e := newTestExtractor(fake)
	doc := testDoc("A passage about tariffs and railroads with no matching words.")

	extractions, err := e.ExtractDocument(context.Background(), doc, testEvent())
	if err != nil {
		t.Fatalf("ExtractDocument returned error: %v", err)
	}
	if extractions != nil {
		t.Errorf("got %d extractions, want none", len(extractions))
	}
}

func TestExtractDocumentDropsClaimlessChunks(t *testing.T) {
	fake := &fakeCompleter{fill: func(call int, out *model.EventExtraction) error {
		if call == 1 {
			out.Claims = []string{"He spoke at Gettysburg."}
		}
		// later calls return no claims
		return nil
	}}

	e := newTestExtractor(fake)
	// two paragraphs large enough to land in separate chunks, both relevant
	para := strings.Repeat("Lincoln at Gettysburg spoke briefly. ", 40)
	doc := testDoc(para + "\n\n" + para)

	extractions, err := e.ExtractDocument(context.Background(), doc, testEvent())
	if err != nil {
		t.Fatalf("ExtractDocument returned error: %v", err)
	}
	if len(extractions) != 1 {
		t.Fatalf("got %d extractions, want 1", len(extractions))
	}
	if extractions[0].Claims[0] != "He spoke at Gettysburg." {
		t.Errorf("claims = %v", extractions[0].Claims)
	}
}

func TestExtractDocumentManyRelevantChunks(t *testing.T) {
	fake := &fakeCompleter{fill: func(call int, out *model.EventExtraction) error {
		out.Claims = []string{"A claim."}
		return nil
	}}

	// 40 relevant one-chunk paragraphs, far more jobs than the pool buffers
	e := newTestExtractor(fake)
	e.chunker = chunk.NewChunker(100, 0)
	paras := make([]string, 40)
	for i := range paras {
		paras[i] = strings.Repeat("Lincoln spoke at Gettysburg. ", 4)
	}
	doc := testDoc(strings.Join(paras, "\n\n"))

	done := make(chan struct{})
	var extractions []model.EventExtraction
	var err error
	go func() {
		extractions, err = e.ExtractDocument(context.Background(), doc, testEvent())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("ExtractDocument wedged on a long chunk list")
	}
	if err != nil {
		t.Fatalf("ExtractDocument returned error: %v", err)
	}
	if len(extractions) != 40 {
		t.Errorf("got %d extractions, want 40", len(extractions))
	}
}

func TestExtractDocumentSurvivesChunkFailures(t *testing.T) {
	fake := &fakeCompleter{fill: func(call int, out *model.EventExtraction) error {
		if call == 1 {
			return errors.New("model unavailable")
		}
		out.Claims = []string{"A surviving claim."}
		return nil
	}}

	e := newTestExtractor(fake)
	para := strings.Repeat("Lincoln at Gettysburg spoke briefly. ", 40)
	doc := testDoc(para + "\n\n" + para)

	extractions, err := e.ExtractDocument(context.Background(), doc, testEvent())
	if err != nil {
		t.Fatalf("ExtractDocument returned error: %v", err)
	}
	if len(extractions) != 1 {
		t.Fatalf("got %d extractions, want 1 surviving", len(extractions))
	}
}
