// Package extract runs the LLM extraction pass: each document is chunked,
// filtered for event relevance by keyword, and every relevant chunk is sent
// to the model for structured claim extraction.
package extract

import (
	"context"
	"fmt"
	"os"

	"github.com/jrswathi1999/Lincoln-historical-divergence/internal/chunk"
	"github.com/jrswathi1999/Lincoln-historical-divergence/internal/llm"
	"github.com/jrswathi1999/Lincoln-historical-divergence/internal/model"
	"github.com/jrswathi1999/Lincoln-historical-divergence/internal/worker"
)

// completer is the slice of the LLM client the extractor needs
type completer interface {
	CompleteJSON(ctx context.Context, system, user string, temperature float32, out any) error
}

// Extractor turns documents into per-event claim extractions
type Extractor struct {
	client      completer
	chunker     *chunk.Chunker
	workers     int
	temperature float32
	verbose     bool
}

func NewExtractor(client *llm.Client, chunker *chunk.Chunker, workers int, temperature float32, verbose bool) *Extractor {
	if workers <= 0 {
		workers = 3
	}
	return &Extractor{
		client:      client,
		chunker:     chunker,
		workers:     workers,
		temperature: temperature,
		verbose:     verbose,
	}
}

// ExtractChunk runs one LLM call for one chunk and one event. The model's
// event and author fields are overwritten with the known values so a
// confused completion cannot mislabel the record.
func (e *Extractor) ExtractChunk(ctx context.Context, c chunk.Chunk, event model.Event, doc model.NormalizedDocument) (*model.EventExtraction, error) {
	author := doc.From
	if author == "" {
		author = "Unknown"
	}

	prompt := buildExtractionPrompt(c, event, doc.Title, author)

	var extraction model.EventExtraction
	if err := e.client.CompleteJSON(ctx, extractionSystemPrompt, prompt, e.temperature, &extraction); err != nil {
		return nil, fmt.Errorf("extract %s/%s: %w", doc.ID, event.ID, err)
	}

	extraction.Event = event.ID
	extraction.Author = author
	extraction.SourceDocument = doc.Title
	extraction.SourceID = doc.ID
	extraction.ChunkID = c.ChunkID

	return &extraction, nil
}

// extractJob is one chunk's worth of work for the pool
type extractJob struct {
	extractor *Extractor
	chunk     chunk.Chunk
	event     model.Event
	doc       model.NormalizedDocument
}

// extractResult implements worker.Result
type extractResult struct {
	extraction *model.EventExtraction
	err        error
}

func (r *extractResult) GetError() error { return r.err }

func (j *extractJob) Execute(ctx context.Context) worker.Result {
	extraction, err := j.extractor.ExtractChunk(ctx, j.chunk, j.event, j.doc)
	return &extractResult{extraction: extraction, err: err}
}

// ExtractDocument chunks one document, keeps the chunks relevant to the
// event, and extracts from each in parallel. Only extractions that carry
// claims are returned; failed chunks are logged and skipped.
func (e *Extractor) ExtractDocument(ctx context.Context, doc model.NormalizedDocument, event model.Event) ([]model.EventExtraction, error) {
	chunks := e.chunker.Split(doc.Content, doc.ID)
	relevant := e.chunker.FindRelevant(chunks, event.Keywords)
	if len(relevant) == 0 {
		return nil, nil
	}

	if e.verbose {
		fmt.Fprintf(os.Stderr, "[extract] %s / %s: %d relevant of %d chunks\n",
			doc.ID, event.ID, len(relevant), len(chunks))
	}

	pool := worker.NewPool(e.workers)
	pool.Start()

	// propagate cancellation into the pool so blocked submits unwind
	watchDone := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			pool.Shutdown()
		case <-watchDone:
		}
	}()

	for _, c := range relevant {
		if ctx.Err() != nil {
			break
		}
		pool.Submit(&extractJob{extractor: e, chunk: c, event: event, doc: doc})
	}

	var extractions []model.EventExtraction
	var failed int
	results := pool.Wait()
	close(watchDone)
	for _, result := range results {
		r := result.(*extractResult)
		if r.err != nil {
			failed++
			continue
		}
		if r.extraction.HasClaims() {
			extractions = append(extractions, *r.extraction)
		}
	}

	if failed > 0 {
		fmt.Fprintf(os.Stderr, "[extract] %s / %s: %d of %d chunks failed\n",
			doc.ID, event.ID, failed, len(relevant))
	}
	if err := ctx.Err(); err != nil {
		return extractions, err
	}
	return extractions, nil
}
