package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/jrswathi1999/Lincoln-historical-divergence/internal/chunk"
	"github.com/jrswathi1999/Lincoln-historical-divergence/internal/extract"
	"github.com/jrswathi1999/Lincoln-historical-divergence/internal/llm"
	"github.com/jrswathi1999/Lincoln-historical-divergence/internal/model"
)

// docEventKey identifies one (document, event) unit of extraction work
type docEventKey struct {
	sourceID string
	eventID  string
}

// completedPairs builds the resume skip set from prior extractions
func completedPairs(extractions []model.EventExtraction) map[docEventKey]bool {
	done := make(map[docEventKey]bool, len(extractions))
	for _, e := range extractions {
		if e.SourceID == "" {
			// records from before source tracking cannot be resumed against
			continue
		}
		done[docEventKey{sourceID: e.SourceID, eventID: e.Event}] = true
	}
	return done
}

// Extract runs the extraction stage over every (document, event) pair,
// skipping pairs already present in the output file so an interrupted run
// picks up where it left off. Results are flushed to disk after each
// document.
func Extract(ctx context.Context, cfg *model.Config, store *Store, verbose bool) error {
	docs, err := store.LoadAllDocuments()
	if err != nil {
		return err
	}

	extractions, err := store.LoadExtractions()
	if err != nil {
		return err
	}
	done := completedPairs(extractions)
	if len(done) > 0 {
		fmt.Fprintf(os.Stderr, "Resuming: %d (document, event) pairs already extracted\n", len(done))
	}

	client, err := llm.NewClient(llm.ConfigFromModel(cfg.LLM, cfg.HTTP))
	if err != nil {
		return err
	}

	chunker := chunk.NewChunker(cfg.Chunking.ChunkSize, cfg.Chunking.Overlap)
	extractor := extract.NewExtractor(client, chunker, cfg.Concurrency.ExtractionWorkers, cfg.LLM.Temperature, verbose)

	fmt.Fprintf(os.Stderr, "Extracting %d events from %d documents\n", len(cfg.Events), len(docs))

	for _, doc := range docs {
		for _, event := range cfg.Events {
			if done[docEventKey{sourceID: doc.ID, eventID: event.ID}] {
				if verbose {
					fmt.Fprintf(os.Stderr, "[extract] skipping %s / %s (already done)\n", doc.ID, event.ID)
				}
				continue
			}

			results, err := extractor.ExtractDocument(ctx, doc, event)
			extractions = append(extractions, results...)

			if err != nil {
				// flush what we have before surfacing the interrupt
				if saveErr := store.SaveExtractions(extractions); saveErr != nil {
					return errors.Join(err, saveErr)
				}
				return err
			}
		}

		// flush per document so progress survives a crash
		if err := store.SaveExtractions(extractions); err != nil {
			return err
		}
	}

	fmt.Fprintf(os.Stderr, "Saved %d extractions to %s\n", len(extractions), store.Path(ExtractionsFile))
	return nil
}
