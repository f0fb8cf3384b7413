// Package judge compares Lincoln's first-person accounts against other
// authors' accounts of the same events and scores their consistency.
package judge

import (
	"strings"

	"github.com/jrswathi1999/Lincoln-historical-divergence/internal/model"
)

// GroupByEvent buckets extractions by event ID
func GroupByEvent(extractions []model.EventExtraction) map[string][]model.EventExtraction {
	grouped := make(map[string][]model.EventExtraction)
	for _, e := range extractions {
		if e.Event == "" {
			continue
		}
		grouped[e.Event] = append(grouped[e.Event], e)
	}
	return grouped
}

// SplitLincoln separates Lincoln's own accounts from everyone else's
func SplitLincoln(extractions []model.EventExtraction) (lincoln, others []model.EventExtraction) {
	for _, e := range extractions {
		if strings.Contains(strings.ToLower(e.Author), "lincoln") {
			lincoln = append(lincoln, e)
		} else {
			others = append(others, e)
		}
	}
	return lincoln, others
}

// BuildPairs creates the full Lincoln x other cross product per event,
// restricted to extractions that actually carry claims. Events are the
// authority for display names; unknown event IDs keep their raw ID.
func BuildPairs(extractions []model.EventExtraction, events []model.Event) []model.ComparisonPair {
	var pairs []model.ComparisonPair

	for _, event := range events {
		grouped := GroupByEvent(extractions)[event.ID]
		if len(grouped) == 0 {
			continue
		}

		lincoln, others := SplitLincoln(grouped)
		for _, le := range lincoln {
			if !le.HasClaims() {
				continue
			}
			for _, oe := range others {
				if !oe.HasClaims() {
					continue
				}
				pairs = append(pairs, model.ComparisonPair{
					EventID:           event.ID,
					EventName:         event.Name,
					LincolnExtraction: le,
					OtherExtraction:   oe,
					LincolnAuthor:     le.Author,
					OtherAuthor:       oe.Author,
					LincolnSource:     le.SourceDocument,
					OtherSource:       oe.SourceDocument,
				})
			}
		}
	}

	return pairs
}
