package experiment

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jrswathi1999/Lincoln-historical-divergence/internal/model"
)

// ManualLabel is one human-rated pair. ConsistencyScore and Category are
// nil/empty in a fresh template; the rater fills them in.
type ManualLabel struct {
	PairID           string   `json:"pair_id"`
	EventName        string   `json:"event_name"`
	LincolnAuthor    string   `json:"lincoln_author"`
	OtherAuthor      string   `json:"other_author"`
	LincolnClaims    []string `json:"lincoln_claims"`
	OtherClaims      []string `json:"other_claims"`
	ConsistencyScore *int     `json:"consistency_score"`
	Category         string   `json:"category"`
	Notes            string   `json:"notes"`
}

// LoadLabels reads a manual label file. A missing file surfaces as
// os.ErrNotExist so callers can offer a template instead.
func LoadLabels(path string) ([]ManualLabel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read labels: %w", err)
	}

	var labels []ManualLabel
	if err := json.Unmarshal(data, &labels); err != nil {
		return nil, fmt.Errorf("parse labels %s: %w", path, err)
	}
	return labels, nil
}

// WriteLabelTemplate writes an unlabeled template for the given pairs,
// showing the first three claims on each side as rating context.
func WriteLabelTemplate(path string, pairs []model.ComparisonPair) error {
	entries := make([]ManualLabel, 0, len(pairs))
	for _, pair := range pairs {
		entries = append(entries, ManualLabel{
			PairID:        pair.ID(),
			EventName:     pair.EventName,
			LincolnAuthor: pair.LincolnAuthor,
			OtherAuthor:   pair.OtherAuthor,
			LincolnClaims: firstN(pair.LincolnExtraction.Claims, 3),
			OtherClaims:   firstN(pair.OtherExtraction.Claims, 3),
		})
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create labels dir: %w", err)
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal label template: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write label template: %w", err)
	}
	return nil
}

func firstN(items []string, n int) []string {
	if len(items) <= n {
		return items
	}
	return items[:n]
}
