// Package pipeline wires the stages together: each stage reads the prior
// stage's JSON artifacts from the data directory and writes its own.
package pipeline

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jrswathi1999/Lincoln-historical-divergence/internal/model"
	"github.com/jrswathi1999/Lincoln-historical-divergence/internal/stats"
)

// Artifact file names under the data directory
const (
	GutenbergDatasetFile = "gutenberg_dataset.json"
	LoCDatasetFile       = "loc_dataset.json"
	ExtractionsFile      = "event_extractions.json"
	JudgeResultsFile     = "judge_comparisons.json"
	ValidationFile       = "statistical_validation.json"
	ManualLabelsFile     = "manual_labels.json"
	ExperimentsDir       = "validation_experiments"
	ReportsDir           = "reports"
)

// Store reads and writes the pipeline's JSON artifacts. Writes go through
// a temp file and rename so an interrupted run never leaves a truncated
// artifact behind.
type Store struct {
	dataDir string
}

func NewStore(dataDir string) *Store {
	return &Store{dataDir: dataDir}
}

func (s *Store) DataDir() string { return s.dataDir }

// Path resolves an artifact name inside the data directory
func (s *Store) Path(name string) string {
	return filepath.Join(s.dataDir, name)
}

func (s *Store) writeJSON(name string, v any) error {
	if err := os.MkdirAll(s.dataDir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", name, err)
	}

	path := s.Path(name)
	tmp, err := os.CreateTemp(s.dataDir, name+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close %s: %w", name, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("rename %s: %w", name, err)
	}
	return nil
}

func (s *Store) readJSON(name string, v any) error {
	data, err := os.ReadFile(s.Path(name))
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	return nil
}

// SaveDocuments writes a normalized dataset (Gutenberg or LoC)
func (s *Store) SaveDocuments(name string, docs []model.NormalizedDocument) error {
	return s.writeJSON(name, docs)
}

// LoadDocuments reads one normalized dataset; a missing file is an error
// since later stages cannot run without it
func (s *Store) LoadDocuments(name string) ([]model.NormalizedDocument, error) {
	var docs []model.NormalizedDocument
	if err := s.readJSON(name, &docs); err != nil {
		return nil, fmt.Errorf("load %s (run acquire first?): %w", name, err)
	}
	return docs, nil
}

// LoadAllDocuments concatenates both datasets in acquisition order
func (s *Store) LoadAllDocuments() ([]model.NormalizedDocument, error) {
	books, err := s.LoadDocuments(GutenbergDatasetFile)
	if err != nil {
		return nil, err
	}
	manuscripts, err := s.LoadDocuments(LoCDatasetFile)
	if err != nil {
		return nil, err
	}
	return append(books, manuscripts...), nil
}

func (s *Store) SaveExtractions(extractions []model.EventExtraction) error {
	return s.writeJSON(ExtractionsFile, extractions)
}

// LoadExtractions reads prior extractions; a missing file means a fresh
// run and returns an empty slice
func (s *Store) LoadExtractions() ([]model.EventExtraction, error) {
	var extractions []model.EventExtraction
	err := s.readJSON(ExtractionsFile, &extractions)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load extractions: %w", err)
	}
	return extractions, nil
}

func (s *Store) SaveJudgeResults(results []model.JudgeResult) error {
	return s.writeJSON(JudgeResultsFile, results)
}

func (s *Store) LoadJudgeResults() ([]model.JudgeResult, error) {
	var results []model.JudgeResult
	if err := s.readJSON(JudgeResultsFile, &results); err != nil {
		return nil, fmt.Errorf("load judge results (run judge first?): %w", err)
	}
	return results, nil
}

func (s *Store) SaveValidation(metrics stats.ConsistencyMetrics) error {
	return s.writeJSON(ValidationFile, metrics)
}

func (s *Store) LoadValidation() (stats.ConsistencyMetrics, error) {
	var metrics stats.ConsistencyMetrics
	if err := s.readJSON(ValidationFile, &metrics); err != nil {
		return metrics, fmt.Errorf("load validation metrics: %w", err)
	}
	return metrics, nil
}

// LoadExperiment reads one experiment result file if present; ok=false
// when the experiment has not been run
func LoadExperiment[T any](s *Store, filename string) (*T, bool) {
	var result T
	err := s.readJSON(filepath.Join(ExperimentsDir, filename), &result)
	if err != nil {
		return nil, false
	}
	return &result, true
}
