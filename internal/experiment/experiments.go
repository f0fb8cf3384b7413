// Package experiment validates the LLM judge statistically: a prompt
// ablation, a self-consistency check, and an inter-rater agreement
// comparison against manual labels.
package experiment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/google/uuid"

	"github.com/jrswathi1999/Lincoln-historical-divergence/internal/judge"
	"github.com/jrswathi1999/Lincoln-historical-divergence/internal/model"
	"github.com/jrswathi1999/Lincoln-historical-divergence/internal/stats"
)

// Comparer is the judge surface the experiments need
type Comparer interface {
	Compare(ctx context.Context, pair model.ComparisonPair) (*model.JudgeVerdict, error)
}

// JudgeFactory builds a judge with a given prompt strategy and temperature.
// Experiments construct fresh judges so each condition is isolated.
type JudgeFactory func(strategy judge.PromptStrategy, temperature float32) Comparer

// Runner executes the validation experiments and writes their JSON results
type Runner struct {
	factory   JudgeFactory
	outputDir string
	verbose   bool
}

func NewRunner(factory JudgeFactory, outputDir string, verbose bool) *Runner {
	return &Runner{factory: factory, outputDir: outputDir, verbose: verbose}
}

// PairScore is one judged pair under one experimental condition
type PairScore struct {
	PairID            string `json:"pair_id"`
	ConsistencyScore  int    `json:"consistency_score"`
	ContradictionType string `json:"contradiction_type"`
}

// PromptRobustnessResult is experiment 1: how stable are scores across
// prompt framings
type PromptRobustnessResult struct {
	RunID                string                               `json:"run_id"`
	Experiment           string                               `json:"experiment"`
	SampleSize           int                                  `json:"sample_size"`
	StrategiesTested     []judge.PromptStrategy               `json:"strategies_tested"`
	ResultsByStrategy    map[judge.PromptStrategy][]PairScore `json:"results_by_strategy"`
	StatisticsByStrategy map[judge.PromptStrategy]stats.ScoreStats `json:"statistics_by_strategy"`
	StabilityRanking     []StrategyStability                  `json:"stability_ranking"`
	MostStable           judge.PromptStrategy                 `json:"most_stable"`
}

// StrategyStability ranks a strategy by score spread; lower is steadier
type StrategyStability struct {
	Strategy judge.PromptStrategy `json:"strategy"`
	StdDev   float64              `json:"std_dev"`
}

// PromptRobustness judges the same pairs under each prompt strategy at the
// baseline temperature and ranks the strategies by score spread.
func (r *Runner) PromptRobustness(ctx context.Context, pairs []model.ComparisonPair) (*PromptRobustnessResult, error) {
	result := &PromptRobustnessResult{
		RunID:                uuid.NewString(),
		Experiment:           "prompt_robustness",
		SampleSize:           len(pairs),
		StrategiesTested:     judge.Strategies(),
		ResultsByStrategy:    make(map[judge.PromptStrategy][]PairScore),
		StatisticsByStrategy: make(map[judge.PromptStrategy]stats.ScoreStats),
	}

	for _, strategy := range judge.Strategies() {
		if r.verbose {
			fmt.Fprintf(os.Stderr, "[experiment 1] strategy %s\n", strategy)
		}
		j := r.factory(strategy, 0.3)

		var scores []PairScore
		for _, pair := range pairs {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			verdict, err := j.Compare(ctx, pair)
			if err != nil {
				fmt.Fprintf(os.Stderr, "[experiment 1] skipping %s under %s: %v\n", pair.ID(), strategy, err)
				continue
			}
			scores = append(scores, PairScore{
				PairID:            pair.ID(),
				ConsistencyScore:  verdict.ConsistencyScore,
				ContradictionType: string(verdict.ContradictionType.Type),
			})
		}

		result.ResultsByStrategy[strategy] = scores
		result.StatisticsByStrategy[strategy] = stats.Describe(rawScores(scores))
	}

	for strategy, st := range result.StatisticsByStrategy {
		if st.Count == 0 {
			continue
		}
		result.StabilityRanking = append(result.StabilityRanking, StrategyStability{
			Strategy: strategy,
			StdDev:   st.StdDev,
		})
	}
	sort.Slice(result.StabilityRanking, func(i, k int) bool {
		return result.StabilityRanking[i].StdDev < result.StabilityRanking[k].StdDev
	})
	if len(result.StabilityRanking) > 0 {
		result.MostStable = result.StabilityRanking[0].Strategy
	}

	if err := r.save("experiment_1_prompt_robustness.json", result); err != nil {
		return nil, err
	}
	return result, nil
}

// PairConsistency is one pair's repeated-run statistics in experiment 2
type PairConsistency struct {
	PairID    string  `json:"pair_id"`
	EventName string  `json:"event_name"`
	Scores    []int   `json:"scores"`
	Mean      float64 `json:"mean"`
	StdDev    float64 `json:"std_dev"`
	Variance  float64 `json:"variance"`
	Min       int     `json:"min"`
	Max       int     `json:"max"`
	Range     int     `json:"range"`
}

// SelfConsistencyResult is experiment 2: run-to-run reliability at an
// elevated temperature
type SelfConsistencyResult struct {
	RunID             string            `json:"run_id"`
	Experiment        string            `json:"experiment"`
	SampleSize        int               `json:"sample_size"`
	NumRunsPerPair    int               `json:"num_runs_per_pair"`
	Temperature       float32           `json:"temperature"`
	PairResults       []PairConsistency `json:"pair_results"`
	OverallStatistics OverallStats      `json:"overall_statistics"`
}

// OverallStats aggregates the per-pair spreads
type OverallStats struct {
	MeanStdDev       float64 `json:"mean_std_dev"`
	MeanRange        float64 `json:"mean_range"`
	MaxStdDev        float64 `json:"max_std_dev"`
	MinStdDev        float64 `json:"min_std_dev"`
	JudgeReliability string  `json:"judge_reliability"`
}

const selfConsistencyTemperature float32 = 0.7

// SelfConsistency judges each pair numRuns times at temperature 0.7 and
// measures how much the scores move between runs.
func (r *Runner) SelfConsistency(ctx context.Context, pairs []model.ComparisonPair, numRuns int) (*SelfConsistencyResult, error) {
	if numRuns <= 0 {
		numRuns = 5
	}

	result := &SelfConsistencyResult{
		RunID:          uuid.NewString(),
		Experiment:     "self_consistency",
		SampleSize:     len(pairs),
		NumRunsPerPair: numRuns,
		Temperature:    selfConsistencyTemperature,
	}

	j := r.factory(judge.ZeroShot, selfConsistencyTemperature)

	for i, pair := range pairs {
		if r.verbose {
			fmt.Fprintf(os.Stderr, "[experiment 2] pair %d/%d: %s\n", i+1, len(pairs), pair.ID())
		}

		var scores []int
		for run := 0; run < numRuns; run++ {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			verdict, err := j.Compare(ctx, pair)
			if err != nil {
				fmt.Fprintf(os.Stderr, "[experiment 2] run %d of %s failed: %v\n", run+1, pair.ID(), err)
				continue
			}
			scores = append(scores, verdict.ConsistencyScore)
		}
		if len(scores) == 0 {
			continue
		}

		st := stats.Describe(scores)
		result.PairResults = append(result.PairResults, PairConsistency{
			PairID:    pair.ID(),
			EventName: pair.EventName,
			Scores:    scores,
			Mean:      st.Mean,
			StdDev:    st.StdDev,
			Variance:  st.Variance,
			Min:       st.Min,
			Max:       st.Max,
			Range:     st.Max - st.Min,
		})
	}

	result.OverallStatistics = summarizeSpreads(result.PairResults)

	if err := r.save("experiment_2_self_consistency.json", result); err != nil {
		return nil, err
	}
	return result, nil
}

// summarizeSpreads reduces per-pair spreads to the reliability verdict.
// Mean stdev under 5 points is labelled high, under 10 medium, else low.
func summarizeSpreads(pairResults []PairConsistency) OverallStats {
	if len(pairResults) == 0 {
		return OverallStats{JudgeReliability: "low"}
	}

	var sumStd, sumRange float64
	maxStd := pairResults[0].StdDev
	minStd := pairResults[0].StdDev
	for _, pr := range pairResults {
		sumStd += pr.StdDev
		sumRange += float64(pr.Range)
		if pr.StdDev > maxStd {
			maxStd = pr.StdDev
		}
		if pr.StdDev < minStd {
			minStd = pr.StdDev
		}
	}

	meanStd := sumStd / float64(len(pairResults))
	reliability := "low"
	switch {
	case meanStd < 5:
		reliability = "high"
	case meanStd < 10:
		reliability = "medium"
	}

	return OverallStats{
		MeanStdDev:       meanStd,
		MeanRange:        sumRange / float64(len(pairResults)),
		MaxStdDev:        maxStd,
		MinStdDev:        minStd,
		JudgeReliability: reliability,
	}
}

// InterRaterResult is experiment 3: agreement between the judge and a
// human rater over the same pairs
type InterRaterResult struct {
	RunID          string  `json:"run_id"`
	Experiment     string  `json:"experiment"`
	SampleSize     int     `json:"sample_size"`
	CohensKappa    float64 `json:"cohens_kappa"`
	MeanAbsDiff    float64 `json:"mean_absolute_difference"`
	Correlation    float64 `json:"correlation"`
	HumanAlignment string  `json:"human_alignment"`
	ManualRatings  []int   `json:"manual_ratings"`
	LLMPredictions []int   `json:"llm_predictions"`
}

// ErrLabelsMissing signals that a manual label template was created and
// needs filling in before experiment 3 can run
var ErrLabelsMissing = errors.New("manual labels not yet authored")

// InterRaterAgreement compares judge scores against a manually authored
// label file. When the file is absent a template covering the first pairs
// is written and ErrLabelsMissing returned.
func (r *Runner) InterRaterAgreement(ctx context.Context, labelsPath string, pairs []model.ComparisonPair) (*InterRaterResult, error) {
	labels, err := LoadLabels(labelsPath)
	if errors.Is(err, os.ErrNotExist) {
		limit := len(pairs)
		if limit > 10 {
			limit = 10
		}
		if err := WriteLabelTemplate(labelsPath, pairs[:limit]); err != nil {
			return nil, err
		}
		fmt.Fprintf(os.Stderr, "[experiment 3] created label template at %s; fill in scores and rerun\n", labelsPath)
		return nil, ErrLabelsMissing
	}
	if err != nil {
		return nil, err
	}

	byID := make(map[string]model.ComparisonPair, len(pairs))
	for _, pair := range pairs {
		byID[pair.ID()] = pair
	}

	j := r.factory(judge.ZeroShot, 0.3)

	var manual, predicted []int
	for _, label := range labels {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if label.ConsistencyScore == nil {
			continue
		}
		pair, ok := byID[label.PairID]
		if !ok {
			continue
		}

		verdict, err := j.Compare(ctx, pair)
		if err != nil {
			fmt.Fprintf(os.Stderr, "[experiment 3] skipping %s: %v\n", label.PairID, err)
			continue
		}
		manual = append(manual, *label.ConsistencyScore)
		predicted = append(predicted, verdict.ConsistencyScore)
	}

	if len(manual) < 2 {
		return nil, fmt.Errorf("need at least 2 labeled pairs, got %d", len(manual))
	}

	kappa, err := stats.CohensKappa(manual, predicted)
	if err != nil {
		return nil, err
	}
	mad, err := stats.MeanAbsoluteDifference(manual, predicted)
	if err != nil {
		return nil, err
	}
	corr, err := stats.Correlation(manual, predicted)
	if err != nil {
		return nil, err
	}

	result := &InterRaterResult{
		RunID:          uuid.NewString(),
		Experiment:     "inter_rater_agreement",
		SampleSize:     len(manual),
		CohensKappa:    kappa,
		MeanAbsDiff:    mad,
		Correlation:    corr,
		HumanAlignment: alignmentLabel(kappa),
		ManualRatings:  manual,
		LLMPredictions: predicted,
	}

	if err := r.save("experiment_3_inter_rater_agreement.json", result); err != nil {
		return nil, err
	}
	return result, nil
}

// alignmentLabel maps kappa to the conventional agreement bands
func alignmentLabel(kappa float64) string {
	switch {
	case kappa > 0.75:
		return "excellent"
	case kappa > 0.6:
		return "good"
	case kappa > 0.4:
		return "moderate"
	default:
		return "poor"
	}
}

func rawScores(scores []PairScore) []int {
	raw := make([]int, len(scores))
	for i, s := range scores {
		raw[i] = s.ConsistencyScore
	}
	return raw
}

// save writes an experiment result under the output directory
func (r *Runner) save(filename string, v any) error {
	if err := os.MkdirAll(r.outputDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", filename, err)
	}

	path := filepath.Join(r.outputDir, filename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
