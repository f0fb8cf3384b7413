package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jrswathi1999/Lincoln-historical-divergence/internal/experiment"
	"github.com/jrswathi1999/Lincoln-historical-divergence/internal/judge"
	"github.com/jrswathi1999/Lincoln-historical-divergence/internal/llm"
	"github.com/jrswathi1999/Lincoln-historical-divergence/internal/model"
	"github.com/jrswathi1999/Lincoln-historical-divergence/internal/report"
	"github.com/jrswathi1999/Lincoln-historical-divergence/internal/stats"
)

// Judge builds comparison pairs from the extractions, scores each with the
// LLM judge, and writes both the raw results and the aggregate validation
// metrics.
func Judge(ctx context.Context, cfg *model.Config, store *Store, verbose bool) error {
	extractions, err := store.LoadExtractions()
	if err != nil {
		return err
	}
	if len(extractions) == 0 {
		return fmt.Errorf("no extractions found in %s (run extract first)", store.Path(ExtractionsFile))
	}

	pairs := judge.BuildPairs(extractions, cfg.Events)
	if len(pairs) == 0 {
		return fmt.Errorf("no comparison pairs: need claims from both Lincoln and other authors for at least one event")
	}
	fmt.Fprintf(os.Stderr, "Judging %d comparison pairs\n", len(pairs))

	client, err := llm.NewClient(llm.ConfigFromModel(cfg.LLM, cfg.HTTP))
	if err != nil {
		return err
	}

	j := judge.NewJudge(client, judge.WithTemperature(cfg.LLM.Temperature), judge.WithVerbose(verbose))
	results, judgeErr := j.CompareAll(ctx, pairs)

	// persist whatever completed, even on interrupt
	if len(results) > 0 {
		if err := store.SaveJudgeResults(results); err != nil {
			return errors.Join(judgeErr, err)
		}
		if err := store.SaveValidation(stats.Consistency(results)); err != nil {
			return errors.Join(judgeErr, err)
		}
		fmt.Fprintf(os.Stderr, "Saved %d judge results to %s\n", len(results), store.Path(JudgeResultsFile))
	}

	return judgeErr
}

// Validate runs the three judge-validation experiments over a sample of
// the comparison pairs.
func Validate(ctx context.Context, cfg *model.Config, store *Store, sampleSize int, verbose bool) error {
	extractions, err := store.LoadExtractions()
	if err != nil {
		return err
	}

	pairs := judge.BuildPairs(extractions, cfg.Events)
	if len(pairs) == 0 {
		return fmt.Errorf("no comparison pairs available (run extract first)")
	}
	if sampleSize > 0 && len(pairs) > sampleSize {
		pairs = pairs[:sampleSize]
	}
	fmt.Fprintf(os.Stderr, "Validating judge on %d sample pairs\n", len(pairs))

	client, err := llm.NewClient(llm.ConfigFromModel(cfg.LLM, cfg.HTTP))
	if err != nil {
		return err
	}

	factory := func(strategy judge.PromptStrategy, temperature float32) experiment.Comparer {
		return judge.NewJudge(client, judge.WithStrategy(strategy), judge.WithTemperature(temperature), judge.WithVerbose(verbose))
	}
	runner := experiment.NewRunner(factory, store.Path(ExperimentsDir), verbose)

	if _, err := runner.PromptRobustness(ctx, pairs); err != nil {
		return fmt.Errorf("experiment 1: %w", err)
	}
	if _, err := runner.SelfConsistency(ctx, pairs, 5); err != nil {
		return fmt.Errorf("experiment 2: %w", err)
	}

	_, err = runner.InterRaterAgreement(ctx, store.Path(ManualLabelsFile), pairs)
	if errors.Is(err, experiment.ErrLabelsMissing) {
		// the template was created; the rater fills it in and reruns
		return nil
	}
	if err != nil {
		return fmt.Errorf("experiment 3: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Experiment results saved under %s\n", store.Path(ExperimentsDir))
	return nil
}

// Report renders the final Markdown report and charts from everything on
// disk. Experiments that have not been run are noted in the report rather
// than failing it.
func Report(cfg *model.Config, store *Store) error {
	results, err := store.LoadJudgeResults()
	if err != nil {
		return err
	}
	metrics, err := store.LoadValidation()
	if err != nil {
		metrics = stats.Consistency(results)
	}

	exp1, _ := LoadExperiment[experiment.PromptRobustnessResult](store, "experiment_1_prompt_robustness.json")
	exp2, _ := LoadExperiment[experiment.SelfConsistencyResult](store, "experiment_2_self_consistency.json")
	exp3, _ := LoadExperiment[experiment.InterRaterResult](store, "experiment_3_inter_rater_agreement.json")

	reportsDir := store.Path(ReportsDir)

	var charts report.ChartSet
	if cfg.Output.Charts {
		charts, err = report.RenderCharts(results, filepath.Join(reportsDir, "charts"))
		if err != nil {
			return err
		}
	}

	in := report.Input{
		Results:     results,
		Metrics:     metrics,
		Experiment1: exp1,
		Experiment2: exp2,
		Experiment3: exp3,
		Charts:      charts,
		ModelName:   cfg.LLM.Model,
	}

	path := filepath.Join(reportsDir, "FINAL_REPORT.md")
	if err := report.WriteMarkdown(in, path); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Report written to %s\n", path)
	return nil
}
