// Package report renders the final Markdown report and its charts from the
// judged comparisons and the validation experiment results.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jrswathi1999/Lincoln-historical-divergence/internal/experiment"
	"github.com/jrswathi1999/Lincoln-historical-divergence/internal/model"
	"github.com/jrswathi1999/Lincoln-historical-divergence/internal/stats"
)

// Input bundles everything the report draws on. Experiment results may be
// nil when an experiment has not been run.
type Input struct {
	Results     []model.JudgeResult
	Metrics     stats.ConsistencyMetrics
	Experiment1 *experiment.PromptRobustnessResult
	Experiment2 *experiment.SelfConsistencyResult
	Experiment3 *experiment.InterRaterResult
	Charts      ChartSet
	ModelName   string
}

// WriteMarkdown renders the report to path, creating parent directories
func WriteMarkdown(in Input, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create reports dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(Render(in, filepath.Dir(path))), 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// Render produces the full Markdown document. reportDir is the directory
// the report will live in, used to relativize chart links.
func Render(in Input, reportDir string) string {
	var b strings.Builder

	b.WriteString("# Historiographical Divergence Analysis: Lincoln Project\n\n")
	b.WriteString("---\n\n")

	writeExecutiveSummary(&b, in)
	writeMethodology(&b, in)
	writeStatistics(&b, in, reportDir)
	writeExperiments(&b, in)
	writeEventFindings(&b, in, reportDir)
	writeErrorAnalysis(&b, in)

	return b.String()
}

func writeExecutiveSummary(b *strings.Builder, in Input) {
	b.WriteString("## Executive Summary\n\n")
	fmt.Fprintf(b, "This report compares Abraham Lincoln's accounts of historical events with those of other authors. The system analyzed **%d comparison pairs** across 5 key historical events.\n\n",
		in.Metrics.TotalComparisons)

	b.WriteString("**Key Findings:**\n\n")
	fmt.Fprintf(b, "- Average consistency score: **%.2f/100**\n", in.Metrics.AverageConsistency)
	fmt.Fprintf(b, "- Standard deviation: **%.2f**\n", in.Metrics.ScoreStatistics.StdDev)

	if t, count := mostCommonType(in.Metrics.ContradictionDistribution); t != "" {
		fmt.Fprintf(b, "- Most common contradiction type: **%s** (%d cases)\n", t, count)
	}
	if in.Experiment3 != nil {
		fmt.Fprintf(b, "- Human alignment: Cohen's Kappa **%.3f**, mean absolute difference **%.1f points**\n",
			in.Experiment3.CohensKappa, in.Experiment3.MeanAbsDiff)
	}

	b.WriteString("\n---\n\n")
}

func writeMethodology(b *strings.Builder, in Input) {
	modelName := in.ModelName
	if modelName == "" {
		modelName = "gpt-4o-mini"
	}

	b.WriteString("## Methodology\n\n")
	b.WriteString("The pipeline has three stages:\n\n")
	b.WriteString("1. **Acquisition & Normalization**: documents scraped from Project Gutenberg and the Library of Congress, normalized into a common JSON schema.\n")
	b.WriteString("2. **Event Extraction**: an LLM extracts structured claims about 5 key events from keyword-relevant chunks of each document.\n")
	b.WriteString("3. **Judging & Validation**: a second LLM pass compares Lincoln's accounts with other authors' accounts and is itself validated statistically.\n\n")

	fmt.Fprintf(b, "The judge uses %s with JSON-mode structured outputs at temperature 0.3. For each pair it assigns a consistency score (0-100), classifies any contradiction as Factual, Interpretive, Omission, or None, and explains its reasoning.\n\n", modelName)
	b.WriteString("---\n\n")
}

func writeStatistics(b *strings.Builder, in Input, reportDir string) {
	b.WriteString("## Statistical Results\n\n")
	b.WriteString("### Overall Statistics\n\n")

	st := in.Metrics.ScoreStatistics
	fmt.Fprintf(b, "- **Total Comparisons**: %d\n", in.Metrics.TotalComparisons)
	fmt.Fprintf(b, "- **Mean Consistency Score**: %.2f\n", st.Mean)
	fmt.Fprintf(b, "- **Standard Deviation**: %.2f\n", st.StdDev)
	fmt.Fprintf(b, "- **Variance**: %.2f\n", st.Variance)
	fmt.Fprintf(b, "- **Score Range**: %s\n\n", in.Metrics.ConsistencyRange)

	b.WriteString("### Contradiction Type Distribution\n\n")
	total := 0
	for _, count := range in.Metrics.ContradictionDistribution {
		total += count
	}
	for _, t := range sortedByCount(in.Metrics.ContradictionDistribution) {
		count := in.Metrics.ContradictionDistribution[t]
		fmt.Fprintf(b, "- **%s**: %d (%.1f%%)\n", t, count, percentage(count, total))
	}
	b.WriteString("\n")
	writeChartLink(b, in.Charts, "contradiction_types", "Contradiction Types", reportDir)

	if len(in.Results) > 0 {
		writeScoreDistribution(b, in.Results)
		writeChartLink(b, in.Charts, "score_distribution", "Score Distribution", reportDir)
	}

	b.WriteString("---\n\n")
}

// writeScoreDistribution renders the four-band text histogram
func writeScoreDistribution(b *strings.Builder, results []model.JudgeResult) {
	bands := []struct {
		name     string
		min, max int
	}{
		{"High (75-100)", 75, 100},
		{"Medium-High (50-74)", 50, 74},
		{"Medium-Low (25-49)", 25, 49},
		{"Low (0-24)", 0, 24},
	}

	b.WriteString("### Consistency Score Distribution\n\n")
	for _, band := range bands {
		count := 0
		for _, r := range results {
			if r.ConsistencyScore >= band.min && r.ConsistencyScore <= band.max {
				count++
			}
		}
		pct := percentage(count, len(results))
		bar := strings.Repeat("█", int(pct/2))
		fmt.Fprintf(b, "- **%s**: %d (%.1f%%) %s\n", band.name, count, pct, bar)
	}
	b.WriteString("\n")
}

func writeExperiments(b *strings.Builder, in Input) {
	b.WriteString("## Statistical Validation Experiments\n\n")

	completed := 0
	for _, done := range []bool{in.Experiment1 != nil, in.Experiment2 != nil, in.Experiment3 != nil} {
		if done {
			completed++
		}
	}
	if completed == 0 {
		b.WriteString("> Validation experiments have not been run yet. Run the `validate` stage to complete them. Experiment 3 requires manual labeling; a template is created at `manual_labels.json` on first run.\n\n---\n\n")
		return
	}
	fmt.Fprintf(b, "> **Status**: %d/3 experiments completed\n\n", completed)

	if exp := in.Experiment1; exp != nil {
		b.WriteString("### Experiment 1: Prompt Robustness (Ablation Study)\n\n")
		b.WriteString("**Objective**: Compare three prompt strategies to determine which yields more stable results.\n\n")
		b.WriteString("| Strategy | Mean Score | Std Dev | Stability Rank |\n")
		b.WriteString("|----------|------------|---------|----------------|\n")
		for rank, entry := range exp.StabilityRanking {
			st := exp.StatisticsByStrategy[entry.Strategy]
			fmt.Fprintf(b, "| %s | %.2f | %.2f | #%d |\n", strategyTitle(string(entry.Strategy)), st.Mean, st.StdDev, rank+1)
		}
		fmt.Fprintf(b, "\n**Conclusion**: The **%s** strategy showed the most stable results (lowest standard deviation).\n\n",
			strategyTitle(string(exp.MostStable)))
	}

	if exp := in.Experiment2; exp != nil {
		b.WriteString("### Experiment 2: Self-Consistency (Reliability)\n\n")
		fmt.Fprintf(b, "**Methods**: Each comparison pair was evaluated %d times with temperature=%.1f.\n\n",
			exp.NumRunsPerPair, exp.Temperature)
		o := exp.OverallStatistics
		fmt.Fprintf(b, "- Mean Standard Deviation: **%.2f**\n", o.MeanStdDev)
		fmt.Fprintf(b, "- Mean Range: **%.2f**\n", o.MeanRange)
		fmt.Fprintf(b, "- Judge Reliability: **%s**\n\n", strings.ToUpper(o.JudgeReliability))
	}

	if exp := in.Experiment3; exp != nil {
		b.WriteString("### Experiment 3: Inter-Rater Agreement (Cohen's Kappa)\n\n")
		fmt.Fprintf(b, "- **Cohen's Kappa**: %.3f (categorical agreement over quartile bins)\n", exp.CohensKappa)
		fmt.Fprintf(b, "- **Mean Absolute Difference**: %.1f points (numeric agreement)\n", exp.MeanAbsDiff)
		fmt.Fprintf(b, "- **Correlation**: %.3f\n", exp.Correlation)
		fmt.Fprintf(b, "- **Sample Size**: %d manually labeled pairs\n", exp.SampleSize)
		fmt.Fprintf(b, "- **Human Alignment**: %s\n\n", exp.HumanAlignment)
		b.WriteString("Kappa is computed over four score bins (0-25, 26-50, 51-75, 76-100), so scores near a bin boundary can disagree categorically while being numerically close. The mean absolute difference is the complementary numeric metric.\n\n")
	}

	b.WriteString("---\n\n")
}

func writeEventFindings(b *strings.Builder, in Input, reportDir string) {
	if len(in.Results) == 0 {
		return
	}

	b.WriteString("## Key Findings by Event\n\n")
	writeChartLink(b, in.Charts, "consistency_by_event", "Consistency by Event", reportDir)
	writeQuartileTable(b, in.Results)

	byEvent := make(map[string][]model.JudgeResult)
	for _, r := range in.Results {
		byEvent[r.EventName] = append(byEvent[r.EventName], r)
	}

	names := make([]string, 0, len(byEvent))
	for name := range byEvent {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		eventResults := byEvent[name]
		scores := make([]int, len(eventResults))
		for i, r := range eventResults {
			scores[i] = r.ConsistencyScore
		}
		st := stats.Describe(scores)
		t, _ := mostCommonType(stats.ContradictionDistribution(eventResults))

		fmt.Fprintf(b, "### %s\n\n", name)
		fmt.Fprintf(b, "- **Comparisons**: %d\n", len(eventResults))
		fmt.Fprintf(b, "- **Average Consistency**: %.2f/100\n", st.Mean)
		fmt.Fprintf(b, "- **Most Common Contradiction Type**: %s\n\n", t)
	}

	b.WriteString("---\n\n")
}

// writeQuartileTable stands in for a box plot: per-event quartiles as a table
func writeQuartileTable(b *strings.Builder, results []model.JudgeResult) {
	byEvent := make(map[string][]int)
	for _, r := range results {
		byEvent[r.EventName] = append(byEvent[r.EventName], r.ConsistencyScore)
	}

	names := make([]string, 0, len(byEvent))
	for name := range byEvent {
		names = append(names, name)
	}
	sort.Strings(names)

	b.WriteString("### Score Spread by Event\n\n")
	b.WriteString("| Event | Min | Q1 | Median | Q3 | Max |\n")
	b.WriteString("|-------|-----|----|--------|----|-----|\n")
	for _, name := range names {
		scores := byEvent[name]
		sort.Ints(scores)
		fmt.Fprintf(b, "| %s | %d | %d | %d | %d | %d |\n",
			name, scores[0], quartile(scores, 1), quartile(scores, 2), quartile(scores, 3), scores[len(scores)-1])
	}
	b.WriteString("\n")
}

// quartile returns the q-th quartile (1..3) of sorted scores by the
// nearest-rank method
func quartile(sorted []int, q int) int {
	if len(sorted) == 0 {
		return 0
	}
	idx := q * len(sorted) / 4
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

func writeErrorAnalysis(b *strings.Builder, in Input) {
	if len(in.Results) == 0 {
		return
	}

	var low, high int
	for _, r := range in.Results {
		if r.ConsistencyScore < 30 {
			low++
		}
		if r.ConsistencyScore >= 80 {
			high++
		}
	}

	b.WriteString("## Error Analysis\n\n")
	fmt.Fprintf(b, "### Low Consistency Cases (< 30): %d\n\n", low)
	b.WriteString("Common patterns: significant factual disagreements, missing information in one account, different focus or scope.\n\n")
	fmt.Fprintf(b, "### High Consistency Cases (>= 80): %d\n\n", high)
	b.WriteString("Common patterns: agreement on core facts, similar temporal details, consistent narrative structure.\n")
}

func writeChartLink(b *strings.Builder, charts ChartSet, key, alt, reportDir string) {
	path, ok := charts[key]
	if !ok {
		return
	}
	rel, err := filepath.Rel(reportDir, path)
	if err != nil {
		rel = path
	}
	fmt.Fprintf(b, "![%s](%s)\n\n", alt, filepath.ToSlash(rel))
}

func mostCommonType(dist map[string]int) (string, int) {
	var best string
	bestCount := -1
	for _, t := range sortedByCount(dist) {
		if dist[t] > bestCount {
			best, bestCount = t, dist[t]
		}
	}
	if bestCount < 0 {
		return "", 0
	}
	return best, bestCount
}

// sortedByCount orders type names by descending count, name as tiebreak
func sortedByCount(dist map[string]int) []string {
	names := make([]string, 0, len(dist))
	for name := range dist {
		names = append(names, name)
	}
	sort.Slice(names, func(i, k int) bool {
		if dist[names[i]] != dist[names[k]] {
			return dist[names[i]] > dist[names[k]]
		}
		return names[i] < names[k]
	})
	return names
}

func strategyTitle(s string) string {
	words := strings.Split(s, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func percentage(count, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(count) / float64(total) * 100
}
