package report

import (
	"strings"
	"testing"

	"github.com/jrswathi1999/Lincoln-historical-divergence/internal/experiment"
	"github.com/jrswathi1999/Lincoln-historical-divergence/internal/judge"
	"github.com/jrswathi1999/Lincoln-historical-divergence/internal/model"
	"github.com/jrswathi1999/Lincoln-historical-divergence/internal/stats"
)

func sampleResults() []model.JudgeResult {
	mk := func(event string, score int, ct model.ContradictionType) model.JudgeResult {
		return model.JudgeResult{
			EventID:           strings.ToLower(strings.ReplaceAll(event, " ", "_")),
			EventName:         event,
			LincolnAuthor:     "Abraham Lincoln",
			OtherAuthor:       "Francis F. Browne",
			ConsistencyScore:  score,
			ContradictionType: model.ContradictionClassification{Type: ct},
		}
	}
	return []model.JudgeResult{
		mk("Gettysburg Address", 90, model.ContradictionNone),
		mk("Gettysburg Address", 82, model.ContradictionOmission),
		mk("Fort Sumter Decision", 45, model.ContradictionFactual),
		mk("Fort Sumter Decision", 20, model.ContradictionFactual),
	}
}

func sampleInput() Input {
	results := sampleResults()
	return Input{
		Results: results,
		Metrics: stats.Consistency(results),
	}
}

func TestRenderCoreSections(t *testing.T) {
	out := Render(sampleInput(), "reports")

	for _, want := range []string{
		"# Historiographical Divergence Analysis",
		"## Executive Summary",
		"**4 comparison pairs**",
		"## Methodology",
		"## Statistical Results",
		"- **Total Comparisons**: 4",
		"### Contradiction Type Distribution",
		"- **Factual**: 2 (50.0%)",
		"### Consistency Score Distribution",
		"## Key Findings by Event",
		"### Gettysburg Address",
		"### Fort Sumter Decision",
		"## Error Analysis",
		"### Low Consistency Cases (< 30): 1",
		"### High Consistency Cases (>= 80): 2",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q", want)
		}
	}
}

func TestRenderScoreBands(t *testing.T) {
	out := Render(sampleInput(), "reports")

	if !strings.Contains(out, "- **High (75-100)**: 2 (50.0%) ") {
		t.Error("high band miscounted")
	}
	if !strings.Contains(out, "- **Low (0-24)**: 1 (25.0%) ") {
		t.Error("low band miscounted")
	}
	if !strings.Contains(out, "█") {
		t.Error("distribution bars missing")
	}
}

func TestRenderWithoutExperiments(t *testing.T) {
	out := Render(sampleInput(), "reports")
	if !strings.Contains(out, "Validation experiments have not been run yet") {
		t.Error("missing not-yet-run notice")
	}
}

func TestRenderExperimentSections(t *testing.T) {
	in := sampleInput()
	in.Experiment1 = &experiment.PromptRobustnessResult{
		MostStable: judge.ChainOfThought,
		StabilityRanking: []experiment.StrategyStability{
			{Strategy: judge.ChainOfThought, StdDev: 1.2},
			{Strategy: judge.FewShot, StdDev: 4.5},
		},
		StatisticsByStrategy: map[judge.PromptStrategy]stats.ScoreStats{
			judge.ChainOfThought: {Mean: 72.5, StdDev: 1.2},
			judge.FewShot:        {Mean: 70.1, StdDev: 4.5},
		},
	}
	in.Experiment2 = &experiment.SelfConsistencyResult{
		NumRunsPerPair: 5,
		Temperature:    0.7,
		OverallStatistics: experiment.OverallStats{
			MeanStdDev:       3.1,
			MeanRange:        7.0,
			JudgeReliability: "high",
		},
	}
	in.Experiment3 = &experiment.InterRaterResult{
		SampleSize:     10,
		CohensKappa:    0.62,
		MeanAbsDiff:    8.4,
		Correlation:    0.91,
		HumanAlignment: "good",
	}

	out := Render(in, "reports")

	for _, want := range []string{
		"> **Status**: 3/3 experiments completed",
		"| Chain Of Thought | 72.50 | 1.20 | #1 |",
		"The **Chain Of Thought** strategy showed the most stable results",
		"evaluated 5 times with temperature=0.7",
		"Judge Reliability: **HIGH**",
		"**Cohen's Kappa**: 0.620",
		"**Mean Absolute Difference**: 8.4 points",
		"**Human Alignment**: good",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q", want)
		}
	}
}

func TestRenderChartLinksRelative(t *testing.T) {
	in := sampleInput()
	in.Charts = ChartSet{
		"score_distribution":   "reports/charts/score_distribution.png",
		"contradiction_types":  "reports/charts/contradiction_types.png",
		"consistency_by_event": "reports/charts/consistency_by_event.png",
	}

	out := Render(in, "reports")
	for _, want := range []string{
		"![Score Distribution](charts/score_distribution.png)",
		"![Contradiction Types](charts/contradiction_types.png)",
		"![Consistency by Event](charts/consistency_by_event.png)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing chart link %q", want)
		}
	}
}

func TestQuartileTable(t *testing.T) {
	out := Render(sampleInput(), "reports")
	if !strings.Contains(out, "| Event | Min | Q1 | Median | Q3 | Max |") {
		t.Error("quartile table header missing")
	}
	if !strings.Contains(out, "| Gettysburg Address | 82 | ") {
		t.Error("quartile table row missing")
	}
}
