package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/jrswathi1999/Lincoln-historical-divergence/internal/model"
	"github.com/jrswathi1999/Lincoln-historical-divergence/internal/stats"
)

// ChartSet holds the paths of the rendered chart files, keyed by chart name
type ChartSet map[string]string

// RenderCharts draws the three report charts as PNGs under dir. Charts
// that have no data are skipped rather than rendered empty.
func RenderCharts(results []model.JudgeResult, dir string) (ChartSet, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create charts dir: %w", err)
	}

	set := ChartSet{}

	if path, err := renderScoreHistogram(results, dir); err != nil {
		return nil, err
	} else if path != "" {
		set["score_distribution"] = path
	}

	if path, err := renderContradictionPie(results, dir); err != nil {
		return nil, err
	} else if path != "" {
		set["contradiction_types"] = path
	}

	if path, err := renderEventBars(results, dir); err != nil {
		return nil, err
	} else if path != "" {
		set["consistency_by_event"] = path
	}

	return set, nil
}

// renderScoreHistogram buckets scores into ten-point bins
func renderScoreHistogram(results []model.JudgeResult, dir string) (string, error) {
	if len(results) == 0 {
		return "", nil
	}

	bins := make([]int, 10)
	for _, r := range results {
		idx := r.ConsistencyScore / 10
		if idx > 9 {
			idx = 9
		}
		bins[idx]++
	}

	values := make([]chart.Value, 0, len(bins))
	for i, count := range bins {
		values = append(values, chart.Value{
			Label: fmt.Sprintf("%d-%d", i*10, i*10+9),
			Value: float64(count),
		})
	}

	graph := chart.BarChart{
		Title:    "Distribution of Consistency Scores",
		Width:    900,
		Height:   500,
		BarWidth: 60,
		Bars:     values,
		XAxis:    chart.Style{TextRotationDegrees: 45},
	}

	return writeChart(graph.Render, dir, "score_distribution.png")
}

func renderContradictionPie(results []model.JudgeResult, dir string) (string, error) {
	dist := stats.ContradictionDistribution(results)
	if len(dist) == 0 {
		return "", nil
	}

	types := make([]string, 0, len(dist))
	for t := range dist {
		types = append(types, t)
	}
	sort.Strings(types)

	values := make([]chart.Value, 0, len(types))
	for _, t := range types {
		values = append(values, chart.Value{
			Label: fmt.Sprintf("%s (%d)", t, dist[t]),
			Value: float64(dist[t]),
		})
	}

	graph := chart.PieChart{
		Title:  "Contradiction Type Distribution",
		Width:  700,
		Height: 700,
		Values: values,
	}

	return writeChart(graph.Render, dir, "contradiction_types.png")
}

// renderEventBars plots mean consistency per event
func renderEventBars(results []model.JudgeResult, dir string) (string, error) {
	if len(results) == 0 {
		return "", nil
	}

	sums := make(map[string]int)
	counts := make(map[string]int)
	for _, r := range results {
		sums[r.EventName] += r.ConsistencyScore
		counts[r.EventName]++
	}

	events := make([]string, 0, len(sums))
	for name := range sums {
		events = append(events, name)
	}
	sort.Strings(events)

	values := make([]chart.Value, 0, len(events))
	for _, name := range events {
		mean := float64(sums[name]) / float64(counts[name])
		values = append(values, chart.Value{
			Label: name,
			Value: mean,
			Style: chart.Style{FillColor: drawing.ColorFromHex("4ecdc4")},
		})
	}

	graph := chart.BarChart{
		Title:    "Mean Consistency Score by Event",
		Width:    1000,
		Height:   500,
		BarWidth: 110,
		Bars:     values,
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: 100},
		},
		XAxis: chart.Style{TextRotationDegrees: 25},
	}

	return writeChart(graph.Render, dir, "consistency_by_event.png")
}

func writeChart(render func(chart.RendererProvider, io.Writer) error, dir, filename string) (string, error) {
	path := filepath.Join(dir, filename)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	if err := render(chart.PNG, f); err != nil {
		return "", fmt.Errorf("render %s: %w", filename, err)
	}
	return path, nil
}
