package stats

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/jrswathi1999/Lincoln-historical-divergence/internal/model"
)

// ScoreStats are the descriptive statistics of a list of 0-100 consistency
// scores. Variance is the sample variance; lists of fewer than two elements
// report zero variance and stdev.
type ScoreStats struct {
	Mean     float64 `json:"mean"`
	Variance float64 `json:"variance"`
	StdDev   float64 `json:"std_dev"`
	Min      int     `json:"min"`
	Max      int     `json:"max"`
	Count    int     `json:"count"`
}

// Describe computes descriptive statistics over integer scores
func Describe(scores []int) ScoreStats {
	if len(scores) == 0 {
		return ScoreStats{}
	}

	values := make([]float64, len(scores))
	min, max := scores[0], scores[0]
	for i, s := range scores {
		values[i] = float64(s)
		if s < min {
			min = s
		}
		if s > max {
			max = s
		}
	}

	out := ScoreStats{
		Mean:  stat.Mean(values, nil),
		Min:   min,
		Max:   max,
		Count: len(scores),
	}
	if len(scores) > 1 {
		out.Variance = stat.Variance(values, nil)
		out.StdDev = math.Sqrt(out.Variance)
	}
	return out
}

// ScoreBin is one of the four fixed quartile categories scores are binned
// into before computing agreement
type ScoreBin string

const (
	BinLow        ScoreBin = "low"         // 0-25
	BinMediumLow  ScoreBin = "medium-low"  // 26-50
	BinMediumHigh ScoreBin = "medium-high" // 51-75
	BinHigh       ScoreBin = "high"        // 76-100
)

// Categorize maps a 0-100 score into its quartile bin
func Categorize(score int) ScoreBin {
	switch {
	case score <= 25:
		return BinLow
	case score <= 50:
		return BinMediumLow
	case score <= 75:
		return BinMediumHigh
	default:
		return BinHigh
	}
}

// CohensKappa computes chance-corrected agreement between two raters over
// the quartile bins. Scores near a bin boundary can disagree categorically
// while agreeing numerically, so callers should report MeanAbsoluteDifference
// alongside kappa.
func CohensKappa(ratings1, ratings2 []int) (float64, error) {
	if len(ratings1) != len(ratings2) {
		return 0, fmt.Errorf("ratings must have same length: %d vs %d", len(ratings1), len(ratings2))
	}
	if len(ratings1) == 0 {
		return 0, fmt.Errorf("ratings must not be empty")
	}

	n := float64(len(ratings1))
	counts1 := make(map[ScoreBin]float64)
	counts2 := make(map[ScoreBin]float64)
	agree := 0.0

	for i := range ratings1 {
		c1 := Categorize(ratings1[i])
		c2 := Categorize(ratings2[i])
		counts1[c1]++
		counts2[c2]++
		if c1 == c2 {
			agree++
		}
	}

	observed := agree / n

	expected := 0.0
	for bin, c1 := range counts1 {
		expected += (c1 / n) * (counts2[bin] / n)
	}

	if expected == 1 {
		return 1.0, nil
	}

	return (observed - expected) / (1 - expected), nil
}

// MeanAbsoluteDifference is the complementary numeric-agreement metric for
// kappa's near-boundary weakness
func MeanAbsoluteDifference(ratings1, ratings2 []int) (float64, error) {
	if len(ratings1) != len(ratings2) {
		return 0, fmt.Errorf("ratings must have same length: %d vs %d", len(ratings1), len(ratings2))
	}
	if len(ratings1) == 0 {
		return 0, fmt.Errorf("ratings must not be empty")
	}

	sum := 0.0
	for i := range ratings1 {
		sum += math.Abs(float64(ratings1[i]) - float64(ratings2[i]))
	}
	return sum / float64(len(ratings1)), nil
}

// Correlation is the Pearson correlation between two score lists
func Correlation(ratings1, ratings2 []int) (float64, error) {
	if len(ratings1) != len(ratings2) {
		return 0, fmt.Errorf("ratings must have same length: %d vs %d", len(ratings1), len(ratings2))
	}
	if len(ratings1) < 2 {
		return 0, fmt.Errorf("need at least 2 ratings, got %d", len(ratings1))
	}

	xs := make([]float64, len(ratings1))
	ys := make([]float64, len(ratings2))
	for i := range ratings1 {
		xs[i] = float64(ratings1[i])
		ys[i] = float64(ratings2[i])
	}
	return stat.Correlation(xs, ys, nil), nil
}

// ContradictionDistribution counts judge results per contradiction type
func ContradictionDistribution(results []model.JudgeResult) map[string]int {
	dist := make(map[string]int)
	for _, r := range results {
		t := string(r.ContradictionType.Type)
		if t == "" {
			t = "Unknown"
		}
		dist[t]++
	}
	return dist
}

// ConsistencyMetrics is the aggregate written to statistical_validation.json
type ConsistencyMetrics struct {
	ScoreStatistics           ScoreStats     `json:"score_statistics"`
	ContradictionDistribution map[string]int `json:"contradiction_distribution"`
	TotalComparisons          int            `json:"total_comparisons"`
	AverageConsistency        float64        `json:"average_consistency"`
	ConsistencyRange          string         `json:"consistency_range"`
}

// Consistency aggregates judge results into the overall validation metrics
func Consistency(results []model.JudgeResult) ConsistencyMetrics {
	scores := make([]int, 0, len(results))
	for _, r := range results {
		scores = append(scores, r.ConsistencyScore)
	}

	describe := Describe(scores)

	return ConsistencyMetrics{
		ScoreStatistics:           describe,
		ContradictionDistribution: ContradictionDistribution(results),
		TotalComparisons:          len(results),
		AverageConsistency:        describe.Mean,
		ConsistencyRange:          fmt.Sprintf("%d-%d", describe.Min, describe.Max),
	}
}
