package stats

import (
	"math"
	"testing"

	"github.com/jrswathi1999/Lincoln-historical-divergence/internal/model"
)

func TestDescribe_Empty(t *testing.T) {
	s := Describe(nil)

	if s.Count != 0 {
		t.Errorf("Expected count 0, got %d", s.Count)
	}
	if s.Mean != 0 || s.Variance != 0 || s.StdDev != 0 || s.Min != 0 || s.Max != 0 {
		t.Errorf("Expected all-zero stats for empty input, got %+v", s)
	}
}

func TestDescribe_SingleElement(t *testing.T) {
	s := Describe([]int{42})

	if s.Count != 1 {
		t.Errorf("Expected count 1, got %d", s.Count)
	}
	if s.Variance != 0 || s.StdDev != 0 {
		t.Errorf("Expected zero variance and stdev for single element, got %+v", s)
	}
	if s.Mean != 42 || s.Min != 42 || s.Max != 42 {
		t.Errorf("Expected mean/min/max 42, got %+v", s)
	}
}

func TestDescribe_SampleVariance(t *testing.T) {
	s := Describe([]int{80, 90, 100})

	if math.Abs(s.Mean-90) > 1e-9 {
		t.Errorf("Expected mean 90, got %f", s.Mean)
	}
	// Sample variance of {80, 90, 100} is 100
	if math.Abs(s.Variance-100) > 1e-9 {
		t.Errorf("Expected variance 100, got %f", s.Variance)
	}
	if math.Abs(s.StdDev-10) > 1e-9 {
		t.Errorf("Expected stdev 10, got %f", s.StdDev)
	}
	if s.Min != 80 || s.Max != 100 {
		t.Errorf("Expected min 80 max 100, got %+v", s)
	}
}

func TestCategorize_BinBoundaries(t *testing.T) {
	cases := []struct {
		score int
		want  ScoreBin
	}{
		{0, BinLow},
		{25, BinLow},
		{26, BinMediumLow},
		{50, BinMediumLow},
		{51, BinMediumHigh},
		{75, BinMediumHigh},
		{76, BinHigh},
		{100, BinHigh},
	}

	for _, tc := range cases {
		if got := Categorize(tc.score); got != tc.want {
			t.Errorf("Categorize(%d) = %s, want %s", tc.score, got, tc.want)
		}
	}
}

func TestCohensKappa_PerfectAgreement(t *testing.T) {
	// Identical lists with non-degenerate category spread
	scores := []int{10, 40, 60, 90, 85, 20}

	kappa, err := CohensKappa(scores, scores)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if math.Abs(kappa-1.0) > 1e-9 {
		t.Errorf("Expected kappa 1.0 for identical ratings, got %f", kappa)
	}
}

func TestCohensKappa_DegenerateExpectedAgreement(t *testing.T) {
	// All ratings fall in the same bin: expected agreement is 1, kappa is
	// defined as 1
	kappa, err := CohensKappa([]int{90, 95, 100}, []int{80, 85, 99})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if kappa != 1.0 {
		t.Errorf("Expected kappa 1.0 when expected agreement is 1, got %f", kappa)
	}
}

func TestCohensKappa_NearBoundaryDisagreement(t *testing.T) {
	// Numerically close scores straddling bin boundaries produce low kappa;
	// this is the documented weakness MeanAbsoluteDifference compensates for
	r1 := []int{25, 50, 75, 25}
	r2 := []int{26, 51, 76, 26}

	kappa, err := CohensKappa(r1, r2)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if kappa > 0 {
		t.Errorf("Expected non-positive kappa for systematic boundary disagreement, got %f", kappa)
	}

	mad, err := MeanAbsoluteDifference(r1, r2)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if math.Abs(mad-1.0) > 1e-9 {
		t.Errorf("Expected mean absolute difference 1.0, got %f", mad)
	}
}

func TestCohensKappa_LengthMismatch(t *testing.T) {
	if _, err := CohensKappa([]int{1, 2}, []int{1}); err == nil {
		t.Error("Expected error for mismatched lengths")
	}
	if _, err := CohensKappa(nil, nil); err == nil {
		t.Error("Expected error for empty ratings")
	}
}

func TestCorrelation(t *testing.T) {
	corr, err := Correlation([]int{10, 20, 30, 40}, []int{15, 25, 35, 45})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if math.Abs(corr-1.0) > 1e-9 {
		t.Errorf("Expected correlation 1.0 for linear relation, got %f", corr)
	}

	if _, err := Correlation([]int{1}, []int{2}); err == nil {
		t.Error("Expected error for fewer than 2 ratings")
	}
}

func TestConsistency_Aggregate(t *testing.T) {
	results := []model.JudgeResult{
		{
			ConsistencyScore:  80,
			ContradictionType: model.ContradictionClassification{Type: model.ContradictionNone},
		},
		{
			ConsistencyScore:  60,
			ContradictionType: model.ContradictionClassification{Type: model.ContradictionOmission},
		},
		{
			ConsistencyScore:  40,
			ContradictionType: model.ContradictionClassification{Type: model.ContradictionOmission},
		},
	}

	m := Consistency(results)

	if m.TotalComparisons != 3 {
		t.Errorf("Expected 3 comparisons, got %d", m.TotalComparisons)
	}
	if math.Abs(m.AverageConsistency-60) > 1e-9 {
		t.Errorf("Expected average 60, got %f", m.AverageConsistency)
	}
	if m.ConsistencyRange != "40-80" {
		t.Errorf("Expected range 40-80, got %s", m.ConsistencyRange)
	}
	if m.ContradictionDistribution["Omission"] != 2 {
		t.Errorf("Expected 2 Omission results, got %d", m.ContradictionDistribution["Omission"])
	}
	if m.ContradictionDistribution["None"] != 1 {
		t.Errorf("Expected 1 None result, got %d", m.ContradictionDistribution["None"])
	}
}

func TestContradictionDistribution_UnknownType(t *testing.T) {
	dist := ContradictionDistribution([]model.JudgeResult{{ConsistencyScore: 50}})
	if dist["Unknown"] != 1 {
		t.Errorf("Expected missing type counted as Unknown, got %v", dist)
	}
}
