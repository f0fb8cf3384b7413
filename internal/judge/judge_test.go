package judge

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jrswathi1999/Lincoln-historical-divergence/internal/model"
)

type fakeCompleter struct {
	calls        int
	prompts      []string
	temperatures []float32
	fill         func(call int, out *model.JudgeVerdict) error
}

func (f *fakeCompleter) CompleteJSON(ctx context.Context, system, user string, temperature float32, out any) error {
	f.calls++
	f.prompts = append(f.prompts, user)
	f.temperatures = append(f.temperatures, temperature)

	verdict, ok := out.(*model.JudgeVerdict)
	if !ok {
		return errors.New("unexpected output type")
	}
	return f.fill(f.calls, verdict)
}

func testPair() model.ComparisonPair {
	return model.ComparisonPair{
		EventID:   "gettysburg_address",
		EventName: "Gettysburg Address",
		LincolnExtraction: model.EventExtraction{
			Author: "Abraham Lincoln",
			Claims: []string{"The speech was delivered November 19, 1863."},
			Tone:   "solemn",
		},
		OtherExtraction: model.EventExtraction{
			Author:          "Francis F. Browne",
			Claims:          []string{"The address lasted barely two minutes."},
			TemporalDetails: model.TemporalDetails{Date: "November 19, 1863"},
		},
		LincolnAuthor: "Abraham Lincoln",
		OtherAuthor:   "Francis F. Browne",
		LincolnSource: "Nicolay Copy",
		OtherSource:   "The Every-day Life of Abraham Lincoln",
	}
}

func newTestJudge(fake *fakeCompleter, opts ...Option) *Judge {
	j := &Judge{client: fake, strategy: ZeroShot, temperature: 0.3}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

func TestCompareClampsScore(t *testing.T) {
	fake := &fakeCompleter{fill: func(call int, out *model.JudgeVerdict) error {
		out.ConsistencyScore = 140
		out.ContradictionType = model.ContradictionClassification{Type: model.ContradictionNone}
		return nil
	}}

	verdict, err := newTestJudge(fake).Compare(context.Background(), testPair())
	if err != nil {
		t.Fatalf("Compare returned error: %v", err)
	}
	if verdict.ConsistencyScore != 100 {
		t.Errorf("score = %d, want clamped to 100", verdict.ConsistencyScore)
	}
}

func TestComparePromptContainsBothAccounts(t *testing.T) {
	fake := &fakeCompleter{fill: func(call int, out *model.JudgeVerdict) error { return nil }}

	if _, err := newTestJudge(fake).Compare(context.Background(), testPair()); err != nil {
		t.Fatalf("Compare returned error: %v", err)
	}

	prompt := fake.prompts[0]
	for _, want := range []string{
		"Gettysburg Address",
		"Abraham Lincoln",
		"Francis F. Browne",
		"The speech was delivered November 19, 1863.",
		"The address lasted barely two minutes.",
		"Date: November 19, 1863, Time: Not mentioned",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestPromptStrategies(t *testing.T) {
	pair := testPair()

	zero := buildJudgePrompt(pair, ZeroShot)
	cot := buildJudgePrompt(pair, ChainOfThought)
	few := buildJudgePrompt(pair, FewShot)

	if strings.Contains(zero, "step by step") || strings.Contains(zero, "EXAMPLES:") {
		t.Error("zero-shot prompt carries extra framing")
	}
	if !strings.Contains(cot, "step by step") {
		t.Error("chain-of-thought prompt missing reasoning instruction")
	}
	if !strings.HasPrefix(few, "EXAMPLES:") {
		t.Error("few-shot prompt missing examples preamble")
	}
	if !strings.Contains(few, "consistency_score=85") {
		t.Error("few-shot prompt missing worked example")
	}
}

func TestWithTemperatureOverride(t *testing.T) {
	fake := &fakeCompleter{fill: func(call int, out *model.JudgeVerdict) error { return nil }}

	j := newTestJudge(fake, WithTemperature(0.7))
	if _, err := j.Compare(context.Background(), testPair()); err != nil {
		t.Fatalf("Compare returned error: %v", err)
	}
	if fake.temperatures[0] != 0.7 {
		t.Errorf("temperature = %v, want 0.7", fake.temperatures[0])
	}
}

func TestCompareAllSkipsFailures(t *testing.T) {
	fake := &fakeCompleter{fill: func(call int, out *model.JudgeVerdict) error {
		if call == 2 {
			return errors.New("model unavailable")
		}
		out.ConsistencyScore = 75
		out.ContradictionType = model.ContradictionClassification{Type: model.ContradictionOmission}
		return nil
	}}

	pairs := []model.ComparisonPair{testPair(), testPair(), testPair()}
	results, err := newTestJudge(fake).CompareAll(context.Background(), pairs)
	if err != nil {
		t.Fatalf("CompareAll returned error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}

	r := results[0]
	if r.EventID != "gettysburg_address" || r.LincolnSource != "Nicolay Copy" {
		t.Errorf("provenance not carried: %+v", r)
	}
	if r.ConsistencyScore != 75 {
		t.Errorf("score = %d", r.ConsistencyScore)
	}
}

func TestCompareAllStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fake := &fakeCompleter{fill: func(call int, out *model.JudgeVerdict) error {
		t.Error("CompleteJSON called after cancellation")
		return nil
	}}

	_, err := newTestJudge(fake).CompareAll(ctx, []model.ComparisonPair{testPair()})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}
