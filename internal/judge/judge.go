package judge

import (
	"context"
	"fmt"
	"os"

	"github.com/jrswathi1999/Lincoln-historical-divergence/internal/llm"
	"github.com/jrswathi1999/Lincoln-historical-divergence/internal/model"
)

// completer is the slice of the LLM client the judge needs
type completer interface {
	CompleteJSON(ctx context.Context, system, user string, temperature float32, out any) error
}

// Judge scores the consistency of comparison pairs with an LLM
type Judge struct {
	client      completer
	strategy    PromptStrategy
	temperature float32
	verbose     bool
}

// Option configures a Judge
type Option func(*Judge)

// WithStrategy selects the prompt framing; the default is zero-shot
func WithStrategy(s PromptStrategy) Option {
	return func(j *Judge) { j.strategy = s }
}

// WithTemperature overrides the sampling temperature; the self-consistency
// experiment raises it to surface run-to-run variance
func WithTemperature(t float32) Option {
	return func(j *Judge) { j.temperature = t }
}

func WithVerbose(v bool) Option {
	return func(j *Judge) { j.verbose = v }
}

func NewJudge(client *llm.Client, opts ...Option) *Judge {
	j := &Judge{
		client:      client,
		strategy:    ZeroShot,
		temperature: 0.3,
	}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

// Compare runs one judge call for one pair
func (j *Judge) Compare(ctx context.Context, pair model.ComparisonPair) (*model.JudgeVerdict, error) {
	prompt := buildJudgePrompt(pair, j.strategy)

	var verdict model.JudgeVerdict
	if err := j.client.CompleteJSON(ctx, judgeSystemPrompt, prompt, j.temperature, &verdict); err != nil {
		return nil, fmt.Errorf("judge %s: %w", pair.ID(), err)
	}

	if verdict.ConsistencyScore < 0 {
		verdict.ConsistencyScore = 0
	}
	if verdict.ConsistencyScore > 100 {
		verdict.ConsistencyScore = 100
	}

	return &verdict, nil
}

// CompareAll judges every pair sequentially, skipping failures. The judge
// stage is not pooled; the rate limiter inside the client paces calls.
func (j *Judge) CompareAll(ctx context.Context, pairs []model.ComparisonPair) ([]model.JudgeResult, error) {
	results := make([]model.JudgeResult, 0, len(pairs))

	for i, pair := range pairs {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		if j.verbose {
			fmt.Fprintf(os.Stderr, "[judge] pair %d/%d: %s\n", i+1, len(pairs), pair.ID())
		}

		verdict, err := j.Compare(ctx, pair)
		if err != nil {
			fmt.Fprintf(os.Stderr, "[judge] skipping %s: %v\n", pair.ID(), err)
			continue
		}

		results = append(results, ResultFromVerdict(pair, verdict))
	}

	return results, nil
}

// ResultFromVerdict attaches pair provenance to a verdict for persistence
func ResultFromVerdict(pair model.ComparisonPair, verdict *model.JudgeVerdict) model.JudgeResult {
	return model.JudgeResult{
		EventID:           pair.EventID,
		EventName:         pair.EventName,
		LincolnAuthor:     pair.LincolnAuthor,
		OtherAuthor:       pair.OtherAuthor,
		LincolnSource:     pair.LincolnSource,
		OtherSource:       pair.OtherSource,
		ConsistencyScore:  verdict.ConsistencyScore,
		ContradictionType: verdict.ContradictionType,
		Reasoning:         verdict.Reasoning,
		KeyDifferences:    verdict.KeyDifferences,
		KeySimilarities:   verdict.KeySimilarities,
	}
}
