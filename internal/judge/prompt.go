package judge

import (
	"fmt"
	"strings"

	"github.com/jrswathi1999/Lincoln-historical-divergence/internal/model"
)

// PromptStrategy selects how the judge prompt is framed. The ablation
// experiment runs the same pairs under all three.
type PromptStrategy string

const (
	ZeroShot       PromptStrategy = "zero_shot"
	ChainOfThought PromptStrategy = "chain_of_thought"
	FewShot        PromptStrategy = "few_shot"
)

// Strategies lists every prompt strategy in ablation order
func Strategies() []PromptStrategy {
	return []PromptStrategy{ZeroShot, ChainOfThought, FewShot}
}

const judgeSystemPrompt = "You are an expert historian evaluating historiographical divergence between accounts of historical events. Be objective, fair, and focus on factual consistency."

const judgeBasePrompt = `Compare these two accounts of the same historical event.

EVENT: %s

ACCOUNT 1 (%s):
Claims:
%s
Temporal details: %s
Tone: %s

ACCOUNT 2 (%s):
Claims:
%s
Temporal details: %s
Tone: %s

INSTRUCTIONS:
Evaluate how consistent the two accounts are and respond with a JSON object
with exactly these fields:
{
  "consistency_score": 0-100,
  "contradiction_type": {"type": "Factual" | "Interpretive" | "Omission" | "None", "explanation": "why this class"},
  "reasoning": "your overall assessment",
  "key_differences": ["difference 1"],
  "key_similarities": ["similarity 1"]
}

Scoring guide: 90-100 fully consistent, 70-89 minor differences, 40-69
notable divergence, below 40 direct contradiction.`

const chainOfThoughtInstruction = `
Before providing your final answer, think through your reasoning step by step:
1. Identify all factual claims in both accounts.
2. Compare each claim for consistency.
3. Identify any contradictions and classify them.
4. Consider omissions, information in one account but not the other.
5. Calculate the consistency score based on your analysis.

Now proceed with your step-by-step analysis.

INSTRUCTIONS:`

const fewShotExamples = `EXAMPLES:

Example 1:
Event: Fort Sumter Decision
Account 1 Claims: ["Lincoln decided to resupply", "Date: April 12, 1861"]
Account 2 Claims: ["Lincoln decided to resupply", "Date: April 12, 1861"]
Result: consistency_score=95, contradiction_type="None" (perfect alignment)

Example 2:
Event: Gettysburg Address
Account 1 Claims: ["Speech was 272 words", "Date: November 19, 1863"]
Account 2 Claims: ["Speech was 300 words", "Date: November 19, 1863"]
Result: consistency_score=85, contradiction_type="Factual" (minor factual difference in word count)

Example 3:
Event: Election Night 1860
Account 1 Claims: ["Lincoln was at home", "Heard results by telegram"]
Account 2 Claims: ["Lincoln was at home"]
Result: consistency_score=70, contradiction_type="Omission" (Account 2 missing detail about telegram)

Now evaluate the following:

`

// buildJudgePrompt renders the user message for one comparison
func buildJudgePrompt(pair model.ComparisonPair, strategy PromptStrategy) string {
	base := fmt.Sprintf(judgeBasePrompt,
		pair.EventName,
		pair.LincolnAuthor,
		formatClaims(pair.LincolnExtraction.Claims),
		formatTemporal(pair.LincolnExtraction.TemporalDetails),
		orUnknown(pair.LincolnExtraction.Tone),
		pair.OtherAuthor,
		formatClaims(pair.OtherExtraction.Claims),
		formatTemporal(pair.OtherExtraction.TemporalDetails),
		orUnknown(pair.OtherExtraction.Tone),
	)

	switch strategy {
	case ChainOfThought:
		return strings.Replace(base, "INSTRUCTIONS:", chainOfThoughtInstruction, 1)
	case FewShot:
		return fewShotExamples + base
	default:
		return base
	}
}

func formatClaims(claims []string) string {
	if len(claims) == 0 {
		return "None provided"
	}
	var sb strings.Builder
	for _, claim := range claims {
		sb.WriteString("- ")
		sb.WriteString(claim)
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

func formatTemporal(td model.TemporalDetails) string {
	date := td.Date
	if date == "" {
		date = "Not mentioned"
	}
	t := td.Time
	if t == "" {
		t = "Not mentioned"
	}
	return fmt.Sprintf("Date: %s, Time: %s", date, t)
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}
