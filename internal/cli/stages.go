package cli

import (
	"github.com/spf13/cobra"

	"github.com/jrswathi1999/Lincoln-historical-divergence/internal/pipeline"
)

var sampleSize int

// acquireCmd represents the acquire command
var acquireCmd = &cobra.Command{
	Use:   "acquire",
	Short: "Scrape and normalize source documents",
	Long: `Scrape the configured Project Gutenberg books and Library of Congress
manuscripts, normalize them into a common record schema, and write
gutenberg_dataset.json and loc_dataset.json under the data directory.

Fetches are cached on disk, so re-running acquire is cheap.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		ctx, cancel := stageContext()
		defer cancel()

		return pipeline.Acquire(ctx, cfg, pipeline.NewStore(cfg.DataDir), cfg.Output.Verbose)
	},
}

// extractCmd represents the extract command
var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract event claims from the acquired documents",
	Long: `Chunk each document, keep the chunks relevant to each configured event,
and extract structured claims from them with the LLM. Results are written
to event_extractions.json incrementally; an interrupted run resumes by
skipping (document, event) pairs that are already on disk.

Requires OPENAI_API_KEY in the environment or a .env file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		ctx, cancel := stageContext()
		defer cancel()

		return pipeline.Extract(ctx, cfg, pipeline.NewStore(cfg.DataDir), cfg.Output.Verbose)
	},
}

// judgeCmd represents the judge command
var judgeCmd = &cobra.Command{
	Use:   "judge",
	Short: "Judge consistency between Lincoln's and others' accounts",
	Long: `Pair Lincoln's extractions against other authors' extractions of the
same events and score each pair's consistency with the LLM judge.
Writes judge_comparisons.json and statistical_validation.json.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		ctx, cancel := stageContext()
		defer cancel()

		return pipeline.Judge(ctx, cfg, pipeline.NewStore(cfg.DataDir), cfg.Output.Verbose)
	},
}

// validateCmd represents the validate command
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Run the judge validation experiments",
	Long: `Run the three statistical validation experiments against a sample of
comparison pairs: prompt ablation, self-consistency, and inter-rater
agreement against manual labels.

Experiment 3 needs a manually labeled manual_labels.json; on first run a
template is created for you to fill in.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		ctx, cancel := stageContext()
		defer cancel()

		return pipeline.Validate(ctx, cfg, pipeline.NewStore(cfg.DataDir), sampleSize, cfg.Output.Verbose)
	},
}

// reportCmd represents the report command
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Render the final Markdown report and charts",
	Long: `Render FINAL_REPORT.md and the PNG charts from the judged comparisons
and whichever validation experiments have completed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		return pipeline.Report(cfg, pipeline.NewStore(cfg.DataDir))
	},
}

func init() {
	validateCmd.Flags().IntVar(&sampleSize, "sample-size", 20, "number of comparison pairs to sample")

	rootCmd.AddCommand(acquireCmd)
	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(judgeCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(reportCmd)
}
