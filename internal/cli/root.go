// Package cli implements the lincoln-divergence command tree.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jrswathi1999/Lincoln-historical-divergence/internal/model"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "lincoln-divergence",
	Short: "Historiographical divergence analysis for Lincoln-era accounts",
	Long: `lincoln-divergence is a batch pipeline that compares Abraham Lincoln's
own accounts of key historical events with the accounts of other authors.

It scrapes primary texts from Project Gutenberg and the Library of
Congress, extracts structured claims about five events with an LLM,
judges cross-source consistency with a second LLM pass, and validates
the judge statistically before rendering a final report.

Run the stages in order:

  lincoln-divergence acquire
  lincoln-divergence extract
  lincoln-divergence judge
  lincoln-divergence validate
  lincoln-divergence report`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("lincoln-divergence v0.1.0")
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.lincoln-divergence/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	_ = viper.BindPFlag("output.verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	rootCmd.AddCommand(versionCmd)
}

// initConfig reads the config file and LINCOLN_* environment variables,
// and loads .env so OPENAI_API_KEY can live there
func initConfig() {
	// missing .env is the normal case
	_ = godotenv.Load()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}
		viper.AddConfigPath(home + "/.lincoln-divergence")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	viper.SetEnvPrefix("LINCOLN")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// loadConfig layers viper values over the defaults and picks up the API
// key from the environment
func loadConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()

	decodeYAMLTags := func(dc *mapstructure.DecoderConfig) { dc.TagName = "yaml" }
	if err := viper.Unmarshal(cfg, decodeYAMLTags); err != nil {
		return nil, fmt.Errorf("parse configuration: %w", err)
	}

	cfg.Output.Verbose = cfg.Output.Verbose || verbose
	cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")

	return cfg, nil
}

// stageContext returns a context canceled on SIGINT/SIGTERM so stages can
// flush partial results before exiting
func stageContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
