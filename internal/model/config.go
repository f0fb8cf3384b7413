package model

import "time"

// Config is the complete pipeline configuration. Values come from flags,
// LINCOLN_* environment variables, the config file, and these defaults, in
// that priority order. The API key is read from the environment only.
type Config struct {
	DataDir string `yaml:"data_dir"`

	HTTP        HTTPConfig        `yaml:"http"`
	Cache       CacheConfig       `yaml:"cache"`
	LLM         LLMConfig         `yaml:"llm"`
	Chunking    ChunkingConfig    `yaml:"chunking"`
	Concurrency ConcurrencyConfig `yaml:"concurrency"`
	Sources     SourcesConfig     `yaml:"sources"`
	Output      OutputConfig      `yaml:"output"`

	Events []Event `yaml:"events"`
}

// HTTPConfig controls the scraper HTTP client
type HTTPConfig struct {
	Timeout      time.Duration `yaml:"timeout"`
	UserAgent    string        `yaml:"user_agent"`
	MaxBodyBytes int64         `yaml:"max_body_bytes"`
	RatePerHost  float64       `yaml:"rate_per_host"` // requests per second
	HTTPProxy    string        `yaml:"http_proxy,omitempty"`
	HTTPSProxy   string        `yaml:"https_proxy,omitempty"`
	NoProxy      string        `yaml:"no_proxy,omitempty"`
}

// CacheConfig controls the fetch cache
type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	Dir     string        `yaml:"dir"`
	TTL     time.Duration `yaml:"ttl"`
}

// LLMConfig controls the extractor and judge clients. APIKey is never
// written to the config file.
type LLMConfig struct {
	Model          string        `yaml:"model"`
	APIKey         string        `yaml:"-"`
	BaseURL        string        `yaml:"base_url,omitempty"`
	Timeout        time.Duration `yaml:"timeout"`
	MaxRetries     int           `yaml:"max_retries"`
	RequestsPerSec float64       `yaml:"requests_per_sec"`
	Temperature    float32       `yaml:"temperature"`
}

// ChunkingConfig controls document windowing
type ChunkingConfig struct {
	ChunkSize int `yaml:"chunk_size"`
	Overlap   int `yaml:"overlap"`
}

// ConcurrencyConfig controls the extraction worker pool
type ConcurrencyConfig struct {
	ExtractionWorkers int `yaml:"extraction_workers"`
}

// SourcesConfig lists the external documents to acquire
type SourcesConfig struct {
	GutenbergBookIDs []string `yaml:"gutenberg_book_ids"`
	LoCURLs          []string `yaml:"loc_urls"`
}

// OutputConfig controls report rendering
type OutputConfig struct {
	Verbose bool `yaml:"verbose"`
	Charts  bool `yaml:"charts"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		DataDir: "./data",
		HTTP: HTTPConfig{
			Timeout:      60 * time.Second,
			UserAgent:    "lincoln-divergence/0.1 (historical research; +https://github.com/jrswathi1999/Lincoln-historical-divergence)",
			MaxBodyBytes: 8_000_000,
			RatePerHost:  1,
		},
		Cache: CacheConfig{
			Enabled: true,
			Dir:     "./data/cache",
			TTL:     30 * 24 * time.Hour,
		},
		LLM: LLMConfig{
			Model:          "gpt-4o-mini",
			Timeout:        60 * time.Second,
			MaxRetries:     3,
			RequestsPerSec: 2,
			Temperature:    0.3,
		},
		Chunking: ChunkingConfig{
			ChunkSize: 2000,
			Overlap:   200,
		},
		Concurrency: ConcurrencyConfig{
			ExtractionWorkers: 3,
		},
		Sources: SourcesConfig{
			GutenbergBookIDs: []string{"6812", "6811", "12801", "14004", "18379"},
			LoCURLs: []string{
				"https://www.loc.gov/item/mal0440500/",
				"https://www.loc.gov/resource/mal.0882800",
				"https://www.loc.gov/exhibits/gettysburg-address/ext/trans-nicolay-copy.html",
				"https://www.loc.gov/resource/mal.4361300",
				"https://www.loc.gov/resource/mal.4361800/",
			},
		},
		Output: OutputConfig{
			Charts: true,
		},
		Events: DefaultEvents(),
	}
}
