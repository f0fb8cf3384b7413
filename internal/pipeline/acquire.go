package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jrswathi1999/Lincoln-historical-divergence/internal/cache"
	"github.com/jrswathi1999/Lincoln-historical-divergence/internal/model"
	"github.com/jrswathi1999/Lincoln-historical-divergence/internal/normalize"
	"github.com/jrswathi1999/Lincoln-historical-divergence/internal/scrape"
	"github.com/jrswathi1999/Lincoln-historical-divergence/internal/util"
	"github.com/jrswathi1999/Lincoln-historical-divergence/internal/worker"
)

const (
	locHost     = "www.loc.gov"
	locHostRate = 0.5 // requests per second
)

// Acquire scrapes the configured sources, normalizes them, and writes the
// two dataset files. A layered fetch cache makes re-runs cheap.
func Acquire(ctx context.Context, cfg *model.Config, store *Store, verbose bool) error {
	fetcher, err := buildFetcher(cfg)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Acquiring %d Gutenberg books and %d LoC documents\n",
		len(cfg.Sources.GutenbergBookIDs), len(cfg.Sources.LoCURLs))

	gutenberg := scrape.NewGutenberg(fetcher, verbose)
	books, err := gutenberg.ScrapeAll(ctx, cfg.Sources.GutenbergBookIDs)
	if err != nil {
		return fmt.Errorf("gutenberg acquisition: %w", err)
	}

	loc := scrape.NewLoC(fetcher, verbose)
	manuscripts, err := loc.ScrapeAll(ctx, cfg.Sources.LoCURLs)
	if err != nil {
		return fmt.Errorf("loc acquisition: %w", err)
	}

	bookDocs := make([]model.NormalizedDocument, 0, len(books))
	for _, b := range books {
		bookDocs = append(bookDocs, normalize.Book(b))
	}
	if err := store.SaveDocuments(GutenbergDatasetFile, bookDocs); err != nil {
		return err
	}

	msDocs := make([]model.NormalizedDocument, 0, len(manuscripts))
	for _, m := range manuscripts {
		msDocs = append(msDocs, normalize.Manuscript(m))
	}
	if err := store.SaveDocuments(LoCDatasetFile, msDocs); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Saved %d books and %d manuscripts to %s\n",
		len(bookDocs), len(msDocs), store.DataDir())
	return nil
}

func buildFetcher(cfg *model.Config) (*scrape.Fetcher, error) {
	var fetchCache cache.Cache
	if cfg.Cache.Enabled {
		dir := cfg.Cache.Dir
		if dir == "" {
			dir = filepath.Join(cfg.DataDir, "cache")
		}
		ttl := cfg.Cache.TTL
		if ttl <= 0 {
			ttl = 30 * 24 * time.Hour
		}
		fetchCache = cache.NewLayeredCache(
			cache.NewMemoryCache(ttl, ttl),
			cache.NewDiskCache(dir, ttl),
		)
	}

	robots := util.NewRobotsChecker(cfg.HTTP.UserAgent, cfg.HTTP.Timeout)
	limiter := worker.NewHostLimiter(cfg.HTTP.RatePerHost, 1)
	// loc.gov throttles harder than Gutenberg; hold it to one request per
	// two seconds unless the global rate is already slower
	if locHostRate < cfg.HTTP.RatePerHost {
		limiter.SetHostRate(locHost, locHostRate, 1)
	}

	return scrape.NewFetcher(
		cfg.HTTP.Timeout,
		cfg.HTTP.UserAgent,
		cfg.HTTP.MaxBodyBytes,
		fetchCache,
		robots,
		limiter,
		cfg.HTTP.HTTPProxy,
		cfg.HTTP.HTTPSProxy,
		cfg.HTTP.NoProxy,
	), nil
}
