package scrape

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jrswathi1999/Lincoln-historical-divergence/internal/model"
)

const gutenbergBase = "https://www.gutenberg.org"

// Gutenberg scrapes plain-text books and their catalog metadata from
// Project Gutenberg.
type Gutenberg struct {
	fetcher *Fetcher
	base    string
	verbose bool
}

func NewGutenberg(fetcher *Fetcher, verbose bool) *Gutenberg {
	return &Gutenberg{fetcher: fetcher, base: gutenbergBase, verbose: verbose}
}

// textURLs returns the candidate plain-text locations for a book, in
// preference order. Gutenberg hosts UTF-8 text under a few historical
// path layouts depending on the book's age.
func (g *Gutenberg) textURLs(bookID string) []string {
	return []string{
		fmt.Sprintf("%s/files/%s/%s-0.txt", g.base, bookID, bookID),
		fmt.Sprintf("%s/files/%s/%s.txt", g.base, bookID, bookID),
		fmt.Sprintf("%s/cache/epub/%s/pg%s.txt", g.base, bookID, bookID),
	}
}

// ScrapeBook downloads one book: catalog metadata from the ebook landing
// page, then the full text from the first candidate URL that resolves.
func (g *Gutenberg) ScrapeBook(ctx context.Context, bookID string) (*model.RawBook, error) {
	book := &model.RawBook{BookID: bookID}

	metaURL := fmt.Sprintf("%s/ebooks/%s", g.base, bookID)
	metaBody, err := g.fetcher.Fetch(ctx, metaURL)
	if err != nil {
		if g.verbose {
			fmt.Fprintf(os.Stderr, "[gutenberg] metadata fetch failed for %s: %v\n", bookID, err)
		}
	} else {
		book.Title, book.Author = parseCatalogPage(metaBody)
	}
	if book.Title == "" {
		book.Title = "Gutenberg Book " + bookID
	}

	var lastErr error
	for _, u := range g.textURLs(bookID) {
		body, err := g.fetcher.Fetch(ctx, u)
		if err != nil {
			lastErr = err
			if errors.Is(err, ErrNotFound) {
				continue
			}
			return nil, fmt.Errorf("book %s: %w", bookID, err)
		}
		book.Text = string(body)
		book.URL = u
		return book, nil
	}

	return nil, fmt.Errorf("book %s: no text found: %w", bookID, lastErr)
}

// ScrapeAll downloads the configured books sequentially. Books that
// cannot be fetched are logged and skipped so one dead link does not
// sink the run.
func (g *Gutenberg) ScrapeAll(ctx context.Context, bookIDs []string) ([]*model.RawBook, error) {
	books := make([]*model.RawBook, 0, len(bookIDs))
	for _, id := range bookIDs {
		select {
		case <-ctx.Done():
			return books, ctx.Err()
		default:
		}

		book, err := g.ScrapeBook(ctx, id)
		if err != nil {
			fmt.Fprintf(os.Stderr, "[gutenberg] skipping book %s: %v\n", id, err)
			continue
		}
		if g.verbose {
			fmt.Fprintf(os.Stderr, "[gutenberg] fetched %s: %s (%d chars)\n", id, book.Title, len(book.Text))
		}
		books = append(books, book)
	}
	return books, nil
}

// parseCatalogPage extracts title and author from an ebook landing page.
func parseCatalogPage(body []byte) (title, author string) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return "", ""
	}

	title = strings.TrimSpace(doc.Find(`h1[itemprop="name"]`).First().Text())
	if title == "" {
		title = strings.TrimSpace(doc.Find("title").First().Text())
		// the <title> tag carries a "| Project Gutenberg" suffix
		if idx := strings.Index(title, "|"); idx >= 0 {
			title = strings.TrimSpace(title[:idx])
		}
	}

	author = strings.TrimSpace(doc.Find(`a[itemprop="creator"]`).First().Text())
	if author == "" {
		author = strings.TrimSpace(doc.Find(`a[href*="/ebooks/author/"]`).First().Text())
	}

	return title, author
}
