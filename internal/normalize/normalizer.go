// Package normalize maps raw scraped material into the fixed document
// schema the rest of the pipeline consumes.
package normalize

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/jrswathi1999/Lincoln-historical-divergence/internal/model"
)

var (
	gutenbergStartRe = regexp.MustCompile(`(?i)\*\*\*\s*START OF (?:THE|THIS) PROJECT GUTENBERG EBOOK[^\n]*\*\*\*`)
	gutenbergEndRe   = regexp.MustCompile(`(?i)\*\*\*\s*END OF (?:THE|THIS) PROJECT GUTENBERG EBOOK[^\n]*\*\*\*`)
	byAuthorRe       = regexp.MustCompile(`(?i)\bby\s+([A-Z][A-Za-z.\s]+)`)
	slugStripRe      = regexp.MustCompile(`[^a-z0-9]+`)
)

// Book converts a scraped Gutenberg book into a normalized document.
// The Gutenberg license boilerplate around the text is stripped so the
// chunker only sees the work itself.
func Book(book *model.RawBook) model.NormalizedDocument {
	content := StripGutenbergBoilerplate(book.Text)

	author := book.Author
	if author == "" {
		author = authorFromTitle(book.Title)
	}

	return model.NormalizedDocument{
		ID:           "gutenberg_" + book.BookID,
		Title:        book.Title,
		Reference:    book.URL,
		DocumentType: "Book",
		From:         author,
		Content:      content,
	}
}

// Manuscript converts a scraped Library of Congress document
func Manuscript(ms *model.RawManuscript) model.NormalizedDocument {
	docType := ms.DocumentType
	if docType == "" {
		docType = "Manuscript"
	}

	return model.NormalizedDocument{
		ID:           "loc_" + slugFromURL(ms.URL),
		Title:        ms.Title,
		Reference:    ms.URL,
		DocumentType: docType,
		Date:         ms.Date,
		Place:        ms.Place,
		From:         ms.From,
		To:           ms.To,
		Content:      strings.TrimSpace(ms.Content),
	}
}

// All normalizes the complete acquisition output in a stable order:
// books first, manuscripts second.
func All(books []*model.RawBook, manuscripts []*model.RawManuscript) []model.NormalizedDocument {
	docs := make([]model.NormalizedDocument, 0, len(books)+len(manuscripts))
	for _, b := range books {
		docs = append(docs, Book(b))
	}
	for _, m := range manuscripts {
		docs = append(docs, Manuscript(m))
	}
	return docs
}

// StripGutenbergBoilerplate removes the license header and footer that
// Project Gutenberg wraps around every plain-text book. If the markers
// are absent the text is returned unchanged.
func StripGutenbergBoilerplate(text string) string {
	if loc := gutenbergStartRe.FindStringIndex(text); loc != nil {
		text = text[loc[1]:]
	}
	if loc := gutenbergEndRe.FindStringIndex(text); loc != nil {
		text = text[:loc[0]]
	}
	return strings.TrimSpace(text)
}

// authorFromTitle pulls an author name out of titles shaped like
// "Speeches and Letters by Abraham Lincoln".
func authorFromTitle(title string) string {
	if m := byAuthorRe.FindStringSubmatch(title); m != nil {
		author := strings.TrimSpace(m[1])
		// catalog titles sometimes append edition notes after the name
		if idx := strings.IndexAny(author, ",|("); idx >= 0 {
			author = strings.TrimSpace(author[:idx])
		}
		return author
	}
	return ""
}

// slugFromURL derives a stable document ID component from a source URL
func slugFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Path == "" {
		return fmt.Sprintf("%x", len(rawURL))
	}

	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	last := segments[len(segments)-1]
	last = strings.TrimSuffix(last, ".html")

	slug := slugStripRe.ReplaceAllString(strings.ToLower(last), "_")
	return strings.Trim(slug, "_")
}
