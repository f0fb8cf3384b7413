package scrape

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"github.com/jrswathi1999/Lincoln-historical-divergence/internal/model"
)

// LoC scrapes manuscript pages from the Library of Congress. Item and
// resource URLs go through the JSON API; exhibit transcription pages are
// plain HTML and get their visible text extracted directly.
type LoC struct {
	fetcher *Fetcher
	verbose bool
}

func NewLoC(fetcher *Fetcher, verbose bool) *LoC {
	return &LoC{fetcher: fetcher, verbose: verbose}
}

// locItem mirrors the parts of the loc.gov JSON API response we read
type locItem struct {
	Item struct {
		Title            string   `json:"title"`
		Date             string   `json:"date"`
		CreatedPublished []string `json:"created_published"`
	} `json:"item"`
	FullText  string `json:"full_text"`
	Resources []struct {
		FullText string `json:"full_text"`
	} `json:"resources"`
}

// ScrapeDocument fetches one manuscript. Exhibit pages (.html) are parsed
// as HTML; everything else is queried with ?fo=json first, falling back to
// the HTML page when the API has no transcription.
func (l *LoC) ScrapeDocument(ctx context.Context, rawURL string) (*model.RawManuscript, error) {
	if strings.HasSuffix(rawURL, ".html") {
		return l.scrapeHTML(ctx, rawURL)
	}

	body, err := l.fetcher.Fetch(ctx, withJSONFormat(rawURL))
	if err != nil {
		return nil, fmt.Errorf("loc %s: %w", rawURL, err)
	}

	var item locItem
	if err := json.Unmarshal(body, &item); err != nil {
		// some resource pages serve HTML even with fo=json
		return l.manuscriptFromHTML(rawURL, body)
	}

	ms := &model.RawManuscript{
		URL:   rawURL,
		Title: item.Item.Title,
		Date:  item.Item.Date,
	}
	if ms.Date == "" && len(item.Item.CreatedPublished) > 0 {
		ms.Date = item.Item.CreatedPublished[0]
	}

	ms.Content = item.FullText
	if ms.Content == "" {
		for _, r := range item.Resources {
			if r.FullText != "" {
				ms.Content = r.FullText
				break
			}
		}
	}
	if ms.Content == "" {
		// no transcription in the API; fall back to the page itself
		htmlBody, err := l.fetcher.Fetch(ctx, rawURL)
		if err != nil {
			return nil, fmt.Errorf("loc %s: no transcription: %w", rawURL, err)
		}
		fallback, err := l.manuscriptFromHTML(rawURL, htmlBody)
		if err != nil {
			return nil, err
		}
		if ms.Title == "" {
			ms.Title = fallback.Title
		}
		ms.Content = fallback.Content
	}

	inferMetadata(ms)
	return ms, nil
}

// ScrapeAll fetches the configured manuscripts, skipping failures
func (l *LoC) ScrapeAll(ctx context.Context, urls []string) ([]*model.RawManuscript, error) {
	docs := make([]*model.RawManuscript, 0, len(urls))
	for _, u := range urls {
		select {
		case <-ctx.Done():
			return docs, ctx.Err()
		default:
		}

		doc, err := l.ScrapeDocument(ctx, u)
		if err != nil {
			fmt.Fprintf(os.Stderr, "[loc] skipping %s: %v\n", u, err)
			continue
		}
		if l.verbose {
			fmt.Fprintf(os.Stderr, "[loc] fetched %s: %s (%d chars)\n", u, doc.Title, len(doc.Content))
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func (l *LoC) scrapeHTML(ctx context.Context, rawURL string) (*model.RawManuscript, error) {
	body, err := l.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		return nil, fmt.Errorf("loc %s: %w", rawURL, err)
	}
	ms, err := l.manuscriptFromHTML(rawURL, body)
	if err != nil {
		return nil, err
	}
	inferMetadata(ms)
	return ms, nil
}

func (l *LoC) manuscriptFromHTML(rawURL string, body []byte) (*model.RawManuscript, error) {
	title, text, err := extractPageText(body)
	if err != nil {
		return nil, fmt.Errorf("loc %s: parse html: %w", rawURL, err)
	}
	return &model.RawManuscript{
		URL:     rawURL,
		Title:   title,
		Content: text,
	}, nil
}

func withJSONFormat(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL + "?fo=json"
	}
	q := u.Query()
	q.Set("fo", "json")
	u.RawQuery = q.Encode()
	return u.String()
}

// extractPageText walks the HTML tree collecting visible text, skipping
// script, style, and navigation chrome.
func extractPageText(body []byte) (title, text string, err error) {
	root, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return "", "", err
	}

	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "nav", "header", "footer":
				return
			case "title":
				if title == "" && n.FirstChild != nil {
					title = strings.TrimSpace(n.FirstChild.Data)
				}
				return
			}
		}
		if n.Type == html.TextNode {
			if t := strings.TrimSpace(n.Data); t != "" {
				sb.WriteString(t)
				sb.WriteString("\n")
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	return title, sb.String(), nil
}

var letterTitleRe = regexp.MustCompile(`(?i)^(.+?)\s+to\s+(.+?),`)

// inferMetadata derives document type and correspondents from the title.
// Lincoln-era catalog titles follow a "Sender to Recipient, Date" pattern
// for correspondence.
func inferMetadata(ms *model.RawManuscript) {
	lower := strings.ToLower(ms.Title)
	switch {
	case strings.Contains(lower, "telegram"):
		ms.DocumentType = "Telegram"
	case strings.Contains(lower, "letter") || letterTitleRe.MatchString(ms.Title):
		ms.DocumentType = "Letter"
	case strings.Contains(lower, "address") || strings.Contains(lower, "speech"):
		ms.DocumentType = "Speech"
	case strings.Contains(lower, "note") || strings.Contains(lower, "memorand"):
		ms.DocumentType = "Note"
	default:
		ms.DocumentType = "Manuscript"
	}

	if m := letterTitleRe.FindStringSubmatch(ms.Title); m != nil {
		ms.From = strings.TrimSpace(m[1])
		ms.To = strings.TrimSpace(m[2])
	}
}
