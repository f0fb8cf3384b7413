package model

// NormalizedDocument is the fixed record schema every scraped source is
// mapped into. Date keeps the precision of the source text; fields that a
// source does not provide stay empty.
type NormalizedDocument struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Reference    string `json:"reference"`
	DocumentType string `json:"document_type"`
	Date         string `json:"date,omitempty"`
	Place        string `json:"place,omitempty"`
	From         string `json:"from,omitempty"`
	To           string `json:"to,omitempty"`
	Content      string `json:"content"`
}

// RawBook is a scraped Project Gutenberg book before normalization
type RawBook struct {
	BookID string `json:"book_id"`
	Title  string `json:"title"`
	Author string `json:"author"`
	URL    string `json:"url"`
	Text   string `json:"text"`
}

// RawManuscript is a scraped Library of Congress document before normalization
type RawManuscript struct {
	URL          string `json:"url"`
	Title        string `json:"title"`
	DocumentType string `json:"document_type"`
	Date         string `json:"date,omitempty"`
	Place        string `json:"place,omitempty"`
	From         string `json:"from,omitempty"`
	To           string `json:"to,omitempty"`
	Content      string `json:"content"`
}
