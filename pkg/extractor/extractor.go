// Package extractor turns a fetched web page into normalized plain text
// suitable for a summarization prompt.
package extractor

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/dtnitsch/web-summarizer/models"
	"github.com/go-shiori/go-readability"
)

// MaxTextLength is the maximum number of characters Extract returns.
const MaxTextLength = 10000

// Mode selects how text is pulled out of the document.
type Mode string

const (
	// ModeBody takes all text inside <body>.
	ModeBody Mode = models.FetchModeBody
	// ModeReadability takes the text of the main article found by go-readability.
	ModeReadability Mode = models.FetchModeReadability
)

// Fetcher retrieves the raw document for a URL.
type Fetcher interface {
	GetHtmlBytes(ctx context.Context, url string) ([]byte, error)
}

type Extractor struct {
	fetcher Fetcher
	mode    Mode
}

func New(f Fetcher, mode Mode) *Extractor {
	if mode == "" {
		mode = ModeBody
	}
	return &Extractor{fetcher: f, mode: mode}
}

// Extract fetches rawURL and returns its normalized text. Every failure is a
// fetch error and no partial text is returned.
func (e *Extractor) Extract(ctx context.Context, rawURL string) (string, error) {
	html, err := e.fetcher.GetHtmlBytes(ctx, rawURL)
	if err != nil {
		return "", models.FetchError("fetch", err)
	}

	var text string
	switch e.mode {
	case ModeReadability:
		text, err = ReadableText(html, rawURL)
	default:
		text, err = BodyText(html)
	}
	if err != nil {
		return "", models.FetchError("parse", err)
	}
	return Normalize(text), nil
}

// BodyText returns the concatenated text content of the document body.
func BodyText(html []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}
	return doc.Find("body").Text(), nil
}

// ReadableText returns the text of the main article as identified by
// go-readability.
func ReadableText(html []byte, rawURL string) (string, error) {
	pageURL, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("failed to parse URL: %w", err)
	}
	parser := readability.NewParser()
	article, err := parser.Parse(bytes.NewReader(html), pageURL)
	if err != nil {
		return "", fmt.Errorf("readability: %w", err)
	}
	return article.TextContent, nil
}

// Normalize collapses runs of whitespace into single spaces, trims the ends
// and truncates to MaxTextLength characters.
func Normalize(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	return truncate(s, MaxTextLength)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
