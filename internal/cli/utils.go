// Package cli provides output formatting for wyvern's command-line tools.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hyperjump/wyvern/internal/model"
)

// SearchOutputFormat is the format for search result output.
type SearchOutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText SearchOutputFormat = "text"
	// OutputCompact is one result per line (compact text).
	OutputCompact SearchOutputFormat = "compact"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON SearchOutputFormat = "json"
)

// WriteSearchResults writes search results to w in the given format.
// Use OutputJSON for parseable output consumable by other apps.
func WriteSearchResults(w io.Writer, response *model.SearchResponse, format SearchOutputFormat) error {
	switch format {
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(response)
	case OutputCompact:
		writeSearchResultsCompact(w, response)
		return nil
	default:
		writeSearchResultsText(w, response)
		return nil
	}
}

func writeSearchResultsText(w io.Writer, response *model.SearchResponse) {
	fmt.Fprintf(w, "\nFound %d results\n\n", len(response.Webpages))
	if response.NumDocs != nil {
		fmt.Fprintf(w, "(%d documents in the index)\n\n", *response.NumDocs)
	}
	for _, wp := range response.Webpages {
		writeOneResult(w, wp)
	}
}

func writeOneResult(w io.Writer, wp *model.RetrievedWebpage) {
	fmt.Fprintf(w, "─────────────────────────────────────────────────────────\n")
	fmt.Fprintf(w, "URL: %s\n", wp.URL)
	if wp.Title != "" {
		fmt.Fprintf(w, "Title: %s\n", wp.Title)
	}
	fmt.Fprintf(w, "\n%s\n", Truncate(wp.Snippet, 200))
	fmt.Fprintln(w)
}

// writeSearchResultsCompact writes one result per line (rank, url, title or snippet).
func writeSearchResultsCompact(w io.Writer, response *model.SearchResponse) {
	fmt.Fprintf(w, "Found %d results\n", len(response.Webpages))
	for i, wp := range response.Webpages {
		writeOneResultCompact(w, i+1, wp)
	}
}

func writeOneResultCompact(w io.Writer, rank int, wp *model.RetrievedWebpage) {
	label := SanitizeForLine(wp.Title)
	if label == "" {
		label = Truncate(SanitizeForLine(wp.Snippet), 80)
	}
	fmt.Fprintf(w, "#%d %s | %s\n", rank, wp.URL, label)
}

// SanitizeForLine replaces newlines and tabs with spaces for single-line output.
func SanitizeForLine(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "\t", " "))
}

// PrintSearchResults prints search results to stdout in text format.
func PrintSearchResults(response *model.SearchResponse) {
	_ = WriteSearchResults(os.Stdout, response, OutputText)
}

// Truncate truncates s to maxLen and appends "..." if truncated.
func Truncate(s string, maxLen int) string {
	if maxLen <= 0 || len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

// TruncateWords returns up to maxWords from the space-separated string.
func TruncateWords(s string, maxWords int) string {
	words := strings.Fields(s)
	if len(words) <= maxWords {
		return s
	}
	return strings.Join(words[:maxWords], " ") + "..."
}
